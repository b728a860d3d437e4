package domain

// Resource names as they appear in API paths.
const (
	ResourceContacts     = "contacts"
	ResourceServices     = "services"
	ResourceFormations   = "formations"
	ResourcePartners     = "partenaires"
	ResourceHeroSections = "hero-sections"
	ResourceHeroSlides   = "hero-slides"
	ResourceArticles     = "article-blogs"
)

type Contact struct {
	ID        int    `json:"id"`
	Nom       string `json:"nom"`
	Email     string `json:"email"`
	Telephone string `json:"telephone,omitempty"`
	Sujet     string `json:"sujet"`
	Message   string `json:"message"`
	Reponse   string `json:"reponse,omitempty"`
	Timestamps
}

func (c Contact) EntityID() int { return c.ID }

// Replied reports whether an answer was recorded.
func (c Contact) Replied() bool { return c.Reponse != "" }

type Service struct {
	ID          int    `json:"id"`
	Nom         string `json:"nom"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
	Categorie   string `json:"categorie"`
	Tarif       Text   `json:"tarif"`
	Duree       Text   `json:"duree"`
	Image       string `json:"image,omitempty"`
	Timestamps
}

func (s Service) EntityID() int { return s.ID }

type Formation struct {
	ID          int    `json:"id"`
	Nom         string `json:"nom"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
	Duree       Text   `json:"duree"`
	Tarif       Text   `json:"tarif"`
	Image       string `json:"image,omitempty"`
	Timestamps
}

func (f Formation) EntityID() int { return f.ID }

type Partner struct {
	ID          int    `json:"id"`
	Nom         string `json:"nom"`
	Description string `json:"description,omitempty"`
	Image       string `json:"image,omitempty"`
	Timestamps
}

func (p Partner) EntityID() int { return p.ID }

type HeroSection struct {
	ID           int         `json:"id"`
	IsActive     Flag        `json:"is_active"`
	Slides       []HeroSlide `json:"slides"`
	ActiveSlides []HeroSlide `json:"active_slides"`
	SlidesCount  *int        `json:"slides_count"`
	Timestamps
}

func (h HeroSection) EntityID() int { return h.ID }

// Count prefers the server count and falls back to the embedded slides.
func (h HeroSection) Count() int {
	if h.SlidesCount != nil {
		return *h.SlidesCount
	}
	return len(h.Slides)
}

// DefaultSlideDuration is the display time of a slide in milliseconds.
const DefaultSlideDuration = 5000

type HeroSlide struct {
	ID              int    `json:"id"`
	HeroSectionID   int    `json:"hero_section_id"`
	SlideOrder      int    `json:"slide_order"`
	Title           string `json:"title"`
	Subtitle        string `json:"subtitle"`
	Description     string `json:"description"`
	Gradient        string `json:"gradient"`
	BackgroundImage string `json:"background_image,omitempty"`
	SlideDuration   int    `json:"slide_duration"`
	IsActive        Flag   `json:"is_active"`
	Timestamps
}

func (s HeroSlide) EntityID() int { return s.ID }

type Article struct {
	ID              int    `json:"id"`
	UserID          int    `json:"user_id"`
	Titre           string `json:"titre"`
	TitreEN         string `json:"titre_en,omitempty"`
	Contenu         string `json:"contenu"`
	ContenuEN       string `json:"contenu_en,omitempty"`
	MetaTitre       string `json:"meta_titre,omitempty"`
	MetaDescription string `json:"meta_description,omitempty"`
	Slug            string `json:"slug"`
	Image           string `json:"image,omitempty"`
	DatePublication string `json:"date_publication,omitempty"`
	Timestamps
}

func (a Article) EntityID() int { return a.ID }

// User is the authenticated administrator returned by GET /user.
type User struct {
	ID     int    `json:"id"`
	Prenom string `json:"prenom"`
	Nom    string `json:"nom"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	Avatar string `json:"avatar,omitempty"`
	Timestamps
}

func (u User) FullName() string {
	switch {
	case u.Prenom == "":
		return u.Nom
	case u.Nom == "":
		return u.Prenom
	}
	return u.Prenom + " " + u.Nom
}

type Visitor struct {
	ID          int    `json:"id"`
	IPAddress   string `json:"ip_address"`
	UserAgent   string `json:"user_agent,omitempty"`
	PageVisited string `json:"page_visited"`
	Country     string `json:"country,omitempty"`
	City        string `json:"city,omitempty"`
	Timestamps
}

func (v Visitor) EntityID() int { return v.ID }

type PageViews struct {
	Page  string `json:"page"`
	Views int    `json:"views"`
}

type CountryCount struct {
	Country string `json:"country"`
	Count   int    `json:"count"`
}

type DailyVisitors struct {
	Date     string `json:"date"`
	Visitors int    `json:"visitors"`
}

type AnalyticsData struct {
	TotalVisitors      int             `json:"total_visitors"`
	UniqueVisitors     int             `json:"unique_visitors"`
	PageViews          int             `json:"page_views"`
	VisitorsToday      int             `json:"visitors_today"`
	VisitorsThisWeek   int             `json:"visitors_this_week"`
	VisitorsThisMonth  int             `json:"visitors_this_month"`
	TopPages           []PageViews     `json:"top_pages"`
	VisitorsByCountry  []CountryCount  `json:"visitors_by_country"`
	DailyVisitorCounts []DailyVisitors `json:"daily_visitors"`
}

type RealtimeStats struct {
	ActiveVisitors   int         `json:"active_visitors"`
	VisitorsLastHour int         `json:"visitors_last_hour"`
	TopCurrentPages  []PageViews `json:"top_current_pages"`
}

// PageMeta is the pagination block of the visitors endpoint.
type PageMeta struct {
	CurrentPage int `json:"current_page"`
	LastPage    int `json:"last_page"`
	PerPage     int `json:"per_page"`
	Total       int `json:"total"`
}
