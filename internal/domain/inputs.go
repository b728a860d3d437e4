package domain

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/goliatone/go-cms-admin/internal/remote"
)

const (
	serviceSaveMessageType     = "admin.services.save"
	formationSaveMessageType   = "admin.formations.save"
	partnerSaveMessageType     = "admin.partners.save"
	sectionSaveMessageType     = "admin.hero_sections.save"
	slideSaveMessageType       = "admin.hero_slides.save"
	articleSaveMessageType     = "admin.articles.save"
	contactReplyMessageType    = "admin.contacts.reply"
	minSlideDescriptionLength  = 10
	requiredFieldErrorCodeRoot = "admin.validation."
)

func required(errs validation.Errors, field, value, message string) {
	if strings.TrimSpace(value) == "" {
		errs[field] = validation.NewError(requiredFieldErrorCodeRoot+field+"_required", message)
	}
}

// attach names the upload after field unless the caller already did.
func attach(p *remote.Payload, file *remote.File, field string) *remote.Payload {
	if file == nil || file.Contents == nil {
		return p
	}
	if file.Field == "" {
		copied := *file
		copied.Field = field
		file = &copied
	}
	return p.Attach(file)
}

func result(errs validation.Errors) error {
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ServiceInput is the create/update form of a service.
type ServiceInput struct {
	Nom         string
	Slug        string
	Description string
	Categorie   string
	Tarif       string
	Duree       string
	Image       *remote.File
}

func (ServiceInput) Type() string { return serviceSaveMessageType }

// Normalize trims fields and derives a missing slug from the name.
func (in ServiceInput) Normalize() ServiceInput {
	in.Nom = strings.TrimSpace(in.Nom)
	in.Description = strings.TrimSpace(in.Description)
	in.Categorie = strings.TrimSpace(in.Categorie)
	in.Slug = SlugFor(in.Slug, in.Nom)
	return in
}

func (in ServiceInput) Validate() error {
	errs := validation.Errors{}
	required(errs, "nom", in.Nom, "Le nom du service est requis")
	required(errs, "description", in.Description, "La description est requise")
	required(errs, "categorie", in.Categorie, "La catégorie est requise")
	required(errs, "slug", in.Slug, "Le slug est requis")
	return result(errs)
}

func (in ServiceInput) Payload() *remote.Payload {
	p := remote.NewPayload().
		Set("nom", in.Nom).
		Set("slug", in.Slug).
		Set("description", in.Description).
		Set("categorie", in.Categorie).
		Set("tarif", strings.TrimSpace(in.Tarif)).
		Set("duree", strings.TrimSpace(in.Duree))
	return attach(p, in.Image, "image")
}

type FormationInput struct {
	Nom         string
	Slug        string
	Description string
	Duree       string
	Tarif       string
	Image       *remote.File
}

func (FormationInput) Type() string { return formationSaveMessageType }

func (in FormationInput) Normalize() FormationInput {
	in.Nom = strings.TrimSpace(in.Nom)
	in.Description = strings.TrimSpace(in.Description)
	in.Slug = SlugFor(in.Slug, in.Nom)
	return in
}

func (in FormationInput) Validate() error {
	errs := validation.Errors{}
	required(errs, "nom", in.Nom, "Le nom de la formation est requis")
	required(errs, "description", in.Description, "La description est requise")
	required(errs, "slug", in.Slug, "Le slug est requis")
	return result(errs)
}

func (in FormationInput) Payload() *remote.Payload {
	p := remote.NewPayload().
		Set("nom", in.Nom).
		Set("slug", in.Slug).
		Set("description", in.Description).
		Set("duree", strings.TrimSpace(in.Duree)).
		Set("tarif", strings.TrimSpace(in.Tarif))
	return attach(p, in.Image, "image")
}

type PartnerInput struct {
	Nom         string
	Description string
	Image       *remote.File
}

func (PartnerInput) Type() string { return partnerSaveMessageType }

func (in PartnerInput) Normalize() PartnerInput {
	in.Nom = strings.TrimSpace(in.Nom)
	in.Description = strings.TrimSpace(in.Description)
	return in
}

func (in PartnerInput) Validate() error {
	errs := validation.Errors{}
	required(errs, "nom", in.Nom, "Le nom du partenaire est requis")
	required(errs, "description", in.Description, "La description est requise")
	return result(errs)
}

func (in PartnerInput) Payload() *remote.Payload {
	p := remote.NewPayload().
		Set("nom", in.Nom).
		Set("description", in.Description)
	return attach(p, in.Image, "image")
}

type HeroSectionInput struct {
	IsActive bool
}

func (HeroSectionInput) Type() string { return sectionSaveMessageType }

func (in HeroSectionInput) Normalize() HeroSectionInput { return in }

func (HeroSectionInput) Validate() error { return nil }

func (in HeroSectionInput) Payload() *remote.Payload {
	return remote.NewPayload().SetBool("is_active", in.IsActive)
}

// HeroSlideInput is the slide form. HeroSectionID is required on create and
// ignored by the API on update.
type HeroSlideInput struct {
	HeroSectionID   int
	SlideOrder      int
	Title           string
	Subtitle        string
	Description     string
	Gradient        string
	SlideDuration   int
	IsActive        bool
	BackgroundImage *remote.File
}

func (HeroSlideInput) Type() string { return slideSaveMessageType }

func (in HeroSlideInput) Normalize() HeroSlideInput {
	in.Title = strings.TrimSpace(in.Title)
	in.Subtitle = strings.TrimSpace(in.Subtitle)
	in.Description = strings.TrimSpace(in.Description)
	if in.SlideDuration <= 0 {
		in.SlideDuration = DefaultSlideDuration
	}
	return in
}

func (in HeroSlideInput) Validate() error {
	errs := validation.Errors{}
	if in.HeroSectionID <= 0 {
		errs["hero_section_id"] = validation.NewError(requiredFieldErrorCodeRoot+"hero_section_id_required", "Une section hero est requise")
	}
	required(errs, "title", in.Title, "Le titre est requis")
	required(errs, "subtitle", in.Subtitle, "Le sous-titre est requis")
	required(errs, "description", in.Description, "La description est requise")
	if _, ok := errs["description"]; !ok && len([]rune(strings.TrimSpace(in.Description))) < minSlideDescriptionLength {
		errs["description"] = validation.NewError(requiredFieldErrorCodeRoot+"description_too_short", "La description doit contenir au moins 10 caractères")
	}
	if in.SlideOrder < 1 {
		errs["slide_order"] = validation.NewError(requiredFieldErrorCodeRoot+"slide_order_invalid", "L'ordre doit être supérieur ou égal à 1")
	}
	return result(errs)
}

func (in HeroSlideInput) Payload() *remote.Payload {
	p := remote.NewPayload()
	if in.HeroSectionID > 0 {
		p.SetInt("hero_section_id", in.HeroSectionID)
	}
	p.SetInt("slide_order", in.SlideOrder).
		Set("title", in.Title).
		Set("subtitle", in.Subtitle).
		Set("description", in.Description).
		Set("gradient", in.Gradient).
		SetInt("slide_duration", in.SlideDuration).
		SetBool("is_active", in.IsActive)
	return attach(p, in.BackgroundImage, "background_image")
}

// SlideInputFrom copies a stored slide into a form, e.g. to flip is_active.
func SlideInputFrom(s HeroSlide) HeroSlideInput {
	return HeroSlideInput{
		HeroSectionID: s.HeroSectionID,
		SlideOrder:    s.SlideOrder,
		Title:         s.Title,
		Subtitle:      s.Subtitle,
		Description:   s.Description,
		Gradient:      s.Gradient,
		SlideDuration: s.SlideDuration,
		IsActive:      bool(s.IsActive),
	}
}

type ArticleInput struct {
	UserID          int
	Titre           string
	TitreEN         string
	Contenu         string
	ContenuEN       string
	MetaTitre       string
	MetaDescription string
	Slug            string
	DatePublication string
	Image           *remote.File
}

func (ArticleInput) Type() string { return articleSaveMessageType }

func (in ArticleInput) Normalize() ArticleInput {
	in.Titre = strings.TrimSpace(in.Titre)
	in.Contenu = strings.TrimSpace(in.Contenu)
	in.Slug = SlugFor(in.Slug, in.Titre)
	return in
}

func (in ArticleInput) Validate() error {
	errs := validation.Errors{}
	required(errs, "titre", in.Titre, "Le titre est requis")
	required(errs, "contenu", in.Contenu, "Le contenu est requis")
	required(errs, "slug", in.Slug, "Le slug est requis")
	if in.UserID <= 0 {
		errs["user_id"] = validation.NewError(requiredFieldErrorCodeRoot+"user_id_required", "L'auteur est requis")
	}
	return result(errs)
}

func (in ArticleInput) Payload() *remote.Payload {
	p := remote.NewPayload().
		SetInt("user_id", in.UserID).
		Set("titre", in.Titre).
		SetOptional("titre_en", in.TitreEN).
		Set("contenu", in.Contenu).
		SetOptional("contenu_en", in.ContenuEN).
		SetOptional("meta_titre", in.MetaTitre).
		SetOptional("meta_description", in.MetaDescription).
		Set("slug", in.Slug).
		SetOptional("date_publication", in.DatePublication)
	return attach(p, in.Image, "image")
}

// ContactReply answers a contact message.
type ContactReply struct {
	Reponse string
}

func (ContactReply) Type() string { return contactReplyMessageType }

func (in ContactReply) Normalize() ContactReply {
	in.Reponse = strings.TrimSpace(in.Reponse)
	return in
}

func (in ContactReply) Validate() error {
	errs := validation.Errors{}
	required(errs, "reponse", in.Reponse, "Veuillez saisir une réponse.")
	return result(errs)
}

func (in ContactReply) Payload() *remote.Payload {
	return remote.NewPayload().Set("reponse", in.Reponse)
}
