package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	admin "github.com/goliatone/go-cms-admin"
	"github.com/goliatone/go-cms-admin/cmd/admin/internal/bootstrap"
	"github.com/goliatone/go-cms-admin/internal/analytics"
	"github.com/goliatone/go-cms-admin/internal/domain"
	"github.com/goliatone/go-cms-admin/internal/listing"
	"github.com/goliatone/go-cms-admin/internal/site"
)

var moduleBuilder = bootstrap.BuildModule

const usage = `usage: admin [-config file] [-base-url url] [-demo] <command> [flags]

commands:
  login -email e [-password p]      authenticate (password defaults to $ADMIN_PASSWORD)
  logout                            end the session
  whoami                            show the authenticated administrator
  list <resource> [-search q] [-page n] [-status s]
  delete <resource> <id> [-yes]     delete after confirmation
  toggle-slide -section n <id> [-active=false]
  overview [-period p] [-watch]     analytics dashboard
  import-article [-user n] <file.md>
  blog [-category c]                public blog index

resources: contacts, services, formations, partenaires, hero-sections, articles`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		log.Fatalf("admin: %v", err)
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("admin", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	configPath := fs.String("config", "", "Path to a YAML config file")
	baseURL := fs.String("base-url", "", "Override the API base URL")
	demo := fs.Bool("demo", false, "Enable demo data fallbacks")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w\n%s", err, usage)
	}
	rest := fs.Args()
	if len(rest) == 0 {
		return errors.New(usage)
	}

	opts := bootstrap.Options{ConfigPath: *configPath, BaseURL: *baseURL}
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "demo" {
			opts.DemoMode = demo
		}
	})
	module, err := moduleBuilder(opts)
	if err != nil {
		return fmt.Errorf("bootstrap module: %w", err)
	}
	defer module.Close()

	cmdErr := dispatch(ctx, module, rest[0], rest[1:], out)
	printNotifications(module, out)
	return cmdErr
}

func dispatch(ctx context.Context, m *admin.Module, name string, args []string, out io.Writer) error {
	switch name {
	case "login":
		return runLogin(ctx, m, args, out)
	case "logout":
		if err := m.Session().Logout(ctx); err != nil {
			return err
		}
		fmt.Fprintln(out, "Déconnecté")
		return nil
	case "whoami":
		return runWhoami(ctx, m, out)
	case "list":
		return runList(ctx, m, args, out)
	case "delete":
		return runDelete(ctx, m, args, out)
	case "toggle-slide":
		return runToggleSlide(ctx, m, args, out)
	case "overview":
		return runOverview(ctx, m, args, out)
	case "import-article":
		return runImportArticle(ctx, m, args, out)
	case "blog":
		return runBlog(ctx, m, args, out)
	}
	return fmt.Errorf("unknown command %q\n%s", name, usage)
}

// parseInterleaved accepts flags before and after positional arguments.
func parseInterleaved(fs *flag.FlagSet, args []string) ([]string, error) {
	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		args = fs.Args()
		if len(args) == 0 {
			return positional, nil
		}
		positional = append(positional, args[0])
		args = args[1:]
	}
}

func runLogin(ctx context.Context, m *admin.Module, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	email := fs.String("email", "", "Administrator email")
	password := fs.String("password", os.Getenv("ADMIN_PASSWORD"), "Administrator password")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if strings.TrimSpace(*email) == "" || *password == "" {
		return errors.New("login requires -email and a password")
	}
	tokens, err := m.Session().Login(ctx, *email, *password)
	if err != nil {
		return err
	}
	if tokens.User != nil {
		fmt.Fprintf(out, "Connecté en tant que %s\n", tokens.User.FullName())
		return nil
	}
	fmt.Fprintln(out, "Connecté")
	return nil
}

func runWhoami(ctx context.Context, m *admin.Module, out io.Writer) error {
	user, err := m.Session().CurrentUser(ctx)
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "id\t%d\n", user.ID)
	fmt.Fprintf(w, "nom\t%s\n", user.FullName())
	fmt.Fprintf(w, "email\t%s\n", user.Email)
	fmt.Fprintf(w, "role\t%s\n", user.Role)
	return w.Flush()
}

func runList(ctx context.Context, m *admin.Module, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	search := fs.String("search", "", "Filter query")
	page := fs.Int("page", 1, "Page number")
	status := fs.String("status", "", "Articles only: draft, scheduled or published")
	positional, err := parseInterleaved(fs, args)
	if err != nil {
		return err
	}
	if len(positional) != 1 {
		return errors.New("list requires a resource")
	}

	switch resourceName(positional[0]) {
	case domain.ResourceContacts:
		s := m.Contacts()
		if err := s.Load(ctx); err != nil {
			return err
		}
		s.Search(*search)
		stats := s.Stats()
		fmt.Fprintf(out, "%d messages, %d répondus, %d en attente\n", stats.Total, stats.Replied, stats.Pending)
		return printWindow(out, s.GoToPage(*page), []string{"ID", "NOM", "EMAIL", "SUJET", "RÉPONDU"}, func(c domain.Contact) []string {
			return []string{strconv.Itoa(c.ID), c.Nom, c.Email, c.Sujet, yesNo(c.Replied())}
		})
	case domain.ResourceServices:
		s := m.Services()
		if err := s.Load(ctx); err != nil {
			return err
		}
		s.Search(*search)
		return printWindow(out, s.GoToPage(*page), []string{"ID", "NOM", "CATÉGORIE", "TARIF", "DURÉE"}, func(v domain.Service) []string {
			return []string{strconv.Itoa(v.ID), v.Nom, v.Categorie, string(v.Tarif), string(v.Duree)}
		})
	case domain.ResourceFormations:
		s := m.Formations()
		if strings.TrimSpace(*search) != "" {
			if _, err := s.SearchRemote(ctx, *search); err != nil {
				return err
			}
		} else if err := s.Load(ctx); err != nil {
			return err
		}
		return printWindow(out, s.GoToPage(*page), []string{"ID", "NOM", "DURÉE", "TARIF"}, func(f domain.Formation) []string {
			return []string{strconv.Itoa(f.ID), f.Nom, string(f.Duree), string(f.Tarif)}
		})
	case domain.ResourcePartners:
		s := m.Partners()
		if err := s.Load(ctx); err != nil {
			return err
		}
		s.Search(*search)
		return printWindow(out, s.GoToPage(*page), []string{"ID", "NOM", "DESCRIPTION"}, func(p domain.Partner) []string {
			return []string{strconv.Itoa(p.ID), p.Nom, site.Excerpt(p.Description, 60)}
		})
	case domain.ResourceHeroSections:
		s := m.HeroSections()
		if err := s.Load(ctx); err != nil {
			return err
		}
		s.Search(*search)
		return printWindow(out, s.GoToPage(*page), []string{"ID", "ACTIVE", "SLIDES"}, func(h domain.HeroSection) []string {
			return []string{strconv.Itoa(h.ID), yesNo(bool(h.IsActive)), strconv.Itoa(h.Count())}
		})
	case domain.ResourceArticles:
		s := m.Articles()
		if err := s.Load(ctx); err != nil {
			return err
		}
		s.Search(*search)
		window := s.GoToPage(*page)
		now := time.Now()
		if *status != "" {
			state, ok := domain.NormalizePublicationState(*status)
			if !ok {
				return fmt.Errorf("unknown status %q", *status)
			}
			var matching []domain.Article
			for _, a := range listing.Filter(s.View().Store().Items(), *search, domain.ArticleFields) {
				if a.PublicationState(now) == state {
					matching = append(matching, a)
				}
			}
			window = listing.Page(matching, *page, s.View().PerPage())
		}
		return printWindow(out, window, []string{"ID", "TITRE", "SLUG", "PUBLICATION", "ÉTAT"}, func(a domain.Article) []string {
			return []string{strconv.Itoa(a.ID), a.Titre, a.Slug, site.FormatDate(a.DatePublication), string(a.PublicationState(now))}
		})
	}
	return fmt.Errorf("unknown resource %q", positional[0])
}

// deletable is the confirmation flow shared by every screen.
type deletable interface {
	Load(ctx context.Context) error
	AskDelete(id int)
	CancelDelete() bool
	ConfirmDelete(ctx context.Context) error
}

func runDelete(ctx context.Context, m *admin.Module, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("delete", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	yes := fs.Bool("yes", false, "Confirm the deletion")
	positional, err := parseInterleaved(fs, args)
	if err != nil {
		return err
	}
	if len(positional) != 2 {
		return errors.New("delete requires a resource and an id")
	}
	id, err := strconv.Atoi(positional[1])
	if err != nil {
		return fmt.Errorf("invalid id %q", positional[1])
	}

	var screen deletable
	switch resourceName(positional[0]) {
	case domain.ResourceContacts:
		screen = m.Contacts()
	case domain.ResourceServices:
		screen = m.Services()
	case domain.ResourceFormations:
		screen = m.Formations()
	case domain.ResourcePartners:
		screen = m.Partners()
	case domain.ResourceHeroSections:
		screen = m.HeroSections()
	case domain.ResourceArticles:
		screen = m.Articles()
	default:
		return fmt.Errorf("unknown resource %q", positional[0])
	}
	if err := screen.Load(ctx); err != nil {
		return err
	}
	screen.AskDelete(id)
	if !*yes {
		screen.CancelDelete()
		fmt.Fprintf(out, "Suppression de %s #%d annulée, relancer avec -yes pour confirmer\n", positional[0], id)
		return nil
	}
	return screen.ConfirmDelete(ctx)
}

func runToggleSlide(ctx context.Context, m *admin.Module, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("toggle-slide", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	section := fs.Int("section", 0, "Hero section id")
	active := fs.Bool("active", true, "Target state")
	positional, err := parseInterleaved(fs, args)
	if err != nil {
		return err
	}
	if len(positional) != 1 || *section <= 0 {
		return errors.New("toggle-slide requires -section and a slide id")
	}
	id, err := strconv.Atoi(positional[0])
	if err != nil {
		return fmt.Errorf("invalid slide id %q", positional[0])
	}
	hero := m.HeroSections()
	if err := hero.LoadSlides(ctx, *section); err != nil {
		return err
	}
	slide, err := hero.ToggleSlide(ctx, id, *active)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Slide #%d « %s » active=%s\n", slide.ID, slide.Title, yesNo(bool(slide.IsActive)))
	return nil
}

func runOverview(ctx context.Context, m *admin.Module, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("overview", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	period := fs.String("period", "", "today, week, month or year")
	watch := fs.Bool("watch", false, "Keep polling realtime stats")
	if err := fs.Parse(args); err != nil {
		return err
	}
	overview := m.Overview()
	var err error
	if *period != "" {
		err = overview.SetPeriod(ctx, *period)
	} else {
		err = overview.Refresh(ctx)
	}
	if err != nil {
		return err
	}
	if err := printOverview(out, overview.Snapshot()); err != nil {
		return err
	}
	if !*watch {
		return nil
	}
	if err := overview.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func printOverview(out io.Writer, snap analytics.Snapshot) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "période\t%s\n", snap.Period)
	fmt.Fprintf(w, "visiteurs\t%d\n", snap.Stats.TotalVisitors)
	fmt.Fprintf(w, "visiteurs uniques\t%d\n", snap.Stats.UniqueVisitors)
	fmt.Fprintf(w, "pages vues\t%d\n", snap.Stats.PageViews)
	fmt.Fprintf(w, "actifs\t%d\n", snap.Realtime.ActiveVisitors)
	fmt.Fprintf(w, "dernière heure\t%d\n", snap.Realtime.VisitorsLastHour)
	for _, page := range snap.Stats.TopPages {
		fmt.Fprintf(w, "  %s\t%d\n", page.Page, page.Views)
	}
	return w.Flush()
}

func runImportArticle(ctx context.Context, m *admin.Module, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("import-article", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	userID := fs.Int("user", 0, "Author user id (defaults to the current user)")
	positional, err := parseInterleaved(fs, args)
	if err != nil {
		return err
	}
	if len(positional) != 1 {
		return errors.New("import-article requires a markdown file")
	}
	author := *userID
	if author <= 0 {
		user, err := m.Session().CurrentUser(ctx)
		if err != nil {
			return fmt.Errorf("resolve author: %w", err)
		}
		author = user.ID
	}
	path := positional[0]
	article, err := m.Articles().ImportMarkdown(ctx, os.DirFS(filepath.Dir(path)), filepath.Base(path), author)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Article #%d « %s » importé (%s)\n", article.ID, article.Titre, article.Slug)
	return nil
}

func runBlog(ctx context.Context, m *admin.Module, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("blog", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	category := fs.String("category", site.CategoryAll, "Category filter")
	if err := fs.Parse(args); err != nil {
		return err
	}
	index, err := m.Site().Blog(ctx, *category)
	if err != nil {
		return err
	}
	if index.Featured == nil {
		fmt.Fprintln(out, "Aucun article")
		return nil
	}
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITRE\tCATÉGORIE\tLECTURE\tDATE")
	for _, article := range append([]domain.Article{*index.Featured}, index.Others...) {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", article.ID, article.Titre, site.Category(article),
			site.ReadingTimeLabel(article.Contenu), site.FormatDate(article.DatePublication))
	}
	return w.Flush()
}

func printWindow[T any](out io.Writer, window listing.Window[T], header []string, row func(T) []string) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, strings.Join(header, "\t"))
	for _, item := range window.Items {
		fmt.Fprintln(w, strings.Join(row(item), "\t"))
	}
	if err := w.Flush(); err != nil {
		return err
	}
	if window.Total == 0 {
		_, err := fmt.Fprintln(out, "Aucun résultat")
		return err
	}
	_, err := fmt.Fprintf(out, "%d-%d sur %d, page %d/%d\n", window.Start, window.End, window.Total, window.CurrentPage, window.TotalPages)
	return err
}

func printNotifications(m *admin.Module, out io.Writer) {
	for _, n := range m.Notifications().Snapshot() {
		fmt.Fprintf(out, "[%s] %s\n", n.Kind, n.Message)
	}
}

func resourceName(name string) string {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "partners", "partenaires":
		return domain.ResourcePartners
	case "articles", "article-blogs", "blog":
		return domain.ResourceArticles
	case "hero", "hero-sections":
		return domain.ResourceHeroSections
	}
	return strings.ToLower(strings.TrimSpace(name))
}

func yesNo(v bool) string {
	if v {
		return "oui"
	}
	return "non"
}
