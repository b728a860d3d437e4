package screens

import (
	"context"
	"errors"
	"slices"
	"strconv"
	"sync"

	"github.com/goliatone/go-cms-admin/internal/commands"
	"github.com/goliatone/go-cms-admin/internal/domain"
	"github.com/goliatone/go-cms-admin/internal/listing"
	"github.com/goliatone/go-cms-admin/internal/reconcile"
	"github.com/goliatone/go-cms-admin/internal/remote"
)

const (
	slidesScope   = "section"
	activeSection = "active"
)

// ErrReorderInFlight is returned when a reorder is already running.
var ErrReorderInFlight = errors.New("screens: slide reorder already in flight")

// HeroSections manages the homepage hero sections and the slides of the
// selected section. Slides live in their own store, loaded per section.
type HeroSections struct {
	*Screen[domain.HeroSection, domain.HeroSectionInput]

	slides     *remote.Resource[domain.HeroSlide]
	slideView  *listing.View[domain.HeroSlide]
	slideRec   *reconcile.Reconciler[domain.HeroSlide, domain.HeroSlideInput]
	demo       bool
	mu         sync.Mutex
	selected   int
	reordering bool
}

func NewHeroSections(deps Deps) *HeroSections {
	h := &HeroSections{demo: deps.DemoMode}
	h.Screen = newScreen(deps, domain.ResourceHeroSections, screenConfig[domain.HeroSection, domain.HeroSectionInput]{
		fields: domain.HeroSectionFields,
		label:  func(s domain.HeroSection) string { return "Section #" + strconv.Itoa(s.ID) },
		reconcile: []reconcile.Option[domain.HeroSection, domain.HeroSectionInput]{
			reconcile.WithToggleActions[domain.HeroSection, domain.HeroSectionInput]("activate", "deactivate"),
			reconcile.WithMessages[domain.HeroSection, domain.HeroSectionInput](reconcile.Messages{
				Created:     "Section hero créée avec succès",
				Updated:     "Section hero mise à jour avec succès",
				Deleted:     "Section hero supprimée avec succès",
				Activated:   "Section hero activée",
				Deactivated: "Section hero désactivée",
			}),
		},
	})

	h.slides = remote.NewResource[domain.HeroSlide](deps.Client, domain.ResourceHeroSlides)
	store := listing.NewStore[domain.HeroSlide]()
	h.slideView = listing.NewView(store, domain.HeroSlideFields, deps.ItemsPerPage)
	h.slideRec = reconcile.New(domain.ResourceHeroSlides, store, h.slides, deps.Notifier,
		reconcile.WithLogger[domain.HeroSlide, domain.HeroSlideInput](h.logger),
		reconcile.WithCommandLogger[domain.HeroSlide, domain.HeroSlideInput](commands.CommandLogger(deps.LoggerProvider, domain.ResourceHeroSlides)),
		reconcile.WithToggleActions[domain.HeroSlide, domain.HeroSlideInput]("activate", "deactivate"),
		reconcile.WithMessages[domain.HeroSlide, domain.HeroSlideInput](reconcile.Messages{
			Created:     "Slide hero créé avec succès",
			Updated:     "Slide hero mis à jour avec succès",
			Deleted:     "Slide hero supprimé avec succès",
			Activated:   "Slide activé",
			Deactivated: "Slide désactivé",
		}),
		reconcile.WithOnSuccess[domain.HeroSlide, domain.HeroSlideInput](h.slideChanged),
	)
	return h
}

func (h *HeroSections) CreateSection(ctx context.Context, in domain.HeroSectionInput) (domain.HeroSection, error) {
	return h.Create(ctx, in)
}

func (h *HeroSections) ToggleSection(ctx context.Context, id int, active bool) (domain.HeroSection, error) {
	return h.Reconciler().Toggle(ctx, id, active)
}

// AskDeleteSection opens the prompt. Slides of the section are removed by
// the server, never locally.
func (h *HeroSections) AskDeleteSection(id int) { h.AskDelete(id) }

func (h *HeroSections) ConfirmDeleteSection(ctx context.Context) error {
	return h.ConfirmDelete(ctx)
}

// ActiveSection fetches GET /hero-sections/active. With demo mode on, a
// failed call yields an empty placeholder section instead of an error.
func (h *HeroSections) ActiveSection(ctx context.Context) (domain.HeroSection, error) {
	section, err := h.Resource().Fetch(ctx, activeSection)
	if err == nil {
		return section, nil
	}
	if !h.demo {
		h.logger.Error("hero_sections.active.failed", "error", err)
		return section, err
	}
	h.logger.Warn("hero_sections.active.demo_fallback", "error", err)
	zero := 0
	return domain.HeroSection{
		ID:           1,
		IsActive:     true,
		Slides:       []domain.HeroSlide{},
		ActiveSlides: []domain.HeroSlide{},
		SlidesCount:  &zero,
	}, nil
}

// LoadSlides selects sectionID and loads its slides,
// GET /hero-slides/section/{id}.
func (h *HeroSections) LoadSlides(ctx context.Context, sectionID int) error {
	load := func(ctx context.Context) ([]domain.HeroSlide, error) {
		return h.slides.NestedList(ctx, slidesScope, sectionID)
	}
	if err := h.slideView.Store().Load(ctx, load); err != nil {
		h.logger.Error("hero_slides.load.failed", "section_id", sectionID, "error", err)
		h.fail(reconcile.MessageOr(err, "Erreur lors du chargement des slides"))
		return err
	}
	h.mu.Lock()
	h.selected = sectionID
	h.mu.Unlock()
	h.slideView.SetQuery("")
	return nil
}

// SelectedSection is the section whose slides are loaded, 0 when none.
func (h *HeroSections) SelectedSection() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.selected
}

func (h *HeroSections) Slides() *listing.View[domain.HeroSlide] { return h.slideView }

func (h *HeroSections) SlideReconciler() *reconcile.Reconciler[domain.HeroSlide, domain.HeroSlideInput] {
	return h.slideRec
}

// CreateSlide creates a slide. The parent section is required; it defaults
// to the selected section.
func (h *HeroSections) CreateSlide(ctx context.Context, in domain.HeroSlideInput) (domain.HeroSlide, error) {
	if in.HeroSectionID == 0 {
		in.HeroSectionID = h.SelectedSection()
	}
	return h.slideRec.Create(ctx, in)
}

func (h *HeroSections) UpdateSlide(ctx context.Context, id int, in domain.HeroSlideInput) (domain.HeroSlide, error) {
	if in.HeroSectionID == 0 {
		if current, ok := h.slideView.Store().Get(id); ok {
			in.HeroSectionID = current.HeroSectionID
		}
	}
	return h.slideRec.Update(ctx, id, in)
}

func (h *HeroSections) ToggleSlide(ctx context.Context, id int, active bool) (domain.HeroSlide, error) {
	return h.slideRec.Toggle(ctx, id, active)
}

func (h *HeroSections) AskDeleteSlide(id int) {
	label := ""
	if slide, ok := h.slideView.Store().Get(id); ok {
		label = slide.Title
	}
	h.slideRec.Confirmation().Open(id, label)
}

func (h *HeroSections) ConfirmDeleteSlide(ctx context.Context) error {
	return h.slideRec.Confirmation().Confirm(ctx)
}

// ReorderSlides posts slide_orders[{slideID}]={order} for sectionID and
// reloads the slides once the server accepted the new order.
func (h *HeroSections) ReorderSlides(ctx context.Context, sectionID int, orders map[int]int) error {
	h.mu.Lock()
	if h.reordering {
		h.mu.Unlock()
		return ErrReorderInFlight
	}
	h.reordering = true
	h.mu.Unlock()
	defer func() {
		h.mu.Lock()
		h.reordering = false
		h.mu.Unlock()
	}()

	payload := remote.NewPayload()
	ids := make([]int, 0, len(orders))
	for id := range orders {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	for _, id := range ids {
		payload.SetInt("slide_orders["+strconv.Itoa(id)+"]", orders[id])
	}

	if _, err := h.slides.NestedAction(ctx, slidesScope, sectionID, "reorder", payload); err != nil {
		h.logger.Error("hero_slides.reorder.failed", "section_id", sectionID, "error", err)
		h.fail(reconcile.MessageOr(err, "Erreur lors du réordonnancement des slides"))
		return err
	}
	h.info("Ordre des slides mis à jour")
	if h.SelectedSection() == sectionID {
		return h.LoadSlides(ctx, sectionID)
	}
	return nil
}

// slideChanged reloads the sections so their slide counts follow the server.
func (h *HeroSections) slideChanged(ctx context.Context, outcome reconcile.Outcome[domain.HeroSlide]) {
	if err := h.View().Store().Load(ctx, h.Resource().List); err != nil {
		h.logger.Warn("hero_sections.reload.failed", "op", string(outcome.Op), "error", err)
	}
}
