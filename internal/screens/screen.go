package screens

import (
	"context"

	"github.com/goliatone/go-cms-admin/internal/commands"
	"github.com/goliatone/go-cms-admin/internal/listing"
	"github.com/goliatone/go-cms-admin/internal/logging"
	"github.com/goliatone/go-cms-admin/internal/notify"
	"github.com/goliatone/go-cms-admin/internal/reconcile"
	"github.com/goliatone/go-cms-admin/internal/remote"
	"github.com/goliatone/go-cms-admin/pkg/interfaces"
)

const refreshedMessage = "Liste actualisée"

// Deps are the collaborators shared by every screen.
type Deps struct {
	Client         *remote.Client
	Notifier       notify.Notifier
	LoggerProvider interfaces.LoggerProvider
	ItemsPerPage   int
	DemoMode       bool
}

// Screen is the list-and-edit surface of one entity type: a paginated,
// searchable view over the store plus a reconciler for mutations.
type Screen[T listing.Entity, M reconcile.Input[M]] struct {
	name       string
	resource   *remote.Resource[T]
	view       *listing.View[T]
	reconciler *reconcile.Reconciler[T, M]
	notifier   notify.Notifier
	logger     interfaces.Logger
	label      func(T) string
	loadFailed string
}

type screenConfig[T listing.Entity, M reconcile.Input[M]] struct {
	fields     listing.Fields[T]
	label      func(T) string
	loadFailed string
	resource   []remote.ResourceOption[T]
	reconcile  []reconcile.Option[T, M]
}

func newScreen[T listing.Entity, M reconcile.Input[M]](deps Deps, name string, cfg screenConfig[T, M]) *Screen[T, M] {
	logger := logging.ScreensLogger(deps.LoggerProvider, name)
	resource := remote.NewResource(deps.Client, name, cfg.resource...)
	store := listing.NewStore[T]()
	opts := append([]reconcile.Option[T, M]{
		reconcile.WithLogger[T, M](logger),
		reconcile.WithCommandLogger[T, M](commands.CommandLogger(deps.LoggerProvider, name)),
	}, cfg.reconcile...)
	loadFailed := cfg.loadFailed
	if loadFailed == "" {
		loadFailed = "Erreur lors du chargement"
	}
	label := cfg.label
	if label == nil {
		label = func(T) string { return "" }
	}
	return &Screen[T, M]{
		name:       name,
		resource:   resource,
		view:       listing.NewView(store, cfg.fields, deps.ItemsPerPage),
		reconciler: reconcile.New(name, store, resource, deps.Notifier, opts...),
		notifier:   deps.Notifier,
		logger:     logger,
		label:      label,
		loadFailed: loadFailed,
	}
}

func (s *Screen[T, M]) Name() string { return s.name }

func (s *Screen[T, M]) View() *listing.View[T] { return s.view }

func (s *Screen[T, M]) Reconciler() *reconcile.Reconciler[T, M] { return s.reconciler }

func (s *Screen[T, M]) Resource() *remote.Resource[T] { return s.resource }

// Load replaces the store with the remote collection. On failure the store
// keeps its previous contents.
func (s *Screen[T, M]) Load(ctx context.Context) error {
	if err := s.view.Store().Load(ctx, s.resource.List); err != nil {
		s.logger.Error("screen.load.failed", "error", err)
		s.fail(reconcile.MessageOr(err, s.loadFailed))
		return err
	}
	s.logger.Debug("screen.load.success", "count", s.view.Store().Len())
	return nil
}

// Refresh reloads, clears the search and confirms with a notification.
func (s *Screen[T, M]) Refresh(ctx context.Context) error {
	if err := s.Load(ctx); err != nil {
		return err
	}
	s.view.SetQuery("")
	s.info(refreshedMessage)
	return nil
}

// Search filters the loaded collection locally.
func (s *Screen[T, M]) Search(query string) listing.Window[T] {
	return s.view.SetQuery(query)
}

func (s *Screen[T, M]) Page() listing.Window[T] { return s.view.Current() }

func (s *Screen[T, M]) GoToPage(n int) listing.Window[T] { return s.view.GoToPage(n) }

func (s *Screen[T, M]) NextPage() listing.Window[T] { return s.view.NextPage() }

func (s *Screen[T, M]) PrevPage() listing.Window[T] { return s.view.PrevPage() }

func (s *Screen[T, M]) Create(ctx context.Context, msg M) (T, error) {
	return s.reconciler.Create(ctx, msg)
}

func (s *Screen[T, M]) Update(ctx context.Context, id int, msg M) (T, error) {
	return s.reconciler.Update(ctx, id, msg)
}

// AskDelete opens the confirmation prompt for id.
func (s *Screen[T, M]) AskDelete(id int) {
	label := ""
	if entity, ok := s.view.Store().Get(id); ok {
		label = s.label(entity)
	}
	s.reconciler.Confirmation().Open(id, label)
}

func (s *Screen[T, M]) CancelDelete() bool {
	return s.reconciler.Confirmation().Cancel()
}

// ConfirmDelete deletes the entity the prompt was opened for.
func (s *Screen[T, M]) ConfirmDelete(ctx context.Context) error {
	return s.reconciler.Confirmation().Confirm(ctx)
}

func (s *Screen[T, M]) fail(message string) {
	if s.notifier != nil {
		s.notifier.Notify(message, notify.KindError)
	}
}

func (s *Screen[T, M]) info(message string) {
	if s.notifier != nil {
		s.notifier.Notify(message, notify.KindSuccess)
	}
}
