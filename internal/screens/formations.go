package screens

import (
	"context"
	"strings"
	"sync/atomic"

	"github.com/goliatone/go-cms-admin/internal/domain"
	"github.com/goliatone/go-cms-admin/internal/listing"
	"github.com/goliatone/go-cms-admin/internal/reconcile"
)

// Formations searches on the server: a non-blank query replaces the store
// with the matching formations until ResetSearch reloads the full list.
type Formations struct {
	*Screen[domain.Formation, domain.FormationInput]
	searching atomic.Bool
}

func NewFormations(deps Deps) *Formations {
	return &Formations{Screen: newScreen(deps, domain.ResourceFormations, screenConfig[domain.Formation, domain.FormationInput]{
		fields:     domain.FormationFields,
		label:      func(f domain.Formation) string { return f.Nom },
		loadFailed: "Erreur lors du chargement des formations.",
		reconcile: []reconcile.Option[domain.Formation, domain.FormationInput]{
			reconcile.WithMessages[domain.Formation, domain.FormationInput](reconcile.Messages{
				Created:      "Formation créée avec succès",
				Updated:      "Formation mise à jour avec succès",
				Deleted:      "Formation supprimée avec succès",
				CreateFailed: "Erreur lors de la création de la formation.",
				DeleteFailed: "Erreur lors de la suppression de la formation.",
			}),
		},
	})}
}

// SearchRemote runs GET /formations?search=query. A blank query resets.
func (f *Formations) SearchRemote(ctx context.Context, query string) (listing.Window[domain.Formation], error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return f.ResetSearch(ctx)
	}
	items, err := f.Resource().Search(ctx, query, nil)
	if err != nil {
		f.logger.Error("formations.search.failed", "error", err)
		f.fail(reconcile.MessageOr(err, "Erreur lors de la recherche de formations."))
		return f.Page(), err
	}
	f.View().Store().Replace(items)
	f.searching.Store(true)
	return f.View().SetQuery(""), nil
}

// ResetSearch reloads the full collection.
func (f *Formations) ResetSearch(ctx context.Context) (listing.Window[domain.Formation], error) {
	if err := f.Load(ctx); err != nil {
		return f.Page(), err
	}
	f.searching.Store(false)
	return f.View().SetQuery(""), nil
}

// Searching reports whether the store holds server search results.
func (f *Formations) Searching() bool { return f.searching.Load() }

// Detail fetches one formation, GET /formations/{id}.
func (f *Formations) Detail(ctx context.Context, id int) (domain.Formation, error) {
	formation, err := f.Resource().Get(ctx, id)
	if err != nil {
		f.fail(reconcile.MessageOr(err, "Erreur lors de la récupération de la formation."))
		return formation, err
	}
	return formation, nil
}
