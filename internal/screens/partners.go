package screens

import (
	"github.com/goliatone/go-cms-admin/internal/domain"
	"github.com/goliatone/go-cms-admin/internal/reconcile"
	"github.com/goliatone/go-cms-admin/internal/remote"
)

// Partners updates through POST /partenaires/{id}/edit.
type Partners struct {
	*Screen[domain.Partner, domain.PartnerInput]
}

func NewPartners(deps Deps) *Partners {
	return &Partners{Screen: newScreen(deps, domain.ResourcePartners, screenConfig[domain.Partner, domain.PartnerInput]{
		fields:     domain.PartnerFields,
		label:      func(p domain.Partner) string { return p.Nom },
		loadFailed: "Erreur lors du chargement des partenaires",
		resource:   []remote.ResourceOption[domain.Partner]{remote.WithUpdateAction[domain.Partner]("edit")},
		reconcile: []reconcile.Option[domain.Partner, domain.PartnerInput]{
			reconcile.WithMessages[domain.Partner, domain.PartnerInput](reconcile.Messages{
				Created: "Partenaire créé avec succès",
				Updated: "Partenaire modifié avec succès",
				Deleted: "Partenaire supprimé avec succès",
			}),
		},
	})}
}
