package screens

import (
	"slices"
	"strings"

	"github.com/goliatone/go-cms-admin/internal/domain"
	"github.com/goliatone/go-cms-admin/internal/reconcile"
)

type Services struct {
	*Screen[domain.Service, domain.ServiceInput]
}

func NewServices(deps Deps) *Services {
	return &Services{Screen: newScreen(deps, domain.ResourceServices, screenConfig[domain.Service, domain.ServiceInput]{
		fields:     domain.ServiceFields,
		label:      func(s domain.Service) string { return s.Nom },
		loadFailed: "Erreur lors du chargement des services",
		reconcile: []reconcile.Option[domain.Service, domain.ServiceInput]{
			reconcile.WithMessages[domain.Service, domain.ServiceInput](reconcile.Messages{
				Created:      "Service créé avec succès !",
				Updated:      "Service modifié avec succès !",
				Deleted:      "Service supprimé avec succès",
				CreateFailed: "Erreur lors de la création",
				UpdateFailed: "Erreur lors de la modification",
			}),
		},
	})}
}

// Categories lists the distinct categories of the loaded services, sorted.
func (s *Services) Categories() []string {
	var out []string
	for _, svc := range s.View().Store().Items() {
		name := strings.TrimSpace(svc.Categorie)
		if name != "" && !slices.Contains(out, name) {
			out = append(out, name)
		}
	}
	slices.Sort(out)
	return out
}
