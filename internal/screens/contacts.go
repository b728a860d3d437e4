package screens

import (
	"context"

	"github.com/goliatone/go-cms-admin/internal/domain"
	"github.com/goliatone/go-cms-admin/internal/reconcile"
	"github.com/goliatone/go-cms-admin/internal/remote"
)

// Contacts lists the messages sent from the public contact form. Replies go
// through the update path of the reconciler: POST /contacts/{id}/reply.
type Contacts struct {
	*Screen[domain.Contact, domain.ContactReply]
}

// ContactStats are the counters shown above the contact list.
type ContactStats struct {
	Total   int
	Replied int
	Pending int
}

func NewContacts(deps Deps) *Contacts {
	return &Contacts{Screen: newScreen(deps, domain.ResourceContacts, screenConfig[domain.Contact, domain.ContactReply]{
		fields:     domain.ContactFields,
		label:      func(c domain.Contact) string { return c.Nom },
		loadFailed: "Erreur lors du chargement des contacts",
		resource:   []remote.ResourceOption[domain.Contact]{remote.WithUpdateAction[domain.Contact]("reply")},
		reconcile: []reconcile.Option[domain.Contact, domain.ContactReply]{
			reconcile.WithMessages[domain.Contact, domain.ContactReply](reconcile.Messages{
				Updated:      "Réponse envoyée avec succès !",
				UpdateFailed: "Erreur lors de l'envoi de la réponse",
				Deleted:      "Contact supprimé avec succès",
			}),
		},
	})}
}

// Reply sends text as the answer to contact id. Blank answers are refused
// locally.
func (c *Contacts) Reply(ctx context.Context, id int, text string) (domain.Contact, error) {
	return c.Update(ctx, id, domain.ContactReply{Reponse: text})
}

func (c *Contacts) Stats() ContactStats {
	items := c.View().Store().Items()
	stats := ContactStats{Total: len(items)}
	for _, contact := range items {
		if contact.Replied() {
			stats.Replied++
		}
	}
	stats.Pending = stats.Total - stats.Replied
	return stats
}
