package admin

import (
	"github.com/goliatone/go-cms-admin/internal/analytics"
	"github.com/goliatone/go-cms-admin/internal/di"
	"github.com/goliatone/go-cms-admin/internal/notify"
	"github.com/goliatone/go-cms-admin/internal/screens"
	"github.com/goliatone/go-cms-admin/internal/session"
	"github.com/goliatone/go-cms-admin/internal/site"
)

// ContactsScreen exports the contact messages screen.
type ContactsScreen = *screens.Contacts

type ServicesScreen = *screens.Services

type FormationsScreen = *screens.Formations

type PartnersScreen = *screens.Partners

// HeroSectionsScreen exports the hero sections screen with its nested slides.
type HeroSectionsScreen = *screens.HeroSections

type ArticlesScreen = *screens.Articles

// Session exports the authentication context.
type Session = *session.Session

type Notifications = *notify.Channel

type AnalyticsClient = *analytics.Client

type VisitTracker = *analytics.Tracker

type AnalyticsOverview = *analytics.Overview

type Site = *site.Site

// Module is the top level façade of the admin client.
type Module struct {
	container *di.Container
}

// New constructs an admin module using the provided configuration and
// optional DI overrides.
func New(cfg Config, opts ...di.Option) (*Module, error) {
	container, err := di.NewContainer(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{container: container}, nil
}

// Container exposes the underlying DI container for advanced integrations.
func (m *Module) Container() *di.Container {
	return m.container
}

func (m *Module) Session() Session { return m.container.Session() }

func (m *Module) Notifications() Notifications { return m.container.Notifications() }

func (m *Module) Contacts() ContactsScreen { return m.container.Contacts() }

func (m *Module) Services() ServicesScreen { return m.container.Services() }

func (m *Module) Formations() FormationsScreen { return m.container.Formations() }

func (m *Module) Partners() PartnersScreen { return m.container.Partners() }

func (m *Module) HeroSections() HeroSectionsScreen { return m.container.HeroSections() }

func (m *Module) Articles() ArticlesScreen { return m.container.Articles() }

func (m *Module) Analytics() AnalyticsClient { return m.container.Analytics() }

// Tracker returns nil when visit tracking is disabled.
func (m *Module) Tracker() VisitTracker { return m.container.Tracker() }

func (m *Module) Overview() AnalyticsOverview { return m.container.Overview() }

func (m *Module) Site() Site { return m.container.Site() }

// Close releases timers and the local database.
func (m *Module) Close() error {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.Close()
}
