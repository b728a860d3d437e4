package remote

import (
	"fmt"
	"net/url"
	"strings"

	urlkit "github.com/goliatone/go-urlkit"
)

const routeGroup = "api"

// Route names registered on the api group.
const (
	RouteCollection   = "collection"    // /{resource}
	RouteItem         = "item"          // /{resource}/{id}
	RouteMember       = "member"        // /{resource}/{id}/{action}
	RouteScoped       = "scoped"        // /{resource}/{scope}/{scope_id}
	RouteScopedAction = "scoped_action" // /{resource}/{scope}/{scope_id}/{action}
)

// Routes builds every REST URL from a go-urlkit route manager rooted at the
// API base URL.
type Routes struct {
	manager *urlkit.RouteManager
	group   *urlkit.Group
}

// NewRoutes registers the api route group for baseURL, e.g.
// "https://cms.example.com/api".
func NewRoutes(baseURL string) (*Routes, error) {
	parsed, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil {
		return nil, fmt.Errorf("remote: parse base url: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("remote: base url %q must be absolute", baseURL)
	}
	prefix := strings.TrimRight(parsed.Path, "/")
	origin := parsed.Scheme + "://" + parsed.Host

	manager := urlkit.NewRouteManager(&urlkit.Config{
		Groups: []urlkit.GroupConfig{
			{
				Name:    routeGroup,
				BaseURL: origin,
				Paths: map[string]string{
					RouteCollection:   prefix + "/:resource",
					RouteItem:         prefix + "/:resource/:id",
					RouteMember:       prefix + "/:resource/:id/:action",
					RouteScoped:       prefix + "/:resource/:scope/:scope_id",
					RouteScopedAction: prefix + "/:resource/:scope/:scope_id/:action",
				},
			},
		},
	})

	group, err := lookupGroup(manager, routeGroup)
	if err != nil {
		return nil, err
	}
	return &Routes{manager: manager, group: group}, nil
}

// Build resolves a named route with path params and query values.
func (r *Routes) Build(route string, params map[string]any, query url.Values) (string, error) {
	builder, err := r.safeBuilder(route)
	if err != nil {
		return "", err
	}
	for key, val := range params {
		builder.WithParam(key, val)
	}
	for key, values := range query {
		for _, v := range values {
			builder.WithQuery(key, v)
		}
	}
	return builder.Build()
}

func (r *Routes) Collection(resource string, query url.Values) (string, error) {
	return r.Build(RouteCollection, map[string]any{"resource": resource}, query)
}

// Item also addresses fixed sub-endpoints such as analytics/stats.
func (r *Routes) Item(resource string, id any, query url.Values) (string, error) {
	return r.Build(RouteItem, map[string]any{"resource": resource, "id": id}, query)
}

func (r *Routes) Member(resource string, id any, action string) (string, error) {
	return r.Build(RouteMember, map[string]any{"resource": resource, "id": id, "action": action}, nil)
}

func (r *Routes) Scoped(resource, scope string, scopeID any) (string, error) {
	return r.Build(RouteScoped, map[string]any{"resource": resource, "scope": scope, "scope_id": scopeID}, nil)
}

func (r *Routes) ScopedAction(resource, scope string, scopeID any, action string) (string, error) {
	return r.Build(RouteScopedAction, map[string]any{
		"resource": resource,
		"scope":    scope,
		"scope_id": scopeID,
		"action":   action,
	}, nil)
}

func (r *Routes) safeBuilder(route string) (builder *urlkit.Builder, err error) {
	if r == nil || r.group == nil {
		return nil, fmt.Errorf("remote: routes not configured")
	}
	defer func() {
		if rec := recover(); rec != nil {
			builder = nil
			err = fmt.Errorf("remote: urlkit builder panic for %q: %v", route, rec)
		}
	}()
	return r.group.Builder(route), nil
}

func lookupGroup(manager *urlkit.RouteManager, name string) (group *urlkit.Group, err error) {
	if manager == nil {
		return nil, fmt.Errorf("remote: route manager not configured")
	}
	defer func() {
		if rec := recover(); rec != nil {
			group = nil
			err = fmt.Errorf("remote: route group %q not found", name)
		}
	}()
	return manager.Group(name), nil
}
