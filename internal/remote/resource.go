package remote

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/goliatone/go-cms-admin/internal/validation"
)

// Resource is the conventional CRUD surface of one entity type:
//
//	GET    /{resource}[?search=]
//	GET    /{resource}/{id}
//	POST   /{resource}
//	POST   /{resource}/{id}/update
//	DELETE /{resource}/{id}
//	POST   /{resource}/{id}/{action}
type Resource[T any] struct {
	client       *Client
	name         string
	updateAction string
}

type ResourceOption[T any] func(*Resource[T])

// WithUpdateAction changes the update suffix; partners use "edit".
func WithUpdateAction[T any](action string) ResourceOption[T] {
	return func(r *Resource[T]) {
		if action != "" {
			r.updateAction = action
		}
	}
}

func NewResource[T any](client *Client, name string, opts ...ResourceOption[T]) *Resource[T] {
	r := &Resource[T]{client: client, name: name, updateAction: "update"}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

func (r *Resource[T]) Name() string { return r.name }

func (r *Resource[T]) List(ctx context.Context) ([]T, error) {
	return r.list(ctx, nil)
}

// Search asks the server to filter. Empty filter values are skipped.
func (r *Resource[T]) Search(ctx context.Context, query string, filters map[string]string) ([]T, error) {
	values := url.Values{}
	values.Set("search", query)
	for key, value := range filters {
		if value != "" {
			values.Set(key, value)
		}
	}
	return r.list(ctx, values)
}

// Page requests one server-side page.
func (r *Resource[T]) Page(ctx context.Context, page, perPage int) ([]T, error) {
	values := url.Values{}
	if page > 0 {
		values.Set("page", strconv.Itoa(page))
	}
	if perPage > 0 {
		values.Set("per_page", strconv.Itoa(perPage))
	}
	return r.list(ctx, values)
}

func (r *Resource[T]) list(ctx context.Context, query url.Values) ([]T, error) {
	target, err := r.client.routes.Collection(r.name, query)
	if err != nil {
		return nil, err
	}
	return r.fetchList(ctx, target)
}

func (r *Resource[T]) fetchList(ctx context.Context, target string) ([]T, error) {
	env, err := r.client.Envelope(ctx, http.MethodGet, target, nil, validation.ShapeList)
	if err != nil {
		return nil, err
	}
	var items []T
	if err := DecodeData(env, &items); err != nil {
		return nil, err
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

func (r *Resource[T]) Get(ctx context.Context, id int) (T, error) {
	target, err := r.client.routes.Item(r.name, id, nil)
	if err != nil {
		var zero T
		return zero, err
	}
	return r.entity(ctx, http.MethodGet, target, nil)
}

func (r *Resource[T]) Create(ctx context.Context, payload *Payload) (T, error) {
	target, err := r.client.routes.Collection(r.name, nil)
	if err != nil {
		var zero T
		return zero, err
	}
	return r.entity(ctx, http.MethodPost, target, payload)
}

func (r *Resource[T]) Update(ctx context.Context, id int, payload *Payload) (T, error) {
	return r.Action(ctx, id, r.updateAction, payload)
}

// Action posts to a member endpoint that answers with the updated entity,
// e.g. activate and deactivate.
func (r *Resource[T]) Action(ctx context.Context, id int, action string, payload *Payload) (T, error) {
	target, err := r.client.routes.Member(r.name, id, action)
	if err != nil {
		var zero T
		return zero, err
	}
	if payload == nil {
		payload = NewPayload()
	}
	return r.entity(ctx, http.MethodPost, target, payload)
}

// Delete answers carry no data; only the verdict is checked.
func (r *Resource[T]) Delete(ctx context.Context, id int) (Envelope, error) {
	target, err := r.client.routes.Item(r.name, id, nil)
	if err != nil {
		return Envelope{}, err
	}
	return r.client.Envelope(ctx, http.MethodDelete, target, nil, validation.ShapeNone)
}

// NestedList lists children under a parent scope, e.g.
// GET /hero-slides/section/{id}.
func (r *Resource[T]) NestedList(ctx context.Context, scope string, parentID int) ([]T, error) {
	target, err := r.client.routes.Scoped(r.name, scope, parentID)
	if err != nil {
		return nil, err
	}
	return r.fetchList(ctx, target)
}

// NestedAction posts to a scoped action that answers without data, e.g.
// POST /hero-slides/section/{id}/reorder.
func (r *Resource[T]) NestedAction(ctx context.Context, scope string, parentID int, action string, payload *Payload) (Envelope, error) {
	target, err := r.client.routes.ScopedAction(r.name, scope, parentID, action)
	if err != nil {
		return Envelope{}, err
	}
	return r.client.Envelope(ctx, http.MethodPost, target, payload, validation.ShapeNone)
}

// Fetch reads a single entity from a fixed sub-endpoint such as
// /hero-sections/active.
func (r *Resource[T]) Fetch(ctx context.Context, endpoint string) (T, error) {
	target, err := r.client.routes.Item(r.name, endpoint, nil)
	if err != nil {
		var zero T
		return zero, err
	}
	return r.entity(ctx, http.MethodGet, target, nil)
}

func (r *Resource[T]) entity(ctx context.Context, method, target string, payload *Payload) (T, error) {
	var out T
	env, err := r.client.Envelope(ctx, method, target, payload, validation.ShapeEntity)
	if err != nil {
		return out, err
	}
	if err := DecodeData(env, &out); err != nil {
		return out, err
	}
	return out, nil
}
