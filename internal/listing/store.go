package listing

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
)

// Entity is implemented by every managed record. IDs are assigned by the
// remote API; zero means "not created yet".
type Entity interface {
	EntityID() int
}

// Loader fetches the full collection from the remote API.
type Loader[T Entity] func(ctx context.Context) ([]T, error)

var (
	// ErrMissingID is returned when a create result carries no server id.
	ErrMissingID = errors.New("listing: entity has no server-assigned id")
	// ErrDuplicateID is returned when a create result reuses an id already held.
	ErrDuplicateID = errors.New("listing: entity id already present")
)

// Store holds the authoritative in-memory copy of one collection. It is
// safe for concurrent use.
type Store[T Entity] struct {
	mu      sync.RWMutex
	items   []T
	version uint64
}

func NewStore[T Entity](items ...T) *Store[T] {
	s := &Store[T]{}
	s.items = dedupe(items)
	return s
}

// Load replaces the collection wholesale with the loader result. On error the
// previous contents are kept.
func (s *Store[T]) Load(ctx context.Context, load Loader[T]) error {
	if load == nil {
		return errors.New("listing: loader is nil")
	}
	items, err := load(ctx)
	if err != nil {
		return err
	}
	s.Replace(items)
	return nil
}

// Replace swaps the collection. Duplicate ids keep their last occurrence at
// the position of the first.
func (s *Store[T]) Replace(items []T) {
	next := dedupe(items)
	s.mu.Lock()
	s.items = next
	s.version++
	s.mu.Unlock()
}

// Items returns a copy of the collection in store order.
func (s *Store[T]) Items() []T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.items)
}

func (s *Store[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

func (s *Store[T]) Get(id int) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if idx := s.index(id); idx >= 0 {
		return s.items[idx], true
	}
	var zero T
	return zero, false
}

// Version increases on every mutation; views use it to detect changes.
func (s *Store[T]) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// ReconcileCreate appends a server-confirmed entity.
func (s *Store[T]) ReconcileCreate(entity T) error {
	id := entity.EntityID()
	if id <= 0 {
		return ErrMissingID
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.index(id) >= 0 {
		return fmt.Errorf("%w: %d", ErrDuplicateID, id)
	}
	s.items = append(s.items, entity)
	s.version++
	return nil
}

// ReconcileUpdate replaces the entry sharing the entity id. It reports false
// and leaves the store untouched when no entry matches.
func (s *Store[T]) ReconcileUpdate(entity T) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.index(entity.EntityID())
	if idx < 0 {
		return false
	}
	s.items[idx] = entity
	s.version++
	return true
}

// ReconcileDelete removes the entry with the given id, if any.
func (s *Store[T]) ReconcileDelete(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.index(id)
	if idx < 0 {
		return false
	}
	s.items = slices.Delete(s.items, idx, idx+1)
	s.version++
	return true
}

func (s *Store[T]) index(id int) int {
	return slices.IndexFunc(s.items, func(item T) bool { return item.EntityID() == id })
}

func dedupe[T Entity](items []T) []T {
	out := make([]T, 0, len(items))
	seen := make(map[int]int, len(items))
	for _, item := range items {
		id := item.EntityID()
		if pos, ok := seen[id]; ok {
			out[pos] = item
			continue
		}
		seen[id] = len(out)
		out = append(out, item)
	}
	return out
}
