package localstore

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	cache "github.com/goliatone/go-repository-cache/cache"
	repositorycache "github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-cms-admin/internal/identity"
	"github.com/goliatone/go-cms-admin/internal/logging"
	"github.com/goliatone/go-cms-admin/pkg/interfaces"
)

// Entry is one persisted key/value pair. The id is derived from the key.
type Entry struct {
	bun.BaseModel `bun:"table:admin_local_entries,alias:le"`

	ID        uuid.UUID `bun:",pk,type:uuid"`
	Key       string    `bun:"key,notnull,unique"`
	Value     string    `bun:"value,notnull"`
	UpdatedAt time.Time `bun:"updated_at,notnull"`
}

func NewEntryRepository(db *bun.DB) repository.Repository[*Entry] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Entry]{
		NewRecord: func() *Entry { return &Entry{} },
		GetID: func(e *Entry) uuid.UUID {
			return e.ID
		},
		SetID: func(e *Entry, id uuid.UUID) {
			e.ID = id
		},
		GetIdentifier: func() string {
			return "key"
		},
		GetIdentifierValue: func(e *Entry) string {
			return e.Key
		},
	})
}

// Store persists session values (tokens, cached user) in the database.
type Store struct {
	repo   repository.Repository[*Entry]
	now    func() time.Time
	logger interfaces.Logger
}

type Option func(*storeOptions)

type storeOptions struct {
	cacheService  cache.CacheService
	keySerializer cache.KeySerializer
	now           func() time.Time
	logger        interfaces.Logger
}

// WithCache puts a read-through cache in front of the repository.
func WithCache(service cache.CacheService, serializer cache.KeySerializer) Option {
	return func(o *storeOptions) {
		o.cacheService = service
		o.keySerializer = serializer
	}
}

func WithClock(now func() time.Time) Option {
	return func(o *storeOptions) {
		if now != nil {
			o.now = now
		}
	}
}

func WithLogger(logger interfaces.Logger) Option {
	return func(o *storeOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

func NewStore(db *bun.DB, opts ...Option) *Store {
	options := storeOptions{now: time.Now, logger: logging.NoOp()}
	for _, opt := range opts {
		if opt != nil {
			opt(&options)
		}
	}
	var repo repository.Repository[*Entry] = NewEntryRepository(db)
	if options.cacheService != nil && options.keySerializer != nil {
		repo = repositorycache.New(repo, options.cacheService, options.keySerializer)
	}
	return &Store{repo: repo, now: options.now, logger: options.logger}
}

// Get returns the value for key and whether it exists.
func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	entry, err := s.repo.GetByID(ctx, identity.EntryUUID(key).String())
	if err != nil {
		if isNotFound(err) {
			return "", false, nil
		}
		return "", false, err
	}
	return entry.Value, true, nil
}

// Set writes value under key, replacing any previous value.
func (s *Store) Set(ctx context.Context, key, value string) error {
	entry := &Entry{
		ID:        identity.EntryUUID(key),
		Key:       key,
		Value:     value,
		UpdatedAt: s.now().UTC(),
	}
	if _, err := s.repo.GetByID(ctx, entry.ID.String()); err != nil {
		if !isNotFound(err) {
			return err
		}
		if _, err = s.repo.Create(ctx, entry); err != nil {
			return err
		}
		s.logger.Debug("localstore.entry.created", "key", key)
		return nil
	}
	if _, err := s.repo.Update(ctx, entry); err != nil {
		return err
	}
	s.logger.Debug("localstore.entry.updated", "key", key)
	return nil
}

// Delete removes keys. Missing keys are ignored.
func (s *Store) Delete(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		if err := s.repo.Delete(ctx, &Entry{ID: identity.EntryUUID(key), Key: key}); err != nil && !isNotFound(err) {
			return err
		}
	}
	s.logger.Debug("localstore.entries.deleted", "keys", keys)
	return nil
}

func isNotFound(err error) bool {
	return goerrors.IsCategory(err, repository.CategoryDatabaseNotFound)
}
