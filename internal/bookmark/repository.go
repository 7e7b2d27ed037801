// Package bookmark persists bookmark records in a kv.Store.
//
// Mutations are read-then-write with no compare-and-swap: two concurrent
// updates of one id race and the last Put wins, and a Delete landing between
// an Update's read and write is undone by that write. Callers needing more
// must layer a conditional write on top.
package bookmark

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/MrSnakeDoc/hatebu/internal/dates"
	"github.com/MrSnakeDoc/hatebu/internal/domain"
	"github.com/MrSnakeDoc/hatebu/internal/idgen"
	"github.com/MrSnakeDoc/hatebu/internal/kv"
	"github.com/MrSnakeDoc/hatebu/internal/logger"
)

// Repository is the CRUD surface over the store.
//
// Expected domain outcomes (rejected input, unknown id) are reported through
// the bool results; only store failures come back as errors.
type Repository struct {
	store   kv.Store
	dates   *dates.Normalizer
	ids     idgen.Generator
	clock   domain.Clock
	logger  logger.Logger
	skipped atomic.Int64
}

type Option func(*Repository)

// WithIDGenerator overrides the default UUID v7 ids.
func WithIDGenerator(g idgen.Generator) Option {
	return func(r *Repository) { r.ids = g }
}

// WithClock overrides the clock used by TouchUpdated.
func WithClock(c domain.Clock) Option {
	return func(r *Repository) { r.clock = c }
}

func WithLogger(l logger.Logger) Option {
	return func(r *Repository) { r.logger = l }
}

// NewRepository creates a repository over store.
func NewRepository(store kv.Store, normalizer *dates.Normalizer, opts ...Option) *Repository {
	r := &Repository{
		store:  store,
		dates:  normalizer,
		ids:    idgen.NewV7(),
		clock:  domain.RealClock{},
		logger: logger.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// List returns every parseable bookmark under the namespace, in the store's
// scan order. Keys whose value vanished or fails to decode are dropped,
// logged, and counted in Skipped.
func (r *Repository) List(ctx context.Context) ([]*domain.Bookmark, error) {
	keys, err := r.store.List(ctx, KeyPrefix)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookmark keys: %w", err)
	}

	bookmarks := make([]*domain.Bookmark, 0, len(keys))
	for _, key := range keys {
		raw, found, err := r.store.Get(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("failed to get %s: %w", key, err)
		}
		if !found {
			r.skip(key, "value missing", nil)
			continue
		}
		b, err := Decode(raw)
		if err != nil {
			r.skip(key, "undecodable value", err)
			continue
		}
		bookmarks = append(bookmarks, b)
	}

	return bookmarks, nil
}

// Skipped returns how many records List has dropped since construction.
func (r *Repository) Skipped() int64 {
	return r.skipped.Load()
}

// Get returns the bookmark stored under id. ok is false when nothing usable
// is stored, including a value that fails to decode.
func (r *Repository) Get(ctx context.Context, id string) (*domain.Bookmark, bool, error) {
	key := Key(id)
	raw, found, err := r.store.Get(ctx, key)
	if err != nil {
		return nil, false, fmt.Errorf("failed to get bookmark %s: %w", id, err)
	}
	if !found {
		return nil, false, nil
	}

	b, err := Decode(raw)
	if err != nil {
		r.logger.Warn("treating undecodable bookmark as missing",
			logger.String("key", key),
			logger.Error(err))
		return nil, false, nil
	}
	return b, true, nil
}

// Create validates p and stores a new bookmark. ok is false, and nothing is
// written, when url or title is missing.
//
// A supplied id is used as-is; otherwise one is generated. An existing
// record under the same id is overwritten.
func (r *Repository) Create(ctx context.Context, p domain.Param) (*domain.Bookmark, bool, error) {
	if !p.HasRequired() {
		r.logger.Debug("rejecting bookmark without url or title")
		return nil, false, nil
	}

	id := ""
	if p.ID != nil {
		id = *p.ID
	}
	if id == "" {
		generated, err := r.ids.Generate(*p.URL)
		if err != nil {
			return nil, false, fmt.Errorf("failed to generate bookmark id: %w", err)
		}
		id = generated
	}

	b := &domain.Bookmark{
		ID:    id,
		URL:   *p.URL,
		Title: *p.Title,
	}
	r.applyMutable(b, p)

	if err := r.put(ctx, b); err != nil {
		return nil, false, err
	}

	r.logger.Debug("bookmark created", logger.String("id", id))
	return b, true, nil
}

// Update replaces the mutable fields of an existing bookmark with those in
// p. Fields p leaves out are cleared. Returns false for an unknown id.
func (r *Repository) Update(ctx context.Context, id string, p domain.Param) (bool, error) {
	b, ok, err := r.Get(ctx, id)
	if err != nil || !ok {
		return false, err
	}

	r.applyMutable(b, p)

	if err := r.put(ctx, b); err != nil {
		return false, err
	}
	return true, nil
}

// TouchUpdated stamps last_updated_at with the current time.
// Returns false for an unknown id.
func (r *Repository) TouchUpdated(ctx context.Context, id string) (bool, error) {
	b, ok, err := r.Get(ctx, id)
	if err != nil || !ok {
		return false, err
	}

	now := r.dates.Format(r.clock.Now())
	b.LastUpdatedAt = &now

	if err := r.put(ctx, b); err != nil {
		return false, err
	}
	return true, nil
}

// Delete removes the bookmark. The store delete is unconditional, so the
// record is read first to report whether it existed.
func (r *Repository) Delete(ctx context.Context, id string) (bool, error) {
	_, ok, err := r.Get(ctx, id)
	if err != nil || !ok {
		return false, err
	}

	if err := r.store.Delete(ctx, Key(id)); err != nil {
		return false, fmt.Errorf("failed to delete bookmark %s: %w", id, err)
	}

	r.logger.Debug("bookmark deleted", logger.String("id", id))
	return true, nil
}

// applyMutable overwrites every mutable field from p.
func (r *Repository) applyMutable(b *domain.Bookmark, p domain.Param) {
	b.LastUpdatedAt = r.normalize(p.LastUpdatedAt)
	b.Users = nil
	if len(p.Users) > 0 {
		b.Users = append([]string(nil), p.Users...)
	}
	b.BURL = nil
	if p.BURL != nil {
		v := *p.BURL
		b.BURL = &v
	}
}

// normalize keeps absence as absence. An unrecoverable date is stored as ""
// rather than dropped.
func (r *Repository) normalize(in *string) *string {
	if in == nil {
		return nil
	}
	out := r.dates.Normalize(*in)
	if out == "" && *in != "" {
		r.logger.Warn("unrecoverable date stored as empty",
			logger.String("input", *in))
	}
	return &out
}

func (r *Repository) put(ctx context.Context, b *domain.Bookmark) error {
	value, err := Encode(b)
	if err != nil {
		return err
	}
	if err := r.store.Put(ctx, Key(b.ID), value); err != nil {
		return fmt.Errorf("failed to save bookmark %s: %w", b.ID, err)
	}
	return nil
}

func (r *Repository) skip(key, reason string, err error) {
	r.skipped.Add(1)
	fields := []logger.Field{
		logger.String("key", key),
		logger.String("reason", reason),
	}
	if id, ok := IDFromKey(key); ok {
		fields = append(fields, logger.String("id", id))
	}
	if err != nil {
		fields = append(fields, logger.Error(err))
	}
	r.logger.Warn("skipping bookmark record", fields...)
}
