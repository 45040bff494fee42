// Package cache is the TTL-gated read-through layer in front of the
// persisted movie, director and studio records.
package cache

import (
	"context"
	"time"

	"filmpivot/internal/logging"
	"filmpivot/internal/metrics"
	"filmpivot/models"
)

// Backend persists cache records. It returns nil (and no error) for keys
// that were never stored and never decides freshness itself.
type Backend interface {
	GetMovie(ctx context.Context, tmdbID int64) (*models.CachedMovie, error)
	UpsertMovie(ctx context.Context, m models.CachedMovie) error
	GetDirector(ctx context.Context, personID int64) (*models.CachedDirector, error)
	UpsertDirector(ctx context.Context, d models.CachedDirector) error
	GetStudio(ctx context.Context, companyID int64) (*models.CachedStudio, error)
	UpsertStudio(ctx context.Context, s models.CachedStudio) error
}

// Option configures a Store.
type Option func(*Store)

// WithTTL overrides the freshness window. Non-positive values are ignored.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// Store serves cached records younger than its TTL. Stale rows are reported
// as misses but left in place; the next write replaces them.
type Store struct {
	backend Backend
	ttl     time.Duration
	now     func() time.Time
}

// NewStore wraps backend with TTL checks.
func NewStore(backend Backend, opts ...Option) *Store {
	s := &Store{
		backend: backend,
		ttl:     models.CacheTTL,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// TTL returns the configured freshness window.
func (s *Store) TTL() time.Duration {
	return s.ttl
}

func (s *Store) fresh(kind string, cachedAt time.Time) bool {
	if s.now().Sub(cachedAt) > s.ttl {
		metrics.CacheLookups.WithLabelValues(kind, metrics.CacheStale).Inc()
		logging.Component("cache").Debug().Str("kind", kind).Time("cached_at", cachedAt).Msg("stale entry")
		return false
	}
	metrics.CacheLookups.WithLabelValues(kind, metrics.CacheHit).Inc()
	return true
}

func miss(kind string) {
	metrics.CacheLookups.WithLabelValues(kind, metrics.CacheMiss).Inc()
}

func recordWrite(kind string, err error) error {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	metrics.CacheWrites.WithLabelValues(kind, outcome).Inc()
	return err
}

// Movie returns the cached movie when present and fresh.
func (s *Store) Movie(ctx context.Context, tmdbID int64) (*models.CachedMovie, bool, error) {
	m, err := s.backend.GetMovie(ctx, tmdbID)
	if err != nil {
		return nil, false, err
	}
	if m == nil {
		miss(kindMovie)
		return nil, false, nil
	}
	if !s.fresh(kindMovie, m.CachedAt) {
		return nil, false, nil
	}
	return m, true, nil
}

// PutMovie upserts the movie, stamping CachedAt and LastAccessedAt.
func (s *Store) PutMovie(ctx context.Context, m models.CachedMovie) (models.CachedMovie, error) {
	now := s.now().UTC()
	m.CachedAt = now
	m.LastAccessedAt = now
	return m, recordWrite(kindMovie, s.backend.UpsertMovie(ctx, m))
}

// Director returns the cached director when present and fresh.
func (s *Store) Director(ctx context.Context, personID int64) (*models.CachedDirector, bool, error) {
	d, err := s.backend.GetDirector(ctx, personID)
	if err != nil {
		return nil, false, err
	}
	if d == nil {
		miss(kindDirector)
		return nil, false, nil
	}
	if !s.fresh(kindDirector, d.CachedAt) {
		return nil, false, nil
	}
	return d, true, nil
}

// PutDirector upserts the director, stamping CachedAt.
func (s *Store) PutDirector(ctx context.Context, d models.CachedDirector) (models.CachedDirector, error) {
	d.CachedAt = s.now().UTC()
	return d, recordWrite(kindDirector, s.backend.UpsertDirector(ctx, d))
}

// Studio returns the cached studio when present and fresh.
func (s *Store) Studio(ctx context.Context, companyID int64) (*models.CachedStudio, bool, error) {
	st, err := s.backend.GetStudio(ctx, companyID)
	if err != nil {
		return nil, false, err
	}
	if st == nil {
		miss(kindStudio)
		return nil, false, nil
	}
	if !s.fresh(kindStudio, st.CachedAt) {
		return nil, false, nil
	}
	return st, true, nil
}

// PutStudio upserts the studio, stamping CachedAt.
func (s *Store) PutStudio(ctx context.Context, st models.CachedStudio) (models.CachedStudio, error) {
	st.CachedAt = s.now().UTC()
	return st, recordWrite(kindStudio, s.backend.UpsertStudio(ctx, st))
}

const (
	kindMovie    = "movie"
	kindDirector = "director"
	kindStudio   = "studio"
)
