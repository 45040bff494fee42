package cache

import (
	"context"
	"sync"

	"filmpivot/models"
)

// MemoryBackend keeps cache records in process memory.
type MemoryBackend struct {
	mu        sync.RWMutex
	movies    map[int64]models.CachedMovie
	directors map[int64]models.CachedDirector
	studios   map[int64]models.CachedStudio
}

// NewMemoryBackend returns an empty in-memory backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{
		movies:    make(map[int64]models.CachedMovie),
		directors: make(map[int64]models.CachedDirector),
		studios:   make(map[int64]models.CachedStudio),
	}
}

func (b *MemoryBackend) GetMovie(_ context.Context, tmdbID int64) (*models.CachedMovie, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	m, ok := b.movies[tmdbID]
	if !ok {
		return nil, nil
	}
	return &m, nil
}

func (b *MemoryBackend) UpsertMovie(_ context.Context, m models.CachedMovie) error {
	b.mu.Lock()
	b.movies[m.TMDBID] = m
	b.mu.Unlock()
	return nil
}

func (b *MemoryBackend) GetDirector(_ context.Context, personID int64) (*models.CachedDirector, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	d, ok := b.directors[personID]
	if !ok {
		return nil, nil
	}
	return &d, nil
}

func (b *MemoryBackend) UpsertDirector(_ context.Context, d models.CachedDirector) error {
	b.mu.Lock()
	b.directors[d.TMDBPersonID] = d
	b.mu.Unlock()
	return nil
}

func (b *MemoryBackend) GetStudio(_ context.Context, companyID int64) (*models.CachedStudio, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	s, ok := b.studios[companyID]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (b *MemoryBackend) UpsertStudio(_ context.Context, s models.CachedStudio) error {
	b.mu.Lock()
	b.studios[s.TMDBCompanyID] = s
	b.mu.Unlock()
	return nil
}

// Len reports how many movie records are held, fresh or stale.
func (b *MemoryBackend) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.movies)
}
