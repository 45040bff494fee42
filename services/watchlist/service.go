// Package watchlist manages the movies a user saved to watch later.
package watchlist

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"

	"filmpivot/models"
)

var validate = validator.New()

// Repository persists watchlist entries.
type Repository interface {
	Add(ctx context.Context, userID string, in models.WatchlistAdd) (*models.WatchlistEntry, error)
	Get(ctx context.Context, userID string, tmdbID int64) (*models.WatchlistEntry, error)
	Remove(ctx context.Context, userID string, tmdbID int64) (bool, error)
	SetWatched(ctx context.Context, userID string, tmdbID int64, watched bool) (*models.WatchlistEntry, error)
	UpdateNotes(ctx context.Context, userID string, tmdbID int64, notes *string, priority *int) (*models.WatchlistEntry, error)
	List(ctx context.Context, userID string, filter models.WatchlistFilter) ([]models.WatchlistEntry, error)
}

// Service manages watchlists. Mutations on a movie that is not on the
// watchlist are silent no-ops and return a nil entry.
type Service struct {
	repo Repository
}

// NewService creates a watchlist service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// ParseFilter maps a status query value to a filter. Unknown values are
// rejected.
func ParseFilter(status string) (models.WatchlistFilter, error) {
	switch models.WatchlistFilter(status) {
	case models.WatchlistAll, models.WatchlistWatched, models.WatchlistUnwatched:
		return models.WatchlistFilter(status), nil
	default:
		return "", fmt.Errorf("unknown watchlist status %q", status)
	}
}

// List returns the user's watchlist, newest first.
func (s *Service) List(ctx context.Context, userID string, filter models.WatchlistFilter) ([]models.WatchlistEntry, error) {
	entries, err := s.repo.List(ctx, userID, filter)
	if err != nil {
		return nil, fmt.Errorf("list watchlist: %w", err)
	}
	return entries, nil
}

// Contains reports whether the movie is on the user's watchlist.
func (s *Service) Contains(ctx context.Context, userID string, tmdbID int64) (bool, error) {
	entry, err := s.repo.Get(ctx, userID, tmdbID)
	if err != nil {
		return false, fmt.Errorf("check watchlist: %w", err)
	}
	return entry != nil, nil
}

// Add saves the movie. An existing entry is returned unchanged.
func (s *Service) Add(ctx context.Context, userID string, in models.WatchlistAdd) (*models.WatchlistEntry, error) {
	if err := validate.Struct(in); err != nil {
		return nil, err
	}
	entry, err := s.repo.Add(ctx, userID, in)
	if err != nil {
		return nil, fmt.Errorf("add to watchlist: %w", err)
	}
	return entry, nil
}

// Remove drops the movie from the watchlist.
func (s *Service) Remove(ctx context.Context, userID string, tmdbID int64) error {
	if _, err := s.repo.Remove(ctx, userID, tmdbID); err != nil {
		return fmt.Errorf("remove from watchlist: %w", err)
	}
	return nil
}

// Toggle adds the movie when absent and removes it when present. It reports
// whether the movie is on the watchlist afterwards.
func (s *Service) Toggle(ctx context.Context, userID string, in models.WatchlistAdd) (bool, error) {
	existing, err := s.repo.Get(ctx, userID, in.TMDBID)
	if err != nil {
		return false, fmt.Errorf("toggle watchlist: %w", err)
	}
	if existing != nil {
		return false, s.Remove(ctx, userID, in.TMDBID)
	}
	if _, err := s.Add(ctx, userID, in); err != nil {
		return false, err
	}
	return true, nil
}

// MarkWatched flags the entry as watched now.
func (s *Service) MarkWatched(ctx context.Context, userID string, tmdbID int64) (*models.WatchlistEntry, error) {
	entry, err := s.repo.SetWatched(ctx, userID, tmdbID, true)
	if err != nil {
		return nil, fmt.Errorf("mark watched: %w", err)
	}
	return entry, nil
}

// MarkUnwatched clears the watched flag and time.
func (s *Service) MarkUnwatched(ctx context.Context, userID string, tmdbID int64) (*models.WatchlistEntry, error) {
	entry, err := s.repo.SetWatched(ctx, userID, tmdbID, false)
	if err != nil {
		return nil, fmt.Errorf("mark unwatched: %w", err)
	}
	return entry, nil
}

// UpdateNotes replaces the entry's notes and priority.
func (s *Service) UpdateNotes(ctx context.Context, userID string, tmdbID int64, notes *string, priority *int) (*models.WatchlistEntry, error) {
	entry, err := s.repo.UpdateNotes(ctx, userID, tmdbID, notes, priority)
	if err != nil {
		return nil, fmt.Errorf("update watchlist notes: %w", err)
	}
	return entry, nil
}
