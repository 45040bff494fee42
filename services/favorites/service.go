// Package favorites manages the movies a user marked as favorites.
package favorites

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"

	"filmpivot/models"
)

var validate = validator.New()

// Repository persists favorites.
type Repository interface {
	Add(ctx context.Context, userID string, ref models.MovieRef) (*models.FavoriteEntry, error)
	Get(ctx context.Context, userID string, tmdbID int64) (*models.FavoriteEntry, error)
	Remove(ctx context.Context, userID string, tmdbID int64) (bool, error)
	List(ctx context.Context, userID string) ([]models.FavoriteEntry, error)
}

// Service manages favorites.
type Service struct {
	repo Repository
}

// NewService creates a favorites service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns the user's favorites, newest first.
func (s *Service) List(ctx context.Context, userID string) ([]models.FavoriteEntry, error) {
	entries, err := s.repo.List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}
	return entries, nil
}

// IsFavorite reports whether the movie is one of the user's favorites.
func (s *Service) IsFavorite(ctx context.Context, userID string, tmdbID int64) (bool, error) {
	entry, err := s.repo.Get(ctx, userID, tmdbID)
	if err != nil {
		return false, fmt.Errorf("check favorite: %w", err)
	}
	return entry != nil, nil
}

// Add marks the movie as a favorite. Adding an existing favorite returns the
// stored entry.
func (s *Service) Add(ctx context.Context, userID string, ref models.MovieRef) (*models.FavoriteEntry, error) {
	if err := validate.Struct(ref); err != nil {
		return nil, err
	}
	entry, err := s.repo.Add(ctx, userID, ref)
	if err != nil {
		return nil, fmt.Errorf("add favorite: %w", err)
	}
	return entry, nil
}

// Remove unmarks the movie. Removing a movie that is not a favorite is a
// no-op.
func (s *Service) Remove(ctx context.Context, userID string, tmdbID int64) error {
	if _, err := s.repo.Remove(ctx, userID, tmdbID); err != nil {
		return fmt.Errorf("remove favorite: %w", err)
	}
	return nil
}

// Toggle adds the movie when absent and removes it when present. It reports
// whether the movie is a favorite afterwards.
func (s *Service) Toggle(ctx context.Context, userID string, ref models.MovieRef) (bool, error) {
	existing, err := s.repo.Get(ctx, userID, ref.TMDBID)
	if err != nil {
		return false, fmt.Errorf("toggle favorite: %w", err)
	}
	if existing != nil {
		return false, s.Remove(ctx, userID, ref.TMDBID)
	}
	if _, err := s.Add(ctx, userID, ref); err != nil {
		return false, err
	}
	return true, nil
}
