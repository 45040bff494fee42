// Package history records discovery runs and lists them per user.
package history

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"filmpivot/config"
	"filmpivot/models"
)

var ErrInvalidSession = errors.New("invalid discovery session")

// Repository persists discovery sessions.
type Repository interface {
	Insert(ctx context.Context, s models.DiscoverySession) error
	ListByUser(ctx context.Context, userID string, limit int) ([]models.DiscoverySession, error)
	Get(ctx context.Context, id string) (*models.DiscoverySession, error)
	Delete(ctx context.Context, id string) (bool, error)
	DeleteByUser(ctx context.Context, userID string) (int64, error)
}

// Service manages discovery history.
type Service struct {
	repo         Repository
	defaultLimit int
	maxLimit     int
	now          func() time.Time
}

// NewService creates a history service. Zero limits fall back to 20 and 100.
func NewService(repo Repository, cfg config.HistoryConfig) *Service {
	s := &Service{
		repo:         repo,
		defaultLimit: cfg.DefaultLimit,
		maxLimit:     cfg.MaxLimit,
		now:          time.Now,
	}
	if s.defaultLimit <= 0 {
		s.defaultLimit = 20
	}
	if s.maxLimit < s.defaultLimit {
		s.maxLimit = max(100, s.defaultLimit)
	}
	return s
}

// Record stores a finished discovery run, assigning its id and creation time.
func (s *Service) Record(ctx context.Context, session models.DiscoverySession) (models.DiscoverySession, error) {
	if strings.TrimSpace(session.UserID) == "" {
		return models.DiscoverySession{}, fmt.Errorf("%w: user id is required", ErrInvalidSession)
	}
	if !session.Mode.Valid() {
		return models.DiscoverySession{}, fmt.Errorf("%w: unknown mode %q", ErrInvalidSession, session.Mode)
	}
	session.ID = uuid.NewString()
	session.CreatedAt = s.now().UTC()
	if session.RecommendedMovieIDs == nil {
		session.RecommendedMovieIDs = []int64{}
	}
	if err := s.repo.Insert(ctx, session); err != nil {
		return models.DiscoverySession{}, fmt.Errorf("record session: %w", err)
	}
	return session, nil
}

// List returns the user's most recent sessions, newest first. A
// non-positive limit uses the default; larger limits are capped.
func (s *Service) List(ctx context.Context, userID string, limit int) ([]models.DiscoverySession, error) {
	if limit <= 0 {
		limit = s.defaultLimit
	}
	limit = min(limit, s.maxLimit)
	sessions, err := s.repo.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	return sessions, nil
}

// Get returns one session, or nil when it does not exist.
func (s *Service) Get(ctx context.Context, sessionID string) (*models.DiscoverySession, error) {
	session, err := s.repo.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	return session, nil
}

// Delete removes a session. Deleting an unknown session is not an error.
func (s *Service) Delete(ctx context.Context, sessionID string) error {
	if _, err := s.repo.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// ClearAll removes every session of the user and returns how many were
// removed.
func (s *Service) ClearAll(ctx context.Context, userID string) (int64, error) {
	n, err := s.repo.DeleteByUser(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("clear sessions: %w", err)
	}
	return n, nil
}
