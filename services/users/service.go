// Package users keeps local user records in sync with the identity and
// billing providers.
package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"filmpivot/internal/database"
	"filmpivot/internal/logging"
	"filmpivot/models"
)

var ErrUserNotFound = errors.New("user not found")

var validate = validator.New()

// Repository persists users.
type Repository interface {
	CreateUser(ctx context.Context, p models.UserProfile) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetUserByExternalID(ctx context.Context, externalID string) (*models.User, error)
	GetUserByBillingCustomerID(ctx context.Context, customerID string) (*models.User, error)
	UpdateUser(ctx context.Context, p models.UserProfile) (*models.User, error)
	SetBillingCustomerID(ctx context.Context, userID, customerID string, subscriptionID *string) error
	SetPremiumStatus(ctx context.Context, userID string, subscriptionID *string, premium bool) error
	DeleteUserCascade(ctx context.Context, userID string) error
}

// Service manages users.
type Service struct {
	repo Repository
}

// NewService creates a users service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Sync creates the user for the profile, or returns the existing one.
func (s *Service) Sync(ctx context.Context, p models.UserProfile) (*models.User, error) {
	if err := validate.Struct(p); err != nil {
		return nil, err
	}
	u, err := s.repo.CreateUser(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("sync user: %w", err)
	}
	return u, nil
}

// Update refreshes the profile of an existing user. Nil name or image keep
// their stored values; an empty email keeps the stored email.
func (s *Service) Update(ctx context.Context, p models.UserProfile) (*models.User, error) {
	if err := validate.Struct(p); err != nil {
		return nil, err
	}
	existing, err := s.repo.GetUserByExternalID(ctx, p.ExternalID)
	if err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	if existing == nil {
		return nil, ErrUserNotFound
	}
	if p.Email == "" {
		p.Email = existing.Email
	}
	if p.Name == nil {
		p.Name = existing.Name
	}
	if p.ImageURL == nil {
		p.ImageURL = existing.ImageURL
	}

	u, err := s.repo.UpdateUser(ctx, p)
	if errors.Is(err, database.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	return u, nil
}

// Delete removes the user and everything they own. Unknown users are
// ignored.
func (s *Service) Delete(ctx context.Context, externalID string) error {
	u, err := s.repo.GetUserByExternalID(ctx, externalID)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if u == nil {
		logging.Component("users").Debug().Str("external_id", externalID).Msg("delete for unknown user ignored")
		return nil
	}
	err = s.repo.DeleteUserCascade(ctx, u.ID)
	if err != nil && !errors.Is(err, database.ErrNoRows) {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}

// Get returns the user with the internal id.
func (s *Service) Get(ctx context.Context, id string) (*models.User, error) {
	u, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

// GetByExternalID returns the user with the identity-provider id.
func (s *Service) GetByExternalID(ctx context.Context, externalID string) (*models.User, error) {
	u, err := s.repo.GetUserByExternalID(ctx, externalID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

// SetBillingCustomerID links a billing customer to the user.
func (s *Service) SetBillingCustomerID(ctx context.Context, externalID, customerID string, subscriptionID *string) error {
	u, err := s.GetByExternalID(ctx, externalID)
	if err != nil {
		return err
	}
	if err := s.repo.SetBillingCustomerID(ctx, u.ID, customerID, subscriptionID); err != nil {
		return fmt.Errorf("set billing customer: %w", err)
	}
	return nil
}

// SetPremiumStatus updates the premium flag and subscription of the user
// linked to the billing customer. A nil subscriptionID clears the stored
// subscription. Repeating the same update is harmless.
func (s *Service) SetPremiumStatus(ctx context.Context, customerID string, subscriptionID *string, premium bool) error {
	u, err := s.repo.GetUserByBillingCustomerID(ctx, customerID)
	if err != nil {
		return fmt.Errorf("set premium status: %w", err)
	}
	if u == nil {
		return ErrUserNotFound
	}
	if err := s.repo.SetPremiumStatus(ctx, u.ID, subscriptionID, premium); err != nil {
		return fmt.Errorf("set premium status: %w", err)
	}
	logging.Component("users").Info().Str("user_id", u.ID).Bool("premium", premium).Msg("premium status updated")
	return nil
}
