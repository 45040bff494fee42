package models

import "time"

// User is the local record of an identity-provider account. It owns the
// user's favorites, watchlist and discovery sessions.
type User struct {
	ID                    string    `json:"id"`
	ExternalID            string    `json:"externalId"` // stable id issued by the identity provider
	Email                 string    `json:"email"`
	Name                  *string   `json:"name,omitempty"`
	ImageURL              *string   `json:"imageUrl,omitempty"`
	IsPremium             bool      `json:"isPremium"`
	BillingCustomerID     *string   `json:"-"`
	BillingSubscriptionID *string   `json:"-"`
	CreatedAt             time.Time `json:"createdAt"`
	UpdatedAt             time.Time `json:"updatedAt"`
}

// UserProfile carries the identity-provider fields used to create or update
// a user.
type UserProfile struct {
	ExternalID string  `json:"externalId" validate:"required"`
	Email      string  `json:"email" validate:"omitempty,email"`
	Name       *string `json:"name,omitempty"`
	ImageURL   *string `json:"imageUrl,omitempty" validate:"omitempty,url"`
}
