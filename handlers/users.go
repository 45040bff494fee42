package handlers

import (
	"context"
	"net/http"

	"filmpivot/api"
	"filmpivot/models"
	"filmpivot/services/users"
)

type userService interface {
	Get(ctx context.Context, id string) (*models.User, error)
	Sync(ctx context.Context, p models.UserProfile) (*models.User, error)
	Update(ctx context.Context, p models.UserProfile) (*models.User, error)
	Delete(ctx context.Context, externalID string) error
	SetBillingCustomerID(ctx context.Context, externalID, customerID string, subscriptionID *string) error
	SetPremiumStatus(ctx context.Context, customerID string, subscriptionID *string, premium bool) error
}

var _ userService = (*users.Service)(nil)

type UsersHandler struct {
	Service userService
}

func NewUsersHandler(service userService) *UsersHandler {
	return &UsersHandler{Service: service}
}

// Me returns the user resolved from the request.
func (h *UsersHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := h.Service.Get(r.Context(), api.GetUserID(r))
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}
