package handlers

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/goccy/go-json"

	"filmpivot/config"
	"filmpivot/internal/logging"
	"filmpivot/models"
	"filmpivot/services/users"
)

// SignatureHeader carries the hex HMAC-SHA256 of the raw request body.
const SignatureHeader = "X-Webhook-Signature"

const maxWebhookBody = 1 << 20

type WebhookHandler struct {
	Users          userService
	identitySecret []byte
	billingSecret  []byte
}

func NewWebhookHandler(service userService, cfg config.WebhookConfig) *WebhookHandler {
	return &WebhookHandler{
		Users:          service,
		identitySecret: []byte(cfg.IdentitySecret),
		billingSecret:  []byte(cfg.BillingSecret),
	}
}

type identityEvent struct {
	Type string `json:"type"`
	Data struct {
		ID             string `json:"id"`
		EmailAddresses []struct {
			EmailAddress string `json:"email_address"`
		} `json:"email_addresses"`
		FirstName *string `json:"first_name"`
		LastName  *string `json:"last_name"`
		ImageURL  *string `json:"image_url"`
	} `json:"data"`
}

func (e identityEvent) profile() models.UserProfile {
	p := models.UserProfile{ExternalID: e.Data.ID}
	if len(e.Data.EmailAddresses) > 0 {
		p.Email = e.Data.EmailAddresses[0].EmailAddress
	}
	var parts []string
	for _, s := range []*string{e.Data.FirstName, e.Data.LastName} {
		if s != nil && strings.TrimSpace(*s) != "" {
			parts = append(parts, strings.TrimSpace(*s))
		}
	}
	if len(parts) > 0 {
		name := strings.Join(parts, " ")
		p.Name = &name
	}
	if e.Data.ImageURL != nil && *e.Data.ImageURL != "" {
		p.ImageURL = e.Data.ImageURL
	}
	return p
}

type billingEvent struct {
	Type string `json:"type"`
	Data struct {
		Object struct {
			ID                string  `json:"id"`
			Customer          string  `json:"customer"`
			Subscription      *string `json:"subscription"`
			Status            string  `json:"status"`
			ClientReferenceID *string `json:"client_reference_id"`
		} `json:"object"`
	} `json:"data"`
}

// readSigned returns the body when its signature matches secret. It writes
// the error response itself and returns false otherwise.
func readSigned(w http.ResponseWriter, r *http.Request, secret []byte) ([]byte, bool) {
	if len(secret) == 0 {
		writeError(w, http.StatusServiceUnavailable, "webhook is not configured")
		return nil, false
	}
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBody))
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read body")
		return nil, false
	}
	if !validSignature(secret, body, r.Header.Get(SignatureHeader)) {
		writeError(w, http.StatusBadRequest, "invalid signature")
		return nil, false
	}
	return body, true
}

func validSignature(secret, body []byte, signature string) bool {
	got, err := hex.DecodeString(strings.TrimSpace(signature))
	if err != nil || len(got) == 0 {
		return false
	}
	mac := hmac.New(sha256.New, secret)
	mac.Write(body)
	return hmac.Equal(got, mac.Sum(nil))
}

// Sign returns the signature value a sender puts in SignatureHeader.
func Sign(secret, body []byte) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// Identity applies user lifecycle events from the identity provider.
func (h *WebhookHandler) Identity(w http.ResponseWriter, r *http.Request) {
	body, ok := readSigned(w, r, h.identitySecret)
	if !ok {
		return
	}
	var evt identityEvent
	if err := json.Unmarshal(body, &evt); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if evt.Data.ID == "" {
		writeError(w, http.StatusBadRequest, "missing user id")
		return
	}

	ctx := r.Context()
	var err error
	switch evt.Type {
	case "user.created":
		_, err = h.Users.Sync(ctx, evt.profile())
	case "user.updated":
		_, err = h.Users.Update(ctx, evt.profile())
		if errors.Is(err, users.ErrUserNotFound) {
			_, err = h.Users.Sync(ctx, evt.profile())
		}
	case "user.deleted":
		err = h.Users.Delete(ctx, evt.Data.ID)
	default:
		logging.Component("webhooks").Debug().Str("type", evt.Type).Msg("ignoring identity event")
	}
	if err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// Billing applies subscription events from the billing provider.
func (h *WebhookHandler) Billing(w http.ResponseWriter, r *http.Request) {
	body, ok := readSigned(w, r, h.billingSecret)
	if !ok {
		return
	}
	var evt billingEvent
	if err := json.Unmarshal(body, &evt); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	obj := evt.Data.Object
	switch evt.Type {
	case "checkout.session.completed", "customer.subscription.updated", "customer.subscription.deleted":
		if obj.Customer == "" {
			writeError(w, http.StatusBadRequest, "missing customer")
			return
		}
	}

	ctx := r.Context()
	var err error
	switch evt.Type {
	case "checkout.session.completed":
		if obj.ClientReferenceID != nil && *obj.ClientReferenceID != "" {
			err = h.Users.SetBillingCustomerID(ctx, *obj.ClientReferenceID, obj.Customer, obj.Subscription)
		}
		if err == nil {
			err = h.Users.SetPremiumStatus(ctx, obj.Customer, obj.Subscription, true)
		}
	case "customer.subscription.updated":
		premium := obj.Status == "active" || obj.Status == "trialing"
		err = h.Users.SetPremiumStatus(ctx, obj.Customer, &obj.ID, premium)
	case "customer.subscription.deleted":
		err = h.Users.SetPremiumStatus(ctx, obj.Customer, nil, false)
	default:
		logging.Component("webhooks").Debug().Str("type", evt.Type).Msg("ignoring billing event")
	}
	if errors.Is(err, users.ErrUserNotFound) {
		logging.Component("webhooks").Warn().Str("type", evt.Type).Str("customer", obj.Customer).Msg("billing event for unknown customer")
		w.WriteHeader(http.StatusOK)
		return
	}
	if err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}
