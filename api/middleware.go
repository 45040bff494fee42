package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/mux"

	"filmpivot/internal/auth"
	"filmpivot/internal/logging"
	"filmpivot/internal/metrics"
	"filmpivot/models"
	"filmpivot/services/users"
)

// Re-export from auth package so handlers only import one package.
var (
	GetUserID = auth.GetUserID
	UserIDPtr = auth.UserIDPtr
)

type userLookup interface {
	GetByExternalID(ctx context.Context, externalID string) (*models.User, error)
}

var _ userLookup = (*users.Service)(nil)

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

// UserContextMiddleware resolves the X-User-ID header to a local user and
// stores it in the request context. Requests without the header continue
// anonymously; an id with no local user is rejected.
func UserContextMiddleware(lookup userLookup) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			externalID := strings.TrimSpace(r.Header.Get(auth.HeaderUserID))
			if externalID == "" || r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			user, err := lookup.GetByExternalID(r.Context(), externalID)
			if errors.Is(err, users.ErrUserNotFound) {
				writeError(w, http.StatusUnauthorized, "unknown user")
				return
			}
			if err != nil {
				logging.Component("http").Error().Err(err).Str("external_id", externalID).Msg("user lookup failed")
				writeError(w, http.StatusInternalServerError, "user lookup failed")
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.WithUser(r.Context(), user.ID, user.ExternalID)))
		})
	}
}

// RequireUserMiddleware rejects anonymous requests.
func RequireUserMiddleware() mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}
			if GetUserID(r) == "" {
				writeError(w, http.StatusUnauthorized, "authentication required")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// UserOwnershipMiddleware only lets a user reach routes scoped to their own
// {userID}. Other users' resources look absent.
func UserOwnershipMiddleware() mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}
			userID := mux.Vars(r)["userID"]
			if userID == "" {
				next.ServeHTTP(w, r)
				return
			}
			if userID != GetUserID(r) {
				writeError(w, http.StatusNotFound, "user not found")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// InstrumentMiddleware records request counts and latency per route template
// and writes an access log line.
func InstrumentMiddleware() mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			route := "unmatched"
			if current := mux.CurrentRoute(r); current != nil {
				if tpl, err := current.GetPathTemplate(); err == nil {
					route = tpl
				}
			}
			elapsed := time.Since(start)
			metrics.HTTPRequests.WithLabelValues(route, r.Method, strconv.Itoa(rec.status)).Inc()
			metrics.HTTPRequestDuration.WithLabelValues(route, r.Method).Observe(elapsed.Seconds())

			evt := logging.Component("http").Debug()
			if rec.status >= http.StatusInternalServerError {
				evt = logging.Component("http").Warn()
			}
			evt.Str("method", r.Method).
				Str("route", route).
				Int("status", rec.status).
				Dur("duration", elapsed).
				Msg("request")
		})
	}
}
