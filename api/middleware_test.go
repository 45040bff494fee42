package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"

	"filmpivot/models"
	"filmpivot/services/users"
)

type stubLookup map[string]*models.User

func (s stubLookup) GetByExternalID(_ context.Context, externalID string) (*models.User, error) {
	if externalID == "boom" {
		return nil, errors.New("database is locked")
	}
	if u, ok := s[externalID]; ok {
		return u, nil
	}
	return nil, users.ErrUserNotFound
}

func echoUser() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(GetUserID(r)))
	})
}

func TestUserContextMiddleware(t *testing.T) {
	lookup := stubLookup{"idp_1": {ID: "user-1", ExternalID: "idp_1"}}
	handler := UserContextMiddleware(lookup)(echoUser())

	tests := []struct {
		name   string
		header string
		code   int
		body   string
	}{
		{"anonymous", "", http.StatusOK, ""},
		{"known user", "idp_1", http.StatusOK, "user-1"},
		{"unknown user", "idp_2", http.StatusUnauthorized, ""},
		{"lookup failure", "boom", http.StatusInternalServerError, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("X-User-ID", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			if rec.Code != tt.code {
				t.Fatalf("expected %d, got %d", tt.code, rec.Code)
			}
			if tt.code == http.StatusOK && rec.Body.String() != tt.body {
				t.Fatalf("expected user %q, got %q", tt.body, rec.Body.String())
			}
		})
	}
}

func TestOwnershipMiddleware(t *testing.T) {
	lookup := stubLookup{"idp_1": {ID: "user-1", ExternalID: "idp_1"}}
	r := mux.NewRouter()
	r.Use(UserContextMiddleware(lookup), RequireUserMiddleware(), UserOwnershipMiddleware())
	r.Handle("/users/{userID}/favorites", echoUser())

	tests := []struct {
		path   string
		header string
		code   int
	}{
		{"/users/user-1/favorites", "idp_1", http.StatusOK},
		{"/users/user-2/favorites", "idp_1", http.StatusNotFound},
		{"/users/user-1/favorites", "", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, tt.path, nil)
		if tt.header != "" {
			req.Header.Set("X-User-ID", tt.header)
		}
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		if rec.Code != tt.code {
			t.Errorf("%s as %q: expected %d, got %d", tt.path, tt.header, tt.code, rec.Code)
		}
	}
}

func TestInstrumentMiddlewareKeepsStatus(t *testing.T) {
	r := mux.NewRouter()
	r.Use(InstrumentMiddleware())
	r.HandleFunc("/movies/{movieID}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/movies/42", nil))
	if rec.Code != http.StatusTeapot {
		t.Fatalf("expected status passed through, got %d", rec.Code)
	}
}
