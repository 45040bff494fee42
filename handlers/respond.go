package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
	"github.com/gorilla/mux"

	"filmpivot/internal/logging"
	"filmpivot/services/discovery"
	"filmpivot/services/history"
	"filmpivot/services/tmdb"
	"filmpivot/services/users"
)

var errNotFound = errors.New("not found")

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Component("http").Warn().Err(err).Msg("encode response")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// respondError maps a service error to a status code and a client-safe
// message.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		fetchErr   *tmdb.FetchError
		invalidErr validator.ValidationErrors
	)
	switch {
	case errors.Is(err, tmdb.ErrNotConfigured):
		logging.Component("http").Error().Err(err).Msg("metadata source not configured")
		writeError(w, http.StatusInternalServerError, "metadata source is not configured")
	case errors.As(err, &fetchErr) && fetchErr.NotFound():
		writeError(w, http.StatusNotFound, "not found upstream")
	case errors.As(err, &fetchErr):
		logging.Component("http").Warn().Err(err).Str("path", r.URL.Path).Msg("upstream fetch failed")
		writeError(w, http.StatusBadGateway, "failed to fetch movie metadata")
	case errors.Is(err, discovery.ErrNoDirectorFound), errors.Is(err, discovery.ErrNoStudioFound):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, users.ErrUserNotFound), errors.Is(err, errNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.As(err, &invalidErr),
		errors.Is(err, discovery.ErrInvalidMode),
		errors.Is(err, history.ErrInvalidSession):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		logging.Component("http").Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// decodeJSON reads a request body, rejecting unknown fields.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// pathID parses a positive numeric path variable.
func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)[name], 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
