package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"filmpivot/api"
	"filmpivot/models"
	"filmpivot/services/history"
)

type historyService interface {
	List(ctx context.Context, userID string, limit int) ([]models.DiscoverySession, error)
	Get(ctx context.Context, sessionID string) (*models.DiscoverySession, error)
	Delete(ctx context.Context, sessionID string) error
	ClearAll(ctx context.Context, userID string) (int64, error)
}

var _ historyService = (*history.Service)(nil)

type HistoryHandler struct {
	Service historyService
}

func NewHistoryHandler(service historyService) *HistoryHandler {
	return &HistoryHandler{Service: service}
}

func (h *HistoryHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}
	sessions, err := h.Service.List(r.Context(), mux.Vars(r)["userID"], limit)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sessions)
}

func (h *HistoryHandler) Clear(w http.ResponseWriter, r *http.Request) {
	n, err := h.Service.ClearAll(r.Context(), mux.Vars(r)["userID"])
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"deleted": n})
}

// Get returns one of the caller's sessions. Sessions of other users look
// absent.
func (h *HistoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	session, ok := h.ownedSession(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, session)
}

func (h *HistoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	session, ok := h.ownedSession(w, r)
	if !ok {
		return
	}
	if err := h.Service.Delete(r.Context(), session.ID); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *HistoryHandler) ownedSession(w http.ResponseWriter, r *http.Request) (*models.DiscoverySession, bool) {
	session, err := h.Service.Get(r.Context(), mux.Vars(r)["sessionID"])
	if err != nil {
		respondError(w, r, err)
		return nil, false
	}
	if session == nil || session.UserID != api.GetUserID(r) {
		writeError(w, http.StatusNotFound, "session not found")
		return nil, false
	}
	return session, true
}
