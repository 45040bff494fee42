package handlers

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"

	"filmpivot/models"
	"filmpivot/services/watchlist"
)

type watchlistService interface {
	List(ctx context.Context, userID string, filter models.WatchlistFilter) ([]models.WatchlistEntry, error)
	Add(ctx context.Context, userID string, in models.WatchlistAdd) (*models.WatchlistEntry, error)
	Remove(ctx context.Context, userID string, tmdbID int64) error
	Toggle(ctx context.Context, userID string, in models.WatchlistAdd) (bool, error)
	MarkWatched(ctx context.Context, userID string, tmdbID int64) (*models.WatchlistEntry, error)
	MarkUnwatched(ctx context.Context, userID string, tmdbID int64) (*models.WatchlistEntry, error)
	UpdateNotes(ctx context.Context, userID string, tmdbID int64, notes *string, priority *int) (*models.WatchlistEntry, error)
}

var _ watchlistService = (*watchlist.Service)(nil)

type WatchlistHandler struct {
	Service watchlistService
}

func NewWatchlistHandler(service watchlistService) *WatchlistHandler {
	return &WatchlistHandler{Service: service}
}

type watchlistStatus struct {
	TMDBID      int64 `json:"tmdbId"`
	OnWatchlist bool  `json:"onWatchlist"`
}

// watchlistPatch updates the watched state, the notes and priority, or both.
// Notes and priority are replaced together.
type watchlistPatch struct {
	Watched  *bool   `json:"watched,omitempty"`
	Notes    *string `json:"notes,omitempty"`
	Priority *int    `json:"priority,omitempty"`
}

func (h *WatchlistHandler) List(w http.ResponseWriter, r *http.Request) {
	filter, err := watchlist.ParseFilter(r.URL.Query().Get("status"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	items, err := h.Service.List(r.Context(), mux.Vars(r)["userID"], filter)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *WatchlistHandler) Add(w http.ResponseWriter, r *http.Request) {
	var body models.WatchlistAdd
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	item, err := h.Service.Add(r.Context(), mux.Vars(r)["userID"], body)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *WatchlistHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	var body models.WatchlistAdd
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	onList, err := h.Service.Toggle(r.Context(), mux.Vars(r)["userID"], body)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, watchlistStatus{TMDBID: body.TMDBID, OnWatchlist: onList})
}

func (h *WatchlistHandler) Remove(w http.ResponseWriter, r *http.Request) {
	movieID, ok := pathID(r, "movieID")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid movie id")
		return
	}
	if err := h.Service.Remove(r.Context(), mux.Vars(r)["userID"], movieID); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *WatchlistHandler) Update(w http.ResponseWriter, r *http.Request) {
	movieID, ok := pathID(r, "movieID")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid movie id")
		return
	}
	var body watchlistPatch
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if body.Watched == nil && body.Notes == nil && body.Priority == nil {
		writeError(w, http.StatusBadRequest, "nothing to update")
		return
	}

	ctx, userID := r.Context(), mux.Vars(r)["userID"]
	var (
		item *models.WatchlistEntry
		err  error
	)
	if body.Watched != nil {
		if *body.Watched {
			item, err = h.Service.MarkWatched(ctx, userID, movieID)
		} else {
			item, err = h.Service.MarkUnwatched(ctx, userID, movieID)
		}
		if err != nil {
			respondError(w, r, err)
			return
		}
	}
	if body.Notes != nil || body.Priority != nil {
		item, err = h.Service.UpdateNotes(ctx, userID, movieID, body.Notes, body.Priority)
		if err != nil {
			respondError(w, r, err)
			return
		}
	}
	if item == nil {
		writeError(w, http.StatusNotFound, "movie is not on the watchlist")
		return
	}
	writeJSON(w, http.StatusOK, item)
}
