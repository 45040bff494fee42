package handlers

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"

	"filmpivot/models"
	"filmpivot/services/favorites"
)

type favoritesService interface {
	List(ctx context.Context, userID string) ([]models.FavoriteEntry, error)
	IsFavorite(ctx context.Context, userID string, tmdbID int64) (bool, error)
	Add(ctx context.Context, userID string, ref models.MovieRef) (*models.FavoriteEntry, error)
	Remove(ctx context.Context, userID string, tmdbID int64) error
	Toggle(ctx context.Context, userID string, ref models.MovieRef) (bool, error)
}

var _ favoritesService = (*favorites.Service)(nil)

type FavoritesHandler struct {
	Service favoritesService
}

func NewFavoritesHandler(service favoritesService) *FavoritesHandler {
	return &FavoritesHandler{Service: service}
}

type favoriteStatus struct {
	TMDBID     int64 `json:"tmdbId"`
	IsFavorite bool  `json:"isFavorite"`
}

func (h *FavoritesHandler) List(w http.ResponseWriter, r *http.Request) {
	entries, err := h.Service.List(r.Context(), mux.Vars(r)["userID"])
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (h *FavoritesHandler) Add(w http.ResponseWriter, r *http.Request) {
	var body models.MovieRef
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	entry, err := h.Service.Add(r.Context(), mux.Vars(r)["userID"], body)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

func (h *FavoritesHandler) Status(w http.ResponseWriter, r *http.Request) {
	movieID, ok := pathID(r, "movieID")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid movie id")
		return
	}
	fav, err := h.Service.IsFavorite(r.Context(), mux.Vars(r)["userID"], movieID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, favoriteStatus{TMDBID: movieID, IsFavorite: fav})
}

func (h *FavoritesHandler) Remove(w http.ResponseWriter, r *http.Request) {
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

func (h *FavoritesHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	var body models.MovieRef
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	fav, err := h.Service.Toggle(r.Context(), mux.Vars(r)["userID"], body)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, favoriteStatus{TMDBID: body.TMDBID, IsFavorite: fav})
}
