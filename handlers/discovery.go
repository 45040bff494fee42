package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"filmpivot/api"
	"filmpivot/models"
	"filmpivot/services/discovery"
	"filmpivot/services/tmdb"
)

type discoveryService interface {
	Discover(ctx context.Context, mode models.DiscoveryMode, seedMovieID int64, userID *string) (*models.DiscoveryResult, error)
	MovieDetails(ctx context.Context, tmdbID int64) (*models.CachedMovie, error)
	DirectorDetails(ctx context.Context, personID int64) (*models.CachedDirector, error)
	StudioDetails(ctx context.Context, companyID int64) (*models.CachedStudio, error)
}

var _ discoveryService = (*discovery.Service)(nil)

type movieSearcher interface {
	SearchMovies(ctx context.Context, query string, page int) (*models.MovieSearchPage, error)
}

var _ movieSearcher = (*tmdb.Client)(nil)

type DiscoveryHandler struct {
	Service  discoveryService
	Searcher movieSearcher
}

func NewDiscoveryHandler(service discoveryService, searcher movieSearcher) *DiscoveryHandler {
	return &DiscoveryHandler{Service: service, Searcher: searcher}
}

// Discover runs a director or studio pivot from the seed movie. Requests
// carrying a user are recorded in that user's history.
func (h *DiscoveryHandler) Discover(w http.ResponseWriter, r *http.Request) {
	mode := models.DiscoveryMode(mux.Vars(r)["mode"])
	if !mode.Valid() {
		writeError(w, http.StatusBadRequest, "mode must be director or studio")
		return
	}
	movieID, ok := pathID(r, "movieID")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid movie id")
		return
	}

	result, err := h.Service.Discover(r.Context(), mode, movieID, api.UserIDPtr(r))
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *DiscoveryHandler) Movie(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "movieID")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid movie id")
		return
	}
	movie, err := h.Service.MovieDetails(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, movie)
}

func (h *DiscoveryHandler) Director(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "personID")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid person id")
		return
	}
	director, err := h.Service.DirectorDetails(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, director)
}

func (h *DiscoveryHandler) Studio(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "companyID")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid company id")
		return
	}
	studio, err := h.Service.StudioDetails(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, studio)
}

// Search proxies a title search. Results are not cached.
func (h *DiscoveryHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		writeError(w, http.StatusBadRequest, "q is required")
		return
	}
	page := 1
	if raw := r.URL.Query().Get("page"); raw != "" {
		p, err := strconv.Atoi(raw)
		if err != nil || p < 1 {
			writeError(w, http.StatusBadRequest, "invalid page")
			return
		}
		page = p
	}

	results, err := h.Searcher.SearchMovies(r.Context(), query, page)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, results)
}
