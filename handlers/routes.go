package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"filmpivot/api"
	"filmpivot/services/users"
)

// Set groups the handlers mounted under /api.
type Set struct {
	Discovery *DiscoveryHandler
	Favorites *FavoritesHandler
	Watchlist *WatchlistHandler
	History   *HistoryHandler
	Users     *UsersHandler
	Webhooks  *WebhookHandler
	Version   *VersionHandler
}

// Register mounts the API on r. Catalogue and discovery routes accept
// anonymous callers; everything scoped to a user requires X-User-ID.
func Register(r *mux.Router, set Set, userSvc *users.Service, limiter *api.IPRateLimiter) {
	r.Use(api.InstrumentMiddleware())

	hooks := r.PathPrefix("/api/webhooks").Subrouter()
	hooks.HandleFunc("/identity", set.Webhooks.Identity).Methods(http.MethodPost)
	hooks.HandleFunc("/billing", set.Webhooks.Billing).Methods(http.MethodPost)

	apiRouter := r.PathPrefix("/api").Subrouter()
	apiRouter.Use(limiter.Middleware, api.UserContextMiddleware(userSvc))

	apiRouter.HandleFunc("/version", set.Version.GetVersion).Methods(http.MethodGet)
	apiRouter.HandleFunc("/movies/search", set.Discovery.Search).Methods(http.MethodGet)
	apiRouter.HandleFunc("/movies/{movieID}", set.Discovery.Movie).Methods(http.MethodGet)
	apiRouter.HandleFunc("/directors/{personID}", set.Discovery.Director).Methods(http.MethodGet)
	apiRouter.HandleFunc("/studios/{companyID}", set.Discovery.Studio).Methods(http.MethodGet)
	apiRouter.HandleFunc("/discover/{mode}/{movieID}", set.Discovery.Discover).Methods(http.MethodGet)

	private := apiRouter.NewRoute().Subrouter()
	private.Use(api.RequireUserMiddleware(), api.UserOwnershipMiddleware())

	private.HandleFunc("/users/me", set.Users.Me).Methods(http.MethodGet)

	private.HandleFunc("/users/{userID}/favorites", set.Favorites.List).Methods(http.MethodGet)
	private.HandleFunc("/users/{userID}/favorites", set.Favorites.Add).Methods(http.MethodPost)
	private.HandleFunc("/users/{userID}/favorites/toggle", set.Favorites.Toggle).Methods(http.MethodPost)
	private.HandleFunc("/users/{userID}/favorites/{movieID}", set.Favorites.Status).Methods(http.MethodGet)
	private.HandleFunc("/users/{userID}/favorites/{movieID}", set.Favorites.Remove).Methods(http.MethodDelete)

	private.HandleFunc("/users/{userID}/watchlist", set.Watchlist.List).Methods(http.MethodGet)
	private.HandleFunc("/users/{userID}/watchlist", set.Watchlist.Add).Methods(http.MethodPost)
	private.HandleFunc("/users/{userID}/watchlist/toggle", set.Watchlist.Toggle).Methods(http.MethodPost)
	private.HandleFunc("/users/{userID}/watchlist/{movieID}", set.Watchlist.Update).Methods(http.MethodPatch)
	private.HandleFunc("/users/{userID}/watchlist/{movieID}", set.Watchlist.Remove).Methods(http.MethodDelete)

	private.HandleFunc("/users/{userID}/history", set.History.List).Methods(http.MethodGet)
	private.HandleFunc("/users/{userID}/history", set.History.Clear).Methods(http.MethodDelete)
	private.HandleFunc("/history/{sessionID}", set.History.Get).Methods(http.MethodGet)
	private.HandleFunc("/history/{sessionID}", set.History.Delete).Methods(http.MethodDelete)
}
