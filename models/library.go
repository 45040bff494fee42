package models

import "time"

// FavoriteEntry is a movie a user marked as a favorite.
type FavoriteEntry struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	TMDBID      int64     `json:"tmdbId"`
	Title       string    `json:"title"`
	PosterPath  *string   `json:"posterPath,omitempty"`
	ReleaseYear int       `json:"releaseYear"`
	AddedAt     time.Time `json:"addedAt"`
}

// WatchlistEntry is a movie saved to a user's watchlist.
type WatchlistEntry struct {
	ID          string     `json:"id"`
	UserID      string     `json:"userId"`
	TMDBID      int64      `json:"tmdbId"`
	Title       string     `json:"title"`
	PosterPath  *string    `json:"posterPath,omitempty"`
	ReleaseYear int        `json:"releaseYear"`
	AddedAt     time.Time  `json:"addedAt"`
	Watched     bool       `json:"watched"`
	WatchedAt   *time.Time `json:"watchedAt,omitempty"` // only set while Watched is true
	Priority    *int       `json:"priority,omitempty"`
	Notes       *string    `json:"notes,omitempty"`
}

// MovieRef captures the denormalized movie fields stored with a favorite or
// watchlist entry.
type MovieRef struct {
	TMDBID      int64   `json:"tmdbId" validate:"required,gt=0"`
	Title       string  `json:"title" validate:"required"`
	PosterPath  *string `json:"posterPath,omitempty"`
	ReleaseYear int     `json:"releaseYear" validate:"gte=0"`
}

// WatchlistAdd captures the data required to add a watchlist entry.
type WatchlistAdd struct {
	MovieRef
	Priority *int    `json:"priority,omitempty"`
	Notes    *string `json:"notes,omitempty"`
}

// WatchlistFilter narrows a watchlist listing by watched state.
type WatchlistFilter string

const (
	WatchlistAll       WatchlistFilter = ""
	WatchlistWatched   WatchlistFilter = "watched"
	WatchlistUnwatched WatchlistFilter = "unwatched"
)
