package models

import "time"

// CacheTTL is how long a cached movie, director or studio record stays fresh.
const CacheTTL = 7 * 24 * time.Hour

// Genre is a TMDB genre attached to a movie.
type Genre struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// ProductionCompany is a studio credited on a movie. The first entry of a
// movie's list is treated as its primary studio.
type ProductionCompany struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	LogoPath *string `json:"logoPath,omitempty"`
}

// CachedMovie is the normalized movie record kept in the movie cache.
type CachedMovie struct {
	TMDBID              int64               `json:"tmdbId"`
	Title               string              `json:"title"`
	OriginalTitle       *string             `json:"originalTitle,omitempty"`
	Overview            *string             `json:"overview,omitempty"`
	PosterPath          *string             `json:"posterPath,omitempty"`
	BackdropPath        *string             `json:"backdropPath,omitempty"`
	ReleaseDate         string              `json:"releaseDate"`
	ReleaseYear         int                 `json:"releaseYear"` // 0 when the release date is missing or unparseable
	Runtime             *int                `json:"runtime,omitempty"`
	VoteAverage         *float64            `json:"voteAverage,omitempty"`
	VoteCount           *int64              `json:"voteCount,omitempty"`
	Genres              []Genre             `json:"genres"`
	DirectorID          *int64              `json:"directorId,omitempty"`
	DirectorName        *string             `json:"directorName,omitempty"`
	ProductionCompanies []ProductionCompany `json:"productionCompanies"`
	CachedAt            time.Time           `json:"cachedAt"`
	LastAccessedAt      time.Time           `json:"lastAccessedAt"`
}

// GenreIDs returns the ids of the movie's genres in order.
func (m CachedMovie) GenreIDs() []int64 {
	ids := make([]int64, 0, len(m.Genres))
	for _, g := range m.Genres {
		ids = append(ids, g.ID)
	}
	return ids
}

// PrimaryStudio returns the first listed production company, if any.
func (m CachedMovie) PrimaryStudio() (ProductionCompany, bool) {
	if len(m.ProductionCompanies) == 0 {
		return ProductionCompany{}, false
	}
	return m.ProductionCompanies[0], true
}

// FilmographyEntry is one movie in a director's or studio's filmography.
// Job is only populated for director credits.
type FilmographyEntry struct {
	TMDBID      int64    `json:"tmdbId"`
	Title       string   `json:"title"`
	ReleaseYear int      `json:"releaseYear"`
	PosterPath  *string  `json:"posterPath,omitempty"`
	VoteAverage *float64 `json:"voteAverage,omitempty"`
	VoteCount   *int64   `json:"voteCount,omitempty"`
	Job         string   `json:"job,omitempty"`
}

// CachedDirector is a TMDB person record with their directing credits.
type CachedDirector struct {
	TMDBPersonID int64              `json:"tmdbPersonId"`
	Name         string             `json:"name"`
	ProfilePath  *string            `json:"profilePath,omitempty"`
	Biography    *string            `json:"biography,omitempty"`
	Birthday     *string            `json:"birthday,omitempty"`
	PlaceOfBirth *string            `json:"placeOfBirth,omitempty"`
	Filmography  []FilmographyEntry `json:"filmography"`
	CachedAt     time.Time          `json:"cachedAt"`
}

// CachedStudio is a TMDB company record with the movies it produced,
// most voted first.
type CachedStudio struct {
	TMDBCompanyID int64              `json:"tmdbCompanyId"`
	Name          string             `json:"name"`
	LogoPath      *string            `json:"logoPath,omitempty"`
	Description   *string            `json:"description,omitempty"`
	Headquarters  *string            `json:"headquarters,omitempty"`
	Homepage      *string            `json:"homepage,omitempty"`
	Filmography   []FilmographyEntry `json:"filmography"`
	CachedAt      time.Time          `json:"cachedAt"`
}

// MovieSearchResult is a single hit from a title search.
type MovieSearchResult struct {
	TMDBID        int64    `json:"tmdbId"`
	Title         string   `json:"title"`
	OriginalTitle *string  `json:"originalTitle,omitempty"`
	Overview      *string  `json:"overview,omitempty"`
	PosterPath    *string  `json:"posterPath,omitempty"`
	BackdropPath  *string  `json:"backdropPath,omitempty"`
	ReleaseDate   string   `json:"releaseDate"`
	ReleaseYear   int      `json:"releaseYear"`
	VoteAverage   *float64 `json:"voteAverage,omitempty"`
	VoteCount     *int64   `json:"voteCount,omitempty"`
	GenreIDs      []int64  `json:"genreIds"`
}

// MovieSearchPage is one page of title search results.
type MovieSearchPage struct {
	Page         int                 `json:"page"`
	TotalPages   int                 `json:"totalPages"`
	TotalResults int                 `json:"totalResults"`
	Results      []MovieSearchResult `json:"results"`
}
