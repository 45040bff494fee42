package models

// DiscoveryMode selects which attribution of the seed movie to pivot on.
type DiscoveryMode string

const (
	DiscoveryModeDirector DiscoveryMode = "director"
	DiscoveryModeStudio   DiscoveryMode = "studio"
)

// Valid reports whether the mode is one of the supported pivots.
func (m DiscoveryMode) Valid() bool {
	return m == DiscoveryModeDirector || m == DiscoveryModeStudio
}

// RecommendedMovie is the denormalized candidate shown in a recommendation.
type RecommendedMovie struct {
	TMDBID      int64    `json:"tmdbId"`
	Title       string   `json:"title"`
	PosterPath  *string  `json:"posterPath,omitempty"`
	ReleaseYear int      `json:"releaseYear"`
	VoteAverage *float64 `json:"voteAverage,omitempty"`
	VoteCount   *int64   `json:"voteCount,omitempty"`
}

// ScoreBreakdown lists the individual terms that add up to a score.
type ScoreBreakdown struct {
	YearProximity   int `json:"yearProximity"`
	RatingQuality   int `json:"ratingQuality"`
	GenreOverlap    int `json:"genreOverlap"`
	PopularityBoost int `json:"popularityBoost"`
}

// Total sums the breakdown terms.
func (b ScoreBreakdown) Total() int {
	return b.YearProximity + b.RatingQuality + b.GenreOverlap + b.PopularityBoost
}

// Recommendation is a scored candidate movie.
type Recommendation struct {
	Movie          RecommendedMovie `json:"movie"`
	Score          int              `json:"score"`
	ScoreBreakdown ScoreBreakdown   `json:"scoreBreakdown"`
}

// DirectorSummary describes the director a discovery pivoted on.
type DirectorSummary struct {
	ID           int64   `json:"id"`
	Name         string  `json:"name"`
	ProfilePath  *string `json:"profilePath,omitempty"`
	Biography    *string `json:"biography,omitempty"`
	Birthday     *string `json:"birthday,omitempty"`
	PlaceOfBirth *string `json:"placeOfBirth,omitempty"`
	TotalFilms   int     `json:"totalFilms"`
}

// StudioSummary describes the studio a discovery pivoted on.
type StudioSummary struct {
	ID           int64   `json:"id"`
	Name         string  `json:"name"`
	LogoPath     *string `json:"logoPath,omitempty"`
	Description  *string `json:"description,omitempty"`
	Headquarters *string `json:"headquarters,omitempty"`
	TotalFilms   int     `json:"totalFilms"`
}

// DiscoveryResult is returned by a discovery run. Exactly one of Director or
// Studio is set, matching Mode.
type DiscoveryResult struct {
	Mode            DiscoveryMode    `json:"mode"`
	SeedMovie       CachedMovie      `json:"seedMovie"`
	Director        *DirectorSummary `json:"director,omitempty"`
	Studio          *StudioSummary   `json:"studio,omitempty"`
	Recommendations []Recommendation `json:"recommendations"`
	SessionID       *string          `json:"sessionId,omitempty"`
}
