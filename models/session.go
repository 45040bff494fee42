package models

import "time"

// DiscoverySession is the persisted, immutable record of one discovery run.
type DiscoverySession struct {
	ID                  string        `json:"id"`
	UserID              string        `json:"userId"`
	SeedMovieTMDBID     int64         `json:"seedMovieTmdbId"`
	SeedMovieTitle      string        `json:"seedMovieTitle"`
	SeedMoviePosterPath *string       `json:"seedMoviePosterPath,omitempty"`
	Mode                DiscoveryMode `json:"mode"`
	DirectorID          *int64        `json:"directorId,omitempty"`
	DirectorName        *string       `json:"directorName,omitempty"`
	StudioID            *int64        `json:"studioId,omitempty"`
	StudioName          *string       `json:"studioName,omitempty"`
	RecommendedMovieIDs []int64       `json:"recommendedMovieIds"`
	CreatedAt           time.Time     `json:"createdAt"`
}

// IsDirector reports whether the session pivoted on a director.
func (s DiscoverySession) IsDirector() bool {
	return s.Mode == DiscoveryModeDirector
}
