// Package scoring ranks candidate movies against a seed movie.
package scoring

import (
	"sort"

	"filmpivot/models"
)

const (
	maxGenreOverlap = 30
	popularityVotes = 1000
)

// Seed holds the seed-movie attributes that candidates are compared against.
type Seed struct {
	ReleaseYear int
	GenreIDs    []int64
}

// Candidate is a movie being scored.
type Candidate struct {
	Movie    models.RecommendedMovie
	GenreIDs []int64
}

// YearProximity rewards candidates released close to the seed.
func YearProximity(seedYear, candidateYear int) int {
	diff := seedYear - candidateYear
	if diff < 0 {
		diff = -diff
	}
	switch {
	case diff <= 5:
		return 30 - 3*diff
	case diff <= 10:
		return 10
	case diff <= 15:
		return 5
	default:
		return 2
	}
}

// RatingQuality buckets the TMDB vote average.
func RatingQuality(voteAverage float64) int {
	switch {
	case voteAverage >= 8.0:
		return 25
	case voteAverage >= 7.0:
		return 20
	case voteAverage >= 6.0:
		return 15
	case voteAverage >= 5.0:
		return 10
	default:
		return 5
	}
}

// GenreOverlap awards 10 points per seed genre present in the candidate,
// capped at 30.
func GenreOverlap(seed, candidate []int64) int {
	if len(seed) == 0 || len(candidate) == 0 {
		return 0
	}
	have := make(map[int64]struct{}, len(candidate))
	for _, id := range candidate {
		have[id] = struct{}{}
	}
	matches := 0
	for _, id := range seed {
		if _, ok := have[id]; ok {
			matches++
		}
	}
	return min(10*matches, maxGenreOverlap)
}

// PopularityBoost rewards widely voted movies.
func PopularityBoost(voteCount int64) int {
	if voteCount > popularityVotes {
		return 15
	}
	return 0
}

// Score computes the total and breakdown for one candidate.
func Score(seed Seed, c Candidate) models.Recommendation {
	var rating float64
	if c.Movie.VoteAverage != nil {
		rating = *c.Movie.VoteAverage
	}
	var votes int64
	if c.Movie.VoteCount != nil {
		votes = *c.Movie.VoteCount
	}

	breakdown := models.ScoreBreakdown{
		YearProximity:   YearProximity(seed.ReleaseYear, c.Movie.ReleaseYear),
		RatingQuality:   RatingQuality(rating),
		GenreOverlap:    GenreOverlap(seed.GenreIDs, c.GenreIDs),
		PopularityBoost: PopularityBoost(votes),
	}
	return models.Recommendation{
		Movie:          c.Movie,
		Score:          breakdown.Total(),
		ScoreBreakdown: breakdown,
	}
}

// Rank scores filmography entries and orders them by score, highest first.
// Entries carry no genres, so genre overlap is always zero. Equal scores
// keep their input order.
func Rank(seed Seed, entries []models.FilmographyEntry) []models.Recommendation {
	recs := make([]models.Recommendation, 0, len(entries))
	for _, e := range entries {
		recs = append(recs, Score(seed, Candidate{Movie: FromFilmography(e)}))
	}
	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].Score > recs[j].Score
	})
	return recs
}

// FromFilmography converts a filmography entry to the recommended-movie shape.
func FromFilmography(e models.FilmographyEntry) models.RecommendedMovie {
	return models.RecommendedMovie{
		TMDBID:      e.TMDBID,
		Title:       e.Title,
		PosterPath:  e.PosterPath,
		ReleaseYear: e.ReleaseYear,
		VoteAverage: e.VoteAverage,
		VoteCount:   e.VoteCount,
	}
}
