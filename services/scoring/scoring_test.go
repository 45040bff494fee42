package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"filmpivot/models"
)

func TestYearProximity(t *testing.T) {
	tests := []struct {
		diff int
		want int
	}{
		{0, 30}, {1, 27}, {2, 24}, {3, 21}, {4, 18}, {5, 15},
		{6, 10}, {10, 10}, {11, 5}, {15, 5}, {16, 2}, {40, 2},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, YearProximity(2000, 2000+tt.diff), "diff +%d", tt.diff)
		assert.Equal(t, tt.want, YearProximity(2000, 2000-tt.diff), "diff -%d", tt.diff)
	}
}

func TestYearProximityMonotonic(t *testing.T) {
	prev := YearProximity(2000, 2000)
	for d := 1; d <= 30; d++ {
		got := YearProximity(2000, 2000+d)
		assert.LessOrEqual(t, got, prev, "diff %d", d)
		prev = got
	}
}

func TestRatingQuality(t *testing.T) {
	tests := map[float64]int{
		9.1: 25, 8.0: 25, 7.99: 20, 7.0: 20, 6.5: 15, 5.0: 10, 4.9: 5, 0: 5,
	}
	for rating, want := range tests {
		assert.Equal(t, want, RatingQuality(rating), "rating %v", rating)
	}
}

func TestRatingQualityMonotonic(t *testing.T) {
	prev := RatingQuality(0)
	for r := 0.0; r <= 10.0; r += 0.1 {
		got := RatingQuality(r)
		assert.GreaterOrEqual(t, got, prev, "rating %v", r)
		prev = got
	}
}

func TestGenreOverlap(t *testing.T) {
	assert.Equal(t, 0, GenreOverlap(nil, []int64{1, 2}))
	assert.Equal(t, 0, GenreOverlap([]int64{1}, []int64{2}))
	assert.Equal(t, 20, GenreOverlap([]int64{1, 2, 3}, []int64{2, 3, 9}))
	assert.Equal(t, 30, GenreOverlap([]int64{1, 2, 3, 4, 5}, []int64{1, 2, 3, 4, 5}))
	assert.Equal(t, 10, GenreOverlap([]int64{7}, []int64{7, 7, 7}))
}

func TestPopularityBoost(t *testing.T) {
	assert.Equal(t, 0, PopularityBoost(0))
	assert.Equal(t, 0, PopularityBoost(1000))
	assert.Equal(t, 15, PopularityBoost(1001))
}

func TestScore(t *testing.T) {
	rating := 7.5
	votes := int64(5000)
	rec := Score(Seed{ReleaseYear: 2010}, Candidate{Movie: models.RecommendedMovie{
		TMDBID: 1, ReleaseYear: 2010, VoteAverage: &rating, VoteCount: &votes,
	}})

	assert.Equal(t, 65, rec.Score)
	assert.Equal(t, models.ScoreBreakdown{YearProximity: 30, RatingQuality: 20, PopularityBoost: 15}, rec.ScoreBreakdown)
}

func TestScoreMissingVotes(t *testing.T) {
	rec := Score(Seed{ReleaseYear: 2010}, Candidate{Movie: models.RecommendedMovie{ReleaseYear: 1990}})
	assert.Equal(t, 2+5, rec.Score)
}

func TestRankOrdersByScore(t *testing.T) {
	high, low := 8.5, 5.5
	many, few := int64(2000), int64(100)
	entries := []models.FilmographyEntry{
		{TMDBID: 2, Title: "B", ReleaseYear: 1990, VoteAverage: &low, VoteCount: &few},
		{TMDBID: 1, Title: "A", ReleaseYear: 2009, VoteAverage: &high, VoteCount: &many},
	}

	recs := Rank(Seed{ReleaseYear: 2010}, entries)
	require.Len(t, recs, 2)
	assert.Equal(t, int64(1), recs[0].Movie.TMDBID)
	assert.Equal(t, 27+25+15, recs[0].Score)
	assert.Equal(t, int64(2), recs[1].Movie.TMDBID)
	assert.Equal(t, 2+10, recs[1].Score)
	for _, r := range recs {
		assert.Zero(t, r.ScoreBreakdown.GenreOverlap)
	}
}

func TestRankStableOnTies(t *testing.T) {
	entries := []models.FilmographyEntry{
		{TMDBID: 10, ReleaseYear: 2011},
		{TMDBID: 11, ReleaseYear: 2009},
		{TMDBID: 12, ReleaseYear: 2011},
	}
	recs := Rank(Seed{ReleaseYear: 2010}, entries)
	require.Len(t, recs, 3)
	assert.Equal(t, []int64{10, 11, 12}, []int64{recs[0].Movie.TMDBID, recs[1].Movie.TMDBID, recs[2].Movie.TMDBID})
}
