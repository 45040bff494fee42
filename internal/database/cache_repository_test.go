package database

import (
	"context"
	"testing"
	"time"

	"filmpivot/models"
)

func TestCacheRepository_MovieRoundTrip(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCacheRepository(db.Connection())
	ctx := context.Background()

	cachedAt := time.Date(2024, 3, 10, 8, 30, 0, 0, time.UTC)
	runtime := 148
	rating := 8.4
	votes := int64(35000)
	dirID := int64(525)
	dirName := "Christopher Nolan"
	movie := models.CachedMovie{
		TMDBID:              27205,
		Title:               "Inception",
		ReleaseDate:         "2010-07-15",
		ReleaseYear:         2010,
		Runtime:             &runtime,
		VoteAverage:         &rating,
		VoteCount:           &votes,
		Genres:              []models.Genre{{ID: 28, Name: "Action"}, {ID: 878, Name: "Science Fiction"}},
		DirectorID:          &dirID,
		DirectorName:        &dirName,
		ProductionCompanies: []models.ProductionCompany{{ID: 923, Name: "Legendary Pictures"}},
		CachedAt:            cachedAt,
		LastAccessedAt:      cachedAt,
	}
	if err := repo.UpsertMovie(ctx, movie); err != nil {
		t.Fatalf("UpsertMovie failed: %v", err)
	}

	got, err := repo.GetMovie(ctx, 27205)
	if err != nil {
		t.Fatalf("GetMovie failed: %v", err)
	}
	if got == nil {
		t.Fatal("expected cached movie")
	}
	if got.Title != movie.Title || got.ReleaseYear != 2010 || *got.Runtime != runtime {
		t.Errorf("scalar fields mismatch: %+v", got)
	}
	if got.Overview != nil || got.PosterPath != nil {
		t.Errorf("absent optionals should stay nil: %+v", got)
	}
	if len(got.Genres) != 2 || got.Genres[1].Name != "Science Fiction" {
		t.Errorf("genres mismatch: %+v", got.Genres)
	}
	if studio, ok := got.PrimaryStudio(); !ok || studio.ID != 923 {
		t.Errorf("companies mismatch: %+v", got.ProductionCompanies)
	}
	if !got.CachedAt.Equal(cachedAt) {
		t.Errorf("expected cachedAt %v, got %v", cachedAt, got.CachedAt)
	}

	movie.Title = "Inception (2010)"
	movie.Genres = nil
	if err := repo.UpsertMovie(ctx, movie); err != nil {
		t.Fatalf("second UpsertMovie failed: %v", err)
	}
	got, _ = repo.GetMovie(ctx, 27205)
	if got.Title != "Inception (2010)" {
		t.Errorf("upsert did not replace title: %q", got.Title)
	}
	if got.Genres == nil || len(got.Genres) != 0 {
		t.Errorf("expected empty genres slice, got %#v", got.Genres)
	}

	n, err := repo.CountMovies(ctx)
	if err != nil || n != 1 {
		t.Errorf("expected a single row, got %d (%v)", n, err)
	}
}

func TestCacheRepository_Missing(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCacheRepository(db.Connection())
	ctx := context.Background()

	if m, err := repo.GetMovie(ctx, 1); m != nil || err != nil {
		t.Errorf("expected nil movie, got %+v, %v", m, err)
	}
	if d, err := repo.GetDirector(ctx, 1); d != nil || err != nil {
		t.Errorf("expected nil director, got %+v, %v", d, err)
	}
	if s, err := repo.GetStudio(ctx, 1); s != nil || err != nil {
		t.Errorf("expected nil studio, got %+v, %v", s, err)
	}
}

func TestCacheRepository_DirectorAndStudio(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCacheRepository(db.Connection())
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	rating := 8.5
	director := models.CachedDirector{
		TMDBPersonID: 525,
		Name:         "Christopher Nolan",
		Filmography: []models.FilmographyEntry{
			{TMDBID: 155, Title: "The Dark Knight", ReleaseYear: 2008, VoteAverage: &rating, Job: "Director"},
		},
		CachedAt: now,
	}
	if err := repo.UpsertDirector(ctx, director); err != nil {
		t.Fatalf("UpsertDirector failed: %v", err)
	}
	gotDir, err := repo.GetDirector(ctx, 525)
	if err != nil || gotDir == nil {
		t.Fatalf("GetDirector = %+v, %v", gotDir, err)
	}
	if len(gotDir.Filmography) != 1 || *gotDir.Filmography[0].VoteAverage != rating {
		t.Errorf("filmography mismatch: %+v", gotDir.Filmography)
	}

	hq := "Burbank, California"
	studio := models.CachedStudio{
		TMDBCompanyID: 174,
		Name:          "Warner Bros. Pictures",
		Headquarters:  &hq,
		CachedAt:      now,
	}
	if err := repo.UpsertStudio(ctx, studio); err != nil {
		t.Fatalf("UpsertStudio failed: %v", err)
	}
	gotStudio, err := repo.GetStudio(ctx, 174)
	if err != nil || gotStudio == nil {
		t.Fatalf("GetStudio = %+v, %v", gotStudio, err)
	}
	if gotStudio.Headquarters == nil || *gotStudio.Headquarters != hq {
		t.Errorf("headquarters mismatch: %v", gotStudio.Headquarters)
	}
	if gotStudio.Filmography == nil {
		t.Error("expected empty filmography slice, got nil")
	}
}
