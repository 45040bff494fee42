package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"filmpivot/models"
)

// CacheRepository persists normalized TMDB records keyed by their external id.
// Reads return the stored row regardless of age; staleness is decided by the
// caller from CachedAt.
type CacheRepository struct {
	db *sql.DB
}

// NewCacheRepository creates a cache repository on the given connection.
func NewCacheRepository(db *sql.DB) *CacheRepository {
	return &CacheRepository{db: db}
}

const selectMovieSQL = `
SELECT tmdb_id, title, original_title, overview, poster_path, backdrop_path,
       release_date, release_year, runtime, vote_average, vote_count, genres,
       director_id, director_name, production_companies, cached_at, last_accessed_at
FROM movie_cache WHERE tmdb_id = ?`

// GetMovie returns the cached movie or nil when no row exists.
func (r *CacheRepository) GetMovie(ctx context.Context, tmdbID int64) (*models.CachedMovie, error) {
	var (
		m                                       models.CachedMovie
		originalTitle, overview, poster, backdr sql.NullString
		directorName                            sql.NullString
		runtime, voteCount, directorID          sql.NullInt64
		voteAverage                             sql.NullFloat64
		genres, companies                       string
		cachedAt, accessedAt                    int64
	)
	err := r.db.QueryRowContext(ctx, selectMovieSQL, tmdbID).Scan(
		&m.TMDBID, &m.Title, &originalTitle, &overview, &poster, &backdr,
		&m.ReleaseDate, &m.ReleaseYear, &runtime, &voteAverage, &voteCount, &genres,
		&directorID, &directorName, &companies, &cachedAt, &accessedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get cached movie %d: %w", tmdbID, err)
	}

	m.OriginalTitle = stringPtr(originalTitle)
	m.Overview = stringPtr(overview)
	m.PosterPath = stringPtr(poster)
	m.BackdropPath = stringPtr(backdr)
	m.Runtime = intPtr(runtime)
	m.VoteAverage = float64Ptr(voteAverage)
	m.VoteCount = int64Ptr(voteCount)
	m.DirectorID = int64Ptr(directorID)
	m.DirectorName = stringPtr(directorName)
	m.CachedAt = fromUnix(cachedAt)
	m.LastAccessedAt = fromUnix(accessedAt)

	if err := decodeJSON(genres, &m.Genres); err != nil {
		return nil, fmt.Errorf("decode genres for movie %d: %w", tmdbID, err)
	}
	if err := decodeJSON(companies, &m.ProductionCompanies); err != nil {
		return nil, fmt.Errorf("decode companies for movie %d: %w", tmdbID, err)
	}
	if m.Genres == nil {
		m.Genres = []models.Genre{}
	}
	if m.ProductionCompanies == nil {
		m.ProductionCompanies = []models.ProductionCompany{}
	}
	return &m, nil
}

const upsertMovieSQL = `
INSERT INTO movie_cache (
    tmdb_id, title, original_title, overview, poster_path, backdrop_path,
    release_date, release_year, runtime, vote_average, vote_count, genres,
    director_id, director_name, production_companies, cached_at, last_accessed_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (tmdb_id) DO UPDATE SET
    title = excluded.title,
    original_title = excluded.original_title,
    overview = excluded.overview,
    poster_path = excluded.poster_path,
    backdrop_path = excluded.backdrop_path,
    release_date = excluded.release_date,
    release_year = excluded.release_year,
    runtime = excluded.runtime,
    vote_average = excluded.vote_average,
    vote_count = excluded.vote_count,
    genres = excluded.genres,
    director_id = excluded.director_id,
    director_name = excluded.director_name,
    production_companies = excluded.production_companies,
    cached_at = excluded.cached_at,
    last_accessed_at = excluded.last_accessed_at`

// UpsertMovie inserts or replaces the cached movie with the same TMDB id.
func (r *CacheRepository) UpsertMovie(ctx context.Context, m models.CachedMovie) error {
	genres, err := encodeJSON(nonNil(m.Genres))
	if err != nil {
		return fmt.Errorf("encode genres: %w", err)
	}
	companies, err := encodeJSON(nonNil(m.ProductionCompanies))
	if err != nil {
		return fmt.Errorf("encode companies: %w", err)
	}
	_, err = r.db.ExecContext(ctx, upsertMovieSQL,
		m.TMDBID, m.Title, nullString(m.OriginalTitle), nullString(m.Overview),
		nullString(m.PosterPath), nullString(m.BackdropPath),
		m.ReleaseDate, m.ReleaseYear, nullInt(m.Runtime), nullFloat64(m.VoteAverage),
		nullInt64(m.VoteCount), genres, nullInt64(m.DirectorID), nullString(m.DirectorName),
		companies, toUnix(m.CachedAt), toUnix(m.LastAccessedAt),
	)
	if err != nil {
		return fmt.Errorf("upsert cached movie %d: %w", m.TMDBID, err)
	}
	return nil
}

// GetDirector returns the cached director or nil when no row exists.
func (r *CacheRepository) GetDirector(ctx context.Context, personID int64) (*models.CachedDirector, error) {
	var (
		d                                  models.CachedDirector
		profile, bio, birthday, birthPlace sql.NullString
		filmography                        string
		cachedAt                           int64
	)
	err := r.db.QueryRowContext(ctx, `
SELECT tmdb_person_id, name, profile_path, biography, birthday, place_of_birth, filmography, cached_at
FROM director_cache WHERE tmdb_person_id = ?`, personID).Scan(
		&d.TMDBPersonID, &d.Name, &profile, &bio, &birthday, &birthPlace, &filmography, &cachedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get cached director %d: %w", personID, err)
	}

	d.ProfilePath = stringPtr(profile)
	d.Biography = stringPtr(bio)
	d.Birthday = stringPtr(birthday)
	d.PlaceOfBirth = stringPtr(birthPlace)
	d.CachedAt = fromUnix(cachedAt)
	if err := decodeJSON(filmography, &d.Filmography); err != nil {
		return nil, fmt.Errorf("decode filmography for director %d: %w", personID, err)
	}
	if d.Filmography == nil {
		d.Filmography = []models.FilmographyEntry{}
	}
	return &d, nil
}

// UpsertDirector inserts or replaces the cached director with the same id.
func (r *CacheRepository) UpsertDirector(ctx context.Context, d models.CachedDirector) error {
	filmography, err := encodeJSON(nonNil(d.Filmography))
	if err != nil {
		return fmt.Errorf("encode filmography: %w", err)
	}
	_, err = r.db.ExecContext(ctx, `
INSERT INTO director_cache (
    tmdb_person_id, name, profile_path, biography, birthday, place_of_birth, filmography, cached_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (tmdb_person_id) DO UPDATE SET
    name = excluded.name,
    profile_path = excluded.profile_path,
    biography = excluded.biography,
    birthday = excluded.birthday,
    place_of_birth = excluded.place_of_birth,
    filmography = excluded.filmography,
    cached_at = excluded.cached_at`,
		d.TMDBPersonID, d.Name, nullString(d.ProfilePath), nullString(d.Biography),
		nullString(d.Birthday), nullString(d.PlaceOfBirth), filmography, toUnix(d.CachedAt),
	)
	if err != nil {
		return fmt.Errorf("upsert cached director %d: %w", d.TMDBPersonID, err)
	}
	return nil
}

// GetStudio returns the cached studio or nil when no row exists.
func (r *CacheRepository) GetStudio(ctx context.Context, companyID int64) (*models.CachedStudio, error) {
	var (
		s                                models.CachedStudio
		logo, description, hq, homepage sql.NullString
		filmography                      string
		cachedAt                         int64
	)
	err := r.db.QueryRowContext(ctx, `
SELECT tmdb_company_id, name, logo_path, description, headquarters, homepage, filmography, cached_at
FROM studio_cache WHERE tmdb_company_id = ?`, companyID).Scan(
		&s.TMDBCompanyID, &s.Name, &logo, &description, &hq, &homepage, &filmography, &cachedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get cached studio %d: %w", companyID, err)
	}

	s.LogoPath = stringPtr(logo)
	s.Description = stringPtr(description)
	s.Headquarters = stringPtr(hq)
	s.Homepage = stringPtr(homepage)
	s.CachedAt = fromUnix(cachedAt)
	if err := decodeJSON(filmography, &s.Filmography); err != nil {
		return nil, fmt.Errorf("decode filmography for studio %d: %w", companyID, err)
	}
	if s.Filmography == nil {
		s.Filmography = []models.FilmographyEntry{}
	}
	return &s, nil
}

// UpsertStudio inserts or replaces the cached studio with the same id.
func (r *CacheRepository) UpsertStudio(ctx context.Context, s models.CachedStudio) error {
	filmography, err := encodeJSON(nonNil(s.Filmography))
	if err != nil {
		return fmt.Errorf("encode filmography: %w", err)
	}
	_, err = r.db.ExecContext(ctx, `
INSERT INTO studio_cache (
    tmdb_company_id, name, logo_path, description, headquarters, homepage, filmography, cached_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (tmdb_company_id) DO UPDATE SET
    name = excluded.name,
    logo_path = excluded.logo_path,
    description = excluded.description,
    headquarters = excluded.headquarters,
    homepage = excluded.homepage,
    filmography = excluded.filmography,
    cached_at = excluded.cached_at`,
		s.TMDBCompanyID, s.Name, nullString(s.LogoPath), nullString(s.Description),
		nullString(s.Headquarters), nullString(s.Homepage), filmography, toUnix(s.CachedAt),
	)
	if err != nil {
		return fmt.Errorf("upsert cached studio %d: %w", s.TMDBCompanyID, err)
	}
	return nil
}

// CountMovies returns the number of cached movie rows, fresh or stale.
func (r *CacheRepository) CountMovies(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM movie_cache`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count cached movies: %w", err)
	}
	return n, nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
