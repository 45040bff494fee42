// Package discovery turns a seed movie into ranked recommendations by
// pivoting on its director or its primary studio.
package discovery

import (
	"context"
	"errors"
	"strconv"
	"time"

	"golang.org/x/sync/singleflight"

	"filmpivot/internal/logging"
	"filmpivot/internal/metrics"
	"filmpivot/models"
	"filmpivot/services/scoring"
)

//go:generate mockgen -destination=mock_source_test.go -package=discovery filmpivot/services/discovery MetadataSource

var (
	ErrNoDirectorFound = errors.New("no director found for this movie")
	ErrNoStudioFound   = errors.New("no production company found for this movie")
	ErrInvalidMode     = errors.New("invalid discovery mode")
)

// MetadataSource fetches fresh records from the upstream catalogue.
type MetadataSource interface {
	MovieDetails(ctx context.Context, tmdbID int64) (*models.CachedMovie, error)
	PersonDetails(ctx context.Context, personID int64) (*models.CachedDirector, error)
	CompanyDetails(ctx context.Context, companyID int64) (*models.CachedStudio, error)
}

// CacheStore serves fresh cached records and accepts write-through updates.
type CacheStore interface {
	Movie(ctx context.Context, tmdbID int64) (*models.CachedMovie, bool, error)
	PutMovie(ctx context.Context, m models.CachedMovie) (models.CachedMovie, error)
	Director(ctx context.Context, personID int64) (*models.CachedDirector, bool, error)
	PutDirector(ctx context.Context, d models.CachedDirector) (models.CachedDirector, error)
	Studio(ctx context.Context, companyID int64) (*models.CachedStudio, bool, error)
	PutStudio(ctx context.Context, s models.CachedStudio) (models.CachedStudio, error)
}

// SessionRecorder persists a finished discovery run.
type SessionRecorder interface {
	Record(ctx context.Context, s models.DiscoverySession) (models.DiscoverySession, error)
}

// Service orchestrates cache lookups, upstream fetches, scoring and session
// recording. It holds no per-request state.
type Service struct {
	source   MetadataSource
	cache    CacheStore
	sessions SessionRecorder
	group    singleflight.Group
}

// NewService wires the orchestrator. sessions may be nil, in which case no
// history is recorded.
func NewService(source MetadataSource, cache CacheStore, sessions SessionRecorder) *Service {
	return &Service{source: source, cache: cache, sessions: sessions}
}

// sharedFetchTimeout bounds a shared fetch once it no longer follows the
// caller that started it.
const sharedFetchTimeout = 30 * time.Second

// resolve returns the cached record for id, fetching and writing it through
// on a miss. Concurrent misses for the same key share one fetch. The shared
// fetch ignores the starting caller's cancellation; each caller stops waiting
// when its own context ends.
func resolve[T any](
	ctx context.Context,
	s *Service,
	kind string,
	id int64,
	lookup func(context.Context, int64) (*T, bool, error),
	fetch func(context.Context, int64) (*T, error),
	store func(context.Context, T) (T, error),
	stamp func(*T, time.Time),
) (*T, error) {
	log := logging.Component("discovery")

	cached, ok, err := lookup(ctx, id)
	if err != nil {
		log.Warn().Err(err).Str("kind", kind).Int64("id", id).Msg("cache read failed, treating as miss")
	} else if ok {
		return cached, nil
	}

	ch := s.group.DoChan(kind+":"+strconv.FormatInt(id, 10), func() (any, error) {
		fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sharedFetchTimeout)
		defer cancel()

		fetched, err := fetch(fctx, id)
		if err != nil {
			return nil, err
		}
		stored, err := store(fctx, *fetched)
		if err != nil {
			log.Warn().Err(err).Str("kind", kind).Int64("id", id).Msg("cache write failed")
			rec := *fetched
			stamp(&rec, time.Now().UTC())
			return &rec, nil
		}
		return &stored, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*T), nil
	}
}

func stampMovie(m *models.CachedMovie, at time.Time) {
	m.CachedAt = at
	m.LastAccessedAt = at
}

func stampDirector(d *models.CachedDirector, at time.Time) { d.CachedAt = at }

func stampStudio(st *models.CachedStudio, at time.Time) { st.CachedAt = at }

// MovieDetails returns the movie from cache or upstream.
func (s *Service) MovieDetails(ctx context.Context, tmdbID int64) (*models.CachedMovie, error) {
	return resolve(ctx, s, "movie", tmdbID, s.cache.Movie, s.source.MovieDetails, s.cache.PutMovie, stampMovie)
}

// DirectorDetails returns the director from cache or upstream.
func (s *Service) DirectorDetails(ctx context.Context, personID int64) (*models.CachedDirector, error) {
	return resolve(ctx, s, "director", personID, s.cache.Director, s.source.PersonDetails, s.cache.PutDirector, stampDirector)
}

// StudioDetails returns the studio from cache or upstream.
func (s *Service) StudioDetails(ctx context.Context, companyID int64) (*models.CachedStudio, error) {
	return resolve(ctx, s, "studio", companyID, s.cache.Studio, s.source.CompanyDetails, s.cache.PutStudio, stampStudio)
}

// Discover dispatches on mode.
func (s *Service) Discover(ctx context.Context, mode models.DiscoveryMode, seedMovieID int64, userID *string) (*models.DiscoveryResult, error) {
	switch mode {
	case models.DiscoveryModeDirector:
		return s.DiscoverByDirector(ctx, seedMovieID, userID)
	case models.DiscoveryModeStudio:
		return s.DiscoverByStudio(ctx, seedMovieID, userID)
	default:
		return nil, ErrInvalidMode
	}
}

// DiscoverByDirector ranks the other films of the seed movie's director.
// When userID is set the run is recorded in the user's history.
func (s *Service) DiscoverByDirector(ctx context.Context, seedMovieID int64, userID *string) (result *models.DiscoveryResult, err error) {
	defer observe(models.DiscoveryModeDirector, time.Now(), &err)

	seed, err := s.MovieDetails(ctx, seedMovieID)
	if err != nil {
		return nil, err
	}
	if seed.DirectorID == nil {
		return nil, ErrNoDirectorFound
	}

	director, err := s.DirectorDetails(ctx, *seed.DirectorID)
	if err != nil {
		return nil, err
	}

	recs := rank(*seed, director.Filmography)
	result = &models.DiscoveryResult{
		Mode:      models.DiscoveryModeDirector,
		SeedMovie: *seed,
		Director: &models.DirectorSummary{
			ID:           director.TMDBPersonID,
			Name:         director.Name,
			ProfilePath:  director.ProfilePath,
			Biography:    director.Biography,
			Birthday:     director.Birthday,
			PlaceOfBirth: director.PlaceOfBirth,
			TotalFilms:   len(director.Filmography),
		},
		Recommendations: recs,
	}

	if userID != nil && *userID != "" {
		id, name := director.TMDBPersonID, director.Name
		result.SessionID = s.record(ctx, models.DiscoverySession{
			UserID:              *userID,
			SeedMovieTMDBID:     seed.TMDBID,
			SeedMovieTitle:      seed.Title,
			SeedMoviePosterPath: seed.PosterPath,
			Mode:                models.DiscoveryModeDirector,
			DirectorID:          &id,
			DirectorName:        &name,
			RecommendedMovieIDs: movieIDs(recs),
		})
	}
	return result, nil
}

// DiscoverByStudio ranks the most voted films of the seed movie's primary
// studio, the first listed production company.
func (s *Service) DiscoverByStudio(ctx context.Context, seedMovieID int64, userID *string) (result *models.DiscoveryResult, err error) {
	defer observe(models.DiscoveryModeStudio, time.Now(), &err)

	seed, err := s.MovieDetails(ctx, seedMovieID)
	if err != nil {
		return nil, err
	}
	primary, ok := seed.PrimaryStudio()
	if !ok {
		return nil, ErrNoStudioFound
	}

	studio, err := s.StudioDetails(ctx, primary.ID)
	if err != nil {
		return nil, err
	}

	recs := rank(*seed, studio.Filmography)
	result = &models.DiscoveryResult{
		Mode:      models.DiscoveryModeStudio,
		SeedMovie: *seed,
		Studio: &models.StudioSummary{
			ID:           studio.TMDBCompanyID,
			Name:         studio.Name,
			LogoPath:     studio.LogoPath,
			Description:  studio.Description,
			Headquarters: studio.Headquarters,
			TotalFilms:   len(studio.Filmography),
		},
		Recommendations: recs,
	}

	if userID != nil && *userID != "" {
		id, name := studio.TMDBCompanyID, studio.Name
		result.SessionID = s.record(ctx, models.DiscoverySession{
			UserID:              *userID,
			SeedMovieTMDBID:     seed.TMDBID,
			SeedMovieTitle:      seed.Title,
			SeedMoviePosterPath: seed.PosterPath,
			Mode:                models.DiscoveryModeStudio,
			StudioID:            &id,
			StudioName:          &name,
			RecommendedMovieIDs: movieIDs(recs),
		})
	}
	return result, nil
}

// rank drops the seed itself and undated entries, then scores the rest.
func rank(seed models.CachedMovie, filmography []models.FilmographyEntry) []models.Recommendation {
	candidates := make([]models.FilmographyEntry, 0, len(filmography))
	for _, e := range filmography {
		if e.TMDBID == seed.TMDBID || e.ReleaseYear <= 0 {
			continue
		}
		candidates = append(candidates, e)
	}
	return scoring.Rank(scoring.Seed{ReleaseYear: seed.ReleaseYear, GenreIDs: seed.GenreIDs()}, candidates)
}

func movieIDs(recs []models.Recommendation) []int64 {
	ids := make([]int64, 0, len(recs))
	for _, r := range recs {
		ids = append(ids, r.Movie.TMDBID)
	}
	return ids
}

// record persists the session. A failure is logged and the run still
// succeeds without a session id.
func (s *Service) record(ctx context.Context, session models.DiscoverySession) *string {
	if s.sessions == nil {
		return nil
	}
	saved, err := s.sessions.Record(ctx, session)
	if err != nil {
		metrics.SessionWriteFailures.Inc()
		logging.Component("discovery").Error().Err(err).
			Str("user_id", session.UserID).
			Int64("seed_movie", session.SeedMovieTMDBID).
			Str("mode", string(session.Mode)).
			Msg("failed to record discovery session")
		return nil
	}
	return &saved.ID
}

func observe(mode models.DiscoveryMode, start time.Time, err *error) {
	outcome := "ok"
	switch {
	case *err == nil:
	case errors.Is(*err, ErrNoDirectorFound), errors.Is(*err, ErrNoStudioFound):
		outcome = "no_pivot"
	default:
		outcome = "error"
	}
	metrics.DiscoveryRequests.WithLabelValues(string(mode), outcome).Inc()
	metrics.DiscoveryDuration.WithLabelValues(string(mode)).Observe(time.Since(start).Seconds())
}
