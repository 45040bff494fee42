package discovery

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"filmpivot/models"
	"filmpivot/services/cache"
	"filmpivot/services/tmdb"
)

type fakeRecorder struct {
	mu       sync.Mutex
	sessions []models.DiscoverySession
	err      error
}

func (f *fakeRecorder) Record(_ context.Context, s models.DiscoverySession) (models.DiscoverySession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return models.DiscoverySession{}, f.err
	}
	s.ID = "session-" + s.UserID
	s.CreatedAt = time.Now()
	f.sessions = append(f.sessions, s)
	return s, nil
}

func ptr[T any](v T) *T { return &v }

func seedMovie() *models.CachedMovie {
	return &models.CachedMovie{
		TMDBID:       100,
		Title:        "Seed",
		ReleaseYear:  2010,
		VoteAverage:  ptr(8.2),
		VoteCount:    ptr(int64(5000)),
		Genres:       []models.Genre{{ID: 18, Name: "Drama"}},
		DirectorID:   ptr(int64(7)),
		DirectorName: ptr("Jane Director"),
		ProductionCompanies: []models.ProductionCompany{
			{ID: 40, Name: "First Studio"},
			{ID: 41, Name: "Second Studio"},
		},
	}
}

func filmography() []models.FilmographyEntry {
	return []models.FilmographyEntry{
		{TMDBID: 2, Title: "B", ReleaseYear: 1994, VoteAverage: ptr(6.1), VoteCount: ptr(int64(500))},
		{TMDBID: 100, Title: "Seed", ReleaseYear: 2010, VoteAverage: ptr(8.2), VoteCount: ptr(int64(5000))},
		{TMDBID: 3, Title: "Unreleased", ReleaseYear: 0},
		{TMDBID: 1, Title: "A", ReleaseYear: 2010, VoteAverage: ptr(8.5), VoteCount: ptr(int64(2000))},
	}
}

func newTestService(t *testing.T, recorder SessionRecorder) (*Service, *MockMetadataSource, *cache.Store) {
	t.Helper()
	ctrl := gomock.NewController(t)
	source := NewMockMetadataSource(ctrl)
	store := cache.NewStore(cache.NewMemoryBackend())
	return NewService(source, store, recorder), source, store
}

func TestDiscoverByDirectorRanksAndRecords(t *testing.T) {
	recorder := &fakeRecorder{}
	svc, source, _ := newTestService(t, recorder)

	source.EXPECT().MovieDetails(gomock.Any(), int64(100)).Return(seedMovie(), nil)
	source.EXPECT().PersonDetails(gomock.Any(), int64(7)).Return(&models.CachedDirector{
		TMDBPersonID: 7,
		Name:         "Jane Director",
		Filmography:  filmography(),
	}, nil)

	result, err := svc.DiscoverByDirector(context.Background(), 100, ptr("user-1"))
	require.NoError(t, err)

	require.Len(t, result.Recommendations, 2)
	assert.Equal(t, int64(1), result.Recommendations[0].Movie.TMDBID)
	assert.Equal(t, 70, result.Recommendations[0].Score)
	assert.Equal(t, models.ScoreBreakdown{YearProximity: 30, RatingQuality: 25, PopularityBoost: 15}, result.Recommendations[0].ScoreBreakdown)
	assert.Equal(t, int64(2), result.Recommendations[1].Movie.TMDBID)
	assert.Equal(t, 17, result.Recommendations[1].Score)

	require.NotNil(t, result.Director)
	assert.Equal(t, 4, result.Director.TotalFilms, "summary counts the full filmography")
	assert.Nil(t, result.Studio)

	require.Len(t, recorder.sessions, 1)
	session := recorder.sessions[0]
	assert.Equal(t, models.DiscoveryModeDirector, session.Mode)
	assert.Equal(t, int64(7), *session.DirectorID)
	assert.Equal(t, "Jane Director", *session.DirectorName)
	assert.Nil(t, session.StudioID)
	assert.Equal(t, []int64{1, 2}, session.RecommendedMovieIDs)
	require.NotNil(t, result.SessionID)
	assert.Equal(t, "session-user-1", *result.SessionID)
}

func TestDiscoverByDirectorWithoutDirector(t *testing.T) {
	recorder := &fakeRecorder{}
	svc, source, _ := newTestService(t, recorder)

	seed := seedMovie()
	seed.DirectorID = nil
	source.EXPECT().MovieDetails(gomock.Any(), int64(100)).Return(seed, nil)

	_, err := svc.DiscoverByDirector(context.Background(), 100, ptr("user-1"))
	assert.ErrorIs(t, err, ErrNoDirectorFound)
	assert.Empty(t, recorder.sessions, "no session for a failed discovery")
}

func TestDiscoverByStudioUsesFirstCompany(t *testing.T) {
	recorder := &fakeRecorder{}
	svc, source, _ := newTestService(t, recorder)

	source.EXPECT().MovieDetails(gomock.Any(), int64(100)).Return(seedMovie(), nil)
	source.EXPECT().CompanyDetails(gomock.Any(), int64(40)).Return(&models.CachedStudio{
		TMDBCompanyID: 40,
		Name:          "First Studio",
		Filmography:   filmography(),
	}, nil)

	result, err := svc.DiscoverByStudio(context.Background(), 100, ptr("user-2"))
	require.NoError(t, err)
	require.NotNil(t, result.Studio)
	assert.Equal(t, int64(40), result.Studio.ID)
	assert.Nil(t, result.Director)
	require.Len(t, result.Recommendations, 2)
	assert.Equal(t, int64(1), result.Recommendations[0].Movie.TMDBID)

	require.Len(t, recorder.sessions, 1)
	assert.Equal(t, models.DiscoveryModeStudio, recorder.sessions[0].Mode)
	assert.Equal(t, "First Studio", *recorder.sessions[0].StudioName)
	assert.Nil(t, recorder.sessions[0].DirectorID)
}

func TestDiscoverByStudioWithoutCompanies(t *testing.T) {
	svc, source, _ := newTestService(t, nil)

	seed := seedMovie()
	seed.ProductionCompanies = nil
	source.EXPECT().MovieDetails(gomock.Any(), int64(100)).Return(seed, nil)

	_, err := svc.DiscoverByStudio(context.Background(), 100, nil)
	assert.ErrorIs(t, err, ErrNoStudioFound)
}

func TestAnonymousDiscoveryRecordsNothing(t *testing.T) {
	recorder := &fakeRecorder{}
	svc, source, _ := newTestService(t, recorder)

	source.EXPECT().MovieDetails(gomock.Any(), int64(100)).Return(seedMovie(), nil)
	source.EXPECT().PersonDetails(gomock.Any(), int64(7)).Return(&models.CachedDirector{TMDBPersonID: 7, Name: "Jane Director"}, nil)

	result, err := svc.Discover(context.Background(), models.DiscoveryModeDirector, 100, nil)
	require.NoError(t, err)
	assert.Nil(t, result.SessionID)
	assert.Empty(t, result.Recommendations)
	assert.Empty(t, recorder.sessions)
}

func TestSessionFailureDoesNotFailDiscovery(t *testing.T) {
	recorder := &fakeRecorder{err: errors.New("database is locked")}
	svc, source, _ := newTestService(t, recorder)

	source.EXPECT().MovieDetails(gomock.Any(), int64(100)).Return(seedMovie(), nil)
	source.EXPECT().PersonDetails(gomock.Any(), int64(7)).Return(&models.CachedDirector{
		TMDBPersonID: 7, Name: "Jane Director", Filmography: filmography(),
	}, nil)

	result, err := svc.DiscoverByDirector(context.Background(), 100, ptr("user-1"))
	require.NoError(t, err)
	assert.Nil(t, result.SessionID)
	assert.Len(t, result.Recommendations, 2)
}

func TestResolveUsesCacheOnSecondCall(t *testing.T) {
	svc, source, store := newTestService(t, nil)

	source.EXPECT().MovieDetails(gomock.Any(), int64(100)).Return(seedMovie(), nil).Times(1)

	first, err := svc.MovieDetails(context.Background(), 100)
	require.NoError(t, err)
	assert.False(t, first.CachedAt.IsZero(), "write-through stamps CachedAt")

	second, err := svc.MovieDetails(context.Background(), 100)
	require.NoError(t, err)
	assert.Equal(t, first.Title, second.Title)

	_, ok, err := store.Movie(context.Background(), 100)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestUpstreamErrorsPropagateUnchanged(t *testing.T) {
	svc, source, _ := newTestService(t, nil)

	fetchErr := &tmdb.FetchError{Endpoint: "/movie/100", StatusCode: 500}
	source.EXPECT().MovieDetails(gomock.Any(), int64(100)).Return(nil, fetchErr)
	source.EXPECT().MovieDetails(gomock.Any(), int64(101)).Return(nil, tmdb.ErrNotConfigured)

	_, err := svc.DiscoverByDirector(context.Background(), 100, nil)
	var fe *tmdb.FetchError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, 500, fe.StatusCode)

	_, err = svc.DiscoverByStudio(context.Background(), 101, nil)
	assert.ErrorIs(t, err, tmdb.ErrNotConfigured)
}

func TestDiscoverInvalidMode(t *testing.T) {
	svc, _, _ := newTestService(t, nil)
	_, err := svc.Discover(context.Background(), "genre", 100, nil)
	assert.ErrorIs(t, err, ErrInvalidMode)
}

type brokenCache struct {
	CacheStore
}

func (brokenCache) Movie(context.Context, int64) (*models.CachedMovie, bool, error) {
	return nil, false, errors.New("cache unavailable")
}

func (brokenCache) PutMovie(context.Context, models.CachedMovie) (models.CachedMovie, error) {
	return models.CachedMovie{}, errors.New("cache unavailable")
}

func TestCacheFailuresFallBackToUpstream(t *testing.T) {
	ctrl := gomock.NewController(t)
	source := NewMockMetadataSource(ctrl)
	svc := NewService(source, brokenCache{}, nil)

	source.EXPECT().MovieDetails(gomock.Any(), int64(100)).Return(seedMovie(), nil)

	before := time.Now().UTC()
	movie, err := svc.MovieDetails(context.Background(), 100)
	require.NoError(t, err)
	assert.Equal(t, "Seed", movie.Title)
	assert.False(t, movie.CachedAt.Before(before))
	assert.Equal(t, movie.CachedAt, movie.LastAccessedAt)
}

func TestCancelledCallerDoesNotFailSharedFetch(t *testing.T) {
	svc, source, _ := newTestService(t, nil)

	started := make(chan struct{})
	release := make(chan struct{})
	source.EXPECT().MovieDetails(gomock.Any(), int64(5)).DoAndReturn(
		func(ctx context.Context, _ int64) (*models.CachedMovie, error) {
			close(started)
			select {
			case <-release:
			case <-ctx.Done():
				return nil, ctx.Err()
			}
			m := seedMovie()
			m.TMDBID = 5
			return m, nil
		},
	).Times(1)

	ctxA, cancelA := context.WithCancel(context.Background())
	errA := make(chan error, 1)
	go func() {
		_, err := svc.MovieDetails(ctxA, 5)
		errA <- err
	}()
	<-started

	type result struct {
		movie *models.CachedMovie
		err   error
	}
	resB := make(chan result, 1)
	go func() {
		m, err := svc.MovieDetails(context.Background(), 5)
		resB <- result{m, err}
	}()
	time.Sleep(20 * time.Millisecond)

	cancelA()
	assert.ErrorIs(t, <-errA, context.Canceled)

	close(release)
	b := <-resB
	require.NoError(t, b.err)
	assert.Equal(t, int64(5), b.movie.TMDBID)
}

func TestConcurrentMissesShareOneFetch(t *testing.T) {
	svc, source, _ := newTestService(t, nil)

	release := make(chan struct{})
	source.EXPECT().PersonDetails(gomock.Any(), int64(7)).DoAndReturn(
		func(context.Context, int64) (*models.CachedDirector, error) {
			<-release
			return &models.CachedDirector{TMDBPersonID: 7, Name: "Jane Director"}, nil
		},
	).MinTimes(1).MaxTimes(2)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			d, err := svc.DirectorDetails(context.Background(), 7)
			assert.NoError(t, err)
			assert.Equal(t, "Jane Director", d.Name)
		}()
	}
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()
}
