package favorites_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"filmpivot/internal/database"
	"filmpivot/models"
	"filmpivot/services/favorites"
)

func setup(t *testing.T) (*favorites.Service, string) {
	t.Helper()
	db, err := database.NewDB(database.Config{DatabasePath: filepath.Join(t.TempDir(), "favorites.db")})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	user, err := database.NewUserRepository(db.Connection()).CreateUser(context.Background(), models.UserProfile{ExternalID: "idp_fav"})
	require.NoError(t, err)
	return favorites.NewService(database.NewFavoriteRepository(db.Connection())), user.ID
}

func TestAddIsIdempotent(t *testing.T) {
	svc, userID := setup(t)
	ctx := context.Background()
	ref := models.MovieRef{TMDBID: 27205, Title: "Inception", ReleaseYear: 2010}

	first, err := svc.Add(ctx, userID, ref)
	require.NoError(t, err)
	second, err := svc.Add(ctx, userID, ref)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	list, err := svc.List(ctx, userID)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	ok, err := svc.IsFavorite(ctx, userID, 27205)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestAddValidatesInput(t *testing.T) {
	svc, userID := setup(t)
	_, err := svc.Add(context.Background(), userID, models.MovieRef{Title: "No id"})
	assert.Error(t, err)
	_, err = svc.Add(context.Background(), userID, models.MovieRef{TMDBID: 1})
	assert.Error(t, err)
}

func TestToggle(t *testing.T) {
	svc, userID := setup(t)
	ctx := context.Background()
	ref := models.MovieRef{TMDBID: 155, Title: "The Dark Knight", ReleaseYear: 2008}

	added, err := svc.Toggle(ctx, userID, ref)
	require.NoError(t, err)
	assert.True(t, added)

	added, err = svc.Toggle(ctx, userID, ref)
	require.NoError(t, err)
	assert.False(t, added)

	ok, err := svc.IsFavorite(ctx, userID, 155)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRemoveMissingIsNoop(t *testing.T) {
	svc, userID := setup(t)
	assert.NoError(t, svc.Remove(context.Background(), userID, 404))
}
