package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"filmpivot/models"
)

// FavoriteRepository handles favorite movie persistence.
type FavoriteRepository struct {
	db  *sql.DB
	now func() time.Time
}

// NewFavoriteRepository creates a new favorites repository.
func NewFavoriteRepository(db *sql.DB) *FavoriteRepository {
	return &FavoriteRepository{db: db, now: time.Now}
}

func scanFavorite(row scanner) (*models.FavoriteEntry, error) {
	var (
		f       models.FavoriteEntry
		poster  sql.NullString
		addedAt int64
	)
	if err := row.Scan(&f.ID, &f.UserID, &f.TMDBID, &f.Title, &poster, &f.ReleaseYear, &addedAt); err != nil {
		return nil, err
	}
	f.PosterPath = stringPtr(poster)
	f.AddedAt = fromUnix(addedAt)
	return &f, nil
}

const favoriteColumns = `id, user_id, tmdb_id, title, poster_path, release_year, added_at`

// Add stores the movie as a favorite. Adding an existing favorite returns
// the stored entry without modification.
func (r *FavoriteRepository) Add(ctx context.Context, userID string, ref models.MovieRef) (*models.FavoriteEntry, error) {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO favorites (id, user_id, tmdb_id, title, poster_path, release_year, added_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (user_id, tmdb_id) DO NOTHING`,
		uuid.NewString(), userID, ref.TMDBID, ref.Title, nullString(ref.PosterPath),
		ref.ReleaseYear, toUnix(r.now()),
	)
	if err != nil {
		return nil, fmt.Errorf("insert favorite: %w", err)
	}
	return r.Get(ctx, userID, ref.TMDBID)
}

// Get returns the favorite for the movie or nil when it is not a favorite.
func (r *FavoriteRepository) Get(ctx context.Context, userID string, tmdbID int64) (*models.FavoriteEntry, error) {
	f, err := scanFavorite(r.db.QueryRowContext(ctx,
		`SELECT `+favoriteColumns+` FROM favorites WHERE user_id = ? AND tmdb_id = ?`, userID, tmdbID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get favorite: %w", err)
	}
	return f, nil
}

// Remove deletes the favorite. Returns false when nothing was removed.
func (r *FavoriteRepository) Remove(ctx context.Context, userID string, tmdbID int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM favorites WHERE user_id = ? AND tmdb_id = ?`, userID, tmdbID)
	if err != nil {
		return false, fmt.Errorf("delete favorite: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// List returns the user's favorites, most recently added first.
func (r *FavoriteRepository) List(ctx context.Context, userID string) ([]models.FavoriteEntry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+favoriteColumns+` FROM favorites WHERE user_id = ? ORDER BY added_at DESC, rowid DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}
	defer rows.Close()

	entries := []models.FavoriteEntry{}
	for rows.Next() {
		f, err := scanFavorite(rows)
		if err != nil {
			return nil, fmt.Errorf("scan favorite: %w", err)
		}
		entries = append(entries, *f)
	}
	return entries, rows.Err()
}
