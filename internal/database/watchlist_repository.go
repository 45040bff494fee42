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

// WatchlistRepository handles watchlist persistence.
type WatchlistRepository struct {
	db  *sql.DB
	now func() time.Time
}

// NewWatchlistRepository creates a new watchlist repository.
func NewWatchlistRepository(db *sql.DB) *WatchlistRepository {
	return &WatchlistRepository{db: db, now: time.Now}
}

const watchlistColumns = `id, user_id, tmdb_id, title, poster_path, release_year, added_at,
       watched, watched_at, priority, notes`

func scanWatchlistEntry(row scanner) (*models.WatchlistEntry, error) {
	var (
		e                   models.WatchlistEntry
		poster, notes       sql.NullString
		watchedAt, priority sql.NullInt64
		addedAt             int64
	)
	if err := row.Scan(&e.ID, &e.UserID, &e.TMDBID, &e.Title, &poster, &e.ReleaseYear, &addedAt,
		&e.Watched, &watchedAt, &priority, &notes); err != nil {
		return nil, err
	}
	e.PosterPath = stringPtr(poster)
	e.AddedAt = fromUnix(addedAt)
	e.WatchedAt = timePtr(watchedAt)
	e.Priority = intPtr(priority)
	e.Notes = stringPtr(notes)
	return &e, nil
}

// Add stores the movie on the watchlist. An existing entry is returned
// unchanged.
func (r *WatchlistRepository) Add(ctx context.Context, userID string, in models.WatchlistAdd) (*models.WatchlistEntry, error) {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO watchlist (id, user_id, tmdb_id, title, poster_path, release_year, added_at, watched, priority, notes)
VALUES (?, ?, ?, ?, ?, ?, ?, 0, ?, ?)
ON CONFLICT (user_id, tmdb_id) DO NOTHING`,
		uuid.NewString(), userID, in.TMDBID, in.Title, nullString(in.PosterPath), in.ReleaseYear,
		toUnix(r.now()), nullInt(in.Priority), nullString(in.Notes),
	)
	if err != nil {
		return nil, fmt.Errorf("insert watchlist entry: %w", err)
	}
	return r.Get(ctx, userID, in.TMDBID)
}

// Get returns the watchlist entry for the movie, or nil when absent.
func (r *WatchlistRepository) Get(ctx context.Context, userID string, tmdbID int64) (*models.WatchlistEntry, error) {
	e, err := scanWatchlistEntry(r.db.QueryRowContext(ctx,
		`SELECT `+watchlistColumns+` FROM watchlist WHERE user_id = ? AND tmdb_id = ?`, userID, tmdbID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get watchlist entry: %w", err)
	}
	return e, nil
}

// Remove deletes the entry. Returns false when nothing was removed.
func (r *WatchlistRepository) Remove(ctx context.Context, userID string, tmdbID int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM watchlist WHERE user_id = ? AND tmdb_id = ?`, userID, tmdbID)
	if err != nil {
		return false, fmt.Errorf("delete watchlist entry: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// SetWatched updates the watched flag. WatchedAt is set to now when marking
// watched and cleared when marking unwatched. Returns nil when absent.
func (r *WatchlistRepository) SetWatched(ctx context.Context, userID string, tmdbID int64, watched bool) (*models.WatchlistEntry, error) {
	var watchedAt sql.NullInt64
	if watched {
		watchedAt = sql.NullInt64{Int64: toUnix(r.now()), Valid: true}
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE watchlist SET watched = ?, watched_at = ? WHERE user_id = ? AND tmdb_id = ?`,
		watched, watchedAt, userID, tmdbID)
	if err != nil {
		return nil, fmt.Errorf("update watched state: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, nil
	}
	return r.Get(ctx, userID, tmdbID)
}

// UpdateNotes replaces the notes and priority of an entry. Returns nil when
// absent.
func (r *WatchlistRepository) UpdateNotes(ctx context.Context, userID string, tmdbID int64, notes *string, priority *int) (*models.WatchlistEntry, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE watchlist SET notes = ?, priority = ? WHERE user_id = ? AND tmdb_id = ?`,
		nullString(notes), nullInt(priority), userID, tmdbID)
	if err != nil {
		return nil, fmt.Errorf("update watchlist notes: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, nil
	}
	return r.Get(ctx, userID, tmdbID)
}

// List returns the user's watchlist, most recently added first.
func (r *WatchlistRepository) List(ctx context.Context, userID string, filter models.WatchlistFilter) ([]models.WatchlistEntry, error) {
	query := `SELECT ` + watchlistColumns + ` FROM watchlist WHERE user_id = ?`
	args := []any{userID}
	switch filter {
	case models.WatchlistWatched:
		query += ` AND watched = 1`
	case models.WatchlistUnwatched:
		query += ` AND watched = 0`
	}
	query += ` ORDER BY added_at DESC, rowid DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list watchlist: %w", err)
	}
	defer rows.Close()

	entries := []models.WatchlistEntry{}
	for rows.Next() {
		e, err := scanWatchlistEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan watchlist entry: %w", err)
		}
		entries = append(entries, *e)
	}
	return entries, rows.Err()
}
