package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"filmpivot/models"
)

// SessionRepository persists discovery sessions. Sessions are immutable once
// written.
type SessionRepository struct {
	db *sql.DB
}

// NewSessionRepository creates a new discovery session repository.
func NewSessionRepository(db *sql.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

const sessionColumns = `id, user_id, seed_movie_tmdb_id, seed_movie_title, seed_movie_poster_path, mode,
       director_id, director_name, studio_id, studio_name, recommended_movie_ids, created_at`

func scanSession(row scanner) (*models.DiscoverySession, error) {
	var (
		s                        models.DiscoverySession
		poster, dirName, stuName sql.NullString
		dirID, stuID             sql.NullInt64
		mode, recommended        string
		createdAt                int64
	)
	if err := row.Scan(&s.ID, &s.UserID, &s.SeedMovieTMDBID, &s.SeedMovieTitle, &poster, &mode,
		&dirID, &dirName, &stuID, &stuName, &recommended, &createdAt); err != nil {
		return nil, err
	}
	s.SeedMoviePosterPath = stringPtr(poster)
	s.Mode = models.DiscoveryMode(mode)
	s.DirectorID = int64Ptr(dirID)
	s.DirectorName = stringPtr(dirName)
	s.StudioID = int64Ptr(stuID)
	s.StudioName = stringPtr(stuName)
	s.CreatedAt = fromUnix(createdAt)
	if err := decodeJSON(recommended, &s.RecommendedMovieIDs); err != nil {
		return nil, fmt.Errorf("decode recommended ids: %w", err)
	}
	if s.RecommendedMovieIDs == nil {
		s.RecommendedMovieIDs = []int64{}
	}
	return &s, nil
}

// Insert writes a new session row.
func (r *SessionRepository) Insert(ctx context.Context, s models.DiscoverySession) error {
	recommended, err := encodeJSON(nonNil(s.RecommendedMovieIDs))
	if err != nil {
		return fmt.Errorf("encode recommended ids: %w", err)
	}
	_, err = r.db.ExecContext(ctx, `
INSERT INTO discovery_sessions (`+sessionColumns+`)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.ID, s.UserID, s.SeedMovieTMDBID, s.SeedMovieTitle, nullString(s.SeedMoviePosterPath), string(s.Mode),
		nullInt64(s.DirectorID), nullString(s.DirectorName), nullInt64(s.StudioID), nullString(s.StudioName),
		recommended, toUnix(s.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("insert discovery session: %w", err)
	}
	return nil
}

// ListByUser returns up to limit sessions for the user, newest first.
func (r *SessionRepository) ListByUser(ctx context.Context, userID string, limit int) ([]models.DiscoverySession, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+sessionColumns+` FROM discovery_sessions
WHERE user_id = ? ORDER BY created_at DESC, rowid DESC LIMIT ?`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list discovery sessions: %w", err)
	}
	defer rows.Close()

	sessions := []models.DiscoverySession{}
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("scan discovery session: %w", err)
		}
		sessions = append(sessions, *s)
	}
	return sessions, rows.Err()
}

// Get returns the session with the given id, or nil when absent.
func (r *SessionRepository) Get(ctx context.Context, id string) (*models.DiscoverySession, error) {
	s, err := scanSession(r.db.QueryRowContext(ctx,
		`SELECT `+sessionColumns+` FROM discovery_sessions WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get discovery session: %w", err)
	}
	return s, nil
}

// Delete removes one session. Returns false when nothing was removed.
func (r *SessionRepository) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM discovery_sessions WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete discovery session: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// DeleteByUser removes every session belonging to the user and reports how
// many were deleted.
func (r *SessionRepository) DeleteByUser(ctx context.Context, userID string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM discovery_sessions WHERE user_id = ?`, userID)
	if err != nil {
		return 0, fmt.Errorf("delete user sessions: %w", err)
	}
	return res.RowsAffected()
}
