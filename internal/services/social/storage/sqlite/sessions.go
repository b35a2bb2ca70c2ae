package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/louisbranch/murmur/internal/services/social/storage"
)

// PutSession stores one browser session.
func (s *Store) PutSession(ctx context.Context, session storage.Session) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	session.ID = strings.TrimSpace(session.ID)
	session.UserID = strings.TrimSpace(session.UserID)
	if session.ID == "" {
		return fmt.Errorf("session id is required")
	}
	if session.UserID == "" {
		return fmt.Errorf("user id is required")
	}

	var revokedAt sql.NullInt64
	if session.RevokedAt != nil {
		revokedAt = sql.NullInt64{Int64: toMillis(*session.RevokedAt), Valid: true}
	}
	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO web_sessions (id, user_id, remember, created_at, expires_at, revoked_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		session.ID,
		session.UserID,
		session.Remember,
		toMillis(session.CreatedAt),
		toMillis(session.ExpiresAt),
		revokedAt,
	)
	if err != nil {
		switch {
		case isUniqueViolation(err):
			return storage.ErrAlreadyExists
		case isForeignKeyViolation(err):
			return storage.ErrNotFound
		}
		return fmt.Errorf("put session: %w", err)
	}
	return nil
}

// GetSession returns one session, including expired or revoked ones.
func (s *Store) GetSession(ctx context.Context, sessionID string) (storage.Session, error) {
	if err := s.ready(ctx); err != nil {
		return storage.Session{}, err
	}
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return storage.Session{}, fmt.Errorf("session id is required")
	}

	var (
		session   storage.Session
		createdAt int64
		expiresAt int64
		revokedAt sql.NullInt64
	)
	err := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT id, user_id, remember, created_at, expires_at, revoked_at
		 FROM web_sessions WHERE id = ?`,
		sessionID,
	).Scan(&session.ID, &session.UserID, &session.Remember, &createdAt, &expiresAt, &revokedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.Session{}, storage.ErrNotFound
		}
		return storage.Session{}, fmt.Errorf("get session: %w", err)
	}
	session.CreatedAt = fromMillis(createdAt)
	session.ExpiresAt = fromMillis(expiresAt)
	if revokedAt.Valid {
		value := fromMillis(revokedAt.Int64)
		session.RevokedAt = &value
	}
	return session, nil
}

// RevokeSession marks one session revoked. Unknown or already revoked
// sessions are a no-op.
func (s *Store) RevokeSession(ctx context.Context, sessionID string, revokedAt time.Time) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return fmt.Errorf("session id is required")
	}

	_, err := s.sqlDB.ExecContext(
		ctx,
		`UPDATE web_sessions SET revoked_at = ? WHERE id = ? AND revoked_at IS NULL`,
		toMillis(revokedAt),
		sessionID,
	)
	if err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	return nil
}
