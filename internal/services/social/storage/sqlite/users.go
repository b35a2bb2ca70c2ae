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

const userColumns = `id, username, email, password_hash, about_me, last_seen, created_at, updated_at`

// CreateUser inserts one account. Duplicate usernames or emails return a
// *storage.ConflictError naming the field.
func (s *Store) CreateUser(ctx context.Context, user storage.User) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	user.ID = strings.TrimSpace(user.ID)
	user.Username = strings.TrimSpace(user.Username)
	user.Email = strings.TrimSpace(user.Email)
	if user.ID == "" {
		return fmt.Errorf("user id is required")
	}
	if user.Username == "" {
		return fmt.Errorf("username is required")
	}
	if user.Email == "" {
		return fmt.Errorf("email is required")
	}
	if user.PasswordHash == "" {
		return fmt.Errorf("password hash is required")
	}

	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO users (`+userColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		user.ID,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.AboutMe,
		toMillis(user.LastSeen),
		toMillis(user.CreatedAt),
		toMillis(user.UpdatedAt),
	)
	if err != nil {
		if conflict := userConflict(err); conflict != nil {
			return conflict
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// GetUser returns one account by id.
func (s *Store) GetUser(ctx context.Context, userID string) (storage.User, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return storage.User{}, fmt.Errorf("user id is required")
	}
	return s.getUser(ctx, "id", userID)
}

// GetUserByUsername returns one account by its canonical username.
func (s *Store) GetUserByUsername(ctx context.Context, username string) (storage.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return storage.User{}, fmt.Errorf("username is required")
	}
	return s.getUser(ctx, "username", username)
}

// GetUserByEmail returns one account by email, ignoring case.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (storage.User, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return storage.User{}, fmt.Errorf("email is required")
	}
	return s.getUser(ctx, "email", email)
}

func (s *Store) getUser(ctx context.Context, column string, value string) (storage.User, error) {
	if err := s.ready(ctx); err != nil {
		return storage.User{}, err
	}
	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT `+userColumns+` FROM users WHERE `+column+` = ?`,
		value,
	)
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.User{}, storage.ErrNotFound
		}
		return storage.User{}, fmt.Errorf("get user by %s: %w", column, err)
	}
	return user, nil
}

// UpdateProfile replaces the username and about-me text of one account.
func (s *Store) UpdateProfile(ctx context.Context, userID string, username string, aboutMe string, updatedAt time.Time) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	userID = strings.TrimSpace(userID)
	username = strings.TrimSpace(username)
	if userID == "" {
		return fmt.Errorf("user id is required")
	}
	if username == "" {
		return fmt.Errorf("username is required")
	}

	result, err := s.sqlDB.ExecContext(
		ctx,
		`UPDATE users SET username = ?, about_me = ?, updated_at = ? WHERE id = ?`,
		username,
		aboutMe,
		toMillis(updatedAt),
		userID,
	)
	if err != nil {
		if conflict := userConflict(err); conflict != nil {
			return conflict
		}
		return fmt.Errorf("update profile: %w", err)
	}
	return requireAffected(result, "update profile")
}

// UpdatePasswordHash replaces the stored password hash of one account.
func (s *Store) UpdatePasswordHash(ctx context.Context, userID string, passwordHash string, updatedAt time.Time) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return fmt.Errorf("user id is required")
	}
	if passwordHash == "" {
		return fmt.Errorf("password hash is required")
	}

	result, err := s.sqlDB.ExecContext(
		ctx,
		`UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ?`,
		passwordHash,
		toMillis(updatedAt),
		userID,
	)
	if err != nil {
		return fmt.Errorf("update password hash: %w", err)
	}
	return requireAffected(result, "update password hash")
}

// TouchLastSeen records activity for one account.
func (s *Store) TouchLastSeen(ctx context.Context, userID string, seenAt time.Time) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return fmt.Errorf("user id is required")
	}

	result, err := s.sqlDB.ExecContext(
		ctx,
		`UPDATE users SET last_seen = ? WHERE id = ?`,
		toMillis(seenAt),
		userID,
	)
	if err != nil {
		return fmt.Errorf("touch last seen: %w", err)
	}
	return requireAffected(result, "touch last seen")
}

// ListUsers returns accounts ordered by username.
func (s *Store) ListUsers(ctx context.Context, limit int, offset int) ([]storage.User, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be greater than zero")
	}
	if offset < 0 {
		return nil, fmt.Errorf("offset must not be negative")
	}

	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT `+userColumns+` FROM users ORDER BY username ASC LIMIT ? OFFSET ?`,
		limit,
		offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := make([]storage.User, 0, limit)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}
	return users, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (storage.User, error) {
	var (
		user      storage.User
		lastSeen  int64
		createdAt int64
		updatedAt int64
	)
	if err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.AboutMe,
		&lastSeen,
		&createdAt,
		&updatedAt,
	); err != nil {
		return storage.User{}, err
	}
	user.LastSeen = fromMillis(lastSeen)
	user.CreatedAt = fromMillis(createdAt)
	user.UpdatedAt = fromMillis(updatedAt)
	return user, nil
}

func userConflict(err error) error {
	if !isUniqueViolation(err) {
		return nil
	}
	message := strings.ToLower(err.Error())
	switch {
	case strings.Contains(message, "users.username"):
		return &storage.ConflictError{Field: "username"}
	case strings.Contains(message, "users.email"):
		return &storage.ConflictError{Field: "email"}
	default:
		return &storage.ConflictError{Field: "id"}
	}
}

func requireAffected(result sql.Result, op string) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: rows affected: %w", op, err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}
