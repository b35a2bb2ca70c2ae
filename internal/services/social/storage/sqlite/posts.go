package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/louisbranch/murmur/internal/services/social/storage"
)

const postSelect = `SELECT p.id, p.author_id, u.username, p.body, p.language, p.created_at
	FROM posts p
	JOIN users u ON u.id = p.author_id`

// CreatePost inserts one post.
func (s *Store) CreatePost(ctx context.Context, post storage.Post) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	post.ID = strings.TrimSpace(post.ID)
	post.AuthorID = strings.TrimSpace(post.AuthorID)
	if post.ID == "" {
		return fmt.Errorf("post id is required")
	}
	if post.AuthorID == "" {
		return fmt.Errorf("author id is required")
	}
	if post.Body == "" {
		return fmt.Errorf("post body is required")
	}

	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO posts (id, author_id, body, language, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		post.ID,
		post.AuthorID,
		post.Body,
		post.Language,
		toMillis(post.CreatedAt),
	)
	if err != nil {
		switch {
		case isUniqueViolation(err):
			return storage.ErrAlreadyExists
		case isForeignKeyViolation(err):
			return storage.ErrNotFound
		}
		return fmt.Errorf("create post: %w", err)
	}
	return nil
}

// ListFollowedPosts returns the user's own posts together with posts by
// every user it follows.
func (s *Store) ListFollowedPosts(ctx context.Context, userID string, limit int, offset int) ([]storage.Post, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, fmt.Errorf("user id is required")
	}
	if err := checkWindow(limit, offset); err != nil {
		return nil, err
	}

	rows, err := s.sqlDB.QueryContext(
		ctx,
		postSelect+`
		 WHERE p.author_id = ?
		    OR p.author_id IN (SELECT followed_id FROM follows WHERE follower_id = ?)
		 ORDER BY p.created_at DESC, p.id DESC
		 LIMIT ? OFFSET ?`,
		userID,
		userID,
		limit,
		offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list followed posts: %w", err)
	}
	return scanPosts(rows, limit)
}

// ListUserPosts returns posts written by one author.
func (s *Store) ListUserPosts(ctx context.Context, authorID string, limit int, offset int) ([]storage.Post, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	authorID = strings.TrimSpace(authorID)
	if authorID == "" {
		return nil, fmt.Errorf("author id is required")
	}
	if err := checkWindow(limit, offset); err != nil {
		return nil, err
	}

	rows, err := s.sqlDB.QueryContext(
		ctx,
		postSelect+`
		 WHERE p.author_id = ?
		 ORDER BY p.created_at DESC, p.id DESC
		 LIMIT ? OFFSET ?`,
		authorID,
		limit,
		offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list user posts: %w", err)
	}
	return scanPosts(rows, limit)
}

func scanPosts(rows *sql.Rows, capacity int) ([]storage.Post, error) {
	defer rows.Close()

	posts := make([]storage.Post, 0, capacity)
	for rows.Next() {
		var (
			post      storage.Post
			createdAt int64
		)
		if err := rows.Scan(
			&post.ID,
			&post.AuthorID,
			&post.AuthorUsername,
			&post.Body,
			&post.Language,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		post.CreatedAt = fromMillis(createdAt)
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate posts: %w", err)
	}
	return posts, nil
}

func checkWindow(limit int, offset int) error {
	if limit <= 0 {
		return fmt.Errorf("limit must be greater than zero")
	}
	if offset < 0 {
		return fmt.Errorf("offset must not be negative")
	}
	return nil
}
