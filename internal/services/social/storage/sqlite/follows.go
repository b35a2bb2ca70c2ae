package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/louisbranch/murmur/internal/services/social/storage"
)

// PutFollow inserts one follow edge. An existing edge is left untouched and
// reported as not created.
func (s *Store) PutFollow(ctx context.Context, follow storage.Follow) (bool, error) {
	if err := s.ready(ctx); err != nil {
		return false, err
	}
	followerID, followedID, err := edgeIDs(follow.FollowerID, follow.FollowedID)
	if err != nil {
		return false, err
	}
	if followerID == followedID {
		return false, storage.ErrSelfFollow
	}

	result, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO follows (follower_id, followed_id, created_at)
		 VALUES (?, ?, ?)
		 ON CONFLICT(follower_id, followed_id) DO NOTHING`,
		followerID,
		followedID,
		toMillis(follow.CreatedAt),
	)
	if err != nil {
		switch {
		case isCheckViolation(err):
			return false, storage.ErrSelfFollow
		case isForeignKeyViolation(err):
			return false, storage.ErrNotFound
		}
		return false, fmt.Errorf("put follow: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("put follow: rows affected: %w", err)
	}
	return affected > 0, nil
}

// DeleteFollow removes one follow edge. Missing edges are a no-op.
func (s *Store) DeleteFollow(ctx context.Context, followerID string, followedID string) (bool, error) {
	if err := s.ready(ctx); err != nil {
		return false, err
	}
	followerID, followedID, err := edgeIDs(followerID, followedID)
	if err != nil {
		return false, err
	}

	result, err := s.sqlDB.ExecContext(
		ctx,
		`DELETE FROM follows WHERE follower_id = ? AND followed_id = ?`,
		followerID,
		followedID,
	)
	if err != nil {
		return false, fmt.Errorf("delete follow: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete follow: rows affected: %w", err)
	}
	return affected > 0, nil
}

// IsFollowing reports whether the follower -> followed edge exists.
func (s *Store) IsFollowing(ctx context.Context, followerID string, followedID string) (bool, error) {
	if err := s.ready(ctx); err != nil {
		return false, err
	}
	followerID, followedID, err := edgeIDs(followerID, followedID)
	if err != nil {
		return false, err
	}

	var found int
	err = s.sqlDB.QueryRowContext(
		ctx,
		`SELECT COUNT(1) FROM follows WHERE follower_id = ? AND followed_id = ?`,
		followerID,
		followedID,
	).Scan(&found)
	if err != nil {
		return false, fmt.Errorf("check follow: %w", err)
	}
	return found > 0, nil
}

// CountFollows returns follower and following totals for one user.
func (s *Store) CountFollows(ctx context.Context, userID string) (storage.FollowCounts, error) {
	if err := s.ready(ctx); err != nil {
		return storage.FollowCounts{}, err
	}
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return storage.FollowCounts{}, fmt.Errorf("user id is required")
	}

	var counts storage.FollowCounts
	err := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT
		   (SELECT COUNT(1) FROM follows WHERE followed_id = ?),
		   (SELECT COUNT(1) FROM follows WHERE follower_id = ?)`,
		userID,
		userID,
	).Scan(&counts.Followers, &counts.Following)
	if err != nil {
		return storage.FollowCounts{}, fmt.Errorf("count follows: %w", err)
	}
	return counts, nil
}

func edgeIDs(followerID string, followedID string) (string, string, error) {
	followerID = strings.TrimSpace(followerID)
	followedID = strings.TrimSpace(followedID)
	if followerID == "" {
		return "", "", fmt.Errorf("follower id is required")
	}
	if followedID == "" {
		return "", "", fmt.Errorf("followed id is required")
	}
	return followerID, followedID, nil
}
