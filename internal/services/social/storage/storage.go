// Package storage defines persistence contracts for the social service.
package storage

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound indicates a requested record is missing.
var ErrNotFound = errors.New("record not found")

// ErrAlreadyExists indicates a uniqueness-constrained record already exists.
var ErrAlreadyExists = errors.New("record already exists")

// ErrSelfFollow indicates an attempt to store a follow edge from a user to itself.
var ErrSelfFollow = errors.New("user cannot follow itself")

// ConflictError reports which unique field rejected a write. It matches
// ErrAlreadyExists under errors.Is.
type ConflictError struct {
	Field string
}

func (e *ConflictError) Error() string {
	return e.Field + " already exists"
}

// Is makes ConflictError match ErrAlreadyExists.
func (e *ConflictError) Is(target error) bool {
	return target == ErrAlreadyExists
}

// User stores one registered account with its public profile.
type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	AboutMe      string
	LastSeen     time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Post stores one immutable status update.
type Post struct {
	ID       string
	AuthorID string
	// AuthorUsername is filled by list queries that join the author.
	AuthorUsername string
	Body           string
	Language       string
	CreatedAt      time.Time
}

// Follow stores one directed follower -> followed edge.
type Follow struct {
	FollowerID string
	FollowedID string
	CreatedAt  time.Time
}

// FollowCounts summarizes both directions of a user's edges.
type FollowCounts struct {
	Followers int
	Following int
}

// Session stores one browser login.
type Session struct {
	ID        string
	UserID    string
	Remember  bool
	CreatedAt time.Time
	ExpiresAt time.Time
	RevokedAt *time.Time
}

// Active reports whether the session can authenticate requests at now.
func (s Session) Active(now time.Time) bool {
	if s.ID == "" || s.UserID == "" {
		return false
	}
	if s.RevokedAt != nil {
		return false
	}
	return now.Before(s.ExpiresAt)
}

// UserStore persists accounts.
type UserStore interface {
	CreateUser(ctx context.Context, user User) error
	GetUser(ctx context.Context, userID string) (User, error)
	GetUserByUsername(ctx context.Context, username string) (User, error)
	GetUserByEmail(ctx context.Context, email string) (User, error)
	UpdateProfile(ctx context.Context, userID string, username string, aboutMe string, updatedAt time.Time) error
	UpdatePasswordHash(ctx context.Context, userID string, passwordHash string, updatedAt time.Time) error
	TouchLastSeen(ctx context.Context, userID string, seenAt time.Time) error
	ListUsers(ctx context.Context, limit int, offset int) ([]User, error)
}

// FollowStore persists the social graph.
type FollowStore interface {
	// PutFollow inserts an edge and reports whether it was new.
	PutFollow(ctx context.Context, follow Follow) (bool, error)
	// DeleteFollow removes an edge and reports whether one existed.
	DeleteFollow(ctx context.Context, followerID string, followedID string) (bool, error)
	IsFollowing(ctx context.Context, followerID string, followedID string) (bool, error)
	CountFollows(ctx context.Context, userID string) (FollowCounts, error)
}

// PostStore persists posts and answers the feed queries.
type PostStore interface {
	CreatePost(ctx context.Context, post Post) error
	// ListFollowedPosts returns posts by userID and every user it follows,
	// newest first with id as tie-break.
	ListFollowedPosts(ctx context.Context, userID string, limit int, offset int) ([]Post, error)
	ListUserPosts(ctx context.Context, authorID string, limit int, offset int) ([]Post, error)
}

// SessionStore persists browser sessions.
type SessionStore interface {
	PutSession(ctx context.Context, session Session) error
	GetSession(ctx context.Context, sessionID string) (Session, error)
	RevokeSession(ctx context.Context, sessionID string, revokedAt time.Time) error
}
