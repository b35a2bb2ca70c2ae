// Package graph implements follow relationships and the followed-posts feed.
package graph

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	apperrors "github.com/louisbranch/murmur/internal/platform/errors"
	"github.com/louisbranch/murmur/internal/platform/pagination"
	"github.com/louisbranch/murmur/internal/services/social/storage"
	"github.com/louisbranch/murmur/internal/services/social/username"
)

const tracerName = "github.com/louisbranch/murmur/internal/services/social/graph"

// DefaultPageSize is the feed page size used when callers pass zero.
const DefaultPageSize = 25

// Store is the persistence surface the graph needs.
type Store interface {
	GetUser(ctx context.Context, userID string) (storage.User, error)
	GetUserByUsername(ctx context.Context, username string) (storage.User, error)
	storage.FollowStore
	ListFollowedPosts(ctx context.Context, userID string, limit int, offset int) ([]storage.Post, error)
}

// Outcome describes a follow mutation.
type Outcome struct {
	Target storage.User
	// Changed is false when the edge was already in the requested state.
	Changed bool
}

// Service answers follow mutations and feed reads.
type Service struct {
	store    Store
	clock    func() time.Time
	tracer   trace.Tracer
	pageSize pagination.PageSizeConfig
}

// NewService creates a graph service backed by store.
func NewService(store Store) *Service {
	return &Service{
		store:    store,
		clock:    time.Now,
		tracer:   otel.Tracer(tracerName),
		pageSize: pagination.PageSizeConfig{Default: DefaultPageSize, Max: 100},
	}
}

// WithPageSize overrides the default and maximum feed page sizes.
func (s *Service) WithPageSize(cfg pagination.PageSizeConfig) *Service {
	s.pageSize = cfg
	return s
}

// Follow adds the edge follower -> target. Following an already followed
// user succeeds without changes.
func (s *Service) Follow(ctx context.Context, followerID string, targetUsername string) (Outcome, error) {
	ctx, span := s.tracer.Start(ctx, "graph.follow")
	defer span.End()

	outcome, err := s.follow(ctx, followerID, targetUsername)
	recordOutcome(span, outcome, err)
	return outcome, err
}

func (s *Service) follow(ctx context.Context, followerID string, targetUsername string) (Outcome, error) {
	follower, target, err := s.resolveEdge(ctx, followerID, targetUsername)
	if err != nil {
		return Outcome{}, err
	}
	if follower.ID == target.ID {
		return Outcome{Target: target}, apperrors.WithMetadata(
			apperrors.CodeFollowSelf,
			"user cannot follow itself",
			map[string]string{"Username": target.Username},
		)
	}

	created, err := s.store.PutFollow(ctx, storage.Follow{
		FollowerID: follower.ID,
		FollowedID: target.ID,
		CreatedAt:  s.clock().UTC(),
	})
	if err != nil {
		return Outcome{Target: target}, mapStoreError(err, apperrors.CodeFollowSelf, target.Username)
	}
	return Outcome{Target: target, Changed: created}, nil
}

// Unfollow removes the edge follower -> target. Unfollowing a user that is
// not followed succeeds without changes.
func (s *Service) Unfollow(ctx context.Context, followerID string, targetUsername string) (Outcome, error) {
	ctx, span := s.tracer.Start(ctx, "graph.unfollow")
	defer span.End()

	outcome, err := s.unfollow(ctx, followerID, targetUsername)
	recordOutcome(span, outcome, err)
	return outcome, err
}

func (s *Service) unfollow(ctx context.Context, followerID string, targetUsername string) (Outcome, error) {
	follower, target, err := s.resolveEdge(ctx, followerID, targetUsername)
	if err != nil {
		return Outcome{}, err
	}
	if follower.ID == target.ID {
		return Outcome{Target: target}, apperrors.WithMetadata(
			apperrors.CodeUnfollowSelf,
			"user cannot unfollow itself",
			map[string]string{"Username": target.Username},
		)
	}

	removed, err := s.store.DeleteFollow(ctx, follower.ID, target.ID)
	if err != nil {
		return Outcome{Target: target}, mapStoreError(err, apperrors.CodeUnfollowSelf, target.Username)
	}
	return Outcome{Target: target, Changed: removed}, nil
}

// FollowedFeed returns one page of posts written by the user or by anyone
// the user follows, newest first.
func (s *Service) FollowedFeed(ctx context.Context, userID string, page int, pageSize int) (pagination.Page[storage.Post], error) {
	ctx, span := s.tracer.Start(ctx, "graph.followed_feed")
	defer span.End()

	if err := s.ready(); err != nil {
		return pagination.Page[storage.Post]{}, err
	}
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return pagination.Page[storage.Post]{}, apperrors.New(apperrors.CodeAuthRequired, "user id is required")
	}

	page = pagination.ClampPage(page)
	size := pagination.ClampPageSize(pageSize, s.pageSize)
	span.SetAttributes(attribute.Int("feed.page", page), attribute.Int("feed.page_size", size))

	offset, ok := pagination.Offset(page, size)
	if !ok {
		return pagination.FromLookahead[storage.Post](nil, page, size), nil
	}
	rows, err := s.store.ListFollowedPosts(ctx, userID, size+1, offset)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "list followed posts")
		return pagination.Page[storage.Post]{}, fmt.Errorf("list followed posts: %w", err)
	}
	result := pagination.FromLookahead(rows, page, size)
	span.SetAttributes(attribute.Int("feed.items", len(result.Items)))
	return result, nil
}

// IsFollowing reports whether follower follows followed.
func (s *Service) IsFollowing(ctx context.Context, followerID string, followedID string) (bool, error) {
	if err := s.ready(); err != nil {
		return false, err
	}
	if followerID == "" || followedID == "" || followerID == followedID {
		return false, nil
	}
	following, err := s.store.IsFollowing(ctx, followerID, followedID)
	if err != nil {
		return false, fmt.Errorf("is following: %w", err)
	}
	return following, nil
}

// Counts returns the follower and following totals of a user.
func (s *Service) Counts(ctx context.Context, userID string) (storage.FollowCounts, error) {
	if err := s.ready(); err != nil {
		return storage.FollowCounts{}, err
	}
	counts, err := s.store.CountFollows(ctx, userID)
	if err != nil {
		return storage.FollowCounts{}, fmt.Errorf("count follows: %w", err)
	}
	return counts, nil
}

func (s *Service) ready() error {
	if s == nil || s.store == nil {
		return errors.New("graph store is not configured")
	}
	return nil
}

// resolveEdge loads both endpoints of a follow mutation.
func (s *Service) resolveEdge(ctx context.Context, followerID string, targetUsername string) (storage.User, storage.User, error) {
	if err := s.ready(); err != nil {
		return storage.User{}, storage.User{}, err
	}
	followerID = strings.TrimSpace(followerID)
	if followerID == "" {
		return storage.User{}, storage.User{}, apperrors.New(apperrors.CodeAuthRequired, "follower id is required")
	}
	follower, err := s.store.GetUser(ctx, followerID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return storage.User{}, storage.User{}, apperrors.Wrap(apperrors.CodeAuthRequired, "follower not found", err)
		}
		return storage.User{}, storage.User{}, fmt.Errorf("get follower: %w", err)
	}

	target, err := s.lookupUsername(ctx, targetUsername)
	if err != nil {
		return storage.User{}, storage.User{}, err
	}
	return follower, target, nil
}

func (s *Service) lookupUsername(ctx context.Context, raw string) (storage.User, error) {
	notFound := apperrors.WithMetadata(
		apperrors.CodeUserNotFound,
		"user not found",
		map[string]string{"Username": strings.TrimSpace(raw)},
	)
	canonical, err := username.Canonicalize(raw)
	if err != nil {
		return storage.User{}, notFound
	}
	user, err := s.store.GetUserByUsername(ctx, canonical)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return storage.User{}, notFound
		}
		return storage.User{}, fmt.Errorf("get user by username: %w", err)
	}
	return user, nil
}

func mapStoreError(err error, selfCode apperrors.Code, target string) error {
	switch {
	case errors.Is(err, storage.ErrSelfFollow):
		return apperrors.WithMetadata(selfCode, "user cannot target itself", map[string]string{"Username": target})
	case errors.Is(err, storage.ErrNotFound):
		return apperrors.WithMetadata(apperrors.CodeUserNotFound, "user not found", map[string]string{"Username": target})
	default:
		return fmt.Errorf("update follow: %w", err)
	}
}

func recordOutcome(span trace.Span, outcome Outcome, err error) {
	if outcome.Target.ID != "" {
		span.SetAttributes(attribute.String("graph.target_id", outcome.Target.ID))
	}
	span.SetAttributes(attribute.Bool("graph.changed", outcome.Changed))
	if err != nil {
		span.RecordError(err)
		if apperrors.GetCode(err) == apperrors.CodeUnknown {
			span.SetStatus(codes.Error, "follow mutation failed")
		}
	}
}
