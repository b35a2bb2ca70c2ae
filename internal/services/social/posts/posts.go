// Package posts publishes status updates and lists them per author.
package posts

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	apperrors "github.com/louisbranch/murmur/internal/platform/errors"
	"github.com/louisbranch/murmur/internal/platform/id"
	"github.com/louisbranch/murmur/internal/platform/pagination"
	"github.com/louisbranch/murmur/internal/services/social/langdetect"
	"github.com/louisbranch/murmur/internal/services/social/storage"
	"github.com/louisbranch/murmur/internal/services/social/username"
)

// MaxBodyLength is the longest accepted post, counted in characters.
const MaxBodyLength = 140

// Store is the persistence surface for posts.
type Store interface {
	GetUserByUsername(ctx context.Context, username string) (storage.User, error)
	CreatePost(ctx context.Context, post storage.Post) error
	ListUserPosts(ctx context.Context, authorID string, limit int, offset int) ([]storage.Post, error)
}

// Service validates and stores posts.
type Service struct {
	store    Store
	detector langdetect.Detector
	clock    func() time.Time
	newID    func() (string, error)
	pageSize pagination.PageSizeConfig
}

// NewService creates a post service. A nil detector stores every post
// with an empty language.
func NewService(store Store, detector langdetect.Detector) *Service {
	return &Service{
		store:    store,
		detector: detector,
		clock:    time.Now,
		newID:    id.NewOrderedID,
		pageSize: pagination.PageSizeConfig{Default: 25, Max: 100},
	}
}

// WithPageSize overrides the default and maximum page sizes.
func (s *Service) WithPageSize(cfg pagination.PageSizeConfig) *Service {
	s.pageSize = cfg
	return s
}

// ValidateBody checks the length of the submitted body, then trims it and
// rejects a blank result.
func ValidateBody(body string) (string, error) {
	if utf8.RuneCountInString(body) > MaxBodyLength {
		return "", apperrors.WithMetadata(
			apperrors.CodePostBodyTooLong,
			"post body is too long",
			map[string]string{"Max": strconv.Itoa(MaxBodyLength)},
		)
	}
	body = strings.TrimSpace(body)
	if body == "" {
		return "", apperrors.New(apperrors.CodePostBodyRequired, "post body is required")
	}
	return body, nil
}

// Submit stores a new post authored by authorID and tags it with the
// detected language.
func (s *Service) Submit(ctx context.Context, authorID string, body string) (storage.Post, error) {
	if s == nil || s.store == nil {
		return storage.Post{}, errors.New("post store is not configured")
	}
	authorID = strings.TrimSpace(authorID)
	if authorID == "" {
		return storage.Post{}, apperrors.New(apperrors.CodeAuthRequired, "author id is required")
	}
	body, err := ValidateBody(body)
	if err != nil {
		return storage.Post{}, err
	}

	postID, err := s.newID()
	if err != nil {
		return storage.Post{}, fmt.Errorf("generate post id: %w", err)
	}
	post := storage.Post{
		ID:        postID,
		AuthorID:  authorID,
		Body:      body,
		Language:  langdetect.Tag(s.detector, body),
		CreatedAt: s.clock().UTC(),
	}
	if err := s.store.CreatePost(ctx, post); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return storage.Post{}, apperrors.Wrap(apperrors.CodeAuthRequired, "author not found", err)
		}
		return storage.Post{}, fmt.Errorf("create post: %w", err)
	}
	return post, nil
}

// UserPosts returns the profile owner and one page of their posts.
func (s *Service) UserPosts(ctx context.Context, rawUsername string, page int, pageSize int) (storage.User, pagination.Page[storage.Post], error) {
	if s == nil || s.store == nil {
		return storage.User{}, pagination.Page[storage.Post]{}, errors.New("post store is not configured")
	}
	notFound := apperrors.WithMetadata(
		apperrors.CodeUserNotFound,
		"user not found",
		map[string]string{"Username": strings.TrimSpace(rawUsername)},
	)
	canonical, err := username.Canonicalize(rawUsername)
	if err != nil {
		return storage.User{}, pagination.Page[storage.Post]{}, notFound
	}
	user, err := s.store.GetUserByUsername(ctx, canonical)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return storage.User{}, pagination.Page[storage.Post]{}, notFound
		}
		return storage.User{}, pagination.Page[storage.Post]{}, fmt.Errorf("get user by username: %w", err)
	}

	page = pagination.ClampPage(page)
	size := pagination.ClampPageSize(pageSize, s.pageSize)
	offset, ok := pagination.Offset(page, size)
	if !ok {
		return user, pagination.FromLookahead[storage.Post](nil, page, size), nil
	}
	rows, err := s.store.ListUserPosts(ctx, user.ID, size+1, offset)
	if err != nil {
		return storage.User{}, pagination.Page[storage.Post]{}, fmt.Errorf("list user posts: %w", err)
	}
	return user, pagination.FromLookahead(rows, page, size), nil
}
