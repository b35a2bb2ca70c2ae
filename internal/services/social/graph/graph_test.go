package graph

import (
	"context"
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"testing"
	"time"

	apperrors "github.com/louisbranch/murmur/internal/platform/errors"
	"github.com/louisbranch/murmur/internal/services/social/storage"
	"github.com/louisbranch/murmur/internal/services/social/storage/sqlite"
)

var baseTime = time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)

type fixture struct {
	store   *sqlite.Store
	service *Service
}

func newFixture(t *testing.T, usernames ...string) fixture {
	t.Helper()
	store, err := sqlite.Open(context.Background(), filepath.Join(t.TempDir(), "graph.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	for _, name := range usernames {
		err := store.CreateUser(context.Background(), storage.User{
			ID:           "id-" + name,
			Username:     name,
			Email:        name + "@example.com",
			PasswordHash: "hash",
			LastSeen:     baseTime,
			CreatedAt:    baseTime,
			UpdatedAt:    baseTime,
		})
		if err != nil {
			t.Fatalf("create user %s: %v", name, err)
		}
	}
	service := NewService(store)
	service.clock = func() time.Time { return baseTime }
	return fixture{store: store, service: service}
}

func (f fixture) post(t *testing.T, id string, author string, body string, at time.Time) {
	t.Helper()
	err := f.store.CreatePost(context.Background(), storage.Post{
		ID:        id,
		AuthorID:  "id-" + author,
		Body:      body,
		CreatedAt: at,
	})
	if err != nil {
		t.Fatalf("create post %s: %v", id, err)
	}
}

func feedBodies(t *testing.T, s *Service, userID string, page int, size int) []string {
	t.Helper()
	result, err := s.FollowedFeed(context.Background(), userID, page, size)
	if err != nil {
		t.Fatalf("followed feed: %v", err)
	}
	bodies := make([]string, 0, len(result.Items))
	for _, post := range result.Items {
		bodies = append(bodies, post.Body)
	}
	return bodies
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestFollowIsIdempotent(t *testing.T) {
	f := newFixture(t, "alice", "bob")
	ctx := context.Background()

	first, err := f.service.Follow(ctx, "id-alice", "bob")
	if err != nil {
		t.Fatalf("follow: %v", err)
	}
	if !first.Changed || first.Target.Username != "bob" {
		t.Fatalf("first follow = %+v", first)
	}
	second, err := f.service.Follow(ctx, "id-alice", "bob")
	if err != nil {
		t.Fatalf("second follow: %v", err)
	}
	if second.Changed {
		t.Fatal("second follow should not change the graph")
	}
	counts, err := f.service.Counts(ctx, "id-bob")
	if err != nil {
		t.Fatalf("counts: %v", err)
	}
	if counts.Followers != 1 {
		t.Fatalf("followers = %d, want 1", counts.Followers)
	}
}

func TestFollowAcceptsMixedCaseUsername(t *testing.T) {
	f := newFixture(t, "alice", "bob")
	if _, err := f.service.Follow(context.Background(), "id-alice", "  BoB "); err != nil {
		t.Fatalf("follow: %v", err)
	}
	following, err := f.service.IsFollowing(context.Background(), "id-alice", "id-bob")
	if err != nil || !following {
		t.Fatalf("IsFollowing = %v, %v", following, err)
	}
}

func TestUnfollowWithoutEdgeIsNoop(t *testing.T) {
	f := newFixture(t, "alice", "bob")
	outcome, err := f.service.Unfollow(context.Background(), "id-alice", "bob")
	if err != nil {
		t.Fatalf("unfollow: %v", err)
	}
	if outcome.Changed {
		t.Fatal("unfollow without edge should not change the graph")
	}
}

func TestFollowErrors(t *testing.T) {
	f := newFixture(t, "alice")
	ctx := context.Background()

	tests := []struct {
		name string
		call func() error
		code apperrors.Code
	}{
		{
			name: "follow unknown",
			call: func() error { _, err := f.service.Follow(ctx, "id-alice", "ghost"); return err },
			code: apperrors.CodeUserNotFound,
		},
		{
			name: "follow invalid username",
			call: func() error { _, err := f.service.Follow(ctx, "id-alice", "!!"); return err },
			code: apperrors.CodeUserNotFound,
		},
		{
			name: "unfollow unknown",
			call: func() error { _, err := f.service.Unfollow(ctx, "id-alice", "ghost"); return err },
			code: apperrors.CodeUserNotFound,
		},
		{
			name: "follow self",
			call: func() error { _, err := f.service.Follow(ctx, "id-alice", "alice"); return err },
			code: apperrors.CodeFollowSelf,
		},
		{
			name: "unfollow self",
			call: func() error { _, err := f.service.Unfollow(ctx, "id-alice", "Alice"); return err },
			code: apperrors.CodeUnfollowSelf,
		},
		{
			name: "missing follower",
			call: func() error { _, err := f.service.Follow(ctx, "", "alice"); return err },
			code: apperrors.CodeAuthRequired,
		},
		{
			name: "unknown follower",
			call: func() error { _, err := f.service.Follow(ctx, "id-ghost", "alice"); return err },
			code: apperrors.CodeAuthRequired,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.call()
			if got := apperrors.GetCode(err); got != tc.code {
				t.Fatalf("code = %s, want %s (err %v)", got, tc.code, err)
			}
		})
	}

	following, err := f.service.IsFollowing(ctx, "id-alice", "id-alice")
	if err != nil || following {
		t.Fatalf("self IsFollowing = %v, %v", following, err)
	}
}

func TestUserNotFoundCarriesUsername(t *testing.T) {
	f := newFixture(t, "alice")
	_, err := f.service.Follow(context.Background(), "id-alice", "ghost")
	if got := apperrors.Metadata(err)["Username"]; got != "ghost" {
		t.Fatalf("metadata username = %q, want ghost", got)
	}
}

func TestFeedScenario(t *testing.T) {
	f := newFixture(t, "john", "susan", "mary", "david")
	ctx := context.Background()
	f.post(t, "p1", "john", "post from john", baseTime.Add(1*time.Second))
	f.post(t, "p2", "susan", "post from susan", baseTime.Add(4*time.Second))
	f.post(t, "p3", "mary", "post from mary", baseTime.Add(3*time.Second))
	f.post(t, "p4", "david", "post from david", baseTime.Add(2*time.Second))

	edges := [][2]string{
		{"id-john", "susan"},
		{"id-john", "david"},
		{"id-susan", "mary"},
		{"id-mary", "david"},
	}
	for _, edge := range edges {
		if _, err := f.service.Follow(ctx, edge[0], edge[1]); err != nil {
			t.Fatalf("follow %v: %v", edge, err)
		}
	}

	want := map[string][]string{
		"id-john":  {"post from susan", "post from david", "post from john"},
		"id-susan": {"post from susan", "post from mary"},
		"id-mary":  {"post from mary", "post from david"},
		"id-david": {"post from david"},
	}
	for userID, bodies := range want {
		if got := feedBodies(t, f.service, userID, 1, 10); !equal(got, bodies) {
			t.Fatalf("feed(%s) = %v, want %v", userID, got, bodies)
		}
	}
}

func TestFeedAfterUnfollow(t *testing.T) {
	f := newFixture(t, "alice", "bob")
	ctx := context.Background()
	f.post(t, "p1", "bob", "from bob", baseTime)
	if _, err := f.service.Follow(ctx, "id-alice", "bob"); err != nil {
		t.Fatalf("follow: %v", err)
	}
	if got := feedBodies(t, f.service, "id-alice", 1, 10); !equal(got, []string{"from bob"}) {
		t.Fatalf("feed = %v", got)
	}
	if _, err := f.service.Unfollow(ctx, "id-alice", "bob"); err != nil {
		t.Fatalf("unfollow: %v", err)
	}
	if got := feedBodies(t, f.service, "id-alice", 1, 10); len(got) != 0 {
		t.Fatalf("feed after unfollow = %v, want empty", got)
	}
}

func TestFeedPagination(t *testing.T) {
	f := newFixture(t, "alice")
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		f.post(t, fmt.Sprintf("p%d", i), "alice", fmt.Sprintf("post %d", i), baseTime.Add(time.Duration(i)*time.Minute))
	}

	first, err := f.service.FollowedFeed(ctx, "id-alice", 0, 2)
	if err != nil {
		t.Fatalf("first page: %v", err)
	}
	if first.Number != 1 || first.HasPrev || !first.HasNext || len(first.Items) != 2 {
		t.Fatalf("first page = %+v", first)
	}
	if first.Items[0].Body != "post 4" {
		t.Fatalf("first item = %q, want newest", first.Items[0].Body)
	}

	last, err := f.service.FollowedFeed(ctx, "id-alice", 3, 2)
	if err != nil {
		t.Fatalf("last page: %v", err)
	}
	if !last.HasPrev || last.HasNext || len(last.Items) != 1 || last.PrevNumber() != 2 {
		t.Fatalf("last page = %+v", last)
	}

	for _, page := range []int{9, math.MaxInt64 / 10, 4e17} {
		beyond, err := f.service.FollowedFeed(ctx, "id-alice", page, 2)
		if err != nil {
			t.Fatalf("FollowedFeed(page %d) error = %v", page, err)
		}
		if beyond.Items == nil || len(beyond.Items) != 0 || beyond.HasNext || !beyond.HasPrev || beyond.Number != page {
			t.Fatalf("FollowedFeed(page %d) = %+v, want empty page with no next", page, beyond)
		}
	}
}

func TestFeedDefaultsPageSize(t *testing.T) {
	f := newFixture(t, "alice")
	result, err := f.service.FollowedFeed(context.Background(), "id-alice", 1, 0)
	if err != nil {
		t.Fatalf("feed: %v", err)
	}
	if result.Size != DefaultPageSize {
		t.Fatalf("size = %d, want %d", result.Size, DefaultPageSize)
	}
}

func TestFeedRequiresUser(t *testing.T) {
	f := newFixture(t)
	_, err := f.service.FollowedFeed(context.Background(), " ", 1, 10)
	if !apperrors.IsKind(err, apperrors.KindAuthRequired) {
		t.Fatalf("err = %v, want auth required", err)
	}
}

type failingStore struct {
	Store
	err error
}

func (f failingStore) ListFollowedPosts(context.Context, string, int, int) ([]storage.Post, error) {
	return nil, f.err
}

func TestFeedPropagatesStoreError(t *testing.T) {
	boom := errors.New("boom")
	service := NewService(failingStore{err: boom})
	if _, err := service.FollowedFeed(context.Background(), "u1", 1, 10); !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}
}

func TestNilServiceIsNotConfigured(t *testing.T) {
	var service *Service
	if _, err := service.Counts(context.Background(), "u1"); err == nil {
		t.Fatal("expected nil service to fail")
	}
	if _, err := NewService(nil).Follow(context.Background(), "u1", "bob"); err == nil {
		t.Fatal("expected missing store to fail")
	}
}
