package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/louisbranch/murmur/internal/services/social/storage"
)

func TestSessionLifecycle(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	seedUser(t, store, "u1", "alice")

	session := storage.Session{
		ID:        "s1",
		UserID:    "u1",
		Remember:  true,
		CreatedAt: baseTime,
		ExpiresAt: baseTime.Add(time.Hour),
	}
	if err := store.PutSession(ctx, session); err != nil {
		t.Fatalf("put session: %v", err)
	}

	got, err := store.GetSession(ctx, "s1")
	if err != nil {
		t.Fatalf("get session: %v", err)
	}
	if got.UserID != "u1" || !got.Remember || got.RevokedAt != nil {
		t.Fatalf("session = %+v, want active remembered session for u1", got)
	}
	if !got.Active(baseTime.Add(time.Minute)) {
		t.Fatal("expected session to be active before expiry")
	}
	if got.Active(baseTime.Add(2 * time.Hour)) {
		t.Fatal("expected session to be inactive after expiry")
	}

	revokedAt := baseTime.Add(10 * time.Minute)
	if err := store.RevokeSession(ctx, "s1", revokedAt); err != nil {
		t.Fatalf("revoke session: %v", err)
	}
	if err := store.RevokeSession(ctx, "s1", revokedAt.Add(time.Minute)); err != nil {
		t.Fatalf("revoke session again: %v", err)
	}
	got, err = store.GetSession(ctx, "s1")
	if err != nil {
		t.Fatalf("get revoked session: %v", err)
	}
	if got.RevokedAt == nil || !got.RevokedAt.Equal(revokedAt) {
		t.Fatalf("RevokedAt = %v, want %v", got.RevokedAt, revokedAt)
	}
	if got.Active(baseTime.Add(11 * time.Minute)) {
		t.Fatal("expected revoked session to be inactive")
	}
}

func TestSessionErrors(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	if _, err := store.GetSession(ctx, "missing"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("GetSession(missing) error = %v, want ErrNotFound", err)
	}
	if err := store.RevokeSession(ctx, "missing", baseTime); err != nil {
		t.Fatalf("RevokeSession(missing) = %v, want nil", err)
	}
	err := store.PutSession(ctx, storage.Session{ID: "s1", UserID: "ghost", CreatedAt: baseTime, ExpiresAt: baseTime})
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("PutSession(unknown user) error = %v, want ErrNotFound", err)
	}
}
