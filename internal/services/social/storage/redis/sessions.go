// Package redis provides a Redis-backed session store for multi-instance
// deployments.
package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/louisbranch/murmur/internal/platform/timeouts"
	"github.com/louisbranch/murmur/internal/services/social/storage"
	"github.com/redis/go-redis/extra/redisotel/v9"
	goredis "github.com/redis/go-redis/v9"
)

const keyPrefix = "murmur:session:"

// revokeScript sets revoked_at only on live sessions so revoking an
// expired or unknown id never recreates the key.
var revokeScript = goredis.NewScript(`
if redis.call('exists', KEYS[1]) == 1 then
	return redis.call('hsetnx', KEYS[1], 'revoked_at', ARGV[1])
end
return 0
`)

// SessionStore keeps sessions as hashes that expire with the session.
type SessionStore struct {
	rdb goredis.UniversalClient
}

// Dial connects to addr, instruments the client for tracing and checks
// connectivity.
func Dial(ctx context.Context, addr string) (*SessionStore, error) {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return nil, fmt.Errorf("redis address is required")
	}
	client := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: timeouts.StorageDial,
	})
	if err := redisotel.InstrumentTracing(client); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("instrument redis: %w", err)
	}
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return New(client), nil
}

// New wraps an existing client.
func New(rdb goredis.UniversalClient) *SessionStore {
	return &SessionStore{rdb: rdb}
}

// Close releases the client.
func (s *SessionStore) Close() error {
	if s == nil || s.rdb == nil {
		return nil
	}
	return s.rdb.Close()
}

func sessionKey(id string) string {
	return keyPrefix + id
}

// PutSession stores one session and expires it at ExpiresAt.
func (s *SessionStore) PutSession(ctx context.Context, session storage.Session) error {
	if s == nil || s.rdb == nil {
		return fmt.Errorf("storage is not configured")
	}
	session.ID = strings.TrimSpace(session.ID)
	session.UserID = strings.TrimSpace(session.UserID)
	if session.ID == "" {
		return fmt.Errorf("session id is required")
	}
	if session.UserID == "" {
		return fmt.Errorf("user id is required")
	}

	key := sessionKey(session.ID)
	created, err := s.rdb.HSetNX(ctx, key, "user_id", session.UserID).Result()
	if err != nil {
		return fmt.Errorf("put session: %w", err)
	}
	if !created {
		return storage.ErrAlreadyExists
	}

	fields := map[string]any{
		"remember":   strconv.FormatBool(session.Remember),
		"created_at": session.CreatedAt.UTC().UnixMilli(),
		"expires_at": session.ExpiresAt.UTC().UnixMilli(),
	}
	if session.RevokedAt != nil {
		fields["revoked_at"] = session.RevokedAt.UTC().UnixMilli()
	}
	_, err = s.rdb.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.HSet(ctx, key, fields)
		pipe.PExpireAt(ctx, key, session.ExpiresAt)
		return nil
	})
	if err != nil {
		_ = s.rdb.Del(ctx, key).Err()
		return fmt.Errorf("put session: %w", err)
	}
	return nil
}

// GetSession returns one session. Expired sessions are gone from Redis and
// read as storage.ErrNotFound.
func (s *SessionStore) GetSession(ctx context.Context, sessionID string) (storage.Session, error) {
	if s == nil || s.rdb == nil {
		return storage.Session{}, fmt.Errorf("storage is not configured")
	}
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return storage.Session{}, fmt.Errorf("session id is required")
	}

	values, err := s.rdb.HGetAll(ctx, sessionKey(sessionID)).Result()
	if err != nil {
		return storage.Session{}, fmt.Errorf("get session: %w", err)
	}
	if len(values) == 0 || values["user_id"] == "" {
		return storage.Session{}, storage.ErrNotFound
	}
	return decodeSession(sessionID, values)
}

// RevokeSession marks one session revoked. Unknown sessions are a no-op.
func (s *SessionStore) RevokeSession(ctx context.Context, sessionID string, revokedAt time.Time) error {
	if s == nil || s.rdb == nil {
		return fmt.Errorf("storage is not configured")
	}
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return fmt.Errorf("session id is required")
	}
	err := revokeScript.Run(ctx, s.rdb, []string{sessionKey(sessionID)}, revokedAt.UTC().UnixMilli()).Err()
	if err != nil && !errors.Is(err, goredis.Nil) {
		return fmt.Errorf("revoke session: %w", err)
	}
	return nil
}

func decodeSession(id string, values map[string]string) (storage.Session, error) {
	session := storage.Session{
		ID:       id,
		UserID:   values["user_id"],
		Remember: values["remember"] == "true",
	}
	createdAt, err := parseMillis(values["created_at"])
	if err != nil {
		return storage.Session{}, fmt.Errorf("decode session created_at: %w", err)
	}
	expiresAt, err := parseMillis(values["expires_at"])
	if err != nil {
		return storage.Session{}, fmt.Errorf("decode session expires_at: %w", err)
	}
	session.CreatedAt = createdAt
	session.ExpiresAt = expiresAt
	if raw := values["revoked_at"]; raw != "" {
		revokedAt, err := parseMillis(raw)
		if err != nil {
			return storage.Session{}, fmt.Errorf("decode session revoked_at: %w", err)
		}
		session.RevokedAt = &revokedAt
	}
	return session, nil
}

func parseMillis(raw string) (time.Time, error) {
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return time.Time{}, err
	}
	return time.UnixMilli(value).UTC(), nil
}

var _ storage.SessionStore = (*SessionStore)(nil)
