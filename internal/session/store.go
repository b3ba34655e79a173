package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// ErrNotFound is returned when a session ID is unknown or has expired.
var ErrNotFound = errors.New("session not found")

// Session is the identity resolved from an opaque session ID. It is written
// once at login and read-only afterwards.
type Session struct {
	UserID int    `json:"user_id"`
	Email  string `json:"email"`
}

// Store keeps sessions in Redis keyed by an opaque identifier. The TTL is
// absolute: it is set once at creation and never refreshed on access.
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

func NewStore(client *redis.Client, ttl time.Duration) *Store {
	return &Store{client: client, ttl: ttl}
}

func sessionKey(id string) string {
	return "session:" + id
}

// Create stores a new session and returns its opaque identifier.
func (s *Store) Create(ctx context.Context, userID int, email string) (string, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("generating session id: %w", err)
	}
	id := hex.EncodeToString(raw)

	payload, err := json.Marshal(Session{UserID: userID, Email: email})
	if err != nil {
		return "", fmt.Errorf("encoding session: %w", err)
	}
	if err := s.client.Set(ctx, sessionKey(id), payload, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("storing session: %w", err)
	}
	return id, nil
}

func (s *Store) Get(ctx context.Context, id string) (Session, error) {
	raw, err := s.client.Get(ctx, sessionKey(id)).Result()
	if errors.Is(err, redis.Nil) {
		return Session{}, ErrNotFound
	}
	if err != nil {
		return Session{}, fmt.Errorf("fetching session: %w", err)
	}
	var sess Session
	if err := json.Unmarshal([]byte(raw), &sess); err != nil {
		return Session{}, fmt.Errorf("decoding session: %w", err)
	}
	return sess, nil
}

func (s *Store) Destroy(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, sessionKey(id)).Err(); err != nil {
		return fmt.Errorf("destroying session: %w", err)
	}
	return nil
}

// TTL exposes the configured session lifetime so the cookie expiry can match.
func (s *Store) TTL() time.Duration {
	return s.ttl
}
