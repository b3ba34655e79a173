package api

import (
	"errors"
	"testing"
	"time"

	"taskdesk/internal/config"
	"taskdesk/internal/session"
)

func TestSessionIDsAreOpaqueAndUnique(t *testing.T) {
	store := session.NewStore(config.RedisClient, time.Minute)

	first, err := store.Create(config.Ctx, 1, "a@example.com")
	if err != nil {
		t.Fatalf("Error creating session: %v", err)
	}
	second, err := store.Create(config.Ctx, 1, "a@example.com")
	if err != nil {
		t.Fatalf("Error creating session: %v", err)
	}

	if len(first) != 64 || len(second) != 64 {
		t.Errorf("Expected 64-char session IDs, got %d and %d", len(first), len(second))
	}
	if first == second {
		t.Errorf("Session IDs must be unique per login")
	}
}

func TestSessionRoundTripAndDestroy(t *testing.T) {
	store := session.NewStore(config.RedisClient, time.Minute)

	id, err := store.Create(config.Ctx, 42, "roundtrip@example.com")
	if err != nil {
		t.Fatalf("Error creating session: %v", err)
	}

	sess, err := store.Get(config.Ctx, id)
	if err != nil {
		t.Fatalf("Error fetching session: %v", err)
	}
	if sess.UserID != 42 || sess.Email != "roundtrip@example.com" {
		t.Errorf("Unexpected session payload: %+v", sess)
	}

	if err := store.Destroy(config.Ctx, id); err != nil {
		t.Fatalf("Error destroying session: %v", err)
	}
	if _, err := store.Get(config.Ctx, id); !errors.Is(err, session.ErrNotFound) {
		t.Errorf("Expected ErrNotFound after destroy, got %v", err)
	}
}

func TestSessionAbsoluteExpiry(t *testing.T) {
	store := session.NewStore(config.RedisClient, time.Second)

	id, err := store.Create(config.Ctx, 7, "expiry@example.com")
	if err != nil {
		t.Fatalf("Error creating session: %v", err)
	}

	if _, err := store.Get(config.Ctx, id); err != nil {
		t.Fatalf("Expected session to be valid before expiry: %v", err)
	}

	time.Sleep(1500 * time.Millisecond)

	if _, err := store.Get(config.Ctx, id); !errors.Is(err, session.ErrNotFound) {
		t.Errorf("Expected ErrNotFound after absolute expiry, got %v", err)
	}
}
