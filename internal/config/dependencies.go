package config

import (
	"context"
	"database/sql"

	"github.com/go-playground/validator/v10"
	"github.com/go-redis/redis/v8"

	"taskdesk/internal/session"
	"taskdesk/internal/worker"
)

// Shared dependencies wired up in cmd/api/main.go (and the API test setup).
var (
	DB          *sql.DB
	Validate    = validator.New()
	Ctx         = context.Background()
	RedisClient *redis.Client
	Sessions    *session.Store
	Completer   *worker.Completer
	// Production enables the Secure flag on session cookies.
	Production bool
)
