package main

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"go.uber.org/zap"

	"taskdesk/configs"
	"taskdesk/internal/api"
	"taskdesk/internal/config"
	"taskdesk/internal/middleware"
	"taskdesk/internal/repository"
	"taskdesk/internal/session"
	ws "taskdesk/internal/websocket"
	"taskdesk/internal/worker"
	"taskdesk/pkg/database"
	"taskdesk/pkg/logger"
)

func main() {
	logger.InitLoggers()
	defer logger.SyncLoggers()
	logger.SystemLogger.Info("Starting application", zap.String("time", time.Now().Format(time.RFC3339)))

	cfg := configs.LoadConfig()
	config.Production = cfg.AppEnv == "production"

	config.DB = database.ConnectDB(cfg)
	defer config.DB.Close()
	logger.SystemLogger.Info("Database connected")

	repository.CreateTableIfNotExists(config.DB)

	config.RedisClient = database.ConnectRedis(cfg)
	defer config.RedisClient.Close()
	logger.SystemLogger.Info("Redis connected")

	config.Sessions = session.NewStore(config.RedisClient, cfg.SessionTTL)

	hub := ws.NewHub()
	go hub.Run()

	config.Completer = worker.New(config.DB, config.RedisClient, hub, cfg.CompletionDelay)
	workerCtx, cancelWorker := context.WithCancel(context.Background())
	defer cancelWorker()
	go config.Completer.Run(workerCtx)

	app := fiber.New()

	// Middleware
	app.Use(middleware.ErrorHandler())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept",
	}))
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
	}))

	api.RegisterRoutes(app)
	api.RegisterTaskEvents(app, hub)

	addr := fmt.Sprintf(":%d", cfg.AppPort)
	logger.SystemLogger.Info("Application ready", zap.String("addr", addr))
	if err := app.Listen(addr); err != nil {
		logger.ErrorLogger.Error("Application failed to start", zap.Error(err))
	}
}
