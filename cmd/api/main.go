package main

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"go.uber.org/zap"

	"taskmaster/configs"
	v1 "taskmaster/internal/api/v1"
	"taskmaster/internal/api/v1/handlers"
	"taskmaster/internal/authz"
	"taskmaster/internal/cache"
	"taskmaster/internal/middleware"
	"taskmaster/internal/repository"
	"taskmaster/internal/session"
	"taskmaster/internal/store/postgres"
	"taskmaster/internal/websocket"
	"taskmaster/pkg/database"
	"taskmaster/pkg/logger"
)

func main() {
	logger.InitLoggers()
	defer logger.SyncLoggers()
	logger.SystemLogger.Info("Starting application", zap.String("time", time.Now().Format(time.RFC3339)))

	cfg := configs.LoadConfig()

	db := database.ConnectDB(cfg)
	defer db.Close()
	logger.SystemLogger.Info("Database connected")

	repository.CreateTableIfNotExists(db)

	redisClient := database.ConnectRedis(cfg)
	defer redisClient.Close()

	st := postgres.New(db)
	sessions := session.NewManager(st, st, time.Duration(cfg.SessionLifetimeSeconds)*time.Second)
	engine := authz.NewEngine(st, st)

	hub := websocket.NewHub()
	go hub.Run()

	h := handlers.NewHandler(st, sessions, engine, cache.New(redisClient), hub)

	app := fiber.New()
	app.Use(middleware.ErrorHandler())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
	}))

	v1.RegisterRoutes(app, h, hub)

	logger.SystemLogger.Info("Application ready", zap.String("addr", cfg.ListenAddr))
	if err := app.Listen(cfg.ListenAddr); err != nil {
		logger.ErrorLogger.Error("Application failed to start", zap.Error(err))
	}
}
