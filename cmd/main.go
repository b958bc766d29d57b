package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/rs/zerolog"

	"filesmanager/internal/config"
	"filesmanager/internal/db"
	"filesmanager/internal/handlers"
	"filesmanager/internal/middleware"
	"filesmanager/internal/repo"
	"filesmanager/internal/services"
	"filesmanager/internal/session"
	"filesmanager/internal/storage"
)

func main() {
	log := zerolog.New(os.Stderr).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("loading config")
	}

	ctx := context.Background()

	database, err := db.ConnectMongo(ctx, cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		log.Fatal().Err(err).Msg("connecting to mongodb")
	}
	rdb, err := db.ConnectRedis(ctx, cfg.RedisAddr)
	if err != nil {
		log.Fatal().Err(err).Msg("connecting to redis")
	}
	content, err := storage.NewMinioStore(ctx, storage.MinioConfig{
		Endpoint:  cfg.MinioEndpoint,
		AccessKey: cfg.MinioAccessKey,
		SecretKey: cfg.MinioSecretKey,
		Bucket:    cfg.MinioBucket,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("connecting to minio")
	}
	log.Info().Msg("connected to backing stores")

	users := repo.NewMongoUserStore(database)
	files := repo.NewMongoFileStore(database)
	sessions := session.NewStore(rdb)
	access := services.NewAccessController(users, sessions)
	registry := services.NewFileRegistry(files, content)

	authHandler := handlers.NewAuthHandler(access, log)
	fileHandler := handlers.NewFileHandler(registry, access, log)
	appHandler := handlers.NewAppHandler(
		db.RedisProbe{Client: rdb},
		db.MongoProbe{Client: database.Client()},
		users, files, log)

	app := fiber.New()
	app.Use(logger.New())
	app.Use(cors.New())

	app.Get("/status", appHandler.Status)
	app.Get("/stats", appHandler.Stats)
	app.Post("/users", authHandler.CreateUser)
	app.Get("/connect", authHandler.Connect)

	auth := middleware.RequireSession(access)
	app.Get("/disconnect", auth, authHandler.Disconnect)
	app.Get("/users/me", auth, authHandler.Me)
	app.Post("/files", auth, fileHandler.Create)
	app.Get("/files/:id", auth, fileHandler.Show)
	app.Get("/files", auth, fileHandler.Index)
	app.Put("/files/:id/publish", auth, fileHandler.Publish)
	app.Put("/files/:id/unpublish", auth, fileHandler.Unpublish)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Info().Msg("shutting down")
	if err := app.Shutdown(); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := database.Client().Disconnect(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("mongodb disconnect")
	}
	if err := rdb.Close(); err != nil {
		log.Error().Err(err).Msg("redis close")
	}
}
