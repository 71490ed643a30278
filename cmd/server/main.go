package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/kumar241977/ai-coaching-assistant/internal/api"
	"github.com/kumar241977/ai-coaching-assistant/internal/api/handler"
	"github.com/kumar241977/ai-coaching-assistant/internal/config"
	"github.com/kumar241977/ai-coaching-assistant/internal/domain"
	"github.com/kumar241977/ai-coaching-assistant/internal/repository/mongo"
	"github.com/kumar241977/ai-coaching-assistant/internal/repository/postgres"
	"github.com/kumar241977/ai-coaching-assistant/internal/repository/redis"
	"github.com/kumar241977/ai-coaching-assistant/internal/repository/sqlite"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	// Setup logger
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if os.Getenv("ENV") != "production" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	if level, err := zerolog.ParseLevel(cfg.Logging.Level); err == nil {
		zerolog.SetGlobalLevel(level)
	}

	log.Info().
		Str("host", cfg.Server.Host).
		Int("port", cfg.Server.Port).
		Str("storage", cfg.Storage.Driver).
		Msg("Starting coaching API server")

	ctx := context.Background()

	// Initialize session store
	repo, store, cleanup, err := newSessionStore(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.Storage.Driver).Msg("Failed to initialize session store")
	}
	defer cleanup()

	// Initialize Redis. Optional; the server runs without caching and rate
	// limiting when it is unreachable.
	var redisClient *redis.Client
	if rc, err := redis.NewClient(cfg.Redis); err != nil {
		log.Warn().Err(err).Msg("Redis unavailable, continuing without cache and rate limiting")
	} else {
		redisClient = rc
		defer redisClient.Close()
	}

	// Initialize router
	router := api.NewRouter(cfg, repo, store, redisClient)

	// Create HTTP server
	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info().Msgf("Server listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}

// newSessionStore builds the configured session store backend.
func newSessionStore(ctx context.Context, cfg *config.Config) (domain.SessionRepository, handler.Pinger, func(), error) {
	switch cfg.Storage.Driver {
	case "postgres":
		db, err := postgres.NewDB(ctx, cfg.Database)
		if err != nil {
			return nil, nil, nil, err
		}
		return postgres.NewSessionRepository(db), db, db.Close, nil

	case "sqlite":
		repo, err := sqlite.NewSessionRepository(ctx, cfg.SQLite)
		if err != nil {
			return nil, nil, nil, err
		}
		return repo, repo, func() { repo.Close() }, nil

	case "mongo":
		repo, err := mongo.NewSessionRepository(ctx, cfg.Mongo)
		if err != nil {
			return nil, nil, nil, err
		}
		return repo, repo, func() { repo.Close(context.Background()) }, nil

	default:
		return nil, nil, nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}
