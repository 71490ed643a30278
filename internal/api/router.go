package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/kumar241977/ai-coaching-assistant/internal/api/handler"
	customMiddleware "github.com/kumar241977/ai-coaching-assistant/internal/api/middleware"
	"github.com/kumar241977/ai-coaching-assistant/internal/config"
	"github.com/kumar241977/ai-coaching-assistant/internal/domain"
	"github.com/kumar241977/ai-coaching-assistant/internal/engine"
	"github.com/kumar241977/ai-coaching-assistant/internal/llm"
	"github.com/kumar241977/ai-coaching-assistant/internal/llm/gemini"
	"github.com/kumar241977/ai-coaching-assistant/internal/llm/openai"
	"github.com/kumar241977/ai-coaching-assistant/internal/repository/redis"
	"github.com/kumar241977/ai-coaching-assistant/internal/service"
	"github.com/rs/zerolog/log"
)

// NewRouter creates and configures the HTTP router. redisClient may be nil;
// caching and rate limiting are then disabled.
func NewRouter(cfg *config.Config, repo domain.SessionRepository, store handler.Pinger, redisClient *redis.Client) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(customMiddleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(cfg.Server.MiddlewareTimeout))

	// CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Initialize LLM router with providers
	llmRouter := llm.NewRouter(cfg.LLM.DefaultProvider)

	log.Info().Msgf("Initializing LLM providers. Default: %s", cfg.LLM.DefaultProvider)

	if cfg.LLM.OpenAI.APIKey != "" {
		llmRouter.RegisterProvider(openai.NewProvider(cfg.LLM.OpenAI.APIKey, cfg.LLM.OpenAI.Model))
	}
	if cfg.LLM.Gemini.APIKey != "" {
		llmRouter.RegisterProvider(gemini.NewProvider(cfg.LLM.Gemini))
	}

	// Initialize engine and service
	eng := engine.New(engine.Config{
		ExplorationMinTurns: cfg.Coaching.ExplorationMinTurns,
		ReflectionMinTurns:  cfg.Coaching.ReflectionMinTurns,
		MaxStageTurns:       cfg.Coaching.MaxStageTurns,
		EmotionWindow:       cfg.Coaching.EmotionWindow,
		DominanceThreshold:  cfg.Coaching.DominanceThreshold,
		MaxInsights:         cfg.Coaching.MaxInsights,
		InsightMinTurns:     cfg.Coaching.InsightMinTurns,
	})

	var cache service.SessionCache
	if redisClient != nil {
		cache = redis.NewSessionCache(redisClient)
	}

	coachingService := service.NewCoachingService(repo, cache, llmRouter, eng, cfg.LLM.Timeout)

	// Initialize handlers
	sessionHandler := handler.NewSessionHandler(coachingService)

	r.Route("/api/v1", func(r chi.Router) {
		// Health checks
		r.Get("/health", handler.HealthCheck)
		r.Get("/ready", handler.ReadyCheck(store))

		r.Group(func(r chi.Router) {
			if redisClient != nil {
				rateLimiter := redis.NewRateLimiter(
					redisClient,
					cfg.Security.RateLimit.RequestsPerMinute,
					cfg.Security.RateLimit.Burst,
				)
				r.Use(customMiddleware.NewRateLimitMiddleware(rateLimiter).Limit)
			}

			// Catalog
			r.Get("/topics", handler.ListTopics)
			r.Get("/llm-providers", handler.ListLLMProviders(coachingService))

			// Session routes
			r.Route("/sessions", func(r chi.Router) {
				r.Get("/", sessionHandler.List)
				r.Post("/", sessionHandler.Create)

				r.Route("/{sessionID}", func(r chi.Router) {
					r.Get("/", sessionHandler.Get)
					r.Post("/messages", sessionHandler.Message)
				})
			})
		})
	})

	return r
}
