// Package main is the entrypoint for the Pokemon Logger API server.
package main

import (
	"context"
	"log/slog"
	"net/url"
	"os"
	"regexp"
	"strings"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/pokelogger/pokelogger/internal/ai"
	"github.com/pokelogger/pokelogger/internal/cache"
	"github.com/pokelogger/pokelogger/internal/config"
	"github.com/pokelogger/pokelogger/internal/handler"
	"github.com/pokelogger/pokelogger/internal/metrics"
	"github.com/pokelogger/pokelogger/internal/middleware"
	"github.com/pokelogger/pokelogger/internal/pokeapi"
	"github.com/pokelogger/pokelogger/internal/repository"
	"github.com/pokelogger/pokelogger/internal/server"
	"github.com/pokelogger/pokelogger/internal/service"
	"github.com/pokelogger/pokelogger/internal/storage"
)

func main() {
	// Initialize context
	ctx := context.Background()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Initialize logger
	logger := initLogger(cfg)

	// Initialize database
	repo, err := repository.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error(
			"failed to connect to database",
			slog.String("error", sanitizeError(err, cfg.DatabaseURL)),
			slog.String("database_url", redactURL(cfg.DatabaseURL)),
		)
		os.Exit(1)
	}
	logger.Info("connected to database")

	// Run migrations
	if err := repo.Migrate(ctx); err != nil {
		logger.Error("failed to run migrations", slog.String("error", sanitizeError(err, cfg.DatabaseURL)))
		os.Exit(1)
	}
	logger.Info("migrations applied")

	// Initialize cache
	cacheClient, err := cache.New(ctx, cfg.RedisURL)
	if err != nil {
		logger.Error(
			"failed to connect to Redis",
			slog.String("error", sanitizeError(err, cfg.RedisURL)),
			slog.String("redis_url", redactURL(cfg.RedisURL)),
		)
		os.Exit(1)
	}
	logger.Info("connected to Redis")

	// Initialize upstream lookup client
	lookupClient := pokeapi.NewClient(cfg.PokeAPIBaseURL, cfg.PokeAPITimeout)

	// Initialize image storage
	store, err := storage.New(ctx, storage.Config{
		Bucket:          cfg.S3Bucket,
		Region:          cfg.S3Region,
		AccessKeyID:     cfg.S3AccessKeyID,
		SecretAccessKey: cfg.S3SecretAccessKey,
		BaseEndpoint:    cfg.S3BaseEndpoint,
		SignedURLTTL:    cfg.SignedURLTTL,
	})
	if err != nil {
		logger.Error("failed to initialize image storage", "error", err)
		os.Exit(1)
	}

	// Initialize AI analysis client
	analyzer, err := ai.New(ctx, ai.Config{
		Region:          cfg.S3Region,
		AccessKeyID:     cfg.S3AccessKeyID,
		SecretAccessKey: cfg.S3SecretAccessKey,
		AnalysisModelID: cfg.AnalysisModelID,
		ImageGenModelID: cfg.ImageGenModelID,
		MaxTokens:       cfg.AnalysisMaxTokens,
	})
	if err != nil {
		logger.Error("failed to initialize analysis client", "error", err)
		os.Exit(1)
	}

	// Initialize services
	metricsRecorder := metrics.NewInMemory()
	accountService := service.NewAccountService(repo, []byte(cfg.JWTSecret), metricsRecorder)
	collectionService := service.NewCollectionService(repo, lookupClient, cacheClient, cfg.LookupCacheTTL, metricsRecorder)

	// Initialize handlers
	h := handler.New()
	healthHandler := handler.NewHealthHandler(repo, cacheClient)
	authHandler := handler.NewAuthHandler(accountService, logger)
	pokemonHandler := handler.NewPokemonHandler(collectionService, logger)
	imageHandler := handler.NewImageHandler(store, analyzer, collectionService, logger, metricsRecorder, cfg.MaxUploadSize)

	// Setup router
	r := setupRouter(h, healthHandler, authHandler, pokemonHandler, imageHandler, accountService, cfg, logger)

	// Create and run server
	srv := server.New(
		r,
		cfg.AppPort,
		cfg.ReadTimeout,
		cfg.WriteTimeout,
		cfg.ShutdownTimeout,
		logger,
	)

	srv.OnShutdown("redis", func(ctx context.Context) error {
		return cacheClient.Close()
	})
	srv.OnShutdown("database", func(ctx context.Context) error {
		repo.Close()
		return nil
	})

	logger.Info("starting server",
		"port", cfg.AppPort,
		"env", cfg.AppEnv,
	)

	if err := srv.Run(); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

// initLogger initializes the slog logger based on configuration.
func initLogger(cfg *config.Config) *slog.Logger {
	var h slog.Handler

	level := parseLogLevel(cfg.LogLevel)

	opts := &slog.HandlerOptions{
		Level: level,
	}

	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(h)
	slog.SetDefault(logger)

	return logger
}

// parseLogLevel converts string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// setupRouter configures the chi router with all routes and middleware.
func setupRouter(
	h *handler.Handler,
	healthHandler *handler.HealthHandler,
	authHandler *handler.AuthHandler,
	pokemonHandler *handler.PokemonHandler,
	imageHandler *handler.ImageHandler,
	accountService *service.AccountService,
	cfg *config.Config,
	logger *slog.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recoverer(logger))

	if origins := cfg.GetCORSAllowedOrigins(); len(origins) > 0 {
		corsCfg := middleware.DefaultCORSConfig()
		corsCfg.AllowedOrigins = origins
		r.Use(middleware.CORS(corsCfg))
	}

	// Health endpoints (no auth required)
	r.Get("/healthz", healthHandler.Healthz)
	r.Get("/readyz", healthHandler.Readyz)

	// Root info endpoint
	r.Get("/", h.Hello)

	// Auth middleware configuration
	authCfg := middleware.AuthConfig{
		Logger:   logger,
		Verifier: accountService,
	}
	requireAuth := middleware.Auth(authCfg)

	// Authentication
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
	})

	// Creature lookup and collection
	r.Route("/pokemon", func(r chi.Router) {
		// Public upstream search
		r.Get("/search/{query}", pokemonHandler.Search)

		// Per-user collection
		r.Route("/my-pokemon", func(r chi.Router) {
			r.Use(requireAuth)
			r.Get("/", pokemonHandler.List)
			r.Post("/", pokemonHandler.Create)
			r.Get("/{id}", pokemonHandler.Get)
			r.Put("/{id}", pokemonHandler.Update)
			r.Delete("/{id}", pokemonHandler.Delete)
		})
	})

	// Image pipeline
	r.Route("/images", func(r chi.Router) {
		r.Use(requireAuth)
		r.Post("/identify", imageHandler.Identify)
		r.Post("/pokemonize", imageHandler.Pokemonize)
		r.Post("/save-custom-pokemon", imageHandler.SaveCustom)
		r.Get("/url/*", imageHandler.SignedURL)
	})

	// 404 and 405 handlers
	r.NotFound(h.NotFound)
	r.MethodNotAllowed(h.MethodNotAllowed)

	return r
}

var passwordPattern = regexp.MustCompile(`(?i)password=[^\s]+`)

func redactURL(raw string) string {
	if raw == "" {
		return ""
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "[redacted]"
	}

	if parsed.User != nil {
		username := parsed.User.Username()
		if username == "" {
			parsed.User = url.User("redacted")
		} else {
			parsed.User = url.User(username)
		}
	}

	return parsed.String()
}

func sanitizeError(err error, secrets ...string) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	for _, secret := range secrets {
		if secret == "" {
			continue
		}
		redacted := redactURL(secret)
		if redacted == "" {
			redacted = "[redacted]"
		}
		msg = strings.ReplaceAll(msg, secret, redacted)
	}

	return passwordPattern.ReplaceAllString(msg, "password=redacted")
}
