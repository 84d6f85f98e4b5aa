// AngelaMos | 2026
// main.go

package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mentorcamp/backend/internal/admin"
	"github.com/mentorcamp/backend/internal/auth"
	"github.com/mentorcamp/backend/internal/config"
	"github.com/mentorcamp/backend/internal/core"
	"github.com/mentorcamp/backend/internal/device"
	"github.com/mentorcamp/backend/internal/event"
	"github.com/mentorcamp/backend/internal/graphql"
	"github.com/mentorcamp/backend/internal/health"
	"github.com/mentorcamp/backend/internal/jobs"
	"github.com/mentorcamp/backend/internal/mail"
	"github.com/mentorcamp/backend/internal/media"
	"github.com/mentorcamp/backend/internal/message"
	"github.com/mentorcamp/backend/internal/middleware"
	"github.com/mentorcamp/backend/internal/profile"
	"github.com/mentorcamp/backend/internal/relationship"
	"github.com/mentorcamp/backend/internal/search"
	"github.com/mentorcamp/backend/internal/season"
	"github.com/mentorcamp/backend/internal/server"
	"github.com/mentorcamp/backend/internal/team"
	"github.com/mentorcamp/backend/internal/user"
)

const (
	drainDelay = 5 * time.Second
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

//nolint:funlen,gocyclo // bootstrap code is inherently verbose
func run(configPath string) error {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer stop()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger := setupLogger(cfg.Log)
	slog.SetDefault(logger)

	logger.Info("starting application",
		"name", cfg.App.Name,
		"version", cfg.App.Version,
		"environment", cfg.App.Environment,
	)

	var telemetry *core.Telemetry
	if cfg.Otel.Enabled {
		tel, telErr := core.NewTelemetry(ctx, cfg.Otel, cfg.App)
		if telErr != nil {
			logger.Warn("failed to initialize telemetry", "error", telErr)
		} else {
			telemetry = tel
			logger.Info("OpenTelemetry tracer initialized",
				"endpoint", cfg.Otel.Endpoint,
			)
		}
	}

	db, err := core.NewDatabase(ctx, cfg.Database)
	if err != nil {
		return err
	}
	logger.Info("database connected",
		"max_open_conns", cfg.Database.MaxOpenConns,
		"max_idle_conns", cfg.Database.MaxIdleConns,
	)

	redis, err := core.NewRedis(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	logger.Info("redis connected",
		"pool_size", cfg.Redis.PoolSize,
	)

	sessions, err := auth.NewSessionManager(cfg.Session)
	if err != nil {
		return err
	}
	logger.Info("session manager initialized",
		"algorithm", "ES256",
		"key_id", sessions.KeyID(),
	)

	images, err := media.New(cfg.Cloudinary)
	if err != nil {
		return err
	}

	directory := search.New(cfg.Meilisearch)
	healthDeps := []health.Dependency{
		{Name: "database", Checker: db},
		{Name: "redis", Checker: redis},
	}
	if meili, ok := directory.(*search.MeiliDirectory); ok {
		meili.Setup(ctx)
		healthDeps = append(healthDeps, health.Dependency{
			Name:     "meilisearch",
			Checker:  meili,
			Optional: true,
		})
	}

	mailer := mail.New(cfg.Mail, cfg.App.BaseURL, logger)

	profileRepo := profile.NewRepository(db.DB)
	userSvc := user.NewService(
		user.NewRepository(db.DB),
		profileRepo,
		user.NewUnitOfWork(db.DB),
		directory,
		images,
	)
	profileSvc := profile.NewService(profileRepo, userSvc)
	userHandler := user.NewHandler(userSvc, profileSvc)

	authSvc := auth.NewService(
		auth.NewRepository(db.DB),
		userSvc,
		sessions,
		auth.NewRedisResetStore(redis),
		mailer,
		auth.Options{Tokens: cfg.Tokens, Account: cfg.Account},
	)
	authHandler := auth.NewHandler(authSvc)

	seasonSvc := season.NewService(season.NewRepository(db.DB))
	seasonHandler := season.NewHandler(seasonSvc)

	teamSvc := team.NewService(team.NewRepository(db.DB), profileSvc, images)
	teamHandler := team.NewHandler(teamSvc)

	eventSvc := event.NewService(event.NewRepository(db.DB), seasonSvc, images)
	eventHandler := event.NewHandler(eventSvc)

	relationshipSvc := relationship.NewService(relationship.NewRepository(db.DB), profileSvc)
	relationshipHandler := relationship.NewHandler(relationshipSvc)

	deviceSvc := device.NewService(device.NewRepository(db.DB))
	deviceHandler := device.NewHandler(deviceSvc)
	notifier := device.NewNotifier(deviceSvc, cfg.Push)

	messageSvc := message.NewService(message.NewRepository(db.DB), redis, notifier)
	messageHandler := message.NewHandler(
		messageSvc,
		message.NewFeed(redis.Client, cfg.CORS.AllowedOrigins),
	)

	schema, err := graphql.NewSchema(graphql.Services{
		Auth:          authSvc,
		Users:         userSvc,
		Teams:         teamSvc,
		Events:        eventSvc,
		Seasons:       seasonSvc,
		Relationships: relationshipSvc,
		Messages:      messageSvc,
		Devices:       deviceSvc,
	})
	if err != nil {
		return err
	}
	graphqlHandler := graphql.NewHandler(schema)

	scheduler := jobs.NewScheduler(cfg.Jobs.Timeout)
	if err := scheduler.Register(
		cfg.Jobs.TokenCleanupSpec,
		jobs.NewTokenCleanup(authSvc),
	); err != nil {
		return err
	}

	healthHandler := health.NewHandler(healthDeps...)

	adminHandler := admin.NewHandler(admin.HandlerConfig{
		Users:      userSvc,
		Roles:      profileSvc,
		Teams:      teamSvc,
		Seasons:    seasonSvc,
		DBStats:    db.Stats,
		RedisStats: redis.PoolStats,
		DBPing:     db.Ping,
		RedisPing:  redis.Ping,
		Jobs:       scheduler.Next,
		RunJob:     scheduler.RunNow,
	})

	rateLimiter := middleware.NewRateLimiter(redis.Client, middleware.RateLimitConfig{
		Limit: middleware.PerMinute(
			cfg.RateLimit.Requests,
			cfg.RateLimit.Burst,
		),
		FailOpen: true,
		BypassFunc: func(r *http.Request) bool {
			switch r.URL.Path {
			case "/healthz", "/livez", "/readyz", "/metrics":
				return true
			}
			return false
		},
	})

	srv := server.New(server.Config{
		ServerConfig:  cfg.Server,
		HealthHandler: healthHandler,
		Logger:        logger,
		Middlewares: []func(next http.Handler) http.Handler{
			middleware.RequestID,
			middleware.Logger(logger),
			rateLimiter.Handler,
			middleware.SecurityHeaders(cfg.App.Environment == "production"),
			middleware.CORS(cfg.CORS),
		},
	})

	router := srv.Router()

	healthHandler.RegisterRoutes(router)

	tiered := middleware.TieredRateLimiter(redis.Client, middleware.DefaultTiers)
	credentialLimiter := middleware.NewRateLimiter(redis.Client, middleware.RateLimitConfig{
		Limit:    middleware.PerHour(cfg.RateLimit.AuthPerHour, cfg.RateLimit.Burst),
		KeyFunc:  middleware.KeyByUserAndEndpoint,
		FailOpen: true,
		BypassFunc: func(r *http.Request) bool {
			return r.Method != http.MethodPost
		},
	})

	router.Group(func(r chi.Router) {
		r.Use(middleware.OptionalBearer(authSvc))
		r.Use(tiered)
		graphqlHandler.RegisterRoutes(r)
	})

	bearer := middleware.BearerAuth(authSvc)

	router.Route("/v1", func(r chi.Router) {
		authHandler.RegisterRoutes(r.With(credentialLimiter.Handler), bearer)

		r.Group(func(r chi.Router) {
			r.Use(bearer)
			r.Use(tiered)
			messageHandler.RegisterAPIRoutes(r)
			deviceHandler.RegisterAPIRoutes(r)
		})
	})

	router.Route("/admin", func(r chi.Router) {
		session := middleware.SessionAuth(authSvc)
		authHandler.RegisterConsoleRoutes(r.With(credentialLimiter.Handler), session)

		r.Group(func(r chi.Router) {
			r.Use(session)
			userHandler.RegisterAdminRoutes(r)
			seasonHandler.RegisterAdminRoutes(r)
			teamHandler.RegisterAdminRoutes(r)
			eventHandler.RegisterAdminRoutes(r)
			relationshipHandler.RegisterAdminRoutes(r)
			messageHandler.RegisterAdminRoutes(r)
			adminHandler.RegisterAdminRoutes(r)
		})
	})

	scheduler.Start()
	logger.Info("scheduler started", "jobs", len(scheduler.Next()))

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		cfg.Server.ShutdownTimeout+drainDelay+5*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx, drainDelay); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	scheduler.Stop(shutdownCtx)

	if telemetry != nil {
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			logger.Error("telemetry shutdown error", "error", err)
		}
	}

	if err := redis.Close(); err != nil {
		logger.Error("redis close error", "error", err)
	}

	if err := db.Close(); err != nil {
		logger.Error("database close error", "error", err)
	}

	logger.Info("application stopped")
	return nil
}

func setupLogger(cfg config.LogConfig) *slog.Logger {
	var handler slog.Handler

	level := slog.LevelInfo
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}

	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}
