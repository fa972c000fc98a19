package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/lockroom/lockdash/src/config"
	"github.com/lockroom/lockdash/src/handlers"
	"github.com/lockroom/lockdash/src/logging"
	"github.com/lockroom/lockdash/src/middleware"
	"github.com/lockroom/lockdash/src/models"
	"github.com/lockroom/lockdash/src/screens"
	"github.com/lockroom/lockdash/src/services"
	"github.com/lockroom/lockdash/src/templates"
)

func main() {
	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	cfg := config.Load()

	logging.Setup(logging.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	log.Info().
		Int("port", cfg.Port).
		Str("backend_url", cfg.BackendURL).
		Str("log_level", cfg.LogLevel).
		Msg("starting server")

	ui, err := templates.LoadUIConfig(cfg.UIConfigPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load UI config")
	}

	// Page cache: Redis when configured, in-process otherwise
	var (
		store      services.PageStore
		cachePing  handlers.Pinger
		redisStore *services.RedisPageStore
	)
	if cfg.UseRedis() {
		redisStore = services.NewRedisPageStore(services.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		}, cfg.CacheTTL)
		defer redisStore.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := redisStore.Ping(ctx); err != nil {
			log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unreachable, pages will be fetched uncached until it recovers")
		}
		cancel()

		store, cachePing = redisStore, redisStore
		log.Info().Str("addr", cfg.RedisAddr).Msg("page cache: redis")
	} else {
		store = services.NewMemoryPageStore(cfg.CacheSize, cfg.CacheTTL)
		log.Info().Int("size", cfg.CacheSize).Dur("ttl", cfg.CacheTTL).Msg("page cache: memory")
	}

	backend := services.NewInventoryClient(cfg.BackendURL, cfg.BackendTimeout)
	queries := services.NewQueryClient(store)

	router := gin.New()
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware("/health", "/ready"))
	router.Use(gin.Recovery())
	router.Use(middleware.SecurityHeadersMiddleware())

	if origins := cfg.Origins(); len(origins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:     origins,
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "HX-Request", "HX-Target", "HX-Current-URL", "HX-Trigger"},
			ExposeHeaders:    []string{"Content-Length", "HX-Trigger", middleware.RequestIDHeader},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	if err := setupRoutes(router, routeDeps{
		backend:   backend,
		queries:   queries,
		cachePing: cachePing,
		ui:        ui,
		pageSize:  cfg.PageSize,

		mutationLimit: middleware.RateLimitConfig{
			RequestsPerMinute: cfg.MutationRatePerMinute,
		},
	}); err != nil {
		log.Fatal().Err(err).Msg("failed to set up routes")
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	go func() {
		log.Info().Int("port", cfg.Port).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)
	sig := <-sigChan

	log.Info().Str("signal", sig.String()).Msg("received shutdown signal")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server shutdown error")
	}

	log.Info().Msg("server shut down successfully")
}

// routeDeps are the dependencies of the HTTP routes
type routeDeps struct {
	backend       *services.InventoryClient
	queries       *services.QueryClient
	cachePing     handlers.Pinger
	ui            *templates.UIConfig
	pageSize      int
	mutationLimit middleware.RateLimitConfig
}

func setupRoutes(router *gin.Engine, deps routeDeps) error {
	tmpl, err := templates.Parse()
	if err != nil {
		return err
	}
	router.SetHTMLTemplate(tmpl)

	healthHandler := handlers.NewHealthHandler(deps.backend, deps.cachePing)
	authHandler := handlers.NewAuthHandler(deps.ui)
	dashboardHandler := handlers.NewDashboardHandler(models.EntityKeys)

	router.GET("/health", healthHandler.HandleHealth)
	router.GET("/ready", healthHandler.HandleReady)
	router.GET("/info", healthHandler.HandleInfo)

	// Mock login, no session
	router.GET("/", authHandler.HandleLoginPage)
	router.POST("/login", authHandler.HandleLogin)
	router.POST("/register", authHandler.HandleRegister)

	router.GET("/dash", dashboardHandler.HandleDashboard)

	shell := screens.NewShell(deps.ui)
	limit := deps.mutationLimit
	limit.NoticeTitle = deps.ui.Notifications.RateLimited.Title
	limit.NoticeDescription = deps.ui.Notifications.RateLimited.Description
	limiter := middleware.NewMutationRateLimitingMiddleware(limit)

	screens.NewKeysScreen(deps.backend.Keys, deps.ui.Screen(models.EntityKeys.String()),
		deps.pageSize, deps.queries, shell).Register(router, limiter)
	screens.NewKeyCopiesScreen(deps.backend.KeyCopies, deps.ui.Screen(models.EntityKeyCopies.String()),
		deps.pageSize, deps.queries, shell).Register(router, limiter)
	screens.NewStaffScreen(deps.backend.Staffs, deps.ui.Screen(models.EntityStaffs.String()),
		deps.pageSize, deps.queries, shell).Register(router, limiter)

	return nil
}
