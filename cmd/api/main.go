package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Marga-Ghale/ora-admin-console/internal/api/handlers"
	"github.com/Marga-Ghale/ora-admin-console/internal/api/middleware"
	"github.com/Marga-Ghale/ora-admin-console/internal/config"
	"github.com/Marga-Ghale/ora-admin-console/internal/cron"
	"github.com/Marga-Ghale/ora-admin-console/internal/db"
	"github.com/Marga-Ghale/ora-admin-console/internal/logging"
	"github.com/Marga-Ghale/ora-admin-console/internal/repository"
	"github.com/Marga-Ghale/ora-admin-console/internal/seed"
	"github.com/Marga-Ghale/ora-admin-console/internal/service"
	"github.com/Marga-Ghale/ora-admin-console/internal/session"
	"github.com/Marga-Ghale/ora-admin-console/internal/socket"
	"github.com/Marga-Ghale/ora-admin-console/internal/upstream"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func main() {
	// ============================================
	// Load environment and configuration
	// ============================================
	loaded, envErr := config.LoadEnv(".env", ".env.local")

	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Invalid configuration")
	}

	logger := logging.New(cfg.LogLevel, cfg.IsProduction())
	log := logging.Component(logger, "main")
	if envErr != nil {
		log.WithError(envErr).Warn("Failed to read env files")
	} else if loaded == 0 {
		log.Info("No .env file found, using environment variables")
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ============================================
	// Audit storage (PostgreSQL, optional)
	// ============================================
	var repos *repository.Repositories
	dbStatus := "disabled"
	if cfg.DatabaseURL != "" {
		log.Info("Running database migrations...")
		if err := db.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, logging.Component(logger, "db")); err != nil {
			log.WithError(err).Fatal("Migration failed")
		}

		pg, err := db.NewPostgresDB(ctx, cfg.DatabaseURL, logging.Component(logger, "db"))
		if err != nil {
			log.WithError(err).Fatal("Failed to connect to PostgreSQL")
		}
		defer pg.Close()

		repos = repository.NewRepositories(pg.Pool)
		dbStatus = "connected"
	} else {
		log.Warn("DATABASE_URL not set, audit trail kept in memory")
		repos = repository.NewInMemoryRepositories()
	}

	// ============================================
	// Session tiers
	// ============================================
	var (
		redisDB   *db.RedisDB
		redisTier *session.RedisTier
		tiers     []session.Tier
	)
	if cfg.RedisURL != "" {
		redisDB, err = db.NewRedisDB(ctx, cfg.RedisURL, logging.Component(logger, "redis"))
		if err != nil {
			log.WithError(err).Warn("Failed to connect to Redis, continuing with cookie sessions only")
		} else {
			defer redisDB.Close()
			redisTier = session.NewRedisTier(redisDB.Client)
			tiers = append(tiers, redisTier)
		}
	}
	tiers = append(tiers, session.NewCookieTier(cfg.SessionSecret))
	resolver := session.NewResolver(logging.Component(logger, "session"), tiers...)

	if !cfg.IsProduction() && cfg.SeedSessionID != "" && redisTier != nil {
		if _, err := seed.SeedSessions(ctx, redisTier, cfg.SeedSessionID, logging.Component(logger, "seed")); err != nil {
			log.WithError(err).Warn("Failed to seed sessions")
		}
	}

	// ============================================
	// WebSocket hub
	// ============================================
	hub := socket.NewHub(logging.Component(logger, "socket"))
	go hub.Run(ctx)
	broadcaster := socket.NewBroadcaster(hub)
	wsHandler := socket.NewHandler(hub, cfg.AllowedOrigins)

	// ============================================
	// Services
	// ============================================
	services := service.NewServices(&service.ServiceDeps{
		Config:    cfg,
		Repos:     repos,
		Resolver:  resolver,
		API:       upstream.NewClient(cfg.UpstreamURL, cfg.UpstreamToken, cfg.UpstreamTimeout, logging.Component(logger, "upstream")),
		Publisher: broadcaster,
		Logger:    logger,
	})

	var store handlers.SessionStore
	if redisTier != nil {
		store = redisTier
	}
	h := handlers.NewHandlers(services, store, broadcaster)

	// ============================================
	// Cron scheduler
	// ============================================
	scheduler := cron.NewScheduler(services, services.Audit, cfg.ScreenIdleTTL, cfg.AuditRetentionDays, logging.Component(logger, "cron"))
	if err := scheduler.Start(); err != nil {
		log.WithError(err).Fatal("Failed to start scheduler")
	}
	defer scheduler.Stop()

	// ============================================
	// Router
	// ============================================
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(middleware.SessionContext(cfg.SidCookieKey, cfg.IsProduction()))
	r.Use(middleware.RequestLogger(logging.Component(logger, "http")))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":     "healthy",
			"timestamp":  time.Now(),
			"database":   dbStatus,
			"cache":      redisDB.Status(c.Request.Context()),
			"websocket":  "active",
			"ws_clients": hub.ConnectedClients(),
		})
	})

	admin := r.Group("/api/admin")
	admin.GET("/ws", wsHandler.HandleWebSocket)
	h.Register(admin)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.WithField("port", cfg.Port).Info("Server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	// ============================================
	// Graceful shutdown
	// ============================================
	<-ctx.Done()
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Server forced to shutdown")
		os.Exit(1)
	}
	log.Info("Server exited")
}
