package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/footyops/carnival-system/config"
	"github.com/footyops/carnival-system/db"
	"github.com/footyops/carnival-system/events"
	"github.com/footyops/carnival-system/handlers"
	"github.com/footyops/carnival-system/middleware"
	"github.com/footyops/carnival-system/mysideline"
	"github.com/footyops/carnival-system/repositories"
	api "github.com/footyops/carnival-system/routes"
	"github.com/footyops/carnival-system/services"
	"github.com/footyops/carnival-system/storage"
	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort))

	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		} else {
			logger.Info("database connection closed")
		}
	}()
	logger.Info("database connection established")

	cloudflareUploader, err := storage.NewCloudflareR2Uploader(storage.CloudflareR2UploaderConfig{
		AccountID:       cfg.R2AccountID,
		AccessKeyID:     cfg.R2AccessKeyID,
		SecretAccessKey: cfg.R2SecretAccessKey,
		BucketName:      cfg.R2BucketName,
		PublicBaseURL:   cfg.R2PublicBaseURL,
	})
	if err != nil {
		logger.Error("failed to initialize Cloudflare R2 uploader", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("Cloudflare R2 uploader initialized")

	wsHub := events.NewHub(logger)
	go wsHub.Run()
	logger.Info("WebSocket hub started")

	// Domain events go to the log and to any connected dashboard.
	sink := events.MultiSink{events.NewLogSink(logger), wsHub}

	userRepo := repositories.NewPostgresUserRepository(dbConn)
	clubRepo := repositories.NewPostgresClubRepository(dbConn)
	playerRepo := repositories.NewPostgresClubPlayerRepository(dbConn)
	carnivalRepo := repositories.NewPostgresCarnivalRepository(dbConn)
	attendanceRepo := repositories.NewPostgresCarnivalClubRepository(dbConn)
	assignmentRepo := repositories.NewPostgresCarnivalClubPlayerRepository(dbConn)
	sponsorRepo := repositories.NewPostgresSponsorRepository(dbConn)
	logger.Info("repositories initialized")

	emailService := services.NewSMTPEmailService(services.SMTPConfig{
		Host: cfg.SMTPHost,
		Port: cfg.SMTPPort,
		User: cfg.SMTPUser,
		Pass: cfg.SMTPPass,
		From: cfg.SMTPFrom,
	})

	authService := services.NewAuthService(userRepo, cfg.JWTSecretKey)
	clubService := services.NewClubService(clubRepo, cloudflareUploader)
	rosterService := services.NewRosterService(playerRepo, clubRepo)
	carnivalService := services.NewCarnivalService(carnivalRepo, userRepo, cloudflareUploader, sink)
	claimService := services.NewClaimService(carnivalRepo, userRepo, sink, emailService, logger)
	registrationService := services.NewRegistrationService(
		attendanceRepo,
		assignmentRepo,
		carnivalRepo,
		clubRepo,
		playerRepo,
		sink,
	)
	sponsorService := services.NewSponsorService(sponsorRepo, clubRepo)
	logger.Info("services initialized")

	// Periodic MySideline feed sync keeps the carnival list fresh without
	// manual imports.
	if cfg.MySidelineFeedURL != "" {
		feedSource := mysideline.NewHTTPFeedSource(cfg.MySidelineFeedURL, 30*time.Second)
		syncService := services.NewSyncService(feedSource, carnivalService, logger)

		go func() {
			ticker := time.NewTicker(cfg.MySidelineSyncInterval)
			defer ticker.Stop()
			logger.Info("MySideline sync scheduler started",
				slog.Duration("interval", cfg.MySidelineSyncInterval))

			if _, err := syncService.SyncCarnivals(context.Background()); err != nil {
				logger.Error("MySideline sync: initial run failed", slog.Any("error", err))
			}

			for range ticker.C {
				if _, err := syncService.SyncCarnivals(context.Background()); err != nil {
					logger.Error("MySideline sync: periodic run failed", slog.Any("error", err))
				}
			}
		}()
	} else {
		logger.Warn("MYSIDELINE_FEED_URL not set, feed sync disabled")
	}

	authenticator := middleware.NewAuthenticator(cfg.JWTSecretKey)
	authHandler := handlers.NewAuthHandler(authService)
	clubHandler := handlers.NewClubHandler(clubService)
	rosterHandler := handlers.NewRosterHandler(rosterService)
	carnivalHandler := handlers.NewCarnivalHandler(carnivalService, claimService)
	registrationHandler := handlers.NewRegistrationHandler(registrationService)
	sponsorHandler := handlers.NewSponsorHandler(sponsorService)
	webSocketHandler := handlers.NewWebSocketHandler(wsHub)
	logger.Info("HTTP handlers initialized")

	router := chi.NewRouter()
	api.SetupRoutes(
		router,
		authenticator,
		authHandler,
		clubHandler,
		rosterHandler,
		carnivalHandler,
		registrationHandler,
		sponsorHandler,
		webSocketHandler,
	)
	logger.Info("routes configured")

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("server stopped gracefully")
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancelShutdown()

		logger.Info("shutting down server", slog.Duration("timeout", 15*time.Second))
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			os.Exit(1)
		}
		logger.Info("server shutdown complete")
	}
	logger.Info("application exited")
}
