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

	"github.com/Dosada05/club-system/config"
	"github.com/Dosada05/club-system/db"
	"github.com/Dosada05/club-system/handlers"
	"github.com/Dosada05/club-system/live"
	"github.com/Dosada05/club-system/notify"
	"github.com/Dosada05/club-system/repositories"
	api "github.com/Dosada05/club-system/routes"
	"github.com/Dosada05/club-system/services"
	"github.com/Dosada05/club-system/storage"
	"github.com/go-chi/chi/v5"
	"github.com/jonboulle/clockwork"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort), slog.String("log_level", cfg.LogLevel.String()))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second, logger)
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

	if err := db.EnsureSchema(ctx, dbConn); err != nil {
		logger.Error("failed to apply database schema", slog.Any("error", err))
		os.Exit(1)
	}

	var archive storage.ObjectStore
	if cfg.R2.Enabled() {
		archive, err = storage.NewCloudflareR2Store(ctx, cfg.R2)
		if err != nil {
			logger.Error("failed to initialize Cloudflare R2 store", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("Cloudflare R2 archive store initialized", slog.String("bucket", cfg.R2.BucketName))
	} else {
		logger.Info("Cloudflare R2 not configured, season archives disabled")
	}

	hub := live.NewHub(logger)
	go hub.Run(ctx)
	logger.Info("WebSocket hub started")

	notifiers := notify.Fanout{hub}
	if cfg.NATSURL != "" {
		nc, err := notify.ConnectNATS(cfg.NATSURL, logger)
		if err != nil {
			logger.Error("failed to connect to NATS", slog.Any("error", err))
			os.Exit(1)
		}
		defer func() {
			if err := nc.Drain(); err != nil {
				logger.Error("failed to drain NATS connection", slog.Any("error", err))
			}
		}()
		notifiers = append(notifiers, notify.NewNATSPublisher(nc, cfg.NATSSubjectPrefix, logger))
		logger.Info("NATS publisher enabled", slog.String("prefix", cfg.NATSSubjectPrefix))
	}

	clock := clockwork.NewRealClock()

	seasonRepo := repositories.NewPostgresSeasonRepository(dbConn)
	teamRepo := repositories.NewPostgresTeamRepository(dbConn)
	opponentRepo := repositories.NewPostgresOpponentRepository(dbConn)
	playerRepo := repositories.NewPostgresPlayerRepository(dbConn)
	matchRepo := repositories.NewPostgresMatchRepository(dbConn)
	lineupRepo := repositories.NewPostgresLineupRepository(dbConn)
	eventRepo := repositories.NewPostgresEventRepository(dbConn)

	seasonService := services.NewSeasonService(seasonRepo, clock, logger)
	teamService := services.NewTeamService(teamRepo, seasonRepo)
	opponentService := services.NewOpponentService(opponentRepo)
	matchService := services.NewMatchService(services.MatchServiceDeps{
		Matches:   matchRepo,
		Teams:     teamRepo,
		Seasons:   seasonRepo,
		Opponents: opponentRepo,
		Events:    eventRepo,
		Lineups:   lineupRepo,
		Players:   playerRepo,
		Clock:     clock,
		Notifier:  notifiers,
		Logger:    logger,
	})
	lineupService := services.NewLineupService(lineupRepo, matchRepo, playerRepo, notifiers, clock, logger)
	eventService := services.NewEventService(eventRepo, matchRepo, playerRepo, notifiers, clock, logger)
	standingsService := services.NewStandingsService(services.StandingsServiceDeps{
		Seasons: seasonRepo,
		Teams:   teamRepo,
		Matches: matchRepo,
		Events:  eventRepo,
		Players: playerRepo,
		Archive: archive,
		Clock:   clock,
		Logger:  logger,
	})
	logger.Info("services initialized")

	router := chi.NewRouter()
	api.SetupRoutes(router, api.Handlers{
		Health:    handlers.NewHealthHandler(dbConn),
		Season:    handlers.NewSeasonHandler(seasonService),
		Team:      handlers.NewTeamHandler(teamService, opponentService),
		Match:     handlers.NewMatchHandler(matchService),
		Lineup:    handlers.NewLineupHandler(lineupService, eventService),
		Standings: handlers.NewStandingsHandler(standingsService),
		WebSocket: handlers.NewWebSocketHandler(hub, matchService, cfg.CORSAllowedOrigins),
	}, logger, cfg.CORSAllowedOrigins)
	logger.Info("routes configured")

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 35 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("server stopped gracefully")
	case <-ctx.Done():
		logger.Info("shutdown signal received")
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancelShutdown()

		logger.Info("shutting down server", slog.Duration("timeout", shutdownTimeout))
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
