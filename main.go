package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/medwaste/classify-be/internal/api"
	"github.com/medwaste/classify-be/internal/auth"
	"github.com/medwaste/classify-be/internal/backend"
	"github.com/medwaste/classify-be/internal/cache"
	"github.com/medwaste/classify-be/internal/classifier"
	"github.com/medwaste/classify-be/internal/config"
	"github.com/medwaste/classify-be/internal/database"
	"github.com/medwaste/classify-be/internal/logger"
	"github.com/medwaste/classify-be/internal/monitoring"
	"github.com/medwaste/classify-be/internal/services"
	"github.com/medwaste/classify-be/internal/websocket"
	"github.com/rs/zerolog/log"
)

func main() {
	logger.Init()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Set up database
	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply database migrations")
	}

	// Token signing secret comes from configuration, which may have been
	// loaded from the .env file.
	auth.Init(cfg.JWTSecret)

	// The bootstrap administrator pair is verified locally, never against
	// the user store.
	admin := auth.AdminCredential{Email: cfg.AdminEmail, Password: cfg.AdminPassword}

	// Identity-change fan-out between the user store and live sessions
	notifier := backend.NewNotifier()

	// Set up services
	userService := services.NewUserService(db)
	userService.SetIdentityChangeHook(notifier.Publish)
	eventService := services.NewEventService(db)
	historyService := services.NewHistoryService(db)
	statsService := services.NewStatsService(db, userService, eventService)

	// Classification service client and the local mirror of recent results
	classifierClient := classifier.New(cfg.ClassifierURL)
	recentCache := cache.Open(cfg.RecentCachePath)

	// Set up WebSocket Hub
	hub := websocket.NewHub()
	go hub.Run()

	// Push fresh dashboard snapshots to connected administrators
	statsBroadcaster := monitoring.NewStatsBroadcaster(statsService, hub)
	if err := statsBroadcaster.Start(cfg.StatsCron); err != nil {
		log.Fatal().Err(err).Str("schedule", cfg.StatsCron).Msg("Failed to start stats broadcaster")
	}

	// Set up router
	router := api.NewRouter(db, hub, notifier, admin, userService, historyService,
		statsService, eventService, classifierClient, recentCache, cfg.AllowedOrigins)

	// Set up server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.ServerPort),
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		log.Info().Int("port", cfg.ServerPort).Msg("Server starting")
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("ListenAndServe()")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	statsBroadcaster.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exiting")
}
