package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spiceroute/spiceroute-be/internal/api"
	"github.com/spiceroute/spiceroute-be/internal/config"
	"github.com/spiceroute/spiceroute-be/internal/database"
	"github.com/spiceroute/spiceroute-be/internal/logger"
	"github.com/spiceroute/spiceroute-be/internal/services"
)

func main() {
	logger.Init()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	if cfg.JWTSecret == "" {
		log.Warn().Msg("JWT_SECRET is not set; authenticated endpoints will be unavailable")
	}

	// Set up database. A missing DATABASE_PATH is a valid degraded state:
	// the site still serves, and list endpoints return empty collections.
	var db *sql.DB
	if cfg.DatabasePath != "" {
		db, err = database.New(cfg.DatabasePath)
		if err != nil {
			log.Fatal().Err(err).Str("path", cfg.DatabasePath).Msg("Failed to initialize database")
		}
		defer db.Close()

		if err := database.Migrate(db); err != nil {
			log.Fatal().Err(err).Msg("Failed to apply database migrations")
		}

		if err := database.SeedAdmin(db, cfg.AdminEmail, cfg.AdminPassword); err != nil {
			log.Fatal().Err(err).Msg("Failed to seed admin account")
		}
	} else {
		log.Warn().Msg("DATABASE_PATH is not set; running without a database")
	}

	// Set up services
	accountService := services.NewAccountService(db)
	eventService := services.NewEventService(db)
	postService := services.NewPostService(db)

	// Set up router
	router := api.NewRouter(api.Deps{
		Config:   cfg,
		Accounts: accountService,
		Posts:    postService,
		Events:   eventService,
	})

	// Set up server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.ServerPort),
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		log.Info().Int("port", cfg.ServerPort).Msg("Server starting")
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("ListenAndServe failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exiting")
}
