package main

import (
	"log/slog"
	"net/http"
	"os"

	"cinelog/config"
	"cinelog/database"
	"cinelog/handlers"
	"cinelog/logger"
	"cinelog/middleware"
	"cinelog/services"
	"cinelog/tmdb"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger.Init(cfg.Environment, cfg.Debug)

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.RunMigrations(db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}
	if err := database.SeedBootstrapUser(db, cfg); err != nil {
		slog.Error("failed to seed bootstrap user", "error", err)
		os.Exit(1)
	}

	catalog := tmdb.New(cfg.TMDBAPIKey)
	if !catalog.Enabled() {
		slog.Warn("TMDB_API_KEY not set, catalog search and import are disabled")
	}

	sessions := services.NewSessions(cfg)
	auth := services.NewAuthService(db)
	library := services.NewLibraryService(db, catalog)
	reviews := services.NewReviewService(db)

	h, err := handlers.New(cfg, sessions, auth, library, reviews, catalog, "templates")
	if err != nil {
		slog.Error("failed to initialize handlers", "error", err)
		os.Exit(1)
	}

	router := h.Routes(middleware.NewAuth(sessions, auth))

	addr := ":" + cfg.Port
	slog.Info("cinelog is starting", "addr", addr, "env", cfg.Environment, "debug", cfg.Debug)
	if err := http.ListenAndServe(addr, router); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
