package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/zenzmatz/homeassistant-bessa-lunch/internal/bessa"
	"github.com/zenzmatz/homeassistant-bessa-lunch/internal/config"
	"github.com/zenzmatz/homeassistant-bessa-lunch/internal/coordinator"
	"github.com/zenzmatz/homeassistant-bessa-lunch/internal/day"
	"github.com/zenzmatz/homeassistant-bessa-lunch/internal/router"
)

func main() {

	// ───────────────────────── ENV ─────────────────────────
	if os.Getenv("APP_ENV") != "production" {
		_ = godotenv.Load()
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Config error: %v", err)
	}

	// ───────────────────────── BESSA CLIENT ─────────────────────────
	client := bessa.NewClient(bessa.Credentials{
		Username: cfg.Username,
		Password: cfg.Password,
		VenueID:  cfg.VenueID,
	}, cfg.BaseURL)

	// ───────────────────────── COORDINATOR ─────────────────────────
	coord := coordinator.New(client, cfg.RefreshInterval)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// First fetch before serving; a failure here is not fatal, the
	// service starts degraded and the ticker keeps trying.
	if err := coord.Refresh(ctx); err != nil {
		log.Printf("STARTUP_REFRESH_FAILED err=%v", err)
	}

	go coord.Run(ctx)

	// ───────────────────────── ROUTES ─────────────────────────
	days := day.NewHandler(coord, coord)
	r := router.New(coord, days)

	// ───────────────────────── START ─────────────────────────
	log.Printf("🚀 API running at http://localhost:%s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
