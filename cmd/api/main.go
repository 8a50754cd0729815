package main

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"mercadolivre-sync/api"
	"mercadolivre-sync/config"
	"mercadolivre-sync/internal/app"
)

func main() {
	// Load .env file if present
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := app.NewLogger(false)
	a := app.New(cfg, logger)
	defer a.Close()

	var handler *api.Handler
	if err := cfg.RequireCredentials(); err != nil {
		logger.Warnf("Synchronization endpoint disabled: %v", err)
		handler = api.NewHandler(a.Scraper, nil, a.Catalog, logger)
	} else {
		handler = api.NewHandler(a.Scraper, a.Sync, a.Catalog, logger)
	}

	router := api.SetupRouter(cfg.Server.Environment, handler)

	logger.Infof("Starting API server on port %s", cfg.Server.Port)
	logger.Info("Available endpoints:")
	logger.Info("  POST /scrape    - Extract one listing ({\"url\": ...})")
	logger.Info("  GET  /scrape    - Extract one listing (?url=...)")
	logger.Info("  POST /sync/all  - Synchronize the whole catalog")
	logger.Info("  POST /casa-moreno-backend/login              - Catalog login")
	logger.Info("  GET  /casa-moreno-backend/products/list-all  - List catalog products")
	logger.Info("  GET  /casa-moreno-backend/products/:id       - Find one catalog product")
	logger.Info("  GET  /health    - Health check")

	if err := router.Run(":" + cfg.Server.Port); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
