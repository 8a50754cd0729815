package app

import (
	"os"

	"github.com/sirupsen/logrus"
	"mercadolivre-sync/adapters"
	"mercadolivre-sync/catalog"
	"mercadolivre-sync/config"
	"mercadolivre-sync/extractor"
	"mercadolivre-sync/reconcile"
	"mercadolivre-sync/synchronizer"
)

// NewLogger builds the process logger. LOG_LEVEL wins over verbose.
func NewLogger(verbose bool) *logrus.Logger {
	logger := logrus.New()

	// Set timestamp format with milliseconds
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05.000",
	})

	if levelStr := os.Getenv("LOG_LEVEL"); levelStr != "" {
		if level, err := logrus.ParseLevel(levelStr); err == nil {
			logger.SetLevel(level)
			return logger
		}
	}
	if verbose {
		logger.SetLevel(logrus.DebugLevel)
	} else {
		logger.SetLevel(logrus.InfoLevel)
	}
	return logger
}

// App is the wired set of components
type App struct {
	Scraper *adapters.MercadoLivreAdapter
	Catalog *catalog.Client
	Sync    *synchronizer.Synchronizer
}

// New wires the scraper, catalog client and synchronizer from cfg.
func New(cfg *config.Config, logger *logrus.Logger) *App {
	fetcher := adapters.NewBaseAdapter(cfg.FetcherConfig(), logger)
	scraper := adapters.NewMercadoLivreAdapter(fetcher, extractor.NewEngine())

	rules := reconcile.CommercialRules()
	if cfg.Sync.CompareCatalogFields {
		rules = reconcile.AllRules()
	}

	client := catalog.NewClient(cfg.Backend.BaseURL, cfg.Backend.Timeout, logger)
	sync := synchronizer.New(client, scraper, reconcile.New(rules...), logger, synchronizer.Options{
		Credentials: catalog.Credentials{Username: cfg.Backend.Username, Password: cfg.Backend.Password},
		Concurrency: cfg.Sync.Concurrency,
	})

	return &App{Scraper: scraper, Catalog: client, Sync: sync}
}

// Close cleans up resources
func (a *App) Close() {
	a.Scraper.Close()
}
