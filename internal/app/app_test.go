package app

import (
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"mercadolivre-sync/config"
)

func TestNewLogger(t *testing.T) {
	t.Setenv("LOG_LEVEL", "")
	assert.Equal(t, logrus.InfoLevel, NewLogger(false).GetLevel())
	assert.Equal(t, logrus.DebugLevel, NewLogger(true).GetLevel())

	t.Setenv("LOG_LEVEL", "warn")
	assert.Equal(t, logrus.WarnLevel, NewLogger(true).GetLevel())

	t.Setenv("LOG_LEVEL", "nonsense")
	assert.Equal(t, logrus.InfoLevel, NewLogger(false).GetLevel())
}

func TestNew(t *testing.T) {
	cfg := &config.Config{
		Fetch:   config.FetchConfig{Timeout: time.Second, MaxRetries: 0},
		Backend: config.BackendConfig{BaseURL: "http://catalog.invalid", Timeout: time.Second},
		Sync:    config.SyncConfig{Concurrency: 2, CompareCatalogFields: true},
	}

	a := New(cfg, NewLogger(false))
	defer a.Close()

	require.NotNil(t, a.Scraper)
	require.NotNil(t, a.Catalog)
	require.NotNil(t, a.Sync)
	assert.Equal(t, "mercadolivre.com.br", a.Scraper.GetStoreName())
	assert.Equal(t, 2, a.Scraper.Config().MaxConcurrentRequests)
}
