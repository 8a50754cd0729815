package adapters

import (
	"context"
	"errors"
	"time"

	"mercadolivre-sync/extractor"
	"mercadolivre-sync/internal/types"
)

// MercadoLivreAdapter scrapes one Mercado Livre listing into a product record.
type MercadoLivreAdapter struct {
	*BaseAdapter
	engine *extractor.Engine
}

// NewMercadoLivreAdapter creates an adapter that fetches with fetcher and extracts with engine.
func NewMercadoLivreAdapter(fetcher *BaseAdapter, engine *extractor.Engine) *MercadoLivreAdapter {
	if engine == nil {
		engine = extractor.NewEngine()
	}
	return &MercadoLivreAdapter{BaseAdapter: fetcher, engine: engine}
}

// GetStoreName returns the marketplace name
func (m *MercadoLivreAdapter) GetStoreName() string {
	return "mercadolivre.com.br"
}

// Scrape fetches the listing at url and extracts its product record.
func (m *MercadoLivreAdapter) Scrape(ctx context.Context, url string) (*types.ExtractedProduct, error) {
	result, err := m.Inspect(ctx, url)
	if err != nil {
		return nil, err
	}
	return &result.Product, nil
}

// Inspect is Scrape with the per-field diagnostics kept.
func (m *MercadoLivreAdapter) Inspect(ctx context.Context, url string) (*extractor.Result, error) {
	startTime := time.Now()

	doc, canonical, err := m.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}

	result, err := m.engine.Extract(doc, canonical)
	if err != nil {
		if errors.Is(err, types.ErrPageUnavailable) {
			m.logger.Warnf("Listing %s is unavailable: %v", canonical, err)
		} else {
			m.logger.Errorf("Extraction of %s failed: %v", canonical, err)
		}
		return nil, err
	}

	for _, d := range result.Diagnostics {
		if d.Found {
			m.logger.Debugf("%s: %s", canonical, d)
		} else {
			m.logger.Infof("%s: %s", canonical, d)
		}
	}
	m.logger.Debugf("Listing %s extracted in %v", canonical, time.Since(startTime))
	return &result, nil
}
