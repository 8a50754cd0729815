package synchronizer

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
	"mercadolivre-sync/catalog"
	"mercadolivre-sync/internal/types"
	"mercadolivre-sync/reconcile"
)

// Catalog is the catalog backend as seen by the driver
type Catalog interface {
	Login(ctx context.Context, creds catalog.Credentials) (string, error)
	ListAll(ctx context.Context, token string) ([]types.CatalogProduct, error)
	Update(ctx context.Context, token string, payload types.UpdatePayload) error
}

// Scraper turns a listing URL into a product record
type Scraper interface {
	Scrape(ctx context.Context, url string) (*types.ExtractedProduct, error)
}

// Status is the outcome of synchronizing one catalog entry
type Status int

const (
	StatusUpdated Status = iota
	StatusUnchanged
	StatusMissingURL
	StatusUnavailable
	StatusConnectionError
	StatusUpdateFailed
	StatusUnexpectedError
)

func (s Status) String() string {
	switch s {
	case StatusUpdated:
		return "updated"
	case StatusUnchanged:
		return "unchanged"
	case StatusMissingURL:
		return "missing-url"
	case StatusUnavailable:
		return "unavailable"
	case StatusConnectionError:
		return "connection-error"
	case StatusUpdateFailed:
		return "update-failed"
	default:
		return "unexpected-error"
	}
}

// ItemResult is the outcome for one catalog entry
type ItemResult struct {
	Product types.CatalogProduct
	Status  Status
	Payload types.UpdatePayload
	Err     error
}

// Options configures a Synchronizer
type Options struct {
	Credentials catalog.Credentials
	// Concurrency is the number of entries processed at once; below 2 runs serially.
	Concurrency int
}

// Synchronizer verifies every catalog entry against its live listing
type Synchronizer struct {
	catalog    Catalog
	scraper    Scraper
	reconciler *reconcile.Reconciler
	logger     types.Logger
	opts       Options
}

// New creates a synchronizer
func New(c Catalog, s Scraper, r *reconcile.Reconciler, logger types.Logger, opts Options) *Synchronizer {
	if r == nil {
		r = reconcile.New()
	}
	return &Synchronizer{catalog: c, scraper: s, reconciler: r, logger: logger, opts: opts}
}

// SynchronizeAll logs in, verifies every catalog entry and returns the report.
// It fails only when logging in or listing the catalog fails.
func (s *Synchronizer) SynchronizeAll(ctx context.Context) (string, error) {
	results, err := s.Run(ctx)
	if err != nil {
		return "", err
	}
	return RenderReport(results), nil
}

// Run is SynchronizeAll without rendering. Results keep catalog order.
func (s *Synchronizer) Run(ctx context.Context) ([]ItemResult, error) {
	startTime := time.Now()
	s.logger.Info("Starting product synchronization")

	token, err := s.catalog.Login(ctx, s.opts.Credentials)
	if err != nil {
		return nil, fmt.Errorf("failed to authenticate with catalog: %w", err)
	}

	products, err := s.catalog.ListAll(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("failed to list catalog products: %w", err)
	}
	s.logger.Infof("%d products found, starting verification", len(products))

	results := make([]ItemResult, len(products))
	if s.opts.Concurrency < 2 {
		for i, product := range products {
			results[i] = s.syncItem(ctx, token, product)
		}
	} else {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(s.opts.Concurrency)
		for i, product := range products {
			g.Go(func() error {
				results[i] = s.syncItem(gctx, token, product)
				return nil
			})
		}
		g.Wait()
	}

	s.logger.Infof("Synchronization finished in %v", time.Since(startTime))
	return results, nil
}

// syncItem never returns an error: every failure becomes the item's status.
func (s *Synchronizer) syncItem(ctx context.Context, token string, product types.CatalogProduct) (result ItemResult) {
	result.Product = product
	defer func() {
		if r := recover(); r != nil {
			s.logger.Errorf("Panic while synchronizing product %s: %v\n%s", product.ProductID, r, debug.Stack())
			result.Status = StatusUnexpectedError
			result.Err = fmt.Errorf("panic: %v", r)
		}
	}()

	if product.SourceURL == nil || strings.TrimSpace(*product.SourceURL) == "" {
		result.Status = StatusMissingURL
		result.Err = types.ErrMissingURL
		return result
	}

	extracted, err := s.scraper.Scrape(ctx, *product.SourceURL)
	if err != nil {
		result.Err = err
		switch {
		case errors.Is(err, types.ErrPageUnavailable):
			s.logger.Warnf("Product %s (%s) appears to be unavailable: %v", titleOf(product), product.ProductID, err)
			result.Status = StatusUnavailable
		case errors.Is(err, types.ErrUnreachable):
			s.logger.Errorf("Connection failure for product %s (%s): %v", titleOf(product), product.ProductID, err)
			result.Status = StatusConnectionError
		default:
			s.logger.Errorf("Unexpected failure for product %s (%s) at %q: %v", titleOf(product), product.ProductID, *product.SourceURL, err)
			result.Status = StatusUnexpectedError
		}
		return result
	}

	result.Payload = s.reconciler.Diff(product, *extracted)
	if result.Payload.Empty() {
		result.Status = StatusUnchanged
		return result
	}

	if err := s.catalog.Update(ctx, token, result.Payload); err != nil {
		s.logger.Errorf("Failed to update product %s (%s): %v", titleOf(product), product.ProductID, err)
		result.Status = StatusUpdateFailed
		result.Err = err
		return result
	}

	s.logger.Infof("Product %s updated (%d fields)", product.ProductID, len(result.Payload.Changes))
	result.Status = StatusUpdated
	return result
}

func titleOf(p types.CatalogProduct) string {
	if p.Title == nil {
		return ""
	}
	return *p.Title
}
