package adapters

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"mercadolivre-sync/internal/types"
	"mercadolivre-sync/utils"

	"github.com/PuerkitoBio/goquery"
)

// PageSource returns the raw HTML of a page.
type PageSource interface {
	GetPageContent(ctx context.Context, url string) (string, error)
}

// httpSource adapts utils.HTTPClient to PageSource.
type httpSource struct {
	client *utils.HTTPClient
}

func (s httpSource) GetPageContent(ctx context.Context, url string) (string, error) {
	body, err := s.client.Get(ctx, url)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// BaseAdapter is the document fetcher: it canonicalizes a listing URL, downloads
// the page through the HTTP client or the headless browser and parses it.
type BaseAdapter struct {
	config     *types.Config
	logger     types.Logger
	httpClient *utils.HTTPClient
	source     PageSource
}

// NewBaseAdapter creates a fetcher. UseHeadlessBrowser selects chromedp over plain HTTP.
func NewBaseAdapter(config *types.Config, logger types.Logger) *BaseAdapter {
	b := &BaseAdapter{
		config:     config,
		logger:     logger,
		httpClient: utils.NewHTTPClient(config, logger),
	}
	if config.UseHeadlessBrowser {
		b.source = utils.NewBrowserClient(config, logger)
	} else {
		b.source = httpSource{client: b.httpClient}
	}
	return b
}

// NewBaseAdapterWithSource creates a fetcher that reads pages from source.
func NewBaseAdapterWithSource(config *types.Config, logger types.Logger, source PageSource) *BaseAdapter {
	return &BaseAdapter{config: config, logger: logger, source: source}
}

// Fetch downloads and parses the listing at rawURL. It returns the parsed document
// with the canonical URL, or a *types.FetchError.
func (b *BaseAdapter) Fetch(ctx context.Context, rawURL string) (*goquery.Document, string, error) {
	canonical, err := utils.CanonicalURL(rawURL)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", types.ErrMissingURL, err)
	}

	b.logger.Debugf("Fetching listing page: %s", canonical)
	html, err := b.source.GetPageContent(ctx, canonical)
	if err != nil {
		return nil, canonical, classifyFetchError(canonical, err)
	}

	doc, err := b.ParseHTML(html)
	if err != nil {
		return nil, canonical, fmt.Errorf("failed to parse listing page %s: %w", canonical, err)
	}
	return doc, canonical, nil
}

func classifyFetchError(url string, err error) error {
	var statusErr *utils.StatusError
	if errors.As(err, &statusErr) && (statusErr.Code == http.StatusNotFound || statusErr.Code == http.StatusGone) {
		return &types.FetchError{Kind: types.Unavailable, URL: url, Err: err}
	}
	return &types.FetchError{Kind: types.Unreachable, URL: url, Err: err}
}

// ParseHTML parses HTML content into a goquery document
func (b *BaseAdapter) ParseHTML(html string) (*goquery.Document, error) {
	return goquery.NewDocumentFromReader(strings.NewReader(html))
}

// Config returns the fetch configuration
func (b *BaseAdapter) Config() *types.Config {
	return b.config
}

// Close cleans up resources
func (b *BaseAdapter) Close() {
	if b.httpClient != nil {
		b.httpClient.Close()
	}
}
