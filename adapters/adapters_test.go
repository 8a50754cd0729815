package adapters

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"mercadolivre-sync/internal/types"
)

const listingHTML = `<html><body>
<h1 class="ui-pdp-title">Fone Bluetooth JBL</h1>
<span class="ui-pdp-subtitle">Novo | +500 vendidos</span>
<meta itemprop="price" content="199.90">
<p>em 12x de R$ 16,66</p>
<button class="andes-button ui-pdp-action--primary">Comprar agora</button>
</body></html>`

type fakeSource struct {
	html string
	err  error
	urls []string
}

func (f *fakeSource) GetPageContent(ctx context.Context, url string) (string, error) {
	f.urls = append(f.urls, url)
	return f.html, f.err
}

func testConfig() *types.Config {
	config := types.DefaultConfig()
	config.RequestDelay = time.Millisecond
	config.MaxRetries = 0
	return config
}

func TestNewBaseAdapter(t *testing.T) {
	config := testConfig()
	adapter := NewBaseAdapter(config, logrus.New())
	defer adapter.Close()

	assert.Equal(t, config, adapter.Config())
	assert.NotNil(t, adapter.httpClient)
	_, isHTTP := adapter.source.(httpSource)
	assert.True(t, isHTTP)
}

func TestMercadoLivreAdapter_Scrape(t *testing.T) {
	var requestedPath, rawQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestedPath = r.URL.Path
		rawQuery = r.URL.RawQuery
		w.Write([]byte(listingHTML))
	}))
	defer server.Close()

	fetcher := NewBaseAdapter(testConfig(), logrus.New())
	defer fetcher.Close()
	adapter := NewMercadoLivreAdapter(fetcher, nil)

	product, err := adapter.Scrape(context.Background(), server.URL+"/MLB-1234567-fone-jbl?tracking_id=xyz#reviews")

	require.NoError(t, err)
	assert.Equal(t, "/MLB-1234567-fone-jbl", requestedPath)
	assert.Empty(t, rawQuery)
	assert.Equal(t, server.URL+"/MLB-1234567-fone-jbl", product.SourceURL)
	require.NotNil(t, product.SourceID)
	assert.Equal(t, "MLB1234567", *product.SourceID)
	require.NotNil(t, product.CurrentPrice)
	assert.True(t, decimal.RequireFromString("199.90").Equal(*product.CurrentPrice))
	require.NotNil(t, product.InstallmentCount)
	assert.Equal(t, 12, *product.InstallmentCount)
	assert.Equal(t, "in stock", product.StockStatus)
	assert.Empty(t, product.GalleryImageURLs)
}

func TestMercadoLivreAdapter_Scrape_NotFoundIsUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	fetcher := NewBaseAdapter(testConfig(), logrus.New())
	defer fetcher.Close()

	_, err := NewMercadoLivreAdapter(fetcher, nil).Scrape(context.Background(), server.URL+"/MLB-1")

	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrPageUnavailable))
	var fetchErr *types.FetchError
	require.True(t, errors.As(err, &fetchErr))
	assert.Equal(t, types.Unavailable, fetchErr.Kind)
}

func TestMercadoLivreAdapter_Scrape_Unreachable(t *testing.T) {
	source := &fakeSource{err: errors.New("dial tcp: connection refused")}
	fetcher := NewBaseAdapterWithSource(testConfig(), logrus.New(), source)

	_, err := NewMercadoLivreAdapter(fetcher, nil).Scrape(context.Background(), "https://produto.mercadolivre.com.br/MLB-1")

	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrUnreachable))
	assert.False(t, errors.Is(err, types.ErrPageUnavailable))
	assert.Contains(t, err.Error(), "connection refused")
}

func TestMercadoLivreAdapter_Scrape_PausedListing(t *testing.T) {
	source := &fakeSource{html: `<html><body><p>Anúncio pausado</p><meta itemprop="price" content="10"></body></html>`}
	fetcher := NewBaseAdapterWithSource(testConfig(), logrus.New(), source)

	product, err := NewMercadoLivreAdapter(fetcher, nil).Scrape(context.Background(), "https://produto.mercadolivre.com.br/MLB-1")

	assert.Nil(t, product)
	assert.True(t, errors.Is(err, types.ErrPageUnavailable))
}

func TestMercadoLivreAdapter_Scrape_PausedListingLogsWarning(t *testing.T) {
	logger, hook := logtest.NewNullLogger()
	source := &fakeSource{html: `<html><body><p>Anúncio pausado</p></body></html>`}
	fetcher := NewBaseAdapterWithSource(testConfig(), logger, source)

	_, err := NewMercadoLivreAdapter(fetcher, nil).Scrape(context.Background(), "https://produto.mercadolivre.com.br/MLB-1")
	require.Error(t, err)

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.WarnLevel, entry.Level)
	assert.Contains(t, entry.Message, "is unavailable")
	assert.Len(t, hook.AllEntries(), 1)
}

func TestMercadoLivreAdapter_Scrape_BlankURL(t *testing.T) {
	source := &fakeSource{}
	fetcher := NewBaseAdapterWithSource(testConfig(), logrus.New(), source)

	_, err := NewMercadoLivreAdapter(fetcher, nil).Scrape(context.Background(), "   ")

	assert.True(t, errors.Is(err, types.ErrMissingURL))
	assert.Empty(t, source.urls)
}

func TestMercadoLivreAdapter_Inspect(t *testing.T) {
	source := &fakeSource{html: listingHTML}
	fetcher := NewBaseAdapterWithSource(testConfig(), logrus.New(), source)

	result, err := NewMercadoLivreAdapter(fetcher, nil).Inspect(context.Background(), "https://produto.mercadolivre.com.br/MLB-77-fone?x=1")

	require.NoError(t, err)
	assert.Equal(t, []string{"https://produto.mercadolivre.com.br/MLB-77-fone"}, source.urls)
	assert.Len(t, result.Diagnostics, 11)
}
