package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"mercadolivre-sync/catalog"
	"mercadolivre-sync/internal/types"
)

type stubBackend struct {
	token    string
	products []types.CatalogProduct
	err      error
	gotToken string
	gotID    string
}

func (s *stubBackend) Login(ctx context.Context, creds catalog.Credentials) (string, error) {
	return s.token, s.err
}

func (s *stubBackend) ListAll(ctx context.Context, token string) ([]types.CatalogProduct, error) {
	s.gotToken = token
	return s.products, s.err
}

func (s *stubBackend) FindByID(ctx context.Context, token, productID string) (*types.CatalogProduct, error) {
	s.gotToken = token
	s.gotID = productID
	if s.err != nil {
		return nil, s.err
	}
	return &s.products[0], nil
}

func setupBackendRouter(backend Backend) http.Handler {
	return SetupRouter("test", NewHandler(&stubScraper{}, nil, backend, logrus.New()))
}

func TestBackendLogin(t *testing.T) {
	router := setupBackendRouter(&stubBackend{token: "tok-1"})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/casa-moreno-backend/login", strings.NewReader(`{"username":"admin","password":"secret"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"token":"tok-1"}`, w.Body.String())
}

func TestBackendLogin_Errors(t *testing.T) {
	tests := []struct {
		name    string
		backend *stubBackend
		body    string
		code    int
	}{
		{"missing password", &stubBackend{}, `{"username":"admin"}`, http.StatusBadRequest},
		{"bad json", &stubBackend{}, `{`, http.StatusBadRequest},
		{"rejected", &stubBackend{err: fmt.Errorf("login: %w", types.ErrUnauthorized)}, `{"username":"a","password":"b"}`, http.StatusUnauthorized},
		{"backend down", &stubBackend{err: fmt.Errorf("login: request failed")}, `{"username":"a","password":"b"}`, http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/casa-moreno-backend/login", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			setupBackendRouter(tt.backend).ServeHTTP(w, req)

			assert.Equal(t, tt.code, w.Code)
		})
	}
}

func TestBackendListAll(t *testing.T) {
	price := decimal.RequireFromString("1809")
	backend := &stubBackend{products: []types.CatalogProduct{{ProductID: "p-1", CurrentPrice: &price}}}
	router := setupBackendRouter(backend)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/casa-moreno-backend/products/list-all", nil)
	req.Header.Set("Authorization", "Bearer tok-1")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "tok-1", backend.gotToken)
	assert.Contains(t, w.Body.String(), `"currentPrice":1809.00`)

	var body []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body, 1)
	assert.Equal(t, "p-1", body[0]["productId"])
}

func TestBackendListAll_EmptyCatalog(t *testing.T) {
	router := setupBackendRouter(&stubBackend{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/casa-moreno-backend/products/list-all", nil)
	req.Header.Set("Authorization", "Bearer tok-1")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", w.Body.String())
}

func TestBackendListAll_RequiresToken(t *testing.T) {
	backend := &stubBackend{}
	router := setupBackendRouter(backend)

	for _, header := range []string{"", "Basic abc", "Bearer   "} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/casa-moreno-backend/products/list-all", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code, header)
	}
	assert.Empty(t, backend.gotToken)
}

func TestBackendFindByID(t *testing.T) {
	backend := &stubBackend{products: []types.CatalogProduct{{ProductID: "p-7"}}}
	router := setupBackendRouter(backend)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/casa-moreno-backend/products/p-7", nil)
	req.Header.Set("Authorization", "Bearer tok-1")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "p-7", backend.gotID)
	assert.Contains(t, w.Body.String(), `"productId":"p-7"`)
}

func TestBackendFindByID_NotFoundThroughClient(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/products/missing", r.URL.Path)
		assert.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))
		http.Error(w, "product not found", http.StatusNotFound)
	}))
	defer server.Close()

	client := catalog.NewClient(server.URL, time.Second, logrus.New())
	router := setupBackendRouter(client)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/casa-moreno-backend/products/missing", nil)
	req.Header.Set("Authorization", "Bearer tok-1")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "product not found")
}

func TestBackendFindByID_Unauthorized(t *testing.T) {
	router := setupBackendRouter(&stubBackend{err: fmt.Errorf("find product p-1: %w", types.ErrUnauthorized)})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/casa-moreno-backend/products/p-1", nil)
	req.Header.Set("Authorization", "Bearer expired")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
