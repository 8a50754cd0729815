package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"mercadolivre-sync/internal/types"
)

// Credentials authenticate against the catalog backend
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

// Client talks to the catalog backend REST API
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     types.Logger
}

// NewClient creates a catalog client for baseURL
func NewClient(baseURL string, timeout time.Duration, logger types.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		logger:     logger,
	}
}

// Login exchanges credentials for a bearer token
func (c *Client) Login(ctx context.Context, creds Credentials) (string, error) {
	var resp loginResponse
	if err := c.do(ctx, http.MethodPost, "/login", "", creds, &resp); err != nil {
		return "", fmt.Errorf("login: %w", err)
	}
	if resp.Token == "" {
		return "", fmt.Errorf("login: %w: empty token", types.ErrUnauthorized)
	}
	return resp.Token, nil
}

// ListAll returns every catalog entry
func (c *Client) ListAll(ctx context.Context, token string) ([]types.CatalogProduct, error) {
	var products []types.CatalogProduct
	if err := c.do(ctx, http.MethodGet, "/products/list-all", token, nil, &products); err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	c.logger.Debugf("Catalog returned %d products", len(products))
	return products, nil
}

// FindByID returns one catalog entry
func (c *Client) FindByID(ctx context.Context, token, productID string) (*types.CatalogProduct, error) {
	var product types.CatalogProduct
	if err := c.do(ctx, http.MethodGet, "/products/"+url.PathEscape(productID), token, nil, &product); err != nil {
		return nil, fmt.Errorf("find product %s: %w", productID, err)
	}
	return &product, nil
}

// Update sends the sparse field map of payload. Empty payloads are not sent.
func (c *Client) Update(ctx context.Context, token string, payload types.UpdatePayload) error {
	if payload.Empty() {
		return nil
	}

	body := make(map[string]interface{}, len(payload.Changes)+1)
	for field, value := range payload.Fields() {
		body[field] = wireValue(value)
	}
	if err := c.do(ctx, http.MethodPut, "/products/update", token, body, nil); err != nil {
		return fmt.Errorf("update product %s: %w", payload.ProductID, err)
	}
	return nil
}

// wireValue sends amounts as JSON numbers
func wireValue(v interface{}) interface{} {
	if d, ok := v.(decimal.Decimal); ok {
		return types.AmountNumber(d)
	}
	return v
}

func (c *Client) do(ctx context.Context, method, path, token string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%w: status %d", types.ErrUnauthorized, resp.StatusCode)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return &APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(data))}
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// APIError is a non-2xx answer from the catalog backend
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("catalog backend returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("catalog backend returned status %d: %s", e.StatusCode, e.Body)
}

// IsNotFound reports whether err is a 404 from the catalog backend
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}
