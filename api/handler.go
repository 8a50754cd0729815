package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"mercadolivre-sync/internal/types"
)

// Scraper extracts one listing
type Scraper interface {
	Scrape(ctx context.Context, url string) (*types.ExtractedProduct, error)
}

// Synchronizer verifies the whole catalog
type Synchronizer interface {
	SynchronizeAll(ctx context.Context) (string, error)
}

// ScrapeRequest is the body of POST /scrape
type ScrapeRequest struct {
	URL string `json:"url"`
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	scraper Scraper
	sync    Synchronizer
	backend Backend
	logger  types.Logger
}

// NewHandler creates a new HTTP handler. sync may be nil when no credentials are configured.
func NewHandler(scraper Scraper, sync Synchronizer, backend Backend, logger types.Logger) *Handler {
	return &Handler{scraper: scraper, sync: sync, backend: backend, logger: logger}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// Scrape extracts the listing named by the JSON body or the url query parameter
func (h *Handler) Scrape(c *gin.Context) {
	var req ScrapeRequest
	if c.Request.Method == http.MethodPost {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
	} else {
		req.URL = c.Query("url")
	}

	if strings.TrimSpace(req.URL) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "product URL is required"})
		return
	}

	product, err := h.scraper.Scrape(c.Request.Context(), req.URL)
	if err != nil {
		h.logger.Warnf("Scrape of %s failed: %v", req.URL, err)
		c.JSON(scrapeStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, product)
}

func scrapeStatus(err error) int {
	switch {
	case errors.Is(err, types.ErrMissingURL):
		return http.StatusBadRequest
	case errors.Is(err, types.ErrPageUnavailable):
		return http.StatusNotFound
	case errors.Is(err, types.ErrUnreachable):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// SynchronizeAll runs a full synchronization and returns the plain-text report
func (h *Handler) SynchronizeAll(c *gin.Context) {
	if h.sync == nil {
		c.String(http.StatusServiceUnavailable, "synchronization is not configured: catalog credentials are missing")
		return
	}

	report, err := h.sync.SynchronizeAll(c.Request.Context())
	if err != nil {
		h.logger.Errorf("Synchronization failed: %v", err)
		c.String(http.StatusInternalServerError, "synchronization failed: %s", err.Error())
		return
	}

	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(report))
}
