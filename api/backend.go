package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"mercadolivre-sync/catalog"
	"mercadolivre-sync/internal/types"
)

// Backend is the catalog backend reached through the proxy routes
type Backend interface {
	Login(ctx context.Context, creds catalog.Credentials) (string, error)
	ListAll(ctx context.Context, token string) ([]types.CatalogProduct, error)
	FindByID(ctx context.Context, token, productID string) (*types.CatalogProduct, error)
}

// BackendLogin exchanges catalog credentials for a bearer token
func (h *Handler) BackendLogin(c *gin.Context) {
	var creds catalog.Credentials
	if err := c.ShouldBindJSON(&creds); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if creds.Username == "" || creds.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username and password are required"})
		return
	}

	token, err := h.backend.Login(c.Request.Context(), creds)
	if err != nil {
		h.logger.Warnf("Catalog login failed: %v", err)
		c.JSON(backendStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}

// BackendListAll returns every catalog entry using the caller's bearer token
func (h *Handler) BackendListAll(c *gin.Context) {
	token, ok := bearerToken(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "bearer token is required"})
		return
	}

	products, err := h.backend.ListAll(c.Request.Context(), token)
	if err != nil {
		h.logger.Errorf("Catalog list failed: %v", err)
		c.JSON(backendStatus(err), gin.H{"error": err.Error()})
		return
	}
	if products == nil {
		products = []types.CatalogProduct{}
	}

	c.JSON(http.StatusOK, products)
}

// BackendFindByID returns one catalog entry using the caller's bearer token
func (h *Handler) BackendFindByID(c *gin.Context) {
	token, ok := bearerToken(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "bearer token is required"})
		return
	}

	product, err := h.backend.FindByID(c.Request.Context(), token, c.Param("id"))
	if err != nil {
		c.JSON(backendStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, product)
}

func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	token, found := strings.CutPrefix(header, "Bearer ")
	token = strings.TrimSpace(token)
	return token, found && token != ""
}

func backendStatus(err error) int {
	switch {
	case errors.Is(err, types.ErrUnauthorized):
		return http.StatusUnauthorized
	case catalog.IsNotFound(err):
		return http.StatusNotFound
	default:
		return http.StatusBadGateway
	}
}
