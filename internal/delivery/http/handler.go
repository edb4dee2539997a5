package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dealscout/backend/internal/domain"
)

// CompareService is the pipeline the HTTP layer fronts
type CompareService interface {
	SearchAndCompare(ctx context.Context, query string) (*domain.SearchResult, error)
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	compareService CompareService
}

// NewHandler creates a new HTTP handler
func NewHandler(compareService CompareService) *Handler {
	return &Handler{compareService: compareService}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "dealscout-backend",
		"version": "1.0.0",
	})
}

// searchRequest is the body of POST /api/v1/compare/search
type searchRequest struct {
	Query string `json:"query" binding:"required"`
}

// SearchCompare handles a search-and-compare request for one product query
func (h *Handler) SearchCompare(c *gin.Context) {
	if h.compareService == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "comparison service not configured"})
		return
	}

	var req searchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query is required"})
		return
	}

	result, err := h.compareService.SearchAndCompare(c.Request.Context(), req.Query)
	if err != nil {
		h.writeError(c, err)
		return
	}

	if result.Status == domain.StatusNotFound {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "no relevant listings found on either source",
			"query": result.Query,
		})
		return
	}

	c.JSON(http.StatusOK, result)
}

// writeError maps domain errors to HTTP status codes
func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request parameters"})
	case errors.Is(err, domain.ErrEmbeddingUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "embedding service unavailable"})
	case errors.Is(err, domain.ErrSourceUnavailable):
		c.JSON(http.StatusBadGateway, gin.H{"error": "listing sources unavailable"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
