package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/pureskin/dupefinder/internal/domain"
	"github.com/pureskin/dupefinder/internal/usecase"
)

// Services bundles the use cases the HTTP layer exposes
type Services struct {
	Search    *usecase.SearchService
	Dupes     *usecase.DupeService
	Reports   *usecase.ReportService
	Scans     *usecase.ScanService
	Recommend *usecase.RecommendService
	Reviews   *usecase.ReviewService
	Favorites *usecase.FavoritesService
	Index     *usecase.IndexManager
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	services  Services
	cacheName string
	version   string
	logger    zerolog.Logger
}

// NewHandler creates a new HTTP handler
func NewHandler(services Services, cacheName, version string, logger zerolog.Logger) *Handler {
	return &Handler{
		services:  services,
		cacheName: cacheName,
		version:   version,
		logger:    logger,
	}
}

// Root describes the service and the size of the active index
func (h *Handler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service":          "dupefinder-api",
		"status":           "online",
		"version":          h.version,
		"products_indexed": h.services.Search.ProductCount(),
	})
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":   "healthy",
		"ready":    h.services.Search.Ready(),
		"products": h.services.Search.ProductCount(),
		"cache":    h.cacheName,
	})
}

// AnalyzeQuality runs the full ingredient analysis for one product
func (h *Handler) AnalyzeQuality(c *gin.Context) {
	if !h.requireIndex(c) {
		return
	}

	var query domain.QualityQuery
	if err := c.ShouldBindJSON(&query); err != nil {
		h.badRequest(c, err)
		return
	}

	report := h.services.Reports.BuildReport(c.Request.Context(), query)
	c.JSON(http.StatusOK, report)
}

// FindDupes searches for cheaper products with a similar ingredient profile
func (h *Handler) FindDupes(c *gin.Context) {
	if !h.requireIndex(c) {
		return
	}

	var query domain.DupeQuery
	if err := c.ShouldBindJSON(&query); err != nil {
		h.badRequest(c, err)
		return
	}

	verdict := h.services.Dupes.FindDupes(c.Request.Context(), query)
	c.JSON(http.StatusOK, verdict)
}

// ScanLabel resolves label text from the client's OCR step against the catalog
func (h *Handler) ScanLabel(c *gin.Context) {
	if !h.requireIndex(c) {
		return
	}

	var query domain.ScanQuery
	if err := c.ShouldBindJSON(&query); err != nil {
		h.badRequest(c, err)
		return
	}

	result, err := h.services.Scans.Scan(c.Request.Context(), query)
	if err != nil {
		h.logger.Error().Err(err).Str("product", query.ProductName).Msg("Label scan failed")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Label scan failed",
		})
		return
	}

	c.JSON(http.StatusOK, result)
}

// Recommend returns top-rated products for a skin type within a budget
func (h *Handler) Recommend(c *gin.Context) {
	if !h.requireIndex(c) {
		return
	}

	var query domain.RecommendQuery
	if err := c.ShouldBindJSON(&query); err != nil {
		h.badRequest(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"recommendations": h.services.Recommend.Recommend(query),
	})
}

// AnalyzeReview scores the sentiment of one review text. Works without the
// index, so it is not gated on readiness.
func (h *Handler) AnalyzeReview(c *gin.Context) {
	var query domain.ReviewQuery
	if err := c.ShouldBindJSON(&query); err != nil {
		h.badRequest(c, err)
		return
	}

	c.JSON(http.StatusOK, h.services.Reviews.Analyze(query))
}

// ListFilters returns the distinct filter values for client dropdowns
func (h *Handler) ListFilters(c *gin.Context) {
	c.JSON(http.StatusOK, h.services.Search.Filters())
}

// ListFavorites returns every saved favorite
func (h *Handler) ListFavorites(c *gin.Context) {
	favorites := h.services.Favorites.List()
	c.JSON(http.StatusOK, gin.H{
		"count":     len(favorites),
		"favorites": favorites,
	})
}

// AddFavorite saves a product to the favorites list
func (h *Handler) AddFavorite(c *gin.Context) {
	var favorite domain.Favorite
	if err := c.ShouldBindJSON(&favorite); err != nil {
		h.badRequest(c, err)
		return
	}

	added, total := h.services.Favorites.Add(favorite)
	message := "Added to favorites"
	if !added {
		message = "Already in favorites"
	}

	c.JSON(http.StatusOK, gin.H{
		"message": message,
		"count":   total,
	})
}

// RemoveFavorite deletes every favorite with the given product name
func (h *Handler) RemoveFavorite(c *gin.Context) {
	total := h.services.Favorites.Remove(c.Param("name"))
	c.JSON(http.StatusOK, gin.H{
		"message": "Removed from favorites",
		"count":   total,
	})
}

// Reindex reloads the catalog and swaps in a freshly built index
func (h *Handler) Reindex(c *gin.Context) {
	count, err := h.services.Index.Rebuild(c.Request.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("Reindex failed")

		status := http.StatusInternalServerError
		message := "Reindex failed"
		if errors.Is(err, domain.ErrProviderUnavailable) {
			status = http.StatusBadGateway
			message = "Embedding service temporarily unavailable"
		}
		c.JSON(status, gin.H{"error": message})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Index rebuilt",
		"products": count,
	})
}

// requireIndex aborts with 503 until the first index build completes
func (h *Handler) requireIndex(c *gin.Context) bool {
	if h.services.Search.Ready() {
		return true
	}
	c.JSON(http.StatusServiceUnavailable, gin.H{
		"error": "Search index not ready - try again shortly",
	})
	return false
}

// badRequest reports a body that failed binding or validation
func (h *Handler) badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error":   "Invalid request body",
		"details": err.Error(),
	})
}
