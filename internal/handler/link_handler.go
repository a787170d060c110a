package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/grebenyuk/shortlink/internal/models"
	"github.com/grebenyuk/shortlink/internal/repository"
	"github.com/grebenyuk/shortlink/internal/service"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

type LinkHandler struct {
	linkService   service.LinkService
	clickRecorder service.ClickRecorder
	statsService  service.StatsService
	baseURL       string
	logger        *zap.Logger
}

func NewLinkHandler(
	linkService service.LinkService,
	clickRecorder service.ClickRecorder,
	statsService service.StatsService,
	baseURL string,
	logger *zap.Logger,
) *LinkHandler {
	return &LinkHandler{
		linkService:   linkService,
		clickRecorder: clickRecorder,
		statsService:  statsService,
		baseURL:       baseURL,
		logger:        logger,
	}
}

type CreateLinkRequest struct {
	URL  string `json:"url" binding:"required"`
	Slug string `json:"slug,omitempty"`
}

type CreateLinkResponse struct {
	ID       string `json:"id"`
	Slug     string `json:"slug"`
	ShortURL string `json:"shortUrl"`
}

type LinkListItem struct {
	ID         string    `json:"id"`
	Slug       string    `json:"slug"`
	URL        string    `json:"url"`
	CreatedAt  time.Time `json:"createdAt"`
	ClickCount int64     `json:"clickCount"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// CreateLink godoc
// @Summary Create a short link
// @Description Create a new shortened URL, optionally with a custom slug
// @Tags links
// @Accept json
// @Produce json
// @Param request body CreateLinkRequest true "Link creation request"
// @Success 200 {object} CreateLinkResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /api/links [post]
func (h *LinkHandler) CreateLink(c *gin.Context) {
	var req CreateLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Invalid request body", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: err.Error(),
		})
		return
	}

	input := &models.CreateLinkInput{
		URL:  req.URL,
		Slug: req.Slug,
	}

	link, err := h.linkService.CreateLink(c.Request.Context(), input)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidURL):
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "invalid_url",
				Message: "URL must be a valid absolute http(s) URL",
			})
		case errors.Is(err, service.ErrInvalidSlug):
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "invalid_slug",
				Message: "Slug must be 1-64 URL-safe characters",
			})
		case errors.Is(err, repository.ErrSlugExists):
			c.JSON(http.StatusConflict, ErrorResponse{
				Error:   "slug_taken",
				Message: "Slug already in use",
			})
		default:
			h.logger.Error("Failed to create link", zap.Error(err))
			c.JSON(http.StatusInternalServerError, ErrorResponse{
				Error:   "internal_error",
				Message: "Failed to create link",
			})
		}
		return
	}

	c.JSON(http.StatusOK, CreateLinkResponse{
		ID:       link.ID,
		Slug:     link.Slug,
		ShortURL: h.shortURL(c, link.Slug),
	})
}

// ListLinks godoc
// @Summary List all links
// @Description List all links (newest first) with their click counts
// @Tags links
// @Produce json
// @Success 200 {array} LinkListItem
// @Router /api/links [get]
func (h *LinkHandler) ListLinks(c *gin.Context) {
	links, err := h.linkService.ListLinks(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to list links", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: "Failed to list links",
		})
		return
	}

	items := lo.Map(links, func(link *models.LinkWithClicks, _ int) LinkListItem {
		return LinkListItem{
			ID:         link.ID,
			Slug:       link.Slug,
			URL:        link.URL,
			CreatedAt:  link.CreatedAt,
			ClickCount: link.ClickCount,
		}
	})

	c.JSON(http.StatusOK, items)
}

// DeleteLink godoc
// @Summary Delete a link
// @Description Delete a link and all of its recorded clicks. Idempotent.
// @Tags links
// @Produce json
// @Param id path string true "Link id"
// @Success 200 {object} map[string]bool
// @Router /api/links/{id} [delete]
func (h *LinkHandler) DeleteLink(c *gin.Context) {
	id := c.Param("id")

	if err := h.linkService.DeleteLink(c.Request.Context(), id); err != nil {
		h.logger.Error("Failed to delete link", zap.String("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: "Failed to delete link",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// GetStats godoc
// @Summary Get click statistics for a link
// @Description Get a link with its total and most recent clicks
// @Tags stats
// @Produce json
// @Param slug path string true "Slug"
// @Success 200 {object} models.LinkStats
// @Failure 404 {object} ErrorResponse
// @Router /api/stats/{slug} [get]
func (h *LinkHandler) GetStats(c *gin.Context) {
	slug := c.Param("slug")

	stats, err := h.statsService.GetStats(c.Request.Context(), slug)
	if err != nil {
		if errors.Is(err, repository.ErrLinkNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{
				Error:   "not_found",
				Message: "Link not found",
			})
			return
		}
		h.logger.Error("Failed to get stats", zap.String("slug", slug), zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: "Failed to get stats",
		})
		return
	}

	c.JSON(http.StatusOK, stats)
}

// shortURL собирает короткий URL: базовый origin из конфига,
// иначе origin самого запроса
func (h *LinkHandler) shortURL(c *gin.Context, slug string) string {
	base := h.baseURL
	if base == "" {
		scheme := "http"
		if c.Request.TLS != nil {
			scheme = "https"
		}
		base = scheme + "://" + c.Request.Host
	}
	return base + "/" + slug
}
