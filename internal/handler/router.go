package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/grebenyuk/shortlink/internal/middleware"
	"github.com/grebenyuk/shortlink/internal/service"
	"go.uber.org/zap"
)

func NewRouter(
	linkService service.LinkService,
	clickRecorder service.ClickRecorder,
	statsService service.StatsService,
	baseURL string,
	logger *zap.Logger,
) *gin.Engine {
	router := gin.Default()

	// Middleware для логгирования
	router.Use(middleware.RequestLogger(logger))

	// Инициализация обработчика ссылок
	linkHandler := NewLinkHandler(linkService, clickRecorder, statsService, baseURL, logger)

	api := router.Group("/api")
	{
		api.GET("/health", HealthCheck)

		api.POST("/links", linkHandler.CreateLink)
		api.GET("/links", linkHandler.ListLinks)
		api.DELETE("/links/:id", linkHandler.DeleteLink)
		api.GET("/stats/:slug", linkHandler.GetStats)
	}

	// Редирект (корневой путь)
	router.GET("/:slug", linkHandler.Redirect)

	return router
}

// HealthCheck godoc
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /api/health [get]
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
