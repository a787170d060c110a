package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/grebenyuk/shortlink/internal/service"
	"go.uber.org/zap"
)

// Redirect godoc
// @Summary Redirect to the destination URL
// @Description Resolve a slug and redirect; unknown slugs fall back to the site root
// @Tags redirect
// @Param slug path string true "Slug"
// @Success 302 {object} nil
// @Router /{slug} [get]
func (h *LinkHandler) Redirect(c *gin.Context) {
	slug := c.Param("slug")

	link, err := h.linkService.ResolveSlug(c.Request.Context(), slug)
	if err != nil {
		// Неизвестный slug — молча уводим на корень, без страницы ошибки
		c.Redirect(http.StatusFound, "/")
		return
	}

	// Запись клика best-effort: любая ошибка логируется и не должна
	// помешать редиректу. Потерять клик допустимо, потерять редирект — нет.
	meta := service.ExtractClickMeta(c.Request.Header)
	if err := h.clickRecorder.Record(c.Request.Context(), link.ID, meta); err != nil {
		h.logger.Warn("Не удалось записать клик",
			zap.String("slug", slug),
			zap.Error(err),
		)
	}

	c.Redirect(http.StatusFound, link.URL)
}
