package service

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/grebenyuk/shortlink/internal/models"
	"github.com/grebenyuk/shortlink/internal/repository"
	"go.uber.org/zap"
)

// IP по умолчанию, когда заголовок X-Forwarded-For отсутствует
const unknownIP = "0.0.0.0"

// ClickRecorder записывает клики по коротким ссылкам.
// Запись синхронная: вызывающий решает, что делать с ошибкой
// (на пути редиректа она логируется и игнорируется).
type ClickRecorder interface {
	Record(ctx context.Context, linkID string, meta *models.ClickMeta) error
}

type clickRecorder struct {
	clickRepo repository.ClickRepository
	logger    *zap.Logger
}

// NewClickRecorder создаёт новый экземпляр рекордера кликов
func NewClickRecorder(clickRepo repository.ClickRepository, logger *zap.Logger) ClickRecorder {
	return &clickRecorder{
		clickRepo: clickRepo,
		logger:    logger,
	}
}

// Record сохраняет один клик для ссылки linkID
func (r *clickRecorder) Record(ctx context.Context, linkID string, meta *models.ClickMeta) error {
	click := &models.Click{
		ID:        uuid.NewString(),
		LinkID:    linkID,
		IP:        meta.IP,
		UserAgent: meta.UserAgent,
		Referer:   meta.Referer,
		CreatedAt: time.Now().UTC(),
	}

	return r.clickRepo.Create(ctx, click)
}

// ExtractClickMeta извлекает метаданные клиента из заголовков запроса.
// IP — первый элемент X-Forwarded-For, иначе 0.0.0.0;
// User-Agent и Referer могут быть пустыми.
func ExtractClickMeta(header http.Header) *models.ClickMeta {
	ip := unknownIP
	if fwd := header.Get("X-Forwarded-For"); fwd != "" {
		first := strings.TrimSpace(strings.Split(fwd, ",")[0])
		if first != "" {
			ip = first
		}
	}

	return &models.ClickMeta{
		IP:        ip,
		UserAgent: header.Get("User-Agent"),
		Referer:   header.Get("Referer"),
	}
}
