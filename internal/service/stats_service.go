package service

import (
	"context"

	"github.com/grebenyuk/shortlink/internal/models"
	"github.com/grebenyuk/shortlink/internal/repository"
	"github.com/samber/lo"
)

// Константы агрегатора статистики
const (
	statsFetchCap   = 1000 // Сколько кликов максимум вычитываем из БД
	statsRecentSize = 20   // Сколько последних кликов отдаём в ответе
)

// StatsService агрегирует статистику кликов по ссылке
type StatsService interface {
	GetStats(ctx context.Context, slug string) (*models.LinkStats, error)
}

type statsService struct {
	linkRepo  repository.LinkRepository
	clickRepo repository.ClickRepository
}

func NewStatsService(linkRepo repository.LinkRepository, clickRepo repository.ClickRepository) StatsService {
	return &statsService{
		linkRepo:  linkRepo,
		clickRepo: clickRepo,
	}
}

// GetStats возвращает ссылку с историей кликов.
// Total — размер вычитанной пачки (не больше statsFetchCap), то есть
// при превышении лимита это не точное общее число кликов. Это
// сознательное ограничение точности, а не баг.
func (s *statsService) GetStats(ctx context.Context, slug string) (*models.LinkStats, error) {
	link, err := s.linkRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	clicks, err := s.clickRepo.ListByLink(ctx, link.ID, statsFetchCap)
	if err != nil {
		return nil, err
	}

	return &models.LinkStats{
		Slug:      link.Slug,
		URL:       link.URL,
		CreatedAt: link.CreatedAt,
		Total:     int64(len(clicks)),
		Recent:    lo.Slice(clicks, 0, statsRecentSize),
	}, nil
}
