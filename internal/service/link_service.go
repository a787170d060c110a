package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/grebenyuk/shortlink/internal/models"
	"github.com/grebenyuk/shortlink/internal/repository"
	"go.uber.org/zap"
)

// Ошибки сервиса
var (
	ErrInvalidURL  = errors.New("невалидный URL")
	ErrInvalidSlug = errors.New("невалидный slug")
)

// Кастомный slug: URL-safe символы, длина 1-64
var slugPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// LinkService интерфейс сервиса ссылок
type LinkService interface {
	CreateLink(ctx context.Context, input *models.CreateLinkInput) (*models.Link, error)
	ListLinks(ctx context.Context) ([]*models.LinkWithClicks, error)
	ResolveSlug(ctx context.Context, slug string) (*models.Link, error)
	DeleteLink(ctx context.Context, id string) error
}

// linkService реализация сервиса ссылок
type linkService struct {
	linkRepo  repository.LinkRepository
	clickRepo repository.ClickRepository
	cacheRepo repository.CacheRepository
	slugGen   SlugGenerator
	cacheTTL  time.Duration
	logger    *zap.Logger
}

// NewLinkService создаёт новый экземпляр сервиса
func NewLinkService(
	linkRepo repository.LinkRepository,
	clickRepo repository.ClickRepository,
	cacheRepo repository.CacheRepository,
	slugGen SlugGenerator,
	cacheTTL time.Duration,
	logger *zap.Logger,
) LinkService {
	return &linkService{
		linkRepo:  linkRepo,
		clickRepo: clickRepo,
		cacheRepo: cacheRepo,
		slugGen:   slugGen,
		cacheTTL:  cacheTTL,
		logger:    logger,
	}
}

// CreateLink создаёт новую короткую ссылку
func (s *linkService) CreateLink(ctx context.Context, input *models.CreateLinkInput) (*models.Link, error) {
	// Валидация URL
	if err := validateURL(input.URL); err != nil {
		return nil, err
	}

	// Кастомный slug или генерация
	slug := input.Slug
	if slug == "" {
		generated, err := s.slugGen.Generate()
		if err != nil {
			return nil, fmt.Errorf("failed to generate slug: %w", err)
		}
		slug = generated
	} else if !slugPattern.MatchString(slug) {
		return nil, ErrInvalidSlug
	}

	link := &models.Link{
		ID:        uuid.NewString(),
		Slug:      slug,
		URL:       input.URL,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.linkRepo.Create(ctx, link); err != nil {
		// Коллизия сгенерированного slug крайне маловероятна,
		// но одна повторная попытка с новым slug ничего не стоит.
		// Для кастомного slug конфликт отдаём наверх как есть.
		if errors.Is(err, repository.ErrSlugExists) && input.Slug == "" {
			regenerated, genErr := s.slugGen.Generate()
			if genErr != nil {
				return nil, fmt.Errorf("failed to generate slug: %w", genErr)
			}
			link.Slug = regenerated
			if err := s.linkRepo.Create(ctx, link); err != nil {
				return nil, err
			}
			return link, nil
		}
		return nil, err
	}

	return link, nil
}

// ListLinks возвращает все ссылки (новые первыми) с количеством кликов
func (s *linkService) ListLinks(ctx context.Context) ([]*models.LinkWithClicks, error) {
	return s.linkRepo.List(ctx)
}

// ResolveSlug находит ссылку по slug (сначала из кэша, затем из БД)
func (s *linkService) ResolveSlug(ctx context.Context, slug string) (*models.Link, error) {
	// Проверка кэша
	link, err := s.cacheRepo.Get(ctx, slug)
	if err == nil {
		return link, nil
	}

	// Запрос из БД
	link, err = s.linkRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	// Кэширование результата; ошибка кэша не влияет на ответ
	if err := s.cacheRepo.Set(ctx, slug, link, s.cacheTTL); err != nil {
		s.logger.Debug("Не удалось закэшировать ссылку", zap.String("slug", slug), zap.Error(err))
	}

	return link, nil
}

// DeleteLink удаляет ссылку и все её клики.
// Порядок обязателен: сначала клики, потом сама ссылка —
// падение между шагами не оставит кликов-сирот.
// Удаление несуществующего id — no-op, не ошибка.
func (s *linkService) DeleteLink(ctx context.Context, id string) error {
	link, err := s.linkRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrLinkNotFound) {
			return nil
		}
		return err
	}

	// Инвалидация кэша до удаления из БД
	if err := s.cacheRepo.Delete(ctx, link.Slug); err != nil {
		s.logger.Debug("Не удалось удалить ссылку из кэша", zap.String("slug", link.Slug), zap.Error(err))
	}

	if err := s.clickRepo.DeleteByLink(ctx, id); err != nil {
		return err
	}

	if _, err := s.linkRepo.Delete(ctx, id); err != nil {
		return err
	}

	return nil
}

// validateURL проверяет, что строка — абсолютный http(s) URL
func validateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return ErrInvalidURL
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return ErrInvalidURL
	}
	return nil
}
