package service_test

import (
	"context"
	"fmt"
	"regexp"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/grebenyuk/shortlink/internal/models"
	"github.com/grebenyuk/shortlink/internal/repository"
	"github.com/grebenyuk/shortlink/internal/service"
	"github.com/grebenyuk/shortlink/internal/service/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestService создаёт тестовое окружение с моковыми репозиториями
func setupTestService() (service.LinkService, *mocks.MockLinkRepository, *mocks.MockClickRepository, *mocks.MockCacheRepository) {
	linkRepo := mocks.NewMockLinkRepository()
	clickRepo := mocks.NewMockClickRepository()
	cacheRepo := mocks.NewMockCacheRepository()
	logger, _ := zap.NewDevelopment()
	linkService := service.NewLinkService(linkRepo, clickRepo, cacheRepo, service.NewSlugGenerator(), time.Hour, logger)
	return linkService, linkRepo, clickRepo, cacheRepo
}

// TestLinkService_CreateLink_Success проверяет успешное создание ссылки
func TestLinkService_CreateLink_Success(t *testing.T) {
	linkService, _, _, _ := setupTestService()

	input := &models.CreateLinkInput{
		URL: "https://example.com/test",
	}

	ctx := context.Background()
	link, err := linkService.CreateLink(ctx, input)

	require.NoError(t, err)
	assert.NotEmpty(t, link.ID)
	assert.Len(t, link.Slug, 7)
	assert.Equal(t, input.URL, link.URL)
	assert.False(t, link.CreatedAt.IsZero())

	// Созданную ссылку можно сразу зарезолвить
	resolved, err := linkService.ResolveSlug(ctx, link.Slug)
	require.NoError(t, err)
	assert.Equal(t, link.URL, resolved.URL)
	assert.Equal(t, link.Slug, resolved.Slug)
}

// TestLinkService_CreateLink_WithCustomSlug проверяет создание ссылки с кастомным slug
func TestLinkService_CreateLink_WithCustomSlug(t *testing.T) {
	linkService, _, _, _ := setupTestService()

	input := &models.CreateLinkInput{
		URL:  "https://example.com/test",
		Slug: "my-custom_slug",
	}

	ctx := context.Background()
	link, err := linkService.CreateLink(ctx, input)

	require.NoError(t, err)
	assert.Equal(t, "my-custom_slug", link.Slug)
}

// TestLinkService_CreateLink_SlugConflict проверяет отказ при занятом slug
func TestLinkService_CreateLink_SlugConflict(t *testing.T) {
	linkService, _, _, _ := setupTestService()

	ctx := context.Background()
	first, err := linkService.CreateLink(ctx, &models.CreateLinkInput{
		URL:  "https://example.com/first",
		Slug: "taken",
	})
	require.NoError(t, err)

	second, err := linkService.CreateLink(ctx, &models.CreateLinkInput{
		URL:  "https://example.com/second",
		Slug: "taken",
	})

	assert.ErrorIs(t, err, repository.ErrSlugExists)
	assert.Nil(t, second)

	// Исходная ссылка не изменилась
	resolved, err := linkService.ResolveSlug(ctx, "taken")
	require.NoError(t, err)
	assert.Equal(t, first.URL, resolved.URL)
	assert.Equal(t, first.ID, resolved.ID)
}

// TestLinkService_CreateLink_InvalidURL проверяет отклонение невалидного URL
func TestLinkService_CreateLink_InvalidURL(t *testing.T) {
	linkService, _, _, _ := setupTestService()

	invalidURLs := []string{
		"not-a-url",
		"example.com",
		"ftp://example.com",
		"",
	}

	ctx := context.Background()
	for _, url := range invalidURLs {
		link, err := linkService.CreateLink(ctx, &models.CreateLinkInput{URL: url})
		assert.ErrorIs(t, err, service.ErrInvalidURL, "URL должен быть отклонён: %s", url)
		assert.Nil(t, link)
	}
}

// TestLinkService_CreateLink_InvalidSlug проверяет валидацию кастомного slug
func TestLinkService_CreateLink_InvalidSlug(t *testing.T) {
	linkService, _, _, _ := setupTestService()

	// Недопустимые символы и превышение длины 64
	invalidSlugs := []string{
		"bad slug!",
		"про-ссылку",
		"with/slash",
		"aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa",
	}

	ctx := context.Background()
	for _, slug := range invalidSlugs {
		link, err := linkService.CreateLink(ctx, &models.CreateLinkInput{
			URL:  "https://example.com/test",
			Slug: slug,
		})
		assert.ErrorIs(t, err, service.ErrInvalidSlug, "slug должен быть отклонён: %q", slug)
		assert.Nil(t, link)
	}
}

// TestLinkService_ResolveSlug_FromCache проверяет получение ссылки из кэша
func TestLinkService_ResolveSlug_FromCache(t *testing.T) {
	linkService, linkRepo, _, cacheRepo := setupTestService()

	ctx := context.Background()
	created, err := linkService.CreateLink(ctx, &models.CreateLinkInput{
		URL: "https://example.com/test",
	})
	require.NoError(t, err)

	// Первый резолв кладёт ссылку в кэш
	_, err = linkService.ResolveSlug(ctx, created.Slug)
	require.NoError(t, err)

	cached, err := cacheRepo.Get(ctx, created.Slug)
	require.NoError(t, err)
	assert.Equal(t, created.ID, cached.ID)

	// Повторный резолв работает даже если БД "потеряла" запись
	linkRepo.Reset()
	resolved, err := linkService.ResolveSlug(ctx, created.Slug)
	require.NoError(t, err)
	assert.Equal(t, created.URL, resolved.URL)
}

// TestLinkService_ResolveSlug_NotFound проверяет обработку несуществующего slug
func TestLinkService_ResolveSlug_NotFound(t *testing.T) {
	linkService, _, _, _ := setupTestService()

	ctx := context.Background()
	link, err := linkService.ResolveSlug(ctx, "nonexistent")

	assert.ErrorIs(t, err, repository.ErrLinkNotFound)
	assert.Nil(t, link)
}

// TestLinkService_DeleteLink_Cascade проверяет, что удаление ссылки
// уносит и все её клики
func TestLinkService_DeleteLink_Cascade(t *testing.T) {
	linkService, _, clickRepo, cacheRepo := setupTestService()
	logger, _ := zap.NewDevelopment()
	recorder := service.NewClickRecorder(clickRepo, logger)

	ctx := context.Background()
	created, err := linkService.CreateLink(ctx, &models.CreateLinkInput{
		URL: "https://example.com/test",
	})
	require.NoError(t, err)

	// Пара кликов + прогрев кэша
	for i := 0; i < 2; i++ {
		require.NoError(t, recorder.Record(ctx, created.ID, &models.ClickMeta{IP: "1.2.3.4"}))
	}
	_, err = linkService.ResolveSlug(ctx, created.Slug)
	require.NoError(t, err)

	err = linkService.DeleteLink(ctx, created.ID)
	require.NoError(t, err)

	// Ссылка недоступна ни в кэше, ни в БД
	_, err = cacheRepo.Get(ctx, created.Slug)
	assert.Error(t, err)
	_, err = linkService.ResolveSlug(ctx, created.Slug)
	assert.ErrorIs(t, err, repository.ErrLinkNotFound)

	// Клики удалены
	assert.Equal(t, 0, clickRepo.CountByLink(created.ID))
}

// TestLinkService_DeleteLink_MissingID проверяет идемпотентность удаления:
// несуществующий id — это no-op, а не ошибка
func TestLinkService_DeleteLink_MissingID(t *testing.T) {
	linkService, _, _, _ := setupTestService()

	ctx := context.Background()
	err := linkService.DeleteLink(ctx, "does-not-exist")

	assert.NoError(t, err)
}

// TestLinkService_ListLinks проверяет порядок выдачи (новые первыми)
func TestLinkService_ListLinks(t *testing.T) {
	linkService, _, _, _ := setupTestService()

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		_, err := linkService.CreateLink(ctx, &models.CreateLinkInput{
			URL:  fmt.Sprintf("https://example.com/page-%d", i),
			Slug: fmt.Sprintf("page-%d", i),
		})
		require.NoError(t, err)
	}

	links, err := linkService.ListLinks(ctx)
	require.NoError(t, err)
	require.Len(t, links, 3)

	assert.Equal(t, "page-2", links[0].Slug)
	assert.Equal(t, "page-1", links[1].Slug)
	assert.Equal(t, "page-0", links[2].Slug)
}

// TestLinkService_GeneratedSlugs проверяет длину, алфавит и уникальность
// сгенерированных slug
func TestLinkService_GeneratedSlugs(t *testing.T) {
	linkService, _, _, _ := setupTestService()

	slugRe := regexp.MustCompile(`^[A-Za-z0-9_-]{7}$`)
	slugs := make(map[string]bool)

	ctx := context.Background()
	for i := 0; i < 100; i++ {
		link, err := linkService.CreateLink(ctx, &models.CreateLinkInput{
			URL: fmt.Sprintf("https://example.com/test-%d", i),
		})
		require.NoError(t, err)
		assert.Regexp(t, slugRe, link.Slug)
		assert.NotContains(t, slugs, link.Slug, "slug должны быть уникальными")
		slugs[link.Slug] = true
	}
}

// TestLinkService_ConcurrentCreate_SameSlug проверяет гонку создания
// с одинаковым кастомным slug: ровно один успех, остальные — конфликт
func TestLinkService_ConcurrentCreate_SameSlug(t *testing.T) {
	linkService, _, _, _ := setupTestService()

	const workers = 10
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make(chan error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			_, err := linkService.CreateLink(ctx, &models.CreateLinkInput{
				URL:  fmt.Sprintf("https://example.com/race-%d", id),
				Slug: "contested",
			})
			errs <- err
		}(i)
	}

	wg.Wait()
	close(errs)

	var successes, conflicts int
	for err := range errs {
		switch {
		case err == nil:
			successes++
		case assert.ErrorIs(t, err, repository.ErrSlugExists):
			conflicts++
		}
	}

	assert.Equal(t, 1, successes)
	assert.Equal(t, workers-1, conflicts)
}
