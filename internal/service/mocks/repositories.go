package mocks

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/grebenyuk/shortlink/internal/models"
	"github.com/grebenyuk/shortlink/internal/repository"
)

// MockLinkRepository implements repository.LinkRepository for testing
type MockLinkRepository struct {
	mu     sync.RWMutex
	bySlug map[string]*models.Link
	byID   map[string]*models.Link
	order  []string // ids в порядке создания
}

func NewMockLinkRepository() *MockLinkRepository {
	return &MockLinkRepository{
		bySlug: make(map[string]*models.Link),
		byID:   make(map[string]*models.Link),
	}
}

func (m *MockLinkRepository) Create(ctx context.Context, link *models.Link) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Атомарная проверка уникальности под мьютексом — как unique
	// constraint в настоящей БД
	if _, exists := m.bySlug[link.Slug]; exists {
		return repository.ErrSlugExists
	}

	stored := *link
	m.bySlug[stored.Slug] = &stored
	m.byID[stored.ID] = &stored
	m.order = append(m.order, stored.ID)
	return nil
}

func (m *MockLinkRepository) GetBySlug(ctx context.Context, slug string) (*models.Link, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	link, exists := m.bySlug[slug]
	if !exists {
		return nil, repository.ErrLinkNotFound
	}
	return link, nil
}

func (m *MockLinkRepository) GetByID(ctx context.Context, id string) (*models.Link, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	link, exists := m.byID[id]
	if !exists {
		return nil, repository.ErrLinkNotFound
	}
	return link, nil
}

func (m *MockLinkRepository) List(ctx context.Context) ([]*models.LinkWithClicks, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	// Новые первыми, как ORDER BY created_at DESC
	links := make([]*models.LinkWithClicks, 0, len(m.order))
	for i := len(m.order) - 1; i >= 0; i-- {
		link, exists := m.byID[m.order[i]]
		if !exists {
			continue
		}
		links = append(links, &models.LinkWithClicks{Link: *link})
	}
	return links, nil
}

func (m *MockLinkRepository) Delete(ctx context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	link, exists := m.byID[id]
	if !exists {
		return false, nil
	}
	delete(m.bySlug, link.Slug)
	delete(m.byID, id)
	return true, nil
}

func (m *MockLinkRepository) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bySlug = make(map[string]*models.Link)
	m.byID = make(map[string]*models.Link)
	m.order = nil
}

// MockClickRepository implements repository.ClickRepository for testing
type MockClickRepository struct {
	mu        sync.RWMutex
	clicks    map[string][]*models.Click // link_id -> clicks
	createErr error                      // если задана, Create возвращает её
}

func NewMockClickRepository() *MockClickRepository {
	return &MockClickRepository{
		clicks: make(map[string][]*models.Click),
	}
}

// FailCreates заставляет Create возвращать err (nil — вернуть к норме)
func (m *MockClickRepository) FailCreates(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.createErr = err
}

func (m *MockClickRepository) Create(ctx context.Context, click *models.Click) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.createErr != nil {
		return m.createErr
	}

	stored := *click
	m.clicks[stored.LinkID] = append(m.clicks[stored.LinkID], &stored)
	return nil
}

func (m *MockClickRepository) ListByLink(ctx context.Context, linkID string, limit int) ([]*models.Click, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	all := m.clicks[linkID]

	// Новые первыми, как ORDER BY created_at DESC
	sorted := make([]*models.Click, len(all))
	copy(sorted, all)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})

	if limit < len(sorted) {
		sorted = sorted[:limit]
	}
	return sorted, nil
}

func (m *MockClickRepository) DeleteByLink(ctx context.Context, linkID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.clicks, linkID)
	return nil
}

// CountByLink вспомогательный метод для тестов
func (m *MockClickRepository) CountByLink(linkID string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.clicks[linkID])
}

func (m *MockClickRepository) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clicks = make(map[string][]*models.Click)
	m.createErr = nil
}

// MockCacheRepository implements repository.CacheRepository for testing
type MockCacheRepository struct {
	mu    sync.RWMutex
	cache map[string]*models.Link
}

func NewMockCacheRepository() *MockCacheRepository {
	return &MockCacheRepository{
		cache: make(map[string]*models.Link),
	}
}

func (m *MockCacheRepository) Get(ctx context.Context, slug string) (*models.Link, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	link, exists := m.cache[slug]
	if !exists {
		return nil, repository.ErrLinkNotFound
	}
	return link, nil
}

func (m *MockCacheRepository) Set(ctx context.Context, slug string, link *models.Link, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cache[slug] = link
	return nil
}

func (m *MockCacheRepository) Delete(ctx context.Context, slug string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.cache, slug)
	return nil
}

func (m *MockCacheRepository) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cache = make(map[string]*models.Link)
}
