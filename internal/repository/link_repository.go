package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/grebenyuk/shortlink/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrLinkNotFound = errors.New("link not found")
	ErrSlugExists   = errors.New("slug already exists")
)

type LinkRepository interface {
	Create(ctx context.Context, link *models.Link) error
	GetBySlug(ctx context.Context, slug string) (*models.Link, error)
	GetByID(ctx context.Context, id string) (*models.Link, error)
	List(ctx context.Context) ([]*models.LinkWithClicks, error)
	Delete(ctx context.Context, id string) (bool, error)
}

type linkRepository struct {
	db *PostgresDB
}

func NewLinkRepository(db *PostgresDB) LinkRepository {
	return &linkRepository{db: db}
}

func (r *linkRepository) Create(ctx context.Context, link *models.Link) error {
	query := `
		INSERT INTO links (id, slug, url, created_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.db.Pool.Exec(ctx, query,
		link.ID,
		link.Slug,
		link.URL,
		link.CreatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return ErrSlugExists
		}
		return fmt.Errorf("failed to create link: %w", err)
	}

	return nil
}

func (r *linkRepository) GetBySlug(ctx context.Context, slug string) (*models.Link, error) {
	query := `
		SELECT id, slug, url, created_at
		FROM links
		WHERE slug = $1
	`

	link := &models.Link{}
	err := r.db.Pool.QueryRow(ctx, query, slug).Scan(
		&link.ID,
		&link.Slug,
		&link.URL,
		&link.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrLinkNotFound
		}
		return nil, fmt.Errorf("failed to get link: %w", err)
	}

	return link, nil
}

func (r *linkRepository) GetByID(ctx context.Context, id string) (*models.Link, error) {
	query := `
		SELECT id, slug, url, created_at
		FROM links
		WHERE id = $1
	`

	link := &models.Link{}
	err := r.db.Pool.QueryRow(ctx, query, id).Scan(
		&link.ID,
		&link.Slug,
		&link.URL,
		&link.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrLinkNotFound
		}
		return nil, fmt.Errorf("failed to get link by id: %w", err)
	}

	return link, nil
}

func (r *linkRepository) List(ctx context.Context) ([]*models.LinkWithClicks, error) {
	query := `
		SELECT l.id, l.slug, l.url, l.created_at, COUNT(c.id) AS click_count
		FROM links l
		LEFT JOIN clicks c ON c.link_id = l.id
		GROUP BY l.id, l.slug, l.url, l.created_at
		ORDER BY l.created_at DESC
	`

	rows, err := r.db.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list links: %w", err)
	}
	defer rows.Close()

	var links []*models.LinkWithClicks
	for rows.Next() {
		link := &models.LinkWithClicks{}
		if err := rows.Scan(
			&link.ID,
			&link.Slug,
			&link.URL,
			&link.CreatedAt,
			&link.ClickCount,
		); err != nil {
			return nil, fmt.Errorf("failed to scan link: %w", err)
		}
		links = append(links, link)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating links: %w", err)
	}

	return links, nil
}

// Delete удаляет ссылку по id. Возвращает false, если строки не было.
func (r *linkRepository) Delete(ctx context.Context, id string) (bool, error) {
	query := `DELETE FROM links WHERE id = $1`

	result, err := r.db.Pool.Exec(ctx, query, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete link: %w", err)
	}

	return result.RowsAffected() > 0, nil
}

// Проверка нарушения уникального ограничения (SQLSTATE 23505)
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
