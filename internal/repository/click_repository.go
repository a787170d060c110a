package repository

import (
	"context"
	"fmt"

	"github.com/grebenyuk/shortlink/internal/models"
)

type ClickRepository interface {
	Create(ctx context.Context, click *models.Click) error
	ListByLink(ctx context.Context, linkID string, limit int) ([]*models.Click, error)
	DeleteByLink(ctx context.Context, linkID string) error
}

type clickRepository struct {
	db *PostgresDB
}

func NewClickRepository(db *PostgresDB) ClickRepository {
	return &clickRepository{db: db}
}

func (r *clickRepository) Create(ctx context.Context, click *models.Click) error {
	query := `
		INSERT INTO clicks (id, link_id, ip, user_agent, referer, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.Pool.Exec(ctx, query,
		click.ID,
		click.LinkID,
		click.IP,
		click.UserAgent,
		click.Referer,
		click.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to record click: %w", err)
	}

	return nil
}

// ListByLink возвращает последние клики ссылки (новые первыми), не больше limit
func (r *clickRepository) ListByLink(ctx context.Context, linkID string, limit int) ([]*models.Click, error) {
	query := `
		SELECT id, link_id, ip, user_agent, referer, created_at
		FROM clicks
		WHERE link_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.db.Pool.Query(ctx, query, linkID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list clicks: %w", err)
	}
	defer rows.Close()

	var clicks []*models.Click
	for rows.Next() {
		click := &models.Click{}
		if err := rows.Scan(
			&click.ID,
			&click.LinkID,
			&click.IP,
			&click.UserAgent,
			&click.Referer,
			&click.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan click: %w", err)
		}
		clicks = append(clicks, click)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating clicks: %w", err)
	}

	return clicks, nil
}

// DeleteByLink удаляет все клики ссылки. Вызывается строго до удаления
// самой ссылки (каскад поддерживается вручную, а не через ON DELETE).
func (r *clickRepository) DeleteByLink(ctx context.Context, linkID string) error {
	query := `DELETE FROM clicks WHERE link_id = $1`

	if _, err := r.db.Pool.Exec(ctx, query, linkID); err != nil {
		return fmt.Errorf("failed to delete clicks: %w", err)
	}

	return nil
}
