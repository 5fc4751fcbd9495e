package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/mentor_bot/internal/model"
	"github.com/Freeeeeet/mentor_bot/internal/repository/base"
	"github.com/jackc/pgx/v5/pgxpool"
)

type BroadcastRepository struct {
	*base.Repository
}

func NewBroadcastRepository(pool *pgxpool.Pool) *BroadcastRepository {
	return &BroadcastRepository{Repository: base.NewRepository(pool)}
}

// Create сохраняет рассылку до начала отправки
func (r *BroadcastRepository) Create(ctx context.Context, b *model.Broadcast) error {
	query := `
		INSERT INTO broadcasts (name, description, content_type, content, button_text, button_url)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, sent_at
	`

	// content хранится как JSONB, pgx сериализует структуру сам
	err := r.QueryRow(
		ctx, query,
		b.Name,
		b.Description,
		string(b.ContentType),
		b.Content,
		b.ButtonText,
		b.ButtonURL,
	).Scan(&b.ID, &b.SentAt)

	if err != nil {
		return fmt.Errorf("create broadcast: %w", err)
	}

	return nil
}

// UpdateTally записывает итог отправки
func (r *BroadcastRepository) UpdateTally(ctx context.Context, id int64, sent, failed int) error {
	affected, err := r.ExecAffected(ctx,
		`UPDATE broadcasts SET sent_count = $1, failed_count = $2 WHERE id = $3`,
		sent, failed, id)
	if err != nil {
		return fmt.Errorf("update broadcast tally: %w", err)
	}

	if affected == 0 {
		return fmt.Errorf("broadcast not found")
	}

	return nil
}

func (r *BroadcastRepository) CountAll(ctx context.Context) (int, error) {
	n, err := r.Count(ctx, `SELECT COUNT(*) FROM broadcasts`)
	if err != nil {
		return 0, fmt.Errorf("count broadcasts: %w", err)
	}
	return n, nil
}
