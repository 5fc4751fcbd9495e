package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/mentor_bot/internal/model"
	"github.com/Freeeeeet/mentor_bot/internal/repository/base"
	"github.com/jackc/pgx/v5/pgxpool"
)

type SponsorRepository struct {
	*base.Repository
}

func NewSponsorRepository(pool *pgxpool.Pool) *SponsorRepository {
	return &SponsorRepository{Repository: base.NewRepository(pool)}
}

// Create добавляет активного спонсора
func (r *SponsorRepository) Create(ctx context.Context, sponsor *model.Sponsor) error {
	query := `
		INSERT INTO sponsors (name, url, is_active)
		VALUES ($1, $2, TRUE)
		RETURNING id, is_active, created_at
	`

	err := r.QueryRow(ctx, query, sponsor.Name, sponsor.URL).
		Scan(&sponsor.ID, &sponsor.IsActive, &sponsor.CreatedAt)
	if err != nil {
		return fmt.Errorf("create sponsor: %w", err)
	}

	return nil
}

// ListActive возвращает активных спонсоров в порядке добавления
func (r *SponsorRepository) ListActive(ctx context.Context) ([]*model.Sponsor, error) {
	query := `
		SELECT id, name, url, is_active, created_at
		FROM sponsors
		WHERE is_active = TRUE
		ORDER BY id
	`

	rows, err := r.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list active sponsors: %w", err)
	}
	defer rows.Close()

	var sponsors []*model.Sponsor
	for rows.Next() {
		var s model.Sponsor
		if err := rows.Scan(&s.ID, &s.Name, &s.URL, &s.IsActive, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan sponsor: %w", err)
		}
		sponsors = append(sponsors, &s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sponsors: %w", err)
	}

	return sponsors, nil
}

// Deactivate отключает спонсора; запись остаётся в базе
func (r *SponsorRepository) Deactivate(ctx context.Context, id int64) (bool, error) {
	affected, err := r.ExecAffected(ctx, `UPDATE sponsors SET is_active = FALSE WHERE id = $1 AND is_active = TRUE`, id)
	if err != nil {
		return false, fmt.Errorf("deactivate sponsor: %w", err)
	}
	return affected > 0, nil
}

func (r *SponsorRepository) CountActive(ctx context.Context) (int, error) {
	n, err := r.Count(ctx, `SELECT COUNT(*) FROM sponsors WHERE is_active = TRUE`)
	if err != nil {
		return 0, fmt.Errorf("count sponsors: %w", err)
	}
	return n, nil
}
