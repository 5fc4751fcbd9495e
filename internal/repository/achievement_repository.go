package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/mentor_bot/internal/model"
	"github.com/Freeeeeet/mentor_bot/internal/repository/base"
	"github.com/jackc/pgx/v5/pgxpool"
)

type AchievementRepository struct {
	*base.Repository
}

func NewAchievementRepository(pool *pgxpool.Pool) *AchievementRepository {
	return &AchievementRepository{Repository: base.NewRepository(pool)}
}

// Seed добавляет достижения из каталога, существующие коды не трогает
func (r *AchievementRepository) Seed(ctx context.Context, catalog []model.Achievement) (int, error) {
	query := `
		INSERT INTO achievements (code, name, description, icon)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (code) DO NOTHING
	`

	inserted := 0
	for _, a := range catalog {
		affected, err := r.ExecAffected(ctx, query, a.Code, a.Name, a.Description, a.Icon)
		if err != nil {
			return inserted, fmt.Errorf("seed achievement %s: %w", a.Code, err)
		}
		inserted += int(affected)
	}

	return inserted, nil
}

// GetByCode возвращает достижение по коду
func (r *AchievementRepository) GetByCode(ctx context.Context, code string) (*model.Achievement, error) {
	var a model.Achievement
	err := r.QueryRow(ctx, `SELECT id, code, name, description, icon FROM achievements WHERE code = $1`, code).
		Scan(&a.ID, &a.Code, &a.Name, &a.Description, &a.Icon)
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get achievement by code: %w", err)
	}
	return &a, nil
}

// Grant выдаёт достижение; возвращает true только при первой выдаче
func (r *AchievementRepository) Grant(ctx context.Context, userID, achievementID int64) (bool, error) {
	query := `
		INSERT INTO user_achievements (user_id, achievement_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, achievement_id) DO NOTHING
	`

	affected, err := r.ExecAffected(ctx, query, userID, achievementID)
	if err != nil {
		return false, fmt.Errorf("grant achievement: %w", err)
	}
	return affected > 0, nil
}

// ListByUser возвращает полученные достижения, последние первыми
func (r *AchievementRepository) ListByUser(ctx context.Context, userID int64) ([]*model.Achievement, error) {
	query := `
		SELECT a.id, a.code, a.name, a.description, a.icon
		FROM achievements a
		JOIN user_achievements ua ON ua.achievement_id = a.id
		WHERE ua.user_id = $1
		ORDER BY ua.unlocked_at DESC
	`

	rows, err := r.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list user achievements: %w", err)
	}
	defer rows.Close()

	var achievements []*model.Achievement
	for rows.Next() {
		var a model.Achievement
		if err := rows.Scan(&a.ID, &a.Code, &a.Name, &a.Description, &a.Icon); err != nil {
			return nil, fmt.Errorf("scan achievement: %w", err)
		}
		achievements = append(achievements, &a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate achievements: %w", err)
	}

	return achievements, nil
}
