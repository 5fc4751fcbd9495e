package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/mentor_bot/internal/model"
	"github.com/Freeeeeet/mentor_bot/internal/repository/base"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const progressColumns = `id, user_id, subcategory_id, current_material_index, completed_materials, rating, last_accessed`

type ProgressRepository struct {
	*base.Repository
}

func NewProgressRepository(pool *pgxpool.Pool) *ProgressRepository {
	return &ProgressRepository{Repository: base.NewRepository(pool)}
}

func scanProgress(row pgx.Row) (*model.UserProgress, error) {
	var p model.UserProgress
	var rating *int16
	err := row.Scan(
		&p.ID,
		&p.UserID,
		&p.SubcategoryID,
		&p.CurrentMaterialIndex,
		&p.CompletedMaterials,
		&rating,
		&p.LastAccessed,
	)
	if err != nil {
		return nil, err
	}
	if rating != nil {
		v := int(*rating)
		p.Rating = &v
	}
	return &p, nil
}

func (r *ProgressRepository) queryProgress(ctx context.Context, op, query string, args ...interface{}) ([]*model.UserProgress, error) {
	rows, err := r.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var items []*model.UserProgress
	for rows.Next() {
		p, err := scanProgress(rows)
		if err != nil {
			return nil, fmt.Errorf("scan progress: %w", err)
		}
		items = append(items, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate progress: %w", err)
	}

	return items, nil
}

// Get возвращает прогресс пользователя в подкатегории
func (r *ProgressRepository) Get(ctx context.Context, userID, subcategoryID int64) (*model.UserProgress, error) {
	query := `SELECT ` + progressColumns + ` FROM user_progress WHERE user_id = $1 AND subcategory_id = $2`

	p, err := scanProgress(r.QueryRow(ctx, query, userID, subcategoryID))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get progress: %w", err)
	}
	return p, nil
}

// Upsert возвращает прогресс, создавая его при первом обращении.
// Уникальный ключ (user_id, subcategory_id) не даёт создать дубликат при параллельных запросах.
func (r *ProgressRepository) Upsert(ctx context.Context, userID, subcategoryID int64) (*model.UserProgress, error) {
	query := `
		INSERT INTO user_progress (user_id, subcategory_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, subcategory_id) DO UPDATE SET last_accessed = NOW()
		RETURNING ` + progressColumns

	p, err := scanProgress(r.QueryRow(ctx, query, userID, subcategoryID))
	if err != nil {
		return nil, fmt.Errorf("upsert progress: %w", err)
	}
	return p, nil
}

// Save сохраняет позицию и пройденные уроки
func (r *ProgressRepository) Save(ctx context.Context, p *model.UserProgress) error {
	completed := p.CompletedMaterials
	if completed == nil {
		completed = []int{}
	}

	query := `
		UPDATE user_progress
		SET current_material_index = $1, completed_materials = $2, last_accessed = NOW()
		WHERE id = $3
		RETURNING last_accessed
	`

	err := r.QueryRow(ctx, query, p.CurrentMaterialIndex, completed, p.ID).Scan(&p.LastAccessed)
	if err != nil {
		if base.IsNotFound(err) {
			return fmt.Errorf("progress not found")
		}
		return fmt.Errorf("save progress: %w", err)
	}
	return nil
}

// SetRating сохраняет оценку курса
func (r *ProgressRepository) SetRating(ctx context.Context, userID, subcategoryID int64, rating int) error {
	affected, err := r.ExecAffected(ctx,
		`UPDATE user_progress SET rating = $1 WHERE user_id = $2 AND subcategory_id = $3`,
		rating, userID, subcategoryID)
	if err != nil {
		return fmt.Errorf("set rating: %w", err)
	}

	if affected == 0 {
		return fmt.Errorf("progress not found")
	}
	return nil
}

// ListByUser возвращает прогресс пользователя, последние курсы первыми
func (r *ProgressRepository) ListByUser(ctx context.Context, userID int64) ([]*model.UserProgress, error) {
	return r.queryProgress(ctx, "list user progress",
		`SELECT `+progressColumns+` FROM user_progress WHERE user_id = $1 ORDER BY last_accessed DESC`, userID)
}

// ListByUserSince возвращает курсы, открытые пользователем после since
func (r *ProgressRepository) ListByUserSince(ctx context.Context, userID int64, since time.Time) ([]*model.UserProgress, error) {
	return r.queryProgress(ctx, "list recent user progress",
		`SELECT `+progressColumns+` FROM user_progress WHERE user_id = $1 AND last_accessed >= $2`, userID, since)
}

// LatestPerUser возвращает последний открытый курс каждого пользователя
func (r *ProgressRepository) LatestPerUser(ctx context.Context) ([]*model.UserProgress, error) {
	return r.queryProgress(ctx, "list latest progress",
		`SELECT DISTINCT ON (user_id) `+progressColumns+` FROM user_progress ORDER BY user_id, last_accessed DESC`)
}

// CountByUser количество начатых пользователем курсов
func (r *ProgressRepository) CountByUser(ctx context.Context, userID int64) (int, error) {
	n, err := r.Count(ctx, `SELECT COUNT(*) FROM user_progress WHERE user_id = $1`, userID)
	if err != nil {
		return 0, fmt.Errorf("count user progress: %w", err)
	}
	return n, nil
}

// CountLearners количество пользователей, начавших хотя бы один курс
func (r *ProgressRepository) CountLearners(ctx context.Context) (int, error) {
	n, err := r.Count(ctx, `SELECT COUNT(DISTINCT user_id) FROM user_progress`)
	if err != nil {
		return 0, fmt.Errorf("count learners: %w", err)
	}
	return n, nil
}
