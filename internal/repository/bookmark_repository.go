package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/mentor_bot/internal/model"
	"github.com/Freeeeeet/mentor_bot/internal/repository/base"
	"github.com/jackc/pgx/v5/pgxpool"
)

type BookmarkRepository struct {
	*base.Repository
}

func NewBookmarkRepository(pool *pgxpool.Pool) *BookmarkRepository {
	return &BookmarkRepository{Repository: base.NewRepository(pool)}
}

// Add сохраняет закладку; возвращает false, если материал уже в закладках
func (r *BookmarkRepository) Add(ctx context.Context, b *model.Bookmark) (bool, error) {
	query := `
		INSERT INTO bookmarks (user_id, material_id, subcategory_id, material_name)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, material_id) DO NOTHING
		RETURNING id, added_at
	`

	err := r.QueryRow(ctx, query, b.UserID, b.MaterialID, b.SubcategoryID, b.MaterialName).
		Scan(&b.ID, &b.AddedAt)
	if err != nil {
		if base.IsNotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("add bookmark: %w", err)
	}

	return true, nil
}

// ListByUser возвращает закладки пользователя, новые первыми
func (r *BookmarkRepository) ListByUser(ctx context.Context, userID int64) ([]*model.Bookmark, error) {
	query := `
		SELECT id, user_id, material_id, subcategory_id, material_name, added_at
		FROM bookmarks
		WHERE user_id = $1
		ORDER BY added_at DESC
	`

	rows, err := r.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list bookmarks: %w", err)
	}
	defer rows.Close()

	var bookmarks []*model.Bookmark
	for rows.Next() {
		var b model.Bookmark
		if err := rows.Scan(&b.ID, &b.UserID, &b.MaterialID, &b.SubcategoryID, &b.MaterialName, &b.AddedAt); err != nil {
			return nil, fmt.Errorf("scan bookmark: %w", err)
		}
		bookmarks = append(bookmarks, &b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bookmarks: %w", err)
	}

	return bookmarks, nil
}

func (r *BookmarkRepository) CountAll(ctx context.Context) (int, error) {
	n, err := r.Count(ctx, `SELECT COUNT(*) FROM bookmarks`)
	if err != nil {
		return 0, fmt.Errorf("count bookmarks: %w", err)
	}
	return n, nil
}
