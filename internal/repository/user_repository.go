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

const userColumns = `id, telegram_id, name, surname, age, role, photo_file_id, level, xp, is_subscribed,
		streak_days, last_study_date, last_active, registered_at`

type UserRepository struct {
	*base.Repository
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{Repository: base.NewRepository(pool)}
}

func scanUser(row pgx.Row) (*model.User, error) {
	var user model.User
	err := row.Scan(
		&user.ID,
		&user.TelegramID,
		&user.Name,
		&user.Surname,
		&user.Age,
		&user.Role,
		&user.PhotoFileID,
		&user.Level,
		&user.XP,
		&user.IsSubscribed,
		&user.StreakDays,
		&user.LastStudyDate,
		&user.LastActive,
		&user.RegisteredAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) queryUsers(ctx context.Context, op, query string, args ...interface{}) ([]*model.User, error) {
	rows, err := r.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var users []*model.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}

	return users, nil
}

// Create создаёт нового пользователя
func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	query := `
		INSERT INTO users (telegram_id, name, surname, age, role, photo_file_id, level, xp, is_subscribed)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, last_active, registered_at
	`

	if user.Level == 0 {
		user.Level = 1
	}

	err := r.QueryRow(
		ctx, query,
		user.TelegramID,
		user.Name,
		user.Surname,
		user.Age,
		user.Role,
		user.PhotoFileID,
		user.Level,
		user.XP,
		user.IsSubscribed,
	).Scan(&user.ID, &user.LastActive, &user.RegisteredAt)

	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}

	return nil
}

// GetByTelegramID получает пользователя по Telegram ID
func (r *UserRepository) GetByTelegramID(ctx context.Context, telegramID int64) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE telegram_id = $1`

	user, err := scanUser(r.QueryRow(ctx, query, telegramID))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil // Пользователь не найден
		}
		return nil, fmt.Errorf("get user by telegram id: %w", err)
	}

	return user, nil
}

// GetByID получает пользователя по ID
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := scanUser(r.QueryRow(ctx, query, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user by id: %w", err)
	}

	return user, nil
}

// UpdateSubscribed обновляет флаг подписки на спонсоров
func (r *UserRepository) UpdateSubscribed(ctx context.Context, telegramID int64, subscribed bool) error {
	_, err := r.ExecAffected(ctx, `UPDATE users SET is_subscribed = $1 WHERE telegram_id = $2`, subscribed, telegramID)
	if err != nil {
		return fmt.Errorf("update subscribed: %w", err)
	}
	return nil
}

// TouchActivity обновляет время последней активности
func (r *UserRepository) TouchActivity(ctx context.Context, telegramID int64) error {
	_, err := r.ExecAffected(ctx, `UPDATE users SET last_active = NOW() WHERE telegram_id = $1`, telegramID)
	if err != nil {
		return fmt.Errorf("touch activity: %w", err)
	}
	return nil
}

// UpdateLearning сохраняет опыт, уровень и серию дней
func (r *UserRepository) UpdateLearning(ctx context.Context, user *model.User) error {
	query := `
		UPDATE users
		SET xp = $1, level = $2, streak_days = $3, last_study_date = $4
		WHERE id = $5
	`

	affected, err := r.ExecAffected(ctx, query, user.XP, user.Level, user.StreakDays, user.LastStudyDate, user.ID)
	if err != nil {
		return fmt.Errorf("update learning: %w", err)
	}

	if affected == 0 {
		return fmt.Errorf("user not found")
	}

	return nil
}

// ListAll возвращает всех пользователей в порядке регистрации
func (r *UserRepository) ListAll(ctx context.Context) ([]*model.User, error) {
	return r.queryUsers(ctx, "list users", `SELECT `+userColumns+` FROM users ORDER BY registered_at`)
}

// TelegramIDs возвращает идентификаторы всех пользователей (аудитория рассылки)
func (r *UserRepository) TelegramIDs(ctx context.Context) ([]int64, error) {
	rows, err := r.Query(ctx, `SELECT telegram_id FROM users ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list telegram ids: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan telegram id: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate telegram ids: %w", err)
	}

	return ids, nil
}

// Top возвращает пользователей с наибольшим опытом
func (r *UserRepository) Top(ctx context.Context, limit int) ([]*model.User, error) {
	return r.queryUsers(ctx, "get top users",
		`SELECT `+userColumns+` FROM users ORDER BY xp DESC, id LIMIT $1`, limit)
}

// ActiveSince возвращает пользователей, заходивших после since
func (r *UserRepository) ActiveSince(ctx context.Context, since time.Time) ([]*model.User, error) {
	return r.queryUsers(ctx, "get active users",
		`SELECT `+userColumns+` FROM users WHERE last_active >= $1 ORDER BY id`, since)
}

// InactiveSince возвращает пользователей без активности после before
func (r *UserRepository) InactiveSince(ctx context.Context, before time.Time) ([]*model.User, error) {
	return r.queryUsers(ctx, "get inactive users",
		`SELECT `+userColumns+` FROM users WHERE last_active < $1 ORDER BY id`, before)
}

func (r *UserRepository) CountAll(ctx context.Context) (int, error) {
	n, err := r.Count(ctx, `SELECT COUNT(*) FROM users`)
	if err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}

func (r *UserRepository) CountActiveSince(ctx context.Context, since time.Time) (int, error) {
	n, err := r.Count(ctx, `SELECT COUNT(*) FROM users WHERE last_active >= $1`, since)
	if err != nil {
		return 0, fmt.Errorf("count active users: %w", err)
	}
	return n, nil
}

// AverageXP средний опыт; 0 если пользователей нет
func (r *UserRepository) AverageXP(ctx context.Context) (float64, error) {
	var avg float64
	err := r.QueryRow(ctx, `SELECT COALESCE(AVG(xp), 0)::float8 FROM users`).Scan(&avg)
	if err != nil {
		return 0, fmt.Errorf("average xp: %w", err)
	}
	return avg, nil
}
