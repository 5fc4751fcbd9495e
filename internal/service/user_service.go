package service

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/mentor_bot/internal/model"
	"go.uber.org/zap"
)

// Registration данные, собранные мастером регистрации
type Registration struct {
	TelegramID  int64
	Name        string
	Surname     *string
	Age         int
	Role        string
	PhotoFileID string
}

type UserService struct {
	userRepo     UserRepository
	progressRepo ProgressRepository
	logger       *zap.Logger
}

func NewUserService(userRepo UserRepository, progressRepo ProgressRepository, logger *zap.Logger) *UserService {
	return &UserService{
		userRepo:     userRepo,
		progressRepo: progressRepo,
		logger:       logger,
	}
}

// Register создаёт пользователя из данных мастера регистрации
func (s *UserService) Register(ctx context.Context, reg Registration) (*model.User, error) {
	// Проверяем существует ли пользователь
	existingUser, err := s.userRepo.GetByTelegramID(ctx, reg.TelegramID)
	if err != nil {
		return nil, fmt.Errorf("check existing user: %w", err)
	}

	if existingUser != nil {
		return existingUser, ErrAlreadyRegistered
	}

	user := &model.User{
		TelegramID:  reg.TelegramID,
		Name:        reg.Name,
		Surname:     reg.Surname,
		Age:         reg.Age,
		Role:        reg.Role,
		PhotoFileID: reg.PhotoFileID,
		Level:       1,
	}

	err = s.userRepo.Create(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.logger.Info("New user registered",
		zap.Int64("user_id", user.ID),
		zap.Int64("telegram_id", reg.TelegramID),
		zap.String("role", reg.Role),
	)

	return user, nil
}

// GetByTelegramID получает пользователя по Telegram ID
func (s *UserService) GetByTelegramID(ctx context.Context, telegramID int64) (*model.User, error) {
	return s.userRepo.GetByTelegramID(ctx, telegramID)
}

// RequireByTelegramID получает пользователя или возвращает ErrUserNotFound
func (s *UserService) RequireByTelegramID(ctx context.Context, telegramID int64) (*model.User, error) {
	user, err := s.userRepo.GetByTelegramID(ctx, telegramID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// TouchActivity отмечает активность пользователя
func (s *UserService) TouchActivity(ctx context.Context, telegramID int64) error {
	return s.userRepo.TouchActivity(ctx, telegramID)
}

// StartedCourses количество начатых курсов пользователя
func (s *UserService) StartedCourses(ctx context.Context, userID int64) (int, error) {
	return s.progressRepo.CountByUser(ctx, userID)
}

// Top возвращает лучших пользователей по опыту
func (s *UserService) Top(ctx context.Context, limit int) ([]*model.User, error) {
	return s.userRepo.Top(ctx, limit)
}

// CountUsers общее количество пользователей
func (s *UserService) CountUsers(ctx context.Context) (int, error) {
	return s.userRepo.CountAll(ctx)
}
