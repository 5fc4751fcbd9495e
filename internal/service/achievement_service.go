package service

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/mentor_bot/internal/model"
	"go.uber.org/zap"
)

type threshold struct {
	min  int
	code string
}

var (
	lessonThresholds = []threshold{
		{1, model.AchievementFirstLesson},
		{10, model.Achievement10Lessons},
		{50, model.Achievement50Lessons},
		{100, model.Achievement100Lessons},
	}
	courseThresholds = []threshold{
		{1, model.AchievementFirstCourse},
		{5, model.Achievement5Courses},
		{10, model.Achievement10Courses},
	}
	streakThresholds = []threshold{
		{3, model.AchievementStreak3},
		{7, model.AchievementStreak7},
		{30, model.AchievementStreak30},
	}
)

type AchievementService struct {
	repo   AchievementRepository
	logger *zap.Logger
}

func NewAchievementService(repo AchievementRepository, logger *zap.Logger) *AchievementService {
	return &AchievementService{repo: repo, logger: logger}
}

// Seed создаёт базовый набор достижений; повторный запуск ничего не меняет
func (s *AchievementService) Seed(ctx context.Context) error {
	inserted, err := s.repo.Seed(ctx, model.AchievementCatalog)
	if err != nil {
		return fmt.Errorf("seed achievements: %w", err)
	}

	s.logger.Info("✅ Achievements initialized", zap.Int("inserted", inserted))
	return nil
}

// Grant выдаёт достижение; возвращает его только если пользователь получил его впервые
func (s *AchievementService) Grant(ctx context.Context, userID int64, code string) (*model.Achievement, error) {
	achievement, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("get achievement: %w", err)
	}
	if achievement == nil {
		s.logger.Warn("Achievement not found", zap.String("code", code))
		return nil, ErrAchievementNotFound
	}

	granted, err := s.repo.Grant(ctx, userID, achievement.ID)
	if err != nil {
		return nil, err
	}
	if !granted {
		return nil, nil
	}

	s.logger.Info("🏆 Achievement unlocked",
		zap.Int64("user_id", userID),
		zap.String("code", code))
	return achievement, nil
}

// CheckLessons выдаёт достижения за количество пройденных уроков
func (s *AchievementService) CheckLessons(ctx context.Context, userID int64, lessons int) []*model.Achievement {
	return s.check(ctx, userID, lessons, lessonThresholds)
}

// CheckCourses выдаёт достижения за количество завершённых курсов
func (s *AchievementService) CheckCourses(ctx context.Context, userID int64, courses int) []*model.Achievement {
	return s.check(ctx, userID, courses, courseThresholds)
}

// CheckStreak выдаёт достижения за серию дней обучения
func (s *AchievementService) CheckStreak(ctx context.Context, userID int64, days int) []*model.Achievement {
	return s.check(ctx, userID, days, streakThresholds)
}

// check ошибки выдачи не прерывают обучение, только логируются
func (s *AchievementService) check(ctx context.Context, userID int64, value int, thresholds []threshold) []*model.Achievement {
	var unlocked []*model.Achievement
	for _, t := range thresholds {
		if value < t.min {
			break
		}

		achievement, err := s.Grant(ctx, userID, t.code)
		if err != nil {
			s.logger.Error("Failed to grant achievement",
				zap.Int64("user_id", userID),
				zap.String("code", t.code),
				zap.Error(err))
			continue
		}
		if achievement != nil {
			unlocked = append(unlocked, achievement)
		}
	}
	return unlocked
}

// List возвращает полученные пользователем достижения
func (s *AchievementService) List(ctx context.Context, userID int64) ([]*model.Achievement, error) {
	return s.repo.ListByUser(ctx, userID)
}
