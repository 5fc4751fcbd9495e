package service

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/mentor_bot/internal/model"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

const exportSheet = "Sheet1"

// Stats сводная статистика для администратора
type Stats struct {
	Users         int
	ActiveToday   int
	ActiveWeek    int
	AverageXP     float64
	Categories    int
	Subcategories int
	Materials     int
	Learners      int
	Bookmarks     int
	Sponsors      int
	Broadcasts    int
}

// TopEntry строка админского рейтинга
type TopEntry struct {
	User           *model.User
	StartedCourses int
}

type StatsService struct {
	content       ContentReader
	userRepo      UserRepository
	progressRepo  ProgressRepository
	bookmarkRepo  BookmarkRepository
	sponsorRepo   SponsorRepository
	broadcastRepo BroadcastRepository
	now           func() time.Time
	logger        *zap.Logger
}

func NewStatsService(
	content ContentReader,
	userRepo UserRepository,
	progressRepo ProgressRepository,
	bookmarkRepo BookmarkRepository,
	sponsorRepo SponsorRepository,
	broadcastRepo BroadcastRepository,
	logger *zap.Logger,
) *StatsService {
	return &StatsService{
		content:       content,
		userRepo:      userRepo,
		progressRepo:  progressRepo,
		bookmarkRepo:  bookmarkRepo,
		sponsorRepo:   sponsorRepo,
		broadcastRepo: broadcastRepo,
		now:           time.Now,
		logger:        logger,
	}
}

// Collect собирает статистику; данные читаются без общего снимка
func (s *StatsService) Collect(ctx context.Context) (*Stats, error) {
	now := s.now()
	st := &Stats{}
	var err error

	if st.Users, err = s.userRepo.CountAll(ctx); err != nil {
		return nil, err
	}
	if st.ActiveToday, err = s.userRepo.CountActiveSince(ctx, now.Add(-24*time.Hour)); err != nil {
		return nil, err
	}
	if st.ActiveWeek, err = s.userRepo.CountActiveSince(ctx, now.AddDate(0, 0, -7)); err != nil {
		return nil, err
	}
	if st.AverageXP, err = s.userRepo.AverageXP(ctx); err != nil {
		return nil, err
	}
	if st.Learners, err = s.progressRepo.CountLearners(ctx); err != nil {
		return nil, err
	}
	if st.Bookmarks, err = s.bookmarkRepo.CountAll(ctx); err != nil {
		return nil, err
	}
	if st.Sponsors, err = s.sponsorRepo.CountActive(ctx); err != nil {
		return nil, err
	}
	if st.Broadcasts, err = s.broadcastRepo.CountAll(ctx); err != nil {
		return nil, err
	}

	categories, err := s.content.Categories()
	if err != nil {
		return nil, fmt.Errorf("count categories: %w", err)
	}
	subcategories, err := s.content.Subcategories(0)
	if err != nil {
		return nil, fmt.Errorf("count subcategories: %w", err)
	}
	materials, err := s.content.Materials(0)
	if err != nil {
		return nil, fmt.Errorf("count materials: %w", err)
	}
	st.Categories, st.Subcategories, st.Materials = len(categories), len(subcategories), len(materials)

	return st, nil
}

// AdminTop рейтинг по опыту с количеством начатых курсов
func (s *StatsService) AdminTop(ctx context.Context, limit int) ([]TopEntry, error) {
	users, err := s.userRepo.Top(ctx, limit)
	if err != nil {
		return nil, err
	}

	entries := make([]TopEntry, 0, len(users))
	for _, u := range users {
		started, err := s.progressRepo.CountByUser(ctx, u.ID)
		if err != nil {
			return nil, err
		}
		entries = append(entries, TopEntry{User: u, StartedCourses: started})
	}
	return entries, nil
}

// ExportUsers выгружает пользователей в xlsx
func (s *StatsService) ExportUsers(ctx context.Context) (*bytes.Buffer, int, error) {
	users, err := s.userRepo.ListAll(ctx)
	if err != nil {
		return nil, 0, err
	}

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			s.logger.Warn("Failed to close workbook", zap.Error(err))
		}
	}()

	header := []interface{}{
		"ID", "Telegram ID", "Имя", "Фамилия", "Возраст", "Роль",
		"Уровень", "XP", "Подписан", "Серия дней", "Последняя активность", "Дата регистрации",
	}
	if err := f.SetSheetRow(exportSheet, "A1", &header); err != nil {
		return nil, 0, fmt.Errorf("write header: %w", err)
	}

	for i, u := range users {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, 0, err
		}

		row := []interface{}{
			u.ID, u.TelegramID, u.Name, u.SurnameOrDash(), u.Age, u.Role,
			u.Level, u.XP, u.IsSubscribed, u.StreakDays,
			u.LastActive.Format("02.01.2006 15:04"), u.RegisteredAt.Format("02.01.2006 15:04"),
		}
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return nil, 0, fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	if err := f.SetColWidth(exportSheet, "A", "L", 18); err != nil {
		return nil, 0, fmt.Errorf("set column width: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, 0, fmt.Errorf("write workbook: %w", err)
	}

	s.logger.Info("Users exported", zap.Int("count", len(users)))
	return buf, len(users), nil
}
