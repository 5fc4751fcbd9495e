package service

import (
	"context"
	"fmt"
	"html"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// DeliveryReport итог рассылки уведомлений
type DeliveryReport struct {
	Sent   int
	Failed int
}

// NotificationService плановые уведомления: совет дня, напоминания, недельная статистика
type NotificationService struct {
	content      ContentReader
	userRepo     UserRepository
	progressRepo ProgressRepository
	sender       MessageSender
	pacer        *Pacer
	inactiveDays int
	now          func() time.Time
	logger       *zap.Logger
}

func NewNotificationService(
	content ContentReader,
	userRepo UserRepository,
	progressRepo ProgressRepository,
	sender MessageSender,
	pacer *Pacer,
	inactiveDays int,
	logger *zap.Logger,
) *NotificationService {
	return &NotificationService{
		content:      content,
		userRepo:     userRepo,
		progressRepo: progressRepo,
		sender:       sender,
		pacer:        pacer,
		inactiveDays: inactiveDays,
		now:          time.Now,
		logger:       logger,
	}
}

func (s *NotificationService) send(ctx context.Context, chatID int64, text string, report *DeliveryReport) error {
	if err := s.pacer.Wait(ctx); err != nil {
		return err
	}

	_, err := s.sender.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:    chatID,
		Text:      text,
		ParseMode: models.ParseModeHTML,
	})
	if err != nil {
		report.Failed++
		s.logger.Warn("Failed to send notification", zap.Int64("chat_id", chatID), zap.Error(err))
		return nil
	}
	report.Sent++
	return nil
}

// SendDailyTips отправляет совет дня пользователям, активным за последнюю неделю
func (s *NotificationService) SendDailyTips(ctx context.Context) (*DeliveryReport, error) {
	users, err := s.userRepo.ActiveSince(ctx, s.now().AddDate(0, 0, -7))
	if err != nil {
		return nil, fmt.Errorf("load active users: %w", err)
	}

	tip := s.content.RandomTip()
	text := "💡 <b>Совет дня</b>\n\n" + html.EscapeString(tip)

	report := &DeliveryReport{}
	for _, u := range users {
		if err := s.send(ctx, u.TelegramID, text, report); err != nil {
			return report, err
		}
	}

	s.logger.Info("✅ Daily tips sent", zap.Int("sent", report.Sent), zap.Int("failed", report.Failed))
	return report, nil
}

// SendResumeReminders напоминает о последнем незавершённом курсе
func (s *NotificationService) SendResumeReminders(ctx context.Context) (*DeliveryReport, error) {
	latest, err := s.progressRepo.LatestPerUser(ctx)
	if err != nil {
		return nil, fmt.Errorf("load latest progress: %w", err)
	}

	report := &DeliveryReport{}
	for _, p := range latest {
		sub, err := s.content.Subcategory(p.SubcategoryID)
		if err != nil || sub == nil {
			continue
		}
		materials, err := s.content.Materials(p.SubcategoryID)
		if err != nil || p.IsFinished(len(materials)) {
			continue
		}

		user, err := s.userRepo.GetByID(ctx, p.UserID)
		if err != nil || user == nil {
			continue
		}

		text := fmt.Sprintf(
			"👋 <b>Привет, %s!</b>\n\n"+
				"Вы остановились на курсе <b>%s</b>.\n"+
				"Урок: %d\n\n"+
				"Хотите продолжить обучение? Нажмите /start и выберите '📚 Курсы'!",
			html.EscapeString(user.Name), html.EscapeString(sub.Name), p.CurrentMaterialIndex+1,
		)
		if err := s.send(ctx, user.TelegramID, text, report); err != nil {
			return report, err
		}
	}

	s.logger.Info("✅ Resume reminders sent", zap.Int("sent", report.Sent), zap.Int("failed", report.Failed))
	return report, nil
}

// NudgeInactive пишет пользователям, которые давно не заходили
func (s *NotificationService) NudgeInactive(ctx context.Context) (*DeliveryReport, error) {
	users, err := s.userRepo.InactiveSince(ctx, s.now().AddDate(0, 0, -s.inactiveDays))
	if err != nil {
		return nil, fmt.Errorf("load inactive users: %w", err)
	}

	report := &DeliveryReport{}
	for _, u := range users {
		text := fmt.Sprintf(
			"👋 <b>Мы скучаем!</b>\n\n"+
				"Привет, %s! Вы давно не заходили в бота.\n"+
				"Новые курсы уже ждут вас! Заходите продолжить обучение 🚀",
			html.EscapeString(u.Name),
		)
		if err := s.send(ctx, u.TelegramID, text, report); err != nil {
			return report, err
		}
	}

	s.logger.Info("✅ Inactive users notified", zap.Int("sent", report.Sent), zap.Int("failed", report.Failed))
	return report, nil
}

// SendWeeklyStats отправляет статистику за неделю активным пользователям
func (s *NotificationService) SendWeeklyStats(ctx context.Context) (*DeliveryReport, error) {
	weekAgo := s.now().AddDate(0, 0, -7)
	users, err := s.userRepo.ActiveSince(ctx, weekAgo)
	if err != nil {
		return nil, fmt.Errorf("load active users: %w", err)
	}

	report := &DeliveryReport{}
	for _, u := range users {
		recent, err := s.progressRepo.ListByUserSince(ctx, u.ID, weekAgo)
		if err != nil {
			s.logger.Warn("Failed to load weekly progress", zap.Int64("user_id", u.ID), zap.Error(err))
			continue
		}

		lessons := 0
		for _, p := range recent {
			lessons += len(p.CompletedMaterials)
		}

		text := fmt.Sprintf(
			"📊 <b>Ваша статистика за неделю</b>\n\n"+
				"👤 %s\n"+
				"📚 Изучено уроков: %d\n"+
				"📈 Текущий уровень: %d\n"+
				"⭐ Всего XP: %d\n\n"+
				"Так держать! 🚀",
			html.EscapeString(u.Name), lessons, u.Level, u.XP,
		)
		if err := s.send(ctx, u.TelegramID, text, report); err != nil {
			return report, err
		}
	}

	s.logger.Info("✅ Weekly stats sent", zap.Int("sent", report.Sent), zap.Int("failed", report.Failed))
	return report, nil
}
