package app

import (
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/mentor_bot/internal/service"
	"github.com/go-co-op/gocron"
	"go.uber.org/zap"
)

const (
	resumeReminderAt = "19:00"
	weeklyNudgeAt    = "12:00"
	weeklyStatsAt    = "18:00"
)

// Notifier плановые рассылки; реализация: service.NotificationService
type Notifier interface {
	SendDailyTips(ctx context.Context) (*service.DeliveryReport, error)
	SendResumeReminders(ctx context.Context) (*service.DeliveryReport, error)
	NudgeInactive(ctx context.Context) (*service.DeliveryReport, error)
	SendWeeklyStats(ctx context.Context) (*service.DeliveryReport, error)
}

// ScheduleConfig время запуска задач в часовом поясе location
type ScheduleConfig struct {
	Location   *time.Location
	DailyTipAt string
}

// Scheduler управляет фоновыми задачами
type Scheduler struct {
	cron     *gocron.Scheduler
	notifier Notifier
	cfg      ScheduleConfig
	logger   *zap.Logger
	ctx      context.Context
	cancel   context.CancelFunc
}

// NewScheduler создаёт новый планировщик
func NewScheduler(notifier Notifier, cfg ScheduleConfig, logger *zap.Logger) *Scheduler {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	cron := gocron.NewScheduler(cfg.Location)
	cron.SingletonModeAll()

	return &Scheduler{
		cron:     cron,
		notifier: notifier,
		cfg:      cfg,
		logger:   logger,
	}
}

// Start регистрирует задачи и запускает планировщик без блокировки
func (s *Scheduler) Start(ctx context.Context) error {
	s.ctx, s.cancel = context.WithCancel(ctx)

	s.logger.Info("Starting background scheduler",
		zap.String("location", s.cfg.Location.String()),
		zap.String("daily_tip_at", s.cfg.DailyTipAt))

	if _, err := s.cron.Every(1).Day().At(s.cfg.DailyTipAt).Do(s.job("daily_tip", s.notifier.SendDailyTips)); err != nil {
		return fmt.Errorf("schedule daily tip: %w", err)
	}
	if _, err := s.cron.Every(1).Day().At(resumeReminderAt).Do(s.job("resume_reminder", s.notifier.SendResumeReminders)); err != nil {
		return fmt.Errorf("schedule resume reminder: %w", err)
	}
	if _, err := s.cron.Every(1).Week().Monday().At(weeklyNudgeAt).Do(s.job("inactive_nudge", s.notifier.NudgeInactive)); err != nil {
		return fmt.Errorf("schedule inactive nudge: %w", err)
	}
	if _, err := s.cron.Every(1).Week().Sunday().At(weeklyStatsAt).Do(s.job("weekly_stats", s.notifier.SendWeeklyStats)); err != nil {
		return fmt.Errorf("schedule weekly stats: %w", err)
	}

	s.cron.StartAsync()
	return nil
}

// Stop останавливает фоновые задачи
func (s *Scheduler) Stop() {
	s.logger.Info("Stopping background scheduler")
	if s.cancel != nil {
		s.cancel()
	}
	s.cron.Stop()
}

// Jobs количество зарегистрированных задач
func (s *Scheduler) Jobs() int {
	return len(s.cron.Jobs())
}

func (s *Scheduler) job(name string, run func(ctx context.Context) (*service.DeliveryReport, error)) func() {
	return func() {
		ctx := s.ctx
		if ctx == nil {
			ctx = context.Background()
		}
		s.runJob(ctx, name, run)
	}
}

func (s *Scheduler) runJob(ctx context.Context, name string, run func(ctx context.Context) (*service.DeliveryReport, error)) {
	if ctx.Err() != nil {
		return
	}

	started := time.Now()
	s.logger.Info("Scheduled job started", zap.String("job", name))

	report, err := run(ctx)
	if err != nil {
		s.logger.Error("Scheduled job failed", zap.String("job", name), zap.Error(err))
		return
	}

	s.logger.Info("Scheduled job completed",
		zap.String("job", name),
		zap.Int("sent", report.Sent),
		zap.Int("failed", report.Failed),
		zap.Duration("duration", time.Since(started)))
}
