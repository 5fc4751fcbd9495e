package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Freeeeeet/mentor_bot/internal/app"
	"github.com/Freeeeeet/mentor_bot/internal/config"
	"github.com/Freeeeeet/mentor_bot/internal/controller"
	"github.com/Freeeeeet/mentor_bot/internal/controller/handlers"
	"github.com/Freeeeeet/mentor_bot/internal/controller/state"
	"github.com/Freeeeeet/mentor_bot/internal/repository"
	"github.com/Freeeeeet/mentor_bot/internal/repository/jsonstore"
	"github.com/Freeeeeet/mentor_bot/internal/service"
	"github.com/go-telegram/bot"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

func main() {

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment)

	defer logger.Sync()

	logger.Sugar().Infow("Starting mentor bot",
		"environment", cfg.Environment,
		"admins", len(cfg.AdminIDs),
		"session_backend", cfg.SessionBackend)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("Bot stopped with error", zap.Error(err))
	}

	logger.Info("👋 Bot stopped")
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	pool, err := pgxpool.New(ctx, cfg.GetDBDSN())
	if err != nil {
		return err
	}
	defer pool.Close()

	userRepo := repository.NewUserRepository(pool)
	if err := userRepo.Ping(ctx); err != nil {
		return err
	}
	logger.Info("✅ Connected to database")

	migrator, err := app.NewMigrator(pool, cfg.MigrationsPath, logger)
	if err != nil {
		return err
	}
	if err := migrator.Run(ctx); err != nil {
		migrator.Close()
		return err
	}
	migrator.Close()

	content, err := jsonstore.New(cfg.DataDir, logger)
	if err != nil {
		return err
	}

	// Репозитории
	sponsorRepo := repository.NewSponsorRepository(pool)
	broadcastRepo := repository.NewBroadcastRepository(pool)
	progressRepo := repository.NewProgressRepository(pool)
	bookmarkRepo := repository.NewBookmarkRepository(pool)
	achievementRepo := repository.NewAchievementRepository(pool)

	b, err := bot.New(cfg.TelegramToken)
	if err != nil {
		return err
	}

	// Сервисы
	pacer := service.NewPacer(cfg.BroadcastInterval)
	achievementService := service.NewAchievementService(achievementRepo, logger)
	if err := achievementService.Seed(ctx); err != nil {
		return err
	}
	userService := service.NewUserService(userRepo, progressRepo, logger)
	subscriptionService := service.NewSubscriptionService(userRepo, sponsorRepo, b, logger)
	learningService := service.NewLearningService(content, userRepo, progressRepo, bookmarkRepo, achievementService, cfg.Location(), logger)
	broadcastService := service.NewBroadcastService(broadcastRepo, userRepo, b, pacer, logger)
	statsService := service.NewStatsService(content, userRepo, progressRepo, bookmarkRepo, sponsorRepo, broadcastRepo, logger)
	notificationService := service.NewNotificationService(content, userRepo, progressRepo, b, pacer, cfg.InactiveDays, logger)

	var store state.Store
	switch cfg.SessionBackend {
	case config.SessionBackendMemory:
		store = state.NewMemoryStore()
	default:
		store = state.NewCacheStore(cfg.SessionTTL)
	}
	sessions := state.NewManager(store)

	h := handlers.NewHandlers(handlers.Deps{
		Transport:     b,
		Content:       content,
		Users:         userService,
		Subscriptions: subscriptionService,
		Learning:      learningService,
		Achievements:  achievementService,
		Broadcasts:    broadcastService,
		Stats:         statsService,
		Sessions:      sessions,
		IsAdmin:       cfg.IsAdmin,
		Logger:        logger,
	})

	botController := controller.NewBotController(b, h, controller.Options{
		Sessions:      sessions,
		Subscriptions: subscriptionService,
		Activity:      userRepo,
		IsAdmin:       cfg.IsAdmin,
	}, logger)

	if err := botController.RegisterHandlers(ctx); err != nil {
		// Без меню команд бот работает, поэтому не выходим
		logger.Warn("Bot commands menu not set", zap.Error(err))
	}

	if *cfg.NotificationsEnabled {
		scheduler := app.NewScheduler(notificationService, app.ScheduleConfig{
			Location:   cfg.Location(),
			DailyTipAt: cfg.DailyTipAt,
		}, logger)
		if err := scheduler.Start(ctx); err != nil {
			return err
		}
		defer scheduler.Stop()
	}

	logger.Info("🚀 Bot is running")
	return botController.Start(ctx)
}
