package controller

import (
	"context"

	"github.com/Freeeeeet/mentor_bot/internal/controller/dispatch"
	"github.com/Freeeeeet/mentor_bot/internal/controller/handlers"
	"github.com/Freeeeeet/mentor_bot/internal/controller/middleware"
	"github.com/Freeeeeet/mentor_bot/internal/controller/state"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// Options зависимости контроллера помимо обработчиков
type Options struct {
	Sessions      *state.Manager
	Subscriptions middleware.SubscriptionChecker
	Activity      middleware.ActivityToucher
	IsAdmin       func(telegramID int64) bool
}

type BotController struct {
	bot        *bot.Bot
	dispatcher *dispatch.Dispatcher
	logger     *zap.Logger
}

func NewBotController(botInstance *bot.Bot, h *handlers.Handlers, opts Options, logger *zap.Logger) *BotController {
	router := dispatch.NewRouter()
	h.Register(router)

	// Порядок важен: сначала восстанавливаем режим администратора,
	// затем проверяем подписку, активность отмечаем только для пропущенных событий
	dispatcher := dispatch.NewDispatcher(router, logger,
		middleware.AdminRestorer(opts.IsAdmin, opts.Sessions),
		middleware.Gate(opts.Subscriptions, botInstance, logger),
		middleware.Activity(opts.Activity, logger),
	)

	return &BotController{
		bot:        botInstance,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// RegisterHandlers направляет все обновления в диспетчер
func (c *BotController) RegisterHandlers(ctx context.Context) error {
	c.bot.RegisterHandlerMatchFunc(func(*models.Update) bool { return true }, c.dispatcher.HandleUpdate)

	// Устанавливаем меню команд
	return c.setCommands(ctx)
}

// setCommands устанавливает список команд в меню бота
func (c *BotController) setCommands(ctx context.Context) error {
	commands := []models.BotCommand{
		{Command: "start", Description: "🚀 Начать работу с ботом"},
		{Command: "cancel", Description: "❌ Отменить текущее действие"},
		{Command: "admin", Description: "🔧 Админ-панель"},
	}

	_, err := c.bot.SetMyCommands(ctx, &bot.SetMyCommandsParams{
		Commands: commands,
	})

	if err != nil {
		c.logger.Error("Failed to set bot commands", zap.Error(err))
		return err
	}

	c.logger.Info("✅ Bot commands menu set")
	return nil
}

// Start запускает бота; блокируется до отмены контекста
func (c *BotController) Start(ctx context.Context) error {
	c.logger.Info("Starting bot...")
	c.bot.Start(ctx)
	return nil
}
