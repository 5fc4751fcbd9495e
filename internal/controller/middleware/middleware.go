// Package middleware содержит обёртки, через которые проходит каждое событие
// перед роутером: восстановление режима администратора, проверку подписки
// и учёт активности.
package middleware

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/Freeeeeet/mentor_bot/internal/controller/dispatch"
	"github.com/Freeeeeet/mentor_bot/internal/controller/keyboard"
	"github.com/Freeeeeet/mentor_bot/internal/model"
	"github.com/Freeeeeet/mentor_bot/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// AdminModeStore флаг режима администратора в сессии
type AdminModeStore interface {
	IsAdminMode(telegramID int64) bool
	SetAdminMode(telegramID int64, enabled bool)
}

// AdminRestorer включает режим администратора для пользователей из списка
// администраторов, если сессия его потеряла (истекла или была очищена).
func AdminRestorer(isAdmin func(telegramID int64) bool, sessions AdminModeStore) dispatch.Middleware {
	return func(next dispatch.HandlerFunc) dispatch.HandlerFunc {
		return func(ctx context.Context, ev *dispatch.Event) error {
			if isAdmin(ev.UserID) && !sessions.IsAdminMode(ev.UserID) {
				sessions.SetAdminMode(ev.UserID, true)
			}
			return next(ctx, ev)
		}
	}
}

// SubscriptionChecker проверка подписок на спонсоров
type SubscriptionChecker interface {
	Check(ctx context.Context, telegramID int64) (*service.GateResult, error)
}

// Prompter методы транспорта, нужные для ответа при отказе
type Prompter interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
	AnswerCallbackQuery(ctx context.Context, params *bot.AnswerCallbackQueryParams) (bool, error)
}

// SubscriptionText список каналов, на которые осталось подписаться
func SubscriptionText(missing []*model.Sponsor) string {
	var sb strings.Builder
	sb.WriteString("🔒 <b>Для доступа к боту необходимо подписаться:</b>\n\n")
	for _, s := range missing {
		sb.WriteString("• " + html.EscapeString(s.Name) + "\n")
	}
	sb.WriteString("\nПосле подписки нажмите кнопку ниже.")
	return sb.String()
}

// gateBypass события, которые обрабатываются без проверки подписки
func gateBypass(ev *dispatch.Event) bool {
	return ev.Command() == "/start" || ev.Data() == keyboard.CheckSubscription
}

// Gate пропускает событие дальше, только если пользователь подписан на всех
// активных спонсоров. Незарегистрированных пользователей пропускает: ими
// занимается мастер регистрации. Ошибка хранилища не блокирует бота.
func Gate(checker SubscriptionChecker, prompter Prompter, logger *zap.Logger) dispatch.Middleware {
	return func(next dispatch.HandlerFunc) dispatch.HandlerFunc {
		return func(ctx context.Context, ev *dispatch.Event) error {
			if gateBypass(ev) {
				return next(ctx, ev)
			}

			result, err := checker.Check(ctx, ev.UserID)
			if err != nil {
				logger.Error("Subscription check failed, letting event through",
					zap.String("request_id", dispatch.RequestID(ctx)),
					zap.Int64("telegram_id", ev.UserID),
					zap.Error(err))
				return next(ctx, ev)
			}

			if result.Allowed {
				return next(ctx, ev)
			}

			logger.Info("Event blocked by subscription gate",
				zap.Int64("telegram_id", ev.UserID),
				zap.Int("missing", len(result.Missing)))

			if ev.Kind == dispatch.KindCallback {
				if _, err := prompter.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
					CallbackQueryID: ev.Callback.ID,
					Text:            "❌ Подпишитесь на всех",
					ShowAlert:       true,
				}); err != nil {
					logger.Warn("Failed to answer callback", zap.Error(err))
				}
			}

			_, err = prompter.SendMessage(ctx, &bot.SendMessageParams{
				ChatID:      ev.ChatID,
				Text:        SubscriptionText(result.Missing),
				ParseMode:   models.ParseModeHTML,
				ReplyMarkup: keyboard.Subscribe(result.Missing),
			})
			if err != nil {
				return fmt.Errorf("send subscription prompt: %w", err)
			}
			return nil
		}
	}
}

// ActivityToucher отметка активности пользователя
type ActivityToucher interface {
	TouchActivity(ctx context.Context, telegramID int64) error
}

// Activity отмечает время последней активности; ошибка только логируется
func Activity(toucher ActivityToucher, logger *zap.Logger) dispatch.Middleware {
	return func(next dispatch.HandlerFunc) dispatch.HandlerFunc {
		return func(ctx context.Context, ev *dispatch.Event) error {
			if err := toucher.TouchActivity(ctx, ev.UserID); err != nil {
				logger.Warn("Failed to touch activity",
					zap.Int64("telegram_id", ev.UserID),
					zap.Error(err))
			}
			return next(ctx, ev)
		}
	}
}
