package handlers

import (
	"context"

	"github.com/Freeeeeet/mentor_bot/internal/controller/dispatch"
	"github.com/Freeeeeet/mentor_bot/internal/controller/keyboard"
	"github.com/Freeeeeet/mentor_bot/internal/controller/middleware"
	"go.uber.org/zap"
)

// HandleCheckSubscription повторная проверка подписок по кнопке "✅ Я подписался"
func (h *Handlers) HandleCheckSubscription(ctx context.Context, ev *dispatch.Event) error {
	result, err := h.subscriptions.Check(ctx, ev.UserID)
	if err != nil {
		h.logger.Error("Subscription recheck failed", zap.Int64("telegram_id", ev.UserID), zap.Error(err))
		h.alert(ctx, ev, "❌ Не удалось проверить подписку. Попробуйте позже.")
		return nil
	}

	if !result.Known {
		h.alert(ctx, ev, "❌ Сначала зарегистрируйтесь через /start")
		return nil
	}

	if !result.Allowed {
		h.alert(ctx, ev, "❌ Вы подписались не на все каналы")
		h.edit(ctx, ev, middleware.SubscriptionText(result.Missing), keyboard.Subscribe(result.Missing))
		return nil
	}

	h.answer(ctx, ev, "✅ Подписка подтверждена!")
	h.deleteCallbackMessage(ctx, ev)
	h.send(ctx, ev.ChatID, "✅ Спасибо за подписку!\n\nТеперь вам доступны все разделы бота.", keyboard.MainMenu())
	return nil
}
