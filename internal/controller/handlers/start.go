package handlers

import (
	"context"
	"fmt"
	"html"

	"github.com/Freeeeeet/mentor_bot/internal/controller/dispatch"
	"github.com/Freeeeeet/mentor_bot/internal/controller/keyboard"
	"github.com/Freeeeeet/mentor_bot/internal/controller/middleware"
	"github.com/Freeeeeet/mentor_bot/internal/controller/state"
	"go.uber.org/zap"
)

// resetSession прерывает текущий диалог; режим администратора сохраняется
func (h *Handlers) resetSession(telegramID int64) {
	if h.sessions.IsAdminMode(telegramID) {
		h.sessions.ResetAdmin(telegramID)
		return
	}
	h.sessions.ClearState(telegramID)
}

// HandleStart обрабатывает команду /start: регистрация нового пользователя или главное меню
func (h *Handlers) HandleStart(ctx context.Context, ev *dispatch.Event) error {
	h.resetSession(ev.UserID)

	user, err := h.users.GetByTelegramID(ctx, ev.UserID)
	if err != nil {
		return h.fail(ctx, ev, err)
	}

	if user == nil {
		h.logger.Info("Starting registration", zap.Int64("telegram_id", ev.UserID))
		h.sessions.SetState(ev.UserID, state.StateRegName)
		h.send(ctx, ev.ChatID,
			"👋 <b>Добро пожаловать!</b>\n\n"+
				"Давайте познакомимся.\n\n"+
				"Шаг 1 из 5: Введите ваше имя:",
			keyboard.Remove())
		return nil
	}

	// /start проходит мимо проверки подписки, поэтому проверяем здесь
	if !h.subscribed(ctx, ev) {
		return nil
	}

	h.send(ctx, ev.ChatID,
		fmt.Sprintf("👋 С возвращением, <b>%s</b>!\n\nВыберите раздел в меню ниже.", html.EscapeString(user.Name)),
		keyboard.MainMenu())
	return nil
}

// subscribed проверяет подписки и при необходимости показывает список каналов
func (h *Handlers) subscribed(ctx context.Context, ev *dispatch.Event) bool {
	result, err := h.subscriptions.Check(ctx, ev.UserID)
	if err != nil {
		h.logger.Error("Subscription check failed", zap.Int64("telegram_id", ev.UserID), zap.Error(err))
		return true
	}
	if result.Allowed {
		return true
	}

	h.send(ctx, ev.ChatID, middleware.SubscriptionText(result.Missing), keyboard.Subscribe(result.Missing))
	return false
}

// HandleAdmin открывает админ-панель
func (h *Handlers) HandleAdmin(ctx context.Context, ev *dispatch.Event) error {
	if !h.isAdmin(ev.UserID) {
		h.logger.Warn("Admin panel access denied", zap.Int64("telegram_id", ev.UserID))
		h.send(ctx, ev.ChatID, "❌ У вас нет доступа к админ-панели.", nil)
		return nil
	}

	h.sessions.ResetAdmin(ev.UserID)
	h.send(ctx, ev.ChatID, "🔧 <b>Панель администратора</b>\n\nВыберите действие:", keyboard.AdminMenu())
	return nil
}

// HandleAdminExit выход из админ-панели в главное меню
func (h *Handlers) HandleAdminExit(ctx context.Context, ev *dispatch.Event) error {
	h.sessions.ClearState(ev.UserID)
	h.send(ctx, ev.ChatID, "👋 Вы вышли из админ-панели.", keyboard.MainMenu())
	return nil
}

// HandleCancel отмена по кнопке "❌ Отмена" или команде /cancel
func (h *Handlers) HandleCancel(ctx context.Context, ev *dispatch.Event) error {
	h.cancelFlow(ctx, ev)
	return nil
}

// HandleCallbackCancel отмена inline кнопкой: admin_cancel или cancel_{action}
func (h *Handlers) HandleCallbackCancel(ctx context.Context, ev *dispatch.Event) error {
	h.answer(ctx, ev, "Отменено")
	h.deleteCallbackMessage(ctx, ev)
	h.cancelFlow(ctx, ev)
	return nil
}

// cancelFlow общая часть обеих отмен
func (h *Handlers) cancelFlow(ctx context.Context, ev *dispatch.Event) {
	current := h.sessions.GetState(ev.UserID)

	h.logger.Info("Dialog cancelled",
		zap.Int64("telegram_id", ev.UserID),
		zap.String("state", string(current)))

	switch {
	case isRegistrationState(current):
		h.sessions.ClearState(ev.UserID)
		h.send(ctx, ev.ChatID, "❌ Регистрация отменена.\n\nЧтобы начать заново, нажмите /start", keyboard.Remove())
	case h.sessions.IsAdminMode(ev.UserID):
		h.sessions.ResetAdmin(ev.UserID)
		h.send(ctx, ev.ChatID, "❌ Действие отменено.", keyboard.AdminMenu())
	case current == state.StateNone:
		h.send(ctx, ev.ChatID, "Нет активных действий для отмены.", keyboard.MainMenu())
	default:
		h.sessions.ClearState(ev.UserID)
		h.send(ctx, ev.ChatID, "❌ Действие отменено.", keyboard.MainMenu())
	}
}

// HandleMainMenu возврат в главное меню из inline кнопки
func (h *Handlers) HandleMainMenu(ctx context.Context, ev *dispatch.Event) error {
	h.answer(ctx, ev, "")
	h.resetSession(ev.UserID)
	h.send(ctx, ev.ChatID, "Главное меню:", keyboard.MainMenu())
	return nil
}

func isRegistrationState(s state.UserState) bool {
	switch s {
	case state.StateRegName, state.StateRegSurname, state.StateRegAge, state.StateRegRole,
		state.StateRegPhoto, state.StateRegConfirm, state.StateRegEdit:
		return true
	}
	return false
}
