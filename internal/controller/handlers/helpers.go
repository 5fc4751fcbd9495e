package handlers

import (
	"context"

	"github.com/Freeeeeet/mentor_bot/internal/controller/dispatch"
	"github.com/Freeeeeet/mentor_bot/internal/model"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// send отправляет HTML сообщение и логирует если не удалось
func (h *Handlers) send(ctx context.Context, chatID int64, text string, markup models.ReplyMarkup) {
	_, err := h.tg.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      chatID,
		Text:        text,
		ParseMode:   models.ParseModeHTML,
		ReplyMarkup: markup,
	})
	if err != nil {
		h.logger.Error("Failed to send message",
			zap.Int64("chat_id", chatID),
			zap.Error(err),
		)
	}
}

// answer отвечает на callback query (без alert)
func (h *Handlers) answer(ctx context.Context, ev *dispatch.Event, text string) {
	h.answerCallback(ctx, ev, text, false)
}

// alert отвечает на callback query всплывающим окном
func (h *Handlers) alert(ctx context.Context, ev *dispatch.Event, text string) {
	h.answerCallback(ctx, ev, text, true)
}

func (h *Handlers) answerCallback(ctx context.Context, ev *dispatch.Event, text string, showAlert bool) {
	if ev.Kind != dispatch.KindCallback {
		return
	}
	_, err := h.tg.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: ev.Callback.ID,
		Text:            text,
		ShowAlert:       showAlert,
	})
	if err != nil {
		h.logger.Warn("Failed to answer callback", zap.Error(err))
	}
}

// edit заменяет текст сообщения с нажатой кнопкой; без сообщения отправляет новое
func (h *Handlers) edit(ctx context.Context, ev *dispatch.Event, text string, markup *models.InlineKeyboardMarkup) {
	msg := ev.CallbackMessage()
	if msg == nil {
		h.send(ctx, ev.ChatID, text, inline(markup))
		return
	}

	params := &bot.EditMessageTextParams{
		ChatID:    msg.Chat.ID,
		MessageID: msg.ID,
		Text:      text,
		ParseMode: models.ParseModeHTML,
	}
	if markup != nil {
		params.ReplyMarkup = markup
	}

	if _, err := h.tg.EditMessageText(ctx, params); err != nil {
		// сообщение с фото или видео нельзя отредактировать как текст
		h.logger.Debug("Edit failed, sending new message", zap.Error(err))
		h.send(ctx, ev.ChatID, text, inline(markup))
	}
}

// inline приводит клавиатуру к интерфейсу; nil клавиатура даёт nil интерфейс, а не типизированный nil
func inline(kb *models.InlineKeyboardMarkup) models.ReplyMarkup {
	if kb == nil {
		return nil
	}
	return kb
}

// deleteCallbackMessage удаляет сообщение с нажатой кнопкой
func (h *Handlers) deleteCallbackMessage(ctx context.Context, ev *dispatch.Event) {
	msg := ev.CallbackMessage()
	if msg == nil {
		return
	}
	if _, err := h.tg.DeleteMessage(ctx, &bot.DeleteMessageParams{
		ChatID:    msg.Chat.ID,
		MessageID: msg.ID,
	}); err != nil {
		h.logger.Debug("Failed to delete message", zap.Error(err))
	}
}

// requireUser загружает зарегистрированного пользователя.
// Если пользователя нет, отвечает подсказкой и возвращает nil.
func (h *Handlers) requireUser(ctx context.Context, ev *dispatch.Event) (*model.User, error) {
	user, err := h.users.GetByTelegramID(ctx, ev.UserID)
	if err != nil {
		h.notify(ctx, ev, errorMessage(err))
		return nil, err
	}
	if user == nil {
		h.notify(ctx, ev, "❌ Сначала зарегистрируйтесь через /start")
		return nil, nil
	}
	return user, nil
}

// notify alert для callback, сообщение для текста
func (h *Handlers) notify(ctx context.Context, ev *dispatch.Event, text string) {
	if ev.Kind == dispatch.KindCallback {
		h.alert(ctx, ev, text)
		return
	}
	h.send(ctx, ev.ChatID, text, nil)
}

// fail сообщает пользователю об ошибке; ожидаемые ошибки не передаются диспетчеру
func (h *Handlers) fail(ctx context.Context, ev *dispatch.Event, err error) error {
	h.notify(ctx, ev, errorMessage(err))
	if isExpected(err) {
		return nil
	}
	return err
}
