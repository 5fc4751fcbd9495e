package handlers

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/Freeeeeet/mentor_bot/internal/controller/dispatch"
	"github.com/Freeeeeet/mentor_bot/internal/controller/keyboard"
	"github.com/Freeeeeet/mentor_bot/internal/controller/state"
	"github.com/Freeeeeet/mentor_bot/internal/model"
	"github.com/Freeeeeet/mentor_bot/internal/service"
	"github.com/Freeeeeet/mentor_bot/internal/validation"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

func (h *Handlers) HandleBroadcast(ctx context.Context, ev *dispatch.Event) error {
	h.sessions.SetState(ev.UserID, state.StateBroadcastName)
	h.send(ctx, ev.ChatID, "📨 Введите название рассылки (будет заголовком сообщения):", keyboard.CancelMenu())
	return nil
}

func (h *Handlers) HandleBroadcastName(ctx context.Context, ev *dispatch.Event) error {
	name, err := validation.Title(ev.Text())
	if err != nil {
		h.send(ctx, ev.ChatID, validationMessage(err), nil)
		return nil
	}

	h.sessions.Advance(ev.UserID, keyName, name, state.StateBroadcastDescription)
	h.send(ctx, ev.ChatID, "Введите описание (или «-» чтобы пропустить):", nil)
	return nil
}

func (h *Handlers) HandleBroadcastDescription(ctx context.Context, ev *dispatch.Event) error {
	h.sessions.Advance(ev.UserID, keyDescription, optional(ev.Text()), state.StateBroadcastType)
	h.send(ctx, ev.ChatID, "Выберите тип рассылки:", keyboard.ContentTypes(false))
	return nil
}

func (h *Handlers) HandleBroadcastContent(ctx context.Context, ev *dispatch.Event) error {
	ct, _ := h.sessionContent(ev.UserID)

	content, err := captureContent(ev.Message, ct)
	if err != nil {
		h.send(ctx, ev.ChatID, captureMessage(err, ct), nil)
		return nil
	}

	h.sessions.Advance(ev.UserID, keyContent, content, state.StateBroadcastButtonText)
	h.send(ctx, ev.ChatID, "Введите текст кнопки-ссылки (или «-» чтобы отправить без кнопки):", nil)
	return nil
}

func (h *Handlers) HandleBroadcastButtonText(ctx context.Context, ev *dispatch.Event) error {
	text := optional(ev.Text())
	if text == "" {
		return h.previewBroadcast(ctx, ev)
	}

	h.sessions.Advance(ev.UserID, keyButtonText, text, state.StateBroadcastButtonURL)
	h.send(ctx, ev.ChatID, "Введите ссылку для кнопки:", nil)
	return nil
}

func (h *Handlers) HandleBroadcastButtonURL(ctx context.Context, ev *dispatch.Event) error {
	url, err := validation.ButtonURL(ev.Text())
	if err != nil {
		h.send(ctx, ev.ChatID, validationMessage(err), nil)
		return nil
	}

	h.sessions.SetData(ev.UserID, keyButtonURL, url)
	return h.previewBroadcast(ctx, ev)
}

// draftBroadcast собирает рассылку из данных диалога
func (h *Handlers) draftBroadcast(telegramID int64) *model.Broadcast {
	ct, content := h.sessionContent(telegramID)
	return &model.Broadcast{
		Name:        h.sessions.String(telegramID, keyName),
		Description: ptr(h.sessions.String(telegramID, keyDescription)),
		ContentType: ct,
		Content:     content,
		ButtonText:  ptr(h.sessions.String(telegramID, keyButtonText)),
		ButtonURL:   ptr(h.sessions.String(telegramID, keyButtonURL)),
	}
}

// previewBroadcast показывает администратору сообщение в том виде, в каком его получат пользователи
func (h *Handlers) previewBroadcast(ctx context.Context, ev *dispatch.Event) error {
	h.sessions.SetState(ev.UserID, state.StateBroadcastConfirm)
	b := h.draftBroadcast(ev.UserID)

	var markup models.ReplyMarkup
	if b.HasButton() {
		markup = keyboard.NewBuilder().Row(keyboard.URLButton(*b.ButtonText, *b.ButtonURL)).Build()
	}

	h.send(ctx, ev.ChatID, "👁 <b>Предпросмотр рассылки:</b>", nil)
	if _, err := service.SendContent(ctx, h.tg, ev.ChatID, b.ContentType, service.BroadcastHeader(b), b.Content, markup); err != nil {
		h.logger.Warn("Failed to send broadcast preview", zap.Error(err))
	}

	users, err := h.users.CountUsers(ctx)
	if err != nil {
		return h.fail(ctx, ev, err)
	}
	h.send(ctx, ev.ChatID,
		fmt.Sprintf("Отправить рассылку «%s» всем пользователям (%d)?", html.EscapeString(b.Name), users),
		keyboard.YesNo(keyboard.ActionBroadcast, ""))
	return nil
}

// sendBroadcast отправляет рассылку после подтверждения
func (h *Handlers) sendBroadcast(ctx context.Context, ev *dispatch.Event) error {
	b := h.draftBroadcast(ev.UserID)
	h.sessions.ResetAdmin(ev.UserID)

	h.answer(ctx, ev, "")
	h.edit(ctx, ev, "⏳ Рассылка отправляется...", nil)

	result, err := h.broadcasts.Send(ctx, b)
	if err != nil {
		return h.fail(ctx, ev, err)
	}

	var sb strings.Builder
	sb.WriteString("✅ <b>Рассылка завершена</b>\n\n")
	fmt.Fprintf(&sb, "📤 Доставлено: %d\n", result.Sent)
	fmt.Fprintf(&sb, "⚠️ Не доставлено: %d", result.Failed)

	h.send(ctx, ev.ChatID, sb.String(), keyboard.AdminMenu())
	return nil
}
