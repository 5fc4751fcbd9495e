package handlers

import (
	"context"
	"strconv"

	"github.com/Freeeeeet/mentor_bot/internal/controller/dispatch"
	"github.com/Freeeeeet/mentor_bot/internal/controller/keyboard"
	"github.com/Freeeeeet/mentor_bot/internal/controller/state"
	"github.com/Freeeeeet/mentor_bot/internal/validation"
	"go.uber.org/zap"
)

// maxLabelRunes длина подписи кнопки в списках удаления
const maxLabelRunes = 40

func label(s string) string {
	r := []rune(s)
	if len(r) <= maxLabelRunes {
		return s
	}
	return string(r[:maxLabelRunes-1]) + "…"
}

// ===== FAQ =====

func (h *Handlers) HandleAddFAQ(ctx context.Context, ev *dispatch.Event) error {
	h.sessions.SetState(ev.UserID, state.StateFAQQuestion)
	h.send(ctx, ev.ChatID, "❓ Введите вопрос:", keyboard.CancelMenu())
	return nil
}

func (h *Handlers) HandleFAQQuestion(ctx context.Context, ev *dispatch.Event) error {
	question, err := validation.Text(ev.Text())
	if err != nil {
		h.send(ctx, ev.ChatID, validationMessage(err), nil)
		return nil
	}

	h.sessions.Advance(ev.UserID, keyQuestion, question, state.StateFAQAnswer)
	h.send(ctx, ev.ChatID, "Введите ответ:", nil)
	return nil
}

func (h *Handlers) HandleFAQAnswer(ctx context.Context, ev *dispatch.Event) error {
	answer, err := validation.Text(ev.Text())
	if err != nil {
		h.send(ctx, ev.ChatID, validationMessage(err), nil)
		return nil
	}

	item, err := h.content.AddFAQ(h.sessions.String(ev.UserID, keyQuestion), answer)
	if err != nil {
		h.sessions.ResetAdmin(ev.UserID)
		return h.fail(ctx, ev, err)
	}

	h.logger.Info("FAQ added", zap.Int64("faq_id", item.ID))
	h.finishAdmin(ctx, ev, "✅ Вопрос добавлен в FAQ!")
	return nil
}

func (h *Handlers) HandleDeleteFAQ(ctx context.Context, ev *dispatch.Event) error {
	items, err := h.content.FAQ()
	if err != nil {
		return h.fail(ctx, ev, err)
	}
	if len(items) == 0 {
		h.send(ctx, ev.ChatID, "Список FAQ пуст.", keyboard.AdminMenu())
		return nil
	}

	picks := make([]keyboard.Item, 0, len(items))
	for _, item := range items {
		picks = append(picks, keyboard.Item{Key: keyboard.ID(item.ID), Label: label(item.Question)})
	}

	h.sessions.SetState(ev.UserID, state.StateFAQDelete)
	h.send(ctx, ev.ChatID, "Выберите вопрос для удаления:", keyboard.Pick(keyboard.DelFAQ, picks))
	return nil
}

func (h *Handlers) HandleDeleteFAQPick(ctx context.Context, ev *dispatch.Event) error {
	id, err := keyboard.ParseID(ev.Data(), keyboard.DelFAQ)
	if err != nil {
		return h.fail(ctx, ev, ErrInvalidFormat)
	}

	if err := h.content.DeleteFAQ(id); err != nil {
		h.sessions.ResetAdmin(ev.UserID)
		return h.fail(ctx, ev, err)
	}

	h.answer(ctx, ev, "")
	h.edit(ctx, ev, "✅ Вопрос удалён.", nil)
	h.finishAdmin(ctx, ev, "Выберите действие:")
	return nil
}

// ===== Советы =====

func (h *Handlers) HandleAddTip(ctx context.Context, ev *dispatch.Event) error {
	h.sessions.SetState(ev.UserID, state.StateTipText)
	h.send(ctx, ev.ChatID, "💡 Введите текст совета:", keyboard.CancelMenu())
	return nil
}

func (h *Handlers) HandleTipText(ctx context.Context, ev *dispatch.Event) error {
	tip, err := validation.Text(ev.Text())
	if err != nil {
		h.send(ctx, ev.ChatID, validationMessage(err), nil)
		return nil
	}

	if err := h.content.AddTip(tip); err != nil {
		h.sessions.ResetAdmin(ev.UserID)
		return h.fail(ctx, ev, err)
	}

	h.finishAdmin(ctx, ev, "✅ Совет добавлен!")
	return nil
}

func (h *Handlers) HandleDeleteTip(ctx context.Context, ev *dispatch.Event) error {
	tips, err := h.content.Tips()
	if err != nil {
		return h.fail(ctx, ev, err)
	}
	if len(tips) == 0 {
		h.send(ctx, ev.ChatID, "Список советов пуст.", keyboard.AdminMenu())
		return nil
	}

	picks := make([]keyboard.Item, 0, len(tips))
	for i, tip := range tips {
		picks = append(picks, keyboard.Item{Key: strconv.Itoa(i), Label: label(tip)})
	}

	h.sessions.SetState(ev.UserID, state.StateTipDelete)
	h.send(ctx, ev.ChatID, "Выберите совет для удаления:", keyboard.Pick(keyboard.DelTip, picks))
	return nil
}

func (h *Handlers) HandleDeleteTipPick(ctx context.Context, ev *dispatch.Event) error {
	index, err := keyboard.ParseID(ev.Data(), keyboard.DelTip)
	if err != nil {
		return h.fail(ctx, ev, ErrInvalidFormat)
	}

	if err := h.content.DeleteTip(int(index)); err != nil {
		h.sessions.ResetAdmin(ev.UserID)
		return h.fail(ctx, ev, err)
	}

	h.answer(ctx, ev, "")
	h.edit(ctx, ev, "✅ Совет удалён.", nil)
	h.finishAdmin(ctx, ev, "Выберите действие:")
	return nil
}
