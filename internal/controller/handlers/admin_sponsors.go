package handlers

import (
	"context"
	"fmt"
	"html"

	"github.com/Freeeeeet/mentor_bot/internal/controller/dispatch"
	"github.com/Freeeeeet/mentor_bot/internal/controller/keyboard"
	"github.com/Freeeeeet/mentor_bot/internal/controller/state"
	"github.com/Freeeeeet/mentor_bot/internal/validation"
	"go.uber.org/zap"
)

func (h *Handlers) HandleAddSponsor(ctx context.Context, ev *dispatch.Event) error {
	h.sessions.SetState(ev.UserID, state.StateSponsorName)
	h.send(ctx, ev.ChatID, "🔗 Введите название канала спонсора:", keyboard.CancelMenu())
	return nil
}

func (h *Handlers) HandleSponsorName(ctx context.Context, ev *dispatch.Event) error {
	name, err := validation.Title(ev.Text())
	if err != nil {
		h.send(ctx, ev.ChatID, validationMessage(err), nil)
		return nil
	}

	h.sessions.Advance(ev.UserID, keyName, name, state.StateSponsorURL)
	h.send(ctx, ev.ChatID, "Введите ссылку на канал (https://t.me/...):", nil)
	return nil
}

func (h *Handlers) HandleSponsorURL(ctx context.Context, ev *dispatch.Event) error {
	url, err := validation.SponsorURL(ev.Text())
	if err != nil {
		h.send(ctx, ev.ChatID, validationMessage(err), nil)
		return nil
	}

	sponsor, err := h.subscriptions.AddSponsor(ctx, h.sessions.String(ev.UserID, keyName), url)
	if err != nil {
		h.sessions.ResetAdmin(ev.UserID)
		return h.fail(ctx, ev, err)
	}

	h.logger.Info("Sponsor added", zap.Int64("sponsor_id", sponsor.ID), zap.String("url", url))
	h.finishAdmin(ctx, ev, fmt.Sprintf(
		"✅ Спонсор «%s» добавлен!\n\nБот должен быть администратором канала, иначе подписку проверить не получится.",
		html.EscapeString(sponsor.Name)))
	return nil
}

func (h *Handlers) HandleDeleteSponsor(ctx context.Context, ev *dispatch.Event) error {
	sponsors, err := h.subscriptions.ActiveSponsors(ctx)
	if err != nil {
		return h.fail(ctx, ev, err)
	}
	if len(sponsors) == 0 {
		h.send(ctx, ev.ChatID, "Активных спонсоров нет.", keyboard.AdminMenu())
		return nil
	}

	items := make([]keyboard.Item, 0, len(sponsors))
	for _, s := range sponsors {
		items = append(items, keyboard.Item{Key: keyboard.ID(s.ID), Label: "📢 " + s.Name})
	}

	h.sessions.SetState(ev.UserID, state.StateSponsorDelete)
	h.send(ctx, ev.ChatID, "Выберите спонсора для отключения:", keyboard.Pick(keyboard.DelSponsor, items))
	return nil
}

// HandleDeleteSponsorPick отключает спонсора без дополнительного подтверждения
func (h *Handlers) HandleDeleteSponsorPick(ctx context.Context, ev *dispatch.Event) error {
	id, err := keyboard.ParseID(ev.Data(), keyboard.DelSponsor)
	if err != nil {
		return h.fail(ctx, ev, ErrInvalidFormat)
	}

	if err := h.subscriptions.DisableSponsor(ctx, id); err != nil {
		h.sessions.ResetAdmin(ev.UserID)
		return h.fail(ctx, ev, err)
	}

	h.logger.Info("Sponsor disabled", zap.Int64("sponsor_id", id), zap.Int64("admin_id", ev.UserID))
	h.answer(ctx, ev, "")
	h.edit(ctx, ev, "✅ Спонсор отключён.", nil)
	h.finishAdmin(ctx, ev, "Выберите действие:")
	return nil
}
