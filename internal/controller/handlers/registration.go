package handlers

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"

	"github.com/Freeeeeet/mentor_bot/internal/controller/dispatch"
	"github.com/Freeeeeet/mentor_bot/internal/controller/keyboard"
	"github.com/Freeeeeet/mentor_bot/internal/controller/state"
	"github.com/Freeeeeet/mentor_bot/internal/service"
	"github.com/Freeeeeet/mentor_bot/internal/validation"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

const (
	promptSurname = "Шаг 2 из 5: Введите фамилию (или «-» чтобы пропустить):"
	promptAge     = "Шаг 3 из 5: Сколько вам лет?"
	promptRole    = "Шаг 4 из 5: Выберите, кто вы:"
	promptPhoto   = "Шаг 5 из 5: Отправьте фото для профиля 📸"
)

// HandleRegName шаг ввода имени
func (h *Handlers) HandleRegName(ctx context.Context, ev *dispatch.Event) error {
	name, err := validation.Name(ev.Text())
	if err != nil {
		h.send(ctx, ev.ChatID, validationMessage(err), nil)
		return nil
	}

	if h.sessions.Bool(ev.UserID, keyEditing) {
		h.sessions.SetData(ev.UserID, keyName, name)
		return h.showRegistrationCard(ctx, ev)
	}

	h.sessions.Advance(ev.UserID, keyName, name, state.StateRegSurname)
	h.send(ctx, ev.ChatID, fmt.Sprintf("Приятно познакомиться, <b>%s</b>!\n\n%s", html.EscapeString(name), promptSurname), nil)
	return nil
}

// HandleRegSurname шаг ввода фамилии, "-" пропускает шаг
func (h *Handlers) HandleRegSurname(ctx context.Context, ev *dispatch.Event) error {
	surname, err := validation.Surname(ev.Text())
	if err != nil {
		h.send(ctx, ev.ChatID, validationMessage(err), nil)
		return nil
	}

	value := ""
	if surname != nil {
		value = *surname
	}

	if h.sessions.Bool(ev.UserID, keyEditing) {
		h.sessions.SetData(ev.UserID, keySurname, value)
		return h.showRegistrationCard(ctx, ev)
	}

	h.sessions.Advance(ev.UserID, keySurname, value, state.StateRegAge)
	h.send(ctx, ev.ChatID, promptAge, nil)
	return nil
}

// HandleRegAge шаг ввода возраста
func (h *Handlers) HandleRegAge(ctx context.Context, ev *dispatch.Event) error {
	age, err := validation.Age(ev.Text())
	if err != nil {
		h.send(ctx, ev.ChatID, validationMessage(err), nil)
		return nil
	}

	if h.sessions.Bool(ev.UserID, keyEditing) {
		h.sessions.SetData(ev.UserID, keyAge, age)
		return h.showRegistrationCard(ctx, ev)
	}

	h.sessions.Advance(ev.UserID, keyAge, age, state.StateRegRole)
	h.send(ctx, ev.ChatID, promptRole, keyboard.Roles())
	return nil
}

// HandleRegRole выбор роли кнопкой
func (h *Handlers) HandleRegRole(ctx context.Context, ev *dispatch.Event) error {
	role, err := validation.Role(ev.Data())
	if err != nil {
		h.alert(ctx, ev, validationMessage(err))
		return nil
	}

	h.answer(ctx, ev, "")
	h.edit(ctx, ev, "Вы выбрали: <b>"+html.EscapeString(role)+"</b>", nil)

	if h.sessions.Bool(ev.UserID, keyEditing) {
		h.sessions.SetData(ev.UserID, keyRole, role)
		return h.showRegistrationCard(ctx, ev)
	}

	h.sessions.Advance(ev.UserID, keyRole, role, state.StateRegPhoto)
	h.send(ctx, ev.ChatID, promptPhoto, nil)
	return nil
}

// HandleRegRoleText роль вводится только кнопкой
func (h *Handlers) HandleRegRoleText(ctx context.Context, ev *dispatch.Event) error {
	h.send(ctx, ev.ChatID, validationMessage(validation.ErrUnknownRole), keyboard.Roles())
	return nil
}

// HandleRegPhoto шаг загрузки фото
func (h *Handlers) HandleRegPhoto(ctx context.Context, ev *dispatch.Event) error {
	fileID := largestPhoto(ev.Message)
	if fileID == "" {
		h.send(ctx, ev.ChatID, "❌ Пожалуйста, отправьте фото.", nil)
		return nil
	}

	h.sessions.SetData(ev.UserID, keyPhoto, fileID)
	return h.showRegistrationCard(ctx, ev)
}

// largestPhoto file_id самого большого размера фото
func largestPhoto(msg *models.Message) string {
	if msg == nil || len(msg.Photo) == 0 {
		return ""
	}

	best := msg.Photo[0]
	for _, p := range msg.Photo[1:] {
		if p.Width*p.Height >= best.Width*best.Height {
			best = p
		}
	}
	return best.FileID
}

// showRegistrationCard показывает собранные данные с фото и ждёт подтверждения
func (h *Handlers) showRegistrationCard(ctx context.Context, ev *dispatch.Event) error {
	h.sessions.DeleteData(ev.UserID, keyEditing)
	h.sessions.SetState(ev.UserID, state.StateRegConfirm)

	card := h.registrationCard(ev.UserID)
	photo := h.sessions.String(ev.UserID, keyPhoto)
	if photo == "" {
		h.send(ctx, ev.ChatID, card, keyboard.RegistrationConfirm())
		return nil
	}

	_, err := h.tg.SendPhoto(ctx, &bot.SendPhotoParams{
		ChatID:      ev.ChatID,
		Photo:       &models.InputFileString{Data: photo},
		Caption:     card,
		ParseMode:   models.ParseModeHTML,
		ReplyMarkup: keyboard.RegistrationConfirm(),
	})
	if err != nil {
		h.logger.Warn("Failed to send registration card photo", zap.Error(err))
		h.send(ctx, ev.ChatID, card, keyboard.RegistrationConfirm())
	}
	return nil
}

func (h *Handlers) registrationCard(telegramID int64) string {
	surname := h.sessions.String(telegramID, keySurname)
	if surname == "" {
		surname = "—"
	}

	var b strings.Builder
	b.WriteString("📋 <b>Проверьте данные:</b>\n\n")
	fmt.Fprintf(&b, "👤 Имя: %s\n", html.EscapeString(h.sessions.String(telegramID, keyName)))
	fmt.Fprintf(&b, "👥 Фамилия: %s\n", html.EscapeString(surname))
	fmt.Fprintf(&b, "🎂 Возраст: %d\n", h.sessions.Int64(telegramID, keyAge))
	fmt.Fprintf(&b, "💼 Роль: %s\n\n", html.EscapeString(h.sessions.String(telegramID, keyRole)))
	b.WriteString("Всё верно?")
	return b.String()
}

// HandleRegConfirm сохраняет пользователя
func (h *Handlers) HandleRegConfirm(ctx context.Context, ev *dispatch.Event) error {
	h.answer(ctx, ev, "")

	reg := service.Registration{
		TelegramID:  ev.UserID,
		Name:        h.sessions.String(ev.UserID, keyName),
		Age:         int(h.sessions.Int64(ev.UserID, keyAge)),
		Role:        h.sessions.String(ev.UserID, keyRole),
		PhotoFileID: h.sessions.String(ev.UserID, keyPhoto),
	}
	if surname := h.sessions.String(ev.UserID, keySurname); surname != "" {
		reg.Surname = &surname
	}

	user, err := h.users.Register(ctx, reg)
	if err != nil && !errors.Is(err, service.ErrAlreadyRegistered) {
		h.logger.Error("Failed to register user", zap.Int64("telegram_id", ev.UserID), zap.Error(err))
		h.send(ctx, ev.ChatID, "❌ Ошибка при регистрации. Попробуйте позже.", nil)
		return err
	}

	h.sessions.ClearState(ev.UserID)
	h.send(ctx, ev.ChatID,
		fmt.Sprintf("✅ <b>Регистрация завершена!</b>\n\nДобро пожаловать, %s!", html.EscapeString(user.Name)),
		nil)

	if !h.subscribed(ctx, ev) {
		return nil
	}

	h.send(ctx, ev.ChatID, "Выберите раздел в меню ниже 👇", keyboard.MainMenu())
	return nil
}

// HandleRegEdit открывает меню изменения данных
func (h *Handlers) HandleRegEdit(ctx context.Context, ev *dispatch.Event) error {
	h.answer(ctx, ev, "")
	h.sessions.SetState(ev.UserID, state.StateRegEdit)
	h.send(ctx, ev.ChatID, "✏️ Что хотите изменить?", keyboard.RegistrationEdit())
	return nil
}

// HandleRegEditField переход к одному шагу регистрации из меню изменения
func (h *Handlers) HandleRegEditField(ctx context.Context, ev *dispatch.Event) error {
	field := strings.TrimPrefix(ev.Data(), keyboard.EditPrefix)

	var (
		next   state.UserState
		prompt string
		markup models.ReplyMarkup
	)
	switch field {
	case "name":
		next, prompt = state.StateRegName, "Введите новое имя:"
	case "surname":
		next, prompt = state.StateRegSurname, "Введите новую фамилию (или «-» чтобы убрать):"
	case "age":
		next, prompt = state.StateRegAge, "Введите новый возраст:"
	case "role":
		next, prompt, markup = state.StateRegRole, "Выберите новую роль:", keyboard.Roles()
	case "photo":
		next, prompt = state.StateRegPhoto, "Отправьте новое фото:"
	default:
		h.alert(ctx, ev, errorMessage(ErrInvalidFormat))
		return nil
	}

	h.answer(ctx, ev, "")
	h.sessions.SetData(ev.UserID, keyEditing, true)
	h.sessions.SetState(ev.UserID, next)
	h.send(ctx, ev.ChatID, prompt, markup)
	return nil
}

// HandleRegEditDone возврат к карточке без изменений
func (h *Handlers) HandleRegEditDone(ctx context.Context, ev *dispatch.Event) error {
	h.answer(ctx, ev, "")
	return h.showRegistrationCard(ctx, ev)
}
