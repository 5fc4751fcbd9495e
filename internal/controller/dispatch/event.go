// Package dispatch принимает обновления транспорта, прогоняет их через
// цепочку middleware и передаёт первому подходящему обработчику.
package dispatch

import (
	"context"
	"strings"

	"github.com/go-telegram/bot/models"
)

// Kind вид входящего события
type Kind int

const (
	KindMessage Kind = iota + 1
	KindCallback
)

func (k Kind) String() string {
	switch k {
	case KindMessage:
		return "message"
	case KindCallback:
		return "callback"
	}
	return "unknown"
}

// Event входящее событие: сообщение или нажатие inline кнопки.
// Для KindMessage заполнено Message, для KindCallback заполнено Callback.
type Event struct {
	Kind      Kind
	UserID    int64
	ChatID    int64
	Message   *models.Message
	Callback  *models.CallbackQuery
	RequestID string
}

// FromUpdate строит событие из обновления; остальные виды обновлений не поддерживаются
func FromUpdate(update *models.Update) (*Event, bool) {
	if update == nil {
		return nil, false
	}

	switch {
	case update.Message != nil && update.Message.From != nil:
		return &Event{
			Kind:    KindMessage,
			UserID:  update.Message.From.ID,
			ChatID:  update.Message.Chat.ID,
			Message: update.Message,
		}, true

	case update.CallbackQuery != nil:
		cb := update.CallbackQuery
		ev := &Event{
			Kind:     KindCallback,
			UserID:   cb.From.ID,
			ChatID:   cb.From.ID,
			Callback: cb,
		}
		if msg := cb.Message.Message; msg != nil {
			ev.ChatID = msg.Chat.ID
		}
		return ev, true
	}

	return nil, false
}

// Text текст сообщения; для callback пустая строка
func (e *Event) Text() string {
	if e.Kind != KindMessage {
		return ""
	}
	return e.Message.Text
}

// Data данные нажатой кнопки; для сообщения пустая строка
func (e *Event) Data() string {
	if e.Kind != KindCallback {
		return ""
	}
	return e.Callback.Data
}

// Command возвращает команду без аргументов и упоминания бота ("/start@bot arg" -> "/start")
func (e *Event) Command() string {
	text := e.Text()
	if !strings.HasPrefix(text, "/") {
		return ""
	}
	cmd, _, _ := strings.Cut(text, " ")
	cmd, _, _ = strings.Cut(cmd, "@")
	return cmd
}

// CallbackMessage сообщение, к которому привязана нажатая кнопка
func (e *Event) CallbackMessage() *models.Message {
	if e.Kind != KindCallback {
		return nil
	}
	return e.Callback.Message.Message
}

// HandlerFunc обработчик события
type HandlerFunc func(ctx context.Context, ev *Event) error

// Middleware оборачивает обработчик
type Middleware func(next HandlerFunc) HandlerFunc

// Chain применяет middleware так, что первый в списке выполняется первым
func Chain(h HandlerFunc, mws ...Middleware) HandlerFunc {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}
