package dispatch

import (
	"context"
	"strings"

	"github.com/Freeeeeet/mentor_bot/internal/controller/state"
)

// Predicate условие выбора обработчика
type Predicate func(ev *Event) bool

type route struct {
	name    string
	match   Predicate
	handler HandlerFunc
}

// Router выбирает обработчик по приоритету регистрации: срабатывает первый подходящий
type Router struct {
	routes []route
}

func NewRouter() *Router {
	return &Router{}
}

// Handle регистрирует обработчик; порядок вызовов Handle задаёт приоритет
func (r *Router) Handle(name string, match Predicate, handler HandlerFunc) {
	r.routes = append(r.routes, route{name: name, match: match, handler: handler})
}

// Match возвращает имя и обработчик первого подходящего маршрута
func (r *Router) Match(ev *Event) (string, HandlerFunc, bool) {
	for _, rt := range r.routes {
		if rt.match(ev) {
			return rt.name, rt.handler, true
		}
	}
	return "", nil, false
}

// Serve передаёт событие первому подходящему обработчику; событие без обработчика отбрасывается
func (r *Router) Serve(ctx context.Context, ev *Event) error {
	_, handler, ok := r.Match(ev)
	if !ok {
		return nil
	}
	return handler(ctx, ev)
}

// ===== Предикаты =====

// Command совпадение команды сообщения
func Command(cmds ...string) Predicate {
	return func(ev *Event) bool {
		cmd := ev.Command()
		if cmd == "" {
			return false
		}
		for _, c := range cmds {
			if cmd == c {
				return true
			}
		}
		return false
	}
}

// Text точное совпадение текста сообщения
func Text(texts ...string) Predicate {
	return func(ev *Event) bool {
		if ev.Kind != KindMessage {
			return false
		}
		for _, t := range texts {
			if ev.Message.Text == t {
				return true
			}
		}
		return false
	}
}

// CallbackEquals точное совпадение данных кнопки
func CallbackEquals(values ...string) Predicate {
	return func(ev *Event) bool {
		if ev.Kind != KindCallback {
			return false
		}
		for _, v := range values {
			if ev.Callback.Data == v {
				return true
			}
		}
		return false
	}
}

// CallbackPrefix данные кнопки начинаются с prefix
func CallbackPrefix(prefix string) Predicate {
	return func(ev *Event) bool {
		return ev.Kind == KindCallback && strings.HasPrefix(ev.Callback.Data, prefix)
	}
}

// IsMessage любое сообщение
func IsMessage(ev *Event) bool {
	return ev.Kind == KindMessage
}

// IsCallback любое нажатие кнопки
func IsCallback(ev *Event) bool {
	return ev.Kind == KindCallback
}

// StateReader источник текущего состояния диалога
type StateReader interface {
	GetState(telegramID int64) state.UserState
}

// InState пользователь находится в одном из состояний
func InState(sr StateReader, states ...state.UserState) Predicate {
	return func(ev *Event) bool {
		current := sr.GetState(ev.UserID)
		if current == state.StateNone {
			return false
		}
		for _, s := range states {
			if current == s {
				return true
			}
		}
		return false
	}
}

// From событие от пользователя, для которого allowed вернул true
func From(allowed func(telegramID int64) bool) Predicate {
	return func(ev *Event) bool {
		return allowed(ev.UserID)
	}
}

func And(preds ...Predicate) Predicate {
	return func(ev *Event) bool {
		for _, p := range preds {
			if !p(ev) {
				return false
			}
		}
		return true
	}
}

func Or(preds ...Predicate) Predicate {
	return func(ev *Event) bool {
		for _, p := range preds {
			if p(ev) {
				return true
			}
		}
		return false
	}
}

func Not(p Predicate) Predicate {
	return func(ev *Event) bool {
		return !p(ev)
	}
}
