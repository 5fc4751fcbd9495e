package dispatch

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type requestIDKey struct{}

// RequestID возвращает идентификатор обрабатываемого события из контекста
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// Dispatcher обрабатывает события: события одного пользователя строго по очереди,
// разных пользователей параллельно. Ошибки и паники обработчиков логируются и не
// прерывают работу бота.
type Dispatcher struct {
	router  *Router
	handler HandlerFunc
	locks   *keyedMutex
	logger  *zap.Logger
}

// NewDispatcher собирает цепочку middleware вокруг роутера; первый middleware выполняется первым
func NewDispatcher(router *Router, logger *zap.Logger, mws ...Middleware) *Dispatcher {
	return &Dispatcher{
		router:  router,
		handler: Chain(router.Serve, mws...),
		locks:   newKeyedMutex(),
		logger:  logger,
	}
}

// HandleUpdate точка входа для транспорта, совместима с bot.HandlerFunc
func (d *Dispatcher) HandleUpdate(ctx context.Context, _ *bot.Bot, update *models.Update) {
	ev, ok := FromUpdate(update)
	if !ok {
		return
	}
	d.Dispatch(ctx, ev)
}

// Dispatch обрабатывает одно событие до конца
func (d *Dispatcher) Dispatch(ctx context.Context, ev *Event) {
	if ev.RequestID == "" {
		ev.RequestID = uuid.NewString()
	}
	ctx = context.WithValue(ctx, requestIDKey{}, ev.RequestID)

	unlock := d.locks.Lock(ev.UserID)
	defer unlock()

	start := time.Now()
	routeName, _, matched := d.router.Match(ev)

	logger := d.logger.With(
		zap.String("request_id", ev.RequestID),
		zap.String("kind", ev.Kind.String()),
		zap.Int64("telegram_id", ev.UserID),
		zap.String("route", routeName),
	)

	err := d.safeCall(ctx, ev)
	if err != nil {
		logger.Error("Handler failed", zap.Error(err), zap.Duration("latency", time.Since(start)))
		return
	}

	if matched {
		logger.Debug("Event handled", zap.Duration("latency", time.Since(start)))
	}
}

func (d *Dispatcher) safeCall(ctx context.Context, ev *Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
			d.logger.Error("Recovered from handler panic",
				zap.String("request_id", ev.RequestID),
				zap.Any("panic", r),
				zap.ByteString("stack", debug.Stack()))
		}
	}()
	return d.handler(ctx, ev)
}

// keyedMutex мьютекс на пользователя; запись удаляется, когда её никто не держит
type keyedMutex struct {
	mu    sync.Mutex
	locks map[int64]*refLock
}

type refLock struct {
	mu   sync.Mutex
	refs int
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[int64]*refLock)}
}

func (k *keyedMutex) Lock(key int64) func() {
	k.mu.Lock()
	l, ok := k.locks[key]
	if !ok {
		l = &refLock{}
		k.locks[key] = l
	}
	l.refs++
	k.mu.Unlock()

	l.mu.Lock()

	return func() {
		l.mu.Unlock()

		k.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}
