package service

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Pacer выдерживает паузу между отправками, чтобы не упереться в лимиты транспорта
type Pacer struct {
	limiter *rate.Limiter
}

// NewPacer одна отправка за interval; interval <= 0 отключает паузы
func NewPacer(interval time.Duration) *Pacer {
	if interval <= 0 {
		return &Pacer{limiter: rate.NewLimiter(rate.Inf, 1)}
	}
	return &Pacer{limiter: rate.NewLimiter(rate.Every(interval), 1)}
}

// Wait блокирует до следующего разрешённого момента отправки
func (p *Pacer) Wait(ctx context.Context) error {
	return p.limiter.Wait(ctx)
}
