package service

import (
	"context"
	"fmt"
	"html"

	"github.com/Freeeeeet/mentor_bot/internal/model"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// BroadcastResult итог рассылки
type BroadcastResult struct {
	BroadcastID int64
	Sent        int
	Failed      int
}

// BroadcastService рассылка сообщений всем пользователям
type BroadcastService struct {
	broadcastRepo BroadcastRepository
	userRepo      UserRepository
	sender        MessageSender
	pacer         *Pacer
	logger        *zap.Logger
}

func NewBroadcastService(
	broadcastRepo BroadcastRepository,
	userRepo UserRepository,
	sender MessageSender,
	pacer *Pacer,
	logger *zap.Logger,
) *BroadcastService {
	return &BroadcastService{
		broadcastRepo: broadcastRepo,
		userRepo:      userRepo,
		sender:        sender,
		pacer:         pacer,
		logger:        logger,
	}
}

// BroadcastHeader заголовок рассылки: название и описание, если оно задано
func BroadcastHeader(b *model.Broadcast) string {
	header := "📢 <b>" + html.EscapeString(b.Name) + "</b>"
	if b.Description != nil && *b.Description != "" {
		header += "\n\n" + html.EscapeString(*b.Description)
	}
	return header
}

// Supports проверяет, можно ли разослать контент такого типа
func (s *BroadcastService) Supports(ct model.ContentType) bool {
	switch ct {
	case model.ContentText, model.ContentPhoto, model.ContentVideo, model.ContentDocument:
		return true
	}
	return false
}

// Send сохраняет рассылку и отправляет её всем пользователям по очереди.
// Запись создаётся до отправки; ошибка отдельного получателя не прерывает рассылку.
func (s *BroadcastService) Send(ctx context.Context, b *model.Broadcast) (*BroadcastResult, error) {
	if !s.Supports(b.ContentType) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedContent, b.ContentType)
	}

	if err := s.broadcastRepo.Create(ctx, b); err != nil {
		return nil, fmt.Errorf("save broadcast: %w", err)
	}

	audience, err := s.userRepo.TelegramIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("load audience: %w", err)
	}

	s.logger.Info("📨 Broadcast started",
		zap.Int64("broadcast_id", b.ID),
		zap.String("name", b.Name),
		zap.Int("audience", len(audience)))

	var markup models.ReplyMarkup
	if b.HasButton() {
		markup = &models.InlineKeyboardMarkup{
			InlineKeyboard: [][]models.InlineKeyboardButton{
				{{Text: *b.ButtonText, URL: *b.ButtonURL}},
			},
		}
	}

	header := BroadcastHeader(b)

	result := &BroadcastResult{BroadcastID: b.ID}
	for _, chatID := range audience {
		if err := s.pacer.Wait(ctx); err != nil {
			// контекст отменён: оставшиеся получатели считаются неудачными
			result.Failed += len(audience) - result.Sent - result.Failed
			break
		}

		if _, err := SendContent(ctx, s.sender, chatID, b.ContentType, header, b.Content, markup); err != nil {
			result.Failed++
			s.logger.Warn("Failed to deliver broadcast",
				zap.Int64("broadcast_id", b.ID),
				zap.Int64("chat_id", chatID),
				zap.Error(err))
			continue
		}
		result.Sent++
	}

	b.Sent, b.Failed = result.Sent, result.Failed
	if err := s.broadcastRepo.UpdateTally(context.WithoutCancel(ctx), b.ID, result.Sent, result.Failed); err != nil {
		s.logger.Error("Failed to save broadcast tally",
			zap.Int64("broadcast_id", b.ID),
			zap.Error(err))
	}

	s.logger.Info("✅ Broadcast finished",
		zap.Int64("broadcast_id", b.ID),
		zap.Int("sent", result.Sent),
		zap.Int("failed", result.Failed))

	return result, nil
}
