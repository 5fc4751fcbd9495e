package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/Freeeeeet/mentor_bot/internal/model"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// GateResult итог проверки подписок
type GateResult struct {
	Allowed bool
	// Known false, если пользователь ещё не зарегистрирован
	Known   bool
	User    *model.User
	Missing []*model.Sponsor
	// NoSponsors активных спонсоров нет
	NoSponsors bool
}

// SubscriptionService проверяет подписку на каналы спонсоров и управляет списком спонсоров
type SubscriptionService struct {
	userRepo    UserRepository
	sponsorRepo SponsorRepository
	checker     MembershipChecker
	logger      *zap.Logger
}

func NewSubscriptionService(
	userRepo UserRepository,
	sponsorRepo SponsorRepository,
	checker MembershipChecker,
	logger *zap.Logger,
) *SubscriptionService {
	return &SubscriptionService{
		userRepo:    userRepo,
		sponsorRepo: sponsorRepo,
		checker:     checker,
		logger:      logger,
	}
}

// ChannelHandle извлекает @username канала из ссылки вида https://t.me/name/...;
// путь, параметры и якорь отбрасываются
func ChannelHandle(url string) (string, bool) {
	i := strings.LastIndex(url, "t.me/")
	if i < 0 {
		return "", false
	}

	name := url[i+len("t.me/"):]
	if end := strings.IndexAny(name, "/?#"); end >= 0 {
		name = name[:end]
	}
	name = strings.ReplaceAll(name, "@", "")
	if name == "" {
		return "", false
	}
	return "@" + name, true
}

// Check проверяет подписки пользователя по живым данным транспорта и
// синхронизирует сохранённый флаг is_subscribed, только если он изменился.
func (s *SubscriptionService) Check(ctx context.Context, telegramID int64) (*GateResult, error) {
	user, err := s.userRepo.GetByTelegramID(ctx, telegramID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	if user == nil {
		return &GateResult{Allowed: true}, nil
	}

	sponsors, err := s.sponsorRepo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list sponsors: %w", err)
	}

	result := &GateResult{Known: true, User: user, NoSponsors: len(sponsors) == 0}

	for _, sponsor := range sponsors {
		handle, ok := ChannelHandle(sponsor.URL)
		if !ok {
			continue
		}

		if !s.isMember(ctx, handle, telegramID) {
			result.Missing = append(result.Missing, sponsor)
		}
	}

	result.Allowed = len(result.Missing) == 0

	if result.Allowed != user.IsSubscribed {
		if err := s.userRepo.UpdateSubscribed(ctx, telegramID, result.Allowed); err != nil {
			// флаг справочный, живая проверка уже выполнена
			s.logger.Error("Failed to update subscription flag",
				zap.Int64("telegram_id", telegramID),
				zap.Error(err))
		} else {
			user.IsSubscribed = result.Allowed
			s.logger.Info("Subscription flag updated",
				zap.Int64("telegram_id", telegramID),
				zap.Bool("subscribed", result.Allowed))
		}
	}

	return result, nil
}

func (s *SubscriptionService) isMember(ctx context.Context, handle string, telegramID int64) bool {
	member, err := s.checker.GetChatMember(ctx, &bot.GetChatMemberParams{
		ChatID: handle,
		UserID: telegramID,
	})
	if err != nil {
		s.logger.Warn("Failed to check channel membership",
			zap.String("channel", handle),
			zap.Int64("telegram_id", telegramID),
			zap.Error(err))
		return false
	}

	switch member.Type {
	case models.ChatMemberTypeLeft, models.ChatMemberTypeBanned:
		return false
	}
	return true
}

// ===== Управление спонсорами =====

// AddSponsor добавляет активного спонсора
func (s *SubscriptionService) AddSponsor(ctx context.Context, name, url string) (*model.Sponsor, error) {
	sponsor := &model.Sponsor{Name: name, URL: url}
	if err := s.sponsorRepo.Create(ctx, sponsor); err != nil {
		return nil, err
	}

	s.logger.Info("Sponsor added",
		zap.Int64("sponsor_id", sponsor.ID),
		zap.String("url", url))
	return sponsor, nil
}

// ActiveSponsors возвращает спонсоров, на которых нужно подписаться
func (s *SubscriptionService) ActiveSponsors(ctx context.Context) ([]*model.Sponsor, error) {
	return s.sponsorRepo.ListActive(ctx)
}

// DisableSponsor отключает спонсора без удаления записи
func (s *SubscriptionService) DisableSponsor(ctx context.Context, id int64) error {
	ok, err := s.sponsorRepo.Deactivate(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrSponsorNotFound
	}

	s.logger.Info("Sponsor disabled", zap.Int64("sponsor_id", id))
	return nil
}
