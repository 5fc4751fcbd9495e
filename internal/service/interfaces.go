package service

import (
	"context"
	"time"

	"github.com/Freeeeeet/mentor_bot/internal/model"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// Репозитории, которыми пользуются сервисы. Реализации в internal/repository.

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByTelegramID(ctx context.Context, telegramID int64) (*model.User, error)
	GetByID(ctx context.Context, id int64) (*model.User, error)
	UpdateSubscribed(ctx context.Context, telegramID int64, subscribed bool) error
	TouchActivity(ctx context.Context, telegramID int64) error
	UpdateLearning(ctx context.Context, user *model.User) error
	ListAll(ctx context.Context) ([]*model.User, error)
	TelegramIDs(ctx context.Context) ([]int64, error)
	Top(ctx context.Context, limit int) ([]*model.User, error)
	ActiveSince(ctx context.Context, since time.Time) ([]*model.User, error)
	InactiveSince(ctx context.Context, before time.Time) ([]*model.User, error)
	CountAll(ctx context.Context) (int, error)
	CountActiveSince(ctx context.Context, since time.Time) (int, error)
	AverageXP(ctx context.Context) (float64, error)
}

type SponsorRepository interface {
	Create(ctx context.Context, sponsor *model.Sponsor) error
	ListActive(ctx context.Context) ([]*model.Sponsor, error)
	Deactivate(ctx context.Context, id int64) (bool, error)
	CountActive(ctx context.Context) (int, error)
}

type BroadcastRepository interface {
	Create(ctx context.Context, b *model.Broadcast) error
	UpdateTally(ctx context.Context, id int64, sent, failed int) error
	CountAll(ctx context.Context) (int, error)
}

type ProgressRepository interface {
	Get(ctx context.Context, userID, subcategoryID int64) (*model.UserProgress, error)
	Upsert(ctx context.Context, userID, subcategoryID int64) (*model.UserProgress, error)
	Save(ctx context.Context, p *model.UserProgress) error
	SetRating(ctx context.Context, userID, subcategoryID int64, rating int) error
	ListByUser(ctx context.Context, userID int64) ([]*model.UserProgress, error)
	ListByUserSince(ctx context.Context, userID int64, since time.Time) ([]*model.UserProgress, error)
	LatestPerUser(ctx context.Context) ([]*model.UserProgress, error)
	CountByUser(ctx context.Context, userID int64) (int, error)
	CountLearners(ctx context.Context) (int, error)
}

type BookmarkRepository interface {
	Add(ctx context.Context, b *model.Bookmark) (bool, error)
	ListByUser(ctx context.Context, userID int64) ([]*model.Bookmark, error)
	CountAll(ctx context.Context) (int, error)
}

type AchievementRepository interface {
	Seed(ctx context.Context, catalog []model.Achievement) (int, error)
	GetByCode(ctx context.Context, code string) (*model.Achievement, error)
	Grant(ctx context.Context, userID, achievementID int64) (bool, error)
	ListByUser(ctx context.Context, userID int64) ([]*model.Achievement, error)
}

// ContentReader чтение дерева контента. Реализация: jsonstore.Store
type ContentReader interface {
	Categories() ([]model.Category, error)
	Subcategories(categoryID int64) ([]model.Subcategory, error)
	Subcategory(id int64) (*model.Subcategory, error)
	Materials(subcategoryID int64) ([]model.Material, error)
	Material(id int64) (*model.Material, error)
	RandomTip() string
}

// MessageSender отправка сообщений; *bot.Bot удовлетворяет интерфейсу
type MessageSender interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
	SendPhoto(ctx context.Context, params *bot.SendPhotoParams) (*models.Message, error)
	SendVideo(ctx context.Context, params *bot.SendVideoParams) (*models.Message, error)
	SendDocument(ctx context.Context, params *bot.SendDocumentParams) (*models.Message, error)
}

// MembershipChecker запрос статуса участника канала; *bot.Bot удовлетворяет интерфейсу
type MembershipChecker interface {
	GetChatMember(ctx context.Context, params *bot.GetChatMemberParams) (*models.ChatMember, error)
}
