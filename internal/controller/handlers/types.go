package handlers

import (
	"bytes"
	"context"

	"github.com/Freeeeeet/mentor_bot/internal/controller/state"
	"github.com/Freeeeeet/mentor_bot/internal/model"
	"github.com/Freeeeeet/mentor_bot/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// Transport методы транспорта, которыми пользуются обработчики; *bot.Bot удовлетворяет интерфейсу
type Transport interface {
	service.MessageSender
	AnswerCallbackQuery(ctx context.Context, params *bot.AnswerCallbackQueryParams) (bool, error)
	EditMessageText(ctx context.Context, params *bot.EditMessageTextParams) (*models.Message, error)
	DeleteMessage(ctx context.Context, params *bot.DeleteMessageParams) (bool, error)
}

// ContentStore дерево контента, FAQ и советы; реализация jsonstore.Store
type ContentStore interface {
	Categories() ([]model.Category, error)
	Category(id int64) (*model.Category, error)
	CategoryExists(name string) (bool, error)
	AddCategory(name string) (*model.Category, error)
	DeleteCategory(id int64) error

	Subcategories(categoryID int64) ([]model.Subcategory, error)
	Subcategory(id int64) (*model.Subcategory, error)
	AddSubcategory(categoryID int64, name string, wikiText, pros, cons *string) (*model.Subcategory, error)
	DeleteSubcategory(id int64) error

	Materials(subcategoryID int64) ([]model.Material, error)
	Material(id int64) (*model.Material, error)
	MaxOrder(subcategoryID int64) (int, error)
	AddMaterial(m model.Material) (*model.Material, error)
	DeleteMaterial(id int64) error

	FAQ() ([]model.FAQ, error)
	AddFAQ(question, answer string) (*model.FAQ, error)
	DeleteFAQ(id int64) error
	Tips() ([]string, error)
	RandomTip() string
	AddTip(tip string) error
	DeleteTip(index int) error
}

type UserService interface {
	Register(ctx context.Context, reg service.Registration) (*model.User, error)
	GetByTelegramID(ctx context.Context, telegramID int64) (*model.User, error)
	StartedCourses(ctx context.Context, userID int64) (int, error)
	Top(ctx context.Context, limit int) ([]*model.User, error)
	CountUsers(ctx context.Context) (int, error)
}

type SubscriptionService interface {
	Check(ctx context.Context, telegramID int64) (*service.GateResult, error)
	AddSponsor(ctx context.Context, name, url string) (*model.Sponsor, error)
	ActiveSponsors(ctx context.Context) ([]*model.Sponsor, error)
	DisableSponsor(ctx context.Context, id int64) error
}

type LearningService interface {
	OpenCourse(ctx context.Context, user *model.User, subcategoryID int64) (*service.Course, error)
	Restart(ctx context.Context, user *model.User, subcategoryID int64) (*service.Lesson, error)
	Continue(ctx context.Context, user *model.User, subcategoryID int64) (*service.Lesson, error)
	Open(ctx context.Context, user *model.User, subcategoryID int64, index int) (*service.Lesson, error)
	Next(ctx context.Context, user *model.User, subcategoryID int64, index int) (*service.Lesson, bool, error)
	Prev(ctx context.Context, user *model.User, subcategoryID int64, index int) (*service.Lesson, error)
	Bookmark(ctx context.Context, user *model.User, materialID int64) (*model.Material, error)
	Bookmarks(ctx context.Context, user *model.User) ([]*model.Bookmark, error)
	Rate(ctx context.Context, user *model.User, subcategoryID int64, stars int) error
	Progress(ctx context.Context, user *model.User) ([]service.CourseProgress, error)
}

type AchievementService interface {
	List(ctx context.Context, userID int64) ([]*model.Achievement, error)
}

type BroadcastService interface {
	Supports(ct model.ContentType) bool
	Send(ctx context.Context, b *model.Broadcast) (*service.BroadcastResult, error)
}

type StatsService interface {
	Collect(ctx context.Context) (*service.Stats, error)
	AdminTop(ctx context.Context, limit int) ([]service.TopEntry, error)
	ExportUsers(ctx context.Context) (*bytes.Buffer, int, error)
}

// Deps зависимости обработчиков
type Deps struct {
	Transport     Transport
	Content       ContentStore
	Users         UserService
	Subscriptions SubscriptionService
	Learning      LearningService
	Achievements  AchievementService
	Broadcasts    BroadcastService
	Stats         StatsService
	Sessions      *state.Manager
	IsAdmin       func(telegramID int64) bool
	Logger        *zap.Logger
}

// Handlers содержит все зависимости для обработки событий
type Handlers struct {
	tg            Transport
	content       ContentStore
	users         UserService
	subscriptions SubscriptionService
	learning      LearningService
	achievements  AchievementService
	broadcasts    BroadcastService
	stats         StatsService
	sessions      *state.Manager
	isAdmin       func(telegramID int64) bool
	logger        *zap.Logger
}

// NewHandlers создаёт обработчики
func NewHandlers(d Deps) *Handlers {
	return &Handlers{
		tg:            d.Transport,
		content:       d.Content,
		users:         d.Users,
		subscriptions: d.Subscriptions,
		learning:      d.Learning,
		achievements:  d.Achievements,
		broadcasts:    d.Broadcasts,
		stats:         d.Stats,
		sessions:      d.Sessions,
		isAdmin:       d.IsAdmin,
		logger:        d.Logger,
	}
}
