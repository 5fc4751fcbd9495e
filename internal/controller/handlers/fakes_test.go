package handlers

import (
	"bytes"
	"context"
	"sync"
	"testing"

	"github.com/Freeeeeet/mentor_bot/internal/controller/dispatch"
	"github.com/Freeeeeet/mentor_bot/internal/controller/state"
	"github.com/Freeeeeet/mentor_bot/internal/model"
	"github.com/Freeeeeet/mentor_bot/internal/repository/jsonstore"
	"github.com/Freeeeeet/mentor_bot/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	adminID = int64(1)
	userID  = int64(42)
)

type fakeTransport struct {
	mu        sync.Mutex
	messages  []*bot.SendMessageParams
	photos    []*bot.SendPhotoParams
	videos    []*bot.SendVideoParams
	documents []*bot.SendDocumentParams
	answers   []*bot.AnswerCallbackQueryParams
	edits     []*bot.EditMessageTextParams
}

func (f *fakeTransport) SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages = append(f.messages, params)
	return &models.Message{ID: len(f.messages)}, nil
}

func (f *fakeTransport) SendPhoto(ctx context.Context, params *bot.SendPhotoParams) (*models.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.photos = append(f.photos, params)
	return &models.Message{}, nil
}

func (f *fakeTransport) SendVideo(ctx context.Context, params *bot.SendVideoParams) (*models.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.videos = append(f.videos, params)
	return &models.Message{}, nil
}

func (f *fakeTransport) SendDocument(ctx context.Context, params *bot.SendDocumentParams) (*models.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.documents = append(f.documents, params)
	return &models.Message{}, nil
}

func (f *fakeTransport) AnswerCallbackQuery(ctx context.Context, params *bot.AnswerCallbackQueryParams) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.answers = append(f.answers, params)
	return true, nil
}

func (f *fakeTransport) EditMessageText(ctx context.Context, params *bot.EditMessageTextParams) (*models.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.edits = append(f.edits, params)
	return &models.Message{}, nil
}

func (f *fakeTransport) DeleteMessage(ctx context.Context, params *bot.DeleteMessageParams) (bool, error) {
	return true, nil
}

func (f *fakeTransport) lastMessage(t *testing.T) *bot.SendMessageParams {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	require.NotEmpty(t, f.messages)
	return f.messages[len(f.messages)-1]
}

func (f *fakeTransport) lastAnswer(t *testing.T) *bot.AnswerCallbackQueryParams {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	require.NotEmpty(t, f.answers)
	return f.answers[len(f.answers)-1]
}

type fakeUsers struct {
	users      map[int64]*model.User
	registered int
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{users: make(map[int64]*model.User)}
}

func (f *fakeUsers) Register(ctx context.Context, reg service.Registration) (*model.User, error) {
	if u, ok := f.users[reg.TelegramID]; ok {
		return u, service.ErrAlreadyRegistered
	}
	f.registered++
	u := &model.User{
		ID:          int64(len(f.users) + 1),
		TelegramID:  reg.TelegramID,
		Name:        reg.Name,
		Surname:     reg.Surname,
		Age:         reg.Age,
		Role:        reg.Role,
		PhotoFileID: reg.PhotoFileID,
		Level:       1,
	}
	f.users[reg.TelegramID] = u
	return u, nil
}

func (f *fakeUsers) GetByTelegramID(ctx context.Context, telegramID int64) (*model.User, error) {
	return f.users[telegramID], nil
}

func (f *fakeUsers) StartedCourses(ctx context.Context, userID int64) (int, error) { return 0, nil }

func (f *fakeUsers) Top(ctx context.Context, limit int) ([]*model.User, error) { return nil, nil }

func (f *fakeUsers) CountUsers(ctx context.Context) (int, error) { return len(f.users), nil }

type fakeSubscriptions struct {
	result   *service.GateResult
	sponsors []*model.Sponsor
	disabled []int64
}

func (f *fakeSubscriptions) Check(ctx context.Context, telegramID int64) (*service.GateResult, error) {
	if f.result != nil {
		return f.result, nil
	}
	return &service.GateResult{Allowed: true, Known: true}, nil
}

func (f *fakeSubscriptions) AddSponsor(ctx context.Context, name, url string) (*model.Sponsor, error) {
	s := &model.Sponsor{ID: int64(len(f.sponsors) + 1), Name: name, URL: url, IsActive: true}
	f.sponsors = append(f.sponsors, s)
	return s, nil
}

func (f *fakeSubscriptions) ActiveSponsors(ctx context.Context) ([]*model.Sponsor, error) {
	return f.sponsors, nil
}

func (f *fakeSubscriptions) DisableSponsor(ctx context.Context, id int64) error {
	f.disabled = append(f.disabled, id)
	return nil
}

// fakeLearning возвращает заранее заданные результаты навигации
type fakeLearning struct {
	lesson   *service.Lesson
	finished bool
	err      error
	rated    int
}

func (f *fakeLearning) OpenCourse(ctx context.Context, user *model.User, subcategoryID int64) (*service.Course, error) {
	return nil, f.err
}

func (f *fakeLearning) Restart(ctx context.Context, user *model.User, subcategoryID int64) (*service.Lesson, error) {
	return f.lesson, f.err
}

func (f *fakeLearning) Continue(ctx context.Context, user *model.User, subcategoryID int64) (*service.Lesson, error) {
	return f.lesson, f.err
}

func (f *fakeLearning) Open(ctx context.Context, user *model.User, subcategoryID int64, index int) (*service.Lesson, error) {
	return f.lesson, f.err
}

func (f *fakeLearning) Next(ctx context.Context, user *model.User, subcategoryID int64, index int) (*service.Lesson, bool, error) {
	return f.lesson, f.finished, f.err
}

func (f *fakeLearning) Prev(ctx context.Context, user *model.User, subcategoryID int64, index int) (*service.Lesson, error) {
	return f.lesson, f.err
}

func (f *fakeLearning) Bookmark(ctx context.Context, user *model.User, materialID int64) (*model.Material, error) {
	return nil, f.err
}

func (f *fakeLearning) Bookmarks(ctx context.Context, user *model.User) ([]*model.Bookmark, error) {
	return nil, f.err
}

func (f *fakeLearning) Rate(ctx context.Context, user *model.User, subcategoryID int64, stars int) error {
	f.rated = stars
	return f.err
}

func (f *fakeLearning) Progress(ctx context.Context, user *model.User) ([]service.CourseProgress, error) {
	return nil, f.err
}

type fakeBroadcasts struct {
	sent []*model.Broadcast
}

func (f *fakeBroadcasts) Supports(ct model.ContentType) bool {
	return ct != model.ContentYouTube
}

func (f *fakeBroadcasts) Send(ctx context.Context, b *model.Broadcast) (*service.BroadcastResult, error) {
	f.sent = append(f.sent, b)
	return &service.BroadcastResult{BroadcastID: int64(len(f.sent)), Sent: 3, Failed: 1}, nil
}

type fakeStats struct{}

func (fakeStats) Collect(ctx context.Context) (*service.Stats, error) { return &service.Stats{}, nil }

func (fakeStats) AdminTop(ctx context.Context, limit int) ([]service.TopEntry, error) { return nil, nil }

func (fakeStats) ExportUsers(ctx context.Context) (*bytes.Buffer, int, error) {
	return bytes.NewBufferString("xlsx"), 0, nil
}

type fakeAchievements struct{}

func (fakeAchievements) List(ctx context.Context, userID int64) ([]*model.Achievement, error) {
	return nil, nil
}

type testEnv struct {
	router        *dispatch.Router
	tg            *fakeTransport
	users         *fakeUsers
	subscriptions *fakeSubscriptions
	learning      *fakeLearning
	broadcasts    *fakeBroadcasts
	sessions      *state.Manager
	content       *jsonstore.Store
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	content, err := jsonstore.New(t.TempDir(), zap.NewNop())
	require.NoError(t, err)

	e := &testEnv{
		router:        dispatch.NewRouter(),
		tg:            &fakeTransport{},
		users:         newFakeUsers(),
		subscriptions: &fakeSubscriptions{},
		learning:      &fakeLearning{},
		broadcasts:    &fakeBroadcasts{},
		sessions:      state.NewManager(state.NewMemoryStore()),
		content:       content,
	}

	h := NewHandlers(Deps{
		Transport:     e.tg,
		Content:       content,
		Users:         e.users,
		Subscriptions: e.subscriptions,
		Learning:      e.learning,
		Achievements:  fakeAchievements{},
		Broadcasts:    e.broadcasts,
		Stats:         fakeStats{},
		Sessions:      e.sessions,
		IsAdmin:       func(id int64) bool { return id == adminID },
		Logger:        zap.NewNop(),
	})
	h.Register(e.router)

	return e
}

func (e *testEnv) serve(t *testing.T, ev *dispatch.Event) {
	t.Helper()
	require.NoError(t, e.router.Serve(context.Background(), ev))
}

func (e *testEnv) text(t *testing.T, from int64, text string) {
	t.Helper()
	e.serve(t, &dispatch.Event{
		Kind:    dispatch.KindMessage,
		UserID:  from,
		ChatID:  from,
		Message: &models.Message{Text: text, Chat: models.Chat{ID: from}, From: &models.User{ID: from}},
	})
}

func (e *testEnv) message(t *testing.T, from int64, msg *models.Message) {
	t.Helper()
	msg.Chat = models.Chat{ID: from}
	msg.From = &models.User{ID: from}
	e.serve(t, &dispatch.Event{Kind: dispatch.KindMessage, UserID: from, ChatID: from, Message: msg})
}

func (e *testEnv) press(t *testing.T, from int64, data string) {
	t.Helper()
	e.serve(t, &dispatch.Event{
		Kind:     dispatch.KindCallback,
		UserID:   from,
		ChatID:   from,
		Callback: &models.CallbackQuery{ID: "cb", Data: data, From: models.User{ID: from}},
	})
}
