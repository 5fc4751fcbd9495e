package middleware

import (
	"context"
	"errors"
	"testing"

	"github.com/Freeeeeet/mentor_bot/internal/controller/dispatch"
	"github.com/Freeeeeet/mentor_bot/internal/controller/keyboard"
	"github.com/Freeeeeet/mentor_bot/internal/controller/state"
	"github.com/Freeeeeet/mentor_bot/internal/model"
	"github.com/Freeeeeet/mentor_bot/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubChecker struct {
	result *service.GateResult
	err    error
	calls  int
}

func (c *stubChecker) Check(ctx context.Context, telegramID int64) (*service.GateResult, error) {
	c.calls++
	return c.result, c.err
}

type stubPrompter struct {
	messages []*bot.SendMessageParams
	answers  []*bot.AnswerCallbackQueryParams
}

func (p *stubPrompter) SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error) {
	p.messages = append(p.messages, params)
	return &models.Message{}, nil
}

func (p *stubPrompter) AnswerCallbackQuery(ctx context.Context, params *bot.AnswerCallbackQueryParams) (bool, error) {
	p.answers = append(p.answers, params)
	return true, nil
}

func message(text string) *dispatch.Event {
	return &dispatch.Event{
		Kind:    dispatch.KindMessage,
		UserID:  42,
		ChatID:  42,
		Message: &models.Message{Text: text, Chat: models.Chat{ID: 42}, From: &models.User{ID: 42}},
	}
}

func callback(data string) *dispatch.Event {
	return &dispatch.Event{
		Kind:     dispatch.KindCallback,
		UserID:   42,
		ChatID:   42,
		Callback: &models.CallbackQuery{ID: "cb-1", Data: data, From: models.User{ID: 42}},
	}
}

func run(mw dispatch.Middleware, ev *dispatch.Event) (bool, error) {
	reached := false
	h := mw(func(ctx context.Context, ev *dispatch.Event) error {
		reached = true
		return nil
	})
	err := h(context.Background(), ev)
	return reached, err
}

func TestGateDeniesAndPrompts(t *testing.T) {
	checker := &stubChecker{result: &service.GateResult{
		Known:   true,
		Missing: []*model.Sponsor{{ID: 2, Name: "Канал <B>", URL: "https://t.me/b"}},
	}}
	prompter := &stubPrompter{}

	reached, err := run(Gate(checker, prompter, zap.NewNop()), message(keyboard.BtnCourses))
	require.NoError(t, err)
	assert.False(t, reached)

	require.Len(t, prompter.messages, 1)
	assert.Contains(t, prompter.messages[0].Text, "• Канал &lt;B&gt;")
	kb, ok := prompter.messages[0].ReplyMarkup.(*models.InlineKeyboardMarkup)
	require.True(t, ok)
	require.Len(t, kb.InlineKeyboard, 2)
	assert.Equal(t, "https://t.me/b", kb.InlineKeyboard[0][0].URL)
	assert.Equal(t, keyboard.CheckSubscription, kb.InlineKeyboard[1][0].CallbackData)
}

func TestGateAnswersBlockedCallback(t *testing.T) {
	checker := &stubChecker{result: &service.GateResult{Known: true, Missing: []*model.Sponsor{{Name: "A"}}}}
	prompter := &stubPrompter{}

	reached, err := run(Gate(checker, prompter, zap.NewNop()), callback("cat_1"))
	require.NoError(t, err)
	assert.False(t, reached)
	require.Len(t, prompter.answers, 1)
	assert.True(t, prompter.answers[0].ShowAlert)
}

func TestGateAllows(t *testing.T) {
	checker := &stubChecker{result: &service.GateResult{Allowed: true, Known: true}}
	prompter := &stubPrompter{}

	reached, err := run(Gate(checker, prompter, zap.NewNop()), message("hi"))
	require.NoError(t, err)
	assert.True(t, reached)
	assert.Empty(t, prompter.messages)
}

func TestGateBypassesStartAndRecheck(t *testing.T) {
	checker := &stubChecker{result: &service.GateResult{Known: true}}
	gate := Gate(checker, &stubPrompter{}, zap.NewNop())

	reached, err := run(gate, message("/start"))
	require.NoError(t, err)
	assert.True(t, reached)

	reached, err = run(gate, callback(keyboard.CheckSubscription))
	require.NoError(t, err)
	assert.True(t, reached)

	assert.Zero(t, checker.calls)
}

func TestGateFailsOpenOnStoreError(t *testing.T) {
	checker := &stubChecker{err: errors.New("connection refused")}

	reached, err := run(Gate(checker, &stubPrompter{}, zap.NewNop()), message("hi"))
	require.NoError(t, err)
	assert.True(t, reached)
}

func TestAdminRestorer(t *testing.T) {
	sessions := state.NewManager(state.NewMemoryStore())
	isAdmin := func(id int64) bool { return id == 42 }

	reached, err := run(AdminRestorer(isAdmin, sessions), message("hi"))
	require.NoError(t, err)
	assert.True(t, reached)
	assert.True(t, sessions.IsAdminMode(42))

	other := message("hi")
	other.UserID = 7
	_, err = run(AdminRestorer(isAdmin, sessions), other)
	require.NoError(t, err)
	assert.False(t, sessions.IsAdminMode(7))
}

type stubToucher struct {
	touched []int64
	err     error
}

func (s *stubToucher) TouchActivity(ctx context.Context, telegramID int64) error {
	s.touched = append(s.touched, telegramID)
	return s.err
}

func TestActivityNeverBlocks(t *testing.T) {
	toucher := &stubToucher{err: errors.New("timeout")}

	reached, err := run(Activity(toucher, zap.NewNop()), message("hi"))
	require.NoError(t, err)
	assert.True(t, reached)
	assert.Equal(t, []int64{42}, toucher.touched)
}
