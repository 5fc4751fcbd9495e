package handlers

import (
	"testing"

	"github.com/Freeeeeet/mentor_bot/internal/controller/keyboard"
	"github.com/Freeeeeet/mentor_bot/internal/model"
	"github.com/Freeeeeet/mentor_bot/internal/service"
	"github.com/go-telegram/bot/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withUser(e *testEnv) *model.User {
	u := &model.User{ID: 7, TelegramID: userID, Name: "Иван", Level: 1}
	e.users.users[userID] = u
	return u
}

func textLesson(index, total int) *service.Lesson {
	return &service.Lesson{
		Subcategory: &model.Subcategory{ID: 10, Name: "Основы"},
		Material: model.Material{
			ID: 100 + int64(index), SubcategoryID: 10, OrderNum: index + 1,
			Name: "Урок", ContentType: model.ContentText, Content: model.Content{Text: "текст"},
		},
		Index: index,
		Total: total,
	}
}

func TestLessonRequiresRegistration(t *testing.T) {
	e := newTestEnv(t)

	e.press(t, userID, keyboard.NextPrefix+"10_0")

	answer := e.tg.lastAnswer(t)
	assert.True(t, answer.ShowAlert)
	assert.Contains(t, answer.Text, "/start")
}

func TestNextSendsLessonWithXP(t *testing.T) {
	e := newTestEnv(t)
	withUser(e)
	lesson := textLesson(1, 3)
	lesson.XPGained = model.XPPerLesson
	e.learning.lesson = lesson

	e.press(t, userID, keyboard.NextPrefix+"10_0")

	assert.Equal(t, "+10 XP", e.tg.lastAnswer(t).Text)
	last := e.tg.lastMessage(t)
	assert.Contains(t, last.Text, "Урок 2/3")
	kb, ok := last.ReplyMarkup.(*models.InlineKeyboardMarkup)
	require.True(t, ok)
	assert.Equal(t, keyboard.PrevPrefix+"10_1", kb.InlineKeyboard[0][0].CallbackData)
}

func TestNextOnLastLessonAsksForRating(t *testing.T) {
	e := newTestEnv(t)
	withUser(e)
	e.learning.finished = true

	e.press(t, userID, keyboard.NextPrefix+"10_2")

	last := e.tg.lastMessage(t)
	assert.Contains(t, last.Text, "Поздравляем")
	kb, ok := last.ReplyMarkup.(*models.InlineKeyboardMarkup)
	require.True(t, ok)
	assert.Equal(t, keyboard.RatePrefix+"10_1", kb.InlineKeyboard[0][0].CallbackData)
}

func TestPrevOnFirstLessonAlerts(t *testing.T) {
	e := newTestEnv(t)
	withUser(e)
	e.learning.err = service.ErrFirstLesson

	e.press(t, userID, keyboard.PrevPrefix+"10_0")

	answer := e.tg.lastAnswer(t)
	assert.True(t, answer.ShowAlert)
	assert.Equal(t, "Это первый урок", answer.Text)
}

func TestRateStoresStars(t *testing.T) {
	e := newTestEnv(t)
	withUser(e)

	e.press(t, userID, keyboard.RatePrefix+"10_4")

	assert.Equal(t, 4, e.learning.rated)
	assert.Contains(t, e.tg.lastMessage(t).Text, "Спасибо за оценку 4")
}

func TestMalformedCallbackData(t *testing.T) {
	e := newTestEnv(t)
	withUser(e)

	e.press(t, userID, keyboard.NextPrefix+"abc")

	answer := e.tg.lastAnswer(t)
	assert.True(t, answer.ShowAlert)
	assert.Equal(t, errorMessage(ErrInvalidFormat), answer.Text)
}

func TestRewardNotice(t *testing.T) {
	user := &model.User{Level: 3}
	lesson := textLesson(0, 1)
	assert.Empty(t, rewardNotice(user, lesson))

	lesson.LevelUp = true
	lesson.Unlocked = []*model.Achievement{{Name: "Первый урок!", Icon: "📚"}}
	notice := rewardNotice(user, lesson)
	assert.Contains(t, notice, "Новый уровень: 3")
	assert.Contains(t, notice, "📚 <b>Первый урок!</b>")
}
