package handlers

import (
	"testing"

	"github.com/Freeeeeet/mentor_bot/internal/controller/keyboard"
	"github.com/Freeeeeet/mentor_bot/internal/controller/state"
	"github.com/Freeeeeet/mentor_bot/internal/model"
	"github.com/Freeeeeet/mentor_bot/internal/service"
	"github.com/Freeeeeet/mentor_bot/internal/validation"
	"github.com/go-telegram/bot/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func photoMessage() *models.Message {
	return &models.Message{Photo: []models.PhotoSize{
		{FileID: "small", Width: 90, Height: 90},
		{FileID: "big", Width: 800, Height: 800},
		{FileID: "medium", Width: 320, Height: 320},
	}}
}

// registerUntilConfirm проходит мастер до карточки подтверждения
func registerUntilConfirm(t *testing.T, e *testEnv) {
	t.Helper()
	e.text(t, userID, "/start")
	e.text(t, userID, "Иван")
	e.text(t, userID, "-")
	e.text(t, userID, "25")
	e.press(t, userID, validation.RoleStudentKey)
	e.message(t, userID, photoMessage())
	require.Equal(t, state.StateRegConfirm, e.sessions.GetState(userID))
}

func TestRegistrationWizard(t *testing.T) {
	e := newTestEnv(t)

	e.text(t, userID, "/start")
	assert.Equal(t, state.StateRegName, e.sessions.GetState(userID))

	e.text(t, userID, "Иван")
	assert.Equal(t, state.StateRegSurname, e.sessions.GetState(userID))

	e.text(t, userID, "-")
	assert.Equal(t, state.StateRegAge, e.sessions.GetState(userID))

	e.text(t, userID, "25")
	assert.Equal(t, state.StateRegRole, e.sessions.GetState(userID))

	e.press(t, userID, validation.RoleStudentKey)
	assert.Equal(t, state.StateRegPhoto, e.sessions.GetState(userID))

	e.message(t, userID, photoMessage())
	assert.Equal(t, state.StateRegConfirm, e.sessions.GetState(userID))
	require.Len(t, e.tg.photos, 1)
	assert.Equal(t, &models.InputFileString{Data: "big"}, e.tg.photos[0].Photo)
	assert.Contains(t, e.tg.photos[0].Caption, "Иван")

	e.press(t, userID, keyboard.RegConfirm)

	assert.Equal(t, 1, e.users.registered)
	user := e.users.users[userID]
	require.NotNil(t, user)
	assert.Equal(t, "Иван", user.Name)
	assert.Nil(t, user.Surname)
	assert.Equal(t, 25, user.Age)
	assert.Equal(t, model.RoleStudent, user.Role)
	assert.Equal(t, "big", user.PhotoFileID)

	assert.Equal(t, state.StateNone, e.sessions.GetState(userID))
	assert.Empty(t, e.sessions.Session(userID).Data)
	assert.IsType(t, &models.ReplyKeyboardMarkup{}, e.tg.lastMessage(t).ReplyMarkup)
}

func TestRegistrationInvalidAgeKeepsStep(t *testing.T) {
	e := newTestEnv(t)

	e.text(t, userID, "/start")
	e.text(t, userID, "Иван")
	e.text(t, userID, "Петров")

	e.text(t, userID, "двадцать")
	assert.Equal(t, state.StateRegAge, e.sessions.GetState(userID))
	assert.Contains(t, e.tg.lastMessage(t).Text, "числом")

	e.text(t, userID, "300")
	assert.Equal(t, state.StateRegAge, e.sessions.GetState(userID))

	_, ok := e.sessions.GetData(userID, keyAge)
	assert.False(t, ok)
	assert.Equal(t, "Иван", e.sessions.String(userID, keyName))
	assert.Equal(t, "Петров", e.sessions.String(userID, keySurname))
}

func TestRegistrationRoleRequiresButton(t *testing.T) {
	e := newTestEnv(t)

	e.text(t, userID, "/start")
	e.text(t, userID, "Иван")
	e.text(t, userID, "-")
	e.text(t, userID, "25")

	e.text(t, userID, "студент")
	assert.Equal(t, state.StateRegRole, e.sessions.GetState(userID))
	assert.IsType(t, &models.InlineKeyboardMarkup{}, e.tg.lastMessage(t).ReplyMarkup)
}

func TestRegistrationPhotoRequired(t *testing.T) {
	e := newTestEnv(t)

	e.text(t, userID, "/start")
	e.text(t, userID, "Иван")
	e.text(t, userID, "-")
	e.text(t, userID, "25")
	e.press(t, userID, validation.RoleWorkerKey)

	e.text(t, userID, "без фото")
	assert.Equal(t, state.StateRegPhoto, e.sessions.GetState(userID))
	assert.Empty(t, e.tg.photos)
}

func TestRegistrationEditField(t *testing.T) {
	e := newTestEnv(t)
	registerUntilConfirm(t, e)

	e.press(t, userID, keyboard.RegEdit)
	assert.Equal(t, state.StateRegEdit, e.sessions.GetState(userID))

	e.press(t, userID, keyboard.EditPrefix+"age")
	assert.Equal(t, state.StateRegAge, e.sessions.GetState(userID))

	e.text(t, userID, "30")
	assert.Equal(t, state.StateRegConfirm, e.sessions.GetState(userID))
	assert.Equal(t, int64(30), e.sessions.Int64(userID, keyAge))
	assert.False(t, e.sessions.Bool(userID, keyEditing))

	e.press(t, userID, keyboard.RegConfirm)
	require.NotNil(t, e.users.users[userID])
	assert.Equal(t, 30, e.users.users[userID].Age)
}

func TestCancelDuringRegistration(t *testing.T) {
	e := newTestEnv(t)

	e.text(t, userID, "/start")
	e.text(t, userID, "Иван")
	e.text(t, userID, keyboard.BtnCancel)

	assert.Equal(t, state.StateNone, e.sessions.GetState(userID))
	assert.Empty(t, e.sessions.Session(userID).Data)
	assert.Contains(t, e.tg.lastMessage(t).Text, "Регистрация отменена")
	assert.Zero(t, e.users.registered)
}

func TestStartRegisteredUserWithMissingSubscription(t *testing.T) {
	e := newTestEnv(t)
	e.users.users[userID] = &model.User{ID: 1, TelegramID: userID, Name: "Иван", Level: 1}
	e.subscriptions.result = &service.GateResult{
		Known:   true,
		Missing: []*model.Sponsor{{ID: 1, Name: "Канал", URL: "https://t.me/channel"}},
	}

	e.text(t, userID, "/start")

	last := e.tg.lastMessage(t)
	assert.Contains(t, last.Text, "Канал")
	assert.IsType(t, &models.InlineKeyboardMarkup{}, last.ReplyMarkup)
	assert.Equal(t, state.StateNone, e.sessions.GetState(userID))
}

func TestStartRegisteredUserShowsMenu(t *testing.T) {
	e := newTestEnv(t)
	e.users.users[userID] = &model.User{ID: 1, TelegramID: userID, Name: "Иван", Level: 1}

	e.text(t, userID, "/start")

	last := e.tg.lastMessage(t)
	assert.Contains(t, last.Text, "С возвращением")
	assert.IsType(t, &models.ReplyKeyboardMarkup{}, last.ReplyMarkup)
}
