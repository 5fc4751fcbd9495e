package handlers

import (
	"testing"

	"github.com/Freeeeeet/mentor_bot/internal/controller/state"
	"github.com/stretchr/testify/assert"
)

func TestUnmatchedEventsAreDropped(t *testing.T) {
	e := newTestEnv(t)
	withUser(e)

	e.text(t, userID, "hello there")
	e.press(t, userID, "junk_data")

	assert.Empty(t, e.tg.messages)
	assert.Empty(t, e.tg.answers)
	assert.Empty(t, e.tg.edits)
	assert.Equal(t, state.StateNone, e.sessions.GetState(userID))
}

func TestUnmatchedAdminInputIsDropped(t *testing.T) {
	e := newTestEnv(t)

	e.text(t, adminID, "/admin")
	sent := len(e.tg.messages)

	e.text(t, adminID, "что-то непонятное")
	e.press(t, adminID, "stale_button")

	assert.Len(t, e.tg.messages, sent)
	assert.Empty(t, e.tg.answers)
	assert.True(t, e.sessions.IsAdminMode(adminID))
}
