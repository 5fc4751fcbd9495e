package service

import (
	"context"
	"testing"
	"time"

	"github.com/Freeeeeet/mentor_bot/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

func newStatsFixture() (*StatsService, *fakeProgressRepo) {
	now := time.Now()
	users := newFakeUserRepo(
		&model.User{TelegramID: 1, Name: "Анна", XP: 30, LastActive: now},
		&model.User{TelegramID: 2, Name: "Борис", XP: 10, LastActive: now.AddDate(0, 0, -3)},
		&model.User{TelegramID: 3, Name: "Вера", XP: 20, LastActive: now.AddDate(0, 0, -30)},
	)
	progress := &fakeProgressRepo{}
	_, _ = progress.Upsert(context.Background(), 1, 10)

	svc := NewStatsService(courseContent(4), users, progress, &fakeBookmarkRepo{}, &fakeSponsorRepo{}, &fakeBroadcastRepo{}, zap.NewNop())
	return svc, progress
}

func TestCollect(t *testing.T) {
	svc, _ := newStatsFixture()

	st, err := svc.Collect(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, st.Users)
	assert.Equal(t, 1, st.ActiveToday)
	assert.Equal(t, 2, st.ActiveWeek)
	assert.InDelta(t, 20.0, st.AverageXP, 0.001)
	assert.Equal(t, 1, st.Categories)
	assert.Equal(t, 1, st.Subcategories)
	assert.Equal(t, 4, st.Materials)
	assert.Equal(t, 1, st.Learners)
}

func TestAdminTop(t *testing.T) {
	svc, _ := newStatsFixture()

	top, err := svc.AdminTop(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, "Анна", top[0].User.Name)
	assert.Equal(t, 1, top[0].StartedCourses)
	assert.Equal(t, "Вера", top[1].User.Name)
	assert.Equal(t, 0, top[1].StartedCourses)
}

func TestExportUsers(t *testing.T) {
	svc, _ := newStatsFixture()

	buf, count, err := svc.ExportUsers(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	f, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(exportSheet)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, "Telegram ID", rows[0][1])
	assert.Equal(t, "Анна", rows[1][2])
	assert.Equal(t, "—", rows[1][3])
}
