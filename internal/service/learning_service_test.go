package service

import (
	"context"
	"testing"
	"time"

	"github.com/Freeeeeet/mentor_bot/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type learningFixture struct {
	svc       *LearningService
	users     *fakeUserRepo
	progress  *fakeProgressRepo
	bookmarks *fakeBookmarkRepo
	user      *model.User
}

func newLearningFixture(t *testing.T, lessons int) *learningFixture {
	t.Helper()

	user := &model.User{TelegramID: 42, Name: "Анна"}
	users := newFakeUserRepo(user)
	progress := &fakeProgressRepo{}
	bookmarks := &fakeBookmarkRepo{}

	achievements, _ := newSeededAchievements(t)
	svc := NewLearningService(courseContent(lessons), users, progress, bookmarks, achievements, time.UTC, zap.NewNop())
	svc.now = func() time.Time { return time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC) }

	current, _ := users.GetByTelegramID(context.Background(), 42)
	return &learningFixture{svc: svc, users: users, progress: progress, bookmarks: bookmarks, user: current}
}

func (f *learningFixture) index(t *testing.T) int {
	t.Helper()
	p, err := f.progress.Get(context.Background(), f.user.ID, 10)
	require.NoError(t, err)
	require.NotNil(t, p)
	return p.CurrentMaterialIndex
}

func TestOpenAwardsXPOnlyOnFirstView(t *testing.T) {
	f := newLearningFixture(t, 3)
	ctx := context.Background()

	lesson, err := f.svc.Open(ctx, f.user, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, model.XPPerLesson, lesson.XPGained)
	assert.Equal(t, 3, lesson.Total)
	require.NotEmpty(t, lesson.Unlocked)
	assert.Equal(t, model.AchievementFirstLesson, lesson.Unlocked[0].Code)

	again, err := f.svc.Open(ctx, f.user, 10, 0)
	require.NoError(t, err)
	assert.Zero(t, again.XPGained)
	assert.Empty(t, again.Unlocked)

	stored, _ := f.users.GetByTelegramID(ctx, 42)
	assert.Equal(t, model.XPPerLesson, stored.XP)
	assert.Equal(t, 1, stored.StreakDays)
}

func TestOpenLevelUp(t *testing.T) {
	f := newLearningFixture(t, 2)
	f.user.XP = 95

	lesson, err := f.svc.Open(context.Background(), f.user, 10, 0)
	require.NoError(t, err)
	assert.True(t, lesson.LevelUp)
	assert.Equal(t, 2, f.user.Level)
}

func TestNextAndPrevBoundaries(t *testing.T) {
	f := newLearningFixture(t, 3)
	ctx := context.Background()

	_, err := f.svc.Open(ctx, f.user, 10, 0)
	require.NoError(t, err)

	_, err = f.svc.Prev(ctx, f.user, 10, 0)
	assert.ErrorIs(t, err, ErrFirstLesson)
	assert.Equal(t, 0, f.index(t))

	lesson, finished, err := f.svc.Next(ctx, f.user, 10, 0)
	require.NoError(t, err)
	assert.False(t, finished)
	assert.Equal(t, 1, lesson.Index)
	assert.Equal(t, 1, f.index(t))

	_, _, err = f.svc.Next(ctx, f.user, 10, 1)
	require.NoError(t, err)

	lesson, finished, err = f.svc.Next(ctx, f.user, 10, 2)
	require.NoError(t, err)
	assert.True(t, finished)
	assert.Nil(t, lesson)
	assert.Equal(t, 2, f.index(t))

	prev, err := f.svc.Prev(ctx, f.user, 10, 2)
	require.NoError(t, err)
	assert.Equal(t, 1, prev.Index)
}

func TestFinishingCourseUnlocksAchievement(t *testing.T) {
	f := newLearningFixture(t, 2)
	ctx := context.Background()

	_, err := f.svc.Open(ctx, f.user, 10, 0)
	require.NoError(t, err)
	lesson, _, err := f.svc.Next(ctx, f.user, 10, 0)
	require.NoError(t, err)

	var codes []string
	for _, a := range lesson.Unlocked {
		codes = append(codes, a.Code)
	}
	assert.Contains(t, codes, model.AchievementFirstCourse)

	report, err := f.svc.Progress(ctx, f.user)
	require.NoError(t, err)
	require.Len(t, report, 1)
	assert.True(t, report[0].Finished)
	assert.Equal(t, 100.0, report[0].Percent)
	assert.Equal(t, "Основы", report[0].Name)
}

func TestStreakCounting(t *testing.T) {
	f := newLearningFixture(t, 5)
	ctx := context.Background()
	day := func(d int) func() time.Time {
		return func() time.Time { return time.Date(2026, 3, d, 20, 0, 0, 0, time.UTC) }
	}

	f.svc.now = day(1)
	_, err := f.svc.Open(ctx, f.user, 10, 0)
	require.NoError(t, err)

	f.svc.now = day(2)
	_, err = f.svc.Open(ctx, f.user, 10, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, f.user.StreakDays)

	f.svc.now = day(3)
	lesson, err := f.svc.Open(ctx, f.user, 10, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, f.user.StreakDays)

	var codes []string
	for _, a := range lesson.Unlocked {
		codes = append(codes, a.Code)
	}
	assert.Contains(t, codes, model.AchievementStreak3)

	// пропуск дня сбрасывает серию
	f.svc.now = day(5)
	_, err = f.svc.Open(ctx, f.user, 10, 3)
	require.NoError(t, err)
	assert.Equal(t, 1, f.user.StreakDays)
}

func TestContinueAndRestart(t *testing.T) {
	f := newLearningFixture(t, 3)
	ctx := context.Background()

	_, err := f.svc.Open(ctx, f.user, 10, 2)
	require.NoError(t, err)

	lesson, err := f.svc.Continue(ctx, f.user, 10)
	require.NoError(t, err)
	assert.Equal(t, 2, lesson.Index)

	lesson, err = f.svc.Restart(ctx, f.user, 10)
	require.NoError(t, err)
	assert.Equal(t, 0, lesson.Index)

	p, _ := f.progress.Get(ctx, f.user.ID, 10)
	assert.Equal(t, []int{0}, p.CompletedMaterials)
	assert.Len(t, f.progress.items, 1)
}

func TestEmptyCourse(t *testing.T) {
	f := newLearningFixture(t, 0)

	_, err := f.svc.OpenCourse(context.Background(), f.user, 10)
	assert.ErrorIs(t, err, ErrNoMaterials)

	_, err = f.svc.OpenCourse(context.Background(), f.user, 99)
	assert.ErrorIs(t, err, ErrCourseNotFound)
}

func TestBookmarkUnique(t *testing.T) {
	f := newLearningFixture(t, 2)
	ctx := context.Background()

	material, err := f.svc.Bookmark(ctx, f.user, 100)
	require.NoError(t, err)
	assert.Equal(t, int64(10), material.SubcategoryID)

	_, err = f.svc.Bookmark(ctx, f.user, 100)
	assert.ErrorIs(t, err, ErrAlreadyBookmarked)

	_, err = f.svc.Bookmark(ctx, f.user, 555)
	assert.ErrorIs(t, err, ErrMaterialNotFound)

	list, err := f.svc.Bookmarks(ctx, f.user)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestRate(t *testing.T) {
	f := newLearningFixture(t, 2)
	ctx := context.Background()

	assert.ErrorIs(t, f.svc.Rate(ctx, f.user, 10, 0), ErrInvalidRating)
	assert.ErrorIs(t, f.svc.Rate(ctx, f.user, 10, 6), ErrInvalidRating)

	require.NoError(t, f.svc.Rate(ctx, f.user, 10, 5))
	p, _ := f.progress.Get(ctx, f.user.ID, 10)
	require.NotNil(t, p.Rating)
	assert.Equal(t, 5, *p.Rating)
}
