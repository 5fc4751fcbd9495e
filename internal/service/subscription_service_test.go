package service

import (
	"context"
	"testing"

	"github.com/Freeeeeet/mentor_bot/internal/model"
	"github.com/go-telegram/bot/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestChannelHandle(t *testing.T) {
	tests := []struct {
		url    string
		handle string
		ok     bool
	}{
		{"https://t.me/golang_news", "@golang_news", true},
		{"https://t.me/golang_news/15", "@golang_news", true},
		{"t.me/@channel", "@channel", true},
		{"https://t.me/golang_news?start=x", "@golang_news", true},
		{"https://t.me/golang_news#top", "@golang_news", true},
		{"https://t.me/?start=x", "", false},
		{"https://t.me/", "", false},
		{"https://example.com/channel", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			handle, ok := ChannelHandle(tt.url)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.handle, handle)
		})
	}
}

func newGateFixture(subscribed bool) (*SubscriptionService, *fakeUserRepo, *fakeChecker) {
	users := newFakeUserRepo(&model.User{TelegramID: 42, Name: "Анна", IsSubscribed: subscribed})
	sponsors := &fakeSponsorRepo{}
	ctx := context.Background()
	_ = sponsors.Create(ctx, &model.Sponsor{Name: "A", URL: "https://t.me/a"})
	_ = sponsors.Create(ctx, &model.Sponsor{Name: "B", URL: "https://t.me/b"})

	checker := &fakeChecker{members: map[string]map[int64]models.ChatMemberType{
		"@a": {42: models.ChatMemberTypeMember},
		"@b": {},
	}}
	svc := NewSubscriptionService(users, sponsors, checker, zap.NewNop())
	return svc, users, checker
}

func TestCheckDeniesAndListsOnlyMissingSponsors(t *testing.T) {
	svc, users, _ := newGateFixture(true)

	result, err := svc.Check(context.Background(), 42)
	require.NoError(t, err)

	assert.False(t, result.Allowed)
	assert.True(t, result.Known)
	require.Len(t, result.Missing, 1)
	assert.Equal(t, "B", result.Missing[0].Name)

	user, _ := users.GetByTelegramID(context.Background(), 42)
	assert.False(t, user.IsSubscribed)
}

func TestCheckAllowsAndFlipsFlagOnce(t *testing.T) {
	svc, users, checker := newGateFixture(false)
	checker.members["@b"][42] = models.ChatMemberTypeAdministrator

	result, err := svc.Check(context.Background(), 42)
	require.NoError(t, err)
	assert.True(t, result.Allowed)
	assert.Empty(t, result.Missing)

	user, _ := users.GetByTelegramID(context.Background(), 42)
	assert.True(t, user.IsSubscribed)
	assert.Equal(t, 1, users.subscribedCalls)

	// флаг уже совпадает, повторная запись не нужна
	_, err = svc.Check(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, 1, users.subscribedCalls)
}

func TestCheckTreatsLookupErrorAsNotSubscribed(t *testing.T) {
	svc, _, checker := newGateFixture(true)
	checker.members["@b"][42] = models.ChatMemberTypeMember
	delete(checker.members, "@a")

	result, err := svc.Check(context.Background(), 42)
	require.NoError(t, err)
	assert.False(t, result.Allowed)
	require.Len(t, result.Missing, 1)
	assert.Equal(t, "A", result.Missing[0].Name)
}

func TestCheckBannedIsNotSubscribed(t *testing.T) {
	svc, _, checker := newGateFixture(true)
	checker.members["@b"][42] = models.ChatMemberTypeBanned

	result, err := svc.Check(context.Background(), 42)
	require.NoError(t, err)
	assert.False(t, result.Allowed)
}

func TestCheckUnknownUserAllowed(t *testing.T) {
	svc, _, checker := newGateFixture(false)

	result, err := svc.Check(context.Background(), 999)
	require.NoError(t, err)
	assert.True(t, result.Allowed)
	assert.False(t, result.Known)
	assert.Zero(t, checker.calls)
}

func TestCheckNoSponsors(t *testing.T) {
	users := newFakeUserRepo(&model.User{TelegramID: 42, Name: "Анна"})
	svc := NewSubscriptionService(users, &fakeSponsorRepo{}, &fakeChecker{}, zap.NewNop())

	result, err := svc.Check(context.Background(), 42)
	require.NoError(t, err)
	assert.True(t, result.Allowed)
	assert.True(t, result.NoSponsors)
}

func TestDisableSponsor(t *testing.T) {
	svc, _, _ := newGateFixture(true)
	ctx := context.Background()

	require.NoError(t, svc.DisableSponsor(ctx, 2))
	assert.ErrorIs(t, svc.DisableSponsor(ctx, 2), ErrSponsorNotFound)

	active, err := svc.ActiveSponsors(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "A", active[0].Name)

	// отключённый спонсор больше не проверяется
	result, err := svc.Check(ctx, 42)
	require.NoError(t, err)
	assert.True(t, result.Allowed)
}
