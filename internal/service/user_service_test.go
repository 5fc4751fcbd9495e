package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRegisterOnce(t *testing.T) {
	users := newFakeUserRepo()
	svc := NewUserService(users, &fakeProgressRepo{}, zap.NewNop())
	ctx := context.Background()

	user, err := svc.Register(ctx, Registration{TelegramID: 42, Name: "Анна", Age: 20, Role: "🎓 Студент"})
	require.NoError(t, err)
	assert.Equal(t, 1, user.Level)
	assert.NotZero(t, user.ID)

	existing, err := svc.Register(ctx, Registration{TelegramID: 42, Name: "Другое имя"})
	assert.ErrorIs(t, err, ErrAlreadyRegistered)
	assert.Equal(t, "Анна", existing.Name)

	count, err := svc.CountUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestRequireByTelegramID(t *testing.T) {
	svc := NewUserService(newFakeUserRepo(), &fakeProgressRepo{}, zap.NewNop())
	_, err := svc.RequireByTelegramID(context.Background(), 1)
	assert.ErrorIs(t, err, ErrUserNotFound)
}
