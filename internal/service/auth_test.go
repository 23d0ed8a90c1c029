package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"video-rental-store/internal/repository"
	"video-rental-store/internal/repository/memory"
	"video-rental-store/internal/security"
	"video-rental-store/internal/service"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestAuthService_RegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	tokens := security.NewTokenManager(testSecret, time.Hour)
	svc := service.NewAuthService(store.Users, tokens)

	user, token, err := svc.Register(ctx, "alice", "alice@example.com", "s3cret-pass", 1990)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, user.ID)
	assert.NotEqual(t, "s3cret-pass", user.PasswordHash)

	claims, err := tokens.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.False(t, claims.IsAdmin)

	t.Run("Duplicate email", func(t *testing.T) {
		_, _, err := svc.Register(ctx, "alice2", "alice@example.com", "s3cret-pass", 1990)
		assert.ErrorIs(t, err, service.ErrUserExists)
	})

	t.Run("Login", func(t *testing.T) {
		token, err := svc.Login(ctx, "alice@example.com", "s3cret-pass")
		require.NoError(t, err)
		assert.NotEmpty(t, token)
	})

	t.Run("Wrong password", func(t *testing.T) {
		_, err := svc.Login(ctx, "alice@example.com", "wrong-password")
		assert.ErrorIs(t, err, service.ErrInvalidCredentials)
	})

	t.Run("Unknown email", func(t *testing.T) {
		_, err := svc.Login(ctx, "nobody@example.com", "s3cret-pass")
		assert.ErrorIs(t, err, service.ErrInvalidCredentials)
	})

	t.Run("Me", func(t *testing.T) {
		users := service.NewUserService(store.Users)
		me, err := users.GetMe(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, "alice", me.Username)

		_, err = users.GetMe(ctx, uuid.New())
		assert.ErrorIs(t, err, service.ErrUserNotFound)
	})
}

func TestAuthService_Login_StoreFailure(t *testing.T) {
	ctx := context.Background()
	userRepo := new(MockUserRepo)
	svc := service.NewAuthService(userRepo, security.NewTokenManager(testSecret, time.Hour))

	userRepo.On("GetByEmail", ctx, "alice@example.com").Return(nil, assert.AnError)
	_, err := svc.Login(ctx, "alice@example.com", "whatever-pass")
	assert.ErrorIs(t, err, assert.AnError)

	userRepo.On("Create", ctx, mock.Anything).Return(repository.ErrDuplicate)
	_, _, err = svc.Register(ctx, "bob", "bob@example.com", "whatever-pass", 1980)
	assert.ErrorIs(t, err, service.ErrUserExists)
}
