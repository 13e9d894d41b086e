package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"sentinel-server/internal/authutils"
	"sentinel-server/internal/models"
	"sentinel-server/internal/repository"
	"sentinel-server/internal/service"
)

const authTestSecret = "auth-test-secret"

func newAuthService() service.AuthService {
	return service.NewAuthService(repository.NewMemoryUserRepository(), authTestSecret, time.Hour, zap.NewNop())
}

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("creates the account and issues a verifiable token", func(t *testing.T) {
		svc := newAuthService()

		user, token, err := svc.Register(ctx, service.RegisterInput{
			Username: "amara",
			Password: "long-enough-password",
			Country:  "GH",
			AgeRange: "18-24",
		})
		require.NoError(t, err)
		assert.Equal(t, "amara", user.Username)
		assert.NotEqual(t, uuid.Nil, user.ID)
		assert.Empty(t, user.Interests)
		assert.NotEqual(t, "long-enough-password", user.PasswordHash)

		verifier, err := authutils.NewJWTVerifier(authTestSecret, nil)
		require.NoError(t, err)
		claims, err := verifier.VerifyToken(ctx, token)
		require.NoError(t, err)
		assert.Equal(t, user.ID, claims.UserID)
	})

	t.Run("rejects a short password", func(t *testing.T) {
		_, _, err := newAuthService().Register(ctx, service.RegisterInput{Username: "amara", Password: "short"})
		assert.ErrorIs(t, err, models.ErrInvalidInput)
	})

	t.Run("rejects a blank username", func(t *testing.T) {
		_, _, err := newAuthService().Register(ctx, service.RegisterInput{Username: "   ", Password: "long-enough-password"})
		assert.ErrorIs(t, err, models.ErrInvalidInput)
	})

	t.Run("rejects a taken username", func(t *testing.T) {
		svc := newAuthService()
		input := service.RegisterInput{Username: "amara", Password: "long-enough-password"}

		_, _, err := svc.Register(ctx, input)
		require.NoError(t, err)

		_, _, err = svc.Register(ctx, input)
		assert.ErrorIs(t, err, models.ErrUserAlreadyExists)
	})
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()
	svc := newAuthService()

	registered, _, err := svc.Register(ctx, service.RegisterInput{
		Username: "amara",
		Password: "long-enough-password",
	})
	require.NoError(t, err)

	t.Run("valid credentials", func(t *testing.T) {
		user, token, err := svc.Login(ctx, "amara", "long-enough-password")
		require.NoError(t, err)
		assert.Equal(t, registered.ID, user.ID)
		assert.NotEmpty(t, token)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, _, err := svc.Login(ctx, "amara", "wrong-password-here")
		assert.ErrorIs(t, err, models.ErrInvalidCredentials)
	})

	t.Run("unknown username maps to the same error", func(t *testing.T) {
		_, _, err := svc.Login(ctx, "nobody", "long-enough-password")
		assert.ErrorIs(t, err, models.ErrInvalidCredentials)
	})
}

func TestAuthService_Me(t *testing.T) {
	ctx := context.Background()
	svc := newAuthService()

	registered, _, err := svc.Register(ctx, service.RegisterInput{
		Username: "amara",
		Password: "long-enough-password",
	})
	require.NoError(t, err)

	user, err := svc.Me(ctx, registered.ID)
	require.NoError(t, err)
	assert.Equal(t, "amara", user.Username)

	_, err = svc.Me(ctx, uuid.New())
	assert.ErrorIs(t, err, models.ErrUserNotFound)
}
