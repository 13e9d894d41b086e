package authutils_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sentinel-server/internal/authutils"
	"sentinel-server/internal/models"
)

const testSecret = "test-secret-key"

func TestNewJWTVerifier(t *testing.T) {
	t.Run("rejects empty secret", func(t *testing.T) {
		_, err := authutils.NewJWTVerifier("", nil)
		assert.Error(t, err)
	})

	t.Run("nil logger is allowed", func(t *testing.T) {
		v, err := authutils.NewJWTVerifier(testSecret, nil)
		require.NoError(t, err)
		assert.NotNil(t, v)
	})
}

func TestVerifyToken(t *testing.T) {
	ctx := context.Background()
	verifier, err := authutils.NewJWTVerifier(testSecret, nil)
	require.NoError(t, err)

	t.Run("issued token verifies", func(t *testing.T) {
		userID := uuid.New()
		token, err := authutils.IssueToken(userID, testSecret, time.Hour)
		require.NoError(t, err)

		claims, err := verifier.VerifyToken(ctx, token)
		require.NoError(t, err)
		assert.Equal(t, userID, claims.UserID)
		assert.NotEmpty(t, claims.ID)
	})

	t.Run("wrong secret", func(t *testing.T) {
		token, err := authutils.IssueToken(uuid.New(), "another-secret", time.Hour)
		require.NoError(t, err)

		_, err = verifier.VerifyToken(ctx, token)
		assert.ErrorIs(t, err, models.ErrTokenInvalid)
	})

	t.Run("expired token", func(t *testing.T) {
		token, err := authutils.IssueToken(uuid.New(), testSecret, -time.Minute)
		require.NoError(t, err)

		_, err = verifier.VerifyToken(ctx, token)
		assert.ErrorIs(t, err, models.ErrTokenExpired)
	})

	t.Run("malformed token", func(t *testing.T) {
		_, err := verifier.VerifyToken(ctx, "not.a.token")
		assert.ErrorIs(t, err, models.ErrTokenMalformed)
	})

	t.Run("token without user id", func(t *testing.T) {
		token, err := authutils.IssueToken(uuid.Nil, testSecret, time.Hour)
		require.NoError(t, err)

		_, err = verifier.VerifyToken(ctx, token)
		assert.ErrorIs(t, err, models.ErrTokenInvalid)
	})
}
