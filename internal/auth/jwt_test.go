package auth_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/straye-as/chirps-api/internal/auth"
	"github.com/straye-as/chirps-api/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-with-enough-length-1234"

func testJWTConfig() *config.JWTConfig {
	return &config.JWTConfig{
		Secret:     testSecret,
		Issuer:     "chirps-api-test",
		TTLMinutes: 60,
	}
}

func signClaims(t *testing.T, method jwt.SigningMethod, key interface{}, claims jwt.Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return token
}

func TestTokenManager_IssueAndValidate(t *testing.T) {
	tokens := auth.NewTokenManager(testJWTConfig())
	userID := uuid.New()

	token, expiresAt, err := tokens.Issue(userID, "Alice", "alice@example.com")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	userCtx, err := tokens.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, userCtx.UserID)
	assert.Equal(t, "Alice", userCtx.DisplayName)
	assert.Equal(t, "alice@example.com", userCtx.Email)
	assert.False(t, userCtx.IsSystem)
}

func TestTokenManager_ValidateToken_Rejects(t *testing.T) {
	tokens := auth.NewTokenManager(testJWTConfig())
	now := time.Now()

	validClaims := func() *auth.Claims {
		return &auth.Claims{
			Name:  "Alice",
			Email: "alice@example.com",
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   uuid.NewString(),
				Issuer:    "chirps-api-test",
				IssuedAt:  jwt.NewNumericDate(now),
				ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
			},
		}
	}

	t.Run("expired", func(t *testing.T) {
		claims := validClaims()
		claims.IssuedAt = jwt.NewNumericDate(now.Add(-2 * time.Hour))
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(-time.Hour))
		token := signClaims(t, jwt.SigningMethodHS256, []byte(testSecret), claims)

		_, err := tokens.ValidateToken(token)
		assert.ErrorIs(t, err, auth.ErrExpiredToken)
	})

	t.Run("wrong secret", func(t *testing.T) {
		token := signClaims(t, jwt.SigningMethodHS256, []byte("another-secret"), validClaims())

		_, err := tokens.ValidateToken(token)
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		claims := validClaims()
		claims.Issuer = "someone-else"
		token := signClaims(t, jwt.SigningMethodHS256, []byte(testSecret), claims)

		_, err := tokens.ValidateToken(token)
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})

	t.Run("other HMAC algorithm", func(t *testing.T) {
		token := signClaims(t, jwt.SigningMethodHS512, []byte(testSecret), validClaims())

		_, err := tokens.ValidateToken(token)
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})

	t.Run("missing expiry", func(t *testing.T) {
		claims := validClaims()
		claims.ExpiresAt = nil
		token := signClaims(t, jwt.SigningMethodHS256, []byte(testSecret), claims)

		_, err := tokens.ValidateToken(token)
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})

	t.Run("subject is not a uuid", func(t *testing.T) {
		claims := validClaims()
		claims.Subject = "42"
		token := signClaims(t, jwt.SigningMethodHS256, []byte(testSecret), claims)

		_, err := tokens.ValidateToken(token)
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := tokens.ValidateToken("not-a-token")
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})
}
