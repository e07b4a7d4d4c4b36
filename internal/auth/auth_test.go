package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ticketbari/ticketbari/internal/model"
)

func tokenService() *Service {
	return &Service{
		secret:    []byte("test-secret"),
		accessTTL: 15 * time.Minute,
		now:       time.Now,
	}
}

func signToken(t *testing.T, method jwt.SigningMethod, secret []byte, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString(secret)
	require.NoError(t, err)
	return token
}

func TestValidateAccessToken(t *testing.T) {
	s := tokenService()
	token := signToken(t, jwt.SigningMethodHS256, s.secret, jwt.MapClaims{
		"sub":  "rider@example.com",
		"role": "vendor",
		"exp":  time.Now().Add(time.Hour).Unix(),
		"iat":  time.Now().Unix(),
	})

	identity, err := s.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "rider@example.com", identity.Email)
	assert.Equal(t, model.RoleVendor, identity.Role)
}

func TestValidateAccessTokenRejections(t *testing.T) {
	s := tokenService()
	valid := jwt.MapClaims{
		"sub": "rider@example.com",
		"exp": time.Now().Add(time.Hour).Unix(),
	}

	t.Run("garbage", func(t *testing.T) {
		_, err := s.ValidateAccessToken("not.a.token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong secret", func(t *testing.T) {
		token := signToken(t, jwt.SigningMethodHS256, []byte("other"), valid)
		_, err := s.ValidateAccessToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		token := signToken(t, jwt.SigningMethodHS256, s.secret, jwt.MapClaims{
			"sub": "rider@example.com",
			"exp": time.Now().Add(-time.Minute).Unix(),
		})
		_, err := s.ValidateAccessToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("missing subject", func(t *testing.T) {
		token := signToken(t, jwt.SigningMethodHS256, s.secret, jwt.MapClaims{
			"exp": time.Now().Add(time.Hour).Unix(),
		})
		_, err := s.ValidateAccessToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
