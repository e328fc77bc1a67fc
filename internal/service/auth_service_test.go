package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-timetable-api/internal/models"
	appErrors "github.com/noah-isme/sma-timetable-api/pkg/errors"
)

func signToken(t *testing.T, secret string, method jwt.SigningMethod, claims models.JWTClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func validClaims() models.JWTClaims {
	now := time.Now()
	return models.JWTClaims{
		UserID: "user-1",
		Role:   models.RoleAdmin,
		Email:  "admin@sma.example",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "sma-identity",
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
}

func TestAuthServiceValidateToken(t *testing.T) {
	svc := NewAuthService("secret", "sma-identity", 0)

	claims, err := svc.ValidateToken(signToken(t, "secret", jwt.SigningMethodHS256, validClaims()))
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, models.RoleAdmin, claims.Role)
	assert.Equal(t, "user-1", claims.TeacherRef())
}

func TestAuthServiceLeeway(t *testing.T) {
	claims := validClaims()
	claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-5 * time.Second))
	token := signToken(t, "secret", jwt.SigningMethodHS256, claims)

	_, err := NewAuthService("secret", "", time.Minute).ValidateToken(token)
	assert.NoError(t, err)
	_, err = NewAuthService("secret", "", 0).ValidateToken(token)
	assert.Error(t, err)
}

func TestAuthServiceRejectsBadTokens(t *testing.T) {
	svc := NewAuthService("secret", "sma-identity", 0)

	expired := validClaims()
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
	noRole := validClaims()
	noRole.Role = ""
	foreign := validClaims()
	foreign.Issuer = "someone-else"
	noExpiry := validClaims()
	noExpiry.ExpiresAt = nil

	cases := map[string]string{
		"wrong secret": signToken(t, "other", jwt.SigningMethodHS256, validClaims()),
		"wrong alg":    signToken(t, "secret", jwt.SigningMethodHS512, validClaims()),
		"expired":      signToken(t, "secret", jwt.SigningMethodHS256, expired),
		"missing role": signToken(t, "secret", jwt.SigningMethodHS256, noRole),
		"other issuer": signToken(t, "secret", jwt.SigningMethodHS256, foreign),
		"no expiry":    signToken(t, "secret", jwt.SigningMethodHS256, noExpiry),
		"garbage":      "not-a-token",
	}
	for name, token := range cases {
		_, err := svc.ValidateToken(token)
		require.Error(t, err, name)
		assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code, name)
	}
}
