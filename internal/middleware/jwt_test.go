package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-timetable-api/internal/models"
	appErrors "github.com/noah-isme/sma-timetable-api/pkg/errors"
)

type tokenValidatorStub struct {
	tokens map[string]*models.JWTClaims
}

func (s *tokenValidatorStub) ValidateToken(token string) (*models.JWTClaims, error) {
	claims, ok := s.tokens[token]
	if !ok {
		return nil, appErrors.Wrap(errors.New("bad signature"), appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid token")
	}
	return claims, nil
}

func newValidator() *tokenValidatorStub {
	return &tokenValidatorStub{tokens: map[string]*models.JWTClaims{
		"admin-token":   {UserID: "admin-1", Role: models.RoleAdmin},
		"teacher-token": {UserID: "teacher-1", Role: models.RoleTeacher},
		"linked-token":  {UserID: "user-9", TeacherID: "teacher-9", Role: models.RoleTeacher},
	}}
}

func serve(r *gin.Engine, method, path, token string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestJWTMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/me", JWT(newValidator()), func(c *gin.Context) {
		claims, ok := CurrentUser(c)
		require.True(t, ok)
		c.String(http.StatusOK, claims.UserID)
	})

	w := serve(r, http.MethodGet, "/me", "admin-token")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "admin-1", w.Body.String())

	assert.Equal(t, http.StatusUnauthorized, serve(r, http.MethodGet, "/me", "").Code)
	assert.Equal(t, http.StatusUnauthorized, serve(r, http.MethodGet, "/me", "forged").Code)

	w = httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Basic abc")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestOptionalJWTNeverBlocks(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/public", OptionalJWT(newValidator()), func(c *gin.Context) {
		_, ok := CurrentUser(c)
		if ok {
			c.String(http.StatusOK, "user")
			return
		}
		c.String(http.StatusOK, "anonymous")
	})

	assert.Equal(t, "user", serve(r, http.MethodGet, "/public", "teacher-token").Body.String())
	assert.Equal(t, "anonymous", serve(r, http.MethodGet, "/public", "forged").Body.String())
	assert.Equal(t, "anonymous", serve(r, http.MethodGet, "/public", "").Body.String())
}
