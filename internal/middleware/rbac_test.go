package middleware

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/sma-timetable-api/internal/models"
)

func TestRBACRolesAndSelf(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	ok := func(c *gin.Context) { c.Status(http.StatusOK) }
	r.POST("/generate", JWT(newValidator()), RequireRoles(models.RoleAdmin, models.RoleSuperAdmin), ok)
	r.GET("/teachers/:id/preference", JWT(newValidator()), RBAC(RoleSelf, string(models.RoleAdmin)), ok)

	assert.Equal(t, http.StatusOK, serve(r, http.MethodPost, "/generate", "admin-token").Code)
	assert.Equal(t, http.StatusForbidden, serve(r, http.MethodPost, "/generate", "teacher-token").Code)

	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/teachers/teacher-1/preference", "teacher-token").Code)
	assert.Equal(t, http.StatusForbidden, serve(r, http.MethodGet, "/teachers/teacher-2/preference", "teacher-token").Code)
	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/teachers/teacher-2/preference", "admin-token").Code)

	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/teachers/teacher-9/preference", "linked-token").Code)
	assert.Equal(t, http.StatusForbidden, serve(r, http.MethodGet, "/teachers/user-9/preference", "linked-token").Code)
}

func TestRBACWithoutClaims(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/secure", RBAC(string(models.RoleAdmin)), func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusUnauthorized, serve(r, http.MethodGet, "/secure", "").Code)
}
