package models

import "github.com/golang-jwt/jwt/v5"

// UserRole is the role claim carried by access tokens.
type UserRole string

const (
	RoleSuperAdmin UserRole = "SUPERADMIN"
	RoleAdmin      UserRole = "ADMIN"
	RoleTeacher    UserRole = "TEACHER"
)

// JWTClaims is the access token payload issued by the identity service.
// TeacherID is set for teacher accounts whose teacher record id differs from
// the user id.
type JWTClaims struct {
	UserID    string   `json:"user_id"`
	Role      UserRole `json:"role"`
	TeacherID string   `json:"teacher_id,omitempty"`
	Email     string   `json:"email"`
	FullName  string   `json:"full_name"`
	jwt.RegisteredClaims
}

// TeacherRef is the teacher id the caller acts as.
func (c *JWTClaims) TeacherRef() string {
	if c.TeacherID != "" {
		return c.TeacherID
	}
	return c.UserID
}
