package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-timetable-api/internal/middleware"
	"github.com/noah-isme/sma-timetable-api/internal/models"
)

// Handlers bundles the API handlers mounted under the API prefix.
type Handlers struct {
	Timetable         *TimetableHandler
	TimeConfig        *TimeConfigHandler
	SubjectHours      *SubjectHoursHandler
	TeacherPreference *TeacherPreferenceHandler
	SubjectTeacher    *SubjectTeacherHandler
}

// RegisterRoutes mounts the timetable API on api. Every route needs a valid
// token; writes are limited to administrators.
func RegisterRoutes(api *gin.RouterGroup, h Handlers, tokens middleware.TokenValidator) {
	admins := middleware.RequireRoles(models.RoleAdmin, models.RoleSuperAdmin)

	secured := api.Group("")
	secured.Use(middleware.JWT(tokens))

	schedule := secured.Group("/schedule")
	schedule.POST("/generate", admins, h.Timetable.Generate)
	schedule.GET("/timetable/:gradeClassId", h.Timetable.Get)
	schedule.DELETE("/timetable/:gradeClassId", admins, h.Timetable.Clear)

	schedule.POST("/config", admins, h.TimeConfig.Create)
	schedule.GET("/config", h.TimeConfig.List)
	schedule.GET("/config/:academicYear", h.TimeConfig.Get)
	schedule.PUT("/config/:academicYear", admins, h.TimeConfig.Update)
	schedule.GET("/config/:academicYear/slots", h.TimeConfig.Slots)

	schedule.POST("/subject-hours", admins, h.SubjectHours.Create)
	schedule.GET("/subject-hours/class/:gradeClassId", h.SubjectHours.ListByClass)
	schedule.GET("/subject-hours/:subjectId/:gradeClassId", h.SubjectHours.Get)
	schedule.PUT("/subject-hours/:subjectId/:gradeClassId", admins, h.SubjectHours.Update)

	selfOrAdmin := middleware.RBAC(middleware.RoleSelf, string(models.RoleAdmin), string(models.RoleSuperAdmin))
	schedule.GET("/teacher-preference/:id", selfOrAdmin, h.TeacherPreference.Get)
	schedule.PUT("/teacher-preference/:id", selfOrAdmin, h.TeacherPreference.Upsert)

	subjects := secured.Group("/subjects")
	subjects.GET("/:id/teachers", h.SubjectTeacher.List)
	subjects.PUT("/:id/teachers", admins, h.SubjectTeacher.Assign)
}
