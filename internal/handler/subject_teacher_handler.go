package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-timetable-api/internal/dto"
	"github.com/noah-isme/sma-timetable-api/internal/models"
	appErrors "github.com/noah-isme/sma-timetable-api/pkg/errors"
	"github.com/noah-isme/sma-timetable-api/pkg/response"
)

type subjectTeacherService interface {
	ListTeachers(ctx context.Context, subjectID string) ([]models.TeacherSubjectDetail, error)
	AssignTeachers(ctx context.Context, subjectID string, req dto.AssignTeachersRequest) ([]models.TeacherSubjectDetail, error)
}

// SubjectTeacherHandler manages the teachers eligible for a subject.
type SubjectTeacherHandler struct {
	service subjectTeacherService
}

// NewSubjectTeacherHandler constructs the handler.
func NewSubjectTeacherHandler(svc subjectTeacherService) *SubjectTeacherHandler {
	return &SubjectTeacherHandler{service: svc}
}

// List godoc
// @Summary List the teachers of a subject
// @Tags Subjects
// @Produce json
// @Param id path string true "Subject ID"
// @Success 200 {object} response.Envelope
// @Router /subjects/{id}/teachers [get]
func (h *SubjectTeacherHandler) List(c *gin.Context) {
	teachers, err := h.service.ListTeachers(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, teachers)
}

// Assign godoc
// @Summary Replace the teachers of a subject
// @Description At most one teacher may be primary. The others are tried in the given order.
// @Tags Subjects
// @Accept json
// @Produce json
// @Param id path string true "Subject ID"
// @Param payload body dto.AssignTeachersRequest true "Teacher set"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /subjects/{id}/teachers [put]
func (h *SubjectTeacherHandler) Assign(c *gin.Context) {
	var req dto.AssignTeachersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid teacher assignment payload"))
		return
	}
	teachers, err := h.service.AssignTeachers(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, teachers)
}
