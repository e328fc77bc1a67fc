package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-timetable-api/internal/dto"
	appErrors "github.com/noah-isme/sma-timetable-api/pkg/errors"
	"github.com/noah-isme/sma-timetable-api/pkg/response"
)

type teacherPreferenceService interface {
	Get(ctx context.Context, teacherID string) (*dto.TeacherPreferenceResponse, error)
	Upsert(ctx context.Context, teacherID string, req dto.UpsertTeacherPreferenceRequest) (*dto.TeacherPreferenceResponse, error)
}

// TeacherPreferenceHandler manages teacher scheduling preferences.
type TeacherPreferenceHandler struct {
	service teacherPreferenceService
}

// NewTeacherPreferenceHandler constructs the handler.
func NewTeacherPreferenceHandler(svc teacherPreferenceService) *TeacherPreferenceHandler {
	return &TeacherPreferenceHandler{service: svc}
}

// Get godoc
// @Summary Get teacher preferences
// @Tags Teacher Preferences
// @Produce json
// @Param id path string true "Teacher ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /schedule/teacher-preference/{id} [get]
func (h *TeacherPreferenceHandler) Get(c *gin.Context) {
	pref, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, pref)
}

// Upsert godoc
// @Summary Create or update teacher preferences
// @Tags Teacher Preferences
// @Accept json
// @Produce json
// @Param id path string true "Teacher ID"
// @Param payload body dto.UpsertTeacherPreferenceRequest true "Fields to change"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /schedule/teacher-preference/{id} [put]
func (h *TeacherPreferenceHandler) Upsert(c *gin.Context) {
	var req dto.UpsertTeacherPreferenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid preference payload"))
		return
	}
	pref, err := h.service.Upsert(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, pref)
}
