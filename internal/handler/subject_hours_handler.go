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

type subjectHoursService interface {
	Create(ctx context.Context, req dto.CreateSubjectHoursRequest) (*models.SubjectHoursDetail, error)
	Get(ctx context.Context, subjectID, gradeClassID string) (*models.SubjectHoursDetail, error)
	Update(ctx context.Context, subjectID, gradeClassID string, req dto.UpdateSubjectHoursRequest) (*models.SubjectHoursDetail, error)
	ListByClass(ctx context.Context, gradeClassID string) ([]models.SubjectHoursDetail, error)
}

// SubjectHoursHandler exposes the stored weekly demand of subjects.
type SubjectHoursHandler struct {
	service subjectHoursService
}

// NewSubjectHoursHandler constructs the handler.
func NewSubjectHoursHandler(svc subjectHoursService) *SubjectHoursHandler {
	return &SubjectHoursHandler{service: svc}
}

// Create godoc
// @Summary Set the weekly hours of a subject for a grade class
// @Tags Subject Hours
// @Accept json
// @Produce json
// @Param payload body dto.CreateSubjectHoursRequest true "Subject hours payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /schedule/subject-hours [post]
func (h *SubjectHoursHandler) Create(c *gin.Context) {
	var req dto.CreateSubjectHoursRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid subject hours payload"))
		return
	}
	hours, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, hours)
}

// Get godoc
// @Summary Get the weekly hours of a subject for a grade class
// @Tags Subject Hours
// @Produce json
// @Param subjectId path string true "Subject ID"
// @Param gradeClassId path string true "Grade class ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /schedule/subject-hours/{subjectId}/{gradeClassId} [get]
func (h *SubjectHoursHandler) Get(c *gin.Context) {
	hours, err := h.service.Get(c.Request.Context(), c.Param("subjectId"), c.Param("gradeClassId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, hours)
}

// Update godoc
// @Summary Update the weekly hours of a subject for a grade class
// @Tags Subject Hours
// @Accept json
// @Produce json
// @Param subjectId path string true "Subject ID"
// @Param gradeClassId path string true "Grade class ID"
// @Param payload body dto.UpdateSubjectHoursRequest true "Fields to change"
// @Success 200 {object} response.Envelope
// @Router /schedule/subject-hours/{subjectId}/{gradeClassId} [put]
func (h *SubjectHoursHandler) Update(c *gin.Context) {
	var req dto.UpdateSubjectHoursRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid subject hours payload"))
		return
	}
	hours, err := h.service.Update(c.Request.Context(), c.Param("subjectId"), c.Param("gradeClassId"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, hours)
}

// ListByClass godoc
// @Summary List the subject hours of a grade class
// @Tags Subject Hours
// @Produce json
// @Param gradeClassId path string true "Grade class ID"
// @Success 200 {object} response.Envelope
// @Router /schedule/subject-hours/class/{gradeClassId} [get]
func (h *SubjectHoursHandler) ListByClass(c *gin.Context) {
	hours, err := h.service.ListByClass(c.Request.Context(), c.Param("gradeClassId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	total := 0
	for _, item := range hours {
		total += item.HoursPerWeek
	}
	response.JSON(c, http.StatusOK, hours, map[string]interface{}{"subjects": len(hours), "total_hours": total})
}
