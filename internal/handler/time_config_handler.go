package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-timetable-api/internal/dto"
	"github.com/noah-isme/sma-timetable-api/internal/models"
	appErrors "github.com/noah-isme/sma-timetable-api/pkg/errors"
	"github.com/noah-isme/sma-timetable-api/pkg/response"
)

type timeConfigService interface {
	Create(ctx context.Context, req dto.CreateTimeConfigRequest) (*models.SchoolTimeConfig, error)
	Get(ctx context.Context, academicYear string) (*models.SchoolTimeConfig, error)
	Update(ctx context.Context, academicYear string, req dto.UpdateTimeConfigRequest) (*models.SchoolTimeConfig, error)
	List(ctx context.Context) ([]models.SchoolTimeConfig, error)
	Slots(ctx context.Context, academicYear string) (*dto.TimeSlotsResponse, error)
}

// TimeConfigHandler exposes school-day configuration endpoints.
type TimeConfigHandler struct {
	service timeConfigService
}

// NewTimeConfigHandler constructs the handler.
func NewTimeConfigHandler(svc timeConfigService) *TimeConfigHandler {
	return &TimeConfigHandler{service: svc}
}

// academicYearParam reads the academic year from the path. Years are written
// with a dash in URLs ("2025-2026") and stored with a slash ("2025/2026").
func academicYearParam(c *gin.Context) string {
	return strings.Replace(strings.TrimSpace(c.Param("academicYear")), "-", "/", 1)
}

// Create godoc
// @Summary Create the school-day configuration of an academic year
// @Tags Time Config
// @Accept json
// @Produce json
// @Param payload body dto.CreateTimeConfigRequest true "Time config payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /schedule/config [post]
func (h *TimeConfigHandler) Create(c *gin.Context) {
	var req dto.CreateTimeConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid time config payload"))
		return
	}
	cfg, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, cfg)
}

// List godoc
// @Summary List school-day configurations
// @Tags Time Config
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /schedule/config [get]
func (h *TimeConfigHandler) List(c *gin.Context) {
	configs, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, configs, map[string]interface{}{"total": len(configs)})
}

// Get godoc
// @Summary Get the configuration of an academic year
// @Description Creates the default configuration when the year has none.
// @Tags Time Config
// @Produce json
// @Param academicYear path string true "Academic year, e.g. 2025-2026"
// @Success 200 {object} response.Envelope
// @Router /schedule/config/{academicYear} [get]
func (h *TimeConfigHandler) Get(c *gin.Context) {
	cfg, err := h.service.Get(c.Request.Context(), academicYearParam(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, cfg)
}

// Update godoc
// @Summary Update the configuration of an academic year, starting from defaults if none is stored
// @Tags Time Config
// @Accept json
// @Produce json
// @Param academicYear path string true "Academic year, e.g. 2025-2026"
// @Param payload body dto.UpdateTimeConfigRequest true "Fields to change"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /schedule/config/{academicYear} [put]
func (h *TimeConfigHandler) Update(c *gin.Context) {
	var req dto.UpdateTimeConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid time config payload"))
		return
	}
	cfg, err := h.service.Update(c.Request.Context(), academicYearParam(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, cfg)
}

// Slots godoc
// @Summary Preview the periods and breaks of a school day
// @Tags Time Config
// @Produce json
// @Param academicYear path string true "Academic year, e.g. 2025-2026"
// @Success 200 {object} response.Envelope
// @Router /schedule/config/{academicYear}/slots [get]
func (h *TimeConfigHandler) Slots(c *gin.Context) {
	slots, err := h.service.Slots(c.Request.Context(), academicYearParam(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, slots)
}
