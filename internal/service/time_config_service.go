package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx/types"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-timetable-api/internal/dto"
	"github.com/noah-isme/sma-timetable-api/internal/models"
	"github.com/noah-isme/sma-timetable-api/internal/scheduler"
	appErrors "github.com/noah-isme/sma-timetable-api/pkg/errors"
)

type timeConfigRepository interface {
	GetByYear(ctx context.Context, academicYear string) (*models.SchoolTimeConfig, error)
	GetOrCreate(ctx context.Context, defaults models.SchoolTimeConfig) (*models.SchoolTimeConfig, error)
	List(ctx context.Context) ([]models.SchoolTimeConfig, error)
	Create(ctx context.Context, cfg *models.SchoolTimeConfig) error
	Update(ctx context.Context, cfg *models.SchoolTimeConfig) error
}

// TimeConfigService manages the school-day structure per academic year.
type TimeConfigService struct {
	repo      timeConfigRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewTimeConfigService constructs the service.
func NewTimeConfigService(repo timeConfigRepository, validate *validator.Validate, logger *zap.Logger) *TimeConfigService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TimeConfigService{repo: repo, validator: validate, logger: logger}
}

// Get returns the configuration of an academic year, creating the default one
// on first access.
func (s *TimeConfigService) Get(ctx context.Context, academicYear string) (*models.SchoolTimeConfig, error) {
	if academicYear == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "academic year is required")
	}
	cfg, err := s.repo.GetOrCreate(ctx, models.DefaultSchoolTimeConfig(academicYear))
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load school time config")
	}
	return cfg, nil
}

// List returns every stored configuration.
func (s *TimeConfigService) List(ctx context.Context) ([]models.SchoolTimeConfig, error) {
	configs, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list school time configs")
	}
	if configs == nil {
		configs = []models.SchoolTimeConfig{}
	}
	return configs, nil
}

// Create stores the configuration of a new academic year.
func (s *TimeConfigService) Create(ctx context.Context, req dto.CreateTimeConfigRequest) (*models.SchoolTimeConfig, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid time config payload")
	}

	if _, err := s.repo.GetByYear(ctx, req.AcademicYear); err == nil {
		return nil, appErrors.Clone(appErrors.ErrConflict, "time config already exists for this academic year")
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Internal(err, "failed to load school time config")
	}

	cfg := &models.SchoolTimeConfig{
		AcademicYear:     req.AcademicYear,
		SchoolStartTime:  req.SchoolStartTime,
		SchoolEndTime:    req.SchoolEndTime,
		PeriodDuration:   req.PeriodDuration,
		BreakDuration:    req.BreakDuration,
		MaxPeriodsPerDay: req.MaxPeriodsPerDay,
	}
	if err := setBreakTimes(cfg, req.BreakTimes); err != nil {
		return nil, err
	}
	if err := checkDayStructure(*cfg); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, cfg); err != nil {
		return nil, appErrors.Internal(err, "failed to create school time config")
	}
	s.logger.Info("school time config created", zap.String("academic_year", cfg.AcademicYear))
	return cfg, nil
}

// Update patches the configuration of an academic year. A year without a
// stored configuration starts from the defaults.
func (s *TimeConfigService) Update(ctx context.Context, academicYear string, req dto.UpdateTimeConfigRequest) (*models.SchoolTimeConfig, error) {
	if academicYear == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "academic year is required")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid time config payload")
	}

	cfg, err := s.repo.GetOrCreate(ctx, models.DefaultSchoolTimeConfig(academicYear))
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load school time config")
	}

	if req.SchoolStartTime != nil {
		cfg.SchoolStartTime = *req.SchoolStartTime
	}
	if req.SchoolEndTime != nil {
		cfg.SchoolEndTime = *req.SchoolEndTime
	}
	if req.PeriodDuration != nil {
		cfg.PeriodDuration = *req.PeriodDuration
	}
	if req.BreakDuration != nil {
		cfg.BreakDuration = *req.BreakDuration
	}
	if req.MaxPeriodsPerDay != nil {
		cfg.MaxPeriodsPerDay = *req.MaxPeriodsPerDay
	}
	if req.BreakTimes != nil {
		if err := setBreakTimes(cfg, *req.BreakTimes); err != nil {
			return nil, err
		}
	}
	if err := checkDayStructure(*cfg); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, cfg); err != nil {
		return nil, appErrors.Internal(err, "failed to update school time config")
	}
	s.logger.Info("school time config updated", zap.String("academic_year", cfg.AcademicYear))
	return cfg, nil
}

// Slots previews the teaching periods and full day layout of an academic year.
func (s *TimeConfigService) Slots(ctx context.Context, academicYear string) (*dto.TimeSlotsResponse, error) {
	cfg, err := s.Get(ctx, academicYear)
	if err != nil {
		return nil, err
	}
	layout, err := scheduler.BuildDayLayout(*cfg)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrPreconditionFailed.Code, appErrors.ErrPreconditionFailed.Status, "school time config is invalid")
	}
	slots := make([]scheduler.TimeSlot, 0, len(layout))
	for _, slot := range layout {
		if !slot.IsBreak {
			slots = append(slots, slot)
		}
	}

	resp := &dto.TimeSlotsResponse{
		AcademicYear:  cfg.AcademicYear,
		Slots:         slots,
		Layout:        layout,
		PeriodsPerDay: len(slots),
	}
	if len(slots) > 0 {
		resp.SchoolDayStart = slots[0].StartTime
		resp.SchoolDayEnd = slots[len(slots)-1].EndTime
	}
	return resp, nil
}

func setBreakTimes(cfg *models.SchoolTimeConfig, breaks []models.BreakTime) error {
	if len(breaks) == 0 {
		cfg.BreakTimes = types.JSONText("[]")
		return nil
	}
	seen := make(map[int]struct{}, len(breaks))
	for _, b := range breaks {
		if _, dup := seen[b.AfterPeriod]; dup {
			return appErrors.Clone(appErrors.ErrValidation, "break times must not repeat a period")
		}
		seen[b.AfterPeriod] = struct{}{}
	}
	raw, err := json.Marshal(breaks)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid break times")
	}
	cfg.BreakTimes = types.JSONText(raw)
	return nil
}

// checkDayStructure rejects configurations whose day cannot hold a single period.
func checkDayStructure(cfg models.SchoolTimeConfig) error {
	start, err := scheduler.ClockMinutes(cfg.SchoolStartTime)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid school start time")
	}
	end, err := scheduler.ClockMinutes(cfg.SchoolEndTime)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid school end time")
	}
	if start >= end {
		return appErrors.Clone(appErrors.ErrValidation, "school start time must be before school end time")
	}
	slots, err := scheduler.BuildSlots(cfg)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid school day structure")
	}
	if len(slots) == 0 {
		return appErrors.Clone(appErrors.ErrValidation, "school day is too short for a single period")
	}
	return nil
}
