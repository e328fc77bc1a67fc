package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-timetable-api/internal/dto"
	"github.com/noah-isme/sma-timetable-api/internal/models"
	appErrors "github.com/noah-isme/sma-timetable-api/pkg/errors"
)

type teacherReader interface {
	FindByID(ctx context.Context, id string) (*models.Teacher, error)
}

type teacherPreferenceRepository interface {
	GetByTeacher(ctx context.Context, teacherID string) (*models.TeacherPreference, error)
	Upsert(ctx context.Context, pref *models.TeacherPreference) error
}

// TeacherPreferenceService handles the scheduling preferences of teachers.
type TeacherPreferenceService struct {
	teachers  teacherReader
	repo      teacherPreferenceRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewTeacherPreferenceService builds the service.
func NewTeacherPreferenceService(teachers teacherReader, repo teacherPreferenceRepository, validate *validator.Validate, logger *zap.Logger) *TeacherPreferenceService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TeacherPreferenceService{
		teachers:  teachers,
		repo:      repo,
		validator: validate,
		logger:    logger,
	}
}

// Get returns stored preferences or the defaults applied during generation.
func (s *TeacherPreferenceService) Get(ctx context.Context, teacherID string) (*dto.TeacherPreferenceResponse, error) {
	if err := s.ensureTeacher(ctx, teacherID); err != nil {
		return nil, err
	}
	pref, stored, err := s.load(ctx, teacherID)
	if err != nil {
		return nil, err
	}
	return toPreferenceResponse(pref, stored)
}

// Upsert stores preferences for a teacher. Fields left out of the request keep
// their current value.
func (s *TeacherPreferenceService) Upsert(ctx context.Context, teacherID string, req dto.UpsertTeacherPreferenceRequest) (*dto.TeacherPreferenceResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid preference payload")
	}
	if err := s.ensureTeacher(ctx, teacherID); err != nil {
		return nil, err
	}
	pref, _, err := s.load(ctx, teacherID)
	if err != nil {
		return nil, err
	}

	if req.TimePreference != nil {
		pref.TimePreference = models.TimePreference(*req.TimePreference)
	}
	if req.MaxHoursPerDay != nil {
		pref.MaxHoursPerDay = *req.MaxHoursPerDay
	}
	if req.MaxHoursPerWeek != nil {
		pref.MaxHoursPerWeek = *req.MaxHoursPerWeek
	}
	if req.UnavailableDays != nil {
		days, err := encodeDays(*req.UnavailableDays)
		if err != nil {
			return nil, err
		}
		pref.UnavailableDays = days
	}
	if pref.MaxHoursPerWeek > 0 && pref.MaxHoursPerWeek < pref.MaxHoursPerDay {
		return nil, appErrors.Clone(appErrors.ErrValidation, "weekly limit must not be below the daily limit")
	}

	if err := s.repo.Upsert(ctx, pref); err != nil {
		return nil, appErrors.Internal(err, "failed to upsert teacher preferences")
	}
	s.logger.Info("teacher preference stored",
		zap.String("teacher_id", teacherID),
		zap.String("time_preference", string(pref.TimePreference)),
		zap.Int("max_hours_per_day", pref.MaxHoursPerDay),
		zap.Int("max_hours_per_week", pref.MaxHoursPerWeek),
	)
	return toPreferenceResponse(pref, true)
}

func (s *TeacherPreferenceService) ensureTeacher(ctx context.Context, teacherID string) error {
	if _, err := s.teachers.FindByID(ctx, teacherID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
		}
		return appErrors.Internal(err, "failed to load teacher")
	}
	return nil
}

func (s *TeacherPreferenceService) load(ctx context.Context, teacherID string) (*models.TeacherPreference, bool, error) {
	pref, err := s.repo.GetByTeacher(ctx, teacherID)
	if err == nil {
		return pref, true, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, false, appErrors.Internal(err, "failed to load teacher preferences")
	}
	return &models.TeacherPreference{
		TeacherID:      teacherID,
		TimePreference: models.TimePreferenceAny,
		MaxHoursPerDay: models.DefaultMaxHoursPerDay,
	}, false, nil
}

func toPreferenceResponse(pref *models.TeacherPreference, stored bool) (*dto.TeacherPreferenceResponse, error) {
	days, err := pref.Days()
	if err != nil {
		return nil, appErrors.Internal(err, "failed to decode unavailable days")
	}
	if days == nil {
		days = []int{}
	}
	timePref := pref.TimePreference
	if timePref == "" {
		timePref = models.TimePreferenceAny
	}
	return &dto.TeacherPreferenceResponse{
		TeacherID:       pref.TeacherID,
		TimePreference:  string(timePref),
		MaxHoursPerDay:  pref.MaxHoursPerDay,
		MaxHoursPerWeek: pref.MaxHoursPerWeek,
		UnavailableDays: days,
		Stored:          stored,
	}, nil
}
