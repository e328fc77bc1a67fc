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
	appErrors "github.com/noah-isme/sma-timetable-api/pkg/errors"
)

type subjectReader interface {
	FindByID(ctx context.Context, id string) (*models.Subject, error)
}

type subjectHoursRepository interface {
	Get(ctx context.Context, subjectID, gradeClassID string) (*models.SubjectHoursDetail, error)
	ListByGradeClass(ctx context.Context, gradeClassID string) ([]models.SubjectHoursDetail, error)
	Create(ctx context.Context, hours *models.SubjectHours) error
	Update(ctx context.Context, hours *models.SubjectHours) error
}

// SubjectHoursService maintains the stored weekly demand of subjects per class.
type SubjectHoursService struct {
	subjects  subjectReader
	classes   gradeClassReader
	repo      subjectHoursRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSubjectHoursService constructs the service.
func NewSubjectHoursService(subjects subjectReader, classes gradeClassReader, repo subjectHoursRepository, validate *validator.Validate, logger *zap.Logger) *SubjectHoursService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SubjectHoursService{
		subjects:  subjects,
		classes:   classes,
		repo:      repo,
		validator: validate,
		logger:    logger,
	}
}

// Create stores the weekly hours of a subject for a grade class of the same level.
func (s *SubjectHoursService) Create(ctx context.Context, req dto.CreateSubjectHoursRequest) (*models.SubjectHoursDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid subject hours payload")
	}

	subject, err := s.subjects.FindByID(ctx, req.SubjectID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "subject not found")
		}
		return nil, appErrors.Internal(err, "failed to load subject")
	}
	class, err := s.classes.FindByID(ctx, req.GradeClassID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "grade class not found")
		}
		return nil, appErrors.Internal(err, "failed to load grade class")
	}
	if subject.GradeLevel != class.GradeLevel {
		return nil, appErrors.Clone(appErrors.ErrValidation, "subject grade level does not match the grade class")
	}

	if _, err := s.repo.Get(ctx, req.SubjectID, req.GradeClassID); err == nil {
		return nil, appErrors.Clone(appErrors.ErrConflict, "subject hours already exist for this grade class")
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Internal(err, "failed to load subject hours")
	}

	days, err := encodeDays(req.PreferredDays)
	if err != nil {
		return nil, err
	}
	hours := &models.SubjectHours{
		SubjectID:     req.SubjectID,
		GradeClassID:  req.GradeClassID,
		HoursPerWeek:  req.HoursPerWeek,
		PreferredDays: days,
	}
	if err := s.repo.Create(ctx, hours); err != nil {
		return nil, appErrors.Internal(err, "failed to create subject hours")
	}

	s.logger.Info("subject hours created",
		zap.String("subject_id", hours.SubjectID),
		zap.String("grade_class_id", hours.GradeClassID),
		zap.Int("hours_per_week", hours.HoursPerWeek),
	)
	return &models.SubjectHoursDetail{SubjectHours: *hours, SubjectName: subject.Name, SubjectCode: subject.Code}, nil
}

// Get returns the stored hours of one subject in one grade class.
func (s *SubjectHoursService) Get(ctx context.Context, subjectID, gradeClassID string) (*models.SubjectHoursDetail, error) {
	hours, err := s.repo.Get(ctx, subjectID, gradeClassID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "subject hours not found")
		}
		return nil, appErrors.Internal(err, "failed to load subject hours")
	}
	return hours, nil
}

// Update patches the stored hours of a subject in a grade class.
func (s *SubjectHoursService) Update(ctx context.Context, subjectID, gradeClassID string, req dto.UpdateSubjectHoursRequest) (*models.SubjectHoursDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid subject hours payload")
	}
	hours, err := s.Get(ctx, subjectID, gradeClassID)
	if err != nil {
		return nil, err
	}

	if req.HoursPerWeek != nil {
		hours.HoursPerWeek = *req.HoursPerWeek
	}
	if req.PreferredDays != nil {
		days, err := encodeDays(*req.PreferredDays)
		if err != nil {
			return nil, err
		}
		hours.PreferredDays = days
	}
	if err := s.repo.Update(ctx, &hours.SubjectHours); err != nil {
		return nil, appErrors.Internal(err, "failed to update subject hours")
	}
	return hours, nil
}

// ListByClass returns the subject hours of a grade class, largest first.
func (s *SubjectHoursService) ListByClass(ctx context.Context, gradeClassID string) ([]models.SubjectHoursDetail, error) {
	if _, err := s.classes.FindByID(ctx, gradeClassID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "grade class not found")
		}
		return nil, appErrors.Internal(err, "failed to load grade class")
	}
	hours, err := s.repo.ListByGradeClass(ctx, gradeClassID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list subject hours")
	}
	if hours == nil {
		hours = []models.SubjectHoursDetail{}
	}
	return hours, nil
}

// encodeDays stores weekdays as a sorted JSON array without repeats.
func encodeDays(days []int) (types.JSONText, error) {
	normalized := normalizeDays(days)
	if normalized == nil {
		normalized = []int{}
	}
	raw, err := json.Marshal(normalized)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid days")
	}
	return types.JSONText(raw), nil
}
