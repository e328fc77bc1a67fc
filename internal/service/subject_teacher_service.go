package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-timetable-api/internal/dto"
	"github.com/noah-isme/sma-timetable-api/internal/models"
	appErrors "github.com/noah-isme/sma-timetable-api/pkg/errors"
)

type teacherLookup interface {
	FindByIDs(ctx context.Context, ids []string) ([]models.Teacher, error)
}

type teacherSubjectRepository interface {
	ListBySubject(ctx context.Context, subjectID string) ([]models.TeacherSubjectDetail, error)
	ReplaceForSubject(ctx context.Context, subjectID string, links []models.TeacherSubject) error
}

// SubjectTeacherService manages which teachers may teach a subject.
type SubjectTeacherService struct {
	subjects  subjectReader
	teachers  teacherLookup
	repo      teacherSubjectRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSubjectTeacherService constructs the service.
func NewSubjectTeacherService(subjects subjectReader, teachers teacherLookup, repo teacherSubjectRepository, validate *validator.Validate, logger *zap.Logger) *SubjectTeacherService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SubjectTeacherService{
		subjects:  subjects,
		teachers:  teachers,
		repo:      repo,
		validator: validate,
		logger:    logger,
	}
}

// ListTeachers returns the teachers of a subject, primary first.
func (s *SubjectTeacherService) ListTeachers(ctx context.Context, subjectID string) ([]models.TeacherSubjectDetail, error) {
	if err := s.ensureSubject(ctx, subjectID); err != nil {
		return nil, err
	}
	links, err := s.repo.ListBySubject(ctx, subjectID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list subject teachers")
	}
	if links == nil {
		links = []models.TeacherSubjectDetail{}
	}
	return links, nil
}

// AssignTeachers replaces the teacher set of a subject. The request order is
// kept as the fallback order among non-primary teachers.
func (s *SubjectTeacherService) AssignTeachers(ctx context.Context, subjectID string, req dto.AssignTeachersRequest) ([]models.TeacherSubjectDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid teacher assignment payload")
	}
	if err := s.ensureSubject(ctx, subjectID); err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(req.Teachers))
	seen := make(map[string]struct{}, len(req.Teachers))
	primaries := 0
	for _, teacher := range req.Teachers {
		if _, dup := seen[teacher.TeacherID]; dup {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("teacher %s listed more than once", teacher.TeacherID))
		}
		seen[teacher.TeacherID] = struct{}{}
		ids = append(ids, teacher.TeacherID)
		if teacher.IsPrimary {
			primaries++
		}
	}
	if primaries > 1 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "a subject can have at most one primary teacher")
	}

	found, err := s.teachers.FindByIDs(ctx, ids)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load teachers")
	}
	active := make(map[string]bool, len(found))
	for _, teacher := range found {
		active[teacher.ID] = teacher.Active
	}
	var missing []string
	for _, id := range ids {
		if !active[id] {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "teachers not found or inactive: "+strings.Join(missing, ", "))
	}

	links := make([]models.TeacherSubject, 0, len(req.Teachers))
	for _, teacher := range req.Teachers {
		links = append(links, models.TeacherSubject{
			TeacherID: teacher.TeacherID,
			SubjectID: subjectID,
			IsPrimary: teacher.IsPrimary,
		})
	}
	if err := s.repo.ReplaceForSubject(ctx, subjectID, links); err != nil {
		return nil, appErrors.Internal(err, "failed to assign subject teachers")
	}
	s.logger.Info("subject teachers assigned", zap.String("subject_id", subjectID), zap.Strings("teacher_ids", ids))

	return s.ListTeachers(ctx, subjectID)
}

func (s *SubjectTeacherService) ensureSubject(ctx context.Context, subjectID string) error {
	if _, err := s.subjects.FindByID(ctx, subjectID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "subject not found")
		}
		return appErrors.Internal(err, "failed to load subject")
	}
	return nil
}
