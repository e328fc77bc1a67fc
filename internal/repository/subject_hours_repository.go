package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sma-timetable-api/internal/models"
)

// SubjectHoursRepository persists weekly subject demand per grade class.
type SubjectHoursRepository struct {
	db *sqlx.DB
}

// NewSubjectHoursRepository constructs the repository.
func NewSubjectHoursRepository(db *sqlx.DB) *SubjectHoursRepository {
	return &SubjectHoursRepository{db: db}
}

// Get returns the hours of one subject in one grade class.
func (r *SubjectHoursRepository) Get(ctx context.Context, subjectID, gradeClassID string) (*models.SubjectHoursDetail, error) {
	const query = `SELECT sh.id, sh.subject_id, sh.grade_class_id, sh.hours_per_week, sh.preferred_days, sh.created_at, sh.updated_at,
		s.name AS subject_name, s.code AS subject_code
		FROM subject_hours sh
		JOIN subjects s ON s.id = sh.subject_id
		WHERE sh.subject_id = $1 AND sh.grade_class_id = $2`
	var hours models.SubjectHoursDetail
	if err := r.db.GetContext(ctx, &hours, query, subjectID, gradeClassID); err != nil {
		return nil, err
	}
	return &hours, nil
}

// ListByGradeClass returns the subject hours of a class, largest demand first.
func (r *SubjectHoursRepository) ListByGradeClass(ctx context.Context, gradeClassID string) ([]models.SubjectHoursDetail, error) {
	const query = `SELECT sh.id, sh.subject_id, sh.grade_class_id, sh.hours_per_week, sh.preferred_days, sh.created_at, sh.updated_at,
		s.name AS subject_name, s.code AS subject_code
		FROM subject_hours sh
		JOIN subjects s ON s.id = sh.subject_id
		WHERE sh.grade_class_id = $1
		ORDER BY sh.hours_per_week DESC, s.name ASC`
	var hours []models.SubjectHoursDetail
	if err := r.db.SelectContext(ctx, &hours, query, gradeClassID); err != nil {
		return nil, fmt.Errorf("list subject hours: %w", err)
	}
	return hours, nil
}

// Create stores new subject hours.
func (r *SubjectHoursRepository) Create(ctx context.Context, hours *models.SubjectHours) error {
	if hours.ID == "" {
		hours.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if hours.CreatedAt.IsZero() {
		hours.CreatedAt = now
	}
	hours.UpdatedAt = now
	if len(hours.PreferredDays) == 0 {
		hours.PreferredDays = []byte("[]")
	}

	const query = `INSERT INTO subject_hours (id, subject_id, grade_class_id, hours_per_week, preferred_days, created_at, updated_at)
		VALUES (:id, :subject_id, :grade_class_id, :hours_per_week, :preferred_days, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, hours); err != nil {
		return fmt.Errorf("create subject hours: %w", err)
	}
	return nil
}

// Update overwrites hours and preferred days.
func (r *SubjectHoursRepository) Update(ctx context.Context, hours *models.SubjectHours) error {
	hours.UpdatedAt = time.Now().UTC()
	if len(hours.PreferredDays) == 0 {
		hours.PreferredDays = []byte("[]")
	}
	const query = `UPDATE subject_hours SET hours_per_week = :hours_per_week, preferred_days = :preferred_days, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, hours); err != nil {
		return fmt.Errorf("update subject hours: %w", err)
	}
	return nil
}
