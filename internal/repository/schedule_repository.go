package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/sma-timetable-api/internal/models"
)

// ErrTeacherSlotTaken reports an insert that would give a teacher two lessons
// in the same (day, period).
var ErrTeacherSlotTaken = errors.New("teacher already teaches in this slot")

const teacherSlotConstraint = "schedules_teacher_slot"

// ScheduleRepository provides persistence for generated timetable entries.
type ScheduleRepository struct {
	db *sqlx.DB
}

// NewScheduleRepository creates a new schedule repository.
func NewScheduleRepository(db *sqlx.DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

// ListByGradeClass returns the timetable of a grade class ordered by day and period.
func (r *ScheduleRepository) ListByGradeClass(ctx context.Context, gradeClassID string) ([]models.ScheduleEntryDetail, error) {
	const query = `SELECT sc.id, sc.grade_class_id, sc.subject_id, sc.teacher_id, sc.day, sc.period, sc.start_time, sc.end_time, sc.created_at,
		s.name AS subject_name, s.code AS subject_code, t.full_name AS teacher_name
		FROM schedules sc
		JOIN subjects s ON s.id = sc.subject_id
		JOIN teachers t ON t.id = sc.teacher_id
		WHERE sc.grade_class_id = $1
		ORDER BY sc.day ASC, sc.period ASC`
	var entries []models.ScheduleEntryDetail
	if err := r.db.SelectContext(ctx, &entries, query, gradeClassID); err != nil {
		return nil, fmt.Errorf("list schedules by grade class: %w", err)
	}
	return entries, nil
}

// ListTeacherBookings returns the (day, period) cells the given teachers already
// hold in grade classes other than excludeGradeClassID.
func (r *ScheduleRepository) ListTeacherBookings(ctx context.Context, teacherIDs []string, excludeGradeClassID string) ([]models.TeacherBooking, error) {
	if len(teacherIDs) == 0 {
		return nil, nil
	}
	query, args, err := sqlx.In(`SELECT teacher_id, grade_class_id, day, period FROM schedules WHERE teacher_id IN (?) AND grade_class_id <> ? ORDER BY teacher_id, day, period`, teacherIDs, excludeGradeClassID)
	if err != nil {
		return nil, fmt.Errorf("build teacher bookings query: %w", err)
	}
	var bookings []models.TeacherBooking
	if err := r.db.SelectContext(ctx, &bookings, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("list teacher bookings: %w", err)
	}
	return bookings, nil
}

// LockGradeClass takes a row lock on the grade class for the lifetime of the
// surrounding transaction.
func (r *ScheduleRepository) LockGradeClass(ctx context.Context, exec sqlx.QueryerContext, gradeClassID string) error {
	var id string
	if err := sqlx.GetContext(ctx, exec, &id, `SELECT id FROM grade_classes WHERE id = $1 FOR UPDATE`, gradeClassID); err != nil {
		return fmt.Errorf("lock grade class: %w", err)
	}
	return nil
}

// DeleteByGradeClass removes every entry of a grade class and reports how many were removed.
func (r *ScheduleRepository) DeleteByGradeClass(ctx context.Context, exec sqlx.ExecerContext, gradeClassID string) (int64, error) {
	if exec == nil {
		exec = r.db
	}
	res, err := exec.ExecContext(ctx, `DELETE FROM schedules WHERE grade_class_id = $1`, gradeClassID)
	if err != nil {
		return 0, fmt.Errorf("delete schedules by grade class: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("count deleted schedules: %w", err)
	}
	return affected, nil
}

// BulkCreate inserts entries using the supplied executor, normally a transaction.
func (r *ScheduleRepository) BulkCreate(ctx context.Context, exec sqlx.ExtContext, entries []models.ScheduleEntry) error {
	now := time.Now().UTC()
	for i := range entries {
		payload := entries[i]
		if payload.ID == "" {
			payload.ID = uuid.NewString()
		}
		if payload.CreatedAt.IsZero() {
			payload.CreatedAt = now
		}

		if _, err := sqlx.NamedExecContext(ctx, exec, `INSERT INTO schedules (id, grade_class_id, subject_id, teacher_id, day, period, start_time, end_time, created_at) VALUES (:id, :grade_class_id, :subject_id, :teacher_id, :day, :period, :start_time, :end_time, :created_at)`, &payload); err != nil {
			if isTeacherSlotViolation(err) {
				return fmt.Errorf("bulk insert schedule: teacher %s day %d period %d: %w", payload.TeacherID, payload.Day, payload.Period, ErrTeacherSlotTaken)
			}
			return fmt.Errorf("bulk insert schedule: %w", err)
		}
		entries[i] = payload
	}
	return nil
}

// isTeacherSlotViolation matches a unique_violation (23505) on the teacher slot index.
func isTeacherSlotViolation(err error) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	return pqErr.Code == "23505" && pqErr.Constraint == teacherSlotConstraint
}
