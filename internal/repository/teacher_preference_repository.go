package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sma-timetable-api/internal/models"
)

const teacherPreferenceColumns = `id, teacher_id, time_preference, max_hours_per_day, max_hours_per_week, unavailable_days, created_at, updated_at`

// TeacherPreferenceRepository stores one preference row per teacher.
type TeacherPreferenceRepository struct {
	db *sqlx.DB
}

func NewTeacherPreferenceRepository(db *sqlx.DB) *TeacherPreferenceRepository {
	return &TeacherPreferenceRepository{db: db}
}

// GetByTeacher returns sql.ErrNoRows when the teacher never stored preferences.
func (r *TeacherPreferenceRepository) GetByTeacher(ctx context.Context, teacherID string) (*models.TeacherPreference, error) {
	query := `SELECT ` + teacherPreferenceColumns + ` FROM teacher_preferences WHERE teacher_id = $1`
	var pref models.TeacherPreference
	if err := r.db.GetContext(ctx, &pref, query, teacherID); err != nil {
		return nil, err
	}
	return &pref, nil
}

// Upsert writes pref keyed by teacher. On update the stored id and creation
// time are copied back into pref.
func (r *TeacherPreferenceRepository) Upsert(ctx context.Context, pref *models.TeacherPreference) error {
	if pref.ID == "" {
		pref.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if pref.CreatedAt.IsZero() {
		pref.CreatedAt = now
	}
	pref.UpdatedAt = now
	if len(pref.UnavailableDays) == 0 {
		pref.UnavailableDays = []byte("[]")
	}
	if pref.TimePreference == "" {
		pref.TimePreference = models.TimePreferenceAny
	}

	query, args, err := sqlx.Named(`INSERT INTO teacher_preferences (`+teacherPreferenceColumns+`)
		VALUES (:id, :teacher_id, :time_preference, :max_hours_per_day, :max_hours_per_week, :unavailable_days, :created_at, :updated_at)
		ON CONFLICT (teacher_id) DO UPDATE
		SET time_preference = EXCLUDED.time_preference,
		    max_hours_per_day = EXCLUDED.max_hours_per_day,
		    max_hours_per_week = EXCLUDED.max_hours_per_week,
		    unavailable_days = EXCLUDED.unavailable_days,
		    updated_at = EXCLUDED.updated_at
		RETURNING id, created_at`, pref)
	if err != nil {
		return fmt.Errorf("bind teacher preference: %w", err)
	}
	if err := r.db.QueryRowxContext(ctx, r.db.Rebind(query), args...).Scan(&pref.ID, &pref.CreatedAt); err != nil {
		return fmt.Errorf("upsert teacher preference: %w", err)
	}
	return nil
}
