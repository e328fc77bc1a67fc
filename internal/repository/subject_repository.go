package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sma-timetable-api/internal/models"
)

// SubjectRepository reads subjects and their teaching assignments.
type SubjectRepository struct {
	db *sqlx.DB
}

// NewSubjectRepository constructs the repository.
func NewSubjectRepository(db *sqlx.DB) *SubjectRepository {
	return &SubjectRepository{db: db}
}

// FindByID loads a subject by id.
func (r *SubjectRepository) FindByID(ctx context.Context, id string) (*models.Subject, error) {
	const query = `SELECT id, code, name, category, grade_level, description, created_at, updated_at FROM subjects WHERE id = $1`
	var subject models.Subject
	if err := r.db.GetContext(ctx, &subject, query, id); err != nil {
		return nil, err
	}
	return &subject, nil
}

// ListWithTeachers returns the subjects of gradeLevel among subjectIDs, each with
// its active teachers and their stored preferences. Teachers keep assignment order.
func (r *SubjectRepository) ListWithTeachers(ctx context.Context, subjectIDs []string, gradeLevel string) ([]models.SubjectWithTeachers, error) {
	if len(subjectIDs) == 0 {
		return nil, nil
	}
	query, args, err := sqlx.In(`SELECT s.id AS subject_id, s.code AS subject_code, s.name AS subject_name, s.grade_level,
		t.id AS teacher_id, t.full_name AS teacher_name, ts.is_primary,
		tp.id AS preference_id, tp.time_preference, tp.max_hours_per_day, tp.max_hours_per_week, tp.unavailable_days
		FROM subjects s
		LEFT JOIN teacher_subjects ts ON ts.subject_id = s.id
		LEFT JOIN teachers t ON t.id = ts.teacher_id AND t.active = TRUE
		LEFT JOIN teacher_preferences tp ON tp.teacher_id = t.id
		WHERE s.id IN (?) AND s.grade_level = ?
		ORDER BY s.name ASC, s.id ASC, ts.created_at ASC, ts.id ASC`, subjectIDs, gradeLevel)
	if err != nil {
		return nil, fmt.Errorf("build subjects with teachers query: %w", err)
	}

	var rows []models.SubjectTeacherRow
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("list subjects with teachers: %w", err)
	}
	return groupSubjectTeachers(rows), nil
}

func groupSubjectTeachers(rows []models.SubjectTeacherRow) []models.SubjectWithTeachers {
	var result []models.SubjectWithTeachers
	positions := make(map[string]int)
	for _, row := range rows {
		idx, ok := positions[row.SubjectID]
		if !ok {
			idx = len(result)
			positions[row.SubjectID] = idx
			result = append(result, models.SubjectWithTeachers{Subject: models.Subject{
				ID:         row.SubjectID,
				Code:       row.SubjectCode,
				Name:       row.SubjectName,
				GradeLevel: row.GradeLevel,
			}})
		}
		if !row.TeacherID.Valid {
			continue
		}

		teacher := models.SubjectTeacher{
			TeacherID:   row.TeacherID.String,
			TeacherName: row.TeacherName.String,
			IsPrimary:   row.IsPrimary.Valid && row.IsPrimary.Bool,
		}
		if row.PreferenceID.Valid {
			teacher.Preference = &models.TeacherPreference{
				ID:              row.PreferenceID.String,
				TeacherID:       row.TeacherID.String,
				TimePreference:  models.TimePreference(row.TimePreference.String),
				MaxHoursPerDay:  int(row.MaxHoursPerDay.Int64),
				MaxHoursPerWeek: int(row.MaxHoursPerWeek.Int64),
			}
			if row.UnavailableDays.Valid {
				teacher.Preference.UnavailableDays = row.UnavailableDays.JSONText
			}
		}
		result[idx].Teachers = append(result[idx].Teachers, teacher)
	}
	return result
}
