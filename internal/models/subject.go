package models

import (
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx/types"
)

// Subject represents an academic subject taught at one grade level.
type Subject struct {
	ID          string    `db:"id" json:"id"`
	Code        string    `db:"code" json:"code"`
	Name        string    `db:"name" json:"name"`
	Category    string    `db:"category" json:"category"`
	GradeLevel  string    `db:"grade_level" json:"grade_level"`
	Description *string   `db:"description" json:"description,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// SubjectTeacherRow is a flattened subject/teacher/preference join row.
type SubjectTeacherRow struct {
	SubjectID       string             `db:"subject_id"`
	SubjectCode     string             `db:"subject_code"`
	SubjectName     string             `db:"subject_name"`
	GradeLevel      string             `db:"grade_level"`
	TeacherID       sql.NullString     `db:"teacher_id"`
	TeacherName     sql.NullString     `db:"teacher_name"`
	IsPrimary       sql.NullBool       `db:"is_primary"`
	PreferenceID    sql.NullString     `db:"preference_id"`
	TimePreference  sql.NullString     `db:"time_preference"`
	MaxHoursPerDay  sql.NullInt64      `db:"max_hours_per_day"`
	MaxHoursPerWeek sql.NullInt64      `db:"max_hours_per_week"`
	UnavailableDays types.NullJSONText `db:"unavailable_days"`
}

// SubjectWithTeachers groups the teachers assigned to a subject in source order.
type SubjectWithTeachers struct {
	Subject  Subject
	Teachers []SubjectTeacher
}

// SubjectTeacher is one teacher eligible to teach a subject.
type SubjectTeacher struct {
	TeacherID   string             `json:"teacher_id"`
	TeacherName string             `json:"teacher_name"`
	IsPrimary   bool               `json:"is_primary"`
	Preference  *TeacherPreference `json:"preference,omitempty"`
}
