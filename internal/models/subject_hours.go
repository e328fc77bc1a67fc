package models

import (
	"encoding/json"
	"time"

	"github.com/jmoiron/sqlx/types"
)

// SubjectHours stores the weekly demand of a subject for a grade class.
type SubjectHours struct {
	ID            string         `db:"id" json:"id"`
	SubjectID     string         `db:"subject_id" json:"subject_id"`
	GradeClassID  string         `db:"grade_class_id" json:"grade_class_id"`
	HoursPerWeek  int            `db:"hours_per_week" json:"hours_per_week"`
	PreferredDays types.JSONText `db:"preferred_days" json:"preferred_days"`
	CreatedAt     time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time      `db:"updated_at" json:"updated_at"`
}

// SubjectHoursDetail adds subject descriptors to SubjectHours.
type SubjectHoursDetail struct {
	SubjectHours
	SubjectName string `db:"subject_name" json:"subject_name"`
	SubjectCode string `db:"subject_code" json:"subject_code"`
}

// Days decodes the preferred weekdays.
func (h SubjectHours) Days() ([]int, error) {
	if len(h.PreferredDays) == 0 {
		return nil, nil
	}
	var days []int
	if err := json.Unmarshal(h.PreferredDays, &days); err != nil {
		return nil, err
	}
	return days, nil
}
