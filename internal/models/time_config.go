package models

import (
	"encoding/json"
	"time"

	"github.com/jmoiron/sqlx/types"
)

// Default school-day layout applied when an academic year has no stored configuration.
const (
	DefaultSchoolStartTime  = "07:30"
	DefaultSchoolEndTime    = "16:00"
	DefaultPeriodDuration   = 90
	DefaultBreakDuration    = 15
	DefaultMaxPeriodsPerDay = 8
)

// BreakTime overrides the default break that follows a given period.
type BreakTime struct {
	AfterPeriod int `json:"afterPeriod" validate:"min=1"`
	Duration    int `json:"duration" validate:"min=5"`
}

// SchoolTimeConfig describes the school-day structure for an academic year.
type SchoolTimeConfig struct {
	ID               string         `db:"id" json:"id"`
	AcademicYear     string         `db:"academic_year" json:"academic_year"`
	SchoolStartTime  string         `db:"school_start_time" json:"school_start_time"`
	SchoolEndTime    string         `db:"school_end_time" json:"school_end_time"`
	PeriodDuration   int            `db:"period_duration" json:"period_duration"`
	BreakDuration    int            `db:"break_duration" json:"break_duration"`
	MaxPeriodsPerDay int            `db:"max_periods_per_day" json:"max_periods_per_day"`
	BreakTimes       types.JSONText `db:"break_times" json:"break_times"`
	CreatedAt        time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time      `db:"updated_at" json:"updated_at"`
}

// DefaultSchoolTimeConfig returns the configuration auto-created for unknown academic years.
func DefaultSchoolTimeConfig(academicYear string) SchoolTimeConfig {
	return SchoolTimeConfig{
		AcademicYear:     academicYear,
		SchoolStartTime:  DefaultSchoolStartTime,
		SchoolEndTime:    DefaultSchoolEndTime,
		PeriodDuration:   DefaultPeriodDuration,
		BreakDuration:    DefaultBreakDuration,
		MaxPeriodsPerDay: DefaultMaxPeriodsPerDay,
		BreakTimes:       types.JSONText(`[{"afterPeriod":2,"duration":20},{"afterPeriod":5,"duration":30}]`),
	}
}

// Breaks decodes the stored break overrides.
func (c SchoolTimeConfig) Breaks() ([]BreakTime, error) {
	if len(c.BreakTimes) == 0 {
		return nil, nil
	}
	var breaks []BreakTime
	if err := json.Unmarshal(c.BreakTimes, &breaks); err != nil {
		return nil, err
	}
	return breaks, nil
}
