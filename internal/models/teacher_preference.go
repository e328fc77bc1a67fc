package models

import (
	"encoding/json"
	"time"

	"github.com/jmoiron/sqlx/types"
)

// TimePreference restricts the hours of the day a teacher prefers to teach.
type TimePreference string

const (
	TimePreferenceAny       TimePreference = "ANY"
	TimePreferenceMorning   TimePreference = "MORNING"
	TimePreferenceMidday    TimePreference = "MIDDAY"
	TimePreferenceAfternoon TimePreference = "AFTERNOON"
)

// Valid reports whether p is one of the known preferences.
func (p TimePreference) Valid() bool {
	switch p {
	case TimePreferenceAny, TimePreferenceMorning, TimePreferenceMidday, TimePreferenceAfternoon:
		return true
	}
	return false
}

// DefaultMaxHoursPerDay applies when a teacher has no stored daily limit.
const DefaultMaxHoursPerDay = 8

// TeacherPreference stores capacity and availability rules for a teacher.
type TeacherPreference struct {
	ID              string         `db:"id" json:"id"`
	TeacherID       string         `db:"teacher_id" json:"teacher_id"`
	TimePreference  TimePreference `db:"time_preference" json:"time_preference"`
	MaxHoursPerDay  int            `db:"max_hours_per_day" json:"max_hours_per_day"`
	MaxHoursPerWeek int            `db:"max_hours_per_week" json:"max_hours_per_week"`
	UnavailableDays types.JSONText `db:"unavailable_days" json:"unavailable_days"`
	CreatedAt       time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time      `db:"updated_at" json:"updated_at"`
}

// Days decodes the blacked-out weekdays.
func (p TeacherPreference) Days() ([]int, error) {
	if len(p.UnavailableDays) == 0 {
		return nil, nil
	}
	var days []int
	if err := json.Unmarshal(p.UnavailableDays, &days); err != nil {
		return nil, err
	}
	return days, nil
}
