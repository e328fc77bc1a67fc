package dto

import (
	"github.com/noah-isme/sma-timetable-api/internal/models"
	"github.com/noah-isme/sma-timetable-api/internal/scheduler"
)

// CreateTimeConfigRequest defines the school day of a new academic year.
type CreateTimeConfigRequest struct {
	AcademicYear     string             `json:"academicYear" validate:"required,max=20"`
	SchoolStartTime  string             `json:"schoolStartTime" validate:"required,datetime=15:04"`
	SchoolEndTime    string             `json:"schoolEndTime" validate:"required,datetime=15:04"`
	PeriodDuration   int                `json:"periodDuration" validate:"required,min=30,max=90"`
	BreakDuration    int                `json:"breakDuration" validate:"required,min=5,max=30"`
	MaxPeriodsPerDay int                `json:"maxPeriodsPerDay" validate:"required,min=4,max=12"`
	BreakTimes       []models.BreakTime `json:"breakTimes" validate:"omitempty,dive"`
}

// UpdateTimeConfigRequest patches an existing configuration; nil fields are kept.
type UpdateTimeConfigRequest struct {
	SchoolStartTime  *string             `json:"schoolStartTime" validate:"omitempty,datetime=15:04"`
	SchoolEndTime    *string             `json:"schoolEndTime" validate:"omitempty,datetime=15:04"`
	PeriodDuration   *int                `json:"periodDuration" validate:"omitempty,min=30,max=90"`
	BreakDuration    *int                `json:"breakDuration" validate:"omitempty,min=5,max=30"`
	MaxPeriodsPerDay *int                `json:"maxPeriodsPerDay" validate:"omitempty,min=4,max=12"`
	BreakTimes       *[]models.BreakTime `json:"breakTimes" validate:"omitempty,dive"`
}

// TimeSlotsResponse previews the day layout derived from a configuration.
type TimeSlotsResponse struct {
	AcademicYear   string               `json:"academicYear"`
	Slots          []scheduler.TimeSlot `json:"slots"`
	Layout         []scheduler.TimeSlot `json:"layout"`
	PeriodsPerDay  int                  `json:"periodsPerDay"`
	SchoolDayStart string               `json:"schoolDayStart"`
	SchoolDayEnd   string               `json:"schoolDayEnd"`
}
