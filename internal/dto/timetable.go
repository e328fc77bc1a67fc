package dto

import (
	"github.com/noah-isme/sma-timetable-api/internal/models"
	"github.com/noah-isme/sma-timetable-api/internal/scheduler"
)

// Generation outcome reported to clients.
const (
	TimetableStatusComplete = "COMPLETE"
	TimetableStatusPartial  = "PARTIAL"
	TimetableStatusEmpty    = "EMPTY"
)

// SubjectDemandRequest is the weekly quota requested for one subject.
type SubjectDemandRequest struct {
	SubjectID     string `json:"subjectId" validate:"required"`
	HoursPerWeek  int    `json:"hoursPerWeek" validate:"required,min=1,max=40"`
	PreferredDays []int  `json:"preferredDays" validate:"omitempty,dive,min=1,max=7"`
}

// GenerateTimetableRequest asks for a fresh weekly timetable of a grade class.
// Subjects default to the stored subject hours of the class and the academic
// year defaults to the class's own.
type GenerateTimetableRequest struct {
	GradeClassID string                 `json:"gradeClassId" validate:"required"`
	AcademicYear string                 `json:"academicYear" validate:"omitempty,max=20"`
	Subjects     []SubjectDemandRequest `json:"subjects" validate:"omitempty,dive"`
	ActiveDays   []int                  `json:"activeDays" validate:"omitempty,dive,min=1,max=7"`
}

// SubjectShortfall reports a subject that did not receive its full quota.
type SubjectShortfall struct {
	SubjectID   string `json:"subjectId"`
	SubjectName string `json:"subjectName"`
	Needed      int    `json:"needed"`
	Assigned    int    `json:"assigned"`
}

// GenerateTimetableResponse summarises a generation run.
type GenerateTimetableResponse struct {
	GradeClassID        string             `json:"gradeClassId"`
	Status              string             `json:"status"`
	Message             string             `json:"message"`
	ScheduleCount       int                `json:"scheduleCount"`
	TotalSlotsAvailable int                `json:"totalSlotsAvailable"`
	Warnings            []string           `json:"warnings,omitempty"`
	Shortfalls          []SubjectShortfall `json:"shortfalls,omitempty"`
}

// TimetableDay groups the entries of one weekday.
type TimetableDay struct {
	Day       int                          `json:"day"`
	DayName   string                       `json:"dayName"`
	Schedules []models.ScheduleEntryDetail `json:"schedules"`
}

// TimetableResponse is the read model of a grade class timetable.
type TimetableResponse struct {
	GradeClass   models.GradeClass    `json:"gradeClass"`
	AcademicYear string               `json:"academicYear"`
	Layout       []scheduler.TimeSlot `json:"layout"`
	Timetable    []TimetableDay       `json:"timetable"`
	TotalEntries int                  `json:"totalEntries"`
}

// ClearTimetableResponse reports how many entries were removed.
type ClearTimetableResponse struct {
	GradeClassID string `json:"gradeClassId"`
	DeletedCount int64  `json:"deletedCount"`
}
