package models

import "time"

// ScheduleEntry places one subject hour of a grade class on a (day, period).
type ScheduleEntry struct {
	ID           string    `db:"id" json:"id"`
	GradeClassID string    `db:"grade_class_id" json:"grade_class_id"`
	SubjectID    string    `db:"subject_id" json:"subject_id"`
	TeacherID    string    `db:"teacher_id" json:"teacher_id"`
	Day          int       `db:"day" json:"day"`
	Period       int       `db:"period" json:"period"`
	StartTime    string    `db:"start_time" json:"start_time"`
	EndTime      string    `db:"end_time" json:"end_time"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// ScheduleEntryDetail is the read model returned by timetable queries.
type ScheduleEntryDetail struct {
	ScheduleEntry
	SubjectName string `db:"subject_name" json:"subject_name"`
	SubjectCode string `db:"subject_code" json:"subject_code"`
	TeacherName string `db:"teacher_name" json:"teacher_name"`
}

// TeacherBooking is a (day, period) a teacher already holds in some grade class.
type TeacherBooking struct {
	TeacherID    string `db:"teacher_id"`
	GradeClassID string `db:"grade_class_id"`
	Day          int    `db:"day"`
	Period       int    `db:"period"`
}
