package dto

// CreateSubjectHoursRequest sets the weekly hours of a subject for a grade class.
type CreateSubjectHoursRequest struct {
	SubjectID     string `json:"subjectId" validate:"required"`
	GradeClassID  string `json:"gradeClassId" validate:"required"`
	HoursPerWeek  int    `json:"hoursPerWeek" validate:"required,min=1,max=20"`
	PreferredDays []int  `json:"preferredDays" validate:"omitempty,dive,min=1,max=7"`
}

// UpdateSubjectHoursRequest patches stored subject hours.
type UpdateSubjectHoursRequest struct {
	HoursPerWeek  *int   `json:"hoursPerWeek" validate:"omitempty,min=1,max=20"`
	PreferredDays *[]int `json:"preferredDays" validate:"omitempty,dive,min=1,max=7"`
}
