package dto

// UpsertTeacherPreferenceRequest patches the scheduling preferences of a teacher.
type UpsertTeacherPreferenceRequest struct {
	TimePreference  *string `json:"timePreference" validate:"omitempty,oneof=ANY MORNING MIDDAY AFTERNOON"`
	MaxHoursPerDay  *int    `json:"maxHoursPerDay" validate:"omitempty,min=1,max=12"`
	MaxHoursPerWeek *int    `json:"maxHoursPerWeek" validate:"omitempty,min=0,max=60"`
	UnavailableDays *[]int  `json:"unavailableDays" validate:"omitempty,dive,min=1,max=7"`
}

// TeacherPreferenceResponse is the effective preference of a teacher.
type TeacherPreferenceResponse struct {
	TeacherID       string `json:"teacherId"`
	TimePreference  string `json:"timePreference"`
	MaxHoursPerDay  int    `json:"maxHoursPerDay"`
	MaxHoursPerWeek int    `json:"maxHoursPerWeek"`
	UnavailableDays []int  `json:"unavailableDays"`
	Stored          bool   `json:"stored"`
}
