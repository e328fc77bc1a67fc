package dto

// SubjectTeacherRequest names a teacher eligible for a subject.
type SubjectTeacherRequest struct {
	TeacherID string `json:"teacherId" validate:"required"`
	IsPrimary bool   `json:"isPrimary"`
}

// AssignTeachersRequest replaces the full teacher set of a subject.
type AssignTeachersRequest struct {
	Teachers []SubjectTeacherRequest `json:"teachers" validate:"required,dive"`
}
