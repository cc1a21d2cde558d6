package dto

import "github.com/noah-isme/campus-gpa-api/internal/models"

// SubjectRequest is one subject line within a semester payload.
type SubjectRequest struct {
	SubjectName string  `json:"subjectName" validate:"required,notblank,max=255"`
	Credits     float64 `json:"credits" validate:"required,gt=0,lte=100"`
	Grade       string  `json:"grade" validate:"required,notblank"`
}

// UpsertSemesterGPARequest creates or replaces a semester record.
type UpsertSemesterGPARequest struct {
	SemesterID   models.SemesterID `json:"semesterId" validate:"required"`
	SemesterName string            `json:"semesterName" validate:"required,notblank,max=255"`
	Subjects     []SubjectRequest  `json:"subjects" validate:"required,min=1,max=100,dive"`
}

// UpdateSemesterGPARequest partially updates a semester record. Nil fields are left untouched.
type UpdateSemesterGPARequest struct {
	SemesterName *string          `json:"semesterName" validate:"omitempty,notblank,max=255"`
	Subjects     []SubjectRequest `json:"subjects" validate:"omitempty,min=1,max=100,dive"`
}

// SubjectResponse reports a stored subject with its resolved grade points.
type SubjectResponse struct {
	SubjectName string  `json:"subjectName"`
	Credits     float64 `json:"credits"`
	Grade       string  `json:"grade"`
	GradePoints float64 `json:"gradePoints"`
}

// SemesterGPAResponse is the presentation shape of a stored semester record.
type SemesterGPAResponse struct {
	ID           string            `json:"id"`
	UserID       string            `json:"userId"`
	SemesterID   models.SemesterID `json:"semesterId"`
	SemesterName string            `json:"semesterName"`
	Subjects     []SubjectResponse `json:"subjects"`
	TotalCredits float64           `json:"totalCredits"`
	GPA          float64           `json:"gpa"`
	CreatedAt    string            `json:"createdAt,omitempty"`
	UpdatedAt    string            `json:"updatedAt,omitempty"`
}

// CGPAResponse reports a user's cumulative GPA.
type CGPAResponse struct {
	UserID        string  `json:"userId"`
	SemesterCount int     `json:"semesterCount"`
	TotalCredits  float64 `json:"totalCredits"`
	CGPA          float64 `json:"cgpa"`
}

// BatchAverageResponse reports the credit-weighted average GPA of a cohort.
type BatchAverageResponse struct {
	UniYear            models.UniYear `json:"uniYear"`
	TotalStudents      int            `json:"totalStudents"`
	StudentsWithGPA    int            `json:"studentsWithGpa"`
	StudentsWithoutGPA int            `json:"studentsWithoutGpa"`
	AverageGPA         float64        `json:"averageGpa"`
}

// UpdateDetailsRequest edits the caller's profile, including the cohort attribute.
type UpdateDetailsRequest struct {
	FullName    *string            `json:"fullName" validate:"omitempty,min=1"`
	PhoneNumber *string            `json:"phoneNumber"`
	RegNumber   *string            `json:"regNumber"`
	Department  *models.Department `json:"department" validate:"omitempty,oneof=ICT ET BST"`
	UniYear     *models.UniYear    `json:"uniYear" validate:"omitempty,oneof=FIRST_YEAR SECOND_YEAR THIRD_YEAR FOURTH_YEAR"`
}
