package dto

import (
	"time"

	"github.com/noah-isme/campus-gpa-api/internal/models"
)

// NewSemesterGPAResponse maps a stored record to its response shape.
func NewSemesterGPAResponse(record *models.SemesterGPA) SemesterGPAResponse {
	subjects := make([]SubjectResponse, 0, len(record.Subjects))
	for _, subject := range record.Subjects {
		subjects = append(subjects, SubjectResponse{
			SubjectName: subject.SubjectName,
			Credits:     subject.Credits,
			Grade:       subject.Grade,
			GradePoints: subject.GradePoints,
		})
	}
	return SemesterGPAResponse{
		ID:           record.ID,
		UserID:       record.UserID,
		SemesterID:   record.SemesterID,
		SemesterName: record.SemesterName,
		Subjects:     subjects,
		TotalCredits: record.TotalCredits,
		GPA:          record.GPA,
		CreatedAt:    formatTimestamp(record.CreatedAt),
		UpdatedAt:    formatTimestamp(record.UpdatedAt),
	}
}

// NewSemesterGPAResponses maps a list of records.
func NewSemesterGPAResponses(records []models.SemesterGPA) []SemesterGPAResponse {
	out := make([]SemesterGPAResponse, 0, len(records))
	for i := range records {
		out = append(out, NewSemesterGPAResponse(&records[i]))
	}
	return out
}

// NewCGPAResponse maps a CGPA summary.
func NewCGPAResponse(summary *models.CGPASummary) CGPAResponse {
	return CGPAResponse{
		UserID:        summary.UserID,
		SemesterCount: summary.SemesterCount,
		TotalCredits:  summary.TotalCredits,
		CGPA:          summary.CGPA,
	}
}

// NewBatchAverageResponse maps a cohort average.
func NewBatchAverageResponse(avg *models.BatchAverage) BatchAverageResponse {
	return BatchAverageResponse{
		UniYear:            avg.UniYear,
		TotalStudents:      avg.TotalStudents,
		StudentsWithGPA:    avg.StudentsWithGPA,
		StudentsWithoutGPA: avg.StudentsWithoutGPA,
		AverageGPA:         avg.AverageGPA,
	}
}

func formatTimestamp(ts time.Time) string {
	if ts.IsZero() {
		return ""
	}
	return ts.UTC().Format(time.RFC3339Nano)
}
