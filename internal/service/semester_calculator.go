package service

import (
	"strings"

	"github.com/noah-isme/campus-gpa-api/internal/dto"
	"github.com/noah-isme/campus-gpa-api/internal/models"
)

// BuildSubjects resolves every subject's grade points, keeping input order.
// The first unknown grade aborts the whole list.
func BuildSubjects(subjects []dto.SubjectRequest) (models.SemesterSubjects, error) {
	out := make(models.SemesterSubjects, 0, len(subjects))
	for _, subject := range subjects {
		points, err := PointsFor(subject.Grade)
		if err != nil {
			return nil, err
		}
		out = append(out, models.SemesterSubject{
			SubjectName: strings.TrimSpace(subject.SubjectName),
			Credits:     subject.Credits,
			Grade:       strings.ToUpper(strings.TrimSpace(subject.Grade)),
			GradePoints: points,
		})
	}
	return out, nil
}

// Compute returns the total credits and credit-weighted GPA of a subject list.
// An empty list yields (0, 0). No rounding is applied.
func Compute(subjects []dto.SubjectRequest) (float64, float64, error) {
	built, err := BuildSubjects(subjects)
	if err != nil {
		return 0, 0, err
	}
	totalCredits, gpa := totalsFor(built)
	return totalCredits, gpa, nil
}

func totalsFor(subjects models.SemesterSubjects) (float64, float64) {
	var totalCredits, weighted float64
	for _, subject := range subjects {
		totalCredits += subject.Credits
		weighted += subject.Credits * subject.GradePoints
	}
	if totalCredits == 0 {
		return 0, 0
	}
	return totalCredits, weighted / totalCredits
}
