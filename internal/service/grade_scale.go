package service

import (
	"fmt"
	"strings"

	appErrors "github.com/noah-isme/campus-gpa-api/pkg/errors"
)

type gradePoint struct {
	grade  string
	points float64
}

var gradeScale = [...]gradePoint{
	{"A+", 4.0}, {"A", 4.0}, {"A-", 3.7},
	{"B+", 3.3}, {"B", 3.0}, {"B-", 2.7},
	{"C+", 2.3}, {"C", 2.0}, {"C-", 1.7},
	{"D+", 1.3}, {"D", 1.0}, {"E", 0.0},
}

var gradeIndex = func() map[string]float64 {
	index := make(map[string]float64, len(gradeScale))
	for _, g := range gradeScale {
		index[g.grade] = g.points
	}
	return index
}()

// PointsFor resolves a letter grade to its grade points. Lookup ignores case and surrounding whitespace.
func PointsFor(grade string) (float64, error) {
	points, ok := gradeIndex[strings.ToUpper(strings.TrimSpace(grade))]
	if !ok {
		return 0, appErrors.Clone(appErrors.ErrInvalidGrade, fmt.Sprintf("invalid grade %q, expected one of %s", grade, strings.Join(ValidGrades(), ", ")))
	}
	return points, nil
}

// ValidGrades lists the accepted grade tokens from highest to lowest.
func ValidGrades() []string {
	out := make([]string, len(gradeScale))
	for i, g := range gradeScale {
		out[i] = g.grade
	}
	return out
}
