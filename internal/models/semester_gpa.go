package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// SemesterID identifies one of the eight terms of a degree programme.
type SemesterID string

const (
	SemesterFirst   SemesterID = "FIRST"
	SemesterSecond  SemesterID = "SECOND"
	SemesterThird   SemesterID = "THIRD"
	SemesterFourth  SemesterID = "FOURTH"
	SemesterFifth   SemesterID = "FIFTH"
	SemesterSixth   SemesterID = "SIXTH"
	SemesterSeventh SemesterID = "SEVENTH"
	SemesterEighth  SemesterID = "EIGHTH"
)

var semesterOrder = [...]SemesterID{
	SemesterFirst, SemesterSecond, SemesterThird, SemesterFourth,
	SemesterFifth, SemesterSixth, SemesterSeventh, SemesterEighth,
}

// Semesters returns the semester identifiers in programme order.
func Semesters() []SemesterID {
	out := make([]SemesterID, len(semesterOrder))
	copy(out, semesterOrder[:])
	return out
}

// ParseSemesterID resolves a semester identifier case-insensitively.
func ParseSemesterID(raw string) (SemesterID, bool) {
	id := SemesterID(strings.ToUpper(strings.TrimSpace(raw)))
	return id, id.Valid()
}

// Valid reports whether the identifier is a known semester.
func (s SemesterID) Valid() bool {
	return s.Ordinal() > 0
}

// Ordinal returns the 1-based position of the semester, or 0 when unknown.
func (s SemesterID) Ordinal() int {
	for i, id := range semesterOrder {
		if id == s {
			return i + 1
		}
	}
	return 0
}

// SemesterSubject is one graded subject embedded in a semester record.
// GradePoints is resolved at write time and never recomputed on read.
type SemesterSubject struct {
	SubjectName string  `json:"subject_name"`
	Credits     float64 `json:"credits"`
	Grade       string  `json:"grade"`
	GradePoints float64 `json:"grade_points"`
}

// SemesterSubjects is stored as a jsonb array on the semester record.
type SemesterSubjects []SemesterSubject

// Value implements driver.Valuer.
func (s SemesterSubjects) Value() (driver.Value, error) {
	if s == nil {
		return []byte("[]"), nil
	}
	payload, err := json.Marshal([]SemesterSubject(s))
	if err != nil {
		return nil, fmt.Errorf("marshal semester subjects: %w", err)
	}
	return payload, nil
}

// Scan implements sql.Scanner.
func (s *SemesterSubjects) Scan(src interface{}) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*s = SemesterSubjects{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("scan semester subjects: unsupported type %T", src)
	}
	var subjects []SemesterSubject
	if err := json.Unmarshal(raw, &subjects); err != nil {
		return fmt.Errorf("scan semester subjects: %w", err)
	}
	if subjects == nil {
		subjects = []SemesterSubject{}
	}
	*s = subjects
	return nil
}

// SemesterGPA is one user's stored result for one semester. At most one row exists per (user, semester).
type SemesterGPA struct {
	ID           string           `db:"id" json:"id"`
	UserID       string           `db:"user_id" json:"user_id"`
	SemesterID   SemesterID       `db:"semester_id" json:"semester_id"`
	SemesterName string           `db:"semester_name" json:"semester_name"`
	Subjects     SemesterSubjects `db:"subjects" json:"subjects"`
	TotalCredits float64          `db:"total_credits" json:"total_credits"`
	GPA          float64          `db:"gpa" json:"gpa"`
	CreatedAt    time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time        `db:"updated_at" json:"updated_at"`
	CreatedBy    *string          `db:"created_by" json:"created_by,omitempty"`
	UpdatedBy    *string          `db:"updated_by" json:"updated_by,omitempty"`
}

// IsNew reports whether the record was freshly inserted by the last upsert.
func (r *SemesterGPA) IsNew() bool {
	return r.CreatedAt.Equal(r.UpdatedAt)
}

// CGPASummary is the cumulative GPA of a user across all stored semesters.
type CGPASummary struct {
	UserID        string  `json:"user_id"`
	SemesterCount int     `json:"semester_count"`
	TotalCredits  float64 `json:"total_credits"`
	CGPA          float64 `json:"cgpa"`
}

// BatchStatistics holds the grouped sums for all semester records of a cohort.
type BatchStatistics struct {
	StudentsWithGPA int     `db:"students_with_gpa" json:"students_with_gpa"`
	WeightedGPASum  float64 `db:"weighted_gpa_sum" json:"weighted_gpa_sum"`
	TotalCreditsSum float64 `db:"total_credits_sum" json:"total_credits_sum"`
}

// BatchAverage is the credit-weighted average GPA of a cohort.
type BatchAverage struct {
	UniYear            UniYear `json:"uni_year"`
	TotalStudents      int     `json:"total_students"`
	StudentsWithGPA    int     `json:"students_with_gpa"`
	StudentsWithoutGPA int     `json:"students_without_gpa"`
	AverageGPA         float64 `json:"average_gpa"`
}
