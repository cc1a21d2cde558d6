package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSemesterID(t *testing.T) {
	id, ok := ParseSemesterID(" third ")
	require.True(t, ok)
	assert.Equal(t, SemesterThird, id)
	assert.Equal(t, 3, id.Ordinal())

	_, ok = ParseSemesterID("NINTH")
	assert.False(t, ok)
	assert.Len(t, Semesters(), 8)
}

func TestSemesterSubjectsScan(t *testing.T) {
	var subjects SemesterSubjects
	require.NoError(t, subjects.Scan([]byte(`[{"subject_name":"Math","credits":4,"grade":"A","grade_points":4}]`)))
	require.Len(t, subjects, 1)
	assert.Equal(t, "Math", subjects[0].SubjectName)
	assert.Equal(t, 4.0, subjects[0].GradePoints)

	require.NoError(t, subjects.Scan(nil))
	assert.Empty(t, subjects)

	require.NoError(t, subjects.Scan("null"))
	assert.NotNil(t, subjects)

	assert.Error(t, subjects.Scan(42))
}

func TestSemesterSubjectsValueNil(t *testing.T) {
	var subjects SemesterSubjects
	v, err := subjects.Value()
	require.NoError(t, err)
	assert.Equal(t, []byte("[]"), v)
}

func TestSemesterGPAIsNew(t *testing.T) {
	now := time.Now()
	record := SemesterGPA{CreatedAt: now, UpdatedAt: now}
	assert.True(t, record.IsNew())

	record.UpdatedAt = now.Add(time.Second)
	assert.False(t, record.IsNew())
}
