package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/noah-isme/campus-gpa-api/pkg/errors"
)

func TestPointsForKnownGrades(t *testing.T) {
	expected := map[string]float64{
		"A+": 4.0, "A": 4.0, "A-": 3.7,
		"B+": 3.3, "B": 3.0, "B-": 2.7,
		"C+": 2.3, "C": 2.0, "C-": 1.7,
		"D+": 1.3, "D": 1.0, "E": 0.0,
	}
	for grade, points := range expected {
		got, err := PointsFor(grade)
		require.NoError(t, err, grade)
		assert.Equal(t, points, got, grade)
	}
	assert.Len(t, ValidGrades(), len(expected))
}

func TestPointsForIgnoresCase(t *testing.T) {
	upper, err := PointsFor("B+")
	require.NoError(t, err)
	lower, err := PointsFor(" b+ ")
	require.NoError(t, err)
	assert.Equal(t, upper, lower)
}

func TestPointsForUnknownGrade(t *testing.T) {
	for _, grade := range []string{"F", "", "A++", "4.0"} {
		_, err := PointsFor(grade)
		require.Error(t, err, grade)
		assert.True(t, errors.Is(err, appErrors.ErrInvalidGrade), grade)
	}
}
