package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/campus-gpa-api/internal/models"
	appErrors "github.com/noah-isme/campus-gpa-api/pkg/errors"
)

type stubSemesterLister struct {
	records []models.SemesterGPA
}

func (s *stubSemesterLister) ListForUser(_ context.Context, _ string) ([]models.SemesterGPA, error) {
	return s.records, nil
}

type stubProfileReader struct {
	profile *models.UserProfile
}

func (s *stubProfileReader) Profile(_ context.Context, id string) (*models.UserProfile, error) {
	if s.profile == nil || s.profile.User.ID != id {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
	}
	return s.profile, nil
}

func transcriptFixture() (*stubSemesterLister, *stubProfileReader) {
	year := models.UniYearSecond
	lister := &stubSemesterLister{records: []models.SemesterGPA{
		{SemesterID: models.SemesterFirst, SemesterName: "Semester 1", TotalCredits: 10, GPA: 4.0, Subjects: models.SemesterSubjects{
			{SubjectName: "Math", Credits: 10, Grade: "A", GradePoints: 4.0},
		}},
		{SemesterID: models.SemesterSecond, TotalCredits: 10, GPA: 2.0, Subjects: models.SemesterSubjects{
			{SubjectName: "Art", Credits: 10, Grade: "C", GradePoints: 2.0},
		}},
	}}
	profiles := &stubProfileReader{profile: &models.UserProfile{
		User:    models.User{ID: "u1", Username: "student1"},
		Details: &models.UserDetails{FullName: "Student One", UniYear: &year},
	}}
	return lister, profiles
}

func TestTranscriptExportCSV(t *testing.T) {
	lister, profiles := transcriptFixture()
	svc := NewTranscriptService(lister, profiles, true, zap.NewNop(), nil, nil)
	svc.now = func() time.Time { return time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC) }

	file, err := svc.Export(context.Background(), "u1", "CSV")
	require.NoError(t, err)
	assert.Equal(t, "transcript-student1-20240601.csv", file.Filename)
	assert.Equal(t, "text/csv", file.ContentType)

	reader := csv.NewReader(bytes.NewReader(file.Body))
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	require.NoError(t, err)
	assert.Equal(t, transcriptHeaders, records[0])
	assert.Equal(t, []string{"Semester 1", "Math", "10", "A", "4.00"}, records[1])
	assert.Equal(t, []string{"Semester 1", "Semester GPA", "10", "", "4.00"}, records[2])
	assert.Equal(t, "SECOND", records[3][0])
	last := records[len(records)-1]
	assert.Equal(t, "CGPA", last[0])
	assert.Equal(t, "3.00", last[len(last)-1])
}

func TestTranscriptExportPDF(t *testing.T) {
	lister, profiles := transcriptFixture()
	svc := NewTranscriptService(lister, profiles, true, zap.NewNop(), nil, nil)

	file, err := svc.Export(context.Background(), "u1", models.TranscriptFormatPDF)
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", file.ContentType)
	assert.True(t, bytes.HasPrefix(file.Body, []byte("%PDF")))
}

func TestTranscriptExportErrors(t *testing.T) {
	lister, profiles := transcriptFixture()

	disabled := NewTranscriptService(lister, profiles, false, zap.NewNop(), nil, nil)
	_, err := disabled.Export(context.Background(), "u1", models.TranscriptFormatCSV)
	assert.True(t, errors.Is(err, appErrors.ErrFeatureDisabled))

	svc := NewTranscriptService(lister, profiles, true, zap.NewNop(), nil, nil)
	_, err = svc.Export(context.Background(), "u1", "xlsx")
	assert.True(t, errors.Is(err, appErrors.ErrValidation))

	_, err = svc.Export(context.Background(), "ghost", models.TranscriptFormatCSV)
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))
}
