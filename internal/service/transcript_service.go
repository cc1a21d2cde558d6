package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/campus-gpa-api/internal/models"
	appErrors "github.com/noah-isme/campus-gpa-api/pkg/errors"
	"github.com/noah-isme/campus-gpa-api/pkg/export"
)

var transcriptHeaders = []string{"Semester", "Subject", "Credits", "Grade", "Grade Points"}

type semesterLister interface {
	ListForUser(ctx context.Context, userID string) ([]models.SemesterGPA, error)
}

type profileReader interface {
	Profile(ctx context.Context, id string) (*models.UserProfile, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string, subtitles ...string) ([]byte, error)
}

// TranscriptService renders a user's semester results as a downloadable transcript.
type TranscriptService struct {
	semesters semesterLister
	profiles  profileReader
	csv       csvRenderer
	pdf       pdfRenderer
	enabled   bool
	logger    *zap.Logger
	now       func() time.Time
}

// NewTranscriptService constructs a TranscriptService.
func NewTranscriptService(semesters semesterLister, profiles profileReader, enabled bool, logger *zap.Logger, csv csvRenderer, pdf pdfRenderer) *TranscriptService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &TranscriptService{
		semesters: semesters,
		profiles:  profiles,
		csv:       csv,
		pdf:       pdf,
		enabled:   enabled,
		logger:    logger,
		now:       time.Now,
	}
}

// Export renders every semester's subjects, each semester's GPA and the cumulative GPA.
func (s *TranscriptService) Export(ctx context.Context, userID string, format models.TranscriptFormat) (*models.TranscriptFile, error) {
	if !s.enabled {
		return nil, appErrors.Clone(appErrors.ErrFeatureDisabled, "transcript export is disabled")
	}
	format = models.TranscriptFormat(strings.ToLower(strings.TrimSpace(string(format))))
	if format == "" {
		format = models.TranscriptFormatCSV
	}
	if format != models.TranscriptFormatCSV && format != models.TranscriptFormatPDF {
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}

	profile, err := s.profiles.Profile(ctx, userID)
	if err != nil {
		return nil, err
	}
	records, err := s.semesters.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	dataset := buildTranscriptDataset(records)
	generatedAt := s.now().UTC()
	stamp := generatedAt.Format("20060102")

	var file models.TranscriptFile
	switch format {
	case models.TranscriptFormatPDF:
		body, err := s.pdf.Render(dataset, "Academic Transcript", transcriptSubtitles(profile, generatedAt)...)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render transcript")
		}
		file = models.TranscriptFile{Filename: fmt.Sprintf("transcript-%s-%s.pdf", profile.User.Username, stamp), ContentType: "application/pdf", Body: body}
	default:
		body, err := s.csv.Render(dataset)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render transcript")
		}
		file = models.TranscriptFile{Filename: fmt.Sprintf("transcript-%s-%s.csv", profile.User.Username, stamp), ContentType: "text/csv", Body: body}
	}

	s.logger.Info("transcript exported",
		zap.String("user_id", userID),
		zap.String("format", string(format)),
		zap.Int("semesters", len(records)),
	)
	return &file, nil
}

func buildTranscriptDataset(records []models.SemesterGPA) export.Dataset {
	rows := make([]map[string]string, 0)
	for _, record := range records {
		label := record.SemesterName
		if label == "" {
			label = string(record.SemesterID)
		}
		for _, subject := range record.Subjects {
			rows = append(rows, map[string]string{
				"Semester":     label,
				"Subject":      subject.SubjectName,
				"Credits":      formatCredits(subject.Credits),
				"Grade":        subject.Grade,
				"Grade Points": formatPoints(subject.GradePoints),
			})
		}
		rows = append(rows, map[string]string{
			"Semester":     label,
			"Subject":      "Semester GPA",
			"Credits":      formatCredits(record.TotalCredits),
			"Grade Points": formatPoints(record.GPA),
		})
	}

	summary := AggregateCGPA("", records)
	return export.Dataset{
		Headers: transcriptHeaders,
		Rows:    rows,
		Summary: []export.SummaryLine{
			{Label: "Semesters", Value: strconv.Itoa(summary.SemesterCount)},
			{Label: "Total credits", Value: formatCredits(summary.TotalCredits)},
			{Label: "CGPA", Value: formatPoints(summary.CGPA)},
		},
	}
}

func transcriptSubtitles(profile *models.UserProfile, generatedAt time.Time) []string {
	name := profile.User.Username
	var lines []string
	if profile.Details != nil {
		if profile.Details.FullName != "" {
			name = profile.Details.FullName
		}
		if profile.Details.RegNumber != nil && *profile.Details.RegNumber != "" {
			name += " (" + *profile.Details.RegNumber + ")"
		}
	}
	lines = append(lines, name)
	if profile.Details != nil && profile.Details.UniYear != nil {
		lines = append(lines, "Cohort: "+strings.ReplaceAll(string(*profile.Details.UniYear), "_", " "))
	}
	lines = append(lines, "Generated "+generatedAt.Format("2006-01-02 15:04 MST"))
	return lines
}

func formatCredits(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatPoints(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
