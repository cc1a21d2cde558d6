package models

// TranscriptFormat selects the rendering of a transcript export.
type TranscriptFormat string

const (
	TranscriptFormatCSV TranscriptFormat = "csv"
	TranscriptFormatPDF TranscriptFormat = "pdf"
)

// TranscriptFile is a rendered transcript ready to be streamed.
type TranscriptFile struct {
	Filename    string
	ContentType string
	Body        []byte
}
