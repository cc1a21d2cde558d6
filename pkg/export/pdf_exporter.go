package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

const pdfBodyWidth = 190.0

// PDFExporter renders datasets into a tabular A4 PDF.
type PDFExporter struct{}

// NewPDFExporter constructs a PDF exporter.
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

// Render creates a PDF document with a title block, the table body and the summary lines.
// The first column is twice as wide as the others.
func (e *PDFExporter) Render(data Dataset, title string, subtitles ...string) ([]byte, error) {
	if len(data.Headers) == 0 {
		return nil, fmt.Errorf("pdf requires at least one header")
	}
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 15, 10)
	pdf.AddPage()

	if title != "" {
		pdf.SetFont("Arial", "B", 14)
		pdf.CellFormat(0, 10, strings.ToUpper(title), "", 1, "C", false, 0, "")
	}
	if len(subtitles) > 0 {
		pdf.SetFont("Arial", "", 10)
		for _, line := range subtitles {
			pdf.CellFormat(0, 6, line, "", 1, "C", false, 0, "")
		}
	}
	pdf.Ln(5)

	widths := columnWidths(len(data.Headers))
	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(230, 230, 230)
	for i, header := range data.Headers {
		pdf.CellFormat(widths[i], 8, header, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	for _, row := range data.Rows {
		for i, header := range data.Headers {
			align := ""
			if i > 0 {
				align = "C"
			}
			pdf.CellFormat(widths[i], 7, row[header], "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	if len(data.Summary) > 0 {
		pdf.Ln(4)
		pdf.SetFont("Arial", "B", 10)
		for _, line := range data.Summary {
			pdf.CellFormat(pdfBodyWidth/2, 7, line.Label, "", 0, "", false, 0, "")
			pdf.CellFormat(pdfBodyWidth/2, 7, line.Value, "", 1, "R", false, 0, "")
		}
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func columnWidths(columns int) []float64 {
	widths := make([]float64, columns)
	if columns == 1 {
		widths[0] = pdfBodyWidth
		return widths
	}
	unit := pdfBodyWidth / float64(columns+1)
	for i := range widths {
		widths[i] = unit
	}
	widths[0] = unit * 2
	return widths
}
