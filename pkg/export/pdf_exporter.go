package export

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// PDFExporter lays a Dataset out as a single-table A4 document.
type PDFExporter struct{}

// NewPDFExporter constructs a PDF exporter.
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

// Render draws the title, a bordered table of the dataset, and a
// generated-at footer line.
func (e *PDFExporter) Render(data Dataset, title string) ([]byte, error) {
	if len(data.Headers) == 0 {
		return nil, fmt.Errorf("pdf export: no columns defined")
	}

	doc := gofpdf.New("P", "mm", "A4", "")
	doc.SetMargins(12, 14, 12)
	doc.AddPage()

	if title != "" {
		doc.SetFont("Helvetica", "B", 15)
		doc.CellFormat(0, 9, title, "", 1, "L", false, 0, "")
		doc.Ln(4)
	}

	width := 186.0 / float64(len(data.Headers))

	doc.SetFont("Helvetica", "B", 10)
	doc.SetFillColor(235, 235, 235)
	for _, col := range data.Headers {
		doc.CellFormat(width, 8, col, "1", 0, "L", true, 0, "")
	}
	doc.Ln(-1)

	doc.SetFont("Helvetica", "", 9)
	for _, row := range data.Rows {
		for _, col := range data.Headers {
			doc.CellFormat(width, 7, row[col], "1", 0, "L", false, 0, "")
		}
		doc.Ln(-1)
	}

	doc.Ln(6)
	doc.SetFont("Helvetica", "I", 8)
	doc.CellFormat(0, 5, fmt.Sprintf("Generated %s", time.Now().Format("2006-01-02 15:04 MST")), "", 1, "R", false, 0, "")

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf export: %w", err)
	}
	return buf.Bytes(), nil
}
