package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
)

// Dataset is a column-ordered table. Rows are keyed by header name so
// callers can fill columns in any order; missing cells render empty.
type Dataset struct {
	Headers []string
	Rows    []map[string]string
}

// CSVExporter serializes a Dataset as RFC 4180 CSV.
type CSVExporter struct{}

// NewCSVExporter builds a CSV exporter.
func NewCSVExporter() *CSVExporter {
	return &CSVExporter{}
}

// Render writes the header row followed by every data row.
func (e *CSVExporter) Render(data Dataset) ([]byte, error) {
	if len(data.Headers) == 0 {
		return nil, fmt.Errorf("csv export: no columns defined")
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(data.Headers); err != nil {
		return nil, fmt.Errorf("csv export: header row: %w", err)
	}
	record := make([]string, len(data.Headers))
	for i, row := range data.Rows {
		for j, col := range data.Headers {
			record[j] = row[col]
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("csv export: row %d: %w", i+1, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("csv export: flush: %w", err)
	}
	return buf.Bytes(), nil
}
