// Package export renders register datasets into downloadable documents.
// The admin dashboard offers the civil registers as CSV for spreadsheet
// work and PDF for the office record file.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
)

// Dataset is a tabular slice of a register. Rows are keyed by header so
// the register builders can fill columns independently of order.
type Dataset struct {
	Headers []string
	Rows    []map[string]string
}

// CSVExporter renders a register dataset as CSV bytes.
type CSVExporter struct{}

// NewCSVExporter builds a CSV exporter.
func NewCSVExporter() *CSVExporter {
	return &CSVExporter{}
}

// Render produces the CSV document, header row first. Missing cells
// render as empty fields so every row carries the full column count.
func (e *CSVExporter) Render(data Dataset) ([]byte, error) {
	if len(data.Headers) == 0 {
		return nil, fmt.Errorf("register export requires at least one column")
	}

	buf := &bytes.Buffer{}
	writer := csv.NewWriter(buf)

	if err := writer.Write(data.Headers); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}

	record := make([]string, len(data.Headers))
	for _, row := range data.Rows {
		for i, header := range data.Headers {
			record[i] = row[header]
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}
