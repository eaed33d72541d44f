// Package report renders tabular exports of a profile's entries.
package report

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"equitrack-backend/internal/core/ports"
)

const dateLayout = "2006-01-02"

// CSVRenderer implements ports.SpreadsheetRenderer as RFC 4180 CSV,
// which spreadsheet applications open natively.
type CSVRenderer struct{}

// NewCSVRenderer creates a new CSVRenderer.
func NewCSVRenderer() *CSVRenderer {
	return &CSVRenderer{}
}

// Render writes the report as CSV: a title row, a header row, then one
// row per entry.
func (r *CSVRenderer) Render(title string, rows []ports.ReportRow) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	records := [][]string{
		{title},
		{"Name", "Amount", "Date", "Category"},
	}
	for _, row := range rows {
		records = append(records, []string{
			row.Name,
			row.Amount.StringFixed(2),
			row.Date.Format(dateLayout),
			row.Category,
		})
	}

	if err := w.WriteAll(records); err != nil {
		return nil, fmt.Errorf("write csv: %w", err)
	}
	return buf.Bytes(), nil
}
