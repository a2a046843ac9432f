package usecase

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"HealthPulse/internal/domain/models"
	"HealthPulse/pkg/util"
)

// CSVExport is a ready-to-download chart export.
type CSVExport struct {
	Filename string
	Data     []byte
}

// BuildCSV serializes merged rows to CSV. Column headers derive from the
// metric label and country name(s); absent values render as empty cells.
// Quoting follows standard CSV rules (encoding/csv doubles internal quotes).
func BuildCSV(rows []models.ChartRow, metric models.Indicator, primaryName, compareName string, compareEnabled bool) (*CSVExport, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{"year", fmt.Sprintf("%s (%s)", metric.Label, primaryName)}
	if compareEnabled {
		header = append(header, fmt.Sprintf("%s (%s)", metric.Label, compareName))
	}
	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}

	for _, row := range rows {
		record := []string{fmt.Sprintf("%d", row.Year), formatCell(row.Primary)}
		if compareEnabled {
			record = append(record, formatCell(row.Compare))
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("write row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}

	return &CSVExport{
		Filename: exportFilename(metric, primaryName, compareName, compareEnabled),
		Data:     buf.Bytes(),
	}, nil
}

func formatCell(v *float64) string {
	if v == nil {
		return ""
	}
	return util.FormatValue(*v)
}

func exportFilename(metric models.Indicator, primaryName, compareName string, compareEnabled bool) string {
	name := metric.Label + "_" + primaryName
	if compareEnabled {
		name += "_vs_" + compareName
	}
	return util.SanitizeFilename(name) + ".csv"
}
