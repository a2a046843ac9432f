package usecase

import (
	"sort"

	"HealthPulse/internal/domain/models"
)

// MergeSeries aligns primary and compare series for rendering. With
// comparison disabled it emits one row per primary observation. Enabled, it
// emits one row per year in the union of both series, ascending; a year
// missing from either side is an explicit absence, never zero.
func MergeSeries(primary, compare models.Series, compareEnabled bool) []models.ChartRow {
	if !compareEnabled {
		rows := make([]models.ChartRow, 0, len(primary))
		for _, o := range primary {
			v := o.Value
			rows = append(rows, models.ChartRow{Year: o.Year, Primary: &v})
		}
		return rows
	}

	years := make(map[int]struct{}, len(primary)+len(compare))
	for _, o := range primary {
		years[o.Year] = struct{}{}
	}
	for _, o := range compare {
		years[o.Year] = struct{}{}
	}

	sorted := make([]int, 0, len(years))
	for y := range years {
		sorted = append(sorted, y)
	}
	sort.Ints(sorted)

	rows := make([]models.ChartRow, 0, len(sorted))
	for _, y := range sorted {
		row := models.ChartRow{Year: y}
		if v, ok := primary.ValueAt(y); ok {
			val := v
			row.Primary = &val
		}
		if v, ok := compare.ValueAt(y); ok {
			val := v
			row.Compare = &val
		}
		rows = append(rows, row)
	}
	return rows
}
