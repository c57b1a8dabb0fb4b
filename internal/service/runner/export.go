package runner

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/oshokin/absentee-alarm/internal/evaluation"
)

// Exported file names inside the output directory.
const (
	gridFilename       = "grid.csv"
	bestModelsFilename = "best_models.csv"
	alarmsFilename     = "alarms.csv"
)

// exportResults writes the metric grid, best models, and alarm timelines
// as CSV files. Missing scores render as empty fields, never as zero.
func exportResults(dir string, result *evaluation.Result) error {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	if err := writeCSV(filepath.Join(dir, gridFilename), gridRows(result)); err != nil {
		return err
	}

	if err := writeCSV(filepath.Join(dir, bestModelsFilename), bestModelRows(result)); err != nil {
		return err
	}

	return writeCSV(filepath.Join(dir, alarmsFilename), alarmRows(result))
}

// writeCSV writes all rows to path, creating the file fresh.
func writeCSV(path string, rows [][]string) error {
	f, err := os.Create(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close() //nolint:errcheck // Flush errors are surfaced below.

	writer := csv.NewWriter(f)

	if err := writer.WriteAll(rows); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	return nil
}

// gridRows renders one row per cell with the six metric scores.
func gridRows(result *evaluation.Result) [][]string {
	rows := [][]string{{"lag", "threshold", "fitted", "far", "add", "aatq", "fatq", "waatq", "wfatq"}}

	for i := range result.Grid {
		cell := &result.Grid[i]

		row := []string{
			strconv.Itoa(cell.Key.Lag),
			formatFloat(cell.Key.Threshold),
			strconv.FormatBool(cell.Fitted),
		}

		for _, metric := range evaluation.Metrics() {
			row = append(row, formatValue(cell.Score(metric)))
		}

		rows = append(rows, row)
	}

	return rows
}

// bestModelRows renders one row per metric with the winning cell.
func bestModelRows(result *evaluation.Result) [][]string {
	rows := [][]string{{"metric", "lag", "threshold"}}

	for _, metric := range evaluation.Metrics() {
		key, ok := result.BestModels[metric]
		if !ok {
			continue
		}

		rows = append(rows, []string{
			string(metric),
			strconv.Itoa(key.Lag),
			formatFloat(key.Threshold),
		})
	}

	return rows
}

// alarmRows renders one row per raised alarm across all cells.
func alarmRows(result *evaluation.Result) [][]string {
	rows := [][]string{{"year", "lag", "threshold", "day"}}

	for i := range result.Grid {
		cell := &result.Grid[i]

		years := make([]int, 0, len(cell.AlarmDays))
		for year := range cell.AlarmDays {
			years = append(years, year)
		}

		sort.Ints(years)

		for _, year := range years {
			for _, day := range cell.AlarmDays[year] {
				rows = append(rows, []string{
					strconv.Itoa(year),
					strconv.Itoa(cell.Key.Lag),
					formatFloat(cell.Key.Threshold),
					strconv.Itoa(day),
				})
			}
		}
	}

	return rows
}

// formatValue renders a possibly missing score, keeping missing empty.
func formatValue(v evaluation.Value) string {
	if !v.Valid {
		return ""
	}

	return formatFloat(v.Float64)
}

// formatFloat renders a float compactly.
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
