package runner

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/absentee-alarm/internal/config"
	"github.com/oshokin/absentee-alarm/internal/evaluation"
)

// writeScenario saves the default scenario into a temp dir and returns its path.
func writeScenario(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, config.Save(path, config.Default()))

	return path
}

// TestRun executes the full pipeline and checks the exported files.
func TestRun(t *testing.T) {
	t.Parallel()

	outputDir := filepath.Join(t.TempDir(), "results")
	opts := &Options{
		ConfigPath: writeScenario(t),
		OutputDir:  outputDir,
	}

	require.NoError(t, Run(context.Background(), opts))

	grid := readCSV(t, filepath.Join(outputDir, gridFilename))
	// Header plus 6 lags × 3 thresholds.
	require.Len(t, grid, 1+6*3)

	best := readCSV(t, filepath.Join(outputDir, bestModelsFilename))
	require.Len(t, best, 1+len(evaluation.Metrics()))

	alarms := readCSV(t, filepath.Join(outputDir, alarmsFilename))
	require.NotEmpty(t, alarms)
}

// TestRunMissingScenario fails when the scenario file does not exist.
func TestRunMissingScenario(t *testing.T) {
	t.Parallel()

	opts := &Options{ConfigPath: filepath.Join(t.TempDir(), "missing.yaml")}
	require.Error(t, Run(context.Background(), opts))
}

// TestRunSeedOverride applies the CLI seed on top of the scenario.
func TestRunSeedOverride(t *testing.T) {
	t.Parallel()

	opts := &Options{
		ConfigPath: writeScenario(t),
		Seed:       1234,
	}

	require.NoError(t, Run(context.Background(), opts))
}

// readCSV loads a whole CSV file.
func readCSV(t *testing.T, path string) [][]string {
	t.Helper()

	f, err := os.Open(path)
	require.NoError(t, err)

	defer func() {
		require.NoError(t, f.Close())
	}()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)

	return rows
}
