package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/absentee-alarm/internal/config"
	"github.com/oshokin/absentee-alarm/internal/logger"
	"github.com/oshokin/absentee-alarm/internal/service/runner"
	"github.com/oshokin/absentee-alarm/internal/version"
)

var (
	// configPath to the scenario YAML file.
	configPath string
	// seed overrides the scenario seed when non-zero.
	seed uint64
	// outputDir receives CSV result exports when set.
	outputDir string
	// logLevel sets the logging verbosity.
	logLevel string

	// rootCmd represents the base command running one full evaluation.
	rootCmd = &cobra.Command{
		Use:   "absentee-alarm",
		Short: "Evaluate school-absenteeism alarms against simulated epidemics.",
		Long: `Runs the full surveillance evaluation pipeline: simulates a multi-year
stochastic epidemic, compiles the daily school-absenteeism signal over a
synthetic population, and grid-searches alarm models across lags and
thresholds, scoring them with the alert-time-quality metrics
(FAR, ADD, AATQ, FATQ, WAATQ, WFATQ).

The scenario file controls every parameter; a fixed seed reproduces the
whole run bit-for-bit. Results are logged and optionally exported as CSV.`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			if level, ok := logger.ParseLogLevel(logLevel); ok {
				logger.SetLevel(level)
			}

			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			options := &runner.Options{
				ConfigPath: configPath,
				Seed:       seed,
				OutputDir:  outputDir,
			}

			return runner.Run(ctx, options)
		},
	}

	// initCmd writes the reference scenario for editing.
	initCmd = &cobra.Command{
		Use:   "init",
		Short: "Write the reference scenario file.",
		Long:  "Writes the fully populated reference scenario YAML to the configured path so it can be edited.",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return config.Save(configPath, config.Default())
		},
	}
)

// Execute runs the absentee-alarm CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	// Setup command flags with consistent naming and descriptions.
	rootCmd.PersistentFlags().
		StringVarP(&configPath, "config", "c", config.DefaultConfigFilename, "path to scenario file")
	rootCmd.Flags().Uint64Var(&seed, "seed", 0, "override the scenario seed (0 keeps the scenario value)")
	rootCmd.Flags().StringVarP(&outputDir, "output", "o", "", "directory for CSV result export")
	rootCmd.Flags().StringVarP(&logLevel, "log-level", "l", "info", "logging level (debug, info, warn, error)")

	rootCmd.AddCommand(initCmd)
}
