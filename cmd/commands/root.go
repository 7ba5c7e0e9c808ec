package commands

// Root command: loads configuration and logging before any subcommand runs

import (
	"fmt"

	"synthetic-charts/internal/infra/config"
	"synthetic-charts/internal/infra/log"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	configDir string

	cfg   *config.Config
	runID string
)

var rootCmd = &cobra.Command{
	Use:   "charts",
	Short: "Synthetic business charts - revenue line charts and an engagement correlation heatmap",
	Long: `charts generates seeded synthetic business metrics (monthly revenue, customer
engagement) and renders them as 512x512 PNG charts. The pixel size of every
chart is its figure size in inches times its DPI.`,
	Version:           "1.0.0",
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		log.Sync()
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configDir, "config-dir", ".", "directory holding config.yaml and .env")
	pf.String("output-dir", ".", "directory for rendered PNGs")
	pf.String("data-dir", "data_out", "directory for table snapshots and run history")
	pf.Uint64("seed", 42, "random seed for data generation")
	pf.String("log-dir", "logs", "directory for the log file")
	pf.String("log-level", "info", "file log level (debug, info, warn, error)")

	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(publishCmd)
}

func setup(cmd *cobra.Command, args []string) error {
	loaded, err := config.LoadConfig(configDir, cmd.Flags())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	cfg = loaded

	if err := log.Init(log.Options{
		Dir:     cfg.App.LogDir,
		File:    "charts.log",
		Level:   cfg.App.LogLevel,
		Console: true,
	}); err != nil {
		return fmt.Errorf("failed to init logging: %w", err)
	}

	runID = log.GenerateRunID()
	log.LogInfo("Command started",
		zap.String("command", cmd.Name()),
		zap.Strings("args", args),
		zap.Uint64("seed", cfg.App.Seed),
		log.RunID(runID))
	return nil
}
