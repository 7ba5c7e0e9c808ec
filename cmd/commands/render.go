package commands

// Renders chart variants to PNG files

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"synthetic-charts/internal/features/reports"

	"github.com/spf13/cobra"
)

var renderSnapshots bool

var renderCmd = &cobra.Command{
	Use:   "render [variant...]",
	Short: "Render charts (revenue, revenue-hires, engagement)",
	Long: `Render the named chart variants, or every variant when none is given.
Existing output files are overwritten.`,
	ValidArgs: reports.Names(),
	RunE:      runRender,
}

func init() {
	renderCmd.Flags().String("variants", "", "comma separated variants, used when no arguments are given")
	renderCmd.Flags().BoolVar(&renderSnapshots, "snapshots", false, "also save table snapshots and run history to the data dir")
}

func runRender(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	opts := reports.Options{
		OutputDir: cfg.App.OutputDir,
		Seed:      cfg.App.Seed,
		RunID:     runID,
	}
	if renderSnapshots {
		opts.DataDir = cfg.App.DataDir
	}

	_, err := reports.RunAll(ctx, selectedVariants(args), opts)
	return err
}

// selectedVariants prefers positional arguments over configured variants.
func selectedVariants(args []string) []string {
	if len(args) > 0 {
		return args
	}
	return cfg.Render.Variants
}
