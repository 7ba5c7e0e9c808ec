package commands

// Exports generated tables, the correlation matrix and rendered charts

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"synthetic-charts/internal/dataset"
	"synthetic-charts/internal/features/charts"
	"synthetic-charts/internal/features/reports"
	"synthetic-charts/internal/features/workbook"
	"synthetic-charts/internal/infra/log"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Render every chart and write an .xlsx workbook with the data behind it",
	Long: `Render every chart variant, save JSON snapshots of the generated tables to the
data dir, and write a workbook with one sheet per table, the correlation
matrix, and the rendered charts.`,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().String("workbook", "report.xlsx", "workbook output path")
}

func runExport(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	start := time.Now()

	results, err := reports.RunAll(ctx, nil, reports.Options{
		OutputDir: cfg.App.OutputDir,
		Seed:      cfg.App.Seed,
		DataDir:   cfg.App.DataDir,
		RunID:     runID,
	})
	if err != nil {
		return err
	}

	book := workbook.Book{}
	for _, kind := range []struct {
		variant    string
		sheet      string
		indexLabel string
	}{
		{reports.VariantRevenue, "Revenue", dataset.ColumnMonth},
		{reports.VariantEngagement, "Engagement", ""},
	} {
		v, err := reports.Lookup(kind.variant)
		if err != nil {
			return err
		}
		data, err := reports.Build(v, cfg.App.Seed)
		if err != nil {
			return err
		}
		book.Sheets = append(book.Sheets, workbook.Sheet{
			Name:       kind.sheet,
			IndexLabel: kind.indexLabel,
			Table:      data.Table,
		})
		if v.Kind == charts.KindHeatmap {
			book.Correlation = data.Matrix
		}
	}
	for _, res := range results {
		book.Charts = append(book.Charts, res.Path)
	}

	if err := workbook.Write(cfg.Workbook.Path, book); err != nil {
		log.LogError("Workbook export failed", zap.Error(err), log.RunID(runID))
		return fmt.Errorf("failed to write workbook: %w", err)
	}

	log.LogSuccess(fmt.Sprintf("Workbook written to %s", cfg.Workbook.Path),
		zap.String("path", cfg.Workbook.Path),
		zap.Int("charts", len(book.Charts)),
		zap.Int64("duration_ms", time.Since(start).Milliseconds()),
		log.RunID(runID))
	return nil
}
