package reports

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"synthetic-charts/internal/dataset"
	"synthetic-charts/internal/features/charts"
	"synthetic-charts/internal/infra/fs"
	"synthetic-charts/internal/infra/log"
	"synthetic-charts/internal/stats"

	"go.uber.org/zap"
)

// maxRunHistory caps runs.json.
const maxRunHistory = 500

// Data is the generated input of one variant.
type Data struct {
	Variant Variant
	Seed    uint64
	Table   *dataset.Table
	Matrix  *stats.Matrix // heatmaps only
}

// Build generates the table for v and, for heatmaps, its correlation matrix.
func Build(v Variant, seed uint64) (*Data, error) {
	gen := dataset.NewGenerator(seed)
	data := &Data{Variant: v, Seed: gen.Seed()}

	switch v.Kind {
	case charts.KindLine:
		table, err := gen.RevenueTable()
		if err != nil {
			return nil, fmt.Errorf("failed to build revenue table: %w", err)
		}
		data.Table = table
	case charts.KindHeatmap:
		table, err := gen.EngagementTable(dataset.EngagementRows)
		if err != nil {
			return nil, fmt.Errorf("failed to build engagement table: %w", err)
		}
		data.Table = table
		data.Matrix = stats.Correlate(table)
	default:
		return nil, fmt.Errorf("variant %s: unsupported chart kind %q", v.Name, v.Kind)
	}
	return data, nil
}

// Render turns the data into a chart. The caller owns the chart until Export.
func (d *Data) Render() (*charts.Chart, error) {
	switch d.Variant.Kind {
	case charts.KindLine:
		return charts.LineChart(d.Table, d.Variant.Column, d.Variant.Style)
	case charts.KindHeatmap:
		return charts.Heatmap(d.Matrix, d.Variant.Style)
	default:
		return nil, fmt.Errorf("variant %s: unsupported chart kind %q", d.Variant.Name, d.Variant.Kind)
	}
}

type Options struct {
	OutputDir string
	Seed      uint64
	DataDir   string // table snapshots and runs.json; skipped when empty
	RunID     string
}

type Result struct {
	Variant  string
	Path     string
	Width    int
	Height   int
	Bytes    int64
	Duration time.Duration
	Snapshot string // path of the table snapshot, if written
}

// Run executes generate -> assemble -> (correlate) -> render -> export for v.
func Run(ctx context.Context, v Variant, opts Options) (*Result, error) {
	start := time.Now()

	data, err := Build(v, opts.Seed)
	if err != nil {
		return nil, err
	}
	log.LogDebug("Data generated",
		zap.String("variant", v.Name),
		zap.Uint64("seed", data.Seed),
		zap.Int("rows", data.Table.Rows()),
		log.RunID(opts.RunID))

	chart, err := data.Render()
	if err != nil {
		return nil, fmt.Errorf("failed to render %s: %w", v.Name, err)
	}

	path := filepath.Join(opts.OutputDir, v.Output)
	out, err := charts.Export(ctx, chart, path, v.Size, v.DPI)
	if err != nil {
		return nil, fmt.Errorf("failed to export %s: %w", v.Name, err)
	}

	result := &Result{
		Variant:  v.Name,
		Path:     out.Path,
		Width:    out.Width,
		Height:   out.Height,
		Bytes:    out.Bytes,
		Duration: time.Since(start),
	}

	if opts.DataDir != "" {
		snapshot, err := fs.SaveTableSnapshot(opts.DataDir, fs.NewTableSnapshot(v.Name, opts.Seed, data.Table))
		if err != nil {
			return nil, err
		}
		result.Snapshot = snapshot

		if err := fs.AppendRunRecord(opts.DataDir, fs.RunRecord{
			RunID:      opts.RunID,
			Variant:    v.Name,
			Path:       result.Path,
			Width:      result.Width,
			Height:     result.Height,
			Seed:       opts.Seed,
			DurationMs: result.Duration.Milliseconds(),
		}, maxRunHistory); err != nil {
			log.LogWarn("Failed to update run history", zap.Error(err), log.RunID(opts.RunID))
		}
	}

	return result, nil
}

// RunAll renders the named variants one after another (all when names is
// empty). It stops at the first failure and returns what was rendered so far.
func RunAll(ctx context.Context, names []string, opts Options) ([]Result, error) {
	selected, err := Select(names)
	if err != nil {
		return nil, err
	}

	results := make([]Result, 0, len(selected))
	for _, v := range selected {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		res, err := Run(ctx, v, opts)
		if err != nil {
			log.LogError("Chart render failed",
				zap.String("variant", v.Name),
				zap.Error(err),
				log.RunID(opts.RunID))
			return results, err
		}

		log.LogSuccess(fmt.Sprintf("Rendered %s -> %s (%dx%d)", res.Variant, res.Path, res.Width, res.Height),
			zap.String("variant", res.Variant),
			zap.String("path", res.Path),
			zap.Int64("duration_ms", res.Duration.Milliseconds()),
			log.RunID(opts.RunID))
		results = append(results, *res)
	}
	return results, nil
}
