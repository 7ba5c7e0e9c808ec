package reports

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"synthetic-charts/internal/dataset"
	"synthetic-charts/internal/features/charts"
	"synthetic-charts/internal/infra/fs"

	"github.com/fogleman/gg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVariants_AllAre512Square(t *testing.T) {
	require.Len(t, Variants(), 3)
	outputs := map[string]bool{}
	for _, v := range Variants() {
		w, h := v.Pixels()
		assert.Equal(t, 512, w, v.Name)
		assert.Equal(t, 512, h, v.Name)
		assert.False(t, outputs[v.Output], "output %s reused", v.Output)
		outputs[v.Output] = true
	}
}

func TestLookupAndSelect(t *testing.T) {
	v, err := Lookup(VariantEngagement)
	require.NoError(t, err)
	assert.Equal(t, charts.KindHeatmap, v.Kind)

	_, err = Lookup("pie")
	require.ErrorIs(t, err, ErrUnknownVariant)

	all, err := Select(nil)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	some, err := Select([]string{VariantEngagement, VariantRevenue, VariantEngagement})
	require.NoError(t, err)
	require.Len(t, some, 2)
	assert.Equal(t, VariantEngagement, some[0].Name)

	_, err = Select([]string{VariantRevenue, "pie"})
	require.ErrorIs(t, err, ErrUnknownVariant)
}

func TestBuild(t *testing.T) {
	line, err := Lookup(VariantRevenue)
	require.NoError(t, err)
	data, err := Build(line, dataset.DefaultSeed)
	require.NoError(t, err)
	assert.Equal(t, dataset.RevenueMonths, data.Table.Rows())
	assert.Nil(t, data.Matrix)

	heat, err := Lookup(VariantEngagement)
	require.NoError(t, err)
	data, err = Build(heat, dataset.DefaultSeed)
	require.NoError(t, err)
	assert.Equal(t, dataset.EngagementRows, data.Table.Rows())
	require.NotNil(t, data.Matrix)
	assert.Equal(t, 6, data.Matrix.Size())

	_, err = Build(Variant{Name: "odd", Kind: "pie"}, 1)
	require.Error(t, err)
}

func TestRunAll_WritesEveryChartAndOverwrites(t *testing.T) {
	outDir := t.TempDir()
	dataDir := filepath.Join(t.TempDir(), "data")
	opts := Options{OutputDir: outDir, Seed: dataset.DefaultSeed, DataDir: dataDir, RunID: "test"}

	for round := 0; round < 2; round++ {
		results, err := RunAll(context.Background(), nil, opts)
		require.NoError(t, err)
		require.Len(t, results, 3)

		for _, res := range results {
			img, err := gg.LoadPNG(res.Path)
			require.NoError(t, err)
			assert.Equal(t, 512, img.Bounds().Dx(), res.Variant)
			assert.Equal(t, 512, img.Bounds().Dy(), res.Variant)
			assert.FileExists(t, res.Snapshot)
		}
	}

	for _, name := range []string{"chart.png", "chart_hires.png", "heatmap.png"} {
		assert.FileExists(t, filepath.Join(outDir, name))
	}

	history, err := fs.LoadRunHistory(dataDir)
	require.NoError(t, err)
	assert.Len(t, history.Entries, 6)
	assert.Equal(t, "test", history.Entries[0].RunID)
}

func TestRun_NoDataDirSkipsSnapshots(t *testing.T) {
	outDir := t.TempDir()
	v, err := Lookup(VariantRevenueHiRes)
	require.NoError(t, err)

	res, err := Run(context.Background(), v, Options{OutputDir: outDir, Seed: 1})
	require.NoError(t, err)
	assert.Empty(t, res.Snapshot)
	assert.Equal(t, filepath.Join(outDir, "chart_hires.png"), res.Path)

	entries, err := os.ReadDir(outDir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestRunAll_UnknownVariantRendersNothing(t *testing.T) {
	outDir := t.TempDir()
	_, err := RunAll(context.Background(), []string{"pie"}, Options{OutputDir: outDir})
	require.ErrorIs(t, err, ErrUnknownVariant)

	entries, err := os.ReadDir(outDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRunAll_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	results, err := RunAll(ctx, nil, Options{OutputDir: t.TempDir()})
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, results)
}
