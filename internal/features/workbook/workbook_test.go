package workbook

import (
	"context"
	"path/filepath"
	"strconv"
	"testing"

	"synthetic-charts/internal/dataset"
	"synthetic-charts/internal/features/charts"
	"synthetic-charts/internal/stats"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestWrite_TablesCorrelationAndCharts(t *testing.T) {
	dir := t.TempDir()
	gen := dataset.NewGenerator(dataset.DefaultSeed)

	revenue, err := gen.RevenueTable()
	require.NoError(t, err)
	engagement, err := gen.EngagementTable(50)
	require.NoError(t, err)
	matrix := stats.Correlate(engagement)

	chart, err := charts.LineChart(revenue, dataset.ColumnRevenue, charts.Style{Marker: "o"})
	require.NoError(t, err)
	chartPath := filepath.Join(dir, "chart.png")
	_, err = charts.Export(context.Background(), chart, chartPath, charts.FigSize{Width: 4, Height: 4}, 64)
	require.NoError(t, err)

	path := filepath.Join(dir, "out", "report.xlsx")
	require.NoError(t, Write(path, Book{
		Sheets: []Sheet{
			{Name: "revenue", IndexLabel: dataset.ColumnMonth, Table: revenue},
			{Name: "engagement", Table: engagement},
		},
		Correlation: matrix,
		Charts:      []string{chartPath},
	}))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"revenue", "engagement", CorrelationSheet, ChartsSheet}, f.GetSheetList())

	rows, err := f.GetRows("revenue")
	require.NoError(t, err)
	require.Len(t, rows, dataset.RevenueMonths+1)
	assert.Equal(t, []string{dataset.ColumnMonth, dataset.ColumnRevenue}, rows[0])
	assert.Equal(t, "Jan", rows[1][0])

	want, err := revenue.Column(dataset.ColumnRevenue)
	require.NoError(t, err)
	got, err := strconv.ParseFloat(rows[1][1], 64)
	require.NoError(t, err)
	assert.InDelta(t, want[0], got, 1e-6)

	rows, err = f.GetRows("engagement")
	require.NoError(t, err)
	require.Len(t, rows, 51)
	assert.Equal(t, "Row", rows[0][0])
	assert.Len(t, rows[0], 7)
	assert.Equal(t, "50", rows[50][0])

	diag, err := f.GetCellValue(CorrelationSheet, "B2")
	require.NoError(t, err)
	assert.Equal(t, "1", diag)
	label, err := f.GetCellValue(CorrelationSheet, "A7")
	require.NoError(t, err)
	assert.Equal(t, dataset.ColumnPagesPerSession, label)

	pics, err := f.GetPictures(ChartsSheet, "A1")
	require.NoError(t, err)
	assert.Len(t, pics, 1)
}

func TestWrite_Empty(t *testing.T) {
	err := Write(filepath.Join(t.TempDir(), "x.xlsx"), Book{})
	require.ErrorIs(t, err, ErrEmptyBook)
}

func TestWrite_MissingChart(t *testing.T) {
	err := Write(filepath.Join(t.TempDir(), "x.xlsx"), Book{Charts: []string{"/does/not/exist.png"}})
	require.Error(t, err)
}
