package fs

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"synthetic-charts/internal/dataset"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableSnapshot_SaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	table, err := dataset.NewGenerator(dataset.DefaultSeed).RevenueTable()
	require.NoError(t, err)

	path, err := SaveTableSnapshot(dir, NewTableSnapshot("revenue", dataset.DefaultSeed, table))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "revenue.json"), path)
	assert.NoFileExists(t, path+".tmp")

	snap, err := LoadTableSnapshot(dir, "revenue")
	require.NoError(t, err)
	assert.Equal(t, uint64(dataset.DefaultSeed), snap.Seed)
	assert.NotEmpty(t, snap.GeneratedAt)

	restored, err := snap.Table()
	require.NoError(t, err)
	assert.Equal(t, table.Index(), restored.Index())
	want, _ := table.Column(dataset.ColumnRevenue)
	got, _ := restored.Column(dataset.ColumnRevenue)
	assert.Equal(t, want, got)
}

func TestTableSnapshot_CorruptLengthsRejected(t *testing.T) {
	snap := TableSnapshot{
		Name:  "broken",
		Index: []string{"Jan", "Feb"},
		Columns: []SnapshotColumn{
			{Name: "Revenue", Values: []float64{1, 2, 3}},
		},
	}
	_, err := snap.Table()
	require.ErrorIs(t, err, dataset.ErrLengthMismatch)
}

func TestLoadTableSnapshot_Missing(t *testing.T) {
	_, err := LoadTableSnapshot(t.TempDir(), "nope")
	require.Error(t, err)
}

func TestRunHistory_AppendAndTrim(t *testing.T) {
	dir := t.TempDir()

	history, err := LoadRunHistory(dir)
	require.NoError(t, err)
	assert.Empty(t, history.Entries)

	for i, variant := range []string{"revenue", "revenue-hires", "engagement"} {
		require.NoError(t, AppendRunRecord(dir, RunRecord{Variant: variant, Width: 512, Height: 512, DurationMs: int64(i)}, 2))
	}

	history, err = LoadRunHistory(dir)
	require.NoError(t, err)
	require.Len(t, history.Entries, 2)
	assert.Equal(t, "revenue-hires", history.Entries[0].Variant)
	assert.Equal(t, "engagement", history.Entries[1].Variant)
	assert.NotEmpty(t, history.Entries[1].Timestamp)
}

func TestRunHistory_CorruptFileReplaced(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, RunHistoryFile), []byte("{not json"), 0644))

	_, err := LoadRunHistory(dir)
	require.Error(t, err)

	require.NoError(t, AppendRunRecord(dir, RunRecord{Variant: "revenue"}, 0))
	history, err := LoadRunHistory(dir)
	require.NoError(t, err)
	require.Len(t, history.Entries, 1)
}

func TestWaitForFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "late.png")
	go func() {
		time.Sleep(80 * time.Millisecond)
		_ = os.WriteFile(path, []byte("png"), 0644)
	}()

	info, err := WaitForFile(context.Background(), path, 2*time.Second)
	require.NoError(t, err)
	assert.Equal(t, int64(3), info.Size())
}

func TestWaitForFile_TimeoutAndCancel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "never.png")

	_, err := WaitForFile(context.Background(), path, 100*time.Millisecond)
	require.ErrorContains(t, err, "timeout")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = WaitForFile(ctx, path, time.Second)
	require.ErrorIs(t, err, context.Canceled)
}
