package fs

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"synthetic-charts/internal/dataset"
)

// TableSnapshot is the JSON form of a generated table.
type TableSnapshot struct {
	Name        string           `json:"name"`
	Seed        uint64           `json:"seed"`
	GeneratedAt string           `json:"generated_at"` // RFC3339
	Index       []string         `json:"index,omitempty"`
	Columns     []SnapshotColumn `json:"columns"`
}

type SnapshotColumn struct {
	Name   string    `json:"name"`
	Values []float64 `json:"values"`
}

// NewTableSnapshot captures t in column order.
func NewTableSnapshot(name string, seed uint64, t *dataset.Table) TableSnapshot {
	snap := TableSnapshot{
		Name:        name,
		Seed:        seed,
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		Index:       t.Index(),
	}
	for _, col := range t.Names() {
		values, _ := t.Column(col)
		snap.Columns = append(snap.Columns, SnapshotColumn{Name: col, Values: values})
	}
	return snap
}

// Table rebuilds the table, applying the same length checks as generation.
func (s TableSnapshot) Table() (*dataset.Table, error) {
	cols := make([]dataset.Column, 0, len(s.Columns))
	for _, c := range s.Columns {
		cols = append(cols, dataset.Column{Name: c.Name, Values: c.Values})
	}
	return dataset.NewTable(s.Index, cols...)
}

// SnapshotPath returns <dir>/<name>.json.
func SnapshotPath(dir, name string) string {
	return filepath.Join(dir, name+".json")
}

// SaveTableSnapshot writes the snapshot atomically (temp file + rename).
func SaveTableSnapshot(dir string, snap TableSnapshot) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create data directory: %w", err)
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal table snapshot: %w", err)
	}

	path := SnapshotPath(dir, snap.Name)
	if err := writeFileAtomic(path, data); err != nil {
		return "", fmt.Errorf("failed to save table snapshot: %w", err)
	}
	return path, nil
}

// LoadTableSnapshot reads <dir>/<name>.json.
func LoadTableSnapshot(dir, name string) (*TableSnapshot, error) {
	data, err := os.ReadFile(SnapshotPath(dir, name))
	if err != nil {
		return nil, fmt.Errorf("failed to read table snapshot: %w", err)
	}

	var snap TableSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal table snapshot: %w", err)
	}
	return &snap, nil
}

func writeFileAtomic(path string, data []byte) error {
	tempFilePath := path + ".tmp"
	if err := os.WriteFile(tempFilePath, data, 0644); err != nil {
		return err
	}
	if err := os.Rename(tempFilePath, path); err != nil {
		_ = os.Remove(tempFilePath)
		return err
	}
	return nil
}
