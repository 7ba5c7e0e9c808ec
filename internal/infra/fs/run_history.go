package fs

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// RunHistoryFile is the name of the render history file inside the data dir.
const RunHistoryFile = "runs.json"

// RunRecord is one rendered chart.
type RunRecord struct {
	Timestamp  string `json:"timestamp"` // RFC3339
	RunID      string `json:"run_id"`
	Variant    string `json:"variant"`
	Path       string `json:"path"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	Seed       uint64 `json:"seed"`
	DurationMs int64  `json:"duration_ms"`
}

// RunHistory is the file structure of runs.json.
type RunHistory struct {
	Entries []RunRecord `json:"entries"`
}

// LoadRunHistory returns an empty history when the file does not exist yet.
func LoadRunHistory(dir string) (*RunHistory, error) {
	filePath := filepath.Join(dir, RunHistoryFile)

	data, err := os.ReadFile(filePath)
	if os.IsNotExist(err) {
		return &RunHistory{Entries: []RunRecord{}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read run history: %w", err)
	}
	if len(data) == 0 {
		return &RunHistory{Entries: []RunRecord{}}, nil
	}

	var history RunHistory
	if err := json.Unmarshal(data, &history); err != nil {
		return nil, fmt.Errorf("failed to parse run history JSON: %w", err)
	}
	if history.Entries == nil {
		history.Entries = []RunRecord{}
	}
	return &history, nil
}

// AppendRunRecord adds rec to runs.json, keeping at most maxEntries records
// (0 keeps everything).
func AppendRunRecord(dir string, rec RunRecord, maxEntries int) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	history, err := LoadRunHistory(dir)
	if err != nil {
		// a corrupt history is replaced rather than blocking the render
		history = &RunHistory{Entries: []RunRecord{}}
	}

	if rec.Timestamp == "" {
		rec.Timestamp = time.Now().Format(time.RFC3339)
	}
	history.Entries = append(history.Entries, rec)
	if maxEntries > 0 && len(history.Entries) > maxEntries {
		history.Entries = history.Entries[len(history.Entries)-maxEntries:]
	}

	data, err := json.MarshalIndent(history, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal run history JSON: %w", err)
	}

	if err := writeFileAtomic(filepath.Join(dir, RunHistoryFile), data); err != nil {
		return fmt.Errorf("failed to write run history: %w", err)
	}
	return nil
}
