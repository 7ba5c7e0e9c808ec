package fs

import (
	"context"
	"fmt"
	"os"
	"time"
)

const (
	waitBaseDelay = 50 * time.Millisecond
	waitMaxDelay  = 500 * time.Millisecond
)

// WaitForFile polls until path exists and is non-empty, backing off from 50ms
// up to 500ms between checks. It returns the final file info.
func WaitForFile(ctx context.Context, path string, maxWait time.Duration) (os.FileInfo, error) {
	start := time.Now()
	delay := waitBaseDelay

	for {
		info, err := os.Stat(path)
		if err == nil && info.Size() > 0 {
			return info, nil
		}

		if time.Since(start) >= maxWait {
			if err != nil {
				return nil, fmt.Errorf("timeout waiting for file %s after %v: %w", path, maxWait, err)
			}
			return nil, fmt.Errorf("timeout waiting for file %s after %v: file is empty", path, maxWait)
		}

		t := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			t.Stop()
			return nil, ctx.Err()
		case <-t.C:
		}

		delay *= 2
		if delay > waitMaxDelay {
			delay = waitMaxDelay
		}
	}
}
