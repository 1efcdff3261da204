package report

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Write persists the report under dir as LogHound_YYYYMMDD_HHMMSS.txt,
// creating the directory when absent, and returns the full path.
func Write(dir, text string, at time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("creating report dir: %w", err)
	}

	name := fmt.Sprintf("LogHound_%s.txt", at.Format("20060102_150405"))
	path := filepath.Join(dir, name)

	if err := os.WriteFile(path, []byte(text), 0o600); err != nil {
		return "", fmt.Errorf("writing report: %w", err)
	}
	return path, nil
}
