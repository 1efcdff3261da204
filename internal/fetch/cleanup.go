package fetch

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Cleanup deletes local log files older than retentionDays from each folder
// under localBase. Age comes from the date encoded in the filename
// (cl251127.log, u_ex251127.log), not the file mtime: downloads reset
// mtimes. Returns the number of files removed.
func Cleanup(localBase string, folders []string, retentionDays int, log zerolog.Logger) int {
	cutoff := time.Now().AddDate(0, 0, -retentionDays)
	deleted := 0

	for _, folder := range folders {
		dir := filepath.Join(localBase, folder)
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}

		for _, e := range entries {
			if e.IsDir() || !MatchesLogName(e.Name()) {
				continue
			}
			date, ok := FileDate(e.Name())
			if !ok || !date.Before(cutoff) {
				continue
			}
			path := filepath.Join(dir, e.Name())
			if err := os.Remove(path); err != nil {
				log.Warn().Str("file", path).Err(err).Msg("cannot delete old log")
				continue
			}
			deleted++
			log.Info().Str("file", e.Name()).Time("date", date).Msg("deleted old log")
		}
	}
	return deleted
}

// FileDate extracts the YYMMDD date encoded in a log filename.
func FileDate(name string) (time.Time, bool) {
	lower := strings.ToLower(name)

	var datePart string
	switch {
	case strings.HasPrefix(lower, "u_ex") && len(lower) >= 14:
		datePart = lower[4:10]
	case strings.HasPrefix(lower, "cl") && len(lower) >= 10:
		datePart = lower[2:8]
	default:
		return time.Time{}, false
	}

	t, err := time.Parse("060102", datePart)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
