package scanner

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brainstein/loghound/internal/analyze"
	"github.com/brainstein/loghound/internal/config"
	"github.com/brainstein/loghound/internal/event"
	"github.com/brainstein/loghound/internal/taxonomy"
)

func testConfig(base string) *config.Config {
	return &config.Config{
		BasePath:    base,
		Extensions:  []string{".log", ".csv"},
		LogTypes:    []string{"ALL"},
		IPThreshold: 50,
		TopLimit:    10,
	}
}

func newScanner(cfg *config.Config, patterns []string) *Scanner {
	return New(cfg, taxonomy.New(), analyze.NewMatcher(patterns), analyze.LevelError, nil, zerolog.Nop())
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// utf16le encodes ASCII text as UTF-16LE with a BOM, the encoding Windows
// CL logs arrive in.
func utf16le(s string) string {
	out := []byte{0xFF, 0xFE}
	for i := 0; i < len(s); i++ {
		out = append(out, s[i], 0x00)
	}
	return string(out)
}

const clLines = "2026-03-01 04:10:22; SFTP; 10.0.0.5; 22; u; C:\\out; /in/a.csv; upload; 0;\n" +
	"2026-03-01 04:11:00; SFTP; 10.0.0.5; 22; u; C:\\out; /in/a.csv; login; 331;\n" +
	"garbage line that does not parse\n"

func TestRun_CLFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "cl260301.log", clLines)

	agg, err := newScanner(testConfig(dir), nil).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, agg.Files)
	assert.Equal(t, 3, agg.Lines)
	assert.Equal(t, 2, agg.Total()) // the garbage line is dropped, not counted
	assert.Equal(t, 1, agg.ByCategory[event.Success])
	assert.Equal(t, 1, agg.ByCategory[event.Warning])
	assert.Equal(t, 2, agg.ByIP["10.0.0.5"])
	assert.Equal(t, 2, agg.ByFile["/in/a.csv"])
}

func TestRun_UTF16CLFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "cl260302.log", utf16le(clLines))

	agg, err := newScanner(testConfig(dir), nil).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, agg.Total())
	assert.Equal(t, 2, agg.ByIP["10.0.0.5"])
}

func TestRun_LogTypeFilter(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "cl260301.log", clLines)
	writeFile(t, dir, "u_ex260301.log", "2026-03-01 04:20:00 10.0.0.8 PASS 530 login failed\n")

	cfg := testConfig(dir)
	cfg.LogTypes = []string{"EX"}

	agg, err := newScanner(cfg, nil).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, agg.Files)
	assert.Equal(t, 1, agg.ByCategory[event.Error])
	assert.Zero(t, agg.ByCategory[event.Success])
}

func TestRun_ExtensionFilter(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "cl260301.bak", clLines)

	agg, err := newScanner(testConfig(dir), nil).Run(context.Background())
	require.NoError(t, err)
	assert.Zero(t, agg.Files)
}

func TestRun_SearchDoesNotAffectCounts(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "cl260301.log", clLines)

	agg, err := newScanner(testConfig(dir), []string{"login"}).Run(context.Background())
	require.NoError(t, err)

	// Everything still counts; only the hit grouping reflects the search.
	assert.Equal(t, 2, agg.Total())
	assert.Equal(t, 1, agg.HitCount())
	require.Len(t, agg.Hits[event.Warning], 1)
	assert.Equal(t, "login", agg.Hits[event.Warning][0].Pattern)
}

func TestRun_TimeRange(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "cl260301.log", clLines+
		"no date here; SFTP; 10.0.0.9; 22; u; C:\\out; /in/b.csv; upload; 0;\n")

	s := newScanner(testConfig(dir), nil)
	s.SetTimeRange(
		time.Date(2026, 3, 1, 4, 11, 0, 0, time.UTC),
		time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
	)

	agg, err := s.Run(context.Background())
	require.NoError(t, err)

	// 04:10:22 is before the window; the undated line always counts.
	assert.Equal(t, 2, agg.Total())
	assert.Equal(t, 1, agg.ByCategory[event.Warning])
	assert.Equal(t, 1, agg.ByCategory[event.Success])
}

func TestRun_MissingBasePath(t *testing.T) {
	cfg := testConfig(filepath.Join(t.TempDir(), "nope"))
	_, err := newScanner(cfg, nil).Run(context.Background())
	assert.Error(t, err)
}

func TestRun_SubdirectoriesAreWalked(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "vmswtwna1000004")
	require.NoError(t, os.MkdirAll(sub, 0o700))
	writeFile(t, sub, "cl260301.log", clLines)

	agg, err := newScanner(testConfig(dir), nil).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, agg.Files)
	assert.Equal(t, 2, agg.Total())
}
