package fetch

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brainstein/loghound/internal/config"
)

func TestFileDate(t *testing.T) {
	cases := []struct {
		name string
		want string
		ok   bool
	}{
		{"cl251127.log", "2025-11-27", true},
		{"u_ex251127.log", "2025-11-27", true},
		{"CL260301.log", "2026-03-01", true},
		{"cl2511.log", "", false},   // too short for a date
		{"clABCDEF.log", "", false}, // not digits
		{"transfer.log", "", false},
	}

	for _, tc := range cases {
		got, ok := FileDate(tc.name)
		if ok != tc.ok {
			t.Errorf("FileDate(%q) ok = %v, want %v", tc.name, ok, tc.ok)
			continue
		}
		if ok && got.Format("2006-01-02") != tc.want {
			t.Errorf("FileDate(%q) = %s, want %s", tc.name, got.Format("2006-01-02"), tc.want)
		}
	}
}

func TestMatchesLogName(t *testing.T) {
	assert.True(t, MatchesLogName("cl251127.log"))
	assert.True(t, MatchesLogName("u_ex251127.log"))
	assert.False(t, MatchesLogName("cl251127.txt"))
	assert.False(t, MatchesLogName("notes.log.bak"))
	assert.False(t, MatchesLogName("readme.md"))
}

func TestCleanup_RemovesOnlyExpiredLogs(t *testing.T) {
	base := t.TempDir()
	folder := "vmswtwna1000004"
	dir := filepath.Join(base, folder)
	require.NoError(t, os.MkdirAll(dir, 0o700))

	old := time.Now().AddDate(0, 0, -10)
	fresh := time.Now()

	oldName := fmt.Sprintf("cl%s.log", old.Format("060102"))
	freshName := fmt.Sprintf("cl%s.log", fresh.Format("060102"))
	keepName := "notes.txt" // not a log shape, never touched

	for _, n := range []string{oldName, freshName, keepName} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, n), []byte("x"), 0o600))
	}

	deleted := Cleanup(base, []string{folder}, 2, zerolog.Nop())
	assert.Equal(t, 1, deleted)

	_, err := os.Stat(filepath.Join(dir, oldName))
	assert.True(t, os.IsNotExist(err), "expired log should be gone")
	_, err = os.Stat(filepath.Join(dir, freshName))
	assert.NoError(t, err, "fresh log must survive")
	_, err = os.Stat(filepath.Join(dir, keepName))
	assert.NoError(t, err, "non-log files must survive")
}

func TestCleanup_MissingFolderIsQuiet(t *testing.T) {
	deleted := Cleanup(t.TempDir(), []string{"absent"}, 2, zerolog.Nop())
	assert.Zero(t, deleted)
}

func TestDial_RequiresCredentials(t *testing.T) {
	_, err := Dial(config.SFTPConfig{Host: "eft.example.com", Port: 22}, zerolog.Nop())
	assert.ErrorIs(t, err, ErrNoCredentials)
}
