package taxonomy

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/brainstein/loghound/internal/event"
)

func TestLoadOverlay_MissingFileIsNotAnError(t *testing.T) {
	rules, err := LoadOverlay(filepath.Join(t.TempDir(), "codes.yaml"))
	if err != nil {
		t.Fatalf("LoadOverlay on missing file: %v", err)
	}
	if rules != nil {
		t.Errorf("expected nil rules, got %v", rules)
	}
}

func TestLoadOverlay_ValidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "codes.yaml")
	content := `rules:
  - dialect: EX
    code: 599
    category: ERROR
    description: Vendor gateway failure
  - dialect: WINSOCK
    code: 12000
    to: 12999
    category: ERROR
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	rules, err := LoadOverlay(path)
	if err != nil {
		t.Fatalf("LoadOverlay: %v", err)
	}
	if len(rules) != 2 {
		t.Fatalf("got %d rules, want 2", len(rules))
	}
	if rules[0].Dialect != event.DialectEX || rules[0].From != 599 || rules[0].Category != event.Error {
		t.Errorf("rule 0 = %+v", rules[0])
	}
	if rules[1].From != 12000 || rules[1].To != 12999 {
		t.Errorf("rule 1 = %+v", rules[1])
	}
}

func TestLoadOverlay_RejectsBadRules(t *testing.T) {
	cases := []struct {
		name    string
		content string
	}{
		{"unknown dialect", "rules:\n  - dialect: SMTP\n    code: 250\n    category: SUCCESS\n"},
		{"unknown category", "rules:\n  - dialect: EX\n    code: 250\n    category: FINE\n"},
		{"inverted range", "rules:\n  - dialect: EX\n    code: 500\n    to: 400\n    category: ERROR\n"},
		{"not yaml", "{{{"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "codes.yaml")
			if err := os.WriteFile(path, []byte(tc.content), 0o600); err != nil {
				t.Fatal(err)
			}
			if _, err := LoadOverlay(path); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}
