package analyze

import (
	"strings"

	"github.com/brainstein/loghound/internal/event"
)

// Matcher checks events against user-supplied search patterns. Matching is
// case-insensitive substring search over the raw line and the structured
// IP/filename fields. An empty pattern set matches nothing.
type Matcher struct {
	patterns []string // original casing, for display
	lowered  []string
}

// NewMatcher builds a matcher from the configured patterns, dropping empty
// strings.
func NewMatcher(patterns []string) *Matcher {
	m := &Matcher{}
	for _, p := range patterns {
		if p == "" {
			continue
		}
		m.patterns = append(m.patterns, p)
		m.lowered = append(m.lowered, strings.ToLower(p))
	}
	return m
}

// Patterns returns the configured patterns in their original casing.
func (m *Matcher) Patterns() []string { return m.patterns }

// Active reports whether any pattern is configured.
func (m *Matcher) Active() bool { return len(m.lowered) > 0 }

// Match returns the first pattern the event matches, or "" when none do.
func (m *Matcher) Match(ev event.Event) string {
	if len(m.lowered) == 0 {
		return ""
	}
	haystacks := []string{strings.ToLower(ev.Raw)}
	if ev.SourceIP != "" {
		haystacks = append(haystacks, strings.ToLower(ev.SourceIP))
	}
	if ev.Filename != "" {
		haystacks = append(haystacks, strings.ToLower(ev.Filename))
	}
	for i, p := range m.lowered {
		for _, h := range haystacks {
			if strings.Contains(h, p) {
				return m.patterns[i]
			}
		}
	}
	return ""
}
