package taxonomy

import "github.com/brainstein/loghound/internal/event"

// Rule maps a code, or an inclusive code range, to a category and a
// human-readable description. Exact rules (From == To) always take
// precedence over range rules, so 530 can resolve to the auth-specific
// description even though it sits inside the generic 500-series range.
type Rule struct {
	Dialect     event.Dialect  `yaml:"dialect"`
	From        int            `yaml:"code"`
	To          int            `yaml:"to,omitempty"` // zero means same as From
	Category    event.Category `yaml:"category"`
	Description string         `yaml:"description"`
}

// Exact reports whether the rule matches a single code.
func (r Rule) Exact() bool { return r.To == 0 || r.To == r.From }

// Matches reports whether the rule applies to the given code.
func (r Rule) Matches(code int) bool {
	if r.Exact() {
		return code == r.From
	}
	return code >= r.From && code <= r.To
}

// Catalog is the full code taxonomy for one run: per-dialect ordered rule
// lists plus the shared description table. Loaded once at startup and
// read-only afterwards.
type Catalog struct {
	exact  map[event.Dialect][]Rule
	ranged map[event.Dialect][]Rule
	descs  map[int]string
}
