package analyze

import (
	"fmt"
	"strings"

	"github.com/brainstein/loghound/internal/event"
)

// Level is the console verbosity threshold. It controls only what is
// echoed while scanning; the final report always covers the full aggregate.
type Level int

const (
	LevelError Level = iota
	LevelWarning
	LevelAll
)

func (l Level) String() string {
	switch l {
	case LevelError:
		return "ERROR"
	case LevelWarning:
		return "WARNING"
	default:
		return "ALL"
	}
}

// ParseLevel parses a verbosity name, case-insensitively.
func ParseLevel(s string) (Level, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "ERROR":
		return LevelError, nil
	case "WARNING":
		return LevelWarning, nil
	case "ALL":
		return LevelAll, nil
	default:
		return LevelError, fmt.Errorf("unknown verbosity %q (want ERROR, WARNING, or ALL)", s)
	}
}

// Visible reports whether an event of the given category is echoed to the
// console at the given level. Errors always show; warnings need WARNING or
// ALL; everything else needs ALL.
func Visible(cat event.Category, lvl Level) bool {
	switch cat {
	case event.Error:
		return true
	case event.Warning:
		return lvl >= LevelWarning
	default:
		return lvl >= LevelAll
	}
}
