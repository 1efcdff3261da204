package taxonomy

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/brainstein/loghound/internal/event"
)

// overlayFile is the YAML shape of a custom code rules file:
//
//	rules:
//	  - dialect: EX
//	    code: 599
//	    category: ERROR
//	    description: Vendor-specific gateway failure
//	  - dialect: EX
//	    code: 600
//	    to: 699
//	    category: UNKNOWN
type overlayFile struct {
	Rules []Rule `yaml:"rules"`
}

// LoadOverlay reads custom code rules from path. A missing file is not an
// error; the analyzer runs on built-in rules alone.
func LoadOverlay(path string) ([]Rule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading code rules: %w", err)
	}

	var f overlayFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing code rules %s: %w", path, err)
	}

	for i, r := range f.Rules {
		if err := validateRule(r); err != nil {
			return nil, fmt.Errorf("code rules %s: rule %d: %w", path, i+1, err)
		}
	}
	return f.Rules, nil
}

func validateRule(r Rule) error {
	switch r.Dialect {
	case event.DialectCL, event.DialectEX, event.DialectWinsock:
	default:
		return fmt.Errorf("unknown dialect %q", r.Dialect)
	}
	switch r.Category {
	case event.Success, event.Warning, event.Error, event.Unknown:
	default:
		return fmt.Errorf("unknown category %q", r.Category)
	}
	if r.To != 0 && r.To < r.From {
		return fmt.Errorf("range %d-%d is inverted", r.From, r.To)
	}
	return nil
}
