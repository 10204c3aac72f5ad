// Package highlight evaluates user-configured highlight rules against
// completed logical lines and rewrites span styles where they match.
package highlight

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"mudlark/internal/style"
)

// Rule is one configured highlight. Pattern is a regular expression unless
// Literal is set, in which case it is a |-delimited list of exact substrings
// matched with an Aho-Corasick automaton (the "fast parse" path — it cannot
// express anchors or character classes, but never backtracks).
type Rule struct {
	Name            string      `yaml:"name"`
	Category        string      `yaml:"category"`
	Pattern         string      `yaml:"pattern"`
	Literal         bool        `yaml:"literal"`
	Fg              style.Color `yaml:"fg"`
	Bg              style.Color `yaml:"bg"`
	Bold            bool        `yaml:"bold"`
	ColorEntireLine bool        `yaml:"color_entire_line"`
	Sound           string      `yaml:"sound"`
	SoundVolume     float64     `yaml:"sound_volume"`
}

// Style returns the override style a match of this rule applies.
func (r Rule) Style() style.Style {
	return style.Style{Fg: r.Fg, Bg: r.Bg, Bold: r.Bold}
}

// LoadRules reads an ordered rule list from a YAML file. Order in the file is
// evaluation order.
func LoadRules(path string) ([]Rule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read highlights: %w", err)
	}
	var rules []Rule
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return nil, fmt.Errorf("parse highlights %s: %w", path, err)
	}
	return rules, nil
}
