package validation

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

// DefaultSuspiciousPatterns catches script injection and common spam.
// The first entry also matches the escaped form produced by the sanitizer.
var DefaultSuspiciousPatterns = []string{
	`(?:<|&lt;)\s*script`,
	`javascript:`,
	`eval\(`,
	`document\.cookie`,
	`viagra`,
	`buy now`,
	`\$\$\$`,
	`casino`,
	`lottery`,
}

// Denylist is an ordered set of case-insensitive patterns.
type Denylist struct {
	patterns []*regexp.Regexp
	sources  []string
}

type denylistFile struct {
	Patterns []string `yaml:"patterns"`
}

// NewDenylist compiles patterns; any invalid pattern is an error.
func NewDenylist(patterns []string) (*Denylist, error) {
	d := &Denylist{}
	for _, p := range patterns {
		re, err := regexp.Compile("(?i)" + p)
		if err != nil {
			return nil, fmt.Errorf("denylist: invalid pattern %q: %w", p, err)
		}
		d.patterns = append(d.patterns, re)
		d.sources = append(d.sources, p)
	}
	return d, nil
}

// DefaultDenylist returns the built-in denylist.
func DefaultDenylist() *Denylist {
	d, err := NewDenylist(DefaultSuspiciousPatterns)
	if err != nil {
		panic(err)
	}
	return d
}

// LoadDenylist reads a YAML file of the form `patterns: [...]`.
// An empty path yields the default list.
func LoadDenylist(path string) (*Denylist, error) {
	if path == "" {
		return DefaultDenylist(), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("denylist: read %s: %w", path, err)
	}
	return ParseDenylist(raw)
}

// ParseDenylist parses the YAML denylist format.
func ParseDenylist(raw []byte) (*Denylist, error) {
	var f denylistFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("denylist: parse: %w", err)
	}
	if len(f.Patterns) == 0 {
		return nil, fmt.Errorf("denylist: no patterns")
	}
	return NewDenylist(f.Patterns)
}

// Match returns the first pattern found in text.
func (d *Denylist) Match(text string) (string, bool) {
	for i, re := range d.patterns {
		if re.MatchString(text) {
			return d.sources[i], true
		}
	}
	return "", false
}

func (d *Denylist) Len() int {
	return len(d.patterns)
}
