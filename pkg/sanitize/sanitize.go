// Package sanitize neutralizes markup in untrusted form input.
package sanitize

import (
	"fmt"
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// Mode selects how markup is neutralized.
type Mode string

const (
	// ModeEscape keeps markup visible but inert: & < > become entities.
	ModeEscape Mode = "escape"
	// ModeStrip removes markup entirely; remaining & < > are escaped.
	ModeStrip Mode = "strip"
)

// ParseMode maps a config value to a Mode. Empty means ModeEscape.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeEscape:
		return ModeEscape, nil
	case ModeStrip:
		return ModeStrip, nil
	default:
		return "", fmt.Errorf("sanitize: unknown mode %q", s)
	}
}

var escaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

// Sanitizer is safe for concurrent use.
type Sanitizer struct {
	mode   Mode
	policy *bluemonday.Policy
}

func New(mode Mode) *Sanitizer {
	s := &Sanitizer{mode: mode}
	if mode == ModeStrip {
		s.policy = bluemonday.StrictPolicy()
	}
	return s
}

func (s *Sanitizer) Mode() Mode {
	return s.mode
}

// Sanitize never fails; empty input yields empty output.
//
// Existing entities are decoded before escaping, so in both modes the result
// is a fixed point: Sanitize(Sanitize(x)) == Sanitize(x).
func (s *Sanitizer) Sanitize(in string) string {
	if in == "" {
		return ""
	}
	var out string
	switch s.mode {
	case ModeStrip:
		out = s.strip(in)
	default:
		out = escaper.Replace(stripControl(html.UnescapeString(in)))
	}
	return strings.TrimSpace(out)
}

// maxStripPasses bounds the decode/strip loop for deeply nested encodings.
const maxStripPasses = 8

// strip removes tags, including tags hidden behind entity encoding, until the
// policy no longer changes the text. Leftover & < > are escaped so decoding
// can never produce a live tag.
func (s *Sanitizer) strip(in string) string {
	out := in
	for i := 0; i < maxStripPasses; i++ {
		next := s.policy.Sanitize(html.UnescapeString(out))
		if next == out {
			break
		}
		out = next
	}
	return escaper.Replace(stripControl(html.UnescapeString(out)))
}

// stripControl drops C0 control characters except tab, newline and carriage return.
func stripControl(in string) string {
	return strings.Map(func(r rune) rune {
		if r < 0x20 && r != '\t' && r != '\n' && r != '\r' {
			return -1
		}
		if r == 0x7f {
			return -1
		}
		return r
	}, in)
}
