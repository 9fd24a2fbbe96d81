package token

import (
	"fmt"
	"regexp"
	"strings"
)

// Mode selects the whitespace policy applied while tokenizing and rendering.
type Mode int

const (
	// Lazy keeps all whitespace around tags as written.
	Lazy Mode = iota
	// Strict removes the indentation and line break around standalone
	// non-variable tags.
	Strict
	// Strip collapses every whitespace run to a single space and trims the
	// rendered output.
	Strip
)

func (m Mode) String() string {
	switch m {
	case Lazy:
		return "lazy"
	case Strict:
		return "strict"
	case Strip:
		return "strip"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// ParseMode maps a mode name as printed by String back to a Mode.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "lazy":
		return Lazy, nil
	case "strict":
		return Strict, nil
	case "strip":
		return Strip, nil
	}
	return Lazy, fmt.Errorf("unknown whitespace mode %q: must be 'lazy', 'strict' or 'strip'", s)
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// Collapse replaces every run of whitespace in s with a single space.
// Applying it twice is the same as applying it once.
func Collapse(s string) string {
	return whitespaceRun.ReplaceAllString(s, " ")
}
