package parser

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownSectionType is returned for a tag-type character the parser
	// has no node for.
	ErrUnknownSectionType = errors.New("unknown section type character")
	// ErrUnmatchedSectionClose is returned for a closing tag that does not
	// close the innermost open section.
	ErrUnmatchedSectionClose = errors.New("unmatched section close")
	// ErrUnclosedSections is returned when the input ends inside a section.
	ErrUnclosedSections = errors.New("unclosed sections")
	// ErrEmbeddedCode is returned for literal text containing a forbidden
	// marker.
	ErrEmbeddedCode = errors.New("embedded code detected")
)

// Error describes where a parse failed.
type Error struct {
	Err  error
	Name string
	Line int
}

func (e *Error) Error() string {
	return fmt.Sprintf("line %d: %v: %q", e.Line+1, e.Err, e.Name)
}

func (e *Error) Unwrap() error {
	return e.Err
}
