// Package tree defines the parsed form of a template: a closed set of node
// variants hanging off an implicit root section.
//
// Trees are immutable once the parser returns them and may be shared between
// concurrent renders.
package tree

import "strings"

// RootName is the reserved name of the implicit section wrapping a template.
const RootName = "#ROOT#"

// Path is a variable or section name, split once into its dot-separated
// segments. The bare "." is kept as the single segment ".".
type Path struct {
	Name     string
	Segments []string
}

// NewPath splits name into a Path.
func NewPath(name string) Path {
	if name == "." {
		return Path{Name: name, Segments: []string{"."}}
	}
	return Path{Name: name, Segments: strings.Split(name, ".")}
}

// IsDot reports whether the path refers to the current context itself.
func (p Path) IsDot() bool {
	return p.Name == "."
}

func (p Path) String() string {
	return p.Name
}

// Node is implemented by exactly the five node variants of this package.
type Node interface {
	node()
}

// Section renders its children once per element of its value.
type Section struct {
	Path     Path
	Children []Node
}

// InvertedSection renders its children once when its value is falsey.
type InvertedSection struct {
	Path     Path
	Children []Node
}

// Literal is verbatim template text.
type Literal struct {
	Text string
}

// Variable interpolates a value, optionally HTML-escaped.
type Variable struct {
	Path   Path
	Escape bool
}

// RuntimeTemplate stands in for a partial that expands into itself. It is
// parsed when rendered, from the snapshot of partial sources taken when the
// surrounding template was parsed. Forbidden carries the embedded-code
// markers the surrounding template was checked against.
type RuntimeTemplate struct {
	Name      string
	Partials  map[string]string
	Indent    string
	Forbidden []string
}

func (*Section) node()         {}
func (*InvertedSection) node() {}
func (*Literal) node()         {}
func (*Variable) node()        {}
func (*RuntimeTemplate) node() {}

// NewRoot returns an empty root section.
func NewRoot() *Section {
	return &Section{Path: Path{Name: RootName, Segments: []string{RootName}}}
}

// IsRoot reports whether s is the implicit root section.
func (s *Section) IsRoot() bool {
	return s.Path.Name == RootName
}

// Source returns the template source of the deferred partial.
func (r *RuntimeTemplate) Source() (string, bool) {
	src, ok := r.Partials[r.Name]
	return src, ok
}
