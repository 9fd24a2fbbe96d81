package parser

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/vk/mustachio/internal/token"
	"github.com/vk/mustachio/internal/tree"
)

// DefaultForbiddenMarkers are rejected in literal text unless overridden
// with WithForbiddenMarkers.
var DefaultForbiddenMarkers = []string{"<?php"}

// Parser turns template source into a tree. The partial registry it holds is
// consulted during Parse; changing it afterwards does not affect trees that
// were already returned.
type Parser struct {
	mode      token.Mode
	partials  map[string]string
	forbidden []string
	expanding []string
}

// Option configures a Parser.
type Option func(*Parser)

// WithPartials adds the given partials to the registry.
func WithPartials(partials map[string]string) Option {
	return func(p *Parser) {
		p.AddPartials(partials)
	}
}

// WithForbiddenMarkers replaces the markers rejected in literal text. Called
// without arguments it disables the check.
func WithForbiddenMarkers(markers ...string) Option {
	return func(p *Parser) {
		p.forbidden = markers
	}
}

// WithExpanding declares the template being parsed to be the body of the
// named partials, so that references back to any of them are deferred to
// render time instead of being inlined.
func WithExpanding(names ...string) Option {
	return func(p *Parser) {
		p.expanding = append(p.expanding, names...)
	}
}

// New returns a Parser for the given whitespace mode.
func New(mode token.Mode, opts ...Option) *Parser {
	p := &Parser{
		mode:      mode,
		partials:  make(map[string]string),
		forbidden: DefaultForbiddenMarkers,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// AddPartial registers the source of a named partial, replacing any previous
// source of the same name.
func (p *Parser) AddPartial(name, src string) {
	p.partials[name] = src
}

// AddPartials registers several partials at once.
func (p *Parser) AddPartials(partials map[string]string) {
	for name, src := range partials {
		p.AddPartial(name, src)
	}
}

// ClearPartials empties the registry.
func (p *Parser) ClearPartials() {
	clear(p.partials)
}

// Partials returns a copy of the registry.
func (p *Parser) Partials() map[string]string {
	return maps.Clone(p.partials)
}

// Parse tokenizes src and parses the result.
func (p *Parser) Parse(src string) (*tree.Section, error) {
	return p.ParseTokens(token.Tokenize(src, p.mode))
}

// ParseTokens builds a tree from an already tokenized template.
func (p *Parser) ParseTokens(toks []token.Token) (*tree.Section, error) {
	return p.parse(toks, maps.Clone(p.partials))
}

// ParseRuntime parses the partial behind a RuntimeTemplate node, applying the
// node's indentation and the embedded-code markers of the template it came
// from. References back to the partial are deferred again.
func ParseRuntime(rt *tree.RuntimeTemplate, mode token.Mode) (*tree.Section, error) {
	src, ok := rt.Source()
	if !ok {
		return tree.NewRoot(), nil
	}
	p := New(mode, WithExpanding(rt.Name), WithForbiddenMarkers(rt.Forbidden...))
	return p.parse(token.Tokenize(Indent(src, rt.Indent), mode), rt.Partials)
}

func (p *Parser) parse(toks []token.Token, snapshot map[string]string) (*tree.Section, error) {
	if snapshot == nil {
		snapshot = map[string]string{}
	}
	children, err := p.build(toks, snapshot, p.expanding)
	if err != nil {
		return nil, err
	}
	root := tree.NewRoot()
	root.Children = children
	return root, nil
}

// frame is a section still waiting for its closing tag.
type frame struct {
	path     tree.Path
	inverted bool
	line     int
	children []tree.Node
}

func (f *frame) node() tree.Node {
	if f.inverted {
		return &tree.InvertedSection{Path: f.path, Children: f.children}
	}
	return &tree.Section{Path: f.path, Children: f.children}
}

func (p *Parser) build(toks []token.Token, partials map[string]string, expanding []string) ([]tree.Node, error) {
	open := []*frame{{}}

	for _, tok := range toks {
		cur := open[len(open)-1]

		switch tok.Kind {
		case token.Literal:
			if marker, found := p.embedded(tok.Text); found {
				return nil, &Error{Err: ErrEmbeddedCode, Name: marker, Line: tok.Line}
			}
			cur.children = append(cur.children, &tree.Literal{Text: tok.Text})

		case token.SectionOpen:
			var inverted bool
			switch tok.Modifier {
			case '#':
			case '^':
				inverted = true
			default:
				return nil, &Error{Err: ErrUnknownSectionType, Name: string(tok.Modifier), Line: tok.Line}
			}
			open = append(open, &frame{path: tree.NewPath(tok.Text), inverted: inverted, line: tok.Line})

		case token.SectionClose:
			if len(open) == 1 || cur.path.Name != tok.Text {
				return nil, &Error{Err: ErrUnmatchedSectionClose, Name: tok.Text, Line: tok.Line}
			}
			open = open[:len(open)-1]
			parent := open[len(open)-1]
			parent.children = append(parent.children, cur.node())

		case token.Comment:

		case token.Partial:
			src, ok := partials[tok.Text]
			if !ok {
				continue
			}
			if slices.Contains(expanding, tok.Text) {
				cur.children = append(cur.children, &tree.RuntimeTemplate{
					Name:      tok.Text,
					Partials:  partials,
					Indent:    tok.Indent,
					Forbidden: p.forbidden,
				})
				continue
			}
			nested := append(slices.Clip(expanding), tok.Text)
			nodes, err := p.build(token.Tokenize(Indent(src, tok.Indent), p.mode), partials, nested)
			if err != nil {
				return nil, fmt.Errorf("partial %q: %w", tok.Text, err)
			}
			cur.children = append(cur.children, nodes...)

		case token.Variable:
			if tok.Modifier != 0 && tok.Modifier != '&' {
				return nil, &Error{Err: ErrUnknownSectionType, Name: string(tok.Modifier), Line: tok.Line}
			}
			cur.children = append(cur.children, &tree.Variable{
				Path:   tree.NewPath(tok.Text),
				Escape: tok.Escape,
			})
		}
	}

	if len(open) > 1 {
		innermost := open[len(open)-1]
		return nil, &Error{Err: ErrUnclosedSections, Name: innermost.path.Name, Line: innermost.line}
	}
	return open[0].children, nil
}

func (p *Parser) embedded(text string) (string, bool) {
	if len(p.forbidden) == 0 {
		return "", false
	}
	lower := strings.ToLower(text)
	for _, marker := range p.forbidden {
		if marker != "" && strings.Contains(lower, strings.ToLower(marker)) {
			return marker, true
		}
	}
	return "", false
}

// Indent prefixes every line of src that has content after it with indent.
// A trailing newline is not followed by indentation.
func Indent(src, indent string) string {
	if indent == "" || src == "" {
		return src
	}
	var b strings.Builder
	b.Grow(len(src) + len(indent)*(strings.Count(src, "\n")+1))
	b.WriteString(indent)
	for i := 0; i < len(src); i++ {
		b.WriteByte(src[i])
		if src[i] == '\n' && i+1 < len(src) {
			b.WriteString(indent)
		}
	}
	return b.String()
}
