// Package compactor re-serialises a parsed template into minimal source.
//
// Partials that were inlined at parse time disappear into the output.
// Recursive partials cannot be inlined; they are emitted as partial tags and
// their sources are reported through RuntimeTemplates so the caller can ship
// them alongside the compacted template.
package compactor

import (
	"context"
	"maps"
	"strings"

	"github.com/vk/mustachio/internal/ctxlog"
	"github.com/vk/mustachio/internal/token"
	"github.com/vk/mustachio/internal/tree"
)

// Compactor serialises one tree.
type Compactor struct {
	root     *tree.Section
	runtimes map[string]string
}

// New returns a Compactor for root. Compacting only makes sense for trees
// parsed in Strip mode; other modes are accepted with a warning.
func New(ctx context.Context, root *tree.Section, mode token.Mode) *Compactor {
	if mode != token.Strip {
		ctxlog.FromContext(ctx).Warn("Compacting a template not parsed in strip mode.", "mode", mode)
	}
	return &Compactor{root: root, runtimes: make(map[string]string)}
}

// Generate returns the compacted template source using the default
// delimiters, with every whitespace run collapsed to a single space.
func (c *Compactor) Generate() string {
	var b strings.Builder
	c.write(&b, c.root)
	return token.Collapse(b.String())
}

// RuntimeTemplates returns the sources of the recursive partials Generate
// emitted as partial tags, by name.
func (c *Compactor) RuntimeTemplates() map[string]string {
	return maps.Clone(c.runtimes)
}

func (c *Compactor) write(b *strings.Builder, n tree.Node) {
	switch n := n.(type) {
	case *tree.Section:
		if n.IsRoot() {
			c.writeChildren(b, n.Children)
			return
		}
		tag(b, "#", n.Path.Name)
		c.writeChildren(b, n.Children)
		tag(b, "/", n.Path.Name)
	case *tree.InvertedSection:
		tag(b, "^", n.Path.Name)
		c.writeChildren(b, n.Children)
		tag(b, "/", n.Path.Name)
	case *tree.Literal:
		b.WriteString(n.Text)
	case *tree.Variable:
		if n.Escape {
			tag(b, "", n.Path.Name)
		} else {
			tag(b, "&", n.Path.Name)
		}
	case *tree.RuntimeTemplate:
		src, _ := n.Source()
		c.runtimes[n.Name] = src
		tag(b, ">", n.Name)
	}
}

func (c *Compactor) writeChildren(b *strings.Builder, nodes []tree.Node) {
	for _, child := range nodes {
		c.write(b, child)
	}
}

func tag(b *strings.Builder, sigil, name string) {
	b.WriteString(token.DefaultOpen)
	b.WriteString(sigil)
	b.WriteString(name)
	b.WriteString(token.DefaultClose)
}
