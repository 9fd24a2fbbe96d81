package engine

import (
	"context"
	"fmt"

	"github.com/oxtoacart/bpool"
	"github.com/vk/mustachio/internal/compactor"
	"github.com/vk/mustachio/internal/interpreter"
	"github.com/vk/mustachio/internal/token"
	"github.com/vk/mustachio/internal/tree"
	"github.com/vk/mustachio/internal/treecache"
	"github.com/vk/mustachio/internal/value"
)

// Template is a compiled template. It is immutable and safe for concurrent
// use.
type Template struct {
	root   *tree.Section
	mode   token.Mode
	interp *interpreter.Interpreter
}

func newTemplate(root *tree.Section, mode token.Mode, pool *bpool.BufferPool, maxDepth int) *Template {
	return &Template{
		root: root,
		mode: mode,
		interp: interpreter.New(root, mode,
			interpreter.WithBufferPool(pool),
			interpreter.WithCache(treecache.New()),
			interpreter.WithMaxDepth(maxDepth),
		),
	}
}

// Render renders the template. view may be a cty.Value or native Go data
// accepted by value.FromGo.
func (t *Template) Render(ctx context.Context, view any) (string, error) {
	v, err := value.FromGo(view)
	if err != nil {
		return "", fmt.Errorf("invalid view data: %w", err)
	}
	return t.interp.Render(ctx, v)
}

// Tree returns the parsed tree. Callers must not modify it.
func (t *Template) Tree() *tree.Section {
	return t.root
}

// Mode returns the whitespace mode the template was compiled with.
func (t *Template) Mode() token.Mode {
	return t.mode
}

// Compact returns the template re-serialised as minimal source, together
// with the sources of recursive partials it still refers to.
func (t *Template) Compact(ctx context.Context) (string, map[string]string) {
	c := compactor.New(ctx, t.root, t.mode)
	out := c.Generate()
	return out, c.RuntimeTemplates()
}
