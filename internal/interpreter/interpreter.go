package interpreter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/oxtoacart/bpool"
	"github.com/vk/mustachio/internal/ctxlog"
	"github.com/vk/mustachio/internal/parser"
	"github.com/vk/mustachio/internal/stack"
	"github.com/vk/mustachio/internal/token"
	"github.com/vk/mustachio/internal/tree"
	"github.com/vk/mustachio/internal/treecache"
	"github.com/vk/mustachio/internal/value"
	"github.com/zclconf/go-cty/cty"
)

// DefaultMaxDepth bounds the nesting of runtime partial expansions.
const DefaultMaxDepth = 512

var (
	// ErrInvalidView is returned when the view is neither a record nor a sequence.
	ErrInvalidView = errors.New("view must be a record or a sequence")
	// ErrRecursionLimit is returned when recursive partials nest deeper than
	// the configured maximum depth.
	ErrRecursionLimit = errors.New("recursive partial depth limit exceeded")
)

// Interpreter renders one template tree.
type Interpreter struct {
	root     *tree.Section
	mode     token.Mode
	pool     *bpool.BufferPool
	cache    *treecache.Store
	maxDepth int
}

// Option configures an Interpreter.
type Option func(*Interpreter)

// WithBufferPool sets the pool output buffers are taken from.
func WithBufferPool(pool *bpool.BufferPool) Option {
	return func(i *Interpreter) {
		i.pool = pool
	}
}

// WithCache sets the store runtime partial trees are memoised in.
func WithCache(store *treecache.Store) Option {
	return func(i *Interpreter) {
		i.cache = store
	}
}

// WithMaxDepth sets how deeply recursive partials may nest. Values below
// one keep the default.
func WithMaxDepth(depth int) Option {
	return func(i *Interpreter) {
		if depth > 0 {
			i.maxDepth = depth
		}
	}
}

// New returns an Interpreter for root. mode must be the whitespace mode root
// was parsed with.
func New(root *tree.Section, mode token.Mode, opts ...Option) *Interpreter {
	i := &Interpreter{
		root:     root,
		mode:     mode,
		maxDepth: DefaultMaxDepth,
	}
	for _, opt := range opts {
		opt(i)
	}
	if i.pool == nil {
		i.pool = bpool.NewBufferPool(8)
	}
	if i.cache == nil {
		i.cache = treecache.New()
	}
	return i
}

// Render renders the tree against view.
func (i *Interpreter) Render(ctx context.Context, view cty.Value) (string, error) {
	if !value.IsContainer(view) {
		return "", fmt.Errorf("%w: got %s", ErrInvalidView, describe(view))
	}
	return i.RenderOnStack(ctx, stack.New(view))
}

// RenderOnStack renders the tree against an existing context stack. The
// stack is left as it was found.
func (i *Interpreter) RenderOnStack(ctx context.Context, st *stack.Stack) (string, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Rendering template.", "mode", i.mode, "nodes", len(i.root.Children))

	buf := i.pool.Get()
	defer i.pool.Put(buf)

	if err := i.render(ctx, buf, st, i.root.Children, 0); err != nil {
		return "", err
	}

	out := buf.String()
	if i.mode == token.Strip {
		out = strings.TrimSpace(token.Collapse(out))
	}
	return out, nil
}

func (i *Interpreter) render(ctx context.Context, w *bytes.Buffer, st *stack.Stack, nodes []tree.Node, depth int) error {
	for _, n := range nodes {
		switch n := n.(type) {
		case *tree.Literal:
			w.WriteString(n.Text)

		case *tree.Variable:
			s := value.String(st.Lookup(n.Path))
			if n.Escape {
				s = value.Escape(s)
			}
			w.WriteString(s)

		case *tree.Section:
			items, ok := value.Iterable(st.Lookup(n.Path))
			if !ok {
				continue
			}
			for _, item := range items {
				st.Push(item)
				err := i.render(ctx, w, st, n.Children, depth)
				st.Pop()
				if err != nil {
					return err
				}
			}

		case *tree.InvertedSection:
			v := st.Lookup(n.Path)
			if !value.IsFalsey(v) {
				continue
			}
			st.Push(v)
			err := i.render(ctx, w, st, n.Children, depth)
			st.Pop()
			if err != nil {
				return err
			}

		case *tree.RuntimeTemplate:
			if depth >= i.maxDepth {
				return fmt.Errorf("%w: partial %q nested %d levels", ErrRecursionLimit, n.Name, depth)
			}
			if err := ctx.Err(); err != nil {
				return err
			}
			sub, err := i.expand(ctx, n)
			if err != nil {
				return err
			}
			if err := i.render(ctx, w, st, sub.Children, depth+1); err != nil {
				return err
			}

		default:
			return fmt.Errorf("interpreter: unexpected node type %T", n)
		}
	}
	return nil
}

// expand returns the parsed tree of a runtime partial, parsing it on first use.
func (i *Interpreter) expand(ctx context.Context, rt *tree.RuntimeTemplate) (*tree.Section, error) {
	key := treecache.KeyOf(rt)
	if sub, ok := i.cache.Get(key); ok {
		return sub, nil
	}

	ctxlog.FromContext(ctx).Debug("Parsing runtime partial.", "name", rt.Name, "indent", len(rt.Indent))
	sub, err := parser.ParseRuntime(rt, i.mode)
	if err != nil {
		return nil, fmt.Errorf("partial %q: %w", rt.Name, err)
	}
	return i.cache.Put(key, sub), nil
}

func describe(v cty.Value) string {
	if v.IsNull() {
		return "null"
	}
	return v.Type().FriendlyName()
}
