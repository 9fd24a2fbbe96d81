package engine

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"sync"

	"github.com/dgraph-io/ristretto"
	"github.com/oxtoacart/bpool"
	"github.com/vk/mustachio/internal/ctxlog"
	"github.com/vk/mustachio/internal/interpreter"
	"github.com/vk/mustachio/internal/parser"
	"github.com/vk/mustachio/internal/token"
)

const (
	// DefaultCacheCost is the total source size, in bytes, of compiled
	// templates kept in the cache.
	DefaultCacheCost = 32 << 20
	// DefaultBufferPoolSize is the number of output buffers kept for reuse.
	DefaultBufferPoolSize = 64
)

// Engine compiles and renders templates.
type Engine struct {
	mode      token.Mode
	maxDepth  int
	cacheCost int64
	poolSize  int

	mu       sync.RWMutex
	partials map[string]string
	gen      uint64

	cache *ristretto.Cache
	pool  *bpool.BufferPool
}

// Option configures an Engine.
type Option func(*Engine) error

// WithWhitespace sets the whitespace mode templates are compiled with.
func WithWhitespace(mode token.Mode) Option {
	return func(e *Engine) error {
		switch mode {
		case token.Lazy, token.Strict, token.Strip:
			e.mode = mode
			return nil
		}
		return fmt.Errorf("unknown whitespace mode %d", mode)
	}
}

// WithPartials registers partials at construction.
func WithPartials(partials map[string]string) Option {
	return func(e *Engine) error {
		maps.Copy(e.partials, partials)
		return nil
	}
}

// WithCacheCost sets the total source size of cached compiled templates.
// Zero disables caching.
func WithCacheCost(cost int64) Option {
	return func(e *Engine) error {
		if cost < 0 {
			return errors.New("cache cost cannot be negative")
		}
		e.cacheCost = cost
		return nil
	}
}

// WithMaxDepth bounds the nesting of recursive partials during a render.
func WithMaxDepth(depth int) Option {
	return func(e *Engine) error {
		if depth < 1 {
			return errors.New("max depth must be at least 1")
		}
		e.maxDepth = depth
		return nil
	}
}

// WithBufferPoolSize sets how many output buffers are kept for reuse.
func WithBufferPoolSize(size int) Option {
	return func(e *Engine) error {
		if size < 1 {
			return errors.New("buffer pool size must be at least 1")
		}
		e.poolSize = size
		return nil
	}
}

// New creates an Engine.
func New(opts ...Option) (*Engine, error) {
	e := &Engine{
		mode:      token.Lazy,
		maxDepth:  interpreter.DefaultMaxDepth,
		cacheCost: DefaultCacheCost,
		poolSize:  DefaultBufferPoolSize,
		partials:  make(map[string]string),
	}
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, fmt.Errorf("invalid engine option: %w", err)
		}
	}

	if e.cacheCost > 0 {
		cache, err := ristretto.NewCache(&ristretto.Config{
			NumCounters: 1e5,
			MaxCost:     e.cacheCost,
			BufferItems: 64,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create template cache: %w", err)
		}
		e.cache = cache
	}
	e.pool = bpool.NewBufferPool(e.poolSize)
	return e, nil
}

// Mode returns the whitespace mode of the engine.
func (e *Engine) Mode() token.Mode {
	return e.mode
}

// AddPartial registers or replaces a partial.
func (e *Engine) AddPartial(name, src string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.partials[name] = src
	e.gen++
}

// AddPartials registers or replaces several partials.
func (e *Engine) AddPartials(partials map[string]string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	maps.Copy(e.partials, partials)
	e.gen++
}

// ClearPartials removes every partial.
func (e *Engine) ClearPartials() {
	e.mu.Lock()
	defer e.mu.Unlock()
	clear(e.partials)
	e.gen++
}

// Partials returns a copy of the registry.
func (e *Engine) Partials() map[string]string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return maps.Clone(e.partials)
}

func (e *Engine) snapshot() (map[string]string, uint64) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return maps.Clone(e.partials), e.gen
}

func cacheKey(mode token.Mode, gen uint64, src string) string {
	return fmt.Sprintf("%d|%d|%s", mode, gen, src)
}

// Compile parses src against the current partial registry.
func (e *Engine) Compile(ctx context.Context, src string) (*Template, error) {
	logger := ctxlog.FromContext(ctx)
	partials, gen := e.snapshot()
	key := cacheKey(e.mode, gen, src)

	if e.cache != nil {
		if v, ok := e.cache.Get(key); ok {
			logger.Debug("Compiled template cache hit.", "generation", gen, "size", len(src))
			return v.(*Template), nil
		}
	}

	logger.Debug("Compiling template.", "mode", e.mode, "generation", gen, "partials", len(partials), "size", len(src))
	root, err := parser.New(e.mode, parser.WithPartials(partials)).Parse(src)
	if err != nil {
		return nil, fmt.Errorf("failed to compile template: %w", err)
	}

	tmpl := newTemplate(root, e.mode, e.pool, e.maxDepth)
	if e.cache != nil {
		e.cache.Set(key, tmpl, int64(len(src))+1)
	}
	return tmpl, nil
}

// Render compiles src and renders it against view, which may be a cty.Value
// or native Go data.
func (e *Engine) Render(ctx context.Context, src string, view any) (string, error) {
	tmpl, err := e.Compile(ctx, src)
	if err != nil {
		return "", err
	}
	return tmpl.Render(ctx, view)
}

// Close releases the template cache.
func (e *Engine) Close() {
	if e.cache != nil {
		e.cache.Close()
	}
}
