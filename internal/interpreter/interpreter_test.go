package interpreter

import (
	"context"
	"sync"
	"testing"

	"github.com/oxtoacart/bpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/mustachio/internal/parser"
	"github.com/vk/mustachio/internal/stack"
	"github.com/vk/mustachio/internal/token"
	"github.com/vk/mustachio/internal/treecache"
	"github.com/vk/mustachio/internal/value"
	"github.com/zclconf/go-cty/cty"
)

func view(t *testing.T, data map[string]any) cty.Value {
	t.Helper()
	v, err := value.FromGo(data)
	require.NoError(t, err)
	return v
}

func compile(t *testing.T, src string, mode token.Mode, partials map[string]string, opts ...Option) *Interpreter {
	t.Helper()
	root, err := parser.New(mode, parser.WithPartials(partials)).Parse(src)
	require.NoError(t, err)
	return New(root, mode, opts...)
}

func TestRender(t *testing.T) {
	testCases := []struct {
		name     string
		template string
		data     map[string]any
		want     string
	}{
		{
			name:     "interpolation",
			template: "Hi {{name}}!",
			data:     map[string]any{"name": "Bob"},
			want:     "Hi Bob!",
		},
		{
			name:     "escaped",
			template: "{{name}}",
			data:     map[string]any{"name": "<b>"},
			want:     "&lt;b&gt;",
		},
		{
			name:     "triple mustache is raw",
			template: "{{{name}}}",
			data:     map[string]any{"name": "<b>"},
			want:     "<b>",
		},
		{
			name:     "ampersand is raw",
			template: "{{&name}}",
			data:     map[string]any{"name": `"&"`},
			want:     `"&"`,
		},
		{
			name:     "inverted section on empty list",
			template: "{{^items}}empty{{/items}}",
			data:     map[string]any{"items": []any{}},
			want:     "empty",
		},
		{
			name:     "inverted section on non-empty list",
			template: "{{^items}}empty{{/items}}",
			data:     map[string]any{"items": []any{1}},
			want:     "",
		},
		{
			name:     "iteration order",
			template: "{{#items}}{{.}}{{/items}}",
			data:     map[string]any{"items": []any{1, 2, 3}},
			want:     "123",
		},
		{
			name:     "iteration over empty list",
			template: "{{#items}}{{.}}{{/items}}",
			data:     map[string]any{"items": []any{}},
			want:     "",
		},
		{
			name:     "dotted path",
			template: "{{a.b.c}}",
			data:     map[string]any{"a": map[string]any{"b": map[string]any{"c": "x"}}},
			want:     "x",
		},
		{
			name:     "missing intermediate segment",
			template: "[{{a.x.c}}]",
			data:     map[string]any{"a": map[string]any{"b": "y"}},
			want:     "[]",
		},
		{
			name:     "record section pushes the record",
			template: "{{#person}}{{name}} of {{town}}{{/person}}",
			data:     map[string]any{"town": "Oslo", "person": map[string]any{"name": "Ann"}},
			want:     "Ann of Oslo",
		},
		{
			name:     "scalar section is rendered once",
			template: "{{#count}}[{{.}}]{{/count}}",
			data:     map[string]any{"count": 3},
			want:     "[3]",
		},
		{
			name:     "inverted section pushes the falsey value",
			template: "{{^flag}}[{{.}}]{{/flag}}",
			data:     map[string]any{"flag": false},
			want:     "[]",
		},
		{
			name:     "missing section renders nothing",
			template: "a{{#nope}}x{{/nope}}b",
			data:     map[string]any{},
			want:     "ab",
		},
		{
			name:     "missing section is falsey",
			template: "{{^nope}}x{{/nope}}",
			data:     map[string]any{},
			want:     "x",
		},
		{
			name:     "outer context is visible inside sections",
			template: "{{#items}}{{.}}{{sep}}{{/items}}",
			data:     map[string]any{"sep": ",", "items": []any{"a", "b"}},
			want:     "a,b,",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := compile(t, tc.template, token.Lazy, nil).Render(context.Background(), view(t, tc.data))
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestRender_SequenceView(t *testing.T) {
	in := cty.TupleVal([]cty.Value{cty.NumberIntVal(1), cty.NumberIntVal(2)})
	got, err := compile(t, "{{#.}}{{.}}{{/.}}", token.Lazy, nil).Render(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, "12", got)
}

func TestRender_InvalidView(t *testing.T) {
	it := compile(t, "x", token.Lazy, nil)
	for _, in := range []cty.Value{cty.StringVal("x"), cty.NumberIntVal(1), value.Empty, cty.NullVal(cty.EmptyObject)} {
		_, err := it.Render(context.Background(), in)
		require.ErrorIs(t, err, ErrInvalidView)
	}
}

func TestRender_StrictStandalone(t *testing.T) {
	data := map[string]any{"a": true, "x": "v"}

	got, err := compile(t, "{{#a}}\nline\n{{/a}}\n", token.Strict, nil).Render(context.Background(), view(t, data))
	require.NoError(t, err)
	assert.Equal(t, "line\n", got)

	// Variables on their own line are not trimmed.
	got, err = compile(t, "  {{x}}\n", token.Strict, nil).Render(context.Background(), view(t, data))
	require.NoError(t, err)
	assert.Equal(t, "  v\n", got)
}

func TestRender_Strip(t *testing.T) {
	it := compile(t, "  a  \n  {{x}}  b  {{#l}} {{.}}\n{{/l}}", token.Strip, nil)
	got, err := it.Render(context.Background(), view(t, map[string]any{"x": "1", "l": []any{"p", "q"}}))
	require.NoError(t, err)
	assert.Equal(t, "a 1 b p q", got)
	assert.Equal(t, got, token.Collapse(got))
}

var treePartials = map[string]string{
	"node": "{{name}}\n{{#kids}}\n  {{>node}}\n{{/kids}}\n",
}

func treeView(t *testing.T) cty.Value {
	return view(t, map[string]any{
		"name": "a",
		"kids": []any{
			map[string]any{
				"name": "b",
				"kids": []any{map[string]any{"name": "c", "kids": []any{}}},
			},
			map[string]any{"name": "d", "kids": []any{}},
		},
	})
}

func TestRender_RecursivePartial(t *testing.T) {
	store := treecache.New()
	it := compile(t, "{{>node}}", token.Strict, treePartials, WithCache(store))

	got, err := it.Render(context.Background(), treeView(t))
	require.NoError(t, err)
	assert.Equal(t, "a\n  b\n    c\n  d\n", got)

	// One parsed subtree per indentation level.
	assert.Equal(t, 2, store.Len())

	again, err := it.Render(context.Background(), treeView(t))
	require.NoError(t, err)
	assert.Equal(t, got, again)
	assert.Equal(t, 2, store.Len())
}

func TestRender_RecursivePartialValuesKeepLineStarts(t *testing.T) {
	partials := map[string]string{"p": "{{v}}\n{{#kids}}\n{{>p}}\n{{/kids}}\n"}
	it := compile(t, "top\n  {{>p}}", token.Strict, partials)

	got, err := it.Render(context.Background(), view(t, map[string]any{
		"v":    "x\ny",
		"kids": []any{map[string]any{"v": "z", "kids": []any{}}},
	}))
	require.NoError(t, err)
	assert.Equal(t, "top\n  x\ny\n  z\n", got)
}

func TestRender_RecursivePartialWithoutCodeCheck(t *testing.T) {
	partials := map[string]string{"p": "<?php {{name}}{{#kids}}{{>p}}{{/kids}}"}
	root, err := parser.New(token.Lazy, parser.WithPartials(partials), parser.WithForbiddenMarkers()).Parse("{{>p}}")
	require.NoError(t, err)
	it := New(root, token.Lazy)

	got, err := it.Render(context.Background(), view(t, map[string]any{
		"name": "a",
		"kids": []any{map[string]any{"name": "b", "kids": []any{}}},
	}))
	require.NoError(t, err)
	assert.Equal(t, "<?php a<?php b", got)
}

func TestRender_RecursionLimit(t *testing.T) {
	it := compile(t, "{{>loop}}", token.Lazy, map[string]string{"loop": "x{{>loop}}"}, WithMaxDepth(10))
	_, err := it.Render(context.Background(), cty.EmptyObjectVal)
	require.ErrorIs(t, err, ErrRecursionLimit)
}

func TestRender_CanceledContext(t *testing.T) {
	it := compile(t, "{{>node}}", token.Strict, treePartials)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := it.Render(ctx, treeView(t))
	require.ErrorIs(t, err, context.Canceled)
}

func TestRenderOnStack(t *testing.T) {
	it := compile(t, "{{name}}/{{outer}}", token.Lazy, nil, WithBufferPool(bpool.NewBufferPool(1)))
	st := stack.New(view(t, map[string]any{"outer": "o", "name": "root"}))
	st.Push(view(t, map[string]any{"name": "inner"}))

	got, err := it.RenderOnStack(context.Background(), st)
	require.NoError(t, err)
	assert.Equal(t, "inner/o", got)
	assert.Equal(t, 2, st.Len())
}

// TestRender_Concurrent verifies that one interpreter can serve many renders
// at once, including the shared runtime partial cache.
func TestRender_Concurrent(t *testing.T) {
	it := compile(t, "{{>node}}", token.Strict, treePartials)
	in := treeView(t)
	numGoroutines := 50
	var wg sync.WaitGroup

	wg.Add(numGoroutines)
	for i := 0; i < numGoroutines; i++ {
		go func() {
			defer wg.Done()
			got, err := it.Render(context.Background(), in)
			assert.NoError(t, err)
			assert.Equal(t, "a\n  b\n    c\n  d\n", got)
		}()
	}
	wg.Wait()
}
