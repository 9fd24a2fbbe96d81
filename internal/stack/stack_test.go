package stack

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/mustachio/internal/tree"
	"github.com/zclconf/go-cty/cty"
)

func obj(attrs map[string]cty.Value) cty.Value {
	return cty.ObjectVal(attrs)
}

func TestStack_PushPop(t *testing.T) {
	view := obj(map[string]cty.Value{"a": cty.True})
	s := New(view)
	require.Equal(t, 1, s.Len())
	require.True(t, s.Top().RawEquals(view))

	s.Push(cty.StringVal("x"))
	require.Equal(t, 2, s.Len())
	require.True(t, s.Top().RawEquals(cty.StringVal("x")))

	s.Pop()
	require.Equal(t, 1, s.Len())
	require.Panics(t, s.Pop)
}

func TestStack_Lookup(t *testing.T) {
	view := obj(map[string]cty.Value{
		"name":  cty.StringVal("outer"),
		"shown": cty.StringVal("from view"),
		"a": obj(map[string]cty.Value{
			"b": obj(map[string]cty.Value{"c": cty.StringVal("x")}),
		}),
		"m":    cty.MapVal(map[string]cty.Value{"k": cty.StringVal("mv")}),
		"list": cty.TupleVal([]cty.Value{cty.StringVal("zero"), cty.StringVal("one")}),
	})
	inner := obj(map[string]cty.Value{
		"name":  cty.StringVal("inner"),
		"shown": cty.NullVal(cty.String),
		"b":     cty.StringVal("shadow"),
	})

	s := New(view)
	s.Push(inner)

	testCases := []struct {
		name string
		path string
		want cty.Value
	}{
		{"top frame wins", "name", cty.StringVal("inner")},
		{"null members are skipped", "shown", cty.StringVal("from view")},
		{"dotted path", "a.b.c", cty.StringVal("x")},
		{"map member", "m.k", cty.StringVal("mv")},
		{"numeric index", "list.1", cty.StringVal("one")},
		{"dot is the top frame", ".", inner},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := s.Lookup(tree.NewPath(tc.path))
			assert.True(t, got.RawEquals(tc.want), "got %#v", got)
		})
	}

	misses := []string{"missing", "a.x.c", "a.b.c.d", "m.nope", "list.2", "list.x", "list.0.5", "name.length"}
	for _, p := range misses {
		t.Run("miss "+p, func(t *testing.T) {
			assert.True(t, s.Lookup(tree.NewPath(p)).IsNull())
		})
	}
}

func TestStack_DottedPathDoesNotResearchOuterFrames(t *testing.T) {
	view := obj(map[string]cty.Value{
		"a": obj(map[string]cty.Value{"b": cty.StringVal("outer")}),
	})
	s := New(view)
	s.Push(obj(map[string]cty.Value{"a": obj(map[string]cty.Value{"z": cty.True})}))

	assert.True(t, s.Lookup(tree.NewPath("a.b")).IsNull())
}

func TestStack_ScalarFrames(t *testing.T) {
	s := New(cty.TupleVal([]cty.Value{cty.NumberIntVal(1)}))
	s.Push(cty.NumberIntVal(1))

	assert.True(t, s.Lookup(tree.NewPath(".")).RawEquals(cty.NumberIntVal(1)))
	assert.True(t, s.Lookup(tree.NewPath("0")).RawEquals(cty.NumberIntVal(1)))
	assert.True(t, s.Lookup(tree.NewPath("name")).IsNull())
}
