// Package stack implements the context stack that variable and section
// names are resolved against while a template renders.
package stack

import (
	"github.com/vk/mustachio/internal/tree"
	"github.com/vk/mustachio/internal/value"
	"github.com/zclconf/go-cty/cty"
)

// Stack is an ordered list of context frames. The bottom frame is the view
// handed to the render and is never popped.
type Stack struct {
	frames []cty.Value
}

// New returns a stack holding view as its only frame.
func New(view cty.Value) *Stack {
	return &Stack{frames: []cty.Value{view}}
}

// Push adds a frame on top.
func (s *Stack) Push(v cty.Value) {
	s.frames = append(s.frames, v)
}

// Pop removes the top frame. Popping the view is a programming error.
func (s *Stack) Pop() {
	if len(s.frames) <= 1 {
		panic("stack: pop of the root frame")
	}
	s.frames[len(s.frames)-1] = cty.NilVal
	s.frames = s.frames[:len(s.frames)-1]
}

// Top returns the innermost frame.
func (s *Stack) Top() cty.Value {
	return s.frames[len(s.frames)-1]
}

// Len returns the number of frames.
func (s *Stack) Len() int {
	return len(s.frames)
}

// Lookup resolves p against the stack.
//
// "." yields the top frame. Otherwise the first segment is searched for from
// the top frame down and the first frame holding a non-null member wins.
// Remaining segments descend strictly from that member; a miss anywhere
// yields a null value.
func (s *Stack) Lookup(p tree.Path) cty.Value {
	if p.IsDot() {
		return s.Top()
	}
	if len(p.Segments) == 0 {
		return value.Empty
	}

	var cur cty.Value
	found := false
	for i := len(s.frames) - 1; i >= 0; i-- {
		if v, ok := member(s.frames[i], p.Segments[0]); ok {
			cur, found = v, true
			break
		}
	}
	if !found {
		return value.Empty
	}

	for _, seg := range p.Segments[1:] {
		v, ok := member(cur, seg)
		if !ok {
			return value.Empty
		}
		cur = v
	}
	return cur
}

// member returns the named member of a record, or the element at a numeric
// index of a list or tuple. Null members count as missing.
func member(container cty.Value, name string) (cty.Value, bool) {
	if container.IsMarked() {
		container, _ = container.Unmark()
	}
	if container.IsNull() || !container.IsKnown() {
		return cty.NilVal, false
	}

	var v cty.Value
	ty := container.Type()
	switch {
	case ty.IsObjectType():
		if !ty.HasAttribute(name) {
			return cty.NilVal, false
		}
		v = container.GetAttr(name)
	case ty.IsMapType():
		key := cty.StringVal(name)
		if !container.HasIndex(key).True() {
			return cty.NilVal, false
		}
		v = container.Index(key)
	case ty.IsListType(), ty.IsTupleType():
		idx, err := cty.ParseNumberVal(name)
		if err != nil || !idx.AsBigFloat().IsInt() {
			return cty.NilVal, false
		}
		if !container.HasIndex(idx).True() {
			return cty.NilVal, false
		}
		v = container.Index(idx)
	default:
		return cty.NilVal, false
	}

	if v.IsNull() {
		return cty.NilVal, false
	}
	return v, true
}
