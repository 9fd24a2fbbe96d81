// Package value holds the runtime semantics of view data: truthiness,
// iteration, stringification and escaping.
//
// View data is represented as cty values. The kinds that matter are Null,
// Bool, Number, String, sequences (list, tuple and set types) and records
// (object and map types).
package value

import (
	"math/big"
	"strconv"
	"strings"

	"github.com/zclconf/go-cty/cty"
)

// Empty is the value produced by a lookup that found nothing.
var Empty = cty.NullVal(cty.DynamicPseudoType)

func normalize(v cty.Value) cty.Value {
	if v.IsMarked() {
		v, _ = v.Unmark()
	}
	return v
}

func absent(v cty.Value) bool {
	return v.IsNull() || !v.IsKnown()
}

// IsSequence reports whether v is a non-null list, tuple or set.
func IsSequence(v cty.Value) bool {
	v = normalize(v)
	if absent(v) {
		return false
	}
	ty := v.Type()
	return ty.IsListType() || ty.IsTupleType() || ty.IsSetType()
}

// IsRecord reports whether v is a non-null object or map.
func IsRecord(v cty.Value) bool {
	v = normalize(v)
	if absent(v) {
		return false
	}
	ty := v.Type()
	return ty.IsObjectType() || ty.IsMapType()
}

// IsContainer reports whether v can serve as the view of a render.
func IsContainer(v cty.Value) bool {
	return IsRecord(v) || IsSequence(v)
}

// IsFalsey reports whether v counts as absent for a section: null, false,
// zero, the empty string and empty sequences. Records are never falsey.
func IsFalsey(v cty.Value) bool {
	v = normalize(v)
	if absent(v) {
		return true
	}
	ty := v.Type()
	switch {
	case ty.Equals(cty.Bool):
		return !v.True()
	case ty.Equals(cty.Number):
		return v.AsBigFloat().Sign() == 0
	case ty.Equals(cty.String):
		return v.AsString() == ""
	case ty.IsListType(), ty.IsTupleType(), ty.IsSetType():
		return v.LengthInt() == 0
	}
	return false
}

// Iterable returns the values a section iterates over. Falsey values give
// nothing. A sequence gives its elements in order; any other value is
// wrapped as the single element.
func Iterable(v cty.Value) ([]cty.Value, bool) {
	if IsFalsey(v) {
		return nil, false
	}
	if IsSequence(v) {
		return normalize(v).AsValueSlice(), true
	}
	return []cty.Value{v}, true
}

// String renders a scalar for output. Null, unknown and collection values
// render as the empty string; true renders as "1" and false as "".
func String(v cty.Value) string {
	v = normalize(v)
	if absent(v) {
		return ""
	}
	ty := v.Type()
	switch {
	case ty.Equals(cty.String):
		return v.AsString()
	case ty.Equals(cty.Bool):
		if v.True() {
			return "1"
		}
		return ""
	case ty.Equals(cty.Number):
		return formatNumber(v.AsBigFloat())
	}
	return ""
}

func formatNumber(f *big.Float) string {
	if f.IsInt() {
		return f.Text('f', 0)
	}
	f64, _ := f.Float64()
	return strconv.FormatFloat(f64, 'f', -1, 64)
}

var htmlReplacer = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
)

// Escape HTML-escapes s.
func Escape(s string) string {
	return htmlReplacer.Replace(s)
}
