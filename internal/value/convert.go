package value

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"time"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"
)

var ctyValueType = reflect.TypeOf(cty.Value{})

// FromGo converts native Go view data into a cty value.
//
// Maps with string keys and structs become objects, slices and arrays
// become tuples. Structs that carry `cty` field tags are converted with
// gocty; other structs expose their exported fields under their Go names.
func FromGo(in any) (cty.Value, error) {
	switch v := in.(type) {
	case nil:
		return Empty, nil
	case cty.Value:
		return v, nil
	case string:
		return cty.StringVal(v), nil
	case bool:
		return cty.BoolVal(v), nil
	case int:
		return cty.NumberIntVal(int64(v)), nil
	case int64:
		return cty.NumberIntVal(v), nil
	case float64:
		return floatVal(v)
	case json.Number:
		return cty.ParseNumberVal(v.String())
	case time.Time:
		return cty.StringVal(v.Format(time.RFC3339)), nil
	}
	return fromReflect(reflect.ValueOf(in))
}

func floatVal(f float64) (cty.Value, error) {
	if math.IsNaN(f) {
		return cty.NilVal, fmt.Errorf("value: NaN cannot be represented")
	}
	return cty.NumberFloatVal(f), nil
}

func fromReflect(rv reflect.Value) (cty.Value, error) {
	if !rv.IsValid() {
		return Empty, nil
	}
	if rv.Type() == ctyValueType {
		return rv.Interface().(cty.Value), nil
	}

	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return Empty, nil
		}
		return fromReflect(rv.Elem())
	case reflect.String:
		return cty.StringVal(rv.String()), nil
	case reflect.Bool:
		return cty.BoolVal(rv.Bool()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return cty.NumberIntVal(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return cty.NumberUIntVal(rv.Uint()), nil
	case reflect.Float32, reflect.Float64:
		return floatVal(rv.Float())
	case reflect.Slice:
		if rv.IsNil() {
			return Empty, nil
		}
		return fromSequence(rv)
	case reflect.Array:
		return fromSequence(rv)
	case reflect.Map:
		if rv.IsNil() {
			return Empty, nil
		}
		return fromMap(rv)
	case reflect.Struct:
		if t, ok := rv.Interface().(time.Time); ok {
			return cty.StringVal(t.Format(time.RFC3339)), nil
		}
		return fromStruct(rv)
	}
	return cty.NilVal, fmt.Errorf("value: unsupported Go type %s", rv.Type())
}

func fromSequence(rv reflect.Value) (cty.Value, error) {
	if rv.Len() == 0 {
		return cty.EmptyTupleVal, nil
	}
	elems := make([]cty.Value, rv.Len())
	for i := range elems {
		ev, err := fromReflect(rv.Index(i))
		if err != nil {
			return cty.NilVal, fmt.Errorf("[%d]: %w", i, err)
		}
		elems[i] = ev
	}
	return cty.TupleVal(elems), nil
}

func fromMap(rv reflect.Value) (cty.Value, error) {
	if rv.Type().Key().Kind() != reflect.String {
		return cty.NilVal, fmt.Errorf("value: map key type %s is not a string", rv.Type().Key())
	}
	attrs := make(map[string]cty.Value, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		k := iter.Key().String()
		ev, err := fromReflect(iter.Value())
		if err != nil {
			return cty.NilVal, fmt.Errorf("%s: %w", k, err)
		}
		attrs[k] = ev
	}
	return cty.ObjectVal(attrs), nil
}

func fromStruct(rv reflect.Value) (cty.Value, error) {
	rt := rv.Type()
	tagged := false
	for i := 0; i < rt.NumField(); i++ {
		if _, ok := rt.Field(i).Tag.Lookup("cty"); ok {
			tagged = true
			break
		}
	}
	if tagged {
		ty, err := gocty.ImpliedType(rv.Interface())
		if err != nil {
			return cty.NilVal, fmt.Errorf("value: unable to infer cty.Type: %w", err)
		}
		return gocty.ToCtyValue(rv.Interface(), ty)
	}

	attrs := make(map[string]cty.Value, rt.NumField())
	for i := 0; i < rt.NumField(); i++ {
		f := rt.Field(i)
		if !f.IsExported() {
			continue
		}
		fv, err := fromReflect(rv.Field(i))
		if err != nil {
			return cty.NilVal, fmt.Errorf("%s: %w", f.Name, err)
		}
		attrs[f.Name] = fv
	}
	return cty.ObjectVal(attrs), nil
}
