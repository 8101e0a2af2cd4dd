// Package cty2go converts between go-cty values and native Go values,
// the same conversion concern the teacher's HCL-driven config layer
// handles via zclconf/go-cty/cty/gocty, adapted here to decode the
// free-form "default"/bound attributes inside node-class manifests.
package cty2go

import (
	"fmt"

	"github.com/zclconf/go-cty/cty"
)

// ToNative converts a cty.Value into a plain Go value: float64, string,
// bool, or nil for cty.NilVal / null values. Lists of strings (used for
// enum option declarations) convert to []string.
func ToNative(v cty.Value) (any, error) {
	if !v.IsKnown() || v.IsNull() {
		return nil, nil
	}
	t := v.Type()
	switch {
	case t == cty.String:
		return v.AsString(), nil
	case t == cty.Bool:
		return v.True(), nil
	case t == cty.Number:
		f, _ := v.AsBigFloat().Float64()
		return f, nil
	case t.IsTupleType() || t.IsListType():
		out := make([]string, 0, v.LengthInt())
		it := v.ElementIterator()
		for it.Next() {
			_, ev := it.Element()
			s, err := ToNative(ev)
			if err != nil {
				return nil, err
			}
			str, ok := s.(string)
			if !ok {
				return nil, fmt.Errorf("cty2go: expected string element, got %T", s)
			}
			out = append(out, str)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("cty2go: unsupported cty type %s", t.FriendlyName())
	}
}

// FromNative converts a plain Go value (as produced by ToNative, or read
// back from a workspace file's JSON decode) into a cty.Value, used when
// re-encoding property defaults for schema comparisons.
func FromNative(v any) (cty.Value, error) {
	switch t := v.(type) {
	case nil:
		return cty.NilVal, nil
	case string:
		return cty.StringVal(t), nil
	case bool:
		return cty.BoolVal(t), nil
	case float64:
		return cty.NumberFloatVal(t), nil
	case int:
		return cty.NumberIntVal(int64(t)), nil
	case int64:
		return cty.NumberIntVal(t), nil
	case []string:
		vals := make([]cty.Value, len(t))
		for i, s := range t {
			vals[i] = cty.StringVal(s)
		}
		if len(vals) == 0 {
			return cty.ListValEmpty(cty.String), nil
		}
		return cty.ListVal(vals), nil
	default:
		return cty.NilVal, fmt.Errorf("cty2go: unsupported native type %T", v)
	}
}
