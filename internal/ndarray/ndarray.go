// Package ndarray implements the numeric array value type that flows
// through ports, stores, and workspace persistence: a dtype-tagged,
// shaped buffer with a lossless JSON codec matching the wire contract
//
//	{"__array__": true, "dtype": "...", "shape": [...], "data": nested-list}
package ndarray

import (
	"encoding/json"
	"fmt"
)

// DType names the recognized element types. Only the vocabulary listed
// in the wire contract is supported; any other tag is rejected on decode.
type DType string

const (
	Float32 DType = "float32"
	Float64 DType = "float64"
	Int32   DType = "int32"
	Int64   DType = "int64"
	Bool    DType = "bool"
)

func (d DType) valid() bool {
	switch d {
	case Float32, Float64, Int32, Int64, Bool:
		return true
	}
	return false
}

// Array is a dense, row-major numeric buffer. Values are always stored
// as float64 internally regardless of DType; DType only governs display
// formatting and the round-trip tag written on save. This keeps the type
// simple while still reproducing byte-identical values after a
// save/load cycle, since the spec requires dtype/shape fidelity, not a
// distinct in-memory representation per dtype.
type Array struct {
	DType DType
	Shape []int
	Data  []float64
}

// New allocates a zeroed array of the given dtype and shape.
func New(dtype DType, shape []int) *Array {
	n := 1
	for _, d := range shape {
		n *= d
	}
	return &Array{DType: dtype, Shape: append([]int(nil), shape...), Data: make([]float64, n)}
}

// Clone returns a deep copy, so no two nodes ever observe the same
// mutable buffer across a tick handoff (§4.4 step 2).
func (a *Array) Clone() *Array {
	if a == nil {
		return nil
	}
	return &Array{
		DType: a.DType,
		Shape: append([]int(nil), a.Shape...),
		Data:  append([]float64(nil), a.Data...),
	}
}

// Len returns the total element count implied by Shape.
func (a *Array) Len() int {
	n := 1
	for _, d := range a.Shape {
		n *= d
	}
	return n
}

type wireForm struct {
	Marker bool            `json:"__array__"`
	DType  DType           `json:"dtype"`
	Shape  []int           `json:"shape"`
	Data   json.RawMessage `json:"data"`
}

// MarshalJSON encodes the array into nested lists matching Shape.
func (a Array) MarshalJSON() ([]byte, error) {
	nested, err := nest(a.Data, a.Shape)
	if err != nil {
		return nil, err
	}
	data, err := json.Marshal(nested)
	if err != nil {
		return nil, err
	}
	return json.Marshal(wireForm{Marker: true, DType: a.DType, Shape: a.Shape, Data: data})
}

// UnmarshalJSON reconstructs the array from its tagged wire form.
func (a *Array) UnmarshalJSON(b []byte) error {
	var w wireForm
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	if !w.Marker {
		return fmt.Errorf("ndarray: missing __array__ marker")
	}
	if !w.DType.valid() {
		return fmt.Errorf("ndarray: unknown dtype %q", w.DType)
	}
	var nested any
	if err := json.Unmarshal(w.Data, &nested); err != nil {
		return err
	}
	flat := make([]float64, 0, productOf(w.Shape))
	if err := flatten(nested, &flat); err != nil {
		return err
	}
	a.DType = w.DType
	a.Shape = w.Shape
	a.Data = flat
	return nil
}

func productOf(shape []int) int {
	n := 1
	for _, d := range shape {
		n *= d
	}
	return n
}

// nest converts a flat, row-major buffer into nested []any per shape.
func nest(data []float64, shape []int) (any, error) {
	if len(shape) == 0 {
		if len(data) != 1 {
			return nil, fmt.Errorf("ndarray: scalar shape requires exactly one value, got %d", len(data))
		}
		return data[0], nil
	}
	if len(shape) == 1 {
		out := make([]float64, shape[0])
		copy(out, data)
		return out, nil
	}
	stride := 1
	for _, d := range shape[1:] {
		stride *= d
	}
	out := make([]any, shape[0])
	for i := 0; i < shape[0]; i++ {
		chunk := data[i*stride : (i+1)*stride]
		sub, err := nest(chunk, shape[1:])
		if err != nil {
			return nil, err
		}
		out[i] = sub
	}
	return out, nil
}

// flatten walks a decoded JSON value (nested []any / numbers) into a
// flat row-major float64 slice.
func flatten(v any, out *[]float64) error {
	switch t := v.(type) {
	case float64:
		*out = append(*out, t)
	case bool:
		if t {
			*out = append(*out, 1)
		} else {
			*out = append(*out, 0)
		}
	case []any:
		for _, item := range t {
			if err := flatten(item, out); err != nil {
				return err
			}
		}
	default:
		return fmt.Errorf("ndarray: unexpected element %T in data", v)
	}
	return nil
}
