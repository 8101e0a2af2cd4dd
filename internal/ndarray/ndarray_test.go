package ndarray_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minicortex/core/internal/ndarray"
)

func TestMarshalJSON_TagsShapeAndData(t *testing.T) {
	a := &ndarray.Array{DType: ndarray.Float64, Shape: []int{2, 2}, Data: []float64{1, 2, 3, 4}}

	raw, err := json.Marshal(a)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, true, decoded["__array__"])
	assert.Equal(t, "float64", decoded["dtype"])
	assert.Equal(t, []any{[]any{1.0, 2.0}, []any{3.0, 4.0}}, decoded["data"])
}

func TestRoundTrip_PreservesShapeAndData(t *testing.T) {
	original := &ndarray.Array{DType: ndarray.Int32, Shape: []int{3}, Data: []float64{5, 6, 7}}

	raw, err := json.Marshal(original)
	require.NoError(t, err)

	var got ndarray.Array
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, original.DType, got.DType)
	assert.Equal(t, original.Shape, got.Shape)
	assert.Equal(t, original.Data, got.Data)
}

func TestUnmarshalJSON_RejectsMissingMarker(t *testing.T) {
	var got ndarray.Array
	err := json.Unmarshal([]byte(`{"dtype":"float64","shape":[1],"data":[1]}`), &got)
	require.Error(t, err)
}

func TestUnmarshalJSON_RejectsUnknownDType(t *testing.T) {
	var got ndarray.Array
	err := json.Unmarshal([]byte(`{"__array__":true,"dtype":"complex128","shape":[1],"data":[1]}`), &got)
	require.Error(t, err)
}

func TestClone_IsIndependentOfSource(t *testing.T) {
	original := ndarray.New(ndarray.Float64, []int{2})
	original.Data[0] = 9

	clone := original.Clone()
	clone.Data[0] = 0

	assert.Equal(t, 9.0, original.Data[0])
	assert.Equal(t, 0.0, clone.Data[0])
}

func TestNew_AllocatesZeroedBufferSizedByShape(t *testing.T) {
	a := ndarray.New(ndarray.Bool, []int{2, 3})
	assert.Equal(t, 6, a.Len())
	assert.Equal(t, make([]float64, 6), a.Data)
}
