// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package header

import (
	"encoding/json"
	"testing"

	"github.com/nlpodyssey/tiled/dtype"
	"github.com/nlpodyssey/tiled/layout"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	_ json.Marshaler   = Header{}
	_ json.Unmarshaler = &Header{}
	_ json.Marshaler   = Tensor{}
	_ json.Marshaler   = DataOffsets{}
)

func TestHeader_UnmarshalJSON(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		data := []byte(`{"foo": {"dtype": "U8", "shape": [2, 3], "data_offsets": [0, 6]},` +
			`"bar": {"dtype": "F32", "shape": [5, 5], "layout": {"kind": "tiled", "tile_extent": 2}, "data_offsets": [6, 150]},` +
			`"__metadata__": {"foo": "bar"}}`)

		var h Header
		require.NoError(t, h.UnmarshalJSON(data))

		expected := Header{
			Metadata: Metadata{"foo": "bar"},
			Tensors: TensorMap{
				"foo": {Name: "foo", DType: dtype.Uint8, Shape: layout.Shape{2, 3}, DataOffsets: DataOffsets{0, 6}},
				"bar": {
					Name:        "bar",
					DType:       dtype.Float32,
					Shape:       layout.Shape{5, 5},
					Layout:      Layout{Kind: layout.Tiled, TileExtent: 2},
					DataOffsets: DataOffsets{6, 150},
				},
			},
		}
		assert.Equal(t, expected, h)
		assert.NoError(t, h.Validate())
	})

	t.Run("invalid JSON", func(t *testing.T) {
		var h Header
		require.Error(t, h.UnmarshalJSON([]byte("{}oh!")))
	})

	t.Run("invalid header content", func(t *testing.T) {
		var h Header
		require.Error(t, h.UnmarshalJSON([]byte(`{"foo": {"bar": "baz"}}`)))
	})
}

func TestHeader_MarshalJSON(t *testing.T) {
	h := Header{
		Metadata: Metadata{"k": "v"},
		Tensors: TensorMap{
			"b": {Name: "b", DType: dtype.BFloat16, Shape: layout.Shape{3, 5, 7}, Layout: Layout{Kind: layout.Tiled, TileExtent: 4}, DataOffsets: DataOffsets{2, 386}},
			"a": {Name: "a", DType: dtype.Int8, Shape: layout.Shape{2}, DataOffsets: DataOffsets{0, 2}},
		},
	}
	b, err := h.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t,
		`{"__metadata__":{"k":"v"},`+
			`"a":{"dtype":"I8","shape":[2],"data_offsets":[0,2]},`+
			`"b":{"dtype":"BF16","shape":[3,5,7],"layout":{"kind":"tiled","tile_extent":4},"data_offsets":[2,386]}}`,
		string(b))

	var back Header
	require.NoError(t, back.UnmarshalJSON(b))
	assert.Equal(t, h, back)

	b, err = Header{}.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(b))
}
