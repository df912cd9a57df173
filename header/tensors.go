// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package header

import (
	"encoding/json"

	"github.com/nlpodyssey/tiled/dtype"
	"github.com/nlpodyssey/tiled/layout"
)

// Tensor provides properties of a tensor, as described within a header.
type Tensor struct {
	Name  string
	DType dtype.DType
	// Shape is the logical shape of the tensor.
	Shape       layout.Shape
	Layout      Layout
	DataOffsets DataOffsets
}

// Layout describes the physical layout of the tensor data.
// The zero value is the row-major layout.
type Layout struct {
	Kind layout.Kind `json:"kind"`
	// TileExtent is the tile side of tiled layouts, 0 otherwise.
	TileExtent int `json:"tile_extent,omitempty"`
}

// MarshalJSON serializes the Tensor as a header entry. The "layout" entry
// is only present for non row-major layouts.
func (t Tensor) MarshalJSON() ([]byte, error) {
	type entry struct {
		DType       dtype.DType  `json:"dtype"`
		Shape       layout.Shape `json:"shape"`
		Layout      *Layout      `json:"layout,omitempty"`
		DataOffsets DataOffsets  `json:"data_offsets"`
	}
	e := entry{DType: t.DType, Shape: t.Shape, DataOffsets: t.DataOffsets}
	if t.Layout.Kind != layout.RowMajor {
		e.Layout = &t.Layout
	}
	return json.Marshal(e)
}

// TensorMap is a set of Tensor objects mapped by their name.
type TensorMap map[string]Tensor

// TensorSlice is a slice of Tensor objects.
type TensorSlice []Tensor

// TensorSliceByDataOffsets implements sort.Interface allowing to sort a
// TensorSlice by ascending DataOffsets values.
// It provides Less, while using Len and Swap methods of the embedded
// TensorSlice value.
type TensorSliceByDataOffsets struct{ TensorSlice }

// TensorSlice creates an unsorted slice of Tensor objects filled with
// all values of the TensorMap.
func (tm TensorMap) TensorSlice() TensorSlice {
	if len(tm) == 0 {
		return nil
	}
	ts := make(TensorSlice, 0, len(tm))
	for _, t := range tm {
		ts = append(ts, t)
	}
	return ts
}

// Len is the number of elements in the collection.
func (ts TensorSlice) Len() int {
	return len(ts)
}

// Swap swaps the elements with indexes i and j.
func (ts TensorSlice) Swap(i, j int) {
	ts[i], ts[j] = ts[j], ts[i]
}

// Less reports whether the Tensor with index i must sort before the Tensor
// with index j, according to their DataOffsets.
func (t TensorSliceByDataOffsets) Less(i, j int) bool {
	return t.TensorSlice[i].DataOffsets.Less(t.TensorSlice[j].DataOffsets)
}
