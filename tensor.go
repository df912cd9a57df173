// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tiled

import (
	"fmt"
	"iter"

	"github.com/nlpodyssey/tiled/dtype"
	"github.com/nlpodyssey/tiled/float16"
	"github.com/nlpodyssey/tiled/layout"
)

// A Tensor is an immutable n-dimensional array of elements of a single
// DType, stored in a byte buffer according to a layout.Mapping.
//
// Tensors are values: transformations never modify their input, and the
// buffer may be shared by several views. Since the buffer is never written
// after construction, a Tensor is safe for concurrent use by multiple
// goroutines.
//
// The zero value is not a valid Tensor; tensors are obtained from the
// constructors of this package (see Arange, Full, FromFloat64s) or from Load.
type Tensor struct {
	dType   dtype.DType
	mapping layout.Mapping
	// data holds exactly mapping.RequiredSpanSize() elements of dType,
	// little-endian.
	data []byte
}

// newTensor allocates zero-filled storage for the given mapping.
func newTensor(dt dtype.DType, m layout.Mapping) (Tensor, error) {
	size, err := layout.ByteSize(m.RequiredSpanSize(), dt.Size())
	if err != nil {
		return Tensor{}, fmt.Errorf("%w: %w", ErrShape, err)
	}
	return Tensor{dType: dt, mapping: m, data: make([]byte, size)}, nil
}

// view returns a Tensor sharing t's storage, interpreted through m.
func (t Tensor) view(m layout.Mapping) Tensor {
	return Tensor{dType: t.dType, mapping: m, data: t.data}
}

// DType returns the data type of the tensor elements.
func (t Tensor) DType() dtype.DType {
	return t.dType
}

// Shape returns a copy of the logical shape.
func (t Tensor) Shape() layout.Shape {
	return t.mapping.Extents().Clone()
}

// Rank returns the number of dimensions.
func (t Tensor) Rank() int {
	return len(t.mapping.Extents())
}

// Numel returns the number of logical elements.
func (t Tensor) Numel() int {
	return t.mapping.Extents().Numel()
}

// Layout returns the kind of physical layout.
func (t Tensor) Layout() layout.Kind {
	return t.mapping.Kind()
}

// TileExtent returns the tile side of a tiled tensor, or 0.
func (t Tensor) TileExtent() int {
	return t.mapping.TileExtent()
}

// PhysicalShape returns a copy of the shape of the storage, that is the
// logical shape with the last two dimensions padded for tiled tensors.
func (t Tensor) PhysicalShape() layout.Shape {
	return t.mapping.Padded().Clone()
}

// PhysicalLen returns the number of stored elements, padding included.
func (t Tensor) PhysicalLen() int {
	return t.mapping.RequiredSpanSize()
}

// Bytes returns a copy of the physical storage.
func (t Tensor) Bytes() []byte {
	return append([]byte(nil), t.data...)
}

// Bits returns the bit pattern of the element at the given logical index.
// It panics if the index is out of range.
func (t Tensor) Bits(index ...int) uint64 {
	if err := t.mapping.Extents().CheckIndex(index); err != nil {
		panic(err)
	}
	return t.dType.Load(t.data, t.mapping.Offset(index))
}

// At returns the value of the element at the given logical index.
// It panics if the index is out of range.
func (t Tensor) At(index ...int) float64 {
	return t.dType.Decode(t.Bits(index...))
}

// bitsIter yields the bit pattern of every logical element in row-major
// order, along with its multi-index. The index slice is reused.
func (t Tensor) bitsIter() iter.Seq2[[]int, uint64] {
	return func(yield func([]int, uint64) bool) {
		shape := t.mapping.Extents()
		index := make([]int, len(shape))
		flat := t.mapping.Kind() == layout.RowMajor
		for pos, n := 0, shape.Numel(); pos < n; pos++ {
			shape.Unravel(pos, index)
			off := pos
			if !flat {
				off = t.mapping.Offset(index)
			}
			if !yield(index, t.dType.Load(t.data, off)) {
				return
			}
		}
	}
}

// Values returns an iterator over the logical elements in row-major order.
// Padding is never visited. The iterator can be used more than once.
func (t Tensor) Values() iter.Seq[float64] {
	return func(yield func(float64) bool) {
		for _, b := range t.bitsIter() {
			if !yield(t.dType.Decode(b)) {
				return
			}
		}
	}
}

// Indexed returns an iterator over the logical elements in row-major order,
// along with their multi-index. The index slice is reused between
// iterations and must be copied to be retained.
func (t Tensor) Indexed() iter.Seq2[[]int, float64] {
	return func(yield func([]int, float64) bool) {
		for index, b := range t.bitsIter() {
			if !yield(index, t.dType.Decode(b)) {
				return
			}
		}
	}
}

// Float64s returns the logical elements in row-major order.
func (t Tensor) Float64s() []float64 {
	out := make([]float64, 0, t.Numel())
	for v := range t.Values() {
		out = append(out, v)
	}
	return out
}

// Float32s returns the logical elements in row-major order, converted
// to float32.
func (t Tensor) Float32s() []float32 {
	if t.dType == dtype.BFloat16 && t.mapping.Kind() == layout.RowMajor {
		return float16.DecodeBF16(t.data)
	}
	out := make([]float32, 0, t.Numel())
	for v := range t.Values() {
		out = append(out, float32(v))
	}
	return out
}

// Equal reports whether t and o have the same DType, the same logical shape,
// and bitwise identical elements in logical order. Layout and padding are
// not compared.
func (t Tensor) Equal(o Tensor) bool {
	if t.dType != o.dType || !t.mapping.Extents().Equal(o.mapping.Extents()) {
		return false
	}
	next, stop := iter.Pull2(o.bitsIter())
	defer stop()
	for _, a := range t.bitsIter() {
		_, b, ok := next()
		if !ok || a != b {
			return false
		}
	}
	return true
}

// SharesStorage reports whether t and o are views of the same buffer.
func (t Tensor) SharesStorage(o Tensor) bool {
	return len(t.data) > 0 && len(o.data) > 0 && &t.data[0] == &o.data[0]
}
