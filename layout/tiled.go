// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package layout

import (
	"fmt"
	"math"
	"math/bits"
)

// TiledMapping is the Mapping of storage blocked into square tiles over
// the last two dimensions.
//
// The last two extents (h, w) are padded up to (h', w'), the next multiples
// of the tile side t. Each outer slice occupies h'*w' contiguous elements,
// holding the (h'/t)x(w'/t) grid of tiles in row-major order, and each tile
// holds its t*t elements in row-major order.
type TiledMapping struct {
	extents Shape
	padded  Shape
	tile    int
	// outerStrides are the strides of the outer (non-tiled) dimensions,
	// in elements, each outer slice spanning h'*w' elements.
	outerStrides []int
}

var _ Mapping = TiledMapping{}

// NewTiled returns the tiled Mapping of the given extents, using tiles of
// side tile. The extents must have rank >= 2 and tile must be a positive
// power of two.
func NewTiled(extents Shape, tile int) (TiledMapping, error) {
	if err := extents.Validate(); err != nil {
		return TiledMapping{}, err
	}
	if len(extents) < 2 {
		return TiledMapping{}, fmt.Errorf("tiled layout requires rank >= 2, got rank %d", len(extents))
	}
	if !IsPowerOfTwo(tile) {
		return TiledMapping{}, fmt.Errorf("tile extent must be a positive power of two, got %d", tile)
	}

	rank := len(extents)
	padded := extents.Clone()
	padded[rank-2] = NextMultiple(tile, extents[rank-2])
	padded[rank-1] = NextMultiple(tile, extents[rank-1])
	if err := padded.Validate(); err != nil {
		return TiledMapping{}, fmt.Errorf("padded shape %s: %w", padded, err)
	}

	sliceSize := padded[rank-2] * padded[rank-1]
	outer := make([]int, rank-2)
	acc := sliceSize
	for i := rank - 3; i >= 0; i-- {
		outer[i] = acc
		acc *= extents[i]
	}

	return TiledMapping{
		extents:      extents.Clone(),
		padded:       padded,
		tile:         tile,
		outerStrides: outer,
	}, nil
}

func (m TiledMapping) Kind() Kind      { return Tiled }
func (m TiledMapping) Extents() Shape  { return m.extents }
func (m TiledMapping) Padded() Shape   { return m.padded }
func (m TiledMapping) TileExtent() int { return m.tile }

// Grid returns the number of tile rows and tile columns of each outer slice.
func (m TiledMapping) Grid() (rows, cols int) {
	rank := len(m.padded)
	return m.padded[rank-2] / m.tile, m.padded[rank-1] / m.tile
}

// Offset returns the element offset of index within tiled storage.
func (m TiledMapping) Offset(index []int) int {
	rank := len(index)
	off := 0
	for i, s := range m.outerStrides {
		off += index[i] * s
	}
	t := m.tile
	row, col := index[rank-2], index[rank-1]
	return off +
		(row/t)*t*m.padded[rank-1] +
		(row%t)*t +
		(col/t)*t*t +
		col%t
}

// RequiredSpanSize is the number of physical elements, padding included.
func (m TiledMapping) RequiredSpanSize() int {
	return m.padded.Numel()
}

// IsExhaustive reports whether the last two extents need no padding.
func (m TiledMapping) IsExhaustive() bool {
	return m.extents.Equal(m.padded)
}

// PhysicalSize returns the number of physical elements needed to store
// the given extents with the given mapping kind and tile side,
// checking for overflow.
func PhysicalSize(kind Kind, extents Shape, tile int) (int, error) {
	switch kind {
	case RowMajor:
		if err := extents.Validate(); err != nil {
			return 0, err
		}
		return extents.Numel(), nil
	case Tiled:
		m, err := NewTiled(extents, tile)
		if err != nil {
			return 0, err
		}
		return m.RequiredSpanSize(), nil
	}
	return 0, fmt.Errorf("invalid Kind(%d)", kind)
}

// ByteSize multiplies a number of elements by an element size,
// checking for overflow.
func ByteSize(elements, elemSize int) (int, error) {
	hi, size := bits.Mul(uint(elements), uint(elemSize))
	if hi != 0 || size > math.MaxInt {
		return 0, fmt.Errorf("int overflow computing byte size of %d elements of size %d", elements, elemSize)
	}
	return int(size), nil
}
