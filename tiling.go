// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tiled

import (
	"fmt"

	"github.com/nlpodyssey/tiled/layout"
)

// ToTiled returns a Transform converting a row-major tensor to the tiled
// layout, using the tile extent returned by DefaultTileExtent when ToTiled
// is called.
func ToTiled() Transform {
	return ToTiledExtent(DefaultTileExtent())
}

// ToTiledExtent returns a Transform converting a row-major tensor of rank
// >= 2 to the tiled layout with square tiles of side tile.
//
// The logical shape is unchanged. The last two dimensions are padded to
// the next multiple of tile, and padding is filled with zeros. Storage
// holds the tile grid of each outer slice in row-major order, and the
// elements of each tile in row-major order.
func ToTiledExtent(tile int) Transform {
	return func(t Tensor) (Tensor, error) {
		return t.toTiled(tile)
	}
}

// ToRowMajor returns a Transform copying the logical elements of a tiled
// tensor into new row-major storage, dropping padding.
// Row-major tensors are returned unchanged.
func ToRowMajor() Transform {
	return Tensor.toRowMajor
}

func (t Tensor) toTiled(tile int) (Tensor, error) {
	if !layout.IsPowerOfTwo(tile) {
		return Tensor{}, fmt.Errorf("%w: tile extent must be a positive power of two, got %d", ErrTileExtent, tile)
	}
	if t.mapping == nil {
		return Tensor{}, errUninitialized
	}
	if r := t.Rank(); r < 2 {
		return Tensor{}, fmt.Errorf("%w: tiling requires rank >= 2, got rank %d", ErrRank, r)
	}
	if t.mapping.Kind() == layout.Tiled {
		return Tensor{}, fmt.Errorf("%w: tensor is already tiled with tile extent %d", ErrShape, t.mapping.TileExtent())
	}

	m, err := layout.NewTiled(t.mapping.Extents(), tile)
	if err != nil {
		return Tensor{}, fmt.Errorf("%w: %w", ErrShape, err)
	}
	r, err := newTensor(t.dType, m)
	if err != nil {
		return Tensor{}, err
	}

	shape := m.Extents()
	rank := len(shape)
	h, w := shape[rank-2], shape[rank-1]
	outer := shape[:rank-2].Numel()
	gridRows, gridCols := m.Grid()
	size := t.dType.Size()

	// r.data is zero-filled, so only the in-range part of each tile row
	// is copied, as one contiguous run of the source row.
	dst := 0
	for o := 0; o < outer; o++ {
		base := o * h * w
		for tr := 0; tr < gridRows; tr++ {
			for tc := 0; tc < gridCols; tc++ {
				c0 := tc * tile
				run := min(tile, w-c0)
				for i := 0; i < tile; i++ {
					if row := tr*tile + i; row < h && run > 0 {
						src := base + row*w + c0
						copy(r.data[dst*size:(dst+run)*size], t.data[src*size:(src+run)*size])
					}
					dst += tile
				}
			}
		}
	}
	return r, nil
}

func (t Tensor) toRowMajor() (Tensor, error) {
	if t.mapping == nil {
		return Tensor{}, errUninitialized
	}
	if t.mapping.Kind() == layout.RowMajor {
		return t, nil
	}
	m, err := layout.NewRowMajor(t.mapping.Extents())
	if err != nil {
		return Tensor{}, fmt.Errorf("%w: %w", ErrShape, err)
	}
	r, err := newTensor(t.dType, m)
	if err != nil {
		return Tensor{}, err
	}
	pos := 0
	for _, bits := range t.bitsIter() {
		r.dType.Store(r.data, pos, bits)
		pos++
	}
	return r, nil
}
