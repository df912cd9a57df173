// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tiled

import (
	"fmt"

	"github.com/nlpodyssey/tiled/layout"
)

// Reshape returns a Transform changing the logical shape of a tensor.
// See Tensor.Reshape.
func Reshape(dims ...int) Transform {
	shape := layout.Shape(dims).Clone()
	return func(t Tensor) (Tensor, error) {
		return t.Reshape(shape...)
	}
}

// Reshape returns a tensor with the given logical shape.
//
// For a row-major tensor:
//   - the same number of elements yields a view sharing t's storage;
//   - a larger number of elements yields a new tensor holding t's elements
//     followed by zeros;
//   - a smaller number of elements fails with ErrShape.
//
// For a tiled tensor, the new shape describes its physical storage:
//   - the logical shape of t returns t itself;
//   - a shape (o..., h', w') equal to the physical shape, up to regrouping
//     of the outer dimensions, yields a tiled view which exposes padding
//     as ordinary elements;
//   - a shape (o..., h'/T, w'/T, T, T), with T the tile extent, yields a
//     row-major view of the tiles in storage order;
//   - any other shape fails with ErrShape.
func (t Tensor) Reshape(dims ...int) (Tensor, error) {
	if t.mapping == nil {
		return Tensor{}, errUninitialized
	}
	shape := layout.Shape(dims)
	if err := shape.Validate(); err != nil {
		return Tensor{}, fmt.Errorf("%w: %w", ErrShape, err)
	}
	if t.mapping.Kind() == layout.Tiled {
		return t.reshapeTiled(shape)
	}
	return t.reshapeRowMajor(shape)
}

func (t Tensor) reshapeRowMajor(shape layout.Shape) (Tensor, error) {
	n, want := t.Numel(), shape.Numel()
	if want < n {
		return Tensor{}, fmt.Errorf("%w: cannot reshape to fewer elements: %s holds %d, tensor has %d", ErrShape, shape, want, n)
	}
	m, err := layout.NewRowMajor(shape)
	if err != nil {
		return Tensor{}, fmt.Errorf("%w: %w", ErrShape, err)
	}
	if want == n {
		return t.view(m), nil
	}
	r, err := newTensor(t.dType, m)
	if err != nil {
		return Tensor{}, err
	}
	copy(r.data, t.data)
	return r, nil
}

func (t Tensor) reshapeTiled(shape layout.Shape) (Tensor, error) {
	if shape.Equal(t.mapping.Extents()) {
		return t, nil
	}

	padded := t.mapping.Padded()
	tile := t.mapping.TileExtent()
	if n, phys := shape.Numel(), padded.Numel(); n != phys {
		return Tensor{}, fmt.Errorf("%w: cannot reshape tiled tensor of physical shape %s to %s: %d elements, want %d",
			ErrShape, padded, shape, n, phys)
	}

	rank := len(padded)
	h, w := padded[rank-2], padded[rank-1]
	outer := padded[:rank-2].Numel()

	if trailingMatch(shape, h, w) && shape[:len(shape)-2].Numel() == outer {
		m, err := layout.NewTiled(shape, tile)
		if err != nil {
			return Tensor{}, fmt.Errorf("%w: %w", ErrShape, err)
		}
		return t.view(m), nil
	}

	if trailingMatch(shape, h/tile, w/tile, tile, tile) && shape[:len(shape)-4].Numel() == outer {
		m, err := layout.NewRowMajor(shape)
		if err != nil {
			return Tensor{}, fmt.Errorf("%w: %w", ErrShape, err)
		}
		return t.view(m), nil
	}

	return Tensor{}, fmt.Errorf("%w: incompatible reshape of tiled tensor: physical shape %s, tile extent %d, got %s",
		ErrShape, padded, tile, shape)
}

// trailingMatch reports whether the last dimensions of shape equal dims.
func trailingMatch(shape layout.Shape, dims ...int) bool {
	if len(shape) < len(dims) {
		return false
	}
	for i, d := range shape[len(shape)-len(dims):] {
		if d != dims[i] {
			return false
		}
	}
	return true
}
