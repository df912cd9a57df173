// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package header

import (
	"fmt"
	"sort"

	"github.com/nlpodyssey/tiled/layout"
)

// Validate checks whether the content of a Header is valid, returning an
// error if a problem is encountered, otherwise nil.
//
// This validation can serve as an early isolated checking mechanism to
// identify bogus values before performing further actions that
// heavily depend upon the Header, such as reading tensors data from
// byte-buffer.
//
// The Header is checked against the following rules:
//
//   - ByteBufferOffset must not be negative
//   - each key in Tensors TensorMap must match the mapped Tensor.Name
//   - the union of DataOffsets of all Tensors must cover an entire contiguous
//     area of the byte-buffer, starting from offset 0
//   - DataOffsets of any pair of tensors must not overlap
//   - for each Tensor, its DataOffsets.Begin must be <= DataOffsets.End
//   - each Tensor's Shape must have at least one dimension, and only
//     positive values
//   - a tiled Layout requires a Shape of rank >= 2 and a TileExtent which
//     is a power of two; a row-major Layout requires a zero TileExtent
//   - for each Tensor, its explicit byte size described by DataOffsets
//     (End - Begin) must coincide with the implicit byte size computed
//     from Shape, Layout and DType (number of physical elements, padding
//     included, times the DType size)
//   - no overflow must occur during calculations at any step, making sure
//     that all computed values fit within the "int" type
func (h Header) Validate() error {
	if h.ByteBufferOffset < 0 {
		return fmt.Errorf("invalid byte-buffer offset negative value %d", h.ByteBufferOffset)
	}
	return validateTensors(h.Tensors)
}

func validateTensors(tm TensorMap) error {
	if err := validateTensorNames(tm); err != nil {
		return err
	}

	ts := tm.TensorSlice()
	sort.Sort(TensorSliceByDataOffsets{ts})

	expectedBegin := 0
	for _, t := range ts {
		if err := validateTensor(t, expectedBegin); err != nil {
			return fmt.Errorf("invalid tensor %q: %w", t.Name, err)
		}
		expectedBegin = t.DataOffsets.End
	}
	return nil
}

func validateTensorNames(tm TensorMap) error {
	for k, t := range tm {
		if k != t.Name {
			return fmt.Errorf("tensor names mismatch: TensorMap key %q, Tensor.Name %q", k, t.Name)
		}
	}
	return nil
}

func validateTensor(t Tensor, expectedBegin int) error {
	if t.DataOffsets.Begin != expectedBegin {
		return fmt.Errorf("expected data-offsets begin %d, actual %d", expectedBegin, t.DataOffsets.Begin)
	}
	if t.DataOffsets.End < t.DataOffsets.Begin {
		return fmt.Errorf("expected data-offsets end >= %d (begin), actual %d", t.DataOffsets.Begin, t.DataOffsets.End)
	}

	byteSize, err := byteSizeFromShape(t)
	if err != nil {
		return err
	}
	if offSize := t.DataOffsets.Size(); offSize != byteSize {
		return fmt.Errorf("byte size computed from shape (%d) differs from data-offsets size (%d)", byteSize, offSize)
	}
	return nil
}

func byteSizeFromShape(t Tensor) (int, error) {
	if err := t.DType.Validate(); err != nil {
		return 0, err
	}
	if t.Layout.Kind == layout.RowMajor && t.Layout.TileExtent != 0 {
		return 0, fmt.Errorf("row-major layout with tile extent %d", t.Layout.TileExtent)
	}
	n, err := layout.PhysicalSize(t.Layout.Kind, t.Shape, t.Layout.TileExtent)
	if err != nil {
		return 0, err
	}
	return layout.ByteSize(n, t.DType.Size())
}
