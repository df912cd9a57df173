// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package layout

// RowMajorMapping is the Mapping of unpadded row-major storage.
type RowMajorMapping struct {
	extents Shape
	strides []int
}

var _ Mapping = RowMajorMapping{}

// NewRowMajor returns the row-major Mapping of the given extents.
func NewRowMajor(extents Shape) (RowMajorMapping, error) {
	if err := extents.Validate(); err != nil {
		return RowMajorMapping{}, err
	}
	e := extents.Clone()
	return RowMajorMapping{extents: e, strides: e.Strides()}, nil
}

func (m RowMajorMapping) Kind() Kind      { return RowMajor }
func (m RowMajorMapping) Extents() Shape  { return m.extents }
func (m RowMajorMapping) Padded() Shape   { return m.extents }
func (m RowMajorMapping) TileExtent() int { return 0 }

// Offset returns the row-major element offset of index.
func (m RowMajorMapping) Offset(index []int) int {
	off := 0
	for i, v := range index {
		off += v * m.strides[i]
	}
	return off
}

// RequiredSpanSize is the number of logical elements.
func (m RowMajorMapping) RequiredSpanSize() int {
	return m.extents.Numel()
}

// IsExhaustive is always true for row-major storage.
func (m RowMajorMapping) IsExhaustive() bool {
	return true
}
