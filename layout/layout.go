// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package layout maps logical tensor indices to physical storage positions,
// for plain row-major storage and for storage blocked into square tiles.
package layout

import (
	"fmt"
)

// Kind identifies a physical layout.
type Kind uint8

const (
	// RowMajor stores elements in row-major order with no padding.
	RowMajor Kind = iota
	// Tiled stores the last two dimensions as a row-major grid of square
	// tiles, each tile holding its elements in row-major order.
	Tiled
)

var kindToString = [...]string{
	RowMajor: "row_major",
	Tiled:    "tiled",
}

// String returns the name of the Kind.
func (k Kind) String() string {
	if int(k) >= len(kindToString) {
		return fmt.Sprintf("invalid Kind(%d)", k)
	}
	return kindToString[k]
}

// MarshalText satisfies encoding.TextMarshaler interface.
func (k Kind) MarshalText() ([]byte, error) {
	if int(k) >= len(kindToString) {
		return nil, fmt.Errorf("invalid Kind(%d)", k)
	}
	return []byte(kindToString[k]), nil
}

// UnmarshalText satisfies encoding.TextUnmarshaler interface.
func (k *Kind) UnmarshalText(text []byte) error {
	for i, s := range kindToString {
		if s == string(text) {
			*k = Kind(i)
			return nil
		}
	}
	return fmt.Errorf("failed to text-unmarshal Kind from value %q", text)
}

// A Mapping converts a logical multi-index into an element offset within
// physical storage.
type Mapping interface {
	Kind() Kind
	// Extents returns the logical shape. It must not be modified.
	Extents() Shape
	// Padded returns the physical shape, which differs from Extents only
	// when padding is present. It must not be modified.
	Padded() Shape
	// TileExtent is the tile side, or 0 for non-tiled mappings.
	TileExtent() int
	// Offset returns the element offset of an in-range index.
	Offset(index []int) int
	// RequiredSpanSize is the number of elements the storage must hold.
	RequiredSpanSize() int
	// IsExhaustive reports whether every storage element is reachable
	// from some logical index, that is, no padding exists.
	IsExhaustive() bool
}

// NextMultiple rounds n up to the next multiple of alignment.
func NextMultiple(alignment, n int) int {
	return ((alignment - 1 + n) / alignment) * alignment
}

// IsPowerOfTwo reports whether n is a positive power of two.
func IsPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}
