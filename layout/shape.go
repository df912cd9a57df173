// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package layout

import (
	"encoding/json"
	"fmt"
	"math"
	"math/bits"
	"slices"
	"strconv"
	"strings"
)

// The Shape of a tensor: an ordered sequence of dimension sizes.
type Shape []int

// Validate checks that the Shape has at least one dimension, that every
// dimension is positive, and that the number of elements fits an int.
func (s Shape) Validate() error {
	if len(s) == 0 {
		return fmt.Errorf("shape must have at least one dimension")
	}
	size := uint(1)
	for i, v := range s {
		if v <= 0 {
			return fmt.Errorf("shape dimension %d must be positive, got %d", i, v)
		}
		var hi uint
		if hi, size = bits.Mul(size, uint(v)); hi != 0 || size > math.MaxInt {
			return fmt.Errorf("int overflow computing elements size of shape %s", s)
		}
	}
	return nil
}

// Numel returns the product of all dimensions.
// It does not check for overflow: call Validate first.
func (s Shape) Numel() int {
	n := 1
	for _, v := range s {
		n *= v
	}
	return n
}

// Rank returns the number of dimensions.
func (s Shape) Rank() int {
	return len(s)
}

// Equal reports whether s and o have the same dimensions.
func (s Shape) Equal(o Shape) bool {
	return slices.Equal(s, o)
}

// Clone returns a copy of the Shape.
func (s Shape) Clone() Shape {
	if s == nil {
		return nil
	}
	c := make(Shape, len(s))
	copy(c, s)
	return c
}

// String formats the Shape as "(3, 5, 7)".
func (s Shape) String() string {
	var sb strings.Builder
	sb.WriteByte('(')
	for i, v := range s {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(strconv.Itoa(v))
	}
	sb.WriteByte(')')
	return sb.String()
}

// MarshalJSON prevents a nil Shape to be serialized as "null",
// preferring an empty array "[]" instead.
func (s Shape) MarshalJSON() ([]byte, error) {
	if s == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]int(s))
}

// Strides returns the row-major strides, in elements, of a Shape.
func (s Shape) Strides() []int {
	strides := make([]int, len(s))
	acc := 1
	for i := len(s) - 1; i >= 0; i-- {
		strides[i] = acc
		acc *= s[i]
	}
	return strides
}

// Unravel converts a row-major linear position into a multi-index,
// writing the result into index, which must have the same length as s.
func (s Shape) Unravel(pos int, index []int) {
	for i := len(s) - 1; i >= 0; i-- {
		index[i] = pos % s[i]
		pos /= s[i]
	}
}

// CheckIndex returns an error if index is out of range for s.
func (s Shape) CheckIndex(index []int) error {
	if len(index) != len(s) {
		return fmt.Errorf("index rank %d does not match shape rank %d", len(index), len(s))
	}
	for i, v := range index {
		if v < 0 || v >= s[i] {
			return fmt.Errorf("index %d out of range [0, %d) at dimension %d", v, s[i], i)
		}
	}
	return nil
}
