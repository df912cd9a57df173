// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tiled

import (
	"fmt"
	"math"

	"github.com/nlpodyssey/tiled/dtype"
	"github.com/nlpodyssey/tiled/layout"
)

// Arange returns a rank-1 row-major tensor holding the integers
// start, start+1, ..., stop-1, each converted to dt.
//
// It fails with ErrRange if start >= stop, and with ErrDType if dt
// is invalid.
func Arange(start, stop int64, dt dtype.DType) (Tensor, error) {
	return ArangeStep(start, stop, 1, dt)
}

// ArangeStep is like Arange, using the given positive step between
// consecutive values.
func ArangeStep(start, stop, step int64, dt dtype.DType) (Tensor, error) {
	if err := checkDType(dt); err != nil {
		return Tensor{}, err
	}
	if start >= stop {
		return Tensor{}, fmt.Errorf("%w: arange requires start < stop, got start=%d stop=%d", ErrRange, start, stop)
	}
	if step <= 0 {
		return Tensor{}, fmt.Errorf("%w: arange requires a positive step, got %d", ErrRange, step)
	}
	// The difference cannot overflow as an unsigned value since start < stop.
	count := (uint64(stop)-uint64(start)-1)/uint64(step) + 1
	if count > math.MaxInt {
		return Tensor{}, fmt.Errorf("%w: arange of %d elements is too large", ErrRange, count)
	}
	return fill(dt, layout.Shape{int(count)}, func(i int) uint64 {
		return dt.CastInt(start + int64(i)*step)
	})
}

// Full returns a row-major tensor of the given shape with every element
// set to value converted to dt.
func Full(value float64, dt dtype.DType, dims ...int) (Tensor, error) {
	if err := checkDType(dt); err != nil {
		return Tensor{}, err
	}
	bits := dt.CastFloat(value)
	return fill(dt, dims, func(int) uint64 { return bits })
}

// Zeros returns a row-major tensor of the given shape filled with zeros.
func Zeros(dt dtype.DType, dims ...int) (Tensor, error) {
	return Full(0, dt, dims...)
}

// Ones returns a row-major tensor of the given shape filled with ones.
func Ones(dt dtype.DType, dims ...int) (Tensor, error) {
	return Full(1, dt, dims...)
}

// Eye returns a rows x cols row-major matrix with ones on the main diagonal
// and zeros elsewhere.
func Eye(rows, cols int, dt dtype.DType) (Tensor, error) {
	if err := checkDType(dt); err != nil {
		return Tensor{}, err
	}
	one := dt.CastInt(1)
	return fill(dt, layout.Shape{rows, cols}, func(i int) uint64 {
		if i/cols == i%cols {
			return one
		}
		return dt.Zero()
	})
}

// FromFloat64s returns a row-major tensor of the given shape holding data
// converted to dt. The length of data must match the shape.
func FromFloat64s(dt dtype.DType, data []float64, dims ...int) (Tensor, error) {
	if err := checkDType(dt); err != nil {
		return Tensor{}, err
	}
	shape := layout.Shape(dims)
	if err := shape.Validate(); err != nil {
		return Tensor{}, fmt.Errorf("%w: %w", ErrShape, err)
	}
	if n := shape.Numel(); n != len(data) {
		return Tensor{}, fmt.Errorf("%w: shape %s holds %d elements, got %d values", ErrShape, shape, n, len(data))
	}
	return fill(dt, shape, func(i int) uint64 { return dt.CastFloat(data[i]) })
}

// fill builds a row-major tensor, computing the bits of each element
// from its row-major position.
func fill(dt dtype.DType, shape layout.Shape, value func(pos int) uint64) (Tensor, error) {
	m, err := layout.NewRowMajor(shape)
	if err != nil {
		return Tensor{}, fmt.Errorf("%w: %w", ErrShape, err)
	}
	t, err := newTensor(dt, m)
	if err != nil {
		return Tensor{}, err
	}
	for i, n := 0, m.RequiredSpanSize(); i < n; i++ {
		if bits := value(i); bits != 0 {
			dt.Store(t.data, i, bits)
		}
	}
	return t, nil
}

func checkDType(dt dtype.DType) error {
	if err := dt.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrDType, err)
	}
	return nil
}
