// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tiled

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Dot returns the inner product of two rank-1 tensors of equal length,
// computed in float64.
func Dot(a, b Tensor) (float64, error) {
	if err := checkOperands(a, b); err != nil {
		return 0, err
	}
	if a.Rank() != 1 || b.Rank() != 1 {
		return 0, fmt.Errorf("%w: dot requires rank-1 operands, got ranks %d and %d", ErrRank, a.Rank(), b.Rank())
	}
	if a.Numel() != b.Numel() {
		return 0, fmt.Errorf("%w: dot of lengths %d and %d", ErrShape, a.Numel(), b.Numel())
	}
	return floats.Dot(a.Float64s(), b.Float64s()), nil
}

// MatMul returns the matrix product of a (m x k) and b (k x n) as a new
// row-major (m x n) tensor of the operands' DType. The product is computed
// in float64 and converted back.
func MatMul(a, b Tensor) (Tensor, error) {
	if err := checkOperands(a, b); err != nil {
		return Tensor{}, err
	}
	if a.Rank() != 2 || b.Rank() != 2 {
		return Tensor{}, fmt.Errorf("%w: matmul requires rank-2 operands, got ranks %d and %d", ErrRank, a.Rank(), b.Rank())
	}
	as, bs := a.mapping.Extents(), b.mapping.Extents()
	if as[1] != bs[0] {
		return Tensor{}, fmt.Errorf("%w: matmul of %s and %s", ErrShape, as, bs)
	}

	var c mat.Dense
	c.Mul(mat.NewDense(as[0], as[1], a.Float64s()), mat.NewDense(bs[0], bs[1], b.Float64s()))
	return FromFloat64s(a.dType, c.RawMatrix().Data, as[0], bs[1])
}

// AllClose reports whether a and b have the same shape and every pair of
// corresponding elements differs by at most tol, either absolutely or
// relatively.
func AllClose(a, b Tensor, tol float64) (bool, error) {
	if err := checkOperands(a, b); err != nil {
		return false, err
	}
	if as, bs := a.mapping.Extents(), b.mapping.Extents(); !as.Equal(bs) {
		return false, fmt.Errorf("%w: cannot compare %s and %s", ErrShape, as, bs)
	}
	return floats.EqualApprox(a.Float64s(), b.Float64s(), tol), nil
}

func checkOperands(a, b Tensor) error {
	if a.mapping == nil || b.mapping == nil {
		return errUninitialized
	}
	if a.dType != b.dType {
		return fmt.Errorf("%w: operands have types %s and %s", ErrDType, a.dType, b.dType)
	}
	return nil
}
