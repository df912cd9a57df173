// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tiled

import (
	"errors"
	"fmt"
)

// Errors reported by tensor construction and transformations.
// Returned errors wrap one of these values and can be tested with errors.Is.
var (
	// ErrRange reports invalid construction bounds.
	ErrRange = errors.New("invalid range")
	// ErrShape reports an element-count mismatch or a reshape that is
	// structurally incompatible with the source layout.
	ErrShape = errors.New("invalid shape")
	// ErrRank reports a tensor whose rank is not supported by an operation.
	ErrRank = errors.New("invalid rank")
	// ErrDType reports an invalid data type, or operands of different types.
	ErrDType = errors.New("invalid dtype")
	// ErrTileExtent reports a tile side that is not a positive power of two.
	ErrTileExtent = errors.New("invalid tile extent")
)

var errUninitialized = fmt.Errorf("%w: uninitialized tensor", ErrShape)
