// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tiled

import (
	"errors"
	"testing"

	"github.com/nlpodyssey/tiled/dtype"
	"github.com/nlpodyssey/tiled/layout"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTensor_Pipe(t *testing.T) {
	src := mustTensor(t)(Arange(0, 12, dtype.Float32))

	x, err := src.Pipe()
	require.NoError(t, err)
	assert.Equal(t, src, x)

	x = mustTensor(t)(src.Pipe(Reshape(3, 4), ToTiledExtent(2), Reshape(4, 4)))
	assert.Equal(t, layout.Shape{4, 4}, x.Shape())
	assert.Equal(t, layout.Shape{12}, src.Shape(), "input is unchanged")
}

func TestTensor_Pipe_StopsAtFirstError(t *testing.T) {
	errBoom := errors.New("boom")
	calls := 0
	count := func(t Tensor) (Tensor, error) {
		calls++
		return t, nil
	}
	fail := func(Tensor) (Tensor, error) { return Tensor{}, errBoom }

	src := mustTensor(t)(Arange(0, 4, dtype.Int8))
	_, err := src.Pipe(count, fail, count)
	assert.Same(t, errBoom, err)
	assert.Equal(t, 1, calls)

	_, err = src.Pipe(Reshape(2), count)
	assert.ErrorIs(t, err, ErrShape)
	assert.Equal(t, 1, calls)
}

func TestCompose(t *testing.T) {
	step := Compose(Reshape(2, 2), ToTiledExtent(2), ToRowMajor())
	x := mustTensor(t)(From(Arange(0, 4, dtype.Int64)).Then(step).Tensor())
	assert.Equal(t, []float64{0, 1, 2, 3}, x.Float64s())

	empty := Compose()
	y := mustTensor(t)(empty(x))
	assert.True(t, y.SharesStorage(x))
}

func TestPipeline(t *testing.T) {
	p := From(Arange(1, 106, dtype.BFloat16)).Then(Reshape(3, 5, 7)).Then(ToTiledExtent(4))
	require.NoError(t, p.Err())
	x, err := p.Tensor()
	require.NoError(t, err)
	assert.Equal(t, layout.Tiled, x.Layout())

	p = From(Arange(3, 1, dtype.BFloat16)).Then(Reshape(3, 5, 7))
	assert.ErrorIs(t, p.Err(), ErrRange)
	_, err = p.Tensor()
	assert.ErrorIs(t, err, ErrRange)

	calls := 0
	p = From(Arange(0, 4, dtype.BFloat16)).
		Then(Reshape(3)).
		Then(func(t Tensor) (Tensor, error) { calls++; return t, nil })
	assert.ErrorIs(t, p.Err(), ErrShape)
	assert.Zero(t, calls)
}

func TestTransforms_Uninitialized(t *testing.T) {
	for _, step := range []Transform{Reshape(2), ToTiledExtent(2), ToRowMajor()} {
		_, err := Tensor{}.Pipe(step)
		assert.ErrorIs(t, err, ErrShape)
		assert.ErrorContains(t, err, "uninitialized tensor")
	}
}
