// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cmd

import (
	"testing"

	"github.com/nlpodyssey/tiled"
	"github.com/nlpodyssey/tiled/dtype"
	"github.com/nlpodyssey/tiled/layout"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCall(t *testing.T) {
	testCases := []struct {
		src  string
		want call
	}{
		{"to_row_major()", call{name: "to_row_major"}},
		{"  reshape( 3 ,5, 7 ) ", call{name: "reshape", args: []string{"3", "5", "7"}}},
		{"arange(1,106,bfloat16)", call{name: "arange", args: []string{"1", "106", "bfloat16"}}},
		{"full(-1.5e2, 2)", call{name: "full", args: []string{"-1.5e2", "2"}}},
	}
	for _, tc := range testCases {
		got, err := parseCall(tc.src)
		require.NoError(t, err, tc.src)
		assert.Equal(t, tc.want, got, tc.src)
	}

	for _, src := range []string{"", "reshape", "reshape(3", "Reshape(3)", "reshape((3))", "1(2)"} {
		_, err := parseCall(src)
		assert.ErrorContains(t, err, "invalid step", src)
	}
}

func TestParseExpr(t *testing.T) {
	e, err := parseExpr("arange(1, 106, bfloat16) | reshape(3, 5, 7) | to_tiled(4)")
	require.NoError(t, err)
	require.Len(t, e.steps, 2)

	x, err := e.eval()
	require.NoError(t, err)
	assert.Equal(t, dtype.BFloat16, x.DType())
	assert.Equal(t, layout.Shape{3, 5, 7}, x.Shape())
	assert.Equal(t, layout.Tiled, x.Layout())
	assert.Equal(t, 4, x.TileExtent())
	assert.Equal(t, 105.0, x.At(2, 4, 6))
}

func TestParseExpr_Constructors(t *testing.T) {
	testCases := []struct {
		src    string
		dt     dtype.DType
		shape  layout.Shape
		values []float64
	}{
		{"arange(0, 4)", dtype.Float32, layout.Shape{4}, []float64{0, 1, 2, 3}},
		{"arange(-2, 7, 3, int16)", dtype.Int16, layout.Shape{3}, []float64{-2, 1, 4}},
		{"zeros(2, 2, U8)", dtype.Uint8, layout.Shape{2, 2}, []float64{0, 0, 0, 0}},
		{"ones(3, bool)", dtype.Bool, layout.Shape{3}, []float64{1, 1, 1}},
		{"full(2.5, 1, 2, float64)", dtype.Float64, layout.Shape{1, 2}, []float64{2.5, 2.5}},
		{"eye(2, 3, int32)", dtype.Int32, layout.Shape{2, 3}, []float64{1, 0, 0, 0, 1, 0}},
	}
	for _, tc := range testCases {
		e, err := parseExpr(tc.src)
		require.NoError(t, err, tc.src)
		x, err := e.eval()
		require.NoError(t, err, tc.src)
		assert.Equal(t, tc.dt, x.DType(), tc.src)
		assert.Equal(t, tc.shape, x.Shape(), tc.src)
		assert.Equal(t, tc.values, x.Float64s(), tc.src)
	}
}

func TestParseExpr_Transforms(t *testing.T) {
	e, err := parseExpr("arange(0, 35, int8) | reshape(5, 7) | to_tiled() | to_row_major() | reshape(36)")
	require.NoError(t, err)
	x, err := e.eval()
	require.NoError(t, err)
	assert.Equal(t, layout.RowMajor, x.Layout())
	assert.Equal(t, 36, x.Numel())
	assert.Equal(t, 0.0, x.At(35))

	e, err = parseExpr("arange(0, 35, int8) | reshape(5, 7) | to_tiled(4) | reshape(8, 8)")
	require.NoError(t, err)
	x, err = e.eval()
	require.NoError(t, err)
	assert.Equal(t, layout.Shape{8, 8}, x.Shape())
	assert.Equal(t, layout.Tiled, x.Layout())
}

func TestParseExpr_Errors(t *testing.T) {
	testCases := []struct {
		src    string
		errMsg string
	}{
		{"reshape(2, 2)", `step 1: expression must start with a constructor, got "reshape"`},
		{"random(3)", `step 1: unknown constructor "random"`},
		{"zeros(2) | ones(2)", "step 2: ones must be the first step"},
		{"zeros(2) | transpose()", `step 2: unknown transform "transpose"`},
		{"zero(2)", `step 1: unknown constructor "zero", did you mean "zeros"?`},
		{"zeros(2) | resahpe(2)", `step 2: unknown transform "resahpe", did you mean "reshape"?`},
		{"zeros(2) | reshape(2", `step 2: invalid step "reshape(2"`},
		{"arange(1)", "step 1: arange: expected start, stop and optional step, got 1 arguments"},
		{"arange(1, 2.5)", `step 1: arange: invalid integer "2.5"`},
		{"arange(1, 4, float8)", `step 1: arange: invalid DType string value "float8"`},
		{"full()", "step 1: full: missing fill value"},
		{"full(x, 2)", `step 1: full: invalid number "x"`},
		{"eye(2)", "step 1: eye: expected rows and cols, got 1 arguments"},
		{"zeros(2) | to_tiled(2, 2)", "step 2: to_tiled: expected optional tile extent, got 2 arguments"},
		{"zeros(2) | to_row_major(1)", "step 2: to_row_major: expected no arguments, got 1"},
	}
	for _, tc := range testCases {
		_, err := parseExpr(tc.src)
		assert.EqualError(t, err, tc.errMsg, tc.src)
	}
}

func TestParseExpr_EvalErrors(t *testing.T) {
	e, err := parseExpr("arange(0, 16) | to_tiled(4)")
	require.NoError(t, err)
	_, err = e.eval()
	assert.ErrorIs(t, err, tiled.ErrRank)

	e, err = parseExpr("arange(0, 16) | reshape(4, 4) | to_tiled(3)")
	require.NoError(t, err)
	_, err = e.eval()
	assert.ErrorIs(t, err, tiled.ErrTileExtent)

	e, err = parseExpr("arange(0, 16) | reshape(3, 5)")
	require.NoError(t, err)
	_, err = e.eval()
	assert.ErrorIs(t, err, tiled.ErrShape)
}
