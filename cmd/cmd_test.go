// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/nlpodyssey/tiled"
	"github.com/nlpodyssey/tiled/dtype"
	"github.com/nlpodyssey/tiled/layout"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cli := NewCLI()
	cli.SetOut(&out)
	cli.SetErr(&errOut)
	cli.SetArgs(args)
	err := cli.Execute()
	return out.String(), err
}

func TestDemo(t *testing.T) {
	want, err := os.ReadFile(filepath.Join("testdata", "demo.golden"))
	require.NoError(t, err)

	got, err := run(t, "demo", "--tile", "4")
	require.NoError(t, err)
	if diff := cmp.Diff(string(want), got); diff != "" {
		t.Errorf("demo output mismatch (-want +got):\n%s", diff)
	}
}

func TestDemo_Tile(t *testing.T) {
	got, err := run(t, "demo", "--tile", "8", "--width", "0")
	require.NoError(t, err)
	assert.Contains(t, got, "3x8x8:\n")
	assert.Contains(t, got, "3x1x1x8x8:\n")

	_, err = run(t, "demo", "--tile", "3")
	assert.ErrorIs(t, err, tiled.ErrTileExtent)
}

func TestEval(t *testing.T) {
	got, err := run(t, "eval", "arange(1, 7, int8) | reshape(2, 3)")
	require.NoError(t, err)
	assert.Equal(t, "tensor([[1, 2, 3],\n        [4, 5, 6]])\n", got)

	got, err = run(t, "eval", "--width", "2", "eye(2, 2)")
	require.NoError(t, err)
	assert.Equal(t, "tensor([[ 1,  0],\n        [ 0,  1]])\n", got)

	got, err = run(t, "eval", "--info", "arange(0, 6, int8) | reshape(2, 3) | to_tiled(2)")
	require.NoError(t, err)
	assert.Equal(t,
		"dtype=int8 shape=(2, 3) layout=tiled tile=2 physical=(2, 4)\n"+
			"tensor([[0, 1, 2],\n        [3, 4, 5]])\n",
		got)

	_, err = run(t, "eval", "arange(0, 6) | reshape(5)")
	assert.ErrorIs(t, err, tiled.ErrShape)

	_, err = run(t, "eval", "nothing")
	assert.ErrorContains(t, err, "invalid step")
}

func TestEvalSaveShow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "x.safetensors")

	_, err := run(t, "eval", "--save", path, "--name", "w", "arange(0, 6, int8) | reshape(2, 3) | to_tiled(2)")
	require.NoError(t, err)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	lf, err := tiled.OpenLazy(f, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"w"}, lf.Names())
	w, err := lf.Tensor("w")
	require.NoError(t, err)
	assert.Equal(t, layout.Shape{2, 4}, w.PhysicalShape())
	assert.Equal(t, []float64{0, 1, 2, 3, 4, 5}, w.Float64s())

	got, err := run(t, "show", path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(got), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, []string{"NAME", "DTYPE", "SHAPE", "LAYOUT", "TILE", "BYTES"}, strings.Fields(lines[0]))
	assert.Equal(t, []string{"w", "int8", "(2,", "3)", "tiled", "2", "8"}, strings.Fields(lines[1]))

	got, err = run(t, "show", "--values", path)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(got, "\nw:\ntensor([[0, 1, 2],\n        [3, 4, 5]])\n"), got)

	_, err = run(t, "show", filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

func TestShow_Metadata(t *testing.T) {
	path := filepath.Join(t.TempDir(), "m.safetensors")
	x, err := tiled.Arange(0, 3, dtype.Float32)
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, tiled.Save(&buf, map[string]tiled.Tensor{"x": x}, map[string]string{"format": "pt"}))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o600))

	got, err := run(t, "show", path)
	require.NoError(t, err)
	assert.Contains(t, got, "row_major")
	assert.Contains(t, got, "KEY")
	assert.Contains(t, got, "format")
	assert.Contains(t, got, "pt")
}

func TestDTypes(t *testing.T) {
	got, err := run(t, "dtypes")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(got), "\n")
	require.Len(t, lines, 11)
	assert.Equal(t, []string{"NAME", "CODE", "SIZE"}, strings.Fields(lines[0]))
	assert.Equal(t, []string{"bool", "BOOL", "1"}, strings.Fields(lines[1]))
	assert.Equal(t, []string{"bfloat16", "BF16", "2"}, strings.Fields(lines[8]))
}

func TestEnv(t *testing.T) {
	t.Setenv("TILED_TILE_EXTENT", "8")
	got, err := run(t, "env")
	require.NoError(t, err)
	var found bool
	for _, line := range strings.Split(got, "\n") {
		if fields := strings.Fields(line); len(fields) > 1 && fields[0] == "TILED_TILE_EXTENT" {
			found = true
			assert.Equal(t, "8", fields[1])
		}
	}
	assert.True(t, found, got)
}
