// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/nlpodyssey/tiled"
	"github.com/nlpodyssey/tiled/dtype"
	"github.com/nlpodyssey/tiled/layout"
	"github.com/spf13/cobra"
)

// DemoHandler tiles a 3x5x7 bfloat16 tensor and prints it together with
// its padded view and its tile-grid view.
func DemoHandler(cmd *cobra.Command, args []string) error {
	width, err := cmd.Flags().GetInt("width")
	if err != nil {
		return err
	}
	tile, err := cmd.Flags().GetInt("tile")
	if err != nil {
		return err
	}

	toTiled := tiled.ToTiled()
	if tile != 0 {
		toTiled = tiled.ToTiledExtent(tile)
	}
	x, err := tiled.From(tiled.Arange(1, 106, dtype.BFloat16)).
		Then(tiled.Reshape(3, 5, 7), toTiled).
		Tensor()
	if err != nil {
		return err
	}
	slog.Debug("tiled tensor", "shape", x.Shape(), "physical", x.PhysicalShape(), "tile", x.TileExtent())

	padded, err := x.Reshape(x.PhysicalShape()...)
	if err != nil {
		return err
	}
	grid, err := x.Reshape(tileGrid(x.PhysicalShape(), x.TileExtent())...)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, t := range []tiled.Tensor{x, padded, grid} {
		if _, err := fmt.Fprintf(out, "%s:\n", dimsLabel(t.Shape())); err != nil {
			return err
		}
		if err := printTensor(out, t, width); err != nil {
			return err
		}
	}
	return nil
}

// tileGrid returns the shape exposing every tile of a padded shape as its
// own trailing TxT block.
func tileGrid(padded layout.Shape, tile int) []int {
	r := len(padded)
	dims := append([]int{}, padded[:r-2]...)
	return append(dims, padded[r-2]/tile, padded[r-1]/tile, tile, tile)
}

func dimsLabel(s layout.Shape) string {
	parts := make([]string, len(s))
	for i, d := range s {
		parts[i] = strconv.Itoa(d)
	}
	return strings.Join(parts, "x")
}

func printTensor(w io.Writer, t tiled.Tensor, width int) error {
	var err error
	if width > 0 {
		_, err = fmt.Fprintf(w, "%*v\n", width, t)
	} else {
		_, err = fmt.Fprintf(w, "%v\n", t)
	}
	return err
}
