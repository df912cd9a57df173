// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/nlpodyssey/tiled"
	"github.com/spf13/cobra"
)

// EvalHandler evaluates the expression given as argument and prints the
// resulting tensor, optionally saving it to a file.
func EvalHandler(cmd *cobra.Command, args []string) error {
	e, err := parseExpr(args[0])
	if err != nil {
		return err
	}
	t, err := e.eval()
	if err != nil {
		return err
	}

	width, err := cmd.Flags().GetInt("width")
	if err != nil {
		return err
	}
	info, err := cmd.Flags().GetBool("info")
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if info {
		if _, err := fmt.Fprintln(out, describe(t)); err != nil {
			return err
		}
	}
	if err := printTensor(out, t, width); err != nil {
		return err
	}

	path, err := cmd.Flags().GetString("save")
	if err != nil || path == "" {
		return err
	}
	name, err := cmd.Flags().GetString("name")
	if err != nil {
		return err
	}
	return saveTensor(path, name, t)
}

func describe(t tiled.Tensor) string {
	s := fmt.Sprintf("dtype=%s shape=%s layout=%s", t.DType(), t.Shape(), t.Layout())
	if t.TileExtent() != 0 {
		s += fmt.Sprintf(" tile=%d physical=%s", t.TileExtent(), t.PhysicalShape())
	}
	return s
}

func saveTensor(path, name string, t tiled.Tensor) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if e := f.Close(); e != nil && err == nil {
			err = e
		}
	}()

	if err := tiled.Save(f, map[string]tiled.Tensor{name: t}, nil); err != nil {
		return fmt.Errorf("failed to save %q: %w", path, err)
	}
	slog.Info("tensor saved", "path", path, "name", name, "bytes", t.PhysicalLen()*t.DType().Size())
	return nil
}
