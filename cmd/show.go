// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cmd

import (
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strconv"

	"github.com/nlpodyssey/tiled"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

// ShowHandler lists the tensors of a file without loading their data,
// unless --values is given.
func ShowHandler(cmd *cobra.Command, args []string) error {
	values, err := cmd.Flags().GetBool("values")
	if err != nil {
		return err
	}
	width, err := cmd.Flags().GetInt("width")
	if err != nil {
		return err
	}

	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	lf, err := tiled.OpenLazy(f, 0)
	if err != nil {
		return fmt.Errorf("failed to open %q: %w", args[0], err)
	}

	out := cmd.OutOrStdout()
	var data [][]string
	for _, name := range lf.Names() {
		ht, _ := lf.Info(name)
		tile := ""
		if ht.Layout.TileExtent != 0 {
			tile = strconv.Itoa(ht.Layout.TileExtent)
		}
		data = append(data, []string{
			name,
			ht.DType.String(),
			ht.Shape.String(),
			ht.Layout.Kind.String(),
			tile,
			strconv.Itoa(ht.DataOffsets.Size()),
		})
	}
	renderTable(out, []string{"NAME", "DTYPE", "SHAPE", "LAYOUT", "TILE", "BYTES"}, data)

	if md := lf.Metadata(); len(md) > 0 {
		var rows [][]string
		for _, k := range slices.Sorted(maps.Keys(md)) {
			rows = append(rows, []string{k, md[k]})
		}
		if _, err := fmt.Fprintln(out); err != nil {
			return err
		}
		renderTable(out, []string{"KEY", "VALUE"}, rows)
	}

	if !values {
		return nil
	}
	for _, name := range lf.Names() {
		t, err := lf.Tensor(name)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(out, "\n%s:\n", name); err != nil {
			return err
		}
		if err := printTensor(out, t, width); err != nil {
			return err
		}
	}
	return nil
}

func renderTable(w io.Writer, header []string, data [][]string) {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetNoWhiteSpace(true)
	table.SetTablePadding("    ")
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.AppendBulk(data)
	table.Render()
}
