// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cmd

import (
	"fmt"
	"maps"
	"slices"
	"strconv"

	"github.com/nlpodyssey/tiled/dtype"
	"github.com/nlpodyssey/tiled/envconfig"
	"github.com/spf13/cobra"
)

// DTypesHandler lists every supported data type.
func DTypesHandler(cmd *cobra.Command, args []string) error {
	var data [][]string
	for _, dt := range dtype.All {
		data = append(data, []string{dt.String(), dt.Code(), strconv.Itoa(dt.Size())})
	}
	renderTable(cmd.OutOrStdout(), []string{"NAME", "CODE", "SIZE"}, data)
	return nil
}

// EnvHandler lists the configuration variables and their current values.
func EnvHandler(cmd *cobra.Command, args []string) error {
	vars := envconfig.AsMap()
	var data [][]string
	for _, k := range slices.Sorted(maps.Keys(vars)) {
		v := vars[k]
		data = append(data, []string{v.Name, fmt.Sprintf("%v", v.Value), v.Description})
	}
	renderTable(cmd.OutOrStdout(), []string{"NAME", "VALUE", "DESCRIPTION"}, data)
	return nil
}
