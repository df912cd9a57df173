// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package cmd implements the tiled command line interface.
package cmd

import (
	"fmt"
	"log/slog"

	"github.com/nlpodyssey/tiled/envconfig"
	"github.com/spf13/cobra"
)

func appendEnvDocs(cmd *cobra.Command, envs []envconfig.EnvVar) {
	if len(envs) == 0 {
		return
	}

	envUsage := `
Environment Variables:
`
	for _, e := range envs {
		envUsage += fmt.Sprintf("      %-24s   %s\n", e.Name, e.Description)
	}

	cmd.SetUsageTemplate(cmd.UsageTemplate() + envUsage)
}

// NewCLI returns the root command with every subcommand attached.
func NewCLI() *cobra.Command {
	cobra.EnableCommandSorting = false

	rootCmd := &cobra.Command{
		Use:           "tiled",
		Short:         "Build, reshape and inspect tiled tensors",
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
				Level: envconfig.LogLevel(),
			})))
		},
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Print(cmd.UsageString())
		},
	}

	demoCmd := newDemoCmd()
	evalCmd := newEvalCmd()
	showCmd := newShowCmd()
	dtypesCmd := newDTypesCmd()
	envCmd := newEnvCmd()

	envVars := envconfig.AsMap()
	for _, cmd := range []*cobra.Command{demoCmd, evalCmd} {
		appendEnvDocs(cmd, []envconfig.EnvVar{envVars["TILED_DEBUG"], envVars["TILED_TILE_EXTENT"]})
	}
	appendEnvDocs(showCmd, []envconfig.EnvVar{envVars["TILED_DEBUG"]})

	rootCmd.AddCommand(
		demoCmd,
		evalCmd,
		showCmd,
		dtypesCmd,
		envCmd,
	)

	return rootCmd
}

func newDemoCmd() *cobra.Command {
	demoCmd := &cobra.Command{
		Use:   "demo",
		Short: "Print a tiled tensor with its padded and tile-grid views",
		Args:  cobra.NoArgs,
		RunE:  DemoHandler,
	}
	demoCmd.Flags().Int("width", 3, "Minimum width of every printed element")
	demoCmd.Flags().Int("tile", 0, "Tile extent (default from TILED_TILE_EXTENT)")
	return demoCmd
}

func newEvalCmd() *cobra.Command {
	evalCmd := &cobra.Command{
		Use:   "eval EXPR",
		Short: "Evaluate a tensor expression and print the result",
		Long: `Evaluate a tensor expression and print the result.

An expression is a constructor followed by transforms, separated by "|":

  arange(1, 106, bfloat16) | reshape(3, 5, 7) | to_tiled(4)

Constructors:
  arange(start, stop[, step][, dtype])
  zeros(dims...[, dtype])
  ones(dims...[, dtype])
  full(value, dims...[, dtype])
  eye(rows, cols[, dtype])

Transforms:
  reshape(dims...)
  to_tiled([tile])
  to_row_major()

The data type defaults to float32.`,
		Args: cobra.ExactArgs(1),
		RunE: EvalHandler,
	}
	evalCmd.Flags().Int("width", 0, "Minimum width of every printed element")
	evalCmd.Flags().Bool("info", false, "Print data type, shape and layout before the values")
	evalCmd.Flags().String("save", "", "Save the result to a tensor file")
	evalCmd.Flags().String("name", "tensor", "Name of the saved tensor")
	return evalCmd
}

func newShowCmd() *cobra.Command {
	showCmd := &cobra.Command{
		Use:   "show FILE",
		Short: "List the tensors stored in a file",
		Args:  cobra.ExactArgs(1),
		RunE:  ShowHandler,
	}
	showCmd.Flags().Bool("values", false, "Print the values of every tensor")
	showCmd.Flags().Int("width", 0, "Minimum width of every printed element")
	return showCmd
}

func newDTypesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dtypes",
		Short: "List supported data types",
		Args:  cobra.NoArgs,
		RunE:  DTypesHandler,
	}
}

func newEnvCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "env",
		Short: "Show configuration from the environment",
		Args:  cobra.NoArgs,
		RunE:  EnvHandler,
	}
}
