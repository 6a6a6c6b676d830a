// Copyright 2020 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Command fivez is the CLI for the five CORE container formats (spec.md
// S6.4): one compress/decompress subcommand per format, plus the
// supplemental `inspect` and `verify` subcommands. Grounded on
// `cmd/pbzip2/main.go`'s command-set-per-operation shape, ported from the
// teacher's `cloudeng.io/subcmd` (unavailable in the retrieved pack) to
// `github.com/spf13/cobra`, which the teacher's own go.mod already carries.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// version is the CLI's reported version for the -v/--version flag (spec.md
// S6.4). There is no release process for this module, so it is a fixed
// development placeholder rather than build-stamped metadata.
const version = "fivez/0.1.0-dev"

func main() {
	root := newRootCommand()
	if err := root.Execute(); err != nil {
		var ee *exitError
		if as(err, &ee) {
			fmt.Fprintln(os.Stderr, ee.err)
			os.Exit(ee.code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// as is errors.As without importing the whole package just for this one
// call site's narrow use.
func as(err error, target **exitError) bool {
	for err != nil {
		if ee, ok := err.(*exitError); ok {
			*target = ee
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}

func newRootCommand() *cobra.Command {
	showVersion := false
	root := &cobra.Command{
		Use:           "fivez",
		Short:         "compress and decompress files with the five CORE container formats",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if showVersion {
				fmt.Println(version)
				return nil
			}
			return cmd.Help()
		},
	}
	root.Flags().BoolVarP(&showVersion, "version", "v", false, "print the fivez version and exit")

	for _, c := range codecs {
		root.AddCommand(newCodecCommand(c))
	}
	root.AddCommand(newInspectCommand())
	root.AddCommand(newVerifyCommand())
	return root
}

func newCodecCommand(c codec) *cobra.Command {
	flags := &commonFlags{}
	cmd := &cobra.Command{
		Use:   c.name + " [flags] <input>...",
		Short: fmt.Sprintf("compress/decompress the %s container format", c.name),
		Long: fmt.Sprintf(
			"Compresses by default; decompresses if -e is given or the input\n"+
				"ends in %q. Input may be a glob pattern (e.g. '**/*.txt').", c.ext),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCodec(c, flags, args)
		},
	}
	cmd.Flags().StringVarP(&flags.input, "input", "i", "", "input path or glob pattern")
	cmd.Flags().BoolVarP(&flags.extract, "extract", "e", false, "force decompress mode")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output path (single input only)")
	cmd.Flags().BoolVarP(&flags.overwrite, "overwrite", "r", false, "overwrite existing output without prompting")
	cmd.Flags().BoolVar(&flags.progress, "progress", true, "display a progress bar")
	cmd.Flags().BoolVar(&flags.verifyHash, "verify-hash", false, "log a per-chunk content hash (debug)")
	return cmd
}
