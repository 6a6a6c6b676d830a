// Copyright 2020 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// newInspectCommand is grounded on cmd/pbzip2's inspect.go/bz2-inspect.go:
// a read-only subcommand that identifies an archive's format from its
// magic header without decompressing it, for debugging and scripting.
func newInspectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <archive>...",
		Short: "identify the container format of one or more archives from their magic header",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return newExitError(exitMissingInput, fmt.Errorf("inspect: no archive given"))
			}
			for _, path := range args {
				if err := inspectOne(path); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func inspectOne(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return newExitError(exitMissingInput, fmt.Errorf("inspect: %w", err))
	}
	defer f.Close()

	br := bufio.NewReader(f)
	c, ok := identifyMagic(br)
	if !ok {
		fmt.Printf("%s: unrecognized format\n", path)
		return nil
	}
	fmt.Printf("%s: format=%s version=%d\n", path, c.name, c.magic[len(c.magic)-1])
	return nil
}

// identifyMagic peeks at as many bytes as the longest known magic header
// and matches against each codec's full prefix, keeping the longest
// matching header so BWLZHD's and BWLZ3's headers (which would both start
// with "BWLZ") aren't confused with a truncated match.
func identifyMagic(br *bufio.Reader) (codec, bool) {
	maxLen := 0
	for _, c := range codecs {
		if len(c.magic) > maxLen {
			maxLen = len(c.magic)
		}
	}
	peeked, _ := br.Peek(maxLen)

	best := codec{}
	bestLen := 0
	for _, c := range codecs {
		if len(peeked) < len(c.magic) {
			continue
		}
		match := true
		for i, b := range c.magic {
			if peeked[i] != b {
				match = false
				break
			}
		}
		if match && len(c.magic) > bestLen {
			best = c
			bestLen = len(c.magic)
		}
	}
	return best, bestLen > 0
}
