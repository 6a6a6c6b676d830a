// Copyright 2020 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package main

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/cosnicolaou/fivez/internal/archivecrc"
	"github.com/spf13/cobra"
)

// newVerifyCommand is the optional whole-archive integrity check
// (SPEC_FULL.md S3): decompress an archive and compare its CRC-32 against
// the original file it was produced from, using the teacher's own
// bit-reversed CRC-32/IEEE accumulator (internal/archivecrc).
func newVerifyCommand() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "verify <archive> <original>",
		Short: "decompress an archive and compare its checksum against the original file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 2 {
				return newExitError(exitMissingInput, fmt.Errorf("verify: want <archive> <original>"))
			}
			return runVerify(format, args[0], args[1])
		},
	}
	cmd.Flags().StringVar(&format, "format", "", "container format name (auto-detected from the archive's magic header if omitted)")
	return cmd
}

func runVerify(format, archivePath, originalPath string) error {
	archiveFile, err := os.Open(archivePath)
	if err != nil {
		return newExitError(exitMissingInput, fmt.Errorf("verify: %w", err))
	}
	defer archiveFile.Close()
	br := bufio.NewReader(archiveFile)

	c, ok := codecByName(format)
	if !ok {
		c, ok = identifyMagic(br)
		if !ok {
			return newExitError(exitUnknownMode, fmt.Errorf("verify: cannot determine format of %s, pass --format", archivePath))
		}
	}

	var decompressed archivecrc.CRC
	wr := crcWriter{&decompressed}
	if err := c.decompress(wr, br); err != nil {
		return fmt.Errorf("verify: decompress %s: %w", archivePath, err)
	}

	originalFile, err := os.Open(originalPath)
	if err != nil {
		return newExitError(exitMissingInput, fmt.Errorf("verify: %w", err))
	}
	defer originalFile.Close()

	var original archivecrc.CRC
	if _, err := io.Copy(crcWriter{&original}, bufio.NewReader(originalFile)); err != nil {
		return fmt.Errorf("verify: read %s: %w", originalPath, err)
	}

	if decompressed.Sum() != original.Sum() {
		return fmt.Errorf("verify: checksum mismatch for %s (format %s): got %#x want %#x",
			archivePath, c.name, decompressed.Sum(), original.Sum())
	}
	fmt.Printf("%s: OK (format %s, crc32 %#x)\n", archivePath, c.name, original.Sum())
	return nil
}

// crcWriter adapts archivecrc.CRC's Update method to io.Writer so it can
// sit downstream of a container's Decompress or io.Copy.
type crcWriter struct {
	c *archivecrc.CRC
}

func (w crcWriter) Write(b []byte) (int, error) {
	w.c.Update(b)
	return len(b), nil
}
