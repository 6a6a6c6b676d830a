// Copyright 2020 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package rlh implements the RLE1 + Huffman container (spec.md S6.2, RLH):
// the simplest of the five container formats, used as the baseline for the
// others' per-chunk framing. Grounded on the container-level structure
// documented in DESIGN.md ("Container packages"), built from
// internal/rle and internal/huffentry.
package rlh

import (
	"bufio"
	"io"

	"github.com/cosnicolaou/fivez/internal/bitio"
	"github.com/cosnicolaou/fivez/internal/containererr"
	"github.com/cosnicolaou/fivez/internal/huffentry"
	"github.com/cosnicolaou/fivez/internal/rle"
)

// Magic is the archive header: uppercase(format-name) + version byte.
var Magic = []byte("RLH\x01")

// ChunkSize bounds how many raw bytes are materialized per chunk.
const ChunkSize = 1 << 16

// maxExtra1 bounds RLE1's "extra repetitions" count byte (spec.md S4.7);
// RLH has no documented divergence from the general 255 cap (that
// divergence is specific to BWLZHD/MRA per spec.md S9).
const maxExtra1 = 255

// Compress reads r to EOF and writes an RLH archive to w.
func Compress(w io.Writer, r io.Reader) error {
	if _, err := w.Write(Magic); err != nil {
		return containererr.Wrap(err, "rlh", "write magic")
	}
	bw := bitio.NewWriter(w)
	buf := make([]byte, ChunkSize)
	for {
		n, err := io.ReadFull(r, buf)
		if n > 0 {
			chunk := buf[:n]
			transformed := rle.Encode1(chunk, maxExtra1)
			symbols := make([]int, len(transformed))
			for i, b := range transformed {
				symbols[i] = int(b)
			}
			huffentry.Encode(bw, symbols)
		}
		if err == io.EOF {
			break
		}
		if err == io.ErrUnexpectedEOF {
			break
		}
		if err != nil {
			return containererr.Wrap(err, "rlh", "read chunk")
		}
	}
	return nil
}

// Decompress reads an RLH archive from r and writes the original bytes to w.
func Decompress(w io.Writer, r io.Reader) error {
	br := bufio.NewReader(r)
	magic := make([]byte, len(Magic))
	if _, err := io.ReadFull(br, magic); err != nil {
		return containererr.Wrap(err, "rlh", "read magic")
	}
	for i := range magic {
		if magic[i] != Magic[i] {
			return containererr.Wrap(containererr.New(containererr.BadMagic, "not an RLH archive"), "rlh", "check magic")
		}
	}
	bio := bitio.NewReader(br)
	for {
		if _, err := br.Peek(1); err == io.EOF {
			break
		}
		symbols := huffentry.Decode(bio)
		if bio.Err() != nil {
			return containererr.Wrap(bio.Err(), "rlh", "decode chunk")
		}
		transformed := make([]byte, len(symbols))
		for i, s := range symbols {
			transformed[i] = byte(s)
		}
		chunk := rle.Decode1(transformed)
		if _, err := w.Write(chunk); err != nil {
			return containererr.Wrap(err, "rlh", "write chunk")
		}
	}
	return nil
}
