// Copyright 2020 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package mra implements the MTF + RLE + Arithmetic container (spec.md
// S6.2, MRA): per chunk, the encoded alphabet of present byte values
// followed by an AC entry of RLE1(RLE2(MTF(chunk, alphabet))). The
// version byte is 0x03 (spec.md S6.1), distinct from the other four
// formats' 0x01.
package mra

import (
	"bufio"
	"io"

	"github.com/cosnicolaou/fivez/internal/acentry"
	"github.com/cosnicolaou/fivez/internal/alphabet"
	"github.com/cosnicolaou/fivez/internal/bitio"
	"github.com/cosnicolaou/fivez/internal/containererr"
	"github.com/cosnicolaou/fivez/internal/mtf"
	"github.com/cosnicolaou/fivez/internal/rle"
)

// Magic is the archive header: uppercase(format-name) + 0x03.
var Magic = []byte("MRA\x03")

// ChunkSize bounds how many raw bytes are materialized per chunk.
const ChunkSize = 1 << 16

// maxExtra1 is MRA's RLE1 extra-repetition cap (spec.md S9: 254, to avoid
// the byte value 255 in its RLE alphabet -- the BWLZHD divergence to 255
// is preserved separately, not resolved).
const maxExtra1 = 254

func presentAndAlphabet(chunk []byte) ([256]bool, []int) {
	var present [256]bool
	for _, b := range chunk {
		present[b] = true
	}
	alpha := make([]int, 0, 256)
	for v := 0; v < 256; v++ {
		if present[v] {
			alpha = append(alpha, v)
		}
	}
	return present, alpha
}

// Compress reads r to EOF and writes an MRA archive to w.
func Compress(w io.Writer, r io.Reader) error {
	if _, err := w.Write(Magic); err != nil {
		return containererr.Wrap(err, "mra", "write magic")
	}
	bw := bitio.NewWriter(w)
	buf := make([]byte, ChunkSize)
	for {
		n, err := io.ReadFull(r, buf)
		if n > 0 {
			if encErr := compressChunk(bw, buf[:n]); encErr != nil {
				return containererr.Wrap(encErr, "mra", "compress chunk")
			}
		}
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			break
		}
		if err != nil {
			return containererr.Wrap(err, "mra", "read chunk")
		}
	}
	return nil
}

func compressChunk(bw *bitio.Writer, chunk []byte) error {
	present, alpha := presentAndAlphabet(chunk)
	alphabet.Encode(bw, present)

	if len(alpha) == 0 {
		// Degenerate empty chunk: still emit a (trivially empty) AC entry
		// so the decoder reads a symmetric number of fields.
		return acentry.Encode(bw, nil)
	}

	vals := make([]int, len(chunk))
	for i, b := range chunk {
		vals[i] = int(b)
	}
	mtfOut := mtf.Encode(vals, alpha)

	mtfBytes := make([]byte, len(mtfOut))
	for i, v := range mtfOut {
		mtfBytes[i] = byte(v)
	}
	rle2Out := rle.Encode2(mtfBytes)
	rle1Out := rle.Encode1Ints(rle2Out, maxExtra1)
	return acentry.Encode(bw, rle1Out)
}

// Decompress reads an MRA archive from r and writes the original bytes to w.
func Decompress(w io.Writer, r io.Reader) error {
	br := bufio.NewReader(r)
	magic := make([]byte, len(Magic))
	if _, err := io.ReadFull(br, magic); err != nil {
		return containererr.Wrap(err, "mra", "read magic")
	}
	for i := range magic {
		if magic[i] != Magic[i] {
			return containererr.Wrap(containererr.New(containererr.BadMagic, "not an MRA archive"), "mra", "check magic")
		}
	}
	bio := bitio.NewReader(br)
	for {
		if _, err := br.Peek(1); err == io.EOF {
			break
		}
		chunk, err := decompressChunk(bio)
		if err != nil {
			return containererr.Wrap(err, "mra", "decompress chunk")
		}
		if _, err := w.Write(chunk); err != nil {
			return containererr.Wrap(err, "mra", "write chunk")
		}
	}
	return nil
}

func decompressChunk(bio *bitio.Reader) ([]byte, error) {
	present := alphabet.Decode(bio)
	alpha := make([]int, 0, 256)
	for v := 0; v < 256; v++ {
		if present[v] {
			alpha = append(alpha, v)
		}
	}

	rle1Out, err := acentry.Decode(bio)
	if err != nil {
		return nil, err
	}
	if len(alpha) == 0 {
		return nil, nil
	}

	rle2Out := rle.Decode1Ints(rle1Out)
	mtfBytes := rle.Decode2(rle2Out)

	mtfOut := make([]int, len(mtfBytes))
	for i, b := range mtfBytes {
		mtfOut[i] = int(b)
	}
	vals := mtf.Decode(mtfOut, alpha)

	out := make([]byte, len(vals))
	for i, v := range vals {
		out[i] = byte(v)
	}
	return out, nil
}
