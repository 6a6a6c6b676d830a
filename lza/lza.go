// Copyright 2020 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package lza implements the LZ77 + arithmetic-coding container (spec.md
// S6.2, LZA). Each chunk is a classical LZ77 triple stream: every step
// advances by one back-reference match (possibly zero-length, i.e. a pure
// literal) followed by exactly one "next literal" byte, so the chunk
// decomposes into three parallel sequences -- literal bytes U, match
// distances I and match lengths L -- with len(U)=len(I)=len(L), matching
// the Data Model's "(back-distance >=1, length, following literal)" match
// entity and S8's property 7. Built from internal/lzmatch and
// internal/acentry.
package lza

import (
	"bufio"
	"io"

	"github.com/cosnicolaou/fivez/internal/acentry"
	"github.com/cosnicolaou/fivez/internal/bitio"
	"github.com/cosnicolaou/fivez/internal/containererr"
	"github.com/cosnicolaou/fivez/internal/lzmatch"
)

// Magic is the archive header: uppercase(format-name) + version byte.
var Magic = []byte("LZA\x01")

// ChunkSize bounds how many raw bytes are materialized per chunk.
const ChunkSize = 1 << 16

var matchParams = lzmatch.Params{
	MinLen:   3,
	MaxLen:   258,
	MaxDist:  65535,
	MaxChain: 64,
}

// Compress reads r to EOF and writes an LZA archive to w.
func Compress(w io.Writer, r io.Reader) error {
	if _, err := w.Write(Magic); err != nil {
		return containererr.Wrap(err, "lza", "write magic")
	}
	bw := bitio.NewWriter(w)
	buf := make([]byte, ChunkSize)
	for {
		n, err := io.ReadFull(r, buf)
		if n > 0 {
			if encErr := compressChunk(bw, buf[:n]); encErr != nil {
				return containererr.Wrap(encErr, "lza", "compress chunk")
			}
		}
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			break
		}
		if err != nil {
			return containererr.Wrap(err, "lza", "read chunk")
		}
	}
	return nil
}

func compressChunk(bw *bitio.Writer, chunk []byte) error {
	n := len(chunk)
	idx := lzmatch.NewIndex(chunk, matchParams)
	inserted := 0

	var lits []byte
	var dists []int
	var lens []int

	pos := 0
	for pos < n {
		for inserted < pos {
			idx.Insert(inserted)
			inserted++
		}
		maxAllowed := n - pos - 1
		dist, length := 0, 0
		if maxAllowed >= matchParams.MinLen {
			if m, ok := idx.Find(pos); ok {
				l := m.Len
				if l > maxAllowed {
					l = maxAllowed
				}
				if l >= matchParams.MinLen {
					dist, length = m.Dist, l
				}
			}
		}
		lits = append(lits, chunk[pos+length])
		dists = append(dists, dist)
		lens = append(lens, length)
		pos += length + 1
	}

	litSyms := make([]int, len(lits))
	for i, b := range lits {
		litSyms[i] = int(b)
	}
	if err := acentry.Encode(bw, litSyms); err != nil {
		return err
	}

	distBytes := make([]int, 0, len(dists)*2)
	for _, d := range dists {
		distBytes = append(distBytes, d&0xff, (d>>8)&0xff)
	}
	if err := acentry.Encode(bw, distBytes); err != nil {
		return err
	}

	if err := acentry.Encode(bw, lens); err != nil {
		return err
	}
	return nil
}

// Decompress reads an LZA archive from r and writes the original bytes to w.
func Decompress(w io.Writer, r io.Reader) error {
	br := bufio.NewReader(r)
	magic := make([]byte, len(Magic))
	if _, err := io.ReadFull(br, magic); err != nil {
		return containererr.Wrap(err, "lza", "read magic")
	}
	for i := range magic {
		if magic[i] != Magic[i] {
			return containererr.Wrap(containererr.New(containererr.BadMagic, "not an LZA archive"), "lza", "check magic")
		}
	}
	bio := bitio.NewReader(br)
	for {
		if _, err := br.Peek(1); err == io.EOF {
			break
		}
		chunk, err := decompressChunk(bio)
		if err != nil {
			return containererr.Wrap(err, "lza", "decompress chunk")
		}
		if _, err := w.Write(chunk); err != nil {
			return containererr.Wrap(err, "lza", "write chunk")
		}
	}
	return nil
}

func decompressChunk(bio *bitio.Reader) ([]byte, error) {
	litSyms, err := acentry.Decode(bio)
	if err != nil {
		return nil, err
	}
	distBytes, err := acentry.Decode(bio)
	if err != nil {
		return nil, err
	}
	lens, err := acentry.Decode(bio)
	if err != nil {
		return nil, err
	}
	if len(distBytes) != 2*len(litSyms) || len(lens) != len(litSyms) {
		return nil, containererr.New(containererr.TruncatedStream, "mismatched LZA entry lengths")
	}

	out := make([]byte, 0, len(litSyms)*2)
	for i, litSym := range litSyms {
		dist := distBytes[2*i] | (distBytes[2*i+1] << 8)
		length := lens[i]
		if dist != 0 {
			if dist < 0 || dist > len(out) || length < 1 {
				return nil, containererr.New(containererr.InvalidBackReference, "invalid LZA back-reference")
			}
			start := len(out) - dist
			for k := 0; k < length; k++ {
				out = append(out, out[start+k])
			}
		}
		out = append(out, byte(litSym))
	}
	return out, nil
}
