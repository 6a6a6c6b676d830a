// Copyright 2020 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package bwlz3 implements the BWT + MTF + ZRLE + LZSS container (spec.md
// S6.2, BWLZ3). Forward pipeline, per chunk: an embedded LZB pass with a
// much larger minimum match length (LZ_MIN_LEN=512), RLE1, a symbolic BWT,
// an explicit alphabet of the BWT output's present values, MTF against that
// alphabet, RLE2 (zero-run expansion, whose output alphabet can reach 256 --
// the reason the final stage must operate on symbols rather than bytes),
// and a final classical LZ77 pass over that symbol stream. Unlike every
// other LZ77/Huffman/AC use in this module, spec.md S6.2 never names an
// entry type for this last stage, so it is framed here as three raw
// delta-coded integer vectors (literals and lengths in single form,
// distances in double form) rather than wrapped in a Huffman or AC entry
// (see DESIGN.md).
package bwlz3

import (
	"bufio"
	"io"
	"log"

	"github.com/cosnicolaou/fivez/internal/alphabet"
	"github.com/cosnicolaou/fivez/internal/bitio"
	"github.com/cosnicolaou/fivez/internal/bwt"
	"github.com/cosnicolaou/fivez/internal/chunkhash"
	"github.com/cosnicolaou/fivez/internal/containererr"
	"github.com/cosnicolaou/fivez/internal/delta"
	"github.com/cosnicolaou/fivez/internal/lzmatch"
	"github.com/cosnicolaou/fivez/internal/mtf"
	"github.com/cosnicolaou/fivez/internal/rle"
	"github.com/cosnicolaou/fivez/lzb"
)

// Magic is the archive header: uppercase(format-name) + version byte.
var Magic = []byte("BWLZ3\x01")

// VerifyHash, when set by the CLI's --verify-hash debug flag, logs each
// chunk's content hash alongside its raw size.
var VerifyHash = false

// ChunkSize bounds how many raw bytes are materialized per chunk.
const ChunkSize = 1 << 17

// lzMinLen is BWLZ3's embedded LZB minimum match length, much larger than
// LZB's own default of 4 (spec.md S6.2 BWLZ3, S9 LZ_MIN_LEN=512).
const lzMinLen = 512

// maxExtra1 bounds the chunk's RLE1 pass; BWLZ3 has no documented
// divergence from the general 255 cap (that divergence is specific to
// BWLZHD/MRA per spec.md S9).
const maxExtra1 = 255

var symMatchParams = lzmatch.Params{
	MinLen:   3,
	MaxLen:   258,
	MaxDist:  1 << 17,
	MaxChain: 64,
}

// Compress reads r to EOF and writes a BWLZ3 archive to w.
func Compress(w io.Writer, r io.Reader) error {
	if _, err := w.Write(Magic); err != nil {
		return containererr.Wrap(err, "bwlz3", "write magic")
	}
	bw := bitio.NewWriter(w)
	buf := make([]byte, ChunkSize)
	for {
		n, err := io.ReadFull(r, buf)
		if n > 0 {
			if encErr := compressChunk(bw, buf[:n]); encErr != nil {
				return containererr.Wrap(encErr, "bwlz3", "compress chunk")
			}
		}
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			break
		}
		if err != nil {
			return containererr.Wrap(err, "bwlz3", "read chunk")
		}
	}
	return nil
}

func compressChunk(bw *bitio.Writer, chunk []byte) error {
	if VerifyHash {
		log.Printf("bwlz3: chunk hash %x size %d", chunkhash.Sum64(chunk), len(chunk))
	}
	lzTokens := lzb.EncodeChunkMinLen(chunk, lzMinLen)
	rle1Out := rle.Encode1(lzTokens, maxExtra1)

	symbols := make([]int, len(rle1Out))
	for i, b := range rle1Out {
		symbols[i] = int(b)
	}
	bwtOut, bwtIdx := bwt.ForwardSymbols(symbols)

	var present [256]bool
	for _, v := range bwtOut {
		present[v] = true
	}
	alpha := make([]int, 0, 256)
	for v := 0; v < 256; v++ {
		if present[v] {
			alpha = append(alpha, v)
		}
	}

	bw.WriteBitsBE(uint64(uint32(bwtIdx)), 32)
	alphabet.Encode(bw, present)

	if len(alpha) == 0 {
		delta.EncodeInts(bw, nil)
		delta.EncodeInts(bw, nil)
		delta.EncodeIntsDouble(bw, nil)
		return nil
	}

	mtfOut := mtf.Encode(bwtOut, alpha)

	mtfBytes := make([]byte, len(mtfOut))
	for i, v := range mtfOut {
		mtfBytes[i] = byte(v)
	}
	rle2Out := rle.Encode2(mtfBytes)

	lits, dists, lens := symbolicLZEncode(rle2Out)

	litVals := make([]int64, len(lits))
	for i, v := range lits {
		litVals[i] = int64(v)
	}
	lenVals := make([]int64, len(lens))
	for i, v := range lens {
		lenVals[i] = int64(v)
	}
	distVals := make([]int64, len(dists))
	for i, v := range dists {
		distVals[i] = int64(v)
	}
	delta.EncodeInts(bw, litVals)
	delta.EncodeInts(bw, lenVals)
	delta.EncodeIntsDouble(bw, distVals)
	return nil
}

// symbolicLZEncode is LZA's classical-triple LZ77 model (spec.md Data
// Model's match entity), generalized to an arbitrary int symbol stream:
// every step advances by one back-reference (possibly zero-length)
// followed by exactly one literal symbol.
func symbolicLZEncode(data []int) (lits, dists, lens []int) {
	n := len(data)
	idx := lzmatch.NewIndexInts(data, symMatchParams)
	inserted := 0

	pos := 0
	for pos < n {
		for inserted < pos {
			idx.Insert(inserted)
			inserted++
		}
		maxAllowed := n - pos - 1
		dist, length := 0, 0
		if maxAllowed >= symMatchParams.MinLen {
			if m, ok := idx.Find(pos); ok {
				l := m.Len
				if l > maxAllowed {
					l = maxAllowed
				}
				if l >= symMatchParams.MinLen {
					dist, length = m.Dist, l
				}
			}
		}
		lits = append(lits, data[pos+length])
		dists = append(dists, dist)
		lens = append(lens, length)
		pos += length + 1
	}
	return lits, dists, lens
}

func symbolicLZDecode(lits, dists, lens []int) ([]int, error) {
	if len(dists) != len(lits) || len(lens) != len(lits) {
		return nil, containererr.New(containererr.TruncatedStream, "mismatched BWLZ3 LZ77 stream lengths")
	}
	out := make([]int, 0, len(lits)*2)
	for i, lit := range lits {
		dist := dists[i]
		length := lens[i]
		if dist != 0 {
			if dist < 0 || dist > len(out) || length < 1 {
				return nil, containererr.New(containererr.InvalidBackReference, "invalid BWLZ3 back-reference")
			}
			start := len(out) - dist
			for k := 0; k < length; k++ {
				out = append(out, out[start+k])
			}
		}
		out = append(out, lit)
	}
	return out, nil
}

// Decompress reads a BWLZ3 archive from r and writes the original bytes to w.
func Decompress(w io.Writer, r io.Reader) error {
	br := bufio.NewReader(r)
	magic := make([]byte, len(Magic))
	if _, err := io.ReadFull(br, magic); err != nil {
		return containererr.Wrap(err, "bwlz3", "read magic")
	}
	for i := range magic {
		if magic[i] != Magic[i] {
			return containererr.Wrap(containererr.New(containererr.BadMagic, "not a BWLZ3 archive"), "bwlz3", "check magic")
		}
	}
	bio := bitio.NewReader(br)
	for {
		if _, err := br.Peek(1); err == io.EOF {
			break
		}
		chunk, err := decompressChunk(bio)
		if err != nil {
			return containererr.Wrap(err, "bwlz3", "decompress chunk")
		}
		if _, err := w.Write(chunk); err != nil {
			return containererr.Wrap(err, "bwlz3", "write chunk")
		}
	}
	return nil
}

func decompressChunk(bio *bitio.Reader) ([]byte, error) {
	bwtIdx := int(int32(bio.ReadBitsBE(32)))
	present := alphabet.Decode(bio)
	alpha := make([]int, 0, 256)
	for v := 0; v < 256; v++ {
		if present[v] {
			alpha = append(alpha, v)
		}
	}

	litVals := delta.DecodeInts(bio)
	lenVals := delta.DecodeInts(bio)
	distVals := delta.DecodeIntsDouble(bio)

	if len(alpha) == 0 {
		return nil, nil
	}

	lits := make([]int, len(litVals))
	for i, v := range litVals {
		lits[i] = int(v)
	}
	lens := make([]int, len(lenVals))
	for i, v := range lenVals {
		lens[i] = int(v)
	}
	dists := make([]int, len(distVals))
	for i, v := range distVals {
		dists[i] = int(v)
	}

	rle2Out, err := symbolicLZDecode(lits, dists, lens)
	if err != nil {
		return nil, err
	}
	mtfBytes := rle.Decode2(rle2Out)

	mtfOut := make([]int, len(mtfBytes))
	for i, b := range mtfBytes {
		mtfOut[i] = int(b)
	}
	bwtOut := mtf.Decode(mtfOut, alpha)

	symbols := bwt.InverseSymbols(bwtOut, bwtIdx)
	rle1Out := make([]byte, len(symbols))
	for i, v := range symbols {
		rle1Out[i] = byte(v)
	}

	lzTokens := rle.Decode1(rle1Out)
	return lzb.DecodeChunkMinLen(lzTokens, lzMinLen)
}
