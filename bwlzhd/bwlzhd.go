// Copyright 2020 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package bwlzhd implements the BWT + RLE + LZ77 + Huffman container
// (spec.md S6.2, BWLZHD).
// Forward pipeline: RLE1 -> BWT -> RLE1 -> LZSS (literal/match decision by
// estimated bit cost) -> three entropy streams (Huffman entry of literals,
// Huffman entry of lengths, Huffman entry of match distances). Lengths and
// distances are Huffman-coded by their raw values; there are no DEFLATE-style
// length/distance symbol tables, and the distance stream uses the same
// internal/huffentry format as the other two. A
// per-chunk COMPRESSED/UNCOMPRESSED mode byte selects a raw Huffman-coded
// fallback when the actual compressed size exceeds the chunk's raw size
// (spec.md S9 RANDOM_DATA_THRESHOLD=1, strict >).
package bwlzhd

import (
	"bufio"
	"bytes"
	"io"
	"log"
	"math"

	"github.com/cosnicolaou/fivez/internal/bitio"
	"github.com/cosnicolaou/fivez/internal/bwt"
	"github.com/cosnicolaou/fivez/internal/chunkhash"
	"github.com/cosnicolaou/fivez/internal/containererr"
	"github.com/cosnicolaou/fivez/internal/huffentry"
	"github.com/cosnicolaou/fivez/internal/lzmatch"
	"github.com/cosnicolaou/fivez/internal/rle"
)

// Magic is the archive header: uppercase(format-name) + one version byte.
var Magic = []byte("BWLZHD\x01")

// VerifyHash, when set by the CLI's --verify-hash debug flag, logs each
// chunk's content hash, raw and compressed sizes, and the size ratio that
// decides its mode, letting two runs over the same
// input be diffed without comparing whole archives.
var VerifyHash = false

// ChunkSize bounds how many raw bytes are materialized per chunk.
const ChunkSize = 1 << 17

// maxExtra1 is BWLZHD's RLE1 extra-repetition cap (spec.md S9: 255, unlike
// MRA's 254 -- the divergence is documented as intentional but unexplained
// and is preserved, not resolved).
const maxExtra1 = 255

const (
	modeCompressed   byte = 0x01
	modeUncompressed byte = 0x00
)

var matchParams = lzmatch.Params{
	MinLen:   4,
	MaxLen:   258,
	MaxDist:  1 << 16,
	MaxChain: 96,
}

// Compress reads r to EOF and writes a BWLZHD archive to w.
func Compress(w io.Writer, r io.Reader) error {
	if _, err := w.Write(Magic); err != nil {
		return containererr.Wrap(err, "bwlzhd", "write magic")
	}
	buf := make([]byte, ChunkSize)
	for {
		n, err := io.ReadFull(r, buf)
		if n > 0 {
			if werr := compressChunk(w, buf[:n]); werr != nil {
				return containererr.Wrap(werr, "bwlzhd", "compress chunk")
			}
		}
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			break
		}
		if err != nil {
			return containererr.Wrap(err, "bwlzhd", "read chunk")
		}
	}
	return nil
}

func compressChunk(w io.Writer, chunk []byte) error {
	var compressedBuf bytes.Buffer
	cbw := bitio.NewWriter(&compressedBuf)
	bwtIdx := encodeCompressed(cbw, chunk)
	cbw.Close()

	ratio := float64(compressedBuf.Len()+4) / math.Max(1, float64(len(chunk)))
	if VerifyHash {
		log.Printf("bwlzhd: chunk hash %x size %d compressed %d ratio %.3f", chunkhash.Sum64(chunk), len(chunk), compressedBuf.Len(), ratio)
	}
	if ratio > 1 {
		var rawBuf bytes.Buffer
		rbw := bitio.NewWriter(&rawBuf)
		symbols := make([]int, len(chunk))
		for i, b := range chunk {
			symbols[i] = int(b)
		}
		huffentry.Encode(rbw, symbols)
		rbw.Close()
		if _, err := w.Write([]byte{modeUncompressed}); err != nil {
			return err
		}
		_, err := w.Write(rawBuf.Bytes())
		return err
	}

	if _, err := w.Write([]byte{modeCompressed}); err != nil {
		return err
	}
	var idxBuf [4]byte
	idxBuf[0] = byte(bwtIdx >> 24)
	idxBuf[1] = byte(bwtIdx >> 16)
	idxBuf[2] = byte(bwtIdx >> 8)
	idxBuf[3] = byte(bwtIdx)
	if _, err := w.Write(idxBuf[:]); err != nil {
		return err
	}
	_, err := w.Write(compressedBuf.Bytes())
	return err
}

// encodeCompressed runs the forward pipeline and writes the three entropy
// streams to cbw, returning the BWT row index.
func encodeCompressed(cbw *bitio.Writer, chunk []byte) int {
	rle1a := rle.Encode1(chunk, maxExtra1)
	bwtOut, idx := bwt.ForwardBytes(rle1a)
	rle1b := rle.Encode1(bwtOut, maxExtra1)

	lits, dists, lens := lzssEncode(rle1b)

	huffentry.Encode(cbw, lits)
	huffentry.Encode(cbw, lens)
	huffentry.Encode(cbw, dists)
	return idx
}

// costEstimate approximates the bit cost of symbol sym given its current
// observed frequency (Laplace-smoothed), per spec.md S4.9's "estimate...
// using current per-stream frequency counters" decision rule.
func costEstimate(counts map[int]int, total int, sym int) float64 {
	c := counts[sym] + 1
	return -math.Log2(float64(c) / float64(total+256))
}

func lzssEncode(data []byte) (lits, dists, lens []int) {
	n := len(data)
	idx := lzmatch.NewIndex(data, matchParams)
	inserted := 0

	litCounts := make(map[int]int)
	distCounts := make(map[int]int)
	lenCounts := make(map[int]int)
	litTotal, distTotal, lenTotal := 0, 0, 0

	pos := 0
	for pos < n {
		for inserted < pos {
			idx.Insert(inserted)
			inserted++
		}
		maxAllowed := n - pos - 1
		chooseMatch := false
		var cand lzmatch.Match
		if maxAllowed >= matchParams.MinLen {
			if m, ok := idx.Find(pos); ok && m.Len <= maxAllowed && m.Len >= matchParams.MinLen {
				cand = m
				matchBits := costEstimate(distCounts, distTotal, cand.Dist) + costEstimate(lenCounts, lenTotal, cand.Len)
				litBits := 0.0
				for k := 0; k <= cand.Len; k++ {
					litBits += costEstimate(litCounts, litTotal, int(data[pos+k]))
				}
				if matchBits <= litBits {
					chooseMatch = true
				}
			}
		}
		dist, length := 0, 0
		if chooseMatch {
			dist, length = cand.Dist, cand.Len
		}
		lit := int(data[pos+length])
		lits = append(lits, lit)
		dists = append(dists, dist)
		lens = append(lens, length)

		litCounts[lit]++
		litTotal++
		distCounts[dist]++
		distTotal++
		lenCounts[length]++
		lenTotal++

		pos += length + 1
	}
	return lits, dists, lens
}

func lzssDecode(lits, dists, lens []int) ([]byte, error) {
	if len(dists) != len(lits) || len(lens) != len(lits) {
		return nil, containererr.New(containererr.TruncatedStream, "mismatched BWLZHD entry lengths")
	}
	out := make([]byte, 0, len(lits)*2)
	for i, lit := range lits {
		dist := dists[i]
		length := lens[i]
		if dist != 0 {
			if dist < 0 || dist > len(out) || length < 1 {
				return nil, containererr.New(containererr.InvalidBackReference, "invalid BWLZHD back-reference")
			}
			start := len(out) - dist
			for k := 0; k < length; k++ {
				out = append(out, out[start+k])
			}
		}
		out = append(out, byte(lit))
	}
	return out, nil
}

// Decompress reads a BWLZHD archive from r and writes the original bytes to w.
func Decompress(w io.Writer, r io.Reader) error {
	br := bufio.NewReader(r)
	magic := make([]byte, len(Magic))
	if _, err := io.ReadFull(br, magic); err != nil {
		return containererr.Wrap(err, "bwlzhd", "read magic")
	}
	for i := range magic {
		if magic[i] != Magic[i] {
			return containererr.Wrap(containererr.New(containererr.BadMagic, "not a BWLZHD archive"), "bwlzhd", "check magic")
		}
	}
	for {
		mode, err := br.ReadByte()
		if err == io.EOF {
			break
		}
		if err != nil {
			return containererr.Wrap(err, "bwlzhd", "read chunk mode")
		}
		chunk, err := decompressChunk(br, mode)
		if err != nil {
			return containererr.Wrap(err, "bwlzhd", "decompress chunk")
		}
		if _, err := w.Write(chunk); err != nil {
			return containererr.Wrap(err, "bwlzhd", "write chunk")
		}
	}
	return nil
}

func decompressChunk(br *bufio.Reader, mode byte) ([]byte, error) {
	bio := bitio.NewReader(br)
	if mode == modeUncompressed {
		symbols := huffentry.Decode(bio)
		if bio.Err() != nil {
			return nil, bio.Err()
		}
		out := make([]byte, len(symbols))
		for i, s := range symbols {
			out[i] = byte(s)
		}
		return out, nil
	}

	var idxBuf [4]byte
	if _, err := io.ReadFull(br, idxBuf[:]); err != nil {
		return nil, containererr.New(containererr.TruncatedStream, "bwlzhd BWT index")
	}
	bwtIdx := int(idxBuf[0])<<24 | int(idxBuf[1])<<16 | int(idxBuf[2])<<8 | int(idxBuf[3])

	lits := huffentry.Decode(bio)
	lens := huffentry.Decode(bio)
	dists := huffentry.Decode(bio)
	if bio.Err() != nil {
		return nil, bio.Err()
	}

	rle1b, err := lzssDecode(lits, dists, lens)
	if err != nil {
		return nil, err
	}
	bwtOut := rle.Decode1(rle1b)
	rle1a := bwt.InverseBytes(bwtOut, bwtIdx)
	return rle.Decode1(rle1a), nil
}
