// Copyright 2020 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package lzb implements the byte-aligned, LZ4-inspired LZSS container
// (spec.md S6.2, LZB): a sequence of tokens, each a literal run optionally
// followed by a back-reference, with nibble-escaped extension bytes for
// long runs/matches. Unlike the other four containers LZB is not built on
// internal/bitio -- spec.md S6.2 describes it as purely byte-aligned, so
// tokens are written directly to the byte stream, matching LZ4's own
// on-disk block shape.
//
// Each chunk is prefixed with the little-endian byte length of its token
// stream: spec.md's "unless last literal-only token" end-of-chunk rule
// requires the decoder to recognize the final, match-less token by
// exhausting the token buffer, which in turn requires knowing exactly how
// many token-stream bytes belong to the chunk (see DESIGN.md).
package lzb

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/cosnicolaou/fivez/internal/containererr"
	"github.com/cosnicolaou/fivez/internal/lzmatch"
)

// Magic is the archive header: uppercase(format-name) + one version byte.
var Magic = []byte("LZB\x01")

// ChunkSize bounds how many raw bytes are materialized per chunk.
const ChunkSize = 1 << 16

// MinLen is LZB's default back-reference minimum length. BWLZ3 uses its
// own, much larger LZ_MIN_LEN=512 when it embeds LZB-style compression
// (spec.md S6.2); that is a distinct call site in the bwlz3 package, not
// this constant.
const MinLen = 4

var matchParams = lzmatch.Params{
	MinLen:   MinLen,
	MaxLen:   1 << 20, // extension bytes make long matches cheap to encode
	MaxDist:  65535,
	MaxChain: 64,
}

// Compress reads r to EOF and writes an LZB archive to w.
func Compress(w io.Writer, r io.Reader) error {
	if _, err := w.Write(Magic); err != nil {
		return containererr.Wrap(err, "lzb", "write magic")
	}
	buf := make([]byte, ChunkSize)
	for {
		n, err := io.ReadFull(r, buf)
		if n > 0 {
			tokens := encodeChunk(buf[:n])
			var lenBuf [4]byte
			binary.LittleEndian.PutUint32(lenBuf[:], uint32(len(tokens)))
			if _, werr := w.Write(lenBuf[:]); werr != nil {
				return containererr.Wrap(werr, "lzb", "write chunk length")
			}
			if _, werr := w.Write(tokens); werr != nil {
				return containererr.Wrap(werr, "lzb", "write chunk")
			}
		}
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			break
		}
		if err != nil {
			return containererr.Wrap(err, "lzb", "read chunk")
		}
	}
	return nil
}

func writeExtended(out []byte, v int) []byte {
	for v >= 255 {
		out = append(out, 255)
		v -= 255
	}
	return append(out, byte(v))
}

func nibbleAndExt(v int) (nib byte, hasExt bool, extVal int) {
	if v < 15 {
		return byte(v), false, 0
	}
	return 15, true, v - 15
}

// EncodeChunkMinLen is encodeChunk generalized to an explicit minimum match
// length, used by bwlz3 to embed LZB-style token compression with
// LZ_MIN_LEN=512 (spec.md S6.2 BWLZ3) instead of this package's own
// default MinLen.
func EncodeChunkMinLen(chunk []byte, minLen int) []byte {
	p := matchParams
	p.MinLen = minLen
	return encodeChunkParams(chunk, p)
}

// DecodeChunkMinLen is the inverse of EncodeChunkMinLen.
func DecodeChunkMinLen(tokens []byte, minLen int) ([]byte, error) {
	return decodeChunkMinLen(tokens, minLen)
}

func encodeChunk(chunk []byte) []byte {
	return encodeChunkParams(chunk, matchParams)
}

func encodeChunkParams(chunk []byte, params lzmatch.Params) []byte {
	minLen := params.MinLen
	n := len(chunk)
	idx := lzmatch.NewIndex(chunk, params)
	inserted := 0
	out := make([]byte, 0, n)

	litStart := 0
	pos := 0
	for pos < n {
		for inserted < pos {
			idx.Insert(inserted)
			inserted++
		}
		m, ok := idx.Find(pos)
		if !ok {
			pos++
			continue
		}
		litLen := pos - litStart
		matchLen := m.Len - minLen

		litNib, litExt, litExtVal := nibbleAndExt(litLen)
		matNib, matExt, matExtVal := nibbleAndExt(matchLen)
		out = append(out, (litNib<<4)|matNib)
		if litExt {
			out = writeExtended(out, litExtVal)
		}
		out = append(out, chunk[litStart:litStart+litLen]...)

		var distBuf [2]byte
		binary.LittleEndian.PutUint16(distBuf[:], uint16(m.Dist))
		out = append(out, distBuf[:]...)
		if matExt {
			out = writeExtended(out, matExtVal)
		}

		pos += m.Len
		litStart = pos
	}

	// Final literal-only token covering any trailing unmatched bytes.
	litLen := n - litStart
	litNib, litExt, litExtVal := nibbleAndExt(litLen)
	out = append(out, litNib<<4)
	if litExt {
		out = writeExtended(out, litExtVal)
	}
	out = append(out, chunk[litStart:litStart+litLen]...)
	return out
}

// Decompress reads an LZB archive from r and writes the original bytes to w.
func Decompress(w io.Writer, r io.Reader) error {
	magic := make([]byte, len(Magic))
	if _, err := io.ReadFull(r, magic); err != nil {
		return containererr.Wrap(err, "lzb", "read magic")
	}
	for i := range magic {
		if magic[i] != Magic[i] {
			return containererr.Wrap(containererr.New(containererr.BadMagic, "not an LZB archive"), "lzb", "check magic")
		}
	}
	for {
		var lenBuf [4]byte
		_, err := io.ReadFull(r, lenBuf[:])
		if err == io.EOF {
			break
		}
		if err != nil {
			return containererr.Wrap(err, "lzb", "read chunk length")
		}
		tokenLen := binary.LittleEndian.Uint32(lenBuf[:])
		tokens := make([]byte, tokenLen)
		if _, err := io.ReadFull(r, tokens); err != nil {
			return containererr.Wrap(err, "lzb", "read chunk")
		}
		chunk, err := decodeChunkMinLen(tokens, MinLen)
		if err != nil {
			return containererr.Wrap(err, "lzb", "decode chunk")
		}
		if _, err := w.Write(chunk); err != nil {
			return containererr.Wrap(err, "lzb", "write chunk")
		}
	}
	return nil
}

func readExtended(br *bytes.Reader, nib byte) (int, error) {
	v := int(nib)
	if nib != 15 {
		return v, nil
	}
	for {
		b, err := br.ReadByte()
		if err != nil {
			return 0, containererr.New(containererr.TruncatedStream, "lzb extension byte")
		}
		v += int(b)
		if b != 255 {
			break
		}
	}
	return v, nil
}

func decodeChunkMinLen(tokens []byte, minLen int) ([]byte, error) {
	br := bytes.NewReader(tokens)
	out := make([]byte, 0, len(tokens)*2)
	for {
		tok, err := br.ReadByte()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		litLen, err := readExtended(br, tok>>4)
		if err != nil {
			return nil, err
		}
		lit := make([]byte, litLen)
		if _, err := io.ReadFull(br, lit); err != nil {
			return nil, containererr.New(containererr.TruncatedStream, "lzb literal run")
		}
		out = append(out, lit...)
		if br.Len() == 0 {
			// literal-only end-of-chunk token.
			return out, nil
		}
		var distBuf [2]byte
		if _, err := io.ReadFull(br, distBuf[:]); err != nil {
			return nil, containererr.New(containererr.TruncatedStream, "lzb distance")
		}
		dist := int(binary.LittleEndian.Uint16(distBuf[:]))
		matchLen, err := readExtended(br, tok&0x0f)
		if err != nil {
			return nil, err
		}
		matchLen += minLen
		if dist < 1 || dist > len(out) {
			return nil, containererr.New(containererr.InvalidBackReference, "lzb back-reference")
		}
		start := len(out) - dist
		for k := 0; k < matchLen; k++ {
			out = append(out, out[start+k])
		}
	}
}
