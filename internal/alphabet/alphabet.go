// Copyright 2020 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package alphabet implements the subset-of-byte-values encoding used by
// MRA and BWLZ3 (spec.md S6.3): one byte of eight group-presence flags for
// the eight 32-symbol groups of the 0..255 range, followed by a delta-double
// coded vector of the present groups' 32-bit bitmaps. Grounded on
// internal/bzip2's own two-level 16x16 symbol-presence bitmap in the
// teacher repository, generalized from 16 groups of 16 to 8 groups of 32.
package alphabet

import (
	"github.com/cosnicolaou/fivez/internal/bitio"
	"github.com/cosnicolaou/fivez/internal/delta"
)

const (
	groups     = 8
	groupSize  = 32
)

// Encode writes the subset of byte values for which present[b] is true.
func Encode(bw *bitio.Writer, present [256]bool) {
	var bitmaps [groups]uint32
	header := uint(0)
	for g := 0; g < groups; g++ {
		var bm uint32
		for b := 0; b < groupSize; b++ {
			if present[g*groupSize+b] {
				bm |= 1 << uint(b)
			}
		}
		bitmaps[g] = bm
		if bm != 0 {
			header |= 1 << uint(g)
		}
	}
	bw.WriteBitsBE(uint64(header), 8)
	vals := make([]int64, 0, groups)
	for g := 0; g < groups; g++ {
		if bitmaps[g] != 0 {
			vals = append(vals, int64(bitmaps[g]))
		}
	}
	delta.EncodeIntsDouble(bw, vals)
}

// Decode is the exact inverse of Encode.
func Decode(br *bitio.Reader) [256]bool {
	header := uint(br.ReadBitsBE(8))
	vals := delta.DecodeIntsDouble(br)
	var present [256]bool
	vi := 0
	for g := 0; g < groups; g++ {
		if header&(1<<uint(g)) == 0 {
			continue
		}
		bm := uint32(vals[vi])
		vi++
		for b := 0; b < groupSize; b++ {
			if bm&(1<<uint(b)) != 0 {
				present[g*groupSize+b] = true
			}
		}
	}
	return present
}
