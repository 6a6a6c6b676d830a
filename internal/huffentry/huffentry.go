// Copyright 2020 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package huffentry implements the "Huffman entry" wire format shared by
// RLH and BWLZHD (spec.md S6.2): a delta-encoded sorted list of present
// symbols, a delta-double-encoded list of their frequencies in the same
// order, a 32-bit encoded-bit length, and the code bits themselves,
// byte-padded. This is a sparse preamble (only symbols that occur are
// transmitted), the layout spec.md S6.2 gives explicitly for RLH; the
// dense 0..max_symbol vector spec.md S9 warns to preserve applies to the
// AC entry format (internal/acentry), which spec.md S6.2 describes in
// those dense terms instead.
package huffentry

import (
	"github.com/cosnicolaou/fivez/internal/bitio"
	"github.com/cosnicolaou/fivez/internal/delta"
	"github.com/cosnicolaou/fivez/internal/huffman"
)

// denseFreq builds a 0..max(symbols) frequency vector suitable for
// huffman.Build, which is keyed densely by symbol value. A single distinct
// symbol at value 0 is padded with a dummy zero-frequency entry, since
// Build requires at least two symbols in its alphabet.
func denseFreq(symbols []int) (dense []uint64, sorted []int, freqs []uint64) {
	counts := make(map[int]uint64)
	max := 0
	for _, s := range symbols {
		counts[s]++
		if s > max {
			max = s
		}
	}
	n := max + 1
	if n < 2 {
		n = 2
	}
	dense = make([]uint64, n)
	for s, c := range counts {
		dense[s] = c
	}
	sorted = make([]int, 0, len(counts))
	for s := range counts {
		sorted = append(sorted, s)
	}
	for i := 1; i < len(sorted); i++ {
		for j := i; j > 0 && sorted[j-1] > sorted[j]; j-- {
			sorted[j-1], sorted[j] = sorted[j], sorted[j-1]
		}
	}
	freqs = make([]uint64, len(sorted))
	for i, s := range sorted {
		freqs[i] = counts[s]
	}
	return dense, sorted, freqs
}

// Encode writes a Huffman entry for symbols.
func Encode(bw *bitio.Writer, symbols []int) {
	dense, sorted, freqs := denseFreq(symbols)
	tree := huffman.Build(dense)

	symVals := make([]int64, len(sorted))
	for i, s := range sorted {
		symVals[i] = int64(s)
	}
	freqVals := make([]int64, len(freqs))
	for i, f := range freqs {
		freqVals[i] = int64(f)
	}
	delta.EncodeInts(bw, symVals)
	delta.EncodeIntsDouble(bw, freqVals)

	var bitLen uint64
	lengths := tree.Lengths()
	for _, s := range symbols {
		bitLen += uint64(lengths[s])
	}
	bw.WriteBitsBE(bitLen, 32)

	for _, s := range symbols {
		tree.EncodeSymbol(bw, s)
	}
	bw.PadToByte()
}

// Decode reads a Huffman entry and returns the decoded symbol sequence.
func Decode(br *bitio.Reader) []int {
	symVals := delta.DecodeInts(br)
	freqVals := delta.DecodeIntsDouble(br)

	max := 0
	for _, s := range symVals {
		if int(s) > max {
			max = int(s)
		}
	}
	n := max + 1
	if n < 2 {
		n = 2
	}
	dense := make([]uint64, n)
	for i, s := range symVals {
		dense[int(s)] = uint64(freqVals[i])
	}
	tree := huffman.Build(dense)

	bitLen := br.ReadBitsBE(32)
	start := br.BitsRead()
	out := make([]int, 0)
	for br.BitsRead()-start < bitLen {
		out = append(out, tree.DecodeSymbol(br))
	}
	br.Align()
	return out
}
