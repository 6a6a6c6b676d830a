// Copyright 2020 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package mtf implements the move-to-front transform (spec.md S4.6), over
// an explicit alphabet. Grounded directly on
// other_examples' dsnet-compress bzip2 mtf_rle2.go moveToFront type (dict
// slice, linear scan, copy(dict[1:], dict[:idx]) shift), generalized here
// to an arbitrary caller-supplied symbol type via int-valued alphabets so
// it serves both the byte MTF stage and BWLZ3's symbolic MTF stage.
package mtf

// Encode performs the move-to-front transform of vals against the given
// initial alphabet (not mutated), returning the index sequence. alphabet
// must contain every symbol that occurs in vals.
func Encode(vals []int, alphabet []int) []int {
	dict := append([]int(nil), alphabet...)
	out := make([]int, len(vals))
	for i, v := range vals {
		idx := indexOf(dict, v)
		copy(dict[1:idx+1], dict[:idx])
		dict[0] = v
		out[i] = idx
	}
	return out
}

// Decode is the exact inverse of Encode.
func Decode(idxs []int, alphabet []int) []int {
	dict := append([]int(nil), alphabet...)
	out := make([]int, len(idxs))
	for i, idx := range idxs {
		v := dict[idx]
		copy(dict[1:idx+1], dict[:idx])
		dict[0] = v
		out[i] = v
	}
	return out
}

func indexOf(dict []int, v int) int {
	for i, d := range dict {
		if d == v {
			return i
		}
	}
	panic("mtf: symbol not in alphabet")
}
