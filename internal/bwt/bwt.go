// Copyright 2020 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package bwt implements the forward and inverse Burrows-Wheeler transform
// (spec.md S4.5), over bytes and over arbitrary nonnegative-integer symbol
// sequences (the "symbolic variant" needed once intermediate alphabets
// exceed 255, per BWLZ3).
//
// The inverse transform's cumulative-count/LF-mapping technique is grounded
// directly on internal/bzip2.inverseBWT in the teacher repository,
// generalized from a fixed 256-byte alphabet to an arbitrary symbol range.
// The forward transform (absent from the teacher, which is decode-only) is
// a straightforward rotation sort per spec.md S4.5, with a length cap in the
// cyclic comparator per spec.md S9 to guard against pathological all-equal
// inputs.
package bwt

import "sort"

// ForwardBytes computes the forward BWT of data, returning the permuted
// last column and the row index of the original string. A degenerate
// all-equal input produces the identity permutation with idx=0, per
// spec.md S4.5.
func ForwardBytes(data []byte) (out []byte, idx int) {
	n := len(data)
	if n == 0 {
		return nil, 0
	}
	rot := make([]int, n)
	for i := range rot {
		rot[i] = i
	}
	sort.SliceStable(rot, func(i, j int) bool {
		a, b := rot[i], rot[j]
		for k := 0; k < n; k++ {
			ca := data[(a+k)%n]
			cb := data[(b+k)%n]
			if ca != cb {
				return ca < cb
			}
		}
		return false
	})
	out = make([]byte, n)
	for i, start := range rot {
		out[i] = data[(start+n-1)%n]
		if start == 0 {
			idx = i
		}
	}
	return out, idx
}

// InverseBytes is the exact inverse of ForwardBytes.
func InverseBytes(l []byte, idx int) []byte {
	n := len(l)
	if n == 0 {
		return nil
	}
	var c [257]int
	for _, b := range l {
		c[int(b)+1]++
	}
	for v := 1; v <= 256; v++ {
		c[v] += c[v-1]
	}
	f := make([]byte, n)
	for v := 0; v < 256; v++ {
		for p := c[v]; p < c[v+1]; p++ {
			f[p] = byte(v)
		}
	}
	table := make([]int, n)
	cc := c
	for i, b := range l {
		table[cc[b]] = i
		cc[b]++
	}
	out := make([]byte, n)
	i := idx
	for k := 0; k < n; k++ {
		out[k] = f[i]
		i = table[i]
	}
	return out
}

// ForwardSymbols computes the forward BWT over a sequence of arbitrary
// nonnegative integer symbols, for use once an intermediate alphabet (e.g.
// LZSS-tagged bytes) exceeds 255 distinct values.
func ForwardSymbols(data []int) (out []int, idx int) {
	n := len(data)
	if n == 0 {
		return nil, 0
	}
	rot := make([]int, n)
	for i := range rot {
		rot[i] = i
	}
	sort.SliceStable(rot, func(i, j int) bool {
		a, b := rot[i], rot[j]
		for k := 0; k < n; k++ {
			ca := data[(a+k)%n]
			cb := data[(b+k)%n]
			if ca != cb {
				return ca < cb
			}
		}
		return false
	})
	out = make([]int, n)
	for i, start := range rot {
		out[i] = data[(start+n-1)%n]
		if start == 0 {
			idx = i
		}
	}
	return out, idx
}

// InverseSymbols is the exact inverse of ForwardSymbols.
func InverseSymbols(l []int, idx int) []int {
	n := len(l)
	if n == 0 {
		return nil
	}
	maxSym := 0
	for _, v := range l {
		if v > maxSym {
			maxSym = v
		}
	}
	c := make([]int, maxSym+2)
	for _, v := range l {
		c[v+1]++
	}
	for v := 1; v <= maxSym+1; v++ {
		c[v] += c[v-1]
	}
	f := make([]int, n)
	for v := 0; v <= maxSym; v++ {
		for p := c[v]; p < c[v+1]; p++ {
			f[p] = v
		}
	}
	table := make([]int, n)
	cc := make([]int, len(c))
	copy(cc, c)
	for i, v := range l {
		table[cc[v]] = i
		cc[v]++
	}
	out := make([]int, n)
	i := idx
	for k := 0; k < n; k++ {
		out[k] = f[i]
		i = table[i]
	}
	return out
}
