// Copyright 2020 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package delta implements the Elias-gamma-like variable length integer
// coding used for the frequency-table preambles of the Huffman and
// arithmetic-coder container entries (spec.md S4.2).
package delta

import "github.com/cosnicolaou/fivez/internal/bitio"

// bitLen returns the number of bits in the binary representation of v,
// v must be > 0.
func bitLen(v uint64) uint {
	n := uint(0)
	for v > 0 {
		n++
		v >>= 1
	}
	return n
}

// encodeSingle writes one signed delta using the single (gamma-like) form:
// 0 -> bit 0; nonzero -> bit 1, sign bit, unary length prefix, payload bits.
func encodeSingle(bw *bitio.Writer, d int64) {
	if d == 0 {
		bw.WriteBit(0)
		return
	}
	bw.WriteBit(1)
	sign := uint(0)
	ad := uint64(-d)
	if d > 0 {
		sign = 1
		ad = uint64(d)
	}
	bw.WriteBit(sign)
	t := bitLen(ad)
	for i := uint(0); i < t-1; i++ {
		bw.WriteBit(1)
	}
	bw.WriteBit(0)
	// payload: the t-1 low bits of ad (drop the implicit leading 1),
	// written most-significant first.
	for i := int(t) - 2; i >= 0; i-- {
		bw.WriteBit(uint((ad >> uint(i)) & 1))
	}
}

// decodeSingle is the exact inverse of encodeSingle.
func decodeSingle(br *bitio.Reader) int64 {
	if br.ReadBit() == 0 {
		return 0
	}
	sign := br.ReadBit()
	t := uint(1)
	for br.ReadBit() == 1 {
		t++
	}
	ad := uint64(1)
	for i := uint(0); i < t-1; i++ {
		ad = (ad << 1) | uint64(br.ReadBit())
	}
	if sign == 1 {
		return int64(ad)
	}
	return -int64(ad)
}

// encodeDouble writes one signed delta using the nested "double" form: the
// bit-length of the payload is itself delta-coded in single form before the
// payload bits, avoiding the O(t) unary prefix of encodeSingle for large
// magnitudes.
func encodeDouble(bw *bitio.Writer, d int64) {
	if d == 0 {
		bw.WriteBit(0)
		return
	}
	bw.WriteBit(1)
	sign := uint(0)
	ad := uint64(-d)
	if d > 0 {
		sign = 1
		ad = uint64(d)
	}
	bw.WriteBit(sign)
	t := bitLen(ad)
	tt := bitLen(uint64(t))
	for i := uint(0); i < tt-1; i++ {
		bw.WriteBit(1)
	}
	bw.WriteBit(0)
	for i := int(tt) - 2; i >= 0; i-- {
		bw.WriteBit(uint((uint64(t) >> uint(i)) & 1))
	}
	for i := int(t) - 2; i >= 0; i-- {
		bw.WriteBit(uint((ad >> uint(i)) & 1))
	}
}

func decodeDouble(br *bitio.Reader) int64 {
	if br.ReadBit() == 0 {
		return 0
	}
	sign := br.ReadBit()
	tt := uint(1)
	for br.ReadBit() == 1 {
		tt++
	}
	t := uint64(1)
	for i := uint(0); i < tt-1; i++ {
		t = (t << 1) | uint64(br.ReadBit())
	}
	ad := uint64(1)
	for i := uint(0); i < uint(t)-1; i++ {
		ad = (ad << 1) | uint64(br.ReadBit())
	}
	if sign == 1 {
		return int64(ad)
	}
	return -int64(ad)
}

// EncodeInts writes a length-prefixed sequence of consecutive differences
// using the single form, per spec.md S4.2/S8.4.
func EncodeInts(bw *bitio.Writer, vals []int64) {
	encodeSingle(bw, int64(len(vals)))
	prev := int64(0)
	for _, v := range vals {
		encodeSingle(bw, v-prev)
		prev = v
	}
}

// DecodeInts is the exact inverse of EncodeInts.
func DecodeInts(br *bitio.Reader) []int64 {
	n := decodeSingle(br)
	vals := make([]int64, 0, n)
	prev := int64(0)
	for i := int64(0); i < n; i++ {
		prev += decodeSingle(br)
		vals = append(vals, prev)
	}
	return vals
}

// EncodeIntsDouble is EncodeInts using the double form throughout, for
// vectors whose magnitudes can be very large (e.g. BWLZ3's alphabet
// bitmaps).
func EncodeIntsDouble(bw *bitio.Writer, vals []int64) {
	encodeDouble(bw, int64(len(vals)))
	prev := int64(0)
	for _, v := range vals {
		encodeDouble(bw, v-prev)
		prev = v
	}
}

// DecodeIntsDouble is the exact inverse of EncodeIntsDouble.
func DecodeIntsDouble(br *bitio.Reader) []int64 {
	n := decodeDouble(br)
	vals := make([]int64, 0, n)
	prev := int64(0)
	for i := int64(0); i < n; i++ {
		prev += decodeDouble(br)
		vals = append(vals, prev)
	}
	return vals
}
