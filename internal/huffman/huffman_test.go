// Copyright 2020 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package huffman

import (
	"bytes"
	"testing"

	"github.com/cosnicolaou/fivez/internal/bitio"
)

func TestBuildEncodeDecode(t *testing.T) {
	for i, tc := range []struct {
		freq    []uint64
		symbols []int
	}{
		{[]uint64{1, 1}, []int{0, 1, 0, 1}},
		{[]uint64{5, 1, 1, 1}, []int{0, 0, 0, 0, 1, 2, 3, 0}},
		{[]uint64{1, 2, 3, 4, 5, 6, 7, 8}, []int{0, 1, 2, 3, 4, 5, 6, 7, 7, 7, 7}},
		{[]uint64{100, 0, 0, 1}, []int{0, 3, 0, 0, 0}},
	} {
		tree := Build(tc.freq)
		var buf bytes.Buffer
		bw := bitio.NewWriter(&buf)
		for _, s := range tc.symbols {
			tree.EncodeSymbol(bw, s)
		}
		bw.Close()

		br := bitio.NewReader(bytes.NewReader(buf.Bytes()))
		for j, want := range tc.symbols {
			got := tree.DecodeSymbol(br)
			if got != want {
				t.Errorf("%v.%v: got %v, want %v", i, j, got, want)
			}
		}
	}
}

func TestKraftInequality(t *testing.T) {
	for i, freq := range [][]uint64{
		{1, 1},
		{5, 1, 1, 1},
		{1, 2, 3, 4, 5, 6, 7, 8},
		{1, 0},
	} {
		tree := Build(freq)
		var sum float64
		for _, l := range tree.Lengths() {
			sum += 1.0 / float64(uint64(1)<<l)
		}
		if sum > 1.0000001 {
			t.Errorf("%v: Kraft sum %v exceeds 1", i, sum)
		}
	}
}

func TestFromLengthsRoundTrip(t *testing.T) {
	tree := Build([]uint64{5, 1, 1, 1})
	lengths := tree.Lengths()
	rebuilt := FromLengths(lengths)

	var buf bytes.Buffer
	bw := bitio.NewWriter(&buf)
	rebuilt.EncodeSymbol(bw, 2)
	bw.Close()

	br := bitio.NewReader(bytes.NewReader(buf.Bytes()))
	if got := rebuilt.DecodeSymbol(br); got != 2 {
		t.Errorf("got %v, want 2", got)
	}
}
