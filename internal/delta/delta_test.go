// Copyright 2020 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package delta

import (
	"bytes"
	"reflect"
	"testing"

	"github.com/cosnicolaou/fivez/internal/bitio"
)

func TestEncodeDecodeInts(t *testing.T) {
	for i, tc := range [][]int64{
		nil,
		{0},
		{1},
		{-1},
		{0, 0, 0},
		{1, 2, 3, 4, 5},
		{100, -100, 100, -100},
		{0, 1000000, -1000000, 1},
	} {
		var buf bytes.Buffer
		bw := bitio.NewWriter(&buf)
		EncodeInts(bw, tc)
		bw.Close()

		br := bitio.NewReader(bytes.NewReader(buf.Bytes()))
		got := DecodeInts(br)
		if len(tc) == 0 {
			tc = []int64{}
		}
		if !reflect.DeepEqual(got, tc) {
			t.Errorf("%v: got %v, want %v", i, got, tc)
		}
	}
}

func TestEncodeDecodeIntsDouble(t *testing.T) {
	for i, tc := range [][]int64{
		nil,
		{0},
		{1 << 20},
		{-(1 << 30), 1 << 30, 0},
		{1, 2, 3, 4, 5, 6, 7, 8, 9, 10},
	} {
		var buf bytes.Buffer
		bw := bitio.NewWriter(&buf)
		EncodeIntsDouble(bw, tc)
		bw.Close()

		br := bitio.NewReader(bytes.NewReader(buf.Bytes()))
		got := DecodeIntsDouble(br)
		if len(tc) == 0 {
			tc = []int64{}
		}
		if !reflect.DeepEqual(got, tc) {
			t.Errorf("%v: got %v, want %v", i, got, tc)
		}
	}
}
