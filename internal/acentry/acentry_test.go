// Copyright 2020 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package acentry

import (
	"bytes"
	"reflect"
	"testing"

	"github.com/cosnicolaou/fivez/internal/bitio"
)

func TestEncodeDecode(t *testing.T) {
	for i, symbols := range [][]int{
		{},
		{0},
		{0, 0, 0, 0},
		{0, 1, 2, 3, 0, 1, 0},
		{5, 5, 5, 1, 200, 5},
	} {
		var buf bytes.Buffer
		bw := bitio.NewWriter(&buf)
		if err := Encode(bw, symbols); err != nil {
			t.Fatalf("%v: Encode: %v", i, err)
		}
		bw.Close()

		br := bitio.NewReader(bytes.NewReader(buf.Bytes()))
		got, err := Decode(br)
		if err != nil {
			t.Fatalf("%v: Decode: %v", i, err)
		}
		if len(symbols) == 0 {
			symbols = []int{}
		}
		if !reflect.DeepEqual(got, symbols) {
			t.Errorf("%v: got %v, want %v", i, got, symbols)
		}
	}
}
