// Copyright 2020 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package bwt

import (
	"bytes"
	"reflect"
	"testing"
)

func TestForwardInverseBytes(t *testing.T) {
	for i, s := range []string{
		"",
		"a",
		"banana",
		"aaaaaaaaaa",
		"abracadabra",
		"the quick brown fox jumps over the lazy dog",
		"mississippi",
	} {
		data := []byte(s)
		out, idx := ForwardBytes(data)
		got := InverseBytes(out, idx)
		if !bytes.Equal(got, data) {
			t.Errorf("%v: got %q, want %q", i, got, s)
		}
	}
}

func TestForwardInverseSymbols(t *testing.T) {
	for i, data := range [][]int{
		{},
		{0},
		{1, 2, 3, 1, 2, 3},
		{5, 5, 5, 5, 5},
		{256, 0, 1, 256, 0, 1},
	} {
		out, idx := ForwardSymbols(data)
		got := InverseSymbols(out, idx)
		if len(data) == 0 {
			if len(got) != 0 {
				t.Errorf("%v: got %v, want empty", i, got)
			}
			continue
		}
		if !reflect.DeepEqual(got, data) {
			t.Errorf("%v: got %v, want %v", i, got, data)
		}
	}
}
