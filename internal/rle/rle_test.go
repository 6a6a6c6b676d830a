// Copyright 2020 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package rle

import (
	"bytes"
	"reflect"
	"testing"
)

func TestEncode1Decode1(t *testing.T) {
	for i, tc := range []struct {
		data     []byte
		maxExtra int
	}{
		{[]byte{}, 255},
		{[]byte{1, 2, 3}, 255},
		{[]byte{65, 65, 65, 65}, 255},
		{[]byte{65, 65, 65, 65, 65, 65, 65, 65, 65, 65}, 255},
		{bytes.Repeat([]byte{7}, 1000), 254},
		{[]byte{0, 0, 0, 0, 1, 1, 1, 1, 1, 1, 1, 1}, 4},
	} {
		encoded := Encode1(tc.data, tc.maxExtra)
		got := Decode1(encoded)
		if !bytes.Equal(got, tc.data) {
			t.Errorf("%v: got %v, want %v", i, got, tc.data)
		}
	}
}

func TestEncode1IntsDecode1Ints(t *testing.T) {
	for i, tc := range []struct {
		data     []int
		maxExtra int
	}{
		{[]int{}, 255},
		{[]int{1, 2, 3}, 255},
		{[]int{256, 256, 256, 256, 256, 256}, 255},
		{[]int{0, 0, 0, 0, 0, 0, 0, 0}, 4},
	} {
		encoded := Encode1Ints(tc.data, tc.maxExtra)
		got := Decode1Ints(encoded)
		if len(tc.data) == 0 {
			tc.data = []int{}
		}
		if !reflect.DeepEqual(got, tc.data) {
			t.Errorf("%v: got %v, want %v", i, got, tc.data)
		}
	}
}

func TestEncode2Decode2(t *testing.T) {
	for i, data := range [][]byte{
		{},
		{1, 2, 3},
		{0, 0, 0, 0, 0},
		{0, 1, 0, 0, 2, 0, 0, 0, 0, 0, 0, 0, 0, 3},
		bytes.Repeat([]byte{0}, 500),
	} {
		encoded := Encode2(data)
		got := Decode2(encoded)
		if len(data) == 0 {
			data = []byte{}
		}
		if !bytes.Equal(got, data) {
			t.Errorf("%v: got %v, want %v", i, got, data)
		}
	}
}
