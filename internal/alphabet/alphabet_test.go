// Copyright 2020 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package alphabet

import (
	"bytes"
	"testing"

	"github.com/cosnicolaou/fivez/internal/bitio"
)

func TestEncodeDecode(t *testing.T) {
	for i, members := range [][]int{
		{},
		{0},
		{255},
		{0, 1, 2, 3, 4},
		{0, 31, 32, 63, 64, 128, 255},
		func() []int {
			all := make([]int, 256)
			for i := range all {
				all[i] = i
			}
			return all
		}(),
	} {
		var present [256]bool
		for _, m := range members {
			present[m] = true
		}

		var buf bytes.Buffer
		bw := bitio.NewWriter(&buf)
		Encode(bw, present)
		bw.Close()

		br := bitio.NewReader(bytes.NewReader(buf.Bytes()))
		got := Decode(br)
		if got != present {
			t.Errorf("%v: round trip mismatch for members %v", i, members)
		}
	}
}
