// Copyright 2020 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package main

import (
	"github.com/cosnicolaou/fivez/bwlz3"
	"github.com/cosnicolaou/fivez/bwlzhd"
)

// setVerifyHash wires the --verify-hash debug flag into BWLZHD, which logs
// a per-chunk content hash with the sizes behind its COMPRESSED/UNCOMPRESSED
// mode choice, and BWLZ3, which logs a per-chunk content hash and raw size
// (BWLZ3 has no mode choice). The other formats do not log.
func setVerifyHash(v bool) {
	bwlzhd.VerifyHash = v
	bwlz3.VerifyHash = v
}
