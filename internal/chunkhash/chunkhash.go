// Copyright 2020 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package chunkhash labels chunks with a fast content hash, used by the
// CLI's `--verify-hash` debug flag (BWLZHD and BWLZ3 log a per-chunk hash
// alongside its size, letting two runs over the same input be diffed
// without comparing whole archives). Grounded on `github.com/cespare/xxhash/v2`
// from the `elliotnunn-BeHierarchic` example repo; not used by the
// `fivez verify` checksum (internal/archivecrc), which follows the
// teacher's own crc32-based scheme instead.
package chunkhash

import "github.com/cespare/xxhash/v2"

// Sum64 returns the xxhash64 digest of a chunk's raw bytes.
func Sum64(chunk []byte) uint64 {
	return xxhash.Sum64(chunk)
}
