// Copyright 2020 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package main

import "os"

// isTerminal reports whether f looks like an interactive terminal, using
// only the stdlib os.ModeCharDevice bit (see DESIGN.md's "dropped teacher
// dependencies": golang.org/x/crypto/ssh/terminal is not carried forward
// since this narrower check is all the overwrite prompt needs).
func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
