// Copyright 2020 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package containererr defines the fatal error kinds shared by every
// container format (spec.md S7) and wraps them with a label and the
// failing stage for CLI diagnostics. The error kinds are grounded directly
// on internal/bzip2.StructuralError in the teacher repository; the wrapping
// uses github.com/cockroachdb/errors (as used for annotated errors
// elsewhere in the retrieved example pack) instead of a bespoke sentinel
// type per call site.
package containererr

import "github.com/cockroachdb/errors"

// Kind identifies one of the fatal error categories of spec.md S7.
type Kind string

const (
	BadMagic               Kind = "bad magic"
	TruncatedStream        Kind = "truncated stream"
	InvalidFrequencyTable  Kind = "invalid frequency table"
	OversizedTotal         Kind = "oversized arithmetic total"
	InvalidBackReference   Kind = "invalid back-reference"
	IOError                Kind = "i/o error"
)

// StructuralError is a fatal, archive-level error: the analogue of
// internal/bzip2.StructuralError, but categorized by Kind.
type StructuralError struct {
	Kind Kind
	Msg  string
}

func (e *StructuralError) Error() string {
	if e.Msg == "" {
		return string(e.Kind)
	}
	return string(e.Kind) + ": " + e.Msg
}

// New constructs a StructuralError of the given kind.
func New(kind Kind, msg string) error {
	return &StructuralError{Kind: kind, Msg: msg}
}

// Wrap annotates err with path and the failing stage/operation. Every
// container passes its format name (e.g. "lza") as path; the CLI adds the
// offending file's name when it reports the error.
func Wrap(err error, path, stage string) error {
	if err == nil {
		return nil
	}
	return errors.Wrapf(err, "%s: %s", path, stage)
}
