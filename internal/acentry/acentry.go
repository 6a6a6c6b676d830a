// Copyright 2020 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package acentry implements the "AC entry" wire format used by LZA and
// MRA (spec.md S6.2): a delta-double-encoded dense frequency vector
// indexed 0..max_symbol with one extra trailing slot holding the encoded
// payload's byte length, followed by the raw arithmetic-coded bits packed
// into that many bytes. Grounded directly on internal/arith plus spec.md
// S6.2/S9 ("dense vectors... preserve this contract").
package acentry

import (
	"bytes"

	"github.com/cosnicolaou/fivez/internal/arith"
	"github.com/cosnicolaou/fivez/internal/bitio"
	"github.com/cosnicolaou/fivez/internal/delta"
)

// Encode writes an AC entry for symbols, returning an error only if the
// cumulative-frequency total overflows the coder's 2^32-1 capacity.
func Encode(bw *bitio.Writer, symbols []int) error {
	max := 0
	for _, s := range symbols {
		if s > max {
			max = s
		}
	}
	n := max + 1
	if n < 1 {
		n = 1
	}
	freq := make([]uint64, n)
	for _, s := range symbols {
		freq[s]++
	}

	model, err := arith.NewModel(freq)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	tmp := bitio.NewWriter(&buf)
	enc := arith.NewEncoder(tmp)
	for _, s := range symbols {
		enc.Encode(model, s)
	}
	enc.Finish(model)

	vals := make([]int64, n+1)
	for i, f := range freq {
		vals[i] = int64(f)
	}
	vals[n] = int64(buf.Len())
	delta.EncodeIntsDouble(bw, vals)

	bw.PadToByte()
	for _, b := range buf.Bytes() {
		bw.WriteBits(uint64(b), 8)
	}
	return nil
}

// Decode reads an AC entry and returns the decoded symbol sequence.
func Decode(br *bitio.Reader) ([]int, error) {
	vals := delta.DecodeIntsDouble(br)
	n := len(vals) - 1
	freq := make([]uint64, n)
	for i := 0; i < n; i++ {
		freq[i] = uint64(vals[i])
	}
	byteLen := int(vals[n])

	model, err := arith.NewModel(freq)
	if err != nil {
		return nil, err
	}

	br.Align()
	payload := make([]byte, byteLen)
	for i := range payload {
		payload[i] = byte(br.ReadBits(8))
	}

	ptmp := bitio.NewReader(bytes.NewReader(payload))
	dec := arith.NewDecoder(ptmp)
	eof := model.EOFSymbol()
	out := make([]int, 0)
	for {
		sym := dec.Decode(model)
		if sym == eof {
			break
		}
		out = append(out, sym)
	}
	return out, nil
}
