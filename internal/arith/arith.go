// Copyright 2020 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package arith implements the 32-bit arithmetic (range) coder specified in
// spec.md S4.4: cumulative-frequency driven, underflow-counted, bit-stuffed,
// with an EOF sentinel equal to one greater than the maximum input symbol.
//
// There is no teacher analogue for this stage (bzip2 uses Huffman, not
// arithmetic coding); the state-machine shape (explicit struct fields for
// running state, no hidden allocation in the hot loop, Err()-style deferred
// error reporting) follows internal/bzip2/bit_reader.go's bitReader.
package arith

import "github.com/cosnicolaou/fivez/internal/bitio"

const (
	maxVal  = uint64(1)<<32 - 1
	half    = uint64(1) << 31
	quarter = uint64(1) << 30
	tquart  = 3 * quarter
)

// ErrOversizedTotal is returned when a cumulative-frequency total exceeds
// the coder's 2^32-1 capacity (spec.md S7 OversizedTotal).
type ErrOversizedTotal struct{ Total uint64 }

func (e ErrOversizedTotal) Error() string {
	return "arith: cumulative total exceeds MAX"
}

// Model is a cumulative-frequency table over symbols 0..n-1, where the last
// symbol is the EOF sentinel (frequency 1). cum[i] is the cumulative count
// of symbols < i; cum[n] == total.
type Model struct {
	cum   []uint64
	total uint64
}

// NewModel builds a Model from per-symbol frequencies, appending the EOF
// sentinel with a frequency of 1.
func NewModel(freq []uint64) (*Model, error) {
	cum := make([]uint64, len(freq)+2)
	var sum uint64
	for i, f := range freq {
		cum[i] = sum
		sum += f
	}
	cum[len(freq)] = sum // EOF sentinel cumulative start
	sum++                // EOF sentinel has frequency 1
	cum[len(freq)+1] = sum
	if sum > maxVal {
		return nil, ErrOversizedTotal{Total: sum}
	}
	return &Model{cum: cum, total: sum}, nil
}

// EOFSymbol returns the index of the EOF sentinel symbol.
func (m *Model) EOFSymbol() int { return len(m.cum) - 2 }

// Range returns (low, high-exclusive) cumulative counts for symbol sym.
func (m *Model) Range(sym int) (uint64, uint64) {
	return m.cum[sym], m.cum[sym+1]
}

// Total returns the cumulative-frequency total T.
func (m *Model) Total() uint64 { return m.total }

// Find returns the symbol whose cumulative range contains target.
func (m *Model) Find(target uint64) int {
	lo, hi := 0, len(m.cum)-1
	for lo+1 < hi {
		mid := (lo + hi) / 2
		if m.cum[mid] <= target {
			lo = mid
		} else {
			hi = mid
		}
	}
	return lo
}

// Encoder implements the encode side of the 32-bit arithmetic coder.
type Encoder struct {
	bw      *bitio.Writer
	low     uint64
	high    uint64
	ufCount uint64
}

// NewEncoder returns an Encoder writing to bw.
func NewEncoder(bw *bitio.Writer) *Encoder {
	return &Encoder{bw: bw, low: 0, high: maxVal}
}

// Encode encodes one symbol against model m.
func (e *Encoder) Encode(m *Model, sym int) {
	cl, ch := m.Range(sym)
	w := e.high - e.low + 1
	t := m.Total()
	e.high = e.low + (w*ch)/t - 1
	e.low = e.low + (w*cl)/t
	e.renormalize()
}

func (e *Encoder) emit(bit uint) {
	e.bw.WriteBit(bit)
	inv := uint(1 - bit)
	for ; e.ufCount > 0; e.ufCount-- {
		e.bw.WriteBit(inv)
	}
}

func (e *Encoder) renormalize() {
	for {
		switch {
		case e.high < half:
			e.emit(0)
		case e.low >= half:
			e.emit(1)
			e.low -= half
			e.high -= half
		case e.low >= quarter && e.high < tquart:
			e.ufCount++
			e.low -= quarter
			e.high -= quarter
		default:
			return
		}
		e.low <<= 1
		e.high = (e.high << 1) | 1
	}
}

// Finish encodes the EOF sentinel and flushes the final two bits plus
// byte-alignment padding, per spec.md S4.4.
func (e *Encoder) Finish(m *Model) {
	e.Encode(m, m.EOFSymbol())
	e.bw.WriteBit(0)
	e.bw.WriteBit(1)
	e.bw.Close()
}

// Decoder implements the decode side of the 32-bit arithmetic coder.
type Decoder struct {
	br   *bitio.Reader
	low  uint64
	high uint64
	enc  uint64
}

// NewDecoder returns a Decoder reading from br, priming enc with the first
// 32 stream bits.
func NewDecoder(br *bitio.Reader) *Decoder {
	d := &Decoder{br: br, low: 0, high: maxVal}
	for i := 0; i < 32; i++ {
		d.enc = (d.enc << 1) | uint64(d.readBit())
	}
	return d
}

// readBit reads the next bit of the encoded stream, substituting a 1-bit
// once br is exhausted: spec.md S4.4 pads the encoder's output with the
// final two bits "01" plus byte-alignment 1-fill, and the decoder's
// renormalization can demand more bits than the encoder actually emitted,
// so the stream must behave as if followed by an infinite run of 1-bits
// rather than erroring or zero-filling past its last real byte.
func (d *Decoder) readBit() uint {
	if d.br.Err() != nil {
		return 1
	}
	b := d.br.ReadBit()
	if d.br.Err() != nil {
		return 1
	}
	return b
}

// Decode returns the next symbol decoded against model m.
func (d *Decoder) Decode(m *Model) int {
	w := d.high - d.low + 1
	t := m.Total()
	ss := (t*(d.enc-d.low+1) - 1) / w
	sym := m.Find(ss)
	cl, ch := m.Range(sym)
	d.high = d.low + (w*ch)/t - 1
	d.low = d.low + (w*cl)/t
	d.renormalize()
	return sym
}

func (d *Decoder) renormalize() {
	for {
		switch {
		case d.high < half:
		case d.low >= half:
			d.low -= half
			d.high -= half
			d.enc -= half
		case d.low >= quarter && d.high < tquart:
			d.low -= quarter
			d.high -= quarter
			d.enc -= quarter
		default:
			return
		}
		d.low <<= 1
		d.high = (d.high << 1) | 1
		d.enc = (d.enc << 1) | uint64(d.readBit())
	}
}
