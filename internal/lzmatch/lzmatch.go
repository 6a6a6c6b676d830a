// Copyright 2020 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package lzmatch implements the shared LZ77/LZSS sliding-window match
// finder (spec.md S4.9): a hash-chain index bounded by a maximum chain
// length, returning the longest match found at a position. Whether to use
// a match is decided by the caller: LZB, LZA and BWLZ3 take it whenever one
// is found, while BWLZHD weighs it against literals with its own bit-cost
// heuristic.
package lzmatch

// Params bounds the match finder, set per container.
type Params struct {
	MinLen     int
	MaxLen     int
	MaxDist    int
	MaxChain   int
}

const hashBytes = 4

// Match is a single back-reference: Dist >= 1, Len >= Params.MinLen.
type Match struct {
	Dist int
	Len  int
}

// Index is a hash-chain index over a fixed input buffer, used to find the
// longest match ending at any position.
type Index struct {
	data  []byte
	p     Params
	head  map[uint32]int
	prev  []int
}

// NewIndex builds an (initially empty) index over data; positions are
// inserted incrementally via Insert as the caller advances through data,
// mirroring a streaming LZ77 match finder.
func NewIndex(data []byte, p Params) *Index {
	return &Index{
		data: data,
		p:    p,
		head: make(map[uint32]int),
		prev: make([]int, len(data)),
	}
}

func hashAt(data []byte, pos int) uint32 {
	if pos+hashBytes > len(data) {
		return 0
	}
	h := uint32(0)
	for i := 0; i < hashBytes; i++ {
		h = h*131 + uint32(data[pos+i])
	}
	return h
}

// Insert adds position pos to the hash chain.
func (idx *Index) Insert(pos int) {
	if pos+hashBytes > len(idx.data) {
		return
	}
	h := hashAt(idx.data, pos)
	if prevHead, ok := idx.head[h]; ok {
		idx.prev[pos] = prevHead
	} else {
		idx.prev[pos] = -1
	}
	idx.head[h] = pos
}

// Find returns the longest match ending at position pos (i.e. starting at
// pos, using only bytes before pos as source), or ok=false if none reaches
// Params.MinLen.
func (idx *Index) Find(pos int) (m Match, ok bool) {
	data := idx.data
	n := len(data)
	if pos+idx.p.MinLen > n {
		return Match{}, false
	}
	h := hashAt(data, pos)
	cand, exists := idx.head[h]
	if !exists {
		return Match{}, false
	}
	bestLen := 0
	bestDist := 0
	chain := idx.p.MaxChain
	for cand >= 0 && chain > 0 {
		dist := pos - cand
		if dist > idx.p.MaxDist {
			break
		}
		if dist >= 1 {
			l := matchLen(data, cand, pos, idx.p.MaxLen)
			if l > bestLen {
				bestLen = l
				bestDist = dist
				if l >= idx.p.MaxLen {
					break
				}
			}
		}
		cand = idx.prev[cand]
		chain--
	}
	if bestLen < idx.p.MinLen {
		return Match{}, false
	}
	return Match{Dist: bestDist, Len: bestLen}, true
}

// matchLen returns the number of bytes that match starting at src and dst,
// up to max, allowing dst+matchLen > src (an overlapping/RLE-through
// reference), since the match is verified byte-by-byte as it would be
// copied during decode.
func matchLen(data []byte, src, dst, max int) int {
	n := len(data)
	l := 0
	for l < max && dst+l < n {
		if data[src+l] != data[dst+l] {
			break
		}
		l++
	}
	return l
}

// Decode reconstructs the original byte sequence from a stream of literal
// runs and matches, applying each match as a byte-by-byte copy so that
// length > distance (RLE-through-reference) is handled correctly.
func Decode(lits []byte, matches []Match, litRunLens []int) ([]byte, error) {
	out := make([]byte, 0, len(lits)+len(matches)*8)
	litPos := 0
	for i, m := range matches {
		runLen := litRunLens[i]
		if litPos+runLen > len(lits) {
			return nil, errInvalidStream("literal run exceeds buffer")
		}
		out = append(out, lits[litPos:litPos+runLen]...)
		litPos += runLen
		if m.Dist < 1 || m.Dist > len(out) {
			return nil, errInvalidStream("invalid back-reference distance")
		}
		if m.Len < 1 {
			return nil, errInvalidStream("invalid back-reference length")
		}
		start := len(out) - m.Dist
		for k := 0; k < m.Len; k++ {
			out = append(out, out[start+k])
		}
	}
	if litPos < len(lits) {
		out = append(out, lits[litPos:]...)
	}
	return out, nil
}

type errInvalidStream string

func (e errInvalidStream) Error() string { return "lzmatch: " + string(e) }
