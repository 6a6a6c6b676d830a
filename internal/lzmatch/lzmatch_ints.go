// Copyright 2020 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// IndexInts is Index generalized to an arbitrary nonnegative-integer symbol
// stream instead of a byte stream, needed by BWLZ3's final "symbolic LZ77"
// stage once the intermediate alphabet (post RLE2) exceeds 255 (spec.md
// S6.2 BWLZ3). Structurally identical to Index, just keyed on int symbols
// instead of bytes.
package lzmatch

// IndexInts is the int-symbol analogue of Index.
type IndexInts struct {
	data []int
	p    Params
	head map[uint64]int
	prev []int
}

// NewIndexInts builds an (initially empty) index over data; positions are
// inserted incrementally via Insert, mirroring NewIndex.
func NewIndexInts(data []int, p Params) *IndexInts {
	return &IndexInts{
		data: data,
		p:    p,
		head: make(map[uint64]int),
		prev: make([]int, len(data)),
	}
}

func hashAtInts(data []int, pos int) uint64 {
	if pos+hashBytes > len(data) {
		return 0
	}
	h := uint64(0)
	for i := 0; i < hashBytes; i++ {
		h = h*1000003 + uint64(data[pos+i]+1)
	}
	return h
}

// Insert adds position pos to the hash chain.
func (idx *IndexInts) Insert(pos int) {
	if pos+hashBytes > len(idx.data) {
		return
	}
	h := hashAtInts(idx.data, pos)
	if prevHead, ok := idx.head[h]; ok {
		idx.prev[pos] = prevHead
	} else {
		idx.prev[pos] = -1
	}
	idx.head[h] = pos
}

// Find returns the longest match ending at position pos, or ok=false if
// none reaches Params.MinLen.
func (idx *IndexInts) Find(pos int) (m Match, ok bool) {
	data := idx.data
	n := len(data)
	if pos+idx.p.MinLen > n {
		return Match{}, false
	}
	h := hashAtInts(data, pos)
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
			l := matchLenInts(data, cand, pos, idx.p.MaxLen)
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

func matchLenInts(data []int, src, dst, max int) int {
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
