// Copyright 2020 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package huffman implements canonical Huffman code construction, encoding
// and decoding (spec.md S4.3). The tree is built by repeatedly merging the
// two lowest-weight nodes, ties broken by ascending symbol value, exactly
// as grounded on internal/bzip2's canonical-tree decoder in the teacher
// repository, generalized here to also build the tree (the teacher is
// decode-only).
package huffman

import "github.com/cosnicolaou/fivez/internal/bitio"

const invalidNode = 0xffffffff

// assigned is one symbol's canonical-code assignment: its raw, 32-bit
// MSB-aligned code, the code's bit length, and the symbol it belongs to.
// Named (rather than spelled out as an anonymous struct at each use) so
// fromLengths, buildDecodeTree and buildNode all share one element type.
type assigned struct {
	code uint32
	len  uint8
	sym  int32
}

type node struct {
	left, right       uint32
	leftVal, rightVal int32
}

// Tree is a canonical Huffman code usable for both encoding and decoding.
type Tree struct {
	numSymbols int
	lengths    []uint8
	codes      []uint32 // code right-aligned in the low lengths[sym] bits, emitted MSB-first
	// decode side
	nodes    []node
	root     uint32
}

// Build constructs a canonical Huffman tree from a dense frequency table
// indexed by symbol. Every entry, including zero-frequency symbols, takes
// part in the merge and receives a code length; the wire preamble that
// describes the table is written separately (see internal/huffentry, which
// transmits only the present symbols).
func Build(freq []uint64) *Tree {
	n := len(freq)
	if n < 2 {
		panic("huffman: need at least two symbols")
	}

	// mergeNode models a node in the merge forest: either a leaf (symbol>=0)
	// or an internal node referencing two children by merge-node index.
	type mergeNode struct {
		weight uint64
		symbol int32 // -1 if internal
		left   int
		right  int
	}
	nodes := make([]mergeNode, n)
	active := make([]int, n)
	for i := range freq {
		nodes[i] = mergeNode{weight: freq[i], symbol: int32(i), left: -1, right: -1}
		active[i] = i
	}

	// Repeated two-smallest merge. Ties broken by ascending "representative"
	// symbol value (the smallest original symbol reachable from a node),
	// matching spec.md S4.3 ("ties: lexicographically smaller symbol
	// first; symbols always compared by value").
	rep := make([]int32, n)
	for i := range rep {
		rep[i] = int32(i)
	}

	less := func(x, y int) bool {
		if nodes[x].weight != nodes[y].weight {
			return nodes[x].weight < nodes[y].weight
		}
		return rep[x] < rep[y]
	}

	for len(active) > 1 {
		// find two smallest by (weight, rep)
		i1, i2 := 0, 1
		if less(active[1], active[0]) {
			i1, i2 = 1, 0
		}
		for k := 2; k < len(active); k++ {
			if less(active[k], active[i1]) {
				i2 = i1
				i1 = k
			} else if less(active[k], active[i2]) {
				i2 = k
			}
		}
		a, b := active[i1], active[i2]
		if a > b {
			a, b = b, a
		}
		newIdx := len(nodes)
		nw := nodes[a].weight + nodes[b].weight
		nr := rep[a]
		if rep[b] < nr {
			nr = rep[b]
		}
		nodes = append(nodes, mergeNode{weight: nw, symbol: -1, left: a, right: b})
		rep = append(rep, nr)

		// remove a,b from active, add newIdx
		next := active[:0:0]
		for _, idx := range active {
			if idx != a && idx != b {
				next = append(next, idx)
			}
		}
		next = append(next, newIdx)
		active = next
	}

	root := active[0]
	lengths := make([]uint8, n)
	var walk func(idx int, depth uint8)
	walk = func(idx int, depth uint8) {
		nd := nodes[idx]
		if nd.symbol >= 0 {
			d := depth
			if d == 0 {
				d = 1 // a single-symbol alphabet still needs 1 bit
			}
			lengths[nd.symbol] = d
			return
		}
		walk(nd.left, depth+1)
		walk(nd.right, depth+1)
	}
	walk(root, 0)

	return fromLengths(lengths)
}

// fromLengths builds the canonical code assignment and decode tree from a
// set of code lengths, grounded directly on
// internal/bzip2.newHuffmanTree/buildHuffmanNode.
func fromLengths(lengths []uint8) *Tree {
	n := len(lengths)
	type pair struct {
		sym int32
		len uint8
	}
	pairs := make([]pair, n)
	for i, l := range lengths {
		pairs[i] = pair{int32(i), l}
	}
	// sort by ascending length, ties by ascending symbol
	for i := 1; i < len(pairs); i++ {
		for j := i; j > 0; j-- {
			a, b := pairs[j-1], pairs[j]
			if a.len > b.len || (a.len == b.len && a.sym > b.sym) {
				pairs[j-1], pairs[j] = pairs[j], pairs[j-1]
			} else {
				break
			}
		}
	}

	codes := make([]uint32, n) // indexed by symbol
	code := uint32(0)
	length := uint8(32)
	assignedCodes := make([]assigned, n)
	for i := len(pairs) - 1; i >= 0; i-- {
		if length > pairs[i].len {
			length = pairs[i].len
		}
		assignedCodes[i] = assigned{code: code, len: length, sym: pairs[i].sym}
		codes[pairs[i].sym] = code
		code += 1 << (32 - length)
	}

	t := &Tree{numSymbols: n, lengths: lengths, codes: codes}
	t.codes = make([]uint32, n)
	for i := range t.codes {
		t.codes[i] = codes[i] >> (32 - lengths[i])
	}
	t.buildDecodeTree(assignedCodes)
	return t
}

func (t *Tree) buildDecodeTree(assignedCodes []assigned) {
	// sort by raw 32-bit code (MSB aligned) ascending
	sorted := append([]assigned{}, assignedCodes...)
	for i := 1; i < len(sorted); i++ {
		for j := i; j > 0 && sorted[j-1].code > sorted[j].code; j-- {
			sorted[j-1], sorted[j] = sorted[j], sorted[j-1]
		}
	}
	t.nodes = make([]node, 0, len(sorted))
	r, _ := buildNode(t, sorted, 0)
	t.root = r
}

func buildNode(t *Tree, codes []assigned, level uint32) (uint32, error) {
	test := uint32(1) << (31 - level)
	split := len(codes)
	for i, c := range codes {
		if c.code&test != 0 {
			split = i
			break
		}
	}
	left := codes[:split]
	right := codes[split:]
	if len(left) == 0 {
		return buildNode(t, right, level+1)
	}
	if len(right) == 0 {
		return buildNode(t, left, level+1)
	}

	idx := uint32(len(t.nodes))
	t.nodes = append(t.nodes, node{})

	var n node
	if len(left) == 1 {
		n.left = invalidNode
		n.leftVal = left[0].sym
	} else {
		li, _ := buildNode(t, left, level+1)
		n.left = li
	}
	if len(right) == 1 {
		n.right = invalidNode
		n.rightVal = right[0].sym
	} else {
		ri, _ := buildNode(t, right, level+1)
		n.right = ri
	}
	t.nodes[idx] = n
	return idx, nil
}

// FromLengths reconstructs a decode-and-encode-capable tree from a
// previously transmitted set of code lengths (the decoder side of a
// container's Huffman entry).
func FromLengths(lengths []uint8) *Tree {
	return fromLengths(lengths)
}

// Lengths returns the per-symbol code lengths in canonical order.
func (t *Tree) Lengths() []uint8 {
	return t.lengths
}

// EncodeSymbol writes the code for sym, most-significant bit first.
func (t *Tree) EncodeSymbol(bw *bitio.Writer, sym int) {
	l := t.lengths[sym]
	c := t.codes[sym]
	for i := int(l) - 1; i >= 0; i-- {
		bw.WriteBit(uint((c >> uint(i)) & 1))
	}
}

// DecodeSymbol reads and returns the next symbol from the bit stream,
// walking the tree left (bit=0) / right (bit=1) -- the same split buildNode
// used on the raw MSB-aligned code (left holds the codes with that bit
// clear, right the codes with it set), so this agrees with EncodeSymbol's
// MSB-first emission of t.codes.
func (t *Tree) DecodeSymbol(br *bitio.Reader) int {
	idx := t.root
	for {
		n := t.nodes[idx]
		bit := br.ReadBit()
		var child uint32
		var val int32
		if bit == 1 {
			child, val = n.right, n.rightVal
		} else {
			child, val = n.left, n.leftVal
		}
		if child == invalidNode {
			return int(val)
		}
		idx = child
	}
}
