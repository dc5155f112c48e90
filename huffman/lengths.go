/*
Copyright 2011-2024 Frederic Langlet
Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
you may obtain a copy of the License at

                http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package huffman implements the canonical Huffman codec (§4.2): building
// code-length vectors from symbol frequencies, deriving canonical codes
// from a length vector, building the two-level decode table, and decoding
// single symbols off that table.
package huffman

import (
	"container/heap"
	"sort"
)

// node is a Huffman tree node: a leaf (sym >= 0) or an internal node
// (sym == -1) with two children.
type node struct {
	freq        int
	sym         int
	left, right *node
}

type nodeHeap []*node

func (h nodeHeap) Len() int { return len(h) }

// Tie-break by symbol so tree shape (and therefore the initial, pre-limit
// depth assignment) is deterministic across runs; this has no bearing on
// interop since only the final length vector, and the canonical codes
// derived from it, are ever transmitted.
func (h nodeHeap) Less(i, j int) bool {
	if h[i].freq != h[j].freq {
		return h[i].freq < h[j].freq
	}

	return h[i].sym < h[j].sym
}

func (h nodeHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *nodeHeap) Push(x interface{}) { *h = append(*h, x.(*node)) }

func (h *nodeHeap) Pop() interface{} {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

// BuildLengths derives a code-length vector for the given per-symbol
// frequencies (§4.2 "Encode-side: code-length assignment"). The returned
// slice has the same length as freqs; unused symbols get length 0.
//
// Edge cases (§4.2):
//   - no symbol used: an arbitrary symbol (index 0) is assigned length 1,
//     so the alphabet is never transmitted as truly empty.
//   - exactly one symbol used: it is assigned length 1, code 0, with no
//     phantom partner (the decode side tolerates this directly, see
//     canonical.go).
func BuildLengths(freqs []int, maxBits int) []byte {
	lengths := make([]byte, len(freqs))

	leaves := make([]*node, 0, len(freqs))

	for sym, f := range freqs {
		if f > 0 {
			leaves = append(leaves, &node{freq: f, sym: sym})
		}
	}

	if len(leaves) == 0 {
		lengths[0] = 1
		return lengths
	}

	if len(leaves) == 1 {
		lengths[leaves[0].sym] = 1
		return lengths
	}

	h := make(nodeHeap, len(leaves))
	copy(h, leaves)
	heap.Init(&h)

	for h.Len() > 1 {
		a := heap.Pop(&h).(*node)
		b := heap.Pop(&h).(*node)
		heap.Push(&h, &node{freq: a.freq + b.freq, sym: -1, left: a, right: b})
	}

	root := h[0]
	maxDepth := 0

	// Iterative walk (explicit stack) rather than recursion: alphabets
	// are small (<=286) but there is no reason to risk stack depth on a
	// pathological skewed tree.
	type frame struct {
		n     *node
		depth int
	}

	stack := []frame{{root, 0}}

	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if f.n.sym >= 0 {
			d := f.depth
			lengths[f.n.sym] = byte(d)

			if d > maxDepth {
				maxDepth = d
			}

			continue
		}

		stack = append(stack, frame{f.n.left, f.depth + 1}, frame{f.n.right, f.depth + 1})
	}

	if maxDepth <= maxBits {
		return lengths
	}

	limitLengths(lengths, leaves, maxDepth, maxBits)
	return lengths
}

// limitLengths re-derives a length assignment capped at maxBits from the
// over-long one produced by the unconstrained Huffman tree, using the
// length-limiting technique spec.md §4.2 allows in place of package-merge:
// fix up the per-length histogram so it still satisfies Kraft, then hand
// the shortest available lengths to the most frequent symbols.
func limitLengths(lengths []byte, leaves []*node, maxDepth, maxBits int) {
	// bl_count[l] = number of symbols that currently have length l.
	blCount := make([]int, maxDepth+1)

	for _, n := range leaves {
		blCount[int(lengths[n.sym])]++
	}

	// Classic bit-length-limiting fixup (also used by libjpeg's Huffman
	// table builder): repeatedly trade two over-long codes for one code
	// one bit shorter and two codes one bit longer at the first level
	// below that still has room, preserving total Kraft weight.
	for bits := maxDepth; bits > maxBits; bits-- {
		for blCount[bits] > 0 {
			j := bits - 2

			for blCount[j] == 0 {
				j--
			}

			blCount[bits] -= 2
			blCount[bits-1]++
			blCount[j+1] += 2
			blCount[j]--
		}
	}

	// Most frequent symbols get the shortest of the newly fixed-up
	// lengths; this approximates the optimal assignment for the given
	// histogram and is always a valid (Kraft-satisfying) prefix code.
	sorted := make([]*node, len(leaves))
	copy(sorted, leaves)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].freq != sorted[j].freq {
			return sorted[i].freq > sorted[j].freq
		}

		return sorted[i].sym < sorted[j].sym
	})

	idx := 0

	for l := 1; l <= maxBits; l++ {
		for c := 0; c < blCount[l]; c++ {
			lengths[sorted[idx].sym] = byte(l)
			idx++
		}
	}
}

// TrimmedSize returns the smallest n >= minSize such that lengths[n:] are
// all zero, implementing the tree-transmission convention of §4.2: the
// transmitted alphabet count (n_ll/n_dist) covers every symbol up to the
// last used one, never more.
func TrimmedSize(lengths []byte, minSize int) int {
	n := len(lengths)

	for n > minSize && lengths[n-1] == 0 {
		n--
	}

	if n < minSize {
		n = minSize
	}

	return n
}
