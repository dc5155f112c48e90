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

package huffman

import (
	"github.com/eeeeeeeeeevan/odzipweb/bitio"

	odz "github.com/eeeeeeeeeevan/odzipweb"
)

// Tree is one alphabet's derived coding state: the trimmed length vector
// as transmitted, the canonical codes derived from it, and the decode
// table built from both. A Huffman block carries two Trees, one for the
// literal/length alphabet and one for distances (§4.2, §4.4).
type Tree struct {
	Lengths []byte
	Codes   []uint16
	Table   *DecodeTable
}

// BuildTree runs the encode-side pipeline for one alphabet: length
// assignment from frequencies, trimming, and canonical code derivation.
// The encoder only ever needs Codes; Table is left nil and is populated
// only on the decode side, by ReadTrees.
func BuildTree(freqs []int, minSize int) *Tree {
	lengths := BuildLengths(freqs, odz.MaxBits)
	n := TrimmedSize(lengths, minSize)
	lengths = lengths[:n]

	codes, err := BuildCanonicalCodes(lengths, odz.MaxBits)
	if err != nil {
		// BuildLengths always produces a valid, Kraft-satisfying vector;
		// a failure here means limitLengths or the edge-case handling
		// above has a bug, not bad input.
		panic(err)
	}

	return &Tree{Lengths: lengths, Codes: codes}
}

// EncodeSymbol writes one symbol's canonical code to w.
func (this *Tree) EncodeSymbol(w *bitio.Writer, sym int) {
	length := uint(this.Lengths[sym])
	w.WriteBits(uint64(reverseBits(this.Codes[sym], length)), length)
}

// WriteTrees writes the tree-transmission header and both length vectors
// (§4.2 "Tree transmission"): n_ll (9 bits, [257,286]), n_dist (5 bits,
// [1,30]), then the concatenated length vector at 4 bits per entry.
func WriteTrees(w *bitio.Writer, ll, dist *Tree) {
	w.WriteBits(uint64(len(ll.Lengths)), 9)
	w.WriteBits(uint64(len(dist.Lengths)), 5)

	for _, l := range ll.Lengths {
		w.WriteBits(uint64(l), 4)
	}

	for _, l := range dist.Lengths {
		w.WriteBits(uint64(l), 4)
	}
}

// ReadTrees reads the tree-transmission header and both length vectors,
// validating the count ranges and deriving canonical codes and decode
// tables for each alphabet. Any violation (out-of-range counts, a length
// vector that fails Kraft) is reported via err and must be treated as
// stream corruption by the caller.
func ReadTrees(r *bitio.Reader, llTable, distTable *DecodeTable) (ll, dist *Tree, err error) {
	nLL := int(r.Read(9))
	nDist := int(r.Read(5))

	if nLL < 257 || nLL > odz.NumLitLenSyms || nDist < 1 || nDist > odz.NumDistSyms {
		return nil, nil, ErrBadLengths
	}

	llLengths := make([]byte, nLL)
	for i := range llLengths {
		llLengths[i] = byte(r.Read(4))
	}

	distLengths := make([]byte, nDist)
	for i := range distLengths {
		distLengths[i] = byte(r.Read(4))
	}

	llCodes, err := BuildCanonicalCodes(llLengths, odz.MaxBits)
	if err != nil {
		return nil, nil, err
	}

	distCodes, err := BuildCanonicalCodes(distLengths, odz.MaxBits)
	if err != nil {
		return nil, nil, err
	}

	llTable.Build(llLengths, llCodes)
	distTable.Build(distLengths, distCodes)

	return &Tree{Lengths: llLengths, Codes: llCodes, Table: llTable},
		&Tree{Lengths: distLengths, Codes: distCodes, Table: distTable},
		nil
}

// EstimatedBits returns the number of bits a Huffman encoding of freqs
// under this tree's lengths would occupy, used by the block compressor's
// stored-vs-Huffman size estimate (§4.4).
func EstimatedBits(freqs []int, lengths []byte) int {
	bits := 0

	for sym, f := range freqs {
		if f > 0 && sym < len(lengths) {
			bits += f * int(lengths[sym])
		}
	}

	return bits
}
