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

package block

import (
	"github.com/eeeeeeeeeevan/odzipweb/bitio"
	"github.com/eeeeeeeeeevan/odzipweb/huffman"
	"github.com/eeeeeeeeeevan/odzipweb/lztable"

	odz "github.com/eeeeeeeeeevan/odzipweb"
)

// Decompressor decodes Huffman block bodies produced by Compressor. A
// Decompressor is reused across blocks (§5): its decode tables are
// rebuilt, not reallocated, for every block.
type Decompressor struct {
	llTable   *huffman.DecodeTable
	distTable *huffman.DecodeTable
}

// NewDecompressor allocates a Decompressor ready for repeated use.
func NewDecompressor() *Decompressor {
	return &Decompressor{
		llTable:   huffman.NewDecodeTable(),
		distTable: huffman.NewDecodeTable(),
	}
}

// DecompressHuffman decodes a Huffman block body into out[:rawSize],
// which must have length >= rawSize. It reports ok=false on any
// violation of the §4.5 hot-loop invariants (out-of-range code index,
// out-of-range length/distance, distance exceeding what has been
// written, overrun past rawSize, or a final position short of rawSize) —
// the caller must treat that as stream corruption.
func (this *Decompressor) DecompressHuffman(payload []byte, rawSize int, out []byte) (n int, ok bool) {
	r := bitio.NewReader(payload)

	ll, dist, err := huffman.ReadTrees(r, this.llTable, this.distTable)
	if err != nil {
		return 0, false
	}

	outPos := 0

	for {
		sym, decOK := ll.Table.Decode(r)
		if !decOK {
			return 0, false
		}

		if sym == odz.EndOfBlockSym {
			break
		}

		if sym < odz.EndOfBlockSym {
			if outPos >= rawSize {
				return 0, false
			}

			out[outPos] = byte(sym)
			outPos++
			continue
		}

		lc := sym - 257
		if lc < 0 || lc >= len(lztable.LengthBase) {
			return 0, false
		}

		length := lztable.LengthBase[lc]
		if eb := lztable.LengthExtraBits[lc]; eb > 0 {
			length += int(r.Read(eb))
		}

		if length < odz.MinMatch || length > odz.MaxMatch {
			return 0, false
		}

		dc, distOK := dist.Table.Decode(r)
		if !distOK || dc < 0 || dc >= len(lztable.DistBase) {
			return 0, false
		}

		distance := lztable.DistBase[dc]
		if eb := lztable.DistExtraBits[dc]; eb > 0 {
			distance += int(r.Read(eb))
		}

		if distance < 1 || distance > outPos {
			return 0, false
		}

		if outPos+length > rawSize {
			return 0, false
		}

		copyMatch(out, outPos, distance, length)
		outPos += length
	}

	if outPos != rawSize {
		return 0, false
	}

	return outPos, true
}

// copyMatch replays one match into out at outPos, applying the
// three-way overlap policy of §4.5 (distance >= length: plain copy;
// distance == 1: byte fill; 1 < distance < length: byte-by-byte
// forward copy that reads bytes it has just written — the
// run-length-via-match case, and the
// load-bearing correctness detail of this whole function).
func copyMatch(out []byte, outPos, distance, length int) {
	start := outPos - distance

	if distance >= length {
		copy(out[outPos:outPos+length], out[start:start+length])
		return
	}

	if distance == 1 {
		b := out[start]

		for i := 0; i < length; i++ {
			out[outPos+i] = b
		}

		return
	}

	for i := 0; i < length; i++ {
		out[outPos+i] = out[start+i]
	}
}
