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

type primaryEntry struct {
	redirect  bool
	len       uint8
	sym       int
	offset    int
	totalBits uint8
}

type secondaryEntry struct {
	len uint8
	sym int
}

// DecodeTable is the two-level decode table of §4.2: a direct
// PRIMARY_BITS-wide primary table, with a bump-allocated secondary arena
// for codes longer than PRIMARY_BITS. A table is rebuilt (not
// reallocated) for every block, reusing the backing slices across blocks
// (§9) to avoid per-block allocator churn.
type DecodeTable struct {
	primary   []primaryEntry
	secondary []secondaryEntry
}

// NewDecodeTable allocates a DecodeTable ready for repeated use.
func NewDecodeTable() *DecodeTable {
	return &DecodeTable{primary: make([]primaryEntry, 1<<odz.PrimaryBits)}
}

// Build populates the table from a code-length vector and its canonical
// codes (as returned by BuildCanonicalCodes). lengths and codes must be
// parallel and the same length.
func (this *DecodeTable) Build(lengths []byte, codes []uint16) {
	for i := range this.primary {
		this.primary[i] = primaryEntry{}
	}

	this.secondary = this.secondary[:0]

	type longCode struct {
		sym      int
		length   uint
		reversed uint16
	}

	groupMaxLen := make(map[uint16]uint)
	var longCodes []longCode

	for sym, l := range lengths {
		if l == 0 {
			continue
		}

		length := uint(l)
		reversed := reverseBits(codes[sym], length)

		if length <= odz.PrimaryBits {
			step := uint(1) << length

			for idx := uint(reversed); idx < (1 << odz.PrimaryBits); idx += step {
				this.primary[idx] = primaryEntry{len: uint8(length), sym: sym}
			}

			continue
		}

		prefix := reversed & ((1 << odz.PrimaryBits) - 1)

		if length > groupMaxLen[prefix] {
			groupMaxLen[prefix] = length
		}

		longCodes = append(longCodes, longCode{sym: sym, length: length, reversed: reversed})
	}

	if len(longCodes) == 0 {
		return
	}

	groupOffset := make(map[uint16]int, len(groupMaxLen))

	for _, lc := range longCodes {
		prefix := lc.reversed & ((1 << odz.PrimaryBits) - 1)

		if _, ok := groupOffset[prefix]; ok {
			continue
		}

		maxLen := groupMaxLen[prefix]
		size := 1 << (maxLen - odz.PrimaryBits)
		offset := len(this.secondary)
		this.secondary = append(this.secondary, make([]secondaryEntry, size)...)
		groupOffset[prefix] = offset
		this.primary[prefix] = primaryEntry{redirect: true, offset: offset, totalBits: uint8(maxLen)}
	}

	for _, lc := range longCodes {
		prefix := lc.reversed & ((1 << odz.PrimaryBits) - 1)
		offset := groupOffset[prefix]
		maxLen := groupMaxLen[prefix]
		subBits := maxLen - odz.PrimaryBits
		subCode := uint(lc.reversed >> odz.PrimaryBits)
		subLen := lc.length - odz.PrimaryBits
		step := uint(1) << subLen

		for idx := subCode; idx < (1 << subBits); idx += step {
			this.secondary[offset+int(idx)] = secondaryEntry{len: uint8(lc.length), sym: lc.sym}
		}
	}
}

// Decode reads one symbol off r using this table (§4.2 decode hot path):
// peek PRIMARY_BITS bits, consult the primary table, and on a redirect
// entry peek further bits to resolve the secondary sub-table. ok is false
// if the bit pattern read does not correspond to any assigned code — a
// corrupt stream; the caller must not keep decoding in that case, since
// no bits would be consumed and it would spin forever.
func (this *DecodeTable) Decode(r *bitio.Reader) (sym int, ok bool) {
	peeked := r.Peek(odz.PrimaryBits)
	e := this.primary[peeked]

	if !e.redirect {
		if e.len == 0 {
			return 0, false
		}

		r.Consume(uint(e.len))
		return e.sym, true
	}

	total := uint(e.totalBits)
	bits := r.Peek(total)
	mask := uint(1)<<(total-odz.PrimaryBits) - 1
	subIdx := uint(e.offset) + ((uint(bits) >> odz.PrimaryBits) & mask)
	se := this.secondary[subIdx]

	if se.len == 0 {
		return 0, false
	}

	r.Consume(uint(se.len))
	return se.sym, true
}
