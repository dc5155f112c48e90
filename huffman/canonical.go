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

import "errors"

// ErrBadLengths is returned by BuildCanonicalCodes when a length vector
// (our own, or one read off the wire) does not describe a valid prefix
// code: over-subscribed (Kraft sum too large), under-subscribed (Kraft
// sum too small with two or more symbols present), a length beyond
// maxBits, or a single-symbol alphabet whose one symbol isn't length 1.
// Decode callers must treat this as stream corruption (StatusCorrupt).
var ErrBadLengths = errors.New("huffman: invalid code-length vector")

// BuildCanonicalCodes derives canonical Huffman codes from a code-length
// vector (§3, §4.2): symbols are ordered by (length, symbol) and assigned
// consecutive codes within each length class, via the standard cnt/next
// array technique (same construction as DEFLATE's RFC1951 §3.2.2). The
// returned codes are "tree-path" integers, MSB-first in the conventional
// Huffman sense; callers writing or matching these codes against the
// LSB-first bitstream must bit-reverse them first — see reverseBits and
// its use in codec.go / table.go.
func BuildCanonicalCodes(lengths []byte, maxBits int) ([]uint16, error) {
	cnt := make([]int, maxBits+1)
	used := 0

	for _, l := range lengths {
		if l == 0 {
			continue
		}

		if int(l) > maxBits {
			return nil, ErrBadLengths
		}

		cnt[l]++
		used++
	}

	if used == 0 {
		return nil, ErrBadLengths
	}

	if used == 1 {
		for _, l := range lengths {
			if l != 0 && l != 1 {
				return nil, ErrBadLengths
			}
		}
	} else {
		sum := 0

		for l := 1; l <= maxBits; l++ {
			sum += cnt[l] << (maxBits - l)
		}

		if sum != 1<<maxBits {
			return nil, ErrBadLengths
		}
	}

	next := make([]int, maxBits+2)

	for l := 2; l <= maxBits; l++ {
		next[l] = (next[l-1] + cnt[l-1]) << 1
	}

	codes := make([]uint16, len(lengths))

	for sym, l := range lengths {
		if l == 0 {
			continue
		}

		codes[sym] = uint16(next[l])
		next[l]++
	}

	return codes, nil
}

// reverseBits reverses the low 'length' bits of code. The canonical
// construction above produces codes as MSB-first tree paths, but this
// format's bitstream (§4.1) is LSB-first for every field including
// Huffman codes, so a code must be bit-reversed before its bits are
// matched against (or written into) the stream — otherwise the
// prefix-free property of the canonical code set does not carry over to
// the literal order bits are read in. This mirrors what DEFLATE
// implementations (e.g. zlib's inflate) do for the same reason.
func reverseBits(code uint16, length uint) uint16 {
	var r uint16

	c := code
	for i := uint(0); i < length; i++ {
		r = (r << 1) | (c & 1)
		c >>= 1
	}

	return r
}
