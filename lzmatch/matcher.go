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

package lzmatch

import (
	"github.com/cespare/xxhash/v2"

	odz "github.com/eeeeeeeeeevan/odzipweb"
)

// DefaultMaxChain is the default bound on hash-chain walk length (§4.3);
// the format itself is compression-level-agnostic, this only trades
// compressor speed for ratio.
const DefaultMaxChain = 128

// hashBits sizes the head array; it is a compressor implementation
// choice; any hash that fits the array works (§4.3), so long as both
// compressor and decompressor agree matches are valid LZ77 references
// (the decompressor never re-derives hashes, only replays positions).
const hashBits = 16
const hashSize = 1 << hashBits
const hashMask = hashSize - 1

const none = -1

// Matcher finds LZ77 matches within a single block buffer. A Matcher is
// reused across blocks: its head array is reset at the start of each
// FindMatches call
// (hash chains never span blocks, §3 "Hash chains ... reset at block
// boundaries"), and its prev array and token buffer are reused without
// reallocation.
type Matcher struct {
	head     []int32
	prev     []int32
	maxChain int
	lazy     bool
	tokens   []Token
}

// NewMatcher allocates a Matcher sized for blocks up to blockSize bytes,
// with the given hash-chain walk bound (use DefaultMaxChain if unsure) and
// lazy matching (§4.3) enabled.
func NewMatcher(blockSize, maxChain int) *Matcher {
	m := &Matcher{
		head:     make([]int32, hashSize),
		prev:     make([]int32, blockSize),
		maxChain: maxChain,
		lazy:     true,
	}

	return m
}

// SetLazyMatching turns the one-level lookahead (§4.3 "Lazy matching") on
// or off. It is a compressor-internal speed/ratio knob, not a wire-format
// choice: disabling it only ever produces a worse-or-equal match at a
// given position, never an invalid one.
func (this *Matcher) SetLazyMatching(enabled bool) {
	this.lazy = enabled
}

func (this *Matcher) resetChains() {
	for i := range this.head {
		this.head[i] = none
	}
}

func hash3(buf []byte, pos int) uint32 {
	return uint32(xxhash.Sum64(buf[pos:pos+3])) & hashMask
}

// insert records buf[pos:pos+3]'s hash chain entry and returns the chain
// head that existed just before this insertion (the position to start a
// backward search from, never pos itself).
func (this *Matcher) insert(buf []byte, pos int) int32 {
	h := hash3(buf, pos)
	old := this.head[h]
	this.prev[pos] = old
	this.head[h] = int32(pos)
	return old
}

func matchLength(buf []byte, a, b, limit int) int {
	n := 0

	for n < limit && buf[a+n] == buf[b+n] {
		n++
	}

	return n
}

// findBest walks the hash chain starting at chainStart, bounded by
// maxChain attempts and by distance <= MaxDistance (§4.3 step 2). Because
// the chain is walked newest-to-oldest, the first candidate to reach a
// given length already has the smallest distance among ties, so a plain
// strict-improvement comparison implements the "on ties prefer smaller
// distance" rule without extra bookkeeping.
func (this *Matcher) findBest(buf []byte, pos int, chainStart int32) (length, distance int) {
	limit := len(buf) - pos
	if limit > odz.MaxMatch {
		limit = odz.MaxMatch
	}

	candidate := chainStart
	attempts := this.maxChain

	for candidate >= 0 && attempts > 0 {
		dist := pos - int(candidate)
		if dist > odz.MaxDistance {
			break
		}

		l := matchLength(buf, int(candidate), pos, limit)
		if l > length {
			length = l
			distance = dist

			if length >= limit {
				break
			}
		}

		candidate = this.prev[candidate]
		attempts--
	}

	return length, distance
}

// insertRange inserts every position in [from, to) into the hash chains;
// used for positions a match skips over without searching from them
// (§4.3 step 3, "insert all skipped positions ... required for future
// matches").
func (this *Matcher) insertRange(buf []byte, from, to int) {
	n := len(buf)

	for p := from; p < to; p++ {
		if p+3 <= n {
			this.insert(buf, p)
		}
	}
}

// FindMatches tokenizes buf (one block) into a Literal/Match/End stream
// (§4.3), applying one level of lazy matching (§4.3 "Lazy matching"). The
// returned slice is owned by the Matcher and is only valid until the next
// call to FindMatches.
func (this *Matcher) FindMatches(buf []byte) []Token {
	this.resetChains()
	this.tokens = this.tokens[:0]

	n := len(buf)
	i := 0

	for i < n {
		if i+3 > n {
			this.tokens = append(this.tokens, Token{Kind: Literal, Byte: buf[i]})
			i++
			continue
		}

		chainStart := this.insert(buf, i)
		length, dist := this.findBest(buf, i, chainStart)

		if length < odz.MinMatch {
			this.tokens = append(this.tokens, Token{Kind: Literal, Byte: buf[i]})
			i++
			continue
		}

		// Lazy matching: look one position ahead before committing. The
		// lookahead itself inserts i+1 into the hash chains, so once it
		// has run, any fallback path below must resume inserting at
		// i+2, not i+1, or it re-inserts i+1 and corrupts its chain with
		// a self-referencing prev entry.
		lookedAhead := false

		if this.lazy && i+1 < n && i+1+3 <= n {
			lookedAhead = true
			chainStart2 := this.insert(buf, i+1)
			length2, dist2 := this.findBest(buf, i+1, chainStart2)

			if length2 > length {
				this.tokens = append(this.tokens, Token{Kind: Literal, Byte: buf[i]})
				this.tokens = append(this.tokens, Token{Kind: Match, Length: length2, Distance: dist2})
				this.insertRange(buf, i+2, i+1+length2)
				i = i + 1 + length2
				continue
			}
		}

		this.tokens = append(this.tokens, Token{Kind: Match, Length: length, Distance: dist})

		if lookedAhead {
			this.insertRange(buf, i+2, i+length)
		} else {
			this.insertRange(buf, i+1, i+length)
		}
		i += length
	}

	this.tokens = append(this.tokens, Token{Kind: End})
	return this.tokens
}
