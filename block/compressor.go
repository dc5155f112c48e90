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

// Package block implements the per-block compressor (C5) and
// decompressor (C6): the stored-vs-Huffman decision, tree build and
// token emission on encode, and block-type dispatch, tree read, token
// decode and match replay on decode (§4.4, §4.5).
package block

import (
	"github.com/eeeeeeeeeevan/odzipweb/bitio"
	"github.com/eeeeeeeeeevan/odzipweb/huffman"
	"github.com/eeeeeeeeeevan/odzipweb/lzmatch"
	"github.com/eeeeeeeeeevan/odzipweb/lztable"

	odz "github.com/eeeeeeeeeevan/odzipweb"
)

// Block type tags, matching the container's block-header encoding (§4.6).
const (
	TypeStored  = 0
	TypeHuffman = 1
)

// Compressor turns one raw block into either a stored or a Huffman block
// body. A Compressor is reused across blocks (§5): its match finder and
// bit writer carry their buffers forward rather than reallocating.
type Compressor struct {
	matcher *lzmatch.Matcher
	writer  *bitio.Writer
}

// NewCompressor allocates a Compressor ready for repeated use on blocks up
// to odz.BlockSize bytes, with the default match-finder settings.
func NewCompressor() *Compressor {
	return NewCompressorWithOptions(lzmatch.DefaultMaxChain, true)
}

// NewCompressorWithOptions is NewCompressor with the hash-chain walk bound
// and lazy-matching switch exposed, for callers (the CLI's config file)
// that want to trade ratio for speed.
func NewCompressorWithOptions(maxChain int, lazyMatching bool) *Compressor {
	m := lzmatch.NewMatcher(odz.BlockSize, maxChain)
	m.SetLazyMatching(lazyMatching)

	return &Compressor{
		matcher: m,
		writer:  bitio.NewWriter(odz.BlockSize),
	}
}

// CompressBlock compresses raw (one block, <= odz.BlockSize bytes) and
// returns the block type and its encoded body (everything the container
// writes after the block header: after the 4-byte raw-size field for a
// stored block, after the 4-byte compressed-size field that follows it
// for a Huffman block — see container's writeBlock).
//
// The returned payload aliases an internal buffer (the Huffman case) or
// raw itself (the stored case): it is only valid until the next call to
// CompressBlock, matching the per-block staging-buffer lifetime of §5.
// Callers must fully write it out before compressing the next block.
func (this *Compressor) CompressBlock(raw []byte) (blockType int, payload []byte) {
	tokens := this.matcher.FindMatches(raw)

	llFreq := make([]int, odz.NumLitLenSyms)
	distFreq := make([]int, odz.NumDistSyms)
	extraBits := 0

	for _, tk := range tokens {
		switch tk.Kind {
		case lzmatch.Literal:
			llFreq[tk.Byte]++
		case lzmatch.Match:
			lc := lztable.LengthCode(tk.Length)
			dc := lztable.DistCode(tk.Distance)
			llFreq[257+lc]++
			distFreq[dc]++
			extraBits += int(lztable.LengthExtraBits[lc]) + int(lztable.DistExtraBits[dc])
		case lzmatch.End:
			// The End token always occurs exactly once, as the final
			// token of every block, which is what guarantees
			// llFreq[EndOfBlockSym] >= 1 (§4.4 step 1) without any
			// special-casing.
			llFreq[odz.EndOfBlockSym]++
		}
	}

	ll := huffman.BuildTree(llFreq, 257)
	dist := huffman.BuildTree(distFreq, 1)

	estBits := huffman.EstimatedBits(llFreq, ll.Lengths) +
		huffman.EstimatedBits(distFreq, dist.Lengths) +
		extraBits +
		9 + 5 + 4*len(ll.Lengths) + 4*len(dist.Lengths)

	estBytes := (estBits + 7) / 8

	if estBytes >= len(raw) {
		return TypeStored, raw
	}

	this.writer.Reset()
	huffman.WriteTrees(this.writer, ll, dist)

	for _, tk := range tokens {
		switch tk.Kind {
		case lzmatch.Literal:
			ll.EncodeSymbol(this.writer, int(tk.Byte))
		case lzmatch.Match:
			lc := lztable.LengthCode(tk.Length)
			dc := lztable.DistCode(tk.Distance)

			ll.EncodeSymbol(this.writer, 257+lc)

			if eb := lztable.LengthExtraBits[lc]; eb > 0 {
				this.writer.WriteBits(uint64(tk.Length-lztable.LengthBase[lc]), eb)
			}

			dist.EncodeSymbol(this.writer, dc)

			if eb := lztable.DistExtraBits[dc]; eb > 0 {
				this.writer.WriteBits(uint64(tk.Distance-lztable.DistBase[dc]), eb)
			}
		case lzmatch.End:
			ll.EncodeSymbol(this.writer, odz.EndOfBlockSym)
		}
	}

	this.writer.PadToByte()
	return TypeHuffman, this.writer.Bytes()
}
