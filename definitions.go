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

// Package odz defines the top level types shared by the ODZ v2 compressor
// and decompressor: the block size, the public Status taxonomy and the
// progress callback shape. File-level I/O uses plain io.Reader/io.Writer
// (see container.Compress/Decompress); there is no custom stream adapter
// interface.
//
// The implementations of the pieces these types describe live in
// sub-packages: bitio (bit-exact bitstream I/O), huffman (canonical
// Huffman coding), lztable (static LZ alphabet tables), lzmatch (the LZ77
// match finder), block (per-block compress/decompress) and container (the
// file format and block state machine).
package odz

// Container-wide constants (§3 of the format specification).
const (
	// BlockSize is the fixed size of the block buffer both sides use.
	// Input is consumed in blocks of at most this many bytes; each
	// produces exactly one output block.
	BlockSize = 1 << 20 // 1,048,576

	// MaxBits is the maximum canonical Huffman code length in bits.
	MaxBits = 15

	// PrimaryBits is the width of the direct-indexed primary decode
	// table; codes no longer than this decode in one table access.
	PrimaryBits = 9

	// MaxDistance is the largest LZ77 back-reference distance the wire
	// format can express.
	MaxDistance = 1 << 15 // 32768

	// MinMatch and MaxMatch bound the length field of a match token.
	MinMatch = 3
	MaxMatch = 258

	// NumLitLenSyms and NumDistSyms size the two Huffman alphabets.
	// 0-255 literals, 256 end-of-block, 257-285 length codes.
	NumLitLenSyms = 286
	NumDistSyms   = 30

	// EndOfBlockSym is the literal/length alphabet's end-of-block symbol.
	EndOfBlockSym = 256

	// FormatVersion is the container format version byte (§4.6): "ODZ v2".
	FormatVersion = 2
)

// Status is the closed error taxonomy exposed across the public API (§6.3).
// No function propagates errors any other way: every operation that can
// fail returns one of these five values.
type Status int

const (
	// StatusOK indicates success.
	StatusOK Status = iota
	// StatusIO covers short/failed reads or writes on the underlying
	// stream, and a progress callback requesting abort.
	StatusIO
	// StatusOOM covers allocation failure.
	StatusOOM
	// StatusFormat covers a bad magic, an unknown version, or a
	// reserved block type.
	StatusFormat
	// StatusCorrupt covers any invariant violation discovered while
	// decoding data that was otherwise readable (Kraft violation,
	// out-of-range code or distance, size mismatch, ...).
	StatusCorrupt
)

// StrError returns a short human-readable string for a Status, mirroring
// odz_strerror() in the original C interface.
func StrError(s Status) string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusIO:
		return "i/o error"
	case StatusOOM:
		return "out of memory"
	case StatusFormat:
		return "bad format"
	case StatusCorrupt:
		return "corrupt data"
	default:
		return "unknown status"
	}
}

// String implements fmt.Stringer.
func (s Status) String() string {
	return StrError(s)
}

// ProgressFunc is invoked after each block is fully processed, with the
// number of bytes processed so far, the total to process, and the opaque
// UserCtx from Options. Decompress reports output bytes written against
// the original size from the file header; Compress reports input bytes
// consumed against the total input size. Returning nonzero aborts the
// operation with StatusIO (§6.2, §7).
type ProgressFunc func(processed, total uint64, userCtx interface{}) int

// Options configures a Compress or Decompress call (§6.2).
type Options struct {
	// Progress, if non-nil, is called after every block.
	Progress ProgressFunc
	// UserCtx is passed through to Progress unchanged.
	UserCtx interface{}
}
