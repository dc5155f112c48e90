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

// Package container implements the ODZ v2 file format (C7, §4.6): the
// file header, the block header state machine, and the public
// Compress/Decompress entry points (§6.2).
package container

import (
	"encoding/binary"
	"io"

	"github.com/eeeeeeeeeevan/odzipweb/block"
	"github.com/eeeeeeeeeevan/odzipweb/lzmatch"

	odz "github.com/eeeeeeeeeevan/odzipweb"
)

const fileHeaderSize = 12

const flagIsLast = 1 << 0

// Compress reads all of r, encodes it as an ODZ v2 container, and writes
// the result to w, using the default match-finder settings.
//
// The file header carries the original size up front (§4.6), which means
// Compress must know the total input length before writing a single
// byte; rather than requiring a seekable writer, it reads r fully into
// memory first. This format has no streaming-decode requirement (§1
// Non-goals), so this keeps Compress usable against any io.Writer.
func Compress(r io.Reader, w io.Writer, opts odz.Options) odz.Status {
	return CompressTuned(r, w, opts, lzmatch.DefaultMaxChain, true)
}

// CompressTuned is Compress with the match finder's hash-chain walk bound
// and lazy-matching switch exposed, for the CLI's config file (SPEC_FULL.md
// DOMAIN STACK, `max_chain`/`lazy_matching`). The two compressors produce
// different bitstreams for the same input (a pure speed/ratio trade), but
// either is decoded by the one Decompress below.
func CompressTuned(r io.Reader, w io.Writer, opts odz.Options, maxChain int, lazyMatching bool) odz.Status {
	data, err := io.ReadAll(r)
	if err != nil {
		return odz.StatusIO
	}

	var hdr [fileHeaderSize]byte
	hdr[0], hdr[1], hdr[2] = 'O', 'D', 'Z'
	hdr[3] = odz.FormatVersion
	binary.LittleEndian.PutUint64(hdr[4:], uint64(len(data)))

	if _, err := w.Write(hdr[:]); err != nil {
		return odz.StatusIO
	}

	c := block.NewCompressorWithOptions(maxChain, lazyMatching)
	total := uint64(len(data))
	var processed uint64

	for off := 0; ; {
		end := off + odz.BlockSize
		isLast := end >= len(data)

		if isLast {
			end = len(data)
		}

		raw := data[off:end]
		blockType, payload := c.CompressBlock(raw)

		flag := byte(blockType) << 1
		if isLast {
			flag |= flagIsLast
		}

		if err := writeBlock(w, flag, len(raw), blockType, payload); err != nil {
			return odz.StatusIO
		}

		processed += uint64(len(raw))

		if opts.Progress != nil && opts.Progress(processed, total, opts.UserCtx) != 0 {
			return odz.StatusIO
		}

		if isLast {
			break
		}

		off = end
	}

	return odz.StatusOK
}

func writeBlock(w io.Writer, flag byte, rawSize int, blockType int, payload []byte) error {
	var hdr [5]byte
	hdr[0] = flag
	binary.LittleEndian.PutUint32(hdr[1:], uint32(rawSize))

	if _, err := w.Write(hdr[:]); err != nil {
		return err
	}

	if blockType == block.TypeHuffman {
		var cs [4]byte
		binary.LittleEndian.PutUint32(cs[:], uint32(len(payload)))

		if _, err := w.Write(cs[:]); err != nil {
			return err
		}
	}

	_, err := w.Write(payload)
	return err
}

// Decompress reads an ODZ v2 container from r and writes the
// reconstructed original bytes to w.
//
// Unlike Compress, Decompress streams: the file header gives the total
// output size up front, so only one block's compressed bytes are ever
// held in memory at a time (§5, "the compressed-block staging buffer is
// per-block").
func Decompress(r io.Reader, w io.Writer, opts odz.Options) odz.Status {
	var hdr [fileHeaderSize]byte

	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return odz.StatusIO
	}

	if hdr[0] != 'O' || hdr[1] != 'D' || hdr[2] != 'Z' {
		return odz.StatusFormat
	}

	if hdr[3] != odz.FormatVersion {
		return odz.StatusFormat
	}

	totalSize := binary.LittleEndian.Uint64(hdr[4:])

	d := block.NewDecompressor()
	rawBuf := make([]byte, odz.BlockSize)
	compBuf := make([]byte, 0, odz.BlockSize)

	var consumed uint64

	for {
		var fb [1]byte
		if _, err := io.ReadFull(r, fb[:]); err != nil {
			return odz.StatusIO
		}

		flag := fb[0]
		isLast := flag&flagIsLast != 0
		blockType := int((flag >> 1) & 0x3)

		if blockType != block.TypeStored && blockType != block.TypeHuffman {
			return odz.StatusFormat
		}

		var rs [4]byte
		if _, err := io.ReadFull(r, rs[:]); err != nil {
			return odz.StatusIO
		}

		rawSize := int(binary.LittleEndian.Uint32(rs[:]))
		if rawSize > odz.BlockSize {
			return odz.StatusCorrupt
		}

		if cap(rawBuf) < rawSize {
			rawBuf = make([]byte, rawSize)
		}

		out := rawBuf[:rawSize]

		if blockType == block.TypeStored {
			if _, err := io.ReadFull(r, out); err != nil {
				return odz.StatusIO
			}
		} else {
			var cs [4]byte
			if _, err := io.ReadFull(r, cs[:]); err != nil {
				return odz.StatusIO
			}

			compSize := int(binary.LittleEndian.Uint32(cs[:]))

			if cap(compBuf) < compSize {
				compBuf = make([]byte, compSize)
			} else {
				compBuf = compBuf[:compSize]
			}

			if _, err := io.ReadFull(r, compBuf); err != nil {
				return odz.StatusIO
			}

			if _, ok := d.DecompressHuffman(compBuf, rawSize, out); !ok {
				return odz.StatusCorrupt
			}
		}

		if _, err := w.Write(out); err != nil {
			return odz.StatusIO
		}

		consumed += uint64(rawSize)

		if opts.Progress != nil && opts.Progress(consumed, totalSize, opts.UserCtx) != 0 {
			return odz.StatusIO
		}

		if isLast {
			break
		}
	}

	if consumed != totalSize {
		return odz.StatusCorrupt
	}

	return odz.StatusOK
}
