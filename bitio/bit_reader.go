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

package bitio

// Reader reads LSB-first packed bits out of an in-memory byte buffer,
// maintaining a 64-bit shift register so peek/consume of up to 32 bits at
// a time never has to touch the backing slice more than once.
type Reader struct {
	data     []byte
	pos      int
	bitBuf   uint64
	nBits    uint
	consumed int // total bits consumed so far, real or phantom
}

// NewReader wraps data for bit-level reading. data is not copied or
// retained beyond the lifetime of the Reader's caller.
func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// fill tops up the shift register to at least 'need' valid bits. Once the
// backing buffer is exhausted, further fills yield zero bits (§4.1: "at
// end-of-stream, reads beyond available bits yield zero"); it is the
// caller's responsibility to detect corruption via other invariants.
func (this *Reader) fill(need uint) {
	for this.nBits < need {
		var b byte

		if this.pos < len(this.data) {
			b = this.data[this.pos]
			this.pos++
		}

		this.bitBuf |= uint64(b) << this.nBits
		this.nBits += 8
	}
}

// Peek returns the next 'count' bits (count in [1..32]) without consuming
// them.
func (this *Reader) Peek(count uint) uint64 {
	if count == 0 || count > 32 {
		panic("bitio: Peek count must be in [1..32]")
	}

	this.fill(count)
	return this.bitBuf & (uint64(1)<<count - 1)
}

// Consume advances the read position by 'count' bits, previously returned
// by Peek.
func (this *Reader) Consume(count uint) {
	this.bitBuf >>= count
	this.nBits -= count
	this.consumed += int(count)
}

// Read is Peek followed by Consume.
func (this *Reader) Read(count uint) uint64 {
	v := this.Peek(count)
	this.Consume(count)
	return v
}

// BitsRemaining returns the number of genuine bits of the backing buffer
// not yet consumed; it can go negative once reads have run past the real
// data into the zero-padded tail. A block decoder that still needs more
// symbols after this reaches zero or below is reading a truncated stream.
func (this *Reader) BitsRemaining() int {
	return len(this.data)*8 - this.consumed
}
