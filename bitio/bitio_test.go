package bitio

import "testing"

func TestWriteReadRoundTrip(t *testing.T) {
	w := NewWriter(16)
	values := []struct {
		v uint64
		n uint
	}{
		{0x1, 1},
		{0x0, 1},
		{0x7, 3},
		{0x1FF, 9},
		{0x1F, 5},
		{0xABCD, 16},
		{0, 4},
		{0xF, 4},
	}

	for _, e := range values {
		w.WriteBits(e.v, e.n)
	}

	w.PadToByte()
	r := NewReader(w.Bytes())

	for _, e := range values {
		got := r.Read(e.n)
		want := e.v & (uint64(1)<<e.n - 1)

		if got != want {
			t.Fatalf("read %d bits: got %#x, want %#x", e.n, got, want)
		}
	}
}

func TestLSBFirstOrder(t *testing.T) {
	// The first bit written must land in bit 0 of the first byte.
	w := NewWriter(8)
	w.WriteBits(1, 1)
	w.WriteBits(0, 1)
	w.WriteBits(1, 1)
	w.PadToByte()
	got := w.Bytes()[0]

	if got != 0x05 { // bits 0 and 2 set, LSB-first
		t.Fatalf("got %#x, want %#x", got, 0x05)
	}
}

func TestPeekDoesNotConsume(t *testing.T) {
	w := NewWriter(8)
	w.WriteBits(0x2A, 8)
	w.PadToByte()
	r := NewReader(w.Bytes())

	if p := r.Peek(8); p != 0x2A {
		t.Fatalf("peek got %#x, want %#x", p, 0x2A)
	}

	if p := r.Peek(8); p != 0x2A {
		t.Fatalf("second peek got %#x, want %#x", p, 0x2A)
	}

	r.Consume(8)

	if r.BitsRemaining() != 0 {
		t.Fatalf("BitsRemaining = %d, want 0", r.BitsRemaining())
	}
}

func TestReadPastEndYieldsZero(t *testing.T) {
	w := NewWriter(8)
	w.WriteBits(1, 1)
	w.PadToByte()
	r := NewReader(w.Bytes())
	r.Read(8) // consume the only real byte

	if got := r.Read(16); got != 0 {
		t.Fatalf("read past end = %#x, want 0", got)
	}

	if r.BitsRemaining() >= 0 {
		t.Fatalf("BitsRemaining = %d, want negative after overrun", r.BitsRemaining())
	}
}
