package lzmatch

import (
	"bytes"
	"math/rand"
	"testing"

	odz "github.com/eeeeeeeeeevan/odzipweb"
)

// replay reconstructs the original bytes from a token stream, using the
// same three-way overlap-copy policy the block decompressor implements
// (distance >= length: plain copy; distance == 1: byte fill; otherwise:
// byte-by-byte overlapping copy).
func replay(tokens []Token) []byte {
	var out []byte

	for _, t := range tokens {
		switch t.Kind {
		case Literal:
			out = append(out, t.Byte)
		case Match:
			start := len(out) - t.Distance

			if t.Distance >= t.Length {
				out = append(out, out[start:start+t.Length]...)
			} else if t.Distance == 1 {
				b := out[start]
				for i := 0; i < t.Length; i++ {
					out = append(out, b)
				}
			} else {
				for i := 0; i < t.Length; i++ {
					out = append(out, out[start+i])
				}
			}
		case End:
			return out
		}
	}

	return out
}

func roundTrip(t *testing.T, data []byte) []Token {
	t.Helper()

	m := NewMatcher(odz.BlockSize, DefaultMaxChain)
	tokens := m.FindMatches(data)
	got := replay(tokens)

	if !bytes.Equal(got, data) {
		t.Fatalf("replay mismatch: got %d bytes, want %d bytes", len(got), len(data))
	}

	return tokens
}

func TestEmptyBlock(t *testing.T) {
	tokens := roundTrip(t, nil)

	if len(tokens) != 1 || tokens[0].Kind != End {
		t.Fatalf("expected a lone End token, got %v", tokens)
	}
}

func TestAllLiteralsIncompressible(t *testing.T) {
	data := make([]byte, 1000)
	rnd := rand.New(rand.NewSource(1))
	rnd.Read(data)
	roundTrip(t, data)
}

func TestRunLengthAllZero(t *testing.T) {
	data := make([]byte, 1<<16)
	tokens := roundTrip(t, data)

	matches := 0
	for _, tk := range tokens {
		if tk.Kind == Match {
			matches++

			if tk.Distance != 1 {
				t.Fatalf("expected distance 1 run-length matches, got %d", tk.Distance)
			}
		}
	}

	if matches == 0 {
		t.Fatalf("expected the all-zero block to produce at least one match")
	}
}

func TestOverlapDistanceLessThanLength(t *testing.T) {
	// "abc" repeated: a match referencing distance 3 with length > 3
	// exercises the 1 < distance < length chunked-copy overlap case.
	var buf bytes.Buffer

	for i := 0; i < 200; i++ {
		buf.WriteString("abc")
	}

	tokens := roundTrip(t, buf.Bytes())

	found := false
	for _, tk := range tokens {
		if tk.Kind == Match && tk.Distance > 1 && tk.Distance < tk.Length {
			found = true
		}
	}

	if !found {
		t.Fatalf("expected at least one overlap match with 1 < distance < length")
	}
}

func TestMaxDistanceRespected(t *testing.T) {
	data := make([]byte, odz.BlockSize)
	rnd := rand.New(rand.NewSource(2))
	rnd.Read(data)

	// Plant a repeat exactly at the edge of the allowed window.
	copy(data[40000:40010], data[40000-odz.MaxDistance:40000-odz.MaxDistance+10])

	tokens := roundTrip(t, data)

	for _, tk := range tokens {
		if tk.Kind == Match && tk.Distance > odz.MaxDistance {
			t.Fatalf("match distance %d exceeds MaxDistance", tk.Distance)
		}
	}
}

func TestEndTokenTerminatesStream(t *testing.T) {
	tokens := roundTrip(t, []byte("hello, hello, hello world"))

	last := tokens[len(tokens)-1]
	if last.Kind != End {
		t.Fatalf("expected final token to be End, got %v", last.Kind)
	}

	for _, tk := range tokens[:len(tokens)-1] {
		if tk.Kind == End {
			t.Fatalf("End token found before the end of the stream")
		}
	}
}
