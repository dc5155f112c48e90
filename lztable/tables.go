// Package lztable holds the static LZ token alphabet tables (§3, §4.3):
// the 29 length codes and 30 distance codes, their base values and
// extra-bit widths. These tables are part of the wire format's bit-exact
// contract, not an implementation choice, and are immutable and shareable
// across codec instances (§5).
package lztable

// LengthBase and LengthExtraBits are indexed by length-code index
// [0..28], corresponding to literal/length alphabet symbols [257..285].
// LengthBase[i] is the smallest match length that code encodes;
// LengthExtraBits[i] extra bits (read after the code, added to the base)
// select the exact length within the code's range.
var LengthBase = [29]int{
	3, 4, 5, 6, 7, 8, 9, 10, 11, 13,
	15, 17, 19, 23, 27, 31, 35, 43, 51, 59,
	67, 83, 99, 115, 131, 163, 195, 227, 258,
}

var LengthExtraBits = [29]uint{
	0, 0, 0, 0, 0, 0, 0, 0, 1, 1,
	1, 1, 2, 2, 2, 2, 3, 3, 3, 3,
	4, 4, 4, 4, 5, 5, 5, 5, 0,
}

// DistBase and DistExtraBits are indexed by distance-code index [0..29].
var DistBase = [30]int{
	1, 2, 3, 4, 5, 7, 9, 13, 17, 25,
	33, 49, 65, 97, 129, 193, 257, 385, 513, 769,
	1025, 1537, 2049, 3073, 4097, 6145, 8193, 12289, 16385, 24577,
}

var DistExtraBits = [30]uint{
	0, 0, 0, 0, 1, 1, 2, 2, 3, 3,
	4, 4, 5, 5, 6, 6, 7, 7, 8, 8,
	9, 9, 10, 10, 11, 11, 12, 12, 13, 13,
}

// LengthCode returns the length-code index [0..28] for a match length in
// [3..258], and DistCode the distance-code index [0..29] for a distance in
// [1..32768]. Both do a linear scan over the (small, constant-size) base
// tables from the top down; this runs once per emitted token and is not
// the hot path (the hot path is the decoder's table lookup).
func LengthCode(length int) int {
	for i := len(LengthBase) - 1; i >= 0; i-- {
		if length >= LengthBase[i] {
			return i
		}
	}

	return 0
}

// DistCode returns the distance-code index for a distance in [1..32768].
func DistCode(dist int) int {
	for i := len(DistBase) - 1; i >= 0; i-- {
		if dist >= DistBase[i] {
			return i
		}
	}

	return 0
}
