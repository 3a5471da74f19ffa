package game

import (
	"fmt"
	"math/bits"
)

// Bits is a set of squares packed into a word. Square (x, y) lives at bit
// y*width + x. Boards are at most 8x8, so 64 bits always suffice.
type Bits uint64

// Get reports whether (x, y) is in the set.
func (b Bits) Get(d Dims, x, y int) bool {
	return b&square(d, x, y) != 0
}

// Set returns b with (x, y) added.
func (b Bits) Set(d Dims, x, y int) Bits {
	return b | square(d, x, y)
}

// Clear returns b with (x, y) removed.
func (b Bits) Clear(d Dims, x, y int) Bits {
	return b &^ square(d, x, y)
}

// Count is the population count.
func (b Bits) Count() int {
	n := bits.OnesCount64(uint64(b))
	if debug && n != countSWAR(b) {
		panic(fmt.Sprintf("popcount mismatch for %#x", uint64(b)))
	}
	return n
}

func square(d Dims, x, y int) Bits {
	if debug && !d.Contains(x, y) {
		panic(fmt.Sprintf("square (%d, %d) outside %s board", x, y, d))
	}
	return 1 << uint(d.Index(x, y))
}

// countSWAR is the portable logarithmic popcount.
func countSWAR(b Bits) int {
	v := uint64(b)
	v = v - ((v >> 1) & 0x5555555555555555)
	v = (v & 0x3333333333333333) + ((v >> 2) & 0x3333333333333333)
	v = (v + (v >> 4)) & 0x0f0f0f0f0f0f0f0f
	return int((v * 0x0101010101010101) >> 56)
}
