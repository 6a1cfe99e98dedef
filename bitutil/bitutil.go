// Package bitutil provides power-of-two arithmetic, alignment and byte
// order helpers shared by the buffer, broadcast and collection types.
package bitutil

import (
	"math/bits"

	"github.com/cespare/xxhash/v2"
)

// CacheLineLength is the assumed length of a CPU cache line in bytes.
const CacheLineLength = 64

// IsPowerOfTwo reports whether v is an exact power of two.
func IsPowerOfTwo(v int) bool {
	return v > 0 && v&(v-1) == 0
}

// NextPowerOfTwo returns the smallest power of two >= v.
// v must be positive and no greater than 1<<62.
func NextPowerOfTwo(v int) int {
	if v <= 1 {
		return 1
	}
	return 1 << bits.Len64(uint64(v-1))
}

// Align rounds value up to the next multiple of alignment.
// alignment must be a power of two.
func Align(value, alignment int) int {
	return (value + alignment - 1) &^ (alignment - 1)
}

// IsAligned reports whether value is a multiple of alignment.
// alignment must be a power of two.
func IsAligned(value, alignment int) bool {
	return value&(alignment-1) == 0
}

// Swap16 reverses the byte order of v.
func Swap16(v uint16) uint16 { return bits.ReverseBytes16(v) }

// Swap32 reverses the byte order of v.
func Swap32(v uint32) uint32 { return bits.ReverseBytes32(v) }

// Swap64 reverses the byte order of v.
func Swap64(v uint64) uint64 { return bits.ReverseBytes64(v) }

// Hash64 returns a 64-bit hash of b.
func Hash64(b []byte) uint64 {
	return xxhash.Sum64(b)
}

// Hash64String returns a 64-bit hash of s without copying it.
func Hash64String(s string) uint64 {
	return xxhash.Sum64String(s)
}

// Mix64 scrambles a 64-bit key so that consecutive keys spread across
// hash buckets. This is the finalizer step of splitmix64.
func Mix64(v uint64) uint64 {
	v = (v ^ (v >> 30)) * 0xbf58476d1ce4e5b9
	v = (v ^ (v >> 27)) * 0x94d049bb133111eb
	return v ^ (v >> 31)
}
