// Package bytebuf implements direct buffers: views over contiguous byte
// regions with typed, bounds-checked primitive access at arbitrary offsets.
//
// bytes.Buffer only ever appends, and threading an explicit position through
// every encode call gets unmaintainable quickly, so this package keeps the
// offset in the call instead: every accessor takes the byte offset it
// operates on and nothing else moves.
//
// Three fixed-capacity implementations are provided, one wrapping a byte
// slice (SliceBuffer), one wrapping a raw memory address (UnsafeBuffer) and
// one wrapping a memory-mapped file (MemoryMappedBuffer), plus a growable
// ExpandableBuffer that owns its storage and resizes on writes. None of the
// fixed variants own their backing memory; the caller must keep it alive for
// as long as the buffer is in use.
package bytebuf

import (
	"encoding/binary"
	"fmt"
	"math"
)

// All multi-byte accessors use little-endian byte order. This is a wire
// format decision shared by every process mapping the same memory, not a
// reflection of the host order. The atomic accessors store in native order,
// so mixing them with the plain accessors on the same word assumes a
// little-endian host, which covers every first-class Go platform in use
// here.
var byteOrder = binary.LittleEndian

// MaxCapacity is the largest backing size an ExpandableBuffer will grow to.
const MaxCapacity = math.MaxInt32 - 8

// OutOfBoundsError reports an accessor call that falls outside the buffer.
type OutOfBoundsError struct {
	Offset   int
	Length   int
	Capacity int
}

func (e *OutOfBoundsError) Error() string {
	return fmt.Sprintf("bytebuf: access at offset %d length %d outside capacity %d",
		e.Offset, e.Length, e.Capacity)
}

// CapacityExceededError reports a growth request past MaxCapacity.
type CapacityExceededError struct {
	Requested int
	Max       int
}

func (e *CapacityExceededError) Error() string {
	return fmt.Sprintf("bytebuf: requested capacity %d exceeds maximum %d",
		e.Requested, e.Max)
}

// Buffer defines the capability set shared by all buffer implementations:
// typed get/put of primitives at byte offsets, bulk byte copy and range
// fills. Multi-byte values are little-endian. Accessors return
// *OutOfBoundsError when offset/width violates capacity, unless the
// implementation was constructed with bounds checks disabled.
type Buffer interface {
	Capacity() int
	Bytes() []byte

	GetInt8(offset int) (int8, error)
	GetInt16(offset int) (int16, error)
	GetInt32(offset int) (int32, error)
	GetInt64(offset int) (int64, error)
	GetUint32(offset int) (uint32, error)
	GetUint64(offset int) (uint64, error)
	GetFloat32(offset int) (float32, error)
	GetFloat64(offset int) (float64, error)

	PutInt8(offset int, v int8) error
	PutInt16(offset int, v int16) error
	PutInt32(offset int, v int32) error
	PutInt64(offset int, v int64) error
	PutUint32(offset int, v uint32) error
	PutUint64(offset int, v uint64) error
	PutFloat32(offset int, v float32) error
	PutFloat64(offset int, v float64) error

	GetBytes(offset int, dst []byte, dstOffset, length int) error
	PutBytes(offset int, src []byte, srcOffset, length int) error
	SetMemory(offset, length int, value byte) error
}

// AtomicBuffer extends Buffer with ordered 64-bit accessors for building
// concurrent protocols in shared memory. Offsets must be 8-byte aligned.
// Only the fixed-capacity implementations are suitable for sharing across
// threads or processes; a grow on ExpandableBuffer re-points the backing
// storage out from under any concurrent reader.
type AtomicBuffer interface {
	Buffer

	GetInt64Volatile(offset int) (int64, error)
	PutInt64Ordered(offset int, v int64) error
}
