package bytebuf

import (
	"fmt"
	"math"
	"sync/atomic"
	"unsafe"
)

// SliceBuffer is a fixed-capacity buffer over an existing byte slice. It
// does not own the slice; wrapping a slice borrows it.
type SliceBuffer struct {
	buffer  []byte
	checked bool
}

// NewSliceBuffer creates a SliceBuffer over a fresh zeroed slice of n bytes.
func NewSliceBuffer(n int) *SliceBuffer {
	return &SliceBuffer{buffer: make([]byte, n), checked: true}
}

// WrapSlice creates a bounds-checked SliceBuffer over data.
func WrapSlice(data []byte) *SliceBuffer {
	return &SliceBuffer{buffer: data, checked: true}
}

// WrapSliceUnchecked creates a SliceBuffer with bounds checks disabled.
// Accessors never return *OutOfBoundsError; an out-of-range offset is
// undefined behavior (in practice a runtime panic from slice indexing).
// This is a deliberate escape hatch for trusted hot paths only.
func WrapSliceUnchecked(data []byte) *SliceBuffer {
	return &SliceBuffer{buffer: data, checked: false}
}

// Wrap re-points the buffer at a new backing slice. Capacity follows the
// slice length.
func (b *SliceBuffer) Wrap(data []byte) {
	b.buffer = data
}

// Capacity returns the size of the backing region in bytes.
func (b *SliceBuffer) Capacity() int { return len(b.buffer) }

// Bytes returns the backing slice.
func (b *SliceBuffer) Bytes() []byte { return b.buffer }

func (b *SliceBuffer) boundsCheck(offset, width int) error {
	if !b.checked {
		return nil
	}
	if offset < 0 || width < 0 || offset+width > len(b.buffer) {
		return &OutOfBoundsError{Offset: offset, Length: width, Capacity: len(b.buffer)}
	}
	return nil
}

// GetInt8 reads a signed byte at offset.
func (b *SliceBuffer) GetInt8(offset int) (int8, error) {
	if err := b.boundsCheck(offset, 1); err != nil {
		return 0, err
	}
	return int8(b.buffer[offset]), nil
}

// GetInt16 reads a little-endian int16 at offset.
func (b *SliceBuffer) GetInt16(offset int) (int16, error) {
	if err := b.boundsCheck(offset, 2); err != nil {
		return 0, err
	}
	return int16(byteOrder.Uint16(b.buffer[offset:])), nil
}

// GetInt32 reads a little-endian int32 at offset.
func (b *SliceBuffer) GetInt32(offset int) (int32, error) {
	if err := b.boundsCheck(offset, 4); err != nil {
		return 0, err
	}
	return int32(byteOrder.Uint32(b.buffer[offset:])), nil
}

// GetInt64 reads a little-endian int64 at offset.
func (b *SliceBuffer) GetInt64(offset int) (int64, error) {
	if err := b.boundsCheck(offset, 8); err != nil {
		return 0, err
	}
	return int64(byteOrder.Uint64(b.buffer[offset:])), nil
}

// GetUint32 reads a little-endian uint32 at offset.
func (b *SliceBuffer) GetUint32(offset int) (uint32, error) {
	if err := b.boundsCheck(offset, 4); err != nil {
		return 0, err
	}
	return byteOrder.Uint32(b.buffer[offset:]), nil
}

// GetUint64 reads a little-endian uint64 at offset.
func (b *SliceBuffer) GetUint64(offset int) (uint64, error) {
	if err := b.boundsCheck(offset, 8); err != nil {
		return 0, err
	}
	return byteOrder.Uint64(b.buffer[offset:]), nil
}

// GetFloat32 reads a little-endian float32 at offset.
func (b *SliceBuffer) GetFloat32(offset int) (float32, error) {
	v, err := b.GetUint32(offset)
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(v), nil
}

// GetFloat64 reads a little-endian float64 at offset.
func (b *SliceBuffer) GetFloat64(offset int) (float64, error) {
	v, err := b.GetUint64(offset)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(v), nil
}

// PutInt8 writes a signed byte at offset.
func (b *SliceBuffer) PutInt8(offset int, v int8) error {
	if err := b.boundsCheck(offset, 1); err != nil {
		return err
	}
	b.buffer[offset] = byte(v)
	return nil
}

// PutInt16 writes a little-endian int16 at offset.
func (b *SliceBuffer) PutInt16(offset int, v int16) error {
	if err := b.boundsCheck(offset, 2); err != nil {
		return err
	}
	byteOrder.PutUint16(b.buffer[offset:], uint16(v))
	return nil
}

// PutInt32 writes a little-endian int32 at offset.
func (b *SliceBuffer) PutInt32(offset int, v int32) error {
	if err := b.boundsCheck(offset, 4); err != nil {
		return err
	}
	byteOrder.PutUint32(b.buffer[offset:], uint32(v))
	return nil
}

// PutInt64 writes a little-endian int64 at offset.
func (b *SliceBuffer) PutInt64(offset int, v int64) error {
	if err := b.boundsCheck(offset, 8); err != nil {
		return err
	}
	byteOrder.PutUint64(b.buffer[offset:], uint64(v))
	return nil
}

// PutUint32 writes a little-endian uint32 at offset.
func (b *SliceBuffer) PutUint32(offset int, v uint32) error {
	if err := b.boundsCheck(offset, 4); err != nil {
		return err
	}
	byteOrder.PutUint32(b.buffer[offset:], v)
	return nil
}

// PutUint64 writes a little-endian uint64 at offset.
func (b *SliceBuffer) PutUint64(offset int, v uint64) error {
	if err := b.boundsCheck(offset, 8); err != nil {
		return err
	}
	byteOrder.PutUint64(b.buffer[offset:], v)
	return nil
}

// PutFloat32 writes a little-endian float32 at offset.
func (b *SliceBuffer) PutFloat32(offset int, v float32) error {
	return b.PutUint32(offset, math.Float32bits(v))
}

// PutFloat64 writes a little-endian float64 at offset.
func (b *SliceBuffer) PutFloat64(offset int, v float64) error {
	return b.PutUint64(offset, math.Float64bits(v))
}

// GetBytes copies length bytes starting at offset into dst[dstOffset:].
// Both sides are bounds checked.
func (b *SliceBuffer) GetBytes(offset int, dst []byte, dstOffset, length int) error {
	if err := b.boundsCheck(offset, length); err != nil {
		return err
	}
	if dstOffset < 0 || length < 0 || dstOffset+length > len(dst) {
		return &OutOfBoundsError{Offset: dstOffset, Length: length, Capacity: len(dst)}
	}
	copy(dst[dstOffset:dstOffset+length], b.buffer[offset:])
	return nil
}

// PutBytes copies length bytes from src[srcOffset:] into the buffer at
// offset. Both sides are bounds checked.
func (b *SliceBuffer) PutBytes(offset int, src []byte, srcOffset, length int) error {
	if err := b.boundsCheck(offset, length); err != nil {
		return err
	}
	if srcOffset < 0 || length < 0 || srcOffset+length > len(src) {
		return &OutOfBoundsError{Offset: srcOffset, Length: length, Capacity: len(src)}
	}
	copy(b.buffer[offset:offset+length], src[srcOffset:])
	return nil
}

// SetMemory fills the range [offset, offset+length) with value.
func (b *SliceBuffer) SetMemory(offset, length int, value byte) error {
	if err := b.boundsCheck(offset, length); err != nil {
		return err
	}
	region := b.buffer[offset : offset+length]
	for i := range region {
		region[i] = value
	}
	return nil
}

// GetInt64Volatile reads an int64 at offset with acquire semantics.
// offset must be 8-byte aligned.
func (b *SliceBuffer) GetInt64Volatile(offset int) (int64, error) {
	if err := b.boundsCheck(offset, 8); err != nil {
		return 0, err
	}
	if offset&7 != 0 {
		return 0, fmt.Errorf("bytebuf: atomic access at unaligned offset %d", offset)
	}
	return int64(atomic.LoadUint64((*uint64)(unsafe.Pointer(&b.buffer[offset])))), nil
}

// PutInt64Ordered writes an int64 at offset with release semantics.
// offset must be 8-byte aligned.
func (b *SliceBuffer) PutInt64Ordered(offset int, v int64) error {
	if err := b.boundsCheck(offset, 8); err != nil {
		return err
	}
	if offset&7 != 0 {
		return fmt.Errorf("bytebuf: atomic access at unaligned offset %d", offset)
	}
	atomic.StoreUint64((*uint64)(unsafe.Pointer(&b.buffer[offset])), uint64(v))
	return nil
}
