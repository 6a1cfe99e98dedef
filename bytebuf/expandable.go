package bytebuf

import "github.com/spindle-io/spindle/bitutil"

// ExpandableBuffer is a buffer that owns a growable byte slice. Any write
// past the current capacity reallocates to the next power of two >= the
// required size, up to MaxCapacity, and copies the existing contents over.
// Capacity never shrinks and reads never grow.
//
// Growth reallocates, so a single instance must not be shared with
// concurrent readers or writers.
type ExpandableBuffer struct {
	SliceBuffer
}

// NewExpandableBuffer creates an ExpandableBuffer with the given initial
// capacity.
func NewExpandableBuffer(initialCapacity int) *ExpandableBuffer {
	b := &ExpandableBuffer{}
	b.buffer = make([]byte, initialCapacity)
	b.checked = true
	return b
}

// EnsureCapacity grows the backing slice so that at least minCapacity bytes
// are addressable. Returns *CapacityExceededError when minCapacity exceeds
// MaxCapacity.
func (b *ExpandableBuffer) EnsureCapacity(minCapacity int) error {
	if minCapacity <= len(b.buffer) {
		return nil
	}
	if minCapacity > MaxCapacity {
		return &CapacityExceededError{Requested: minCapacity, Max: MaxCapacity}
	}

	newCapacity := bitutil.NextPowerOfTwo(minCapacity)
	if newCapacity > MaxCapacity || newCapacity < 0 {
		newCapacity = MaxCapacity
	}

	grown := make([]byte, newCapacity)
	copy(grown, b.buffer)
	b.buffer = grown
	return nil
}

func (b *ExpandableBuffer) ensure(offset, width int) error {
	if offset < 0 || width < 0 {
		return &OutOfBoundsError{Offset: offset, Length: width, Capacity: len(b.buffer)}
	}
	return b.EnsureCapacity(offset + width)
}

// PutInt8 writes a signed byte at offset, growing if needed.
func (b *ExpandableBuffer) PutInt8(offset int, v int8) error {
	if err := b.ensure(offset, 1); err != nil {
		return err
	}
	return b.SliceBuffer.PutInt8(offset, v)
}

// PutInt16 writes a little-endian int16 at offset, growing if needed.
func (b *ExpandableBuffer) PutInt16(offset int, v int16) error {
	if err := b.ensure(offset, 2); err != nil {
		return err
	}
	return b.SliceBuffer.PutInt16(offset, v)
}

// PutInt32 writes a little-endian int32 at offset, growing if needed.
func (b *ExpandableBuffer) PutInt32(offset int, v int32) error {
	if err := b.ensure(offset, 4); err != nil {
		return err
	}
	return b.SliceBuffer.PutInt32(offset, v)
}

// PutInt64 writes a little-endian int64 at offset, growing if needed.
func (b *ExpandableBuffer) PutInt64(offset int, v int64) error {
	if err := b.ensure(offset, 8); err != nil {
		return err
	}
	return b.SliceBuffer.PutInt64(offset, v)
}

// PutUint32 writes a little-endian uint32 at offset, growing if needed.
func (b *ExpandableBuffer) PutUint32(offset int, v uint32) error {
	if err := b.ensure(offset, 4); err != nil {
		return err
	}
	return b.SliceBuffer.PutUint32(offset, v)
}

// PutUint64 writes a little-endian uint64 at offset, growing if needed.
func (b *ExpandableBuffer) PutUint64(offset int, v uint64) error {
	if err := b.ensure(offset, 8); err != nil {
		return err
	}
	return b.SliceBuffer.PutUint64(offset, v)
}

// PutFloat32 writes a little-endian float32 at offset, growing if needed.
func (b *ExpandableBuffer) PutFloat32(offset int, v float32) error {
	if err := b.ensure(offset, 4); err != nil {
		return err
	}
	return b.SliceBuffer.PutFloat32(offset, v)
}

// PutFloat64 writes a little-endian float64 at offset, growing if needed.
func (b *ExpandableBuffer) PutFloat64(offset int, v float64) error {
	if err := b.ensure(offset, 8); err != nil {
		return err
	}
	return b.SliceBuffer.PutFloat64(offset, v)
}

// PutBytes copies length bytes from src[srcOffset:] into the buffer at
// offset, growing if needed.
func (b *ExpandableBuffer) PutBytes(offset int, src []byte, srcOffset, length int) error {
	if err := b.ensure(offset, length); err != nil {
		return err
	}
	return b.SliceBuffer.PutBytes(offset, src, srcOffset, length)
}

// SetMemory fills the range [offset, offset+length) with value, growing if
// needed.
func (b *ExpandableBuffer) SetMemory(offset, length int, value byte) error {
	if err := b.ensure(offset, length); err != nil {
		return err
	}
	return b.SliceBuffer.SetMemory(offset, length, value)
}
