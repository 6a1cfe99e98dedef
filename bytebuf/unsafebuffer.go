package bytebuf

import "unsafe"

// UnsafeBuffer is a fixed-capacity buffer over a raw memory address, for
// regions that did not originate as a Go slice (mmap segments, C
// allocations, device memory). The caller must keep the backing allocation
// alive and mapped for as long as the buffer is in use; the buffer holds no
// reference the garbage collector can see.
type UnsafeBuffer struct {
	SliceBuffer
}

// WrapPointer creates a bounds-checked UnsafeBuffer over capacity bytes
// starting at p.
func WrapPointer(p unsafe.Pointer, capacity int) *UnsafeBuffer {
	b := &UnsafeBuffer{}
	b.checked = true
	b.Wrap(p, capacity)
	return b
}

// WrapPointerUnchecked is WrapPointer with bounds checks disabled. See
// WrapSliceUnchecked for the contract.
func WrapPointerUnchecked(p unsafe.Pointer, capacity int) *UnsafeBuffer {
	b := &UnsafeBuffer{}
	b.checked = false
	b.Wrap(p, capacity)
	return b
}

// Wrap re-points the buffer at capacity bytes starting at p.
func (b *UnsafeBuffer) Wrap(p unsafe.Pointer, capacity int) {
	b.buffer = unsafe.Slice((*byte)(p), capacity)
}
