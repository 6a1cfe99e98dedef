package bytebuf

import (
	"testing"
	"unsafe"
)

func TestUnsafeBufferSharesMemory(t *testing.T) {
	backing := make([]byte, 16)
	b := WrapPointer(unsafe.Pointer(&backing[0]), len(backing))

	if b.Capacity() != 16 {
		t.Errorf("expected capacity 16, got %v", b.Capacity())
	}

	if err := b.PutInt32(4, 0x01020304); err != nil {
		t.Error(err)
	}

	if backing[4] != 0x04 || backing[7] != 0x01 {
		t.Error("write through the address-backed buffer did not reach the backing memory")
	}

	backing[0] = 0x7f
	v, err := b.GetInt8(0)
	if err != nil || v != 0x7f {
		t.Errorf("expected 0x7f via the buffer, got %v (%v)", v, err)
	}
}

func TestUnsafeBufferBounds(t *testing.T) {
	backing := make([]byte, 8)
	b := WrapPointer(unsafe.Pointer(&backing[0]), len(backing))

	if err := b.PutInt64(1, 0); err == nil {
		t.Error("expected out of bounds write to fail")
	}
	if _, err := b.GetInt32(-1); err == nil {
		t.Error("expected negative offset to fail")
	}
}

func TestUnsafeBufferRewrap(t *testing.T) {
	first := make([]byte, 8)
	second := make([]byte, 32)

	b := WrapPointer(unsafe.Pointer(&first[0]), len(first))
	b.Wrap(unsafe.Pointer(&second[0]), len(second))

	if b.Capacity() != 32 {
		t.Errorf("expected capacity 32 after rewrap, got %v", b.Capacity())
	}

	if err := b.PutInt64(24, -1); err != nil {
		t.Error(err)
	}
	if second[24] != 0xff {
		t.Error("write after rewrap did not reach the new backing memory")
	}
	if first[0] != 0 {
		t.Error("write after rewrap touched the old backing memory")
	}
}
