package bytebuf

import "testing"

func TestExpandableGrowthOnWrite(t *testing.T) {
	b := NewExpandableBuffer(8)

	if err := b.PutInt64(0, 0x1122334455667788); err != nil {
		t.Error(err)
	}

	// a write past the end must grow, not fail
	if err := b.PutInt32(100, 42); err != nil {
		t.Error("expected write past capacity to grow:", err)
	}
	if b.Capacity() < 104 {
		t.Errorf("expected capacity >= 104 after growth, got %v", b.Capacity())
	}

	// growth must preserve previously written bytes
	v, err := b.GetInt64(0)
	if err != nil || v != 0x1122334455667788 {
		t.Errorf("expected original bytes preserved, got %v (%v)", v, err)
	}
	v32, err := b.GetInt32(100)
	if err != nil || v32 != 42 {
		t.Errorf("expected 42 at offset 100, got %v (%v)", v32, err)
	}
}

func TestExpandableMonotonicCapacity(t *testing.T) {
	b := NewExpandableBuffer(16)

	last := b.Capacity()
	for offset := 0; offset < 10000; offset += 500 {
		if err := b.PutInt8(offset, 1); err != nil {
			t.Error(err)
			return
		}
		if b.Capacity() < last {
			t.Errorf("capacity shrank from %v to %v", last, b.Capacity())
		}
		last = b.Capacity()
	}
}

func TestExpandableReadsNeverGrow(t *testing.T) {
	b := NewExpandableBuffer(8)

	if _, err := b.GetInt64(100); err == nil {
		t.Error("expected out of bounds read to fail")
	}
	if b.Capacity() != 8 {
		t.Errorf("read grew the buffer to %v", b.Capacity())
	}
}

func TestExpandableMaxCapacity(t *testing.T) {
	b := NewExpandableBuffer(8)

	err := b.EnsureCapacity(MaxCapacity + 1)
	if err == nil {
		t.Error("expected growth past MaxCapacity to fail")
		return
	}
	if _, ok := err.(*CapacityExceededError); !ok {
		t.Errorf("expected *CapacityExceededError, got %T", err)
	}
	if b.Capacity() != 8 {
		t.Error("failed growth should not change capacity")
	}
}

func TestExpandableEnsureCapacityIdempotent(t *testing.T) {
	b := NewExpandableBuffer(64)

	if err := b.EnsureCapacity(32); err != nil {
		t.Error(err)
	}
	if b.Capacity() != 64 {
		t.Errorf("expected capacity unchanged at 64, got %v", b.Capacity())
	}
}
