package broadcast

import (
	"sync/atomic"

	"github.com/spindle-io/spindle/bitutil"
	"github.com/spindle-io/spindle/bytebuf"
)

// Receiver is an independent cursor over a broadcast buffer. Each receiver
// owns its cursor state and may be created at any time; it never slows the
// transmitter down. A single Receiver must not be polled concurrently.
//
// The zero-copy protocol is: call ReceiveNext, and if it returns true read
// TypeID, Offset and Length against Buffer, then call Validate to confirm
// the bytes were not overwritten while being read. Skipping Validate risks
// acting on torn data when lapped.
type Receiver struct {
	buffer          bytebuf.AtomicBuffer
	capacity        int
	mask            int64
	tailIntentIndex int
	tailIndex       int
	latestIndex     int

	recordOffset int
	cursor       int64
	nextRecord   int64
	lappedCount  atomic.Int64
}

// NewReceiver creates a Receiver over buffer, whose capacity must be a
// power-of-two message region plus TrailerLength. The cursor starts at the
// beginning of the stream; if the transmitter is already far ahead the
// first poll reports the lap and jumps to the newest record.
func NewReceiver(buffer bytebuf.AtomicBuffer) (*Receiver, error) {
	capacity, err := checkCapacity(buffer.Capacity())
	if err != nil {
		return nil, err
	}

	return &Receiver{
		buffer:          buffer,
		capacity:        capacity,
		mask:            int64(capacity) - 1,
		tailIntentIndex: capacity + TailIntentCounterOffset,
		tailIndex:       capacity + TailCounterOffset,
		latestIndex:     capacity + LatestCounterOffset,
	}, nil
}

// Capacity returns the size of the message region in bytes.
func (r *Receiver) Capacity() int { return r.capacity }

// LappedCount returns how many times this receiver has been overrun by the
// transmitter and forced to resynchronize.
func (r *Receiver) LappedCount() int64 { return r.lappedCount.Load() }

// TypeID returns the type id of the record found by the last ReceiveNext.
func (r *Receiver) TypeID() int32 { return r.getInt32(TypeOffset(r.recordOffset)) }

// Offset returns the byte offset of the current record's payload within
// Buffer.
func (r *Receiver) Offset() int { return MsgOffset(r.recordOffset) }

// Length returns the payload length of the current record.
func (r *Receiver) Length() int {
	return int(r.getInt32(LengthOffset(r.recordOffset))) - HeaderLength
}

// Buffer returns the underlying broadcast buffer.
func (r *Receiver) Buffer() bytebuf.AtomicBuffer { return r.buffer }

// ReceiveNext advances to the next available record, skipping padding.
// It returns false when the cursor has caught up with the transmitter.
// If the receiver has been lapped it resynchronizes to the latest record,
// counts the lap, and returns that record.
func (r *Receiver) ReceiveNext() bool {
	tail := r.getInt64Volatile(r.tailIndex)
	cursor := r.nextRecord

	if tail <= cursor {
		return false
	}

	if !r.validate(cursor) {
		r.lappedCount.Add(1)
		cursor = r.getInt64(r.latestIndex)
	}
	recordOffset := int(cursor & r.mask)

	r.cursor = cursor
	r.nextRecord = cursor + int64(bitutil.Align(int(r.getInt32(LengthOffset(recordOffset))), RecordAlignment))

	if r.getInt32(TypeOffset(recordOffset)) == PaddingTypeID {
		recordOffset = 0
		r.cursor = r.nextRecord
		r.nextRecord += int64(bitutil.Align(int(r.getInt32(LengthOffset(0))), RecordAlignment))
	}

	r.recordOffset = recordOffset
	return true
}

// Validate confirms the record returned by the last ReceiveNext was not
// overwritten while it was being read. A false return means the data seen
// cannot be trusted and the next ReceiveNext will resynchronize.
func (r *Receiver) Validate() bool {
	return r.validate(r.cursor)
}

// validate checks that the transmitter's claimed region has not moved past
// cursor by a full capacity. The volatile read orders it after any payload
// reads the caller performed.
func (r *Receiver) validate(cursor int64) bool {
	return cursor+int64(r.capacity) > r.getInt64Volatile(r.tailIntentIndex)
}

// Counter and header offsets are in range by construction.

func (r *Receiver) getInt32(offset int) int32 {
	v, err := r.buffer.GetInt32(offset)
	if err != nil {
		panic(err)
	}
	return v
}

func (r *Receiver) getInt64(offset int) int64 {
	v, err := r.buffer.GetInt64(offset)
	if err != nil {
		panic(err)
	}
	return v
}

func (r *Receiver) getInt64Volatile(offset int) int64 {
	v, err := r.buffer.GetInt64Volatile(offset)
	if err != nil {
		panic(err)
	}
	return v
}
