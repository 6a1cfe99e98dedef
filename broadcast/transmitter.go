package broadcast

import (
	"fmt"

	"github.com/spindle-io/spindle/bitutil"
	"github.com/spindle-io/spindle/bytebuf"
)

// Transmitter appends records to a broadcast buffer. Exactly one
// Transmitter may exist per buffer and it must not be called concurrently;
// it never blocks on receivers.
type Transmitter struct {
	buffer          bytebuf.AtomicBuffer
	capacity        int
	mask            int64
	maxLength       int
	tailIntentIndex int
	tailIndex       int
	latestIndex     int
}

// NewTransmitter creates a Transmitter over buffer, whose capacity must be
// a power-of-two message region plus TrailerLength.
func NewTransmitter(buffer bytebuf.AtomicBuffer) (*Transmitter, error) {
	capacity, err := checkCapacity(buffer.Capacity())
	if err != nil {
		return nil, err
	}

	return &Transmitter{
		buffer:          buffer,
		capacity:        capacity,
		mask:            int64(capacity) - 1,
		maxLength:       maxMsgLength(capacity),
		tailIntentIndex: capacity + TailIntentCounterOffset,
		tailIndex:       capacity + TailCounterOffset,
		latestIndex:     capacity + LatestCounterOffset,
	}, nil
}

// Capacity returns the size of the message region in bytes.
func (t *Transmitter) Capacity() int { return t.capacity }

// MaxMsgLength returns the largest payload Transmit accepts.
func (t *Transmitter) MaxMsgLength() int { return t.maxLength }

// Transmit appends one record of the given type carrying length bytes from
// src starting at srcOffset. Argument violations are caller bugs and are
// returned as errors without touching the stream.
func (t *Transmitter) Transmit(msgTypeID int32, src bytebuf.Buffer, srcOffset, length int) error {
	if msgTypeID <= 0 {
		return fmt.Errorf("broadcast: message type id %d is reserved, must be positive", msgTypeID)
	}
	if length < 0 || length > t.maxLength {
		return fmt.Errorf("broadcast: message length %d outside [0, %d]", length, t.maxLength)
	}
	if srcOffset < 0 || srcOffset+length > src.Capacity() {
		return fmt.Errorf("broadcast: source range [%d, %d) outside capacity %d",
			srcOffset, srcOffset+length, src.Capacity())
	}

	// Single writer, so the plain read of our own last published tail is
	// not contended.
	currentTail := t.getInt64(t.tailIndex)
	recordOffset := int(currentTail & t.mask)

	recordLength := HeaderLength + length
	alignedLength := bitutil.Align(recordLength, RecordAlignment)
	newTail := currentTail + int64(alignedLength)

	toEndOfBuffer := t.capacity - recordOffset
	if toEndOfBuffer < alignedLength {
		// The record would wrap. Fill the remainder of the region with a
		// padding record and start over at offset zero. One intent signal
		// covers both the padding and the record.
		t.signalTailIntent(newTail + int64(toEndOfBuffer))
		t.insertPaddingRecord(recordOffset, toEndOfBuffer)

		currentTail += int64(toEndOfBuffer)
		recordOffset = 0
	} else {
		t.signalTailIntent(newTail)
	}

	t.putInt32(LengthOffset(recordOffset), int32(recordLength))
	t.putInt32(TypeOffset(recordOffset), msgTypeID)
	t.putBytes(MsgOffset(recordOffset), src, srcOffset, length)

	t.putInt64Ordered(t.latestIndex, currentTail)
	t.putInt64Ordered(t.tailIndex, currentTail+int64(alignedLength))

	return nil
}

// signalTailIntent warns receivers of the region about to be overwritten
// before any record byte is touched. The ordered store doubles as the
// barrier keeping the following plain header/payload stores from being
// observed ahead of it.
func (t *Transmitter) signalTailIntent(newTail int64) {
	t.putInt64Ordered(t.tailIntentIndex, newTail)
}

func (t *Transmitter) insertPaddingRecord(recordOffset, length int) {
	t.putInt32(LengthOffset(recordOffset), int32(length))
	t.putInt32(TypeOffset(recordOffset), PaddingTypeID)
}

// The offsets below are in range by construction, so a buffer error here is
// a broken invariant, not a recoverable condition.

func (t *Transmitter) getInt64(offset int) int64 {
	v, err := t.buffer.GetInt64(offset)
	if err != nil {
		panic(err)
	}
	return v
}

func (t *Transmitter) putInt32(offset int, v int32) {
	if err := t.buffer.PutInt32(offset, v); err != nil {
		panic(err)
	}
}

func (t *Transmitter) putInt64Ordered(offset int, v int64) {
	if err := t.buffer.PutInt64Ordered(offset, v); err != nil {
		panic(err)
	}
}

func (t *Transmitter) putBytes(offset int, src bytebuf.Buffer, srcOffset, length int) {
	if err := t.buffer.PutBytes(offset, src.Bytes(), srcOffset, length); err != nil {
		panic(err)
	}
}
