package broadcast

import (
	"github.com/spindle-io/spindle/bytebuf"
)

// Handler consumes one message. The buffer contents are only valid for the
// duration of the call.
type Handler func(msgTypeID int32, buffer bytebuf.Buffer, offset, length int)

// CopyReceiver wraps a Receiver and hands messages to a Handler from a
// private scratch buffer, so the handler never observes bytes the
// transmitter is concurrently overwriting. This trades one copy per message
// for a simpler consumption contract than the zero-copy Receiver API.
type CopyReceiver struct {
	receiver *Receiver
	scratch  *bytebuf.ExpandableBuffer
}

// NewCopyReceiver wraps receiver. The scratch buffer starts at the stream's
// maximum message length so steady state never reallocates.
func NewCopyReceiver(receiver *Receiver) *CopyReceiver {
	return &CopyReceiver{
		receiver: receiver,
		scratch:  bytebuf.NewExpandableBuffer(maxMsgLength(receiver.Capacity())),
	}
}

// LappedCount returns the lap count of the underlying receiver.
func (c *CopyReceiver) LappedCount() int64 { return c.receiver.LappedCount() }

// Receive polls for the next message and, when one is available, copies it
// out and invokes handler. It returns the number of messages delivered
// (zero or one).
//
// ErrLapped is returned when the transmitter overran the receiver: the
// intervening messages are gone, the cursor has moved up to the newest
// data, and the caller should log and poll again. A message read that fails
// validation after the copy is the same condition caught later, and is
// reported the same way without invoking the handler.
func (c *CopyReceiver) Receive(handler Handler) (int, error) {
	lastSeenLappedCount := c.receiver.LappedCount()

	if !c.receiver.ReceiveNext() {
		return 0, nil
	}
	if c.receiver.LappedCount() != lastSeenLappedCount {
		return 0, ErrLapped
	}

	length := c.receiver.Length()
	if length < 0 || c.receiver.Offset()+length > c.receiver.Capacity() {
		// Header bytes were torn by an in-flight overwrite.
		return 0, ErrLapped
	}

	typeID := c.receiver.TypeID()
	if err := c.scratch.PutBytes(0, c.receiver.Buffer().Bytes(), c.receiver.Offset(), length); err != nil {
		return 0, err
	}

	if !c.receiver.Validate() {
		return 0, ErrLapped
	}

	handler(typeID, c.scratch, 0, length)
	return 1, nil
}
