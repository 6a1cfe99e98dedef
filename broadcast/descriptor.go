// Package broadcast implements a lock-free single-transmitter,
// multi-receiver message stream over a shared buffer.
//
// The buffer holds a power-of-two message region followed by a trailer with
// three monotonically non-decreasing 64-bit counters published with ordered
// semantics: the tail intent (position about to be claimed, published
// before a record's bytes are written), the tail (safely published
// position, written after) and the latest (sequence of the most recently
// completed record's start). Receivers are free-running cursors over the
// same memory: the transmitter never waits for them, and a receiver that
// falls more than one capacity behind the tail intent has been lapped and
// must resynchronize, losing the overwritten history.
//
// Records are length-prefixed and type-tagged, aligned to RecordAlignment.
// A record that would straddle the end of the region is preceded by a
// padding record filling the remainder, so payload bytes are always
// contiguous.
package broadcast

import (
	"errors"
	"fmt"

	"github.com/spindle-io/spindle/bitutil"
)

// Record frame layout, little-endian:
//
//	int32 length  // header plus payload, unaligned
//	int32 typeID  // application type; PaddingTypeID marks dead space
//	byte  payload[length-8]
const (
	// HeaderLength is the size of the length and type prefix of a record.
	HeaderLength = 8

	// RecordAlignment is the boundary every record start is aligned to.
	RecordAlignment = 32

	// PaddingTypeID marks a record whose payload is dead space before a
	// wrap. Application type ids must be positive.
	PaddingTypeID int32 = -1
)

// TrailerLength is the space reserved past the message region for the
// publication counters, padded out to keep the writer's counters off the
// cache lines of adjacent application data.
const TrailerLength = bitutil.CacheLineLength * 2

// Counter offsets relative to the end of the message region.
const (
	TailIntentCounterOffset = 0
	TailCounterOffset       = 8
	LatestCounterOffset     = 16
)

// ErrLapped reports that the transmitter overwrote records the receiver had
// not yet consumed. The receiver has already resynchronized past the gap;
// polling again continues from the newest record.
var ErrLapped = errors.New("broadcast: receiver lapped by transmitter, messages lost")

// LengthOffset returns the offset of a record's length field.
func LengthOffset(recordOffset int) int { return recordOffset }

// TypeOffset returns the offset of a record's type id field.
func TypeOffset(recordOffset int) int { return recordOffset + 4 }

// MsgOffset returns the offset of a record's payload.
func MsgOffset(recordOffset int) int { return recordOffset + HeaderLength }

// checkCapacity validates a total buffer length as message region plus
// trailer with the region an exact power of two.
func checkCapacity(totalLength int) (int, error) {
	capacity := totalLength - TrailerLength
	if capacity < RecordAlignment || !bitutil.IsPowerOfTwo(capacity) {
		return 0, fmt.Errorf(
			"broadcast: buffer length %d must be a power-of-two message region of at least %d bytes plus %d bytes of trailer",
			totalLength, RecordAlignment, TrailerLength)
	}
	return capacity, nil
}

// maxMsgLength bounds a single payload to an eighth of the region, keeping
// the distance a receiver may lag useful.
func maxMsgLength(capacity int) int {
	return capacity / 8
}
