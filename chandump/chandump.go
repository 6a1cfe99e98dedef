// Package chandump reads the shared-memory layout of a broadcast channel
// and reports its trailer counters and the records of the current lap. It
// exists for inspecting channel files from outside the transmitting and
// receiving processes; the reader is separate from the cli, which lives in
// cmd/chandump.
//
// The walk is a diagnostic snapshot, not a receiver: it takes no lap
// protection, so a dump taken while a transmitter is writing may show
// records mid-overwrite.
package chandump

import (
	"fmt"
	"io"

	"github.com/spindle-io/spindle/bitutil"
	"github.com/spindle-io/spindle/broadcast"
	"github.com/spindle-io/spindle/bytebuf"
)

// Trailer holds a snapshot of the three publication counters.
type Trailer struct {
	TailIntent int64
	Tail       int64
	Latest     int64
}

// Record is one decoded record of the message region.
type Record struct {
	Sequence int64 // stream sequence of the record start
	Offset   int   // record start offset within the region
	Length   int32 // header plus payload bytes, unaligned
	TypeID   int32
	Payload  []byte // view into data, not a copy
}

// IsPadding reports whether the record is dead space before a wrap.
func (r Record) IsPadding() bool { return r.TypeID == broadcast.PaddingTypeID }

// ReadTrailer validates the channel layout of data and returns the counter
// snapshot plus the message region capacity.
func ReadTrailer(data []byte) (Trailer, int, error) {
	capacity := len(data) - broadcast.TrailerLength
	if capacity < broadcast.RecordAlignment || !bitutil.IsPowerOfTwo(capacity) {
		return Trailer{}, 0, fmt.Errorf("file of %v bytes does not hold a power-of-two message region plus trailer", len(data))
	}

	buffer := bytebuf.WrapSlice(data)
	tailIntent, err := buffer.GetInt64Volatile(capacity + broadcast.TailIntentCounterOffset)
	if err != nil {
		return Trailer{}, 0, err
	}
	tail, err := buffer.GetInt64Volatile(capacity + broadcast.TailCounterOffset)
	if err != nil {
		return Trailer{}, 0, err
	}
	latest, err := buffer.GetInt64Volatile(capacity + broadcast.LatestCounterOffset)
	if err != nil {
		return Trailer{}, 0, err
	}

	return Trailer{TailIntent: tailIntent, Tail: tail, Latest: latest}, capacity, nil
}

// ReadRecords walks the records of the current lap, oldest first. Records
// from earlier laps are unreachable: every lap starts a fresh record at
// offset zero, so the walk begins at the last wrap point.
func ReadRecords(data []byte) ([]Record, error) {
	trailer, capacity, err := ReadTrailer(data)
	if err != nil {
		return nil, err
	}

	mask := int64(capacity) - 1
	lapStart := trailer.Tail &^ mask
	lapEnd := trailer.Tail
	if lapStart == lapEnd && lapStart > 0 {
		// The tail sits exactly on a wrap; the previous lap is still intact.
		lapStart -= int64(capacity)
	}

	buffer := bytebuf.WrapSlice(data)
	var records []Record

	for cursor := lapStart; cursor < lapEnd; {
		recordOffset := int(cursor & mask)

		length, err := buffer.GetInt32(broadcast.LengthOffset(recordOffset))
		if err != nil {
			return records, err
		}
		typeID, err := buffer.GetInt32(broadcast.TypeOffset(recordOffset))
		if err != nil {
			return records, err
		}

		aligned := bitutil.Align(int(length), broadcast.RecordAlignment)
		if length < broadcast.HeaderLength || recordOffset+aligned > capacity {
			return records, fmt.Errorf("corrupt record at offset %v: length %v", recordOffset, length)
		}

		payloadLen := int(length) - broadcast.HeaderLength
		if typeID == broadcast.PaddingTypeID {
			// Padding length covers the whole remainder, header included,
			// and carries no payload.
			aligned = int(length)
			payloadLen = 0
		}

		records = append(records, Record{
			Sequence: cursor,
			Offset:   recordOffset,
			Length:   length,
			TypeID:   typeID,
			Payload:  data[broadcast.MsgOffset(recordOffset) : broadcast.MsgOffset(recordOffset)+payloadLen],
		})

		cursor += int64(aligned)
	}

	return records, nil
}

// Dump writes a human-readable report of the channel in data to w.
func Dump(data []byte, w io.Writer) error {
	trailer, capacity, err := ReadTrailer(data)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Capacity    = %v bytes\n", capacity)
	fmt.Fprintf(w, "Tail intent = %v\n", trailer.TailIntent)
	fmt.Fprintf(w, "Tail        = %v\n", trailer.Tail)
	fmt.Fprintf(w, "Latest      = %v\n", trailer.Latest)

	records, err := ReadRecords(data)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "\n%v record(s) in the current lap\n", len(records))
	for _, r := range records {
		if r.IsPadding() {
			fmt.Fprintf(w, "[seq %v @ %v] padding, %v bytes\n", r.Sequence, r.Offset, r.Length)
			continue
		}
		fmt.Fprintf(w, "[seq %v @ %v] type=%v, %v payload byte(s)\n",
			r.Sequence, r.Offset, r.TypeID, len(r.Payload))
	}

	return nil
}
