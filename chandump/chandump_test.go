package chandump

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spindle-io/spindle/broadcast"
	"github.com/spindle-io/spindle/bytebuf"
)

func transmitN(t *testing.T, buffer *bytebuf.SliceBuffer, n, length int, msgTypeID int32) {
	t.Helper()

	tx, err := broadcast.NewTransmitter(buffer)
	if err != nil {
		t.Fatalf("cannot create transmitter: %v", err)
	}

	src := bytebuf.NewSliceBuffer(length)
	for i := 0; i < length; i++ {
		if err := src.PutInt8(i, int8(i)); err != nil {
			t.Fatal(err)
		}
	}
	for i := 0; i < n; i++ {
		if err := tx.Transmit(msgTypeID, src, 0, length); err != nil {
			t.Fatalf("cannot transmit: %v", err)
		}
	}
}

func TestReadTrailer(t *testing.T) {
	data := make([]byte, 1024+broadcast.TrailerLength)
	transmitN(t, bytebuf.WrapSlice(data), 3, 57, 5)

	trailer, capacity, err := ReadTrailer(data)
	if err != nil {
		t.Fatalf("cannot read trailer: %v", err)
	}

	if capacity != 1024 {
		t.Errorf("expected capacity 1024, got %v", capacity)
	}
	// 57 byte payloads make 96 byte aligned records
	if trailer.Tail != 288 {
		t.Errorf("expected tail 288, got %v", trailer.Tail)
	}
	if trailer.TailIntent != 288 {
		t.Errorf("expected tail intent 288, got %v", trailer.TailIntent)
	}
	if trailer.Latest != 192 {
		t.Errorf("expected latest 192, got %v", trailer.Latest)
	}
}

func TestReadTrailerLayoutValidation(t *testing.T) {
	for _, size := range []int{0, broadcast.TrailerLength, 1000 + broadcast.TrailerLength} {
		if _, _, err := ReadTrailer(make([]byte, size)); err == nil {
			t.Errorf("expected a layout error for a %v byte file", size)
		}
	}
}

func TestReadRecords(t *testing.T) {
	data := make([]byte, 1024+broadcast.TrailerLength)
	transmitN(t, bytebuf.WrapSlice(data), 3, 57, 5)

	records, err := ReadRecords(data)
	if err != nil {
		t.Fatalf("cannot read records: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %v", len(records))
	}

	for i, r := range records {
		if r.Sequence != int64(i*96) || r.Offset != i*96 {
			t.Errorf("record %v at sequence %v offset %v, expected %v", i, r.Sequence, r.Offset, i*96)
		}
		if r.TypeID != 5 {
			t.Errorf("record %v has type %v, expected 5", i, r.TypeID)
		}
		if r.Length != 57+broadcast.HeaderLength {
			t.Errorf("record %v has length %v, expected %v", i, r.Length, 57+broadcast.HeaderLength)
		}
		if r.IsPadding() {
			t.Errorf("record %v is not padding", i)
		}
		if len(r.Payload) != 57 || r.Payload[1] != 1 || r.Payload[56] != 56 {
			t.Errorf("record %v payload does not match what was transmitted", i)
		}
	}
}

func TestReadRecordsAfterWrap(t *testing.T) {
	data := make([]byte, 1024+broadcast.TrailerLength)
	// ten 96 byte records fill 960 bytes; the eleventh wraps past the
	// 64 byte remainder and starts the next lap at offset zero
	transmitN(t, bytebuf.WrapSlice(data), 11, 57, 5)

	records, err := ReadRecords(data)
	if err != nil {
		t.Fatalf("cannot read records: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected only the wrapped record, got %v", len(records))
	}
	if records[0].Sequence != 1024 || records[0].Offset != 0 {
		t.Errorf("wrapped record at sequence %v offset %v, expected 1024 and 0",
			records[0].Sequence, records[0].Offset)
	}
}

func TestReadRecordsTailOnWrapBoundary(t *testing.T) {
	data := make([]byte, 1024+broadcast.TrailerLength)
	// 24 byte payloads make 32 byte records, so 32 of them land the tail
	// exactly on the wrap and leave the previous lap intact
	transmitN(t, bytebuf.WrapSlice(data), 32, 24, 9)

	records, err := ReadRecords(data)
	if err != nil {
		t.Fatalf("cannot read records: %v", err)
	}
	if len(records) != 32 {
		t.Fatalf("expected the 32 records of the previous lap, got %v", len(records))
	}
	if records[0].Sequence != 0 || records[31].Sequence != 31*32 {
		t.Errorf("expected sequences 0 through %v, got %v through %v",
			31*32, records[0].Sequence, records[31].Sequence)
	}
}

func TestDump(t *testing.T) {
	data := make([]byte, 1024+broadcast.TrailerLength)
	transmitN(t, bytebuf.WrapSlice(data), 2, 12, 3)

	var out bytes.Buffer
	if err := Dump(data, &out); err != nil {
		t.Fatalf("cannot dump: %v", err)
	}

	report := out.String()
	for _, want := range []string{
		"Capacity    = 1024 bytes",
		"Tail        = 64",
		"Latest      = 32",
		"2 record(s) in the current lap",
		"[seq 0 @ 0] type=3, 12 payload byte(s)",
		"[seq 32 @ 32] type=3, 12 payload byte(s)",
	} {
		if !strings.Contains(report, want) {
			t.Errorf("dump output missing %q:\n%s", want, report)
		}
	}
}

func TestDumpRejectsBadLayout(t *testing.T) {
	if err := Dump(make([]byte, 100), &bytes.Buffer{}); err == nil {
		t.Error("expected an error for a malformed file")
	}
}
