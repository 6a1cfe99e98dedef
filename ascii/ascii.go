// Package ascii converts binary integers and doubles to and from their
// ASCII decimal representation directly inside a bytebuf.Buffer, without
// going through an intermediate string. It exists for hot paths that encode
// values like prices or timestamps straight into wire buffers, where the
// allocation and scanning overhead of the generic formatters is measurable.
//
// The integer grammar is `-?[0-9]+`: no leading '+', no whitespace, leading
// zeros accepted. Values that overflow the target width are rejected with
// *FormatError rather than wrapped.
package ascii

import (
	"fmt"
	"math"

	"github.com/spindle-io/spindle/bytebuf"
)

const (
	minInt32Magnitude = uint64(math.MaxInt32) + 1
	minInt64Magnitude = uint64(math.MaxInt64) + 1
)

// FormatError reports input that does not match the decimal grammar or does
// not fit the requested width.
type FormatError struct {
	Input  string
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("ascii: cannot parse %q: %v", e.Input, e.Reason)
}

// region returns the requested byte range of the buffer, bounds checked.
func region(b bytebuf.Buffer, offset, length int) ([]byte, error) {
	data := b.Bytes()
	if offset < 0 || length < 0 || offset+length > len(data) {
		return nil, &bytebuf.OutOfBoundsError{Offset: offset, Length: length, Capacity: len(data)}
	}
	return data[offset : offset+length], nil
}

// parseMagnitude accumulates the digits of data into an unsigned magnitude
// no greater than limit. data must be non-empty and all digits.
func parseMagnitude(data []byte, limit uint64) (uint64, error) {
	var magnitude uint64
	for _, c := range data {
		if c < '0' || c > '9' {
			return 0, &FormatError{Input: string(data), Reason: "not a digit"}
		}
		d := uint64(c - '0')
		if magnitude > (limit-d)/10 {
			return 0, &FormatError{Input: string(data), Reason: "value out of range"}
		}
		magnitude = magnitude*10 + d
	}
	return magnitude, nil
}

func parseSigned(data []byte, maxMagnitude, minMagnitude uint64) (uint64, bool, error) {
	if len(data) == 0 {
		return 0, false, &FormatError{Input: "", Reason: "empty"}
	}

	negative := data[0] == '-'
	digits := data
	limit := maxMagnitude
	if negative {
		digits = data[1:]
		limit = minMagnitude
		if len(digits) == 0 {
			return 0, false, &FormatError{Input: string(data), Reason: "no digits after sign"}
		}
	}

	magnitude, err := parseMagnitude(digits, limit)
	if err != nil {
		return 0, false, err
	}
	return magnitude, negative, nil
}

// ParseInt32 parses the decimal in [offset, offset+length) as an int32.
func ParseInt32(b bytebuf.Buffer, offset, length int) (int32, error) {
	data, err := region(b, offset, length)
	if err != nil {
		return 0, err
	}

	magnitude, negative, err := parseSigned(data, math.MaxInt32, minInt32Magnitude)
	if err != nil {
		return 0, err
	}
	if negative {
		return int32(-int64(magnitude)), nil
	}
	return int32(magnitude), nil
}

// ParseInt64 parses the decimal in [offset, offset+length) as an int64.
func ParseInt64(b bytebuf.Buffer, offset, length int) (int64, error) {
	data, err := region(b, offset, length)
	if err != nil {
		return 0, err
	}

	magnitude, negative, err := parseSigned(data, math.MaxInt64, minInt64Magnitude)
	if err != nil {
		return 0, err
	}
	if negative {
		// magnitude may be 1<<63; the conversion wraps to MinInt64 exactly.
		return -int64(magnitude), nil
	}
	return int64(magnitude), nil
}

// putMagnitude writes the minimal decimal form of sign and magnitude into
// the buffer at offset and returns the number of bytes written.
func putMagnitude(b bytebuf.Buffer, offset int, magnitude uint64, negative bool) (int, error) {
	// 20 digits covers 1<<63, plus one byte for the sign.
	var scratch [21]byte
	i := len(scratch)

	for {
		i--
		scratch[i] = byte('0' + magnitude%10)
		magnitude /= 10
		if magnitude == 0 {
			break
		}
	}
	if negative {
		i--
		scratch[i] = '-'
	}

	n := len(scratch) - i
	if err := b.PutBytes(offset, scratch[i:], 0, n); err != nil {
		return 0, err
	}
	return n, nil
}

// PutInt32 writes the minimal decimal ASCII form of v at offset and returns
// the number of bytes written.
func PutInt32(b bytebuf.Buffer, offset int, v int32) (int, error) {
	return PutInt64(b, offset, int64(v))
}

// PutInt64 writes the minimal decimal ASCII form of v at offset and returns
// the number of bytes written.
func PutInt64(b bytebuf.Buffer, offset int, v int64) (int, error) {
	negative := v < 0
	var magnitude uint64
	if negative {
		// Negating in the unsigned domain handles MinInt64, whose
		// magnitude is one past MaxInt64.
		magnitude = uint64(-(v + 1)) + 1
	} else {
		magnitude = uint64(v)
	}
	return putMagnitude(b, offset, magnitude, negative)
}
