package ascii

import (
	"math"
	"strconv"
	"unsafe"

	"github.com/spindle-io/spindle/bytebuf"
)

// Special value tokens. These are the only non-numeric spellings the codec
// reads or writes.
const (
	nanToken      = "NaN"
	infinityToken = "Infinity"
)

var (
	nanBytes         = []byte(nanToken)
	infinityBytes    = []byte(infinityToken)
	negInfinityBytes = []byte("-" + infinityToken)
)

// validFloatGrammar reports whether data matches
// [+-]? digits [. digits?]? ([eE][+-]?digits)? with at least one digit
// overall. It deliberately rejects hex floats, underscores and whitespace,
// which the stdlib parser would otherwise accept.
func validFloatGrammar(data []byte) bool {
	i := 0
	if i < len(data) && (data[i] == '+' || data[i] == '-') {
		i++
	}

	digits := 0
	for i < len(data) && data[i] >= '0' && data[i] <= '9' {
		i++
		digits++
	}
	if i < len(data) && data[i] == '.' {
		i++
		for i < len(data) && data[i] >= '0' && data[i] <= '9' {
			i++
			digits++
		}
	}
	if digits == 0 {
		return false
	}

	if i < len(data) && (data[i] == 'e' || data[i] == 'E') {
		i++
		if i < len(data) && (data[i] == '+' || data[i] == '-') {
			i++
		}
		expDigits := 0
		for i < len(data) && data[i] >= '0' && data[i] <= '9' {
			i++
			expDigits++
		}
		if expDigits == 0 {
			return false
		}
	}

	return i == len(data)
}

func parseSpecial(data []byte) (float64, bool) {
	s := data
	sign := 1.0
	if len(s) > 0 && (s[0] == '+' || s[0] == '-') {
		if s[0] == '-' {
			sign = -1
		}
		s = s[1:]
	}

	switch string(s) {
	case infinityToken:
		return sign * math.Inf(1), true
	case nanToken:
		return math.NaN(), true
	}
	return 0, false
}

// ParseFloat64 parses the decimal in [offset, offset+length) as a float64,
// correctly rounded to the nearest representable value. Magnitudes beyond
// the double range saturate to the signed infinities; the literal tokens
// Infinity, -Infinity and NaN parse to the corresponding specials.
func ParseFloat64(b bytebuf.Buffer, offset, length int) (float64, error) {
	data, err := region(b, offset, length)
	if err != nil {
		return 0, err
	}

	if v, ok := parseSpecial(data); ok {
		return v, nil
	}
	if !validFloatGrammar(data) {
		return 0, &FormatError{Input: string(data), Reason: "not a decimal floating point value"}
	}

	// The grammar is already validated, so the only parse failure left is
	// range exhaustion, which strconv resolves to ±Inf or ±0 exactly as
	// the saturation policy wants. The unsafe.String view avoids copying
	// the digits out of the buffer.
	v, err := strconv.ParseFloat(unsafe.String(&data[0], len(data)), 64)
	if err != nil {
		if ne, ok := err.(*strconv.NumError); ok && ne.Err == strconv.ErrRange {
			return v, nil
		}
		return 0, &FormatError{Input: string(data), Reason: "not a decimal floating point value"}
	}
	return v, nil
}

// PutFloat64 writes an ASCII decimal form of v at offset and returns the
// number of bytes written.
//
// Policy: the shortest decimal representation that parses back to exactly
// the same bits (strconv 'g' format with precision -1). The specials are
// written as Infinity, -Infinity and NaN.
func PutFloat64(b bytebuf.Buffer, offset int, v float64) (int, error) {
	var token []byte
	switch {
	case math.IsNaN(v):
		token = nanBytes
	case math.IsInf(v, 1):
		token = infinityBytes
	case math.IsInf(v, -1):
		token = negInfinityBytes
	}
	if token != nil {
		if err := b.PutBytes(offset, token, 0, len(token)); err != nil {
			return 0, err
		}
		return len(token), nil
	}

	// 32 bytes is comfortably more than the longest shortest-form double.
	var scratch [32]byte
	out := strconv.AppendFloat(scratch[:0], v, 'g', -1, 64)
	if err := b.PutBytes(offset, out, 0, len(out)); err != nil {
		return 0, err
	}
	return len(out), nil
}
