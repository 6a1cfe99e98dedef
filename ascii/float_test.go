package ascii

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spindle-io/spindle/bytebuf"
)

func roundTrip(t *testing.T, v float64) float64 {
	t.Helper()

	b := bytebuf.NewSliceBuffer(64)
	n, err := PutFloat64(b, 0, v)
	require.NoError(t, err)

	got, err := ParseFloat64(b, 0, n)
	require.NoError(t, err)
	return got
}

func TestRoundTripFloat64(t *testing.T) {
	cases := []float64{
		0.0,
		1.0,
		-1.0,
		3.14159265358979,
		1e-9,
		123456.78125,
		1e21,
		math.MaxFloat64,
		math.SmallestNonzeroFloat64,            // smallest subnormal
		2.2250738585072009e-308,                // largest subnormal
		2.2250738585072014e-308,                // smallest normal
		math.Float64frombits(0x7fefffffffffff), // arbitrary bit pattern
	}

	for _, v := range cases {
		got := roundTrip(t, v)
		require.Equal(t, math.Float64bits(v), math.Float64bits(got),
			"round trip of %v must be bit exact", v)
	}
}

func TestRoundTripNegativeZero(t *testing.T) {
	got := roundTrip(t, math.Copysign(0, -1))
	require.Equal(t, uint64(1)<<63, math.Float64bits(got))
}

func TestSpecialTokens(t *testing.T) {
	b := bytebuf.NewSliceBuffer(64)

	n, err := PutFloat64(b, 0, math.Inf(1))
	require.NoError(t, err)
	require.Equal(t, "Infinity", string(b.Bytes()[:n]))

	n, err = PutFloat64(b, 0, math.Inf(-1))
	require.NoError(t, err)
	require.Equal(t, "-Infinity", string(b.Bytes()[:n]))

	n, err = PutFloat64(b, 0, math.NaN())
	require.NoError(t, err)
	require.Equal(t, "NaN", string(b.Bytes()[:n]))

	require.True(t, math.IsNaN(roundTrip(t, math.NaN())))
	require.True(t, math.IsInf(roundTrip(t, math.Inf(1)), 1))
	require.True(t, math.IsInf(roundTrip(t, math.Inf(-1)), -1))
}

func parseFloat(t *testing.T, s string) (float64, error) {
	t.Helper()
	b := bytebuf.WrapSlice([]byte(s))
	return ParseFloat64(b, 0, len(s))
}

func TestParseFloatSaturation(t *testing.T) {
	v, err := parseFloat(t, "-2e3000")
	require.NoError(t, err)
	require.True(t, math.IsInf(v, -1))

	v, err = parseFloat(t, "2e3000")
	require.NoError(t, err)
	require.True(t, math.IsInf(v, 1))

	// underflow collapses to zero
	v, err = parseFloat(t, "1e-5000")
	require.NoError(t, err)
	require.Equal(t, 0.0, v)
}

func TestParseFloatGrammar(t *testing.T) {
	valid := map[string]float64{
		"1":          1,
		"+1.5":       1.5,
		"-0.25":      -0.25,
		".5":         0.5,
		"2.":         2,
		"1e3":        1000,
		"1E+3":       1000,
		"-1.25e-2":   -0.0125,
		"007":        7,
		"-Infinity":  math.Inf(-1),
		"+Infinity":  math.Inf(1),
		"Infinity":   math.Inf(1),
	}

	for s, expected := range valid {
		v, err := parseFloat(t, s)
		require.NoError(t, err, "input %q", s)
		require.Equal(t, expected, v, "input %q", s)
	}

	invalid := []string{
		"", "-", ".", "e3", "1e", "1e+", "1..2", "1.2.3", "nan ", " 1",
		"0x1p3", "1_000", "infinity", "NAN", "1f",
	}
	for _, s := range invalid {
		_, err := parseFloat(t, s)
		require.IsType(t, &FormatError{}, err, "input %q", s)
	}
}
