package ascii

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spindle-io/spindle/bytebuf"
)

func TestRoundTripInt32(t *testing.T) {
	cases := []int32{0, 1, -1, 9, 10, 99, 100, 12345678, -12345678,
		math.MaxInt32, math.MinInt32, math.MinInt32 + 1}

	b := bytebuf.NewSliceBuffer(32)
	for _, v := range cases {
		n, err := PutInt32(b, 0, v)
		require.NoError(t, err)

		got, err := ParseInt32(b, 0, n)
		require.NoError(t, err)
		require.Equal(t, v, got, "round trip of %v through %q", v, b.Bytes()[:n])
	}
}

func TestRoundTripInt64(t *testing.T) {
	cases := []int64{0, 1, -1, 42, -42, 1000000007,
		math.MaxInt64, math.MinInt64, math.MinInt64 + 1}

	b := bytebuf.NewSliceBuffer(32)
	for _, v := range cases {
		n, err := PutInt64(b, 0, v)
		require.NoError(t, err)

		got, err := ParseInt64(b, 0, n)
		require.NoError(t, err)
		require.Equal(t, v, got)
	}
}

func TestPutIntFormatting(t *testing.T) {
	cases := []struct {
		v        int64
		expected string
	}{
		{0, "0"},
		{7, "7"},
		{-7, "-7"},
		{1230, "1230"},
		{math.MaxInt64, "9223372036854775807"},
		{math.MinInt64, "-9223372036854775808"},
	}

	b := bytebuf.NewSliceBuffer(32)
	for _, c := range cases {
		n, err := PutInt64(b, 0, c.v)
		require.NoError(t, err)
		require.Equal(t, c.expected, string(b.Bytes()[:n]))
	}
}

func parse64(t *testing.T, s string) (int64, error) {
	t.Helper()
	b := bytebuf.WrapSlice([]byte(s))
	return ParseInt64(b, 0, len(s))
}

func parse32(t *testing.T, s string) (int32, error) {
	t.Helper()
	b := bytebuf.WrapSlice([]byte(s))
	return ParseInt32(b, 0, len(s))
}

func TestParseInt64Boundaries(t *testing.T) {
	v, err := parse64(t, "9223372036854775807")
	require.NoError(t, err)
	require.Equal(t, int64(math.MaxInt64), v)

	v, err = parse64(t, "-9223372036854775808")
	require.NoError(t, err)
	require.Equal(t, int64(math.MinInt64), v)

	_, err = parse64(t, "9223372036854775808")
	require.IsType(t, &FormatError{}, err)

	_, err = parse64(t, "-9223372036854775809")
	require.IsType(t, &FormatError{}, err)
}

func TestParseInt32Boundaries(t *testing.T) {
	v, err := parse32(t, "2147483647")
	require.NoError(t, err)
	require.Equal(t, int32(math.MaxInt32), v)

	v, err = parse32(t, "-2147483648")
	require.NoError(t, err)
	require.Equal(t, int32(math.MinInt32), v)

	_, err = parse32(t, "2147483648")
	require.IsType(t, &FormatError{}, err)

	_, err = parse32(t, "-2147483649")
	require.IsType(t, &FormatError{}, err)
}

func TestParseIntGrammar(t *testing.T) {
	// leading zeros are accepted as the numeric value
	v, err := parse64(t, "007")
	require.NoError(t, err)
	require.Equal(t, int64(7), v)

	v, err = parse64(t, "-000")
	require.NoError(t, err)
	require.Equal(t, int64(0), v)

	invalid := []string{"", "-", "+7", " 7", "7 ", "12a3", "--4", "1.5"}
	for _, s := range invalid {
		_, err := parse64(t, s)
		require.IsType(t, &FormatError{}, err, "input %q", s)
	}
}

func TestParseIntRegion(t *testing.T) {
	b := bytebuf.WrapSlice([]byte("xx-123yy"))

	v, err := ParseInt64(b, 2, 4)
	require.NoError(t, err)
	require.Equal(t, int64(-123), v)

	_, err = ParseInt64(b, 6, 4)
	require.IsType(t, &bytebuf.OutOfBoundsError{}, err)
}

func TestPutIntIntoExpandable(t *testing.T) {
	b := bytebuf.NewExpandableBuffer(2)

	n, err := PutInt64(b, 0, math.MinInt64)
	require.NoError(t, err)
	require.Equal(t, 20, n)
	require.Equal(t, "-9223372036854775808", string(b.Bytes()[:n]))
}
