// Package collections provides primitive-specialized open-addressing
// collections that store keys and values unboxed in flat slices.
package collections

import (
	"fmt"

	"github.com/spindle-io/spindle/bitutil"
)

const (
	minCapacity      = 8
	resizeLoadFactor = 0.65
)

// Int64Map is an int64 to int64 hash map using open addressing with linear
// probing. Keys and values live interleaved in a single slice, so lookups
// touch one cache line in the common case and nothing is boxed.
//
// A missing value is chosen at construction and doubles as the empty-slot
// marker, so it can never be stored; lookups report presence with a
// separate boolean rather than a sentinel object.
type Int64Map struct {
	entries         []int64 // interleaved key, value pairs
	missingValue    int64
	size            int
	resizeThreshold int
}

// NewInt64Map creates a map that treats missingValue as "not present".
func NewInt64Map(missingValue int64) *Int64Map {
	return NewInt64MapSized(missingValue, minCapacity)
}

// NewInt64MapSized creates a map with room for about initialCapacity
// entries before the first grow.
func NewInt64MapSized(missingValue int64, initialCapacity int) *Int64Map {
	capacity := bitutil.NextPowerOfTwo(initialCapacity)
	if capacity < minCapacity {
		capacity = minCapacity
	}

	m := &Int64Map{missingValue: missingValue}
	m.alloc(capacity)
	return m
}

func (m *Int64Map) alloc(capacity int) {
	m.entries = make([]int64, capacity*2)
	m.resizeThreshold = int(float64(capacity) * resizeLoadFactor)
	if m.missingValue != 0 {
		for i := 1; i < len(m.entries); i += 2 {
			m.entries[i] = m.missingValue
		}
	}
}

// Len returns the number of entries.
func (m *Int64Map) Len() int { return m.size }

// MissingValue returns the sentinel chosen at construction.
func (m *Int64Map) MissingValue() int64 { return m.missingValue }

func (m *Int64Map) mask() int { return (len(m.entries) >> 1) - 1 }

func (m *Int64Map) index(key int64) int {
	return int(bitutil.Mix64(uint64(key))) & m.mask()
}

// Get returns the value for key and whether it is present.
func (m *Int64Map) Get(key int64) (int64, bool) {
	mask := m.mask()
	i := m.index(key)

	for {
		v := m.entries[i*2+1]
		if v == m.missingValue {
			return m.missingValue, false
		}
		if m.entries[i*2] == key {
			return v, true
		}
		i = (i + 1) & mask
	}
}

// Put stores value for key, returning the previous value and whether one
// existed. It panics if value equals the missing value, which cannot be
// represented.
func (m *Int64Map) Put(key, value int64) (int64, bool) {
	if value == m.missingValue {
		panic(fmt.Sprintf("collections: value %d equals the missing value", value))
	}

	mask := m.mask()
	i := m.index(key)

	for {
		v := m.entries[i*2+1]
		if v == m.missingValue {
			m.entries[i*2] = key
			m.entries[i*2+1] = value
			m.size++
			if m.size > m.resizeThreshold {
				m.grow()
			}
			return m.missingValue, false
		}
		if m.entries[i*2] == key {
			m.entries[i*2+1] = value
			return v, true
		}
		i = (i + 1) & mask
	}
}

// Remove deletes key, returning the removed value and whether it existed.
func (m *Int64Map) Remove(key int64) (int64, bool) {
	mask := m.mask()
	i := m.index(key)

	for {
		v := m.entries[i*2+1]
		if v == m.missingValue {
			return m.missingValue, false
		}
		if m.entries[i*2] == key {
			m.entries[i*2+1] = m.missingValue
			m.size--
			m.compactChain(i)
			return v, true
		}
		i = (i + 1) & mask
	}
}

// compactChain shifts displaced entries back over a freed slot so probe
// chains stay unbroken without tombstones.
func (m *Int64Map) compactChain(deleted int) {
	mask := m.mask()
	i := deleted

	for {
		i = (i + 1) & mask
		if m.entries[i*2+1] == m.missingValue {
			return
		}

		hash := m.index(m.entries[i*2])
		if (i < hash && (hash <= deleted || deleted <= i)) ||
			(hash <= deleted && deleted <= i) {
			m.entries[deleted*2] = m.entries[i*2]
			m.entries[deleted*2+1] = m.entries[i*2+1]
			m.entries[i*2+1] = m.missingValue
			deleted = i
		}
	}
}

func (m *Int64Map) grow() {
	old := m.entries
	m.alloc(len(old)) // len(old) is 2*capacity, i.e. doubled capacity
	m.size = 0

	for i := 0; i < len(old); i += 2 {
		if old[i+1] != m.missingValue {
			m.Put(old[i], old[i+1])
		}
	}
}

// Range calls f for each entry until f returns false. The iteration order
// is unspecified and the map must not be mutated during it.
func (m *Int64Map) Range(f func(key, value int64) bool) {
	for i := 0; i < len(m.entries); i += 2 {
		if m.entries[i+1] != m.missingValue {
			if !f(m.entries[i], m.entries[i+1]) {
				return
			}
		}
	}
}
