package collections

import (
	"fmt"

	"github.com/spindle-io/spindle/bitutil"
)

// Int64Set is an open-addressing set of int64 values with linear probing
// and compacting deletes. The missing value chosen at construction marks
// empty slots and cannot be added.
type Int64Set struct {
	values          []int64
	missingValue    int64
	size            int
	resizeThreshold int
}

// NewInt64Set creates a set that treats missingValue as "not present".
func NewInt64Set(missingValue int64) *Int64Set {
	return NewInt64SetSized(missingValue, minCapacity)
}

// NewInt64SetSized creates a set with room for about initialCapacity
// values before the first grow.
func NewInt64SetSized(missingValue int64, initialCapacity int) *Int64Set {
	capacity := bitutil.NextPowerOfTwo(initialCapacity)
	if capacity < minCapacity {
		capacity = minCapacity
	}

	s := &Int64Set{missingValue: missingValue}
	s.alloc(capacity)
	return s
}

func (s *Int64Set) alloc(capacity int) {
	s.values = make([]int64, capacity)
	s.resizeThreshold = int(float64(capacity) * resizeLoadFactor)
	if s.missingValue != 0 {
		for i := range s.values {
			s.values[i] = s.missingValue
		}
	}
}

// Len returns the number of values in the set.
func (s *Int64Set) Len() int { return s.size }

func (s *Int64Set) mask() int { return len(s.values) - 1 }

func (s *Int64Set) index(value int64) int {
	return int(bitutil.Mix64(uint64(value))) & s.mask()
}

// Contains reports whether value is in the set.
func (s *Int64Set) Contains(value int64) bool {
	mask := s.mask()
	i := s.index(value)

	for {
		v := s.values[i]
		if v == s.missingValue {
			return false
		}
		if v == value {
			return true
		}
		i = (i + 1) & mask
	}
}

// Add inserts value, reporting whether the set changed. It panics if value
// equals the missing value.
func (s *Int64Set) Add(value int64) bool {
	if value == s.missingValue {
		panic(fmt.Sprintf("collections: value %d equals the missing value", value))
	}

	mask := s.mask()
	i := s.index(value)

	for {
		v := s.values[i]
		if v == s.missingValue {
			s.values[i] = value
			s.size++
			if s.size > s.resizeThreshold {
				s.grow()
			}
			return true
		}
		if v == value {
			return false
		}
		i = (i + 1) & mask
	}
}

// Remove deletes value, reporting whether it was present.
func (s *Int64Set) Remove(value int64) bool {
	mask := s.mask()
	i := s.index(value)

	for {
		v := s.values[i]
		if v == s.missingValue {
			return false
		}
		if v == value {
			s.values[i] = s.missingValue
			s.size--
			s.compactChain(i)
			return true
		}
		i = (i + 1) & mask
	}
}

func (s *Int64Set) compactChain(deleted int) {
	mask := s.mask()
	i := deleted

	for {
		i = (i + 1) & mask
		if s.values[i] == s.missingValue {
			return
		}

		hash := s.index(s.values[i])
		if (i < hash && (hash <= deleted || deleted <= i)) ||
			(hash <= deleted && deleted <= i) {
			s.values[deleted] = s.values[i]
			s.values[i] = s.missingValue
			deleted = i
		}
	}
}

func (s *Int64Set) grow() {
	old := s.values
	s.alloc(len(old) * 2)
	s.size = 0

	for _, v := range old {
		if v != s.missingValue {
			s.Add(v)
		}
	}
}

// Range calls f for each value until f returns false. The iteration order
// is unspecified and the set must not be mutated during it.
func (s *Int64Set) Range(f func(value int64) bool) {
	for _, v := range s.values {
		if v != s.missingValue {
			if !f(v) {
				return
			}
		}
	}
}
