// Package intset implements the core's small-integer set (spec §4.4): a
// sorted contiguous array of signed integers with a uniform element width
// that is the narrowest of 16/32/64 bits fitting every stored value,
// promoted automatically on overflow and never demoted. The narrowest-width
// selection mirrors compactindexsized's OffsetWidth idiom, and find uses
// the same sort.Search binary-search shape as that package's
// SearchSortedEntries.
package intset

import (
	"math/rand/v2"
	"sort"
)

// Width identifies the element width currently in use.
type Width int

const (
	Width16 Width = 16
	Width32 Width = 32
	Width64 Width = 64
)

// Set is a sorted set of int64 values backed by the narrowest array type
// that fits every member.
type Set struct {
	width Width
	i16   []int16
	i32   []int32
	i64   []int64
}

// New returns an empty set at the narrowest width.
func New() *Set {
	return &Set{width: Width16}
}

// Width reports the set's current element width.
func (s *Set) Width() Width { return s.width }

// Len returns the number of elements.
func (s *Set) Len() int {
	switch s.width {
	case Width16:
		return len(s.i16)
	case Width32:
		return len(s.i32)
	default:
		return len(s.i64)
	}
}

func widthFor(v int64) Width {
	switch {
	case v >= -32768 && v <= 32767:
		return Width16
	case v >= -2147483648 && v <= 2147483647:
		return Width32
	default:
		return Width64
	}
}

// upgrade promotes the set to width w, copying every existing element. w
// must be >= the current width; promotion is one-way.
func (s *Set) upgrade(w Width) {
	if w <= s.width {
		return
	}
	switch w {
	case Width32:
		s.i32 = make([]int32, len(s.i16))
		for i, v := range s.i16 {
			s.i32[i] = int32(v)
		}
		s.i16 = nil
	case Width64:
		switch s.width {
		case Width16:
			s.i64 = make([]int64, len(s.i16))
			for i, v := range s.i16 {
				s.i64[i] = int64(v)
			}
			s.i16 = nil
		case Width32:
			s.i64 = make([]int64, len(s.i32))
			for i, v := range s.i32 {
				s.i64[i] = int64(v)
			}
			s.i32 = nil
		}
	}
	s.width = w
}

// Find reports whether v is a member.
func (s *Set) Find(v int64) bool {
	_, ok := s.search(v)
	return ok
}

func (s *Set) search(v int64) (int, bool) {
	switch s.width {
	case Width16:
		if v < -32768 || v > 32767 {
			return len(s.i16), false
		}
		i := sort.Search(len(s.i16), func(i int) bool { return int64(s.i16[i]) >= v })
		return i, i < len(s.i16) && int64(s.i16[i]) == v
	case Width32:
		if v < -2147483648 || v > 2147483647 {
			return len(s.i32), false
		}
		i := sort.Search(len(s.i32), func(i int) bool { return int64(s.i32[i]) >= v })
		return i, i < len(s.i32) && int64(s.i32[i]) == v
	default:
		i := sort.Search(len(s.i64), func(i int) bool { return s.i64[i] >= v })
		return i, i < len(s.i64) && s.i64[i] == v
	}
}

// Insert adds v, returning whether it was newly added.
func (s *Set) Insert(v int64) bool {
	need := widthFor(v)
	if need > s.width {
		s.upgrade(need)
	}
	i, found := s.search(v)
	if found {
		return false
	}
	switch s.width {
	case Width16:
		s.i16 = append(s.i16, 0)
		copy(s.i16[i+1:], s.i16[i:])
		s.i16[i] = int16(v)
	case Width32:
		s.i32 = append(s.i32, 0)
		copy(s.i32[i+1:], s.i32[i:])
		s.i32[i] = int32(v)
	default:
		s.i64 = append(s.i64, 0)
		copy(s.i64[i+1:], s.i64[i:])
		s.i64[i] = v
	}
	return true
}

// Remove deletes v, returning whether it was present. Removal never
// demotes the set's width.
func (s *Set) Remove(v int64) bool {
	i, found := s.search(v)
	if !found {
		return false
	}
	switch s.width {
	case Width16:
		s.i16 = append(s.i16[:i], s.i16[i+1:]...)
	case Width32:
		s.i32 = append(s.i32[:i], s.i32[i+1:]...)
	default:
		s.i64 = append(s.i64[:i], s.i64[i+1:]...)
	}
	return true
}

// Get returns the i-th element in ascending order.
func (s *Set) Get(i int) int64 {
	switch s.width {
	case Width16:
		return int64(s.i16[i])
	case Width32:
		return int64(s.i32[i])
	default:
		return s.i64[i]
	}
}

// Random returns a uniformly random member, or ok=false if empty.
func (s *Set) Random() (int64, bool) {
	n := s.Len()
	if n == 0 {
		return 0, false
	}
	return s.Get(rand.IntN(n)), true
}

// Each calls visit for every element in ascending order.
func (s *Set) Each(visit func(int64)) {
	for i := 0; i < s.Len(); i++ {
		visit(s.Get(i))
	}
}
