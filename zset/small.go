package zset

import (
	"encoding/binary"
	"math"
	"strconv"

	"github.com/rpcpool/ramstore/packedlist"
)

// small is the packed-list-backed representation of an ordered set used
// while it stays under the promotion thresholds (spec §4.5: "small
// instances use the packed list"). Each logical (element, score) pair
// occupies two consecutive packed-list entries, kept in ascending
// (score, lex-element) order. The score is stored as its raw IEEE-754 bit
// pattern so packed-list's integer/string auto-detection never mistakes it
// for a small integer payload.
type small struct {
	pl *packedlist.List
}

func newSmall() *small {
	return &small{pl: packedlist.New()}
}

func encodeScore(score float64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, math.Float64bits(score))
	return b
}

func decodeScore(b []byte) float64 {
	return math.Float64frombits(binary.BigEndian.Uint64(b))
}

// pairAt returns the element and score stored at logical pair index i.
func (s *small) pairAt(i int) (element string, score float64) {
	ec, _ := s.pl.Index(i * 2)
	sc, _ := s.pl.Index(i*2 + 1)
	ev, _ := s.pl.Get(ec)
	sv, _ := s.pl.Get(sc)
	return string(valueBytes(ev)), decodeScore(valueBytes(sv))
}

// valueBytes renders a decoded packed-list value back to its original
// payload bytes. Scores are never stored as packed-list integers (see
// encodeScore), so the integer path here only applies to element payloads
// that happen to look like canonical integers, which packedlist.Get
// already reports as IsInt.
func valueBytes(v packedlist.Value) []byte {
	if v.IsInt {
		return []byte(strconv.FormatInt(v.Int, 10))
	}
	return v.Bytes
}

// Len returns the number of (element, score) pairs.
func (s *small) Len() int { return s.pl.Length() / 2 }

// find returns the 0-based pair index of element, or (-1, false).
func (s *small) find(element string) (int, bool) {
	for i := 0; i < s.Len(); i++ {
		e, _ := s.pairAt(i)
		if e == element {
			return i, true
		}
	}
	return -1, false
}

func less(scoreA float64, eltA string, scoreB float64, eltB string) bool {
	if scoreA != scoreB {
		return scoreA < scoreB
	}
	return eltA < eltB
}

// insertionIndex returns the pair index at which (score, element) must be
// inserted to keep ascending order.
func (s *small) insertionIndex(score float64, element string) int {
	n := s.Len()
	lo, hi := 0, n
	for lo < hi {
		mid := (lo + hi) / 2
		e, sc := s.pairAt(mid)
		if less(sc, e, score, element) {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo
}

// Add inserts or updates element with score, returning whether it was
// newly added.
func (s *small) Add(element string, score float64) bool {
	if i, ok := s.find(element); ok {
		_, old := s.pairAt(i)
		if old == score {
			return false
		}
		s.removeAt(i)
		idx := s.insertionIndex(score, element)
		s.insertAt(idx, element, score)
		return false
	}
	idx := s.insertionIndex(score, element)
	s.insertAt(idx, element, score)
	return true
}

func (s *small) insertAt(pairIdx int, element string, score float64) {
	s.pl.InsertAt(pairIdx*2, []byte(element))
	s.pl.InsertAt(pairIdx*2+1, encodeScore(score))
}

func (s *small) removeAt(pairIdx int) {
	c, _ := s.pl.Index(pairIdx * 2)
	s.pl.Delete(c)
	c, _ = s.pl.Index(pairIdx * 2)
	s.pl.Delete(c)
}

// Remove deletes element, reporting whether it was present.
func (s *small) Remove(element string) bool {
	i, ok := s.find(element)
	if !ok {
		return false
	}
	s.removeAt(i)
	return true
}

// Score returns element's score.
func (s *small) Score(element string) (float64, bool) {
	i, ok := s.find(element)
	if !ok {
		return 0, false
	}
	_, score := s.pairAt(i)
	return score, true
}

// Rank returns the 1-based rank of element, or 0 if absent.
func (s *small) Rank(element string) int {
	i, ok := s.find(element)
	if !ok {
		return 0
	}
	return i + 1
}

// Each calls visit for every pair in ascending order.
func (s *small) Each(visit func(element string, score float64)) {
	for i := 0; i < s.Len(); i++ {
		e, sc := s.pairAt(i)
		visit(e, sc)
	}
}

// MaxElementLen returns the longest element payload currently stored.
func (s *small) MaxElementLen() int {
	max := 0
	for i := 0; i < s.Len(); i++ {
		e, _ := s.pairAt(i)
		if len(e) > max {
			max = len(e)
		}
	}
	return max
}
