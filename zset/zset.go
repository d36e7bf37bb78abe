// Package zset implements the core's ordered-set value (spec §3 "Ordered
// set value", §4.5): a dual-representation container that starts as a
// packed list and promotes, one-way, to a skip-list-plus-hash-table pair
// once it outgrows the small-form thresholds (objenc.Selector).
package zset

import (
	"github.com/rpcpool/ramstore/objenc"
	"github.com/rpcpool/ramstore/skiplist"
)

// Pair is an (element, score) observation returned by range queries.
type Pair struct {
	Element string
	Score   float64
}

// ZSet is an ordered-set value.
type ZSet struct {
	sel          *objenc.Selector
	sm           *small
	lg           *large
	rngA, rngB   uint64
}

// New returns an empty ordered set in packed form, using the default
// random-level seed for its skip list if it is later promoted.
func New(opts ...objenc.Option) *ZSet {
	return &ZSet{sel: objenc.New(opts...), sm: newSmall(), rngA: 0x5eed5eed, rngB: 0xc0ffee}
}

// SetSkiplistSeed overrides the PRNG seed used for the skip list if/when
// this set promotes to large form. Must be called before the first Add
// that could trigger promotion to take effect deterministically.
func (z *ZSet) SetSkiplistSeed(a, b uint64) { z.rngA, z.rngB = a, b }

// Encoding reports the set's current representation.
func (z *ZSet) Encoding() objenc.Encoding { return z.sel.Encoding() }

// Length returns the number of elements.
func (z *ZSet) Length() int {
	if z.lg != nil {
		return z.lg.Len()
	}
	return z.sm.Len()
}

func (z *ZSet) promote() {
	lg := newLarge(z.rngA, z.rngB)
	z.sm.Each(func(e string, s float64) { lg.Add(e, s) })
	z.lg = lg
	z.sm = nil
}

// Add inserts or updates element with score, returning whether it was
// newly added (as opposed to an existing element's score being updated).
func (z *ZSet) Add(element string, score float64) bool {
	if z.lg != nil {
		return z.lg.Add(element, score)
	}
	added := z.sm.Add(element, score)
	if z.sel.Observe(z.sm.Len(), z.sm.MaxElementLen()) {
		z.promote()
	}
	return added
}

// Remove deletes element, reporting whether it was present.
func (z *ZSet) Remove(element string) bool {
	if z.lg != nil {
		return z.lg.Remove(element)
	}
	return z.sm.Remove(element)
}

// Score returns element's score.
func (z *ZSet) Score(element string) (float64, bool) {
	if z.lg != nil {
		return z.lg.Score(element)
	}
	return z.sm.Score(element)
}

// Rank returns the 1-based rank of element (ascending order unless reverse
// is set), or 0 if absent.
func (z *ZSet) Rank(element string, reverse bool) int {
	var rank int
	if z.lg != nil {
		rank = z.lg.Rank(element)
	} else {
		rank = z.sm.Rank(element)
	}
	if rank == 0 {
		return 0
	}
	if reverse {
		return z.Length() - rank + 1
	}
	return rank
}

// each calls visit for every (element, score) pair in ascending order,
// regardless of representation.
func (z *ZSet) each(visit func(string, float64)) {
	if z.lg != nil {
		z.lg.Each(visit)
		return
	}
	z.sm.Each(visit)
}

// RangeByRank returns elements ranked [start, end] inclusive, 1-based.
func (z *ZSet) RangeByRank(start, end int, reverse bool) []Pair {
	n := z.Length()
	if reverse {
		start, end = n-end+1, n-start+1
	}
	if start < 1 {
		start = 1
	}
	if end > n {
		end = n
	}
	if start > end {
		return nil
	}

	var out []Pair
	if z.lg != nil {
		out = make([]Pair, 0, end-start+1)
		for rank := start; rank <= end; rank++ {
			if p, ok := z.lg.ElementByRank(rank); ok {
				out = append(out, p)
			}
		}
	} else {
		i := 0
		z.each(func(e string, s float64) {
			i++
			if i >= start && i <= end {
				out = append(out, Pair{e, s})
			}
		})
	}

	if reverse {
		for l, r := 0, len(out)-1; l < r; l, r = l+1, r-1 {
			out[l], out[r] = out[r], out[l]
		}
	}
	return out
}

func scoreInRange(r skiplist.ScoreRange, score float64) bool {
	if r.MinExclusive {
		if !(score > r.Min) {
			return false
		}
	} else if !(score >= r.Min) {
		return false
	}
	if r.MaxExclusive {
		if !(score < r.Max) {
			return false
		}
	} else if !(score <= r.Max) {
		return false
	}
	return true
}

func lexInRange(r skiplist.LexRange, element string) bool {
	if !r.MinInf {
		if r.MinExclusive {
			if !(element > r.Min) {
				return false
			}
		} else if !(element >= r.Min) {
			return false
		}
	}
	if !r.MaxInf {
		if r.MaxExclusive {
			if !(element < r.Max) {
				return false
			}
		} else if !(element <= r.Max) {
			return false
		}
	}
	return true
}

// RangeByScore returns elements with score in r, after skipping offset
// matches and limiting to limit results (limit < 0 means unbounded). In
// large form this delegates to the skip list's span-indexed range lookup
// instead of scanning every element.
func (z *ZSet) RangeByScore(r skiplist.ScoreRange, offset, limit int, reverse bool) []Pair {
	var matched []Pair
	if z.lg != nil {
		matched = z.lg.RangeByScore(r)
	} else {
		z.sm.Each(func(e string, s float64) {
			if scoreInRange(r, s) {
				matched = append(matched, Pair{e, s})
			}
		})
	}
	return page(matched, offset, limit, reverse)
}

// RangeByLex returns elements with element in r, after skipping offset
// matches and limiting to limit results (limit < 0 means unbounded). In
// large form this delegates to the skip list's span-indexed range lookup
// instead of scanning every element.
func (z *ZSet) RangeByLex(r skiplist.LexRange, offset, limit int, reverse bool) []Pair {
	var matched []Pair
	if z.lg != nil {
		matched = z.lg.RangeByLex(r)
	} else {
		z.sm.Each(func(e string, s float64) {
			if lexInRange(r, e) {
				matched = append(matched, Pair{e, s})
			}
		})
	}
	return page(matched, offset, limit, reverse)
}

func page(matched []Pair, offset, limit int, reverse bool) []Pair {
	if reverse {
		for l, r := 0, len(matched)-1; l < r; l, r = l+1, r-1 {
			matched[l], matched[r] = matched[r], matched[l]
		}
	}
	if offset < 0 {
		offset = 0
	}
	if offset >= len(matched) {
		return nil
	}
	matched = matched[offset:]
	if limit >= 0 && limit < len(matched) {
		matched = matched[:limit]
	}
	return matched
}

// CountInScoreRange returns the number of elements with score in r. In
// large form this delegates to the skip list's rank-subtraction count
// instead of scanning every element.
func (z *ZSet) CountInScoreRange(r skiplist.ScoreRange) int {
	if z.lg != nil {
		return z.lg.CountInScoreRange(r)
	}
	n := 0
	z.sm.Each(func(_ string, s float64) {
		if scoreInRange(r, s) {
			n++
		}
	})
	return n
}

// CountInLexRange returns the number of elements with element in r. In
// large form this delegates to the skip list's rank-subtraction count
// instead of scanning every element.
func (z *ZSet) CountInLexRange(r skiplist.LexRange) int {
	if z.lg != nil {
		return z.lg.CountInLexRange(r)
	}
	n := 0
	z.sm.Each(func(e string, _ float64) {
		if lexInRange(r, e) {
			n++
		}
	})
	return n
}

// RemoveRangeByScore removes every element with score in r, returning the
// removed pairs. In large form this delegates to the skip list's range
// removal, keeping the hash table in sync; in packed form it falls back to
// a linear scan-and-remove.
func (z *ZSet) RemoveRangeByScore(r skiplist.ScoreRange) []Pair {
	if z.lg != nil {
		return z.lg.RemoveRangeByScore(r)
	}
	var matched []Pair
	z.sm.Each(func(e string, s float64) {
		if scoreInRange(r, s) {
			matched = append(matched, Pair{e, s})
		}
	})
	for _, p := range matched {
		z.sm.Remove(p.Element)
	}
	return matched
}

// RemoveRangeByLex removes every element with element in r, returning the
// removed pairs. In large form this delegates to the skip list's range
// removal, keeping the hash table in sync; in packed form it falls back to
// a linear scan-and-remove.
func (z *ZSet) RemoveRangeByLex(r skiplist.LexRange) []Pair {
	if z.lg != nil {
		return z.lg.RemoveRangeByLex(r)
	}
	var matched []Pair
	z.sm.Each(func(e string, s float64) {
		if lexInRange(r, e) {
			matched = append(matched, Pair{e, s})
		}
	})
	for _, p := range matched {
		z.sm.Remove(p.Element)
	}
	return matched
}

// RemoveRangeByRank removes elements ranked [start, end] inclusive,
// 1-based, returning the removed pairs. In large form this delegates to
// the skip list's rank-indexed range removal, keeping the hash table in
// sync.
func (z *ZSet) RemoveRangeByRank(start, end int) ([]Pair, error) {
	if z.lg != nil {
		return z.lg.RemoveRangeByRank(start, end)
	}
	if start < 1 || end < start {
		return nil, skiplist.ErrInvalidRange
	}
	matched := z.RangeByRank(start, end, false)
	for _, p := range matched {
		z.sm.Remove(p.Element)
	}
	return matched, nil
}
