package zset

import (
	"github.com/rpcpool/ramstore/dict"
	"github.com/rpcpool/ramstore/skiplist"
)

// large is the skip-list+hash-table representation of an ordered set used
// once a value crosses the promotion thresholds (spec §4.5, §3's "Ordered
// set value"). The hash table tracks each element's current score
// alongside the skip list; the two are always kept in lockstep so that
// property 7 (dual consistency) holds: every (element, score) pair in the
// skip list has exactly one matching hash-table entry and vice versa.
type large struct {
	sl *skiplist.List
	d  *dict.Dict[string, float64]
}

func elementDescriptor() dict.Descriptor[string, float64] {
	return dict.Descriptor[string, float64]{
		Hash:     dict.StringHash,
		KeyEqual: func(a, b string) bool { return a == b },
	}
}

func newLarge(rngSeed1, rngSeed2 uint64) *large {
	return &large{
		sl: skiplist.New(rngSeed1, rngSeed2),
		d:  dict.New(elementDescriptor()),
	}
}

// Add inserts or updates element with score, returning whether it was
// newly added (spec §4.5's "score update" rule: if the new score equals
// the old, nothing changes).
func (lg *large) Add(element string, score float64) bool {
	if old, ok := lg.d.Find(element); ok {
		if old == score {
			return false
		}
		lg.sl.Remove(old, element)
		lg.sl.Insert(score, element)
		lg.d.Replace(element, score)
		return false
	}
	lg.sl.Insert(score, element)
	lg.d.Insert(element, score)
	return true
}

// Remove deletes element, reporting whether it was present.
func (lg *large) Remove(element string) bool {
	score, ok := lg.d.Find(element)
	if !ok {
		return false
	}
	lg.sl.Remove(score, element)
	lg.d.Remove(element, false)
	return true
}

// Score returns element's score.
func (lg *large) Score(element string) (float64, bool) { return lg.d.Find(element) }

// Len returns the number of elements.
func (lg *large) Len() int { return lg.sl.Len() }

// Rank returns the 1-based rank of element, or 0 if absent.
func (lg *large) Rank(element string) int {
	score, ok := lg.d.Find(element)
	if !ok {
		return 0
	}
	return lg.sl.RankOf(score, element)
}

// Each calls visit for every (element, score) pair in ascending order.
func (lg *large) Each(visit func(element string, score float64)) {
	for n := lg.sl.First(); n != nil; n = nextNode(n) {
		visit(n.Element(), n.Score())
	}
}

// ElementByRank returns the (element, score) pair at the given 1-based
// rank, delegating to the skip list's O(log N) span-based lookup.
func (lg *large) ElementByRank(rank int) (Pair, bool) {
	n := lg.sl.ElementByRank(rank)
	if n == nil {
		return Pair{}, false
	}
	return Pair{n.Element(), n.Score()}, true
}

// RangeByScore returns every (element, score) pair with score in r, in
// ascending order, using the skip list's span-indexed FirstInScoreRange/
// LastInScoreRange instead of a linear scan.
func (lg *large) RangeByScore(r skiplist.ScoreRange) []Pair {
	first := lg.sl.FirstInScoreRange(r)
	if first == nil {
		return nil
	}
	last := lg.sl.LastInScoreRange(r)
	var out []Pair
	for n := first; n != nil; n = nextNode(n) {
		out = append(out, Pair{n.Element(), n.Score()})
		if n == last {
			break
		}
	}
	return out
}

// RangeByLex returns every (element, score) pair with element in r, in
// ascending order, using the skip list's FirstInLexRange/LastInLexRange.
func (lg *large) RangeByLex(r skiplist.LexRange) []Pair {
	first := lg.sl.FirstInLexRange(r)
	if first == nil {
		return nil
	}
	last := lg.sl.LastInLexRange(r)
	var out []Pair
	for n := first; n != nil; n = nextNode(n) {
		out = append(out, Pair{n.Element(), n.Score()})
		if n == last {
			break
		}
	}
	return out
}

// CountInScoreRange returns the number of elements with score in r,
// delegating to the skip list's rank-subtraction count.
func (lg *large) CountInScoreRange(r skiplist.ScoreRange) int {
	return lg.sl.CountInScoreRange(r)
}

// CountInLexRange returns the number of elements with element in r,
// delegating to the skip list's rank-subtraction count.
func (lg *large) CountInLexRange(r skiplist.LexRange) int {
	return lg.sl.CountInLexRange(r)
}

// RemoveRangeByScore removes every element with score in r, keeping the
// hash table in sync with the skip list, and returns the removed pairs.
func (lg *large) RemoveRangeByScore(r skiplist.ScoreRange) []Pair {
	removed := lg.sl.RemoveRangeByScore(r)
	return lg.syncRemoved(removed)
}

// RemoveRangeByLex removes every element with element in r, keeping the
// hash table in sync with the skip list, and returns the removed pairs.
func (lg *large) RemoveRangeByLex(r skiplist.LexRange) []Pair {
	removed := lg.sl.RemoveRangeByLex(r)
	return lg.syncRemoved(removed)
}

// RemoveRangeByRank removes elements ranked [start, end] inclusive,
// keeping the hash table in sync with the skip list, and returns the
// removed pairs.
func (lg *large) RemoveRangeByRank(start, end int) ([]Pair, error) {
	removed, err := lg.sl.RemoveRangeByRank(start, end)
	if err != nil {
		return nil, err
	}
	return lg.syncRemoved(removed), nil
}

func (lg *large) syncRemoved(removed []*skiplist.Node) []Pair {
	out := make([]Pair, len(removed))
	for i, n := range removed {
		lg.d.Remove(n.Element(), false)
		out[i] = Pair{n.Element(), n.Score()}
	}
	return out
}

// nextNode is a thin wrapper so large.Each doesn't reach into skiplist's
// unexported level array from outside its package; skiplist exposes First/
// Last plus Node.Forward/Backward for this purpose.
func nextNode(n *skiplist.Node) *skiplist.Node {
	return n.Forward()
}
