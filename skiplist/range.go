package skiplist

import "errors"

// ErrInvalidRange is returned by RemoveRangeByRank for malformed rank
// bounds (start < 1 or end < start), classified by the spec as "invalid
// input" rather than a programmer error (§7). Score and lex ranges with
// min > max are not errors: they simply match nothing.
var ErrInvalidRange = errors.New("skiplist: invalid range")

// ScoreRange describes an inclusive/exclusive bound on score.
type ScoreRange struct {
	Min, Max           float64
	MinExclusive       bool
	MaxExclusive       bool
}

func (r ScoreRange) minOK(score float64) bool {
	if r.MinExclusive {
		return score > r.Min
	}
	return score >= r.Min
}

func (r ScoreRange) maxOK(score float64) bool {
	if r.MaxExclusive {
		return score < r.Max
	}
	return score <= r.Max
}

// LexRange describes an inclusive/exclusive bound on element, byte-
// lexicographically. MinInf/MaxInf represent the spec's "-"/"+" sentinels.
type LexRange struct {
	Min, Max     string
	MinExclusive bool
	MaxExclusive bool
	MinInf       bool // Min is -infinity; Min/MinExclusive ignored
	MaxInf       bool // Max is +infinity; Max/MaxExclusive ignored
}

func (r LexRange) minOK(element string) bool {
	if r.MinInf {
		return true
	}
	if r.MinExclusive {
		return element > r.Min
	}
	return element >= r.Min
}

func (r LexRange) maxOK(element string) bool {
	if r.MaxInf {
		return true
	}
	if r.MaxExclusive {
		return element < r.Max
	}
	return element <= r.Max
}

// scoreRangeEmpty reports whether r cannot overlap the list at all, using
// the list's own bounds to short-circuit.
func (l *List) scoreRangeEmpty(r ScoreRange) bool {
	if r.Min > r.Max {
		return true
	}
	first := l.First()
	if first == nil {
		return true
	}
	if !r.maxOK(first.score) {
		return true
	}
	last := l.Last()
	if !r.minOK(last.score) {
		return true
	}
	return false
}

// FirstInScoreRange returns the first node whose score falls in r, or nil.
func (l *List) FirstInScoreRange(r ScoreRange) *Node {
	if l.scoreRangeEmpty(r) {
		return nil
	}
	x := l.header
	for i := l.maxLevel - 1; i >= 0; i-- {
		for x.levels[i].forward != nil && !r.minOK(x.levels[i].forward.score) {
			x = x.levels[i].forward
		}
	}
	x = x.levels[0].forward
	if x == nil || !r.maxOK(x.score) {
		return nil
	}
	return x
}

// LastInScoreRange returns the last node whose score falls in r, or nil.
func (l *List) LastInScoreRange(r ScoreRange) *Node {
	if l.scoreRangeEmpty(r) {
		return nil
	}
	x := l.header
	for i := l.maxLevel - 1; i >= 0; i-- {
		for x.levels[i].forward != nil && r.maxOK(x.levels[i].forward.score) {
			x = x.levels[i].forward
		}
	}
	if x == l.header || !r.minOK(x.score) {
		return nil
	}
	return x
}

func (l *List) lexRangeEmpty(r LexRange) bool {
	if !r.MinInf && !r.MaxInf && r.Min > r.Max {
		return true
	}
	first := l.First()
	if first == nil {
		return true
	}
	if !r.maxOK(first.element) {
		return true
	}
	last := l.Last()
	if !r.minOK(last.element) {
		return true
	}
	return false
}

// FirstInLexRange returns the first node whose element falls in r, or nil.
// Assumes the list is being used purely as a lex-ordered set (constant
// score), matching the ordered-set value's lex-range contract.
func (l *List) FirstInLexRange(r LexRange) *Node {
	if l.lexRangeEmpty(r) {
		return nil
	}
	x := l.header
	for i := l.maxLevel - 1; i >= 0; i-- {
		for x.levels[i].forward != nil && !r.minOK(x.levels[i].forward.element) {
			x = x.levels[i].forward
		}
	}
	x = x.levels[0].forward
	if x == nil || !r.maxOK(x.element) {
		return nil
	}
	return x
}

// LastInLexRange returns the last node whose element falls in r, or nil.
func (l *List) LastInLexRange(r LexRange) *Node {
	if l.lexRangeEmpty(r) {
		return nil
	}
	x := l.header
	for i := l.maxLevel - 1; i >= 0; i-- {
		for x.levels[i].forward != nil && r.maxOK(x.levels[i].forward.element) {
			x = x.levels[i].forward
		}
	}
	if x == l.header || !r.minOK(x.element) {
		return nil
	}
	return x
}

// RankOf returns the 1-based rank of (score, element), or 0 if absent.
func (l *List) RankOf(score float64, element string) int {
	rank := 0
	x := l.header
	for i := l.maxLevel - 1; i >= 0; i-- {
		for x.levels[i].forward != nil &&
			lessEq(x.levels[i].forward.score, x.levels[i].forward.element, score, element) {
			rank += x.levels[i].span
			x = x.levels[i].forward
		}
		if x != l.header && x.score == score && x.element == element {
			return rank
		}
	}
	return 0
}

// ElementByRank returns the node at the given 1-based rank, or nil if out of
// range.
func (l *List) ElementByRank(rank int) *Node {
	if rank < 1 || rank > l.length {
		return nil
	}
	traversed := 0
	x := l.header
	for i := l.maxLevel - 1; i >= 0; i-- {
		for x.levels[i].forward != nil && traversed+x.levels[i].span <= rank {
			traversed += x.levels[i].span
			x = x.levels[i].forward
		}
		if traversed == rank {
			return x
		}
	}
	return nil
}

// CountInScoreRange returns the number of elements with score in r.
func (l *List) CountInScoreRange(r ScoreRange) int {
	first := l.FirstInScoreRange(r)
	if first == nil {
		return 0
	}
	last := l.LastInScoreRange(r)
	return l.RankOf(last.score, last.element) - l.RankOf(first.score, first.element) + 1
}

// CountInLexRange returns the number of elements with element in r.
func (l *List) CountInLexRange(r LexRange) int {
	first := l.FirstInLexRange(r)
	if first == nil {
		return 0
	}
	last := l.LastInLexRange(r)
	return l.RankOf(last.score, last.element) - l.RankOf(first.score, first.element) + 1
}

// RemoveRangeByScore removes every node whose score falls in r, returning
// the removed nodes in ascending order.
func (l *List) RemoveRangeByScore(r ScoreRange) []*Node {
	return l.removeWhile(func(n *Node) bool {
		return r.minOK(n.score) && r.maxOK(n.score)
	})
}

// RemoveRangeByLex removes every node whose element falls in r, returning
// the removed nodes in ascending order.
func (l *List) RemoveRangeByLex(r LexRange) []*Node {
	return l.removeWhile(func(n *Node) bool {
		return r.minOK(n.element) && r.maxOK(n.element)
	})
}

// RemoveRangeByRank removes nodes ranked [start, end] inclusive, 1-based,
// returning them in ascending order.
func (l *List) RemoveRangeByRank(start, end int) ([]*Node, error) {
	if start < 1 || end < start {
		return nil, ErrInvalidRange
	}
	var removed []*Node
	var update [LMax]*Node
	traversed := 0
	x := l.header
	for i := l.maxLevel - 1; i >= 0; i-- {
		for x.levels[i].forward != nil && traversed+x.levels[i].span < start {
			traversed += x.levels[i].span
			x = x.levels[i].forward
		}
		update[i] = x
	}
	traversed++
	x = x.levels[0].forward
	for x != nil && traversed <= end {
		next := x.levels[0].forward
		l.deleteNode(x, update[:l.maxLevel])
		removed = append(removed, x)
		x = next
		traversed++
	}
	return removed, nil
}

// removeWhile deletes every node for which match returns true, rescanning
// from the head and recomputing the update array for each deletion (the
// simplest correct approach given a predicate that may span a contiguous
// or non-contiguous run).
func (l *List) removeWhile(match func(*Node) bool) []*Node {
	var removed []*Node
	for {
		update, found := l.updateArrayBefore(match)
		if found == nil {
			break
		}
		l.deleteNode(found, update[:l.maxLevel])
		removed = append(removed, found)
	}
	return removed
}

// updateArrayBefore performs a direct level-0 scan to find the first node
// satisfying match, and reconstructs the per-level update array preceding
// it by walking forward pointers from the header. O(N) per call, which is
// acceptable here since range predicates only ever match a contiguous
// score/lex run in practice and removeWhile is not used on the hot path.
func (l *List) updateArrayBefore(match func(*Node) bool) ([LMax]*Node, *Node) {
	var update [LMax]*Node
	frontier := make([]*Node, l.maxLevel)
	for i := range frontier {
		frontier[i] = l.header
	}
	x := l.header.levels[0].forward
	for x != nil {
		if match(x) {
			for i := 0; i < l.maxLevel; i++ {
				update[i] = frontier[i]
			}
			return update, x
		}
		for i := 0; i < len(x.levels); i++ {
			frontier[i] = x
		}
		x = x.levels[0].forward
	}
	return update, nil
}
