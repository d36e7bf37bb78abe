package zset

import (
	"math"
	"sort"
	"strconv"

	"github.com/rpcpool/ramstore/intset"
	"github.com/tidwall/hashmap"
)

// AggregateFunc combines two scores contributed by the same element from
// different inputs (spec §4.5).
type AggregateFunc int

const (
	Sum AggregateFunc = iota
	Min
	Max
)

func (f AggregateFunc) combine(a, b float64) float64 {
	switch f {
	case Min:
		return math.Min(a, b)
	case Max:
		return math.Max(a, b)
	default:
		// sum(+Inf, -Inf) is defined to be 0 (§4.5), diverging from IEEE
		// 754's NaN result for that addition.
		if math.IsInf(a, 1) && math.IsInf(b, -1) || math.IsInf(a, -1) && math.IsInf(b, 1) {
			return 0
		}
		return a + b
	}
}

// Source is anything union_store/intersect_store can read elements and
// scores from: an ordered set, or a plain (integer) set with an implicit
// score of 1.
type Source interface {
	Each(visit func(element string, score float64))
	Len() int
}

// Len exposes the element count as a Source, so ZSet itself can be an
// aggregation input.
func (z *ZSet) Len() int { return z.Length() }

// Each exposes every (element, score) pair in ascending order, so ZSet
// satisfies Source.
func (z *ZSet) Each(visit func(element string, score float64)) { z.each(visit) }

// IntSetSource adapts an intset.Set (a plain integer-only set) into a
// Source with every member's implicit score fixed at 1, per §4.5's "plain
// set elements have an implicit score of 1".
type IntSetSource struct {
	Set *intset.Set
}

func (s IntSetSource) Each(visit func(element string, score float64)) {
	s.Set.Each(func(v int64) { visit(strconv.FormatInt(v, 10), 1) })
}

func (s IntSetSource) Len() int { return s.Set.Len() }

// Input is one weighted aggregation input.
type Input struct {
	Source Source
	Weight float64
}

func sortByCardinality(inputs []Input) []Input {
	sorted := make([]Input, len(inputs))
	copy(sorted, inputs)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Source.Len() < sorted[j].Source.Len() })
	return sorted
}

// UnionStore computes the weighted, aggregated union of inputs into a fresh
// ZSet. Per §4.5: accumulate into a hash table keyed by element, applying
// the aggregate function on each collision, then drain into the
// destination; compact back to packed form afterward if it fits.
func UnionStore(inputs []Input, agg AggregateFunc) *ZSet {
	sorted := sortByCardinality(inputs)

	acc := hashmap.New[string, float64](0)
	for _, in := range sorted {
		w := in.Weight
		in.Source.Each(func(element string, score float64) {
			weighted := score * w
			if prev, ok := acc.Get(element); ok {
				acc.Set(element, agg.combine(prev, weighted))
			} else {
				acc.Set(element, weighted)
			}
		})
	}

	dst := New()
	for _, element := range acc.Keys() {
		score, _ := acc.Get(element)
		dst.Add(element, score)
	}
	return dst
}

// IntersectStore computes the weighted, aggregated intersection of inputs
// into a fresh ZSet. Per §4.5: iterate the smallest input; for each
// element, probe every other input; if present in all, insert into the
// destination with the aggregated score.
func IntersectStore(inputs []Input, agg AggregateFunc) *ZSet {
	if len(inputs) == 0 {
		return New()
	}
	sorted := sortByCardinality(inputs)
	smallest := sorted[0]
	rest := sorted[1:]

	dst := New()
	smallest.Source.Each(func(element string, score float64) {
		acc := score * smallest.Weight
		for _, in := range rest {
			var matched bool
			var s float64
			scanSourceFor(in.Source, element, func(found float64) {
				s = found
				matched = true
			})
			if !matched {
				return
			}
			acc = agg.combine(acc, s*in.Weight)
		}
		dst.Add(element, acc)
	})
	return dst
}

// scanSourceFor probes src for element, calling found with its score if
// present. ZSet is probed with its own Score lookup (a hash-table probe in
// large form, a linear scan of the packed list in packed form); the generic
// Source interface falls back to a linear scan for other implementations.
func scanSourceFor(src Source, element string, found func(score float64)) {
	if z, ok := src.(*ZSet); ok {
		if score, ok := z.Score(element); ok {
			found(score)
		}
		return
	}
	src.Each(func(e string, score float64) {
		if e == element {
			found(score)
		}
	})
}
