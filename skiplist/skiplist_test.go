package skiplist

import (
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestOrdering exercises property 3: iterating level 0 yields elements in
// non-decreasing (score, lex-element) order.
func TestOrdering(t *testing.T) {
	l := New(1, 2)
	scores := []float64{5, 1, 3, 1, 2, 4}
	for i, s := range scores {
		l.Insert(s, fmt.Sprintf("e%d", i))
	}

	var prevScore float64 = -1e308
	var prevElt string
	for n := l.First(); n != nil; n = n.levels[0].forward {
		if n.score == prevScore {
			require.GreaterOrEqual(t, n.element, prevElt)
		} else {
			require.GreaterOrEqual(t, n.score, prevScore)
		}
		prevScore, prevElt = n.score, n.element
	}
}

// TestRankConsistency exercises property 4: element_by_rank(rank_of(e)) = e.
func TestRankConsistency(t *testing.T) {
	l := New(7, 9)
	for i := 0; i < 200; i++ {
		l.Insert(rand.New(rand.NewPCG(uint64(i), 1)).Float64()*100, fmt.Sprintf("e%03d", i))
	}
	for n := l.First(); n != nil; n = n.levels[0].forward {
		rank := l.RankOf(n.score, n.element)
		require.NotZero(t, rank)
		byRank := l.ElementByRank(rank)
		require.Equal(t, n, byRank)
	}
}

// TestScenarioS4 follows the spec's skip-list rank/range scenario.
func TestScenarioS4(t *testing.T) {
	l := New(3, 4)
	for _, i := range []int{1, 3, 5, 7, 9} {
		l.Insert(float64(i), fmt.Sprintf("e%d", i))
	}

	require.Equal(t, 3, l.RankOf(5, "e5"))

	first := l.FirstInScoreRange(ScoreRange{Min: 4, Max: 8})
	require.NotNil(t, first)
	require.Equal(t, "e5", first.element)

	last := l.LastInScoreRange(ScoreRange{Min: 4, Max: 8})
	require.NotNil(t, last)
	require.Equal(t, "e7", last.element)

	removed, err := l.RemoveRangeByRank(2, 4)
	require.NoError(t, err)
	require.Len(t, removed, 3)

	var remain []string
	for n := l.First(); n != nil; n = n.levels[0].forward {
		remain = append(remain, n.element)
	}
	require.Equal(t, []string{"e1", "e9"}, remain)
}

func TestRemoveAndLength(t *testing.T) {
	l := New(11, 22)
	l.Insert(1, "a")
	l.Insert(2, "b")
	require.Equal(t, 2, l.Len())
	require.True(t, l.Remove(1, "a"))
	require.Equal(t, 1, l.Len())
	require.False(t, l.Remove(1, "a"))
}

func TestLexRange(t *testing.T) {
	l := New(5, 6)
	for _, e := range []string{"a", "b", "c", "d", "e"} {
		l.Insert(0, e)
	}
	first := l.FirstInLexRange(LexRange{Min: "b", Max: "d"})
	require.Equal(t, "b", first.element)
	last := l.LastInLexRange(LexRange{Min: "b", Max: "d"})
	require.Equal(t, "d", last.element)

	count := l.CountInLexRange(LexRange{MinInf: true, MaxInf: true})
	require.Equal(t, 5, count)
}

func TestRandomLevelDistribution(t *testing.T) {
	l := New(42, 99)
	counts := make(map[int]int)
	const trials = 20000
	for i := 0; i < trials; i++ {
		counts[l.randomLevel()]++
	}
	// Level 1 should dominate (probability 1-P = 0.75).
	require.Greater(t, counts[1], trials/2)
}
