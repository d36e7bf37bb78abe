// Package skiplist implements a probabilistic multi-level ordered list
// keyed by (score, element), with per-level forward spans for O(log N) rank
// queries and a level-0 backward chain for reverse traversal (spec §4.2).
package skiplist

import (
	"math"
	"math/rand/v2"

	logging "github.com/ipfs/go-log/v2"
)

var log = logging.Logger("skiplist")

// LMax is the maximum number of levels a node may occupy.
const LMax = 32

// P is the level-up probability: level k is chosen with probability
// P^(k-1) * (1-P).
const P = 0.25

type level struct {
	forward *Node
	span    int
}

// Node is one element of the skip list: a score, an owned element payload,
// a per-level forward/span array, and a level-0 backward pointer.
type Node struct {
	score    float64
	element  string
	levels   []level
	backward *Node
}

// Score returns the node's score.
func (n *Node) Score() float64 { return n.score }

// Element returns the node's element payload.
func (n *Node) Element() string { return n.element }

// Forward returns the next node in level-0 (ascending) order, or nil at the
// tail.
func (n *Node) Forward() *Node { return n.levels[0].forward }

// Backward returns the previous node in level-0 order, or nil at the head.
func (n *Node) Backward() *Node { return n.backward }

func newNode(level int, score float64, element string) *Node {
	return &Node{
		score:   score,
		element: element,
		levels:  make([]level, level),
	}
}

// List is a skip list: a header sentinel node carrying LMax levels, a tail
// pointer, the current maximum occupied level, and the element count.
type List struct {
	header   *Node
	tail     *Node
	maxLevel int
	length   int
	rng      *rand.Rand
}

// New creates an empty skip list. rngSeed seeds the level-assignment PRNG
// deterministically; pass two fixed values in tests to get a reproducible
// stream (spec §9: "a seeded PRNG with a documented stream makes tests
// deterministic").
func New(rngSeed1, rngSeed2 uint64) *List {
	h := newNode(LMax, 0, "")
	return &List{
		header:   h,
		maxLevel: 1,
		rng:      rand.New(rand.NewPCG(rngSeed1, rngSeed2)),
	}
}

// Len returns the number of elements in the list.
func (l *List) Len() int { return l.length }

// randomLevel draws a level in [1, LMax] with P(level=k) = P^(k-1)*(1-P).
func (l *List) randomLevel() int {
	lvl := 1
	for lvl < LMax && l.rng.Float64() < P {
		lvl++
	}
	return lvl
}

// less reports whether (scoreA, eltA) sorts strictly before (scoreB, eltB)
// under the list's canonical ordering: score first, then byte-lexicographic
// element comparison. NaN scores are rejected at the boundary (Insert),
// never reach here.
func less(scoreA float64, eltA string, scoreB float64, eltB string) bool {
	if scoreA != scoreB {
		return scoreA < scoreB
	}
	return eltA < eltB
}

// lessEq reports (scoreA, eltA) <= (scoreB, eltB).
func lessEq(scoreA float64, eltA string, scoreB float64, eltB string) bool {
	return !less(scoreB, eltB, scoreA, eltA)
}

// Insert adds (score, element) and returns the new node. Callers are
// responsible for ensuring (score, element) uniqueness where required; the
// ordered-set value checks its hash table before calling Insert.
func (l *List) Insert(score float64, element string) *Node {
	if math.IsNaN(score) {
		panic("skiplist: NaN score")
	}

	var update [LMax]*Node
	var rank [LMax]int

	x := l.header
	for i := l.maxLevel - 1; i >= 0; i-- {
		if i == l.maxLevel-1 {
			rank[i] = 0
		} else {
			rank[i] = rank[i+1]
		}
		for x.levels[i].forward != nil &&
			less(x.levels[i].forward.score, x.levels[i].forward.element, score, element) {
			rank[i] += x.levels[i].span
			x = x.levels[i].forward
		}
		update[i] = x
	}

	lvl := l.randomLevel()
	if lvl > l.maxLevel {
		for i := l.maxLevel; i < lvl; i++ {
			rank[i] = 0
			update[i] = l.header
			update[i].levels[i].span = l.length
		}
		l.maxLevel = lvl
	}

	node := newNode(lvl, score, element)
	for i := 0; i < lvl; i++ {
		node.levels[i].forward = update[i].levels[i].forward
		update[i].levels[i].forward = node
		node.levels[i].span = update[i].levels[i].span - (rank[0] - rank[i])
		update[i].levels[i].span = rank[0] - rank[i] + 1
	}

	for i := lvl; i < l.maxLevel; i++ {
		update[i].levels[i].span++
	}

	if update[0] == l.header {
		node.backward = nil
	} else {
		node.backward = update[0]
	}
	if node.levels[0].forward != nil {
		node.levels[0].forward.backward = node
	} else {
		l.tail = node
	}
	l.length++
	return node
}

// Remove deletes (score, element), reporting whether it was found.
func (l *List) Remove(score float64, element string) bool {
	var update [LMax]*Node
	x := l.header
	for i := l.maxLevel - 1; i >= 0; i-- {
		for x.levels[i].forward != nil &&
			less(x.levels[i].forward.score, x.levels[i].forward.element, score, element) {
			x = x.levels[i].forward
		}
		update[i] = x
	}
	x = x.levels[0].forward
	if x == nil || x.score != score || x.element != element {
		return false
	}
	l.deleteNode(x, update[:l.maxLevel])
	return true
}

// deleteNode splices x out of the list given the update array computed by a
// preceding search, fixing spans, the backward chain, and the list's
// maxLevel.
func (l *List) deleteNode(x *Node, update []*Node) {
	for i := 0; i < l.maxLevel; i++ {
		if update[i].levels[i].forward == x {
			update[i].levels[i].span += x.levels[i].span - 1
			update[i].levels[i].forward = x.levels[i].forward
		} else {
			update[i].levels[i].span--
		}
	}
	if x.levels[0].forward != nil {
		x.levels[0].forward.backward = x.backward
	} else {
		l.tail = x.backward
	}
	for l.maxLevel > 1 && l.header.levels[l.maxLevel-1].forward == nil {
		l.maxLevel--
	}
	l.length--
}

// First returns the first (lowest-ranked) node, or nil if empty.
func (l *List) First() *Node {
	if l.length == 0 {
		return nil
	}
	return l.header.levels[0].forward
}

// Last returns the last (highest-ranked) node, or nil if empty.
func (l *List) Last() *Node { return l.tail }
