package dict

// Iterator walks every key/value pair in a Dict. Next returns false once
// exhausted.
type Iterator[K any, V any] interface {
	Next() bool
	Key() K
	Value() V
	// Close releases any hold the iterator has on the dictionary's
	// ability to rehash. Safe to call more than once.
	Close()
}

type cursorState[K any, V any] struct {
	d         *Dict[K, V]
	tableIdx  int
	bucketIdx int
	entry     *entry[K, V]
	started   bool
}

func (c *cursorState[K, V]) advance() bool {
	for {
		if c.entry != nil {
			c.entry = c.entry.next
			if c.entry != nil {
				return true
			}
			c.bucketIdx++
		}
		for c.tableIdx < 2 {
			t := &c.d.tables[c.tableIdx]
			if t.buckets == nil {
				c.tableIdx++
				c.bucketIdx = 0
				continue
			}
			for c.bucketIdx < len(t.buckets) {
				if t.buckets[c.bucketIdx] != nil {
					c.entry = t.buckets[c.bucketIdx]
					return true
				}
				c.bucketIdx++
			}
			c.tableIdx++
			c.bucketIdx = 0
		}
		return false
	}
}

// SafeIterator holds the dictionary's rehash cursor fixed for its entire
// lifetime, making it safe to call any Dict method (Insert, Remove, Find)
// while iterating. Close must be called when done (or the dictionary will
// never rehash again).
type SafeIterator[K any, V any] struct {
	c      cursorState[K, V]
	closed bool
}

func newSafeIterator[K any, V any](d *Dict[K, V]) *SafeIterator[K, V] {
	d.iterators++
	return &SafeIterator[K, V]{c: cursorState[K, V]{d: d}}
}

func (it *SafeIterator[K, V]) Next() bool {
	if !it.c.started {
		it.c.started = true
		if it.c.d.tables[0].buckets == nil {
			return false
		}
	}
	return it.c.advance()
}

func (it *SafeIterator[K, V]) Key() K   { return it.c.entry.key }
func (it *SafeIterator[K, V]) Value() V { return it.c.entry.val }

func (it *SafeIterator[K, V]) Close() {
	if it.closed {
		return
	}
	it.closed = true
	it.c.d.iterators--
}

// fingerprint summarizes the dictionary's structural state (table sizes,
// used counts, and the rehash cursor) into a single value that changes
// whenever a structural mutation could have invalidated in-flight chain
// pointers. It stands in for the source's pointer-address XOR fingerprint,
// which has no equivalent without the unsafe package; mix64 (hash.go) gives
// the same "cheap, well-distributed, changes on any component change"
// property without relying on pointer identity.
func (d *Dict[K, V]) fingerprint() uint64 {
	fp := mix64(uint64(len(d.tables[0].buckets)))
	fp ^= mix64(uint64(d.tables[0].used) + 1)
	fp ^= mix64(uint64(len(d.tables[1].buckets)) + 2)
	fp ^= mix64(uint64(d.tables[1].used) + 3)
	fp ^= mix64(uint64(d.rehashIdx+1) + 4)
	fp ^= mix64(d.mutations + 5)
	return fp
}

// UnsafeIterator does not inhibit rehashing and allows the caller to use
// SetValue (but not Insert/Remove) during iteration. Any structural mutation of
// the dictionary between calls to Next causes the next call to Next to
// panic with ErrIteratorInvalidated, per the spec's error taxonomy
// classifying iterator misuse as a fatal programmer error (§7).
type UnsafeIterator[K any, V any] struct {
	c  cursorState[K, V]
	fp uint64
}

func newUnsafeIterator[K any, V any](d *Dict[K, V]) *UnsafeIterator[K, V] {
	return &UnsafeIterator[K, V]{c: cursorState[K, V]{d: d}, fp: d.fingerprint()}
}

func (it *UnsafeIterator[K, V]) Next() bool {
	if it.c.started {
		if it.c.d.fingerprint() != it.fp {
			panic(ErrIteratorInvalidated)
		}
	} else {
		it.c.started = true
		if it.c.d.tables[0].buckets == nil {
			return false
		}
	}
	ok := it.c.advance()
	it.fp = it.c.d.fingerprint()
	return ok
}

func (it *UnsafeIterator[K, V]) Key() K   { return it.c.entry.key }
func (it *UnsafeIterator[K, V]) Value() V { return it.c.entry.val }

// SetValue overwrites the current entry's value in place. Valid only
// between a true-returning Next and the following call to Next.
func (it *UnsafeIterator[K, V]) SetValue(v V) { it.c.entry.val = v }

func (it *UnsafeIterator[K, V]) Close() {}

// Iterate returns a fresh iterator over the dictionary. A safe iterator
// inhibits rehashing for its lifetime and tolerates arbitrary mutation; an
// unsafe iterator is cheaper but panics if the dictionary is structurally
// mutated while it is in use.
func (d *Dict[K, V]) Iterate(safe bool) Iterator[K, V] {
	if safe {
		return newSafeIterator(d)
	}
	return newUnsafeIterator(d)
}
