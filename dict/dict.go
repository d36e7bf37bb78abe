// Package dict implements the core's incrementally-rehashed chained hash
// table (spec §4.1): two tables, a rehash cursor, an active-iterator count,
// and a caller-supplied type descriptor in place of the source's
// function-pointer table, per the "parameterization over the element type
// plus a capability bundle" design note (spec §9).
package dict

import (
	"math/rand/v2"

	logging "github.com/ipfs/go-log/v2"
)

var log = logging.Logger("dict")

// Descriptor bundles the per-instance capability functions the source's
// dictType function-pointer table carried: hashing, key equality, and
// optional duplication/destruction hooks for keys and values.
type Descriptor[K any, V any] struct {
	// Hash computes the hash of a key. Required.
	Hash func(key K) uint64
	// KeyEqual reports whether two keys are equal. Required.
	KeyEqual func(a, b K) bool
	// KeyDup, if set, is used to take ownership of a copy of an inserted
	// key. If nil, keys are stored as given.
	KeyDup func(K) K
	// ValDup, if set, is used to take ownership of a copy of an inserted
	// value. If nil, values are stored as given.
	ValDup func(V) V
	// KeyDestroy, if set, is invoked on a key that leaves the dictionary
	// (Remove with freePayload=true, Clear).
	KeyDestroy func(K)
	// ValDestroy, if set, is invoked on a value that leaves the
	// dictionary, or that is overwritten by Replace.
	ValDestroy func(V)
}

// Dict is a generic chained hash table with incremental rehashing.
type Dict[K any, V any] struct {
	desc      Descriptor[K, V]
	tables    [2]hashTable[K, V]
	rehashIdx int // -1 = not rehashing
	iterators int
	mutations uint64

	// resizeEnabled and hardLoad are per-instance so tests can exercise
	// both the "cooperative with a COW fork" disabled path and the
	// forced-expansion path without mutating shared package state;
	// production callers that want the spec's literal process-wide
	// toggle should share one *Dict-level setting across all dicts they
	// own, or call SetGlobalResizeEnabled (below) before constructing
	// any Dict that should observe it.
	resizeEnabled bool
	hardLoad      int
}

// globalResizeEnabled and globalHardLoad back the spec's process-wide
// resize-enabled flag and HASH_LOAD_HARD tunable (§5, §6); New seeds each
// Dict's instance fields from these at construction time.
var (
	globalResizeEnabled = true
	globalHardLoad      = 5
)

// SetGlobalResizeEnabled sets the process-wide default for newly-created
// dictionaries. Existing dictionaries are unaffected; call before
// constructing dictionaries that should observe the new default.
func SetGlobalResizeEnabled(enabled bool) { globalResizeEnabled = enabled }

// SetGlobalHardLoadFactor sets the process-wide default forced-expansion
// load ratio (HASH_LOAD_HARD) for newly-created dictionaries.
func SetGlobalHardLoadFactor(ratio int) { globalHardLoad = ratio }

// New creates an empty dictionary. Both internal tables start zero-sized;
// the first table is allocated lazily on first insertion.
func New[K any, V any](desc Descriptor[K, V]) *Dict[K, V] {
	return &Dict[K, V]{
		desc:          desc,
		rehashIdx:     -1,
		resizeEnabled: globalResizeEnabled,
		hardLoad:      globalHardLoad,
	}
}

// SetResizeEnabled overrides this dictionary's resize-enabled toggle,
// independent of the process-wide default.
func (d *Dict[K, V]) SetResizeEnabled(enabled bool) { d.resizeEnabled = enabled }

// SetHardLoadFactor overrides this dictionary's forced-expansion ratio.
func (d *Dict[K, V]) SetHardLoadFactor(ratio int) { d.hardLoad = ratio }

// Len returns the total number of entries across both tables.
func (d *Dict[K, V]) Len() int {
	return d.tables[0].used + d.tables[1].used
}

func (d *Dict[K, V]) isRehashing() bool { return d.rehashIdx != -1 }

func (d *Dict[K, V]) dupKey(k K) K {
	if d.desc.KeyDup != nil {
		return d.desc.KeyDup(k)
	}
	return k
}

func (d *Dict[K, V]) dupVal(v V) V {
	if d.desc.ValDup != nil {
		return d.desc.ValDup(v)
	}
	return v
}

// cooperativeRehash piggy-backs a single rehash step onto a lookup/insert/
// delete, unless a safe iterator currently holds the dictionary's structure
// fixed (§4.1).
func (d *Dict[K, V]) cooperativeRehash() {
	if d.iterators == 0 {
		d.rehashStep()
	}
}

// activeTable returns the table new entries should be inserted into: the
// secondary table while rehashing is in progress, otherwise the primary.
func (d *Dict[K, V]) activeTable() *hashTable[K, V] {
	if d.isRehashing() {
		return &d.tables[1]
	}
	return &d.tables[0]
}

func (d *Dict[K, V]) findEntry(key K) *entry[K, V] {
	if d.tables[0].buckets == nil {
		return nil
	}
	h := d.desc.Hash(key)
	for i := 0; i < 2; i++ {
		t := &d.tables[i]
		if t.buckets == nil {
			break
		}
		idx := h & t.mask
		for e := t.buckets[idx]; e != nil; e = e.next {
			if d.desc.KeyEqual(e.key, key) {
				return e
			}
		}
		if !d.isRehashing() {
			break
		}
	}
	return nil
}

// Find reports whether key is present, and its value if so. A single
// cooperative rehash step is taken first.
func (d *Dict[K, V]) Find(key K) (V, bool) {
	var zero V
	if d.tables[0].buckets == nil {
		return zero, false
	}
	d.cooperativeRehash()
	if e := d.findEntry(key); e != nil {
		return e.val, true
	}
	return zero, false
}

// Handle is a reference to a freshly-inserted entry whose value has not yet
// been set, returned by InsertRaw so the caller can fill the value slot
// in-place without a second lookup (§4.1's insert_raw contract).
type Handle[K any, V any] struct {
	e *entry[K, V]
}

// Key returns the handle's key.
func (h Handle[K, V]) Key() K { return h.e.key }

// Value returns the handle's current value.
func (h Handle[K, V]) Value() V { return h.e.val }

// SetValue sets the handle's value.
func (h Handle[K, V]) SetValue(v V) { h.e.val = v }

// InsertRaw allocates a new entry for key with an unset value and returns a
// handle to it, or ok=false if key already exists.
func (d *Dict[K, V]) InsertRaw(key K) (h Handle[K, V], ok bool) {
	d.cooperativeRehash()
	d.expandIfNeeded()
	if e := d.findEntry(key); e != nil {
		return Handle[K, V]{}, false
	}
	t := d.activeTable()
	hv := d.desc.Hash(key)
	idx := hv & t.mask
	e := &entry[K, V]{key: d.dupKey(key)}
	e.next = t.buckets[idx]
	t.buckets[idx] = e
	t.used++
	d.mutations++
	return Handle[K, V]{e: e}, true
}

// Insert adds key -> value, failing with ErrKeyExists if key is already
// present.
func (d *Dict[K, V]) Insert(key K, val V) error {
	h, ok := d.InsertRaw(key)
	if !ok {
		return ErrKeyExists
	}
	h.SetValue(d.dupVal(val))
	return nil
}

// Replace inserts or overwrites key -> value, returning true if a new key
// was created (as opposed to an existing key's value being overwritten).
func (d *Dict[K, V]) Replace(key K, val V) bool {
	d.cooperativeRehash()
	d.expandIfNeeded()
	if e := d.findEntry(key); e != nil {
		if d.desc.ValDestroy != nil {
			d.desc.ValDestroy(e.val)
		}
		e.val = d.dupVal(val)
		return false
	}
	t := d.activeTable()
	hv := d.desc.Hash(key)
	idx := hv & t.mask
	e := &entry[K, V]{key: d.dupKey(key), val: d.dupVal(val)}
	e.next = t.buckets[idx]
	t.buckets[idx] = e
	t.used++
	d.mutations++
	return true
}

// Remove deletes key if present, returning whether it was found. If
// freePayload is true, the descriptor's KeyDestroy/ValDestroy hooks are
// invoked on the removed entry.
func (d *Dict[K, V]) Remove(key K, freePayload bool) bool {
	if d.tables[0].buckets == nil {
		return false
	}
	d.cooperativeRehash()
	h := d.desc.Hash(key)
	for i := 0; i < 2; i++ {
		t := &d.tables[i]
		if t.buckets == nil {
			break
		}
		idx := h & t.mask
		var prev *entry[K, V]
		for e := t.buckets[idx]; e != nil; e = e.next {
			if d.desc.KeyEqual(e.key, key) {
				if prev == nil {
					t.buckets[idx] = e.next
				} else {
					prev.next = e.next
				}
				t.used--
				d.mutations++
				if freePayload {
					if d.desc.KeyDestroy != nil {
						d.desc.KeyDestroy(e.key)
					}
					if d.desc.ValDestroy != nil {
						d.desc.ValDestroy(e.val)
					}
				}
				return true
			}
			prev = e
		}
		if !d.isRehashing() {
			break
		}
	}
	return false
}

func chainLen[K any, V any](e *entry[K, V]) int {
	n := 0
	for ; e != nil; e = e.next {
		n++
	}
	return n
}

// RandomEntry returns an approximately-uniform random entry, or ok=false if
// the dictionary is empty.
func (d *Dict[K, V]) RandomEntry() (k K, v V, ok bool) {
	if d.Len() == 0 {
		return k, v, false
	}
	d.cooperativeRehash()

	var t *hashTable[K, V]
	if d.isRehashing() && d.tables[1].used > 0 {
		if d.tables[0].used == 0 || rand.IntN(2) == 0 {
			t = &d.tables[1]
		} else {
			t = &d.tables[0]
		}
	} else {
		t = &d.tables[0]
	}
	if t.used == 0 {
		t = &d.tables[0]
	}

	var e *entry[K, V]
	for e == nil {
		idx := rand.IntN(len(t.buckets))
		e = t.buckets[idx]
	}
	steps := rand.IntN(chainLen(e))
	for i := 0; i < steps; i++ {
		e = e.next
	}
	return e.key, e.val, true
}

// expandIfNeeded applies the sizing policy (§4.1): allocate the initial
// table on first use, or begin an incremental rehash to a larger table when
// the load factor requires it.
func (d *Dict[K, V]) expandIfNeeded() {
	if d.isRehashing() {
		return
	}
	if d.tables[0].buckets == nil {
		d.tables[0] = newHashTable[K, V](dictInitialSize)
		return
	}
	used := d.tables[0].used
	size := len(d.tables[0].buckets)
	if used < size {
		return
	}
	ratio := float64(used) / float64(size)
	if !d.resizeEnabled && ratio <= float64(d.hardLoad) {
		return
	}
	d.beginRehashTo(uint64(used) * 2)
}

// Resize shrinks the table to the smallest power of two >= used (subject to
// dictInitialSize as a floor), per §4.1's resize contract.
func (d *Dict[K, V]) Resize() {
	if d.isRehashing() || d.tables[0].buckets == nil {
		return
	}
	target := nextPow2(uint64(d.tables[0].used))
	if target < dictInitialSize {
		target = dictInitialSize
	}
	if target == uint64(len(d.tables[0].buckets)) {
		return
	}
	d.beginRehashTo(target)
}

func (d *Dict[K, V]) beginRehashTo(minSize uint64) {
	newSize := nextPow2(minSize)
	if newSize < dictInitialSize {
		newSize = dictInitialSize
	}
	d.tables[1] = newHashTable[K, V](newSize)
	d.rehashIdx = 0
	log.Debugw("begin rehash", "from", len(d.tables[0].buckets), "to", newSize)
}

// rehashStep moves every entry in one primary bucket into the secondary
// table and advances the rehash cursor, skipping empty buckets. It returns
// false if no rehash is in progress or a safe iterator currently inhibits
// it.
func (d *Dict[K, V]) rehashStep() bool {
	if !d.isRehashing() {
		return false
	}
	if d.iterators > 0 {
		return false
	}
	src := &d.tables[0]
	for d.rehashIdx < len(src.buckets) && src.buckets[d.rehashIdx] == nil {
		d.rehashIdx++
	}
	if d.rehashIdx >= len(src.buckets) {
		d.finishRehash()
		return false
	}
	dst := &d.tables[1]
	e := src.buckets[d.rehashIdx]
	for e != nil {
		next := e.next
		idx := d.desc.Hash(e.key) & dst.mask
		e.next = dst.buckets[idx]
		dst.buckets[idx] = e
		src.used--
		dst.used++
		e = next
	}
	src.buckets[d.rehashIdx] = nil
	d.rehashIdx++
	d.mutations++
	if d.rehashIdx >= len(src.buckets) {
		d.finishRehash()
	}
	return true
}

func (d *Dict[K, V]) finishRehash() {
	d.tables[0] = d.tables[1]
	d.tables[1] = hashTable[K, V]{}
	d.rehashIdx = -1
	log.Debugw("rehash complete", "size", len(d.tables[0].buckets))
}

// RehashStep performs exactly one bucket's worth of incremental rehashing,
// reporting whether any work was done.
func (d *Dict[K, V]) RehashStep() bool {
	return d.rehashStep()
}
