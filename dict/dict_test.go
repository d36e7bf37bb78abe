package dict

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func stringDescriptor() Descriptor[string, int] {
	return Descriptor[string, int]{
		Hash:     StringHash,
		KeyEqual: func(a, b string) bool { return a == b },
	}
}

// TestRoundTrip exercises property 1: after insert(k, v), find(k) = v until
// remove(k); after remove(k), find(k) = nil.
func TestRoundTrip(t *testing.T) {
	d := New(stringDescriptor())

	require.NoError(t, d.Insert("a", 1))
	v, ok := d.Find("a")
	require.True(t, ok)
	require.Equal(t, 1, v)

	require.ErrorIs(t, d.Insert("a", 2), ErrKeyExists)

	require.True(t, d.Remove("a", false))
	_, ok = d.Find("a")
	require.False(t, ok)
	require.False(t, d.Remove("a", false))
}

// TestScenarioS1 follows the spec's end-to-end rehash-under-load scenario.
func TestScenarioS1(t *testing.T) {
	d := New(stringDescriptor())
	const n = 10000

	for i := 1; i <= n; i++ {
		key := fmt.Sprintf("k%d", i)
		require.NoError(t, d.Insert(key, i))
		require.Equal(t, i, d.tables[0].used+d.tables[1].used)
	}

	v, ok := d.Find("k7777")
	require.True(t, ok)
	require.Equal(t, 7777, v)

	_, _, ok = d.RandomEntry()
	require.True(t, ok)

	seen := make(map[string]bool, n)
	it := d.Iterate(true)
	defer it.Close()
	for it.Next() {
		seen[it.Key()] = true
	}
	require.Len(t, seen, n)
}

// TestIncrementalRehashPreservesContents exercises property 2: interleaving
// single rehash steps with insert/remove/find never changes the present-key
// multiset.
func TestIncrementalRehashPreservesContents(t *testing.T) {
	d := New(stringDescriptor())

	present := map[string]int{}
	for i := 0; i < 2000; i++ {
		key := fmt.Sprintf("key-%d", i)
		require.NoError(t, d.Insert(key, i))
		present[key] = i

		d.RehashStep()

		if i%7 == 0 && i > 0 {
			del := fmt.Sprintf("key-%d", i-1)
			if _, ok := present[del]; ok {
				require.True(t, d.Remove(del, false))
				delete(present, del)
			}
		}
	}

	for k, want := range present {
		got, ok := d.Find(k)
		require.True(t, ok)
		require.Equal(t, want, got)
	}
	require.Equal(t, len(present), d.Len())
}

func TestReplace(t *testing.T) {
	d := New(stringDescriptor())

	fresh := d.Replace("x", 1)
	require.True(t, fresh)
	fresh = d.Replace("x", 2)
	require.False(t, fresh)
	v, ok := d.Find("x")
	require.True(t, ok)
	require.Equal(t, 2, v)
}

func TestUnsafeIteratorPanicsOnMutation(t *testing.T) {
	d := New(stringDescriptor())
	require.NoError(t, d.Insert("a", 1))
	require.NoError(t, d.Insert("b", 2))

	it := d.Iterate(false)
	require.True(t, it.Next())

	require.NoError(t, d.Insert("c", 3))

	require.Panics(t, func() {
		it.Next()
	})
}

// TestRehashMillisecondsDrivesToCompletion checks the time-bounded rehash
// variant: given a generous budget it runs every remaining step and leaves
// the dict no longer rehashing, and it is a no-op when nothing is rehashing.
func TestRehashMillisecondsDrivesToCompletion(t *testing.T) {
	d := New(stringDescriptor())
	for i := 0; i < 500; i++ {
		require.NoError(t, d.Insert(fmt.Sprintf("k%d", i), i))
	}
	require.Equal(t, 0, d.RehashMilliseconds(50*time.Millisecond))

	d.beginRehashTo(1024)
	require.True(t, d.isRehashing())

	processed := d.RehashMilliseconds(time.Second)
	require.Greater(t, processed, 0)
	require.False(t, d.isRehashing())

	for i := 0; i < 500; i++ {
		v, ok := d.Find(fmt.Sprintf("k%d", i))
		require.True(t, ok)
		require.Equal(t, i, v)
	}
}

func TestSafeIteratorInhibitsRehash(t *testing.T) {
	d := New(stringDescriptor())
	for i := 0; i < 100; i++ {
		require.NoError(t, d.Insert(fmt.Sprintf("k%d", i), i))
	}
	d.beginRehashTo(256)
	require.True(t, d.isRehashing())

	it := d.Iterate(true)
	require.False(t, d.rehashStep())
	it.Close()
	require.True(t, d.rehashStep() || !d.isRehashing())
}
