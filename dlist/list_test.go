package dlist

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPushPop(t *testing.T) {
	l := New(Callbacks[int]{})
	l.PushBack(1)
	l.PushBack(2)
	l.PushFront(0)
	require.Equal(t, 3, l.Len())

	v, ok := l.Front()
	require.True(t, ok)
	require.Equal(t, 0, v)

	v, ok = l.Back()
	require.True(t, ok)
	require.Equal(t, 2, v)

	var out []int
	l.Each(func(x int) { out = append(out, x) })
	require.Equal(t, []int{0, 1, 2}, out)
}

func TestRemoveWithFree(t *testing.T) {
	var freed []string
	l := New(Callbacks[string]{
		Free: func(s string) { freed = append(freed, s) },
	})
	l.PushBack("a")
	l.PushBack("b")
	l.PushBack("c")

	require.True(t, l.Remove("b"))
	require.Equal(t, []string{"b"}, freed)
	require.Equal(t, 2, l.Len())

	l.Clear()
	require.Equal(t, []string{"b", "a", "c"}, freed)
}

func TestFindWithCustomMatch(t *testing.T) {
	type item struct {
		id   int
		name string
	}
	l := New(Callbacks[item]{
		Match: func(a, b item) bool { return a.id == b.id },
	})
	l.PushBack(item{1, "x"})
	l.PushBack(item{2, "y"})

	found, ok := l.Find(item{id: 2})
	require.True(t, ok)
	require.Equal(t, "y", found.name)
}

func TestClone(t *testing.T) {
	l := New(Callbacks[int]{Dup: func(v int) int { return v * 10 }})
	l.PushBack(1)
	l.PushBack(2)
	clone := l.Clone()
	var out []int
	clone.Each(func(v int) { out = append(out, v) })
	require.Equal(t, []int{10, 20}, out)
}
