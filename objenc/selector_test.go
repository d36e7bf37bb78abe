package objenc

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPromotionByCount(t *testing.T) {
	s := New()
	require.Equal(t, Packed, s.Encoding())
	for i := 1; i <= 128; i++ {
		promoted := s.Observe(i, 8)
		require.False(t, promoted)
	}
	require.Equal(t, Packed, s.Encoding())

	promoted := s.Observe(129, 8)
	require.True(t, promoted)
	require.Equal(t, Large, s.Encoding())
}

func TestPromotionByValueSize(t *testing.T) {
	s := New()
	require.False(t, s.Observe(3, 64))
	require.True(t, s.Observe(3, 65))
	require.Equal(t, Large, s.Encoding())
}

func TestNeverDemotes(t *testing.T) {
	s := New()
	s.Observe(200, 8)
	require.Equal(t, Large, s.Encoding())
	require.False(t, s.Observe(1, 1))
	require.Equal(t, Large, s.Encoding())
}

func TestCustomThresholds(t *testing.T) {
	s := New(WithMaxEntriesPacked(4), WithMaxValuePacked(16))
	require.False(t, s.Observe(4, 8))
	require.True(t, s.Observe(5, 8))
}
