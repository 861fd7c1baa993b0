package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_SetGet(t *testing.T) {
	s := NewMemoryStore(0)

	s.Set("95814-forecast", "sunny", time.Minute)

	v, ok := s.Get("95814-forecast")
	require.True(t, ok)
	assert.Equal(t, "sunny", v)

	_, ok = s.Get("10001-forecast")
	assert.False(t, ok)
	assert.Equal(t, 1, s.Len())
}

func TestMemoryStore_Expiration(t *testing.T) {
	s := NewMemoryStore(0)

	s.Set("short", 1, 20*time.Millisecond)
	s.Set("forever", 2, 0)

	exp, ok := s.Expiration("short")
	require.True(t, ok)
	assert.WithinDuration(t, time.Now().Add(20*time.Millisecond), exp, time.Second)

	exp, ok = s.Expiration("forever")
	require.True(t, ok)
	assert.True(t, exp.IsZero())

	assert.Eventually(t, func() bool {
		_, ok := s.Get("short")
		return !ok
	}, time.Second, 5*time.Millisecond)

	_, ok = s.Expiration("short")
	assert.False(t, ok)
	_, ok = s.Get("forever")
	assert.True(t, ok)
}

func TestMemoryStore_Overwrite(t *testing.T) {
	s := NewMemoryStore(0)

	s.Set("k", "old", time.Minute)
	s.Set("k", "new", time.Hour)

	v, _ := s.Get("k")
	assert.Equal(t, "new", v)
	exp, _ := s.Expiration("k")
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, time.Second)
}

func TestMemoryStore_LenCountsUnpurgedEntries(t *testing.T) {
	s := NewMemoryStore(0)
	s.Set("a", 1, time.Millisecond)
	s.Set("b", 2, time.Minute)

	time.Sleep(5 * time.Millisecond)

	_, ok := s.Get("a")
	assert.False(t, ok)
	assert.Equal(t, 2, s.Len())
}

func TestMemoryStore_JanitorPurgesExpired(t *testing.T) {
	s := NewMemoryStore(5 * time.Millisecond)
	s.Set("a", 1, time.Millisecond)
	s.Set("b", 2, time.Minute)

	assert.Eventually(t, func() bool {
		return s.Len() == 1
	}, time.Second, 5*time.Millisecond)
}
