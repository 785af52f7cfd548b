package cache

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryGetMiss(t *testing.T) {
	m := NewMemory(clockwork.NewFakeClock(), 0)
	_, found, err := m.Get(context.Background(), "absent")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestMemorySetGet(t *testing.T) {
	m := NewMemory(clockwork.NewFakeClock(), 0)
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, "k", []byte("v"), time.Minute))

	got, found, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []byte("v"), got)
}

func TestMemoryExpiry(t *testing.T) {
	clock := clockwork.NewFakeClock()
	m := NewMemory(clock, 0)
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, "k", []byte("v"), time.Minute))

	clock.Advance(time.Minute)
	_, found, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Zero(t, m.Len())
}

func TestMemoryZeroTTLNotStored(t *testing.T) {
	m := NewMemory(clockwork.NewFakeClock(), 0)
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, "k", []byte("v"), 0))
	_, found, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestMemoryEvictsExpiredWhenFull(t *testing.T) {
	clock := clockwork.NewFakeClock()
	m := NewMemory(clock, 2)
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, "a", []byte("1"), time.Second))
	require.NoError(t, m.Set(ctx, "b", []byte("2"), time.Hour))

	clock.Advance(time.Minute)
	require.NoError(t, m.Set(ctx, "c", []byte("3"), time.Hour))

	assert.Equal(t, 2, m.Len())
	_, found, _ := m.Get(ctx, "b")
	assert.True(t, found)
	_, found, _ = m.Get(ctx, "c")
	assert.True(t, found)
}

func TestMemoryEvictsClosestToExpiryWhenFull(t *testing.T) {
	clock := clockwork.NewFakeClock()
	m := NewMemory(clock, 2)
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, "soon", []byte("1"), time.Minute))
	require.NoError(t, m.Set(ctx, "later", []byte("2"), time.Hour))
	require.NoError(t, m.Set(ctx, "new", []byte("3"), time.Hour))

	_, found, _ := m.Get(ctx, "soon")
	assert.False(t, found)
	_, found, _ = m.Get(ctx, "later")
	assert.True(t, found)
	_, found, _ = m.Get(ctx, "new")
	assert.True(t, found)
}

func TestMemoryOverwriteDoesNotEvict(t *testing.T) {
	clock := clockwork.NewFakeClock()
	m := NewMemory(clock, 2)
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, "a", []byte("1"), time.Hour))
	require.NoError(t, m.Set(ctx, "b", []byte("2"), time.Hour))
	require.NoError(t, m.Set(ctx, "a", []byte("updated"), time.Hour))

	assert.Equal(t, 2, m.Len())
	got, found, _ := m.Get(ctx, "a")
	assert.True(t, found)
	assert.Equal(t, []byte("updated"), got)
}

func TestMemoryConcurrentAccess(t *testing.T) {
	m := NewMemory(clockwork.NewFakeClock(), 128)
	ctx := context.Background()

	done := make(chan struct{})
	for i := 0; i < 8; i++ {
		go func(n int) {
			defer func() { done <- struct{}{} }()
			for j := 0; j < 100; j++ {
				key := fmt.Sprintf("k-%d-%d", n, j)
				_ = m.Set(ctx, key, []byte("v"), time.Minute)
				_, _, _ = m.Get(ctx, key)
			}
		}(i)
	}
	for i := 0; i < 8; i++ {
		<-done
	}
}
