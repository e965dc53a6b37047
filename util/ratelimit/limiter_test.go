package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMemory_Window(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	l := NewMemory(2, time.Minute)
	l.now = func() time.Time { return now }
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		ok, err := l.Allow(ctx, "10.0.0.1")
		require.NoError(t, err)
		require.True(t, ok)
	}
	ok, _ := l.Allow(ctx, "10.0.0.1")
	require.False(t, ok)

	// other keys are independent
	ok, _ = l.Allow(ctx, "10.0.0.2")
	require.True(t, ok)

	now = now.Add(61 * time.Second)
	ok, _ = l.Allow(ctx, "10.0.0.1")
	require.True(t, ok)
}

func TestMemory_Disabled(t *testing.T) {
	l := NewMemory(0, time.Minute)
	for i := 0; i < 5; i++ {
		ok, err := l.Allow(context.Background(), "k")
		require.NoError(t, err)
		require.True(t, ok)
	}

	ok, _ := NewMemory(1, time.Minute).Allow(context.Background(), "")
	require.True(t, ok)
}

func TestMemory_EvictsIdleKeys(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	l := NewMemory(5, time.Minute)
	l.now = func() time.Time { return now }
	ctx := context.Background()

	for _, ip := range []string{"10.0.0.1", "10.0.0.2", "10.0.0.3"} {
		_, err := l.Allow(ctx, ip)
		require.NoError(t, err)
	}
	require.Len(t, l.buckets, 3)

	now = now.Add(30 * time.Second)
	_, _ = l.Allow(ctx, "10.0.0.2")

	now = now.Add(45 * time.Second)
	_, _ = l.Allow(ctx, "10.0.0.9")

	// .1 and .3 went idle a full window ago, .2 was seen 45s back
	require.Len(t, l.buckets, 2)
	require.Contains(t, l.buckets, "10.0.0.2")
	require.Contains(t, l.buckets, "10.0.0.9")
}
