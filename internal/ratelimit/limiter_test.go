package ratelimit

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserLimiter_BurstThenRefill(t *testing.T) {
	l := New(1, 2, time.Minute)
	require.NotNil(t, l)
	now := time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)

	assert.True(t, l.Allow("u1", now))
	assert.True(t, l.Allow("u1", now))
	assert.False(t, l.Allow("u1", now))
	assert.True(t, l.Allow("u2", now), "buckets are per user")

	assert.True(t, l.Allow("u1", now.Add(time.Second)))
}

func TestUserLimiter_Disabled(t *testing.T) {
	l := New(0, 5, 0)
	assert.Nil(t, l)
	for i := 0; i < 100; i++ {
		assert.True(t, l.Allow("u", time.Now()))
	}
	assert.Equal(t, 0, l.Len())
}

func TestUserLimiter_BlankUserIsNotLimited(t *testing.T) {
	l := New(1, 1, time.Minute)
	now := time.Now()
	assert.True(t, l.Allow("  ", now))
	assert.True(t, l.Allow("", now))
	assert.Equal(t, 0, l.Len())
}

func TestUserLimiter_SweepsIdleUsers(t *testing.T) {
	l := New(100, 100, time.Minute)
	start := time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)
	for i := 0; i < sweepEvery-1; i++ {
		l.Allow(fmt.Sprintf("old-%d", i), start)
	}
	require.Equal(t, sweepEvery-1, l.Len())

	l.Allow("fresh", start.Add(2*time.Minute))
	assert.Equal(t, 1, l.Len())
}
