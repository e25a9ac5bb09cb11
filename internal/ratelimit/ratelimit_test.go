package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestKeyedRateLimiter_Allow(t *testing.T) {
	tests := []struct {
		name     string
		burst    int
		calls    int
		wantPass int
	}{
		{name: "burst allows initial requests", burst: 3, calls: 3, wantPass: 3},
		{name: "exceeding burst blocks", burst: 2, calls: 5, wantPass: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rl := New(0.001, tt.burst, time.Minute)
			defer rl.Stop()

			passed := 0
			for range tt.calls {
				if rl.Allow("10.0.0.1") {
					passed++
				}
			}
			assert.Equal(t, tt.wantPass, passed)
		})
	}
}

func TestKeyedRateLimiter_IndependentKeys(t *testing.T) {
	rl := New(0.001, 1, time.Minute)
	defer rl.Stop()

	assert.True(t, rl.Allow("10.0.0.1"))
	assert.False(t, rl.Allow("10.0.0.1"))
	assert.True(t, rl.Allow("10.0.0.2"))
}

func TestKeyedRateLimiter_SweepEvictsIdleKeys(t *testing.T) {
	rl := New(0.001, 1, time.Minute)
	defer rl.Stop()

	clock := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return clock }

	rl.Allow("old")
	clock = clock.Add(45 * time.Second)
	rl.Allow("recent")
	clock = clock.Add(30 * time.Second)

	rl.Sweep()

	assert.Equal(t, 1, rl.Len())
	// An evicted key starts over with a full bucket.
	assert.True(t, rl.Allow("old"))
}

func TestKeyedRateLimiter_StopIsIdempotent(t *testing.T) {
	rl := New(1, 1, time.Minute)
	rl.Stop()
	assert.NotPanics(t, rl.Stop)
}
