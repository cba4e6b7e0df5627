package clients

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock is a settable time source for breaker tests.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.now = c.now.Add(d)
}

func newTestBreaker(maxFailures, halfOpenLimit int) (*CircuitBreaker, *fakeClock) {
	clock := newFakeClock()

	return NewCircuitBreaker(CircuitBreakerConfig{
		MaxFailures:   maxFailures,
		Timeout:       30 * time.Second,
		HalfOpenLimit: halfOpenLimit,
		Now:           clock.Now,
	}), clock
}

// trip records failures until the breaker opens.
func trip(t *testing.T, cb *CircuitBreaker) {
	t.Helper()

	for cb.State() != StateOpen {
		require.True(t, cb.Allow())
		cb.RecordFailure()
	}
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "closed", StateClosed.String())
	assert.Equal(t, "open", StateOpen.String())
	assert.Equal(t, "half-open", StateHalfOpen.String())
	assert.Equal(t, "unknown", State(42).String())
	assert.Equal(t, "unknown", State(-1).String())
}

func TestCircuitBreaker_OpensAfterConsecutiveFailures(t *testing.T) {
	cb, _ := newTestBreaker(3, 1)

	for i := range 2 {
		require.True(t, cb.Allow())
		cb.RecordFailure()
		assert.Equal(t, StateClosed, cb.State(), "failure %d", i+1)
	}

	require.True(t, cb.Allow())
	cb.RecordFailure()

	assert.Equal(t, StateOpen, cb.State())
	assert.False(t, cb.Allow())
}

func TestCircuitBreaker_SuccessResetsFailureCount(t *testing.T) {
	cb, _ := newTestBreaker(2, 1)

	cb.RecordFailure()
	cb.RecordSuccess()
	cb.RecordFailure()

	assert.Equal(t, StateClosed, cb.State())
}

func TestCircuitBreaker_StaysOpenUntilCoolDown(t *testing.T) {
	cb, clock := newTestBreaker(1, 1)
	trip(t, cb)

	clock.Advance(29 * time.Second)
	assert.False(t, cb.Allow())
	assert.Equal(t, StateOpen, cb.State())

	clock.Advance(time.Second)
	assert.True(t, cb.Allow())
	assert.Equal(t, StateHalfOpen, cb.State())
}

func TestCircuitBreaker_HalfOpenLimitsProbes(t *testing.T) {
	cb, clock := newTestBreaker(1, 2)
	trip(t, cb)
	clock.Advance(30 * time.Second)

	assert.True(t, cb.Allow(), "first probe")
	assert.True(t, cb.Allow(), "second probe")
	assert.False(t, cb.Allow(), "probe limit reached")

	cb.RecordSuccess()
	assert.Equal(t, StateHalfOpen, cb.State())
	assert.True(t, cb.Allow(), "a finished probe frees a slot")
}

func TestCircuitBreaker_HalfOpenClosesAfterEnoughSuccesses(t *testing.T) {
	cb, clock := newTestBreaker(1, 2)
	trip(t, cb)
	clock.Advance(30 * time.Second)

	require.True(t, cb.Allow())
	cb.RecordSuccess()
	assert.Equal(t, StateHalfOpen, cb.State())

	require.True(t, cb.Allow())
	cb.RecordSuccess()
	assert.Equal(t, StateClosed, cb.State())
}

func TestCircuitBreaker_HalfOpenFailureReopens(t *testing.T) {
	cb, clock := newTestBreaker(1, 2)
	trip(t, cb)
	clock.Advance(30 * time.Second)

	require.True(t, cb.Allow())
	cb.RecordFailure()

	assert.Equal(t, StateOpen, cb.State())

	clock.Advance(29 * time.Second)
	assert.False(t, cb.Allow(), "cool-down restarts from the reopening")
}

func TestCircuitBreaker_AbandonReleasesProbe(t *testing.T) {
	cb, clock := newTestBreaker(1, 1)
	trip(t, cb)
	clock.Advance(30 * time.Second)

	require.True(t, cb.Allow())
	assert.False(t, cb.Allow())

	cb.Abandon()

	assert.Equal(t, StateHalfOpen, cb.State())
	assert.True(t, cb.Allow())
}

func TestCircuitBreaker_AbandonWhileClosedCountsNothing(t *testing.T) {
	cb, _ := newTestBreaker(1, 1)

	require.True(t, cb.Allow())
	cb.Abandon()

	assert.Equal(t, StateClosed, cb.State())
}

func TestCircuitBreaker_NonPositiveLimits(t *testing.T) {
	cb, clock := newTestBreaker(0, 0)

	require.True(t, cb.Allow())
	cb.RecordFailure()
	require.Equal(t, StateOpen, cb.State())

	clock.Advance(30 * time.Second)
	require.True(t, cb.Allow())
	cb.RecordSuccess()

	assert.Equal(t, StateClosed, cb.State())
}

func TestCircuitBreaker_OnStateChange(t *testing.T) {
	cb, clock := newTestBreaker(1, 1)

	type transition struct{ from, to State }

	var got []transition

	cb.OnStateChange(func(from, to State) {
		// Runs outside the lock, so reading state must not deadlock.
		_ = cb.State()
		got = append(got, transition{from, to})
	})

	require.True(t, cb.Allow())
	cb.RecordFailure()
	clock.Advance(30 * time.Second)
	require.True(t, cb.Allow())
	cb.RecordSuccess()

	assert.Equal(t, []transition{
		{StateClosed, StateOpen},
		{StateOpen, StateHalfOpen},
		{StateHalfOpen, StateClosed},
	}, got)
}

func TestCircuitBreaker_ConcurrentUse(t *testing.T) {
	cb, clock := newTestBreaker(5, 3)

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			if !cb.Allow() {
				return
			}

			if i%2 == 0 {
				cb.RecordFailure()
			} else {
				cb.RecordSuccess()
			}
		}()
	}

	wg.Wait()

	clock.Advance(time.Minute)
	cb.Allow()

	assert.Contains(t, []State{StateClosed, StateOpen, StateHalfOpen}, cb.State())
}
