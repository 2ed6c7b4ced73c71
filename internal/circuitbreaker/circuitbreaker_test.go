package circuitbreaker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errUpstream = errors.New("notion: 502 bad gateway")

// newTestBreaker returns a breaker whose clock only moves through advance.
func newTestBreaker(cfg Config) (cb *CircuitBreaker, advance func(time.Duration)) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	var mu sync.Mutex
	cb = New(cfg)
	cb.now = func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return now
	}
	return cb, func(d time.Duration) {
		mu.Lock()
		defer mu.Unlock()
		now = now.Add(d)
	}
}

func fail(cb *CircuitBreaker) error {
	return cb.Execute(context.Background(), func() error { return errUpstream })
}

func succeed(cb *CircuitBreaker) error {
	return cb.Execute(context.Background(), func() error { return nil })
}

func TestCircuitBreaker_Transitions(t *testing.T) {
	tests := []struct {
		name      string
		steps     func(cb *CircuitBreaker, advance func(time.Duration))
		wantState State
	}{
		{
			name:      "stays closed below the failure threshold",
			steps:     func(cb *CircuitBreaker, _ func(time.Duration)) { _ = fail(cb) },
			wantState: StateClosed,
		},
		{
			name: "success resets consecutive failures",
			steps: func(cb *CircuitBreaker, _ func(time.Duration)) {
				_ = fail(cb)
				_ = succeed(cb)
				_ = fail(cb)
			},
			wantState: StateClosed,
		},
		{
			name: "opens at the failure threshold",
			steps: func(cb *CircuitBreaker, _ func(time.Duration)) {
				_ = fail(cb)
				_ = fail(cb)
			},
			wantState: StateOpen,
		},
		{
			name: "half-open after timeout until enough probes succeed",
			steps: func(cb *CircuitBreaker, advance func(time.Duration)) {
				_ = fail(cb)
				_ = fail(cb)
				advance(time.Minute)
				_ = succeed(cb)
			},
			wantState: StateHalfOpen,
		},
		{
			name: "closes after successful probes",
			steps: func(cb *CircuitBreaker, advance func(time.Duration)) {
				_ = fail(cb)
				_ = fail(cb)
				advance(time.Minute)
				_ = succeed(cb)
				_ = succeed(cb)
			},
			wantState: StateClosed,
		},
		{
			name: "failed probe reopens",
			steps: func(cb *CircuitBreaker, advance func(time.Duration)) {
				_ = fail(cb)
				_ = fail(cb)
				advance(time.Minute)
				_ = succeed(cb)
				_ = fail(cb)
			},
			wantState: StateOpen,
		},
		{
			name: "cancelled calls do not count",
			steps: func(cb *CircuitBreaker, _ func(time.Duration)) {
				for i := 0; i < 3; i++ {
					_ = cb.Execute(context.Background(), func() error {
						return context.Canceled
					})
				}
			},
			wantState: StateClosed,
		},
		{
			name: "upstream timeouts count",
			steps: func(cb *CircuitBreaker, _ func(time.Duration)) {
				for i := 0; i < 2; i++ {
					_ = cb.Execute(context.Background(), func() error {
						return context.DeadlineExceeded
					})
				}
			},
			wantState: StateOpen,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cb, advance := newTestBreaker(Config{
				FailureThreshold: 2,
				SuccessThreshold: 2,
				Timeout:          30 * time.Second,
				Name:             "notion",
			})

			tt.steps(cb, advance)

			assert.Equal(t, tt.wantState, cb.State())
		})
	}
}

func TestCircuitBreaker_OpenRejectsUntilTimeout(t *testing.T) {
	cb, advance := newTestBreaker(Config{FailureThreshold: 1, Timeout: 30 * time.Second})

	assert.ErrorIs(t, fail(cb), errUpstream)
	assert.True(t, cb.IsOpen())

	called := false
	err := cb.Execute(context.Background(), func() error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.False(t, called)

	advance(29 * time.Second)
	assert.ErrorIs(t, succeed(cb), ErrCircuitOpen)

	advance(time.Second)
	assert.NoError(t, succeed(cb))
}

func TestCircuitBreaker_HalfOpenAdmitsOneProbe(t *testing.T) {
	cb, advance := newTestBreaker(Config{FailureThreshold: 1, SuccessThreshold: 1, Timeout: time.Second})
	require.Error(t, fail(cb))
	advance(time.Second)

	inProbe := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- cb.Execute(context.Background(), func() error {
			close(inProbe)
			<-release
			return nil
		})
	}()

	<-inProbe
	assert.Equal(t, StateHalfOpen, cb.State())
	assert.ErrorIs(t, succeed(cb), ErrCircuitOpen, "second caller is rejected while probing")

	close(release)
	require.NoError(t, <-done)
	assert.Equal(t, StateClosed, cb.State())
}

func TestCircuitBreaker_Execute_ContextDone(t *testing.T) {
	cb := New(DefaultConfig())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := cb.Execute(ctx, func() error {
		called = true
		return nil
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
	assert.Zero(t, cb.GetStats().FailureCount)
}

func TestCircuitBreaker_CustomIsFailure(t *testing.T) {
	notFound := errors.New("not found")
	cb := New(Config{
		FailureThreshold: 1,
		IsFailure:        func(err error) bool { return !errors.Is(err, notFound) },
	})

	err := cb.Execute(context.Background(), func() error { return notFound })

	assert.ErrorIs(t, err, notFound)
	assert.Equal(t, StateClosed, cb.State())
}

func TestRun(t *testing.T) {
	cb := New(Config{FailureThreshold: 1, SuccessThreshold: 1, Timeout: time.Minute, Name: "run"})

	got, err := Run(context.Background(), cb, func() (int, error) {
		return 42, nil
	})
	assert.NoError(t, err)
	assert.Equal(t, 42, got)

	got, err = Run(context.Background(), cb, func() (int, error) {
		return 7, errUpstream
	})
	assert.ErrorIs(t, err, errUpstream)
	assert.Zero(t, got)

	_, err = Run(context.Background(), cb, func() (int, error) {
		return 1, nil
	})
	assert.ErrorIs(t, err, ErrCircuitOpen)
}

func TestCircuitBreaker_OnStateChange(t *testing.T) {
	var states []State
	cb, advance := newTestBreaker(Config{
		FailureThreshold: 1,
		SuccessThreshold: 1,
		Timeout:          time.Second,
		Name:             "observed",
		OnStateChange: func(name string, state State) {
			assert.Equal(t, "observed", name)
			states = append(states, state)
		},
	})

	_ = fail(cb)
	advance(time.Second)
	_ = succeed(cb)

	assert.Equal(t, []State{StateClosed, StateOpen, StateHalfOpen, StateClosed}, states)
}

func TestCircuitBreaker_GetStats(t *testing.T) {
	cb, _ := newTestBreaker(Config{FailureThreshold: 3, Name: "mongodb_refresh_events"})

	stats := cb.GetStats()
	assert.Equal(t, "mongodb_refresh_events", stats.Name)
	assert.Equal(t, "closed", stats.State)
	assert.True(t, stats.IsHealthy)
	assert.True(t, stats.LastFailure.IsZero())

	_ = fail(cb)

	stats = cb.GetStats()
	assert.Equal(t, 1, stats.FailureCount)
	assert.False(t, stats.LastFailure.IsZero())
}

func TestNew_AppliesDefaults(t *testing.T) {
	cb := New(Config{})
	defaults := DefaultConfig()

	assert.Equal(t, defaults.FailureThreshold, cb.config.FailureThreshold)
	assert.Equal(t, defaults.SuccessThreshold, cb.config.SuccessThreshold)
	assert.Equal(t, defaults.Timeout, cb.config.Timeout)
	assert.Equal(t, defaults.Name, cb.Name())
	assert.NotNil(t, cb.config.IsFailure)
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "closed", StateClosed.String())
	assert.Equal(t, "open", StateOpen.String())
	assert.Equal(t, "half-open", StateHalfOpen.String())
	assert.Equal(t, "unknown", State(9).String())
}
