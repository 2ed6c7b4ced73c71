// Package circuitbreaker protects the content source and the refresh journal
// from being called while they keep failing.
package circuitbreaker

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// ErrCircuitOpen is returned when the circuit breaker is open.
var ErrCircuitOpen = errors.New("circuit breaker is open")

// State represents the state of the circuit breaker.
type State int

const (
	// StateClosed lets every call through.
	StateClosed State = iota
	// StateOpen rejects calls until Timeout has passed since the last failure.
	StateOpen
	// StateHalfOpen lets one probe call through at a time.
	StateHalfOpen
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// Config holds circuit breaker configuration.
type Config struct {
	// FailureThreshold is the number of consecutive failures before opening the circuit.
	FailureThreshold int
	// SuccessThreshold is the number of consecutive successful probes needed to close it.
	SuccessThreshold int
	// Timeout is how long the circuit stays open before a probe is allowed.
	Timeout time.Duration
	// Name identifies the breaker in logs, metrics and readiness checks.
	Name string
	// IsFailure decides whether an error counts against the breaker.
	// The default ignores context.Canceled.
	IsFailure func(error) bool
	// OnStateChange, when set, is called with the new state after every transition.
	// It runs while the breaker lock is held and must not call back into the breaker.
	OnStateChange func(name string, state State)
}

// DefaultConfig returns a default circuit breaker configuration.
func DefaultConfig() Config {
	return Config{
		FailureThreshold: 5,
		SuccessThreshold: 2,
		Timeout:          30 * time.Second,
		Name:             "circuit-breaker",
		IsFailure:        countsAsFailure,
	}
}

// countsAsFailure treats every error except a cancelled call as a failure.
func countsAsFailure(err error) bool {
	return !errors.Is(err, context.Canceled)
}

// CircuitBreaker implements the circuit breaker pattern.
type CircuitBreaker struct {
	config          Config
	now             func() time.Time
	mu              sync.RWMutex
	state           State
	probing         bool
	failureCount    int
	successCount    int
	lastFailureTime time.Time
}

// New creates a circuit breaker. Zero fields fall back to DefaultConfig values.
func New(config Config) *CircuitBreaker {
	defaults := DefaultConfig()
	if config.FailureThreshold <= 0 {
		config.FailureThreshold = defaults.FailureThreshold
	}
	if config.SuccessThreshold <= 0 {
		config.SuccessThreshold = defaults.SuccessThreshold
	}
	if config.Timeout <= 0 {
		config.Timeout = defaults.Timeout
	}
	if config.Name == "" {
		config.Name = defaults.Name
	}
	if config.IsFailure == nil {
		config.IsFailure = defaults.IsFailure
	}

	cb := &CircuitBreaker{config: config, now: time.Now, state: StateClosed}
	cb.notify()
	return cb
}

// Execute calls fn unless the circuit is open. It returns ErrCircuitOpen
// without calling fn while open or while another half-open probe is in
// flight, and the context error if ctx is already done.
func (cb *CircuitBreaker) Execute(ctx context.Context, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	probe, err := cb.admit()
	if err != nil {
		return err
	}

	err = fn()

	cb.mu.Lock()
	defer cb.mu.Unlock()
	if probe {
		cb.probing = false
	}

	switch {
	case err == nil:
		cb.onSuccess()
	case cb.config.IsFailure(err):
		cb.onFailure()
	}
	return err
}

// admit reports whether a call may proceed and whether it is a half-open probe.
func (cb *CircuitBreaker) admit() (probe bool, err error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case StateOpen:
		if cb.now().Sub(cb.lastFailureTime) < cb.config.Timeout {
			return false, ErrCircuitOpen
		}
		cb.successCount = 0
		cb.setState(StateHalfOpen)
	case StateClosed:
		return false, nil
	}

	if cb.probing {
		return false, ErrCircuitOpen
	}
	cb.probing = true
	return true, nil
}

// Run executes fn through cb and returns its result.
func Run[T any](ctx context.Context, cb *CircuitBreaker, fn func() (T, error)) (T, error) {
	var result T
	err := cb.Execute(ctx, func() error {
		var fnErr error
		result, fnErr = fn()
		return fnErr
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return result, nil
}

// setState changes the state, logs the transition and reports it.
// Callers hold cb.mu.
func (cb *CircuitBreaker) setState(state State) {
	if cb.state == state {
		return
	}
	from := cb.state
	cb.state = state

	event := log.Info()
	if state == StateOpen {
		event = log.Warn()
	}
	event.
		Str("circuit_breaker", cb.config.Name).
		Str("from", from.String()).
		Str("to", state.String()).
		Int("failure_count", cb.failureCount).
		Msg("Circuit breaker state changed")

	cb.notify()
}

func (cb *CircuitBreaker) notify() {
	if cb.config.OnStateChange != nil {
		cb.config.OnStateChange(cb.config.Name, cb.state)
	}
}

func (cb *CircuitBreaker) onFailure() {
	cb.failureCount++
	cb.lastFailureTime = cb.now()

	switch cb.state {
	case StateClosed:
		if cb.failureCount >= cb.config.FailureThreshold {
			cb.setState(StateOpen)
		}
	case StateHalfOpen:
		cb.successCount = 0
		cb.setState(StateOpen)
	}
}

func (cb *CircuitBreaker) onSuccess() {
	cb.failureCount = 0

	if cb.state != StateHalfOpen {
		return
	}
	cb.successCount++
	if cb.successCount >= cb.config.SuccessThreshold {
		cb.successCount = 0
		cb.setState(StateClosed)
	}
}

// State returns the current state of the circuit breaker.
func (cb *CircuitBreaker) State() State {
	cb.mu.RLock()
	defer cb.mu.RUnlock()
	return cb.state
}

// IsOpen returns true if the circuit breaker is open.
func (cb *CircuitBreaker) IsOpen() bool {
	return cb.State() == StateOpen
}

// Name returns the configured name.
func (cb *CircuitBreaker) Name() string {
	return cb.config.Name
}

// Stats is a snapshot of a breaker for readiness reporting.
type Stats struct {
	Name         string
	State        string
	FailureCount int
	SuccessCount int
	LastFailure  time.Time
	IsHealthy    bool
}

// GetStats returns current circuit breaker statistics.
func (cb *CircuitBreaker) GetStats() Stats {
	cb.mu.RLock()
	defer cb.mu.RUnlock()

	return Stats{
		Name:         cb.config.Name,
		State:        cb.state.String(),
		FailureCount: cb.failureCount,
		SuccessCount: cb.successCount,
		LastFailure:  cb.lastFailureTime,
		IsHealthy:    cb.state != StateOpen,
	}
}
