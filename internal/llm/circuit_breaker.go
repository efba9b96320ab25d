package llm

import (
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// ErrCircuitOpen is returned while a backend's breaker is open.
var ErrCircuitOpen = errors.New("circuit breaker is open")

// BreakerSettings controls when a breaker opens and closes again.
type BreakerSettings struct {
	FailureThreshold uint32
	SuccessThreshold uint32
	Timeout          time.Duration
}

// DefaultBreakerSettings opens after 5 consecutive failures and probes again after 30s.
var DefaultBreakerSettings = BreakerSettings{
	FailureThreshold: 5,
	SuccessThreshold: 2,
	Timeout:          30 * time.Second,
}

// CircuitBreaker holds one breaker per backend key.
type CircuitBreaker struct {
	settings BreakerSettings
	breakers map[string]*Breaker
	logger   *logrus.Logger
	mu       sync.RWMutex
}

// Breaker represents a single circuit breaker
type Breaker struct {
	settings BreakerSettings

	failures    uint32
	successes   uint32
	lastFailure time.Time
	state       BreakerState
	mu          sync.Mutex
}

// BreakerState represents the circuit breaker state
type BreakerState int

const (
	StateClosed BreakerState = iota
	StateOpen
	StateHalfOpen
)

func (s BreakerState) String() string {
	switch s {
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "closed"
	}
}

// NewCircuitBreaker creates a new circuit breaker
func NewCircuitBreaker(settings BreakerSettings, logger *logrus.Logger) *CircuitBreaker {
	return &CircuitBreaker{
		settings: settings,
		breakers: make(map[string]*Breaker),
		logger:   logger,
	}
}

// Execute runs fn unless the breaker for key is open. shouldCount decides
// whether a returned error counts as a backend failure.
func (cb *CircuitBreaker) Execute(key string, fn func() error, shouldCount func(error) bool) error {
	breaker := cb.getOrCreateBreaker(key)

	if breaker.currentState() == StateOpen {
		return ErrCircuitOpen
	}

	err := fn()
	if err != nil && (shouldCount == nil || shouldCount(err)) {
		if opened := breaker.recordFailure(); opened {
			cb.logger.WithField("backend", key).Warn("Circuit breaker opened")
		}
	} else if err == nil {
		if closed := breaker.recordSuccess(); closed {
			cb.logger.WithField("backend", key).Info("Circuit breaker closed")
		}
	}

	return err
}

func (cb *CircuitBreaker) getOrCreateBreaker(key string) *Breaker {
	cb.mu.RLock()
	breaker, exists := cb.breakers[key]
	cb.mu.RUnlock()

	if exists {
		return breaker
	}

	cb.mu.Lock()
	defer cb.mu.Unlock()

	// Double-check after acquiring write lock
	if breaker, exists := cb.breakers[key]; exists {
		return breaker
	}

	breaker = &Breaker{settings: cb.settings, state: StateClosed}
	cb.breakers[key] = breaker
	return breaker
}

// currentState moves an expired open breaker to half-open.
func (b *Breaker) currentState() BreakerState {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == StateOpen && time.Since(b.lastFailure) > b.settings.Timeout {
		b.state = StateHalfOpen
		b.failures = 0
		b.successes = 0
	}
	return b.state
}

// recordFailure reports whether the breaker transitioned to open.
func (b *Breaker) recordFailure() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.failures++
	b.lastFailure = time.Now()

	switch b.state {
	case StateClosed:
		if b.failures >= b.settings.FailureThreshold {
			b.state = StateOpen
			return true
		}
	case StateHalfOpen:
		b.state = StateOpen
		return true
	}
	return false
}

// recordSuccess reports whether the breaker transitioned to closed.
func (b *Breaker) recordSuccess() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.successes++

	switch b.state {
	case StateClosed:
		b.failures = 0
	case StateHalfOpen:
		if b.successes >= b.settings.SuccessThreshold {
			b.state = StateClosed
			b.failures = 0
			b.successes = 0
			return true
		}
	}
	return false
}

// GetState returns the state of a specific breaker
func (cb *CircuitBreaker) GetState(key string) BreakerState {
	cb.mu.RLock()
	breaker, exists := cb.breakers[key]
	cb.mu.RUnlock()

	if !exists {
		return StateClosed
	}
	return breaker.currentState()
}
