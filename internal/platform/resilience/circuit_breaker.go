package resilience

import (
	"errors"
	"sync"
	"time"
)

var ErrCircuitOpen = errors.New("circuit breaker is open")

type CircuitState string

const (
	CircuitStateClosed   CircuitState = "closed"
	CircuitStateOpen     CircuitState = "open"
	CircuitStateHalfOpen CircuitState = "half_open"
)

type CircuitBreakerConfig struct {
	Enabled          bool
	FailureThreshold int
	OpenTimeout      time.Duration
	HalfOpenMaxReq   int
}

func DefaultCircuitBreakerConfig() CircuitBreakerConfig {
	return CircuitBreakerConfig{
		Enabled:          true,
		FailureThreshold: 5,
		OpenTimeout:      15 * time.Second,
		HalfOpenMaxReq:   2,
	}
}

func (c CircuitBreakerConfig) normalized() CircuitBreakerConfig {
	c.FailureThreshold = max(c.FailureThreshold, 1)
	c.HalfOpenMaxReq = max(c.HalfOpenMaxReq, 1)
	if c.OpenTimeout <= 0 {
		c.OpenTimeout = 15 * time.Second
	}
	return c
}

// counts are reset on every state change. generation lets results from calls
// admitted under an earlier state be ignored.
type counts struct {
	failures  int
	inFlight  int
	successes int
}

// CircuitBreaker guards an upstream dependency. The open state expires lazily
// on the next call once OpenTimeout has passed.
type CircuitBreaker struct {
	cfg CircuitBreakerConfig
	now func() time.Time

	mu         sync.Mutex
	state      CircuitState
	generation uint64
	counts     counts
	expiresAt  time.Time
}

func NewCircuitBreaker(failureThreshold int, openTimeout time.Duration, halfOpenMaxReq int) *CircuitBreaker {
	return &CircuitBreaker{
		cfg: CircuitBreakerConfig{
			Enabled:          true,
			FailureThreshold: failureThreshold,
			OpenTimeout:      openTimeout,
			HalfOpenMaxReq:   halfOpenMaxReq,
		}.normalized(),
		now:   time.Now,
		state: CircuitStateClosed,
	}
}

// NewCircuitBreakerFromConfig returns nil when the breaker is disabled. A nil
// breaker runs every call.
func NewCircuitBreakerFromConfig(cfg CircuitBreakerConfig) *CircuitBreaker {
	if !cfg.Enabled {
		return nil
	}
	return NewCircuitBreaker(cfg.FailureThreshold, cfg.OpenTimeout, cfg.HalfOpenMaxReq)
}

// Execute runs fn when the breaker admits it. Only errors accepted by
// isFailure (all errors when isFailure is nil) count as failures.
func (b *CircuitBreaker) Execute(fn func() error, isFailure func(error) bool) error {
	if b == nil {
		return fn()
	}

	generation, err := b.admit()
	if err != nil {
		return err
	}

	err = fn()
	failed := err != nil && (isFailure == nil || isFailure(err))
	b.settle(generation, !failed)
	return err
}

func (b *CircuitBreaker) State() CircuitState {
	if b == nil {
		return CircuitStateClosed
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.current(b.now())
}

// current applies the open to half-open expiry. Callers hold mu.
func (b *CircuitBreaker) current(now time.Time) CircuitState {
	if b.state == CircuitStateOpen && !now.Before(b.expiresAt) {
		b.transition(CircuitStateHalfOpen, now)
	}
	return b.state
}

func (b *CircuitBreaker) transition(to CircuitState, now time.Time) {
	b.state = to
	b.generation++
	b.counts = counts{}
	b.expiresAt = time.Time{}
	if to == CircuitStateOpen {
		b.expiresAt = now.Add(b.cfg.OpenTimeout)
	}
}

func (b *CircuitBreaker) admit() (uint64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.current(b.now()) {
	case CircuitStateOpen:
		return 0, ErrCircuitOpen
	case CircuitStateHalfOpen:
		if b.counts.inFlight >= b.cfg.HalfOpenMaxReq {
			return 0, ErrCircuitOpen
		}
	}
	b.counts.inFlight++
	return b.generation, nil
}

func (b *CircuitBreaker) settle(generation uint64, success bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := b.now()
	state := b.current(now)
	if generation != b.generation {
		return
	}
	b.counts.inFlight--

	switch {
	case state == CircuitStateClosed && success:
		b.counts.failures = 0
	case state == CircuitStateClosed:
		b.counts.failures++
		if b.counts.failures >= b.cfg.FailureThreshold {
			b.transition(CircuitStateOpen, now)
		}
	case state == CircuitStateHalfOpen && success:
		b.counts.successes++
		if b.counts.successes >= b.cfg.HalfOpenMaxReq {
			b.transition(CircuitStateClosed, now)
		}
	case state == CircuitStateHalfOpen:
		b.transition(CircuitStateOpen, now)
	}
}
