package resilience

import (
	"context"
	"sync"
	"time"

	"github.com/kbukum/collectkit/errors"
)

// State is a breaker state.
type State int

const (
	StateClosed State = iota
	StateOpen
	StateHalfOpen
)

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

// BreakerConfig configures a Breaker.
type BreakerConfig struct {
	// Name identifies the breaker in errors and callbacks.
	Name string `yaml:"name" mapstructure:"name"`
	// MaxFailures is the number of consecutive failures that opens the breaker.
	MaxFailures int `yaml:"max_failures" mapstructure:"max_failures" validate:"gte=0"`
	// OpenTimeout is how long the breaker stays open before probing.
	OpenTimeout time.Duration `yaml:"open_timeout" mapstructure:"open_timeout" validate:"gte=0"`
	// HalfOpenMaxCalls is the number of probe calls allowed while half-open.
	HalfOpenMaxCalls int `yaml:"half_open_max_calls" mapstructure:"half_open_max_calls" validate:"gte=0"`
	// OnStateChange is called on every transition, under the breaker lock.
	OnStateChange func(name string, from, to State) `yaml:"-" mapstructure:"-"`
	// Now replaces time.Now in tests.
	Now func() time.Time `yaml:"-" mapstructure:"-"`
}

// Breaker fails calls fast with CIRCUIT_OPEN after repeated failures.
// Failures that are not worth retrying, such as KEY_NOT_FOUND or a
// cancelled context, do not count against the breaker.
type Breaker struct {
	cfg BreakerConfig

	mu            sync.Mutex
	state         State
	failures      int
	successes     int
	openedAt      time.Time
	halfOpenCalls int
}

// NewBreaker creates a closed breaker.
func NewBreaker(cfg BreakerConfig) *Breaker {
	if cfg.MaxFailures <= 0 {
		cfg.MaxFailures = 5
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = 30 * time.Second
	}
	if cfg.HalfOpenMaxCalls <= 0 {
		cfg.HalfOpenMaxCalls = 1
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Breaker{cfg: cfg}
}

// Execute runs fn unless the breaker is open.
func (b *Breaker) Execute(ctx context.Context, fn func(ctx context.Context) error) error {
	if !b.allow() {
		return errors.CircuitOpen(b.cfg.Name)
	}
	err := fn(ctx)
	b.record(err)
	return err
}

// State returns the current state.
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.current()
}

// Reset closes the breaker.
func (b *Breaker) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.transition(StateClosed)
	b.failures = 0
}

func (b *Breaker) allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	switch b.current() {
	case StateClosed:
		return true
	case StateHalfOpen:
		if b.halfOpenCalls < b.cfg.HalfOpenMaxCalls {
			b.halfOpenCalls++
			return true
		}
	}
	return false
}

func (b *Breaker) record(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err != nil && DefaultRetryIf(err) {
		b.failures++
		switch b.current() {
		case StateClosed:
			if b.failures >= b.cfg.MaxFailures {
				b.open()
			}
		case StateHalfOpen:
			b.open()
		}
		return
	}

	switch b.current() {
	case StateClosed:
		b.failures = 0
	case StateHalfOpen:
		b.successes++
		if b.successes >= b.cfg.HalfOpenMaxCalls {
			b.transition(StateClosed)
		}
	}
}

func (b *Breaker) open() {
	b.openedAt = b.cfg.Now()
	b.transition(StateOpen)
}

// current moves an open breaker to half-open once OpenTimeout has passed.
func (b *Breaker) current() State {
	if b.state == StateOpen && b.cfg.Now().Sub(b.openedAt) >= b.cfg.OpenTimeout {
		b.transition(StateHalfOpen)
	}
	return b.state
}

func (b *Breaker) transition(to State) {
	if b.state == to {
		return
	}
	from := b.state
	b.state = to
	b.successes, b.halfOpenCalls = 0, 0
	if to == StateClosed {
		b.failures = 0
	}
	if b.cfg.OnStateChange != nil {
		b.cfg.OnStateChange(b.cfg.Name, from, to)
	}
}
