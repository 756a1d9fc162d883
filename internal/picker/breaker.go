package picker

import (
	"errors"
	"sync"
	"time"
)

// ErrPaused is returned while sampling is suspended after repeated
// capture failures.
var ErrPaused = errors.New("screen sampling paused after repeated failures")

const (
	defaultFailureThreshold = 5
	defaultCooldown         = 2 * time.Second
)

// BreakerState is the state of a breaker.
type BreakerState int

const (
	// BreakerClosed lets every sample through.
	BreakerClosed BreakerState = iota
	// BreakerOpen rejects samples until the cooldown has passed.
	BreakerOpen
	// BreakerHalfOpen lets one trial call through.
	BreakerHalfOpen
)

func (s BreakerState) String() string {
	switch s {
	case BreakerClosed:
		return "closed"
	case BreakerOpen:
		return "open"
	case BreakerHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// breaker stops a failing screen reader from being queried every frame.
// After threshold consecutive failures it opens for cooldown, then allows
// a single trial call; a successful one closes it again.
type breaker struct {
	threshold int
	cooldown  time.Duration
	now       func() time.Time

	mu       sync.Mutex
	state    BreakerState
	failures int
	openedAt time.Time
	probing  bool
}

func newBreaker(threshold int, cooldown time.Duration) *breaker {
	if threshold <= 0 {
		threshold = defaultFailureThreshold
	}
	if cooldown <= 0 {
		cooldown = defaultCooldown
	}
	return &breaker{threshold: threshold, cooldown: cooldown, now: time.Now}
}

// allow reports whether a sample may run now.
func (b *breaker) allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case BreakerOpen:
		if b.now().Sub(b.openedAt) < b.cooldown {
			return false
		}
		b.state = BreakerHalfOpen
		b.probing = true
		return true
	case BreakerHalfOpen:
		if b.probing {
			return false
		}
		b.probing = true
		return true
	default:
		return true
	}
}

// record updates the breaker with the outcome of an allowed sample.
func (b *breaker) record(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.probing = false
	if err == nil {
		b.state = BreakerClosed
		b.failures = 0
		return
	}
	b.failures++
	if b.state == BreakerHalfOpen || b.failures >= b.threshold {
		b.state = BreakerOpen
		b.openedAt = b.now()
	}
}

func (b *breaker) State() BreakerState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}
