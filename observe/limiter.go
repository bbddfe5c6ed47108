// Package observe rate-limits outbound price-observation telemetry. It is
// a best-effort in-memory courtesy limiter, not a durable dedup guarantee:
// nothing here survives a restart, and the backend is expected to cope
// with the occasional duplicate.
package observe

import (
	"sync"
	"time"
)

// Defaults for the two independent conditions a telemetry emission must
// pass: a global sliding window and a per-key identical-price debounce.
const (
	DefaultWindow       = 10 * time.Minute
	DefaultMaxPerWindow = 30
	DefaultKeyDebounce  = 30 * time.Minute
)

type memory struct {
	at         time.Time
	priceCents int
}

// Limiter decides whether a price observation may be emitted. Safe for
// concurrent use.
type Limiter struct {
	mu           sync.Mutex
	window       time.Duration
	maxPerWindow int
	keyDebounce  time.Duration
	now          func() time.Time

	emissions []time.Time       // global sliding window, pruned on every call
	perKey    map[string]memory // last confirmed emission per observe key
}

// Option configures a Limiter.
type Option func(*Limiter)

// WithWindow overrides the global sliding window. Default: 10 minutes.
func WithWindow(d time.Duration) Option {
	return func(l *Limiter) { l.window = d }
}

// WithMaxPerWindow overrides the emission budget per window. Default: 30.
func WithMaxPerWindow(n int) Option {
	return func(l *Limiter) { l.maxPerWindow = n }
}

// WithKeyDebounce overrides the per-key identical-price debounce.
// Default: 30 minutes.
func WithKeyDebounce(d time.Duration) Option {
	return func(l *Limiter) { l.keyDebounce = d }
}

// WithClock injects a time source for tests.
func WithClock(now func() time.Time) Option {
	return func(l *Limiter) { l.now = now }
}

// New creates a Limiter.
func New(opts ...Option) *Limiter {
	l := &Limiter{
		window:       DefaultWindow,
		maxPerWindow: DefaultMaxPerWindow,
		keyDebounce:  DefaultKeyDebounce,
		now:          time.Now,
		perKey:       make(map[string]memory),
	}
	for _, o := range opts {
		o(l)
	}
	return l
}

// Allowed reports whether an observation for key at priceCents may be
// emitted now. Both conditions must hold: the global window has budget
// left, and this key has not reported the same price within the debounce
// period. Allowed records nothing; call Remember once the backend has
// accepted the emission.
func (l *Limiter) Allowed(key string, priceCents int) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.prune(now)

	if len(l.emissions) >= l.maxPerWindow {
		return false
	}
	if m, ok := l.perKey[key]; ok &&
		m.priceCents == priceCents &&
		now.Sub(m.at) < l.keyDebounce {
		return false
	}
	return true
}

// Remember records a confirmed emission: the timestamp joins the global
// window and the (price, timestamp) pair replaces the key's memory.
func (l *Limiter) Remember(key string, priceCents int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.prune(now)
	l.emissions = append(l.emissions, now)
	l.perKey[key] = memory{at: now, priceCents: priceCents}
}

// prune drops window timestamps older than the trailing window.
// Caller holds l.mu.
func (l *Limiter) prune(now time.Time) {
	cutoff := now.Add(-l.window)
	kept := l.emissions[:0]
	for _, t := range l.emissions {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	l.emissions = kept
}
