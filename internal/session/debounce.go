package session

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// DefaultWindow is the minimum gap between two accepted navigation actions
// of one user.
const DefaultWindow = 800 * time.Millisecond

// gcEvery is the number of checks between two sweeps of idle users.
const gcEvery = 1000

type presser struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Debouncer rejects navigation presses arriving within Window of the
// user's previous accepted press.
//
// Each user gets a token bucket refilled once per window with a burst of
// one. A rejected press takes no token, so it does not push the window.
// Users idle for at least TTL are dropped opportunistically.
type Debouncer struct {
	window time.Duration
	ttl    time.Duration

	mu       sync.Mutex
	pressers map[int64]*presser
	checks   uint64
}

// NewDebouncer builds a Debouncer. Non-positive arguments fall back to
// DefaultWindow and a ten minute idle TTL.
func NewDebouncer(window, ttl time.Duration) *Debouncer {
	if window <= 0 {
		window = DefaultWindow
	}
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	if ttl < window {
		ttl = window
	}
	return &Debouncer{
		window:   window,
		ttl:      ttl,
		pressers: make(map[int64]*presser),
	}
}

// Window returns the debounce window.
func (d *Debouncer) Window() time.Duration { return d.window }

// CheckAndUpdateRateLimit reports whether a press by user at now is
// accepted, recording it when it is.
func (d *Debouncer) CheckAndUpdateRateLimit(user int64, now time.Time) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	// sweep before the lookup so a stale entry of this user is reset too
	d.checks++
	if d.checks >= gcEvery {
		d.gc(now)
		d.checks = 0
	}

	p, ok := d.pressers[user]
	if !ok {
		p = &presser{limiter: rate.NewLimiter(rate.Every(d.window), 1)}
		d.pressers[user] = p
	}
	p.lastSeen = now
	return p.limiter.AllowN(now, 1)
}

// Len reports how many users are tracked.
func (d *Debouncer) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.pressers)
}

// Sweep drops users idle for at least the TTL.
func (d *Debouncer) Sweep(now time.Time) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.gc(now)
}

func (d *Debouncer) gc(now time.Time) int {
	n := 0
	for id, p := range d.pressers {
		if now.Sub(p.lastSeen) >= d.ttl {
			delete(d.pressers, id)
			n++
		}
	}
	return n
}
