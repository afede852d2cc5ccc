// Package ratelimit implements the per-identity admission gate that runs
// before the expensive analysis pipeline. Counters live behind a Store so
// the window lifecycle (roll-over, expiry sweep) is testable in isolation
// and multi-instance deployments can share one Postgres-backed counter.
package ratelimit

import (
	"time"
)

// Entry is one identity's consumption inside the current quota window.
type Entry struct {
	Count     int
	ResetTime time.Time
}

// Stats summarizes the store for the admin endpoint.
type Stats struct {
	TotalIdentities  int `json:"totalIPs"`
	ActiveIdentities int `json:"activeIPs"`
	StoreSize        int `json:"storeSize"`
}

type Store interface {
	Get(identity string) (Entry, bool, error)
	Put(identity string, entry Entry) error
	Delete(identity string) error
	// Sweep drops entries whose window expired before now and returns how
	// many were removed.
	Sweep(now time.Time) (int, error)
	Stats(now time.Time) (Stats, error)
}

// Result is the gate's decision for one request.
type Result struct {
	Allowed   bool
	Remaining int
	ResetTime time.Time
}

type Limiter struct {
	store       Store
	maxRequests int
	window      time.Duration

	now func() time.Time
}

func NewLimiter(store Store, maxRequests int, window time.Duration) *Limiter {
	return &Limiter{
		store:       store,
		maxRequests: maxRequests,
		window:      window,
		now:         time.Now,
	}
}

func (l *Limiter) MaxRequests() int {
	return l.maxRequests
}

// Check consumes one unit of the identity's quota, rolling the window
// forward when the previous one expired. A denied request consumes nothing.
func (l *Limiter) Check(identity string) (Result, error) {
	now := l.now()

	entry, ok, err := l.store.Get(identity)
	if err != nil {
		return Result{}, err
	}
	if !ok || entry.ResetTime.Before(now) {
		entry = Entry{Count: 0, ResetTime: now.Add(l.window)}
	}

	if entry.Count >= l.maxRequests {
		return Result{Allowed: false, Remaining: 0, ResetTime: entry.ResetTime}, nil
	}

	entry.Count++
	if err := l.store.Put(identity, entry); err != nil {
		return Result{}, err
	}

	return Result{
		Allowed:   true,
		Remaining: l.maxRequests - entry.Count,
		ResetTime: entry.ResetTime,
	}, nil
}

// Reset clears one identity's counter.
func (l *Limiter) Reset(identity string) error {
	return l.store.Delete(identity)
}

func (l *Limiter) Stats() (Stats, error) {
	return l.store.Stats(l.now())
}

func (l *Limiter) Sweep() (int, error) {
	return l.store.Sweep(l.now())
}
