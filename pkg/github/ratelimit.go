package github

import (
	"net/http"
	"strconv"
	"sync"
	"time"
)

// RateLimitState tracks the remaining request budget reported by the API.
// One instance is shared by every caller of a Client; a mutex guards the
// counters so concurrent discovery calls cannot race the budget check.
type RateLimitState struct {
	mu        sync.Mutex
	remaining int
	resetAt   time.Time
	known     bool

	now func() time.Time
}

// NewRateLimitState creates a tracker with no budget information yet.
// Until the first response arrives, every budget check passes.
func NewRateLimitState() *RateLimitState {
	return &RateLimitState{now: time.Now}
}

// Acquire checks the budget and reserves one call under a single lock.
// It returns (0, true) when a request may be sent, and optimistically
// decrements the local counter; the next response self-corrects it. When
// the budget is exhausted and the reset instant is still in the future,
// it returns the wait duration and false without consuming anything.
func (r *RateLimitState) Acquire() (wait time.Duration, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.known {
		return 0, true
	}
	now := r.now()
	if r.remaining <= 1 && now.Before(r.resetAt) {
		return r.resetAt.Sub(now), false
	}
	if r.remaining > 0 {
		r.remaining--
	}
	return 0, true
}

// Update records the quota fields from a response. Every response updates
// the state, success or failure, so budget tracking self-corrects even
// after errors. Responses without quota headers are ignored.
func (r *RateLimitState) Update(h http.Header) {
	rem := h.Get("X-RateLimit-Remaining")
	if rem == "" {
		return
	}
	remaining, err := strconv.Atoi(rem)
	if err != nil {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.remaining = remaining
	r.known = true
	if reset, err := strconv.ParseInt(h.Get("X-RateLimit-Reset"), 10, 64); err == nil {
		r.resetAt = time.Unix(reset, 0)
	}
}

// Remaining returns the last known remaining call count, or -1 when no
// response has reported quota information yet.
func (r *RateLimitState) Remaining() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.known {
		return -1
	}
	return r.remaining
}

// ResetAt returns the instant the quota resets, zero when unknown.
func (r *RateLimitState) ResetAt() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.resetAt
}

// retryAfter parses a Retry-After header in seconds. Returns 0 when the
// header is absent or malformed.
func retryAfter(h http.Header) time.Duration {
	secs, err := strconv.Atoi(h.Get("Retry-After"))
	if err != nil || secs <= 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}
