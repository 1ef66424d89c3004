// Package models holds rate limit results shared by stores and middleware.
package models

import "time"

// RateLimitResult is the outcome of one admission check.
type RateLimitResult struct {
	Allowed    bool      `json:"allowed"`
	Limit      int       `json:"limit"`
	Remaining  int       `json:"remaining"`
	ResetAt    time.Time `json:"reset_at"`
	RetryAfter int       `json:"retry_after,omitempty"` // seconds, only set when not allowed
}

type RateLimitExceededResponse struct {
	Error      string `json:"error"`
	Message    string `json:"message"`
	RetryAfter int    `json:"retry_after"`
}

func retryAfter(resetAt, now time.Time) int {
	secs := int(resetAt.Sub(now).Seconds())
	if resetAt.Sub(now) > time.Duration(secs)*time.Second {
		secs++
	}
	if secs < 1 {
		secs = 1
	}
	return secs
}

// Denied builds the result for a rejected request.
func Denied(limit int, resetAt, now time.Time) *RateLimitResult {
	return &RateLimitResult{
		Allowed:    false,
		Limit:      limit,
		Remaining:  0,
		ResetAt:    resetAt,
		RetryAfter: retryAfter(resetAt, now),
	}
}
