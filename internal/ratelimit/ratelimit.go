// Copyright Kampmann Lab, 2026. All rights reserved.

// Package ratelimit provides the inter-request pause policy for remote APIs.
package ratelimit

import "time"

// DefaultDelay is the pause after each STRING API call.
const DefaultDelay = 200 * time.Millisecond

// Limiter pauses between consecutive API requests so a run never
// exceeds the remote service's rate limit.
type Limiter interface {
	Wait()
}

// FixedDelay sleeps a constant duration on every Wait.
type FixedDelay struct {
	D time.Duration
}

func (f FixedDelay) Wait() {
	time.Sleep(f.D)
}

// Nop performs no pause. Tests use it to avoid wall-clock waits.
type Nop struct{}

func (Nop) Wait() {}
