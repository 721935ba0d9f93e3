// Copyright Kampmann Lab, 2026. All rights reserved.

package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFixedDelayWaits(t *testing.T) {
	limiter := FixedDelay{D: 20 * time.Millisecond}

	start := time.Now()
	limiter.Wait()
	elapsed := time.Since(start)

	assert.GreaterOrEqual(t, elapsed, 20*time.Millisecond)
}

func TestNopReturnsImmediately(t *testing.T) {
	start := time.Now()
	Nop{}.Wait()
	elapsed := time.Since(start)

	assert.Less(t, elapsed, 10*time.Millisecond)
}
