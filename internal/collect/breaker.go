// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package collect

import (
	"github.com/sony/gobreaker/v2"

	"github.com/jwpark/challenge-radar/pkg/types"
)

// newBreaker builds the circuit breaker guarding YouTube API calls. The
// breaker opens after the configured number of consecutive failures and
// probes again after the configured timeout, so a dead or quota-exhausted
// API stops burning quota on every request.
func newBreaker(cfg types.CollectorConfig) *gobreaker.CircuitBreaker[[]types.RawVideo] {
	failures := cfg.BreakerFailures
	if failures == 0 {
		failures = 5
	}

	settings := gobreaker.Settings{
		Name:    "youtube",
		Timeout: cfg.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
	}

	return gobreaker.NewCircuitBreaker[[]types.RawVideo](settings)
}
