// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package llm provides text-completion backends. Callers depend on the
// Completer interface; construction picks the concrete backend from
// configuration.
package llm

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"time"

	"github.com/jwpark/challenge-radar/pkg/types"
)

// Completer sends one prompt to a completion API and returns the raw
// text of the response.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// NewCompleter constructs the backend selected by cfg.Provider and wraps
// it with retry. Supported providers are "anthropic" and "gemini".
func NewCompleter(ctx context.Context, cfg types.AIConfig, client *http.Client) (Completer, error) {
	var inner Completer
	switch cfg.Provider {
	case "", "anthropic":
		inner = &ClaudeBackend{
			APIKey: cfg.APIKey,
			Model:  cfg.Model,
			Client: client,
		}
	case "gemini":
		backend, err := NewGeminiBackend(ctx, cfg)
		if err != nil {
			return nil, err
		}
		inner = backend
	default:
		return nil, fmt.Errorf("unknown completion provider %q", cfg.Provider)
	}

	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 3
	}
	return &Retrying{Inner: inner, MaxRetries: maxRetries}, nil
}

// backoffBase controls the base duration for exponential backoff. Tests
// override this to avoid real sleeps.
var backoffBase = time.Second

// Retrying wraps a Completer with exponential backoff.
type Retrying struct {
	Inner      Completer
	MaxRetries int
}

// Complete calls the inner backend, retrying failed calls with
// exponential backoff until MaxRetries is exhausted.
func (r *Retrying) Complete(ctx context.Context, prompt string) (string, error) {
	var lastErr error
	for attempt := 0; attempt <= r.MaxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(math.Pow(2, float64(attempt-1))) * backoffBase
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(backoff):
			}
		}

		text, err := r.Inner.Complete(ctx, prompt)
		if err == nil {
			return text, nil
		}
		lastErr = err
	}
	return "", fmt.Errorf("after %d retries: %w", r.MaxRetries, lastErr)
}
