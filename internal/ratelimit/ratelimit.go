// Package ratelimit tracks how many contact submissions each client made
// within a trailing window.
package ratelimit

import (
	"context"
	"time"
)

// Defaults for the contact endpoint: five attempts per client per hour.
const (
	DefaultLimit  = 5
	DefaultWindow = time.Hour
)

// Limiter decides whether a client may make another request.
//
// Allow records the attempt when it returns true. A denied attempt is not
// recorded. The check and the record are atomic for a single key.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// LimiterFunc adapts a function to Limiter.
type LimiterFunc func(ctx context.Context, key string) (bool, error)

func (f LimiterFunc) Allow(ctx context.Context, key string) (bool, error) {
	return f(ctx, key)
}
