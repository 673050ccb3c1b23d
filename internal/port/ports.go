// Package port defines the interfaces (ports) for external dependencies.
// Following hexagonal architecture, these ports decouple the service
// layer from concrete implementations.
package port

import (
	"context"
	"time"
)

// TokenProvider yields the bearer token attached to backend calls.
// ok is false when no token is available; the call then goes out
// unauthenticated and the backend decides.
type TokenProvider interface {
	Token(ctx context.Context) (token string, ok bool)
}

// Clock supplies the current time. Injected wherever "now" matters so
// results are reproducible in tests.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to Clock, e.g. ClockFunc(time.Now).
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

// Cache provides generic caching with TTL.
type Cache[T any] interface {
	Get(key string) (T, bool)
	Set(key string, value T)
	Delete(key string)
	DeletePrefix(prefix string)
}
