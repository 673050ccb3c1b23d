// Package auth provides the bearer tokens the BFA attaches to backend calls.
// Every resource client receives a port.TokenProvider explicitly instead of
// reading a token from ambient state.
package auth

import (
	"context"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/atelierhq/studio-bfa-go/internal/port"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type contextKey string

const (
	bearerKey  contextKey = "bearer"
	serviceKey contextKey = "service"
)

// WithBearer stores the caller's bearer token on the context.
func WithBearer(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, bearerKey, token)
}

// BearerFromContext returns the bearer stored by WithBearer.
func BearerFromContext(ctx context.Context) string {
	v, _ := ctx.Value(bearerKey).(string)
	return v
}

// AsService marks the context as acting for the BFA itself (operator routes,
// the recompute command, health checks). Only such contexts may fall back to
// service credentials.
func AsService(ctx context.Context) context.Context {
	return context.WithValue(ctx, serviceKey, true)
}

// IsService reports whether AsService marked the context.
func IsService(ctx context.Context) bool {
	v, _ := ctx.Value(serviceKey).(bool)
	return v
}

// Static always returns the same token. An empty token means none.
type Static string

func (s Static) Token(context.Context) (string, bool) {
	return string(s), s != ""
}

// File reads the token from a file on every call, so a rotated token is
// picked up without a restart. A missing or empty file yields no token.
type File struct {
	Path string
}

func (f File) Token(context.Context) (string, bool) {
	if f.Path == "" {
		return "", false
	}
	b, err := os.ReadFile(f.Path)
	if err != nil {
		return "", false
	}
	tok := strings.TrimSpace(string(b))
	return tok, tok != ""
}

// Forwarded returns the bearer the SPA sent to the BFA.
type Forwarded struct{}

func (Forwarded) Token(ctx context.Context) (string, bool) {
	tok := BearerFromContext(ctx)
	return tok, tok != ""
}

// Chain returns the first token any provider yields.
type Chain []port.TokenProvider

func (c Chain) Token(ctx context.Context) (string, bool) {
	for _, p := range c {
		if p == nil {
			continue
		}
		if tok, ok := p.Token(ctx); ok {
			return tok, true
		}
	}
	return "", false
}

// ServiceOnly yields the wrapped provider's token only on contexts marked
// with AsService, so anonymous user requests never borrow service rights.
type ServiceOnly struct {
	Provider port.TokenProvider
}

func (s ServiceOnly) Token(ctx context.Context) (string, bool) {
	if s.Provider == nil || !IsService(ctx) {
		return "", false
	}
	return s.Provider.Token(ctx)
}

// ServiceJWT mints HS256 service tokens for calls that have no end user,
// such as the batch recompute job. A token is reused until the last fifth
// of its lifetime.
type ServiceJWT struct {
	secret  []byte
	subject string
	ttl     time.Duration
	now     func() time.Time

	mu      sync.Mutex
	token   string
	expires time.Time
}

// ServiceClaims are the claims carried by service tokens.
type ServiceClaims struct {
	Type string `json:"type"`
	jwt.RegisteredClaims
}

// NewServiceJWT creates a signer. An empty secret disables it.
func NewServiceJWT(secret, subject string, ttl time.Duration) *ServiceJWT {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &ServiceJWT{
		secret:  []byte(secret),
		subject: subject,
		ttl:     ttl,
		now:     time.Now,
	}
}

func (s *ServiceJWT) Token(context.Context) (string, bool) {
	if s == nil || len(s.secret) == 0 {
		return "", false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if s.token != "" && now.Before(s.expires.Add(-s.ttl/5)) {
		return s.token, true
	}

	claims := ServiceClaims{
		Type: "service",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   s.subject,
			Issuer:    "studio-bfa",
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", false
	}
	s.token = signed
	s.expires = now.Add(s.ttl)
	return signed, true
}
