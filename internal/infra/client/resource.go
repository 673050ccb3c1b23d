// Package client talks to the studio backend's REST resources.
// All resources share one generic Resource that handles auth headers,
// retries, circuit breaking, bulkheading and tracing; the per-resource
// clients only know paths and envelopes.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/atelierhq/studio-bfa-go/internal/domain"
	"github.com/atelierhq/studio-bfa-go/internal/infra/resilience"
	"github.com/atelierhq/studio-bfa-go/internal/port"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("client")

// Backend bundles what every resource client needs to reach the backend.
type Backend struct {
	HTTPClient *http.Client
	BaseURL    string
	Tokens     port.TokenProvider
	Breaker    *gobreaker.CircuitBreaker
	Resilience resilience.Config
	Bulkhead   *resilience.Bulkhead
	Logger     *zap.Logger
}

// NewBreaker creates the circuit breaker shared by the backend clients.
// Client errors (4xx) do not count against it.
func NewBreaker(name string) *gobreaker.CircuitBreaker {
	return resilience.NewCircuitBreaker(name, CountsAsSuccess)
}

// CountsAsSuccess reports whether err leaves the breaker untouched: nil,
// or a 4xx mapped to a domain error.
func CountsAsSuccess(err error) bool {
	if err == nil {
		return true
	}
	var (
		notFound     *domain.ErrNotFound
		validation   *domain.ErrValidation
		unauthorized *domain.ErrUnauthorized
		forbidden    *domain.ErrForbidden
	)
	return errors.As(err, &notFound) ||
		errors.As(err, &validation) ||
		errors.As(err, &unauthorized) ||
		errors.As(err, &forbidden)
}

// Resource is a JSON REST resource rooted at baseURL + basePath.
type Resource struct {
	name     string
	basePath string
	b        Backend
}

// NewResource instantiates a resource client. name labels errors, spans and logs.
func NewResource(b Backend, name, basePath string) *Resource {
	if b.HTTPClient == nil {
		b.HTTPClient = http.DefaultClient
	}
	if b.Logger == nil {
		b.Logger = zap.NewNop()
	}
	if b.Bulkhead == nil {
		b.Bulkhead = resilience.NewBulkhead(b.Resilience.MaxConcurrency)
	}
	if b.Breaker == nil {
		b.Breaker = NewBreaker(name)
	}
	return &Resource{
		name:     name,
		basePath: "/" + strings.Trim(basePath, "/"),
		b:        b,
	}
}

// Name returns the resource label.
func (r *Resource) Name() string { return r.name }

// Get decodes GET basePath+path?query into out.
func (r *Resource) Get(ctx context.Context, path string, query url.Values, out any) error {
	return r.do(ctx, http.MethodGet, path, query, nil, out)
}

// Post sends body as JSON and decodes the answer into out (may be nil).
func (r *Resource) Post(ctx context.Context, path string, body, out any) error {
	return r.do(ctx, http.MethodPost, path, nil, body, out)
}

// Put sends body as JSON and decodes the answer into out (may be nil).
func (r *Resource) Put(ctx context.Context, path string, body, out any) error {
	return r.do(ctx, http.MethodPut, path, nil, body, out)
}

// Delete removes basePath+path.
func (r *Resource) Delete(ctx context.Context, path string) error {
	return r.do(ctx, http.MethodDelete, path, nil, nil, nil)
}

func (r *Resource) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	ctx, span := tracer.Start(ctx, "Resource."+method)
	defer span.End()
	span.SetAttributes(
		attribute.String("resource.name", r.name),
		attribute.String("resource.path", r.basePath+path),
	)

	var payload []byte
	if body != nil {
		var err error
		if payload, err = json.Marshal(body); err != nil {
			return fmt.Errorf("encode %s request: %w", r.name, err)
		}
	}

	target := strings.TrimRight(r.b.BaseURL, "/") + r.basePath + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	if err := r.b.Bulkhead.Acquire(ctx); err != nil {
		return &domain.ErrExternalService{Service: r.name, Err: err}
	}
	defer r.b.Bulkhead.Release()

	_, err := r.b.Breaker.Execute(func() (any, error) {
		return nil, resilience.RetryWithBackoff(ctx, r.b.Resilience, func() error {
			return r.attempt(ctx, method, target, path, payload, out)
		})
	})
	if err == nil {
		return nil
	}

	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())

	switch {
	case resilience.IsOpen(err):
		err = &domain.ErrCircuitOpen{Service: r.name}
	case errors.Is(err, context.DeadlineExceeded):
		err = &domain.ErrTimeout{Operation: method + " " + r.basePath + path}
	}
	return &domain.ErrExternalService{Service: r.name, Err: err}
}

func (r *Resource) attempt(ctx context.Context, method, target, path string, payload []byte, out any) error {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return resilience.Permanent(err)
	}

	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if tok, ok := r.token(ctx); ok {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	reqID := middleware.GetReqID(ctx)
	if reqID == "" {
		reqID = uuid.NewString()
	}
	req.Header.Set("X-Request-ID", reqID)

	resp, err := r.b.HTTPClient.Do(req)
	if err != nil {
		r.b.Logger.Debug("backend: request failed",
			zap.String("resource", r.name),
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err),
		)
		return err
	}
	defer resp.Body.Close()

	if err := r.statusError(method, path, resp); err != nil {
		return err
	}

	r.b.Logger.Debug("backend: request OK",
		zap.String("resource", r.name),
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
	)

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return resilience.Permanent(fmt.Errorf("decode %s response: %w", r.name, err))
	}
	return nil
}

func (r *Resource) token(ctx context.Context) (string, bool) {
	if r.b.Tokens == nil {
		return "", false
	}
	return r.b.Tokens.Token(ctx)
}

// statusError maps non-2xx answers. 4xx are permanent; 429 and 5xx are retried.
func (r *Resource) statusError(method, path string, resp *http.Response) error {
	code := resp.StatusCode
	if code >= 200 && code < 300 {
		return nil
	}

	msg := readMessage(resp.Body)
	r.b.Logger.Warn("backend: non-2xx response",
		zap.String("resource", r.name),
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", code),
		zap.String("body", msg),
	)

	switch {
	case code == http.StatusNotFound:
		return resilience.Permanent(&domain.ErrNotFound{Resource: r.name, ID: strings.Trim(path, "/")})
	case code == http.StatusUnauthorized:
		return resilience.Permanent(&domain.ErrUnauthorized{Message: "backend rejected credentials"})
	case code == http.StatusForbidden:
		return resilience.Permanent(&domain.ErrForbidden{Action: method + " " + r.basePath + path})
	case code == http.StatusBadRequest || code == http.StatusUnprocessableEntity:
		return resilience.Permanent(&domain.ErrValidation{Field: r.name, Message: msg})
	case code == http.StatusTooManyRequests || code >= 500:
		return fmt.Errorf("%s API returned status %d", r.name, code)
	default:
		return resilience.Permanent(fmt.Errorf("%s API returned status %d", r.name, code))
	}
}

// readMessage extracts {"message": ...} or {"error": ...} from an error body,
// falling back to the raw text.
func readMessage(body io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(body, 4<<10))
	if err != nil || len(raw) == 0 {
		return ""
	}
	var env struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(raw, &env) == nil {
		if env.Message != "" {
			return env.Message
		}
		if env.Error != "" {
			return env.Error
		}
	}
	return strings.TrimSpace(string(raw))
}

// checkEnvelope turns {"success": false} into an error.
func checkEnvelope(resource string, success bool, message string) error {
	if success {
		return nil
	}
	if message == "" {
		message = "success=false"
	}
	return &domain.ErrExternalService{Service: resource, Err: errors.New(message)}
}
