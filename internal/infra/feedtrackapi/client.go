// Package feedtrackapi provides a client for the FeedTrack REST backend.
// Every resource, feedback included, goes through one request path with a
// single base URL and one error mapping.
package feedtrackapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/equipe-feedtrack/feedtrack/internal/domain"
	"github.com/equipe-feedtrack/feedtrack/internal/infra/observability"
	"github.com/equipe-feedtrack/feedtrack/internal/infra/resilience"

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("feedtrackapi")

// Client wraps HTTP calls to the FeedTrack backend.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
	cb         *gobreaker.CircuitBreaker
	bulkhead   *resilience.Bulkhead
	cfg        resilience.Config
	metrics    *observability.Metrics
	logger     *zap.Logger
}

// NewClient creates a backend client. token is sent as a bearer token when
// non-empty.
func NewClient(httpClient *http.Client, baseURL, token string, cb *gobreaker.CircuitBreaker, cfg resilience.Config, metrics *observability.Metrics, logger *zap.Logger) *Client {
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		cb:         cb,
		bulkhead:   resilience.NewBulkhead(cfg.MaxConcurrency),
		cfg:        cfg,
		metrics:    metrics,
		logger:     logger,
	}
}

// BreakerState reports the circuit breaker state for health checks.
func (c *Client) BreakerState() string {
	return c.cb.State().String()
}

// statusError is a non-2xx backend answer.
type statusError struct {
	Method string
	Path   string
	Code   int
	Body   string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("%s %s returned %d: %s", e.Method, e.Path, e.Code, e.Body)
}

// do sends one request. Reads are retried with backoff; writes are sent
// once. The returned bool reports whether a non-empty body was decoded
// into out.
func (c *Client) do(ctx context.Context, resource, method, path string, body, out any) (bool, error) {
	ctx, span := tracer.Start(ctx, "FeedtrackAPI."+method)
	defer span.End()
	span.SetAttributes(
		attribute.String("http.method", method),
		attribute.String("feedtrack.path", path),
		attribute.String("feedtrack.resource", resource),
	)

	if err := c.bulkhead.Acquire(ctx); err != nil {
		return false, &domain.ErrTimeout{Operation: method + " " + path}
	}
	defer c.bulkhead.Release()

	if c.metrics != nil {
		c.metrics.IncrBackendCall(resource)
	}

	var payload []byte
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return false, fmt.Errorf("encode %s payload: %w", resource, err)
		}
		payload = b
	}

	decoded := false
	attempt := func() error {
		ok, err := c.roundTrip(ctx, method, path, payload, out)
		decoded = ok
		return err
	}

	_, err := c.cb.Execute(func() (any, error) {
		if method == http.MethodGet {
			return nil, resilience.RetryWithBackoff(ctx, c.cfg, attempt)
		}
		return nil, attempt()
	})
	if err != nil {
		mapped := c.mapError(ctx, resource, method, path, err)
		span.RecordError(mapped)
		span.SetStatus(codes.Error, mapped.Error())
		if c.metrics != nil {
			c.metrics.IncrBackendError(resource)
		}
		return false, mapped
	}
	return decoded, nil
}

func (c *Client) roundTrip(ctx context.Context, method, path string, payload []byte, out any) (bool, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		c.logger.Error("feedtrackapi: failed to create request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err),
		)
		return false, resilience.Permanent(err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("feedtrackapi: request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err),
		)
		return false, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return false, fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Warn("feedtrackapi: non-2xx response",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
			zap.String("body", truncate(string(raw), 512)),
		)
		se := &statusError{Method: method, Path: path, Code: resp.StatusCode, Body: string(raw)}
		if resp.StatusCode >= 400 && resp.StatusCode < 500 &&
			resp.StatusCode != http.StatusRequestTimeout && resp.StatusCode != http.StatusTooManyRequests {
			return false, resilience.Permanent(se)
		}
		return false, se
	}

	c.logger.Debug("feedtrackapi: request OK",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
	)

	trimmed := bytes.TrimSpace(raw)
	if out == nil || len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return false, nil
	}
	if err := json.Unmarshal(trimmed, out); err != nil {
		return false, resilience.Permanent(fmt.Errorf("decode %s %s response: %w", method, path, err))
	}
	return true, nil
}

// mapError converts transport and status failures into domain errors.
func (c *Client) mapError(ctx context.Context, resource, method, path string, err error) error {
	if resilience.IsBreakerRejection(err) {
		return &domain.ErrCircuitOpen{Service: "feedtrack/" + resource}
	}
	if errors.Is(err, context.DeadlineExceeded) || (ctx.Err() != nil && errors.Is(ctx.Err(), context.DeadlineExceeded)) {
		return &domain.ErrTimeout{Operation: method + " " + path}
	}

	var se *statusError
	if errors.As(err, &se) {
		msg := backendMessage(se.Body)
		switch se.Code {
		case http.StatusNotFound:
			return &domain.ErrNotFound{Resource: resource, ID: path}
		case http.StatusBadRequest, http.StatusUnprocessableEntity:
			if msg == "" {
				msg = "requisição rejeitada pelo servidor"
			}
			return &domain.ErrValidation{Message: msg}
		case http.StatusConflict:
			if msg == "" {
				msg = "conflito ao salvar " + resource
			}
			return &domain.ErrConflict{Message: msg}
		}
		return &domain.ErrExternalService{Service: "feedtrack/" + resource, StatusCode: se.Code, Err: errors.New(firstNonEmpty(msg, http.StatusText(se.Code)))}
	}
	return &domain.ErrExternalService{Service: "feedtrack/" + resource, Err: err}
}

// backendMessage extracts {"message": ...} or {"error": ...} from an error body.
func backendMessage(body string) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal([]byte(body), &payload); err == nil {
		return firstNonEmpty(payload.Message, payload.Error)
	}
	return strings.TrimSpace(truncate(body, 200))
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
