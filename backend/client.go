package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"camping-admin/circuitbreaker"
	"camping-admin/middleware"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	"go.uber.org/zap"
)

// Client talks to the rental backend REST API. A Client carries at most one
// bearer token; use WithToken to derive a per-session client.
type Client struct {
	baseURL        string
	token          string
	httpClient     *http.Client
	circuitBreaker *circuitbreaker.CircuitBreaker
	logger         *zap.Logger
}

func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			DialContext: (&net.Dialer{
				Timeout:   5 * time.Second,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			MaxIdleConns:        100,
			MaxConnsPerHost:     100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
		},
	}
}

func NewClient(baseURL string, httpClient *http.Client, logger *zap.Logger) *Client {
	if httpClient == nil {
		httpClient = NewHTTPClient(10 * time.Second)
	}
	return &Client{
		baseURL:        strings.TrimRight(baseURL, "/"),
		httpClient:     httpClient,
		circuitBreaker: circuitbreaker.NewCircuitBreaker(5, 30*time.Second).WithClassifier(countsAsOutage),
		logger:         logger,
	}
}

// WithToken returns a copy of c that authenticates as token. The copy shares
// the transport and circuit breaker with c.
func (c *Client) WithToken(token string) *Client {
	cp := *c
	cp.token = token
	return &cp
}

func (c *Client) Token() string {
	return c.token
}

func (c *Client) BreakerState() circuitbreaker.State {
	return c.circuitBreaker.GetState()
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, "", out)
}

func (c *Client) sendJSON(ctx context.Context, method, path string, in, out any) error {
	var body []byte
	if in != nil {
		var err error
		body, err = json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
	}
	return c.do(ctx, method, path, body, "application/json", out)
}

func (c *Client) do(ctx context.Context, method, path string, body []byte, contentType string, out any) error {
	ctx, span := otel.Tracer("camping-admin").Start(ctx, "backend "+method+" "+path)
	defer span.End()
	span.SetAttributes(
		attribute.String("http.method", method),
		attribute.String("http.target", path),
	)

	start := time.Now()
	status := 0

	err := c.circuitBreaker.Execute(ctx, func() error {
		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(body))
		if err != nil {
			return fmt.Errorf("failed to build request: %w", err)
		}
		if contentType != "" {
			req.Header.Set("Content-Type", contentType)
		}
		req.Header.Set("Accept", "application/json")
		if c.token != "" {
			req.Header.Set("Authorization", "Bearer "+c.token)
		}
		otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			return fmt.Errorf("%w: %v", ErrUnreachable, err)
		}
		defer resp.Body.Close()
		status = resp.StatusCode

		raw, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("%w: reading response: %v", ErrUnreachable, err)
		}
		if resp.StatusCode >= 300 {
			return newAPIError(resp.StatusCode, raw)
		}
		if out == nil || len(bytes.TrimSpace(raw)) == 0 {
			return nil
		}
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("failed to decode %s %s response: %w", method, path, err)
		}
		return nil
	})

	span.SetAttributes(attribute.Int("http.status_code", status))
	middleware.RecordBackendCall(method, routeOf(path), status, time.Since(start))

	if err != nil {
		span.RecordError(err)
		if errors.Is(err, circuitbreaker.ErrCircuitOpen) {
			err = fmt.Errorf("%w: %v", ErrUnreachable, err)
		}
		c.logger.Warn("Backend call failed",
			zap.String("trace_id", middleware.GetTraceID(ctx)),
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", status),
			zap.Error(err),
		)
		return err
	}
	return nil
}

// countsAsOutage reports whether err says the backend itself is unhealthy,
// as opposed to rejecting a particular request.
func countsAsOutage(err error) bool {
	if errors.Is(err, ErrUnreachable) {
		return true
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode >= 500
	}
	return false
}

// routeOf collapses numeric path segments so metrics stay low-cardinality.
func routeOf(path string) string {
	parts := strings.Split(path, "/")
	for i, p := range parts {
		if p != "" && strings.Trim(p, "0123456789") == "" {
			parts[i] = ":id"
		}
	}
	return strings.Join(parts, "/")
}
