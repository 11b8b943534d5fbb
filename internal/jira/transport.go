package jira

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Transport executes request descriptors. An error means the request could
// not be performed at all; HTTP error statuses come back as a Response with
// OK set to false.
type Transport interface {
	Do(ctx context.Context, req *Request) (*Response, error)
}

// DefaultTimeout bounds a single HTTP exchange.
const DefaultTimeout = 30 * time.Second

const tracerName = "github.com/nhle/jiractl/internal/jira"

// HTTPTransport is a thin net/http Transport for a single Jira host.
// It performs exactly one exchange per call; there is no retry.
type HTTPTransport struct {
	host       string
	httpClient *http.Client
	logger     *slog.Logger
	tracer     trace.Tracer
}

// TransportOption configures an HTTPTransport.
type TransportOption func(*HTTPTransport)

// WithHTTPClient replaces the default client (30s timeout).
func WithHTTPClient(c *http.Client) TransportOption {
	return func(t *HTTPTransport) { t.httpClient = c }
}

// WithLogger sets the logger used for per-request debug logs.
func WithLogger(l *slog.Logger) TransportOption {
	return func(t *HTTPTransport) {
		if l != nil {
			t.logger = l
		}
	}
}

// WithTracerProvider sets the provider spans are created from. Defaults to
// the global provider.
func WithTracerProvider(tp trace.TracerProvider) TransportOption {
	return func(t *HTTPTransport) { t.tracer = tp.Tracer(tracerName) }
}

// NewHTTPTransport creates a transport for host. host may be a bare host
// name, host:port, or a URL whose scheme and path are ignored.
func NewHTTPTransport(host string, opts ...TransportOption) *HTTPTransport {
	t := &HTTPTransport{
		host: normalizeHost(host),
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		logger: slog.Default(),
		tracer: otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Do performs the request.
func (t *HTTPTransport) Do(ctx context.Context, r *Request) (*Response, error) {
	ctx, span := t.tracer.Start(ctx, "jira "+r.Method,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", r.Method),
			attribute.String("url.path", r.Path),
			attribute.String("server.address", t.host),
		),
	)
	defer span.End()

	resp, err := t.do(ctx, r)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.Int("http.response.status_code", resp.Status))
	if !resp.OK {
		span.SetStatus(codes.Error, fmt.Sprintf("status %d", resp.Status))
	}
	return resp, nil
}

func (t *HTTPTransport) do(ctx context.Context, r *Request) (*Response, error) {
	target, err := r.URL(t.host)
	if err != nil {
		return nil, fmt.Errorf("building URL for %s: %w", r, err)
	}

	var bodyReader io.Reader
	if r.Body != "" {
		bodyReader = strings.NewReader(r.Body)
	}

	req, err := http.NewRequestWithContext(ctx, r.Method, target, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	for k, v := range r.Headers {
		req.Header.Set(k, v)
	}
	if r.Auth != nil {
		req.SetBasicAuth(r.Auth.Username, r.Auth.Password)
	}

	start := time.Now()
	httpResp, err := t.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request %s %s: %w", r.Method, r.Path, err)
	}
	defer func() { _ = httpResp.Body.Close() }()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	t.logger.Debug("jira request",
		"method", r.Method,
		"path", r.Path,
		"status", httpResp.StatusCode,
		"elapsed", time.Since(start),
	)

	resp := &Response{
		OK:     httpResp.StatusCode >= 200 && httpResp.StatusCode < 300,
		Status: httpResp.StatusCode,
		Body:   body,
	}

	switch {
	case httpResp.StatusCode == http.StatusUnauthorized:
		resp.AddError("authentication failed (401): check the username and password for %s", t.host)
	case !resp.OK:
		if msg := resp.ServerMessage(); msg != "" {
			resp.AddError("jira API error (%d) on %s %s: %s", resp.Status, r.Method, r.Path, msg)
		}
	}

	return resp, nil
}

// normalizeHost strips a scheme, path and trailing slash from a configured
// server address.
func normalizeHost(host string) string {
	host = strings.TrimSpace(host)
	host = strings.TrimPrefix(host, "https://")
	host = strings.TrimPrefix(host, "http://")
	if i := strings.IndexByte(host, '/'); i >= 0 {
		host = host[:i]
	}
	return host
}
