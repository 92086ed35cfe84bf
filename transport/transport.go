// Package transport executes request descriptors against the network.
//
// The executor is deliberately dumb: it performs one HTTP exchange
// per call, reports the endpoint's rate-limit state through a
// side-channel hook, and classifies failures into typed errors. It
// never retries; resilience belongs to the caller.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/twitterkit/logger"
	"github.com/kbukum/twitterkit/ratelimit"
	"github.com/kbukum/twitterkit/request"
)

const (
	instrumentationName = "github.com/kbukum/twitterkit/transport"
	defaultTimeout      = 30 * time.Second
)

// Config configures the executor.
type Config struct {
	// HTTPClient performs the exchanges. Defaults to a plain
	// http.Client; the client's own Timeout is left untouched so the
	// per-call timeout below governs.
	HTTPClient *http.Client

	// Timeout is the default per-call timeout. Defaults to 30s.
	Timeout time.Duration

	// DisableCompression turns off response compression for all
	// calls made through this executor.
	DisableCompression bool

	// Logger receives debug-level request lifecycle events.
	// Defaults to a no-op logger.
	Logger *logger.Logger
}

// Options are per-call execution options.
type Options struct {
	// Timeout overrides the executor default for this call.
	Timeout time.Duration

	// DisableCompression turns off response compression for this call.
	DisableCompression bool

	// RateLimitKey is the endpoint bucket key for the rate-limit
	// hook. Defaults to the descriptor's RawURL.
	RateLimitKey string

	// OnRateLimit, when set, is invoked with the endpoint key and the
	// snapshot parsed from the response headers. It runs on both
	// success and API-error responses.
	OnRateLimit func(key string, snap ratelimit.Snapshot)
}

// Response is the result of one executed request.
type Response struct {
	// StatusCode is the HTTP status code.
	StatusCode int
	// Headers are the response headers.
	Headers http.Header
	// Body is the full response body.
	Body []byte
	// RateLimit is the endpoint quota reported by this response, when
	// present.
	RateLimit *ratelimit.Snapshot
}

// IsSuccess reports whether the status code is 2xx.
func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// DecodeJSON unmarshals the response body into out.
func (r *Response) DecodeJSON(out any) error {
	return json.Unmarshal(r.Body, out)
}

// Executor performs one-shot HTTP exchanges for request descriptors.
type Executor struct {
	client             *http.Client
	timeout            time.Duration
	disableCompression bool
	log                *logger.Logger

	tracer   trace.Tracer
	requests metric.Int64Counter
	duration metric.Float64Histogram
}

// NewExecutor creates an executor.
func NewExecutor(cfg Config) *Executor {
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{}
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	log := cfg.Logger
	if log == nil {
		log = logger.Nop()
	}

	meter := otel.Meter(instrumentationName)
	requests, _ := meter.Int64Counter("twitterkit.requests",
		metric.WithDescription("Completed API requests by endpoint and status"))
	duration, _ := meter.Float64Histogram("twitterkit.request.duration",
		metric.WithDescription("API request duration in seconds"),
		metric.WithUnit("s"))

	return &Executor{
		client:             client,
		timeout:            timeout,
		disableCompression: cfg.DisableCompression,
		log:                log.WithComponent("transport"),
		tracer:             otel.Tracer(instrumentationName),
		requests:           requests,
		duration:           duration,
	}
}

// Execute performs the exchange described by d. A non-2xx response
// returns both the parsed Response and a typed *Error; the rate-limit
// hook fires in either case when the response carries quota headers.
func (e *Executor) Execute(ctx context.Context, d *request.Descriptor, opts Options) (*Response, error) {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = e.timeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ctx, span := e.tracer.Start(ctx, "twitterkit.request",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", d.Method),
			attribute.String("twitterkit.endpoint", d.RawURL),
		))
	defer span.End()

	start := time.Now()
	resp, err := e.exchange(ctx, d, opts)
	elapsed := time.Since(start).Seconds()

	status := 0
	if resp != nil {
		status = resp.StatusCode
	}
	attrs := metric.WithAttributes(
		attribute.String("endpoint", d.RawURL),
		attribute.String("method", d.Method),
		attribute.Int("status", status),
	)
	e.requests.Add(ctx, 1, attrs)
	e.duration.Record(ctx, elapsed, attrs)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return resp, err
	}
	span.SetAttributes(attribute.Int("http.response.status_code", status))
	return resp, nil
}

// exchange performs the raw HTTP round trip plus response handling.
func (e *Executor) exchange(ctx context.Context, d *request.Descriptor, opts Options) (*Response, error) {
	var body io.Reader
	if d.Body != nil {
		body = bytes.NewReader(d.Body)
	}
	httpReq, err := http.NewRequestWithContext(ctx, d.Method, d.URL.String(), body)
	if err != nil {
		return nil, NewConnectionError(err)
	}
	for k, v := range d.Headers {
		httpReq.Header.Set(k, v)
	}
	if opts.DisableCompression || e.disableCompression {
		// An explicit Accept-Encoding suppresses the transparent gzip
		// negotiation in net/http.
		httpReq.Header.Set("Accept-Encoding", "identity")
	}

	httpResp, err := e.client.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return nil, NewTimeoutError(err)
		}
		return nil, NewConnectionError(err)
	}
	defer func() { _ = httpResp.Body.Close() }()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, NewConnectionError(err)
	}

	resp := &Response{
		StatusCode: httpResp.StatusCode,
		Headers:    httpResp.Header,
		Body:       respBody,
	}

	if snap, ok := ratelimit.FromHeaders(httpResp.Header); ok {
		resp.RateLimit = &snap
		if opts.OnRateLimit != nil {
			key := opts.RateLimitKey
			if key == "" {
				key = d.RawURL
			}
			opts.OnRateLimit(key, snap)
			e.log.Debug().
				Str("endpoint", key).
				Int("remaining", snap.Remaining).
				Int("limit", snap.Limit).
				Msg("rate limit updated")
		}
	}

	if classErr := ClassifyStatus(httpResp.StatusCode, respBody); classErr != nil {
		classErr.RateLimit = resp.RateLimit
		return resp, classErr
	}
	return resp, nil
}
