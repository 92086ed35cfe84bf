// Package stream consumes the long-lived streaming endpoints
// (filtered and sampled tweet streams).
//
// A Stream is constructed from a complete, reusable request
// descriptor: the exact request is re-issued on every reconnect, so
// descriptor construction happens once and the connection machinery
// never touches authentication. Payloads arrive on Messages();
// in-band error payloads and terminal connection failures arrive on
// Errors().
package stream

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"golang.org/x/net/http2"

	"github.com/kbukum/twitterkit/logger"
	"github.com/kbukum/twitterkit/ratelimit"
	"github.com/kbukum/twitterkit/request"
	"github.com/kbukum/twitterkit/resilience"
	"github.com/kbukum/twitterkit/transport"
)

// Config configures a Stream.
type Config struct {
	// Descriptor is the fully built request the stream (re)issues.
	// Required.
	Descriptor *request.Descriptor

	// HTTPClient performs the connection. Defaults to a client with
	// no overall timeout and HTTP/2 read-idle pings enabled.
	HTTPClient *http.Client

	// PayloadIsError decides whether a payload line is an in-band
	// error rather than data. Defaults to DefaultPayloadIsError.
	PayloadIsError func(payload []byte) bool

	// RateLimitKey is the endpoint bucket key for the rate-limit
	// hook. Defaults to the descriptor's RawURL.
	RateLimitKey string

	// OnRateLimit receives the quota snapshot parsed from the
	// connection response headers.
	OnRateLimit func(key string, snap ratelimit.Snapshot)

	// Reconnect configures the backoff used to re-dial after the
	// connection drops. The zero value uses resilience.DefaultConfig()
	// (unlimited attempts, capped exponential backoff); a partially
	// set config keeps the fields the caller set.
	Reconnect resilience.Config

	// Logger receives connection lifecycle events. Defaults to a
	// no-op logger.
	Logger *logger.Logger
}

// DefaultPayloadIsError reports whether a payload is an in-band error:
// an object carrying an errors member without any data.
func DefaultPayloadIsError(payload []byte) bool {
	var probe struct {
		Errors json.RawMessage `json:"errors"`
		Data   json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(payload, &probe); err != nil {
		return false
	}
	return len(probe.Errors) > 0 && len(probe.Data) == 0
}

// InBandError is an error payload delivered over an otherwise healthy
// connection.
type InBandError struct {
	Payload []byte
}

func (e *InBandError) Error() string {
	return fmt.Sprintf("stream: in-band error payload: %s", e.Payload)
}

// Stream is a persistent streaming connection.
type Stream struct {
	cfg    Config
	client *http.Client
	log    *logger.Logger

	messages chan json.RawMessage
	errs     chan error

	mu        sync.Mutex
	connected bool
	closed    bool
	cancel    context.CancelFunc
	reader    *lineReader
}

// New creates an unconnected Stream. Call Connect to start it.
func New(cfg Config) *Stream {
	client := cfg.HTTPClient
	if client == nil {
		client = defaultHTTPClient()
	}
	log := cfg.Logger
	if log == nil {
		log = logger.Nop()
	}
	if cfg.PayloadIsError == nil {
		cfg.PayloadIsError = DefaultPayloadIsError
	}
	if cfg.RateLimitKey == "" && cfg.Descriptor != nil {
		cfg.RateLimitKey = cfg.Descriptor.RawURL
	}
	if zeroReconnect(cfg.Reconnect) {
		cfg.Reconnect = resilience.DefaultConfig()
	}
	return &Stream{
		cfg:      cfg,
		client:   client,
		log:      log.WithComponent("stream"),
		messages: make(chan json.RawMessage),
		errs:     make(chan error, 1),
	}
}

// zeroReconnect reports whether the caller left the reconnect config
// entirely unset. A partially set config is kept as-is; resilience.Do
// fills the remaining fields per call.
func zeroReconnect(c resilience.Config) bool {
	return c.MaxAttempts == 0 &&
		c.InitialBackoff == 0 &&
		c.MaxBackoff == 0 &&
		c.Factor == 0 &&
		c.Jitter == 0 &&
		c.RetryIf == nil &&
		c.OnRetry == nil
}

// defaultHTTPClient builds a client suitable for connections that
// stay open for hours: no overall timeout, and HTTP/2 read-idle pings
// so a half-dead connection fails instead of hanging forever.
func defaultHTTPClient() *http.Client {
	tr := &http.Transport{
		TLSClientConfig: &tls.Config{MinVersion: tls.VersionTLS12},
	}
	if h2, err := http2.ConfigureTransports(tr); err == nil {
		h2.ReadIdleTimeout = 30 * time.Second
		h2.PingTimeout = 10 * time.Second
	}
	return &http.Client{Transport: tr}
}

// Messages returns the channel of data payloads. It is closed when
// the stream terminates.
func (s *Stream) Messages() <-chan json.RawMessage {
	return s.messages
}

// Errors returns the channel of in-band error payloads and terminal
// connection failures.
func (s *Stream) Errors() <-chan error {
	return s.errs
}

// Connected reports whether the stream currently holds a connection.
func (s *Stream) Connected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.connected
}

// Connect dials the streaming endpoint and starts delivering
// payloads. The initial dial's error is returned synchronously;
// later drops are handled by the reconnect loop.
func (s *Stream) Connect(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return fmt.Errorf("stream: already closed")
	}
	if s.connected {
		s.mu.Unlock()
		return fmt.Errorf("stream: already connected")
	}
	s.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	if err := s.dial(ctx); err != nil {
		cancel()
		return err
	}

	s.mu.Lock()
	s.connected = true
	s.cancel = cancel
	s.mu.Unlock()

	go s.readLoop(ctx)
	return nil
}

// Close tears the connection down and closes the message channel.
// Safe to call more than once.
func (s *Stream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	s.connected = false
	if s.cancel != nil {
		s.cancel()
	}
	if s.reader != nil {
		_ = s.reader.Close()
	}
	return nil
}

// dial issues the descriptor's request and installs the payload
// reader on success.
func (s *Stream) dial(ctx context.Context) error {
	d := s.cfg.Descriptor
	if d == nil {
		return fmt.Errorf("stream: missing request descriptor")
	}

	var body io.Reader
	if d.Body != nil {
		body = bytes.NewReader(d.Body)
	}
	httpReq, err := http.NewRequestWithContext(ctx, d.Method, d.URL.String(), body)
	if err != nil {
		return transport.NewConnectionError(err)
	}
	for k, v := range d.Headers {
		httpReq.Header.Set(k, v)
	}

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return transport.NewConnectionError(err)
	}

	if snap, ok := ratelimit.FromHeaders(resp.Header); ok && s.cfg.OnRateLimit != nil {
		s.cfg.OnRateLimit(s.cfg.RateLimitKey, snap)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		errBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
		_ = resp.Body.Close()
		return transport.ClassifyStatus(resp.StatusCode, errBody)
	}

	s.mu.Lock()
	if s.reader != nil {
		_ = s.reader.Close()
	}
	s.reader = newLineReader(resp.Body)
	s.mu.Unlock()

	s.log.Debug().Str("endpoint", d.RawURL).Msg("stream connected")
	return nil
}

// readLoop pumps payloads until the stream is closed or reconnection
// fails terminally.
func (s *Stream) readLoop(ctx context.Context) {
	defer close(s.messages)
	defer func() {
		s.mu.Lock()
		s.connected = false
		s.mu.Unlock()
	}()

	for {
		s.mu.Lock()
		reader := s.reader
		s.mu.Unlock()

		line, err := reader.Next()
		if err != nil {
			if ctx.Err() != nil || s.isClosed() {
				return
			}
			s.log.Debug().Err(err).Msg("stream dropped, reconnecting")
			// Non-retryable responses (auth failures, bad requests)
			// end the stream; everything else backs off and re-dials
			// the identical descriptor.
			reconnect := s.cfg.Reconnect
			if reconnect.RetryIf == nil {
				reconnect.RetryIf = reconnectable
			}
			if dialErr := resilience.Do(ctx, reconnect, func() error { return s.dial(ctx) }); dialErr != nil {
				if ctx.Err() == nil && !s.isClosed() {
					s.deliverError(ctx, dialErr)
				}
				return
			}
			continue
		}

		if s.cfg.PayloadIsError(line) {
			s.deliverError(ctx, &InBandError{Payload: line})
			continue
		}

		select {
		case s.messages <- json.RawMessage(line):
		case <-ctx.Done():
			return
		}
	}
}

// reconnectable permits re-dialing for connection-level failures and
// retryable API errors only.
func reconnectable(err error) bool {
	var te *transport.Error
	if errors.As(err, &te) {
		return te.Retryable || te.Code == transport.ErrCodeConnection || te.Code == transport.ErrCodeTimeout
	}
	return true
}

func (s *Stream) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func (s *Stream) deliverError(ctx context.Context, err error) {
	select {
	case s.errs <- err:
	case <-ctx.Done():
	}
}
