package twitterkit

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/kbukum/twitterkit/credentials"
	"github.com/kbukum/twitterkit/logger"
	"github.com/kbukum/twitterkit/ratelimit"
	"github.com/kbukum/twitterkit/request"
	"github.com/kbukum/twitterkit/resilience"
	"github.com/kbukum/twitterkit/stream"
	"github.com/kbukum/twitterkit/transport"
	"github.com/kbukum/twitterkit/v1"
	"github.com/kbukum/twitterkit/v2"
)

const oauth2TokenURL = "https://api.twitter.com/oauth2/token"

// Config configures a Client.
type Config struct {
	// Credentials select the authentication strategy. The zero value
	// yields an unauthenticated client.
	Credentials credentials.Config

	// HTTPClient performs one-shot exchanges. Streaming connections
	// use their own HTTP/2-tuned client unless this is set.
	HTTPClient *http.Client

	// Timeout is the default per-call timeout for one-shot requests.
	// Streaming connections are not subject to it. Defaults to 30s.
	Timeout time.Duration

	// DisableCompression turns off response compression for every
	// call made by this client.
	DisableCompression bool

	// UserAgent overrides the default x-user-agent header value.
	UserAgent string

	// StreamReconnect configures streaming reconnect backoff. The
	// zero value uses resilience.DefaultConfig.
	StreamReconnect resilience.Config

	// Logger receives debug-level request and stream lifecycle
	// events. Defaults to a no-op logger.
	Logger *logger.Logger
}

// ApplyDefaults fills unset fields with defaults.
func (c *Config) ApplyDefaults() {
	if c.Logger == nil {
		c.Logger = logger.Nop()
	}
}

// Validate reports configuration errors.
func (c *Config) Validate() error {
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative")
	}
	return nil
}

// Client is the API entry point. A Client is immutable and safe for
// concurrent use; credential rotation produces a new Client.
type Client struct {
	cfg     Config
	creds   *credentials.Set
	builder *request.Builder
	exec    *transport.Executor
	limits  *ratelimit.Store

	// overridable for tests
	tokenURL string
}

// New creates a Client. Credential options allow injecting the clock,
// nonce source, or signer used for OAuth1 signing.
func New(cfg Config, credOpts ...credentials.Option) (*Client, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid client config: %w", err)
	}
	set, err := credentials.New(cfg.Credentials, credOpts...)
	if err != nil {
		return nil, err
	}
	return newWithSet(cfg, set, ratelimit.NewStore()), nil
}

// NewFromEnv creates a Client with credentials read from TWITTER_*
// environment variables (and a .env file when present).
func NewFromEnv(cfg Config) (*Client, error) {
	cfg.Credentials = credentials.FromEnv()
	return New(cfg)
}

func newWithSet(cfg Config, set *credentials.Set, limits *ratelimit.Store) *Client {
	builderOpts := []request.BuilderOption{request.WithAuthorizer(set)}
	if cfg.UserAgent != "" {
		builderOpts = append(builderOpts, request.WithUserAgent(cfg.UserAgent))
	}
	return &Client{
		cfg:     cfg,
		creds:   set,
		builder: request.NewBuilder(builderOpts...),
		exec: transport.NewExecutor(transport.Config{
			HTTPClient:         cfg.HTTPClient,
			Timeout:            cfg.Timeout,
			DisableCompression: cfg.DisableCompression,
			Logger:             cfg.Logger,
		}),
		limits:   limits,
		tokenURL: oauth2TokenURL,
	}
}

// Strategy reports the authentication strategy the client resolved
// from its credentials.
func (c *Client) Strategy() credentials.Strategy {
	return c.creds.Strategy()
}

// WithBearerToken returns a new Client authenticating with the given
// bearer token. The rate-limit store is shared with the receiver.
func (c *Client) WithBearerToken(token string) (*Client, error) {
	set, err := c.creds.WithBearerToken(token)
	if err != nil {
		return nil, err
	}
	return newWithSet(c.cfg, set, c.limits), nil
}

// RateLimit returns the most recent rate-limit snapshot recorded for
// an endpoint. The key is the endpoint's URL without query parameters
// and with :name placeholders unexpanded.
func (c *Client) RateLimit(key string) (ratelimit.Snapshot, bool) {
	return c.limits.Get(key)
}

// Send builds, signs, and executes a one-shot request.
func (c *Client) Send(ctx context.Context, p request.Params) (*transport.Response, error) {
	d, err := c.builder.Build(p)
	if err != nil {
		return nil, err
	}
	opts := transport.Options{
		Timeout:            p.Timeout,
		DisableCompression: p.DisableCompression,
	}
	if !p.DisableRateLimitTracking {
		opts.OnRateLimit = c.limits.Save
	}
	return c.exec.Execute(ctx, d, opts)
}

// SendStream builds and signs a streaming request and returns a
// Stream consuming it. The stream is connected before returning
// unless NoAutoConnect is set.
func (c *Client) SendStream(ctx context.Context, p request.Params) (*stream.Stream, error) {
	d, err := c.builder.Build(p)
	if err != nil {
		return nil, err
	}
	cfg := stream.Config{
		Descriptor: d,
		HTTPClient: c.cfg.HTTPClient,
		Reconnect:  c.cfg.StreamReconnect,
		Logger:     c.cfg.Logger,
	}
	if !p.DisableRateLimitTracking {
		cfg.OnRateLimit = c.limits.Save
	}
	s := stream.New(cfg)
	if p.NoAutoConnect {
		return s, nil
	}
	if err := s.Connect(ctx); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

// AppLogin exchanges the client's app credentials for an OAuth2
// bearer token and returns a new Client authenticating with it. It
// requires a basic token, an OAuth2 client pair, or an OAuth1
// consumer pair.
func (c *Client) AppLogin(ctx context.Context) (*Client, error) {
	basic, err := c.creds.BasicAuthorization()
	if err != nil {
		return nil, err
	}
	resp, err := c.Send(ctx, request.Params{
		URL:      c.tokenURL,
		Method:   http.MethodPost,
		Body:     map[string]any{"grant_type": "client_credentials"},
		BodyType: request.BodyTypeForm,
		NoAuth:   true,
		Headers:  map[string]string{"Authorization": basic},
	})
	if err != nil {
		return nil, fmt.Errorf("bearer token exchange: %w", err)
	}
	var token struct {
		TokenType   string `json:"token_type"`
		AccessToken string `json:"access_token"`
	}
	if err := resp.DecodeJSON(&token); err != nil {
		return nil, fmt.Errorf("bearer token exchange: %w", err)
	}
	if token.AccessToken == "" {
		return nil, fmt.Errorf("bearer token exchange: empty access_token in response")
	}
	return c.WithBearerToken(token.AccessToken)
}

// V1 returns the typed v1.1 API surface.
func (c *Client) V1() *v1.Client {
	return v1.New(c)
}

// V2 returns the typed v2 API surface.
func (c *Client) V2() *v2.Client {
	return v2.New(c)
}
