package credentials

import (
	"encoding/base64"
	"fmt"
	"sync"
	"time"

	"github.com/dghubble/oauth1"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// Strategy identifies the authentication scheme a Set resolves to.
type Strategy int

const (
	// StrategyNone sends requests unauthenticated.
	StrategyNone Strategy = iota
	// StrategyBearer sends Authorization: Bearer <token>.
	StrategyBearer
	// StrategyBasic sends a pre-encoded Authorization: Basic <token>.
	StrategyBasic
	// StrategyClientCredentials sends Basic base64(client_id:client_secret),
	// used to exchange app credentials for a bearer token.
	StrategyClientCredentials
	// StrategyOAuth1 signs each request with an OAuth 1.0a header.
	StrategyOAuth1
)

// String returns the strategy name.
func (s Strategy) String() string {
	switch s {
	case StrategyBearer:
		return "bearer"
	case StrategyBasic:
		return "basic"
	case StrategyClientCredentials:
		return "client_credentials"
	case StrategyOAuth1:
		return "oauth1"
	default:
		return "none"
	}
}

// Config is the credential material a client may hold. Any subset is
// allowed; OAuth1 fields must come in pairs.
type Config struct {
	// BearerToken authenticates app-only (OAuth2) requests.
	BearerToken string `json:"bearer_token"`

	// BasicToken is a pre-encoded Basic credential, used when
	// exchanging credentials for a bearer token.
	BasicToken string `json:"basic_token"`

	// ClientID and ClientSecret drive the OAuth2 client-credentials
	// flow.
	ClientID     string `json:"client_id" validate:"required_with=ClientSecret"`
	ClientSecret string `json:"client_secret" validate:"required_with=ClientID"`

	// ConsumerKey and ConsumerSecret identify the application for
	// OAuth1 user-context requests.
	ConsumerKey    string `json:"consumer_key" validate:"required_with=ConsumerSecret AccessToken AccessSecret"`
	ConsumerSecret string `json:"consumer_secret" validate:"required_with=ConsumerKey AccessToken AccessSecret"`

	// AccessToken and AccessSecret bind OAuth1 requests to a user.
	// When absent, OAuth1 requests are signed two-legged.
	AccessToken  string `json:"access_token" validate:"required_with=AccessSecret"`
	AccessSecret string `json:"access_secret" validate:"required_with=AccessToken"`
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// Set is an immutable credential set bound to one authentication
// strategy. Safe for concurrent use.
type Set struct {
	cfg      Config
	strategy Strategy
	signer   oauth1.Signer
	now      func() time.Time
	nonce    func() string
}

// Option customizes a Set at construction time.
type Option func(*Set)

// WithClock overrides the timestamp source used for OAuth1 signing.
func WithClock(now func() time.Time) Option {
	return func(s *Set) { s.now = now }
}

// WithNonceSource overrides the nonce source used for OAuth1 signing.
func WithNonceSource(nonce func() string) Option {
	return func(s *Set) { s.nonce = nonce }
}

// WithSigner overrides the OAuth1 signature implementation.
func WithSigner(signer oauth1.Signer) Option {
	return func(s *Set) { s.signer = signer }
}

// New validates the configuration and builds an immutable Set.
// Incomplete OAuth1 material (a consumer key without its secret, or
// an access token without its secret) is a configuration error
// reported here, never at request time.
func New(cfg Config, opts ...Option) (*Set, error) {
	if err := getValidator().Struct(cfg); err != nil {
		return nil, fmt.Errorf("credentials: %w", err)
	}

	s := &Set{
		cfg:      cfg,
		strategy: resolveStrategy(cfg),
		now:      time.Now,
		nonce:    newNonce,
	}
	if s.strategy == StrategyOAuth1 {
		s.signer = &oauth1.HMACSigner{ConsumerSecret: cfg.ConsumerSecret}
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// resolveStrategy picks the authentication scheme by priority. First
// match wins; schemes are never combined.
func resolveStrategy(cfg Config) Strategy {
	switch {
	case cfg.BearerToken != "":
		return StrategyBearer
	case cfg.BasicToken != "":
		return StrategyBasic
	case cfg.ClientID != "" && cfg.ClientSecret != "":
		return StrategyClientCredentials
	case cfg.ConsumerKey != "" && cfg.ConsumerSecret != "":
		return StrategyOAuth1
	default:
		return StrategyNone
	}
}

// Strategy returns the scheme this set resolves to.
func (s *Set) Strategy() Strategy {
	return s.strategy
}

// WithBearerToken returns a new Set that authenticates with the given
// bearer token. The receiver is unchanged; this is the rotation path
// after a token exchange.
func (s *Set) WithBearerToken(token string) (*Set, error) {
	cfg := s.cfg
	cfg.BearerToken = token
	return New(cfg)
}

// AuthHeaders produces the Authorization header for one request.
// fullURL includes the query string; data is the parameter set an
// OAuth1 signature covers. Non-signing strategies ignore data.
func (s *Set) AuthHeaders(method, fullURL string, data map[string]string) (map[string]string, error) {
	switch s.strategy {
	case StrategyBearer:
		return map[string]string{"Authorization": "Bearer " + s.cfg.BearerToken}, nil
	case StrategyBasic:
		return map[string]string{"Authorization": "Basic " + s.cfg.BasicToken}, nil
	case StrategyClientCredentials:
		token := base64.StdEncoding.EncodeToString([]byte(s.cfg.ClientID + ":" + s.cfg.ClientSecret))
		return map[string]string{"Authorization": "Basic " + token}, nil
	case StrategyOAuth1:
		header, err := s.oauth1Header(method, fullURL, data)
		if err != nil {
			return nil, err
		}
		return map[string]string{"Authorization": header}, nil
	default:
		return map[string]string{}, nil
	}
}

// BasicAuthorization returns a Basic Authorization header value for
// the OAuth2 bearer-token exchange. Any app-identifying credential
// pair serves: a pre-encoded basic token, an OAuth2 client pair, or
// an OAuth1 consumer pair.
func (s *Set) BasicAuthorization() (string, error) {
	switch {
	case s.cfg.BasicToken != "":
		return "Basic " + s.cfg.BasicToken, nil
	case s.cfg.ClientID != "":
		return "Basic " + base64.StdEncoding.EncodeToString([]byte(s.cfg.ClientID+":"+s.cfg.ClientSecret)), nil
	case s.cfg.ConsumerKey != "":
		return "Basic " + base64.StdEncoding.EncodeToString([]byte(s.cfg.ConsumerKey+":"+s.cfg.ConsumerSecret)), nil
	default:
		return "", fmt.Errorf("bearer token exchange needs a basic token, client pair, or consumer pair")
	}
}

// newNonce produces an OAuth1 nonce.
func newNonce() string {
	u := uuid.New()
	return base64.RawURLEncoding.EncodeToString(u[:])
}
