package request

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/kbukum/twitterkit/version"
)

// Authorizer produces authentication headers for a request. fullURL
// includes the resolved query string; data is the parameter set an
// OAuth1 signature covers (query alone, or query merged with the body
// for form-encoded body-carrying requests). Strategies that do not
// sign ignore data.
type Authorizer interface {
	AuthHeaders(method, fullURL string, data map[string]string) (map[string]string, error)
}

// Builder turns Params into Descriptors. A Builder is immutable and
// safe for concurrent use.
type Builder struct {
	auth      Authorizer
	userAgent string
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithAuthorizer sets the authentication strategy. A nil authorizer
// leaves requests unauthenticated.
func WithAuthorizer(a Authorizer) BuilderOption {
	return func(b *Builder) { b.auth = a }
}

// WithUserAgent overrides the default x-user-agent header value.
func WithUserAgent(ua string) BuilderOption {
	return func(b *Builder) { b.userAgent = ua }
}

// NewBuilder creates a Builder.
func NewBuilder(opts ...BuilderOption) *Builder {
	b := &Builder{userAgent: version.UserAgent()}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build resolves the URL, computes authentication headers, and
// encodes the body.
//
// The step ordering matters: auth headers are computed from the
// pre-encoding query and body values (an OAuth1 signature covers
// logical parameters, not wire bytes), and the body is serialized
// only afterwards so encoding can set content headers without
// affecting the signed material.
func (b *Builder) Build(p Params) (*Descriptor, error) {
	method := strings.ToUpper(p.Method)
	if method == "" {
		method = "GET"
	}

	headers := make(map[string]string, len(p.Headers)+4)
	for k, v := range p.Headers {
		headers[k] = v
	}
	if !headerPresent(headers, "x-user-agent") {
		headers["x-user-agent"] = b.userAgent
	}

	target := p.URL
	if target == "" {
		return nil, fmt.Errorf("missing request URL")
	}
	if !strings.Contains(target, "://") {
		target = "https://" + target
	}
	u, err := url.Parse(target)
	if err != nil {
		return nil, fmt.Errorf("parse request URL: %w", err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("request URL %q has no host", p.URL)
	}

	// The bucket key keeps :name placeholders unexpanded so every
	// call to the endpoint shares one rate-limit bucket.
	rawURL := u.Scheme + "://" + u.Host + u.Path

	if len(p.PathParams) > 0 {
		u.Path = substitutePathParams(u.Path, p.PathParams)
	}

	query, err := FormatQuery(p.Query)
	if err != nil {
		return nil, err
	}
	merged := u.Query()
	for k, v := range query {
		merged.Set(k, v)
	}
	u.RawQuery = merged.Encode()

	var body map[string]any
	if p.RawBody == nil {
		body = TrimNil(p.Body)
	}

	bodyType := p.BodyType
	if p.RawBody != nil {
		bodyType = BodyTypeRaw
	} else if bodyType == BodyTypeAuto {
		bodyType = DetectBodyType(u)
	}

	if !p.NoAuth && b.auth != nil {
		data := query
		if bodyCarrying(method) && bodyType == BodyTypeForm {
			formBody, err := formatBody(body)
			if err != nil {
				return nil, err
			}
			data = mergeForSignature(query, formBody)
		}
		authHeaders, err := b.auth.AuthHeaders(method, u.String(), data)
		if err != nil {
			return nil, err
		}
		for k, v := range authHeaders {
			headers[k] = v
		}
	}

	var encoded []byte
	if bodyCarrying(method) {
		encoded, err = EncodeBody(body, p.RawBody, headers, bodyType)
		if err != nil {
			return nil, err
		}
	}

	return &Descriptor{
		RawURL:  rawURL,
		URL:     u,
		Method:  method,
		Headers: headers,
		Body:    encoded,
	}, nil
}

// bodyCarrying reports whether the HTTP method's semantics include a
// request body.
func bodyCarrying(method string) bool {
	switch method {
	case "POST", "PUT", "PATCH":
		return true
	default:
		return false
	}
}

// substitutePathParams replaces :name path segments with their
// escaped values. Unmatched placeholders are left in place.
func substitutePathParams(path string, params map[string]string) string {
	segments := strings.Split(path, "/")
	for i, seg := range segments {
		if !strings.HasPrefix(seg, ":") {
			continue
		}
		if v, ok := params[seg[1:]]; ok {
			segments[i] = url.PathEscape(v)
		}
	}
	return strings.Join(segments, "/")
}

// formatBody stringifies body fields for OAuth1 signature data.
func formatBody(body map[string]any) (map[string]string, error) {
	out := make(map[string]string, len(body))
	for k, v := range body {
		s, err := formatValue(k, v)
		if err != nil {
			return nil, err
		}
		out[k] = s
	}
	return out, nil
}
