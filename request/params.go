package request

import (
	"net/url"
	"time"
)

// BodyType selects the request body encoding.
type BodyType string

const (
	// BodyTypeAuto infers the encoding from the target URL.
	BodyTypeAuto BodyType = ""
	// BodyTypeJSON encodes the body as a JSON document.
	BodyTypeJSON BodyType = "json"
	// BodyTypeForm encodes the body as application/x-www-form-urlencoded.
	BodyTypeForm BodyType = "url-encoded"
	// BodyTypeMultipart encodes the body as multipart/form-data.
	BodyTypeMultipart BodyType = "multipart"
	// BodyTypeRaw sends the body bytes unmodified.
	BodyTypeRaw BodyType = "raw"
)

// Params describes one API call. A value is constructed per call,
// consumed once by Builder.Build, and never mutated by the library.
type Params struct {
	// URL is the target, either absolute or scheme-less
	// (https:// is assumed when missing).
	URL string

	// Method is the HTTP method. Case-insensitive; defaults to GET.
	Method string

	// Query holds query parameters. Values may be strings, booleans,
	// numbers, or string slices (joined with commas, per the Twitter
	// API convention). Nil values are omitted.
	Query map[string]any

	// Body holds body fields, same value rules as Query. Nil-valued
	// keys are stripped before encoding. Ignored when RawBody is set.
	Body map[string]any

	// RawBody, when non-nil, is sent as-is: no trimming, no encoding,
	// only Content-Length is computed.
	RawBody []byte

	// Headers are per-call header overrides.
	Headers map[string]string

	// BodyType forces a body encoding. The zero value means: infer
	// from the target URL.
	BodyType BodyType

	// PathParams substitutes :name placeholders in the URL path.
	PathParams map[string]string

	// NoAuth skips authentication for this call even when the client
	// holds credentials.
	NoAuth bool

	// Timeout overrides the client-wide timeout for one-shot calls.
	// Ignored for streaming calls.
	Timeout time.Duration

	// DisableCompression turns off response compression for this call.
	DisableCompression bool

	// DisableRateLimitTracking skips recording the endpoint's
	// rate-limit snapshot after the call completes.
	DisableRateLimitTracking bool

	// NoAutoConnect returns streaming calls unconnected so the caller
	// can connect later. One-shot calls ignore it.
	NoAutoConnect bool
}

// Descriptor is a fully resolved request, produced once per call and
// immutable afterwards.
type Descriptor struct {
	// RawURL is origin + path with the query stripped and any :name
	// placeholders left in place. It identifies the endpoint's
	// rate-limit bucket.
	RawURL string

	// URL is the resolved target including query parameters.
	URL *url.URL

	// Method is the uppercased HTTP method.
	Method string

	// Headers is the final header set. It contains at most one
	// Authorization entry plus content headers.
	Headers map[string]string

	// Body is the encoded request body, or nil when the request
	// carries none.
	Body []byte
}
