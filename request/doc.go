// Package request turns an abstract description of a Twitter API call
// into a fully resolved, ready-to-send request descriptor.
//
// The Builder owns the whole construction pipeline: URL resolution and
// path-parameter substitution, query normalization, body-encoding
// detection and serialization (JSON, url-encoded, multipart, or raw
// bytes), and authentication header computation via a pluggable
// Authorizer. Construction is synchronous and performs no I/O; a
// descriptor either comes back complete or not at all.
//
// The descriptor's RawURL (origin + path, query stripped, path
// placeholders unexpanded) doubles as the rate-limit bucket key: all
// calls to one logical endpoint share it regardless of query, body,
// or substituted path values.
package request
