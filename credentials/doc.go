// Package credentials holds the authentication material of a client
// and selects the single authentication scheme each request uses.
//
// A Set is an immutable value constructed once; rotating a credential
// (for example swapping an app-only bearer token) means building a new
// Set, never mutating one shared by in-flight requests.
//
// Exactly one scheme applies per request, chosen by priority:
// bearer token, then basic token, then OAuth2 client credentials,
// then OAuth1 user context. OAuth1 signature base strings are
// assembled here; the HMAC-SHA1 computation itself is delegated to
// the dghubble/oauth1 signer.
package credentials
