package credentials

import (
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// oauth1Header assembles a complete OAuth 1.0a Authorization header
// for (method, fullURL, data) per RFC 5849. The base string covers
// the oauth_* protocol parameters, the URL's query parameters, and
// data; the HMAC-SHA1 signature itself comes from the configured
// signer.
func (s *Set) oauth1Header(method, fullURL string, data map[string]string) (string, error) {
	u, err := url.Parse(fullURL)
	if err != nil {
		return "", fmt.Errorf("oauth1: parse URL: %w", err)
	}
	baseURL := u.Scheme + "://" + u.Host + u.Path

	oauthParams := map[string]string{
		"oauth_consumer_key":     s.cfg.ConsumerKey,
		"oauth_nonce":            s.nonce(),
		"oauth_signature_method": s.signer.Name(),
		"oauth_timestamp":        strconv.FormatInt(s.now().Unix(), 10),
		"oauth_version":          "1.0",
	}
	if s.cfg.AccessToken != "" {
		oauthParams["oauth_token"] = s.cfg.AccessToken
	}

	// Query parameters appear both in the URL and, possibly, in data.
	// The merge is harmless: identical pairs collapse.
	all := make(map[string]string, len(oauthParams)+len(data)+4)
	for k, vs := range u.Query() {
		if len(vs) > 0 {
			all[k] = vs[0]
		}
	}
	for k, v := range data {
		all[k] = v
	}
	for k, v := range oauthParams {
		all[k] = v
	}

	base := signatureBase(method, baseURL, all)
	signature, err := s.signer.Sign(s.cfg.AccessSecret, base)
	if err != nil {
		return "", fmt.Errorf("oauth1: sign request: %w", err)
	}
	oauthParams["oauth_signature"] = signature

	return authorizationHeader(oauthParams), nil
}

// signatureBase builds the RFC 5849 signature base string:
// METHOD&enc(baseURL)&enc(sorted parameter string).
func signatureBase(method, baseURL string, params map[string]string) string {
	pairs := make([]string, 0, len(params))
	for k, v := range params {
		pairs = append(pairs, percentEncode(k)+"="+percentEncode(v))
	}
	sort.Strings(pairs)
	paramString := strings.Join(pairs, "&")

	return strings.ToUpper(method) + "&" + percentEncode(baseURL) + "&" + percentEncode(paramString)
}

// authorizationHeader renders the oauth_* parameters as an OAuth
// scheme header with sorted, percent-encoded, quoted values.
func authorizationHeader(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString("OAuth ")
	for i, k := range keys {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(percentEncode(k))
		b.WriteString(`="`)
		b.WriteString(percentEncode(params[k]))
		b.WriteString(`"`)
	}
	return b.String()
}

// percentEncode applies RFC 3986 encoding: like query escaping but
// with spaces as %20.
func percentEncode(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
