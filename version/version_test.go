package version

import (
	"strings"
	"testing"
)

func TestUserAgent(t *testing.T) {
	ua := UserAgent()
	if !strings.HasPrefix(ua, "twitterkit-go/") {
		t.Errorf("got user agent %q, want twitterkit-go/ prefix", ua)
	}
}

func TestString_Override(t *testing.T) {
	orig := Version
	defer func() { Version = orig }()

	Version = "9.9.9"
	if got := String(); got != "9.9.9" {
		t.Errorf("got %q, want 9.9.9", got)
	}
}
