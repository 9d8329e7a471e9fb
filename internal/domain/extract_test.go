package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		expected string
	}{
		{"plain host", "https://example.com/page", "example.com"},
		{"www stripped", "https://www.example.com/page", "example.com"},
		{"only one www stripped", "https://www.www.example.com", "www.example.com"},
		{"subdomain kept", "https://blog.example.com/post/1", "blog.example.com"},
		{"uppercase host lowered", "https://WWW.Example.COM/A", "example.com"},
		{"port ignored", "http://example.com:8080/x", "example.com"},
		{"query and fragment ignored", "https://example.com/a?b=c#d", "example.com"},
		{"http scheme", "http://github.com", "github.com"},
		{"about page", "about:blank", ""},
		{"chrome internal page", "chrome://settings", ""},
		{"file url", "file:///tmp/x.html", ""},
		{"empty string", "", ""},
		{"no scheme no host", "not a url at all", ""},
		{"malformed", "http://%zz", ""},
		{"scheme only", "https://", ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Extract(tc.url))
		})
	}
}

func TestExtract_Idempotent(t *testing.T) {
	// Re-wrapping an extracted domain in a URL and extracting again must
	// yield the same domain.
	for _, u := range []string{
		"https://www.example.com/a",
		"https://news.ycombinator.com/item?id=1",
		"http://example.com:443/",
	} {
		first := Extract(u)
		second := Extract("https://" + first + "/")
		assert.Equal(t, first, second, "idempotency for %s", u)
	}
}
