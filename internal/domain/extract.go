// Package domain normalizes URLs into the hostname key that usage time
// is aggregated under.
package domain

import (
	"net/url"
	"strings"
)

// Extract parses rawURL and returns its normalized domain: the hostname
// lowercased, with a single leading "www." stripped. It returns "" for
// anything that has no usable host — malformed input, about:/chrome:
// style internal pages, file URLs. An empty result is a filtered case,
// not an error.
func Extract(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	// chrome:, about:, file: and friends carry no usage-countable domain.
	switch u.Scheme {
	case "http", "https":
	default:
		return ""
	}
	host := strings.ToLower(u.Hostname())
	if host == "" {
		return ""
	}
	return strings.TrimPrefix(host, "www.")
}
