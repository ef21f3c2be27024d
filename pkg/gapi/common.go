package gapi

import (
	"net/url"
	"strings"
)

// NormalizeDomain reduces a domain, URL, or hostname to a canonical
// comparison form: scheme and "www." prefix stripped, trailing slash
// removed, lowercased.
//
//	NormalizeDomain("https://www.Example.com/") == "example.com"
//	NormalizeDomain("example.com/shop")         == "example.com/shop"
func NormalizeDomain(domainOrURL string) string {
	s := strings.TrimSpace(domainOrURL)
	if s == "" {
		return ""
	}
	if i := strings.Index(s, "://"); i >= 0 {
		s = s[i+3:]
	}
	s = strings.TrimPrefix(s, "www.")
	s = strings.TrimRight(s, "/")
	return strings.ToLower(s)
}

// URLEncode percent-encodes a string for use in a URL path or query.
// This is a convenience wrapper around [url.QueryEscape].
func URLEncode(s string) string { return url.QueryEscape(s) }
