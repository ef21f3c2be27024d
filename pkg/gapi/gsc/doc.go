// Package gsc provides a client for the Google Search Console API.
//
// Site URLs come in two forms: URL-prefix properties ("https://example.com/")
// and domain properties ("sc-domain:example.com"). Both are accepted wherever
// a site URL is expected.
package gsc
