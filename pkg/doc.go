// Package pkg provides the core libraries for propscope.
//
// # Overview
//
// Propscope maps human-friendly queries (domains, URLs, display names)
// to Google service identifiers and runs lookups against GA4, Search
// Console, and Merchant Center with caching and retry. The pkg
// directory is organized into five main areas:
//
//  1. [memocache] - TTL cache and function memoization
//  2. [retry] - Bounded exponential backoff for transient failures
//  3. [gapi] - Authenticated JSON clients for the Google APIs
//  4. [resolver] - Query-to-identifier resolution across services
//  5. [errors] / [observability] - Structured errors and hooks
//
// # Architecture
//
// The typical data flow through propscope:
//
//	CLI command / HTTP request
//	         ↓
//	    [resolver] package (match query to property/site/account)
//	         ↓
//	    [memocache] package (serve repeated lookups from cache)
//	         ↓
//	    [gapi] package (authenticated request, retried via [retry])
//	         ↓
//	    JSON rows + resolution metadata
//
// # Quick Start
//
// Resolve a domain to a GA4 property:
//
//	import (
//	    "context"
//	    "time"
//
//	    "github.com/propscope/propscope/pkg/gapi"
//	    "github.com/propscope/propscope/pkg/gapi/ga4"
//	    "github.com/propscope/propscope/pkg/gapi/gmc"
//	    "github.com/propscope/propscope/pkg/gapi/gsc"
//	    "github.com/propscope/propscope/pkg/memocache"
//	    "github.com/propscope/propscope/pkg/resolver"
//	    "github.com/propscope/propscope/pkg/retry"
//	)
//
//	func example(ctx context.Context) error {
//	    api := gapi.NewClient(gapi.StaticToken("token"), retry.DefaultConfig())
//	    cache, err := memocache.New(2048, 10*time.Minute)
//	    if err != nil {
//	        return err
//	    }
//	    res := resolver.New(cache, ga4.NewClient(api), gsc.NewClient(api), gmc.NewClient(api))
//
//	    match, cached, err := res.FindProperty(ctx, "example.com")
//	    if err != nil {
//	        return err
//	    }
//	    _ = match.PropertyID
//	    _ = cached
//	    return nil
//	}
package pkg
