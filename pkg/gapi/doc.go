// Package gapi provides shared HTTP plumbing for the Google API clients.
//
// # Overview
//
// This package provides infrastructure used by all service clients
// (pkg/gapi/ga4, pkg/gapi/gsc, pkg/gapi/gmc):
//
//   - [Client]: authenticated JSON requests with automatic retry
//   - [StatusError]: upstream failures with their HTTP status attached
//   - Domain normalization helpers shared by the resolver
//
// # Retry
//
// Every request runs through the retry executor
// ([github.com/propscope/propscope/pkg/retry]): rate-limit and server-side
// statuses are retried with capped exponential backoff and jitter, anything
// else surfaces immediately. On exhaustion the original [StatusError] is
// returned unchanged, so callers handle the same failure shape as an
// unwrapped call.
//
// # Authentication
//
// Requests carry an OAuth bearer token obtained from a [TokenSource]. The
// token's scopes determine which services respond; propscope itself does
// not implement an OAuth flow.
package gapi
