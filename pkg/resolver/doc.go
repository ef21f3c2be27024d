// Package resolver maps human-friendly names to service identifiers.
//
// A query like "example.com" or "Example Shop" is resolved against the
// accounts visible to the authenticated user: a GA4 property, a Search
// Console site, or a Merchant Center account. Resolution walks a fixed
// ladder of strategies from exact domain comparison down to fuzzy name
// matching, and every result records which strategy produced it.
//
// Lookups are memoized in a caller-supplied TTL cache so repeated
// resolution of the same query does not refetch account listings.
package resolver
