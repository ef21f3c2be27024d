// Package ga4 provides a client for the Google Analytics 4 Admin and Data
// APIs.
//
// Admin API (v1beta) operations cover account discovery and property
// configuration: account summaries, data streams, conversion/key events,
// and custom definitions. The Data API (v1beta) runs reports against a
// property.
//
// Property identifiers are accepted in both bare numeric form ("213025502")
// and resource-name form ("properties/213025502").
package ga4
