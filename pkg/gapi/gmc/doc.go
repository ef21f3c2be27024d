// Package gmc provides a client for the Google Merchant Center
// Content API.
//
// Merchant accounts are addressed by numeric ID. Operations assume the
// standalone-account case where the merchant ID and account ID coincide.
package gmc
