package errors

import (
	"regexp"
	"strings"
	"time"
	"unicode"
)

var propertyIDRE = regexp.MustCompile(`^(properties/)?[0-9]+$`)

// ValidatePropertyID validates a GA4 property identifier.
// Both the bare numeric form ("213025502") and the resource-name form
// ("properties/213025502") are accepted.
func ValidatePropertyID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidProperty, "property id cannot be empty")
	}
	if !propertyIDRE.MatchString(id) {
		return New(ErrCodeInvalidProperty, "property id must be numeric or properties/<number>, got %q", id)
	}
	return nil
}

// ValidateSiteURL validates a Search Console site identifier: either a
// URL-prefix property ("https://www.example.com/") or a domain property
// ("sc-domain:example.com").
func ValidateSiteURL(site string) error {
	if site == "" {
		return New(ErrCodeInvalidSite, "site url cannot be empty")
	}
	if strings.HasPrefix(site, "sc-domain:") {
		if len(site) == len("sc-domain:") {
			return New(ErrCodeInvalidSite, "domain property is missing a domain")
		}
		return nil
	}
	if strings.HasPrefix(site, "http://") || strings.HasPrefix(site, "https://") {
		return nil
	}
	return New(ErrCodeInvalidSite, "site url must start with http(s):// or sc-domain:, got %q", site)
}

// ValidateDate validates a report date in YYYY-MM-DD form. The GA4 Data API
// relative forms ("today", "yesterday", "NdaysAgo") are also accepted.
func ValidateDate(date string) error {
	if date == "" {
		return New(ErrCodeInvalidDate, "date cannot be empty")
	}
	switch date {
	case "today", "yesterday":
		return nil
	}
	if strings.HasSuffix(date, "daysAgo") {
		n := strings.TrimSuffix(date, "daysAgo")
		for _, r := range n {
			if !unicode.IsDigit(r) {
				return New(ErrCodeInvalidDate, "invalid relative date %q", date)
			}
		}
		if n == "" {
			return New(ErrCodeInvalidDate, "invalid relative date %q", date)
		}
		return nil
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return New(ErrCodeInvalidDate, "date must be YYYY-MM-DD, got %q", date)
	}
	return nil
}

// ValidateQuery validates a free-form resolver query (domain, URL, or
// display name). It rejects empty and control-character input.
func ValidateQuery(q string) error {
	if strings.TrimSpace(q) == "" {
		return New(ErrCodeInvalidInput, "query cannot be empty")
	}
	for _, r := range q {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "query contains control characters")
		}
	}
	return nil
}
