package resolver

import (
	"context"
	"strings"
	"time"

	"github.com/propscope/propscope/pkg/errors"
	"github.com/propscope/propscope/pkg/gapi"
	"github.com/propscope/propscope/pkg/gapi/ga4"
	"github.com/propscope/propscope/pkg/gapi/gmc"
	"github.com/propscope/propscope/pkg/gapi/gsc"
	"github.com/propscope/propscope/pkg/memocache"
	"github.com/propscope/propscope/pkg/observability"
)

// Resolution methods, recorded on every match so callers can tell how
// confident the result is.
const (
	MethodWebsiteURL         = "website_url_match"
	MethodDisplayNameWithURL = "display_name_with_url_match"
	MethodDisplayName        = "display_name_match"
	MethodFuzzyName          = "fuzzy_name_match"
	MethodDomain             = "domain_match"
	MethodName               = "name_match"
)

// Properties lists the GA4 account summaries visible to the user.
type Properties interface {
	AccountSummaries(ctx context.Context) ([]ga4.AccountSummary, error)
}

// Sites lists the Search Console sites visible to the user.
type Sites interface {
	Sites(ctx context.Context) ([]gsc.Site, error)
}

// Merchants lists the Merchant Center accounts visible to the user.
type Merchants interface {
	Accounts(ctx context.Context) ([]gmc.Account, error)
}

// PropertyMatch is a resolved GA4 property.
type PropertyMatch struct {
	PropertyID         string `json:"property_id"`
	DisplayName        string `json:"property_display_name"`
	WebsiteURL         string `json:"website_url,omitempty"`
	AccountID          string `json:"account_id"`
	AccountDisplayName string `json:"account_display_name"`
	Method             string `json:"method"`
}

// SiteMatch is a resolved Search Console site.
type SiteMatch struct {
	SiteURL         string `json:"site_url"`
	PermissionLevel string `json:"permission_level,omitempty"`
	Method          string `json:"method"`
}

// MerchantMatch is a resolved Merchant Center account.
type MerchantMatch struct {
	MerchantID string `json:"merchant_id"`
	Name       string `json:"name"`
	WebsiteURL string `json:"website_url,omitempty"`
	Method     string `json:"method"`
}

// Resolver resolves human-friendly queries across the three services.
// Construct with New; the zero value is not usable.
type Resolver struct {
	findProperty func(context.Context, string) (PropertyMatch, bool, error)
	findSite     func(context.Context, string) (SiteMatch, bool, error)
	findMerchant func(context.Context, string) (MerchantMatch, bool, error)
}

// New creates a Resolver over the given listings, memoizing each lookup
// kind in cache.
func New(cache *memocache.Cache, props Properties, sites Sites, merchants Merchants) *Resolver {
	return &Resolver{
		findProperty: memocache.Memoize(cache, "resolver.property", func(ctx context.Context, query string) (PropertyMatch, error) {
			return resolveProperty(ctx, props, query)
		}),
		findSite: memocache.Memoize(cache, "resolver.site", func(ctx context.Context, query string) (SiteMatch, error) {
			return resolveSite(ctx, sites, query)
		}),
		findMerchant: memocache.Memoize(cache, "resolver.merchant", func(ctx context.Context, query string) (MerchantMatch, error) {
			return resolveMerchant(ctx, merchants, query)
		}),
	}
}

// FindProperty resolves a domain, URL, or property name to a GA4
// property. The second result reports whether the answer came from
// cache. Failed lookups are never cached.
func (r *Resolver) FindProperty(ctx context.Context, query string) (PropertyMatch, bool, error) {
	observability.Tool().OnInvoke(ctx, "find_property")
	start := time.Now()
	m, cached, err := r.findProperty(ctx, query)
	observability.Tool().OnComplete(ctx, "find_property", cached, time.Since(start), err)
	return m, cached, err
}

// FindSite resolves a domain or URL to a Search Console site.
func (r *Resolver) FindSite(ctx context.Context, query string) (SiteMatch, bool, error) {
	observability.Tool().OnInvoke(ctx, "find_site")
	start := time.Now()
	m, cached, err := r.findSite(ctx, query)
	observability.Tool().OnComplete(ctx, "find_site", cached, time.Since(start), err)
	return m, cached, err
}

// FindMerchant resolves a domain, brand, or account name to a Merchant
// Center account.
func (r *Resolver) FindMerchant(ctx context.Context, query string) (MerchantMatch, bool, error) {
	observability.Tool().OnInvoke(ctx, "find_merchant")
	start := time.Now()
	m, cached, err := r.findMerchant(ctx, query)
	observability.Tool().OnComplete(ctx, "find_merchant", cached, time.Since(start), err)
	return m, cached, err
}

// resolveProperty walks the match ladder over every property in every
// account: website URL, display name of URL-bearing properties, any
// display name, then fuzzy name matching.
func resolveProperty(ctx context.Context, props Properties, query string) (PropertyMatch, error) {
	if err := errors.ValidateQuery(query); err != nil {
		return PropertyMatch{}, err
	}
	summaries, err := props.AccountSummaries(ctx)
	if err != nil {
		return PropertyMatch{}, errors.Wrap(errors.ErrCodeNetwork, err, "fetching account summaries")
	}

	normalized := gapi.NormalizeDomain(query)
	lowerQuery := strings.ToLower(query)

	var all []PropertyMatch
	for _, acct := range summaries {
		for _, p := range acct.PropertySummaries {
			all = append(all, PropertyMatch{
				PropertyID:         p.Property,
				DisplayName:        p.DisplayName,
				WebsiteURL:         p.WebsiteURL,
				AccountID:          acct.Account,
				AccountDisplayName: acct.DisplayName,
			})
		}
	}

	// Properties with a website URL are the most reliable signal.
	for _, p := range all {
		if p.WebsiteURL == "" {
			continue
		}
		domain := gapi.NormalizeDomain(p.WebsiteURL)
		if normalized == domain || (normalized != "" && strings.Contains(domain, normalized)) {
			p.Method = MethodWebsiteURL
			return p, nil
		}
	}

	for _, p := range all {
		if p.DisplayName == "" || p.WebsiteURL == "" {
			continue
		}
		name := strings.ToLower(p.DisplayName)
		if strings.Contains(name, normalized) || strings.Contains(name, lowerQuery) {
			p.Method = MethodDisplayNameWithURL
			return p, nil
		}
	}

	for _, p := range all {
		if p.DisplayName == "" {
			continue
		}
		name := strings.ToLower(p.DisplayName)
		if strings.Contains(name, normalized) || strings.Contains(name, lowerQuery) {
			p.Method = MethodDisplayName
			return p, nil
		}
	}

	var names []string
	for _, p := range all {
		if p.DisplayName != "" {
			names = append(names, p.DisplayName)
		}
	}
	if match := fuzzyMatch(query, names); match != "" {
		for _, p := range all {
			if strings.ToLower(p.DisplayName) == match {
				p.Method = MethodFuzzyName
				return p, nil
			}
		}
	}

	return PropertyMatch{}, errors.New(errors.ErrCodePropertyNotFound,
		"no GA4 property found matching %q (%d properties total)", query, len(all))
}

// resolveSite compares the normalized query against each site's domain.
// Domain properties ("sc-domain:example.com") are compared on the bare
// domain.
func resolveSite(ctx context.Context, sites Sites, query string) (SiteMatch, error) {
	if err := errors.ValidateQuery(query); err != nil {
		return SiteMatch{}, err
	}
	list, err := sites.Sites(ctx)
	if err != nil {
		return SiteMatch{}, errors.Wrap(errors.ErrCodeNetwork, err, "fetching sites")
	}

	normalized := gapi.NormalizeDomain(query)
	for _, site := range list {
		if site.SiteURL == "" {
			continue
		}
		domain := gapi.NormalizeDomain(strings.TrimPrefix(site.SiteURL, "sc-domain:"))
		if normalized == domain || (normalized != "" && strings.Contains(domain, normalized)) {
			return SiteMatch{
				SiteURL:         site.SiteURL,
				PermissionLevel: site.PermissionLevel,
				Method:          MethodDomain,
			}, nil
		}
	}

	return SiteMatch{}, errors.New(errors.ErrCodeSiteNotFound,
		"no Search Console site found matching %q (%d sites total)", query, len(list))
}

// resolveMerchant tries fuzzy account-name matching first, then falls
// back to the account website domain.
func resolveMerchant(ctx context.Context, merchants Merchants, query string) (MerchantMatch, error) {
	if err := errors.ValidateQuery(query); err != nil {
		return MerchantMatch{}, err
	}
	accounts, err := merchants.Accounts(ctx)
	if err != nil {
		return MerchantMatch{}, errors.Wrap(errors.ErrCodeNetwork, err, "fetching merchant accounts")
	}

	var names []string
	for _, acct := range accounts {
		if acct.Name != "" {
			names = append(names, acct.Name)
		}
	}
	if match := fuzzyMatch(query, names); match != "" {
		for _, acct := range accounts {
			if strings.ToLower(acct.Name) == match {
				return MerchantMatch{
					MerchantID: acct.ID,
					Name:       acct.Name,
					WebsiteURL: acct.WebsiteURL,
					Method:     MethodName,
				}, nil
			}
		}
	}

	normalized := gapi.NormalizeDomain(query)
	for _, acct := range accounts {
		if acct.WebsiteURL == "" {
			continue
		}
		domain := gapi.NormalizeDomain(acct.WebsiteURL)
		if normalized == domain || (normalized != "" && strings.Contains(domain, normalized)) {
			return MerchantMatch{
				MerchantID: acct.ID,
				Name:       acct.Name,
				WebsiteURL: acct.WebsiteURL,
				Method:     MethodWebsiteURL,
			}, nil
		}
	}

	return MerchantMatch{}, errors.New(errors.ErrCodeMerchantNotFound,
		"no Merchant Center account found matching %q (%d accounts total)", query, len(accounts))
}
