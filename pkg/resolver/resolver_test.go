package resolver

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/propscope/propscope/pkg/errors"
	"github.com/propscope/propscope/pkg/gapi/ga4"
	"github.com/propscope/propscope/pkg/gapi/gmc"
	"github.com/propscope/propscope/pkg/gapi/gsc"
	"github.com/propscope/propscope/pkg/memocache"
)

type fakeProperties struct {
	calls     atomic.Int32
	summaries []ga4.AccountSummary
	err       error
}

func (f *fakeProperties) AccountSummaries(context.Context) ([]ga4.AccountSummary, error) {
	f.calls.Add(1)
	return f.summaries, f.err
}

type fakeSites struct {
	sites []gsc.Site
	err   error
}

func (f *fakeSites) Sites(context.Context) ([]gsc.Site, error) { return f.sites, f.err }

type fakeMerchants struct {
	accounts []gmc.Account
	err      error
}

func (f *fakeMerchants) Accounts(context.Context) ([]gmc.Account, error) {
	return f.accounts, f.err
}

func newCache(t *testing.T) *memocache.Cache {
	t.Helper()
	c, err := memocache.New(128, time.Minute)
	if err != nil {
		t.Fatalf("memocache.New() failed: %v", err)
	}
	return c
}

func testSummaries() []ga4.AccountSummary {
	return []ga4.AccountSummary{
		{
			Account:     "accounts/100",
			DisplayName: "Acme Holdings",
			PropertySummaries: []ga4.PropertySummary{
				{Property: "properties/1", DisplayName: "Acme Corporate", WebsiteURL: "https://www.acme.com/"},
				{Property: "properties/2", DisplayName: "Acme Shop", WebsiteURL: "https://shop.acme.com"},
			},
		},
		{
			Account:     "accounts/200",
			DisplayName: "Side Projects",
			PropertySummaries: []ga4.PropertySummary{
				{Property: "properties/3", DisplayName: "Weather Blog"},
			},
		},
	}
}

func TestFindPropertyByWebsiteURL(t *testing.T) {
	r := New(newCache(t), &fakeProperties{summaries: testSummaries()}, nil, nil)

	m, cached, err := r.FindProperty(context.Background(), "https://www.acme.com/")
	if err != nil {
		t.Fatalf("FindProperty() failed: %v", err)
	}
	if cached {
		t.Error("first lookup reported cached=true")
	}
	if m.PropertyID != "properties/1" || m.Method != MethodWebsiteURL {
		t.Errorf("FindProperty() = %+v, want properties/1 via %s", m, MethodWebsiteURL)
	}
	if m.AccountDisplayName != "Acme Holdings" {
		t.Errorf("account display name = %q", m.AccountDisplayName)
	}
}

func TestFindPropertyByDisplayName(t *testing.T) {
	r := New(newCache(t), &fakeProperties{summaries: testSummaries()}, nil, nil)

	m, _, err := r.FindProperty(context.Background(), "Weather")
	if err != nil {
		t.Fatalf("FindProperty() failed: %v", err)
	}
	if m.PropertyID != "properties/3" || m.Method != MethodDisplayName {
		t.Errorf("FindProperty() = %+v, want properties/3 via %s", m, MethodDisplayName)
	}
}

func TestFindPropertyFuzzy(t *testing.T) {
	summaries := []ga4.AccountSummary{{
		Account: "accounts/100",
		PropertySummaries: []ga4.PropertySummary{
			{Property: "properties/9", DisplayName: "gatedepot.com"},
		},
	}}
	r := New(newCache(t), &fakeProperties{summaries: summaries}, nil, nil)

	m, _, err := r.FindProperty(context.Background(), "store.gatedepot.com")
	if err != nil {
		t.Fatalf("FindProperty() failed: %v", err)
	}
	if m.PropertyID != "properties/9" || m.Method != MethodFuzzyName {
		t.Errorf("FindProperty() = %+v, want properties/9 via %s", m, MethodFuzzyName)
	}
}

func TestFindPropertyNotFound(t *testing.T) {
	r := New(newCache(t), &fakeProperties{summaries: testSummaries()}, nil, nil)

	_, _, err := r.FindProperty(context.Background(), "unrelated.example.net")
	if !errors.Is(err, errors.ErrCodePropertyNotFound) {
		t.Errorf("FindProperty() error = %v, want code %s", err, errors.ErrCodePropertyNotFound)
	}
}

func TestFindPropertyCached(t *testing.T) {
	props := &fakeProperties{summaries: testSummaries()}
	r := New(newCache(t), props, nil, nil)

	ctx := context.Background()
	if _, cached, err := r.FindProperty(ctx, "acme.com"); err != nil || cached {
		t.Fatalf("first lookup: cached=%v err=%v", cached, err)
	}
	m, cached, err := r.FindProperty(ctx, "acme.com")
	if err != nil {
		t.Fatalf("second lookup failed: %v", err)
	}
	if !cached {
		t.Error("second lookup reported cached=false")
	}
	if m.PropertyID != "properties/1" {
		t.Errorf("cached match = %+v", m)
	}
	if n := props.calls.Load(); n != 1 {
		t.Errorf("upstream listed %d times, want 1", n)
	}
}

func TestFindPropertyErrorNotCached(t *testing.T) {
	props := &fakeProperties{err: context.DeadlineExceeded}
	r := New(newCache(t), props, nil, nil)

	ctx := context.Background()
	if _, _, err := r.FindProperty(ctx, "acme.com"); err == nil {
		t.Fatal("FindProperty() succeeded against failing upstream")
	}
	if _, _, err := r.FindProperty(ctx, "acme.com"); err == nil {
		t.Fatal("second FindProperty() succeeded")
	}
	if n := props.calls.Load(); n != 2 {
		t.Errorf("upstream listed %d times, want 2 (errors must not be cached)", n)
	}
}

func TestFindPropertyEmptyQuery(t *testing.T) {
	r := New(newCache(t), &fakeProperties{summaries: testSummaries()}, nil, nil)

	_, _, err := r.FindProperty(context.Background(), "   ")
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("FindProperty(blank) error = %v, want code %s", err, errors.ErrCodeInvalidInput)
	}
}

func TestFindSite(t *testing.T) {
	sites := &fakeSites{sites: []gsc.Site{
		{SiteURL: "https://other.example.org/", PermissionLevel: "siteOwner"},
		{SiteURL: "sc-domain:acme.com", PermissionLevel: "siteOwner"},
	}}
	r := New(newCache(t), nil, sites, nil)

	m, cached, err := r.FindSite(context.Background(), "www.acme.com")
	if err != nil {
		t.Fatalf("FindSite() failed: %v", err)
	}
	if cached {
		t.Error("first lookup reported cached=true")
	}
	if m.SiteURL != "sc-domain:acme.com" || m.Method != MethodDomain {
		t.Errorf("FindSite() = %+v", m)
	}
}

func TestFindSiteNotFound(t *testing.T) {
	r := New(newCache(t), nil, &fakeSites{}, nil)

	_, _, err := r.FindSite(context.Background(), "acme.com")
	if !errors.Is(err, errors.ErrCodeSiteNotFound) {
		t.Errorf("FindSite() error = %v, want code %s", err, errors.ErrCodeSiteNotFound)
	}
}

func TestFindMerchantByName(t *testing.T) {
	merchants := &fakeMerchants{accounts: []gmc.Account{
		{ID: "111", Name: "Acme Store", WebsiteURL: "https://acme.com"},
		{ID: "222", Name: "Globex Outlet"},
	}}
	r := New(newCache(t), nil, nil, merchants)

	m, _, err := r.FindMerchant(context.Background(), "globex outlet")
	if err != nil {
		t.Fatalf("FindMerchant() failed: %v", err)
	}
	if m.MerchantID != "222" || m.Method != MethodName {
		t.Errorf("FindMerchant() = %+v", m)
	}
}

func TestFindMerchantByWebsiteURL(t *testing.T) {
	merchants := &fakeMerchants{accounts: []gmc.Account{
		{ID: "111", Name: "Completely Different", WebsiteURL: "https://www.acme.com/"},
	}}
	r := New(newCache(t), nil, nil, merchants)

	m, _, err := r.FindMerchant(context.Background(), "acme.com")
	if err != nil {
		t.Fatalf("FindMerchant() failed: %v", err)
	}
	if m.MerchantID != "111" || m.Method != MethodWebsiteURL {
		t.Errorf("FindMerchant() = %+v", m)
	}
}

func TestFindMerchantNotFound(t *testing.T) {
	r := New(newCache(t), nil, nil, &fakeMerchants{})

	_, _, err := r.FindMerchant(context.Background(), "acme.com")
	if !errors.Is(err, errors.ErrCodeMerchantNotFound) {
		t.Errorf("FindMerchant() error = %v, want code %s", err, errors.ErrCodeMerchantNotFound)
	}
}
