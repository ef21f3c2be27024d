// Package server exposes propscope lookups over an HTTP JSON API.
//
// Every response uses the same envelope:
//
//	{"rows": [...], "meta": {"source": "...", "cached": false, "request_id": "..."}, "error": null}
//
// rows carries the result set, meta records where the data came from and
// whether it was served from cache, and error is populated (with rows
// empty) when the request failed.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	chi "github.com/go-chi/chi/v5"

	"github.com/propscope/propscope/pkg/gapi/ga4"
	"github.com/propscope/propscope/pkg/gapi/gmc"
	"github.com/propscope/propscope/pkg/gapi/gsc"
	"github.com/propscope/propscope/pkg/memocache"
	"github.com/propscope/propscope/pkg/resolver"
)

// Analytics is the slice of the GA4 client the server uses.
type Analytics interface {
	AccountSummaries(ctx context.Context) ([]ga4.AccountSummary, error)
	DataStreams(ctx context.Context, propertyID string) ([]ga4.DataStream, error)
	ConversionEvents(ctx context.Context, propertyID string) ([]ga4.ConversionEvent, error)
	KeyEvents(ctx context.Context, propertyID string) ([]ga4.ConversionEvent, error)
	CustomDimensions(ctx context.Context, propertyID string) ([]ga4.CustomDimension, error)
	CustomMetrics(ctx context.Context, propertyID string) ([]ga4.CustomMetric, error)
	GoogleAdsLinks(ctx context.Context, propertyID string) ([]ga4.GoogleAdsLink, error)
	RunReport(ctx context.Context, req ga4.ReportRequest) (*ga4.Report, error)
}

// SearchConsole is the slice of the Search Console client the server uses.
type SearchConsole interface {
	Sites(ctx context.Context) ([]gsc.Site, error)
	Sitemaps(ctx context.Context, siteURL string) ([]gsc.Sitemap, error)
	Query(ctx context.Context, req gsc.QueryRequest) ([]gsc.QueryRow, error)
}

// Merchant is the slice of the Merchant Center client the server uses.
type Merchant interface {
	Accounts(ctx context.Context) ([]gmc.Account, error)
	Products(ctx context.Context, merchantID string) ([]gmc.Product, error)
	ProductStatuses(ctx context.Context, merchantID string) ([]gmc.ProductStatus, error)
	AccountStatus(ctx context.Context, merchantID string) (*gmc.AccountStatus, error)
}

// Server routes API requests to the service clients.
type Server struct {
	router    chi.Router
	log       *log.Logger
	analytics Analytics
	search    SearchConsole
	merchant  Merchant
	resolver  *resolver.Resolver

	// Memoized account listings backing whoami and the listing endpoints.
	summaries     func(context.Context) ([]ga4.AccountSummary, bool, error)
	sites         func(context.Context) ([]gsc.Site, bool, error)
	merchantAccts func(context.Context) ([]gmc.Account, bool, error)
}

// New assembles the server. cache backs the memoized account listings;
// the resolver carries its own memoization.
func New(logger *log.Logger, cache *memocache.Cache, analytics Analytics, search SearchConsole, merchant Merchant, res *resolver.Resolver) *Server {
	s := &Server{
		log:       logger,
		analytics: analytics,
		search:    search,
		merchant:  merchant,
		resolver:  res,

		summaries:     memocache.Memoize0(cache, "ga4.account_summaries", analytics.AccountSummaries),
		sites:         memocache.Memoize0(cache, "gsc.sites", search.Sites),
		merchantAccts: memocache.Memoize0(cache, "gmc.accounts", merchant.Accounts),
	}
	s.router = s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(s.requestID)
	r.Use(s.logRequests)

	r.Get("/healthz", s.handleHealthz)

	r.Route("/v1", func(r chi.Router) {
		r.Get("/whoami", s.handleWhoami)

		r.Route("/resolve", func(r chi.Router) {
			r.Get("/property", s.handleResolveProperty)
			r.Get("/site", s.handleResolveSite)
			r.Get("/merchant", s.handleResolveMerchant)
		})

		r.Route("/ga4", func(r chi.Router) {
			r.Get("/account-summaries", s.handleAccountSummaries)
			r.Post("/report", s.handleRunReport)
			r.Get("/{property}/data-streams", s.handleDataStreams)
			r.Get("/{property}/conversion-events", s.handleConversionEvents)
			r.Get("/{property}/custom-definitions", s.handleCustomDefinitions)
			r.Get("/{property}/google-ads-links", s.handleGoogleAdsLinks)
		})

		r.Route("/gsc", func(r chi.Router) {
			r.Get("/sites", s.handleSites)
			r.Get("/sitemaps", s.handleSitemaps)
			r.Post("/search", s.handleSearchQuery)
		})

		r.Route("/gmc", func(r chi.Router) {
			r.Get("/accounts", s.handleMerchantAccounts)
			r.Get("/{merchant}/products", s.handleProducts)
			r.Get("/{merchant}/product-statuses", s.handleProductStatuses)
			r.Get("/{merchant}/account-status", s.handleAccountStatus)
		})
	})

	return r
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

// ListenAndServe runs the server until ctx is cancelled, then shuts
// down gracefully.
func ListenAndServe(ctx context.Context, addr string, s *Server) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()

	s.log.Info("listening", "addr", addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
