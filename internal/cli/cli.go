// Package cli implements the propscope command-line interface.
//
// This package provides commands for resolving human-friendly names to
// GA4 properties, Search Console sites, and Merchant Center accounts,
// for querying each service directly, and for running the HTTP API
// server. The CLI is built using cobra and supports verbose logging via
// the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - whoami: Summarize everything the configured token can access
//   - resolve: Map a domain, URL, or name to a service identifier
//   - ga4 / gsc / gmc: Query the individual services
//   - serve: Run the HTTP JSON API
//   - config: Show configuration information
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers
// are passed through context.Context to allow structured progress
// tracking.
package cli

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/propscope/propscope/internal/config"
	"github.com/propscope/propscope/pkg/buildinfo"
	"github.com/propscope/propscope/pkg/errors"
	"github.com/propscope/propscope/pkg/gapi"
	"github.com/propscope/propscope/pkg/gapi/ga4"
	"github.com/propscope/propscope/pkg/gapi/gmc"
	"github.com/propscope/propscope/pkg/gapi/gsc"
	"github.com/propscope/propscope/pkg/memocache"
	"github.com/propscope/propscope/pkg/resolver"
)

// appName is the application name used for directories and display.
const appName = "propscope"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	cfg *config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Propscope resolves and queries GA4, Search Console, and Merchant Center",
		Long:         `Propscope maps domains, URLs, and display names to Google Analytics properties, Search Console sites, and Merchant Center accounts, and queries each service with cached, retried lookups.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.whoamiCommand())
	root.AddCommand(c.resolveCommand())
	root.AddCommand(c.ga4Command())
	root.AddCommand(c.gscCommand())
	root.AddCommand(c.gmcCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// clients bundles everything a command needs to talk to the services.
type clients struct {
	cfg       *config.Config
	cache     *memocache.Cache
	analytics *ga4.Client
	search    *gsc.Client
	merchant  *gmc.Client
	resolver  *resolver.Resolver
}

// loadConfig loads the configuration once per process.
func (c *CLI) loadConfig() (*config.Config, error) {
	if c.cfg != nil {
		return c.cfg, nil
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	c.cfg = cfg
	return cfg, nil
}

// newClients builds the service clients from configuration.
func (c *CLI) newClients() (*clients, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, err
	}
	if cfg.Token == "" {
		return nil, errors.New(errors.ErrCodeUnauthorized,
			"no access token configured, set PROPSCOPE_TOKEN or token in the config file")
	}

	cache, err := memocache.New(cfg.Cache.MaxEntries, cfg.CacheTTL())
	if err != nil {
		return nil, err
	}

	api := gapi.NewClient(gapi.StaticToken(cfg.Token), cfg.RetryConfig())
	analytics := ga4.NewClient(api)
	search := gsc.NewClient(api)
	merchant := gmc.NewClient(api)

	return &clients{
		cfg:       cfg,
		cache:     cache,
		analytics: analytics,
		search:    search,
		merchant:  merchant,
		resolver:  resolver.New(cache, analytics, search, merchant),
	}, nil
}
