package server

import "net/http"

// serviceSummary is one service's slice of the whoami response. A
// service that fails to list reports its error without failing the
// whole summary.
type serviceSummary struct {
	Available int    `json:"available"`
	Cached    bool   `json:"cached"`
	Items     any    `json:"items,omitempty"`
	Error     string `json:"error,omitempty"`
}

// handleWhoami reports everything the configured token can see across
// the three services in one response.
func (s *Server) handleWhoami(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	out := make(map[string]serviceSummary, 3)

	if summaries, cached, err := s.summaries(ctx); err != nil {
		out["ga4"] = serviceSummary{Error: err.Error()}
	} else {
		total := 0
		for _, acct := range summaries {
			total += len(acct.PropertySummaries)
		}
		out["ga4"] = serviceSummary{Available: total, Cached: cached, Items: summaries}
	}

	if sites, cached, err := s.sites(ctx); err != nil {
		out["gsc"] = serviceSummary{Error: err.Error()}
	} else {
		out["gsc"] = serviceSummary{Available: len(sites), Cached: cached, Items: sites}
	}

	if accounts, cached, err := s.merchantAccts(ctx); err != nil {
		out["gmc"] = serviceSummary{Error: err.Error()}
	} else {
		out["gmc"] = serviceSummary{Available: len(accounts), Cached: cached, Items: accounts}
	}

	s.writeRows(w, r, []any{out}, Meta{Source: "all"})
}
