package server

import (
	"encoding/json"
	"net/http"

	"github.com/propscope/propscope/pkg/errors"
	"github.com/propscope/propscope/pkg/gapi/gsc"
)

func (s *Server) handleSites(w http.ResponseWriter, r *http.Request) {
	meta := Meta{Source: "gsc"}

	sites, cached, err := s.sites(r.Context())
	if err != nil {
		s.writeError(w, r, meta, err)
		return
	}
	meta.Cached = cachedFlag(cached)
	s.writeRows(w, r, sites, meta)
}

func (s *Server) handleSitemaps(w http.ResponseWriter, r *http.Request) {
	meta := Meta{Source: "gsc"}

	site := r.URL.Query().Get("site")
	if err := errors.ValidateSiteURL(site); err != nil {
		s.writeError(w, r, meta, err)
		return
	}
	sitemaps, err := s.search.Sitemaps(r.Context(), site)
	if err != nil {
		s.writeError(w, r, meta, err)
		return
	}
	s.writeRows(w, r, sitemaps, meta)
}

type searchRequest struct {
	Site       string            `json:"site"`
	StartDate  string            `json:"start_date"`
	EndDate    string            `json:"end_date"`
	Dimensions []string          `json:"dimensions"`
	Filters    map[string]string `json:"filters"`
	RowLimit   int               `json:"row_limit"`
	StartRow   int               `json:"start_row"`
}

func (s *Server) handleSearchQuery(w http.ResponseWriter, r *http.Request) {
	meta := Meta{Source: "gsc"}

	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, meta, errors.Wrap(errors.ErrCodeInvalidInput, err, "decoding search request"))
		return
	}
	if err := errors.ValidateSiteURL(req.Site); err != nil {
		s.writeError(w, r, meta, err)
		return
	}
	for _, d := range []string{req.StartDate, req.EndDate} {
		if err := errors.ValidateDate(d); err != nil {
			s.writeError(w, r, meta, err)
			return
		}
	}

	rows, err := s.search.Query(r.Context(), gsc.QueryRequest{
		SiteURL:    req.Site,
		StartDate:  req.StartDate,
		EndDate:    req.EndDate,
		Dimensions: req.Dimensions,
		Filters:    req.Filters,
		RowLimit:   req.RowLimit,
		StartRow:   req.StartRow,
	})
	if err != nil {
		s.writeError(w, r, meta, err)
		return
	}
	s.writeRows(w, r, rows, meta)
}
