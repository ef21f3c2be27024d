package server

import (
	"encoding/json"
	"net/http"

	chi "github.com/go-chi/chi/v5"

	"github.com/propscope/propscope/pkg/errors"
	"github.com/propscope/propscope/pkg/gapi/ga4"
)

func (s *Server) handleAccountSummaries(w http.ResponseWriter, r *http.Request) {
	meta := Meta{Source: "ga4"}

	summaries, cached, err := s.summaries(r.Context())
	if err != nil {
		s.writeError(w, r, meta, err)
		return
	}
	meta.Cached = cachedFlag(cached)
	s.writeRows(w, r, summaries, meta)
}

// propertyParam validates the {property} path parameter.
func propertyParam(r *http.Request) (string, error) {
	id := chi.URLParam(r, "property")
	if err := errors.ValidatePropertyID(id); err != nil {
		return "", err
	}
	return id, nil
}

func (s *Server) handleDataStreams(w http.ResponseWriter, r *http.Request) {
	meta := Meta{Source: "ga4"}

	id, err := propertyParam(r)
	if err != nil {
		s.writeError(w, r, meta, err)
		return
	}
	streams, err := s.analytics.DataStreams(r.Context(), id)
	if err != nil {
		s.writeError(w, r, meta, err)
		return
	}
	s.writeRows(w, r, streams, meta)
}

// handleConversionEvents merges conversion events and key events, since
// properties migrate between the two representations.
func (s *Server) handleConversionEvents(w http.ResponseWriter, r *http.Request) {
	meta := Meta{Source: "ga4"}

	id, err := propertyParam(r)
	if err != nil {
		s.writeError(w, r, meta, err)
		return
	}

	events, err := s.analytics.ConversionEvents(r.Context(), id)
	if err != nil {
		s.writeError(w, r, meta, err)
		return
	}
	keyEvents, err := s.analytics.KeyEvents(r.Context(), id)
	if err == nil {
		seen := make(map[string]bool, len(events))
		for _, e := range events {
			seen[e.EventName] = true
		}
		for _, e := range keyEvents {
			if !seen[e.EventName] {
				events = append(events, e)
			}
		}
	}
	s.writeRows(w, r, events, meta)
}

func (s *Server) handleCustomDefinitions(w http.ResponseWriter, r *http.Request) {
	meta := Meta{Source: "ga4"}

	id, err := propertyParam(r)
	if err != nil {
		s.writeError(w, r, meta, err)
		return
	}

	dims, err := s.analytics.CustomDimensions(r.Context(), id)
	if err != nil {
		s.writeError(w, r, meta, err)
		return
	}
	mets, err := s.analytics.CustomMetrics(r.Context(), id)
	if err != nil {
		s.writeError(w, r, meta, err)
		return
	}
	s.writeRows(w, r, map[string]any{
		"dimensions": dims,
		"metrics":    mets,
	}, meta)
}

func (s *Server) handleGoogleAdsLinks(w http.ResponseWriter, r *http.Request) {
	meta := Meta{Source: "ga4_ads"}

	id, err := propertyParam(r)
	if err != nil {
		s.writeError(w, r, meta, err)
		return
	}
	links, err := s.analytics.GoogleAdsLinks(r.Context(), id)
	if err != nil {
		s.writeError(w, r, meta, err)
		return
	}
	s.writeRows(w, r, links, meta)
}

type reportRequest struct {
	Property   string   `json:"property"`
	Dimensions []string `json:"dimensions"`
	Metrics    []string `json:"metrics"`
	StartDate  string   `json:"start_date"`
	EndDate    string   `json:"end_date"`
	Limit      int      `json:"limit"`
	Offset     int      `json:"offset"`
}

func (s *Server) handleRunReport(w http.ResponseWriter, r *http.Request) {
	meta := Meta{Source: "ga4"}

	var req reportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, meta, errors.Wrap(errors.ErrCodeInvalidInput, err, "decoding report request"))
		return
	}
	if err := errors.ValidatePropertyID(req.Property); err != nil {
		s.writeError(w, r, meta, err)
		return
	}
	for _, d := range []string{req.StartDate, req.EndDate} {
		if err := errors.ValidateDate(d); err != nil {
			s.writeError(w, r, meta, err)
			return
		}
	}
	if len(req.Metrics) == 0 {
		s.writeError(w, r, meta, errors.New(errors.ErrCodeInvalidInput, "report needs at least one metric"))
		return
	}

	report, err := s.analytics.RunReport(r.Context(), ga4.ReportRequest{
		PropertyID: req.Property,
		Dimensions: req.Dimensions,
		Metrics:    req.Metrics,
		StartDate:  req.StartDate,
		EndDate:    req.EndDate,
		Limit:      req.Limit,
		Offset:     req.Offset,
	})
	if err != nil {
		s.writeError(w, r, meta, err)
		return
	}
	s.writeRows(w, r, report.Rows, meta)
}
