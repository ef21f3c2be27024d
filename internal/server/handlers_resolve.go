package server

import "net/http"

func (s *Server) handleResolveProperty(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	meta := Meta{Source: "ga4", Query: query}

	m, cached, err := s.resolver.FindProperty(r.Context(), query)
	if err != nil {
		s.writeError(w, r, meta, err)
		return
	}
	meta.Cached = cachedFlag(cached)
	meta.Method = m.Method
	s.writeRows(w, r, []any{m}, meta)
}

func (s *Server) handleResolveSite(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	meta := Meta{Source: "gsc", Query: query}

	m, cached, err := s.resolver.FindSite(r.Context(), query)
	if err != nil {
		s.writeError(w, r, meta, err)
		return
	}
	meta.Cached = cachedFlag(cached)
	meta.Method = m.Method
	s.writeRows(w, r, []any{m}, meta)
}

func (s *Server) handleResolveMerchant(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	meta := Meta{Source: "gmc", Query: query}

	m, cached, err := s.resolver.FindMerchant(r.Context(), query)
	if err != nil {
		s.writeError(w, r, meta, err)
		return
	}
	meta.Cached = cachedFlag(cached)
	meta.Method = m.Method
	s.writeRows(w, r, []any{m}, meta)
}
