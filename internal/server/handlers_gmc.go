package server

import (
	"net/http"

	chi "github.com/go-chi/chi/v5"

	"github.com/propscope/propscope/pkg/errors"
	"github.com/propscope/propscope/pkg/gapi/gmc"
)

func merchantParam(r *http.Request) (string, error) {
	id := chi.URLParam(r, "merchant")
	if id == "" {
		return "", errors.New(errors.ErrCodeInvalidInput, "merchant id cannot be empty")
	}
	for _, c := range id {
		if c < '0' || c > '9' {
			return "", errors.New(errors.ErrCodeInvalidInput, "merchant id must be numeric, got %q", id)
		}
	}
	return id, nil
}

func (s *Server) handleMerchantAccounts(w http.ResponseWriter, r *http.Request) {
	meta := Meta{Source: "gmc"}

	accounts, cached, err := s.merchantAccts(r.Context())
	if err != nil {
		s.writeError(w, r, meta, err)
		return
	}
	meta.Cached = cachedFlag(cached)
	s.writeRows(w, r, accounts, meta)
}

func (s *Server) handleProducts(w http.ResponseWriter, r *http.Request) {
	meta := Meta{Source: "gmc"}

	id, err := merchantParam(r)
	if err != nil {
		s.writeError(w, r, meta, err)
		return
	}
	products, err := s.merchant.Products(r.Context(), id)
	if err != nil {
		s.writeError(w, r, meta, err)
		return
	}
	if q := r.URL.Query().Get("q"); q != "" {
		meta.Query = q
		products = gmc.FindProducts(products, q)
	}
	s.writeRows(w, r, products, meta)
}

func (s *Server) handleProductStatuses(w http.ResponseWriter, r *http.Request) {
	meta := Meta{Source: "gmc"}

	id, err := merchantParam(r)
	if err != nil {
		s.writeError(w, r, meta, err)
		return
	}
	statuses, err := s.merchant.ProductStatuses(r.Context(), id)
	if err != nil {
		s.writeError(w, r, meta, err)
		return
	}
	s.writeRows(w, r, statuses, meta)
}

func (s *Server) handleAccountStatus(w http.ResponseWriter, r *http.Request) {
	meta := Meta{Source: "gmc"}

	id, err := merchantParam(r)
	if err != nil {
		s.writeError(w, r, meta, err)
		return
	}
	status, err := s.merchant.AccountStatus(r.Context(), id)
	if err != nil {
		s.writeError(w, r, meta, err)
		return
	}
	s.writeRows(w, r, []any{status}, meta)
}
