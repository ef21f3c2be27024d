package server

import (
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/propscope/propscope/pkg/errors"
	"github.com/propscope/propscope/pkg/gapi"
)

// Meta describes where a result came from.
type Meta struct {
	Source    string `json:"source,omitempty"`
	Cached    *bool  `json:"cached,omitempty"`
	Query     string `json:"query,omitempty"`
	Method    string `json:"method,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type envelope struct {
	Rows  any        `json:"rows"`
	Meta  Meta       `json:"meta"`
	Error *errorBody `json:"error"`
}

func cachedFlag(v bool) *bool { return &v }

// writeRows writes a success envelope. rows is normalized so the JSON
// field is always an array, never null.
func (s *Server) writeRows(w http.ResponseWriter, r *http.Request, rows any, meta Meta) {
	if rows == nil {
		rows = []any{}
	}
	meta.RequestID = requestIDFrom(r.Context())

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(envelope{Rows: rows, Meta: meta}); err != nil {
		s.log.Error("encode response", "error", err)
	}
}

// writeError writes a failure envelope with a status derived from the
// error's code.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, meta Meta, err error) {
	meta.RequestID = requestIDFrom(r.Context())

	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpStatus(err))
	encErr := json.NewEncoder(w).Encode(envelope{
		Rows: []any{},
		Meta: meta,
		Error: &errorBody{
			Code:    string(code),
			Message: errors.UserMessage(err),
		},
	})
	if encErr != nil {
		s.log.Error("encode error response", "error", encErr)
	}
}

// httpStatus maps an application error to a response status.
func httpStatus(err error) int {
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidProperty,
		errors.ErrCodeInvalidSite, errors.ErrCodeInvalidDate,
		errors.ErrCodeInvalidConfig:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound, errors.ErrCodePropertyNotFound,
		errors.ErrCodeSiteNotFound, errors.ErrCodeMerchantNotFound:
		return http.StatusNotFound
	case errors.ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case errors.ErrCodeForbidden:
		return http.StatusForbidden
	case errors.ErrCodeRateLimited:
		return http.StatusTooManyRequests
	}

	// Upstream status errors pass their class through.
	var se *gapi.StatusError
	if stderrors.As(err, &se) {
		switch {
		case se.Status == http.StatusUnauthorized, se.Status == http.StatusForbidden:
			return se.Status
		case se.Status == http.StatusTooManyRequests:
			return http.StatusTooManyRequests
		case se.Status >= 500:
			return http.StatusBadGateway
		}
	}
	if gapi.IsNotFound(err) {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}
