package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"pawplanner/internal/editor"
	"pawplanner/internal/schedule"
)

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) readJSON(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}

func (s *Server) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error().Err(err).Str("path", r.URL.Path).Msg("write response failed")
	}
}

func (s *Server) errorJSON(w http.ResponseWriter, r *http.Request, status int, msg string) {
	s.writeJSON(w, r, status, errorResponse{Error: msg})
}

func (s *Server) badRequest(w http.ResponseWriter, r *http.Request, err error) {
	s.errorJSON(w, r, http.StatusBadRequest, err.Error())
}

// remoteError reports a schedule-service failure. The edit buffer and cache
// survive it; the client may simply retry.
func (s *Server) remoteError(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.Error().Err(err).Str("path", r.URL.Path).Msg("schedule service call failed")
	s.errorJSON(w, r, http.StatusBadGateway, err.Error())
}

// conflictOrBadRequest maps the editor's sentinel errors onto statuses;
// anything unrecognized is treated as a remote failure.
func (s *Server) conflictOrBadRequest(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, editor.ErrNoSession):
		s.errorJSON(w, r, http.StatusNotFound, err.Error())
	case errors.Is(err, editor.ErrSessionOpen),
		errors.Is(err, editor.ErrNotConfirmable),
		errors.Is(err, editor.ErrNotPersisted):
		s.errorJSON(w, r, http.StatusConflict, err.Error())
	case errors.Is(err, schedule.ErrPastDate):
		s.errorJSON(w, r, http.StatusUnprocessableEntity, schedule.PastDateMessage)
	default:
		s.remoteError(w, r, err)
	}
}

type schedValidationReasonJSON struct {
	Code       string `json:"code"`
	RangeIndex int    `json:"rangeIndex"`
}

func reasonsJSON(reasons []schedule.ValidationReason) []schedValidationReasonJSON {
	if len(reasons) == 0 {
		return nil
	}
	out := make([]schedValidationReasonJSON, len(reasons))
	for i, r := range reasons {
		out[i] = schedValidationReasonJSON{Code: string(r.Code), RangeIndex: r.RangeIndex}
	}
	return out
}
