package server

import (
	"errors"
	"net/http"
	"strings"

	"leadchat-backend/internal/leads"
	"leadchat-backend/internal/types"
)

func (s *Server) handleLead(w http.ResponseWriter, r *http.Request) {
	var req types.LeadRequest
	if !s.decodeBody(w, r, &req) {
		return
	}
	sid := strings.TrimSpace(req.SessionID)
	if sid == "" {
		sid = getSessionID(r)
	}

	lead, err := s.leads.Submit(r.Context(), sid, leads.Record{Name: req.Name, Email: req.Email, Phone: req.Phone})
	if err != nil {
		var verr *leads.ValidationError
		if errors.As(err, &verr) {
			s.writeError(w, http.StatusBadRequest, verr.Reason)
			return
		}
		s.logger.Error().Err(err).Str("session_id", sid).Msg("saving lead failed")
		s.writeError(w, http.StatusInternalServerError, "An error occurred while saving lead information")
		return
	}
	s.logger.Info().Str("lead_id", lead.ID).Str("session_id", sid).Msg("lead captured")
	writeJSON(w, http.StatusOK, types.LeadResponse{Success: true, Message: "Lead information saved successfully"})
}
