package server

import (
	"net/http"

	"github.com/alexanderramin/workweek/internal/domain"
	"github.com/alexanderramin/workweek/internal/repository"
)

type sessionList struct {
	Sessions []*domain.Session `json:"sessions"`
	Count    int               `json:"count"`
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	limit, ok := parseIntParam(w, r, "limit")
	if !ok {
		return
	}
	open, ok := parseBoolParam(w, r, "open")
	if !ok {
		return
	}

	filter := repository.SessionFilter{
		UserID:    q.Get("user"),
		MachineID: q.Get("machine"),
		OpenOnly:  open,
		Limit:     clampLimit(limit, defaultSessionLimit, maxSessionLimit),
	}
	sessions, err := s.tracking.ListSessions(r.Context(), filter)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	if sessions == nil {
		sessions = []*domain.Session{}
	}
	writeJSON(w, http.StatusOK, sessionList{Sessions: sessions, Count: len(sessions)})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.tracking.GetSession(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}
