package server

import (
	"net/http"

	"github.com/alexanderramin/workweek/internal/contract"
)

// reportRequest builds a report request from year, week and user query
// parameters. It writes 400 and returns false on malformed numbers.
func (s *Server) reportRequest(w http.ResponseWriter, r *http.Request) (contract.ReportRequest, bool) {
	req := contract.NewReportRequest()
	year, ok := parseOptionalInt(w, r, "year")
	if !ok {
		return req, false
	}
	week, ok := parseOptionalInt(w, r, "week")
	if !ok {
		return req, false
	}
	now := s.now()
	req.Year, req.Week, req.Now = year, week, &now
	req.UserID = r.URL.Query().Get("user")
	return req, true
}

func (s *Server) loadReport(w http.ResponseWriter, r *http.Request) (*contract.ReportResponse, bool) {
	req, ok := s.reportRequest(w, r)
	if !ok {
		return nil, false
	}
	resp, err := s.reports.WeeklyReport(r.Context(), req)
	if err != nil {
		s.writeServiceError(w, r, err)
		return nil, false
	}
	return resp, true
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	resp, ok := s.loadReport(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
