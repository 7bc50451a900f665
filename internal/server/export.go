package server

import (
	"fmt"
	"net/http"

	"github.com/alexanderramin/workweek/internal/cli/formatter"
	"github.com/alexanderramin/workweek/internal/contract"
)

func (s *Server) handleExportSummary(w http.ResponseWriter, r *http.Request) {
	s.exportCSV(w, r, "summary", func(resp *contract.ReportResponse, w http.ResponseWriter) error {
		return formatter.WriteSummaryCSV(w, resp.Summary)
	})
}

func (s *Server) handleExportSessions(w http.ResponseWriter, r *http.Request) {
	s.exportCSV(w, r, "sessions", func(resp *contract.ReportResponse, w http.ResponseWriter) error {
		return formatter.WriteDetailsCSV(w, resp.Details)
	})
}

func (s *Server) exportCSV(
	w http.ResponseWriter, r *http.Request, kind string,
	write func(*contract.ReportResponse, http.ResponseWriter) error,
) {
	resp, ok := s.loadReport(w, r)
	if !ok {
		return
	}

	filename := fmt.Sprintf("workweek-%s-%s.csv", resp.Week, kind)
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	if err := write(resp, w); err != nil {
		s.logger.ErrorContext(r.Context(), "writing csv export", "kind", kind, "error", err)
	}
}
