package contract

import "github.com/alexanderramin/workweek/internal/app"

type ReportRequest = app.ReportRequest

func NewReportRequest() ReportRequest {
	return app.NewReportRequest()
}

type ReportResponse = app.ReportResponse

type ReportErrorCode = app.ReportErrorCode

const (
	ReportErrInvalidWeek ReportErrorCode = app.ReportErrInvalidWeek
)

type ReportError = app.ReportError
