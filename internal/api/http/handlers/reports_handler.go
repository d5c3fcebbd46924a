package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/dtvk027/v0-civic-issue-reporter/internal/api/dto"
	"github.com/dtvk027/v0-civic-issue-reporter/internal/service"
)

// ReportsHandler serves report exports. Authentication and the staff check
// run as route middleware before Export.
type ReportsHandler struct {
	reports *service.ReportService
}

// NewReportsHandler constructs handler.
func NewReportsHandler(reportService *service.ReportService) *ReportsHandler {
	return &ReportsHandler{reports: reportService}
}

// Export GET /api/reports/export?type=weekly|monthly|comprehensive&format=json|csv.
func (h *ReportsHandler) Export(c *fiber.Ctx) error {
	reportType, err := service.ParseReportType(c.Query("type"))
	if err != nil {
		return err
	}
	format, err := service.ParseReportFormat(c.Query("format"))
	if err != nil {
		return err
	}

	report, err := h.reports.Generate(c.UserContext(), reportType)
	if err != nil {
		return err
	}
	h.reports.Exported(reportType, format)

	if format == service.FormatCSV {
		c.Set(fiber.HeaderContentType, "text/csv")
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s-report.csv"`, reportType))
		return c.Send(service.EncodeReportCSV(report.Issues))
	}

	return c.JSON(dto.ReportResponse{
		Title:  report.Title,
		Period: report.Period,
		Issues: issueResponses(report.Issues),
		Summary: dto.ReportSummary{
			Total:      report.Summary.Total,
			Resolved:   report.Summary.Resolved,
			Pending:    report.Summary.Pending,
			InProgress: report.Summary.InProgress,
		},
	})
}
