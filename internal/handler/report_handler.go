package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"vitalis/internal/service"
)

// ReportHandler handles metric export endpoints.
type ReportHandler struct {
	reportService service.ReportService
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reportService service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// ExportXLSX handles GET /api/v1/reports/metrics.xlsx
// @Summary Export metrics as XLSX
// @Description Download the user's metric history as a spreadsheet, with the same filters as the metrics list
// @Tags reports
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param type query string false "Canonical metric type"
// @Param source query string false "Metric source"
// @Param from query string false "Start of range (RFC3339 or YYYY-MM-DD)"
// @Param to query string false "End of range, exclusive (RFC3339 or YYYY-MM-DD)"
// @Success 200 {file} binary "XLSX workbook"
// @Failure 401 {object} APIResponse "Unauthorized"
// @Security BearerAuth
// @Router /reports/metrics.xlsx [get]
func (h *ReportHandler) ExportXLSX(c *gin.Context) {
	userID, ok := extractAuthContext(c)
	if !ok {
		return
	}

	filter := metricFilterFromQuery(c)

	filename := fmt.Sprintf("vitalis-metrics-%s.xlsx", time.Now().UTC().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")

	if err := h.reportService.WriteMetricsXLSX(c.Request.Context(), c.Writer, userID, filter); err != nil {
		// Headers may already be written; log-and-map is the best we can do.
		HandleError(c, err)
		return
	}
	c.Status(http.StatusOK)
}
