package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"vitalis/internal/port"
	"vitalis/internal/service"
)

// MetricHandler handles health metric endpoints.
type MetricHandler struct {
	healthData  service.HealthDataService
	syncService service.SyncService
}

// NewMetricHandler creates a new MetricHandler.
func NewMetricHandler(healthData service.HealthDataService, syncService service.SyncService) *MetricHandler {
	return &MetricHandler{healthData: healthData, syncService: syncService}
}

// metricFilterFromQuery builds a MetricFilter from query parameters.
// Dates accept RFC3339 timestamps or plain YYYY-MM-DD days.
func metricFilterFromQuery(c *gin.Context) port.MetricFilter {
	filter := port.MetricFilter{
		MetricType: c.Query("type"),
		Source:     c.Query("source"),
	}
	filter.From = parseTimeParam(c.Query("from"))
	filter.To = parseTimeParam(c.Query("to"))
	return filter
}

func parseTimeParam(val string) time.Time {
	if val == "" {
		return time.Time{}
	}
	if t, err := time.Parse(time.RFC3339, val); err == nil {
		return t
	}
	if t, err := time.ParseInLocation("2006-01-02", val, time.UTC); err == nil {
		return t
	}
	return time.Time{}
}

// List handles GET /api/v1/metrics
// @Summary List metrics
// @Description List the user's health metric records with type, source, and date filters
// @Tags metrics
// @Produce json
// @Param type query string false "Canonical metric type (e.g. blood_glucose)"
// @Param source query string false "Metric source (document_extraction, apple_health, manual)"
// @Param from query string false "Start of range (RFC3339 or YYYY-MM-DD)"
// @Param to query string false "End of range, exclusive (RFC3339 or YYYY-MM-DD)"
// @Param offset query int false "Offset for pagination" default(0)
// @Param limit query int false "Limit for pagination (max 100)" default(20)
// @Success 200 {object} APIResponse "List of metric records"
// @Failure 401 {object} APIResponse "Unauthorized"
// @Security BearerAuth
// @Router /metrics [get]
func (h *MetricHandler) List(c *gin.Context) {
	userID, ok := extractAuthContext(c)
	if !ok {
		return
	}

	offset, limit := parsePagination(c)
	filter := metricFilterFromQuery(c)

	records, total, err := h.healthData.ListMetrics(c.Request.Context(), userID, filter, offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondPaginated(c, records, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// Latest handles GET /api/v1/metrics/latest
// @Summary Latest reading per metric
// @Description Get the most recent record for each metric type, for the dashboard overview
// @Tags metrics
// @Produce json
// @Success 200 {object} APIResponse "Latest record per metric type"
// @Failure 401 {object} APIResponse "Unauthorized"
// @Security BearerAuth
// @Router /metrics/latest [get]
func (h *MetricHandler) Latest(c *gin.Context) {
	userID, ok := extractAuthContext(c)
	if !ok {
		return
	}

	records, err := h.healthData.LatestByType(c.Request.Context(), userID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, records)
}

// Sync handles POST /api/v1/metrics/sync
// @Summary Sync device readings
// @Description Ingest a batch of Apple Health samples from the mobile app
// @Tags metrics
// @Accept json
// @Produce json
// @Param request body SyncRequest true "Batch of samples"
// @Success 200 {object} APIResponse "Ingestion result"
// @Failure 400 {object} APIResponse "No valid samples in batch"
// @Failure 401 {object} APIResponse "Unauthorized"
// @Security BearerAuth
// @Router /metrics/sync [post]
func (h *MetricHandler) Sync(c *gin.Context) {
	userID, ok := extractAuthContext(c)
	if !ok {
		return
	}

	var req SyncRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	result, err := h.syncService.IngestSamples(c.Request.Context(), service.SyncInput{
		UserID:  userID,
		Samples: req.Samples,
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, result)
}

// SyncRequest is the body for metric sync.
type SyncRequest struct {
	Samples []service.HealthSample `json:"samples" binding:"required"`
}
