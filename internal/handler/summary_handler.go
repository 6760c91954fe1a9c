package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"vitalis/internal/service"
)

// SummaryHandler handles daily summary endpoints.
type SummaryHandler struct {
	summaryService service.SummaryService
}

// NewSummaryHandler creates a new SummaryHandler.
func NewSummaryHandler(summaryService service.SummaryService) *SummaryHandler {
	return &SummaryHandler{summaryService: summaryService}
}

// Generate handles POST /api/v1/summaries/generate
// @Summary Generate a daily summary
// @Description Generate (or regenerate) the AI summary for a day's metrics
// @Tags summaries
// @Accept json
// @Produce json
// @Param request body GenerateSummaryRequest false "Generation options"
// @Success 200 {object} APIResponse "Generated summary"
// @Failure 401 {object} APIResponse "Unauthorized"
// @Failure 404 {object} APIResponse "No metrics recorded for that day"
// @Security BearerAuth
// @Router /summaries/generate [post]
func (h *SummaryHandler) Generate(c *gin.Context) {
	userID, ok := extractAuthContext(c)
	if !ok {
		return
	}

	var req GenerateSummaryRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	summary, err := h.summaryService.GenerateDaily(c.Request.Context(), service.GenerateSummaryInput{
		UserID:    userID,
		Date:      req.Date,
		SendEmail: req.SendEmail,
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, summary)
}

// GenerateSummaryRequest is the body for summary generation.
type GenerateSummaryRequest struct {
	Date      string `json:"date"` // YYYY-MM-DD; empty means today
	SendEmail bool   `json:"send_email"`
}

// GetByDate handles GET /api/v1/summaries/:date
// @Summary Get summary by date
// @Description Get the stored daily summary for a calendar date
// @Tags summaries
// @Produce json
// @Param date path string true "Calendar date (YYYY-MM-DD)"
// @Success 200 {object} APIResponse "Daily summary"
// @Failure 401 {object} APIResponse "Unauthorized"
// @Failure 404 {object} APIResponse "No summary for that date"
// @Security BearerAuth
// @Router /summaries/{date} [get]
func (h *SummaryHandler) GetByDate(c *gin.Context) {
	userID, ok := extractAuthContext(c)
	if !ok {
		return
	}

	summary, err := h.summaryService.GetByDate(c.Request.Context(), userID, c.Param("date"))
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, summary)
}

// List handles GET /api/v1/summaries
// @Summary List summaries
// @Description List the user's daily summaries, newest first
// @Tags summaries
// @Produce json
// @Param offset query int false "Offset for pagination" default(0)
// @Param limit query int false "Limit for pagination (max 100)" default(20)
// @Success 200 {object} APIResponse "List of summaries"
// @Failure 401 {object} APIResponse "Unauthorized"
// @Security BearerAuth
// @Router /summaries [get]
func (h *SummaryHandler) List(c *gin.Context) {
	userID, ok := extractAuthContext(c)
	if !ok {
		return
	}

	offset, limit := parsePagination(c)

	summaries, total, err := h.summaryService.List(c.Request.Context(), userID, offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondPaginated(c, summaries, PagMeta{Total: total, Offset: offset, Limit: limit})
}
