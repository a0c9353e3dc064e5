package handlers

import (
	"net/http"

	"github.com/commerceos/commerceos_backend/internal/dto"
	"github.com/commerceos/commerceos_backend/internal/middleware"
	"github.com/gin-gonic/gin"

	portssvc "github.com/commerceos/commerceos_backend/internal/core/ports/services"
)

// reportingHandler handles HTTP requests for aggregated statistics.
type reportingHandler struct {
	reportingService portssvc.ReportingSvcFacade
}

func newReportingHandler(rs portssvc.ReportingSvcFacade) *reportingHandler {
	return &reportingHandler{reportingService: rs}
}

// registerReportingRoutes registers the statistics routes under an
// organization scope.
func registerReportingRoutes(rg *gin.RouterGroup, reportingService portssvc.ReportingSvcFacade) {
	h := newReportingHandler(reportingService)

	stats := rg.Group("/stats")
	{
		stats.GET("/monthly", h.monthlyStats)
		stats.GET("/wastage", h.wastageStats)
	}
}

// monthlyStats godoc
// @Summary Profitability statistics over a date range
// @Description Aggregates the organization's audits within [from, to] into income, sales, expenses, net result and per-day breakdowns.
// @Tags stats
// @Produce json
// @Param organizationID path string true "Organization ID"
// @Param from query string true "Start date (YYYY-MM-DD)"
// @Param to query string true "End date (YYYY-MM-DD)"
// @Success 200 {object} dto.MonthlySummaryResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /organizations/{organizationID}/stats/monthly [get]
func (h *reportingHandler) monthlyStats(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, organizationID, ok := callerAndOrg(c)
	if !ok {
		return
	}
	from, to := c.Query("from"), c.Query("to")

	summary, err := h.reportingService.MonthlyStats(c.Request.Context(), userID, organizationID, from, to)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to compute statistics")
		return
	}
	c.JSON(http.StatusOK, dto.MonthlySummaryResponse{From: from, To: to, Summary: *summary})
}

// wastageStats godoc
// @Summary Loss totals over a date range
// @Tags stats
// @Produce json
// @Param organizationID path string true "Organization ID"
// @Param from query string true "Start date (YYYY-MM-DD)"
// @Param to query string true "End date (YYYY-MM-DD)"
// @Success 200 {object} dto.WastageSummaryResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /organizations/{organizationID}/stats/wastage [get]
func (h *reportingHandler) wastageStats(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, organizationID, ok := callerAndOrg(c)
	if !ok {
		return
	}
	from, to := c.Query("from"), c.Query("to")

	summary, err := h.reportingService.WastageStats(c.Request.Context(), userID, organizationID, from, to)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to compute wastage statistics")
		return
	}
	c.JSON(http.StatusOK, dto.WastageSummaryResponse{From: from, To: to, Summary: *summary})
}
