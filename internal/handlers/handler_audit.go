package handlers

import (
	"log/slog"
	"net/http"

	"github.com/commerceos/commerceos_backend/internal/dto"
	"github.com/commerceos/commerceos_backend/internal/middleware"
	"github.com/gin-gonic/gin"

	portssvc "github.com/commerceos/commerceos_backend/internal/core/ports/services"
)

// auditHandler handles HTTP requests for archived cash audits.
type auditHandler struct {
	auditService portssvc.AuditSvcFacade
}

func newAuditHandler(as portssvc.AuditSvcFacade) *auditHandler {
	return &auditHandler{auditService: as}
}

// registerAuditRoutes registers the audit routes under an organization scope.
func registerAuditRoutes(rg *gin.RouterGroup, auditService portssvc.AuditSvcFacade) {
	h := newAuditHandler(auditService)

	audits := rg.Group("/audits")
	{
		audits.GET("", h.listAudits)
		audits.GET("/:auditID", h.getAudit)
		audits.PUT("/:auditID", h.updateAudit)
		audits.DELETE("/:auditID", h.deleteAudit)
		audits.POST("/:auditID/report", h.regenerateReport)
		audits.GET("/:auditID/report", h.downloadReport)
	}
}

// listAudits godoc
// @Summary List audits in a date range
// @Tags audits
// @Produce json
// @Param organizationID path string true "Organization ID"
// @Param from query string true "Start date (YYYY-MM-DD)"
// @Param to query string true "End date (YYYY-MM-DD)"
// @Success 200 {object} dto.ListAuditsResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /organizations/{organizationID}/audits [get]
func (h *auditHandler) listAudits(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, organizationID, ok := callerAndOrg(c)
	if !ok {
		return
	}

	audits, err := h.auditService.ListAudits(c.Request.Context(), userID, organizationID, c.Query("from"), c.Query("to"))
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list audits")
		return
	}
	c.JSON(http.StatusOK, dto.ToListAuditsResponse(audits))
}

// getAudit godoc
// @Summary Get an audit with its full snapshot
// @Tags audits
// @Produce json
// @Param organizationID path string true "Organization ID"
// @Param auditID path string true "Audit ID"
// @Success 200 {object} dto.AuditResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /organizations/{organizationID}/audits/{auditID} [get]
func (h *auditHandler) getAudit(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, organizationID, ok := callerAndOrg(c)
	if !ok {
		return
	}

	audit, err := h.auditService.GetAudit(c.Request.Context(), userID, organizationID, c.Param("auditID"))
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve audit")
		return
	}
	c.JSON(http.StatusOK, dto.ToAuditResponse(audit))
}

// updateAudit godoc
// @Summary Update an audit's date or notes
// @Description ADMIN only. The archived snapshot itself is immutable.
// @Tags audits
// @Accept json
// @Produce json
// @Param organizationID path string true "Organization ID"
// @Param auditID path string true "Audit ID"
// @Param audit body dto.UpdateAuditRequest true "Fields to update"
// @Success 200 {object} dto.AuditResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /organizations/{organizationID}/audits/{auditID} [put]
func (h *auditHandler) updateAudit(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, organizationID, ok := callerAndOrg(c)
	if !ok {
		return
	}

	var req dto.UpdateAuditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	audit, err := h.auditService.UpdateAudit(c.Request.Context(), userID, organizationID, c.Param("auditID"), req)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to update audit")
		return
	}
	c.JSON(http.StatusOK, dto.ToAuditResponse(audit))
}

// deleteAudit godoc
// @Summary Delete an audit
// @Description ADMIN only.
// @Tags audits
// @Produce json
// @Param organizationID path string true "Organization ID"
// @Param auditID path string true "Audit ID"
// @Success 204 "No Content"
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /organizations/{organizationID}/audits/{auditID} [delete]
func (h *auditHandler) deleteAudit(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, organizationID, ok := callerAndOrg(c)
	if !ok {
		return
	}

	if err := h.auditService.DeleteAudit(c.Request.Context(), userID, organizationID, c.Param("auditID")); err != nil {
		respondServiceError(c, logger, err, "Failed to delete audit")
		return
	}
	c.Status(http.StatusNoContent)
}

// regenerateReport godoc
// @Summary Rebuild and re-upload the audit's spreadsheet report
// @Tags audits
// @Produce json
// @Param organizationID path string true "Organization ID"
// @Param auditID path string true "Audit ID"
// @Success 200 {object} map[string]string "reportURL"
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /organizations/{organizationID}/audits/{auditID}/report [post]
func (h *auditHandler) regenerateReport(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, organizationID, ok := callerAndOrg(c)
	if !ok {
		return
	}

	reportURL, err := h.auditService.RegenerateReport(c.Request.Context(), userID, organizationID, c.Param("auditID"))
	if err != nil {
		respondServiceError(c, logger, err, "Failed to regenerate report")
		return
	}

	logger.Info("Report regenerated", slog.String("audit_id", c.Param("auditID")))
	c.JSON(http.StatusOK, gin.H{"reportURL": reportURL})
}

// downloadReport godoc
// @Summary Download the audit's spreadsheet report
// @Description Renders the workbook on the fly and streams it as an attachment.
// @Tags audits
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param organizationID path string true "Organization ID"
// @Param auditID path string true "Audit ID"
// @Success 200 {file} binary
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /organizations/{organizationID}/audits/{auditID}/report [get]
func (h *auditHandler) downloadReport(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, organizationID, ok := callerAndOrg(c)
	if !ok {
		return
	}

	data, filename, err := h.auditService.RenderReport(c.Request.Context(), userID, organizationID, c.Param("auditID"))
	if err != nil {
		respondServiceError(c, logger, err, "Failed to render report")
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}
