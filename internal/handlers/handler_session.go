package handlers

import (
	"log/slog"
	"net/http"

	"github.com/commerceos/commerceos_backend/internal/dto"
	"github.com/commerceos/commerceos_backend/internal/middleware"
	"github.com/gin-gonic/gin"

	portssvc "github.com/commerceos/commerceos_backend/internal/core/ports/services"
)

// sessionHandler handles HTTP requests for the daily cash session.
type sessionHandler struct {
	sessionService portssvc.SessionSvcFacade
}

func newSessionHandler(ss portssvc.SessionSvcFacade) *sessionHandler {
	return &sessionHandler{sessionService: ss}
}

// registerSessionRoutes registers the cash session routes under an
// organization scope.
func registerSessionRoutes(rg *gin.RouterGroup, sessionService portssvc.SessionSvcFacade) {
	h := newSessionHandler(sessionService)

	sessions := rg.Group("/sessions")
	{
		sessions.POST("", h.openSession)
		sessions.GET("/current", h.getCurrentSession)
		sessions.GET("/:sessionID", h.getSession)
		sessions.PATCH("/:sessionID", h.patchSession)
		sessions.POST("/current/sales", h.addSale)
		sessions.POST("/current/entries", h.addEntry)
		sessions.DELETE("/:sessionID/sales/:saleID", h.deleteSale)
		sessions.DELETE("/:sessionID/entries/:entryID", h.deleteEntry)
		sessions.POST("/current/close", h.closeSession)
	}
}

// callerAndOrg pulls the authenticated user and the organization path param.
func callerAndOrg(c *gin.Context) (userID, organizationID string, ok bool) {
	userID, ok = middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return "", "", false
	}
	return userID, c.Param("organizationID"), true
}

// openSession godoc
// @Summary Open the day's cash session
// @Description Opens a new session with the given opening balances. Only one OPEN session per organization.
// @Tags sessions
// @Accept json
// @Produce json
// @Param organizationID path string true "Organization ID"
// @Param session body dto.OpenSessionRequest true "Opening balances"
// @Success 201 {object} dto.SessionResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "An open session already exists"
// @Security BearerAuth
// @Router /organizations/{organizationID}/sessions [post]
func (h *sessionHandler) openSession(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, organizationID, ok := callerAndOrg(c)
	if !ok {
		return
	}

	var req dto.OpenSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	session, err := h.sessionService.OpenSession(c.Request.Context(), userID, organizationID, req)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to open session")
		return
	}

	logger.Info("Session opened", slog.String("session_id", session.SessionID))
	c.JSON(http.StatusCreated, dto.ToSessionResponse(session, nil, nil))
}

// getCurrentSession godoc
// @Summary Get the open session with its line items and totals
// @Tags sessions
// @Produce json
// @Param organizationID path string true "Organization ID"
// @Success 200 {object} dto.SessionResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse "No open session"
// @Security BearerAuth
// @Router /organizations/{organizationID}/sessions/current [get]
func (h *sessionHandler) getCurrentSession(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, organizationID, ok := callerAndOrg(c)
	if !ok {
		return
	}

	session, sales, entries, err := h.sessionService.GetCurrentSession(c.Request.Context(), userID, organizationID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve session")
		return
	}
	c.JSON(http.StatusOK, dto.ToSessionResponse(session, sales, entries))
}

// getSession godoc
// @Summary Get a session by ID
// @Tags sessions
// @Produce json
// @Param organizationID path string true "Organization ID"
// @Param sessionID path string true "Session ID"
// @Success 200 {object} dto.SessionResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /organizations/{organizationID}/sessions/{sessionID} [get]
func (h *sessionHandler) getSession(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, organizationID, ok := callerAndOrg(c)
	if !ok {
		return
	}

	session, sales, entries, err := h.sessionService.GetSession(c.Request.Context(), userID, organizationID, c.Param("sessionID"))
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve session")
		return
	}
	c.JSON(http.StatusOK, dto.ToSessionResponse(session, sales, entries))
}

// patchSession godoc
// @Summary Patch the open session
// @Description Applies a field-level patch guarded by the optimistic version stamp; a stale version yields 409.
// @Tags sessions
// @Accept json
// @Produce json
// @Param organizationID path string true "Organization ID"
// @Param sessionID path string true "Session ID"
// @Param patch body dto.PatchSessionRequest true "Fields to patch plus the expected version"
// @Success 200 {object} dto.SessionResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Stale version or closed session"
// @Security BearerAuth
// @Router /organizations/{organizationID}/sessions/{sessionID} [patch]
func (h *sessionHandler) patchSession(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, organizationID, ok := callerAndOrg(c)
	if !ok {
		return
	}

	var req dto.PatchSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	session, err := h.sessionService.PatchSession(c.Request.Context(), userID, organizationID, c.Param("sessionID"), req)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to patch session")
		return
	}
	c.JSON(http.StatusOK, dto.ToSessionResponse(session, nil, nil))
}

// addSale godoc
// @Summary Record a sale against the open session
// @Description The commission is derived from the organization's settings for the payment method.
// @Tags sessions
// @Accept json
// @Produce json
// @Param organizationID path string true "Organization ID"
// @Param sale body dto.AddSaleRequest true "Sale details"
// @Success 201 {object} domain.Sale
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "No open session"
// @Security BearerAuth
// @Router /organizations/{organizationID}/sessions/current/sales [post]
func (h *sessionHandler) addSale(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, organizationID, ok := callerAndOrg(c)
	if !ok {
		return
	}

	var req dto.AddSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	sale, err := h.sessionService.AddSale(c.Request.Context(), userID, organizationID, req)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to record sale")
		return
	}

	logger.Info("Sale recorded", slog.String("sale_id", sale.SaleID))
	c.JSON(http.StatusCreated, sale)
}

// addEntry godoc
// @Summary Record an income or expense line item against the open session
// @Tags sessions
// @Accept json
// @Produce json
// @Param organizationID path string true "Organization ID"
// @Param entry body dto.AddEntryRequest true "Entry details"
// @Success 201 {object} domain.SessionEntry
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "No open session"
// @Security BearerAuth
// @Router /organizations/{organizationID}/sessions/current/entries [post]
func (h *sessionHandler) addEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, organizationID, ok := callerAndOrg(c)
	if !ok {
		return
	}

	var req dto.AddEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	entry, err := h.sessionService.AddEntry(c.Request.Context(), userID, organizationID, req)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to record entry")
		return
	}

	logger.Info("Entry recorded", slog.String("entry_id", entry.EntryID))
	c.JSON(http.StatusCreated, entry)
}

// deleteSale godoc
// @Summary Delete a sale from an open session
// @Tags sessions
// @Produce json
// @Param organizationID path string true "Organization ID"
// @Param sessionID path string true "Session ID"
// @Param saleID path string true "Sale ID"
// @Success 204 "No Content"
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Session is closed"
// @Security BearerAuth
// @Router /organizations/{organizationID}/sessions/{sessionID}/sales/{saleID} [delete]
func (h *sessionHandler) deleteSale(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, organizationID, ok := callerAndOrg(c)
	if !ok {
		return
	}

	err := h.sessionService.DeleteSale(c.Request.Context(), userID, organizationID, c.Param("sessionID"), c.Param("saleID"))
	if err != nil {
		respondServiceError(c, logger, err, "Failed to delete sale")
		return
	}
	c.Status(http.StatusNoContent)
}

// deleteEntry godoc
// @Summary Delete an entry from an open session
// @Tags sessions
// @Produce json
// @Param organizationID path string true "Organization ID"
// @Param sessionID path string true "Session ID"
// @Param entryID path string true "Entry ID"
// @Success 204 "No Content"
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Session is closed"
// @Security BearerAuth
// @Router /organizations/{organizationID}/sessions/{sessionID}/entries/{entryID} [delete]
func (h *sessionHandler) deleteEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, organizationID, ok := callerAndOrg(c)
	if !ok {
		return
	}

	err := h.sessionService.DeleteEntry(c.Request.Context(), userID, organizationID, c.Param("sessionID"), c.Param("entryID"))
	if err != nil {
		respondServiceError(c, logger, err, "Failed to delete entry")
		return
	}
	c.Status(http.StatusNoContent)
}

// closeSession godoc
// @Summary Close the open session
// @Description Computes totals and the reconciliation difference from the physical count, archives the audit and generates the spreadsheet report.
// @Tags sessions
// @Accept json
// @Produce json
// @Param organizationID path string true "Organization ID"
// @Param close body dto.CloseSessionRequest true "Physical count"
// @Success 200 {object} dto.AuditResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "No open session"
// @Security BearerAuth
// @Router /organizations/{organizationID}/sessions/current/close [post]
func (h *sessionHandler) closeSession(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, organizationID, ok := callerAndOrg(c)
	if !ok {
		return
	}

	var req dto.CloseSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	audit, err := h.sessionService.CloseSession(c.Request.Context(), userID, organizationID, req)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to close session")
		return
	}

	logger.Info("Session closed", slog.String("audit_id", audit.AuditID))
	c.JSON(http.StatusOK, dto.ToAuditResponse(audit))
}
