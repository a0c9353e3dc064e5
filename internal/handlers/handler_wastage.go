package handlers

import (
	"log/slog"
	"net/http"

	"github.com/commerceos/commerceos_backend/internal/dto"
	"github.com/commerceos/commerceos_backend/internal/middleware"
	"github.com/gin-gonic/gin"

	portssvc "github.com/commerceos/commerceos_backend/internal/core/ports/services"
)

// wastageHandler handles HTTP requests for the loss log.
type wastageHandler struct {
	wastageService portssvc.WastageSvcFacade
}

func newWastageHandler(ws portssvc.WastageSvcFacade) *wastageHandler {
	return &wastageHandler{wastageService: ws}
}

// registerWastageRoutes registers the loss log routes under an organization
// scope.
func registerWastageRoutes(rg *gin.RouterGroup, wastageService portssvc.WastageSvcFacade) {
	h := newWastageHandler(wastageService)

	wastage := rg.Group("/wastage")
	{
		wastage.POST("", h.createWastage)
		wastage.GET("", h.listWastage)
		wastage.DELETE("/:wastageID", h.deleteWastage)
	}
}

// createWastage godoc
// @Summary Record a loss
// @Tags wastage
// @Accept json
// @Produce json
// @Param organizationID path string true "Organization ID"
// @Param wastage body dto.CreateWastageRequest true "Loss details"
// @Success 201 {object} dto.WastageResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /organizations/{organizationID}/wastage [post]
func (h *wastageHandler) createWastage(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, organizationID, ok := callerAndOrg(c)
	if !ok {
		return
	}

	var req dto.CreateWastageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	record, err := h.wastageService.CreateWastage(c.Request.Context(), userID, organizationID, req)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to record wastage")
		return
	}

	logger.Info("Wastage recorded", slog.String("wastage_id", record.WastageID))
	c.JSON(http.StatusCreated, dto.ToWastageResponse(record))
}

// listWastage godoc
// @Summary List losses in a date range
// @Tags wastage
// @Produce json
// @Param organizationID path string true "Organization ID"
// @Param from query string true "Start date (YYYY-MM-DD)"
// @Param to query string true "End date (YYYY-MM-DD)"
// @Success 200 {object} dto.ListWastageResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /organizations/{organizationID}/wastage [get]
func (h *wastageHandler) listWastage(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, organizationID, ok := callerAndOrg(c)
	if !ok {
		return
	}

	records, err := h.wastageService.ListWastage(c.Request.Context(), userID, organizationID, c.Query("from"), c.Query("to"))
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list wastage")
		return
	}
	c.JSON(http.StatusOK, dto.ToListWastageResponse(records))
}

// deleteWastage godoc
// @Summary Delete a loss record
// @Tags wastage
// @Produce json
// @Param organizationID path string true "Organization ID"
// @Param wastageID path string true "Wastage ID"
// @Success 204 "No Content"
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /organizations/{organizationID}/wastage/{wastageID} [delete]
func (h *wastageHandler) deleteWastage(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, organizationID, ok := callerAndOrg(c)
	if !ok {
		return
	}

	if err := h.wastageService.DeleteWastage(c.Request.Context(), userID, organizationID, c.Param("wastageID")); err != nil {
		respondServiceError(c, logger, err, "Failed to delete wastage")
		return
	}
	c.Status(http.StatusNoContent)
}
