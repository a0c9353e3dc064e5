package handlers

import (
	"log/slog"
	"net/http"

	"github.com/commerceos/commerceos_backend/internal/dto"
	"github.com/commerceos/commerceos_backend/internal/middleware"
	"github.com/gin-gonic/gin"

	portssvc "github.com/commerceos/commerceos_backend/internal/core/ports/services"
)

// supplyHandler handles HTTP requests for the supply catalog.
type supplyHandler struct {
	supplyService portssvc.SupplySvcFacade
}

func newSupplyHandler(ss portssvc.SupplySvcFacade) *supplyHandler {
	return &supplyHandler{supplyService: ss}
}

// registerSupplyRoutes registers the supply catalog routes under an
// organization scope.
func registerSupplyRoutes(rg *gin.RouterGroup, supplyService portssvc.SupplySvcFacade) {
	h := newSupplyHandler(supplyService)

	supplies := rg.Group("/supplies")
	{
		supplies.POST("", h.createSupply)
		supplies.GET("", h.listSupplies)
		supplies.GET("/:supplyID", h.getSupply)
		supplies.PUT("/:supplyID", h.updateSupply)
		supplies.DELETE("/:supplyID", h.deleteSupply)
		supplies.GET("/:supplyID/history", h.listPriceHistory)
	}
}

// createSupply godoc
// @Summary Create a supply item
// @Tags supplies
// @Accept json
// @Produce json
// @Param organizationID path string true "Organization ID"
// @Param supply body dto.CreateSupplyRequest true "Supply details"
// @Success 201 {object} dto.SupplyResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /organizations/{organizationID}/supplies [post]
func (h *supplyHandler) createSupply(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, organizationID, ok := callerAndOrg(c)
	if !ok {
		return
	}

	var req dto.CreateSupplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	supply, err := h.supplyService.CreateSupply(c.Request.Context(), userID, organizationID, req)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to create supply")
		return
	}

	logger.Info("Supply created", slog.String("supply_id", supply.SupplyID))
	c.JSON(http.StatusCreated, dto.ToSupplyResponse(supply))
}

// listSupplies godoc
// @Summary List supplies
// @Tags supplies
// @Produce json
// @Param organizationID path string true "Organization ID"
// @Success 200 {object} dto.ListSuppliesResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /organizations/{organizationID}/supplies [get]
func (h *supplyHandler) listSupplies(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, organizationID, ok := callerAndOrg(c)
	if !ok {
		return
	}

	supplies, err := h.supplyService.ListSupplies(c.Request.Context(), userID, organizationID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list supplies")
		return
	}
	c.JSON(http.StatusOK, dto.ToListSuppliesResponse(supplies))
}

// getSupply godoc
// @Summary Get a supply item
// @Tags supplies
// @Produce json
// @Param organizationID path string true "Organization ID"
// @Param supplyID path string true "Supply ID"
// @Success 200 {object} dto.SupplyResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /organizations/{organizationID}/supplies/{supplyID} [get]
func (h *supplyHandler) getSupply(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, organizationID, ok := callerAndOrg(c)
	if !ok {
		return
	}

	supply, err := h.supplyService.GetSupply(c.Request.Context(), userID, organizationID, c.Param("supplyID"))
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve supply")
		return
	}
	c.JSON(http.StatusOK, dto.ToSupplyResponse(supply))
}

// updateSupply godoc
// @Summary Update a supply item
// @Description A material cost change archives the previous cost into the price history.
// @Tags supplies
// @Accept json
// @Produce json
// @Param organizationID path string true "Organization ID"
// @Param supplyID path string true "Supply ID"
// @Param supply body dto.UpdateSupplyRequest true "Fields to update"
// @Success 200 {object} dto.SupplyResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /organizations/{organizationID}/supplies/{supplyID} [put]
func (h *supplyHandler) updateSupply(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, organizationID, ok := callerAndOrg(c)
	if !ok {
		return
	}

	var req dto.UpdateSupplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	supply, err := h.supplyService.UpdateSupply(c.Request.Context(), userID, organizationID, c.Param("supplyID"), req)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to update supply")
		return
	}
	c.JSON(http.StatusOK, dto.ToSupplyResponse(supply))
}

// deleteSupply godoc
// @Summary Delete a supply item
// @Tags supplies
// @Produce json
// @Param organizationID path string true "Organization ID"
// @Param supplyID path string true "Supply ID"
// @Success 204 "No Content"
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /organizations/{organizationID}/supplies/{supplyID} [delete]
func (h *supplyHandler) deleteSupply(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, organizationID, ok := callerAndOrg(c)
	if !ok {
		return
	}

	if err := h.supplyService.DeleteSupply(c.Request.Context(), userID, organizationID, c.Param("supplyID")); err != nil {
		respondServiceError(c, logger, err, "Failed to delete supply")
		return
	}
	c.Status(http.StatusNoContent)
}

// listPriceHistory godoc
// @Summary List a supply item's cost history
// @Tags supplies
// @Produce json
// @Param organizationID path string true "Organization ID"
// @Param supplyID path string true "Supply ID"
// @Success 200 {array} dto.HistoricalPriceResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /organizations/{organizationID}/supplies/{supplyID}/history [get]
func (h *supplyHandler) listPriceHistory(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, organizationID, ok := callerAndOrg(c)
	if !ok {
		return
	}

	history, err := h.supplyService.ListPriceHistory(c.Request.Context(), userID, organizationID, c.Param("supplyID"))
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list price history")
		return
	}
	c.JSON(http.StatusOK, dto.ToListHistoricalPricesResponse(history))
}
