package handlers

import (
	"log/slog"
	"net/http"

	"github.com/commerceos/commerceos_backend/internal/dto"
	"github.com/commerceos/commerceos_backend/internal/middleware"
	"github.com/gin-gonic/gin"

	portssvc "github.com/commerceos/commerceos_backend/internal/core/ports/services"
)

// providerHandler handles HTTP requests for provider contacts.
type providerHandler struct {
	providerService portssvc.ProviderSvcFacade
}

func newProviderHandler(ps portssvc.ProviderSvcFacade) *providerHandler {
	return &providerHandler{providerService: ps}
}

// registerProviderRoutes registers the provider routes under an organization
// scope.
func registerProviderRoutes(rg *gin.RouterGroup, providerService portssvc.ProviderSvcFacade) {
	h := newProviderHandler(providerService)

	providers := rg.Group("/providers")
	{
		providers.POST("", h.createProvider)
		providers.GET("", h.listProviders)
		providers.GET("/:providerID", h.getProvider)
		providers.PUT("/:providerID", h.updateProvider)
		providers.DELETE("/:providerID", h.deleteProvider)
	}
}

// createProvider godoc
// @Summary Create a provider
// @Tags providers
// @Accept json
// @Produce json
// @Param organizationID path string true "Organization ID"
// @Param provider body dto.CreateProviderRequest true "Provider details"
// @Success 201 {object} dto.ProviderResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /organizations/{organizationID}/providers [post]
func (h *providerHandler) createProvider(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, organizationID, ok := callerAndOrg(c)
	if !ok {
		return
	}

	var req dto.CreateProviderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	provider, err := h.providerService.CreateProvider(c.Request.Context(), userID, organizationID, req)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to create provider")
		return
	}

	logger.Info("Provider created", slog.String("provider_id", provider.ProviderID))
	c.JSON(http.StatusCreated, dto.ToProviderResponse(provider))
}

// listProviders godoc
// @Summary List providers
// @Description Active providers by default; pass includeInactive=true for all.
// @Tags providers
// @Produce json
// @Param organizationID path string true "Organization ID"
// @Param includeInactive query bool false "Include deactivated providers"
// @Success 200 {object} dto.ListProvidersResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /organizations/{organizationID}/providers [get]
func (h *providerHandler) listProviders(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, organizationID, ok := callerAndOrg(c)
	if !ok {
		return
	}

	includeInactive := c.Query("includeInactive") == "true"

	providers, err := h.providerService.ListProviders(c.Request.Context(), userID, organizationID, includeInactive)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list providers")
		return
	}
	c.JSON(http.StatusOK, dto.ToListProvidersResponse(providers))
}

// getProvider godoc
// @Summary Get a provider
// @Tags providers
// @Produce json
// @Param organizationID path string true "Organization ID"
// @Param providerID path string true "Provider ID"
// @Success 200 {object} dto.ProviderResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /organizations/{organizationID}/providers/{providerID} [get]
func (h *providerHandler) getProvider(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, organizationID, ok := callerAndOrg(c)
	if !ok {
		return
	}

	provider, err := h.providerService.GetProvider(c.Request.Context(), userID, organizationID, c.Param("providerID"))
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve provider")
		return
	}
	c.JSON(http.StatusOK, dto.ToProviderResponse(provider))
}

// updateProvider godoc
// @Summary Update a provider
// @Tags providers
// @Accept json
// @Produce json
// @Param organizationID path string true "Organization ID"
// @Param providerID path string true "Provider ID"
// @Param provider body dto.UpdateProviderRequest true "Fields to update"
// @Success 200 {object} dto.ProviderResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /organizations/{organizationID}/providers/{providerID} [put]
func (h *providerHandler) updateProvider(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, organizationID, ok := callerAndOrg(c)
	if !ok {
		return
	}

	var req dto.UpdateProviderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	provider, err := h.providerService.UpdateProvider(c.Request.Context(), userID, organizationID, c.Param("providerID"), req)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to update provider")
		return
	}
	c.JSON(http.StatusOK, dto.ToProviderResponse(provider))
}

// deleteProvider godoc
// @Summary Deactivate a provider
// @Description Soft delete: the provider stays referenceable from historical expenses and commitments.
// @Tags providers
// @Produce json
// @Param organizationID path string true "Organization ID"
// @Param providerID path string true "Provider ID"
// @Success 204 "No Content"
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /organizations/{organizationID}/providers/{providerID} [delete]
func (h *providerHandler) deleteProvider(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, organizationID, ok := callerAndOrg(c)
	if !ok {
		return
	}

	if err := h.providerService.DeleteProvider(c.Request.Context(), userID, organizationID, c.Param("providerID")); err != nil {
		respondServiceError(c, logger, err, "Failed to delete provider")
		return
	}
	c.Status(http.StatusNoContent)
}
