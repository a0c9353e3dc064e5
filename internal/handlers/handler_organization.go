package handlers

import (
	"log/slog"
	"net/http"

	"github.com/commerceos/commerceos_backend/internal/dto"
	"github.com/commerceos/commerceos_backend/internal/middleware"
	"github.com/gin-gonic/gin"

	portssvc "github.com/commerceos/commerceos_backend/internal/core/ports/services"
)

// organizationHandler handles HTTP requests related to organizations.
type organizationHandler struct {
	orgService portssvc.OrganizationSvcFacade
}

func newOrganizationHandler(os portssvc.OrganizationSvcFacade) *organizationHandler {
	return &organizationHandler{orgService: os}
}

// registerOrganizationRoutes registers routes related to organizations and
// tenant resolution.
func registerOrganizationRoutes(rg *gin.RouterGroup, orgService portssvc.OrganizationSvcFacade) {
	h := newOrganizationHandler(orgService)

	orgs := rg.Group("/organizations")
	{
		orgs.POST("", h.createOrganization)
		orgs.GET("", h.listOrganizations)
		orgs.GET("/active", h.getActiveOrganization)
		orgs.PUT("/active/:organizationID", h.switchActiveOrganization)
		orgs.GET("/:organizationID", h.getOrganization)
		orgs.PUT("/:organizationID", h.updateOrganization)
		orgs.POST("/:organizationID/users", h.addUser)
		orgs.POST("/:organizationID/logo", h.uploadLogo)
	}
}

// createOrganization godoc
// @Summary Create an organization
// @Description Creates the organization, makes the caller its ADMIN and opens a baseline cash session, all atomically.
// @Tags organizations
// @Accept json
// @Produce json
// @Param organization body dto.CreateOrganizationRequest true "Organization details"
// @Success 201 {object} dto.OrganizationResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Security BearerAuth
// @Router /organizations [post]
func (h *organizationHandler) createOrganization(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req dto.CreateOrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	org, err := h.orgService.CreateOrganization(c.Request.Context(), req, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to create organization")
		return
	}

	logger.Info("Organization created", slog.String("organization_id", org.OrganizationID))
	c.JSON(http.StatusCreated, dto.ToOrganizationResponse(org))
}

// listOrganizations godoc
// @Summary List the caller's organizations
// @Tags organizations
// @Produce json
// @Success 200 {object} dto.ListOrganizationsResponse
// @Failure 401 {object} ErrorResponse
// @Security BearerAuth
// @Router /organizations [get]
func (h *organizationHandler) listOrganizations(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	orgs, err := h.orgService.ListUserOrganizations(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list organizations")
		return
	}
	c.JSON(http.StatusOK, dto.ToListOrganizationsResponse(orgs))
}

// getActiveOrganization godoc
// @Summary Resolve the caller's active organization
// @Description Returns the pinned organization when it is a live membership, otherwise the first membership.
// @Tags organizations
// @Produce json
// @Success 200 {object} dto.OrganizationResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse "No organization membership"
// @Security BearerAuth
// @Router /organizations/active [get]
func (h *organizationHandler) getActiveOrganization(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	org, err := h.orgService.ResolveActiveOrganization(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to resolve active organization")
		return
	}
	c.JSON(http.StatusOK, dto.ToOrganizationResponse(org))
}

// switchActiveOrganization godoc
// @Summary Pin the caller's active organization
// @Tags organizations
// @Produce json
// @Param organizationID path string true "Organization ID"
// @Success 204 "No Content"
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse "Not a member"
// @Security BearerAuth
// @Router /organizations/active/{organizationID} [put]
func (h *organizationHandler) switchActiveOrganization(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}
	organizationID := c.Param("organizationID")

	if err := h.orgService.SwitchActiveOrganization(c.Request.Context(), userID, organizationID); err != nil {
		respondServiceError(c, logger, err, "Failed to switch organization")
		return
	}

	logger.Info("Active organization switched", slog.String("organization_id", organizationID))
	c.Status(http.StatusNoContent)
}

// getOrganization godoc
// @Summary Get an organization
// @Tags organizations
// @Produce json
// @Param organizationID path string true "Organization ID"
// @Success 200 {object} dto.OrganizationResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /organizations/{organizationID} [get]
func (h *organizationHandler) getOrganization(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	org, err := h.orgService.FindOrganizationByID(c.Request.Context(), userID, c.Param("organizationID"))
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve organization")
		return
	}
	c.JSON(http.StatusOK, dto.ToOrganizationResponse(org))
}

// updateOrganization godoc
// @Summary Update an organization
// @Description ADMIN only. Settings are merged with defaults on the way in.
// @Tags organizations
// @Accept json
// @Produce json
// @Param organizationID path string true "Organization ID"
// @Param organization body dto.UpdateOrganizationRequest true "Fields to update"
// @Success 200 {object} dto.OrganizationResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /organizations/{organizationID} [put]
func (h *organizationHandler) updateOrganization(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req dto.UpdateOrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	org, err := h.orgService.UpdateOrganization(c.Request.Context(), userID, c.Param("organizationID"), req)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to update organization")
		return
	}
	c.JSON(http.StatusOK, dto.ToOrganizationResponse(org))
}

// addUser godoc
// @Summary Add a member to an organization
// @Description ADMIN only. Re-adding an existing member updates their role.
// @Tags organizations
// @Accept json
// @Produce json
// @Param organizationID path string true "Organization ID"
// @Param member body dto.AddUserToOrganizationRequest true "User and role"
// @Success 204 "No Content"
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /organizations/{organizationID}/users [post]
func (h *organizationHandler) addUser(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req dto.AddUserToOrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	if err := h.orgService.AddUserToOrganization(c.Request.Context(), userID, req.UserID, c.Param("organizationID"), req.Role); err != nil {
		respondServiceError(c, logger, err, "Failed to add user to organization")
		return
	}

	logger.Info("User added to organization", slog.String("target_user_id", req.UserID))
	c.Status(http.StatusNoContent)
}

// uploadLogo godoc
// @Summary Upload the organization logo
// @Description ADMIN only. Accepts a base64 encoded image and returns the stored public URL.
// @Tags organizations
// @Accept json
// @Produce json
// @Param organizationID path string true "Organization ID"
// @Param logo body dto.UploadLogoRequest true "Logo file"
// @Success 200 {object} dto.UploadLogoResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /organizations/{organizationID}/logo [post]
func (h *organizationHandler) uploadLogo(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req dto.UploadLogoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	logoURL, err := h.orgService.UploadLogo(c.Request.Context(), userID, c.Param("organizationID"), req)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to upload logo")
		return
	}

	logger.Info("Organization logo uploaded")
	c.JSON(http.StatusOK, dto.UploadLogoResponse{LogoURL: logoURL})
}
