package handlers

import (
	"log/slog"
	"net/http"

	"github.com/commerceos/commerceos_backend/internal/core/domain"
	"github.com/commerceos/commerceos_backend/internal/dto"
	"github.com/commerceos/commerceos_backend/internal/middleware"
	"github.com/gin-gonic/gin"

	portssvc "github.com/commerceos/commerceos_backend/internal/core/ports/services"
)

// commitmentHandler handles HTTP requests for payment commitments.
type commitmentHandler struct {
	commitmentService portssvc.CommitmentSvcFacade
}

func newCommitmentHandler(cs portssvc.CommitmentSvcFacade) *commitmentHandler {
	return &commitmentHandler{commitmentService: cs}
}

// registerCommitmentRoutes registers the commitment routes under an
// organization scope.
func registerCommitmentRoutes(rg *gin.RouterGroup, commitmentService portssvc.CommitmentSvcFacade) {
	h := newCommitmentHandler(commitmentService)

	commitments := rg.Group("/commitments")
	{
		commitments.POST("", h.createCommitment)
		commitments.GET("", h.listCommitments)
		commitments.GET("/:commitmentID", h.getCommitment)
		commitments.PUT("/:commitmentID", h.updateCommitment)
		commitments.DELETE("/:commitmentID", h.deleteCommitment)
		commitments.POST("/:commitmentID/pay", h.markPaid)
	}
}

// createCommitment godoc
// @Summary Schedule a payment commitment
// @Tags commitments
// @Accept json
// @Produce json
// @Param organizationID path string true "Organization ID"
// @Param commitment body dto.CreateCommitmentRequest true "Commitment details"
// @Success 201 {object} dto.CommitmentResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /organizations/{organizationID}/commitments [post]
func (h *commitmentHandler) createCommitment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, organizationID, ok := callerAndOrg(c)
	if !ok {
		return
	}

	var req dto.CreateCommitmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	commitment, err := h.commitmentService.CreateCommitment(c.Request.Context(), userID, organizationID, req)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to create commitment")
		return
	}

	logger.Info("Commitment created", slog.String("commitment_id", commitment.CommitmentID))
	c.JSON(http.StatusCreated, dto.ToCommitmentResponse(commitment))
}

// listCommitments godoc
// @Summary List commitments
// @Description Soonest due first; optionally filtered by status.
// @Tags commitments
// @Produce json
// @Param organizationID path string true "Organization ID"
// @Param status query string false "Filter by status" Enums(PENDING, PAID)
// @Success 200 {object} dto.ListCommitmentsResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /organizations/{organizationID}/commitments [get]
func (h *commitmentHandler) listCommitments(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, organizationID, ok := callerAndOrg(c)
	if !ok {
		return
	}

	var status *domain.CommitmentStatus
	if raw := c.Query("status"); raw != "" {
		s := domain.CommitmentStatus(raw)
		if s != domain.CommitmentPending && s != domain.CommitmentPaid {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid status filter: " + raw})
			return
		}
		status = &s
	}

	commitments, err := h.commitmentService.ListCommitments(c.Request.Context(), userID, organizationID, status)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list commitments")
		return
	}
	c.JSON(http.StatusOK, dto.ToListCommitmentsResponse(commitments))
}

// getCommitment godoc
// @Summary Get a commitment
// @Tags commitments
// @Produce json
// @Param organizationID path string true "Organization ID"
// @Param commitmentID path string true "Commitment ID"
// @Success 200 {object} dto.CommitmentResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /organizations/{organizationID}/commitments/{commitmentID} [get]
func (h *commitmentHandler) getCommitment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, organizationID, ok := callerAndOrg(c)
	if !ok {
		return
	}

	commitment, err := h.commitmentService.GetCommitment(c.Request.Context(), userID, organizationID, c.Param("commitmentID"))
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve commitment")
		return
	}
	c.JSON(http.StatusOK, dto.ToCommitmentResponse(commitment))
}

// updateCommitment godoc
// @Summary Update a commitment
// @Description Only PENDING commitments can be edited.
// @Tags commitments
// @Accept json
// @Produce json
// @Param organizationID path string true "Organization ID"
// @Param commitmentID path string true "Commitment ID"
// @Param commitment body dto.UpdateCommitmentRequest true "Fields to update"
// @Success 200 {object} dto.CommitmentResponse
// @Failure 400 {object} ErrorResponse "Paid commitments cannot be edited"
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /organizations/{organizationID}/commitments/{commitmentID} [put]
func (h *commitmentHandler) updateCommitment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, organizationID, ok := callerAndOrg(c)
	if !ok {
		return
	}

	var req dto.UpdateCommitmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	commitment, err := h.commitmentService.UpdateCommitment(c.Request.Context(), userID, organizationID, c.Param("commitmentID"), req)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to update commitment")
		return
	}
	c.JSON(http.StatusOK, dto.ToCommitmentResponse(commitment))
}

// deleteCommitment godoc
// @Summary Delete a commitment
// @Tags commitments
// @Produce json
// @Param organizationID path string true "Organization ID"
// @Param commitmentID path string true "Commitment ID"
// @Success 204 "No Content"
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /organizations/{organizationID}/commitments/{commitmentID} [delete]
func (h *commitmentHandler) deleteCommitment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, organizationID, ok := callerAndOrg(c)
	if !ok {
		return
	}

	if err := h.commitmentService.DeleteCommitment(c.Request.Context(), userID, organizationID, c.Param("commitmentID")); err != nil {
		respondServiceError(c, logger, err, "Failed to delete commitment")
		return
	}
	c.Status(http.StatusNoContent)
}

// markPaid godoc
// @Summary Mark a commitment as paid
// @Description One-shot PENDING to PAID transition. With useCash, an expense for the amount is posted against the open session in the same transaction.
// @Tags commitments
// @Accept json
// @Produce json
// @Param organizationID path string true "Organization ID"
// @Param commitmentID path string true "Commitment ID"
// @Param options body dto.MarkPaidRequest true "Payment options"
// @Success 200 {object} dto.CommitmentResponse
// @Failure 400 {object} ErrorResponse "Already paid"
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Paying from cash requires an open session"
// @Security BearerAuth
// @Router /organizations/{organizationID}/commitments/{commitmentID}/pay [post]
func (h *commitmentHandler) markPaid(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, organizationID, ok := callerAndOrg(c)
	if !ok {
		return
	}

	var req dto.MarkPaidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	commitment, err := h.commitmentService.MarkPaid(c.Request.Context(), userID, organizationID, c.Param("commitmentID"), req)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to mark commitment paid")
		return
	}

	logger.Info("Commitment paid", slog.String("commitment_id", commitment.CommitmentID))
	c.JSON(http.StatusOK, dto.ToCommitmentResponse(commitment))
}
