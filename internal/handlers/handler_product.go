package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/commerceos/commerceos_backend/internal/dto"
	"github.com/commerceos/commerceos_backend/internal/middleware"
	"github.com/gin-gonic/gin"

	portssvc "github.com/commerceos/commerceos_backend/internal/core/ports/services"
)

// productHandler handles HTTP requests for the product catalog.
type productHandler struct {
	productService portssvc.ProductSvcFacade
}

func newProductHandler(ps portssvc.ProductSvcFacade) *productHandler {
	return &productHandler{productService: ps}
}

// registerProductRoutes registers the product catalog routes under an
// organization scope.
func registerProductRoutes(rg *gin.RouterGroup, productService portssvc.ProductSvcFacade) {
	h := newProductHandler(productService)

	products := rg.Group("/products")
	{
		products.POST("", h.createProduct)
		products.GET("", h.listProducts)
		products.GET("/:productID", h.getProduct)
		products.PUT("/:productID", h.updateProduct)
		products.DELETE("/:productID", h.deleteProduct)
		products.GET("/:productID/history", h.listPriceHistory)
	}
}

// createProduct godoc
// @Summary Create a product
// @Description Creates a catalog product, deriving the suggested price from cost and margin.
// @Tags products
// @Accept json
// @Produce json
// @Param organizationID path string true "Organization ID"
// @Param product body dto.CreateProductRequest true "Product details"
// @Success 201 {object} dto.ProductResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /organizations/{organizationID}/products [post]
func (h *productHandler) createProduct(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, organizationID, ok := callerAndOrg(c)
	if !ok {
		return
	}

	var req dto.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	product, err := h.productService.CreateProduct(c.Request.Context(), userID, organizationID, req)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to create product")
		return
	}

	logger.Info("Product created", slog.String("product_id", product.ProductID))
	c.JSON(http.StatusCreated, dto.ToProductResponse(product))
}

// listProducts godoc
// @Summary List products
// @Description Cursor-paginated, newest first. Pass the returned nextPageToken to fetch the next page.
// @Tags products
// @Produce json
// @Param organizationID path string true "Organization ID"
// @Param limit query int false "Page size" default(50)
// @Param pageToken query string false "Cursor from a previous page"
// @Success 200 {object} dto.ListProductsResponse
// @Failure 400 {object} ErrorResponse "Malformed page token"
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /organizations/{organizationID}/products [get]
func (h *productHandler) listProducts(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, organizationID, ok := callerAndOrg(c)
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(c.Query("limit"))

	products, nextPageToken, err := h.productService.ListProducts(c.Request.Context(), userID, organizationID, limit, c.Query("pageToken"))
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list products")
		return
	}
	c.JSON(http.StatusOK, dto.ToListProductsResponse(products, nextPageToken))
}

// getProduct godoc
// @Summary Get a product
// @Tags products
// @Produce json
// @Param organizationID path string true "Organization ID"
// @Param productID path string true "Product ID"
// @Success 200 {object} dto.ProductResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /organizations/{organizationID}/products/{productID} [get]
func (h *productHandler) getProduct(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, organizationID, ok := callerAndOrg(c)
	if !ok {
		return
	}

	product, err := h.productService.GetProduct(c.Request.Context(), userID, organizationID, c.Param("productID"))
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve product")
		return
	}
	c.JSON(http.StatusOK, dto.ToProductResponse(product))
}

// updateProduct godoc
// @Summary Update a product
// @Description A material cost or price change archives the previous values into the price history.
// @Tags products
// @Accept json
// @Produce json
// @Param organizationID path string true "Organization ID"
// @Param productID path string true "Product ID"
// @Param product body dto.UpdateProductRequest true "Fields to update"
// @Success 200 {object} dto.ProductResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /organizations/{organizationID}/products/{productID} [put]
func (h *productHandler) updateProduct(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, organizationID, ok := callerAndOrg(c)
	if !ok {
		return
	}

	var req dto.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	product, err := h.productService.UpdateProduct(c.Request.Context(), userID, organizationID, c.Param("productID"), req)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to update product")
		return
	}
	c.JSON(http.StatusOK, dto.ToProductResponse(product))
}

// deleteProduct godoc
// @Summary Delete a product
// @Tags products
// @Produce json
// @Param organizationID path string true "Organization ID"
// @Param productID path string true "Product ID"
// @Success 204 "No Content"
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /organizations/{organizationID}/products/{productID} [delete]
func (h *productHandler) deleteProduct(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, organizationID, ok := callerAndOrg(c)
	if !ok {
		return
	}

	if err := h.productService.DeleteProduct(c.Request.Context(), userID, organizationID, c.Param("productID")); err != nil {
		respondServiceError(c, logger, err, "Failed to delete product")
		return
	}
	c.Status(http.StatusNoContent)
}

// listPriceHistory godoc
// @Summary List a product's price history
// @Tags products
// @Produce json
// @Param organizationID path string true "Organization ID"
// @Param productID path string true "Product ID"
// @Success 200 {array} dto.HistoricalPriceResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /organizations/{organizationID}/products/{productID}/history [get]
func (h *productHandler) listPriceHistory(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, organizationID, ok := callerAndOrg(c)
	if !ok {
		return
	}

	history, err := h.productService.ListPriceHistory(c.Request.Context(), userID, organizationID, c.Param("productID"))
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list price history")
		return
	}
	c.JSON(http.StatusOK, dto.ToListHistoricalPricesResponse(history))
}
