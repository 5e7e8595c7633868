// internal/handlers/product.go
package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/otakughor/backend/internal/i18n"
	"github.com/otakughor/backend/internal/models"
	"github.com/otakughor/backend/internal/services"
	"github.com/otakughor/backend/internal/utils"
)

type ProductHandler struct {
	productService *services.ProductService
	storageService *services.StorageService
}

func NewProductHandler(productService *services.ProductService, storageService *services.StorageService) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		storageService: storageService,
	}
}

// GET /api/products
func (h *ProductHandler) GetProducts(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	query := services.ProductQuery{
		Params:   params,
		Category: c.Query("category"),
		MinPrice: queryFloat(c, "minPrice"),
		MaxPrice: queryFloat(c, "maxPrice"),
		InStock:  queryBool(c, "inStock"),
		Featured: queryBool(c, "featured"),
	}

	products, total, err := h.productService.ListProducts(c.Request.Context(), query)
	if err != nil {
		respondError(c, err, "product")
		return
	}

	result := utils.CreatePaginationResult(models.ProductViews(products), int64(total), params)
	utils.PaginatedResponse(c, result)
}

// GET /api/products/categories
func (h *ProductHandler) GetCategories(c *gin.Context) {
	counts, err := h.productService.Categories(c.Request.Context())
	if err != nil {
		respondError(c, err, "product")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"categories": models.ProductCategories,
		"counts":     counts,
	})
}

// GET /api/products/:id
func (h *ProductHandler) GetProduct(c *gin.Context) {
	product, err := h.productService.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "product")
		return
	}

	utils.SuccessResponse(c, gin.H{"product": product.View()})
}

// POST /api/products
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req services.CreateProductRequest
	if !bindJSON(c, &req) {
		return
	}

	product, err := h.productService.CreateProduct(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, "product")
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyProductCreated),
		"product": product.View(),
	})
}

// PUT /api/products/:id
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req services.UpdateProductRequest
	if !bindJSON(c, &req) {
		return
	}

	product, err := h.productService.UpdateProduct(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		respondError(c, err, "product")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyProductUpdated),
		"product": product.View(),
	})
}

// PATCH /api/products/:id/stock
func (h *ProductHandler) UpdateStock(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req services.UpdateStockRequest
	if !bindJSON(c, &req) {
		return
	}

	product, err := h.productService.UpdateStock(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		respondError(c, err, "product")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyProductStockUpdated),
		"product": product.View(),
	})
}

// DELETE /api/products/:id
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	product, err := h.productService.DeleteProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "product")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyProductDeleted),
		"product": product.View(),
	})
}

// GET /api/products/admin/stats
func (h *ProductHandler) GetStats(c *gin.Context) {
	stats, err := h.productService.Stats(c.Request.Context())
	if err != nil {
		respondError(c, err, "product")
		return
	}

	utils.SuccessResponse(c, gin.H{"stats": stats})
}

// POST /api/products/upload-image
func (h *ProductHandler) UploadImage(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	file, header, err := c.Request.FormFile("image")
	if err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyFileRequired), nil)
		return
	}
	defer file.Close()

	result, err := h.storageService.UploadProductImage(c.Request.Context(), file, header)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrFileTooLarge):
			utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyFileTooLarge), nil)
		case errors.Is(err, services.ErrFileType), errors.Is(err, services.ErrInvalidImage):
			utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyFileInvalidType), nil)
		default:
			respondError(c, err, "product")
		}
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyFileUploadSuccess),
		"file":    result,
	})
}
