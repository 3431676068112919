package admin

import (
	"errors"
	"strconv"
	"strings"

	"github.com/sabor-next/internal/http/response"
	"github.com/sabor-next/internal/models"
	"github.com/sabor-next/internal/repository"
	"github.com/sabor-next/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// SaveProductRequest 创建/更新菜品请求
type SaveProductRequest struct {
	CategoryID  uint     `json:"category_id" binding:"required"`
	Slug        string   `json:"slug" binding:"required"`
	Name        string   `json:"name" binding:"required"`
	Description string   `json:"description"`
	PriceAmount float64  `json:"price_amount"`
	Images      []string `json:"images"`
	Tags        []string `json:"tags"`
	Allergens   []string `json:"allergens"`
	IsActive    *bool    `json:"is_active"`
	SortOrder   int      `json:"sort_order"`
}

func (r SaveProductRequest) toServiceInput() service.SaveProductInput {
	return service.SaveProductInput{
		CategoryID:  r.CategoryID,
		Slug:        r.Slug,
		Name:        r.Name,
		Description: r.Description,
		PriceAmount: models.NewMoneyFromDecimal(decimal.NewFromFloat(r.PriceAmount)),
		Images:      r.Images,
		Tags:        r.Tags,
		Allergens:   r.Allergens,
		IsActive:    r.IsActive,
		SortOrder:   r.SortOrder,
	}
}

// GetAdminProducts 获取菜品列表
func (h *Handler) GetAdminProducts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	var categoryID uint
	if raw := strings.TrimSpace(c.Query("category_id")); raw != "" {
		if parsed, err := strconv.ParseUint(raw, 10, 64); err == nil {
			categoryID = uint(parsed)
		}
	}

	products, total, err := h.ProductService.List(repository.ProductListFilter{
		Page:         page,
		PageSize:     pageSize,
		CategoryID:   categoryID,
		Search:       strings.TrimSpace(c.Query("search")),
		WithCategory: true,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "product fetch failed", err)
		return
	}

	pagination := response.NewPagination(page, pageSize, total)
	response.SuccessWithPage(c, products, pagination)
}

// GetAdminProduct 获取菜品详情
func (h *Handler) GetAdminProduct(c *gin.Context) {
	id, ok := parseIDParam(c.Param("id"))
	if !ok {
		respondError(c, response.CodeBadRequest, "bad request", nil)
		return
	}

	product, err := h.ProductService.Get(id)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			respondError(c, response.CodeNotFound, "product not found", nil)
			return
		}
		respondError(c, response.CodeInternal, "product fetch failed", err)
		return
	}

	response.Success(c, product)
}

// CreateProduct 创建菜品
func (h *Handler) CreateProduct(c *gin.Context) {
	var req SaveProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	product, err := h.ProductService.Create(req.toServiceInput())
	if err != nil {
		respondProductSaveError(c, err, "product create failed")
		return
	}

	response.Success(c, product)
}

// UpdateProduct 更新菜品
func (h *Handler) UpdateProduct(c *gin.Context) {
	id, ok := parseIDParam(c.Param("id"))
	if !ok {
		respondError(c, response.CodeBadRequest, "bad request", nil)
		return
	}

	var req SaveProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	product, err := h.ProductService.Update(id, req.toServiceInput())
	if err != nil {
		respondProductSaveError(c, err, "product update failed")
		return
	}

	response.Success(c, product)
}

func respondProductSaveError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrProductNotFound):
		respondError(c, response.CodeNotFound, "product not found", nil)
	case errors.Is(err, service.ErrCategoryNotFound):
		respondError(c, response.CodeBadRequest, "category not found", nil)
	case errors.Is(err, service.ErrProductSlugExists):
		respondError(c, response.CodeBadRequest, "slug already exists", nil)
	case errors.Is(err, service.ErrProductInvalid):
		respondError(c, response.CodeBadRequest, "product invalid", nil)
	default:
		respondError(c, response.CodeInternal, fallback, err)
	}
}

// DeleteProduct 删除菜品（软删除）
func (h *Handler) DeleteProduct(c *gin.Context) {
	id, ok := parseIDParam(c.Param("id"))
	if !ok {
		respondError(c, response.CodeBadRequest, "bad request", nil)
		return
	}

	if err := h.ProductService.Delete(id); err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			respondError(c, response.CodeNotFound, "product not found", nil)
			return
		}
		respondError(c, response.CodeInternal, "product delete failed", err)
		return
	}

	response.Success(c, nil)
}

// SetProductActiveRequest 启停菜品请求
type SetProductActiveRequest struct {
	IsActive *bool `json:"is_active" binding:"required"`
}

// SetProductActive 启用/停用菜品
// 停用的菜品会立刻让引用它的套餐变为不可售。
func (h *Handler) SetProductActive(c *gin.Context) {
	id, ok := parseIDParam(c.Param("id"))
	if !ok {
		respondError(c, response.CodeBadRequest, "bad request", nil)
		return
	}

	var req SetProductActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.IsActive == nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	product, err := h.ProductService.SetActive(id, *req.IsActive)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			respondError(c, response.CodeNotFound, "product not found", nil)
			return
		}
		respondError(c, response.CodeInternal, "product update failed", err)
		return
	}

	requestLog(c).Infow("product_active_changed", "product_id", id, "is_active", *req.IsActive)
	response.Success(c, product)
}

// SaveVariantRequest 创建/更新规格请求
type SaveVariantRequest struct {
	Name        string  `json:"name" binding:"required"`
	PriceAmount float64 `json:"price_amount"`
	IsActive    *bool   `json:"is_active"`
	SortOrder   int     `json:"sort_order"`
}

func (r SaveVariantRequest) toServiceInput() service.SaveVariantInput {
	return service.SaveVariantInput{
		Name:        r.Name,
		PriceAmount: models.NewMoneyFromDecimal(decimal.NewFromFloat(r.PriceAmount)),
		IsActive:    r.IsActive,
		SortOrder:   r.SortOrder,
	}
}

// CreateProductVariant 创建菜品规格
func (h *Handler) CreateProductVariant(c *gin.Context) {
	productID, ok := parseIDParam(c.Param("id"))
	if !ok {
		respondError(c, response.CodeBadRequest, "bad request", nil)
		return
	}

	var req SaveVariantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	variant, err := h.ProductService.CreateVariant(productID, req.toServiceInput())
	if err != nil {
		respondVariantSaveError(c, err, "variant create failed")
		return
	}

	response.Success(c, variant)
}

// UpdateProductVariant 更新菜品规格
func (h *Handler) UpdateProductVariant(c *gin.Context) {
	variantID, ok := parseIDParam(c.Param("id"))
	if !ok {
		respondError(c, response.CodeBadRequest, "bad request", nil)
		return
	}

	var req SaveVariantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	variant, err := h.ProductService.UpdateVariant(variantID, req.toServiceInput())
	if err != nil {
		respondVariantSaveError(c, err, "variant update failed")
		return
	}

	response.Success(c, variant)
}

func respondVariantSaveError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrProductNotFound):
		respondError(c, response.CodeNotFound, "product not found", nil)
	case errors.Is(err, service.ErrVariantNotFound):
		respondError(c, response.CodeNotFound, "variant not found", nil)
	case errors.Is(err, service.ErrVariantInvalid):
		respondError(c, response.CodeBadRequest, "variant invalid", nil)
	default:
		respondError(c, response.CodeInternal, fallback, err)
	}
}

// DeleteProductVariant 删除菜品规格
func (h *Handler) DeleteProductVariant(c *gin.Context) {
	variantID, ok := parseIDParam(c.Param("id"))
	if !ok {
		respondError(c, response.CodeBadRequest, "bad request", nil)
		return
	}

	if err := h.ProductService.DeleteVariant(variantID); err != nil {
		switch {
		case errors.Is(err, service.ErrVariantNotFound):
			respondError(c, response.CodeNotFound, "variant not found", nil)
		case errors.Is(err, service.ErrVariantInvalid):
			respondError(c, response.CodeBadRequest, "variant invalid", nil)
		default:
			respondError(c, response.CodeInternal, "variant delete failed", err)
		}
		return
	}

	response.Success(c, nil)
}
