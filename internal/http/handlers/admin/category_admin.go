package admin

import (
	"errors"

	"github.com/sabor-next/internal/http/response"
	"github.com/sabor-next/internal/service"

	"github.com/gin-gonic/gin"
)

// SaveCategoryRequest 创建/更新分类请求
type SaveCategoryRequest struct {
	Slug      string `json:"slug" binding:"required"`
	Name      string `json:"name" binding:"required"`
	Icon      string `json:"icon"`
	SortOrder int    `json:"sort_order"`
}

// GetAdminCategories 获取分类列表
func (h *Handler) GetAdminCategories(c *gin.Context) {
	categories, err := h.CategoryService.List()
	if err != nil {
		respondError(c, response.CodeInternal, "category fetch failed", err)
		return
	}
	response.Success(c, categories)
}

// CreateCategory 创建分类
func (h *Handler) CreateCategory(c *gin.Context) {
	var req SaveCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	category, err := h.CategoryService.Create(service.SaveCategoryInput{
		Slug:      req.Slug,
		Name:      req.Name,
		Icon:      req.Icon,
		SortOrder: req.SortOrder,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCategorySlugExists):
			respondError(c, response.CodeBadRequest, "slug already exists", nil)
		case errors.Is(err, service.ErrCategoryInvalid):
			respondError(c, response.CodeBadRequest, "category invalid", nil)
		default:
			respondError(c, response.CodeInternal, "category create failed", err)
		}
		return
	}

	response.Success(c, category)
}

// UpdateCategory 更新分类
func (h *Handler) UpdateCategory(c *gin.Context) {
	id, ok := parseIDParam(c.Param("id"))
	if !ok {
		respondError(c, response.CodeBadRequest, "bad request", nil)
		return
	}

	var req SaveCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	category, err := h.CategoryService.Update(id, service.SaveCategoryInput{
		Slug:      req.Slug,
		Name:      req.Name,
		Icon:      req.Icon,
		SortOrder: req.SortOrder,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCategoryNotFound):
			respondError(c, response.CodeNotFound, "category not found", nil)
		case errors.Is(err, service.ErrCategorySlugExists):
			respondError(c, response.CodeBadRequest, "slug already used", nil)
		case errors.Is(err, service.ErrCategoryInvalid):
			respondError(c, response.CodeBadRequest, "category invalid", nil)
		default:
			respondError(c, response.CodeInternal, "category update failed", err)
		}
		return
	}

	response.Success(c, category)
}

// DeleteCategory 删除分类（分类下仍有菜品时拒绝）
func (h *Handler) DeleteCategory(c *gin.Context) {
	id, ok := parseIDParam(c.Param("id"))
	if !ok {
		respondError(c, response.CodeBadRequest, "bad request", nil)
		return
	}

	if err := h.CategoryService.Delete(id); err != nil {
		switch {
		case errors.Is(err, service.ErrCategoryNotFound):
			respondError(c, response.CodeNotFound, "category not found", nil)
		case errors.Is(err, service.ErrCategoryInvalid):
			respondError(c, response.CodeBadRequest, "category still has dishes", nil)
		default:
			respondError(c, response.CodeInternal, "category delete failed", err)
		}
		return
	}

	response.Success(c, nil)
}
