package admin

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/sabor-next/internal/http/response"
	"github.com/sabor-next/internal/models"
	"github.com/sabor-next/internal/repository"
	"github.com/sabor-next/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// PromotionOptionRequest 选择组可选项请求
type PromotionOptionRequest struct {
	ProductID uint  `json:"product_id" binding:"required"`
	VariantID *uint `json:"variant_id"`
	SortOrder int   `json:"sort_order"`
}

// PromotionItemRequest 套餐内容行请求
// 固定行填 product_id；选择组置 is_choice_group 并列出 options。
type PromotionItemRequest struct {
	IsChoiceGroup bool                     `json:"is_choice_group"`
	ProductID     *uint                    `json:"product_id"`
	VariantID     *uint                    `json:"variant_id"`
	Quantity      int                      `json:"quantity"`
	Label         string                   `json:"label"`
	SortOrder     int                      `json:"sort_order"`
	Options       []PromotionOptionRequest `json:"options"`
}

// SavePromotionRequest 创建/更新促销活动请求
type SavePromotionRequest struct {
	Type            string                 `json:"type" binding:"required"`
	Name            string                 `json:"name" binding:"required"`
	Description     string                 `json:"description"`
	Image           string                 `json:"image"`
	ProductID       *uint                  `json:"product_id"`
	VariantID       *uint                  `json:"variant_id"`
	PriceAmount     float64                `json:"price_amount"`
	DiscountPercent float64                `json:"discount_percent"`
	IsActive        *bool                  `json:"is_active"`
	SortOrder       int                    `json:"sort_order"`
	ValidFrom       string                 `json:"valid_from"`
	ValidUntil      string                 `json:"valid_until"`
	TimeFrom        *string                `json:"time_from"`
	TimeUntil       *string                `json:"time_until"`
	Weekdays        []int                  `json:"weekdays"`
	Items           []PromotionItemRequest `json:"items"`
}

func (r SavePromotionRequest) toServiceInput() (service.SavePromotionInput, error) {
	validFrom, err := parseDateNullable(strings.TrimSpace(r.ValidFrom))
	if err != nil {
		return service.SavePromotionInput{}, err
	}
	validUntil, err := parseDateNullable(strings.TrimSpace(r.ValidUntil))
	if err != nil {
		return service.SavePromotionInput{}, err
	}

	items := make([]service.BundleItemInput, 0, len(r.Items))
	for _, item := range r.Items {
		if item.IsChoiceGroup {
			options := make([]service.BundleChoiceOptionInput, 0, len(item.Options))
			for _, option := range item.Options {
				options = append(options, service.BundleChoiceOptionInput{
					ProductID: option.ProductID,
					VariantID: option.VariantID,
					SortOrder: option.SortOrder,
				})
			}
			items = append(items, service.BundleItemInput{
				Choice: &service.BundleChoiceGroupInput{
					Label:     item.Label,
					Quantity:  item.Quantity,
					SortOrder: item.SortOrder,
					Options:   options,
				},
			})
			continue
		}
		fixed := &service.BundleFixedItemInput{
			VariantID: item.VariantID,
			Quantity:  item.Quantity,
			SortOrder: item.SortOrder,
		}
		if item.ProductID != nil {
			fixed.ProductID = *item.ProductID
		}
		items = append(items, service.BundleItemInput{Fixed: fixed})
	}

	return service.SavePromotionInput{
		Type:            r.Type,
		Name:            r.Name,
		Description:     r.Description,
		Image:           r.Image,
		ProductID:       r.ProductID,
		VariantID:       r.VariantID,
		PriceAmount:     models.NewMoneyFromDecimal(decimal.NewFromFloat(r.PriceAmount)),
		DiscountPercent: models.NewMoneyFromDecimal(decimal.NewFromFloat(r.DiscountPercent)),
		IsActive:        r.IsActive,
		SortOrder:       r.SortOrder,
		ValidFrom:       validFrom,
		ValidUntil:      validUntil,
		TimeFrom:        r.TimeFrom,
		TimeUntil:       r.TimeUntil,
		Weekdays:        r.Weekdays,
		Items:           items,
	}, nil
}

// GetAdminPromotions 获取促销活动列表
func (h *Handler) GetAdminPromotions(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	var isActive *bool
	if raw := strings.TrimSpace(c.Query("is_active")); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			respondError(c, response.CodeBadRequest, "bad request", err)
			return
		}
		isActive = &parsed
	}

	filter := repository.PromotionListFilter{
		Page:      page,
		PageSize:  pageSize,
		Type:      strings.TrimSpace(c.Query("type")),
		IsActive:  isActive,
		Search:    strings.TrimSpace(c.Query("search")),
		WithItems: true,
	}

	var promotions []models.Promotion
	var total int64
	var err error
	// state 是对当前时刻推导出的生命周期状态（valid/available/expired/upcoming）
	if state := strings.TrimSpace(c.Query("state")); state != "" {
		promotions, total, err = h.PromotionService.ListByState(filter, state, time.Now())
		if errors.Is(err, service.ErrPromotionInvalid) {
			respondError(c, response.CodeBadRequest, "unknown promotion state", nil)
			return
		}
	} else {
		promotions, total, err = h.PromotionAdminService.List(filter)
	}
	if err != nil {
		respondError(c, response.CodeInternal, "promotion fetch failed", err)
		return
	}

	pagination := response.NewPagination(page, pageSize, total)
	response.SuccessWithPage(c, promotions, pagination)
}

// GetPromotionTrash 获取回收站中的促销活动
func (h *Handler) GetPromotionTrash(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	promotions, total, err := h.PromotionAdminService.List(repository.PromotionListFilter{
		Page:        page,
		PageSize:    pageSize,
		OnlyDeleted: true,
		WithItems:   true,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "promotion fetch failed", err)
		return
	}

	pagination := response.NewPagination(page, pageSize, total)
	response.SuccessWithPage(c, promotions, pagination)
}

// GetAdminPromotion 获取促销活动详情
func (h *Handler) GetAdminPromotion(c *gin.Context) {
	id, ok := parseIDParam(c.Param("id"))
	if !ok {
		respondError(c, response.CodeBadRequest, "bad request", nil)
		return
	}

	promotion, err := h.PromotionAdminService.Get(id)
	if err != nil {
		if errors.Is(err, service.ErrPromotionNotFound) {
			respondError(c, response.CodeNotFound, "promotion not found", nil)
			return
		}
		respondError(c, response.CodeInternal, "promotion fetch failed", err)
		return
	}

	response.Success(c, promotion)
}

// CreatePromotion 创建促销活动
func (h *Handler) CreatePromotion(c *gin.Context) {
	var req SavePromotionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}
	input, err := req.toServiceInput()
	if err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	promotion, err := h.PromotionAdminService.Create(c.Request.Context(), input)
	if err != nil {
		respondPromotionSaveError(c, err, "promotion create failed")
		return
	}

	requestLog(c).Infow("promotion_created", "promotion_id", promotion.ID, "type", promotion.Type)
	response.Success(c, promotion)
}

// UpdatePromotion 更新促销活动
func (h *Handler) UpdatePromotion(c *gin.Context) {
	id, ok := parseIDParam(c.Param("id"))
	if !ok {
		respondError(c, response.CodeBadRequest, "bad request", nil)
		return
	}

	var req SavePromotionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}
	input, err := req.toServiceInput()
	if err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	promotion, err := h.PromotionAdminService.Update(c.Request.Context(), id, input)
	if err != nil {
		respondPromotionSaveError(c, err, "promotion update failed")
		return
	}

	response.Success(c, promotion)
}

func respondPromotionSaveError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrPromotionNotFound):
		respondError(c, response.CodeNotFound, "promotion not found", nil)
	case errors.Is(err, service.ErrProductNotFound):
		respondError(c, response.CodeBadRequest, "referenced dish not found", nil)
	case errors.Is(err, service.ErrPromotionInvalid):
		respondError(c, response.CodeBadRequest, "promotion invalid", nil)
	default:
		respondError(c, response.CodeInternal, fallback, err)
	}
}

// DeletePromotion 下架促销活动（软删除，可恢复）
func (h *Handler) DeletePromotion(c *gin.Context) {
	id, ok := parseIDParam(c.Param("id"))
	if !ok {
		respondError(c, response.CodeBadRequest, "bad request", nil)
		return
	}

	if err := h.PromotionAdminService.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrPromotionNotFound) {
			respondError(c, response.CodeNotFound, "promotion not found", nil)
			return
		}
		respondError(c, response.CodeInternal, "promotion delete failed", err)
		return
	}

	response.Success(c, nil)
}

// RestorePromotion 从回收站恢复促销活动
func (h *Handler) RestorePromotion(c *gin.Context) {
	id, ok := parseIDParam(c.Param("id"))
	if !ok {
		respondError(c, response.CodeBadRequest, "bad request", nil)
		return
	}

	if err := h.PromotionAdminService.Restore(c.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrPromotionNotDeleted) {
			respondError(c, response.CodeNotFound, "promotion not in trash", nil)
			return
		}
		respondError(c, response.CodeInternal, "promotion restore failed", err)
		return
	}

	response.Success(c, nil)
}

// PurgePromotion 彻底删除促销活动（连带套餐内容）
func (h *Handler) PurgePromotion(c *gin.Context) {
	id, ok := parseIDParam(c.Param("id"))
	if !ok {
		respondError(c, response.CodeBadRequest, "bad request", nil)
		return
	}

	if err := h.PromotionAdminService.ForceDelete(c.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrPromotionNotDeleted) {
			respondError(c, response.CodeNotFound, "promotion not in trash", nil)
			return
		}
		respondError(c, response.CodeInternal, "promotion purge failed", err)
		return
	}

	requestLog(c).Infow("promotion_purged", "promotion_id", id)
	response.Success(c, nil)
}
