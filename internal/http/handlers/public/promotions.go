package public

import (
	"time"

	"github.com/sabor-next/internal/constants"
	"github.com/sabor-next/internal/http/response"
	"github.com/sabor-next/internal/service"

	"github.com/gin-gonic/gin"
)

// PromotionGroup 按活动类型分组的促销列表
type PromotionGroup struct {
	Type  string                       `json:"type"`
	Items []service.AnnotatedPromotion `json:"items"`
}

// GetPromotions 获取促销活动目录
// 按类型分组返回，每条活动带 valid_now / available 标注；
// 目录来自缓存，下单时仍会重新校验。
func (h *Handler) GetPromotions(c *gin.Context) {
	annotated, err := h.PromotionService.ListAnnotated(c.Request.Context(), time.Now())
	if err != nil {
		respondError(c, response.CodeInternal, "promotion fetch failed", err)
		return
	}

	grouped := make(map[string][]service.AnnotatedPromotion, len(constants.PromotionTypes))
	for _, item := range annotated {
		grouped[item.Type] = append(grouped[item.Type], item)
	}

	groups := make([]PromotionGroup, 0, len(constants.PromotionTypes))
	for _, promotionType := range constants.PromotionTypes {
		items := grouped[promotionType]
		if items == nil {
			items = []service.AnnotatedPromotion{}
		}
		groups = append(groups, PromotionGroup{Type: promotionType, Items: items})
	}

	response.Success(c, groups)
}

// GetPromotion 获取单条促销活动（带标注）
func (h *Handler) GetPromotion(c *gin.Context) {
	id, ok := parseIDParam(c.Param("id"))
	if !ok {
		respondError(c, response.CodeBadRequest, "bad request", nil)
		return
	}

	annotated, err := h.PromotionService.ListAnnotated(c.Request.Context(), time.Now())
	if err != nil {
		respondError(c, response.CodeInternal, "promotion fetch failed", err)
		return
	}
	for _, item := range annotated {
		if item.ID == id {
			response.Success(c, item)
			return
		}
	}

	respondError(c, response.CodeNotFound, "promotion not found", nil)
}
