package public

import (
	"errors"
	"strconv"
	"strings"

	"github.com/sabor-next/internal/http/response"
	"github.com/sabor-next/internal/repository"
	"github.com/sabor-next/internal/service"

	"github.com/gin-gonic/gin"
)

// OrderItemRequest 订单项请求
// 普通菜品行填 product_id（可带 variant_id），促销行填 promotion_id。
type OrderItemRequest struct {
	ProductID   *uint                  `json:"product_id"`
	VariantID   *uint                  `json:"variant_id"`
	PromotionID *uint                  `json:"promotion_id"`
	Quantity    int                    `json:"quantity"`
	Selections  map[string]interface{} `json:"selections"`
}

// CreateOrderRequest 创建订单请求
type CreateOrderRequest struct {
	Type        string             `json:"type" binding:"required"`
	TableNumber string             `json:"table_number"`
	Remark      string             `json:"remark"`
	Items       []OrderItemRequest `json:"items" binding:"required"`
}

// CreateOrder 顾客下单
func (h *Handler) CreateOrder(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}

	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	items := make([]service.OrderItemInput, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, service.OrderItemInput{
			ProductID:   item.ProductID,
			VariantID:   item.VariantID,
			PromotionID: item.PromotionID,
			Quantity:    item.Quantity,
			Selections:  item.Selections,
		})
	}

	order, err := h.OrderService.Create(service.CreateOrderInput{
		UserID:      userID,
		Type:        req.Type,
		TableNumber: req.TableNumber,
		Remark:      req.Remark,
		Items:       items,
	})
	if err != nil {
		respondOrderCreateError(c, err)
		return
	}

	requestLog(c).Infow("order_created",
		"order_id", order.ID,
		"order_no", order.OrderNo,
		"user_id", userID,
		"type", order.Type,
		"total_amount", order.TotalAmount,
	)
	response.Success(c, order)
}

// GetMyOrders 获取自己的订单列表
func (h *Handler) GetMyOrders(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	orders, total, err := h.OrderService.List(repository.OrderListFilter{
		Page:     page,
		PageSize: pageSize,
		UserID:   userID,
		Status:   strings.TrimSpace(c.Query("status")),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "order fetch failed", err)
		return
	}

	pagination := response.NewPagination(page, pageSize, total)
	response.SuccessWithPage(c, orders, pagination)
}

// GetMyOrder 获取自己的订单详情
func (h *Handler) GetMyOrder(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c.Param("id"))
	if !ok {
		respondError(c, response.CodeBadRequest, "bad request", nil)
		return
	}

	order, err := h.OrderService.GetForUser(userID, id)
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			respondError(c, response.CodeNotFound, "order not found", nil)
			return
		}
		respondError(c, response.CodeInternal, "order fetch failed", err)
		return
	}

	response.Success(c, order)
}

// CancelMyOrder 取消自己的待处理订单
func (h *Handler) CancelMyOrder(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c.Param("id"))
	if !ok {
		respondError(c, response.CodeBadRequest, "bad request", nil)
		return
	}

	order, err := h.OrderService.Cancel(userID, id)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound):
			respondError(c, response.CodeNotFound, "order not found", nil)
		case errors.Is(err, service.ErrOrderStatusInvalid):
			respondError(c, response.CodeBadRequest, "order can no longer be canceled", nil)
		default:
			respondError(c, response.CodeInternal, "order cancel failed", err)
		}
		return
	}

	response.Success(c, order)
}
