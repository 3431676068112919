package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/sabor-next/internal/constants"
	"github.com/sabor-next/internal/logger"
	"github.com/sabor-next/internal/models"
	"github.com/sabor-next/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderNotifier 订单状态变更通知
// 由异步队列实现，投递失败不阻塞订单流转。
type OrderNotifier interface {
	EnqueueOrderStatusNotify(orderID uint, status string) error
}

// OrderService 订单服务
// 下单时逐行定价：普通菜品行按菜品/规格现价，促销行先过
// 有效性与可售校验再按活动规则取价。
type OrderService struct {
	orderRepo        repository.OrderRepository
	productRepo      repository.ProductRepository
	variantRepo      repository.ProductVariantRepository
	promotionService *PromotionService
	notifier         OrderNotifier
	currency         string
}

// NewOrderService 创建订单服务
func NewOrderService(
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	variantRepo repository.ProductVariantRepository,
	promotionService *PromotionService,
	notifier OrderNotifier,
	currency string,
) *OrderService {
	if strings.TrimSpace(currency) == "" {
		currency = constants.SiteCurrencyDefault
	}
	return &OrderService{
		orderRepo:        orderRepo,
		productRepo:      productRepo,
		variantRepo:      variantRepo,
		promotionService: promotionService,
		notifier:         notifier,
		currency:         currency,
	}
}

// OrderItemInput 订单项输入
// 普通菜品行填 ProductID（可带 VariantID），促销行填 PromotionID。
type OrderItemInput struct {
	ProductID   *uint
	VariantID   *uint
	PromotionID *uint
	Quantity    int
	Selections  map[string]interface{}
}

// CreateOrderInput 创建订单输入
type CreateOrderInput struct {
	UserID      uint
	Type        string
	TableNumber string
	Remark      string
	Items       []OrderItemInput
}

// Create 创建订单
func (s *OrderService) Create(input CreateOrderInput) (*models.Order, error) {
	if input.UserID == 0 {
		return nil, ErrOrderInvalid
	}
	orderType := strings.ToLower(strings.TrimSpace(input.Type))
	if orderType != constants.OrderTypeDineIn && orderType != constants.OrderTypeTakeaway {
		return nil, ErrOrderInvalid
	}
	if orderType == constants.OrderTypeDineIn && strings.TrimSpace(input.TableNumber) == "" {
		return nil, ErrOrderInvalid
	}
	if len(input.Items) == 0 {
		return nil, ErrOrderEmpty
	}

	now := time.Now()
	items := make([]models.OrderItem, 0, len(input.Items))
	total := decimal.Zero
	for _, itemInput := range input.Items {
		item, err := s.buildOrderItem(itemInput, now)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
		total = total.Add(item.TotalPrice.Decimal)
	}

	order := &models.Order{
		OrderNo:     generateOrderNo(),
		UserID:      input.UserID,
		Type:        orderType,
		Status:      constants.OrderStatusPending,
		Currency:    s.currency,
		TotalAmount: models.NewMoneyFromDecimal(total),
		TableNumber: strings.TrimSpace(input.TableNumber),
		Remark:      strings.TrimSpace(input.Remark),
		Items:       items,
	}
	if err := s.orderRepo.Create(order); err != nil {
		return nil, err
	}
	return order, nil
}

// buildOrderItem 校验并定价单个订单项
func (s *OrderService) buildOrderItem(input OrderItemInput, at time.Time) (*models.OrderItem, error) {
	quantity := input.Quantity
	if quantity <= 0 {
		return nil, ErrOrderInvalid
	}

	if input.PromotionID != nil {
		return s.buildPromotionItem(*input.PromotionID, quantity, input.Selections, at)
	}
	if input.ProductID == nil {
		return nil, ErrOrderInvalid
	}

	product, err := s.productRepo.GetByID(*input.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	if !product.IsActive {
		return nil, ErrProductDisabled
	}

	name := product.Name
	unitPrice := product.PriceAmount.Decimal
	if input.VariantID != nil {
		variant, err := s.variantRepo.GetByID(*input.VariantID)
		if err != nil {
			return nil, err
		}
		if variant == nil || variant.ProductID != product.ID {
			return nil, ErrVariantNotFound
		}
		if !variant.IsActive {
			return nil, ErrVariantInvalid
		}
		name = fmt.Sprintf("%s (%s)", product.Name, variant.Name)
		unitPrice = variant.PriceAmount.Decimal
	}

	return &models.OrderItem{
		ProductID:  input.ProductID,
		VariantID:  input.VariantID,
		Name:       name,
		UnitPrice:  models.NewMoneyFromDecimal(unitPrice),
		Quantity:   quantity,
		TotalPrice: models.NewMoneyFromDecimal(unitPrice.Mul(decimal.NewFromInt(int64(quantity)))),
	}, nil
}

// buildPromotionItem 校验促销行并按活动类型定价
func (s *OrderService) buildPromotionItem(promotionID uint, quantity int, selections map[string]interface{}, at time.Time) (*models.OrderItem, error) {
	promotion, err := s.promotionService.ValidateOrderable(promotionID, at)
	if err != nil {
		return nil, err
	}

	var unitPrice, totalPrice decimal.Decimal
	switch promotion.Type {
	case constants.PromotionTypeBundleSpecial, constants.PromotionTypeDailySpecial:
		unitPrice = promotion.PriceAmount.Decimal
		totalPrice = unitPrice.Mul(decimal.NewFromInt(int64(quantity)))
	case constants.PromotionTypeTwoForOne:
		base, err := s.promotionProductPrice(promotion)
		if err != nil {
			return nil, err
		}
		unitPrice = base
		// 每两份只收一份
		paid := (quantity + 1) / 2
		totalPrice = base.Mul(decimal.NewFromInt(int64(paid)))
	case constants.PromotionTypePercentageDiscount:
		base, err := s.promotionProductPrice(promotion)
		if err != nil {
			return nil, err
		}
		factor := decimal.NewFromInt(100).Sub(promotion.DiscountPercent.Decimal).Div(decimal.NewFromInt(100))
		unitPrice = base.Mul(factor)
		totalPrice = unitPrice.Mul(decimal.NewFromInt(int64(quantity)))
	default:
		return nil, ErrPromotionInvalid
	}

	item := &models.OrderItem{
		PromotionID: &promotion.ID,
		ProductID:   promotion.ProductID,
		VariantID:   promotion.VariantID,
		Name:        promotion.Name,
		UnitPrice:   models.NewMoneyFromDecimal(unitPrice),
		Quantity:    quantity,
		TotalPrice:  models.NewMoneyFromDecimal(totalPrice),
	}
	if len(selections) > 0 {
		item.Selections = models.JSON(selections)
	}
	return item, nil
}

// promotionProductPrice 读取单品类促销活动所指菜品的现价
func (s *OrderService) promotionProductPrice(promotion *models.Promotion) (decimal.Decimal, error) {
	if promotion.ProductID == nil {
		return decimal.Zero, ErrPromotionInvalid
	}
	if promotion.VariantID != nil {
		variant, err := s.variantRepo.GetByID(*promotion.VariantID)
		if err != nil {
			return decimal.Zero, err
		}
		if variant == nil {
			return decimal.Zero, ErrVariantNotFound
		}
		return variant.PriceAmount.Decimal, nil
	}
	product, err := s.productRepo.GetByID(*promotion.ProductID)
	if err != nil {
		return decimal.Zero, err
	}
	if product == nil {
		return decimal.Zero, ErrProductNotFound
	}
	return product.PriceAmount.Decimal, nil
}

// Get 获取订单
func (s *OrderService) Get(id uint) (*models.Order, error) {
	if id == 0 {
		return nil, ErrOrderInvalid
	}
	order, err := s.orderRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// GetForUser 获取顾客自己的订单
func (s *OrderService) GetForUser(userID, orderID uint) (*models.Order, error) {
	order, err := s.Get(orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// List 订单列表
func (s *OrderService) List(filter repository.OrderListFilter) ([]models.Order, int64, error) {
	return s.orderRepo.List(filter)
}

// orderStatusTransitions 允许的状态流转
var orderStatusTransitions = map[string][]string{
	constants.OrderStatusPending:   {constants.OrderStatusConfirmed, constants.OrderStatusCanceled},
	constants.OrderStatusConfirmed: {constants.OrderStatusPreparing, constants.OrderStatusCanceled},
	constants.OrderStatusPreparing: {constants.OrderStatusReady},
	constants.OrderStatusReady:     {constants.OrderStatusCompleted},
}

func transitionAllowed(from, to string) bool {
	for _, allowed := range orderStatusTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// UpdateStatus 流转订单状态
// 条件更新保证并发下同一订单只有一个流转生效。
func (s *OrderService) UpdateStatus(orderID uint, to string) (*models.Order, error) {
	order, err := s.Get(orderID)
	if err != nil {
		return nil, err
	}
	to = strings.ToLower(strings.TrimSpace(to))
	if !transitionAllowed(order.Status, to) {
		return nil, ErrOrderStatusInvalid
	}

	extra := map[string]interface{}{}
	now := time.Now()
	switch to {
	case constants.OrderStatusConfirmed:
		extra["confirmed_at"] = now
	case constants.OrderStatusCanceled:
		extra["canceled_at"] = now
	}

	affected, err := s.orderRepo.UpdateStatus(orderID, order.Status, to, extra)
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, ErrOrderStatusInvalid
	}

	if s.notifier != nil {
		if err := s.notifier.EnqueueOrderStatusNotify(orderID, to); err != nil {
			logger.Warnw("order_status_notify_enqueue_failed", "order_id", orderID, "status", to, "error", err)
		}
	}
	return s.Get(orderID)
}

// Cancel 顾客取消自己的待处理订单
func (s *OrderService) Cancel(userID, orderID uint) (*models.Order, error) {
	order, err := s.GetForUser(userID, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status != constants.OrderStatusPending {
		return nil, ErrOrderStatusInvalid
	}
	return s.UpdateStatus(orderID, constants.OrderStatusCanceled)
}

// generateOrderNo 生成订单编号
func generateOrderNo() string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:10]
	return fmt.Sprintf("SB%s%s", time.Now().Format("20060102150405"), strings.ToUpper(suffix))
}
