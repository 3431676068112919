package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/sabor-next/internal/constants"
	"github.com/sabor-next/internal/logger"
	"github.com/sabor-next/internal/models"
	"github.com/sabor-next/internal/repository"

	"github.com/shopspring/decimal"
)

// CatalogInvalidator 促销目录缓存失效回调
type CatalogInvalidator func(ctx context.Context) error

// PromotionAdminService 促销活动管理服务
// 每次写入（创建/更新/软删/恢复/彻底删除）之后都触发目录缓存整体失效。
type PromotionAdminService struct {
	repo        repository.PromotionRepository
	productRepo repository.ProductRepository
	invalidate  CatalogInvalidator
}

// NewPromotionAdminService 创建促销活动管理服务
func NewPromotionAdminService(repo repository.PromotionRepository, productRepo repository.ProductRepository, invalidate CatalogInvalidator) *PromotionAdminService {
	return &PromotionAdminService{
		repo:        repo,
		productRepo: productRepo,
		invalidate:  invalidate,
	}
}

// BundleFixedItemInput 套餐固定项输入
type BundleFixedItemInput struct {
	ProductID uint
	VariantID *uint
	Quantity  int
	SortOrder int
}

// BundleChoiceOptionInput 套餐可选组选项输入
type BundleChoiceOptionInput struct {
	ProductID uint
	VariantID *uint
	SortOrder int
}

// BundleChoiceGroupInput 套餐可选组输入
type BundleChoiceGroupInput struct {
	Label     string
	Quantity  int
	SortOrder int
	Options   []BundleChoiceOptionInput
}

// BundleItemInput 套餐项输入，固定项与可选组二选一
type BundleItemInput struct {
	Fixed  *BundleFixedItemInput
	Choice *BundleChoiceGroupInput
}

// SavePromotionInput 创建/更新促销活动输入
type SavePromotionInput struct {
	Type            string
	Name            string
	Description     string
	Image           string
	ProductID       *uint
	VariantID       *uint
	PriceAmount     models.Money
	DiscountPercent models.Money
	IsActive        *bool
	SortOrder       int
	ValidFrom       *time.Time
	ValidUntil      *time.Time
	TimeFrom        *string
	TimeUntil       *string
	Weekdays        []int
	Items           []BundleItemInput
}

// Create 创建促销活动
func (s *PromotionAdminService) Create(ctx context.Context, input SavePromotionInput) (*models.Promotion, error) {
	promotion, items, err := s.buildPromotion(input)
	if err != nil {
		return nil, err
	}
	promotion.Items = items

	if err := s.repo.Create(promotion); err != nil {
		return nil, err
	}
	s.invalidateCatalog(ctx)
	return s.repo.GetByID(promotion.ID)
}

// Update 更新促销活动（整体替换套餐内容）
func (s *PromotionAdminService) Update(ctx context.Context, id uint, input SavePromotionInput) (*models.Promotion, error) {
	if id == 0 {
		return nil, ErrPromotionInvalid
	}
	existing, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrPromotionNotFound
	}

	promotion, items, err := s.buildPromotion(input)
	if err != nil {
		return nil, err
	}
	promotion.ID = existing.ID
	promotion.CreatedAt = existing.CreatedAt
	if input.IsActive == nil {
		promotion.IsActive = existing.IsActive
	}

	if err := s.repo.Update(promotion); err != nil {
		return nil, err
	}
	if err := s.repo.ReplaceItems(id, items); err != nil {
		return nil, err
	}
	s.invalidateCatalog(ctx)
	return s.repo.GetByID(id)
}

// Delete 软删除促销活动
func (s *PromotionAdminService) Delete(ctx context.Context, id uint) error {
	if id == 0 {
		return ErrPromotionInvalid
	}
	existing, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrPromotionNotFound
	}
	if err := s.repo.Delete(id); err != nil {
		return err
	}
	s.invalidateCatalog(ctx)
	return nil
}

// Restore 恢复软删除的促销活动
func (s *PromotionAdminService) Restore(ctx context.Context, id uint) error {
	if id == 0 {
		return ErrPromotionInvalid
	}
	deleted, err := s.repo.GetDeletedByID(id)
	if err != nil {
		return err
	}
	if deleted == nil {
		return ErrPromotionNotDeleted
	}
	if err := s.repo.Restore(id); err != nil {
		return err
	}
	s.invalidateCatalog(ctx)
	return nil
}

// ForceDelete 彻底删除促销活动
func (s *PromotionAdminService) ForceDelete(ctx context.Context, id uint) error {
	if id == 0 {
		return ErrPromotionInvalid
	}
	deleted, err := s.repo.GetDeletedByID(id)
	if err != nil {
		return err
	}
	if deleted == nil {
		return ErrPromotionNotDeleted
	}
	if err := s.repo.ForceDelete(id); err != nil {
		return err
	}
	s.invalidateCatalog(ctx)
	return nil
}

// Get 获取促销活动详情
func (s *PromotionAdminService) Get(id uint) (*models.Promotion, error) {
	if id == 0 {
		return nil, ErrPromotionInvalid
	}
	promotion, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if promotion == nil {
		return nil, ErrPromotionNotFound
	}
	return promotion, nil
}

// List 促销活动列表
func (s *PromotionAdminService) List(filter repository.PromotionListFilter) ([]models.Promotion, int64, error) {
	return s.repo.List(filter)
}

// invalidateCatalog 使促销目录缓存失效（至少一次，失败仅记日志）
func (s *PromotionAdminService) invalidateCatalog(ctx context.Context) {
	if s.invalidate == nil {
		return
	}
	if err := s.invalidate(ctx); err != nil {
		logger.Warnw("promotion_catalog_invalidate_failed", "error", err)
	}
}

// buildPromotion 校验输入并组装促销活动主行与套餐内容
func (s *PromotionAdminService) buildPromotion(input SavePromotionInput) (*models.Promotion, []models.BundlePromotionItem, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, nil, ErrPromotionInvalid
	}
	promotionType := strings.ToLower(strings.TrimSpace(input.Type))
	if !validPromotionType(promotionType) {
		return nil, nil, ErrPromotionInvalid
	}
	if input.ValidFrom != nil && input.ValidUntil != nil && input.ValidUntil.Before(*input.ValidFrom) {
		return nil, nil, ErrPromotionInvalid
	}
	// 跨午夜时段不报错：按约定永不命中
	if input.TimeFrom != nil {
		if _, ok := parseClockSeconds(*input.TimeFrom); !ok {
			return nil, nil, ErrPromotionInvalid
		}
	}
	if input.TimeUntil != nil {
		if _, ok := parseClockSeconds(*input.TimeUntil); !ok {
			return nil, nil, ErrPromotionInvalid
		}
	}
	weekdays, err := normalizeWeekdays(input.Weekdays)
	if err != nil {
		return nil, nil, err
	}

	switch promotionType {
	case constants.PromotionTypeDailySpecial, constants.PromotionTypeTwoForOne:
		if input.ProductID == nil || *input.ProductID == 0 {
			return nil, nil, ErrPromotionInvalid
		}
	case constants.PromotionTypePercentageDiscount:
		percent := input.DiscountPercent.Decimal
		if percent.LessThanOrEqual(decimal.Zero) || percent.GreaterThan(decimal.NewFromInt(100)) {
			return nil, nil, ErrPromotionInvalid
		}
	case constants.PromotionTypeBundleSpecial:
		if len(input.Items) == 0 {
			return nil, nil, ErrPromotionInvalid
		}
		if input.PriceAmount.Decimal.LessThanOrEqual(decimal.Zero) {
			return nil, nil, ErrPromotionInvalid
		}
	}

	items, err := buildBundleItems(promotionType, input.Items)
	if err != nil {
		return nil, nil, err
	}

	isActive := true
	if input.IsActive != nil {
		isActive = *input.IsActive
	}

	promotion := &models.Promotion{
		Type:            promotionType,
		Name:            name,
		Description:     strings.TrimSpace(input.Description),
		Image:           strings.TrimSpace(input.Image),
		ProductID:       input.ProductID,
		VariantID:       input.VariantID,
		PriceAmount:     input.PriceAmount,
		DiscountPercent: input.DiscountPercent,
		IsActive:        isActive,
		SortOrder:       input.SortOrder,
		ValidFrom:       input.ValidFrom,
		ValidUntil:      input.ValidUntil,
		TimeFrom:        input.TimeFrom,
		TimeUntil:       input.TimeUntil,
		Weekdays:        weekdays,
	}
	return promotion, items, nil
}

// buildBundleItems 组装套餐内容
// 固定项必须带菜品引用，可选组选项同理；非套餐类型不允许携带套餐项。
func buildBundleItems(promotionType string, inputs []BundleItemInput) ([]models.BundlePromotionItem, error) {
	if promotionType != constants.PromotionTypeBundleSpecial {
		if len(inputs) > 0 {
			return nil, ErrPromotionInvalid
		}
		return nil, nil
	}

	items := make([]models.BundlePromotionItem, 0, len(inputs))
	for _, input := range inputs {
		switch {
		case input.Fixed != nil && input.Choice == nil:
			fixed := input.Fixed
			if fixed.ProductID == 0 {
				return nil, ErrPromotionInvalid
			}
			quantity := fixed.Quantity
			if quantity <= 0 {
				quantity = 1
			}
			productID := fixed.ProductID
			items = append(items, models.BundlePromotionItem{
				ProductID: &productID,
				VariantID: fixed.VariantID,
				Quantity:  quantity,
				SortOrder: fixed.SortOrder,
			})
		case input.Choice != nil && input.Fixed == nil:
			choice := input.Choice
			quantity := choice.Quantity
			if quantity <= 0 {
				quantity = 1
			}
			options := make([]models.BundlePromotionItemOption, 0, len(choice.Options))
			for _, option := range choice.Options {
				if option.ProductID == 0 {
					return nil, ErrPromotionInvalid
				}
				options = append(options, models.BundlePromotionItemOption{
					ProductID: option.ProductID,
					VariantID: option.VariantID,
					SortOrder: option.SortOrder,
				})
			}
			items = append(items, models.BundlePromotionItem{
				IsChoiceGroup: true,
				ChoiceLabel:   strings.TrimSpace(choice.Label),
				Quantity:      quantity,
				SortOrder:     choice.SortOrder,
				Options:       options,
			})
		default:
			return nil, ErrPromotionInvalid
		}
	}
	return items, nil
}

func validPromotionType(promotionType string) bool {
	for _, known := range constants.PromotionTypes {
		if promotionType == known {
			return true
		}
	}
	return false
}

// normalizeWeekdays 去重、排序并校验 ISO 星期集合
func normalizeWeekdays(weekdays []int) (models.IntArray, error) {
	if len(weekdays) == 0 {
		return nil, nil
	}
	seen := map[int]struct{}{}
	normalized := make(models.IntArray, 0, len(weekdays))
	for _, day := range weekdays {
		if day < constants.WeekdayMin || day > constants.WeekdayMax {
			return nil, ErrPromotionInvalid
		}
		if _, ok := seen[day]; ok {
			continue
		}
		seen[day] = struct{}{}
		normalized = append(normalized, day)
	}
	sort.Ints(normalized)
	return normalized, nil
}
