package service

import (
	"context"
	"sort"
	"time"

	"github.com/sabor-next/internal/cache"
	"github.com/sabor-next/internal/constants"
	"github.com/sabor-next/internal/logger"
	"github.com/sabor-next/internal/models"
	"github.com/sabor-next/internal/repository"
)

// PromotionService 促销活动读服务
// 目录读取走整体缓存，过滤在内存中组合完成。
type PromotionService struct {
	promotionRepo repository.PromotionRepository
	productRepo   repository.ProductRepository
}

// NewPromotionService 创建促销活动读服务
func NewPromotionService(promotionRepo repository.PromotionRepository, productRepo repository.ProductRepository) *PromotionService {
	return &PromotionService{
		promotionRepo: promotionRepo,
		productRepo:   productRepo,
	}
}

// AnnotatedPromotion 带有效性与可售标注的促销活动
type AnnotatedPromotion struct {
	models.Promotion
	ValidNow  bool `json:"valid_now"`
	Available bool `json:"available"`
}

// Catalog 读取完整促销目录
// 先查缓存，未命中回源并回填；缓存故障降级为直接回源。
func (s *PromotionService) Catalog(ctx context.Context) ([]models.Promotion, error) {
	var cached []models.Promotion
	hit, err := cache.GetPromotionCatalog(ctx, &cached)
	if err != nil {
		logger.Warnw("promotion_catalog_cache_read_failed", "error", err)
	}
	if hit {
		return cached, nil
	}

	promotions, err := s.promotionRepo.ListCatalog()
	if err != nil {
		return nil, err
	}
	if err := cache.SetPromotionCatalog(ctx, promotions); err != nil {
		logger.Warnw("promotion_catalog_cache_write_failed", "error", err)
	}
	return promotions, nil
}

// ListAnnotated 读取目录并标注每条活动的当前有效性与可售状态
func (s *PromotionService) ListAnnotated(ctx context.Context, at time.Time) ([]AnnotatedPromotion, error) {
	promotions, err := s.Catalog(ctx)
	if err != nil {
		return nil, err
	}

	lookup, err := s.statusLookup(promotions)
	if err != nil {
		return nil, err
	}

	annotated := make([]AnnotatedPromotion, 0, len(promotions))
	for i := range promotions {
		annotated = append(annotated, AnnotatedPromotion{
			Promotion: promotions[i],
			ValidNow:  PromotionValidAt(&promotions[i], at),
			Available: BundleAvailable(&promotions[i], lookup),
		})
	}
	return annotated, nil
}

// ValidateOrderable 下单前校验促销活动可用
// 直接回源读取，避免用缓存视图做下单决策。
func (s *PromotionService) ValidateOrderable(promotionID uint, at time.Time) (*models.Promotion, error) {
	if promotionID == 0 {
		return nil, ErrPromotionInvalid
	}
	promotion, err := s.promotionRepo.GetByID(promotionID)
	if err != nil {
		return nil, err
	}
	if promotion == nil {
		return nil, ErrPromotionNotFound
	}
	if !PromotionValidAt(promotion, at) {
		return nil, ErrPromotionNotValidNow
	}
	lookup, err := s.statusLookup([]models.Promotion{*promotion})
	if err != nil {
		return nil, err
	}
	if !BundleAvailable(promotion, lookup) {
		return nil, ErrPromotionUnavailable
	}
	return promotion, nil
}

// statusLookup 为一批促销活动预取所引用菜品的启用状态
func (s *PromotionService) statusLookup(promotions []models.Promotion) (ProductStatusLookup, error) {
	idSet := map[uint]struct{}{}
	for i := range promotions {
		p := &promotions[i]
		if p.ProductID != nil {
			idSet[*p.ProductID] = struct{}{}
		}
		for j := range p.Items {
			item := &p.Items[j]
			if item.ProductID != nil {
				idSet[*item.ProductID] = struct{}{}
			}
			for k := range item.Options {
				idSet[item.Options[k].ProductID] = struct{}{}
			}
		}
	}

	ids := make([]uint, 0, len(idSet))
	for id := range idSet {
		ids = append(ids, id)
	}
	status, err := s.productRepo.ActiveStatusByIDs(ids)
	if err != nil {
		return nil, err
	}
	return mapStatusLookup(status), nil
}

// mapStatusLookup 基于预取结果的状态查询，未命中视为未启用
type mapStatusLookup map[uint]bool

func (m mapStatusLookup) ProductActive(productID uint) (bool, error) {
	return m[productID], nil
}

// ListByState 按生命周期状态过滤促销活动
// 状态是对时刻 at 的推导而非存储列，先整表回源再内存过滤、分页。
func (s *PromotionService) ListByState(filter repository.PromotionListFilter, state string, at time.Time) ([]models.Promotion, int64, error) {
	page, pageSize := filter.Page, filter.PageSize
	filter.Page, filter.PageSize = 0, 0

	promotions, _, err := s.promotionRepo.List(filter)
	if err != nil {
		return nil, 0, err
	}

	switch state {
	case constants.PromotionStateValid:
		promotions = FilterValidAt(promotions, at)
	case constants.PromotionStateExpired:
		promotions = FilterExpired(promotions, at)
	case constants.PromotionStateUpcoming:
		promotions = FilterUpcoming(promotions, at)
	case constants.PromotionStateAvailable:
		promotions, err = s.FilterAvailable(promotions)
		if err != nil {
			return nil, 0, err
		}
	default:
		return nil, 0, ErrPromotionInvalid
	}

	total := int64(len(promotions))
	return pageSlice(promotions, page, pageSize), total, nil
}

// pageSlice 对内存结果集应用分页
func pageSlice(promotions []models.Promotion, page, pageSize int) []models.Promotion {
	if pageSize <= 0 {
		return promotions
	}
	if page < 1 {
		page = 1
	}
	start := (page - 1) * pageSize
	if start >= len(promotions) {
		return []models.Promotion{}
	}
	end := start + pageSize
	if end > len(promotions) {
		end = len(promotions)
	}
	return promotions[start:end]
}

// FilterByType 按类型过滤
func FilterByType(promotions []models.Promotion, promotionType string) []models.Promotion {
	filtered := make([]models.Promotion, 0, len(promotions))
	for i := range promotions {
		if promotions[i].Type == promotionType {
			filtered = append(filtered, promotions[i])
		}
	}
	return filtered
}

// FilterValidAt 保留 at 时刻有效的活动
func FilterValidAt(promotions []models.Promotion, at time.Time) []models.Promotion {
	filtered := make([]models.Promotion, 0, len(promotions))
	for i := range promotions {
		if PromotionValidAt(&promotions[i], at) {
			filtered = append(filtered, promotions[i])
		}
	}
	return filtered
}

// FilterExpired 保留已过期的活动
func FilterExpired(promotions []models.Promotion, at time.Time) []models.Promotion {
	filtered := make([]models.Promotion, 0, len(promotions))
	for i := range promotions {
		if PromotionExpired(&promotions[i], at) {
			filtered = append(filtered, promotions[i])
		}
	}
	return filtered
}

// FilterUpcoming 保留尚未开始的活动
func FilterUpcoming(promotions []models.Promotion, at time.Time) []models.Promotion {
	filtered := make([]models.Promotion, 0, len(promotions))
	for i := range promotions {
		if PromotionUpcoming(&promotions[i], at) {
			filtered = append(filtered, promotions[i])
		}
	}
	return filtered
}

// FilterAvailable 保留当前可售的活动
func (s *PromotionService) FilterAvailable(promotions []models.Promotion) ([]models.Promotion, error) {
	lookup, err := s.statusLookup(promotions)
	if err != nil {
		return nil, err
	}
	filtered := make([]models.Promotion, 0, len(promotions))
	for i := range promotions {
		if BundleAvailable(&promotions[i], lookup) {
			filtered = append(filtered, promotions[i])
		}
	}
	return filtered, nil
}

// SortBySortOrder 按排序权重稳定升序
func SortBySortOrder(promotions []models.Promotion) []models.Promotion {
	sorted := make([]models.Promotion, len(promotions))
	copy(sorted, promotions)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].SortOrder < sorted[j].SortOrder
	})
	return sorted
}
