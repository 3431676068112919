package repository

import (
	"errors"
	"strings"

	"github.com/sabor-next/internal/models"

	"gorm.io/gorm"
)

// PromotionRepository 促销活动数据访问接口
// 写路径（创建/更新/软删/恢复/彻底删除）由服务层配套缓存失效。
type PromotionRepository interface {
	List(filter PromotionListFilter) ([]models.Promotion, int64, error)
	ListCatalog() ([]models.Promotion, error)
	GetByID(id uint) (*models.Promotion, error)
	GetDeletedByID(id uint) (*models.Promotion, error)
	Create(promotion *models.Promotion) error
	Update(promotion *models.Promotion) error
	ReplaceItems(promotionID uint, items []models.BundlePromotionItem) error
	Delete(id uint) error
	Restore(id uint) error
	ForceDelete(id uint) error
	Transaction(fn func(tx *gorm.DB) error) error
	WithTx(tx *gorm.DB) PromotionRepository
}

// GormPromotionRepository GORM 实现
type GormPromotionRepository struct {
	db *gorm.DB
}

// NewPromotionRepository 创建促销活动仓库
func NewPromotionRepository(db *gorm.DB) *GormPromotionRepository {
	return &GormPromotionRepository{db: db}
}

// WithTx 绑定事务
func (r *GormPromotionRepository) WithTx(tx *gorm.DB) PromotionRepository {
	if tx == nil {
		return r
	}
	return &GormPromotionRepository{db: tx}
}

// Transaction 执行事务
func (r *GormPromotionRepository) Transaction(fn func(tx *gorm.DB) error) error {
	if fn == nil {
		return nil
	}
	return r.db.Transaction(fn)
}

func preloadPromotionContent(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Product").
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC, id ASC")
		}).
		Preload("Items.Product").
		Preload("Items.Variant").
		Preload("Items.Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC, id ASC")
		}).
		Preload("Items.Options.Product").
		Preload("Items.Options.Variant")
}

// List 促销活动列表
func (r *GormPromotionRepository) List(filter PromotionListFilter) ([]models.Promotion, int64, error) {
	var promotions []models.Promotion

	query := r.db.Model(&models.Promotion{})
	if filter.OnlyDeleted {
		query = query.Unscoped().Where("deleted_at IS NOT NULL")
	}
	if promotionType := strings.TrimSpace(filter.Type); promotionType != "" {
		query = query.Where("type = ?", promotionType)
	}
	if filter.IsActive != nil {
		query = query.Where("is_active = ?", *filter.IsActive)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		like := "%" + search + "%"
		condition, argCount := buildSearchCondition(r.db, []string{"name", "description"})
		query = query.Where(condition, repeatLikeArgs(like, argCount)...)
	}
	if filter.WithItems {
		query = preloadPromotionContent(query)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	if err := query.Order("sort_order ASC, id ASC").Find(&promotions).Error; err != nil {
		return nil, 0, err
	}
	return promotions, total, nil
}

// ListCatalog 读取完整促销目录（含套餐内容，按排序权重升序）
func (r *GormPromotionRepository) ListCatalog() ([]models.Promotion, error) {
	var promotions []models.Promotion
	if err := preloadPromotionContent(r.db).
		Order("sort_order ASC, id ASC").
		Find(&promotions).Error; err != nil {
		return nil, err
	}
	return promotions, nil
}

// GetByID 根据 ID 获取促销活动（含套餐内容）
func (r *GormPromotionRepository) GetByID(id uint) (*models.Promotion, error) {
	var promotion models.Promotion
	if err := preloadPromotionContent(r.db).First(&promotion, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &promotion, nil
}

// GetDeletedByID 根据 ID 获取已软删的促销活动
func (r *GormPromotionRepository) GetDeletedByID(id uint) (*models.Promotion, error) {
	var promotion models.Promotion
	if err := r.db.Unscoped().
		Where("id = ? AND deleted_at IS NOT NULL", id).
		First(&promotion).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &promotion, nil
}

// Create 创建促销活动（连同套餐项与选项）
func (r *GormPromotionRepository) Create(promotion *models.Promotion) error {
	return r.db.Create(promotion).Error
}

// Update 更新促销活动
// 只保存主行字段，套餐内容走 ReplaceItems。
func (r *GormPromotionRepository) Update(promotion *models.Promotion) error {
	return r.db.Omit("Items", "Product").Save(promotion).Error
}

// ReplaceItems 整体替换促销活动的套餐内容
func (r *GormPromotionRepository) ReplaceItems(promotionID uint, items []models.BundlePromotionItem) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var itemIDs []uint
		if err := tx.Model(&models.BundlePromotionItem{}).
			Where("promotion_id = ?", promotionID).
			Pluck("id", &itemIDs).Error; err != nil {
			return err
		}
		if len(itemIDs) > 0 {
			if err := tx.Where("bundle_item_id IN ?", itemIDs).
				Delete(&models.BundlePromotionItemOption{}).Error; err != nil {
				return err
			}
			if err := tx.Where("promotion_id = ?", promotionID).
				Delete(&models.BundlePromotionItem{}).Error; err != nil {
				return err
			}
		}
		for i := range items {
			items[i].ID = 0
			items[i].PromotionID = promotionID
			for j := range items[i].Options {
				items[i].Options[j].ID = 0
				items[i].Options[j].BundleItemID = 0
			}
		}
		if len(items) == 0 {
			return nil
		}
		return tx.Create(&items).Error
	})
}

// Delete 软删除促销活动
func (r *GormPromotionRepository) Delete(id uint) error {
	return r.db.Delete(&models.Promotion{}, id).Error
}

// Restore 恢复软删除的促销活动
func (r *GormPromotionRepository) Restore(id uint) error {
	return r.db.Unscoped().Model(&models.Promotion{}).
		Where("id = ?", id).
		Update("deleted_at", nil).Error
}

// ForceDelete 彻底删除促销活动（连同套餐内容）
func (r *GormPromotionRepository) ForceDelete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var itemIDs []uint
		if err := tx.Model(&models.BundlePromotionItem{}).
			Where("promotion_id = ?", id).
			Pluck("id", &itemIDs).Error; err != nil {
			return err
		}
		if len(itemIDs) > 0 {
			if err := tx.Where("bundle_item_id IN ?", itemIDs).
				Delete(&models.BundlePromotionItemOption{}).Error; err != nil {
				return err
			}
			if err := tx.Where("promotion_id = ?", id).
				Delete(&models.BundlePromotionItem{}).Error; err != nil {
				return err
			}
		}
		return tx.Unscoped().Delete(&models.Promotion{}, id).Error
	})
}
