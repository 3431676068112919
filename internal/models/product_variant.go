package models

import (
	"time"

	"gorm.io/gorm"
)

// ProductVariant 菜品规格表（份量/做法维度）
type ProductVariant struct {
	ID          uint           `gorm:"primarykey" json:"id"`                                               // 主键
	ProductID   uint           `gorm:"not null;index;uniqueIndex:idx_variant_name" json:"product_id"`      // 菜品ID
	Name        string         `gorm:"type:varchar(64);not null;uniqueIndex:idx_variant_name" json:"name"` // 规格名称（同菜品内唯一）
	PriceAmount Money          `gorm:"type:decimal(20,2);not null;default:0" json:"price_amount"`          // 规格价格
	IsActive    bool           `gorm:"default:true;index" json:"is_active"`                                // 是否启用
	SortOrder   int            `gorm:"default:0;index" json:"sort_order"`                                  // 排序权重
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`                                            // 创建时间
	UpdatedAt   time.Time      `gorm:"index" json:"updated_at"`                                            // 更新时间
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`                                                     // 软删除时间

	Product *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"` // 关联菜品
}

// TableName 指定表名
func (ProductVariant) TableName() string {
	return "product_variants"
}
