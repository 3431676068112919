package models

import (
	"time"

	"gorm.io/gorm"
)

// Promotion 促销活动表（每日特价/买一送一/百分比折扣/套餐）
type Promotion struct {
	ID              uint           `gorm:"primarykey" json:"id"`                                          // 主键
	Type            string         `gorm:"not null;index" json:"type"`                                    // 类型（daily_special/two_for_one/percentage_discount/bundle_special）
	Name            string         `gorm:"not null" json:"name"`                                          // 名称
	Description     string         `gorm:"type:text" json:"description"`                                  // 描述
	Image           string         `gorm:"type:varchar(500)" json:"image"`                                // 宣传图（图片路径）
	ProductID       *uint          `gorm:"index" json:"product_id,omitempty"`                             // 单品类活动关联的菜品ID
	VariantID       *uint          `gorm:"index" json:"variant_id,omitempty"`                             // 单品类活动关联的规格ID
	PriceAmount     Money          `gorm:"type:decimal(20,2);not null;default:0" json:"price_amount"`     // 活动价（特价/套餐价）
	DiscountPercent Money          `gorm:"type:decimal(20,2);not null;default:0" json:"discount_percent"` // 折扣百分比（percentage_discount）
	IsActive        bool           `gorm:"not null;default:true;index" json:"is_active"`                  // 是否启用
	SortOrder       int            `gorm:"default:0;index" json:"sort_order"`                             // 排序权重
	ValidFrom       *time.Time     `gorm:"type:date;index" json:"valid_from"`                             // 生效日期（含当日）
	ValidUntil      *time.Time     `gorm:"type:date;index" json:"valid_until"`                            // 失效日期（含当日）
	TimeFrom        *string        `gorm:"type:time" json:"time_from"`                                    // 每日生效时段起点（HH:MM:SS，含端点）
	TimeUntil       *string        `gorm:"type:time" json:"time_until"`                                   // 每日生效时段终点（HH:MM:SS，含端点）
	Weekdays        IntArray       `gorm:"type:json" json:"weekdays"`                                     // ISO 星期集合（1=周一..7=周日，空集不限）
	CreatedAt       time.Time      `gorm:"index" json:"created_at"`                                       // 创建时间
	UpdatedAt       time.Time      `gorm:"index" json:"updated_at"`                                       // 更新时间
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`                                                // 软删除时间

	// 关联
	Product *Product              `gorm:"foreignKey:ProductID" json:"product,omitempty"` // 单品类活动菜品
	Items   []BundlePromotionItem `gorm:"foreignKey:PromotionID" json:"items,omitempty"` // 套餐内容（仅 bundle_special）
}

// TableName 指定表名
func (Promotion) TableName() string {
	return "promotions"
}
