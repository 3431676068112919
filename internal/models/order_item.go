package models

import (
	"time"

	"gorm.io/gorm"
)

// OrderItem 订单项表
// 普通菜品行填 product_id（可带 variant_id），促销行填 promotion_id，
// 套餐行的选择结果以快照形式存入 selections。
type OrderItem struct {
	ID          uint           `gorm:"primarykey" json:"id"`                                     // 主键
	OrderID     uint           `gorm:"index;not null" json:"order_id"`                           // 订单ID
	ProductID   *uint          `gorm:"index" json:"product_id,omitempty"`                        // 菜品ID
	VariantID   *uint          `gorm:"index" json:"variant_id,omitempty"`                        // 规格ID
	PromotionID *uint          `gorm:"index" json:"promotion_id,omitempty"`                      // 促销活动ID
	Name        string         `gorm:"not null" json:"name"`                                     // 名称快照
	UnitPrice   Money          `gorm:"type:decimal(20,2);not null;default:0" json:"unit_price"`  // 单价
	Quantity    int            `gorm:"not null" json:"quantity"`                                 // 数量
	TotalPrice  Money          `gorm:"type:decimal(20,2);not null;default:0" json:"total_price"` // 小计
	Selections  JSON           `gorm:"type:json" json:"selections,omitempty"`                    // 套餐选择快照（可选组 -> 选中菜品）
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`                                  // 创建时间
	UpdatedAt   time.Time      `gorm:"index" json:"updated_at"`                                  // 更新时间
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`                                           // 软删除时间
}

// TableName 指定表名
func (OrderItem) TableName() string {
	return "order_items"
}
