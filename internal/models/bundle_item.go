package models

import "time"

// BundlePromotionItem 套餐项表
// 两种形态：固定菜品（is_choice_group=false，product_id 必填）或
// 可选组（is_choice_group=true，product_id/variant_id 为空，关联若干选项）。
type BundlePromotionItem struct {
	ID            uint      `gorm:"primarykey" json:"id"`                          // 主键
	PromotionID   uint      `gorm:"not null;index" json:"promotion_id"`            // 所属促销活动ID
	IsChoiceGroup bool      `gorm:"not null;default:false" json:"is_choice_group"` // 是否为可选组
	ProductID     *uint     `gorm:"index" json:"product_id,omitempty"`             // 固定菜品ID（可选组为空）
	VariantID     *uint     `gorm:"index" json:"variant_id,omitempty"`             // 固定规格ID
	ChoiceLabel   string    `gorm:"type:varchar(200)" json:"choice_label"`         // 可选组标题（如“elige tu bebida”）
	Quantity      int       `gorm:"not null;default:1" json:"quantity"`            // 数量（≥1）
	SortOrder     int       `gorm:"default:0;index" json:"sort_order"`             // 排序权重（仅展示顺序）
	CreatedAt     time.Time `gorm:"index" json:"created_at"`                       // 创建时间
	UpdatedAt     time.Time `json:"updated_at"`                                    // 更新时间

	// 关联
	Promotion *Promotion                  `gorm:"foreignKey:PromotionID;constraint:OnDelete:CASCADE" json:"-"` // 所属促销活动
	Product   *Product                    `gorm:"foreignKey:ProductID" json:"product,omitempty"`               // 固定菜品
	Variant   *ProductVariant             `gorm:"foreignKey:VariantID" json:"variant,omitempty"`               // 固定规格
	Options   []BundlePromotionItemOption `gorm:"foreignKey:BundleItemID" json:"options,omitempty"`            // 可选组选项
}

// TableName 指定表名
func (BundlePromotionItem) TableName() string {
	return "bundle_promotion_items"
}

// BundlePromotionItemOption 套餐可选组选项表
// 同一菜品允许以不同规格重复出现（表示“选一个份量”）。
type BundlePromotionItemOption struct {
	ID           uint      `gorm:"primarykey" json:"id"`                 // 主键
	BundleItemID uint      `gorm:"not null;index" json:"bundle_item_id"` // 所属套餐项ID
	ProductID    uint      `gorm:"not null;index" json:"product_id"`     // 菜品ID（必填）
	VariantID    *uint     `gorm:"index" json:"variant_id,omitempty"`    // 规格ID
	SortOrder    int       `gorm:"default:0;index" json:"sort_order"`    // 排序权重
	CreatedAt    time.Time `gorm:"index" json:"created_at"`              // 创建时间

	// 关联
	Item    *BundlePromotionItem `gorm:"foreignKey:BundleItemID;constraint:OnDelete:CASCADE" json:"-"` // 所属套餐项
	Product *Product             `gorm:"foreignKey:ProductID" json:"product,omitempty"`                // 菜品
	Variant *ProductVariant      `gorm:"foreignKey:VariantID" json:"variant,omitempty"`                // 规格
}

// TableName 指定表名
func (BundlePromotionItemOption) TableName() string {
	return "bundle_promotion_item_options"
}
