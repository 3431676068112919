package service

import (
	"github.com/sabor-next/internal/constants"
	"github.com/sabor-next/internal/models"
)

// ProductStatusLookup 菜品启用状态查询
// 套餐可售判定只读菜品状态，不做任何写入。
type ProductStatusLookup interface {
	ProductActive(productID uint) (bool, error)
}

// BundleAvailable 判断促销活动当前是否可售
// 仅对 bundle_special 做结构判定：固定项要求其菜品启用，
// 可选组要求至少一个选项的菜品启用，空可选组视为不可售。
// 其他类型恒为可售。引用缺失或查询失败按不可售降级，不抛错。
func BundleAvailable(p *models.Promotion, lookup ProductStatusLookup) bool {
	if p == nil {
		return false
	}
	if p.Type != constants.PromotionTypeBundleSpecial {
		return true
	}
	for i := range p.Items {
		if !bundleItemAvailable(&p.Items[i], lookup) {
			return false
		}
	}
	return true
}

func bundleItemAvailable(item *models.BundlePromotionItem, lookup ProductStatusLookup) bool {
	if item.IsChoiceGroup {
		for i := range item.Options {
			if productActive(lookup, item.Options[i].ProductID) {
				return true
			}
		}
		return false
	}
	if item.ProductID == nil {
		return false
	}
	return productActive(lookup, *item.ProductID)
}

func productActive(lookup ProductStatusLookup, productID uint) bool {
	if lookup == nil || productID == 0 {
		return false
	}
	active, err := lookup.ProductActive(productID)
	if err != nil {
		return false
	}
	return active
}
