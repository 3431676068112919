package cache

import (
	"context"
	"time"

	"github.com/sabor-next/internal/constants"
)

// 促销目录整体缓存：单一键、写路径整体失效，由下一次读重建。
// 没有按活动粒度的键，任何写入都使整个缓存视图作废。

// GetPromotionCatalog 读取促销目录缓存
func GetPromotionCatalog(ctx context.Context, dest interface{}) (bool, error) {
	return GetJSON(ctx, constants.CacheKeyPromotionCatalog, dest)
}

// SetPromotionCatalog 写入促销目录缓存
// 不设 TTL：过期只由写路径失效驱动。
func SetPromotionCatalog(ctx context.Context, value interface{}) error {
	return SetJSON(ctx, constants.CacheKeyPromotionCatalog, value, time.Duration(0))
}

// InvalidatePromotionCatalog 使促销目录缓存整体失效
// 幂等，允许并发写方重复调用。
func InvalidatePromotionCatalog(ctx context.Context) error {
	return Del(ctx, constants.CacheKeyPromotionCatalog)
}
