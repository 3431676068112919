package repository

import "gorm.io/gorm"

// maxPageSize 单页上限，防止后台列表一次拉全表
const maxPageSize = 200

// applyPagination 应用分页参数，统一处理非法页码与偏移量。
// pageSize<=0 表示不分页（内部调用方自行限制场景）。
func applyPagination(query *gorm.DB, page, pageSize int) *gorm.DB {
	if query == nil || pageSize <= 0 {
		return query
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * pageSize
	if offset < 0 {
		offset = 0
	}
	return query.Limit(pageSize).Offset(offset)
}
