package repository

import "time"

// ProductListFilter 查询菜品列表的过滤条件
type ProductListFilter struct {
	Page         int
	PageSize     int
	CategoryID   uint
	Search       string
	OnlyActive   bool
	WithCategory bool
}

// PromotionListFilter 查询促销活动列表的过滤条件
type PromotionListFilter struct {
	Page        int
	PageSize    int
	Type        string
	IsActive    *bool
	Search      string
	OnlyDeleted bool
	WithItems   bool
}

// OrderListFilter 查询订单列表的过滤条件
type OrderListFilter struct {
	Page        int
	PageSize    int
	UserID      uint
	Status      string
	Type        string
	OrderNo     string
	TableNumber string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

// UserListFilter 查询顾客列表的过滤条件
type UserListFilter struct {
	Page        int
	PageSize    int
	Keyword     string
	Status      string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

// TicketListFilter 查询工单列表的过滤条件
type TicketListFilter struct {
	Page     int
	PageSize int
	UserID   uint
	Status   string
	TicketNo string
	Search   string
}
