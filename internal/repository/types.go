package repository

import "time"

// CatalogListFilter 后台内容资源通用列表过滤条件
type CatalogListFilter struct {
	Page       int
	PageSize   int
	Search     string
	OnlyActive bool
}

// ProductListFilter 查询商品列表的过滤条件
type ProductListFilter struct {
	CatalogListFilter
	CategoryID   uint
	CategorySlug string
	InStockOnly  bool
	Tag          string
	WithCategory bool
}

// DeliverySlotListFilter 查询配送时段的过滤条件
type DeliverySlotListFilter struct {
	CatalogListFilter
	From *time.Time
}

// OrderListFilter 查询订单列表的过滤条件
type OrderListFilter struct {
	Page        int
	PageSize    int
	UserID      uint
	Status      string
	OrderNo     string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}
