package repository

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

const defaultCatalogOrder = "sort_order DESC, id ASC"

// applyPagination 应用分页参数，pageSize <= 0 时不分页
func applyPagination(query *gorm.DB, page, pageSize int) *gorm.DB {
	if query == nil || pageSize <= 0 {
		return query
	}
	if page < 1 {
		page = 1
	}
	return query.Limit(pageSize).Offset((page - 1) * pageSize)
}

// applyCatalogFilter 处理 is_active 与模糊搜索
func applyCatalogFilter(query *gorm.DB, filter CatalogListFilter, searchColumns ...string) *gorm.DB {
	if filter.OnlyActive {
		query = query.Where("is_active = ?", true)
	}
	search := strings.TrimSpace(filter.Search)
	if search == "" || len(searchColumns) == 0 {
		return query
	}
	condition, argCount := buildLikeConditionByDialect(dbDialectName(query), searchColumns)
	if argCount == 0 {
		return query
	}
	return query.Where("("+condition+")", repeatLikeArgs("%"+search+"%", argCount)...)
}

// listPage 统计总数后按排序分页查询，预加载在计数之后生效
func listPage[T any](query *gorm.DB, page, pageSize int, orderBy string, preloads ...string) ([]T, int64, error) {
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if orderBy == "" {
		orderBy = defaultCatalogOrder
	}
	for _, preload := range preloads {
		query = query.Preload(preload)
	}
	var rows []T
	if err := applyPagination(query, page, pageSize).Order(orderBy).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// firstOrNil 查询单条，未找到返回 nil, nil
func firstOrNil[T any](query *gorm.DB, conds ...interface{}) (*T, error) {
	var row T
	if err := query.First(&row, conds...).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}
