package service

import (
	"context"
	"fmt"

	"github.com/tidecart/internal/cache"
	"github.com/tidecart/internal/logger"
	"github.com/tidecart/internal/repository"
)

type cachedPage[T any] struct {
	Rows  []T   `json:"rows"`
	Total int64 `json:"total"`
}

// cachedList 公开目录读取走缓存，缓存异常时降级为直接查询
func cachedList[T any](ctx context.Context, resource, variant string, load func() ([]T, int64, error)) ([]T, int64, error) {
	var page cachedPage[T]
	hit, err := cache.GetCatalog(ctx, resource, variant, &page)
	if err != nil {
		logger.FromContext(ctx).Warnw("catalog_cache_get_failed", "resource", resource, "error", err)
	}
	if hit {
		return page.Rows, page.Total, nil
	}
	rows, total, err := load()
	if err != nil {
		return nil, 0, err
	}
	if rows == nil {
		rows = []T{}
	}
	if err := cache.SetCatalog(ctx, resource, variant, cachedPage[T]{Rows: rows, Total: total}); err != nil {
		logger.FromContext(ctx).Warnw("catalog_cache_set_failed", "resource", resource, "error", err)
	}
	return rows, total, nil
}

func invalidateCatalog(ctx context.Context, resources ...string) {
	for _, resource := range resources {
		if err := cache.InvalidateCatalog(ctx, resource); err != nil {
			logger.FromContext(ctx).Warnw("catalog_cache_invalidate_failed", "resource", resource, "error", err)
		}
	}
}

func catalogVariant(filter repository.CatalogListFilter) string {
	return fmt.Sprintf("p%d:s%d:q=%s", filter.Page, filter.PageSize, filter.Search)
}

func boolOr(value *bool, fallback bool) bool {
	if value == nil {
		return fallback
	}
	return *value
}
