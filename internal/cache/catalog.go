package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"
)

const catalogCacheTTL = 5 * time.Minute

func catalogVersionKey(resource string) string {
	return fmt.Sprintf("catalog:%s:version", resource)
}

func catalogEntryKey(ctx context.Context, resource, variant string) (string, error) {
	raw, err := GetString(ctx, catalogVersionKey(resource))
	if err != nil {
		return "", err
	}
	version, _ := strconv.ParseInt(raw, 10, 64)
	return fmt.Sprintf("catalog:%s:v%d:%s", resource, version, variant), nil
}

// GetCatalog 读取公开目录缓存，variant 区分查询参数
func GetCatalog(ctx context.Context, resource, variant string, dest interface{}) (bool, error) {
	if !Enabled() {
		return false, nil
	}
	key, err := catalogEntryKey(ctx, resource, variant)
	if err != nil {
		return false, err
	}
	return GetJSON(ctx, key, dest)
}

// SetCatalog 写入公开目录缓存
func SetCatalog(ctx context.Context, resource, variant string, value interface{}) error {
	if !Enabled() {
		return nil
	}
	key, err := catalogEntryKey(ctx, resource, variant)
	if err != nil {
		return err
	}
	return SetJSON(ctx, key, value, catalogCacheTTL)
}

// InvalidateCatalog 递增资源版本，旧缓存随 TTL 过期
func InvalidateCatalog(ctx context.Context, resource string) error {
	if !Enabled() {
		return nil
	}
	_, err := Incr(ctx, catalogVersionKey(resource))
	return err
}
