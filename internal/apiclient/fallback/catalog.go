// Package fallback 提供目录类接口的静态兜底数据，由调用方在请求失败时显式选用。
package fallback

import (
	"embed"
	"encoding/json"
	"fmt"
	"net/url"
	"path"
	"strings"
	"sync"
)

//go:embed fixtures/*.json
var fixtureFS embed.FS

// Catalog 按接口路径索引的兜底数据
type Catalog struct {
	fixtures map[string]json.RawMessage
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
	defaultErr     error
)

// Default 返回内置兜底数据
func Default() (*Catalog, error) {
	defaultOnce.Do(func() {
		defaultCatalog, defaultErr = load()
	})
	return defaultCatalog, defaultErr
}

// New 用自定义数据构造（测试或覆盖内置数据）
func New(fixtures map[string]json.RawMessage) *Catalog {
	c := &Catalog{fixtures: make(map[string]json.RawMessage, len(fixtures))}
	for endpoint, raw := range fixtures {
		c.fixtures[normalizeEndpoint(endpoint)] = raw
	}
	return c
}

func load() (*Catalog, error) {
	entries, err := fixtureFS.ReadDir("fixtures")
	if err != nil {
		return nil, err
	}
	fixtures := make(map[string]json.RawMessage, len(entries))
	for _, entry := range entries {
		raw, err := fixtureFS.ReadFile(path.Join("fixtures", entry.Name()))
		if err != nil {
			return nil, err
		}
		if !json.Valid(raw) {
			return nil, fmt.Errorf("fixture %s is not valid json", entry.Name())
		}
		fixtures["/"+strings.TrimSuffix(entry.Name(), ".json")] = raw
	}
	return New(fixtures), nil
}

// Lookup 查找 endpoint 对应的兜底数据，忽略查询参数与 /api/v1 前缀
func (c *Catalog) Lookup(endpoint string) (json.RawMessage, bool) {
	if c == nil {
		return nil, false
	}
	raw, ok := c.fixtures[normalizeEndpoint(endpoint)]
	return raw, ok
}

// Decode 解码兜底数据，未收录时 ok=false
func Decode[T any](c *Catalog, endpoint string) (value T, ok bool, err error) {
	raw, found := c.Lookup(endpoint)
	if !found {
		return value, false, nil
	}
	if err := json.Unmarshal(raw, &value); err != nil {
		return value, true, fmt.Errorf("decode fallback %s: %w", endpoint, err)
	}
	return value, true, nil
}

func normalizeEndpoint(endpoint string) string {
	endpoint = strings.TrimSpace(endpoint)
	if u, err := url.Parse(endpoint); err == nil {
		endpoint = u.Path
	}
	endpoint = strings.TrimPrefix(endpoint, "/api/v1")
	endpoint = "/" + strings.Trim(endpoint, "/")
	return endpoint
}
