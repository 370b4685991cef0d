package cart

// Cart 购物车内容，保持插入顺序
type Cart struct {
	Items []LineItem `json:"items"`
	// MaxQuantityPerLine 单行数量上限，0 表示不限制
	MaxQuantityPerLine int `json:"-"`
}

// New 创建购物车
func New(maxQuantityPerLine int, items ...LineItem) *Cart {
	c := &Cart{MaxQuantityPerLine: maxQuantityPerLine}
	for _, item := range items {
		if item.Quantity <= 0 {
			continue
		}
		item.Quantity = c.clamp(item.Quantity)
		c.Items = append(c.Items, item)
	}
	return c
}

// Add 按商品合并数量，不存在时追加；返回合并后的行与是否被截断
func (c *Cart) Add(item LineItem, quantity int) (LineItem, bool, error) {
	if item.ProductID == 0 {
		return LineItem{}, false, ErrInvalidItem
	}
	if res := ValidateQuantity(quantity); !res.Valid() {
		return LineItem{}, false, res.Err
	}
	if idx := c.indexOf(item.ProductID); idx >= 0 {
		existing := &c.Items[idx]
		want := existing.Quantity + quantity
		existing.Quantity = c.clamp(want)
		existing.Name = pick(item.Name, existing.Name)
		existing.ImageRef = pick(item.ImageRef, existing.ImageRef)
		if !item.UnitPrice.IsZero() {
			existing.UnitPrice = item.UnitPrice
		}
		if len(item.SourceMetadata) > 0 {
			existing.SourceMetadata = item.SourceMetadata
		}
		return *existing, existing.Quantity != want, nil
	}
	item.Quantity = c.clamp(quantity)
	c.Items = append(c.Items, item)
	return item, item.Quantity != quantity, nil
}

// SetQuantity 设置数量，0 或负数移除该行
func (c *Cart) SetQuantity(productID uint, quantity int) (bool, error) {
	idx := c.indexOf(productID)
	if idx < 0 {
		return false, ErrItemNotFound
	}
	if quantity <= 0 {
		c.removeAt(idx)
		return false, nil
	}
	c.Items[idx].Quantity = c.clamp(quantity)
	return c.Items[idx].Quantity != quantity, nil
}

// Increment 数量 +delta（delta 可为负）
func (c *Cart) Increment(productID uint, delta int) error {
	idx := c.indexOf(productID)
	if idx < 0 {
		return ErrItemNotFound
	}
	_, err := c.SetQuantity(productID, c.Items[idx].Quantity+delta)
	return err
}

// Remove 移除行
func (c *Cart) Remove(productID uint) error {
	idx := c.indexOf(productID)
	if idx < 0 {
		return ErrItemNotFound
	}
	c.removeAt(idx)
	return nil
}

// Clear 清空
func (c *Cart) Clear() {
	c.Items = nil
}

// IsEmpty 是否为空
func (c *Cart) IsEmpty() bool {
	return c == nil || len(c.Items) == 0
}

// Find 查找行
func (c *Cart) Find(productID uint) (LineItem, bool) {
	if idx := c.indexOf(productID); idx >= 0 {
		return c.Items[idx], true
	}
	return LineItem{}, false
}

// Snapshot 返回行项目副本
func (c *Cart) Snapshot() []LineItem {
	if c == nil {
		return nil
	}
	out := make([]LineItem, len(c.Items))
	copy(out, c.Items)
	return out
}

func (c *Cart) clamp(quantity int) int {
	if c.MaxQuantityPerLine > 0 && quantity > c.MaxQuantityPerLine {
		return c.MaxQuantityPerLine
	}
	return quantity
}

func (c *Cart) indexOf(productID uint) int {
	if c == nil {
		return -1
	}
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return i
		}
	}
	return -1
}

func (c *Cart) removeAt(idx int) {
	c.Items = append(c.Items[:idx], c.Items[idx+1:]...)
}

func pick(value, fallback string) string {
	if value != "" {
		return value
	}
	return fallback
}
