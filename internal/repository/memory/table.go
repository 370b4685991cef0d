package memory

import (
	"sort"
	"strings"
	"sync"
	"time"
)

// table 以自增 ID 为键的内存表
type table[T any] struct {
	mu     sync.RWMutex
	rows   map[uint]T
	nextID uint
	id     func(*T) uint
	setID  func(*T, uint)
	touch  func(*T, time.Time)
}

func newTable[T any](id func(*T) uint, setID func(*T, uint), touch func(*T, time.Time)) *table[T] {
	return &table[T]{rows: make(map[uint]T), id: id, setID: setID, touch: touch}
}

func (t *table[T]) insert(row *T) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.id(row) == 0 {
		t.nextID++
		t.setID(row, t.nextID)
	} else if t.id(row) > t.nextID {
		t.nextID = t.id(row)
	}
	if t.touch != nil {
		t.touch(row, time.Now())
	}
	t.rows[t.id(row)] = *row
}

func (t *table[T]) save(row *T) {
	if t.id(row) == 0 {
		t.insert(row)
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.touch != nil {
		t.touch(row, time.Now())
	}
	t.rows[t.id(row)] = *row
}

func (t *table[T]) get(id uint) *T {
	t.mu.RLock()
	defer t.mu.RUnlock()
	row, ok := t.rows[id]
	if !ok {
		return nil
	}
	return &row
}

func (t *table[T]) remove(id uint) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.rows, id)
}

func (t *table[T]) find(match func(*T) bool) *T {
	t.mu.RLock()
	defer t.mu.RUnlock()
	for _, row := range t.rows {
		if match(&row) {
			return &row
		}
	}
	return nil
}

func (t *table[T]) count(match func(*T) bool) int64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	var n int64
	for _, row := range t.rows {
		if match(&row) {
			n++
		}
	}
	return n
}

func (t *table[T]) mutate(id uint, fn func(*T) bool) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	row, ok := t.rows[id]
	if !ok || !fn(&row) {
		return false
	}
	t.rows[id] = row
	return true
}

// list 过滤、排序并分页，pageSize <= 0 时返回全部
func (t *table[T]) list(match func(*T) bool, less func(a, b *T) bool, page, pageSize int) ([]T, int64) {
	t.mu.RLock()
	rows := make([]T, 0, len(t.rows))
	for _, row := range t.rows {
		if match == nil || match(&row) {
			rows = append(rows, row)
		}
	}
	t.mu.RUnlock()

	sort.SliceStable(rows, func(i, j int) bool {
		if less != nil {
			return less(&rows[i], &rows[j])
		}
		return t.id(&rows[i]) < t.id(&rows[j])
	})
	total := int64(len(rows))
	if pageSize <= 0 {
		return rows, total
	}
	if page < 1 {
		page = 1
	}
	start := (page - 1) * pageSize
	if start >= len(rows) {
		return []T{}, total
	}
	end := start + pageSize
	if end > len(rows) {
		end = len(rows)
	}
	return rows[start:end], total
}

// bySortOrder sort_order DESC, id ASC
func bySortOrder(orderA, orderB int, idA, idB uint) bool {
	if orderA != orderB {
		return orderA > orderB
	}
	return idA < idB
}

func containsFold(search string, fields ...string) bool {
	search = strings.ToLower(strings.TrimSpace(search))
	if search == "" {
		return true
	}
	for _, field := range fields {
		if strings.Contains(strings.ToLower(field), search) {
			return true
		}
	}
	return false
}
