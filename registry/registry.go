// Package registry 提供映射组件的存储（按 key 类型分组，插入顺序即优先级）
package registry

import (
	"context"
	"reflect"
	"sync"

	"github.com/KOMKZ/go-yogan-ioc/component"
	"github.com/KOMKZ/go-yogan-ioc/logger"
	"go.uber.org/zap"
)

// Registry 组件容器
//
// 每个 key 类型对应一个有序列表：至多一个生效的主映射，加上任意数量的替身。
// 单把读写锁保护整个 map。
type Registry struct {
	mu      sync.RWMutex
	entries map[reflect.Type][]*component.Component
	logger  logger.CtxLogger // 可选的日志组件（后注入）
}

// NewRegistry 创建空容器
func NewRegistry() *Registry {
	return &Registry{
		entries: make(map[reflect.Type][]*component.Component),
		logger:  logger.Nop(),
	}
}

// SetLogger 设置日志组件
func (r *Registry) SetLogger(l logger.CtxLogger) {
	if l == nil {
		panic("registry logger 不能为 nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logger = l
}

// Add 追加到 key 的列表末尾，从不淘汰已有条目（用于替身）
func (r *Registry) Add(c *component.Component) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := c.KeyType()
	r.entries[key] = append(r.entries[key], c)
	r.logger.DebugCtx(context.Background(), "component added", componentFields(c)...)
}

// AddOrReplace 同 ID 条目原位替换，否则追加
func (r *Registry) AddOrReplace(c *component.Component) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := c.KeyType()
	list := r.entries[key]
	if i := indexOf(list, c); i >= 0 {
		updated := make([]*component.Component, len(list))
		copy(updated, list)
		updated[i] = c
		r.entries[key] = updated
		r.logger.DebugCtx(context.Background(), "component replaced", componentFields(c)...)
		return
	}
	r.entries[key] = append(list, c)
	r.logger.DebugCtx(context.Background(), "component added", componentFields(c)...)
}

// ReplaceAll 移除 key 下其他所有主映射，c 成为唯一主映射；替身保留
// c 已存在时保持原位置，否则追加
func (r *Registry) ReplaceAll(c *component.Component) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := c.KeyType()
	list := r.entries[key]
	updated := make([]*component.Component, 0, len(list)+1)
	found := false
	removed := 0
	for _, e := range list {
		switch {
		case e.ID() == c.ID():
			updated = append(updated, c)
			found = true
		case e.IsSubstitute():
			updated = append(updated, e)
		default:
			removed++
		}
	}
	if !found {
		updated = append(updated, c)
	}
	r.entries[key] = updated

	if removed > 0 {
		fields := append(componentFields(c), zap.Int("removed", removed))
		r.logger.DebugCtx(context.Background(), "primary mapping replaced", fields...)
	}
}

// Remove 按 ID 移除，返回是否存在
func (r *Registry) Remove(c *component.Component) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := c.KeyType()
	list := r.entries[key]
	i := indexOf(list, c)
	if i < 0 {
		return false
	}

	updated := make([]*component.Component, 0, len(list)-1)
	updated = append(updated, list[:i]...)
	updated = append(updated, list[i+1:]...)
	r.setLocked(key, updated)
	return true
}

// Lookup 查找生效组件：最后添加的替身优先，否则最早的主映射
// 没有注册时返回 nil
func (r *Registry) Lookup(key reflect.Type) *component.Component {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := r.entries[key]
	for i := len(list) - 1; i >= 0; i-- {
		if list[i].IsSubstitute() {
			return list[i]
		}
	}
	for _, e := range list {
		if !e.IsSubstitute() {
			return e
		}
	}
	return nil
}

// Clean 移除 key 下的所有条目，返回移除数量
func (r *Registry) Clean(key reflect.Type) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := len(r.entries[key])
	delete(r.entries, key)
	if n > 0 {
		r.logger.DebugCtx(context.Background(), "mappings cleaned",
			zap.Stringer("key", key), zap.Int("removed", n))
	}
	return n
}

// CleanSubstitutes 只移除替身，主映射恢复生效
func (r *Registry) CleanSubstitutes(key reflect.Type) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	list := r.entries[key]
	kept := make([]*component.Component, 0, len(list))
	for _, e := range list {
		if !e.IsSubstitute() {
			kept = append(kept, e)
		}
	}
	removed := len(list) - len(kept)
	r.setLocked(key, kept)

	if removed > 0 {
		r.logger.DebugCtx(context.Background(), "substitutes cleaned",
			zap.Stringer("key", key), zap.Int("removed", removed))
	}
	return removed
}

// Components key 下的条目快照（插入顺序）
func (r *Registry) Components(key reflect.Type) []*component.Component {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := r.entries[key]
	out := make([]*component.Component, len(list))
	copy(out, list)
	return out
}

// Keys 已注册的 key 类型
func (r *Registry) Keys() []reflect.Type {
	r.mu.RLock()
	defer r.mu.RUnlock()

	keys := make([]reflect.Type, 0, len(r.entries))
	for k := range r.entries {
		keys = append(keys, k)
	}
	return keys
}

// Has 是否存在 key 的任一条目
func (r *Registry) Has(key reflect.Type) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries[key]) > 0
}

// Count 所有 key 的条目总数
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for _, list := range r.entries {
		n += len(list)
	}
	return n
}

func (r *Registry) setLocked(key reflect.Type, list []*component.Component) {
	if len(list) == 0 {
		delete(r.entries, key)
		return
	}
	r.entries[key] = list
}

func indexOf(list []*component.Component, c *component.Component) int {
	for i, e := range list {
		if e.ID() == c.ID() {
			return i
		}
	}
	return -1
}

func componentFields(c *component.Component) []zap.Field {
	return []zap.Field{
		zap.Stringer("key", c.KeyType()),
		zap.Stringer("id", c.ID()),
		zap.Bool("substitute", c.IsSubstitute()),
	}
}
