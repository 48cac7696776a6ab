package ioc

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// InjectionMapping 一组映射的注册入口
type InjectionMapping interface {
	InitializeMap(c *Container) error
}

// MappingFunc 函数形式的 InjectionMapping
type MappingFunc func(c *Container) error

// InitializeMap 实现 InjectionMapping
func (f MappingFunc) InitializeMap(c *Container) error {
	return f(c)
}

// Initialize 依次执行各模块的 InitializeMap，遇到第一个错误即停止
func Initialize(c *Container, mappings ...InjectionMapping) error {
	for _, m := range mappings {
		if m == nil {
			continue
		}
		name := fmt.Sprintf("%T", m)
		if err := m.InitializeMap(c); err != nil {
			c.log.ErrorCtx(context.Background(), "mapping initialization failed",
				zap.String("mapping", name), zap.Error(err))
			return fmt.Errorf("initialize %s: %w", name, err)
		}
		c.log.DebugCtx(context.Background(), "mapping initialized", zap.String("mapping", name))
	}
	return nil
}
