// Package mapping 容器的注册端：为 key 类型创建组件并写入注册表
//
// 方法不能带类型参数，引入新类型参数的绑定步骤是接收表达式的包级函数：
//
//	b, err := mapping.For[*sqlStore](mapping.Map[Store](m))
//	b.WithNamedArgument("dsn", dsn)
package mapping

import (
	"context"
	"reflect"

	"github.com/KOMKZ/go-yogan-ioc/component"
	"github.com/KOMKZ/go-yogan-ioc/logger"
	"github.com/KOMKZ/go-yogan-ioc/registry"
	"go.uber.org/zap"
)

// Mapper 向注册表写入组件
type Mapper struct {
	registry *registry.Registry
	log      logger.CtxLogger
}

// NewMapper 创建 Mapper；log 可为 nil
func NewMapper(reg *registry.Registry, log logger.CtxLogger) *Mapper {
	return &Mapper{registry: reg, log: logger.OrNop(log)}
}

// Registry 底层注册表
func (m *Mapper) Registry() *registry.Registry {
	return m.registry
}

// Clean 删除 key 的全部映射，含替身
func (m *Mapper) Clean(key reflect.Type) int {
	return m.registry.Clean(key)
}

// CleanSubstitutes 只删除 key 的替身
func (m *Mapper) CleanSubstitutes(key reflect.Type) int {
	return m.registry.CleanSubstitutes(key)
}

// install 先 AddOrReplace，组件未声明保留时再 ReplaceAll
func (m *Mapper) install(c *component.Component) {
	m.registry.AddOrReplace(c)
	if !c.WithoutOverwrite() {
		m.registry.ReplaceAll(c)
	}
	m.log.DebugCtx(context.Background(), "mapping bound",
		zap.Stringer("key", c.KeyType()),
		zap.Stringer("value", typeName{c.ValueType()}),
		zap.Bool("lazy", c.ValueProvider() != nil),
		zap.Bool("without_overwrite", c.WithoutOverwrite()))
}

func (m *Mapper) addSubstitute(c *component.Component) {
	m.registry.Add(c)
	m.log.DebugCtx(context.Background(), "substitute added",
		zap.Stringer("key", c.KeyType()),
		zap.Stringer("value", typeName{c.ValueType()}))
}

// typeName nil 类型输出 "<nil>"
type typeName struct{ t reflect.Type }

func (n typeName) String() string {
	if n.t == nil {
		return "<nil>"
	}
	return n.t.String()
}
