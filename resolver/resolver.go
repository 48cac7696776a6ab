// Package resolver 按 key 类型产出实例
//
// 查找生效组件，执行延迟值或选择构造函数并绑定参数，最后触发 OnResolved 回调。
package resolver

import (
	"context"
	"reflect"
	"strings"

	"github.com/KOMKZ/go-yogan-ioc/component"
	"github.com/KOMKZ/go-yogan-ioc/constructor"
	"github.com/KOMKZ/go-yogan-ioc/logger"
	"github.com/KOMKZ/go-yogan-ioc/registry"
	"go.uber.org/zap"
)

// DefaultMaxDepth Options.MaxDepth 为 0 时的嵌套解析上限
const DefaultMaxDepth = 64

// Options 解析行为开关
type Options struct {
	// ImplicitConstruction 未映射的具体类型直接构造
	ImplicitConstruction bool
	// InjectFromContainer 未绑定且类型已映射的参数从容器注入
	InjectFromContainer bool
	// MaxDepth 嵌套解析上限
	MaxDepth int
}

// DefaultOptions 全部开启，深度 64
func DefaultOptions() Options {
	return Options{
		ImplicitConstruction: true,
		InjectFromContainer:  true,
		MaxDepth:             DefaultMaxDepth,
	}
}

// Resolver 读取注册表并构建实例
type Resolver struct {
	registry *registry.Registry
	source   constructor.Source
	opts     Options
	log      logger.CtxLogger
}

// New 创建解析器；log 可为 nil
func New(reg *registry.Registry, source constructor.Source, opts Options, log logger.CtxLogger) *Resolver {
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = DefaultMaxDepth
	}
	return &Resolver{
		registry: reg,
		source:   source,
		opts:     opts,
		log:      logger.OrNop(log),
	}
}

// Options 生效的选项
func (r *Resolver) Options() Options {
	return r.opts
}

// ResolveType 不带调用级参数解析 key
func (r *Resolver) ResolveType(ctx context.Context, key reflect.Type) (any, error) {
	return r.resolve(ctx, key, r.registry.Lookup(key), nil, nil)
}

// Resolve 解析 K
func Resolve[K any](r *Resolver) (K, error) {
	return ExtendMap[K](r).Resolve()
}

// MustResolve 出错时 panic
func MustResolve[K any](r *Resolver) K {
	v, err := Resolve[K](r)
	if err != nil {
		panic(err)
	}
	return v
}

// resolve 由 c 产出 key 的实例，c 为 nil 表示未映射
// callArgs 仅在 c 为 nil 时使用，已映射时调用方预先合并进 c。
func (r *Resolver) resolve(ctx context.Context, key reflect.Type, c *component.Component,
	callArgs []component.Argument, chain []reflect.Type) (any, error) {
	if err := r.enter(key, chain); err != nil {
		return nil, err
	}
	chain = append(chain[:len(chain):len(chain)], key)

	var (
		instance any
		err      error
	)
	switch {
	case c == nil:
		instance, err = r.resolveUnmapped(ctx, key, callArgs, chain)
	case c.ValueProvider() != nil:
		// 延迟值即结果，参数不适用
		instance = c.ValueProvider()()
	case c.ValueType() == nil:
		err = component.ErrResolver.WithMsgf("mapping for %v has no bound value", key)
	default:
		instance, err = r.construct(ctx, c.ValueType(), c.Arguments(), chain)
	}
	if err != nil {
		r.log.WarnCtx(ctx, "resolve failed", zap.Stringer("key", key), zap.Error(err))
		return nil, err
	}

	if c != nil {
		if cb := c.OnResolved(); cb != nil {
			cb(instance)
		}
	}
	r.log.DebugCtx(ctx, "resolved", zap.Stringer("key", key), zap.String("value", typeOf(instance)))
	return instance, nil
}

func (r *Resolver) resolveUnmapped(ctx context.Context, key reflect.Type,
	callArgs []component.Argument, chain []reflect.Type) (any, error) {
	if key.Kind() == reflect.Interface || !r.opts.ImplicitConstruction || !r.source.Constructible(key) {
		return nil, component.ErrResolver.
			WithMsgf("no mapping registered for %v", key).
			WithType("key", key)
	}
	return r.construct(ctx, key, callArgs, chain)
}

// enter 拒绝循环依赖与超深嵌套
func (r *Resolver) enter(key reflect.Type, chain []reflect.Type) error {
	for _, k := range chain {
		if k == key {
			return component.ErrResolver.
				WithMsgf("circular dependency: %s", formatChain(append(chain, key))).
				WithType("key", key)
		}
	}
	if len(chain) >= r.opts.MaxDepth {
		return component.ErrResolver.
			WithMsgf("max resolution depth %d exceeded: %s", r.opts.MaxDepth, formatChain(append(chain, key))).
			WithType("key", key)
	}
	return nil
}

func formatChain(chain []reflect.Type) string {
	names := make([]string, len(chain))
	for i, t := range chain {
		names[i] = t.String()
	}
	return strings.Join(names, " -> ")
}

func typeOf(v any) string {
	if v == nil {
		return "<nil>"
	}
	return reflect.TypeOf(v).String()
}
