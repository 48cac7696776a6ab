// Package ioc 类型映射容器的对外入口
//
// 一个 Container 由组件注册表、构造函数目录、映射构建器和解析器组成：
//
//	c := ioc.New()
//	ioc.MapTo[Notifier, *EmailNotifier](c)
//	n, err := ioc.Resolve[Notifier](c)
//
// 单次解析的参数覆盖：
//
//	n, err := ioc.ExtendMap[Notifier](c).WithNamedArgument("host", "smtp.local").Resolve()
package ioc

import (
	"reflect"
	"sync"

	"github.com/KOMKZ/go-yogan-ioc/component"
	"github.com/KOMKZ/go-yogan-ioc/constructor"
	"github.com/KOMKZ/go-yogan-ioc/logger"
	"github.com/KOMKZ/go-yogan-ioc/mapping"
	"github.com/KOMKZ/go-yogan-ioc/registry"
	"github.com/KOMKZ/go-yogan-ioc/resolver"
)

// Container 映射容器
type Container struct {
	components   *registry.Registry
	constructors *constructor.Catalog
	mapper       *mapping.Mapper
	resolver     *resolver.Resolver
	log          logger.CtxLogger
	logs         *logger.Manager // 仅 NewFromConfig 创建，Close 时关闭
}

type options struct {
	log      logger.CtxLogger
	resolver resolver.Options
}

// Option 容器选项
type Option func(*options)

// WithLogger 注入日志（默认 Nop）
func WithLogger(l logger.CtxLogger) Option {
	return func(o *options) {
		o.log = l
	}
}

// WithResolverOptions 解析行为开关
func WithResolverOptions(ro resolver.Options) Option {
	return func(o *options) {
		o.resolver = ro
	}
}

// New 创建独立容器
func New(opts ...Option) *Container {
	o := options{resolver: resolver.DefaultOptions()}
	for _, opt := range opts {
		opt(&o)
	}
	log := logger.OrNop(o.log)

	reg := registry.NewRegistry()
	reg.SetLogger(log)
	catalog := constructor.NewCatalog()

	return &Container{
		components:   reg,
		constructors: catalog,
		mapper:       mapping.NewMapper(reg, log),
		resolver:     resolver.New(reg, catalog, o.resolver, log),
		log:          log,
	}
}

var (
	defaultOnce      sync.Once
	defaultContainer *Container
)

// Default 进程级共享容器（首次调用时创建）
func Default() *Container {
	defaultOnce.Do(func() {
		defaultContainer = New()
	})
	return defaultContainer
}

// Mapper 映射构建器
func (c *Container) Mapper() *mapping.Mapper {
	return c.mapper
}

// Resolver 解析器
func (c *Container) Resolver() *resolver.Resolver {
	return c.resolver
}

// Components 组件注册表
func (c *Container) Components() *registry.Registry {
	return c.components
}

// Constructors 构造函数目录
func (c *Container) Constructors() *constructor.Catalog {
	return c.constructors
}

// Logger 容器日志
func (c *Container) Logger() logger.CtxLogger {
	return c.log
}

// RegisterConstructor 登记构造函数，names 为参数名（按位置）
func (c *Container) RegisterConstructor(fn any, names ...string) (*constructor.Constructor, error) {
	return c.constructors.Register(fn, names...)
}

// Close 关闭容器创建的日志输出
func (c *Container) Close() {
	if c.logs != nil {
		c.logs.CloseAll()
	}
}

// Map 开始为 K 构建映射
func Map[K any](c *Container) *mapping.Expression[K] {
	return mapping.Map[K](c.mapper)
}

// MapTo 将 K 映射到实现类型 V
func MapTo[K, V any](c *Container) (*mapping.Binding[V], error) {
	return mapping.For[V](Map[K](c))
}

// Clean 移除 K 的全部映射
func Clean[K any](c *Container) int {
	return Map[K](c).Clean()
}

// CleanSubstitutes 只移除 K 的替身
func CleanSubstitutes[K any](c *Container) int {
	return c.mapper.CleanSubstitutes(keyOf[K]())
}

// Resolve 解析 K
func Resolve[K any](c *Container) (K, error) {
	return resolver.Resolve[K](c.resolver)
}

// MustResolve 解析失败时 panic
func MustResolve[K any](c *Container) K {
	return resolver.MustResolve[K](c.resolver)
}

// ExtendMap 带临时参数的单次解析
func ExtendMap[K any](c *Container) *resolver.Expression[K] {
	return resolver.ExtendMap[K](c.resolver)
}

// IsMapped K 是否存在映射
func IsMapped[K any](c *Container) bool {
	return c.components.Has(keyOf[K]())
}

// Active K 当前生效的组件（无映射时为 nil）
func Active[K any](c *Container) *component.Component {
	return c.components.Lookup(keyOf[K]())
}

func keyOf[K any]() reflect.Type {
	return reflect.TypeFor[K]()
}
