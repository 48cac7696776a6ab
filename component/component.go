// Package component 定义映射组件和构造参数模型
// 这是最底层的包，不依赖 registry / mapping / resolver，避免循环依赖
package component

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/google/uuid"
)

// Component 一条 key 类型到实现的映射记录
//
// ID、KeyType 创建后不可变；ValueType / ValueProvider 通过 Derive 生成新实例替换。
// 参数列表和 OnResolved 回调在绑定后仍可修改，由组件自身的锁保护。
type Component struct {
	id               uuid.UUID
	keyType          reflect.Type
	valueType        reflect.Type
	valueProvider    func() any
	substitute       bool
	withoutOverwrite bool

	mu         sync.RWMutex
	onResolved func(any)
	arguments  []Argument
}

// Option 组件选项
type Option func(*Component)

// WithValueType 设置实现类型（构造注入）
func WithValueType(t reflect.Type) Option {
	return func(c *Component) { c.valueType = t }
}

// WithValueProvider 设置延迟值；valueType 为其静态结果类型
func WithValueProvider(t reflect.Type, fn func() any) Option {
	return func(c *Component) {
		c.valueType = t
		c.valueProvider = fn
	}
}

// AsSubstitute 标记为替身组件
func AsSubstitute() Option {
	return func(c *Component) { c.substitute = true }
}

// NoOverwrite 绑定时不替换已有的主映射
func NoOverwrite() Option {
	return func(c *Component) { c.withoutOverwrite = true }
}

// WithArguments 初始参数（按 AppendArgument 规则合并）
func WithArguments(args ...Argument) Option {
	return func(c *Component) {
		for _, a := range args {
			c.arguments = AppendArgument(c.arguments, a)
		}
	}
}

// WithOnResolved 设置解析后回调
func WithOnResolved(fn func(any)) Option {
	return func(c *Component) { c.onResolved = fn }
}

// New 创建组件并分配新的 ID
func New(keyType reflect.Type, opts ...Option) *Component {
	c := &Component{
		id:      uuid.New(),
		keyType: keyType,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Derive 基于当前组件生成新实例，保留 ID（用于替换同一条映射）
func (c *Component) Derive(opts ...Option) *Component {
	c.mu.RLock()
	d := &Component{
		id:               c.id,
		keyType:          c.keyType,
		valueType:        c.valueType,
		valueProvider:    c.valueProvider,
		substitute:       c.substitute,
		withoutOverwrite: c.withoutOverwrite,
		onResolved:       c.onResolved,
		arguments:        c.arguments,
	}
	c.mu.RUnlock()

	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Overlay 生成仅用于一次解析的临时替身（新 ID，不写入容器）
func (c *Component) Overlay() *Component {
	d := c.Derive(AsSubstitute())
	d.id = uuid.New()
	return d
}

// ID 组件唯一标识
func (c *Component) ID() uuid.UUID {
	return c.id
}

// KeyType 被映射的抽象类型
func (c *Component) KeyType() reflect.Type {
	return c.keyType
}

// ValueType 实现类型（未绑定时为 nil）
func (c *Component) ValueType() reflect.Type {
	return c.valueType
}

// ValueProvider 延迟值（nil 表示走构造注入）
func (c *Component) ValueProvider() func() any {
	return c.valueProvider
}

// IsBound 是否已绑定实现类型或延迟值
func (c *Component) IsBound() bool {
	return c.valueType != nil || c.valueProvider != nil
}

// IsSubstitute 是否为替身组件
func (c *Component) IsSubstitute() bool {
	return c.substitute
}

// WithoutOverwrite 是否跳过 replaceAll
func (c *Component) WithoutOverwrite() bool {
	return c.withoutOverwrite
}

// OnResolved 解析后回调
func (c *Component) OnResolved() func(any) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.onResolved
}

// SetOnResolved 设置解析后回调
func (c *Component) SetOnResolved(fn func(any)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onResolved = fn
}

// Arguments 参数列表副本（保持插入顺序）
func (c *Component) Arguments() []Argument {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Argument, len(c.arguments))
	copy(out, c.arguments)
	return out
}

// AddArgument 按 AppendArgument 规则添加参数
func (c *Component) AddArgument(arg Argument) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.arguments = AppendArgument(c.arguments, arg)
}

// String 调试输出
func (c *Component) String() string {
	kind := "primary"
	if c.substitute {
		kind = "substitute"
	}
	return fmt.Sprintf("Component{id:%s, key:%v, value:%v, %s}", c.id, c.keyType, c.valueType, kind)
}
