package mapping

import "github.com/KOMKZ/go-yogan-ioc/component"

// Binding 已写入注册表的组件
// 参数修改作用于已存储的组件，影响之后的每次解析。
type Binding[V any] struct {
	mapper    *Mapper
	component *component.Component
}

// Component 已写入的组件
func (b *Binding[V]) Component() *component.Component {
	return b.component
}

// WithArgument 追加位置构造参数
func (b *Binding[V]) WithArgument(v any) *Binding[V] {
	return b.WithArguments(component.ValueArg(v))
}

// WithNamedArgument 设置名为 name 的参数
// 同名再次调用覆盖前一次。
func (b *Binding[V]) WithNamedArgument(name string, v any) *Binding[V] {
	return b.WithArguments(component.NamedValueArg(name, v))
}

// WithArgumentFunc 追加每次解析时求值的位置参数
func (b *Binding[V]) WithArgumentFunc(fn func() any) *Binding[V] {
	return b.WithArguments(component.FuncArg(fn))
}

// WithNamedArgumentFunc WithArgumentFunc 的具名版本
func (b *Binding[V]) WithNamedArgumentFunc(name string, fn func() any) *Binding[V] {
	return b.WithArguments(component.NamedFuncArg(name, fn))
}

// WithArguments 按顺序追加参数（如 component.LazyArg）
func (b *Binding[V]) WithArguments(args ...component.Argument) *Binding[V] {
	for _, a := range args {
		b.component.AddArgument(a)
	}
	return b
}

// OnResolved 该映射每产出一个实例即调用 fn
func (b *Binding[V]) OnResolved(fn func(V)) *Binding[V] {
	b.component.SetOnResolved(func(v any) {
		if tv, ok := v.(V); ok {
			fn(tv)
		}
	})
	return b
}
