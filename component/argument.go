package component

import "reflect"

// Argument 构造参数覆盖值
//
// name 为空表示按位置匹配；value 与 callback 二选一（字面值或延迟计算）
type Argument struct {
	name     string
	value    any
	callback func() any
	typ      reflect.Type // 静态类型，nil 表示未知（nil 字面值或无类型回调）
	deferred bool
}

// ValueArg 按位置匹配的字面值参数
func ValueArg(v any) Argument {
	return Argument{value: v, typ: reflect.TypeOf(v)}
}

// NamedValueArg 按名称匹配的字面值参数
func NamedValueArg(name string, v any) Argument {
	a := ValueArg(v)
	a.name = name
	return a
}

// FuncArg 按位置匹配的延迟参数，类型在调用后才能确定
func FuncArg(fn func() any) Argument {
	return Argument{callback: fn, deferred: true}
}

// NamedFuncArg 按名称匹配的延迟参数
func NamedFuncArg(name string, fn func() any) Argument {
	a := FuncArg(fn)
	a.name = name
	return a
}

// LazyArg 带静态类型的延迟参数
func LazyArg[T any](fn func() T) Argument {
	return Argument{
		callback: func() any { return fn() },
		typ:      reflect.TypeFor[T](),
		deferred: true,
	}
}

// NamedLazyArg 带静态类型的按名称延迟参数
func NamedLazyArg[T any](name string, fn func() T) Argument {
	a := LazyArg(fn)
	a.name = name
	return a
}

// Name 参数名（空表示位置参数）
func (a Argument) Name() string {
	return a.name
}

// IsNamed 是否按名称匹配
func (a Argument) IsNamed() bool {
	return a.name != ""
}

// IsDeferred 是否为延迟计算
func (a Argument) IsDeferred() bool {
	return a.deferred
}

// Type 静态类型
func (a Argument) Type() reflect.Type {
	return a.typ
}

// Value 字面值（延迟参数返回 nil）
func (a Argument) Value() any {
	return a.value
}

// Callback 延迟计算（字面值参数返回 nil）
func (a Argument) Callback() func() any {
	return a.callback
}

// Resolve 取值：字面值直接返回，延迟参数每次调用都重新计算
func (a Argument) Resolve() any {
	if !a.deferred {
		return a.value
	}
	if a.callback == nil {
		return nil
	}
	return a.callback()
}

// AppendArgument 按存储规则追加参数，返回新切片（不修改 list）
//
// 具名参数与已有同名参数冲突时原位覆盖，数量不变；其余情况追加到末尾。
// 位置参数从不互相覆盖，第二个位置参数对应下一个未匹配的形参。
func AppendArgument(list []Argument, arg Argument) []Argument {
	out := make([]Argument, len(list), len(list)+1)
	copy(out, list)

	if arg.IsNamed() {
		for i := range out {
			if out[i].name == arg.name {
				out[i] = arg
				return out
			}
		}
	}
	return append(out, arg)
}
