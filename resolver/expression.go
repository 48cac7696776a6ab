package resolver

import (
	"context"
	"reflect"

	"github.com/KOMKZ/go-yogan-ioc/component"
)

// Expression 一次带调用级参数的解析
//
// 查找与覆盖推迟到 Resolve：届时取当前生效的组件复制为临时替身，
// 调用级参数按注册时相同的名称/位置规则叠加在副本上，已存储的组件不受影响。
type Expression[K any] struct {
	resolver *Resolver
	ctx      context.Context
	key      reflect.Type
	args     []component.Argument
}

// ExtendMap 开始解析 K
func ExtendMap[K any](r *Resolver) *Expression[K] {
	return &Expression[K]{resolver: r, ctx: context.Background(), key: reflect.TypeFor[K]()}
}

// WithContext 日志使用的 context
func (e *Expression[K]) WithContext(ctx context.Context) *Expression[K] {
	e.ctx = ctx
	return e
}

// Component 以当前映射构建的临时替身，K 未映射时为 nil
func (e *Expression[K]) Component() *component.Component {
	return e.effective()
}

// Arguments 本次调用的有效参数列表
func (e *Expression[K]) Arguments() []component.Argument {
	if c := e.effective(); c != nil {
		return c.Arguments()
	}
	out := make([]component.Argument, len(e.args))
	copy(out, e.args)
	return out
}

// WithArgument 追加位置参数
func (e *Expression[K]) WithArgument(v any) *Expression[K] {
	return e.WithArguments(component.ValueArg(v))
}

// WithNamedArgument 覆盖名为 name 的参数
func (e *Expression[K]) WithNamedArgument(name string, v any) *Expression[K] {
	return e.WithArguments(component.NamedValueArg(name, v))
}

// WithArgumentFunc 追加在 Resolve 时求值的位置参数
func (e *Expression[K]) WithArgumentFunc(fn func() any) *Expression[K] {
	return e.WithArguments(component.FuncArg(fn))
}

// WithNamedArgumentFunc WithArgumentFunc 的具名版本
func (e *Expression[K]) WithNamedArgumentFunc(name string, fn func() any) *Expression[K] {
	return e.WithArguments(component.NamedFuncArg(name, fn))
}

// WithArguments 按顺序追加参数
func (e *Expression[K]) WithArguments(args ...component.Argument) *Expression[K] {
	for _, a := range args {
		e.args = component.AppendArgument(e.args, a)
	}
	return e
}

// effective 当前映射的临时替身并叠加调用级参数；未映射时为 nil
func (e *Expression[K]) effective() *component.Component {
	c := e.resolver.registry.Lookup(e.key)
	if c == nil {
		return nil
	}
	overlay := c.Overlay()
	for _, a := range e.args {
		overlay.AddArgument(a)
	}
	return overlay
}

// Resolve 构建实例
func (e *Expression[K]) Resolve() (K, error) {
	var zero K
	var v any
	var err error
	if c := e.effective(); c != nil {
		v, err = e.resolver.resolve(e.ctx, e.key, c, nil, nil)
	} else {
		v, err = e.resolver.resolve(e.ctx, e.key, nil, e.args, nil)
	}
	if err != nil {
		return zero, err
	}
	if v == nil {
		return zero, nil
	}
	k, ok := v.(K)
	if !ok {
		return zero, component.ErrResolver.
			WithMsgf("mapping for %v produced %T", e.key, v).
			WithType("key", e.key)
	}
	return k, nil
}
