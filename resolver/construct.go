package resolver

import (
	"context"
	"reflect"

	"github.com/KOMKZ/go-yogan-ioc/component"
	"github.com/KOMKZ/go-yogan-ioc/constructor"
)

type slotSource int

const (
	fromArgument slotSource = iota
	fromContainer
	fromDefault
)

// slot 单个参数的取值来源
type slot struct {
	source slotSource
	arg    component.Argument
}

// plan 单个构造函数的参数分配
type plan struct {
	ctor    *constructor.Constructor
	params  []constructor.Param
	slots   []slot
	missing int // 第一个无法满足的参数下标，全部满足时为 -1
}

// construct 选择参数最多且可满足的构造函数构造 t；参数数相同时取先注册者
func (r *Resolver) construct(ctx context.Context, t reflect.Type, args []component.Argument,
	chain []reflect.Type) (any, error) {
	ctors := r.source.Constructors(t)
	if len(ctors) == 0 {
		return nil, component.ErrResolver.
			WithMsgf("%v is not constructible", t).
			WithType("key", t)
	}

	var best, largest *plan
	for _, ctor := range ctors {
		p := r.plan(ctor, args)
		if largest == nil || len(p.params) > len(largest.params) {
			largest = p
		}
		if p.missing < 0 && (best == nil || len(p.params) > len(best.params)) {
			best = p
		}
	}
	if best == nil {
		missing := largest.params[largest.missing]
		return nil, component.ErrMissingArgument.
			WithMsgf("no value for parameter %d %s(%v) of %v", largest.missing, paramLabel(missing), missing.Type, t).
			WithData("parameter", missing.Name).
			WithType("type", t)
	}

	in, err := r.materialize(ctx, t, best, chain)
	if err != nil {
		return nil, err
	}
	instance, err := best.ctor.Invoke(in)
	if err != nil {
		return nil, component.ErrResolver.Wrapf(err, "construct %v", t)
	}
	return instance, nil
}

// plan 只分配不求值
//  1. 具名参数按参数名精确匹配
//  2. 匿名参数按顺序填入第 1 步剩余的参数
//  3. 参数类型在容器中有映射
//  4. 参数默认值
//
// 隐式构造的参数是结构体字段，只接受第 1 步与第 4 步。
func (r *Resolver) plan(ctor *constructor.Constructor, args []component.Argument) *plan {
	params := ctor.Params()
	p := &plan{ctor: ctor, params: params, slots: make([]slot, len(params)), missing: -1}
	claimed := make([]bool, len(params))

	fail := func(i int) *plan {
		p.missing = i
		return p
	}

	for _, a := range args {
		if !a.IsNamed() {
			continue
		}
		for i, param := range params {
			if claimed[i] || param.Name != a.Name() {
				continue
			}
			if !compatible(a, param.Type) {
				return fail(i)
			}
			claimed[i] = true
			p.slots[i] = slot{source: fromArgument, arg: a}
			break
		}
	}

	implicit := ctor.IsImplicit()
	next := 0
	for _, a := range args {
		if implicit {
			break
		}
		if a.IsNamed() {
			continue
		}
		for next < len(params) && claimed[next] {
			next++
		}
		if next == len(params) {
			break // 多余的忽略
		}
		if !compatible(a, params[next].Type) {
			return fail(next)
		}
		claimed[next] = true
		p.slots[next] = slot{source: fromArgument, arg: a}
	}

	for i, param := range params {
		if claimed[i] {
			continue
		}
		switch {
		case !implicit && r.opts.InjectFromContainer && r.registry.Has(param.Type):
			p.slots[i] = slot{source: fromContainer}
		case param.HasDefault:
			p.slots[i] = slot{source: fromDefault}
		default:
			return fail(i)
		}
	}
	return p
}

// materialize 按计划求值；回调在此执行，每个一次
func (r *Resolver) materialize(ctx context.Context, t reflect.Type, p *plan, chain []reflect.Type) ([]reflect.Value, error) {
	in := make([]reflect.Value, len(p.params))
	for i, param := range p.params {
		s := p.slots[i]
		switch s.source {
		case fromArgument:
			v := s.arg.Resolve()
			rv, ok := constructor.Convert(v, param.Type)
			if !ok {
				return nil, component.ErrMissingArgument.
					WithMsgf("argument for parameter %d %s(%v) of %v produced %T", i, paramLabel(param), param.Type, t, v).
					WithData("parameter", param.Name).
					WithType("type", t)
			}
			in[i] = rv
		case fromContainer:
			v, err := r.resolve(ctx, param.Type, r.registry.Lookup(param.Type), nil, chain)
			if err != nil {
				return nil, err
			}
			rv, ok := constructor.Convert(v, param.Type)
			if !ok {
				return nil, component.ErrMissingArgument.
					WithMsgf("mapping for %v produced %T", param.Type, v).
					WithData("parameter", param.Name).
					WithType("type", t)
			}
			in[i] = rv
		case fromDefault:
			in[i] = param.Default
		}
	}
	return in, nil
}

// compatible 静态检查；无类型的回调在执行后再检查
func compatible(a component.Argument, t reflect.Type) bool {
	if a.Type() == nil {
		return a.IsDeferred() || constructor.Nillable(t)
	}
	return a.Type().AssignableTo(t)
}

func paramLabel(p constructor.Param) string {
	if p.Name == "" {
		return ""
	}
	return p.Name + " "
}
