// Package constructor 具体类型的构造方式
//
// Catalog 按产出类型登记构造函数及其参数元数据，供 resolver 选用。
package constructor

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/KOMKZ/go-yogan-ioc/component"
)

var errorType = reflect.TypeFor[error]()

// TagName 隐式构造时读取的字段标签：ioc:"name" 改名，ioc:"-" 跳过
const TagName = "ioc"

// Param 构造参数
type Param struct {
	Name       string // 注册时未给名称则为 ""
	Type       reflect.Type
	HasDefault bool
	Default    reflect.Value
}

// Constructor 产出一个具体类型的函数
//
// 支持 func(P...) T 与 func(P...) (T, error) 两种形式，
// 可变参数的默认值为空切片。
type Constructor struct {
	mu           sync.RWMutex
	out          reflect.Type
	params       []Param
	call         func(in []reflect.Value) []reflect.Value
	returnsError bool
	implicit     bool
}

// New 包装 fn；给出 names 时须按顺序覆盖全部参数
func New(fn any, names ...string) (*Constructor, error) {
	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func || v.IsNil() {
		return nil, component.ErrInvalidConstructor.WithMsgf("constructor must be a non-nil func, got %T", fn)
	}

	t := v.Type()
	switch {
	case t.NumOut() == 1:
	case t.NumOut() == 2 && t.Out(1) == errorType:
	default:
		return nil, component.ErrInvalidConstructor.WithMsgf("constructor %v must return T or (T, error)", t)
	}
	if t.Out(0).Kind() == reflect.Interface {
		return nil, component.ErrInvalidConstructor.WithMsgf("constructor %v must return a concrete type", t)
	}
	if len(names) != 0 && len(names) != t.NumIn() {
		return nil, component.ErrInvalidConstructor.WithMsgf(
			"constructor %v has %d parameters, got %d names", t, t.NumIn(), len(names))
	}

	params := make([]Param, t.NumIn())
	for i := range params {
		params[i].Type = t.In(i)
		if len(names) > 0 {
			params[i].Name = names[i]
		}
	}

	c := &Constructor{
		out:          t.Out(0),
		params:       params,
		call:         v.Call,
		returnsError: t.NumOut() == 2,
	}
	if t.IsVariadic() {
		last := len(params) - 1
		params[last].HasDefault = true
		params[last].Default = reflect.MakeSlice(params[last].Type, 0, 0)
		c.call = v.CallSlice
	}
	return c, nil
}

// Implicit 结构体与结构体指针的隐式构造，其余类型返回 nil
//
// 导出字段即具名参数（参数名为字段名，可用 ioc 标签改名），默认值为零值；
// 未传入的字段保持零值。
func Implicit(t reflect.Type) *Constructor {
	st, ptr := t, false
	switch {
	case t.Kind() == reflect.Struct:
	case t.Kind() == reflect.Ptr && t.Elem().Kind() == reflect.Struct:
		st, ptr = t.Elem(), true
	default:
		return nil
	}

	var (
		params []Param
		fields [][]int
	)
	for i := 0; i < st.NumField(); i++ {
		f := st.Field(i)
		if !f.IsExported() {
			continue
		}
		name := f.Name
		if tag, ok := f.Tag.Lookup(TagName); ok {
			if tag == "-" {
				continue
			}
			if tag != "" {
				name = tag
			}
		}
		params = append(params, Param{Name: name, Type: f.Type, HasDefault: true, Default: reflect.Zero(f.Type)})
		fields = append(fields, f.Index)
	}

	call := func(in []reflect.Value) []reflect.Value {
		v := reflect.New(st)
		elem := v.Elem()
		for i, index := range fields {
			if i < len(in) && in[i].IsValid() {
				elem.FieldByIndex(index).Set(in[i])
			}
		}
		if ptr {
			return []reflect.Value{v}
		}
		return []reflect.Value{elem}
	}
	return &Constructor{out: t, params: params, call: call, implicit: true}
}

// Out 产出类型
func (c *Constructor) Out() reflect.Type {
	return c.out
}

// IsImplicit 是否为隐式构造
func (c *Constructor) IsImplicit() bool {
	return c.implicit
}

// Params 参数元数据副本，按声明顺序
func (c *Constructor) Params() []Param {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Param, len(c.params))
	copy(out, c.params)
	return out
}

// WithDefault 设置具名参数的默认值
func (c *Constructor) WithDefault(name string, value any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.params {
		p := &c.params[i]
		if name == "" || p.Name != name {
			continue
		}
		v, ok := Convert(value, p.Type)
		if !ok {
			return component.ErrInvalidConstructor.WithMsgf(
				"default for %q: %T is not assignable to %v", name, value, p.Type)
		}
		p.HasDefault = true
		p.Default = v
		return nil
	}
	return component.ErrInvalidConstructor.WithMsgf("constructor %v has no parameter %q", c.out, name)
}

// Invoke 调用构造函数；显式构造要求 len(args) == len(Params())
func (c *Constructor) Invoke(args []reflect.Value) (any, error) {
	out := c.call(args)
	if c.returnsError && !out[1].IsNil() {
		return nil, out[1].Interface().(error)
	}
	return out[0].Interface(), nil
}

// Convert 将 v 转为 t 类型的值
// nil 仅可转为可为 nil 的类型（零值），其余须可赋值。
func Convert(v any, t reflect.Type) (reflect.Value, bool) {
	if v == nil {
		if Nillable(t) {
			return reflect.Zero(t), true
		}
		return reflect.Value{}, false
	}
	rv := reflect.ValueOf(v)
	if !rv.Type().AssignableTo(t) {
		return reflect.Value{}, false
	}
	if rv.Type() != t {
		converted := reflect.New(t).Elem()
		converted.Set(rv)
		return converted, true
	}
	return rv, true
}

// Nillable nil 是否为 t 的合法值
func Nillable(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return true
	default:
		return false
	}
}

func (c *Constructor) String() string {
	if c.implicit {
		return fmt.Sprintf("implicit %v", c.out)
	}
	return fmt.Sprintf("constructor %v/%d", c.out, len(c.params))
}
