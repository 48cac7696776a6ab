package mapping

import (
	"reflect"

	"github.com/KOMKZ/go-yogan-ioc/component"
)

// Expression 进行中的 K 注册
// 绑定值之前不写入注册表。
type Expression[K any] struct {
	mapper *Mapper
	draft  *component.Component
}

// Map 开始注册 K
func Map[K any](m *Mapper) *Expression[K] {
	return &Expression[K]{
		mapper: m,
		draft:  component.New(reflect.TypeFor[K]()),
	}
}

// Component 草稿组件，绑定后为最近一次绑定的组件
func (e *Expression[K]) Component() *component.Component {
	return e.draft
}

// WithoutOverwrite 绑定时保留 K 已有的主映射
// 生效的仍是最先注册的映射。
func (e *Expression[K]) WithoutOverwrite() *Expression[K] {
	e.draft = e.draft.Derive(component.NoOverwrite())
	return e
}

// OnResolved 绑定值之后才可用，见 Binding.OnResolved
func (e *Expression[K]) OnResolved(func(K)) error {
	return component.ErrNotSupported.WithMsgf(
		"OnResolved on %v requires a bound value; bind first (For, ForValue, ToSelf)", e.draft.KeyType())
}

// ToSelf 将 K 绑定到自身，K 须为具体类型
func (e *Expression[K]) ToSelf() (*Binding[K], error) {
	key := e.draft.KeyType()
	if key.Kind() == reflect.Interface {
		return nil, component.ErrTypeMismatch.WithMsgf("cannot map interface %v to itself", key).
			WithType("key", key)
	}
	return bind[K](e, component.WithValueType(key)), nil
}

// Clean 删除 K 的全部映射
func (e *Expression[K]) Clean() int {
	return e.mapper.Clean(e.draft.KeyType())
}

// For 将 K 绑定到具体类型 V（构造注入）
func For[V, K any](e *Expression[K]) (*Binding[V], error) {
	vt := reflect.TypeFor[V]()
	if err := checkAssignable(vt, e.draft.KeyType()); err != nil {
		return nil, err
	}
	return bind[V](e, component.WithValueType(vt)), nil
}

// ForValue 将 K 绑定到字面值，每次解析都返回 v
func ForValue[V, K any](e *Expression[K], v V) (*Binding[V], error) {
	vt := reflect.TypeFor[V]()
	if dyn := reflect.TypeOf(any(v)); dyn != nil {
		vt = dyn
	}
	if err := checkAssignable(vt, e.draft.KeyType()); err != nil {
		return nil, err
	}
	return bind[V](e, component.WithValueProvider(vt, func() any { return v })), nil
}

// ForFunc 将 K 绑定到延迟计算，每次解析都调用
func ForFunc[V, K any](e *Expression[K], fn func() V) (*Binding[V], error) {
	vt := reflect.TypeFor[V]()
	if err := checkAssignable(vt, e.draft.KeyType()); err != nil {
		return nil, err
	}
	return bind[V](e, component.WithValueProvider(vt, func() any { return fn() })), nil
}

// Substitute 添加 V 作为 K 的替身，主映射保留
func Substitute[V, K any](e *Expression[K]) (*Binding[V], error) {
	vt := reflect.TypeFor[V]()
	if err := checkAssignable(vt, e.draft.KeyType()); err != nil {
		return nil, err
	}
	c := component.New(e.draft.KeyType(), component.AsSubstitute(), component.WithValueType(vt))
	e.mapper.addSubstitute(c)
	return &Binding[V]{mapper: e.mapper, component: c}, nil
}

// SubstituteFunc 添加 K 的延迟替身
func SubstituteFunc[K any](e *Expression[K], fn func() K) *Binding[K] {
	c := component.New(e.draft.KeyType(),
		component.AsSubstitute(),
		component.WithValueProvider(e.draft.KeyType(), func() any { return fn() }))
	e.mapper.addSubstitute(c)
	return &Binding[K]{mapper: e.mapper, component: c}
}

func bind[V, K any](e *Expression[K], opt component.Option) *Binding[V] {
	c := e.draft.Derive(opt)
	e.mapper.install(c)
	// 同一表达式再次绑定时原地替换该组件
	e.draft = c
	return &Binding[V]{mapper: e.mapper, component: c}
}

func checkAssignable(value, key reflect.Type) error {
	if value.AssignableTo(key) {
		return nil
	}
	return component.ErrTypeMismatch.
		WithMsgf("%v is not assignable to %v", value, key).
		WithType("key", key).
		WithType("value", value)
}
