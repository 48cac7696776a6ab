package constructor

import (
	"reflect"
	"sync"
)

// Source resolver 使用的构造函数来源
type Source interface {
	// Constructors 按注册顺序返回；未注册时返回隐式构造，不可构造时返回 nil
	Constructors(t reflect.Type) []*Constructor
	Constructible(t reflect.Type) bool
}

// Catalog 按产出类型登记的构造函数
type Catalog struct {
	mu    sync.RWMutex
	ctors map[reflect.Type][]*Constructor
}

var _ Source = (*Catalog)(nil)

// NewCatalog 创建空目录
func NewCatalog() *Catalog {
	return &Catalog{ctors: make(map[reflect.Type][]*Constructor)}
}

// Register 将 fn 登记为其第一个返回值类型的构造函数
//
//	catalog.Register(NewUserService, "repo", "timeout")
func (c *Catalog) Register(fn any, names ...string) (*Constructor, error) {
	ctor, err := New(fn, names...)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.ctors[ctor.Out()] = append(c.ctors[ctor.Out()], ctor)
	return ctor, nil
}

// MustRegister 出错时 panic
func (c *Catalog) MustRegister(fn any, names ...string) *Constructor {
	ctor, err := c.Register(fn, names...)
	if err != nil {
		panic(err)
	}
	return ctor
}

// Constructors 见 Source
func (c *Catalog) Constructors(t reflect.Type) []*Constructor {
	c.mu.RLock()
	list := c.ctors[t]
	c.mu.RUnlock()

	if len(list) > 0 {
		out := make([]*Constructor, len(list))
		copy(out, list)
		return out
	}
	if implicit := Implicit(t); implicit != nil {
		return []*Constructor{implicit}
	}
	return nil
}

// Constructible t 是否至少有一个构造函数
func (c *Catalog) Constructible(t reflect.Type) bool {
	if t == nil || t.Kind() == reflect.Interface {
		return false
	}
	c.mu.RLock()
	n := len(c.ctors[t])
	c.mu.RUnlock()
	return n > 0 || Implicit(t) != nil
}

// Clear 删除 t 的全部已注册构造函数
func (c *Catalog) Clear(t reflect.Type) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.ctors, t)
}
