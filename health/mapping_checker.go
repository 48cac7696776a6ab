package health

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"time"

	"github.com/KOMKZ/go-yogan-ioc/ioc"
	"github.com/KOMKZ/go-yogan-ioc/resolver"
)

// MappingChecker 检查一个 key 当前能否解析
type MappingChecker struct {
	resolver *resolver.Resolver
	key      reflect.Type
	name     string
}

// NewMappingChecker 创建检查项，名称为 key 的完整包路径限定名
func NewMappingChecker(r *resolver.Resolver, key reflect.Type) *MappingChecker {
	return &MappingChecker{resolver: r, key: key, name: QualifiedName(key)}
}

// Name 检查项名称
func (c *MappingChecker) Name() string {
	return c.name
}

// QualifiedName 以包路径限定的类型名，如 github.com/acme/store.Client、*github.com/acme/store.Client；
// 非命名的复合类型回退为 reflect 的短名
func QualifiedName(t reflect.Type) string {
	if t.Kind() == reflect.Pointer {
		return "*" + QualifiedName(t.Elem())
	}
	if t.Name() != "" && t.PkgPath() != "" {
		return t.PkgPath() + "." + t.Name()
	}
	return t.String()
}

// Check 执行一次解析，实例随即丢弃
func (c *MappingChecker) Check(ctx context.Context) error {
	_, err := c.resolver.ResolveType(ctx, c.key)
	return err
}

// MappingCheckers 容器中每个已映射 key 一个检查项，按名称排序；
// 名称仍重复时（如两个包中的 []store.Client）追加 #2、#3 区分
func MappingCheckers(c *ioc.Container) []Checker {
	keys := c.Components().Keys()
	checkers := make([]*MappingChecker, len(keys))
	for i, key := range keys {
		checkers[i] = NewMappingChecker(c.Resolver(), key)
	}
	sort.SliceStable(checkers, func(i, j int) bool { return checkers[i].name < checkers[j].name })

	seen := make(map[string]int, len(checkers))
	out := make([]Checker, len(checkers))
	for i, mc := range checkers {
		seen[mc.name]++
		if n := seen[mc.name]; n > 1 {
			mc.name = fmt.Sprintf("%s#%d", mc.name, n)
		}
		out[i] = mc
	}
	return out
}

// CheckContainer 检查容器中全部映射
func CheckContainer(ctx context.Context, c *ioc.Container, timeout time.Duration) *Response {
	a := NewAggregator(timeout)
	a.Register(MappingCheckers(c)...)
	return a.Check(ctx)
}
