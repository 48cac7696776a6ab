// Package di 连接映射容器与 samber/do 注入器
package di

import (
	"context"

	"github.com/KOMKZ/go-yogan-ioc/ioc"
	"github.com/KOMKZ/go-yogan-ioc/mapping"
	"github.com/samber/do/v2"
	"go.uber.org/zap"
)

// Bridge 桥接器
//
//   - 容器中的映射可以被 samber/do 的服务使用（ProvideFromContainer）
//   - samber/do 中的服务可以作为映射的延迟值（MapFromInjector）
type Bridge struct {
	container *ioc.Container
	injector  *do.RootScope
}

// NewBridge 创建桥接器
func NewBridge(c *ioc.Container, injector *do.RootScope) *Bridge {
	return &Bridge{
		container: c,
		injector:  injector,
	}
}

// Container 映射容器
func (b *Bridge) Container() *ioc.Container {
	return b.container
}

// Injector samber/do 注入器
func (b *Bridge) Injector() *do.RootScope {
	return b.injector
}

// ProvideFromContainer 将 K 注册为 do 的 transient 服务，每次 Invoke 都经容器解析
func ProvideFromContainer[K any](b *Bridge) {
	do.ProvideTransient(b.injector, fromContainer[K](b))
}

// ProvideNamedFromContainer 命名版本
func ProvideNamedFromContainer[K any](b *Bridge, name string) {
	do.ProvideNamedTransient(b.injector, name, fromContainer[K](b))
}

func fromContainer[K any](b *Bridge) do.Provider[K] {
	return func(do.Injector) (K, error) {
		return ioc.Resolve[K](b.container)
	}
}

// MapFromInjector 将 K 映射为从 do 获取的延迟值
// 每次解析都调用 do.Invoke；注入器无法提供 K 时解析会 panic。
func MapFromInjector[K any](b *Bridge) (*mapping.Binding[K], error) {
	return mapping.ForFunc(ioc.Map[K](b.container), func() K {
		v, err := do.Invoke[K](b.injector)
		if err != nil {
			b.container.Logger().ErrorCtx(context.Background(), "injector invoke failed", zap.Error(err))
			panic(err)
		}
		return v
	})
}

// Provide 注册服务提供者到 samber/do
func Provide[T any](b *Bridge, provider do.Provider[T]) {
	do.Provide(b.injector, provider)
}

// ProvideValue 将值注册到 samber/do
func ProvideValue[T any](b *Bridge, value T) {
	do.ProvideValue(b.injector, value)
}

// Invoke 从 samber/do 获取服务
func Invoke[T any](b *Bridge) (T, error) {
	return do.Invoke[T](b.injector)
}

// MustInvoke 从 samber/do 获取服务（失败则 panic）
func MustInvoke[T any](b *Bridge) T {
	return do.MustInvoke[T](b.injector)
}

// InvokeNamed 从 samber/do 获取命名服务
func InvokeNamed[T any](b *Bridge, name string) (T, error) {
	return do.InvokeNamed[T](b.injector, name)
}

// Shutdown 关闭 samber/do 容器和映射容器的日志输出
func (b *Bridge) Shutdown() error {
	defer b.container.Close()

	report := b.injector.Shutdown()
	if report == nil || report.Succeed {
		return nil
	}
	return report
}

// ShutdownWithContext 带上下文的关闭
func (b *Bridge) ShutdownWithContext(ctx context.Context) error {
	done := make(chan error, 1)
	go func() {
		done <- b.Shutdown()
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// HealthCheck 返回 map[服务名]error
func (b *Bridge) HealthCheck() map[string]error {
	return b.injector.HealthCheck()
}

// IsHealthy 所有服务是否健康
func (b *Bridge) IsHealthy() bool {
	for _, err := range b.HealthCheck() {
		if err != nil {
			return false
		}
	}
	return true
}
