// Package testutil 测试辅助：带内存日志的独立容器
package testutil

import (
	"testing"

	"github.com/KOMKZ/go-yogan-ioc/ioc"
	"github.com/KOMKZ/go-yogan-ioc/logger"
	"github.com/KOMKZ/go-yogan-ioc/resolver"
)

// ContainerTestContext 容器测试上下文
type ContainerTestContext struct {
	Container *ioc.Container
	Logger    *logger.TestCtxLogger
}

// ContainerTestOptions 容器测试选项
type ContainerTestOptions struct {
	// Resolver 解析器选项（可选，默认 resolver.DefaultOptions）
	Resolver *resolver.Options

	// Mappings 创建后立即执行的映射模块
	Mappings []ioc.InjectionMapping

	// SetupFunc 自定义初始化（可选，在 Mappings 之后调用）
	SetupFunc func(*ContainerTestContext) error
}

// NewContainerTestContext 创建测试上下文，初始化失败直接 t.Fatal
//
//	tc := testutil.NewContainerTestContext(t, testutil.ContainerTestOptions{
//	    Mappings: []ioc.InjectionMapping{notifierMapping{}},
//	})
//	n := ioc.MustResolve[Notifier](tc.Container)
func NewContainerTestContext(t *testing.T, opts ContainerTestOptions) *ContainerTestContext {
	t.Helper()

	log := logger.NewTestCtxLogger()
	containerOpts := []ioc.Option{ioc.WithLogger(log)}
	if opts.Resolver != nil {
		containerOpts = append(containerOpts, ioc.WithResolverOptions(*opts.Resolver))
	}

	tc := &ContainerTestContext{
		Container: ioc.New(containerOpts...),
		Logger:    log,
	}
	t.Cleanup(tc.Container.Close)

	if err := ioc.Initialize(tc.Container, opts.Mappings...); err != nil {
		t.Fatalf("initialize mappings: %v", err)
	}
	if opts.SetupFunc != nil {
		if err := opts.SetupFunc(tc); err != nil {
			t.Fatalf("setup: %v", err)
		}
	}
	return tc
}

// NewContainer 默认选项的独立容器
func NewContainer(t *testing.T) (*ioc.Container, *logger.TestCtxLogger) {
	t.Helper()
	tc := NewContainerTestContext(t, ContainerTestOptions{})
	return tc.Container, tc.Logger
}
