package config

import (
	"fmt"

	"github.com/samber/do/v2"
)

// ProvideLoaderOptions 创建 Loader 的选项
type ProvideLoaderOptions struct {
	ConfigPath  string            // 配置目录路径
	EnvPrefix   string            // 环境变量前缀
	EnvBindings map[string]string // 显式环境变量映射
	Flags       interface{}       // 命令行参数
}

// ProvideLoader 创建 Config Loader Provider
//
//	do.Provide(injector, config.ProvideLoader(config.ProvideLoaderOptions{
//	    ConfigPath: "./configs",
//	    EnvPrefix:  "IOC",
//	}))
//	loader := do.MustInvoke[*config.Loader](injector)
func ProvideLoader(opts ProvideLoaderOptions) do.Provider[*Loader] {
	return func(do.Injector) (*Loader, error) {
		builder := NewLoaderBuilder().
			WithConfigPath(opts.ConfigPath).
			WithEnvPrefix(opts.EnvPrefix).
			WithFlags(opts.Flags)
		for key, envKey := range opts.EnvBindings {
			builder.WithEnvBinding(key, envKey)
		}

		loader, err := builder.Build()
		if err != nil {
			return nil, fmt.Errorf("config loader build failed: %w", err)
		}
		return loader, nil
	}
}
