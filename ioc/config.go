package ioc

import (
	"fmt"

	"github.com/KOMKZ/go-yogan-ioc/config"
	"github.com/KOMKZ/go-yogan-ioc/logger"
	"github.com/KOMKZ/go-yogan-ioc/resolver"
	"github.com/KOMKZ/go-yogan-ioc/validator"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Config 容器配置
type Config struct {
	Resolver ResolverConfig `mapstructure:"resolver" json:"resolver"`
	Log      LogConfig      `mapstructure:"log" json:"log"`
}

// ResolverConfig 解析器配置
type ResolverConfig struct {
	ImplicitConstruction bool `mapstructure:"implicit_construction" json:"implicit_construction"`
	InjectFromContainer  bool `mapstructure:"inject_from_container" json:"inject_from_container"`
	MaxDepth             int  `mapstructure:"max_depth" json:"max_depth"`
}

// LogConfig 日志配置，其余字段与 logger.ManagerConfig 相同
type LogConfig struct {
	Enabled              bool   `mapstructure:"enabled" json:"enabled"`
	Module               string `mapstructure:"module" json:"module"`
	logger.ManagerConfig `mapstructure:",squash"`
}

// envBindings 配置 key -> 环境变量名（不含前缀）
var envBindings = map[string]string{
	"resolver.implicit_construction": "RESOLVER_IMPLICIT_CONSTRUCTION",
	"resolver.inject_from_container": "RESOLVER_INJECT_FROM_CONTAINER",
	"resolver.max_depth":             "RESOLVER_MAX_DEPTH",
	"log.enabled":                    "LOG_ENABLED",
	"log.module":                     "LOG_MODULE",
	"log.level":                      "LOG_LEVEL",
	"log.encoding":                   "LOG_ENCODING",
	"log.base_log_dir":               "LOG_DIR",
	"log.enable_file":                "LOG_ENABLE_FILE",
}

// DefaultConfig 默认配置
func DefaultConfig() Config {
	return Config{
		Resolver: ResolverConfig{
			ImplicitConstruction: true,
			InjectFromContainer:  true,
			MaxDepth:             resolver.DefaultMaxDepth,
		},
		Log: LogConfig{
			Module:        "ioc",
			ManagerConfig: logger.DefaultManagerConfig(),
		},
	}
}

// Validate 校验配置
func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Resolver),
		validation.Field(&c.Log),
	)
}

// Validate 校验解析器配置
func (c ResolverConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.MaxDepth, validation.Required, validation.Min(1), validation.Max(4096)),
	)
}

// Validate 日志关闭时不校验其余字段
func (c LogConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	return validation.ValidateStruct(&c,
		validation.Field(&c.Module, validation.Required),
		validation.Field(&c.ManagerConfig),
	)
}

// ResolverOptions 转换为 resolver.Options
func (c Config) ResolverOptions() resolver.Options {
	return resolver.Options{
		ImplicitConstruction: c.Resolver.ImplicitConstruction,
		InjectFromContainer:  c.Resolver.InjectFromContainer,
		MaxDepth:             c.Resolver.MaxDepth,
	}
}

// LoadConfig 从 dir/config.yaml、dir/<APP_ENV>.yaml 和 <envPrefix>_* 环境变量加载
// 未出现的 key 保持 DefaultConfig 的值。
func LoadConfig(dir, envPrefix string) (Config, error) {
	return LoadConfigWithFlags(dir, envPrefix, nil)
}

// LoadConfigWithFlags 同 LoadConfig，flags 为带 `config` tag 的结构体，优先级最高
func LoadConfigWithFlags(dir, envPrefix string, flags interface{}) (Config, error) {
	builder := config.NewLoaderBuilder().
		WithConfigPath(dir).
		WithEnvPrefix(envPrefix).
		WithFlags(flags)
	for key, envKey := range envBindings {
		builder.WithEnvBinding(key, envKey)
	}

	loader, err := builder.Build()
	if err != nil {
		return Config{}, err
	}
	return ConfigFromLoader(loader)
}

// ConfigFromLoader 从已加载的 Loader 读取容器配置并校验
func ConfigFromLoader(loader *config.Loader) (Config, error) {
	cfg := DefaultConfig()
	if err := loader.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal ioc config: %w", err)
	}
	if err := validator.Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// NewFromConfig 按配置创建容器，Log.Enabled 时使用 logger.Manager 输出
func NewFromConfig(cfg Config) (*Container, error) {
	if err := validator.Validate(cfg); err != nil {
		return nil, err
	}

	opts := []Option{WithResolverOptions(cfg.ResolverOptions())}
	var logs *logger.Manager
	if cfg.Log.Enabled {
		logs = logger.NewManager(cfg.Log.ManagerConfig)
		opts = append(opts, WithLogger(logs.GetLogger(cfg.Log.Module)))
	}

	c := New(opts...)
	c.logs = logs
	return c, nil
}
