package config

import (
	"os"
	"strings"
)

// EnvSource 环境变量数据源
type EnvSource struct {
	prefix   string // 环境变量前缀，如 "IOC"
	priority int
	bindings map[string]string // key 映射，如 "resolver.max_depth" -> "RESOLVER_MAX_DEPTH"
}

// NewEnvSource 创建环境变量数据源
func NewEnvSource(prefix string, priority int) *EnvSource {
	return &EnvSource{
		prefix:   prefix,
		priority: priority,
		bindings: make(map[string]string),
	}
}

// AddBinding 添加 key 映射（envKey 不含前缀时自动补全）
//
//	src.AddBinding("resolver.max_depth", "RESOLVER_MAX_DEPTH") // 读取 IOC_RESOLVER_MAX_DEPTH
func (s *EnvSource) AddBinding(key, envKey string) *EnvSource {
	s.bindings[key] = envKey
	return s
}

// Name 数据源名称
func (s *EnvSource) Name() string {
	return "env:" + s.prefix
}

// Priority 优先级
func (s *EnvSource) Priority() int {
	return s.priority
}

// Load 加载环境变量配置
// 有 bindings 时只读取绑定的变量；否则扫描前缀匹配的变量，下划线视为层级分隔
func (s *EnvSource) Load() (map[string]interface{}, error) {
	result := make(map[string]interface{})

	if len(s.bindings) > 0 {
		for key, envKey := range s.bindings {
			if value, ok := os.LookupEnv(s.fullKey(envKey)); ok && value != "" {
				result[key] = value
			}
		}
		return result, nil
	}

	if s.prefix == "" {
		return result, nil
	}

	prefix := s.prefix + "_"
	for _, env := range os.Environ() {
		key, value, ok := strings.Cut(env, "=")
		if !ok || !strings.HasPrefix(key, prefix) {
			continue
		}
		// IOC_LOG_LEVEL -> log.level
		configKey := strings.ToLower(strings.TrimPrefix(key, prefix))
		result[strings.ReplaceAll(configKey, "_", ".")] = value
	}
	return result, nil
}

func (s *EnvSource) fullKey(envKey string) string {
	if s.prefix == "" || strings.HasPrefix(envKey, s.prefix+"_") {
		return envKey
	}
	return s.prefix + "_" + envKey
}
