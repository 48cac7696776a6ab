// Package config 提供多数据源、按优先级合并的配置加载
package config

// ConfigSource configuration data source
// Files, environment variables and command-line flags all implement this interface
type ConfigSource interface {
	// Name data source name (for logs and debugging)
	Name() string

	// Priority higher value wins when keys collide
	// - config.yaml: 10
	// - <env>.yaml: 20
	// - environment variables: 50
	// - command line flags: 100
	Priority() int

	// Load returns dot-separated keys, such as "resolver.max_depth"
	Load() (map[string]interface{}, error)
}
