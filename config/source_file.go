package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
)

// FileSource 文件配置数据源（yaml/json/toml，按扩展名识别）
type FileSource struct {
	path     string
	priority int
}

// NewFileSource 创建文件数据源
func NewFileSource(path string, priority int) *FileSource {
	return &FileSource{path: path, priority: priority}
}

// Name 数据源名称
func (s *FileSource) Name() string {
	return "file:" + s.path
}

// Priority 优先级
func (s *FileSource) Priority() int {
	return s.priority
}

// Exists 文件是否存在
func (s *FileSource) Exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// Load 加载文件配置，文件不存在时返回空配置
func (s *FileSource) Load() (map[string]interface{}, error) {
	if _, err := os.Stat(s.path); err != nil {
		if os.IsNotExist(err) {
			return map[string]interface{}{}, nil
		}
		return nil, fmt.Errorf("stat config file %s: %w", s.path, err)
	}

	v := viper.New()
	v.SetConfigFile(s.path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config file %s: %w", s.path, err)
	}

	result := make(map[string]interface{})
	flattenMap("", v.AllSettings(), result)
	return result, nil
}

// flattenMap {"resolver": {"max_depth": 64}} -> {"resolver.max_depth": 64}
func flattenMap(prefix string, data map[string]interface{}, out map[string]interface{}) {
	for key, value := range data {
		fullKey := key
		if prefix != "" {
			fullKey = prefix + "." + key
		}
		if nested, ok := value.(map[string]interface{}); ok {
			flattenMap(fullKey, nested, out)
			continue
		}
		out[fullKey] = value
	}
}
