package config

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/viper"
)

// Loader configuration loader (supporting multiple data sources)
type Loader struct {
	sources      []ConfigSource
	mergedConfig map[string]interface{} // flat keys after merge
	v            *viper.Viper
	loadedFiles  []string
}

// NewLoader creates an empty loader
func NewLoader() *Loader {
	return &Loader{
		mergedConfig: make(map[string]interface{}),
		v:            viper.New(),
	}
}

// AddSource add configuration data source
func (l *Loader) AddSource(source ConfigSource) {
	l.sources = append(l.sources, source)
}

// Sources returns the sources in merge order
func (l *Loader) Sources() []ConfigSource {
	out := make([]ConfigSource, len(l.sources))
	copy(out, l.sources)
	return out
}

// Load and merge all data sources
func (l *Loader) Load() error {
	// stable: equal priorities keep insertion order
	sort.SliceStable(l.sources, func(i, j int) bool {
		return l.sources[i].Priority() < l.sources[j].Priority()
	})

	merged := make(map[string]interface{})
	var files []string
	for _, source := range l.sources {
		data, err := source.Load()
		if err != nil {
			return fmt.Errorf("load source %s: %w", source.Name(), err)
		}
		if fileSource, ok := source.(*FileSource); ok && fileSource.Exists() {
			files = append(files, fileSource.path)
		}
		for key, value := range data {
			merged[strings.ToLower(key)] = value
		}
	}

	l.mergedConfig = merged
	l.loadedFiles = files
	l.syncToViper()
	return nil
}

// syncToViper rebuilds the viper instance from the merged flat map
func (l *Loader) syncToViper() {
	l.v = viper.New()
	for key, value := range unflatten(l.mergedConfig) {
		l.v.Set(key, value)
	}
}

// unflatten {"resolver.max_depth": 64} -> {"resolver": {"max_depth": 64}}
func unflatten(flat map[string]interface{}) map[string]interface{} {
	result := make(map[string]interface{})
	for key, value := range flat {
		setNested(result, splitKey(key), value)
	}
	return result
}

func setNested(m map[string]interface{}, keys []string, value interface{}) {
	if len(keys) == 0 {
		return
	}
	current := m
	for _, k := range keys[:len(keys)-1] {
		nested, ok := current[k].(map[string]interface{})
		if !ok {
			// a scalar at an intermediate key is overridden by the deeper key
			nested = make(map[string]interface{})
			current[k] = nested
		}
		current = nested
	}
	current[keys[len(keys)-1]] = value
}

// splitKey splits on dots and drops empty segments
func splitKey(key string) []string {
	parts := strings.Split(key, ".")
	result := parts[:0]
	for _, p := range parts {
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}

// Unmarshal parse configuration into struct
func (l *Loader) Unmarshal(v interface{}) error {
	return l.v.Unmarshal(v)
}

// UnmarshalKey parse one section into struct
func (l *Loader) UnmarshalKey(key string, v interface{}) error {
	return l.v.UnmarshalKey(key, v)
}

// Get configuration value
func (l *Loader) Get(key string) interface{} {
	return l.v.Get(key)
}

// GetString Get string configuration
func (l *Loader) GetString(key string) string {
	return l.v.GetString(key)
}

// GetInt Get integer configuration
func (l *Loader) GetInt(key string) int {
	return l.v.GetInt(key)
}

// GetBool Get boolean configuration
func (l *Loader) GetBool(key string) bool {
	return l.v.GetBool(key)
}

// IsSet Check if the configuration item exists
func (l *Loader) IsSet(key string) bool {
	return l.v.IsSet(key)
}

// AllSettings returns the merged nested settings
func (l *Loader) AllSettings() map[string]interface{} {
	return l.v.AllSettings()
}

// GetLoadedFiles Retrieve the list of configuration files that existed at load time
func (l *Loader) GetLoadedFiles() []string {
	return l.loadedFiles
}

// GetViper 获取底层 Viper 实例
func (l *Loader) GetViper() *viper.Viper {
	return l.v
}

// Reload reload configuration
func (l *Loader) Reload() error {
	return l.Load()
}
