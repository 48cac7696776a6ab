package config

import (
	"os"
	"path/filepath"
)

// LoaderBuilder configuration loader builder
type LoaderBuilder struct {
	configPath  string
	envPrefix   string
	envBindings map[string]string
	flags       interface{}
}

// NewLoaderBuilder creates a loader builder
func NewLoaderBuilder() *LoaderBuilder {
	return &LoaderBuilder{envBindings: make(map[string]string)}
}

// WithConfigPath set configuration directory
func (b *LoaderBuilder) WithConfigPath(path string) *LoaderBuilder {
	b.configPath = path
	return b
}

// WithEnvPrefix set environment variable prefix
func (b *LoaderBuilder) WithEnvPrefix(prefix string) *LoaderBuilder {
	b.envPrefix = prefix
	return b
}

// WithEnvBinding maps a config key to an explicit variable name
// Once any binding is set, only bound variables are read.
func (b *LoaderBuilder) WithEnvBinding(key, envKey string) *LoaderBuilder {
	b.envBindings[key] = envKey
	return b
}

// WithFlags set command line arguments (struct with `config` tags)
func (b *LoaderBuilder) WithFlags(flags interface{}) *LoaderBuilder {
	b.flags = flags
	return b
}

// Build loader
func (b *LoaderBuilder) Build() (*Loader, error) {
	loader := NewLoader()

	if b.configPath != "" {
		loader.AddSource(NewFileSource(filepath.Join(b.configPath, "config.yaml"), 10))
		if env := GetEnv(); env != "" {
			loader.AddSource(NewFileSource(filepath.Join(b.configPath, env+".yaml"), 20))
		}
	}

	if b.envPrefix != "" {
		envSource := NewEnvSource(b.envPrefix, 50)
		for key, envKey := range b.envBindings {
			envSource.AddBinding(key, envKey)
		}
		loader.AddSource(envSource)
	}

	if b.flags != nil {
		loader.AddSource(NewFlagSource(b.flags, 100))
	}

	if err := loader.Load(); err != nil {
		return nil, err
	}
	return loader, nil
}

// GetEnv retrieves the environment name (priority: APP_ENV > ENV > default dev)
func GetEnv() string {
	if env := os.Getenv("APP_ENV"); env != "" {
		return env
	}
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "dev"
}
