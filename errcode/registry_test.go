package errcode

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestRegistry_Register 测试注册错误码
func TestRegistry_Register(t *testing.T) {
	registry := NewRegistry()

	registry.Register(New(20, 1, "ioc", "error.ioc.type_mismatch", "type mismatch"))
	registry.Register(New(21, 1, "config", "error.config.invalid", "invalid config"))

	assert.Equal(t, 2, registry.Count())
	codes := registry.GetAll()
	assert.Equal(t, "ioc:error.ioc.type_mismatch", codes[200001])
	assert.Equal(t, "config:error.config.invalid", codes[210001])
}

// TestRegistry_Register_Duplicate 测试重复注册（幂等）
func TestRegistry_Register_Duplicate(t *testing.T) {
	registry := NewRegistry()

	registry.Register(New(20, 1, "ioc", "error.ioc.type_mismatch", "type mismatch"))
	registry.Register(New(20, 1, "ioc", "error.ioc.type_mismatch", "type mismatch"))

	assert.Equal(t, 1, registry.Count())
}

// TestRegistry_Register_Conflict 测试错误码冲突
func TestRegistry_Register_Conflict(t *testing.T) {
	registry := NewRegistry()
	registry.Register(New(20, 1, "ioc", "error.ioc.type_mismatch", "type mismatch"))

	assert.Panics(t, func() {
		registry.Register(New(20, 1, "ioc", "error.ioc.other", "other"))
	})
}

// TestRegistry_Lock 锁定后注册会 panic
func TestRegistry_Lock(t *testing.T) {
	registry := NewRegistry()
	registry.Lock()
	assert.True(t, registry.IsLocked())

	assert.Panics(t, func() {
		registry.Register(New(20, 9, "ioc", "error.ioc.x", "x"))
	})

	registry.Unlock()
	assert.NotPanics(t, func() {
		registry.Register(New(20, 9, "ioc", "error.ioc.x", "x"))
	})
}

// TestRegistry_Clear 清空注册表
func TestRegistry_Clear(t *testing.T) {
	registry := NewRegistry()
	registry.Register(New(20, 1, "ioc", "error.ioc.type_mismatch", "type mismatch"))
	registry.Lock()

	registry.Clear()

	assert.Equal(t, 0, registry.Count())
	assert.False(t, registry.IsLocked())
}
