package component

import "github.com/KOMKZ/go-yogan-ioc/errcode"

// ModuleCode ioc 模块码
const ModuleCode = 20

// 业务码
const (
	ErrCodeTypeMismatch       = 1
	ErrCodeResolver           = 2
	ErrCodeMissingArgument    = 3
	ErrCodeNotSupported       = 4
	ErrCodeInvalidConstructor = 5
)

var (
	// ErrTypeMismatch the value type does not satisfy the key type (registration time)
	ErrTypeMismatch = errcode.Register(errcode.New(ModuleCode, ErrCodeTypeMismatch,
		"ioc", "error.ioc.type_mismatch", "value type is not assignable to key type"))

	// ErrResolver no mapping registered and the key type is not constructible
	ErrResolver = errcode.Register(errcode.New(ModuleCode, ErrCodeResolver,
		"ioc", "error.ioc.resolver", "no mapping registered"))

	// ErrMissingArgument a required constructor parameter has no value
	ErrMissingArgument = errcode.Register(errcode.New(ModuleCode, ErrCodeMissingArgument,
		"ioc", "error.ioc.missing_argument", "missing constructor argument"))

	// ErrNotSupported builder operation before its prerequisite step
	ErrNotSupported = errcode.Register(errcode.New(ModuleCode, ErrCodeNotSupported,
		"ioc", "error.ioc.not_supported", "operation not supported"))

	// ErrInvalidConstructor constructor func has an unusable signature
	ErrInvalidConstructor = errcode.Register(errcode.New(ModuleCode, ErrCodeInvalidConstructor,
		"ioc", "error.ioc.invalid_constructor", "invalid constructor"))
)
