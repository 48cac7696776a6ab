// Package errcode 分层错误码
//
// 错误码格式 MMBBBB：MM 为模块码（两位），BBBB 为业务码（四位）。
// 同一错误码派生出的实例（改消息、附加数据、包装原因）在 errors.Is 下彼此相等。
package errcode

import (
	"fmt"
	"reflect"
)

// LayeredError 分层错误
type LayeredError struct {
	module string
	code   int
	msgKey string // 国际化 key，如 error.ioc.type_mismatch
	msg    string
	data   map[string]interface{}
	cause  error
}

// New 创建错误码；moduleCode 10-99，businessCode 0-9999
func New(moduleCode, businessCode int, module, msgKey, msg string) *LayeredError {
	return &LayeredError{
		module: module,
		code:   moduleCode*10000 + businessCode,
		msgKey: msgKey,
		msg:    msg,
		data:   map[string]interface{}{},
	}
}

// Error 有 cause 时输出 "msg: cause"
func (e *LayeredError) Error() string {
	if e.cause == nil {
		return e.msg
	}
	return e.msg + ": " + e.cause.Error()
}

// Code 完整错误码
func (e *LayeredError) Code() int { return e.code }

// ModuleCode 模块码（MM）
func (e *LayeredError) ModuleCode() int { return e.code / 10000 }

// BusinessCode 业务码（BBBB）
func (e *LayeredError) BusinessCode() int { return e.code % 10000 }

// Module 模块名
func (e *LayeredError) Module() string { return e.module }

// MsgKey 消息 key
func (e *LayeredError) MsgKey() string { return e.msgKey }

// Message 不含 cause 的消息
func (e *LayeredError) Message() string { return e.msg }

// Data 附加数据（只读）
func (e *LayeredError) Data() map[string]interface{} { return e.data }

// DataString 读取字符串类型的附加数据，不存在时返回 ""
func (e *LayeredError) DataString(key string) string {
	s, _ := e.data[key].(string)
	return s
}

// Cause 被包装的错误
func (e *LayeredError) Cause() error { return e.cause }

// Unwrap errors.Is / errors.As 沿 cause 继续查找
func (e *LayeredError) Unwrap() error { return e.cause }

// Is 按错误码比较
func (e *LayeredError) Is(target error) bool {
	t, ok := target.(*LayeredError)
	return ok && t.code == e.code
}

// derive 复制一份再修改，原实例（通常是包级变量）保持不变
func (e *LayeredError) derive(mutate func(*LayeredError)) *LayeredError {
	clone := *e
	clone.data = make(map[string]interface{}, len(e.data)+1)
	for k, v := range e.data {
		clone.data[k] = v
	}
	mutate(&clone)
	return &clone
}

// WithMsg 替换消息
func (e *LayeredError) WithMsg(msg string) *LayeredError {
	return e.derive(func(c *LayeredError) { c.msg = msg })
}

// WithMsgf 格式化替换消息
func (e *LayeredError) WithMsgf(format string, args ...interface{}) *LayeredError {
	return e.WithMsg(fmt.Sprintf(format, args...))
}

// WithData 附加一项数据
func (e *LayeredError) WithData(key string, value interface{}) *LayeredError {
	return e.derive(func(c *LayeredError) { c.data[key] = value })
}

// WithFields 批量附加数据
func (e *LayeredError) WithFields(fields map[string]interface{}) *LayeredError {
	return e.derive(func(c *LayeredError) {
		for k, v := range fields {
			c.data[k] = v
		}
	})
}

// WithType 以类型名附加数据（nil 记为 "<nil>"），用于 key/value/构造目标等类型信息
func (e *LayeredError) WithType(key string, t reflect.Type) *LayeredError {
	name := "<nil>"
	if t != nil {
		name = t.String()
	}
	return e.WithData(key, name)
}

// Wrap 包装 cause；cause 为 nil 时返回自身
func (e *LayeredError) Wrap(cause error) *LayeredError {
	if cause == nil {
		return e
	}
	return e.derive(func(c *LayeredError) { c.cause = cause })
}

// Wrapf 包装 cause 并替换消息
func (e *LayeredError) Wrapf(cause error, format string, args ...interface{}) *LayeredError {
	msg := fmt.Sprintf(format, args...)
	return e.derive(func(c *LayeredError) {
		c.msg = msg
		c.cause = cause
	})
}

// String 调试输出
func (e *LayeredError) String() string {
	s := fmt.Sprintf("LayeredError{code:%d, module:%s, msg:%s", e.code, e.module, e.msg)
	if len(e.data) > 0 {
		s += fmt.Sprintf(", data:%v", e.data)
	}
	if e.cause != nil {
		s += fmt.Sprintf(", cause:%v", e.cause)
	}
	return s + "}"
}
