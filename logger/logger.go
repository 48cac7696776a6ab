// Package logger 提供基于 zap 的模块化日志
//
// 核心包（registry、mapping、resolver）只依赖 CtxLogger 接口，
// 生产环境注入 Manager 创建的 *CtxZapLogger，测试注入 *TestCtxLogger。
package logger

import (
	"context"

	"go.uber.org/zap"
)

// CtxLogger Context-Aware 日志接口
type CtxLogger interface {
	DebugCtx(ctx context.Context, msg string, fields ...zap.Field)
	InfoCtx(ctx context.Context, msg string, fields ...zap.Field)
	WarnCtx(ctx context.Context, msg string, fields ...zap.Field)
	ErrorCtx(ctx context.Context, msg string, fields ...zap.Field)
}

var (
	_ CtxLogger = (*CtxZapLogger)(nil)
	_ CtxLogger = (*TestCtxLogger)(nil)
)

// nopLogger 丢弃所有日志
var nopLogger = &CtxZapLogger{base: zap.NewNop(), module: "nop"}

// Nop 返回不输出任何内容的 Logger（未配置日志时的默认值）
func Nop() *CtxZapLogger {
	return nopLogger
}

// OrNop 将 nil 替换为 Nop()
func OrNop(l CtxLogger) CtxLogger {
	if l == nil {
		return Nop()
	}
	return l
}
