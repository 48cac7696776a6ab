package logger

import (
	"context"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// CtxZapLogger Context-Aware 的 Zap Logger 包装器
// module 在创建时绑定，使用时只需传递 ctx
type CtxZapLogger struct {
	base   *zap.Logger
	module string
	config *ManagerConfig
}

// Module 返回绑定的模块名
func (l *CtxZapLogger) Module() string {
	return l.module
}

// InfoCtx 记录 Info 级别日志（自动提取 TraceID）
func (l *CtxZapLogger) InfoCtx(ctx context.Context, msg string, fields ...zap.Field) {
	l.base.Info(msg, l.enrichFields(ctx, fields)...)
}

// DebugCtx 记录 Debug 级别日志
func (l *CtxZapLogger) DebugCtx(ctx context.Context, msg string, fields ...zap.Field) {
	// 避免在关闭 debug 时构造字段
	if !l.base.Core().Enabled(zapcore.DebugLevel) {
		return
	}
	l.base.Debug(msg, l.enrichFields(ctx, fields)...)
}

// WarnCtx 记录 Warn 级别日志
func (l *CtxZapLogger) WarnCtx(ctx context.Context, msg string, fields ...zap.Field) {
	l.base.Warn(msg, l.enrichFields(ctx, fields)...)
}

// ErrorCtx 记录 Error 级别日志（按配置附加堆栈）
func (l *CtxZapLogger) ErrorCtx(ctx context.Context, msg string, fields ...zap.Field) {
	enriched := l.enrichFields(ctx, fields)
	if l.config != nil && l.config.EnableStacktrace &&
		ParseLevel(l.config.StacktraceLevel) <= zapcore.ErrorLevel {
		enriched = append(enriched, zap.StackSkip("stack", 1))
	}
	l.base.Error(msg, enriched...)
}

// With 返回带有预设字段的新 Logger
func (l *CtxZapLogger) With(fields ...zap.Field) *CtxZapLogger {
	return &CtxZapLogger{
		base:   l.base.With(fields...),
		module: l.module,
		config: l.config,
	}
}

// GetZapLogger 获取底层的 *zap.Logger（用于第三方库集成）
func (l *CtxZapLogger) GetZapLogger() *zap.Logger {
	return l.base
}

// enrichFields 自动添加 app_name 和 TraceID
func (l *CtxZapLogger) enrichFields(ctx context.Context, fields []zap.Field) []zap.Field {
	if l.config == nil {
		return fields
	}

	enriched := make([]zap.Field, 0, len(fields)+2)
	enriched = append(enriched, zap.String("app_name", l.config.AppName))

	if l.config.EnableTraceID {
		if traceID := extractTraceIDFromContext(ctx, l.config); traceID != "" {
			fieldName := l.config.TraceIDFieldName
			if fieldName == "" {
				fieldName = "trace_id"
			}
			enriched = append(enriched, zap.String(fieldName, traceID))
		}
	}

	return append(enriched, fields...)
}

// extractTraceIDFromContext 从 Context 提取 TraceID
// 优先级：OpenTelemetry Span > 配置的 key > "trace_id"
func extractTraceIDFromContext(ctx context.Context, cfg *ManagerConfig) string {
	if ctx == nil {
		return ""
	}
	if span := trace.SpanFromContext(ctx); span.SpanContext().IsValid() {
		return span.SpanContext().TraceID().String()
	}

	keys := []string{"trace_id"}
	if cfg != nil && cfg.TraceIDKey != "" && cfg.TraceIDKey != "trace_id" {
		keys = append([]string{cfg.TraceIDKey}, keys...)
	}
	for _, key := range keys {
		if traceID, ok := ctx.Value(key).(string); ok && traceID != "" {
			return traceID
		}
	}
	return ""
}
