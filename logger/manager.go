package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Manager Logger 管理器（每个模块一个 Logger 实例）
type Manager struct {
	baseConfig ManagerConfig
	loggers    map[string]*CtxZapLogger        // 模块名 -> CtxZapLogger 实例
	zapLoggers map[string]*zap.Logger          // 模块名 -> 底层 zap.Logger 实例
	writers    map[string][]*lumberjack.Logger // 模块名 -> 文件写入器（用于关闭）
	mu         sync.RWMutex
}

// NewManager 创建独立的 Manager 实例
// cfg 中的零值字段会自动填充为默认值
func NewManager(cfg ManagerConfig) *Manager {
	cfg.ApplyDefaults()
	return &Manager{
		baseConfig: cfg,
		loggers:    make(map[string]*CtxZapLogger),
		zapLoggers: make(map[string]*zap.Logger),
		writers:    make(map[string][]*lumberjack.Logger),
	}
}

// Config 返回当前生效的配置
func (m *Manager) Config() ManagerConfig {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.baseConfig
}

// GetLogger 获取指定模块的 CtxZapLogger（线程安全，按需创建）
// 返回的 Logger 已自动包含 module 字段
func (m *Manager) GetLogger(moduleName string) *CtxZapLogger {
	m.mu.RLock()
	if l, exists := m.loggers[moduleName]; exists {
		m.mu.RUnlock()
		return l
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()

	// 双重检查（避免并发创建）
	if l, exists := m.loggers[moduleName]; exists {
		return l
	}

	cfg := m.buildModuleConfig(moduleName)
	zapLogger := m.createLogger(cfg).With(zap.String("module", moduleName))

	ctxLogger := &CtxZapLogger{
		base:   zapLogger.WithOptions(zap.AddCallerSkip(1)), // 跳过 CtxZapLogger 包装层
		module: moduleName,
		config: &m.baseConfig,
	}

	m.loggers[moduleName] = ctxLogger
	m.zapLoggers[moduleName] = zapLogger
	return ctxLogger
}

// buildModuleConfig 为指定模块构建配置
func (m *Manager) buildModuleConfig(moduleName string) Config {
	return Config{
		Level:                 m.baseConfig.Level,
		Encoding:              m.baseConfig.Encoding,
		ConsoleEncoding:       m.baseConfig.ConsoleEncoding,
		moduleName:            moduleName,
		logDir:                m.baseConfig.BaseLogDir,
		EnableFile:            m.baseConfig.EnableFile,
		EnableConsole:         m.baseConfig.EnableConsole,
		EnableLevelInFilename: m.baseConfig.EnableLevelInFilename,
		EnableDateInFilename:  m.baseConfig.EnableDateInFilename,
		DateFormat:            m.baseConfig.DateFormat,
		MaxSize:               m.baseConfig.MaxSize,
		MaxBackups:            m.baseConfig.MaxBackups,
		MaxAge:                m.baseConfig.MaxAge,
		Compress:              m.baseConfig.Compress,
		EnableCaller:          m.baseConfig.EnableCaller,
		EnableStacktrace:      m.baseConfig.EnableStacktrace,
		StacktraceLevel:       m.baseConfig.StacktraceLevel,
	}
}

// createLogger 创建 zap.Logger 实例（调用方持有写锁）
func (m *Manager) createLogger(cfg Config) *zap.Logger {
	encoder := createEncoder(cfg.Encoding)
	var cores []zapcore.Core
	var writers []*lumberjack.Logger

	if cfg.EnableConsole {
		consoleEncoder := encoder
		if cfg.ConsoleEncoding != "" && cfg.ConsoleEncoding != cfg.Encoding {
			consoleEncoder = createEncoder(cfg.ConsoleEncoding)
		}
		cores = append(cores, zapcore.NewCore(consoleEncoder, zapcore.AddSync(os.Stdout), ParseLevel(cfg.Level)))
	}

	if cfg.EnableFile {
		// info 文件只记录 [配置级别, error) 区间
		configuredLevel := ParseLevel(cfg.Level)
		infoWriter, infoLumber := createFileWriter(cfg.buildFilePath("info"), cfg)
		writers = append(writers, infoLumber)
		cores = append(cores, zapcore.NewCore(encoder, infoWriter,
			zap.LevelEnablerFunc(func(lvl zapcore.Level) bool {
				return lvl >= configuredLevel && lvl < zapcore.ErrorLevel
			})))

		errorWriter, errorLumber := createFileWriter(cfg.buildFilePath("error"), cfg)
		writers = append(writers, errorLumber)
		cores = append(cores, zapcore.NewCore(encoder, errorWriter,
			zap.LevelEnablerFunc(func(lvl zapcore.Level) bool {
				return lvl >= zapcore.ErrorLevel
			})))
	}

	if len(writers) > 0 {
		m.writers[cfg.moduleName] = writers
	}

	opts := []zap.Option{}
	if cfg.EnableCaller {
		opts = append(opts, zap.AddCaller())
	}
	return zap.New(zapcore.NewTee(cores...), opts...)
}

// CloseAll 关闭所有 Logger（刷新缓冲区并关闭文件句柄）
func (m *Manager) CloseAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closeLocked()
}

func (m *Manager) closeLocked() {
	for _, l := range m.zapLoggers {
		_ = l.Sync()
	}
	for _, writers := range m.writers {
		for _, w := range writers {
			_ = w.Close()
		}
	}
	m.loggers = make(map[string]*CtxZapLogger)
	m.zapLoggers = make(map[string]*zap.Logger)
	m.writers = make(map[string][]*lumberjack.Logger)
}

// ReloadConfig 热重载配置（已获取的 Logger 继续使用旧配置，之后 GetLogger 重新创建）
func (m *Manager) ReloadConfig(newCfg ManagerConfig) error {
	newCfg.ApplyDefaults()
	if err := newCfg.Validate(); err != nil {
		return fmt.Errorf("新配置验证失败: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.closeLocked()
	m.baseConfig = newCfg
	return nil
}

// createEncoder 创建编码器
func createEncoder(encoding string) zapcore.Encoder {
	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		MessageKey:     "msg",
		CallerKey:      "caller",
		StacktraceKey:  "stack",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.SecondsDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	if encoding == "console" {
		return zapcore.NewConsoleEncoder(encoderConfig)
	}
	return zapcore.NewJSONEncoder(encoderConfig)
}

// createFileWriter 创建文件写入器（lumberjack 切割）
func createFileWriter(filename string, cfg Config) (zapcore.WriteSyncer, *lumberjack.Logger) {
	_ = os.MkdirAll(filepath.Dir(filename), 0755)

	lumberLogger := &lumberjack.Logger{
		Filename:   filename,
		MaxSize:    cfg.MaxSize,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAge,
		Compress:   cfg.Compress,
		LocalTime:  true,
	}
	return zapcore.AddSync(lumberLogger), lumberLogger
}
