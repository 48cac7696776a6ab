package logger

import (
	"path/filepath"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"go.uber.org/zap/zapcore"
)

var (
	validLevels    = []interface{}{"debug", "info", "warn", "error", "fatal"}
	validEncodings = []interface{}{"json", "console"}
)

// Config module log configuration (built by Manager per module)
type Config struct {
	Level           string
	Encoding        string // json or console
	ConsoleEncoding string

	moduleName string // ioc, registry, resolver
	logDir     string // Log root directory (default logs/)

	EnableFile    bool
	EnableConsole bool

	EnableLevelInFilename bool   // logs/ioc/ioc-info.log
	EnableDateInFilename  bool   // logs/ioc/ioc-info-2024-12-19.log
	DateFormat            string // default 2006-01-02

	// lumberjack rotation
	MaxSize    int  // MB
	MaxBackups int
	MaxAge     int  // days
	Compress   bool

	EnableCaller     bool
	EnableStacktrace bool
	StacktraceLevel  string
}

// ManagerConfig global manager configuration (shared by all modules)
type ManagerConfig struct {
	BaseLogDir            string `mapstructure:"base_log_dir"`
	Level                 string `mapstructure:"level"`
	AppName               string `mapstructure:"app_name"` // injected into every entry, even when empty
	Encoding              string `mapstructure:"encoding"`
	ConsoleEncoding       string `mapstructure:"console_encoding"`
	EnableConsole         bool   `mapstructure:"enable_console"`
	EnableFile            bool   `mapstructure:"enable_file"`
	EnableLevelInFilename bool   `mapstructure:"enable_level_in_filename"`
	EnableDateInFilename  bool   `mapstructure:"enable_date_in_filename"`
	DateFormat            string `mapstructure:"date_format"`
	MaxSize               int    `mapstructure:"max_size"`
	MaxBackups            int    `mapstructure:"max_backups"`
	MaxAge                int    `mapstructure:"max_age"`
	Compress              bool   `mapstructure:"compress"`
	EnableCaller          bool   `mapstructure:"enable_caller"`
	EnableStacktrace      bool   `mapstructure:"enable_stacktrace"`
	StacktraceLevel       string `mapstructure:"stacktrace_level"`

	// Trace ID configuration
	EnableTraceID    bool   `mapstructure:"enable_trace_id"`
	TraceIDKey       string `mapstructure:"trace_id_key"`        // the key in context (default "trace_id")
	TraceIDFieldName string `mapstructure:"trace_id_field_name"` // Log field name (default "trace_id")
}

// DefaultManagerConfig returns default manager configuration
func DefaultManagerConfig() ManagerConfig {
	return ManagerConfig{
		BaseLogDir:            "logs",
		Level:                 "info",
		Encoding:              "json",
		EnableConsole:         true,
		EnableFile:            false,
		EnableLevelInFilename: true,
		EnableDateInFilename:  true,
		DateFormat:            "2006-01-02",
		MaxSize:               100,
		MaxBackups:            3,
		MaxAge:                28,
		Compress:              true,
		EnableCaller:          true,
		EnableStacktrace:      true,
		StacktraceLevel:       "error",
		EnableTraceID:         true,
		TraceIDKey:            "trace_id",
		TraceIDFieldName:      "trace_id",
	}
}

// ApplyDefaults fills zero-valued fields with default values (in-place modification)
// Booleans are left untouched: a false value cannot be told apart from "unset".
func (c *ManagerConfig) ApplyDefaults() {
	defaults := DefaultManagerConfig()

	if c.BaseLogDir == "" {
		c.BaseLogDir = defaults.BaseLogDir
	}
	if c.Level == "" {
		c.Level = defaults.Level
	}
	if c.Encoding == "" {
		c.Encoding = defaults.Encoding
	}
	if c.DateFormat == "" {
		c.DateFormat = defaults.DateFormat
	}
	if c.StacktraceLevel == "" {
		c.StacktraceLevel = defaults.StacktraceLevel
	}
	if c.TraceIDKey == "" {
		c.TraceIDKey = defaults.TraceIDKey
	}
	if c.TraceIDFieldName == "" {
		c.TraceIDFieldName = defaults.TraceIDFieldName
	}
	if c.MaxSize == 0 {
		c.MaxSize = defaults.MaxSize
	}
	if c.MaxBackups == 0 {
		c.MaxBackups = defaults.MaxBackups
	}
	if c.MaxAge == 0 {
		c.MaxAge = defaults.MaxAge
	}
}

// Validate ManagerConfig configuration
// Returns ozzo validation.Errors keyed by struct field name.
func (c ManagerConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Level, validation.Required, validation.In(validLevels...)),
		validation.Field(&c.Encoding, validation.Required, validation.In(validEncodings...)),
		validation.Field(&c.ConsoleEncoding, validation.In(validEncodings...)),
		validation.Field(&c.MaxSize, validation.Min(1), validation.Max(10000)),
		validation.Field(&c.MaxBackups, validation.Min(0), validation.Max(1000)),
		validation.Field(&c.MaxAge, validation.Min(0), validation.Max(3650)),
		validation.Field(&c.StacktraceLevel, validation.In(validLevels...)),
		validation.Field(&c.DateFormat, validation.When(c.EnableDateInFilename, validation.Required)),
	)
}

// ParseLevel parse log level string
func ParseLevel(level string) zapcore.Level {
	switch level {
	case "debug":
		return zapcore.DebugLevel
	case "info":
		return zapcore.InfoLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	case "fatal":
		return zapcore.FatalLevel
	default:
		return zapcore.InfoLevel
	}
}

// getModuleLogDir returns logs/<module>/
func (c Config) getModuleLogDir() string {
	if c.moduleName == "" {
		return c.logDir
	}
	return filepath.Join(c.logDir, c.moduleName)
}

// buildFilePath Build log file path
// - logs/ioc/ioc.log
// - logs/ioc/ioc-info.log
// - logs/ioc/ioc-info-2024-12-19.log
func (c Config) buildFilePath(level string) string {
	parts := []string{c.moduleName}
	if c.EnableLevelInFilename {
		parts = append(parts, level)
	}
	if c.EnableDateInFilename {
		parts = append(parts, time.Now().Format(c.DateFormat))
	}
	return filepath.Join(c.getModuleLogDir(), strings.Join(parts, "-")+".log")
}
