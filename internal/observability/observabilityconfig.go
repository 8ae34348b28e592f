// internal/observability/observabilityconfig.go
package observability

import (
	"strings"

	"go.uber.org/zap/zapcore"
)

// LogLevel is the configured log level. Both the LOG_LEVELS_* names and plain
// zap level names ("debug", "warn") are accepted.
type LogLevel string

const (
	LogLevelDebug LogLevel = "LOG_LEVELS_DEBUGLEVEL"
	LogLevelInfo  LogLevel = "LOG_LEVELS_INFOLEVEL"
	LogLevelWarn  LogLevel = "LOG_LEVELS_WARNLEVEL"
	LogLevelError LogLevel = "LOG_LEVELS_ERRORLEVEL"
)

// GetZapLevel converts LogLevel to zapcore.Level. Unknown values map to info.
func (l LogLevel) GetZapLevel() zapcore.Level {
	switch l {
	case LogLevelDebug:
		return zapcore.DebugLevel
	case LogLevelInfo:
		return zapcore.InfoLevel
	case LogLevelWarn:
		return zapcore.WarnLevel
	case LogLevelError:
		return zapcore.ErrorLevel
	}

	level, err := zapcore.ParseLevel(strings.ToLower(strings.TrimSpace(string(l))))
	if err != nil || level > zapcore.ErrorLevel {
		return zapcore.InfoLevel
	}
	return level
}

// Config holds the OpenTelemetry exporter settings. Nothing is exported
// unless Enabled is set.
type Config struct {
	Enabled        bool   `mapstructure:"enabled" yaml:"enabled"`
	ServiceName    string `mapstructure:"serviceName" yaml:"serviceName"`
	ServiceVersion string `mapstructure:"serviceVersion" yaml:"serviceVersion"`
	Environment    string `mapstructure:"environment" yaml:"environment"`
	// OTelEndpoint is the OTLP gRPC collector address.
	OTelEndpoint string `mapstructure:"otelEndpoint" yaml:"otelEndpoint"`
}

// LoggerConfig is the logger section.
type LoggerConfig struct {
	Level LogLevel `mapstructure:"level" yaml:"level"`
}
