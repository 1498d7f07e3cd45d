// Package log provides the process-wide structured logger.
package log

import (
	"sync"
)

// Logger is the logging surface the rest of the code depends on; the
// concrete backend stays behind it.
type Logger interface {
	Trace(args ...interface{})
	Tracef(format string, args ...interface{})

	Debug(args ...interface{})
	Debugf(format string, args ...interface{})

	Info(args ...interface{})
	Infof(format string, args ...interface{})

	Warn(args ...interface{})
	Warnf(format string, args ...interface{})

	Error(args ...interface{})
	Errorf(format string, args ...interface{})

	Fatal(args ...interface{})
	Fatalf(format string, args ...interface{})

	WithField(field string, value interface{}) Logger
	WithFields(fields map[string]interface{}) Logger
	WithError(err error) Logger

	IsDebugEnabled() bool
}

// LoggerConfig selects level, line pattern and appenders.
type LoggerConfig struct {
	Level   string           `mapstructure:"level" yaml:"level"`
	Pattern string           `mapstructure:"pattern" yaml:"pattern"`
	Time    string           `mapstructure:"time" yaml:"time"`
	File    *FileAppenderOpt `mapstructure:"file" yaml:"file,omitempty"`
}

// DefaultConfig is used when no logging section is configured: info
// level, console only.
func DefaultConfig() *LoggerConfig {
	return &LoggerConfig{
		Level:   "info",
		Pattern: "%time [%level] %msg%n",
		Time:    "2006-01-02 15:04:05",
	}
}

var (
	once   sync.Once
	logger Logger
)

// GetLogger returns the global logger. Init must have run first.
func GetLogger() Logger {
	return logger
}

// Init configures the global logger exactly once.
func Init(cfg *LoggerConfig) {
	once.Do(func() {
		if err := initByConfig(cfg); err != nil {
			panic(err)
		}
	})
}
