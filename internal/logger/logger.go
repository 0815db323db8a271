package logger

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	base  *zap.Logger
	sugar *zap.SugaredLogger
	level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
)

// Initialize builds the process-wide logger. encoding is "console" or
// "json"; anything else falls back to console.
func Initialize(levelName, encoding string) error {
	lvl := zapcore.InfoLevel
	if levelName != "" {
		if err := lvl.Set(strings.ToLower(levelName)); err != nil {
			return err
		}
	}
	level.SetLevel(lvl)

	if encoding != "json" {
		encoding = "console"
	}

	cfg := zap.Config{
		Level:       level,
		Development: false,
		Encoding:    encoding,
		EncoderConfig: zapcore.EncoderConfig{
			TimeKey:        "ts",
			LevelKey:       "level",
			NameKey:        "logger",
			CallerKey:      "caller",
			MessageKey:     "msg",
			StacktraceKey:  "stacktrace",
			LineEnding:     zapcore.DefaultLineEnding,
			EncodeLevel:    zapcore.CapitalLevelEncoder,
			EncodeTime:     zapcore.ISO8601TimeEncoder,
			EncodeDuration: zapcore.SecondsDurationEncoder,
			EncodeCaller:   zapcore.ShortCallerEncoder,
		},
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}

	built, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return err
	}
	base = built
	sugar = built.Sugar()
	return nil
}

// SetLevel adjusts the logging level at runtime ("debug", "info", ...).
func SetLevel(levelName string) {
	lvl := zapcore.InfoLevel
	if err := lvl.Set(strings.ToLower(levelName)); err == nil {
		level.SetLevel(lvl)
	}
}

// L returns the structured logger for components that want typed fields.
func L() *zap.Logger {
	return base
}

func Infof(format string, v ...interface{}) {
	sugar.Infof(format, v...)
}

func Debugf(format string, v ...interface{}) {
	sugar.Debugf(format, v...)
}

func Warningf(format string, v ...interface{}) {
	sugar.Warnf(format, v...)
}

func Errorf(format string, v ...interface{}) {
	sugar.Errorf(format, v...)
}

// Sync flushes buffered log entries. Safe to call on shutdown.
func Sync() {
	if base != nil {
		_ = base.Sync()
	}
}

func init() {
	// Default logger so packages can log before main configures anything.
	if err := Initialize("info", "console"); err != nil {
		panic(err)
	}
}
