// Package logger wraps zap behind the key/value call style used across the service:
//
//	log.Info("ListingRepository.Create: listing created", "listing_id", id)
package logger

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Logger struct {
	base   *zap.Logger
	sugar  *zap.SugaredLogger
	config *LoggerConfig
}

// NewLogger builds a logger from LOG_LEVEL, LOG_FORMAT and LOG_OUTPUT_FILE.
func NewLogger() *Logger {
	l, err := New(DefaultConfig())
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v, falling back to stdout\n", err)
		cfg := DefaultConfig()
		cfg.OutputFile = "stdout"
		l, _ = New(cfg)
	}
	return l
}

func New(cfg *LoggerConfig) (*Logger, error) {
	sink, err := openSink(cfg.OutputFile)
	if err != nil {
		return nil, err
	}
	core := zapcore.NewCore(newEncoder(cfg.Format), sink, zap.NewAtomicLevelAt(cfg.ToZapLevel()))
	return newFromCore(core, cfg), nil
}

// NewNop returns a logger that discards everything.
func NewNop() *Logger {
	return newFromCore(zapcore.NewNopCore(), &LoggerConfig{Level: "info", Format: "json"})
}

func newFromCore(core zapcore.Core, cfg *LoggerConfig) *Logger {
	base := zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1))
	return &Logger{base: base, sugar: base.Sugar(), config: cfg}
}

func openSink(output string) (zapcore.WriteSyncer, error) {
	switch output {
	case "", "stdout":
		return zapcore.Lock(os.Stdout), nil
	case "stderr":
		return zapcore.Lock(os.Stderr), nil
	}
	if err := os.MkdirAll(filepath.Dir(output), 0o755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}
	file, err := os.OpenFile(output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file %s: %w", output, err)
	}
	return zapcore.NewMultiWriteSyncer(zapcore.Lock(os.Stdout), zapcore.AddSync(file)), nil
}

func (l *Logger) Debug(msg string, keysAndValues ...interface{}) {
	l.sugar.Debugw(msg, keysAndValues...)
}

func (l *Logger) Info(msg string, keysAndValues ...interface{}) {
	l.sugar.Infow(msg, keysAndValues...)
}

func (l *Logger) Warn(msg string, keysAndValues ...interface{}) {
	l.sugar.Warnw(msg, keysAndValues...)
}

func (l *Logger) Error(msg string, keysAndValues ...interface{}) {
	l.sugar.Errorw(msg, keysAndValues...)
}

func (l *Logger) Fatal(msg string, keysAndValues ...interface{}) {
	l.sugar.Fatalw(msg, keysAndValues...)
}

// Named adds a path segment to the logger name.
func (l *Logger) Named(name string) *Logger {
	base := l.base.Named(name)
	return &Logger{base: base, sugar: base.Sugar(), config: l.config}
}

// With returns a child logger carrying the given key/value pairs.
func (l *Logger) With(keysAndValues ...interface{}) *Logger {
	sugar := l.sugar.With(keysAndValues...)
	return &Logger{base: sugar.Desugar(), sugar: sugar, config: l.config}
}

// Zap exposes the underlying logger for libraries that want one.
func (l *Logger) Zap() *zap.Logger {
	return l.base
}

func (l *Logger) Sync() error {
	return l.base.Sync()
}
