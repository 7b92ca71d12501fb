package logger

import (
	"go.uber.org/zap/zapcore"
)

func encoderConfig() zapcore.EncoderConfig {
	cfg := zapcore.EncoderConfig{
		TimeKey:        "timestamp",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		MessageKey:     "message",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}
	return cfg
}

// newEncoder picks the JSON encoder unless format is "text" or "console".
func newEncoder(format string) zapcore.Encoder {
	switch format {
	case "text", "console":
		return zapcore.NewConsoleEncoder(encoderConfig())
	default:
		return zapcore.NewJSONEncoder(encoderConfig())
	}
}
