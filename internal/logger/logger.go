package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var log = zap.NewNop()

// Init builds the process logger. Unknown levels fall back to info.
func Init(level string) {
	var zapLevel zapcore.Level
	if err := zapLevel.UnmarshalText([]byte(level)); err != nil {
		zapLevel = zap.InfoLevel
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapLevel)
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	l, err := cfg.Build()
	if err != nil {
		panic(err)
	}
	log = l
	log.Info("logger initialized", zap.String("level", zapLevel.String()))
}

// Set replaces the process logger. Used by tests to capture output.
func Set(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	log = l
}

func Sync() {
	_ = log.Sync()
}

func Debug(msg string, fields map[string]any) {
	log.Debug(msg, toZap(fields)...)
}

func Info(msg string, fields map[string]any) {
	log.Info(msg, toZap(fields)...)
}

func Warn(msg string, fields map[string]any) {
	log.Warn(msg, toZap(fields)...)
}

func Error(msg string, fields map[string]any) {
	log.Error(msg, toZap(fields)...)
}

func Fatal(msg string, fields map[string]any) {
	log.Error(msg, toZap(fields)...)
	Sync()
	os.Exit(1)
}

func toZap(fields map[string]any) []zap.Field {
	if len(fields) == 0 {
		return nil
	}
	out := make([]zap.Field, 0, len(fields))
	for k, v := range fields {
		if err, ok := v.(error); ok {
			out = append(out, zap.NamedError(k, err))
			continue
		}
		out = append(out, zap.Any(k, v))
	}
	return out
}
