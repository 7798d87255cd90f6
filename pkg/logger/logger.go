package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var sugar *zap.SugaredLogger

// Init builds the process-wide logger. Development gets console encoding at
// debug level, everything else JSON at info level.
func Init(environment string) {
	var cfg zap.Config
	if environment == "development" {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		cfg = zap.NewProductionConfig()
	}

	l, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		// fall back to a bare production logger rather than running silent
		l = zap.Must(zap.NewProduction())
	}

	sugar = l.Sugar()
}

func log() *zap.SugaredLogger {
	if sugar == nil {
		Init("development")
	}
	return sugar
}

func Debug(msg string, keysAndValues ...any) {
	log().Debugw(msg, keysAndValues...)
}

func Info(msg string, keysAndValues ...any) {
	log().Infow(msg, keysAndValues...)
}

func Warn(msg string, keysAndValues ...any) {
	log().Warnw(msg, keysAndValues...)
}

func Error(msg string, keysAndValues ...any) {
	log().Errorw(msg, keysAndValues...)
}

func Fatal(msg string, keysAndValues ...any) {
	log().Fatalw(msg, keysAndValues...)
}

// Sync flushes buffered entries; call on shutdown.
func Sync() {
	if sugar != nil {
		_ = sugar.Sync()
	}
}
