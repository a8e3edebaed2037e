// Package logger is the process-wide structured logger. Calls take a message
// followed by alternating key/value pairs:
//
//	logger.Info("bandit_restore", "entries", n)
package logger

import (
	"sync"

	"go.uber.org/zap"
)

var (
	mu    sync.RWMutex
	sugar = zap.NewNop().Sugar()
)

// Init builds the global logger for the given environment. "production"
// emits JSON at info level, anything else a colored console encoder at debug.
func Init(env string) {
	var (
		l   *zap.Logger
		err error
	)
	switch env {
	case "production", "prod":
		l, err = zap.NewProduction()
	default:
		cfg := zap.NewDevelopmentConfig()
		l, err = cfg.Build()
	}
	if err != nil {
		l = zap.NewExample()
	}
	Replace(l)
}

// Replace swaps the underlying logger. Tests use it with zaptest/observer.
func Replace(l *zap.Logger) {
	mu.Lock()
	defer mu.Unlock()
	sugar = l.Sugar()
}

func get() *zap.SugaredLogger {
	mu.RLock()
	defer mu.RUnlock()
	return sugar
}

func Debug(msg string, keysAndValues ...any) {
	get().Debugw(msg, keysAndValues...)
}

func Info(msg string, keysAndValues ...any) {
	get().Infow(msg, keysAndValues...)
}

func Warn(msg string, keysAndValues ...any) {
	get().Warnw(msg, keysAndValues...)
}

func Error(msg string, keysAndValues ...any) {
	get().Errorw(msg, keysAndValues...)
}

func Fatal(msg string, keysAndValues ...any) {
	get().Fatalw(msg, keysAndValues...)
}

// Sync flushes buffered entries; call it before exit.
func Sync() {
	_ = get().Sync()
}
