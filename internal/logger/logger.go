// Package logger holds the process-wide zap logger. Init must be called
// once from main before any other package logs.
package logger

import (
	"sync"

	"go.uber.org/zap"
)

var (
	once     sync.Once
	instance *zap.Logger
)

// Init builds the singleton logger. env selects the encoder: "prod" uses
// JSON output, anything else uses the development console encoder.
// Only the first call has any effect.
func Init(env string) {
	once.Do(func() {
		var err error
		if env == "prod" {
			instance, err = zap.NewProduction()
		} else {
			instance, err = zap.NewDevelopment()
		}
		if err != nil {
			instance = zap.NewNop()
		}
	})
}

// L returns the singleton logger, falling back to a dev logger when Init
// was never called (tests).
func L() *zap.Logger {
	if instance == nil {
		Init("dev")
	}
	return instance
}

// Named returns a logger tagged with a component name.
func Named(name string) *zap.Logger {
	return L().Named(name)
}

// Sync flushes buffered entries. Call with defer from main.
func Sync() error {
	if instance != nil {
		return instance.Sync()
	}
	return nil
}
