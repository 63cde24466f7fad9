// Package logger holds the process-wide structured logger.
//
// The logger is stored behind an atomic pointer so tests can swap it out with
// Set without racing concurrent requests.
package logger

import (
	"sync/atomic"

	"go.uber.org/zap"
)

var singleton atomic.Pointer[zap.SugaredLogger]

func init() {
	// Default so callers that skip Initialize don't panic.
	singleton.Store(zap.NewNop().Sugar())
}

// Initialize builds the logger for the given environment ("development" gets
// human-readable output, anything else JSON) and installs it as the singleton.
func Initialize(env string) error {
	var (
		l   *zap.Logger
		err error
	)
	if env == "development" {
		l, err = zap.NewDevelopment()
	} else {
		l, err = zap.NewProduction()
	}
	if err != nil {
		return err
	}
	singleton.Store(l.Sugar())
	return nil
}

// L returns the current singleton logger.
func L() *zap.SugaredLogger {
	return singleton.Load()
}

// Set replaces the singleton logger. Intended for tests.
func Set(l *zap.SugaredLogger) {
	singleton.Store(l)
}
