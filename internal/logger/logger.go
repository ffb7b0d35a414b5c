// Package logger builds the zap logger shared by the server and its handlers.
package logger

import (
	"errors"
	"os"

	"go.uber.org/zap"
)

// New returns a production-style JSON logger at the given level
// (debug, info, warn or error).
func New(level string) (*zap.SugaredLogger, error) {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, err
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = lvl
	cfg.Encoding = "console"
	zl, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return zl.Sugar(), nil
}

// Sync flushes buffered entries. Syncing a terminal stderr reports
// os.ErrInvalid on some platforms, which is ignored.
func Sync(log *zap.SugaredLogger) error {
	if err := log.Sync(); err != nil && !errors.Is(err, os.ErrInvalid) {
		return err
	}
	return nil
}
