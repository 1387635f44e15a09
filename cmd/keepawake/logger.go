package main

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/eliteGoblin/focusd/keep_awake/internal/config"
	"github.com/eliteGoblin/focusd/keep_awake/internal/infra"
)

func resolveLogPath(cfg *config.Config, paths *infra.Paths) string {
	if cfg.LogPath != "" {
		return cfg.LogPath
	}
	return paths.LogPath
}

// createLogger writes JSON logs to logPath, falling back to /var/tmp.
// It never logs to stdout since the menu owns the terminal.
func createLogger(logPath string, debug bool) *zap.Logger {
	for _, path := range []string{logPath, infra.FallbackLogPath} {
		if logger, err := buildFileLogger(path, debug); err == nil {
			return logger
		}
	}
	return zap.NewNop()
}

func buildFileLogger(path string, debug bool) (*zap.Logger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}

	config := zap.NewProductionConfig()
	config.OutputPaths = []string{path}
	config.ErrorOutputPaths = []string{path}
	config.EncoderConfig.TimeKey = "time"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if debug {
		config.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}

	return config.Build()
}
