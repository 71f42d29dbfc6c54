// Package logging builds the zap logger from the [log] config section.
package logging

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Versuscsdota/MirrorCRM/internal/config"
)

// New builds a logger writing to stderr, or to cfg.File when set.
func New(cfg config.LogConfig) (*zap.Logger, error) {
	var zapCfg zap.Config

	switch cfg.Format {
	case "json":
		zapCfg = zap.NewProductionConfig()
		zapCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	default:
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	if cfg.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
			return nil, fmt.Errorf("creating log directory: %w", err)
		}
		// Colors only make sense on a terminal.
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
		zapCfg.OutputPaths = []string{cfg.File}
		zapCfg.ErrorOutputPaths = []string{cfg.File}
	}

	logger, err := zapCfg.Build()
	if err != nil {
		return nil, fmt.Errorf("building logger: %w", err)
	}
	return logger, nil
}

// ForTUI returns the logger for the full-screen UI. The terminal belongs to
// the program, so without a log file nothing is written.
func ForTUI(cfg config.LogConfig, debug bool) (*zap.Logger, error) {
	if debug {
		if cfg.File == "" {
			cfg.File = DebugLogPath
		}
		cfg.Level = "debug"
	}
	if cfg.File == "" {
		return zap.NewNop(), nil
	}
	return New(cfg)
}

// DebugLogPath is where --debug writes when no log file is configured.
const DebugLogPath = "mirrorcrm-debug.log"
