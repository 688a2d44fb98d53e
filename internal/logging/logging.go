// Package logging builds the zap logger used across undoredo.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/dshills/undoredo/internal/config"
)

// ParseLevel parses debug, info, warn or error, case-insensitively.
func ParseLevel(s string) (zapcore.Level, error) {
	var lvl zapcore.Level
	if err := lvl.Set(strings.ToLower(strings.TrimSpace(s))); err != nil {
		return lvl, fmt.Errorf("invalid level %q: %w", s, err)
	}
	return lvl, nil
}

// New creates a logger writing to stderr and returns it with a handle for
// changing the level at runtime.
func New(cfg config.LoggingConfig) (*zap.Logger, zap.AtomicLevel, error) {
	return NewWithWriter(cfg, os.Stderr)
}

// NewWithWriter is New writing to w.
func NewWithWriter(cfg config.LoggingConfig, w io.Writer) (*zap.Logger, zap.AtomicLevel, error) {
	lvl, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, zap.AtomicLevel{}, err
	}
	level := zap.NewAtomicLevelAt(lvl)

	var encoder zapcore.Encoder
	switch cfg.Format {
	case "json":
		encCfg := zap.NewProductionEncoderConfig()
		encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
		encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		encoder = zapcore.NewJSONEncoder(encCfg)
	case "console", "":
		encCfg := zap.NewDevelopmentEncoderConfig()
		encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encCfg)
	default:
		return nil, zap.AtomicLevel{}, fmt.Errorf("invalid log format %q", cfg.Format)
	}

	core := zapcore.NewCore(encoder, zapcore.AddSync(w), level)
	return zap.New(core), level, nil
}
