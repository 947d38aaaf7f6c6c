// Package logging provides categorized zap logging for patternforge.
// Logs are written to <workspace>/.forge/logs/forge.log; console output is
// limited to warnings unless debug mode is enabled.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log categories. Each maps to a named zap logger so log lines can be
// filtered per subsystem.
const (
	CategoryMemory    = "memory"
	CategoryCompact   = "compact"
	CategorySession   = "session"
	CategoryKnowledge = "knowledge"
	CategoryCatalog   = "catalog"
	CategoryValidate  = "validate"
	CategorySandbox   = "sandbox"
	CategoryWatch     = "watch"
)

var (
	mu      sync.RWMutex
	root    *zap.Logger
	named   = make(map[string]*zap.SugaredLogger)
	logFile *os.File
)

// Options control logger construction.
type Options struct {
	// Directory for the log file, workspace-relative or absolute.
	Directory string

	// Level is the minimum level written to the log file.
	Level string

	// Debug widens console output to the configured level and enables
	// caller annotation.
	Debug bool
}

// Initialize sets up the process-wide logger. Safe to call once at startup;
// subsequent calls replace the previous logger.
func Initialize(workspace string, opts Options) error {
	mu.Lock()
	defer mu.Unlock()

	dir := opts.Directory
	if dir == "" {
		dir = filepath.Join(".forge", "logs")
	}
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(workspace, dir)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	f, err := os.OpenFile(filepath.Join(dir, "forge.log"), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}

	level := zapcore.InfoLevel
	if err := level.Set(opts.Level); err != nil && opts.Level != "" {
		level = zapcore.InfoLevel
	}
	if opts.Debug {
		level = zapcore.DebugLevel
	}

	fileEnc := zap.NewProductionEncoderConfig()
	fileEnc.EncodeTime = zapcore.ISO8601TimeEncoder
	consoleEnc := zap.NewDevelopmentEncoderConfig()
	consoleEnc.EncodeLevel = zapcore.CapitalColorLevelEncoder

	consoleLevel := zapcore.WarnLevel
	if opts.Debug {
		consoleLevel = level
	}

	core := zapcore.NewTee(
		zapcore.NewCore(zapcore.NewJSONEncoder(fileEnc), zapcore.AddSync(f), level),
		zapcore.NewCore(zapcore.NewConsoleEncoder(consoleEnc), zapcore.AddSync(os.Stderr), consoleLevel),
	)

	zapOpts := []zap.Option{}
	if opts.Debug {
		zapOpts = append(zapOpts, zap.AddCaller())
	}

	if logFile != nil {
		_ = logFile.Close()
	}
	logFile = f
	root = zap.New(core, zapOpts...)
	named = make(map[string]*zap.SugaredLogger)
	return nil
}

// L returns the sugared logger for a category. Before Initialize it returns
// a no-op logger so library code never needs a nil check.
func L(category string) *zap.SugaredLogger {
	mu.RLock()
	if l, ok := named[category]; ok {
		mu.RUnlock()
		return l
	}
	mu.RUnlock()

	mu.Lock()
	defer mu.Unlock()
	if l, ok := named[category]; ok {
		return l
	}
	base := root
	if base == nil {
		base = zap.NewNop()
	}
	l := base.Named(category).Sugar()
	named[category] = l
	return l
}

// Sync flushes buffered log entries. Called once at process exit.
func Sync() {
	mu.RLock()
	defer mu.RUnlock()
	if root != nil {
		_ = root.Sync()
	}
}
