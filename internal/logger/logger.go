// Package logger holds the process-wide zap logger.
//
// Output always goes to stderr: in serve mode stdout carries MCP JSON-RPC.
package logger

import (
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Standard field names.
const (
	FieldComponent = "component"
	FieldPath      = "path"
	FieldSource    = "source"
	FieldFile      = "file"
	FieldCount     = "count"
	FieldError     = "error"
	FieldSegment   = "segment"
)

// Logger is the global logger. It is a no-op until Initialize is called so
// packages can log from tests without setup.
var Logger = zap.NewNop().Sugar()

// Initialize configures the global logger. level is one of debug, info, warn,
// error; anything else falls back to info.
func Initialize(level string, jsonOutput bool) error {
	lvl := parseLevel(level)

	var zapLogger *zap.Logger
	if jsonOutput {
		cfg := zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(lvl)
		cfg.OutputPaths = []string{"stderr"}
		cfg.ErrorOutputPaths = []string{"stderr"}
		var err error
		zapLogger, err = cfg.Build()
		if err != nil {
			return err
		}
	} else {
		encCfg := zap.NewDevelopmentEncoderConfig()
		encCfg.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapLogger = zap.New(zapcore.NewCore(
			zapcore.NewConsoleEncoder(encCfg),
			zapcore.Lock(os.Stderr),
			lvl,
		))
	}

	Logger = zapLogger.Sugar()
	return nil
}

// ComponentLogger returns a named logger for a component. Callers keep the
// returned logger; re-initializing the global one does not affect it.
func ComponentLogger(name string) *zap.SugaredLogger {
	return Logger.Named(name).With(FieldComponent, name)
}

// Cleanup flushes buffered entries.
func Cleanup() {
	_ = Logger.Sync()
}

func parseLevel(level string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}
