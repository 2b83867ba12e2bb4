package logging

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// DefaultLevel is used when no level or an unknown level is given.
const DefaultLevel = "ERROR"

var levels = map[string]zapcore.Level{
	"ERROR":   zapcore.ErrorLevel,
	"WARNING": zapcore.WarnLevel,
	"WARN":    zapcore.WarnLevel,
	"INFO":    zapcore.InfoLevel,
	"DEBUG":   zapcore.DebugLevel,
	// zap has no trace level, map it to the most verbose one.
	"TRACE": zapcore.DebugLevel,
}

// LevelOptions lists the accepted level names for flag help text.
func LevelOptions() []string {
	return []string{"ERROR", "WARNING", "WARN", "INFO", "DEBUG", "TRACE"}
}

// New builds a production logger at the named level. Unknown names fall back
// to DefaultLevel.
func New(level string) (*zap.Logger, error) {
	zapLevel, ok := levels[strings.ToUpper(strings.TrimSpace(level))]
	if !ok {
		zapLevel = levels[DefaultLevel]
	}

	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(zapLevel)
	return config.Build()
}
