package app

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"raindrop-mcp/internal/infra/gateway"
)

// LoggingConfig configures logging wiring.
type LoggingConfig struct {
	Logger *zap.Logger
	Level  zap.AtomicLevel
}

// Logging bundles the logger, its adjustable level and the client log bridge.
type Logging struct {
	Logger *zap.Logger
	Level  zap.AtomicLevel
	Bridge *gateway.LogBridge
}

// NewProcessLogger builds the production JSON logger on stderr; stdout is
// reserved for the stdio transport.
func NewProcessLogger(level string) (*zap.Logger, zap.AtomicLevel, error) {
	parsed, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, zap.AtomicLevel{}, fmt.Errorf("parse log level: %w", err)
	}
	atomic := zap.NewAtomicLevelAt(parsed)

	cfg := zap.NewProductionConfig()
	cfg.Level = atomic
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	logger, err := cfg.Build()
	if err != nil {
		return nil, zap.AtomicLevel{}, err
	}
	return logger, atomic, nil
}

// NewLogging tees the logger into a LogBridge so connected clients can
// subscribe to server logs.
func NewLogging(cfg LoggingConfig) Logging {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	level := cfg.Level
	if level == (zap.AtomicLevel{}) {
		level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	}

	bridge := gateway.NewLogBridge(zap.LevelEnablerFunc(func(l zapcore.Level) bool {
		return l >= zapcore.InfoLevel && level.Enabled(l)
	}))
	logger = logger.WithOptions(zap.WrapCore(func(core zapcore.Core) zapcore.Core {
		return zapcore.NewTee(core, bridge.Core())
	}))

	return Logging{
		Logger: logger,
		Level:  level,
		Bridge: bridge,
	}
}

func NewLogger(logging Logging) *zap.Logger {
	return logging.Logger
}

func NewLogLevel(logging Logging) zap.AtomicLevel {
	return logging.Level
}

func NewLogBridge(logging Logging) *gateway.LogBridge {
	return logging.Bridge
}
