package gateway

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap/zapcore"
)

const logBridgeBuffer = 256

// LogBridge forwards server log entries to connected MCP clients as
// notifications/message. Clients only receive entries once they have set a
// level with logging/setLevel.
type LogBridge struct {
	level   zapcore.LevelEnabler
	entries chan *mcp.LoggingMessageParams
}

func NewLogBridge(level zapcore.LevelEnabler) *LogBridge {
	if level == nil {
		level = zapcore.InfoLevel
	}
	return &LogBridge{
		level:   level,
		entries: make(chan *mcp.LoggingMessageParams, logBridgeBuffer),
	}
}

// Core returns a zapcore.Core to tee into the process logger.
func (b *LogBridge) Core() zapcore.Core {
	return &bridgeCore{bridge: b}
}

// Run publishes buffered entries to every session of server until ctx is done.
func (b *LogBridge) Run(ctx context.Context, server *mcp.Server) {
	if b == nil || server == nil {
		return
	}
	for {
		select {
		case <-ctx.Done():
			return
		case params := <-b.entries:
			for session := range server.Sessions() {
				_ = session.Log(ctx, params)
			}
		}
	}
}

// enqueue never blocks the logger; entries are discarded while the buffer is full.
func (b *LogBridge) enqueue(params *mcp.LoggingMessageParams) {
	select {
	case b.entries <- params:
	default:
	}
}

type bridgeCore struct {
	bridge *LogBridge
	fields []zapcore.Field
}

func (c *bridgeCore) Enabled(level zapcore.Level) bool {
	return c.bridge.level.Enabled(level)
}

func (c *bridgeCore) With(fields []zapcore.Field) zapcore.Core {
	next := make([]zapcore.Field, 0, len(c.fields)+len(fields))
	next = append(next, c.fields...)
	next = append(next, fields...)
	return &bridgeCore{bridge: c.bridge, fields: next}
}

func (c *bridgeCore) Check(entry zapcore.Entry, checked *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(entry.Level) {
		return checked.AddCore(entry, c)
	}
	return checked
}

func (c *bridgeCore) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	enc := zapcore.NewMapObjectEncoder()
	for _, field := range c.fields {
		field.AddTo(enc)
	}
	for _, field := range fields {
		field.AddTo(enc)
	}
	data := enc.Fields
	data["msg"] = entry.Message

	c.bridge.enqueue(&mcp.LoggingMessageParams{
		Logger: entry.LoggerName,
		Level:  mapZapLevel(entry.Level),
		Data:   data,
	})
	return nil
}

func (c *bridgeCore) Sync() error {
	return nil
}

func mapZapLevel(level zapcore.Level) mcp.LoggingLevel {
	switch level {
	case zapcore.DebugLevel:
		return "debug"
	case zapcore.InfoLevel:
		return "info"
	case zapcore.WarnLevel:
		return "warning"
	case zapcore.ErrorLevel:
		return "error"
	case zapcore.DPanicLevel, zapcore.PanicLevel:
		return "critical"
	case zapcore.FatalLevel:
		return "emergency"
	default:
		return "debug"
	}
}
