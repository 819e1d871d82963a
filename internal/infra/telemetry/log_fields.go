package telemetry

import (
	"time"

	"go.uber.org/zap"
)

const (
	FieldEvent      = "event"
	FieldTool       = "tool"
	FieldStatus     = "status"
	FieldErrorCode  = "error_code"
	FieldDurationMs = "duration_ms"
	FieldMethod     = "method"
	FieldRoute      = "route"
	FieldHTTPStatus = "http_status"
	FieldTransport  = "transport"
	FieldRequestID  = "request_id"
	FieldTraceID    = "trace_id"
	FieldSpanID     = "span_id"
)

const (
	EventToolCallStart   = "tool_call_start"
	EventToolCallSuccess = "tool_call_success"
	EventToolCallFailure = "tool_call_failure"
	EventToolCallPanic   = "tool_call_panic"
	EventUnknownTool     = "unknown_tool"
	EventRemoteRequest   = "remote_request"
	EventServerStart     = "server_start"
	EventServerStop      = "server_stop"
	EventConfigReload    = "config_reload"
)

func EventField(event string) zap.Field {
	return zap.String(FieldEvent, event)
}

func ToolField(name string) zap.Field {
	return zap.String(FieldTool, name)
}

func StatusField(status string) zap.Field {
	return zap.String(FieldStatus, status)
}

func ErrorCodeField(code string) zap.Field {
	return zap.String(FieldErrorCode, code)
}

func DurationField(duration time.Duration) zap.Field {
	return zap.Int64(FieldDurationMs, duration.Milliseconds())
}

func MethodField(method string) zap.Field {
	return zap.String(FieldMethod, method)
}

func RouteField(route string) zap.Field {
	return zap.String(FieldRoute, route)
}

func HTTPStatusField(status int) zap.Field {
	return zap.Int(FieldHTTPStatus, status)
}

func TransportField(transport string) zap.Field {
	return zap.String(FieldTransport, transport)
}

func RequestIDField(value string) zap.Field {
	return zap.String(FieldRequestID, value)
}

func TraceIDField(value string) zap.Field {
	return zap.String(FieldTraceID, value)
}

func SpanIDField(value string) zap.Field {
	return zap.String(FieldSpanID, value)
}
