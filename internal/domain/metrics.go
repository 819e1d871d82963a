package domain

import "time"

// CallStatus labels the outcome of a tool call or remote request.
type CallStatus string

const (
	// CallStatusSuccess indicates the call completed without error.
	CallStatusSuccess CallStatus = "success"
	// CallStatusError indicates the call produced an error envelope.
	CallStatusError CallStatus = "error"
)

// StatusFor returns the CallStatus matching err.
func StatusFor(err error) CallStatus {
	if err != nil {
		return CallStatusError
	}
	return CallStatusSuccess
}

// ToolCallMetric captures one dispatched tool call.
type ToolCallMetric struct {
	Tool     string
	Status   CallStatus
	Code     ErrorCode
	Duration time.Duration
}

// RemoteRequestMetric captures one outbound HTTP request.
type RemoteRequestMetric struct {
	Method     string
	Route      string
	StatusCode int
	Duration   time.Duration
}

// Metrics records operational metrics for tool dispatch and remote calls.
type Metrics interface {
	ObserveToolCall(metric ToolCallMetric)
	AddInflightToolCalls(tool string, delta int)
	ObserveRemoteRequest(metric RemoteRequestMetric)
	ObservePages(route string, pages int)
}
