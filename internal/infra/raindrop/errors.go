package raindrop

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"raindrop-mcp/internal/domain"
)

// APIError is returned for any non-2xx response from the remote service.
type APIError struct {
	Method     string
	Path       string
	StatusCode int
	Status     string
	// Message is the remote error text when the body carried one.
	Message string
	Body    []byte
}

func newAPIError(method, path string, statusCode int, status string, body []byte) *APIError {
	return &APIError{
		Method:     method,
		Path:       path,
		StatusCode: statusCode,
		Status:     strings.TrimSpace(status),
		Message:    remoteMessage(body),
		Body:       body,
	}
}

func (e *APIError) Error() string {
	status := e.Status
	if status == "" {
		status = fmt.Sprintf("%d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	msg := fmt.Sprintf("Request failed with status %s (%s %s)", status, e.Method, e.Path)
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

// Code classifies the failure for metrics.
func (e *APIError) Code() domain.ErrorCode {
	return domain.CodeForHTTPStatus(e.StatusCode)
}

func (e *APIError) Unwrap() error {
	return domain.E(e.Code(), "", e.Message, nil)
}

type errorBody struct {
	Error        any    `json:"error"`
	ErrorMessage string `json:"errorMessage"`
	Message      string `json:"message"`
}

func remoteMessage(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	var parsed errorBody
	if err := json.Unmarshal(body, &parsed); err != nil {
		return ""
	}
	if parsed.ErrorMessage != "" {
		return parsed.ErrorMessage
	}
	if parsed.Message != "" {
		return parsed.Message
	}
	switch v := parsed.Error.(type) {
	case string:
		return v
	case float64:
		return fmt.Sprintf("error %v", v)
	}
	return ""
}
