package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	pkgerrors "github.com/angelmondragon/artisanhub/pkg/errors"
)

// NetworkError reports a request that never produced an HTTP response.
type NetworkError struct {
	Method string
	Path   string
	Err    error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s %s: transport failure: %v", e.Method, e.Path, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// HTTPError reports a non-2xx response. Body holds the raw (truncated) payload and
// Message the human readable part of it when the backend sent one.
type HTTPError struct {
	Method  string
	Path    string
	Status  int
	Message string
	Body    json.RawMessage
}

func (e *HTTPError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.Status, e.Message)
	}
	return fmt.Sprintf("%s %s: status %d", e.Method, e.Path, e.Status)
}

func (e *HTTPError) HTTPStatusCode() int { return e.Status }

// StatusOf returns the upstream HTTP status carried by err, or 0.
func StatusOf(err error) int {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Status
	}
	return 0
}

// IsNetwork reports whether err is a transport failure.
func IsNetwork(err error) bool {
	var netErr *NetworkError
	return errors.As(err, &netErr)
}

func newHTTPError(method, path string, status int, body []byte) error {
	httpErr := &HTTPError{
		Method:  method,
		Path:    path,
		Status:  status,
		Message: extractMessage(body),
	}
	if json.Valid(body) {
		httpErr.Body = json.RawMessage(body)
	} else if trimmed := bytes.TrimSpace(body); len(trimmed) > 0 && httpErr.Message == "" {
		httpErr.Message = string(trimmed)
	}

	code := pkgerrors.CodeUpstream
	switch status {
	case http.StatusNotFound:
		code = pkgerrors.CodeNotFound
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		code = pkgerrors.CodeValidation
	}
	wrapped := pkgerrors.Wrap(code, httpErr, fmt.Sprintf("%s %s failed", method, path))
	details := map[string]any{"path": path, "upstream_status": status}
	if httpErr.Message != "" {
		details["upstream_message"] = httpErr.Message
	}
	return wrapped.WithDetails(details)
}

func newNetworkError(ctx context.Context, method, path string, err error) error {
	netErr := &NetworkError{Method: method, Path: path, Err: err}
	if ctx != nil && ctx.Err() != nil {
		return pkgerrors.Wrap(pkgerrors.CodeCanceled, netErr, fmt.Sprintf("%s %s canceled", method, path))
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, netErr, fmt.Sprintf("%s %s unreachable", method, path)).
		WithDetails(map[string]any{"path": path})
}

// extractMessage understands the error shapes the backend emits:
// {"detail": "..."}, {"detail": {"message": "..."}}, {"message": "..."} and {"error": "..."}.
func extractMessage(body []byte) string {
	var payload struct {
		Detail  json.RawMessage `json:"detail"`
		Message string          `json:"message"`
		Error   string          `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	if len(payload.Detail) > 0 {
		var text string
		if err := json.Unmarshal(payload.Detail, &text); err == nil {
			return strings.TrimSpace(text)
		}
		var nested struct {
			Message string `json:"message"`
		}
		if err := json.Unmarshal(payload.Detail, &nested); err == nil && nested.Message != "" {
			return strings.TrimSpace(nested.Message)
		}
	}
	if payload.Message != "" {
		return strings.TrimSpace(payload.Message)
	}
	return strings.TrimSpace(payload.Error)
}
