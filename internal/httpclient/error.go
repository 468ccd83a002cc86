package httpclient

import (
	"encoding/json"
	goerrors "errors"
	"fmt"
	"strings"

	"github.com/ivesbwas/bwas/internal/errors"
)

// Error represents a non-2xx response from an upstream service
type Error struct {
	*errors.InternalError
	StatusCode int
	Response   []byte
}

func (e *Error) Unwrap() error {
	return e.InternalError
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: status %d", e.InternalError.Error(), e.StatusCode)
}

// NewError creates a new HTTP client error
func NewError(statusCode int, response []byte) *Error {
	return &Error{
		InternalError: errors.New(errors.ErrCodeHTTPClient, "http client error"),
		StatusCode:    statusCode,
		Response:      response,
	}
}

// Message extracts a human readable message from the upstream body. It looks
// for the usual message/error fields and falls back to the raw body.
func (e *Error) Message() string {
	if len(e.Response) == 0 {
		return ""
	}
	var payload map[string]any
	if err := json.Unmarshal(e.Response, &payload); err == nil {
		for _, key := range []string{"message", "error", "detail"} {
			if s, ok := payload[key].(string); ok && s != "" {
				return s
			}
		}
	}
	msg := strings.TrimSpace(string(e.Response))
	if len(msg) > 256 {
		msg = msg[:256]
	}
	return msg
}

// IsHTTPError checks if an error is an HTTP client error
func IsHTTPError(err error) (*Error, bool) {
	var httpErr *Error
	if goerrors.As(err, &httpErr) {
		return httpErr, true
	}
	return nil, false
}
