package firecrawl

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Error is a non-2xx response from the Firecrawl API.
type Error struct {
	Code    int
	Message string
}

// StatusCode returns the HTTP status of the failed response.
func (e *Error) StatusCode() int {
	return e.Code
}

func (e *Error) Error() string {
	var reason string
	switch e.Code {
	case http.StatusTooManyRequests:
		reason = "rate limit exceeded"
	case http.StatusNotFound:
		reason = "not found"
	case http.StatusForbidden:
		reason = "forbidden"
	case http.StatusUnauthorized:
		reason = "unauthorized"
	case http.StatusRequestTimeout, http.StatusGatewayTimeout:
		reason = "timeout"
	default:
		reason = strings.ToLower(http.StatusText(e.Code))
	}
	if e.Message == "" {
		return fmt.Sprintf("firecrawl: %s (HTTP %d)", reason, e.Code)
	}
	return fmt.Sprintf("firecrawl: %s (HTTP %d): %s", reason, e.Code, e.Message)
}

func newError(resp *http.Response) *Error {
	e := &Error{Code: resp.StatusCode}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		return e
	}
	var body struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(raw, &body) == nil && body.Error != "" {
		e.Message = body.Error
		return e
	}
	e.Message = strings.TrimSpace(string(raw))
	return e
}
