package docmcp

import (
	"errors"
	"fmt"
)

// Application error codes. Each code is a category tag reported to callers.
const (
	EVALIDATION    = "validation"
	ETIMEOUT       = "timeout"
	ENOTFOUND      = "not_found"
	EFORBIDDEN     = "forbidden"
	ENETWORK       = "network"
	ERATELIMIT     = "rate_limit"
	ENOCONTENT     = "no_content"
	ECRAWL         = "crawl"
	ELLM           = "llm"
	EAUTH          = "auth"
	EQUOTA         = "quota"
	ECONTENTPOLICY = "content_policy"
	ENORESULTS     = "no_results"
	ECONNECTION    = "connection"
	EMEMORY        = "memory"
	EUNEXPECTED    = "unexpected"
)

// Stage identifies the pipeline step at which an error occurred.
type Stage string

// Stage constants.
const (
	StageCrawl      Stage = "crawl"
	StageConversion Stage = "conversion"
	StageServer     Stage = "server"
)

// Error represents an application-specific error. Application errors can be
// unwrapped by the caller to extract out the code, message and stage.
//
// Any non-application error (such as a provider or transport error) should
// be reported as an EUNEXPECTED error and the end user should only see
// "Internal error" as the message.
type Error struct {
	Code    string
	Message string
	Stage   Stage

	// Err is the underlying cause, kept for logs. It is never shown to callers.
	Err error
}

// Error implements the error interface. Not used by the application otherwise.
func (e *Error) Error() string {
	if e.Stage != "" {
		return fmt.Sprintf("docmcp error: code=%s stage=%s message=%s", e.Code, e.Stage, e.Message)
	}
	return fmt.Sprintf("docmcp error: code=%s message=%s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Errorf is a helper function to return an Error with a given code and formatted message.
func Errorf(code string, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// ErrorCode unwraps an application error and returns its code.
// Non-application errors always return EUNEXPECTED.
func ErrorCode(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Code
	}
	return EUNEXPECTED
}

// ErrorMessage unwraps an application error and returns its message.
// Non-application errors always return "Internal error.".
func ErrorMessage(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Message
	}
	return "Internal error."
}

// ErrorStage unwraps an application error and returns its stage.
// Returns an empty stage for nil and non-application errors.
func ErrorStage(err error) Stage {
	var e *Error
	if errors.As(err, &e) {
		return e.Stage
	}
	return ""
}

// WithStage returns a copy of the application error in err tagged with stage.
// The stage is only set when the error does not carry one already.
// Non-application errors are returned unchanged.
func WithStage(err error, stage Stage) error {
	var e *Error
	if !errors.As(err, &e) {
		return err
	}
	if e.Stage != "" {
		return err
	}
	cp := *e
	cp.Stage = stage
	return &cp
}

// Retryable reports whether retrying a request that failed with code may help.
// Caller-fixable categories return false.
func Retryable(code string) bool {
	switch code {
	case EVALIDATION, ENOTFOUND, EFORBIDDEN, ENOCONTENT, ERATELIMIT, EMEMORY:
		return false
	case "":
		return false
	default:
		return true
	}
}
