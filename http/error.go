package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/fwojciec/docmcp"
)

// errorResponse is the JSON body of every failed request.
type errorResponse struct {
	Error     string       `json:"error"`
	Category  string       `json:"category,omitempty"`
	Message   string       `json:"message"`
	Stage     docmcp.Stage `json:"stage,omitempty"`
	Retryable *bool        `json:"retryable,omitempty"`
}

// codes maps error categories to HTTP status codes.
// Categories not listed map to 500.
var codes = map[string]int{
	docmcp.EVALIDATION: http.StatusBadRequest,
	docmcp.ENOCONTENT:  http.StatusUnprocessableEntity,
	docmcp.ENORESULTS:  http.StatusUnprocessableEntity,
}

// ErrorStatusCode returns the HTTP status for an error category.
func ErrorStatusCode(code string) int {
	if v, ok := codes[code]; ok {
		return v
	}
	return http.StatusInternalServerError
}

// errorTitle returns the short error label for a category and stage.
func errorTitle(code string, stage docmcp.Stage) string {
	switch code {
	case docmcp.EVALIDATION:
		return "Invalid URL format"
	case docmcp.ENOCONTENT:
		return "No content found"
	case docmcp.ENORESULTS:
		return "No results generated"
	}
	switch stage {
	case docmcp.StageCrawl:
		return "Crawl failed"
	case docmcp.StageConversion:
		return "LLM conversion failed"
	}
	return "Internal server error"
}

// Error writes err as a JSON error response. Errors that are not
// application errors are classified as server errors first and logged.
func (s *Server) Error(w http.ResponseWriter, r *http.Request, err error) {
	s.writeError(w, r, "", err)
}

// writeError is like Error but overrides the error title when title is set.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, title string, err error) {
	var e *docmcp.Error
	if !errors.As(err, &e) {
		err = docmcp.ClassifyServerError(err)
		_ = errors.As(err, &e)
	}

	if e.Stage == docmcp.StageServer || ErrorStatusCode(e.Code) == http.StatusInternalServerError {
		s.Logger.Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"category", e.Code,
			"stage", e.Stage,
			"request_id", RequestIDFromContext(r.Context()),
			"err", err,
		)
	}

	if title == "" {
		title = errorTitle(e.Code, e.Stage)
	}
	retryable := docmcp.Retryable(e.Code)
	s.writeJSON(w, r, ErrorStatusCode(e.Code), &errorResponse{
		Error:     title,
		Category:  e.Code,
		Message:   e.Message,
		Stage:     e.Stage,
		Retryable: &retryable,
	})
}

// writeJSON encodes v before writing headers so a failed encode does not
// leave a partial response.
func (s *Server) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		s.Logger.Error("encode response", "path", r.URL.Path, "err", err)
		http.Error(w, `{"error":"Internal server error"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write(buf.Bytes()); err != nil {
		s.Logger.Debug("write response", "path", r.URL.Path, "err", err)
	}
}
