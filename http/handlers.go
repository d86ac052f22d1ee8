package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/fwojciec/docmcp"
	"github.com/fwojciec/docmcp/fs"
)

type crawlRequest struct {
	URL string `json:"url"`
}

func (s *Server) handleCrawlAndConvert(w http.ResponseWriter, r *http.Request) {
	var req crawlRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, r, "Invalid request body", err)
		return
	}

	req.URL = strings.TrimSpace(req.URL)
	if req.URL == "" {
		s.writeError(w, r, "URL is required", docmcp.ValidateURL(""))
		return
	}
	if err := docmcp.ValidateURL(req.URL); err != nil {
		s.Error(w, r, err)
		return
	}
	if s.Service == nil {
		s.Error(w, r, errors.New("crawl and convert service not configured"))
		return
	}

	report, err := s.Service.CrawlAndConvert(r.Context(), req.URL)
	if err != nil {
		s.Error(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, report)
}

type exportRequest struct {
	SourceURL string                     `json:"sourceUrl"`
	Results   []*docmcp.ConversionResult `json:"results"`
}

// handleExport returns the given results as a zip archive.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	var req exportRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, r, "Invalid request body", err)
		return
	}
	if len(req.Results) == 0 {
		s.writeError(w, r, "Nothing to export", docmcp.Errorf(docmcp.EVALIDATION, "Provide at least one result to export"))
		return
	}
	for _, res := range req.Results {
		if res == nil {
			s.writeError(w, r, "Nothing to export", docmcp.Errorf(docmcp.EVALIDATION, "Results must not contain null entries"))
			return
		}
	}

	now := s.Now()
	report := docmcp.NewReport(req.SourceURL, req.Results, now)

	var buf bytes.Buffer
	if err := fs.WriteArchive(&buf, report, now); err != nil {
		s.Error(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="docmcp-results-%s.zip"`, now.UTC().Format("2006-01-02")))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

type healthResponse struct {
	Status      string    `json:"status"`
	Timestamp   time.Time `json:"timestamp"`
	Version     string    `json:"version"`
	Environment string    `json:"environment"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, r, http.StatusOK, &healthResponse{
		Status:      "healthy",
		Timestamp:   s.Now().UTC(),
		Version:     s.Version,
		Environment: s.Environment,
	})
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	if s.Metrics == nil {
		s.handleNotFound(w, r)
		return
	}
	s.Metrics.ServeHTTP(w, r)
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, r, http.StatusNotFound, &errorResponse{
		Error:   "Not found",
		Message: "The requested resource was not found",
	})
}

// decode reads a JSON body of at most MaxRequestBody bytes into v.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, MaxRequestBody)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			return docmcp.Errorf(docmcp.EVALIDATION, "Request body exceeds the %d MB limit", MaxRequestBody>>20)
		case errors.Is(err, io.EOF):
			return docmcp.Errorf(docmcp.EVALIDATION, "Request body is empty")
		default:
			return docmcp.Errorf(docmcp.EVALIDATION, "Request body must be valid JSON")
		}
	}
	return nil
}
