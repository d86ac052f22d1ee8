package docmcp

import (
	"context"
	"errors"
	"slices"
	"strings"
)

// StatusCoder is implemented by provider errors that carry an HTTP status.
type StatusCoder interface {
	StatusCode() int
}

// classifyRule maps a raw failure to a category. A rule matches when the
// error wraps one of targets, carries one of statuses, or its text contains
// one of needles (compared in lower case).
type classifyRule struct {
	code     string
	message  string
	targets  []error
	statuses []int
	needles  []string
}

func (r classifyRule) match(err error, text string) bool {
	for _, target := range r.targets {
		if errors.Is(err, target) {
			return true
		}
	}
	var sc StatusCoder
	if len(r.statuses) > 0 && errors.As(err, &sc) && slices.Contains(r.statuses, sc.StatusCode()) {
		return true
	}
	for _, needle := range r.needles {
		if strings.Contains(text, needle) {
			return true
		}
	}
	return false
}

// classifier is an ordered rule table with a fallback category.
type classifier struct {
	stage    Stage
	rules    []classifyRule
	fallback classifyRule
}

func (c classifier) classify(err error) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return WithStage(err, c.stage)
	}
	text := strings.ToLower(err.Error())
	for _, rule := range c.rules {
		if rule.match(err, text) {
			return &Error{Code: rule.code, Message: rule.message, Stage: c.stage, Err: err}
		}
	}
	return &Error{Code: c.fallback.code, Message: c.fallback.message, Stage: c.stage, Err: err}
}

var timeoutTargets = []error{context.DeadlineExceeded}

var crawlClassifier = classifier{
	stage: StageCrawl,
	rules: []classifyRule{
		{
			code:    ETIMEOUT,
			message: "Crawl request timed out. The website might be too large or slow.",
			targets: timeoutTargets,
			needles: []string{"timeout", "timed out", "deadline exceeded"},
		},
		{
			code:     ENOTFOUND,
			message:  "Website not found. Please check the URL.",
			statuses: []int{404},
			needles:  []string{"404", "not found"},
		},
		{
			code:     EFORBIDDEN,
			message:  "Access denied. The website blocks automated crawling.",
			statuses: []int{403},
			needles:  []string{"403", "forbidden"},
		},
		{
			code:    ENETWORK,
			message: "Network error. Please check your connection and the URL.",
			needles: []string{"network", "enotfound", "no such host", "connection refused", "econnrefused"},
		},
		{
			code:     ERATELIMIT,
			message:  "Rate limit exceeded. Please try again later.",
			statuses: []int{429},
			needles:  []string{"rate limit", "too many requests"},
		},
	},
	fallback: classifyRule{code: ECRAWL, message: "Failed to crawl website"},
}

var conversionClassifier = classifier{
	stage: StageConversion,
	rules: []classifyRule{
		{
			code:    ETIMEOUT,
			message: "LLM conversion timed out. Too many pages to process.",
			targets: timeoutTargets,
			needles: []string{"timeout", "timed out", "deadline exceeded"},
		},
		{
			code:     EAUTH,
			message:  "AI service authentication failed. Please try again.",
			statuses: []int{401},
			needles:  []string{"api key", "unauthorized", "unauthenticated"},
		},
		{
			code:    EQUOTA,
			message: "AI service quota exceeded. Please try again later.",
			needles: []string{"quota", "billing", "resource_exhausted"},
		},
		{
			code:     ERATELIMIT,
			message:  "AI service rate limit exceeded. Please try again later.",
			statuses: []int{429},
			needles:  []string{"rate limit", "too many requests"},
		},
		{
			code:    ECONTENTPOLICY,
			message: "Content violates AI service policies.",
			needles: []string{"content policy", "safety", "blocked"},
		},
	},
	fallback: classifyRule{code: ELLM, message: "Failed during LLM transformation"},
}

var serverClassifier = classifier{
	stage: StageServer,
	rules: []classifyRule{
		{
			code:    ECONNECTION,
			message: "Cannot connect to external services. Check your internet connection.",
			needles: []string{"econnrefused", "enotfound", "connection refused", "no such host"},
		},
		{
			code:    EMEMORY,
			message: "Server ran out of memory. The website might be too large.",
			needles: []string{"memory", "heap"},
		},
	},
	fallback: classifyRule{code: EUNEXPECTED, message: "An unexpected error occurred. Please try again."},
}

// ClassifyCrawlError converts a raw crawling failure into an *Error at the
// crawl stage. Application errors keep their code; unmatched errors become ECRAWL.
func ClassifyCrawlError(err error) error {
	return crawlClassifier.classify(err)
}

// ClassifyConversionError converts a raw completion failure into an *Error at
// the conversion stage. Unmatched errors become ELLM.
func ClassifyConversionError(err error) error {
	return conversionClassifier.classify(err)
}

// ClassifyServerError converts any remaining failure into an *Error at the
// server stage. Unmatched errors become EUNEXPECTED.
func ClassifyServerError(err error) error {
	return serverClassifier.classify(err)
}
