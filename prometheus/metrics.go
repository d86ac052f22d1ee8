// Package prometheus records docmcp pipeline metrics with Prometheus and
// serves them for scraping.
package prometheus

import (
	"context"
	"net/http"
	"time"

	"github.com/fwojciec/docmcp"
	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "docmcp"

// Result label values.
const (
	ResultSuccess  = "success"
	ResultFailure  = "failure"
	ResultFallback = "fallback"
)

// Metrics holds the collectors for one registry.
type Metrics struct {
	reg *prom.Registry

	crawlCalls        *prom.CounterVec
	crawlDuration     *prom.HistogramVec
	completions       *prom.CounterVec
	completionLatency prom.Histogram
	pages             *prom.CounterVec
	requests          *prom.CounterVec
	requestDuration   prom.Histogram
}

// NewMetrics constructs the collectors and registers them with reg.
// A nil reg gets a fresh registry.
func NewMetrics(reg *prom.Registry) *Metrics {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	m := &Metrics{
		reg: reg,
		crawlCalls: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "crawl_service_calls_total",
			Help:      "Crawl service calls by operation and result",
		}, []string{"operation", "result"}),
		crawlDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "crawl_service_call_duration_seconds",
			Help:      "Duration of crawl service calls",
			Buckets:   prom.DefBuckets,
		}, []string{"operation"}),
		completions: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "completions_total",
			Help:      "Completion requests by result",
		}, []string{"result"}),
		completionLatency: prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "completion_duration_seconds",
			Help:      "Duration of completion requests",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 20, 40, 80},
		}),
		pages: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "pages_converted_total",
			Help:      "Converted pages by result",
		}, []string{"result"}),
		requests: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "crawl_and_convert_total",
			Help:      "Crawl and convert requests by category (empty on success)",
		}, []string{"category", "stage"}),
		requestDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "crawl_and_convert_duration_seconds",
			Help:      "End-to-end duration of crawl and convert requests",
			Buckets:   prom.ExponentialBuckets(1, 2, 10),
		}),
	}
	reg.MustRegister(m.crawlCalls, m.crawlDuration, m.completions, m.completionLatency, m.pages, m.requests, m.requestDuration)
	return m
}

// Registry returns the registry the collectors are registered with.
func (m *Metrics) Registry() *prom.Registry {
	return m.reg
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{EnableOpenMetrics: true})
}

// ObserveProgress counts a finished page. It has the shape of
// docmcp.ConvertProgressFunc.
func (m *Metrics) ObserveProgress(p docmcp.ConvertProgress) {
	if p.Fallback {
		m.pages.WithLabelValues(ResultFallback).Inc()
		return
	}
	m.pages.WithLabelValues(ResultSuccess).Inc()
}

func result(err error) string {
	if err != nil {
		return ResultFailure
	}
	return ResultSuccess
}

// Ensure decorators implement their interfaces.
var (
	_ docmcp.CrawlService   = (*CrawlService)(nil)
	_ docmcp.Completer      = (*Completer)(nil)
	_ docmcp.CrawlConverter = (*CrawlConverter)(nil)
)

// CrawlService wraps a docmcp.CrawlService with call metrics.
type CrawlService struct {
	next    docmcp.CrawlService
	metrics *Metrics
}

// NewCrawlService creates a new instrumented CrawlService.
func NewCrawlService(next docmcp.CrawlService, m *Metrics) *CrawlService {
	return &CrawlService{next: next, metrics: m}
}

// StartCrawl delegates to the wrapped service.
func (s *CrawlService) StartCrawl(ctx context.Context, rootURL string) (id string, err error) {
	defer s.observe("start", time.Now(), &err)
	return s.next.StartCrawl(ctx, rootURL)
}

// CrawlStatus delegates to the wrapped service.
func (s *CrawlService) CrawlStatus(ctx context.Context, id string) (status *docmcp.CrawlStatus, err error) {
	defer s.observe("status", time.Now(), &err)
	return s.next.CrawlStatus(ctx, id)
}

func (s *CrawlService) observe(op string, begin time.Time, err *error) {
	s.metrics.crawlDuration.WithLabelValues(op).Observe(time.Since(begin).Seconds())
	s.metrics.crawlCalls.WithLabelValues(op, result(*err)).Inc()
}

// Completer wraps a docmcp.Completer with request metrics.
type Completer struct {
	next    docmcp.Completer
	metrics *Metrics
}

// NewCompleter creates a new instrumented Completer.
func NewCompleter(next docmcp.Completer, m *Metrics) *Completer {
	return &Completer{next: next, metrics: m}
}

// Complete delegates to the wrapped completer.
func (c *Completer) Complete(ctx context.Context, req docmcp.CompletionRequest) (out string, err error) {
	defer func(begin time.Time) {
		c.metrics.completionLatency.Observe(time.Since(begin).Seconds())
		c.metrics.completions.WithLabelValues(result(err)).Inc()
	}(time.Now())
	return c.next.Complete(ctx, req)
}

// CrawlConverter wraps a docmcp.CrawlConverter with request metrics.
type CrawlConverter struct {
	next    docmcp.CrawlConverter
	metrics *Metrics
}

// NewCrawlConverter creates a new instrumented CrawlConverter.
func NewCrawlConverter(next docmcp.CrawlConverter, m *Metrics) *CrawlConverter {
	return &CrawlConverter{next: next, metrics: m}
}

// CrawlAndConvert delegates to the wrapped service.
func (c *CrawlConverter) CrawlAndConvert(ctx context.Context, rootURL string) (report *docmcp.Report, err error) {
	defer func(begin time.Time) {
		c.metrics.requestDuration.Observe(time.Since(begin).Seconds())
		c.metrics.requests.WithLabelValues(docmcp.ErrorCode(err), string(docmcp.ErrorStage(err))).Inc()
	}(time.Now())
	return c.next.CrawlAndConvert(ctx, rootURL)
}
