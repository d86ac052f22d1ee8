package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fwojciec/docmcp"
	"github.com/fwojciec/docmcp/crawl"
	"github.com/fwojciec/docmcp/firecrawl"
	"github.com/fwojciec/docmcp/fs"
	"github.com/fwojciec/docmcp/gemini"
	"github.com/fwojciec/docmcp/goquery"
	"github.com/fwojciec/docmcp/htmltomarkdown"
	"github.com/fwojciec/docmcp/pipeline"
	"github.com/fwojciec/docmcp/prometheus"
	docslog "github.com/fwojciec/docmcp/slog"
	"github.com/fwojciec/docmcp/transform"
	"google.golang.org/genai"
)

// tokenizerModel is used for prompt budgeting; the local tokenizer does
// not know every generation model.
const tokenizerModel = gemini.DefaultModel

// newFirecrawlClient builds the crawl service client from the environment.
func newFirecrawlClient(deps *Dependencies) *firecrawl.Client {
	opts := []firecrawl.Option{
		firecrawl.WithLimit(deps.Flags.CrawlLimit),
		firecrawl.WithConverter(htmltomarkdown.NewConverter()),
		firecrawl.WithTitleExtractor(goquery.NewTitleExtractor()),
	}
	if u := deps.Getenv("FIRECRAWL_BASE_URL"); u != "" {
		opts = append(opts, firecrawl.WithBaseURL(u))
	}
	return firecrawl.NewClient(deps.Getenv("FIRECRAWL_API_KEY"), opts...)
}

// crawlService returns the decorated crawl service.
func crawlService(deps *Dependencies) (docmcp.CrawlService, error) {
	svc := deps.CrawlService
	if svc == nil {
		if deps.Getenv("FIRECRAWL_API_KEY") == "" {
			fmt.Fprintln(deps.Stderr, "FIRECRAWL_API_KEY environment variable not set. Get an API key at https://firecrawl.dev")
			return nil, fmt.Errorf("FIRECRAWL_API_KEY not set")
		}
		svc = newFirecrawlClient(deps)
	}
	svc = docslog.NewLoggingCrawlService(svc, deps.Logger)
	return prometheus.NewCrawlService(svc, deps.Metrics), nil
}

// completer returns the decorated completion service.
func completer(deps *Dependencies) (docmcp.Completer, error) {
	c := deps.Completer
	if c == nil {
		apiKey := deps.Getenv("GEMINI_API_KEY")
		if apiKey == "" {
			fmt.Fprintln(deps.Stderr, "GEMINI_API_KEY environment variable not set. Get an API key at https://aistudio.google.com/apikey")
			return nil, fmt.Errorf("GEMINI_API_KEY not set. Get a key at https://aistudio.google.com/apikey")
		}

		client, err := genai.NewClient(deps.Ctx, &genai.ClientConfig{
			APIKey:  apiKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			fmt.Fprintln(deps.Stderr, "Hint: Check your GEMINI_API_KEY is valid")
			return nil, fmt.Errorf("failed to connect to Gemini API: %w", err)
		}
		gc := gemini.NewCompleter(client, deps.Flags.Model)
		deps.Logger.Info("gemini completer", "model", gc.Model())
		c = gc
	}
	c = docslog.NewLoggingCompleter(c, deps.Logger)
	return prometheus.NewCompleter(c, deps.Metrics), nil
}

// newPipeline builds the conversion pipeline from the shared flags.
func newPipeline(deps *Dependencies, c docmcp.Completer) (*transform.Pipeline, error) {
	f := deps.Flags
	opts := []transform.Option{
		transform.WithMaxTokens(f.MaxTokens),
		transform.WithTemperature(f.Temperature),
		transform.WithInterval(f.Interval),
		transform.WithConcurrency(f.Concurrency),
		transform.WithProgress(func(p docmcp.ConvertProgress) {
			deps.Metrics.ObserveProgress(p)
			deps.Logger.Info("page converted",
				"url", p.URL,
				"completed", p.Completed,
				"total", p.Total,
				"fallback", p.Fallback,
			)
		}),
	}
	if f.SystemPromptFile != "" {
		prompt, err := os.ReadFile(f.SystemPromptFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read system prompt: %w", err)
		}
		opts = append(opts, transform.WithSystemPrompt(string(prompt)))
	}
	if f.MaxInputTokens > 0 {
		counter, err := gemini.NewTokenCounter(tokenizerModel)
		if err != nil {
			return nil, fmt.Errorf("failed to create token counter: %w", err)
		}
		opts = append(opts, transform.WithInputBudget(counter, f.MaxInputTokens))
	}
	return transform.NewPipeline(c, opts...), nil
}

// newCrawlConverter wires the full crawl and convert service.
func newCrawlConverter(deps *Dependencies) (docmcp.CrawlConverter, error) {
	svc, err := crawlService(deps)
	if err != nil {
		return nil, err
	}
	c, err := completer(deps)
	if err != nil {
		return nil, err
	}
	p, err := newPipeline(deps, c)
	if err != nil {
		return nil, err
	}

	runner := pipeline.NewRunner(
		crawl.NewOrchestrator(svc, crawl.WithClock(deps.Now)),
		p,
		pipeline.WithConversionTimeout(deps.Flags.ConversionTimeout),
		pipeline.WithDeadline(deps.Flags.Deadline),
		pipeline.WithClock(deps.Now),
	)

	var cc docmcp.CrawlConverter = runner
	cc = docslog.NewLoggingCrawlConverter(cc, deps.Logger)
	return prometheus.NewCrawlConverter(cc, deps.Metrics), nil
}

// writeOutputs writes the results file and the optional Markdown
// directory and zip archive.
func writeOutputs(deps *Dependencies, out OutputFlags, report *docmcp.Report) error {
	if err := writeFile(out.Output, func(f *os.File) error {
		return fs.WriteResults(f, report, report.Timestamp)
	}); err != nil {
		return fmt.Errorf("failed to write results: %w", err)
	}
	fmt.Fprintf(deps.Stdout, "Results saved to %s\n", out.Output)

	if out.Dir != "" {
		dir := filepath.Clean(out.Dir)
		store := fs.NewFileStore(filepath.Dir(dir), filepath.Base(dir))
		if err := store.SaveReport(deps.Ctx, report); err != nil {
			return fmt.Errorf("failed to write markdown files: %w", err)
		}
		fmt.Fprintf(deps.Stdout, "Markdown files saved to %s\n", dir)
	}

	if out.Zip != "" {
		if err := writeFile(out.Zip, func(f *os.File) error {
			return fs.WriteArchive(f, report, report.Timestamp)
		}); err != nil {
			return fmt.Errorf("failed to write archive: %w", err)
		}
		fmt.Fprintf(deps.Stdout, "Archive saved to %s\n", out.Zip)
	}
	return nil
}

func writeFile(path string, write func(*os.File) error) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return write(f)
}

// printSummary reports conversion counts.
func printSummary(deps *Dependencies, report *docmcp.Report) {
	fmt.Fprintf(deps.Stdout, "Converted %d pages from %s\n", report.TotalPages, report.SourceURL)
}
