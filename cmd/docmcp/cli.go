package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/docmcp"
	"github.com/fwojciec/docmcp/prometheus"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx     context.Context
	Stdout  io.Writer
	Stderr  io.Writer
	Logger  *slog.Logger
	Metrics *prometheus.Metrics
	Flags   *PipelineFlags
	Getenv  func(string) string
	Now     func() time.Time

	// Overrides; built from the environment when nil.
	CrawlService docmcp.CrawlService
	Completer    docmcp.Completer
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	PipelineFlags

	Verbose   bool   `short:"v" help:"Enable debug logging"`
	LogFormat string `name:"log-format" enum:"text,json" default:"text" help:"Log output format (text or json)"`

	Serve   ServeCmd   `cmd:"" help:"Run the HTTP API and browser UI"`
	Run     RunCmd     `cmd:"" help:"Crawl a documentation site and convert every page"`
	Convert ConvertCmd `cmd:"" help:"Convert a saved crawl output file"`
}

// PipelineFlags configure the crawl and conversion stages.
type PipelineFlags struct {
	Model          string        `default:"gemini-2.5-flash" help:"Gemini model used for conversion"`
	MaxTokens      int32         `name:"max-tokens" default:"4000" help:"Maximum output tokens per page"`
	Temperature    float32       `default:"0.1" help:"Sampling temperature"`
	Interval       time.Duration `default:"1s" help:"Delay between completion requests"`
	Concurrency    int           `short:"c" default:"1" help:"Pages converted concurrently (1 keeps strict sequential order)"`
	MaxInputTokens int           `name:"max-input-tokens" help:"Truncate page content to this many prompt tokens (0 disables)"`
	CrawlLimit     int           `name:"crawl-limit" default:"100" help:"Maximum pages per crawl job"`
	Deadline       time.Duration `help:"End-to-end deadline per crawl and convert request (0 disables)"`

	SystemPromptFile  string        `name:"system-prompt-file" help:"Replace the built-in conversion prompt with this file's contents"`
	ConversionTimeout time.Duration `name:"conversion-timeout" default:"10m" help:"Bound on converting all pages of one request"`
}

// OutputFlags select where results are written.
type OutputFlags struct {
	Output string `short:"o" default:"./output/converted.json" help:"Results file (JSON)"`
	Dir    string `help:"Also write one Markdown file per page to this directory"`
	Zip    string `help:"Also write a zip archive of the Markdown files"`
}

// ServeCmd is the "serve" subcommand.
type ServeCmd struct {
	Port        string `env:"PORT" default:"3000" help:"Listen port"`
	Environment string `env:"ENVIRONMENT" default:"development" help:"Deployment environment; production enables security headers"`
}

// RunCmd is the "run" subcommand.
type RunCmd struct {
	URL string `arg:"" help:"Documentation root URL"`
	OutputFlags
}

// ConvertCmd is the "convert" subcommand.
type ConvertCmd struct {
	Input     string `short:"i" default:"./output/output.json" help:"Saved crawl output (Firecrawl crawl status JSON)"`
	SourceURL string `name:"source-url" help:"Source URL recorded in the results (defaults to the first page)"`
	OutputFlags
}
