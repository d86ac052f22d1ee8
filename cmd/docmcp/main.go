package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/docmcp"
	"github.com/fwojciec/docmcp/prometheus"
	"github.com/joho/godotenv"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Getenv reads configuration from the environment.
	Getenv func(string) string

	// LoadEnv loads a .env file into the environment before parsing.
	// A missing file is not an error.
	LoadEnv func() error

	// Services for end-to-end testing. When nil they are built from the
	// environment.
	CrawlService docmcp.CrawlService
	Completer    docmcp.Completer

	Now func() time.Time
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		Getenv:  os.Getenv,
		LoadEnv: func() error { return godotenv.Load() },
		Now:     time.Now,
	}
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	if m.LoadEnv != nil {
		if err := m.LoadEnv(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load .env: %w", err)
		}
	}

	deps := &Dependencies{
		Ctx:          ctx,
		Stdout:       stdout,
		Stderr:       stderr,
		Getenv:       m.Getenv,
		Now:          m.Now,
		CrawlService: m.CrawlService,
		Completer:    m.Completer,
	}

	if deps.Now == nil {
		deps.Now = time.Now
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("docmcp"),
		kong.Description("Crawl documentation sites and rewrite every page into structured Markdown."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'docmcp --help' to see available commands")
	}
	if cmd := args[0]; cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	deps.Flags = &cli.PipelineFlags
	deps.Logger = newLogger(stderr, cli.Verbose, cli.LogFormat)
	deps.Metrics = prometheus.NewMetrics(nil)

	return kongCtx.Run(deps)
}

// newLogger returns a text or JSON slog logger writing to w.
func newLogger(w io.Writer, verbose bool, format string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if verbose {
		opts.Level = slog.LevelDebug
	}
	if format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
