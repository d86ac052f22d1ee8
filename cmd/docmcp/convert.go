package main

import (
	"context"
	"fmt"
	"os"

	"github.com/fwojciec/docmcp"
)

// Run converts a saved crawl output file without calling the crawl service.
func (c *ConvertCmd) Run(deps *Dependencies) error {
	f, err := os.Open(c.Input)
	if err != nil {
		return fmt.Errorf("failed to open crawl output: %w", err)
	}
	defer f.Close()

	pages, err := newFirecrawlClient(deps).ReadCrawlOutput(f)
	if err != nil {
		return err
	}
	if len(pages) == 0 {
		return docmcp.Errorf(docmcp.ENOCONTENT, "No pages found in %s", c.Input)
	}
	fmt.Fprintf(deps.Stdout, "Loaded %d pages from %s\n", len(pages), c.Input)

	comp, err := completer(deps)
	if err != nil {
		return err
	}
	p, err := newPipeline(deps, comp)
	if err != nil {
		return err
	}

	ctx := deps.Ctx
	if t := deps.Flags.ConversionTimeout; t > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t)
		defer cancel()
	}

	results, err := p.ConvertAll(ctx, pages)
	if err != nil {
		return docmcp.ClassifyConversionError(err)
	}

	sourceURL := c.SourceURL
	if sourceURL == "" {
		sourceURL = pages[0].SourceURL()
	}
	report := docmcp.NewReport(sourceURL, results, deps.Now())

	printSummary(deps, report)
	return writeOutputs(deps, c.OutputFlags, report)
}
