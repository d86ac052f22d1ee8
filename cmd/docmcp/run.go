package main

import (
	"github.com/fwojciec/docmcp"
)

// Run crawls the URL, converts every page and writes the outputs.
func (c *RunCmd) Run(deps *Dependencies) error {
	if err := docmcp.ValidateURL(c.URL); err != nil {
		return err
	}

	service, err := newCrawlConverter(deps)
	if err != nil {
		return err
	}

	report, err := service.CrawlAndConvert(deps.Ctx, c.URL)
	if err != nil {
		return err
	}

	printSummary(deps, report)
	return writeOutputs(deps, c.OutputFlags, report)
}
