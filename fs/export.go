// Package fs writes conversion reports to files: a JSON results file, a
// directory of Markdown files and a zip archive.
package fs

import (
	"archive/zip"
	"encoding/json"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/fwojciec/docmcp"
	"github.com/nao1215/markdown"
)

// ReadmeName is the index file written next to the converted pages.
const ReadmeName = "README.md"

const footer = "*Generated by DocMCP - LLM Documentation Converter*"

// maxFileName bounds generated file names.
const maxFileName = 100

var (
	unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9\-_.]`)
	underscores = regexp.MustCompile(`_{2,}`)
)

// FileName returns the archive file name for the result at index
// (zero-based), e.g. "01_Getting_Started.md".
// Long titles are cut so the name stays within maxFileName bytes and keeps
// its number prefix and .md extension.
func FileName(index int, title string) string {
	prefix := fmt.Sprintf("%02d_", index+1)
	title = unsafeChars.ReplaceAllString(title, "_")
	title = underscores.ReplaceAllString(title, "_")
	title = strings.TrimLeft(title, "_")
	if n := maxFileName - len(prefix) - len(".md"); len(title) > n {
		title = title[:n]
	}
	return prefix + title + ".md"
}

// FormatResult formats a result as a standalone Markdown file with a
// header block naming its source.
func FormatResult(result *docmcp.ConversionResult, generated time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", result.Title)
	fmt.Fprintf(&b, "**Source URL:** %s\n", result.URL)
	fmt.Fprintf(&b, "**Generated:** %s\n\n", generated.UTC().Format(time.RFC3339))
	b.WriteString("---\n\n")
	b.WriteString(result.Markdown)
	b.WriteString("\n\n---\n\n")
	b.WriteString(footer)
	return b.String()
}

// WriteReadme writes the index of an export: a summary of the run and a
// table of the generated files.
func WriteReadme(w io.Writer, report *docmcp.Report, generated time.Time) error {
	md := markdown.NewMarkdown(w)
	md.H1("DocMCP Conversion Results")
	md.PlainText("")
	md.PlainTextf("**Generated:** %s  ", generated.UTC().Format(time.RFC3339))
	md.PlainTextf("**Source URL:** %s  ", report.SourceURL)
	md.PlainTextf("**Total Pages:** %d", len(report.Results))
	md.PlainText("")

	md.H2("Overview")
	md.PlainText("")
	md.PlainTextf("This export contains %d Markdown files converted from the documentation website.", len(report.Results))
	md.PlainText("")

	md.H2("Files")
	md.PlainText("")
	rows := make([][]string, 0, len(report.Results))
	for i, r := range report.Results {
		rows = append(rows, []string{fmt.Sprintf("%d", i+1), FileName(i, r.Title), tableCell(r.Title), r.URL})
	}
	md.Table(markdown.TableSet{
		Header: []string{"#", "File", "Title", "Source URL"},
		Rows:   rows,
	})
	md.PlainText("")

	md.HorizontalRule()
	md.PlainText("")
	md.PlainText(footer)
	return md.Build()
}

func tableCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

// WriteArchive writes a zip archive holding README.md and one file per
// result, numbered in report order.
func WriteArchive(w io.Writer, report *docmcp.Report, generated time.Time) error {
	zw := zip.NewWriter(w)

	f, err := zw.CreateHeader(&zip.FileHeader{Name: ReadmeName, Method: zip.Deflate, Modified: generated})
	if err != nil {
		return err
	}
	if err := WriteReadme(f, report, generated); err != nil {
		return err
	}

	for i, r := range report.Results {
		f, err := zw.CreateHeader(&zip.FileHeader{Name: FileName(i, r.Title), Method: zip.Deflate, Modified: generated})
		if err != nil {
			return err
		}
		if _, err := io.WriteString(f, FormatResult(r, generated)); err != nil {
			return err
		}
	}

	return zw.Close()
}

// resultsFile is the JSON shape of a saved batch run.
type resultsFile struct {
	GeneratedAt time.Time                  `json:"generatedAt"`
	TotalPages  int                        `json:"totalPages"`
	SourceURL   string                     `json:"sourceUrl,omitempty"`
	Results     []*docmcp.ConversionResult `json:"results"`
}

// WriteResults writes the report as an indented JSON results file.
func WriteResults(w io.Writer, report *docmcp.Report, generated time.Time) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(resultsFile{
		GeneratedAt: generated.UTC(),
		TotalPages:  len(report.Results),
		SourceURL:   report.SourceURL,
		Results:     report.Results,
	})
}
