package fs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/docmcp"
	"gopkg.in/yaml.v3"
)

// FileStore writes conversion results as Markdown files with atomic update
// semantics. Files are saved to a temporary directory, then moved into
// place on Commit.
type FileStore struct {
	baseDir string
	name    string
	now     func() time.Time
}

// NewFileStore creates a new FileStore.
// baseDir is the parent directory, name is the output directory name.
// Files are saved to baseDir/name.tmp and moved to baseDir/name on Commit.
func NewFileStore(baseDir, name string) *FileStore {
	return &FileStore{
		baseDir: baseDir,
		name:    name,
		now:     time.Now,
	}
}

func (s *FileStore) tempDir() string {
	return filepath.Join(s.baseDir, s.name+".tmp")
}

func (s *FileStore) finalDir() string {
	return filepath.Join(s.baseDir, s.name)
}

// Save writes the result at index to the temporary directory.
func (s *FileStore) Save(ctx context.Context, index int, result *docmcp.ConversionResult) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(s.tempDir(), 0755); err != nil {
		return err
	}
	content, err := FormatPage(result, s.now())
	if err != nil {
		return err
	}
	path := filepath.Join(s.tempDir(), FileName(index, result.Title))
	return os.WriteFile(path, []byte(content), 0644)
}

// SaveReport saves every result plus a README and commits. On failure the
// temporary directory is removed and any previous output is left intact.
func (s *FileStore) SaveReport(ctx context.Context, report *docmcp.Report) (err error) {
	defer func() {
		if err != nil {
			_ = s.Abort()
		}
	}()

	for i, r := range report.Results {
		if err := s.Save(ctx, i, r); err != nil {
			return err
		}
	}

	if err := os.MkdirAll(s.tempDir(), 0755); err != nil {
		return err
	}
	f, err := os.Create(filepath.Join(s.tempDir(), ReadmeName))
	if err != nil {
		return err
	}
	if err := WriteReadme(f, report, s.now()); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	return s.Commit()
}

// frontmatter is the YAML header of a saved page. Hash identifies the
// converted content so unchanged pages can be recognized across runs.
type frontmatter struct {
	Source    string `yaml:"source"`
	Title     string `yaml:"title"`
	Generated string `yaml:"generated"`
	Hash      string `yaml:"hash"`

	Outline []docmcp.Heading `yaml:"outline,omitempty"`
}

// FormatPage formats a result with YAML frontmatter.
func FormatPage(result *docmcp.ConversionResult, generated time.Time) (string, error) {
	header, err := yaml.Marshal(frontmatter{
		Source:    result.URL,
		Title:     result.Title,
		Generated: generated.UTC().Format("2006-01-02"),
		Hash:      fmt.Sprintf("%016x", xxhash.Sum64String(result.Markdown)),
		Outline:   docmcp.Outline(result.Markdown),
	})
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("---\n")
	b.Write(header)
	b.WriteString("---\n\n")
	b.WriteString(result.Markdown)
	b.WriteString("\n")
	return b.String(), nil
}

// Commit replaces the output directory with the temporary directory.
func (s *FileStore) Commit() error {
	if err := os.RemoveAll(s.finalDir()); err != nil {
		return err
	}
	return os.Rename(s.tempDir(), s.finalDir())
}

// Abort discards the temporary directory.
func (s *FileStore) Abort() error {
	return os.RemoveAll(s.tempDir())
}
