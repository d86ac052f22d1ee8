package htmltomarkdown_test

import (
	"testing"

	"github.com/fwojciec/docmcp"
	"github.com/fwojciec/docmcp/htmltomarkdown"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConverter_Convert(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		html string
		want []string
	}{
		{
			name: "headings",
			html: `<h1>Title</h1><h2>Subtitle</h2>`,
			want: []string{"# Title", "## Subtitle"},
		},
		{
			name: "links",
			html: `<p>See <a href="https://example.com">Example</a>.</p>`,
			want: []string{"[Example](https://example.com)"},
		},
		{
			name: "lists",
			html: `<ul><li>First</li></ul><ol><li>One</li><li>Two</li></ol>`,
			want: []string{"- First", "1. One", "2. Two"},
		},
		{
			name: "code blocks keep language hint",
			html: "<pre><code class=\"language-go\">package main\n</code></pre><p>Run <code>go build</code>.</p>",
			want: []string{"```go", "package main", "`go build`"},
		},
		{
			name: "tables",
			html: `<table><thead><tr><th>Option</th><th>Default</th></tr></thead><tbody><tr><td>timeout</td><td>30s</td></tr></tbody></table>`,
			want: []string{"Option", "timeout", "30s", "|", "---"},
		},
		{
			name: "drops scripts",
			html: `<p>Body</p><script>alert("x")</script>`,
			want: []string{"Body"},
		},
	}
	conv := htmltomarkdown.NewConverter()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			md, err := conv.Convert(tt.html)

			require.NoError(t, err)
			for _, w := range tt.want {
				assert.Contains(t, md, w)
			}
			assert.NotContains(t, md, "alert(")
		})
	}
}

func TestConverter_Convert_TrimsOutput(t *testing.T) {
	t.Parallel()

	md, err := htmltomarkdown.NewConverter().Convert("\n\n<p>Hello</p>\n\n")

	require.NoError(t, err)
	assert.Equal(t, "Hello", md)
}

func TestConverter_Convert_ResolvesRelativeLinks(t *testing.T) {
	t.Parallel()

	conv := htmltomarkdown.NewConverter(htmltomarkdown.WithDomain("https://docs.example.com"))
	md, err := conv.Convert(`<a href="/guide/setup">Setup</a>`)

	require.NoError(t, err)
	assert.Contains(t, md, "[Setup](https://docs.example.com/guide/setup)")
}

func TestConverter_Convert_RejectsEmptyInput(t *testing.T) {
	t.Parallel()

	_, err := htmltomarkdown.NewConverter().Convert("   ")

	require.Error(t, err)
	assert.Equal(t, docmcp.EVALIDATION, docmcp.ErrorCode(err))
}
