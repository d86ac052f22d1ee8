package docmcp_test

import (
	"testing"

	"github.com/fwojciec/docmcp"
	"github.com/stretchr/testify/assert"
)

func TestOutline(t *testing.T) {
	t.Parallel()

	t.Run("returns headings in order", func(t *testing.T) {
		t.Parallel()

		md := "# Getting Started\n\nIntro.\n\n## Install\n\n### From source ###\n"

		assert.Equal(t, []docmcp.Heading{
			{Level: 1, Title: "Getting Started", Anchor: "getting-started"},
			{Level: 2, Title: "Install", Anchor: "install"},
			{Level: 3, Title: "From source", Anchor: "from-source"},
		}, docmcp.Outline(md))
	})

	t.Run("skips fenced code", func(t *testing.T) {
		t.Parallel()

		md := "## Usage\n\n```bash\n# not a heading\n```\n\n~~~\n# nor this\n~~~\n## Options\n"

		headings := docmcp.Outline(md)

		assert.Len(t, headings, 2)
		assert.Equal(t, "Options", headings[1].Title)
	})

	t.Run("suffixes repeated anchors", func(t *testing.T) {
		t.Parallel()

		headings := docmcp.Outline("## Example\n## Example\n## Example\n")

		assert.Equal(t, "example", headings[0].Anchor)
		assert.Equal(t, "example-1", headings[1].Anchor)
		assert.Equal(t, "example-2", headings[2].Anchor)
	})

	t.Run("ignores hashes without a space", func(t *testing.T) {
		t.Parallel()

		assert.Empty(t, docmcp.Outline("#hashtag\n####### seven\n#\n"))
	})

	t.Run("empty document", func(t *testing.T) {
		t.Parallel()

		assert.Empty(t, docmcp.Outline(""))
	})
}

func TestAnchor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		title string
		want  string
	}{
		{"Getting Started", "getting-started"},
		{"API: Reference (v2)", "api-reference-v2"},
		{"snake_case name", "snake-case-name"},
		{"  spaced  out  ", "spaced-out"},
		{"Über Café", "über-café"},
	}
	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, docmcp.Anchor(tt.title))
		})
	}
}
