package docmcp

// Converter converts HTML to Markdown.
type Converter interface {
	// Convert transforms HTML content into Markdown.
	// Returns the Markdown representation of the content.
	Convert(html string) (string, error)
}

// TitleExtractor finds a page title in HTML.
type TitleExtractor interface {
	// ExtractTitle returns the document title, or an empty string when the
	// document has none.
	ExtractTitle(html string) (string, error)
}
