package fasub

// Converter converts HTML to Markdown.
type Converter interface {
	// Convert transforms a description fragment into Markdown for display.
	Convert(html string) (string, error)
}
