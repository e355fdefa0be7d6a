package driven

import "context"

// WebSearchResult is a single web search hit.
type WebSearchResult struct {
	Title   string
	URL     string
	Content string
}

// WebSearchProvider queries a web search API.
type WebSearchProvider interface {
	// Search returns results for query, most relevant first.
	Search(ctx context.Context, query string) ([]WebSearchResult, error)
}
