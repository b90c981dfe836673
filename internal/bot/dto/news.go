package dto

// NewsItem is one headline. Title is never empty once it leaves a provider.
type NewsItem struct {
	Title   string `json:"title"`
	Summary string `json:"summary,omitempty"`
	URL     string `json:"url,omitempty"`
	Source  string `json:"source,omitempty"`
}

// FetchOptions selects what the orchestrator fetches per symbol.
type FetchOptions struct {
	IncludeNews bool
	NewsLimit   int
}

// FetchResult is the outcome of one symbol in an orchestration run.
// A nil Quote means the quote is not available.
type FetchResult struct {
	Symbol string     `json:"symbol"`
	Quote  *Quote     `json:"quote,omitempty"`
	News   []NewsItem `json:"news"`
}

// HasQuote reports whether a quote was fetched.
func (r FetchResult) HasQuote() bool {
	return r.Quote != nil
}
