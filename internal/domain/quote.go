package domain

// Quote is a stored quotation.
// (Text, Author) is unique across the store.
type Quote struct {
	// ID is assigned by the store and never changes.
	ID int64

	// Text is the quotation itself. Never empty.
	Text string

	// Author is who said or wrote the quote. May be empty.
	Author string

	// Likes counts explicit like operations. Starts at 0.
	Likes int
}

// QuoteCandidate is a quote that has not been stored yet, typically one
// entry of a batch pulled from the remote provider.
type QuoteCandidate struct {
	Text   string
	Author string
}

// Key returns the identity used for deduplication: exact, case-sensitive
// (text, author) equality.
func (c QuoteCandidate) Key() QuoteKey {
	return QuoteKey{Text: c.Text, Author: c.Author}
}

// QuoteKey is the (text, author) pair that identifies a quote's content.
type QuoteKey struct {
	Text   string
	Author string
}

// Key returns the content identity of a stored quote.
func (q Quote) Key() QuoteKey {
	return QuoteKey{Text: q.Text, Author: q.Author}
}
