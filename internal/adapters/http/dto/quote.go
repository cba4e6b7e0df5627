package dto

import (
	"github.com/jsamuelsen/quote-service/internal/domain"
)

// MessageQuoteNotFound is the body message of a 404 on quote lookup.
const MessageQuoteNotFound = "Quote not found"

// QuoteResponse is the JSON representation of a stored quote.
type QuoteResponse struct {
	ID        int64  `json:"id"`
	QuoteText string `json:"quoteText"`
	Author    string `json:"author"`
	Likes     int    `json:"likes"`
}

// NewQuoteResponse converts a domain quote.
func NewQuoteResponse(q *domain.Quote) *QuoteResponse {
	return &QuoteResponse{
		ID:        q.ID,
		QuoteText: q.Text,
		Author:    q.Author,
		Likes:     q.Likes,
	}
}

// NewQuoteListResponse converts a slice of domain quotes. The result is never
// nil so an empty store serializes as [].
func NewQuoteListResponse(quotes []domain.Quote) []QuoteResponse {
	out := make([]QuoteResponse, 0, len(quotes))
	for i := range quotes {
		out = append(out, *NewQuoteResponse(&quotes[i]))
	}

	return out
}
