// Package acl is the anti-corruption layer between the quote service and
// the remote quote provider. ZenQuotes payloads and failures never cross
// it: callers see domain.QuoteCandidate values and domain errors only.
package acl
