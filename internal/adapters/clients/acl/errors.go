package acl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/jsamuelsen/quote-service/internal/adapters/clients"
	"github.com/jsamuelsen/quote-service/internal/domain"
)

// maxErrorSnippet bounds how much of an error body is kept in the reason.
const maxErrorSnippet = 128

// transportFailure turns an error from clients.Client into an
// UnavailableError. When ctx itself is done the error passes through
// untouched so callers can tell a cancelled request from a broken provider.
func transportFailure(ctx context.Context, service string, err error) error {
	if ctx.Err() != nil {
		return err
	}

	var status *clients.StatusError

	switch {
	case errors.Is(err, clients.ErrCircuitOpen):
		return domain.WrapUnavailable(service, "circuit breaker open", err)
	case errors.As(err, &status) && status.StatusCode == http.StatusTooManyRequests:
		return domain.WrapUnavailable(service, "rate limited", err)
	case errors.Is(err, clients.ErrMaxRetriesExceeded):
		return domain.WrapUnavailable(service, "gave up after retries", err)
	}

	return domain.WrapUnavailable(service, "", err)
}

// statusFailure describes a response the client handed back without
// retrying, which for ZenQuotes means a 4xx. The body is read up to
// maxErrorSnippet bytes and closed.
func statusFailure(service string, resp *http.Response) error {
	defer func() { _ = resp.Body.Close() }()

	snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorSnippet))
	reason := fmt.Sprintf("status %d", resp.StatusCode)

	if s := strings.TrimSpace(string(snippet)); s != "" {
		reason += ": " + s
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		reason = "rate limited"
	}

	return domain.NewUnavailableError(service, reason)
}
