//go:build integration

package integration

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/quote-service/internal/domain"
)

func startHarness(t *testing.T) *harness {
	t.Helper()

	h, err := newHarness(context.Background())
	require.NoError(t, err)
	t.Cleanup(h.close)

	return h
}

func send(t *testing.T, method, url, body string) (int, string) {
	t.Helper()

	status, resp, err := trySend(method, url, body)
	require.NoError(t, err)

	return status, resp
}

// trySend is send without require so it can run off the test goroutine.
func trySend(method, url, body string) (int, string, error) {
	var reader io.Reader = http.NoBody
	if body != "" {
		reader = strings.NewReader(body)
	}

	req, err := http.NewRequestWithContext(context.Background(), method, url, reader)
	if err != nil {
		return 0, "", err
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return 0, "", err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)

	return resp.StatusCode, string(data), err
}

func TestConcurrentLikes_NoLostUpdates(t *testing.T) {
	h := startHarness(t)

	_, err := h.store.InsertMany(context.Background(), []domain.QuoteCandidate{
		{Text: "Errors are values.", Author: "Rob Pike"},
	})
	require.NoError(t, err)

	const likes = 25

	var wg sync.WaitGroup
	for range likes {
		wg.Add(1)
		go func() {
			defer wg.Done()

			status, _, err := trySend(http.MethodPatch, h.server.URL+"/api/v1/quote/1/like", "")
			assert.NoError(t, err)
			assert.Equal(t, http.StatusOK, status)
		}()
	}

	wg.Wait()

	quote, err := h.store.FindByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, likes, quote.Likes)
}

func TestConcurrentRefill_NoDuplicateQuotes(t *testing.T) {
	h := startHarness(t)

	_, err := h.store.InsertMany(context.Background(), []domain.QuoteCandidate{
		{Text: "Errors are values.", Author: "Rob Pike"},
	})
	require.NoError(t, err)

	h.zen.respondWith([]zenQuoteEntry{
		{Q: "Errors are values.", A: "Rob Pike"},
		{Q: "Simplicity is complicated.", A: "Rob Pike"},
		{Q: "Clear is better than clever.", A: "Rob Pike"},
	})

	const callers = 10

	statuses := make(chan int, callers)

	var wg sync.WaitGroup
	for range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()

			status, _, err := trySend(http.MethodPost, h.server.URL+"/api/v1/quote", "[1]")
			assert.NoError(t, err)
			statuses <- status
		}()
	}

	wg.Wait()
	close(statuses)

	for status := range statuses {
		assert.Contains(t, []int{http.StatusOK, http.StatusNoContent}, status)
	}

	all, err := h.store.ListAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 3, "every (text, author) pair is stored once")
	assert.LessOrEqual(t, int(h.zen.calls.Load()), callers)
}

func TestRandomQuote_ExhaustsThenRefills(t *testing.T) {
	h := startHarness(t)

	h.zen.respondWith([]zenQuoteEntry{
		{Q: "Errors are values.", A: "Rob Pike"},
		{Q: "Simplicity is complicated.", A: "Rob Pike"},
	})

	seen := make([]int64, 0, 2)
	for range 2 {
		body, err := json.Marshal(seen)
		require.NoError(t, err)

		status, resp := send(t, http.MethodPost, h.server.URL+"/api/v1/quote", string(body))
		require.Equal(t, http.StatusOK, status, resp)

		var quote struct {
			ID int64 `json:"id"`
		}
		require.NoError(t, json.Unmarshal([]byte(resp), &quote))
		assert.NotContains(t, seen, quote.ID)

		seen = append(seen, quote.ID)
	}

	assert.Equal(t, int32(1), h.zen.calls.Load(), "second selection is served from the refilled store")

	// Both quotes seen and ZenQuotes has nothing new.
	status, _ := send(t, http.MethodPost, h.server.URL+"/api/v1/quote", "[1,2]")
	assert.Equal(t, http.StatusNoContent, status)
	assert.Equal(t, int32(2), h.zen.calls.Load())
}

func TestCORS_AllowList(t *testing.T) {
	h := startHarness(t)

	req, err := http.NewRequestWithContext(context.Background(), http.MethodOptions, h.server.URL+"/api/v1/quotes", http.NoBody)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "http://localhost:3000", resp.Header.Get("Access-Control-Allow-Origin"))
}
