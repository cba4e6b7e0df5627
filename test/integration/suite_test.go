//go:build integration

package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/cucumber/godog"

	"github.com/jsamuelsen/quote-service/internal/adapters/http/dto"
	"github.com/jsamuelsen/quote-service/internal/domain"
)

// testContext holds state shared across step definitions within a scenario.
type testContext struct {
	h            *harness
	client       *http.Client
	response     *http.Response
	responseBody []byte
}

// newTestContext creates a new test context with sensible defaults.
func newTestContext() *testContext {
	return &testContext{
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// reset tears down the scenario's stack and clears response state.
func (tc *testContext) reset() {
	if tc.response != nil && tc.response.Body != nil {
		tc.response.Body.Close()
	}

	if tc.h != nil {
		tc.h.close()
	}

	tc.h = nil
	tc.response = nil
	tc.responseBody = nil
}

// InitializeScenario registers step definitions for each scenario.
func InitializeScenario(ctx *godog.ScenarioContext) {
	tc := newTestContext()

	// Every scenario gets a fresh store and ZenQuotes stub
	ctx.Before(func(ctx context.Context, _ *godog.Scenario) (context.Context, error) {
		tc.reset()

		h, err := newHarness(ctx)
		if err != nil {
			return ctx, err
		}

		tc.h = h

		return ctx, nil
	})

	ctx.After(func(ctx context.Context, _ *godog.Scenario, err error) (context.Context, error) {
		tc.reset()
		return ctx, err
	})

	// Register step definitions
	ctx.Step(`^the service is running$`, tc.theServiceIsRunning)
	ctx.Step(`^the store contains the quotes:$`, tc.theStoreContainsTheQuotes)
	ctx.Step(`^ZenQuotes returns the batch:$`, tc.zenQuotesReturnsTheBatch)
	ctx.Step(`^ZenQuotes responds with status (\d+)$`, tc.zenQuotesRespondsWithStatus)
	ctx.Step(`^I request (GET|PATCH) "([^"]*)"$`, tc.iRequest)
	ctx.Step(`^I request POST "([^"]*)" with body:$`, tc.iRequestPOSTWithBody)
	ctx.Step(`^the response status should be (\d+)$`, tc.theResponseStatusShouldBe)
	ctx.Step(`^the response should contain "([^"]*)"$`, tc.theResponseShouldContain)
	ctx.Step(`^the response body should be "([^"]*)"$`, tc.theResponseBodyShouldBe)
	ctx.Step(`^the response should be a list of (\d+) quotes?$`, tc.theResponseShouldBeAListOfQuotes)
	ctx.Step(`^the response quote id should be (\d+)$`, tc.theResponseQuoteIDShouldBe)
	ctx.Step(`^the response quote ids should be "([^"]*)"$`, tc.theResponseQuoteIDsShouldBe)
	ctx.Step(`^ZenQuotes should have been called (\d+) times?$`, tc.zenQuotesShouldHaveBeenCalled)
}

// theServiceIsRunning verifies the service is reachable.
func (tc *testContext) theServiceIsRunning() error {
	if err := tc.do(http.MethodGet, "/-/live", nil); err != nil {
		return err
	}

	if tc.response.StatusCode != http.StatusOK {
		return fmt.Errorf("service health check failed with status %d", tc.response.StatusCode)
	}

	return nil
}

func (tc *testContext) theStoreContainsTheQuotes(table *godog.Table) error {
	candidates := make([]domain.QuoteCandidate, 0, len(table.Rows))
	for _, row := range table.Rows[1:] {
		candidates = append(candidates, domain.QuoteCandidate{
			Text:   row.Cells[0].Value,
			Author: row.Cells[1].Value,
		})
	}

	_, err := tc.h.store.InsertMany(context.Background(), candidates)

	return err
}

func (tc *testContext) zenQuotesReturnsTheBatch(table *godog.Table) error {
	batch := make([]zenQuoteEntry, 0, len(table.Rows))
	for _, row := range table.Rows[1:] {
		batch = append(batch, zenQuoteEntry{Q: row.Cells[0].Value, A: row.Cells[1].Value})
	}

	tc.h.zen.respondWith(batch)

	return nil
}

func (tc *testContext) zenQuotesRespondsWithStatus(status int) error {
	tc.h.zen.failWith(status)
	return nil
}

func (tc *testContext) iRequest(method, path string) error {
	return tc.do(method, path, nil)
}

func (tc *testContext) iRequestPOSTWithBody(path string, body *godog.DocString) error {
	return tc.do(http.MethodPost, path, []byte(body.Content))
}

// do sends a request to the in-process server and buffers the body.
func (tc *testContext) do(method, path string, body []byte) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var reader io.Reader = http.NoBody
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, tc.h.server.URL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if tc.response != nil {
		tc.response.Body.Close()
	}

	tc.response, err = tc.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}

	tc.responseBody, err = io.ReadAll(tc.response.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	return nil
}

// theResponseStatusShouldBe asserts the response status code.
func (tc *testContext) theResponseStatusShouldBe(expectedCode int) error {
	if tc.response == nil {
		return fmt.Errorf("no response received")
	}

	if tc.response.StatusCode != expectedCode {
		return fmt.Errorf("expected status %d, got %d. Body: %s",
			expectedCode, tc.response.StatusCode, string(tc.responseBody))
	}

	return nil
}

// theResponseShouldContain asserts the response body contains the given text.
func (tc *testContext) theResponseShouldContain(text string) error {
	if body := string(tc.responseBody); !strings.Contains(body, text) {
		return fmt.Errorf("response body does not contain %q.\nBody: %s", text, body)
	}

	return nil
}

func (tc *testContext) theResponseBodyShouldBe(expected string) error {
	if body := strings.TrimSpace(string(tc.responseBody)); body != expected {
		return fmt.Errorf("expected body %q, got %q", expected, body)
	}

	return nil
}

func (tc *testContext) theResponseShouldBeAListOfQuotes(n int) error {
	var quotes []dto.QuoteResponse
	if err := json.Unmarshal(tc.responseBody, &quotes); err != nil {
		return fmt.Errorf("decoding quote list: %w", err)
	}

	if len(quotes) != n {
		return fmt.Errorf("expected %d quotes, got %d: %s", n, len(quotes), string(tc.responseBody))
	}

	return nil
}

func (tc *testContext) theResponseQuoteIDShouldBe(id int64) error {
	var quote dto.QuoteResponse
	if err := json.Unmarshal(tc.responseBody, &quote); err != nil {
		return fmt.Errorf("decoding quote: %w", err)
	}

	if quote.ID != id {
		return fmt.Errorf("expected quote %d, got %d", id, quote.ID)
	}

	return nil
}

// theResponseQuoteIDsShouldBe compares the ids of a quote list, in order,
// against a comma separated list.
func (tc *testContext) theResponseQuoteIDsShouldBe(expected string) error {
	var quotes []dto.QuoteResponse
	if err := json.Unmarshal(tc.responseBody, &quotes); err != nil {
		return fmt.Errorf("decoding quote list: %w", err)
	}

	got := make([]string, 0, len(quotes))
	for _, q := range quotes {
		got = append(got, strconv.FormatInt(q.ID, 10))
	}

	if joined := strings.Join(got, ","); joined != expected {
		return fmt.Errorf("expected ids %q, got %q", expected, joined)
	}

	return nil
}

func (tc *testContext) zenQuotesShouldHaveBeenCalled(n int) error {
	if calls := int(tc.h.zen.calls.Load()); calls != n {
		return fmt.Errorf("expected %d ZenQuotes calls, got %d", n, calls)
	}

	return nil
}

// TestFeatures runs the GoDog BDD test suite.
func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"../features"},
			TestingT: t,
			Tags:     os.Getenv("GODOG_TAGS"),
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
