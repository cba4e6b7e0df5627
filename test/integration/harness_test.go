//go:build integration

package integration

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/quote-service/internal/adapters/clients"
	"github.com/jsamuelsen/quote-service/internal/adapters/clients/acl"
	apphttp "github.com/jsamuelsen/quote-service/internal/adapters/http"
	"github.com/jsamuelsen/quote-service/internal/adapters/http/handlers"
	"github.com/jsamuelsen/quote-service/internal/adapters/repository"
	"github.com/jsamuelsen/quote-service/internal/app"
	"github.com/jsamuelsen/quote-service/internal/platform/config"
	"github.com/jsamuelsen/quote-service/internal/ports"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// testClientConfig returns a client config tuned for fast retries.
func testClientConfig(baseURL string) *clients.Config {
	return &clients.Config{
		ServiceName: "zenquotes",
		BaseURL:     baseURL,
		Timeout:     2 * time.Second,
		Retry: config.RetryConfig{
			MaxAttempts:     3,
			InitialInterval: 10 * time.Millisecond,
			MaxInterval:     100 * time.Millisecond,
			Multiplier:      2.0,
		},
		Circuit: config.CircuitBreakerConfig{
			MaxFailures:   3,
			Timeout:       100 * time.Millisecond,
			HalfOpenLimit: 2,
		},
		UserAgent: "quote-service/integration",
		Logger:    discardLogger(),
	}
}

// zenQuoteEntry is the wire shape served by the ZenQuotes stub.
type zenQuoteEntry struct {
	Q string `json:"q"`
	A string `json:"a"`
}

// zenQuotesStub serves /api/quotes with a configurable batch or status.
type zenQuotesStub struct {
	server *httptest.Server

	mu     sync.Mutex
	status int
	batch  []zenQuoteEntry
	header http.Header
	calls  atomic.Int32
}

func newZenQuotesStub() *zenQuotesStub {
	stub := &zenQuotesStub{status: http.StatusOK, batch: []zenQuoteEntry{}}
	stub.server = httptest.NewServer(http.HandlerFunc(stub.serve))

	return stub
}

func (s *zenQuotesStub) serve(w http.ResponseWriter, r *http.Request) {
	s.calls.Add(1)

	s.mu.Lock()
	status, batch := s.status, s.batch
	s.header = r.Header.Clone()
	s.mu.Unlock()

	if r.URL.Path != "/api/quotes" {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	if status != http.StatusOK {
		w.WriteHeader(status)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(batch)
}

func (s *zenQuotesStub) respondWith(batch []zenQuoteEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.status = http.StatusOK
	s.batch = batch
}

func (s *zenQuotesStub) failWith(status int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.status = status
}

func (s *zenQuotesStub) lastHeader() http.Header {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.header
}

func (s *zenQuotesStub) close() {
	s.server.Close()
}

// harness runs the full service stack in-process: a sqlite store in a
// temporary directory, the instrumented client pointed at a ZenQuotes stub,
// and the production router behind an httptest server.
type harness struct {
	dir    string
	zen    *zenQuotesStub
	store  repository.Store
	client *clients.Client
	server *httptest.Server
}

func newHarness(ctx context.Context) (*harness, error) {
	dir, err := os.MkdirTemp("", "quotes-integration-*")
	if err != nil {
		return nil, fmt.Errorf("creating temp dir: %w", err)
	}

	h := &harness{dir: dir, zen: newZenQuotesStub()}

	h.store, err = repository.Open(ctx, repository.Config{
		Driver:     repository.DriverSQLite,
		SQLitePath: filepath.Join(dir, "quotes.db"),
	}, discardLogger())
	if err != nil {
		h.close()
		return nil, fmt.Errorf("opening store: %w", err)
	}

	h.client, err = clients.New(testClientConfig(h.zen.server.URL))
	if err != nil {
		h.close()
		return nil, fmt.Errorf("creating client: %w", err)
	}

	provider := acl.NewZenQuotesClient(acl.ZenQuotesConfig{
		Client: h.client,
		Logger: discardLogger(),
	})

	registry := ports.NewHealthRegistry()
	dependencies := ports.NewHealthRegistry()
	if err := errors.Join(registry.Register(h.store), dependencies.Register(provider)); err != nil {
		h.close()
		return nil, err
	}

	service := app.NewQuoteService(app.QuoteServiceConfig{
		Store:    h.store,
		Provider: provider,
		Logger:   discardLogger(),
	})

	engine := apphttp.NewRouter(apphttp.RouterConfig{
		Logger:         discardLogger(),
		AllowedOrigins: []string{"http://localhost:3000"},
		Health:         handlers.NewHealthHandler(registry, handlers.NewBuildInfo("integration", "none", "now")).WithDependencies(dependencies),
		Quotes:         handlers.NewQuoteHandler(service),
	})

	h.server = httptest.NewServer(engine)

	return h, nil
}

func (h *harness) close() {
	if h.server != nil {
		h.server.Close()
	}

	if h.store != nil {
		_ = h.store.Close()
	}

	h.zen.close()
	_ = os.RemoveAll(h.dir)
}
