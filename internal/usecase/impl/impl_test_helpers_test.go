package impl

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"storefront/config"
	"storefront/internal/infra/api"
	"storefront/internal/infra/querycache"
	"storefront/internal/infra/transport"

	"github.com/stretchr/testify/require"
)

const loginMessage = "Authentication token is required, Please Login first"

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// fakeBackend serves canned responses and counts hits per "METHOD path".
type fakeBackend struct {
	mu     sync.Mutex
	hits   map[string]int
	routes map[string]http.HandlerFunc
	server *httptest.Server
}

func newFakeBackend(t *testing.T) *fakeBackend {
	t.Helper()

	b := &fakeBackend{
		hits:   make(map[string]int),
		routes: make(map[string]http.HandlerFunc),
	}
	b.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route := r.Method + " " + r.URL.Path

		b.mu.Lock()
		b.hits[route]++
		handler, ok := b.routes[route]
		b.mu.Unlock()

		if !ok {
			writeJSON(w, http.StatusNotFound, map[string]any{"message": "Not found"})

			return
		}
		handler(w, r)
	}))
	t.Cleanup(b.server.Close)

	return b
}

func (b *fakeBackend) handle(route string, handler http.HandlerFunc) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.routes[route] = handler
}

func (b *fakeBackend) respond(route string, status int, body any) {
	b.handle(route, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, status, body)
	})
}

func (b *fakeBackend) count(route string) int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.hits[route]
}

// clientStack is the browser-context composition used by the use cases.
type clientStack struct {
	resources *api.API
	cache     *querycache.Cache
	history   *transport.History
}

func newClientStack(t *testing.T, backend *fakeBackend) clientStack {
	t.Helper()

	cfg := &config.Config{}
	cfg.API.PublicBaseURL = backend.server.URL
	cfg.Cache.StaleTime = time.Hour
	cfg.ApplyDefaults()

	history := transport.NewHistory("/cart")
	client, err := transport.NewBrowserClient(cfg, transport.NewAuthPolicy(cfg), history, newDiscardLogger())
	require.NoError(t, err)

	cache := querycache.New(cfg, newDiscardLogger())
	t.Cleanup(cache.Wait)

	return clientStack{
		resources: api.New(client),
		cache:     cache,
		history:   history,
	}
}
