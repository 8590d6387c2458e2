package telemetry

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type collector struct {
	mu       sync.Mutex
	paths    []string
	auth     []string
	received int
}

func newCollector(t *testing.T) (*collector, *httptest.Server) {
	t.Helper()

	c := &collector{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)

		c.mu.Lock()
		c.paths = append(c.paths, r.URL.Path)
		c.auth = append(c.auth, r.Header.Get("Authorization"))
		c.received += len(body)
		c.mu.Unlock()

		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)

	return c, srv
}

func TestSetup_ExportsSpansWithToken(t *testing.T) {
	c, srv := newCollector(t)

	tp, err := Setup(context.Background(), Config{
		ServiceName: "wildlife",
		BaseURL:     srv.URL + "/",
		Token:       "lf-token",
	})
	require.NoError(t, err)

	_, span := tp.Tracer("test").Start(context.Background(), "agent run")
	span.End()

	require.NoError(t, tp.Shutdown(context.Background()))

	c.mu.Lock()
	defer c.mu.Unlock()

	require.NotEmpty(t, c.paths)
	assert.Equal(t, "/v1/traces", c.paths[0])
	assert.Equal(t, "lf-token", c.auth[0])
	assert.Positive(t, c.received)
}

func TestSetup_NothingToExport(t *testing.T) {
	c, srv := newCollector(t)

	tp, err := Setup(context.Background(), Config{ServiceName: "wildlife", BaseURL: srv.URL, Token: "lf"})
	require.NoError(t, err)
	require.NoError(t, tp.Shutdown(context.Background()))

	c.mu.Lock()
	defer c.mu.Unlock()
	assert.Empty(t, c.paths)
}
