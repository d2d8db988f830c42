package transport_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/on-the-ground/effectdeps/effect"
	"github.com/on-the-ground/effectdeps/services/transport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type echo struct {
	Method string `json:"method"`
	Path   string `json:"path"`
	Query  string `json:"query"`
	Header string `json:"header"`
	Body   string `json:"body"`
}

func newEchoServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		if r.Method == http.MethodPost {
			w.WriteHeader(http.StatusCreated)
		}
		_ = json.NewEncoder(w).Encode(echo{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  r.URL.Query().Get("page"),
			Header: r.Header.Get("X-Request-Id"),
			Body:   string(body),
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func decode(t *testing.T, resp *effect.Response) echo {
	t.Helper()
	var e echo
	require.NoError(t, json.Unmarshal(resp.Body, &e))
	return e
}

func TestResty_Methods(t *testing.T) {
	srv := newEchoServer(t)
	tr := transport.NewResty(transport.Config{BaseURL: srv.URL, Timeout: time.Second})
	ctx := context.Background()

	resp, err := tr.Get(ctx, "/users", effect.WithQuery("page", "2"), effect.WithHeader("X-Request-Id", "r1"))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	got := decode(t, resp)
	assert.Equal(t, echo{Method: "GET", Path: "/users", Query: "2", Header: "r1"}, got)

	resp, err = tr.Post(ctx, "/users", map[string]string{"name": "ada"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.JSONEq(t, `{"name":"ada"}`, decode(t, resp).Body)

	resp, err = tr.Put(ctx, "/users/1", "raw")
	require.NoError(t, err)
	assert.Equal(t, "PUT", decode(t, resp).Method)
	assert.Equal(t, "raw", decode(t, resp).Body)

	resp, err = tr.Delete(ctx, "/users/1")
	require.NoError(t, err)
	assert.Equal(t, "DELETE", decode(t, resp).Method)
}

func TestResty_AsEffectTransport(t *testing.T) {
	srv := newEchoServer(t)
	deps := effect.Dependencies{effect.KeyTransport: transport.NewResty(transport.Config{BaseURL: srv.URL})}

	path := effect.Map(
		effect.WithTransport(func(ctx context.Context, tr effect.Transport) (*effect.Response, error) {
			return tr.Get(ctx, "/ping")
		}),
		func(resp *effect.Response) int { return resp.StatusCode },
	)
	code, err := path.Run(context.Background(), deps)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, code)
}

func TestResty_RateLimitHonoursContext(t *testing.T) {
	srv := newEchoServer(t)
	tr := transport.NewResty(transport.Config{BaseURL: srv.URL, RateLimit: 0.001, Burst: 1})

	_, err := tr.Get(context.Background(), "/first")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = tr.Get(ctx, "/second")
	assert.Error(t, err)
}
