package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestServer(t *testing.T, opts Options) *httptest.Server {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	app := NewApp(ctx, nil, opts, zap.NewNop())
	srv := httptest.NewServer(app.Router)
	t.Cleanup(srv.Close)
	return srv
}

type client struct {
	t     *testing.T
	base  string
	token string
}

func (c *client) do(method, path string, body any, out any) int {
	c.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, c.base+path, &buf)
	require.NoError(c.t, err)
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(c.t, err)
	defer resp.Body.Close()
	if out != nil && resp.StatusCode != http.StatusNoContent {
		require.NoError(c.t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

type sessionBody struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Snapshot struct {
		Symbols []string `json:"symbols"`
		Axioms  []string `json:"axioms"`
		Truths  []string `json:"truths"`
	} `json:"snapshot"`
}

func TestRouter_Health(t *testing.T) {
	srv := newTestServer(t, Options{})
	c := &client{t: t, base: srv.URL}

	var body map[string]any
	assert.Equal(t, http.StatusOK, c.do(http.MethodGet, "/health", nil, &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, false, body["persistent"])
}

func TestRouter_Metrics(t *testing.T) {
	srv := newTestServer(t, Options{})
	c := &client{t: t, base: srv.URL}
	c.do(http.MethodGet, "/health", nil, nil)

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	var buf bytes.Buffer
	_, err = buf.ReadFrom(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, strings.Contains(buf.String(), "reason_http_requests_total"))
}

func TestRouter_SessionLifecycle(t *testing.T) {
	srv := newTestServer(t, Options{MaxThinkCycles: 50})
	c := &client{t: t, base: srv.URL}

	var created sessionBody
	status := c.do(http.MethodPost, "/v1/sessions", map[string]any{
		"name":   "The Innovator",
		"seed":   7,
		"axioms": []string{"result = a*b + c"},
	}, &created)
	require.Equal(t, http.StatusCreated, status)
	require.NotEmpty(t, created.ID)
	assert.Equal(t, []string{"result = a*b + c"}, created.Snapshot.Axioms)
	base := "/v1/sessions/" + created.ID

	var verdict struct {
		Verdict bool `json:"verdict"`
	}
	require.Equal(t, http.StatusOK, c.do(http.MethodPost, base+"/verify", map[string]string{"equation": "result = a*a + a"}, &verdict))
	assert.False(t, verdict.Verdict)

	for _, a := range []string{"b = a", "c = a"} {
		require.Equal(t, http.StatusCreated, c.do(http.MethodPost, base+"/axioms", map[string]string{"equation": a}, nil))
	}
	require.Equal(t, http.StatusOK, c.do(http.MethodPost, base+"/verify", map[string]string{"equation": "result = a*a + a"}, &verdict))
	assert.True(t, verdict.Verdict)

	var errBody map[string]string
	assert.Equal(t, http.StatusNotFound, c.do(http.MethodGet, base+"/solve/b", nil, &errBody))

	var learned map[string]bool
	require.Equal(t, http.StatusOK, c.do(http.MethodPost, base+"/truths", map[string]string{"equation": "d = (a + 1)**2"}, &learned))
	assert.True(t, learned["learned"])
	require.Equal(t, http.StatusOK, c.do(http.MethodPost, base+"/truths", map[string]string{"equation": "d = (a + 1)**2"}, &learned))
	assert.False(t, learned["learned"])

	var simplified map[string]string
	require.Equal(t, http.StatusOK, c.do(http.MethodPost, base+"/truths/0/simplify", nil, &simplified))
	assert.Equal(t, "d = (a + 1)**2", simplified["before"])
	assert.Equal(t, "d = a**2 + 2*a + 1", simplified["after"])
	assert.Equal(t, http.StatusBadRequest, c.do(http.MethodPost, base+"/truths/4/simplify", nil, &errBody))
	assert.Equal(t, http.StatusBadRequest, c.do(http.MethodPost, base+"/truths/x/simplify", nil, &errBody))

	var solved map[string]string
	require.Equal(t, http.StatusOK, c.do(http.MethodGet, base+"/solve/d", nil, &solved))
	assert.Equal(t, "a**2 + 2*a + 1", solved["solution"])

	var think struct {
		Report struct {
			Cycles int `json:"cycles"`
		} `json:"report"`
		Events []map[string]any `json:"events"`
	}
	require.Equal(t, http.StatusOK, c.do(http.MethodPost, base+"/think", map[string]any{"cycles": 10, "seed": 3}, &think))
	assert.Equal(t, 10, think.Report.Cycles)
	assert.NotEmpty(t, think.Events)
	assert.Equal(t, http.StatusBadRequest, c.do(http.MethodPost, base+"/think", map[string]any{"cycles": 51}, &errBody))

	var got sessionBody
	require.Equal(t, http.StatusOK, c.do(http.MethodGet, base, nil, &got))
	assert.Equal(t, "The Innovator", got.Name)
	assert.Len(t, got.Snapshot.Axioms, 3)

	var list struct {
		Sessions []sessionBody `json:"sessions"`
	}
	require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/v1/sessions", nil, &list))
	assert.Len(t, list.Sessions, 1)

	assert.Equal(t, http.StatusNoContent, c.do(http.MethodDelete, base, nil, nil))
	assert.Equal(t, http.StatusNotFound, c.do(http.MethodGet, base, nil, &errBody))
}

func TestRouter_BadRequests(t *testing.T) {
	srv := newTestServer(t, Options{})
	c := &client{t: t, base: srv.URL}

	var created sessionBody
	require.Equal(t, http.StatusCreated, c.do(http.MethodPost, "/v1/sessions", map[string]any{"name": "x"}, &created))
	base := "/v1/sessions/" + created.ID

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		want   int
	}{
		{"missing name", http.MethodPost, "/v1/sessions", map[string]any{}, http.StatusBadRequest},
		{"bad mode", http.MethodPost, "/v1/sessions", map[string]any{"name": "x", "verification": "psychic"}, http.StatusBadRequest},
		{"bad chance", http.MethodPost, "/v1/sessions", map[string]any{"name": "x", "creativity_chance": 3}, http.StatusBadRequest},
		{"bad axiom in create", http.MethodPost, "/v1/sessions", map[string]any{"name": "x", "axioms": []string{"a"}}, http.StatusBadRequest},
		{"unknown field", http.MethodPost, base + "/verify", map[string]any{"equation": "a = b", "extra": 1}, http.StatusBadRequest},
		{"no equals", http.MethodPost, base + "/axioms", map[string]any{"equation": "a + b"}, http.StatusBadRequest},
		{"parse error", http.MethodPost, base + "/truths", map[string]any{"equation": "a = (b"}, http.StatusBadRequest},
		{"bad id", http.MethodGet, "/v1/sessions/not-a-uuid", nil, http.StatusBadRequest},
		{"unknown session", http.MethodGet, "/v1/sessions/2b4c3f9e-8a1d-4e5f-9c2b-7d6e5f4a3b21", nil, http.StatusNotFound},
		{"negative cycles", http.MethodPost, base + "/think", map[string]any{"cycles": -1}, http.StatusBadRequest},
		{"bad limit", http.MethodGet, "/v1/sessions?limit=0", nil, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body map[string]any
			assert.Equal(t, tt.want, c.do(tt.method, tt.path, tt.body, &body))
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestRouter_CreateWithBadAxiomLeavesNoSession(t *testing.T) {
	srv := newTestServer(t, Options{})
	c := &client{t: t, base: srv.URL}

	var body map[string]any
	req := map[string]any{"name": "x", "axioms": []string{"result = a*b + c", "b = (a"}}
	require.Equal(t, http.StatusBadRequest, c.do(http.MethodPost, "/v1/sessions", req, &body))
	assert.NotEmpty(t, body["error"])

	var list struct {
		Sessions []sessionBody `json:"sessions"`
	}
	require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/v1/sessions", nil, &list))
	assert.Empty(t, list.Sessions)
}

func TestRouter_APIKey(t *testing.T) {
	srv := newTestServer(t, Options{APIKey: "k"})

	anon := &client{t: t, base: srv.URL}
	var body map[string]any
	assert.Equal(t, http.StatusUnauthorized, anon.do(http.MethodGet, "/v1/sessions", nil, &body))
	assert.Equal(t, http.StatusOK, anon.do(http.MethodGet, "/health", nil, &body))

	authed := &client{t: t, base: srv.URL, token: "k"}
	assert.Equal(t, http.StatusOK, authed.do(http.MethodGet, "/v1/sessions", nil, &body))
}

func TestRouter_RateLimit(t *testing.T) {
	srv := newTestServer(t, Options{RateLimitRPS: 0.001, RateLimitBurst: 1})
	c := &client{t: t, base: srv.URL}

	var body map[string]any
	assert.Equal(t, http.StatusOK, c.do(http.MethodGet, "/health", nil, &body))
	assert.Equal(t, http.StatusTooManyRequests, c.do(http.MethodGet, "/health", nil, &body))
}
