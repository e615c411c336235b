package sse

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	s := NewServer(newTestAdapter(t, true), Info{
		Version:              "1.2.3",
		Storage:              "memory",
		Search:               "none",
		ConfirmationRequired: true,
	})
	srv := httptest.NewServer(s.Handler())
	t.Cleanup(srv.Close)
	return srv
}

// readEvent returns the JSON payload of a single SSE frame.
func readEvent(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	frame := string(body)
	require.True(t, strings.HasPrefix(frame, "data: "), frame)
	require.True(t, strings.HasSuffix(frame, "\n\n"), frame)

	var payload map[string]any
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSuffix(strings.TrimPrefix(frame, "data: "), "\n\n")), &payload))
	return payload
}

func TestSSE_ToolsList(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Post(srv.URL+"/sse", "application/json", strings.NewReader(`{"method":"tools/list"}`))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))
	assert.Equal(t, "no-cache", resp.Header.Get("Cache-Control"))
	assert.Equal(t, "no", resp.Header.Get("X-Accel-Buffering"))

	payload := readEvent(t, resp)
	list, ok := payload["tools"].([]any)
	require.True(t, ok)
	assert.Len(t, list, 3)
}

func TestSSE_ToolsCall(t *testing.T) {
	srv := newTestServer(t)

	body := `{"method":"tools/call","params":{"name":"search_existing_prds","arguments":{"query":"anything"}}}`
	resp, err := http.Post(srv.URL+"/sse", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	payload := readEvent(t, resp)
	content, ok := payload["content"].([]any)
	require.True(t, ok)
	require.Len(t, content, 1)
	block := content[0].(map[string]any)
	assert.Equal(t, "text", block["type"])
	assert.Contains(t, block["text"], `"results_count": 0`)
}

func TestSSE_MissingArgument(t *testing.T) {
	srv := newTestServer(t)

	body := `{"method":"tools/call","params":{"name":"get_prd","arguments":{}}}`
	resp, err := http.Post(srv.URL+"/sse", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	payload := readEvent(t, resp)
	assert.Equal(t, "missing required argument: prd_id", payload["error"])
}

func TestSSE_InvalidBody(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Post(srv.URL+"/sse", "application/json", strings.NewReader(`{not json`))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	payload := readEvent(t, resp)
	assert.Contains(t, payload["error"], "invalid request")
}

func TestSSE_UnknownMethod(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Post(srv.URL+"/sse", "application/json", strings.NewReader(`{"method":"ping"}`))
	require.NoError(t, err)
	defer resp.Body.Close()

	payload := readEvent(t, resp)
	assert.Equal(t, "unknown method: ping", payload["error"])
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	var health Health
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&health))
	assert.Equal(t, Health{
		Status:               "healthy",
		Service:              ServiceName,
		Storage:              "memory",
		Search:               "none",
		ConfirmationRequired: true,
	}, health)
}

func TestInfo(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()

	var info ServiceInfo
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&info))
	assert.Equal(t, "1.2.3", info.Version)
	assert.Equal(t, "/sse", info.Endpoints["sse"])
	assert.Equal(t, []string{"search_existing_prds", "get_prd", "store_prd"}, info.Tools)
}

func TestUnknownPath(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/nope")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(t)

	_, err := http.Post(srv.URL+"/sse", "application/json", strings.NewReader(`{"method":"tools/call","params":{"name":"get_prd","arguments":{"prd_id":"missing"}}}`))
	require.NoError(t, err)

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "prdstore_tool_calls_total")
}

func TestRun_ShutsDownOnCancel(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())

	s := NewServer(newTestAdapter(t, true), Info{})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx, addr) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + addr + "/health")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
