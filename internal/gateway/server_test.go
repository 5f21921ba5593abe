package gateway

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rahul/quill/internal/agent"
	"github.com/rahul/quill/internal/document"
	"github.com/rahul/quill/internal/governance"
	"github.com/rahul/quill/internal/tools"
	"github.com/rahul/quill/pkg/config"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	cfg := config.Default()
	cfg.Server.HeartbeatSeconds = 1

	store, err := document.NewStore(t.TempDir())
	require.NoError(t, err)

	registry := tools.NewRegistry()
	registry.Register(tools.NewCreateTool(store))
	registry.Register(tools.NewReadTool(store))
	registry.Register(tools.NewUpdateTool(store))
	registry.Register(tools.NewDeleteTool(store))
	registry.Register(tools.NewListTool(store))
	registry.Register(tools.NewTableTool(store))
	registry.Register(tools.NewSearchReplaceTool(store))

	gov := governance.NewDefaultPolicyEngine()
	gov.DenyOperation("delete_document")

	runner := agent.NewRunner(registry, nil, nil)
	srv := NewServer(cfg, registry, runner, gov, nil, nil)

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

// readEvents decodes SSE frames until EOF or max frames.
func readEvents(t *testing.T, r io.Reader, max int) []agent.Event {
	t.Helper()
	var events []agent.Event
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "data: ") {
			continue
		}
		var evt agent.Event
		require.NoError(t, json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &evt))
		events = append(events, evt)
		if max > 0 && len(events) >= max {
			break
		}
	}
	return events
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	require.NoError(t, err)
	return resp
}

func decodeResult(t *testing.T, resp *http.Response) document.Result {
	t.Helper()
	defer resp.Body.Close()
	var res document.Result
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
	return res
}

func TestRootEndpoint(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "quill", body["name"])
	assert.Equal(t, "running", body["status"])
	assert.Contains(t, body, "endpoints")
}

func TestToolsEndpoint(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/tools")
	require.NoError(t, err)
	defer resp.Body.Close()

	var body struct {
		Tools map[string]any `json:"tools"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Len(t, body.Tools, 7)
	assert.Contains(t, body.Tools, "create_document")
	assert.Contains(t, body.Tools, "search_replace")
}

func TestCallEndpoint(t *testing.T) {
	ts := newTestServer(t)

	res := decodeResult(t, postJSON(t, ts.URL+"/call", ToolCallRequest{
		Tool:   "create_document",
		Params: map[string]any{"filename": "doc", "title": "T", "content": "hello"},
	}))
	require.True(t, res.Success, res.Error)

	res = decodeResult(t, postJSON(t, ts.URL+"/call", ToolCallRequest{
		Tool: "no_such_operation",
	}))
	assert.False(t, res.Success)
	assert.Equal(t, "unknown operation: no_such_operation", res.Error)
}

func TestCallEndpointPolicyDenial(t *testing.T) {
	ts := newTestServer(t)

	res := decodeResult(t, postJSON(t, ts.URL+"/call", ToolCallRequest{
		Tool:   "delete_document",
		Params: map[string]any{"filename": "doc"},
	}))
	assert.False(t, res.Success)
	assert.Contains(t, res.Error, "restricted by server policy")
}

func TestDocumentsEndpoint(t *testing.T) {
	ts := newTestServer(t)

	resp := postJSON(t, ts.URL+"/call", ToolCallRequest{
		Tool:   "create_document",
		Params: map[string]any{"filename": "doc"},
	})
	resp.Body.Close()

	res, err := http.Get(ts.URL + "/documents")
	require.NoError(t, err)
	listing := decodeResult(t, res)
	require.True(t, listing.Success)
	assert.Equal(t, float64(1), listing.Data["count"])
}

func TestWriteJSONEncodeFailureIsLogged(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)

	rec := httptest.NewRecorder()
	writeJSON(rec, http.StatusOK, map[string]any{"bad": make(chan int)})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, buf.String(), "failed to encode response")
}

func TestSSEStreamIsPassive(t *testing.T) {
	ts := newTestServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ts.URL+"/sse", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	events := readEvents(t, resp.Body, 3)
	require.Len(t, events, 3)
	assert.Equal(t, agent.EventConnected, events[0].Type)
	assert.Equal(t, agent.EventTools, events[1].Type)
	assert.Len(t, events[1].Tools, 7)
	// Nothing but heartbeats after the greeting.
	assert.Equal(t, agent.EventHeartbeat, events[2].Type)
	assert.NotEmpty(t, events[2].Time)
}

func TestSSECallStreamsResult(t *testing.T) {
	ts := newTestServer(t)

	resp := postJSON(t, ts.URL+"/sse/call", ToolCallRequest{
		Tool:   "create_document",
		Params: map[string]any{"filename": "doc", "title": "T"},
	})
	defer resp.Body.Close()

	events := readEvents(t, resp.Body, 0)
	require.Len(t, events, 3)
	assert.Equal(t, agent.EventStart, events[0].Type)
	assert.Equal(t, agent.EventResult, events[1].Type)
	assert.Equal(t, agent.EventDone, events[2].Type)
}

func TestSSECallUnknownOperation(t *testing.T) {
	ts := newTestServer(t)

	resp := postJSON(t, ts.URL+"/sse/call", ToolCallRequest{Tool: "nope"})
	defer resp.Body.Close()

	events := readEvents(t, resp.Body, 0)
	require.Len(t, events, 2)
	assert.Equal(t, agent.EventStart, events[0].Type)
	assert.Equal(t, agent.EventError, events[1].Type)
	assert.Equal(t, "unknown operation: nope", events[1].Error)
}

func TestSSEAgentRunsFullPlan(t *testing.T) {
	ts := newTestServer(t)

	resp := postJSON(t, ts.URL+"/sse/agent", agent.Request{Query: "Go Testing"})
	defer resp.Body.Close()

	events := readEvents(t, resp.Body, 0)
	steps := 2*agent.SectionCount + 2
	require.Len(t, events, 3*steps+1)

	for i := 0; i < steps; i++ {
		assert.Equal(t, agent.EventProgress, events[3*i].Type)
		assert.Equal(t, agent.EventStart, events[3*i+1].Type)
		assert.Equal(t, agent.EventResult, events[3*i+2].Type)
	}
	assert.Equal(t, agent.EventDone, events[len(events)-1].Type)

	// The plan really wrote the document.
	r, err := http.Get(ts.URL + "/documents")
	require.NoError(t, err)
	listing := decodeResult(t, r)
	require.True(t, listing.Success)
	assert.Equal(t, float64(1), listing.Data["count"])
}
