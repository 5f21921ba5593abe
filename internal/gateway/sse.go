package gateway

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rahul/quill/internal/agent"
	"github.com/rahul/quill/internal/observability"
)

// sseStream writes events to one client as SSE frames. Send reports
// write failures so the caller can stop emitting once the peer is gone.
type sseStream struct {
	w       http.ResponseWriter
	flusher http.Flusher
}

func newSSEStream(w http.ResponseWriter) (*sseStream, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, fmt.Errorf("streaming unsupported by connection")
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()
	return &sseStream{w: w, flusher: flusher}, nil
}

func (s *sseStream) Send(evt agent.Event) error {
	data, err := json.Marshal(evt)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(s.w, "data: %s\n\n", data); err != nil {
		return err
	}
	s.flusher.Flush()
	return nil
}

// handleSSE holds a bare push stream open: a connected greeting, the
// operation catalog, then heartbeats until the client goes away. No
// start, result or done events are ever sent on this path.
func (s *Server) handleSSE(w http.ResponseWriter, r *http.Request) {
	stream, err := newSSEStream(w)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	observability.StreamStarted()
	defer observability.StreamEnded()

	if err := stream.Send(agent.Connected("connected to document stream")); err != nil {
		return
	}
	if err := stream.Send(agent.ToolList(s.registry.Names())); err != nil {
		return
	}

	ticker := time.NewTicker(s.cfg.Server.Heartbeat())
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case t := <-ticker.C:
			observability.Heartbeat()
			if s.logger != nil {
				s.logger.LogHeartbeat()
			}
			if err := stream.Send(agent.Heartbeat(t)); err != nil {
				return
			}
		}
	}
}

// handleSSECall runs a single operation with streamed progress:
// start, then either an error frame (unknown operation, no done) or
// the result frame followed by done.
func (s *Server) handleSSECall(w http.ResponseWriter, r *http.Request) {
	var req ToolCallRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	stream, err := newSSEStream(w)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	observability.StreamStarted()
	defer observability.StreamEnded()

	if err := stream.Send(agent.StepStart(req.Tool, 1, req.Tool)); err != nil {
		return
	}

	if s.registry.Get(req.Tool) == nil {
		_ = stream.Send(agent.StepError(fmt.Sprintf("unknown operation: %s", req.Tool), 1))
		return
	}

	res, denied := s.checkPolicy(r, req)
	if !denied {
		res = s.registry.Dispatch(r.Context(), req.Tool, req.Params)
	}
	if s.logger != nil {
		s.logger.LogToolResult("", req.Tool, res.Success)
	}

	if err := stream.Send(agent.StepResult(req.Tool, 1, req.Tool, res)); err != nil {
		return
	}
	_ = stream.Send(agent.Event{Type: agent.EventDone})
}

// handleSSEAgent builds the full document plan from the request and
// streams the run over the same connection it arrived on.
func (s *Server) handleSSEAgent(w http.ResponseWriter, r *http.Request) {
	var req agent.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	title, documentID := agent.Normalize(req)
	plan := agent.BuildPlan(title, documentID)

	stream, err := newSSEStream(w)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	observability.StreamStarted()
	defer observability.StreamEnded()
	observability.SetLastDocument(documentID)

	s.runner.Run(r.Context(), plan, stream, documentID, title)
}
