package gateway

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/rahul/quill/internal/agent"
	"github.com/rahul/quill/internal/document"
	"github.com/rahul/quill/internal/governance"
	"github.com/rahul/quill/internal/observability"
	"github.com/rahul/quill/internal/store"
	"github.com/rahul/quill/internal/tools"
	"github.com/rahul/quill/pkg/config"
)

const Version = "1.0.0"

// Server exposes the operation registry and the plan orchestrator
// over HTTP, with SSE push streams for the long-lived paths.
type Server struct {
	cfg      *config.Config
	registry *tools.Registry
	runner   *agent.Runner
	policy   governance.PolicyEngine
	index    *store.IndexStore
	logger   *observability.Logger

	mux *http.ServeMux
	srv *http.Server
}

func NewServer(
	cfg *config.Config,
	registry *tools.Registry,
	runner *agent.Runner,
	policy governance.PolicyEngine,
	index *store.IndexStore,
	logger *observability.Logger,
) *Server {
	s := &Server{
		cfg:      cfg,
		registry: registry,
		runner:   runner,
		policy:   policy,
		index:    index,
		logger:   logger,
		mux:      http.NewServeMux(),
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.mux.HandleFunc("GET /", s.handleRoot)
	s.mux.HandleFunc("GET /tools", s.handleTools)
	s.mux.HandleFunc("POST /call", s.handleCall)
	s.mux.HandleFunc("GET /documents", s.handleDocuments)
	s.mux.HandleFunc("GET /runs", s.handleRuns)
	s.mux.HandleFunc("GET /sse", s.handleSSE)
	s.mux.HandleFunc("POST /sse/call", s.handleSSECall)
	s.mux.HandleFunc("POST /sse/agent", s.handleSSEAgent)
}

// Handler returns the fully wrapped HTTP handler.
func (s *Server) Handler() http.Handler {
	return recoveryMiddleware(loggingMiddleware(s.logger, s.mux))
}

// Start blocks serving HTTP until the listener fails or Shutdown is called.
func (s *Server) Start() error {
	s.srv = &http.Server{
		Addr:        s.cfg.Server.Addr(),
		Handler:     s.Handler(),
		ReadTimeout: 30 * time.Second,
		// No WriteTimeout: SSE connections stay open indefinitely.
		IdleTimeout: 120 * time.Second,
	}
	return s.srv.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.srv == nil {
		return nil
	}
	return s.srv.Shutdown(ctx)
}

// ToolCallRequest names one operation and its parameters.
type ToolCallRequest struct {
	Tool   string         `json:"tool"`
	Params map[string]any `json:"params"`
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"name":    s.cfg.App.Name,
		"version": Version,
		"status":  "running",
		"endpoints": map[string]string{
			"tools":     "/tools",
			"call":      "/call (POST)",
			"documents": "/documents",
			"runs":      "/runs",
			"sse":       "/sse",
			"sse_call":  "/sse/call (POST)",
			"sse_agent": "/sse/agent (POST)",
		},
	})
}

func (s *Server) handleTools(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"tools": s.registry.Describe()})
}

// handleCall invokes one operation synchronously and returns its
// Result. An unknown operation is a failure Result here, not an
// abort: there is no plan to abort.
func (s *Server) handleCall(w http.ResponseWriter, r *http.Request) {
	var req ToolCallRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, document.Fail("invalid request body: %v", err))
		return
	}

	if res, denied := s.checkPolicy(r, req); denied {
		writeJSON(w, http.StatusOK, res)
		return
	}

	if s.logger != nil {
		s.logger.LogToolCall("", req.Tool, req.Params)
	}
	res := s.registry.Dispatch(r.Context(), req.Tool, req.Params)
	if s.logger != nil {
		s.logger.LogToolResult("", req.Tool, res.Success)
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleDocuments(w http.ResponseWriter, r *http.Request) {
	res := s.registry.Dispatch(r.Context(), "list_documents", nil)
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleRuns(w http.ResponseWriter, r *http.Request) {
	if s.index == nil {
		writeJSON(w, http.StatusOK, map[string]any{"runs": []any{}, "count": 0})
		return
	}
	runs, err := s.index.RecentRuns(20)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, document.Fail("failed to list runs: %v", err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"runs": runs, "count": len(runs)})
}

// checkPolicy evaluates the governance rules for a direct invocation.
// A denial comes back as a failure Result, preserving the invariant
// that operation calls always yield a Result.
func (s *Server) checkPolicy(r *http.Request, req ToolCallRequest) (document.Result, bool) {
	if s.policy == nil {
		return document.Result{}, false
	}
	args, _ := json.Marshal(req.Params)
	verdict, err := s.policy.Evaluate(r.Context(), governance.Request{
		Operation: req.Tool,
		Arguments: string(args),
		Remote:    r.RemoteAddr,
	})
	if err != nil {
		return document.Fail("policy evaluation failed: %v", err), true
	}
	if verdict.Effect == governance.EffectDeny {
		return document.Fail("%s", verdict.Reason), true
	}
	return document.Result{}, false
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}
