package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rahul/quill/internal/agent"
	"github.com/rahul/quill/internal/document"
	"github.com/rahul/quill/internal/gateway"
	"github.com/rahul/quill/internal/governance"
	"github.com/rahul/quill/internal/observability"
	"github.com/rahul/quill/internal/store"
	"github.com/rahul/quill/internal/tools"
	"github.com/rahul/quill/pkg/config"
)

func main() {
	observability.PrintBanner()
	observability.InitializeTerminal()

	// Route all log output through the terminal mutex so it never
	// interrupts the dashboard's cursor save/restore sequence.
	log.SetOutput(observability.NewTermWriter())

	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatal(err)
	}

	docs, err := document.NewStore(cfg.Store.DocsDir)
	if err != nil {
		log.Fatal(err)
	}

	registry := tools.NewRegistry()
	registry.Register(tools.NewCreateTool(docs))
	registry.Register(tools.NewReadTool(docs))
	registry.Register(tools.NewUpdateTool(docs))
	registry.Register(tools.NewDeleteTool(docs))
	registry.Register(tools.NewListTool(docs))
	registry.Register(tools.NewTableTool(docs))
	registry.Register(tools.NewSearchReplaceTool(docs))

	gov := governance.NewDefaultPolicyEngine()
	for _, op := range cfg.Policy.DeniedOperations {
		gov.DenyOperation(op)
	}
	for _, pattern := range cfg.Policy.DeniedPatterns {
		if err := gov.DenyArguments(pattern); err != nil {
			log.Printf("Warning: invalid policy pattern %q: %v", pattern, err)
		}
	}

	index, err := store.NewIndexStore(cfg.Store.IndexPath)
	if err != nil {
		log.Fatal(err)
	}
	defer index.Close()

	logger := observability.NewLogger()
	runner := agent.NewRunner(registry, logger, index)
	srv := gateway.NewServer(cfg, registry, runner, gov, index, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Live Resource Dashboard (1-second updates)
	go func() {
		ticker := time.NewTicker(1 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				observability.PrintLiveStatus()
			}
		}
	}()

	go func() {
		ticker := time.NewTicker(cfg.Server.Heartbeat())
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				observability.Heartbeat()
			}
		}
	}()

	go func() {
		log.Printf("[ BOOT ] %s listening on %s", cfg.App.Name, cfg.Server.Addr())
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			log.Printf("\033[91m[ FAIL ] GATEWAY CRITICAL ERROR: %v\033[0m", err)
			stop()
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown error: %v", err)
	}

	// Reset terminal aesthetics
	observability.CleanupTerminal()

	time.Sleep(500 * time.Millisecond)
	log.Println("\033[95m[ EXIT ] CORE DE-INITIALIZED. GOODBYE.\033[0m")
}
